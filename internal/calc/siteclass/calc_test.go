package siteclass

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		vs   float64
		want SiteClass
	}{
		{2500, ClassA},
		{1500, ClassA},
		{1499.999, ClassB},
		{760, ClassB},
		{759.999, ClassC},
		{360, ClassC},
		{359.999, ClassD},
		{180, ClassD},
		{179.999, ClassE},
		{1, ClassE},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.vs), "vs=%v", tt.vs)
	}
}

func TestSiteClass_Range(t *testing.T) {
	assert.Equal(t, "760 ≤ Vs < 1500", ClassB.Range())
	assert.Len(t, Table4(), 5)
	for _, c := range Table4() {
		assert.NotEmpty(t, c.Range())
	}
}

func TestCalculate(t *testing.T) {
	layers := []Layer{
		{Index: 1, Thickness: 5, SoilType: Other, Vsi: 200},
		{Index: 2, Thickness: 5, SoilType: Other, Vsi: 400},
		{Index: 3, Thickness: 10, SoilType: Clay, N1: 40},
	}

	res, err := Calculate(10, layers)
	require.NoError(t, err)
	assert.Equal(t, ClassD, res.SiteClass)
	assert.Equal(t, 2, res.LayersUsed)
	assert.Len(t, res.Breakdown, 2)
	assert.Equal(t, 10.0, res.DepthOfInfluence)
	assert.InDelta(t, 10.0, res.TotalThickness, 1e-12)
	assert.InDelta(t, 0.0375, res.TotalContribution, 1e-12)
	assert.InDelta(t, res.TotalThickness/res.TotalContribution, res.WeightedVelocity, 1e-9)
}

func TestCalculate_StiffProfile(t *testing.T) {
	res, err := Calculate(30, []Layer{{Index: 1, Thickness: 30, SoilType: Other, Vsi: 1600}})
	require.NoError(t, err)
	assert.Equal(t, ClassA, res.SiteClass)
}

func TestCalculate_EmptyProfile(t *testing.T) {
	_, err := Calculate(10, nil)
	assert.ErrorIs(t, err, ErrDegenerateAggregate)
}

func TestCalculate_InvalidDepth(t *testing.T) {
	_, err := Calculate(0, []Layer{{Index: 1, Thickness: 1, SoilType: Other, Vsi: 100}})
	assert.ErrorIs(t, err, ErrInvalidDepth)

	_, err = Calculate(-3, []Layer{{Index: 1, Thickness: 1, SoilType: Other, Vsi: 100}})
	assert.ErrorIs(t, err, ErrInvalidDepth)
}

func TestCalculate_NonFiniteInputs(t *testing.T) {
	other := func(thickness, vsi float64) []Layer {
		return []Layer{{Index: 1, Thickness: thickness, SoilType: Other, Vsi: vsi}}
	}

	for _, depth := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Calculate(depth, other(5, 300))
		assert.ErrorIs(t, err, ErrInvalidDepth, "depth=%v", depth)
	}
	for _, vsi := range []float64{math.NaN(), math.Inf(1)} {
		_, err := Calculate(5, other(5, vsi))
		assert.ErrorIs(t, err, ErrInvalidVelocity, "vsi=%v", vsi)
	}

	_, err := Calculate(5, other(math.NaN(), 300))
	assert.ErrorIs(t, err, ErrDegenerateAggregate)
}

func TestCalculate_PropagatesAggregateErrors(t *testing.T) {
	_, err := Calculate(2, []Layer{{Index: 1, Thickness: 1, SoilType: Other, Vsi: 100}})
	assert.ErrorIs(t, err, ErrInsufficientDepth)

	_, err = Calculate(1, []Layer{{Index: 1, Thickness: 1, SoilType: Clay, N1: 3}})
	assert.ErrorIs(t, err, ErrInvalidVelocity)
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "insufficient_depth", ErrorCode(ErrInsufficientDepth))
	assert.Equal(t, "invalid_velocity", ErrorCode(ErrInvalidVelocity))
	assert.Equal(t, "degenerate_profile", ErrorCode(ErrDegenerateAggregate))
	assert.Equal(t, "invalid_depth", ErrorCode(ErrInvalidDepth))
	assert.Equal(t, "invalid_input", ErrorCode(&ValidationError{Problems: []string{"x"}}))
	assert.Equal(t, "internal_error", ErrorCode(assert.AnError))
}
