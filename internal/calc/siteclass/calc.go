package siteclass

import "math"

type Result struct {
	DepthOfInfluence  float64       `json:"depth_of_influence_m"`
	WeightedVelocity  float64       `json:"weighted_vs_m_s"`
	SiteClass         SiteClass     `json:"site_class"`
	LayersUsed        int           `json:"layers_used"`
	TotalThickness    float64       `json:"sum_ti_m"`
	TotalContribution float64       `json:"sum_ti_over_vsi"`
	Breakdown         []LayerResult `json:"breakdown"`
}

// Calculate determines the site class of the profile down to depth.
// Failures from Aggregate are returned unchanged.
func Calculate(depth float64, layers []Layer) (Result, error) {
	if !positive(depth) {
		return Result{}, ErrInvalidDepth
	}
	if len(layers) == 0 {
		return Result{}, ErrDegenerateAggregate
	}

	vs, breakdown, err := Aggregate(depth, layers)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		DepthOfInfluence: depth,
		WeightedVelocity: vs,
		SiteClass:        Classify(vs),
		LayersUsed:       len(breakdown),
		Breakdown:        breakdown,
	}
	for _, lr := range breakdown {
		res.TotalThickness += lr.EffectiveThickness
		res.TotalContribution += lr.Contribution
	}
	return res, nil
}

// positive reports whether x is a finite number greater than zero.
// NaN fails every comparison, so x <= 0 alone lets it through.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}
