package siteclass

import "fmt"

// LayerResult is a layer's contribution to the weighted velocity.
type LayerResult struct {
	Index              int            `json:"layer"`
	SoilType           SoilType       `json:"soil_type"`
	FinesUnder15       bool           `json:"fines_under_15"`
	N1                 int            `json:"n1"`
	Thickness          float64        `json:"thickness_m"`
	EffectiveThickness float64        `json:"effective_thickness_m"`
	Truncated          bool           `json:"truncated"`
	Method             VelocityMethod `json:"vsi_method"`
	Exponent           float64        `json:"exponent,omitempty"`
	Velocity           float64        `json:"vsi_m_s"`
	Contribution       float64        `json:"ti_over_vsi"`
}

// Aggregate computes the depth-weighted harmonic mean velocity
// Vs = Σti / Σ(ti/Vsi) over the layers down to depth, truncating the
// layer that crosses it. Layers below depth are not consumed.
func Aggregate(depth float64, layers []Layer) (float64, []LayerResult, error) {
	var cumulative, numerator, denominator float64
	breakdown := make([]LayerResult, 0, len(layers))

	for _, layer := range layers {
		ti := layer.Thickness
		if cumulative+layer.Thickness > depth {
			ti = depth - cumulative
		}

		vsi := Estimate(layer)
		if !positive(vsi) {
			return 0, nil, fmt.Errorf("layer %d: %w", layer.Index, ErrInvalidVelocity)
		}
		contribution := ti / vsi

		numerator += ti
		denominator += contribution
		cumulative += ti

		breakdown = append(breakdown, LayerResult{
			Index:              layer.Index,
			SoilType:           layer.SoilType,
			FinesUnder15:       layer.FinesUnder15,
			N1:                 layer.N1,
			Thickness:          layer.Thickness,
			EffectiveThickness: ti,
			Truncated:          ti < layer.Thickness,
			Method:             Method(layer),
			Exponent:           Exponent(layer),
			Velocity:           vsi,
			Contribution:       contribution,
		})

		if cumulative >= depth {
			break
		}
	}

	if cumulative < depth {
		return 0, nil, fmt.Errorf("%.3f m available for %.3f m: %w", cumulative, depth, ErrInsufficientDepth)
	}
	vs := numerator / denominator
	if denominator == 0 || !positive(vs) {
		return 0, nil, ErrDegenerateAggregate
	}
	return vs, breakdown, nil
}
