package siteclass

import "math"

type SoilType string

const (
	SaturatedSand SoilType = "saturated_sand"
	DrySand       SoilType = "dry_sand"
	Clay          SoilType = "clay"
	Other         SoilType = "other"
)

// Label returns the name used on the input form and in reports.
func (s SoilType) Label() string {
	switch s {
	case SaturatedSand:
		return "Saturated Sands"
	case DrySand:
		return "Dry Sands"
	case Clay:
		return "Clays"
	case Other:
		return "Others"
	}
	return string(s)
}

func (s SoilType) IsSand() bool {
	return s == SaturatedSand || s == DrySand
}

// Layer is one soil layer of a profile, top to bottom.
type Layer struct {
	Index        int      `json:"layer"`
	Thickness    float64  `json:"thickness_m"`
	SoilType     SoilType `json:"soil_type"`
	FinesUnder15 bool     `json:"fines_under_15"`
	N1           int      `json:"n1"`
	Vsi          float64  `json:"vsi_m_s"`
}

type VelocityMethod string

const (
	MethodCorrelation VelocityMethod = "correlation"
	MethodUser        VelocityMethod = "user"
)

const (
	correlationFactor = 80.0
	// below this (N1)60 the correlation is not valid
	minCorrelationN1 = 10
)

// Method tells whether Estimate uses the N1 correlation or the user's Vsi.
func Method(l Layer) VelocityMethod {
	if l.SoilType == Other || l.N1 < minCorrelationN1 {
		return MethodUser
	}
	switch l.SoilType {
	case SaturatedSand, DrySand, Clay:
		return MethodCorrelation
	}
	return MethodUser
}

// Exponent returns the correlation exponent for the layer, or 0 when the
// user's velocity applies.
func Exponent(l Layer) float64 {
	if Method(l) != MethodCorrelation {
		return 0
	}
	switch l.SoilType {
	case DrySand:
		if l.FinesUnder15 {
			return 0.5
		}
		return 0.3
	case SaturatedSand:
		if l.FinesUnder15 {
			return 0.4
		}
		return 0.3
	default:
		return 0.3
	}
}

// Estimate returns the layer's shear-wave velocity in m/s.
// Vsi = 80 * (N1)^e, except for Others and N1 < 10 where the user value is taken as is.
// The result is not validated here.
func Estimate(l Layer) float64 {
	if Method(l) == MethodUser {
		return l.Vsi
	}
	return correlationFactor * math.Pow(float64(l.N1), Exponent(l))
}
