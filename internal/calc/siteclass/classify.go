package siteclass

// SiteClass is the IS 1893:2025 Table 4 site class.
type SiteClass string

const (
	ClassA SiteClass = "A"
	ClassB SiteClass = "B"
	ClassC SiteClass = "C"
	ClassD SiteClass = "D"
	ClassE SiteClass = "E"
)

// Lower bounds of Vs (m/s), inclusive.
const (
	thresholdA = 1500.0
	thresholdB = 760.0
	thresholdC = 360.0
	thresholdD = 180.0
)

func Classify(vs float64) SiteClass {
	switch {
	case vs >= thresholdA:
		return ClassA
	case vs >= thresholdB:
		return ClassB
	case vs >= thresholdC:
		return ClassC
	case vs >= thresholdD:
		return ClassD
	default:
		return ClassE
	}
}

// Range is the Table 4 velocity range of the class.
func (c SiteClass) Range() string {
	switch c {
	case ClassA:
		return "Vs ≥ 1500"
	case ClassB:
		return "760 ≤ Vs < 1500"
	case ClassC:
		return "360 ≤ Vs < 760"
	case ClassD:
		return "180 ≤ Vs < 360"
	case ClassE:
		return "Vs < 180"
	}
	return ""
}

// Table4 lists the site classes from stiffest to softest.
func Table4() []SiteClass {
	return []SiteClass{ClassA, ClassB, ClassC, ClassD, ClassE}
}
