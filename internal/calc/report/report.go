package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"SiteClass/internal/calc/siteclass"

	"gonum.org/v1/gonum/floats"
)

const Title = "Site Class Determination - IS 1893 : 2025"

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "xlsx":
		return FormatXLSX, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Meta is the descriptive header of a report.
type Meta struct {
	Project  string    `json:"project"`
	Location string    `json:"location"`
	Author   string    `json:"author"`
	Date     time.Time `json:"-"`
}

func (m Meta) lines() [][2]string {
	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}
	return [][2]string{
		{"Project:", m.Project},
		{"Location:", m.Location},
		{"Prepared by:", m.Author},
		{"Date:", date.Format("2006-01-02")},
	}
}

// Write renders res in the given format.
func Write(w io.Writer, format Format, res siteclass.Result, meta Meta) error {
	switch format {
	case FormatPDF:
		return WritePDF(w, res, meta)
	default:
		return WriteXLSX(w, res, meta)
	}
}

func totals(res siteclass.Result) (sumTi, sumContribution float64) {
	ti := make([]float64, len(res.Breakdown))
	c := make([]float64, len(res.Breakdown))
	for i, lr := range res.Breakdown {
		ti[i] = lr.EffectiveThickness
		c[i] = lr.Contribution
	}
	return floats.Sum(ti), floats.Sum(c)
}

func finesText(lr siteclass.LayerResult) string {
	if !lr.SoilType.IsSand() {
		return "-"
	}
	if lr.FinesUnder15 {
		return "Yes"
	}
	return "No"
}

func n1Value(lr siteclass.LayerResult) any {
	if lr.SoilType == siteclass.Other {
		return "-"
	}
	return lr.N1
}

func formula(lr siteclass.LayerResult, times string) string {
	if lr.Method != siteclass.MethodCorrelation {
		return "User Vsi"
	}
	return fmt.Sprintf("80 %s (N1)60^%s", times, strconv.FormatFloat(lr.Exponent, 'f', -1, 64))
}
