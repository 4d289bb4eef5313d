package report

import (
	"fmt"
	"io"
	"strings"

	"SiteClass/internal/calc/siteclass"

	"github.com/phpdave11/gofpdf"
)

// Core PDF fonts are cp1252; keep the symbols they cannot draw out of the page.
var pdfText = strings.NewReplacer("≥", ">=", "≤", "<=", "Σ", "Sum ")

var pdfColumns = []struct {
	title string
	width float64
}{
	{"Layer", 22},
	{"ti (m)", 22},
	{"Effective ti (m)", 30},
	{"Soil Type", 36},
	{"Fines < 15%", 24},
	{"(N1)60", 20},
	{"Vsi Formula", 46},
	{"Vsi (m/s)", 28},
	{"ti / Vsi (s)", 34},
}

// WritePDF renders the calculation on a landscape A4 page.
func WritePDF(w io.Writer, res siteclass.Result, meta Meta) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(Title, true)
	pdf.SetAuthor(meta.Author, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, Title)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	for _, kv := range meta.lines() {
		pdf.Cell(0, 6, fmt.Sprintf("%s %s", kv[0], kv[1]))
		pdf.Ln(6)
	}
	pdf.Ln(2)
	pdf.Cell(0, 6, fmt.Sprintf("Depth of Influence: %.3f m", res.DepthOfInfluence))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(217, 217, 217)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 8, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, lr := range res.Breakdown {
		cells := []string{
			fmt.Sprintf("Layer %d", lr.Index),
			fmt.Sprintf("%.3f", lr.Thickness),
			fmt.Sprintf("%.3f", lr.EffectiveThickness),
			lr.SoilType.Label(),
			finesText(lr),
			fmt.Sprint(n1Value(lr)),
			formula(lr, "x"),
			fmt.Sprintf("%.3f", lr.Velocity),
			fmt.Sprintf("%.8f", lr.Contribution),
		}
		for i, c := range pdfColumns {
			pdf.CellFormat(c.width, 7, cells[i], "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	sumTi, sumContribution := totals(res)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(pdfColumns[0].width+pdfColumns[1].width, 7, pdfText.Replace("Σti ="), "", 0, "R", false, 0, "")
	pdf.CellFormat(pdfColumns[2].width, 7, fmt.Sprintf("%.3f", sumTi), "", 0, "C", false, 0, "")
	skip := 0.0
	for _, c := range pdfColumns[3:7] {
		skip += c.width
	}
	pdf.CellFormat(skip+pdfColumns[7].width, 7, pdfText.Replace("Σ(ti / Vsi) ="), "", 0, "R", false, 0, "")
	pdf.CellFormat(pdfColumns[8].width, 7, fmt.Sprintf("%.8f", sumContribution), "", 0, "C", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Weighted Vs = %.3f m/s", res.WeightedVelocity))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Site Class = %s", res.SiteClass))
	pdf.Ln(12)

	pdf.Cell(0, 7, "Table 4 Site Classes")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetFillColor(255, 255, 0)
	for _, c := range siteclass.Table4() {
		fill := c == res.SiteClass
		pdf.CellFormat(25, 7, string(c), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(50, 7, pdfText.Replace(c.Range()), "1", 0, "C", fill, 0, "")
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("building pdf: %w", err)
	}
	return pdf.Output(w)
}
