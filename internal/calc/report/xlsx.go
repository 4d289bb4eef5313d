package report

import (
	"fmt"
	"io"

	"SiteClass/internal/calc/siteclass"

	"github.com/xuri/excelize/v2"
)

const SheetName = "Site Class Report"

// Column layout of the layer table.
const (
	colLayer = iota + 1
	colThickness
	colEffective
	colSoil
	colFines
	colN1
	colFormula
	colVsi
	colContribution
)

const (
	velocityFormat     = "0.000"
	contributionFormat = "0.00000000"
	highlightColor     = "FFFF00"
)

type styles struct {
	bold, header, border, velocity, contribution, highlight int
}

// sheetWriter keeps the first error so the layout code stays linear.
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (s *sheetWriter) set(col, row int, v any) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellValue(s.sheet, cell(col, row), v)
}

func (s *sheetWriter) style(fromCol, fromRow, toCol, toRow, id int) {
	if s.err != nil {
		return
	}
	s.err = s.f.SetCellStyle(s.sheet, cell(fromCol, fromRow), cell(toCol, toRow), id)
}

func newStyles(f *excelize.File) (styles, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	vf, cf := velocityFormat, contributionFormat
	defs := []*excelize.Style{
		{Font: &excelize.Font{Bold: true}},
		{
			Font:      &excelize.Font{Bold: true},
			Border:    thin,
			Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9D9D9"}},
		},
		{Border: thin, Alignment: &excelize.Alignment{Horizontal: "center"}},
		{Border: thin, CustomNumFmt: &vf},
		{Border: thin, CustomNumFmt: &cf},
		{
			Font:      &excelize.Font{Bold: true},
			Border:    thin,
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{highlightColor}},
		},
	}
	ids := make([]int, len(defs))
	for i, d := range defs {
		id, err := f.NewStyle(d)
		if err != nil {
			return styles{}, fmt.Errorf("creating style: %w", err)
		}
		ids[i] = id
	}
	return styles{
		bold:         ids[0],
		header:       ids[1],
		border:       ids[2],
		velocity:     ids[3],
		contribution: ids[4],
		highlight:    ids[5],
	}, nil
}

// WriteXLSX renders the calculation as a single-sheet workbook.
func WriteXLSX(w io.Writer, res siteclass.Result, meta Meta) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return err
	}
	s := &sheetWriter{f: f, sheet: SheetName}

	s.set(1, 1, Title)
	s.style(1, 1, 1, 1, st.bold)

	row := 2
	for _, kv := range meta.lines() {
		s.set(1, row, kv[0])
		s.set(2, row, kv[1])
		row++
	}
	row++

	s.set(1, row, "Depth of Influence:")
	s.style(1, row, 1, row, st.bold)
	s.set(3, row, res.DepthOfInfluence)
	s.set(4, row, "m")
	row += 2

	headers := []string{"Layer", "Thickness ti (m)", "Effective ti (m)", "Soil Type", "Fines < 15%", "(N1)60", "Vsi Formula", "Vsi (m/s)", "ti / Vsi (s)"}
	for i, h := range headers {
		s.set(i+1, row, h)
	}
	s.style(colLayer, row, colContribution, row, st.header)
	row++

	first := row
	for _, lr := range res.Breakdown {
		s.set(colLayer, row, fmt.Sprintf("Layer %d", lr.Index))
		s.set(colThickness, row, lr.Thickness)
		s.set(colEffective, row, lr.EffectiveThickness)
		s.set(colSoil, row, lr.SoilType.Label())
		s.set(colFines, row, finesText(lr))
		s.set(colN1, row, n1Value(lr))
		s.set(colFormula, row, formula(lr, "×"))
		s.set(colVsi, row, lr.Velocity)
		s.set(colContribution, row, lr.Contribution)
		row++
	}
	if row > first {
		s.style(colLayer, first, colFormula, row-1, st.border)
		s.style(colVsi, first, colVsi, row-1, st.velocity)
		s.style(colContribution, first, colContribution, row-1, st.contribution)
	}

	sumTi, sumContribution := totals(res)
	s.set(colLayer, row, "Σti =")
	s.set(colEffective, row, sumTi)
	s.set(colVsi, row, "Σ(ti / Vsi) =")
	s.set(colContribution, row, sumContribution)
	s.style(colLayer, row, colLayer, row, st.bold)
	s.style(colVsi, row, colVsi, row, st.bold)
	s.style(colContribution, row, colContribution, row, st.contribution)
	row += 2

	s.set(1, row, "Weighted Vs =")
	s.set(3, row, res.WeightedVelocity)
	s.set(4, row, "m/s")
	s.style(1, row, 1, row, st.bold)
	s.style(3, row, 3, row, st.velocity)
	row++
	s.set(1, row, "Site Class =")
	s.set(3, row, string(res.SiteClass))
	s.style(1, row, 1, row, st.bold)
	s.style(3, row, 3, row, st.highlight)
	row += 2

	s.set(1, row, "Table 4 Site Classes")
	s.style(1, row, 1, row, st.bold)
	row++
	s.set(1, row, "Site Class")
	s.set(2, row, "Vs (m/s)")
	s.style(1, row, 2, row, st.header)
	row++
	for _, c := range siteclass.Table4() {
		s.set(1, row, string(c))
		s.set(2, row, c.Range())
		id := st.border
		if c == res.SiteClass {
			id = st.highlight
		}
		s.style(1, row, 2, row, id)
		row++
	}

	if s.err != nil {
		return fmt.Errorf("writing report sheet: %w", s.err)
	}
	if err := f.SetColWidth(SheetName, "A", "A", 22); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "B", "I", 16); err != nil {
		return err
	}
	return f.Write(w)
}
