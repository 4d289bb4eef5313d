package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"SiteClass/internal/calc/siteclass"

	"github.com/xuri/excelize/v2"
)

// ReadWorkbook reads layers from the first sheet of an xlsx file.
// Row 1 is a header; each following row is
// thickness_m, soil type, fines < 15% (Yes/No), (N1)60, Vsi.
// Blank rows are skipped.
func ReadWorkbook(r io.Reader, depth float64) (siteclass.Input, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return siteclass.Input{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return siteclass.Input{}, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return siteclass.Input{}, fmt.Errorf("sheet %q has no layer rows", sheet)
	}

	in := siteclass.Input{DepthOfInfluence: depth}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		layer, err := parseLayerRow(row)
		if err != nil {
			return siteclass.Input{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		in.Layers = append(in.Layers, layer)
	}
	return in, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseLayerRow(row []string) (siteclass.LayerInput, error) {
	if len(row) < 2 {
		return siteclass.LayerInput{}, fmt.Errorf("expected at least thickness and soil type")
	}
	thickness, err := toFloat(row[0])
	if err != nil {
		return siteclass.LayerInput{}, fmt.Errorf("thickness: %w", err)
	}
	layer := siteclass.LayerInput{
		Thickness: thickness,
		SoilType:  strings.TrimSpace(row[1]),
	}
	if v := column(row, 2); v != "" {
		layer.FinesUnder15, err = yesNo(v)
		if err != nil {
			return siteclass.LayerInput{}, err
		}
	}
	if v := column(row, 3); v != "" {
		layer.N1, err = strconv.Atoi(v)
		if err != nil {
			return siteclass.LayerInput{}, fmt.Errorf("(N1)60: %w", err)
		}
	}
	if v := column(row, 4); v != "" {
		layer.Vsi, err = toFloat(v)
		if err != nil {
			return siteclass.LayerInput{}, fmt.Errorf("Vsi: %w", err)
		}
	}
	return layer, nil
}

func column(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func yesNo(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0", "-":
		return false, nil
	}
	return false, fmt.Errorf("fines < 15%%: expected Yes or No, got %q", s)
}

func toFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
