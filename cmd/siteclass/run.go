package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"SiteClass/internal/calc/premium/importer"
	"SiteClass/internal/calc/report"
	"SiteClass/internal/calc/siteclass"
)

type metaFlags struct {
	project  string
	location string
	author   string
}

// loadProfile reads YAML/JSON profiles directly and .xlsx sheets through
// the importer, which needs the depth of influence from --depth.
func loadProfile(path string, flags profileFlags) (siteclass.Input, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := os.Open(path)
		if err != nil {
			return siteclass.Input{}, err
		}
		defer f.Close()
		return importer.ReadWorkbook(f, flags.depth)
	}
	in, err := siteclass.LoadFile(path)
	if err != nil {
		return siteclass.Input{}, err
	}
	if flags.depth > 0 {
		in.DepthOfInfluence = flags.depth
	}
	return in, nil
}

func runCalc(w io.Writer, path string, flags profileFlags, asJSON bool) error {
	in, err := loadProfile(path, flags)
	if err != nil {
		return err
	}
	res, err := in.Run(flags.maxLayers)
	if err != nil {
		return describe(err)
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(w, res)
	return nil
}

func runValidate(w io.Writer, path string, flags profileFlags) error {
	in, err := loadProfile(path, flags)
	if err != nil {
		return err
	}
	if err := in.Validate(flags.maxLayers); err != nil {
		return describe(err)
	}
	fmt.Fprintf(w, "%s: %d layers, depth of influence %.2f m: OK\n", path, len(in.Layers), in.DepthOfInfluence)
	return nil
}

func runReport(w io.Writer, path string, flags profileFlags, xlsxOut, pdfOut string, meta metaFlags) error {
	in, err := loadProfile(path, flags)
	if err != nil {
		return err
	}
	res, err := in.Run(flags.maxLayers)
	if err != nil {
		return describe(err)
	}
	m := report.Meta{Project: meta.project, Location: meta.location, Author: meta.author}

	outputs := []struct {
		path   string
		format report.Format
	}{
		{xlsxOut, report.FormatXLSX},
		{pdfOut, report.FormatPDF},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := writeReport(out.path, out.format, res, m); err != nil {
			return err
		}
		fmt.Fprintf(w, "wrote %s\n", out.path)
	}
	return nil
}

func writeReport(path string, format report.Format, res siteclass.Result, meta report.Meta) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(f, format, res, meta); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// describe flattens validation problems into one message per line.
func describe(err error) error {
	var verr *siteclass.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("invalid profile:\n  %s", strings.Join(verr.Problems, "\n  "))
	}
	return fmt.Errorf("%s: %w", siteclass.ErrorCode(err), err)
}

func printResult(w io.Writer, res siteclass.Result) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tSoil\tFines<15%\t(N1)60\tti (m)\tMethod\tVsi (m/s)\tti/Vsi\t")
	for _, lr := range res.Breakdown {
		fines := "-"
		if lr.SoilType.IsSand() {
			fines = "No"
			if lr.FinesUnder15 {
				fines = "Yes"
			}
		}
		n1 := "-"
		if lr.SoilType != siteclass.Other {
			n1 = fmt.Sprint(lr.N1)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.3f\t%s\t%.3f\t%.8f\t\n",
			lr.Index, lr.SoilType.Label(), fines, n1, lr.EffectiveThickness, lr.Method, lr.Velocity, lr.Contribution)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nDepth of influence: %.3f m (%d layers used)\n", res.DepthOfInfluence, res.LayersUsed)
	fmt.Fprintf(w, "Weighted Vs:        %.3f m/s\n", res.WeightedVelocity)
	fmt.Fprintf(w, "Site Class:         %s (%s)\n", res.SiteClass, res.SiteClass.Range())
}
