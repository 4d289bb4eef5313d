package siteclass

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultMaxLayers matches the layer count the input form allows.
const DefaultMaxLayers = 20

type LayerInput struct {
	Thickness    float64 `json:"thickness_m" yaml:"thickness_m"`
	SoilType     string  `json:"soil_type" yaml:"soil_type"`
	FinesUnder15 bool    `json:"fines_under_15" yaml:"fines_under_15"`
	N1           int     `json:"n1" yaml:"n1"`
	Vsi          float64 `json:"vsi_m_s" yaml:"vsi_m_s"`
}

// Input is a profile as submitted by a user, before validation.
type Input struct {
	DepthOfInfluence float64      `json:"depth_of_influence_m" yaml:"depth_of_influence_m"`
	Layers           []LayerInput `json:"layers" yaml:"layers"`
}

// ValidationError collects every rule a submission breaks.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

var soilTypeNames = map[string]SoilType{
	"saturated_sand":  SaturatedSand,
	"saturated sands": SaturatedSand,
	"saturated sand":  SaturatedSand,
	"saturated":       SaturatedSand,
	"dry_sand":        DrySand,
	"dry sands":       DrySand,
	"dry sand":        DrySand,
	"clay":            Clay,
	"clays":           Clay,
	"other":           Other,
	"others":          Other,
}

// ParseSoilType accepts API slugs as well as the form labels ("Dry Sands").
func ParseSoilType(s string) (SoilType, error) {
	st, ok := soilTypeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown soil type %q", s)
	}
	return st, nil
}

// Validate applies the input form rules to the whole submission.
func (in Input) Validate(maxLayers int) error {
	if maxLayers <= 0 {
		maxLayers = DefaultMaxLayers
	}
	var problems []string
	if !positive(in.DepthOfInfluence) {
		problems = append(problems, "depth of influence must be a finite number greater than zero")
	}
	if len(in.Layers) == 0 {
		problems = append(problems, "at least one layer is required")
	}
	if len(in.Layers) > maxLayers {
		problems = append(problems, fmt.Sprintf("at most %d layers are allowed", maxLayers))
	}

	total := 0.0
	for i, l := range in.Layers {
		n := i + 1
		total += l.Thickness
		if !positive(l.Thickness) {
			problems = append(problems, fmt.Sprintf("layer %d: thickness must be a finite number greater than zero", n))
		}
		st, err := ParseSoilType(l.SoilType)
		if err != nil {
			problems = append(problems, fmt.Sprintf("layer %d: %v", n, err))
			continue
		}
		if l.N1 < 0 && st != Other {
			problems = append(problems, fmt.Sprintf("layer %d: (N1)60 must not be negative", n))
		}
		if (st == Other || l.N1 < minCorrelationN1) && !positive(l.Vsi) {
			problems = append(problems, fmt.Sprintf("layer %d: Vsi is required for this layer", n))
		}
	}
	if len(in.Layers) > 0 && positive(in.DepthOfInfluence) && total < in.DepthOfInfluence {
		problems = append(problems, "total thickness must be greater than or equal to depth of influence")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Normalize converts a validated submission into calculation layers, dropping
// fields that do not apply to the soil type.
func (in Input) Normalize() ([]Layer, error) {
	layers := make([]Layer, 0, len(in.Layers))
	for i, l := range in.Layers {
		st, err := ParseSoilType(l.SoilType)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i+1, err)
		}
		layer := Layer{
			Index:        i + 1,
			Thickness:    l.Thickness,
			SoilType:     st,
			FinesUnder15: l.FinesUnder15 && st.IsSand(),
			N1:           l.N1,
			Vsi:          l.Vsi,
		}
		if st == Other {
			layer.N1 = 0
		}
		if Method(layer) == MethodCorrelation {
			layer.Vsi = 0
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

// Run validates the submission and calculates its site class.
func (in Input) Run(maxLayers int) (Result, error) {
	if err := in.Validate(maxLayers); err != nil {
		return Result{}, err
	}
	layers, err := in.Normalize()
	if err != nil {
		return Result{}, err
	}
	return Calculate(in.DepthOfInfluence, layers)
}

// LoadFile reads a profile from a YAML or JSON file.
func LoadFile(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("reading profile file: %w", err)
	}
	var in Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("parsing profile: %w", err)
	}
	return in, nil
}
