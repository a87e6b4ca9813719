// Package crops holds the static per-crop configuration used by the
// fusion engine: growth-stage boundaries, NDVI stress bands, soil
// moisture ranges, prioritized regions and pest lexicons. Loaded once
// from the embedded table and immutable afterwards.
package crops

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed crops.yaml
var cropsYAML []byte

// StageBound defines one growth stage and the day offset (since
// sowing) at which it ends.
type StageBound struct {
	Stage    string `yaml:"stage"`
	UntilDay int    `yaml:"until_day"`
}

// Metadata is the full static configuration for one crop. The zero
// value is returned for unknown crops; threshold lookups on it fail
// so rules relying on metadata simply never fire.
type Metadata struct {
	Name                   string       `yaml:"name"`
	Stages                 []StageBound `yaml:"stages"`
	NDVIStressedBelow      float64      `yaml:"ndvi_stressed_below"`
	NDVIHealthyAbove       float64      `yaml:"ndvi_healthy_above"`
	OptimalSoilMoistureMin float64      `yaml:"optimal_soil_moisture_min"`
	OptimalSoilMoistureMax float64      `yaml:"optimal_soil_moisture_max"`
	PriorityRegions        []string     `yaml:"priority_regions"`
	Pests                  []string     `yaml:"pests"`
	Diseases               []string     `yaml:"diseases"`

	known bool
}

// Known reports whether this metadata came from the store rather than
// being the unknown-crop zero value.
func (m Metadata) Known() bool { return m.known }

// Threshold resolves a named metadata threshold referenced by a rule
// condition. Unknown keys, or any key on an unknown crop, return ok=false.
func (m Metadata) Threshold(key string) (float64, bool) {
	if !m.known {
		return 0, false
	}
	switch key {
	case "ndvi_stressed_below":
		return m.NDVIStressedBelow, true
	case "ndvi_healthy_above":
		return m.NDVIHealthyAbove, true
	case "optimal_soil_moisture_min":
		return m.OptimalSoilMoistureMin, true
	case "optimal_soil_moisture_max":
		return m.OptimalSoilMoistureMax, true
	default:
		return 0, false
	}
}

// StageForDay returns the growth stage for a days-since-sowing offset:
// the first stage whose until_day bound has not been exceeded. Days
// past the last bound map to the final stage.
func (m Metadata) StageForDay(days int) string {
	if !m.known || len(m.Stages) == 0 || days < 0 {
		return ""
	}
	for _, s := range m.Stages {
		if days <= s.UntilDay {
			return s.Stage
		}
	}
	return m.Stages[len(m.Stages)-1].Stage
}

// IsPriorityRegion reports whether district is on the crop's
// prioritized-region list. Empty districts never match.
func (m Metadata) IsPriorityRegion(district string) bool {
	if district == "" {
		return false
	}
	for _, r := range m.PriorityRegions {
		if strings.EqualFold(r, district) {
			return true
		}
	}
	return false
}

// Store is the immutable crop metadata lookup table
type Store struct {
	crops map[string]Metadata
}

// NewStore parses the embedded crop table
func NewStore() (*Store, error) {
	return newStoreFrom(cropsYAML)
}

func newStoreFrom(raw []byte) (*Store, error) {
	var crops map[string]Metadata
	if err := yaml.Unmarshal(raw, &crops); err != nil {
		return nil, fmt.Errorf("crops: failed to parse crop table: %w", err)
	}
	for key, meta := range crops {
		meta.known = true
		crops[key] = meta
	}
	return &Store{crops: crops}, nil
}

// Lookup returns metadata for a crop identifier (case-insensitive).
// Unknown crops return the zero Metadata.
func (s *Store) Lookup(crop string) Metadata {
	return s.crops[strings.ToLower(strings.TrimSpace(crop))]
}

// Crops returns the identifiers of all configured crops
func (s *Store) Crops() []string {
	keys := make([]string, 0, len(s.crops))
	for k := range s.crops {
		keys = append(keys, k)
	}
	return keys
}
