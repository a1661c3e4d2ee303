package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gantry-data/strukt/internal/proxtree"
	"github.com/gantry-data/strukt/internal/units"
)

// Tuning holds the adjustable knobs for a cleanup run. All fields are
// pointers so a partial JSON file can overlay just the values it names;
// nil means "use the default". The schema matches the -config flag of
// cmd/strukt so the same file works across repeated batch runs.
type Tuning struct {
	// Merge params
	Tolerance *float64 `json:"tolerance,omitempty"` // in Units
	Units     *string  `json:"units,omitempty"`

	// Spatial index params
	MaxDivisions   *int     `json:"max_divisions,omitempty"`
	MinCellSize    *float64 `json:"min_cell_size,omitempty"` // meters
	LeafSplitCount *int     `json:"leaf_split_count,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultTuning returns a Tuning with every field populated.
func DefaultTuning() *Tuning {
	def := proxtree.DefaultConfig()
	return &Tuning{
		Tolerance:      ptrFloat64(0.005),
		Units:          ptrString(units.Meters),
		MaxDivisions:   ptrInt(def.MaxDivisions),
		MinCellSize:    ptrFloat64(def.MinCellSize),
		LeafSplitCount: ptrInt(def.LeafSplitCount),
	}
}

// LoadTuning reads a JSON tuning file and overlays it on the defaults.
// Fields absent from the file keep their default values.
func LoadTuning(path string) (*Tuning, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning config: %w", err)
	}
	overlay := &Tuning{}
	if err := json.Unmarshal(data, overlay); err != nil {
		return nil, fmt.Errorf("failed to parse tuning config %s: %w", path, err)
	}
	cfg := DefaultTuning()
	cfg.MergeWith(overlay)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning config %s: %w", path, err)
	}
	return cfg, nil
}

// MergeWith copies every non-nil field of overlay into cfg.
func (cfg *Tuning) MergeWith(overlay *Tuning) {
	if overlay == nil {
		return
	}
	if overlay.Tolerance != nil {
		cfg.Tolerance = overlay.Tolerance
	}
	if overlay.Units != nil {
		cfg.Units = overlay.Units
	}
	if overlay.MaxDivisions != nil {
		cfg.MaxDivisions = overlay.MaxDivisions
	}
	if overlay.MinCellSize != nil {
		cfg.MinCellSize = overlay.MinCellSize
	}
	if overlay.LeafSplitCount != nil {
		cfg.LeafSplitCount = overlay.LeafSplitCount
	}
}

// Validate checks the populated values for sanity.
func (cfg *Tuning) Validate() error {
	if cfg.Tolerance != nil && *cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be > 0, got %v", *cfg.Tolerance)
	}
	if cfg.Units != nil && !units.IsValid(*cfg.Units) {
		return fmt.Errorf("invalid units %q (valid: %s)", *cfg.Units, units.GetValidUnitsString())
	}
	return cfg.IndexConfig().Validate()
}

// GetTolerance returns the tolerance in the configured units.
func (cfg *Tuning) GetTolerance() float64 {
	if cfg.Tolerance != nil {
		return *cfg.Tolerance
	}
	return 0.005
}

// GetUnits returns the configured length units.
func (cfg *Tuning) GetUnits() string {
	if cfg.Units != nil {
		return *cfg.Units
	}
	return units.Meters
}

// IndexConfig assembles a spatial index Config from the tuning values,
// falling back to the index defaults for nil fields.
func (cfg *Tuning) IndexConfig() proxtree.Config {
	ic := proxtree.DefaultConfig()
	if cfg.MaxDivisions != nil {
		ic.MaxDivisions = *cfg.MaxDivisions
	}
	if cfg.MinCellSize != nil {
		ic.MinCellSize = *cfg.MinCellSize
	}
	if cfg.LeafSplitCount != nil {
		ic.LeafSplitCount = *cfg.LeafSplitCount
	}
	return ic
}
