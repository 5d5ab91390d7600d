// Package config holds the caller-supplied analysis configuration: the
// calibration scale, the magnetic field and the marker placement
// uncertainty. The same JSON schema serves the config file and CLI
// overrides, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chamber-lab/trackfit/internal/track"
	"github.com/chamber-lab/trackfit/internal/units"
)

// Defaults. The field strength is the chamber's nominal setting; the
// identity scale leaves results in pixel units until the operator
// calibrates.
const (
	DefaultCmPerPx     = 1.0
	DefaultCmPerPxErr  = 0.0
	DefaultFieldKGauss = 15.5
	DefaultFieldErr    = 0.0
	DefaultMarkerErrPx = 1.0
)

// AnalysisConfig represents the tunable analysis parameters. Fields are
// pointers so that omitted values fall back to the defaults and partial
// JSON files merge cleanly.
type AnalysisConfig struct {
	CmPerPx     *float64 `json:"cm_per_px,omitempty"`
	CmPerPxErr  *float64 `json:"cm_per_px_err,omitempty"`
	FieldKGauss *float64 `json:"field_kgauss,omitempty"`
	FieldErr    *float64 `json:"field_err,omitempty"`
	MarkerErrPx *float64 `json:"marker_err_px,omitempty"`
	DL          *float64 `json:"dl,omitempty"`
	Units       *string  `json:"units,omitempty"`
}

// EmptyAnalysisConfig returns an AnalysisConfig with all fields unset.
func EmptyAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{}
}

// LoadAnalysisConfig loads an AnalysisConfig from a JSON file. Fields
// omitted from the file keep their defaults, so partial configs are safe.
func LoadAnalysisConfig(path string) (*AnalysisConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyAnalysisConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are physically sensible.
func (c *AnalysisConfig) Validate() error {
	if c.CmPerPx != nil && *c.CmPerPx <= 0 {
		return fmt.Errorf("cm_per_px must be positive, got %f", *c.CmPerPx)
	}
	if c.CmPerPxErr != nil && *c.CmPerPxErr < 0 {
		return fmt.Errorf("cm_per_px_err must be non-negative, got %f", *c.CmPerPxErr)
	}
	if c.FieldKGauss != nil && *c.FieldKGauss <= 0 {
		return fmt.Errorf("field_kgauss must be positive, got %f", *c.FieldKGauss)
	}
	if c.FieldErr != nil && *c.FieldErr < 0 {
		return fmt.Errorf("field_err must be non-negative, got %f", *c.FieldErr)
	}
	if c.MarkerErrPx != nil && *c.MarkerErrPx < 0 {
		return fmt.Errorf("marker_err_px must be non-negative, got %f", *c.MarkerErrPx)
	}
	if c.DL != nil && *c.DL < 0 {
		return fmt.Errorf("dl must be non-negative, got %f", *c.DL)
	}
	if c.Units != nil && !units.IsValid(*c.Units) {
		return fmt.Errorf("invalid units %q, must be one of: %s", *c.Units, units.GetValidUnitsString())
	}
	return nil
}

// Merge overlays the set fields of o onto c.
func (c *AnalysisConfig) Merge(o *AnalysisConfig) {
	if o == nil {
		return
	}
	if o.CmPerPx != nil {
		c.CmPerPx = o.CmPerPx
	}
	if o.CmPerPxErr != nil {
		c.CmPerPxErr = o.CmPerPxErr
	}
	if o.FieldKGauss != nil {
		c.FieldKGauss = o.FieldKGauss
	}
	if o.FieldErr != nil {
		c.FieldErr = o.FieldErr
	}
	if o.MarkerErrPx != nil {
		c.MarkerErrPx = o.MarkerErrPx
	}
	if o.DL != nil {
		c.DL = o.DL
	}
	if o.Units != nil {
		c.Units = o.Units
	}
}

// GetCmPerPx returns the cm_per_px value or the default.
func (c *AnalysisConfig) GetCmPerPx() float64 {
	if c.CmPerPx == nil {
		return DefaultCmPerPx
	}
	return *c.CmPerPx
}

// GetCmPerPxErr returns the cm_per_px_err value or the default.
func (c *AnalysisConfig) GetCmPerPxErr() float64 {
	if c.CmPerPxErr == nil {
		return DefaultCmPerPxErr
	}
	return *c.CmPerPxErr
}

// GetFieldKGauss returns the field_kgauss value or the default.
func (c *AnalysisConfig) GetFieldKGauss() float64 {
	if c.FieldKGauss == nil {
		return DefaultFieldKGauss
	}
	return *c.FieldKGauss
}

// GetFieldErr returns the field_err value or the default.
func (c *AnalysisConfig) GetFieldErr() float64 {
	if c.FieldErr == nil {
		return DefaultFieldErr
	}
	return *c.FieldErr
}

// GetMarkerErrPx returns the marker_err_px value or the default.
func (c *AnalysisConfig) GetMarkerErrPx() float64 {
	if c.MarkerErrPx == nil {
		return DefaultMarkerErrPx
	}
	return *c.MarkerErrPx
}

// GetDL returns the dl corridor half-width or zero when unset.
func (c *AnalysisConfig) GetDL() float64 {
	if c.DL == nil {
		return 0
	}
	return *c.DL
}

// GetUnits returns the display units or the default of centimetres.
func (c *AnalysisConfig) GetUnits() string {
	if c.Units == nil {
		return units.CM
	}
	return *c.Units
}

// Scale assembles the calibration scale from the configured values.
func (c *AnalysisConfig) Scale() units.Scale {
	return units.Scale{CmPerPx: c.GetCmPerPx(), Err: c.GetCmPerPxErr()}
}

// Field assembles the magnetic field from the configured values.
func (c *AnalysisConfig) Field() track.MagneticField {
	return track.MagneticField{KGauss: c.GetFieldKGauss(), Err: c.GetFieldErr()}
}
