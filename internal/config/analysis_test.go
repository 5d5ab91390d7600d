package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chamber-lab/trackfit/internal/units"
)

func TestDefaults(t *testing.T) {
	cfg := EmptyAnalysisConfig()

	if cfg.GetCmPerPx() != DefaultCmPerPx {
		t.Errorf("GetCmPerPx() = %f, want %f", cfg.GetCmPerPx(), DefaultCmPerPx)
	}
	if cfg.GetFieldKGauss() != DefaultFieldKGauss {
		t.Errorf("GetFieldKGauss() = %f, want %f", cfg.GetFieldKGauss(), DefaultFieldKGauss)
	}
	if cfg.GetMarkerErrPx() != DefaultMarkerErrPx {
		t.Errorf("GetMarkerErrPx() = %f, want %f", cfg.GetMarkerErrPx(), DefaultMarkerErrPx)
	}
	if cfg.GetDL() != 0 {
		t.Errorf("GetDL() = %f, want 0", cfg.GetDL())
	}
	if cfg.GetUnits() != units.CM {
		t.Errorf("GetUnits() = %s, want cm", cfg.GetUnits())
	}
}

func TestLoadAnalysisConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	testJSON := `{
  "cm_per_px": 0.0254,
  "cm_per_px_err": 0.0002,
  "field_kgauss": 13.8,
  "marker_err_px": 0.5,
  "dl": 4,
  "units": "mm"
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadAnalysisConfig(configPath)
	if err != nil {
		t.Fatalf("LoadAnalysisConfig failed: %v", err)
	}

	if cfg.GetCmPerPx() != 0.0254 {
		t.Errorf("GetCmPerPx() = %f, want 0.0254", cfg.GetCmPerPx())
	}
	if cfg.GetFieldKGauss() != 13.8 {
		t.Errorf("GetFieldKGauss() = %f, want 13.8", cfg.GetFieldKGauss())
	}
	// Omitted fields keep their defaults.
	if cfg.GetFieldErr() != DefaultFieldErr {
		t.Errorf("GetFieldErr() = %f, want default %f", cfg.GetFieldErr(), DefaultFieldErr)
	}
	if cfg.GetUnits() != units.MM {
		t.Errorf("GetUnits() = %s, want mm", cfg.GetUnits())
	}
}

func TestLoadAnalysisConfig_WrongExtension(t *testing.T) {
	if _, err := LoadAnalysisConfig("config.yaml"); err == nil {
		t.Error("expected error for non-json extension")
	}
}

func TestLoadAnalysisConfig_MissingFile(t *testing.T) {
	if _, err := LoadAnalysisConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	negative := -1.0
	zero := 0.0
	badUnit := "px"

	tests := []struct {
		name string
		cfg  *AnalysisConfig
	}{
		{"negative scale", &AnalysisConfig{CmPerPx: &negative}},
		{"zero scale", &AnalysisConfig{CmPerPx: &zero}},
		{"negative scale err", &AnalysisConfig{CmPerPxErr: &negative}},
		{"zero field", &AnalysisConfig{FieldKGauss: &zero}},
		{"negative field err", &AnalysisConfig{FieldErr: &negative}},
		{"negative marker err", &AnalysisConfig{MarkerErrPx: &negative}},
		{"negative dl", &AnalysisConfig{DL: &negative}},
		{"bad units", &AnalysisConfig{Units: &badUnit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if err := EmptyAnalysisConfig().Validate(); err != nil {
		t.Errorf("empty config should validate, got %v", err)
	}
}

func TestMerge(t *testing.T) {
	scale := 0.05
	field := 12.0
	base := EmptyAnalysisConfig()
	base.Merge(&AnalysisConfig{CmPerPx: &scale})
	base.Merge(&AnalysisConfig{FieldKGauss: &field})

	if base.GetCmPerPx() != 0.05 {
		t.Errorf("GetCmPerPx() = %f, want 0.05", base.GetCmPerPx())
	}
	if base.GetFieldKGauss() != 12.0 {
		t.Errorf("GetFieldKGauss() = %f, want 12.0", base.GetFieldKGauss())
	}
	// Unset fields stay at defaults.
	if base.GetMarkerErrPx() != DefaultMarkerErrPx {
		t.Errorf("GetMarkerErrPx() = %f, want default", base.GetMarkerErrPx())
	}

	base.Merge(nil) // no-op
	if base.GetCmPerPx() != 0.05 {
		t.Errorf("Merge(nil) changed config")
	}
}

func TestScaleAndField(t *testing.T) {
	scale := 0.02
	scaleErr := 0.001
	field := 15.5
	fieldErr := 0.1
	cfg := &AnalysisConfig{CmPerPx: &scale, CmPerPxErr: &scaleErr, FieldKGauss: &field, FieldErr: &fieldErr}

	s := cfg.Scale()
	if s.CmPerPx != 0.02 || s.Err != 0.001 {
		t.Errorf("Scale() = %+v, want {0.02 0.001}", s)
	}
	f := cfg.Field()
	if f.KGauss != 15.5 || f.Err != 0.1 {
		t.Errorf("Field() = %+v, want {15.5 0.1}", f)
	}
}
