package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeParamFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeParamFile(t, `
mz_tolerance_ppm: 10
rt_tolerance: 0.5
top_n: 25
intensity_column: Height
`)

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if p.MZTolerancePPM != 10 || p.RTTolerance != 0.5 || p.TopN != 25 {
		t.Errorf("loaded params = %+v", p)
	}
	if p.IntensityColumn != "Height" {
		t.Errorf("intensity column = %q, want Height", p.IntensityColumn)
	}
	if p.RTColumn != "" {
		t.Errorf("rt column = %q, want empty", p.RTColumn)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeParamFile(t, "top_n: 5\n")

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if p.MZTolerancePPM != DefaultMZTolerancePPM {
		t.Errorf("mz tolerance = %g, want default %g", p.MZTolerancePPM, DefaultMZTolerancePPM)
	}
	if p.RTTolerance != DefaultRTTolerance {
		t.Errorf("rt tolerance = %g, want default %g", p.RTTolerance, DefaultRTTolerance)
	}
	if p.TopN != 5 {
		t.Errorf("top n = %d, want 5", p.TopN)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "negative tolerance", content: "mz_tolerance_ppm: -20\n"},
		{name: "negative rt tolerance", content: "rt_tolerance: -1\n"},
		{name: "negative top n", content: "top_n: -5\n"},
		{name: "malformed yaml", content: "mz_tolerance_ppm: [oops\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeParamFile(t, tt.content)
			if _, err := Load(path); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}
