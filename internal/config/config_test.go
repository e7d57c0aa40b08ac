package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.Addr != "0.0.0.0:8080" {
		t.Errorf("Addr: got %s, want 0.0.0.0:8080", cfg.Addr)
	}
	if cfg.CatalogPath != "clothing_data.csv" {
		t.Errorf("CatalogPath: got %s, want clothing_data.csv", cfg.CatalogPath)
	}
	if cfg.MinScale != 0.1 || cfg.MaxScale != 5.0 {
		t.Errorf("scale bounds: got [%v,%v], want [0.1,5.0]", cfg.MinScale, cfg.MaxScale)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FITTING_ADDR", "127.0.0.1:9000")
	t.Setenv("FITTING_MAX_UPLOAD_MB", "25")
	t.Setenv("FITTING_MAX_SCALE", "3.5")

	cfg := Load()

	if cfg.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr: got %s, want 127.0.0.1:9000", cfg.Addr)
	}
	if cfg.MaxUploadMB != 25 {
		t.Errorf("MaxUploadMB: got %d, want 25", cfg.MaxUploadMB)
	}
	if cfg.MaxScale != 3.5 {
		t.Errorf("MaxScale: got %v, want 3.5", cfg.MaxScale)
	}
}

func TestLoad_IgnoresUnparsableValues(t *testing.T) {
	t.Setenv("FITTING_MAX_UPLOAD_MB", "lots")
	t.Setenv("FITTING_MIN_SCALE", "tiny")

	cfg := Load()

	if cfg.MaxUploadMB != 10 {
		t.Errorf("MaxUploadMB: got %d, want fallback 10", cfg.MaxUploadMB)
	}
	if cfg.MinScale != 0.1 {
		t.Errorf("MinScale: got %v, want fallback 0.1", cfg.MinScale)
	}
}

func TestValidate_Clamps(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want func(Config) bool
	}{
		{
			"negative upload cap",
			Config{MaxUploadMB: -1, MinScale: 0.1, MaxScale: 5, ThumbnailHeight: 96},
			func(c Config) bool { return c.MaxUploadMB == 10 },
		},
		{
			"non-positive min scale",
			Config{MaxUploadMB: 10, MinScale: 0, MaxScale: 5, ThumbnailHeight: 96},
			func(c Config) bool { return c.MinScale == 0.05 },
		},
		{
			"inverted scale bounds",
			Config{MaxUploadMB: 10, MinScale: 2, MaxScale: 1, ThumbnailHeight: 96},
			func(c Config) bool { return c.MaxScale == 2 },
		},
		{
			"runaway max scale",
			Config{MaxUploadMB: 10, MinScale: 0.1, MaxScale: 100, ThumbnailHeight: 96},
			func(c Config) bool { return c.MaxScale == 10 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Validate()
			if !tt.want(tt.in) {
				t.Errorf("unexpected config after clamp: %+v", tt.in)
			}
		})
	}
}
