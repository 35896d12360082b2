package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Expected missing env file to be ignored, got %v", err)
	}

	defaults := Default()
	if s.Width != defaults.Width || s.Height != defaults.Height || s.Scene != "default" {
		t.Errorf("Expected defaults, got %+v", s)
	}
	if s.S3.Region != "us-east-1" {
		t.Errorf("Expected default region us-east-1, got %s", s.S3.Region)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PATHTRACER_WIDTH", "320")
	t.Setenv("PATHTRACER_HEIGHT", "160")
	t.Setenv("PATHTRACER_SAMPLES", "16")
	t.Setenv("PATHTRACER_SEED", "-7")
	t.Setenv("PATHTRACER_GAMMA", "2.2")
	t.Setenv("PATHTRACER_SCENE", "triangles")
	t.Setenv("S3_BUCKET", "renders")

	s, err := Load("")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if s.Width != 320 || s.Height != 160 || s.Samples != 16 || s.Seed != -7 {
		t.Errorf("Unexpected numeric settings: %+v", s)
	}
	if s.Gamma < 2.19 || s.Gamma > 2.21 {
		t.Errorf("Expected gamma 2.2, got %f", s.Gamma)
	}
	if s.Scene != "triangles" || s.S3.Bucket != "renders" {
		t.Errorf("Unexpected string settings: %+v", s)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "PATHTRACER_MAX_DEPTH=12\nPATHTRACER_WORKERS=3\nS3_PREFIX=renders/\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	// godotenv sets process variables directly
	for _, key := range []string{"PATHTRACER_MAX_DEPTH", "PATHTRACER_WORKERS", "S3_PREFIX"} {
		key := key
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.MaxDepth != 12 || s.Workers != 3 || s.S3.Prefix != "renders/" {
		t.Errorf("Expected values from env file, got %+v", s)
	}
}

func TestLoad_InvalidNumbers(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PATHTRACER_WIDTH", "wide"},
		{"PATHTRACER_SAMPLES", "1.5"},
		{"PATHTRACER_SEED", "seed"},
		{"PATHTRACER_GAMMA", "bright"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(""); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestSettings_RenderConfig(t *testing.T) {
	s := Default()
	s.Width, s.Height, s.Samples = 40, 20, 2
	s.Workers = 0

	config, err := s.RenderConfig()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if config.Width != 40 || config.Height != 20 || config.SamplesPerPixel != 2 {
		t.Errorf("Unexpected config: %+v", config)
	}
	if config.NumWorkers < 1 {
		t.Errorf("Expected detected worker count, got %d", config.NumWorkers)
	}

	s.Samples = 0
	if _, err := s.RenderConfig(); err == nil {
		t.Error("Expected validation error for zero samples")
	}
}

func TestDetectWorkers(t *testing.T) {
	if n := DetectWorkers(); n < 1 {
		t.Errorf("Expected at least one worker, got %d", n)
	}
}

func TestHost_String(t *testing.T) {
	h := Host{CPUModel: "Test CPU", LogicalCores: 8, ClockGHz: 3.2, TotalRAMGB: 16}
	want := "Test CPU (8 logical cores, 3.2 GHz, 16 GB RAM)"
	if got := h.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}
