package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quantgeo/gannwheel/internal/gann"
	"github.com/quantgeo/gannwheel/internal/volprice"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090

batch:
  workers: 4

storage:
  archive:
    enabled: true
    type: localfs
    path: "/tmp/gannwheel/archive"

analysis:
  gann:
    pivot_window: 7
  volume_price:
    volume_threshold: 2.5
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.Batch.Workers)
	}
	if cfg.Storage.Archive.Type != "localfs" {
		t.Errorf("expected localfs, got %s", cfg.Storage.Archive.Type)
	}
	if cfg.Analysis.Gann.PivotWindow != 7 {
		t.Errorf("expected pivot window override 7, got %d", cfg.Analysis.Gann.PivotWindow)
	}
	if cfg.Analysis.VolumePrice.VolumeThreshold != 2.5 {
		t.Errorf("expected volume threshold override 2.5, got %f", cfg.Analysis.VolumePrice.VolumeThreshold)
	}

	// Untouched engine defaults survive partial overrides.
	if len(cfg.Analysis.Gann.TimeCycles) == 0 {
		t.Error("gann time cycles defaults lost")
	}
	if cfg.Analysis.VolumePrice.CorrelationPeriod != 20 {
		t.Errorf("expected default correlation period 20, got %d", cfg.Analysis.VolumePrice.CorrelationPeriod)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Analysis.Gann.PivotWindow != gann.DefaultConfig().PivotWindow {
		t.Error("gann defaults not applied")
	}
	if cfg.Analysis.VolumePrice.VolumeThreshold != volprice.DefaultConfig().VolumeThreshold {
		t.Error("volume-price defaults not applied")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"invalid port - zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"negative workers", func(c *Config) { c.Batch.Workers = -1 }, true},
		{"archive enabled without path", func(c *Config) {
			c.Storage.Archive.Enabled = true
			c.Storage.Archive.Path = ""
		}, true},
		{"archive s3 without bucket", func(c *Config) {
			c.Storage.Archive.Enabled = true
			c.Storage.Archive.Type = "s3"
		}, true},
		{"unknown archive type", func(c *Config) {
			c.Storage.Archive.Enabled = true
			c.Storage.Archive.Type = "tape"
		}, true},
		{"bad gann config", func(c *Config) { c.Analysis.Gann.TimeCycles = nil }, true},
		{"bad volume-price config", func(c *Config) { c.Analysis.VolumePrice.VolumeThreshold = 0.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
