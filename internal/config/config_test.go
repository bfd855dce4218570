package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/ghostbrush/internal/snap"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test placement defaults
	if cfg.Placement.SnapThreshold != 0.15 {
		t.Errorf("expected snap threshold 0.15, got %v", cfg.Placement.SnapThreshold)
	}
	if cfg.Placement.FastTick != 50*time.Millisecond {
		t.Errorf("expected fast tick 50ms, got %v", cfg.Placement.FastTick)
	}
	if cfg.Placement.SlowTick != 500*time.Millisecond {
		t.Errorf("expected slow tick 500ms, got %v", cfg.Placement.SlowTick)
	}
	flags, err := cfg.SnapFlags()
	if err != nil {
		t.Fatalf("SnapFlags() error: %v", err)
	}
	if flags != snap.Default {
		t.Errorf("expected default snapping %v, got %v", snap.Default, flags)
	}

	// Test catalog and world defaults
	if cfg.Catalog.Path != "configs/catalog.yaml" {
		t.Errorf("expected catalog configs/catalog.yaml, got %s", cfg.Catalog.Path)
	}
	if cfg.World.ActorReach != 5 {
		t.Errorf("expected reach 5, got %v", cfg.World.ActorReach)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
placement:
  snap_threshold: 0.2
  default_snapping: [horizontal, facenormal]
  fast_tick: 20ms
  slow_tick: 1s

catalog:
  path: "/srv/catalog.yaml"

world:
  size_x: 8
  size_y: 4
  size_z: 8
  actor_reach: 0

logging:
  level: "debug"
  log_file: "ghost.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	want := &Config{
		Placement: PlacementConfig{
			SnapThreshold:   0.2,
			DefaultSnapping: []string{"horizontal", "facenormal"},
			FastTick:        20 * time.Millisecond,
			SlowTick:        time.Second,
		},
		Catalog: CatalogConfig{Path: "/srv/catalog.yaml"},
		World:   WorldConfig{SizeX: 8, SizeY: 4, SizeZ: 8, ActorReach: 0},
		Logging: LoggingConfig{Level: "debug", LogFile: "ghost.log"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("loaded config mismatch (-want +got):\n%s", diff)
	}

	flags, err := cfg.SnapFlags()
	if err != nil {
		t.Fatalf("SnapFlags() error: %v", err)
	}
	if flags != snap.Horizontal|snap.ApplyFaceNormalOffset {
		t.Errorf("unexpected snap flags %v", flags)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Placement.SnapThreshold = 0.7
	cfg.Placement.DefaultSnapping = []string{"diagonal"}
	cfg.Placement.SlowTick = 10 * time.Millisecond
	cfg.World.SizeY = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"snap_threshold", "default_snapping", "slow_tick", "world size"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Equivalent of t.Chdir (Go 1.24+) for older toolchains.
	origWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWD) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	// No config file exists - should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	if err := os.WriteFile("config.yaml", []byte("catalog:\n  path: x.yaml\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "catalog flag",
			setup: func() {
				*flagCatalog = "other.yaml"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Catalog.Path != "other.yaml" {
					t.Errorf("expected catalog other.yaml, got %s", cfg.Catalog.Path)
				}
			},
			teardown: func() {
				*flagCatalog = ""
			},
		},
		{
			name: "snap threshold flag",
			setup: func() {
				*flagSnapThreshold = 0.3
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Placement.SnapThreshold != 0.3 {
					t.Errorf("expected threshold 0.3, got %v", cfg.Placement.SnapThreshold)
				}
			},
			teardown: func() {
				*flagSnapThreshold = 0
			},
		},
		{
			name: "no-snap flag",
			setup: func() {
				*flagNoSnap = true
			},
			verify: func(t *testing.T, cfg *Config) {
				flags, err := cfg.SnapFlags()
				if err != nil || flags != snap.None {
					t.Errorf("expected no snapping, got %v (%v)", flags, err)
				}
			},
			teardown: func() {
				*flagNoSnap = false
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
placement:
  snap_threshold: 0.25
catalog:
  path: file.yaml
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagCatalog = "flag.yaml"
	defer func() {
		*flagConfig = ""
		*flagCatalog = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Catalog should come from the flag, not the file
	if cfg.Catalog.Path != "flag.yaml" {
		t.Errorf("expected catalog flag.yaml from flag, got %s", cfg.Catalog.Path)
	}

	// Threshold should be from file since no flag override
	if cfg.Placement.SnapThreshold != 0.25 {
		t.Errorf("expected threshold 0.25 from file, got %v", cfg.Placement.SnapThreshold)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("placement:\n  snap_threshold: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); err == nil {
		t.Error("expected Load to reject an invalid threshold")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.World.SizeX = 64
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload error: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("saved config mismatch (-want +got):\n%s", diff)
	}
}
