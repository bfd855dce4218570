package config

import "flag"

var (
	flagConfig        = flag.String("config", "", "Path to config file")
	flagDebug         = flag.Bool("debug", false, "Enable debug logging")
	flagCatalog       = flag.String("catalog", "", "Path to object catalog")
	flagSnapThreshold = flag.Float64("snap-threshold", 0, "Edge snapping threshold")
	flagNoSnap        = flag.Bool("no-snap", false, "Disable edge snapping")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagCatalog != "" {
		cfg.Catalog.Path = *flagCatalog
	}
	if *flagSnapThreshold > 0 {
		cfg.Placement.SnapThreshold = *flagSnapThreshold
	}
	if *flagNoSnap {
		cfg.Placement.DefaultSnapping = []string{"none"}
	}
}
