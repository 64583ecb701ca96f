package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagPanorama   = flag.String("panorama", "", "Panorama id of the loaded sphere")
	flagService    = flag.String("service", "", "Editing service base URL")
	flagListen     = flag.String("listen", "", "Relay listen address")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagImage      = flag.String("image", "", "Cached image id to load at startup")
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
	if *flagPanorama != "" {
		cfg.Selection.PanoramaID = *flagPanorama
	}
	if *flagService != "" {
		cfg.Handoff.ServiceURL = *flagService
		cfg.Ingest.ServiceURL = *flagService
	}
	if *flagListen != "" {
		cfg.Relay.ListenAddr = *flagListen
	}
	if *flagWindowed {
		cfg.Viewer.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Viewer.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Viewer.Height = *flagHeight
	}
	if *flagImage != "" {
		cfg.Ingest.BootstrapImage = *flagImage
	}
}
