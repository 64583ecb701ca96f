// Package config handles configuration loading and management for the
// viewer, relay and consumer binaries.
package config

import "time"

// Config holds all settings. Each binary reads the sections it needs.
type Config struct {
	Viewer    ViewerConfig    `yaml:"viewer"`
	Sphere    SphereConfig    `yaml:"sphere"`
	Selection SelectionConfig `yaml:"selection"`
	Handoff   HandoffConfig   `yaml:"handoff"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Relay     RelayConfig     `yaml:"relay"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ViewerConfig holds display settings for the panorama viewer.
type ViewerConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FOVDegrees float32 `yaml:"fov_degrees"`
}

// SphereConfig describes the panorama sphere the highlight is draped on.
type SphereConfig struct {
	Radius float32    `yaml:"radius"`
	Center [3]float32 `yaml:"center"`
}

// SelectionConfig holds face selection settings.
type SelectionConfig struct {
	Subdivisions int    `yaml:"subdivisions"`
	PanoramaID   string `yaml:"panorama_id"`
}

// HandoffConfig holds the outbound editing-service settings.
type HandoffConfig struct {
	// ServiceURL is the editing service host. It is also the page opened
	// once a dispatch completes.
	ServiceURL     string        `yaml:"service_url"`
	EndpointPath   string        `yaml:"endpoint_path"`
	CubemapsBase   string        `yaml:"cubemaps_base_url"`
	RequestTimeout time.Duration `yaml:"timeout"`
}

// IngestConfig holds the consumer-side push channel settings.
type IngestConfig struct {
	PushURL              string        `yaml:"push_url"`
	EventName            string        `yaml:"event_name"`
	MaxReconnectAttempts int           `yaml:"max_reconnect_attempts"`
	ReconnectBackoff     time.Duration `yaml:"reconnect_backoff"`
	InputCheckInterval   time.Duration `yaml:"input_check_interval"`
	ServiceURL           string        `yaml:"service_url"`
	FetchTimeout         time.Duration `yaml:"fetch_timeout"`
	OutputDir            string        `yaml:"output_dir"`

	// BootstrapImage is a cached image id loaded once at startup.
	BootstrapImage string `yaml:"bootstrap_image"`

	// MetricsAddr serves /metrics when set.
	MetricsAddr string `yaml:"metrics_addr"`
}

// RelayConfig holds the relay service settings.
type RelayConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	OutputDir       string        `yaml:"output_dir"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOVDegrees: 75,
		},
		Sphere: SphereConfig{
			Radius: 50,
		},
		Selection: SelectionConfig{
			Subdivisions: 20,
		},
		Handoff: HandoffConfig{
			ServiceURL:     "http://127.0.0.1:8080",
			EndpointPath:   "/api/v1/unity_image_url",
			CubemapsBase:   "http://127.0.0.1:8000/images/cubemaps",
			RequestTimeout: 30 * time.Second,
		},
		Ingest: IngestConfig{
			PushURL:              "ws://127.0.0.1:8080/api/v1/ws",
			EventName:            "unity_image_received",
			MaxReconnectAttempts: 5,
			ReconnectBackoff:     2 * time.Second,
			InputCheckInterval:   3 * time.Second,
			ServiceURL:           "http://127.0.0.1:8080",
			FetchTimeout:         10 * time.Second,
			OutputDir:            "received",
		},
		Relay: RelayConfig{
			ListenAddr:      "127.0.0.1:8080",
			OutputDir:       "output",
			DownloadTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
