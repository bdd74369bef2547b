package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Library     LibraryConfig     `mapstructure:"library"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	MusicBrainz MusicBrainzConfig `mapstructure:"musicbrainz"`
	FFmpeg      FFmpegConfig      `mapstructure:"ffmpeg"`
	Server      ServerConfig      `mapstructure:"server"`
}

// LibraryConfig locates the record library on disk
type LibraryConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig configures the sqlite state database
type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Verbose bool   `mapstructure:"verbose"`
}

// AnalysisConfig tunes track boundary detection
type AnalysisConfig struct {
	WindowSec        float64 `mapstructure:"window_sec"`
	SearchRadiusSec  float64 `mapstructure:"search_radius_sec"`
	RegionSec        float64 `mapstructure:"region_sec"`
	MinSilenceSec    float64 `mapstructure:"min_silence_sec"`
	ThresholdFactor  float64 `mapstructure:"threshold_factor"`
	MedianFilterSize int     `mapstructure:"median_filter_size"`
	EdgeMarginSec    float64 `mapstructure:"edge_margin_sec"`
}

// MusicBrainzConfig configures the catalog lookup client
type MusicBrainzConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Timeout           time.Duration `mapstructure:"timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
}

// FFmpegConfig configures the FLAC conversion stage
type FFmpegConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig configures the review API server
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}
