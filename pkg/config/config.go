package config

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	cfg  *Config
	once sync.Once
)

// Init loads configuration from file and environment variables.
// Safe to call multiple times; only the first call does the work.
func Init(configPath string) (*Config, error) {
	var err error
	once.Do(func() {
		cfg, err = load(configPath)
	})
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Get returns the loaded configuration, initializing with defaults if needed
func Get() *Config {
	if cfg == nil {
		c, err := Init("")
		if err != nil {
			log.Printf("[ERROR] Failed to initialize config: %v", err)
			return defaultConfig()
		}
		return c
	}
	return cfg
}

// Reset clears the cached configuration. Intended for tests.
func Reset() {
	cfg = nil
	once = sync.Once{}
}

func load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("SIDECUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("sidecut")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/sidecut")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
			// No config file is fine, defaults and env vars apply.
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("library.path", "./library")

	v.SetDefault("database.path", "./sidecut.db")
	v.SetDefault("database.verbose", false)

	v.SetDefault("analysis.window_sec", 0.05)
	v.SetDefault("analysis.search_radius_sec", 15.0)
	v.SetDefault("analysis.region_sec", 0.3)
	v.SetDefault("analysis.min_silence_sec", 1.0)
	v.SetDefault("analysis.threshold_factor", 0.05)
	v.SetDefault("analysis.median_filter_size", 5)
	v.SetDefault("analysis.edge_margin_sec", 3.0)

	v.SetDefault("musicbrainz.base_url", "https://musicbrainz.org")
	v.SetDefault("musicbrainz.requests_per_second", 1.0)
	v.SetDefault("musicbrainz.timeout", 10*time.Second)
	v.SetDefault("musicbrainz.user_agent", "sidecut/1.0 ( https://github.com/waxworks/sidecut )")

	v.SetDefault("ffmpeg.path", "ffmpeg")
	v.SetDefault("ffmpeg.timeout", 5*time.Minute)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_header_bytes", 1<<20)
}

// Validate checks configuration values and corrects recoverable mistakes
func (c *Config) Validate() error {
	if c.Library.Path == "" {
		return fmt.Errorf("library.path must not be empty")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}

	if c.Analysis.WindowSec <= 0 {
		log.Printf("[WARN] analysis.window_sec %v is not positive, using 0.05", c.Analysis.WindowSec)
		c.Analysis.WindowSec = 0.05
	}
	if c.Analysis.SearchRadiusSec < 0 {
		log.Printf("[WARN] analysis.search_radius_sec %v is negative, using 15", c.Analysis.SearchRadiusSec)
		c.Analysis.SearchRadiusSec = 15.0
	}
	if c.Analysis.RegionSec <= 0 {
		log.Printf("[WARN] analysis.region_sec %v is not positive, using 0.3", c.Analysis.RegionSec)
		c.Analysis.RegionSec = 0.3
	}
	if c.Analysis.MinSilenceSec <= 0 {
		log.Printf("[WARN] analysis.min_silence_sec %v is not positive, using 1.0", c.Analysis.MinSilenceSec)
		c.Analysis.MinSilenceSec = 1.0
	}
	if c.Analysis.ThresholdFactor <= 0 || c.Analysis.ThresholdFactor >= 1 {
		log.Printf("[WARN] analysis.threshold_factor %v out of (0,1), using 0.05", c.Analysis.ThresholdFactor)
		c.Analysis.ThresholdFactor = 0.05
	}
	if c.Analysis.MedianFilterSize < 1 {
		log.Printf("[WARN] analysis.median_filter_size %d too small, using 5", c.Analysis.MedianFilterSize)
		c.Analysis.MedianFilterSize = 5
	}
	if c.Analysis.MedianFilterSize%2 == 0 {
		// Median filters need an odd kernel so the window centers on a sample.
		log.Printf("[WARN] analysis.median_filter_size %d is even, using %d", c.Analysis.MedianFilterSize, c.Analysis.MedianFilterSize+1)
		c.Analysis.MedianFilterSize++
	}
	if c.Analysis.EdgeMarginSec < 0 {
		log.Printf("[WARN] analysis.edge_margin_sec %v is negative, using 3.0", c.Analysis.EdgeMarginSec)
		c.Analysis.EdgeMarginSec = 3.0
	}

	if c.MusicBrainz.RequestsPerSecond <= 0 {
		log.Printf("[WARN] musicbrainz.requests_per_second %v is not positive, using 1", c.MusicBrainz.RequestsPerSecond)
		c.MusicBrainz.RequestsPerSecond = 1.0
	}
	if c.MusicBrainz.Timeout <= 0 {
		c.MusicBrainz.Timeout = 10 * time.Second
	}

	if c.FFmpeg.Path == "" {
		c.FFmpeg.Path = "ffmpeg"
	}
	if c.FFmpeg.Timeout <= 0 {
		c.FFmpeg.Timeout = 5 * time.Minute
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	return nil
}

func defaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Printf("[ERROR] Failed to build default config: %v", err)
	}
	return &c
}

// ServerAddress returns the host:port the review server binds to
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
