package setup

import (
	"time"

	"github.com/spf13/viper"
)

// ScraperConfig mirrors the original project's configuration.rs defaults
// for the HTTP telemetry scraper (part (a) of the overall service): a
// bind address for its own /metrics endpoint, the dump1090-style base URL
// to poll, and independently configurable refresh intervals.
type ScraperConfig struct {
	BindAddress             string
	Dump1090URL             string
	AircraftRefreshInterval time.Duration
	ReceiverRefreshInterval time.Duration
	StatsRefreshInterval    time.Duration
	RefreshTimeout          time.Duration
}

// LoadScraperConfig layers defaults, an optional TOML file, and
// environment variables (BEASTWATCH_*) using viper.
func LoadScraperConfig(configFile string) (ScraperConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("beastwatch")
	v.AutomaticEnv()

	v.SetDefault("bind_address", "0.0.0.0:9190")
	v.SetDefault("dump1090_url", "http://localhost:8080")
	v.SetDefault("aircraft_refresh_interval_ms", 30_000)
	v.SetDefault("receiver_refresh_interval_ms", 300_000)
	v.SetDefault("stats_refresh_interval_ms", 60_000)
	v.SetDefault("refresh_timeout_ms", 150)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return ScraperConfig{}, err
		}
	}

	return ScraperConfig{
		BindAddress:             v.GetString("bind_address"),
		Dump1090URL:             v.GetString("dump1090_url"),
		AircraftRefreshInterval: time.Duration(v.GetInt("aircraft_refresh_interval_ms")) * time.Millisecond,
		ReceiverRefreshInterval: time.Duration(v.GetInt("receiver_refresh_interval_ms")) * time.Millisecond,
		StatsRefreshInterval:    time.Duration(v.GetInt("stats_refresh_interval_ms")) * time.Millisecond,
		RefreshTimeout:          time.Duration(v.GetInt("refresh_timeout_ms")) * time.Millisecond,
	}, nil
}
