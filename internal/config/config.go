package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the client needs to reach the Raven platform.
type Config struct {
	APIBaseURL  string        `mapstructure:"RAVEN_API_URL"`
	Timeout     time.Duration `mapstructure:"RAVEN_TIMEOUT"`
	RedisURL    string        `mapstructure:"REDIS_URL"` // empty disables the listing cache
	CacheTTL    time.Duration `mapstructure:"CACHE_TTL"`
	SessionFile string        `mapstructure:"SESSION_FILE"`
}

// Load reads app.env from path and applies environment overrides.
// A missing config file is not an error; the environment alone is enough.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("RAVEN_API_URL", "https://api.aimland.ca")
	v.SetDefault("RAVEN_TIMEOUT", "30s")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("CACHE_TTL", "10m")
	v.SetDefault("SESSION_FILE", "")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.SessionFile == "" {
		if dir, err := os.UserConfigDir(); err == nil {
			cfg.SessionFile = filepath.Join(dir, "ravenlink", "session.json")
		}
	}
	return cfg, nil
}
