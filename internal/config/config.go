package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "AFA"

// Config is the service configuration read from configs/config.yml and
// AFA_* environment variables (AFA_DB_PATH overrides db.path).
type Config struct {
	Port     string
	DBPath   string
	LogLevel string
	Reports  ReportsConfig
}

// ReportsConfig controls which folder is loaded on startup and whether it is watched.
type ReportsConfig struct {
	Dir      string
	Watch    bool
	Debounce time.Duration
	Workers  int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("reports.dir", "")
	v.SetDefault("reports.watch", false)
	v.SetDefault("reports.debounce", "2s")
	v.SetDefault("reports.workers", 4)
}

// Load reads config.yml from the given paths. A missing file is not an
// error; defaults and environment still apply.
func Load(paths ...string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:     v.GetString("port"),
		DBPath:   v.GetString("db.path"),
		LogLevel: v.GetString("log.level"),
		Reports: ReportsConfig{
			Dir:      v.GetString("reports.dir"),
			Watch:    v.GetBool("reports.watch"),
			Debounce: v.GetDuration("reports.debounce"),
			Workers:  v.GetInt("reports.workers"),
		},
	}
	if cfg.Reports.Watch && cfg.Reports.Dir == "" {
		return Config{}, errors.New("reports.watch requires reports.dir")
	}
	if cfg.Reports.Workers < 1 {
		return Config{}, fmt.Errorf("reports.workers must be >= 1, got %d", cfg.Reports.Workers)
	}
	return cfg, nil
}
