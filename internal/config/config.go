package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the backend the mobile client shipped against.
const DefaultBaseURL = "https://einar-main-f0820bc.d2.zuplo.dev"

// DefaultCountries are the countries offered by the organization screen.
var DefaultCountries = []string{"Colombia", "México", "Argentina", "Chile", "Perú", "Ecuador", "Venezuela", "Brasil"}

// Config holds application configuration.
type Config struct {
	API      APIConfig
	Database DatabaseConfig
	Log      LogConfig
	UI       UIConfig
}

// APIConfig holds backend settings. A zero Timeout keeps the transport default.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LogConfig holds log file settings.
type LogConfig struct {
	Path   string
	Level  string
	Format string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Countries []string
}

// Load reads configuration from file and env. Env var overrides use prefix TRANSPORTAPP_.
func Load() (Config, error) {
	return LoadFile(os.Getenv("TRANSPORTAPP_CONFIG"))
}

// LoadFile is Load with an explicit config file. An empty path falls back to
// ~/.config/transportapp/config.toml, which may be absent.
func LoadFile(cfgPath string) (Config, error) {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "transportapp", "transportapp.db"))
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "transportapp", "transportapp.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("ui.countries", DefaultCountries)

	v.SetConfigType("toml")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(home, ".config", "transportapp"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TRANSPORTAPP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// an explicitly named file must exist
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	if c.API.BaseURL == "" {
		return Config{}, fmt.Errorf("config: api.base_url is empty")
	}
	if len(c.UI.Countries) == 0 {
		c.UI.Countries = append([]string(nil), DefaultCountries...)
	}
	return c, nil
}
