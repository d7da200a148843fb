package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"` // gin mode: debug / release / test
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type AudioConfig struct {
	Root string `mapstructure:"root"`
}

type AuthConfig struct {
	PasswordHash    string `mapstructure:"password_hash"`  // bcrypt hash of the shared password
	SessionSecret   string `mapstructure:"session_secret"` // HMAC key for the session cookie
	SessionTTLHours int    `mapstructure:"session_ttl_hours"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Audio    AudioConfig    `mapstructure:"audio"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. SA_SERVER_PORT=9000
		v.SetEnvPrefix("SA") // session audio
		v.AutomaticEnv()

		v.SetDefault("server.address", "0.0.0.0")
		v.SetDefault("server.port", 3000)
		v.SetDefault("database.path", "data/sessionaudio.db")
		v.SetDefault("audio.root", "/audio")
		v.SetDefault("auth.session_ttl_hours", 24*7)

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
