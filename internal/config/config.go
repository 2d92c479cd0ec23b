// Package config loads runtime settings from an optional config.yaml and
// SKINDERMA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix          = "SKINDERMA"
	minSecretKeyLength = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

var (
	ErrInsecureSecretKey = errors.New("secret key uses an insecure placeholder")
	ErrShortSecretKey    = errors.New("secret key is too short")
	ErrInvalidPort       = errors.New("port must be between 1 and 65535")
	ErrInvalidTokenTTL   = errors.New("share token ttl must be positive")
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	I18n      I18nConfig      `mapstructure:"i18n"`
	Templates TemplatesConfig `mapstructure:"templates"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Share     ShareConfig     `mapstructure:"share"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	SecretKey       string        `mapstructure:"secret_key"`
	CookieSecure    bool          `mapstructure:"cookie_secure"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type I18nConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
	LocalesDir      string `mapstructure:"locales_dir"`
}

type TemplatesConfig struct {
	Dir string `mapstructure:"dir"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type ShareConfig struct {
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from configFile when given, otherwise from
// config.yaml in the working directory or ./config if present. Environment
// variables win over file values.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Server.SecretKey = strings.TrimSpace(cfg.Server.SecretKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.secret_key", "")
	v.SetDefault("server.cookie_secure", false)
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("i18n.default_language", "en")
	v.SetDefault("i18n.locales_dir", "")

	v.SetDefault("templates.dir", "")

	v.SetDefault("database.path", ":memory:")

	v.SetDefault("share.token_ttl", "24h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks values that would otherwise fail late at startup. An empty
// secret key is allowed; the server then generates an ephemeral one.
func (cfg *Config) Validate() error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, cfg.Server.Port)
	}
	if cfg.Share.TokenTTL <= 0 {
		return ErrInvalidTokenTTL
	}
	if cfg.Server.SecretKey != "" {
		if err := ValidateSecretKey(cfg.Server.SecretKey); err != nil {
			return err
		}
	}
	return nil
}

func ValidateSecretKey(secret string) error {
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return ErrInsecureSecretKey
	}
	if len(secret) < minSecretKeyLength {
		return fmt.Errorf("%w: need at least %d characters", ErrShortSecretKey, minSecretKeyLength)
	}
	return nil
}

func (cfg *Config) ListenAddress() string {
	return fmt.Sprintf(":%d", cfg.Server.Port)
}
