package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	Version     string `mapstructure:"VERSION"`

	MongoURI      string `mapstructure:"MONGODB_URI"`
	MongoDatabase string `mapstructure:"MONGODB_DATABASE"`

	Secret   string        `mapstructure:"SECRET"`
	TokenTTL time.Duration `mapstructure:"TOKEN_TTL"`

	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`

	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`
}

var configDefaults = map[string]any{
	"PORT":             "3003",
	"ENVIRONMENT":      "development",
	"VERSION":          "1.0.0",
	"MONGODB_URI":      "",
	"MONGODB_DATABASE": "bloglist",
	"SECRET":           "",
	"TOKEN_TTL":        userservice.DefaultTokenTime.String(),
	"TRUSTED_ORIGINS":  "",
	"TLS_CERT_FILE":    "",
	"TLS_KEY_FILE":     "",
}

// loadConfig reads path when it exists and lets the process environment
// override every key.
func loadConfig(path string) (*Config, error) {
	v := viper.New()

	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")

		err := v.ReadInConfig()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	config.TrustedOrigins = splitOrigins(config.TrustedOrigins)

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	var missing []string

	if c.MongoURI == "" {
		missing = append(missing, "MONGODB_URI")
	}
	if c.Secret == "" {
		missing = append(missing, "SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if c.TokenTTL < 0 {
		return fmt.Errorf("TOKEN_TTL must not be negative, got %s", c.TokenTTL)
	}

	return nil
}

func (c *Config) addr() string {
	return ":" + c.Port
}

// splitOrigins drops blanks and quotes left over from the env file.
func splitOrigins(in []string) []string {
	out := []string{}

	for _, item := range in {
		for _, origin := range strings.Split(item, ",") {
			origin = strings.Trim(strings.TrimSpace(origin), `"'`)
			if origin != "" {
				out = append(out, origin)
			}
		}
	}

	return out
}
