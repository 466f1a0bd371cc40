package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-vote/auth"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process configuration, loaded once at startup
type Config struct {
	DatabaseURL          string `mapstructure:"DATABASE_URL" json:"database_url"`
	SecretKey            string `mapstructure:"SECRET_KEY" json:"-"`
	Algorithm            string `mapstructure:"ALGORITHM" json:"algorithm"`
	AccessTokenExpireMin int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES" json:"access_token_expire_minutes"`
	TokenIssuer          string `mapstructure:"TOKEN_ISSUER" json:"token_issuer"`
	FrontendHost         string `mapstructure:"FRONTEND_HOST" json:"frontend_host"`
	AppName              string `mapstructure:"APP_NAME" json:"app_name"`
	AppVersion           string `mapstructure:"APP_VERSION" json:"app_version"`
	AppDescription       string `mapstructure:"APP_DESCRIPTION" json:"app_description"`
	ServerAddr           string `mapstructure:"SERVER_ADDR" json:"server_addr"`
	BcryptCost           int    `mapstructure:"BCRYPT_COST" json:"bcrypt_cost"`
	LogLevel             string `mapstructure:"LOG_LEVEL" json:"log_level"`
	Debug                bool   `mapstructure:"DEBUG" json:"debug"`
	UseHashid            bool   `mapstructure:"USE_HASHID" json:"use_hashid"`
}

var _ auth.Config = (*Config)(nil)

var defaults = map[string]any{
	"DATABASE_URL":                "sqlite://./storage/app.db",
	"SECRET_KEY":                  "",
	"ALGORITHM":                   auth.DefaultSigningMethod,
	"ACCESS_TOKEN_EXPIRE_MINUTES": 60,
	"TOKEN_ISSUER":                "",
	"FRONTEND_HOST":               "*",
	"APP_NAME":                    "VoteApp",
	"APP_VERSION":                 "0.0.0",
	"APP_DESCRIPTION":             "Simple app to vote",
	"SERVER_ADDR":                 ":8000",
	"BCRYPT_COST":                 0,
	"LOG_LEVEL":                   "info",
	"DEBUG":                       false,
	"USE_HASHID":                  false,
}

// Load reads the .env file when present, then the environment, then the
// optional config file at path. Environment variables win over the file.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}

	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	cfg.Algorithm = strings.ToUpper(strings.TrimSpace(cfg.Algorithm))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// Validate will run validation rules
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SecretKey, validation.Required),
		validation.Field(&c.DatabaseURL, validation.Required),
		validation.Field(&c.Algorithm, validation.Required, validation.In("HS256", "HS384", "HS512")),
		validation.Field(&c.AccessTokenExpireMin, validation.Required, validation.Min(1)),
		validation.Field(&c.ServerAddr, validation.Required),
		validation.Field(&c.LogLevel, validation.In("debug", "info", "warn", "error")),
	)
}

func (c *Config) GetSigningKey() string {
	return c.SecretKey
}

func (c *Config) GetSigningMethod() string {
	return c.Algorithm
}

func (c *Config) GetTokenExpiration() int {
	return c.AccessTokenExpireMin
}

func (c *Config) GetIssuer() string {
	return c.TokenIssuer
}
