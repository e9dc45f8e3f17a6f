package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

// JWTConfig holds the signing configuration for access tokens. SecretKey is
// sourced from the JWT_SECRET environment variable, never from a config file,
// and may legitimately be empty here: token issuance and verification fail
// closed when it is.
type JWTConfig struct {
	SecretKey  string
	Issuer     string        `mapstructure:"issuer"`
	Audience   string        `mapstructure:"audience"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type Config struct {
	Mode         string    `mapstructure:"mode"`
	JWT          JWTConfig `mapstructure:"jwt"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
}

// InitConfig loads the application config, preferring a config.yml on disk
// and falling back to the embedded copy.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// The signing secret is environment-only configuration.
	config.JWT.SecretKey = os.Getenv("JWT_SECRET")

	if config.JWT.Expiration <= 0 {
		config.JWT.Expiration = time.Hour
	}

	return config, nil
}
