package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type DatabaseConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxIdle     int    `mapstructure:"max_idle"`
	EnableTLS   bool   `mapstructure:"enable_tls"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	PoolSize  int    `mapstructure:"pool_size"`
	EnableTLS bool   `mapstructure:"enable_tls"`
}

type AuthConfig struct {
	// JWTSecret signs access tokens; must be overridden outside local dev.
	JWTSecret string `mapstructure:"jwt_secret"`
	// TokenTTLMinutes bounds both the JWT expiry and the revocation record TTL.
	TokenTTLMinutes int `mapstructure:"token_ttl_minutes"`
	// PasswordPepper is mixed into argon2 hashing alongside the per-user salt.
	PasswordPepper string `mapstructure:"password_pepper"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OtlpEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Load reads config.yaml from the working directory (or CONFIG_PATH) and
// applies PDS_-prefixed environment overrides, e.g. PDS_DATABASE_DSN.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if p := v.GetString("config_path"); p != "" {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine: defaults + env cover local dev and containers.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "pds-api")
	v.SetDefault("app.env", "development")

	v.SetDefault("http.addr", ":5000")

	v.SetDefault("database.dsn", "host=localhost port=5432 user=postgres password=postgres dbname=pds sslmode=disable")
	v.SetDefault("database.max_open", 20)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.enable_tls", false)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.enable_tls", false)

	v.SetDefault("auth.jwt_secret", "dev-only-secret")
	v.SetDefault("auth.token_ttl_minutes", 7*24*60)
	v.SetDefault("auth.password_pepper", "")

	v.SetDefault("log.level", "info")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.sample_ratio", 1.0)
}
