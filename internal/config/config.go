// Package config loads the application configuration from the environment.
//
// Variables use the NACONSULTA_ prefix and "__" to separate nested keys:
//
//	NACONSULTA_DATABASE__HOST=db  ->  database.host
//	NACONSULTA_AUTH__JWT_SECRET=… ->  auth.jwt_secret
//
// A .env file in the working directory is loaded first when present.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "NACONSULTA_"

type Config struct {
	Primary  Primary        `koanf:"primary" validate:"required"`
	Server   ServerConfig   `koanf:"server" validate:"required"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
	Auth     AuthConfig     `koanf:"auth" validate:"required"`
	Log      LogConfig      `koanf:"log"`
}

type Primary struct {
	// local | staging | production
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	HTTPAddr           string        `koanf:"http_addr" validate:"required"`
	GRPCAddr           string        `koanf:"grpc_addr"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout        time.Duration `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`

	// Login and registration requests per second per client, and burst.
	LoginRate  float64 `koanf:"login_rate" validate:"gt=0"`
	LoginBurst int     `koanf:"login_burst" validate:"gt=0"`
}

type AuthConfig struct {
	JWTSecret      string        `koanf:"jwt_secret" validate:"required,min=16"`
	TokenTTL       time.Duration `koanf:"token_ttl" validate:"required"`
	PasswordHasher string        `koanf:"password_hasher" validate:"oneof=bcrypt argon2id"`
	BcryptCost     int           `koanf:"bcrypt_cost"`
}

type LogConfig struct {
	Level string `koanf:"level"`
	// Queries slower than this are logged at warn level.
	SlowQuery time.Duration `koanf:"slow_query"`
}

// Default returns the configuration used for every key missing from the environment.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "local"},
		Server: ServerConfig{
			HTTPAddr:           ":8080",
			GRPCAddr:           ":50051",
			ReadTimeout:        10 * time.Second,
			WriteTimeout:       10 * time.Second,
			IdleTimeout:        60 * time.Second,
			CORSAllowedOrigins: []string{"http://localhost:3000"},
			LoginRate:          5,
			LoginBurst:         10,
		},
		Database: defaultDatabase(),
		Auth: AuthConfig{
			TokenTTL:       24 * time.Hour,
			PasswordHasher: "bcrypt",
			BcryptCost:     10,
		},
		Log: LogConfig{
			Level:     "info",
			SlowQuery: 200 * time.Millisecond,
		},
	}
}

// Load reads NACONSULTA_* variables over the defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	err = k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			TagName:          "koanf",
			Result:           cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// envKey maps NACONSULTA_DATABASE__MAX_OPEN_CONNS to database.max_open_conns.
func envKey(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// IsLocal reports whether the process runs on a developer machine.
func (c *Config) IsLocal() bool { return c.Primary.Env == "local" }
