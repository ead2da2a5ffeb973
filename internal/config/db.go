package config

import (
	"fmt"
	"time"
)

type DatabaseConfig struct {
	// postgres | sqlite
	Driver string `koanf:"driver" validate:"required,oneof=postgres sqlite"`

	Host     string `koanf:"host" validate:"required_if=Driver postgres"`
	Port     int    `koanf:"port" validate:"required_if=Driver postgres"`
	User     string `koanf:"user" validate:"required_if=Driver postgres"`
	Password string `koanf:"password"`
	Name     string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode  string `koanf:"ssl_mode"`
	TimeZone string `koanf:"time_zone"`

	// File path or DSN used when Driver is sqlite.
	SQLitePath string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`

	AutoMigrate bool `koanf:"auto_migrate"`
}

func defaultDatabase() DatabaseConfig {
	return DatabaseConfig{
		Driver:          "postgres",
		Host:            "postgres",
		Port:            5432,
		User:            "naconsulta",
		Password:        "naconsulta",
		Name:            "naconsulta_db",
		SSLMode:         "disable",
		TimeZone:        "America/Sao_Paulo",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		AutoMigrate:     true,
	}
}

// DSN is the postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host,
		c.User,
		c.Password,
		c.Name,
		c.Port,
		c.SSLMode,
		c.TimeZone,
	)
}
