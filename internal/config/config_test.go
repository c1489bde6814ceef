package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		HTTPPort:           8080,
		DBMaxConns:         25,
		DBMinConns:         5,
		JWTSecret:          "secret",
		JWTTTL:             24 * time.Hour,
		LoginMaxAttempts:   5,
		LoginAttemptWindow: time.Hour,
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTPPort = 0
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 accepted")
	}
}

func TestValidate_PoolBounds(t *testing.T) {
	cfg := validConfig()
	cfg.DBMinConns = 30
	if err := cfg.Validate(); err == nil {
		t.Error("min conns above max accepted")
	}
}

func TestValidate_ZeroTTL(t *testing.T) {
	cfg := validConfig()
	cfg.JWTTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero JWT TTL accepted")
	}
}

func TestDatabaseDSN(t *testing.T) {
	cfg := &Config{
		DBHost: "localhost", DBPort: 5432,
		DBUser: "pips", DBPassword: "pw", DBName: "pipstracker", DBSSLMode: "disable",
	}
	dsn := cfg.DatabaseDSN()
	if !strings.HasPrefix(dsn, "postgres://pips:pw@localhost:5432/pipstracker") {
		t.Errorf("unexpected DSN: %s", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Errorf("sslmode missing from DSN: %s", dsn)
	}
}
