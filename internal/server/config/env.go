package config

import (
	"os"
	"time"
)

// parseEnv overlays configuration from environment variables. Signing
// configuration is expected to be environment-sourced in deployments, so
// every field has a variable:
//
//	ADDRESS            HTTP bind address
//	DATABASE_DSN       PostgreSQL DSN
//	SECRET_KEY         JWT secret material
//	JWT_ISSUER         issuer claim
//	JWT_AUDIENCE       audience claim
//	ACCESS_TOKEN_TTL   access token lifetime (time.ParseDuration format)
//	REFRESH_TOKEN_TTL  refresh token lifetime
//	CLEANUP_INTERVAL   sweeper interval
//
// Invalid duration values are ignored and the previous value is kept.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ADDRESS"); ok {
		config.Addr = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("JWT_ISSUER"); ok {
		config.Issuer = v
	}
	if v, ok := os.LookupEnv("JWT_AUDIENCE"); ok {
		config.Audience = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.AccessTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("REFRESH_TOKEN_TTL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.RefreshTokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("CLEANUP_INTERVAL"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			config.CleanupInterval = d
		}
	}
}
