package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	configFileEnvVar = "CONFIG_FILE"

	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	envVar         = "ENV"
	nodeEnvVar     = "NODE_ENV"
	folderEnvVar   = "FOLDER"
	logLevelVar    = "LOG_LEVEL"
	logFileVar     = "LOG_FILE"
	frontendURLVar = "FRONTEND_URL"
)

// applyEnv overlays environment variables onto c. Unset variables leave the
// current value in place.
func (c *Config) applyEnv() {
	c.Server.Port = GetEnv(portEnvVar, c.Server.Port)
	c.Server.AppName = GetEnv(appNameVar, c.Server.AppName)
	c.Server.Env = GetEnv(envVar, GetEnv(nodeEnvVar, c.Server.Env))
	c.Server.Env = normaliseEnv(c.Server.Env)
	c.Server.DataFolder = GetEnv(folderEnvVar, c.Server.DataFolder)

	c.Security.JWTSecret = GetEnv("JWT_SECRET", c.Security.JWTSecret)
	c.Security.TokenTTL = getEnvDuration("TOKEN_TTL", c.Security.TokenTTL)
	c.Security.AdminUsername = GetEnv("ADMIN_USERNAME", c.Security.AdminUsername)
	c.Security.AdminEmail = GetEnv("ADMIN_EMAIL", c.Security.AdminEmail)
	c.Security.AdminPassword = GetEnv("ADMIN_PASSWORD", c.Security.AdminPassword)

	c.Database.Driver = normaliseDriver(GetEnv("DB_DRIVER", c.Database.Driver))
	c.Database.URL = GetEnv("DATABASE_URL", c.Database.URL)
	c.Database.Host = GetEnv("DB_HOST", c.Database.Host)
	c.Database.Port = GetEnv("DB_PORT", c.Database.Port)
	c.Database.User = GetEnv("DB_USER", c.Database.User)
	c.Database.Password = GetEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Name = GetEnv("DB_NAME", c.Database.Name)

	c.Upstream.BaseURL = GetEnv("CCTNS_BASE_URL", c.Upstream.BaseURL)
	c.Upstream.APIKey = GetEnv("CCTNS_API_KEY", c.Upstream.APIKey)
	c.Upstream.Timeout = getEnvDuration("CCTNS_TIMEOUT", c.Upstream.Timeout)
	c.Upstream.ClientID = GetEnv("CCTNS_CLIENT_ID", c.Upstream.ClientID)
	c.Upstream.ClientSecret = GetEnv("CCTNS_CLIENT_SECRET", c.Upstream.ClientSecret)
	c.Upstream.OAuthURL = GetEnv("CCTNS_OAUTH_URL", c.Upstream.OAuthURL)
	c.Upstream.Scope = GetEnv("CCTNS_SCOPE", c.Upstream.Scope)

	if origins := os.Getenv(frontendURLVar); origins != "" {
		c.Cors.AllowedOrigins = ParseAllowedOrigins(origins)
	}

	c.Redis.Host = GetEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = GetEnv("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = GetEnv("REDIS_PASSWORD", c.Redis.Password)

	if ms := getEnvInt("RATE_LIMIT_WINDOW_MS", -1); ms >= 0 {
		c.RateLimit.Window = time.Duration(ms) * time.Millisecond
	}
	c.RateLimit.MaxRequests = getEnvInt("RATE_LIMIT_MAX_REQUESTS", c.RateLimit.MaxRequests)

	c.Log.Level = GetEnv(logLevelVar, c.Log.Level)
	c.Log.File = GetEnv(logFileVar, c.Log.File)
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(envVar string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration accepts Go duration strings ("30s") or plain milliseconds.
func getEnvDuration(envVar string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// normaliseEnv maps NODE_ENV style names onto the DEV marker.
func normaliseEnv(env string) string {
	switch strings.ToLower(env) {
	case "", "dev", "development", "local":
		return EnvDevelopment
	}
	return strings.ToUpper(env)
}

func normaliseDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pg", "pgx":
		return DriverPostgres
	case "sqlite", "sqlite3":
		return DriverSQLite
	}
	return driver
}
