package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

const (
	EnvDevelopment = "DEV"

	defaultJWTSecret = "your-secret-key-change-in-production"
)

// Config is built once at start-up and passed by pointer to the
// constructors that need it. Business logic never reads the environment.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Security  SecurityConfig  `yaml:"security"`
	Database  DatabaseConfig  `yaml:"database"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Cors      CorsConfig      `yaml:"cors"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Port       string `yaml:"port"`
	AppName    string `yaml:"app_name"`
	Env        string `yaml:"env"`
	DataFolder string `yaml:"data_folder"`
}

// Addr returns the listen address for http.Server.
func (s ServerConfig) Addr() string {
	if s.Port == "" || s.Port[0] == ':' {
		return s.Port
	}
	return ":" + s.Port
}

func (s ServerConfig) IsDev() bool {
	return s.Env == EnvDevelopment
}

// UpstreamConfig configures the CCTNS analytics client.
type UpstreamConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`
	Timeout      time.Duration `yaml:"timeout"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	OAuthURL     string        `yaml:"oauth_url"`
	Scope        string        `yaml:"scope"`
}

// OAuthEnabled reports whether client-credential tokens should be attached
// to upstream calls.
func (u UpstreamConfig) OAuthEnabled() bool {
	return u.OAuthURL != "" && u.ClientID != "" && u.ClientSecret != ""
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled reports whether the Redis cache backend is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type RateLimitConfig struct {
	Window      time.Duration `yaml:"window"`
	MaxRequests int           `yaml:"max_requests"`
}

func (r RateLimitConfig) Enabled() bool {
	return r.Window > 0 && r.MaxRequests > 0
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Defaults returns a configuration suitable for local development.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       "5000",
			AppName:    "Police Analytics Backend",
			Env:        EnvDevelopment,
			DataFolder: "./data",
		},
		Security: SecurityConfig{
			JWTSecret:     defaultJWTSecret,
			TokenTTL:      24 * time.Hour,
			AdminUsername: "admin",
			AdminEmail:    "admin@localhost",
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Host:   "localhost",
			Port:   "5432",
			User:   "postgres",
			Name:   "police_analytics",
		},
		Upstream: UpstreamConfig{
			BaseURL: "https://cctns.gov.in/api/v1",
			Timeout: 30 * time.Second,
		},
		Cors: CorsConfig{
			AllowedOrigins: AllowedOrigins{"http://localhost:3000": nullValue{}},
		},
		Redis: RedisConfig{
			Port: "6379",
		},
		RateLimit: RateLimitConfig{
			Window:      15 * time.Minute,
			MaxRequests: 100,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file,
// environment variables and finally command-line flags, in that order.
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("server", pflag.ContinueOnError)
	configFile := fs.String("config", os.Getenv(configFileEnvVar), "path to a YAML configuration file")
	port := fs.String("port", "", "port to listen on (overrides PORT)")
	env := fs.String("env", "", "deployment environment (overrides ENV)")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("[config Load] parse flags: %w", err)
	}

	c := Defaults()
	if *configFile != "" {
		if err := c.loadFile(*configFile); err != nil {
			return nil, err
		}
	}
	c.applyEnv()

	if *port != "" {
		c.Server.Port = *port
	}
	if *env != "" {
		c.Server.Env = *env
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects configurations the server cannot safely start with.
func (c *Config) Validate() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("[config Validate] JWT secret is required")
	}
	if !c.Server.IsDev() && c.Security.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("[config Validate] JWT secret must be changed outside %s", EnvDevelopment)
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("[config Validate] token TTL must be positive")
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("[config Validate] unsupported database driver %q", c.Database.Driver)
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("[config Validate] upstream base URL is required")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("[config Validate] upstream timeout must be positive")
	}
	return nil
}
