package config

import "time"

// SecurityConfig holds the token signing secret and the bootstrap
// administrator account.
type SecurityConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	// AdminUsername is created with the admin role on first start if no
	// user with that name exists. An empty AdminPassword generates one.
	AdminUsername string `yaml:"admin_username"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`
}
