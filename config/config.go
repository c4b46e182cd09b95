package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains all service configuration, parsed from the environment.
type Config struct {
	Port     string   `env:"PORT" envDefault:"8080"`
	Database Database `envPrefix:""`
	JWT      JWT      `envPrefix:"JWT_"`
	Admins   Admins   `envPrefix:"ADMIN_"`
	OIDC     OIDC     `envPrefix:"OIDC_"`
	Storage  Storage  `envPrefix:"MINIO_"`
}

// Database contains connection parameters. A full DATABASE_URL wins over the
// individual DB_* fields.
type Database struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"shop"`
}

// DSN returns the connection string for gorm's postgres driver.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		d.Host, d.User, d.Password, d.Name, d.Port,
	)
}

// JWT contains token signing parameters.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"devsecret"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// Admins is the break-glass allow-list: identities promoted to admin on
// every login, outside the normal role-toggle mechanism, so the system is
// never lockable-out.
type Admins struct {
	Emails    []string `env:"EMAILS" envSeparator:"," envDefault:"talgatulyakarys2008@gmail.com"`
	Usernames []string `env:"USERNAMES" envSeparator:"," envDefault:"dev-user"`
}

// Allows reports whether the identity is on the allow-list.
func (a Admins) Allows(email, username string) bool {
	for _, e := range a.Emails {
		if e != "" && strings.EqualFold(e, email) {
			return true
		}
	}
	for _, u := range a.Usernames {
		if u != "" && u == username {
			return true
		}
	}
	return false
}

// OIDC contains identity-provider settings. SSO login is disabled when the
// issuer is empty.
type OIDC struct {
	Issuer             string `env:"ISSUER"`
	ClientID           string `env:"CLIENT_ID"`
	LogoutEndpoint     string `env:"LOGOUT_ENDPOINT"`
	PostLogoutRedirect string `env:"POST_LOGOUT_REDIRECT" envDefault:"http://localhost:8080/login/?force=1"`
}

// Storage contains object storage parameters for product photos. Photo
// handling is disabled when the endpoint is empty.
type Storage struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"shop-photos"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
