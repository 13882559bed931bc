package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vasapolrittideah/appointment-portal/shared/logger"
)

type PortalServiceConfig struct {
	ServiceName  string             `env:"SERVICE_NAME" envDefault:"portal-service"`
	HTTP         HTTPConfig         `envPrefix:"HTTP_"`
	Mongo        MongoConfig        `envPrefix:"MONGO_"`
	Session      SessionConfig      `envPrefix:"SESSION_"`
	Notification NotificationConfig `envPrefix:"NOTIFICATION_"`
	RateLimit    RateLimitConfig    `envPrefix:"RATE_LIMIT_"`
	Consul       ConsulConfig       `envPrefix:"CONSUL_"`
	Log          logger.Config      `envPrefix:"LOG_"`
}

type HTTPConfig struct {
	Host            string        `env:"HOST"             envDefault:"0.0.0.0"`
	Port            int           `env:"PORT"             envDefault:"8080"`
	HealthPort      int           `env:"HEALTH_PORT"      envDefault:"9090"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// TrustProxy reads client addresses from forwarding headers. Leave it
	// off unless a proxy in front of the service overwrites them.
	TrustProxy bool `env:"TRUST_PROXY"`
}

// MongoConfig selects the store. An empty URI keeps all data in memory.
type MongoConfig struct {
	URI      string `env:"URI"`
	Database string `env:"DATABASE" envDefault:"appointment_portal"`
}

type SessionConfig struct {
	Secret       string        `env:"SECRET,required,notEmpty"`
	TTL          time.Duration `env:"TTL"           envDefault:"24h"`
	CookieName   string        `env:"COOKIE_NAME"   envDefault:"portal_session"`
	CookieSecure bool          `env:"COOKIE_SECURE"`
	Issuer       string        `env:"ISSUER"        envDefault:"portal-service"`
	Audience     string        `env:"AUDIENCE"      envDefault:"portal-web"`
}

type NotificationConfig struct {
	// Driver is "smtp" or "log".
	Driver string `env:"DRIVER" envDefault:"smtp"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RPS"   envDefault:"1"`
	Burst int     `env:"BURST" envDefault:"5"`
}

// ConsulConfig enables service registration when Address is set.
type ConsulConfig struct {
	Address        string `env:"ADDRESS"`
	ServiceID      string `env:"SERVICE_ID"`
	ServiceAddress string `env:"SERVICE_ADDRESS" envDefault:"localhost"`
}

var (
	ErrUnknownNotificationDriver = errors.New("notification driver must be smtp or log")
	ErrInvalidRateLimit          = errors.New("rate limit rps and burst must be positive")
)

// Load parses the environment into a PortalServiceConfig.
func Load() (*PortalServiceConfig, error) {
	cfg, err := env.ParseAs[PortalServiceConfig]()
	if err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *PortalServiceConfig) validate() error {
	switch c.Notification.Driver {
	case "smtp", "log":
	default:
		return ErrUnknownNotificationDriver
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return ErrInvalidRateLimit
	}

	return nil
}

// UseMemoryStore reports whether no MongoDB URI is configured.
func (c *PortalServiceConfig) UseMemoryStore() bool {
	return c.Mongo.URI == ""
}
