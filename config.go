package portfolio

import (
	"time"

	"github.com/eringen/portfolio/notify"
)

// SiteConfig holds all configuration for a portfolio site.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string

	Addr           string // Listen address (default ":3000")
	DatabaseDriver string // "sqlite" (default) or "postgres"
	DatabasePath   string // SQLite path or PostgreSQL DSN (default "data/portfolio.db")

	AdminUsername string // Seeded admin user (default "admin")
	AdminPassword string // Seeded admin password; required only while no credential is stored
	SessionSecret string // Signs the session cookie; random per process when empty
	CookieSecure  bool   // Set true for HTTPS

	SessionTTL           time.Duration // default 24h
	SessionPruneInterval time.Duration // default 24h
	ListCacheTTL         time.Duration // default 5min

	LoginAttempts   int           // failed logins allowed per window (default 5)
	LoginWindow     time.Duration // default 1min
	ContactAttempts int           // contact submissions allowed per window (default 5)
	ContactWindow   time.Duration // default 10min

	AMQP AMQPConfig
}

// AMQPConfig enables contact notifications over RabbitMQ when URL is set.
type AMQPConfig struct {
	URL        string
	Exchange   string // default "portfolio"
	RoutingKey string // default "message.created"
	QueueName  string // default "portfolio.messages"
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabaseDriver == "" {
		c.DatabaseDriver = DriverSQLite
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/portfolio.db"
	}
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.SessionPruneInterval <= 0 {
		c.SessionPruneInterval = 24 * time.Hour
	}
	if c.ListCacheTTL <= 0 {
		c.ListCacheTTL = 5 * time.Minute
	}
	if c.LoginAttempts <= 0 {
		c.LoginAttempts = 5
	}
	if c.LoginWindow <= 0 {
		c.LoginWindow = time.Minute
	}
	if c.ContactAttempts <= 0 {
		c.ContactAttempts = 5
	}
	if c.ContactWindow <= 0 {
		c.ContactWindow = 10 * time.Minute
	}
	if c.AMQP.Exchange == "" {
		c.AMQP.Exchange = "portfolio"
	}
	if c.AMQP.RoutingKey == "" {
		c.AMQP.RoutingKey = "message.created"
	}
	if c.AMQP.QueueName == "" {
		c.AMQP.QueueName = "portfolio.messages"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets and uploads (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithStore makes the App use records instead of opening its own database.
// The App takes ownership and closes it on Close.
func WithStore(records Records) Option {
	return func(a *App) {
		a.Store = records
	}
}

// WithNotifier sets the notifier invoked after a contact message is stored.
func WithNotifier(n notify.Notifier) Option {
	return func(a *App) {
		a.Notifier = n
	}
}
