package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/eringen/portfolio"
)

// Settings is everything the commands read from configuration.
type Settings struct {
	Site      portfolio.SiteConfig
	StaticDir string
}

// envKeys maps config keys to the environment variables that set them.
var envKeys = map[string]string{
	"site.name":              "SITE_NAME",
	"site.url":               "SITE_URL",
	"site.description":       "SITE_DESCRIPTION",
	"site.author":            "SITE_AUTHOR",
	"addr":                   "ADDR",
	"static_dir":             "STATIC_DIR",
	"database.driver":        "DATABASE_DRIVER",
	"database.path":          "DATABASE_PATH",
	"admin.username":         "ADMIN_USERNAME",
	"admin.password":         "ADMIN_PASSWORD",
	"session.secret":         "ADMIN_SESSION_SECRET",
	"session.ttl":            "SESSION_TTL",
	"session.prune_interval": "SESSION_PRUNE_INTERVAL",
	"cookie_secure":          "COOKIE_SECURE",
	"cache.ttl":              "LIST_CACHE_TTL",
	"amqp.url":               "AMQP_URL",
	"amqp.exchange":          "AMQP_EXCHANGE",
	"amqp.routing_key":       "AMQP_ROUTING_KEY",
	"amqp.queue_name":        "AMQP_QUEUE_NAME",
}

// loadSettings reads .env, then the optional YAML file at path, then the
// environment. Unset values fall back to the SiteConfig defaults.
func loadSettings(path string) (Settings, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("static_dir", "public")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return Settings{}, err
		}
	}

	return Settings{
		Site: portfolio.SiteConfig{
			Name:                 v.GetString("site.name"),
			URL:                  v.GetString("site.url"),
			Description:          v.GetString("site.description"),
			Author:               v.GetString("site.author"),
			Addr:                 v.GetString("addr"),
			DatabaseDriver:       v.GetString("database.driver"),
			DatabasePath:         v.GetString("database.path"),
			AdminUsername:        v.GetString("admin.username"),
			AdminPassword:        v.GetString("admin.password"),
			SessionSecret:        v.GetString("session.secret"),
			CookieSecure:         v.GetBool("cookie_secure"),
			SessionTTL:           v.GetDuration("session.ttl"),
			SessionPruneInterval: v.GetDuration("session.prune_interval"),
			ListCacheTTL:         v.GetDuration("cache.ttl"),
			AMQP: portfolio.AMQPConfig{
				URL:        v.GetString("amqp.url"),
				Exchange:   v.GetString("amqp.exchange"),
				RoutingKey: v.GetString("amqp.routing_key"),
				QueueName:  v.GetString("amqp.queue_name"),
			},
		},
		StaticDir: v.GetString("static_dir"),
	}, nil
}

// openStore opens the configured database with SiteConfig defaults applied.
func openStore(cfg portfolio.SiteConfig) (*portfolio.Store, error) {
	driver, path := cfg.DatabaseDriver, cfg.DatabasePath
	if driver == "" {
		driver = portfolio.DriverSQLite
	}
	if path == "" {
		path = "data/portfolio.db"
	}
	return portfolio.NewStore(driver, path)
}
