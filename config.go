package blogapi

import "time"

// Config holds all configuration for a blogapi service.
type Config struct {
	Name        string // Site name for feed metadata (default "Blog")
	URL         string // Canonical URL (default "http://localhost:8000")
	Description string // Site description for the RSS channel
	Author      string // Author name for feed metadata

	Addr         string // Listen address (default ":8000")
	DatabasePath string // SQLite path (default "data/blog.db")

	MetricsEnabled bool // Expose Prometheus metrics on /metrics
}

func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:8000"
	}
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithNow overrides the clock used to timestamp seeded posts.
func WithNow(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
