// Package blogapi is a read-mostly blog content service built with Go,
// Echo, and SQLite. It exposes paginated, searchable post listings,
// single-post retrieval by slug, and a deterministic sample-data seeder,
// plus an RSS feed and sitemap over the same collection.
package blogapi

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	_ "modernc.org/sqlite"
)

// App is the central application. It wires together the store, handlers,
// and middleware. Handlers reach the store only through the App, so a
// missing connection shows up at construction time rather than as a nil
// global at request time.
type App struct {
	Config Config
	Echo   *echo.Echo
	Store  *Store

	seedLimiter  *RateLimiter
	now          func() time.Time
	customRoutes []func(*App)
}

// New creates a blogapi App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the database, middleware, and routes, and starts the
// server.
func (a *App) Start() error {
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("blogapi: init store: %w", err)
	}
	a.Store = store

	a.seedLimiter = NewRateLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/", a.handleRoot)
	e.GET("/healthz", a.handleHealthz)
	if a.Config.MetricsEnabled {
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/api/posts", a.handleListPosts)
	e.GET("/api/posts/:slug", a.handleGetPost)
	e.GET("/api/tags", a.handleListTags)
	e.POST("/api/seed", a.handleSeed)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.seedLimiter != nil {
		a.seedLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if
// empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvBool reads a boolean environment variable, treating anything but
// "false" and "0" as true when set.
func EnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// MustEnv returns the value of the environment variable key, or fatally
// exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("blogapi: required environment variable %s is not set", key)
	}
	return v
}
