// Package bento is a link-in-bio site with a newsletter signup and a blog
// backed by a headless content store, built with Go, Echo, and templ.
//
// The App wires the content client, the subscription service, the optional
// click store, middleware, and page handlers.
package bento

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"

	"github.com/sebmonty/bento/api"
	"github.com/sebmonty/bento/clicks"
	"github.com/sebmonty/bento/cms"
	"github.com/sebmonty/bento/subscribe"
	"github.com/sebmonty/bento/telemetry"
)

// ContentSource reads published posts. *cms.Client implements it.
type ContentSource interface {
	ListPosts(ctx context.Context) ([]cms.Post, error)
	GetPost(ctx context.Context, slug string) (cms.Post, error)
	ListSlugs(ctx context.Context) ([]string, error)
	ImageURL(ref cms.AssetRef, width, height int) string
}

// Subscriber runs newsletter signups. *subscribe.Service implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, body []byte) subscribe.Outcome
	SubscribeEmail(ctx context.Context, email string) subscribe.Outcome
}

// App is the central bento application.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Logger *slog.Logger

	content     ContentSource
	subscriber  Subscriber
	clicks      *clicks.Store
	limiter     *IPLimiter
	stopCleanup func()
	avatars     sync.Map // clamped size -> encoded JPEG

	customRoutes []func(*App)
	staticDir    string
}

// New creates an App. Unless replaced by options, the content client and the
// subscription service are built from cfg with traced transports.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true

	a := &App{
		Config:    cfg,
		Echo:      e,
		Logger:    slog.Default(),
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.content == nil {
		a.content = cms.New(cms.Config{
			ProjectID:  cfg.SanityProjectID,
			Dataset:    cfg.SanityDataset,
			APIVersion: cfg.SanityAPIVersion,
			Token:      cfg.SanityToken,
			UseCDN:     cfg.Production(),
			Timeout:    cfg.UpstreamTimeout,
			Transport:  telemetry.Transport(nil),
		})
	}
	if a.subscriber == nil {
		a.subscriber = subscribe.NewService(subscribe.Config{
			APIKey:    cfg.MailerLiteAPIKey,
			GroupID:   cfg.MailerLiteGroupID,
			Endpoint:  cfg.MailerLiteEndpoint,
			Timeout:   cfg.UpstreamTimeout,
			Transport: telemetry.Transport(nil),
		}, nil)
	}

	return a
}

// WithLogger sets the base logger. Request loggers derive from it.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.Logger = l
		}
	}
}

// Setup opens the click store, installs middleware, and registers routes.
// It is separate from Start so tests can drive a.Echo directly.
func (a *App) Setup() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("bento: SessionSecret is required")
	}

	if a.Config.ClicksEnabled {
		store, err := clicks.NewStore(a.Config.ClicksDatabasePath)
		if err != nil {
			return fmt.Errorf("bento: init clicks: %w", err)
		}
		a.clicks = store
		a.stopCleanup = store.StartCleanupScheduler(a.Config.ClicksRetentionDays, 24*time.Hour, a.Logger)
	}

	a.limiter = NewIPLimiter(a.Config.SubscribePerMinute, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start runs Setup and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	a.Logger.Info("listening", "addr", a.Config.Addr, "environment", a.Config.Environment)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Framework assets are embedded and take precedence over the static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(embeddedFS))))
	e.GET("/public/site.css", embeddedHandler)
	e.GET("/public/signup.js", embeddedHandler)
	e.Static("/public", a.staticDir)

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.POST("/subscribe/", a.handleSubscribeForm)
	e.GET("/go/:id/", a.handleGo)

	e.GET("/feed.xml", a.handleFeed)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/avatar.jpg", a.handleAvatar)
	e.GET("/placeholder.jpg", handlePlaceholder)
	e.GET("/healthz", handleHealthz)
	e.GET("/metrics", echoprometheus.NewHandler())

	apiGroup := e.Group("/api")
	apiGroup.POST("/subscribe", a.handleSubscribeAPI, a.limiter.Middleware())
	apiGroup.GET("/openapi.yaml", func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", api.Spec)
	})
}

// Close stops background work and releases the click store.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.stopCleanup != nil {
		a.stopCleanup()
	}
	if a.clicks != nil {
		return a.clicks.Close()
	}
	return nil
}
