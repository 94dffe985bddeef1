package bento

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"

	"github.com/sebmonty/bento/ctxlog"
)

const (
	sessionName      = "bento_session"
	flashOK          = "subscribe_ok"
	flashError       = "subscribe_error"
	headerDoNotTrack = "DNT"
)

// httpMetrics is shared by every App in the process; the collectors can only
// be registered once.
var httpMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddleware("bento")
})

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(a.requestLogger())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctxlog.FromContext(c.Request().Context()).Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			ctxlog.FromContext(c.Request().Context()).Error("panic recovered", "error", err, "stack", string(stack))
			return err
		},
	}))

	e.Use(httpMetrics())

	e.Use(a.corsMiddleware())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return strings.HasPrefix(p, "/public/") || p == "/avatar.jpg" || p == "/placeholder.jpg"
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'; form-action 'self'; frame-ancestors 'none'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:     middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     "_csrf",
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/api/")
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/" ||
				strings.HasPrefix(p, "/public") ||
				strings.HasPrefix(p, "/api/") ||
				strings.Contains(lastSegment(p), ".") ||
				p == "/metrics" || p == "/healthz"
		},
	}))

	e.Use(cacheControlMiddleware)
}

// lastSegment returns the part of p after the final slash.
func lastSegment(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// requestLogger stores a request-scoped logger carrying the request id in
// the request context.
func (a *App) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			logger := a.Logger.With(slog.String("request_id", id))
			req := c.Request()
			c.SetRequest(req.WithContext(ctxlog.WithLogger(req.Context(), logger)))
			return next(c)
		}
	}
}

// corsMiddleware applies CORS to /api/ routes. With no configured origins
// the API stays same-origin and no CORS headers are sent.
func (a *App) corsMiddleware() echo.MiddlewareFunc {
	origins := a.Config.AllowedOrigins()
	if len(origins) == 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	wrap := echo.WrapMiddleware(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	}).Handler)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		withCORS := wrap(next)
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Request().URL.Path, "/api/") {
				return next(c)
			}
			return withCORS(c)
		}
	}
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := c.Request().URL.Path
		switch {
		case strings.HasPrefix(p, "/public/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case p == "/sitemap.xml" || p == "/feed.xml" || p == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=3600")
		case p == "/avatar.jpg" || p == "/placeholder.jpg":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case p == "/" || strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/go/") || strings.HasPrefix(p, "/subscribe"):
			c.Response().Header().Set("Cache-Control", "no-store")
		default:
			c.Response().Header().Set("Cache-Control", "public, max-age=60")
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 10,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// setFlash stores the outcome of a form submission for the next page view.
func setFlash(c echo.Context, key, msg string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.AddFlash(msg, key)
	return sess.Save(c.Request(), c.Response())
}

// popFlash returns and clears the first flash message stored under key.
func popFlash(c echo.Context, key string) string {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	flashes := sess.Flashes(key)
	if len(flashes) == 0 {
		return ""
	}
	_ = sess.Save(c.Request(), c.Response())
	msg, _ := flashes[0].(string)
	return msg
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
