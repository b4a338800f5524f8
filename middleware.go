package littlehouse

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/littlehouse/analytics"
	"github.com/eringen/littlehouse/i18n"
)

const (
	sessionName = "study_session"
	localeKey   = "locale"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	// Runs on the raw path so /zh-CN/blog redirects to /zh-CN/blog/.
	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			return isAssetPath(i18n.StripPrefix(c.Request().URL.Path))
		},
	}))
	e.Pre(localeMiddleware)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s) id=%s", v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/public/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:  middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup: "header:X-CSRF-Token,form:_csrf",
		CookieName:  "_csrf",
		CookiePath:  "/",
		CookieSameSite: func() http.SameSite {
			return http.SameSiteLaxMode
		}(),
		CookieSecure: a.Config.CookieSecure,
		// Bearer requests carry their own credential and no cookies need
		// protecting; the login endpoint has nothing to forge yet.
		Skipper: func(c echo.Context) bool {
			req := c.Request()
			return req.Header.Get(echo.HeaderAuthorization) != "" ||
				req.URL.Path == "/api/study/login"
		},
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(cacheControlMiddleware)

	if a.analyticsStore != nil {
		e.Use(analytics.Middleware(a.analyticsStore, analytics.MiddlewareConfig{
			Skipper: func(c echo.Context) bool {
				path := c.Request().URL.Path
				return isAssetPath(path) ||
					strings.HasPrefix(path, "/api/") ||
					strings.HasPrefix(path, "/study/")
			},
		}))
	}
}

// isAssetPath reports paths that are files rather than pages.
func isAssetPath(path string) bool {
	return strings.HasPrefix(path, "/public") ||
		strings.HasPrefix(path, "/api/") ||
		path == "/sitemap.xml" || path == "/feed.xml" || path == "/atom.xml" ||
		path == "/robots.txt" || path == "/favicon.svg"
}

// localeMiddleware strips a locale prefix from the path so one route table
// serves every locale, and records the locale on the request. Unprefixed
// API calls take the locale from Accept-Language instead.
func localeMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		path := req.URL.Path
		l := i18n.FromPath(path)
		if stripped := i18n.StripPrefix(path); stripped != path {
			req.URL.Path = stripped
			if req.URL.RawPath != "" {
				req.URL.RawPath = i18n.StripPrefix(req.URL.RawPath)
			}
		} else if strings.HasPrefix(path, "/api/") {
			l = i18n.Negotiate(req.Header.Get("Accept-Language"))
		}
		c.Set(localeKey, l)
		c.SetRequest(req.WithContext(i18n.WithLocale(req.Context(), l)))
		return next(c)
	}
}

// Locale returns the locale of the current request.
func Locale(c echo.Context) i18n.Locale {
	if l, ok := c.Get(localeKey).(i18n.Locale); ok {
		return l
	}
	return i18n.Default
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/public/uploads/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/public/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/sitemap.xml" || path == "/feed.xml" || path == "/atom.xml" || path == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		case strings.HasPrefix(path, "/study") || strings.HasPrefix(path, "/api/"):
			c.Response().Header().Set("Cache-Control", "no-store")
		default:
			c.Response().Header().Set("Cache-Control", "public, max-age=300")
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(a.Config.AuthTTL.Seconds()),
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
