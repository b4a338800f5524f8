package analytics

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/littlehouse/i18n"
)

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	// Skipper excludes requests from tracking.
	Skipper middleware.Skipper
	// Now replaces time.Now.
	Now func() time.Time
}

// Middleware records every successful HTML GET after the handler has run.
// A failed write is logged and the response is unaffected.
func Middleware(store *Store, cfg MiddlewareConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = middleware.DefaultSkipper
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			req := c.Request()
			if err != nil || req.Method != http.MethodGet || cfg.Skipper(c) {
				return err
			}
			if c.Response().Status != http.StatusOK || !isPage(c) || req.Header.Get("DNT") == "1" {
				return err
			}

			now := cfg.Now()
			ua := req.UserAgent()
			path := req.URL.Path
			ctx := context.WithoutCancel(req.Context())
			if bot := BotName(ua); bot != "" {
				bv := &BotVisit{BotName: bot, Path: path, Timestamp: now}
				if werr := store.SaveBotVisit(ctx, bv); werr != nil {
					c.Logger().Warnf("analytics: %v", werr)
				}
				return err
			}

			browser, os, device := ParseUserAgent(ua)
			v := &Visit{
				VisitorID: VisitorID(store.salt, c.RealIP(), ua, now),
				Path:      path,
				Referrer:  CleanReferrer(req.Referer(), req.Host),
				Browser:   browser,
				OS:        os,
				Device:    device,
				Locale:    string(i18n.FromContext(req.Context())),
				Timestamp: now,
			}
			if werr := store.SaveVisit(ctx, v); werr != nil {
				c.Logger().Warnf("analytics: %v", werr)
			}
			return err
		}
	}
}

// isPage reports whether the response is HTML.
func isPage(c echo.Context) bool {
	return strings.HasPrefix(c.Response().Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
}
