// Package analytics records page views server-side without cookies. Visitors
// are identified by a salted hash of IP, user agent and day, so the same
// person cannot be followed across days and raw addresses are never stored.
package analytics

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// InitSalt loads or generates the per-installation salt for visitor hashes.
// Call it once after NewStore, before any visits are recorded.
func InitSalt(store *Store) error {
	s, err := store.GetSetting("hash_salt")
	if err != nil {
		return fmt.Errorf("read hash salt: %w", err)
	}
	if s == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}
		s = hex.EncodeToString(b)
		if err := store.SetSetting("hash_salt", s); err != nil {
			return fmt.Errorf("store hash salt: %w", err)
		}
	}
	store.salt = s
	return nil
}

// Visit is a single human page view.
type Visit struct {
	VisitorID string    `json:"visitor_id"`
	Path      string    `json:"path"`
	Referrer  string    `json:"referrer"`
	Browser   string    `json:"browser"`
	OS        string    `json:"os"`
	Device    string    `json:"device"`
	Locale    string    `json:"locale"`
	Timestamp time.Time `json:"timestamp"`
}

// BotVisit is a page view by a crawler.
type BotVisit struct {
	BotName   string    `json:"bot_name"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Stats holds aggregated analytics for a time range.
type Stats struct {
	From           string          `json:"from"`
	To             string          `json:"to"`
	UniqueVisitors int             `json:"unique_visitors"`
	TotalViews     int             `json:"total_views"`
	BotViews       int             `json:"bot_views"`
	TopPages       []PageStat      `json:"top_pages"`
	Referrers      []DimensionStat `json:"referrers"`
	Browsers       []DimensionStat `json:"browsers"`
	Devices        []DimensionStat `json:"devices"`
	Locales        []DimensionStat `json:"locales"`
	TopBots        []DimensionStat `json:"top_bots"`
	DailyViews     []DailyView     `json:"daily_views"`
}

// PageStat is the view count of one path.
type PageStat struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// DimensionStat is a breakdown bucket (browser, referrer, ...).
type DimensionStat struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyView is the number of views on one UTC day.
type DailyView struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// VisitorID hashes ip, user agent and the UTC day of t with salt.
func VisitorID(salt, ip, userAgent string, t time.Time) string {
	h := sha256.New()
	h.Write([]byte(salt + "|" + ip + "|" + userAgent + "|" + t.UTC().Format("2006-01-02")))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// ParseUserAgent extracts browser, OS, and device from a User-Agent string.
func ParseUserAgent(ua string) (browser, os, device string) {
	ua = strings.ToLower(ua)

	// Edge and Opera also claim Chrome and Safari.
	switch {
	case strings.Contains(ua, "firefox"):
		browser = "Firefox"
	case strings.Contains(ua, "opr/") || strings.Contains(ua, "opera"):
		browser = "Opera"
	case strings.Contains(ua, "edg"):
		browser = "Edge"
	case strings.Contains(ua, "micromessenger"):
		browser = "WeChat"
	case strings.Contains(ua, "chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "safari"):
		browser = "Safari"
	default:
		browser = "Other"
	}

	// Android UAs contain "linux".
	switch {
	case strings.Contains(ua, "windows"):
		os = "Windows"
	case strings.Contains(ua, "android"):
		os = "Android"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		os = "iOS"
	case strings.Contains(ua, "macintosh") || strings.Contains(ua, "mac os"):
		os = "macOS"
	case strings.Contains(ua, "linux"):
		os = "Linux"
	default:
		os = "Other"
	}

	// iPad UAs contain "mobile".
	switch {
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		device = "Tablet"
	case strings.Contains(ua, "mobile"):
		device = "Mobile"
	default:
		device = "Desktop"
	}

	return
}

// botPatterns is checked in order; specific crawlers come before the
// generic words.
var botPatterns = []struct{ pattern, name string }{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"baiduspider", "Baidu"},
	{"baidu", "Baidu"},
	{"yandex", "Yandex"},
	{"sogou", "Sogou"},
	{"bytespider", "Bytespider"},
	{"duckduckbot", "DuckDuckBot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedIn"},
	{"ahrefsbot", "Ahrefs"},
	{"semrushbot", "SEMrush"},
	{"mj12bot", "Majestic"},
	{"dotbot", "Moz"},
	{"gptbot", "GPTBot"},
	{"slurp", "Yahoo Slurp"},
	{"crawler", "Generic Crawler"},
	{"crawl", "Generic Crawler"},
	{"spider", "Generic Spider"},
	{"scrape", "Scraper"},
	{"bot", "Other Bot"},
}

// BotName returns the crawler name for ua, or "" for a human browser.
// An empty user agent counts as a bot.
func BotName(ua string) string {
	if strings.TrimSpace(ua) == "" {
		return "Unknown"
	}
	ua = strings.ToLower(ua)
	for _, b := range botPatterns {
		if strings.Contains(ua, b.pattern) {
			return b.name
		}
	}
	return ""
}

// IsBot checks if the User-Agent is likely a bot/crawler.
func IsBot(ua string) bool {
	return BotName(ua) != ""
}

var referrerDomainRegex = regexp.MustCompile(`^https?://(?:www\.)?([^/:?#]+)`)

var searchEngines = []struct{ needle, name string }{
	{"google.", "Google"},
	{"bing.", "Bing"},
	{"baidu.", "Baidu"},
	{"duckduckgo.", "DuckDuckGo"},
	{"yahoo.", "Yahoo"},
	{"github.", "GitHub"},
}

// CleanReferrer reduces a referrer URL to a display name: a known search
// engine, the bare domain, or "Direct". Referrers from siteHost are
// internal navigation and also count as "Direct".
func CleanReferrer(ref, siteHost string) string {
	if ref == "" {
		return "Direct"
	}
	m := referrerDomainRegex.FindStringSubmatch(ref)
	if len(m) < 2 {
		return "Other"
	}
	domain := strings.ToLower(m[1])
	host, _, _ := strings.Cut(strings.ToLower(siteHost), ":")
	if host != "" && domain == strings.TrimPrefix(host, "www.") {
		return "Direct"
	}
	for _, e := range searchEngines {
		if strings.Contains(domain, e.needle) {
			return e.name
		}
	}
	return domain
}
