// Package i18n handles locale-prefixed paths. The default locale is served
// unprefixed; every other locale lives under /<locale>/.
package i18n

import (
	"context"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported site language.
type Locale string

const (
	English Locale = "en"
	Chinese Locale = "zh-CN"
)

// Default is the locale served without a path prefix.
const Default = English

// Locales lists every supported locale, default first.
var Locales = []Locale{English, Chinese}

// aliases maps extra path prefixes onto a locale.
var aliases = map[string]Locale{
	"zh-CN": Chinese,
	"zh":    Chinese,
}

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.SimplifiedChinese,
})

// Name returns the locale's display name.
func (l Locale) Name() string {
	switch l {
	case Chinese:
		return "中文"
	default:
		return "English"
	}
}

// Tag returns the BCP 47 tag used in lang attributes.
func (l Locale) Tag() string {
	return string(l)
}

// Parse maps a tag or prefix such as "zh", "zh-CN" or "en-US" onto a
// supported locale, falling back to Default.
func Parse(s string) Locale {
	if l, ok := aliases[s]; ok {
		return l
	}
	tag, err := language.Parse(s)
	if err != nil {
		return Default
	}
	return fromTag(tag)
}

// Negotiate picks the best supported locale for an Accept-Language header.
func Negotiate(acceptLanguage string) Locale {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Locales[idx]
}

func fromTag(tag language.Tag) Locale {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return Default
	}
	return Locales[idx]
}

// FromPath returns the locale a path is served in.
func FromPath(path string) Locale {
	l, _ := split(path)
	return l
}

// StripPrefix removes a locale prefix, returning "/" for a bare prefix.
func StripPrefix(path string) string {
	_, rest := split(path)
	return rest
}

// AddPrefix puts path under locale's prefix. The default locale is left
// unprefixed.
func AddPrefix(path string, l Locale) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if l == Default || l == "" {
		return path
	}
	if path == "/" {
		return "/" + string(l) + "/"
	}
	return "/" + string(l) + path
}

// Localize rewrites path, whatever its current locale, into l.
func Localize(path string, l Locale) string {
	return AddPrefix(StripPrefix(path), l)
}

func split(path string) (Locale, string) {
	trimmed := strings.TrimPrefix(path, "/")
	first, rest, _ := strings.Cut(trimmed, "/")
	if l, ok := aliases[first]; ok {
		return l, "/" + rest
	}
	return Default, path
}

type ctxKey struct{}

// WithLocale returns a context carrying l.
func WithLocale(ctx context.Context, l Locale) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the locale stored by WithLocale, or Default.
func FromContext(ctx context.Context) Locale {
	if l, ok := ctx.Value(ctxKey{}).(Locale); ok {
		return l
	}
	return Default
}
