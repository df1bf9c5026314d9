// Package prefs carries per-request presentation preferences.
//
// REST clients send them in the Storefront-Prefs header, an RFC 8941
// dictionary:
//
//	Storefront-Prefs: lang="ar", theme="dark", currency="EGP"
//
// Accept-Language is consulted when the header carries no lang. Handlers
// and the backend client read the result from the request context.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dunglas/httpsfv"

	"learnhub-storefront/internal/i18n"
)

// Header is the request header carrying preferences.
const Header = "Storefront-Prefs"

// Theme values accepted in the header.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Prefs are the resolved preferences of one request.
type Prefs struct {
	Locale   i18n.Locale `json:"locale"`
	Theme    string      `json:"theme,omitempty"`
	Currency string      `json:"currency,omitempty"`
}

// ParseHeader decodes a Storefront-Prefs value. Keys other than lang, theme
// and currency are ignored. An unsupported lang or theme is an error so the
// caller can log it and fall back.
//
// Examples:
//   - lang="ar"                  → Locale ar
//   - lang=ar, theme=dark        → tokens are accepted like strings
//   - lang="ar-EG";q=1           → Locale ar (params ignored)
func ParseHeader(header string) (Prefs, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Prefs{}, errors.New("empty Storefront-Prefs header")
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return Prefs{}, fmt.Errorf("invalid Storefront-Prefs header: %w", err)
	}

	var p Prefs
	if lang, ok := stringMember(dict, "lang"); ok {
		locale, supported := i18n.Parse(lang)
		if !supported {
			return Prefs{}, fmt.Errorf("unsupported lang %q", lang)
		}
		p.Locale = locale
	}
	if theme, ok := stringMember(dict, "theme"); ok {
		switch theme = strings.ToLower(theme); theme {
		case ThemeLight, ThemeDark:
			p.Theme = theme
		default:
			return Prefs{}, fmt.Errorf("unsupported theme %q", theme)
		}
	}
	if cur, ok := stringMember(dict, "currency"); ok {
		p.Currency = strings.ToUpper(cur)
	}
	return p, nil
}

// stringMember returns a dictionary member whose bare item is a string or
// a token.
func stringMember(dict *httpsfv.Dictionary, key string) (string, bool) {
	member, ok := dict.Get(key)
	if !ok {
		return "", false
	}
	item, ok := member.(httpsfv.Item)
	if !ok {
		return "", false
	}
	switch v := item.Value.(type) {
	case string:
		return v, true
	case httpsfv.Token:
		return string(v), true
	default:
		return "", false
	}
}

// FormatHeader encodes p as a Storefront-Prefs value. Empty fields are
// omitted.
func FormatHeader(p Prefs) (string, error) {
	dict := httpsfv.NewDictionary()
	if p.Locale != "" {
		dict.Add("lang", httpsfv.NewItem(string(p.Locale)))
	}
	if p.Theme != "" {
		dict.Add("theme", httpsfv.NewItem(p.Theme))
	}
	if p.Currency != "" {
		dict.Add("currency", httpsfv.NewItem(p.Currency))
	}
	return httpsfv.Marshal(dict)
}

// FromAcceptLanguage returns the first supported locale in an
// Accept-Language value. List order wins; q-weights are not ranked.
func FromAcceptLanguage(header string) (i18n.Locale, bool) {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if locale, ok := i18n.Parse(tag); ok {
			return locale, true
		}
	}
	return "", false
}

// merge fills empty fields of p from defaults.
func (p Prefs) merge(defaults Prefs) Prefs {
	if p.Locale == "" {
		p.Locale = defaults.Locale
	}
	if p.Theme == "" {
		p.Theme = defaults.Theme
	}
	if p.Currency == "" {
		p.Currency = defaults.Currency
	}
	return p
}

// contextKey is the type for context values to avoid collisions
type contextKey string

const prefsContextKey contextKey = "storefront.prefs"

// WithPrefs returns a context carrying p.
func WithPrefs(ctx context.Context, p Prefs) context.Context {
	return context.WithValue(ctx, prefsContextKey, p)
}

// FromContext returns the preferences stored by the middleware.
func FromContext(ctx context.Context) (Prefs, bool) {
	p, ok := ctx.Value(prefsContextKey).(Prefs)
	return p, ok
}

// LocaleFromContext returns the request locale, or fallback when unset.
func LocaleFromContext(ctx context.Context, fallback i18n.Locale) i18n.Locale {
	if p, ok := FromContext(ctx); ok && p.Locale != "" {
		return p.Locale
	}
	return fallback
}
