package prefs

import (
	"log/slog"
	"net/http"
)

// Middleware resolves preferences for each request and stores them in the
// request context. A malformed header never rejects the request; it is
// logged and the defaults apply.
func Middleware(defaults Prefs, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var p Prefs

			if header := r.Header.Get(Header); header != "" {
				parsed, err := ParseHeader(header)
				if err != nil {
					logger.Warn("invalid Storefront-Prefs header",
						slog.String("header", header),
						slog.String("error", err.Error()))
				} else {
					p = parsed
				}
			}

			if p.Locale == "" {
				if locale, ok := FromAcceptLanguage(r.Header.Get("Accept-Language")); ok {
					p.Locale = locale
				}
			}

			p = p.merge(defaults)
			w.Header().Set("Content-Language", string(p.Locale))

			next.ServeHTTP(w, r.WithContext(WithPrefs(r.Context(), p)))
		})
	}
}
