package api

import (
	"context"
	"log/slog"
	"net/http"

	"golang.org/x/mod/semver"
)

// HeaderAPIVersion is the response header carrying the backend version.
const HeaderAPIVersion = "X-API-Version"

// checkVersion records the backend version and warns once when it is older
// than the configured minimum. Mismatches never fail a call.
func (c *Client) checkVersion(ctx context.Context, h http.Header) {
	v := h.Get(HeaderAPIVersion)
	if v == "" {
		return
	}

	c.versionMu.Lock()
	c.version = v
	c.versionMu.Unlock()

	if c.minVersion == "" {
		return
	}

	c.versionOnce.Do(func() {
		older, ok := OlderThan(v, c.minVersion)
		switch {
		case !ok:
			c.logger.WarnContext(ctx, "backend sent unparseable API version",
				slog.String("version", v))
		case older:
			c.logger.WarnContext(ctx, "backend API version older than supported minimum",
				slog.String("version", v),
				slog.String("minimum", c.minVersion))
		}
	})
}

// BackendVersion returns the last X-API-Version seen, or "".
func (c *Client) BackendVersion() string {
	c.versionMu.RLock()
	defer c.versionMu.RUnlock()
	return c.version
}

// OlderThan reports whether version sorts before minimum. ok is false when
// either is not a semantic version.
func OlderThan(version, minimum string) (older, ok bool) {
	v, m := normalizeVersion(version), normalizeVersion(minimum)
	if !semver.IsValid(v) || !semver.IsValid(m) {
		return false, false
	}
	return semver.Compare(v, m) < 0, true
}

func validVersion(v string) bool {
	return semver.IsValid(normalizeVersion(v))
}

// normalizeVersion adds "v" prefix if needed for semver parsing.
func normalizeVersion(v string) string {
	if v == "" {
		return ""
	}
	if v[0] != 'v' {
		return "v" + v
	}
	return v
}
