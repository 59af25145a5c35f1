// Package middleware binds a fresh Manager to every request and provides
// the request logging used by the preview server.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/conneroisu/seo/internal/logging"
	"github.com/conneroisu/seo/internal/seo"
)

// Middleware represents a single middleware function
type Middleware func(http.Handler) http.Handler

// ManagerFactory builds a Manager for one request.
type ManagerFactory func(opts ...seo.ManagerOption) (*seo.Manager, error)

type contextKey struct{}

// SEO attaches a Manager built by newManager to the request context. The
// Manager's request URL collaborator reports CanonicalURL of the request.
func SEO(newManager ManagerFactory, logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m, err := newManager(seo.WithRequestURL(func() string {
				return CanonicalURL(r)
			}))
			if err != nil {
				if logger != nil {
					logger.Error(r.Context(), err, "Failed to create tag manager", "path", r.URL.Path)
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithManager(r.Context(), m)))
		})
	}
}

// WithManager returns a copy of ctx carrying m.
func WithManager(ctx context.Context, m *seo.Manager) context.Context {
	return context.WithValue(ctx, contextKey{}, m)
}

// FromContext returns the Manager bound by SEO.
func FromContext(ctx context.Context) (*seo.Manager, bool) {
	m, ok := ctx.Value(contextKey{}).(*seo.Manager)
	return m, ok && m != nil
}

// CanonicalURL is the request URL without its query string. The scheme is
// https when the connection is TLS or a proxy says so in X-Forwarded-Proto.
func CanonicalURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		// Proxies may append: "https, http".
		first, _, _ := strings.Cut(proto, ",")
		scheme = strings.ToLower(strings.TrimSpace(first))
	}

	host := r.Host
	if host == "" {
		host = r.URL.Host
	}

	path := r.URL.EscapedPath()
	if path == "" {
		path = "/"
	}

	return scheme + "://" + host + path
}
