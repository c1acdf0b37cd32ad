package tenant

import (
	"errors"
	"net/http"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/metrics"
)

// Options is the per-route tenant policy.
type Options struct {
	// Required makes a missing restaurant id fatal. When false the request
	// continues without a restaurant in context.
	Required bool
	// AuthRoute is set on login and registration routes.
	AuthRoute bool
}

type Middleware struct {
	resolver *Resolver
	loader   *Loader
	render   apperror.Renderer
	metrics  *metrics.Metrics
}

func NewMiddleware(resolver *Resolver, loader *Loader, render apperror.Renderer, m *metrics.Metrics) *Middleware {
	return &Middleware{resolver: resolver, loader: loader, render: render, metrics: m}
}

// Handler resolves and validates the restaurant before next runs. next never
// sees a partially resolved restaurant.
func (m *Middleware) Handler(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, _ := m.resolver.ResolveRequest(r)

			t, err := m.loader.Load(r.Context(), LoadRequest{
				TenantID:  id,
				Principal: UserFromContext(r.Context()),
				AuthRoute: opts.AuthRoute,
				IP:        r.RemoteAddr,
			})
			if errors.Is(err, apperror.ErrTenantIDRequired) && !opts.Required {
				m.metrics.Tenant("skipped")
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				if e, ok := apperror.From(err); ok {
					m.metrics.Tenant(e.Code)
				} else {
					m.metrics.Tenant("error")
				}
				m.render.Write(w, r, err)
				return
			}

			m.metrics.Tenant("resolved")
			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), t)))
		})
	}
}
