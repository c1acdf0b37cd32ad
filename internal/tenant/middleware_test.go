package tenant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/metrics"
	"github.com/nikhilbhutani/dinehub/internal/models"
)

func newTestRouter(store Store, opts Options, principal *models.User) http.Handler {
	mw := NewMiddleware(NewResolver(testTenantConfig()), newTestLoader(store, nil),
		apperror.Renderer{}, metrics.New(prometheus.NewRegistry()))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if principal != nil {
				req = req.WithContext(WithUser(req.Context(), principal))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.With(mw.Handler(opts)).Get("/probe", func(w http.ResponseWriter, req *http.Request) {
		apperror.WriteJSON(w, http.StatusOK, map[string]int64{"restaurant_id": IDFromContext(req.Context())})
	})
	return r
}

func do(t *testing.T, h http.Handler, header string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("X-Restaurant-ID", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestMiddleware_AttachesTenant(t *testing.T) {
	h := newTestRouter(newFakeStore(activeTenant(7, 100)), Options{Required: true}, customer)

	rec, out := do(t, h, "7")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), out["restaurant_id"])
}

func TestMiddleware_RequiredMissing(t *testing.T) {
	h := newTestRouter(newFakeStore(), Options{Required: true}, nil)

	rec, out := do(t, h, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "TENANT_ID_REQUIRED", out["code"])
}

func TestMiddleware_OptionalMissingPassesThrough(t *testing.T) {
	h := newTestRouter(newFakeStore(), Options{}, nil)

	rec, out := do(t, h, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), out["restaurant_id"])
}

func TestMiddleware_OptionalStillValidatesPresentID(t *testing.T) {
	inactive := activeTenant(7, 100)
	inactive.IsActive = false
	h := newTestRouter(newFakeStore(inactive), Options{}, nil)

	rec, out := do(t, h, "7")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "TENANT_INACTIVE", out["code"])
}

func TestMiddleware_OwnerOverride(t *testing.T) {
	h := newTestRouter(newFakeStore(activeTenant(7, 100), activeTenant(9, 200)), Options{Required: true}, owner7)

	rec, out := do(t, h, "9")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), out["restaurant_id"])
}

func TestMiddleware_AuthRouteKeepsInboundID(t *testing.T) {
	h := newTestRouter(newFakeStore(activeTenant(7, 100), activeTenant(9, 200)), Options{AuthRoute: true}, owner7)

	rec, out := do(t, h, "9")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(9), out["restaurant_id"])
}
