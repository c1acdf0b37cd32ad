package tenant

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/nikhilbhutani/dinehub/internal/config"
)

func testTenantConfig() config.TenantConfig {
	return config.TenantConfig{
		HeaderName: "X-Restaurant-ID",
		QueryParam: "restaurantId",
		PathParam:  "restaurantId",
	}
}

func TestResolver_Priority(t *testing.T) {
	tests := []struct {
		name       string
		defaultID  int64
		candidates Candidates
		wantID     int64
		wantSource Source
	}{
		{
			name:       "header wins over everything",
			defaultID:  5,
			candidates: Candidates{Header: "1", Query: "2", Path: "3"},
			wantID:     1,
			wantSource: SourceHeader,
		},
		{
			name:       "query before default",
			defaultID:  5,
			candidates: Candidates{Query: "2", Path: "3"},
			wantID:     2,
			wantSource: SourceQuery,
		},
		{
			name:       "default before path",
			defaultID:  5,
			candidates: Candidates{Path: "3"},
			wantID:     5,
			wantSource: SourceDefault,
		},
		{
			name:       "path last",
			candidates: Candidates{Path: "3"},
			wantID:     3,
			wantSource: SourcePath,
		},
		{
			name:       "malformed header falls through to query",
			candidates: Candidates{Header: "abc", Query: "2"},
			wantID:     2,
			wantSource: SourceQuery,
		},
		{
			name:       "non-positive values are not present",
			candidates: Candidates{Header: "0", Query: "-4", Path: "9"},
			wantID:     9,
			wantSource: SourcePath,
		},
		{
			name:       "decimal is malformed",
			candidates: Candidates{Header: "1.5"},
			wantID:     0,
			wantSource: SourceNone,
		},
		{
			name:       "nothing present",
			wantID:     0,
			wantSource: SourceNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testTenantConfig()
			cfg.DefaultID = tt.defaultID
			id, src := NewResolver(cfg).Resolve(tt.candidates)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantSource, src)
		})
	}
}

func TestResolver_ResolveRequest(t *testing.T) {
	rs := NewResolver(testTenantConfig())

	var gotID int64
	var gotSource Source
	r := chi.NewRouter()
	r.Get("/restaurants/{restaurantId}/orders", func(w http.ResponseWriter, req *http.Request) {
		gotID, gotSource = rs.ResolveRequest(req)
	})

	req := httptest.NewRequest(http.MethodGet, "/restaurants/3/orders?restaurantId=2", nil)
	req.Header.Set("X-Restaurant-ID", "1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, int64(1), gotID)
	assert.Equal(t, SourceHeader, gotSource)

	req = httptest.NewRequest(http.MethodGet, "/restaurants/3/orders", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, int64(3), gotID)
	assert.Equal(t, SourcePath, gotSource)
}
