package tenant

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nikhilbhutani/dinehub/internal/config"
)

// Source names where a restaurant id was found.
type Source string

const (
	SourceNone    Source = ""
	SourceHeader  Source = "header"
	SourceQuery   Source = "query"
	SourceDefault Source = "default"
	SourcePath    Source = "path"
)

// Candidates are the raw values a request offers for its restaurant id.
type Candidates struct {
	Header string
	Query  string
	Path   string
}

// Resolver picks the restaurant id for a request. Sources are tried in the
// order header, query, configured default, path; the first well-formed
// positive integer wins and later sources are not consulted.
type Resolver struct {
	cfg       config.TenantConfig
	pathParam func(r *http.Request, key string) string
}

func NewResolver(cfg config.TenantConfig) *Resolver {
	return &Resolver{cfg: cfg, pathParam: chi.URLParam}
}

func (rs *Resolver) Candidates(r *http.Request) Candidates {
	c := Candidates{}
	if rs.cfg.HeaderName != "" {
		c.Header = r.Header.Get(rs.cfg.HeaderName)
	}
	if rs.cfg.QueryParam != "" {
		c.Query = r.URL.Query().Get(rs.cfg.QueryParam)
	}
	if rs.cfg.PathParam != "" {
		c.Path = rs.pathParam(r, rs.cfg.PathParam)
	}
	return c
}

// Resolve is a pure function of the candidates and the configured default.
func (rs *Resolver) Resolve(c Candidates) (int64, Source) {
	if id, ok := parseID(c.Header); ok {
		return id, SourceHeader
	}
	if id, ok := parseID(c.Query); ok {
		return id, SourceQuery
	}
	if rs.cfg.DefaultID > 0 {
		return rs.cfg.DefaultID, SourceDefault
	}
	if id, ok := parseID(c.Path); ok {
		return id, SourcePath
	}
	return 0, SourceNone
}

func (rs *Resolver) ResolveRequest(r *http.Request) (int64, Source) {
	return rs.Resolve(rs.Candidates(r))
}

func parseID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
