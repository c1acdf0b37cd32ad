package handlers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/audit"
	"github.com/nikhilbhutani/dinehub/internal/auth"
	"github.com/nikhilbhutani/dinehub/internal/models"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
)

type AuditReader interface {
	GetAuditLogs(ctx context.Context, q audit.AuditQuery) ([]models.AuditLog, error)
}

// RestaurantAdmin is the restaurant persistence behind the admin routes.
type RestaurantAdmin interface {
	Create(ctx context.Context, req tenant.CreateRequest) (*models.Tenant, error)
	UpdateSubscription(ctx context.Context, id int64, u tenant.SubscriptionUpdate) (*models.Tenant, error)
}

// AdminHandler serves the platform-admin surface. Routes are gated by RBAC.
type AdminHandler struct {
	audit   AuditReader
	tenants RestaurantAdmin
	users   *auth.Service
	render  apperror.Renderer
}

func NewAdminHandler(auditLogs AuditReader, tenants RestaurantAdmin, users *auth.Service, render apperror.Renderer) *AdminHandler {
	return &AdminHandler{audit: auditLogs, tenants: tenants, users: users, render: render}
}

func (h *AdminHandler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	q := audit.AuditQuery{
		Action: r.URL.Query().Get("action"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}

	var err error
	if q.StartDate, err = queryTime(r, "start_date"); err != nil {
		h.render.Write(w, r, err)
		return
	}
	if q.EndDate, err = queryTime(r, "end_date"); err != nil {
		h.render.Write(w, r, err)
		return
	}
	if r.URL.Query().Get("restaurant_id") != "" {
		id, err := queryID(r, "restaurant_id")
		if err != nil {
			h.render.Write(w, r, err)
			return
		}
		q.TenantID = &id
	}

	logs, err := h.audit.GetAuditLogs(r.Context(), q)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs, "count": len(logs)})
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func (h *AdminHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req tenant.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.render.Write(w, r, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	switch {
	case req.Name == "":
		h.render.Write(w, r, apperror.ErrInvalidRequest.WithMessage("name is required"))
		return
	case !slugPattern.MatchString(req.Slug):
		h.render.Write(w, r, apperror.ErrInvalidRequest.WithMessage("slug must be lowercase letters, digits and dashes"))
		return
	case req.OwnerID <= 0:
		h.render.Write(w, r, apperror.ErrInvalidRequest.WithMessage("owner_id is required"))
		return
	}

	t, err := h.tenants.Create(r.Context(), req)
	if errors.Is(err, tenant.ErrExists) {
		h.render.Write(w, r, apperror.ErrTenantExists.WithDetails("slug %s, owner %d", req.Slug, req.OwnerID))
		return
	}
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *AdminHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "restaurantId")
	if err != nil {
		h.render.Write(w, r, err)
		return
	}

	var u tenant.SubscriptionUpdate
	if err := decodeJSON(w, r, &u); err != nil {
		h.render.Write(w, r, err)
		return
	}
	if u.Status != nil && !u.Status.Valid() {
		h.render.Write(w, r, apperror.ErrInvalidRequest.WithMessage("unknown subscription_status"))
		return
	}

	t, err := h.tenants.UpdateSubscription(r.Context(), id, u)
	if errors.Is(err, tenant.ErrNotFound) {
		h.render.Write(w, r, apperror.ErrTenantNotFound)
		return
	}
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *AdminHandler) SetDefaultRestaurant(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.render.Write(w, r, err)
		return
	}

	var body struct {
		RestaurantID *int64 `json:"restaurant_id"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		h.render.Write(w, r, err)
		return
	}
	if body.RestaurantID != nil && *body.RestaurantID <= 0 {
		h.render.Write(w, r, apperror.ErrInvalidRequest.WithMessage("restaurant_id must be positive or null"))
		return
	}

	u, err := h.users.SetDefaultTenant(r.Context(), tenant.UserFromContext(r.Context()), id, body.RestaurantID)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
