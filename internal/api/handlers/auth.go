package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/auth"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
)

type AuthHandler struct {
	svc    *auth.Service
	render apperror.Renderer
}

func NewAuthHandler(svc *auth.Service, render apperror.Renderer) *AuthHandler {
	return &AuthHandler{svc: svc, render: render}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.render.Write(w, r, err)
		return
	}

	ctx := r.Context()
	sess, err := h.svc.Register(ctx, in, tenant.UserFromContext(ctx), tenant.FromContext(ctx))
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in auth.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.render.Write(w, r, err)
		return
	}

	sess, err := h.svc.Login(r.Context(), in, tenant.FromContext(r.Context()), r.RemoteAddr)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// Me returns the principal and, when one was resolved, its restaurant.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := tenant.UserFromContext(r.Context())
	if user == nil {
		h.render.Write(w, r, apperror.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":       user,
		"restaurant": tenant.FromContext(r.Context()),
	})
}
