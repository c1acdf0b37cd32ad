package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/webhook"
)

type WebhookHandler struct {
	svc    *webhook.Service
	render apperror.Renderer
}

func NewWebhookHandler(svc *webhook.Service, render apperror.Renderer) *WebhookHandler {
	return &WebhookHandler{svc: svc, render: render}
}

func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req webhook.CreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.render.Write(w, r, err)
		return
	}

	wh, err := h.svc.Create(r.Context(), req)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	// the secret is only ever returned here
	writeJSON(w, http.StatusCreated, wh)
}

func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	webhooks, err := h.svc.List(r.Context())
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"webhooks": webhooks, "count": len(webhooks)})
}

func (h *WebhookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.render.Write(w, r, apperror.ErrInvalidRequest.WithMessage("invalid webhook id"))
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
