package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/order"
)

type OrderHandler struct {
	svc    *order.Service
	render apperror.Renderer
}

func NewOrderHandler(svc *order.Service, render apperror.Renderer) *OrderHandler {
	return &OrderHandler{svc: svc, render: render}
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in order.CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.render.Write(w, r, err)
		return
	}

	o, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.List(r.Context(), order.ListParams{
		Status: r.URL.Query().Get("status"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	})
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders, "count": len(orders)})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.render.Write(w, r, err)
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.render.Write(w, r, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		h.render.Write(w, r, err)
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
