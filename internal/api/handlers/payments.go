package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/dinehub/internal/apperror"
	"github.com/nikhilbhutani/dinehub/internal/payment"
	"github.com/nikhilbhutani/dinehub/internal/tenant"
)

type PaymentHandler struct {
	svc    *payment.Service
	render apperror.Renderer
}

func NewPaymentHandler(svc *payment.Service, render apperror.Renderer) *PaymentHandler {
	return &PaymentHandler{svc: svc, render: render}
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var in payment.IntentInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.render.Write(w, r, err)
		return
	}

	res, err := h.svc.CreateIntent(r.Context(), tenant.UserFromContext(r.Context()), in)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *PaymentHandler) CreateMobileIntent(w http.ResponseWriter, r *http.Request) {
	var in payment.IntentInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.render.Write(w, r, err)
		return
	}

	res, err := h.svc.CreateMobilePayIntent(r.Context(), tenant.UserFromContext(r.Context()), in)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IntentID string `json:"payment_intent_id"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		h.render.Write(w, r, err)
		return
	}

	res, err := h.svc.ConfirmPayment(r.Context(), tenant.UserFromContext(r.Context()), body.IntentID)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *PaymentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var in payment.RefundInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.render.Write(w, r, err)
		return
	}

	res, err := h.svc.RefundPayment(r.Context(), tenant.UserFromContext(r.Context()), in)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	in := payment.ListInput{
		Status: r.URL.Query().Get("status"),
		Limit:  queryInt(r, "limit"),
		Offset: queryInt(r, "offset"),
	}
	from, err := queryTime(r, "start_date")
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	to, err := queryTime(r, "end_date")
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	if from != nil {
		in.From = *from
	}
	if to != nil {
		in.To = *to
	}

	page, err := h.svc.ListPayments(r.Context(), tenant.UserFromContext(r.Context()), in)
	if err != nil {
		h.render.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
