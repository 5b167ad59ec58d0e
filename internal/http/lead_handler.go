package httpapi

import (
	"context"
	"net/http"

	"realtor-site/internal/domain"
	"realtor-site/internal/service"

	"go.uber.org/zap"
)

type LeadCapturer interface {
	SubmitContact(ctx context.Context, req service.ContactRequest) (*domain.Lead, error)
	SubmitBooking(ctx context.Context, req service.BookingRequest) (*domain.Lead, error)
	List(ctx context.Context, kind domain.LeadKind, limit, offset int) ([]*domain.Lead, int, error)
}

type LeadHandler struct {
	leads  LeadCapturer
	logger *zap.Logger
}

func NewLeadHandler(leads LeadCapturer, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{leads: leads, logger: logger}
}

type leadCreated struct {
	ID string `json:"id"`
}

// Contact POST /api/contact
func (h *LeadHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req service.ContactRequest
	if !decodeBody(w, r, &req) {
		return
	}
	lead, err := h.leads.SubmitContact(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, "SubmitContact", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(leadCreated{ID: lead.ID}))
}

// Booking POST /api/bookings
func (h *LeadHandler) Booking(w http.ResponseWriter, r *http.Request) {
	var req service.BookingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	lead, err := h.leads.SubmitBooking(r.Context(), req)
	if err != nil {
		writeServiceError(w, h.logger, "SubmitBooking", err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(leadCreated{ID: lead.ID}))
}

// List GET /api/admin/leads?kind=&limit=&offset=
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := page(r, 50, 200)
	kind := domain.LeadKind(r.URL.Query().Get("kind"))
	leads, total, err := h.leads.List(r.Context(), kind, limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, "ListLeads", err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(NewPage(leads, total, limit, offset)))
}
