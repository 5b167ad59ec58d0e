package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"realtor-site/internal/domain"
	"realtor-site/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LeadPublisher downstream fan-out of new leads (Redis stream in production).
type LeadPublisher interface {
	Publish(ctx context.Context, lead *domain.Lead) (string, error)
}

// ContactRequest body of POST /api/contact.
type ContactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	PropertyID string `json:"propertyId"`
	Source     string `json:"source"`
}

// BookingRequest body of POST /api/bookings.
type BookingRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Message       string `json:"message"`
	PropertyID    string `json:"propertyId"`
	Source        string `json:"source"`
	PreferredTime string `json:"preferredTime"` // RFC 3339
}

// LeadService persists contact and showing requests. Persistence is the
// only step that can fail the call; the stream event and agent email are
// best-effort.
type LeadService struct {
	leads     repository.LeadsRepository
	publisher LeadPublisher // optional
	notifier  *NotificationService
	now       func() time.Time
	logger    *zap.Logger
}

func NewLeadService(leads repository.LeadsRepository, publisher LeadPublisher, notifier *NotificationService, logger *zap.Logger) *LeadService {
	return &LeadService{
		leads:     leads,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *LeadService) SubmitContact(ctx context.Context, req ContactRequest) (*domain.Lead, error) {
	if err := requireContact(req.Name, req.Email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, invalidf("Name, email and message are required")
	}
	source, err := parseSource(req.Source, req.PropertyID)
	if err != nil {
		return nil, err
	}
	lead := &domain.Lead{
		ID:             uuid.NewString(),
		Kind:           domain.LeadContact,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Message:        strings.TrimSpace(req.Message),
		PropertyID:     strings.TrimSpace(req.PropertyID),
		PropertySource: source,
	}
	if err := s.capture(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) SubmitBooking(ctx context.Context, req BookingRequest) (*domain.Lead, error) {
	if err := requireContact(req.Name, req.Email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.PropertyID) == "" || strings.TrimSpace(req.PreferredTime) == "" {
		return nil, invalidf("Property and preferred time are required")
	}
	when, err := time.Parse(time.RFC3339, strings.TrimSpace(req.PreferredTime))
	if err != nil {
		return nil, invalidf("preferredTime must be an RFC 3339 timestamp")
	}
	if when.Before(s.now()) {
		return nil, invalidf("preferredTime must be in the future")
	}
	source, err := parseSource(req.Source, req.PropertyID)
	if err != nil {
		return nil, err
	}
	lead := &domain.Lead{
		ID:             uuid.NewString(),
		Kind:           domain.LeadShowing,
		Name:           strings.TrimSpace(req.Name),
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		Message:        strings.TrimSpace(req.Message),
		PropertyID:     strings.TrimSpace(req.PropertyID),
		PropertySource: source,
		PreferredTime:  &when,
	}
	if err := s.capture(ctx, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) List(ctx context.Context, kind domain.LeadKind, limit, offset int) ([]*domain.Lead, int, error) {
	if kind != "" && kind != domain.LeadContact && kind != domain.LeadShowing {
		return nil, 0, invalidf("unknown lead kind %q", kind)
	}
	return s.leads.ListLeads(ctx, kind, limit, offset)
}

func (s *LeadService) capture(ctx context.Context, lead *domain.Lead) error {
	if err := s.leads.CreateLead(ctx, lead); err != nil {
		return fmt.Errorf("failed to save lead: %w", err)
	}
	s.logger.Info("Lead captured", zap.String("lead_id", lead.ID), zap.String("kind", string(lead.Kind)))

	if s.publisher != nil {
		if _, err := s.publisher.Publish(ctx, lead); err != nil {
			s.logger.Warn("Failed to publish lead event", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}
	if s.notifier != nil {
		if err := s.notifier.SendLead(ctx, lead); err != nil {
			s.logger.Warn("Failed to notify agent of lead", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}
	return nil
}

func requireContact(name, email string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
		return invalidf("Name and email are required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return invalidf("Invalid email address")
	}
	return nil
}

// parseSource empty means crm when a property is referenced.
func parseSource(raw, propertyID string) (domain.Source, error) {
	if strings.TrimSpace(propertyID) == "" {
		return "", nil
	}
	switch domain.Source(strings.ToLower(strings.TrimSpace(raw))) {
	case "", domain.SourceCRM:
		return domain.SourceCRM, nil
	case domain.SourceMLS:
		return domain.SourceMLS, nil
	}
	return "", invalidf("source must be crm or mls")
}
