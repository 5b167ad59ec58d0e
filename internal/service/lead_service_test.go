package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"realtor-site/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLeadService(repo *fakeLeadsRepo, pub *fakePublisher, mailer *fakeMailer) *LeadService {
	notifier := NewNotificationService(mailer, NewEmailRenderer(), "agent@example.com", zap.NewNop())
	svc := NewLeadService(repo, pub, notifier, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestSubmitContact(t *testing.T) {
	repo, pub, mailer := &fakeLeadsRepo{}, &fakePublisher{}, &fakeMailer{}
	svc := newLeadService(repo, pub, mailer)

	lead, err := svc.SubmitContact(context.Background(), ContactRequest{
		Name: " Ana ", Email: "ana@example.com", Message: "Interested in Rosedale", PropertyID: "p1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, "Ana", lead.Name)
	assert.Equal(t, domain.SourceCRM, lead.PropertySource)
	assert.Len(t, repo.leads, 1)
	assert.Len(t, pub.published, 1)
	assert.Len(t, mailer.sent, 1)
}

func TestSubmitContact_Validation(t *testing.T) {
	svc := newLeadService(&fakeLeadsRepo{}, &fakePublisher{}, &fakeMailer{})

	bad := []ContactRequest{
		{Email: "ana@example.com", Message: "hi"},
		{Name: "Ana", Email: "not-an-email", Message: "hi"},
		{Name: "Ana", Email: "ana@example.com"},
		{Name: "Ana", Email: "ana@example.com", Message: "hi", PropertyID: "p1", Source: "zillow"},
	}
	for _, req := range bad {
		_, err := svc.SubmitContact(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestSubmitContact_SideEffectFailuresAreTolerated(t *testing.T) {
	repo := &fakeLeadsRepo{}
	svc := newLeadService(repo, &fakePublisher{err: errors.New("redis down")}, &fakeMailer{err: errors.New("smtp down")})

	_, err := svc.SubmitContact(context.Background(), ContactRequest{Name: "Ana", Email: "ana@example.com", Message: "hi"})
	require.NoError(t, err)
	assert.Len(t, repo.leads, 1)
}

func TestSubmitContact_PersistFailureFails(t *testing.T) {
	pub := &fakePublisher{}
	svc := newLeadService(&fakeLeadsRepo{err: errors.New("db down")}, pub, &fakeMailer{})

	_, err := svc.SubmitContact(context.Background(), ContactRequest{Name: "Ana", Email: "ana@example.com", Message: "hi"})
	require.Error(t, err)
	assert.Empty(t, pub.published)
}

func TestSubmitBooking(t *testing.T) {
	repo := &fakeLeadsRepo{}
	svc := newLeadService(repo, &fakePublisher{}, &fakeMailer{})

	lead, err := svc.SubmitBooking(context.Background(), BookingRequest{
		Name: "Ana", Email: "ana@example.com", PropertyID: "C1", Source: "mls",
		PreferredTime: "2026-05-03T15:00:00-04:00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LeadShowing, lead.Kind)
	assert.Equal(t, domain.SourceMLS, lead.PropertySource)
	require.NotNil(t, lead.PreferredTime)
	assert.Equal(t, 19, lead.PreferredTime.UTC().Hour())
}

func TestSubmitBooking_Validation(t *testing.T) {
	svc := newLeadService(&fakeLeadsRepo{}, &fakePublisher{}, &fakeMailer{})

	bad := []BookingRequest{
		{Name: "Ana", Email: "ana@example.com", PreferredTime: "2026-05-03T15:00:00Z"},
		{Name: "Ana", Email: "ana@example.com", PropertyID: "C1"},
		{Name: "Ana", Email: "ana@example.com", PropertyID: "C1", PreferredTime: "next tuesday"},
		{Name: "Ana", Email: "ana@example.com", PropertyID: "C1", PreferredTime: "2026-04-01T15:00:00Z"},
	}
	for _, req := range bad {
		_, err := svc.SubmitBooking(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestListLeads_UnknownKind(t *testing.T) {
	svc := newLeadService(&fakeLeadsRepo{}, nil, &fakeMailer{})
	_, _, err := svc.List(context.Background(), domain.LeadKind("spam"), 10, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
