package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"realtor-site/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeSold(t *testing.T, body string) SoldNotificationRequest {
	t.Helper()
	var req SoldNotificationRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func TestAmount_Unmarshal(t *testing.T) {
	cases := map[string]Amount{
		`1250000`:        {Value: 1250000, Set: true},
		`"1,250,000"`:    {Value: 1250000, Set: true},
		`"$1250000.00"`:  {Value: 1250000, Set: true},
		`null`:           {},
		`"not a number"`: {},
		`0`:              {},
		`1e30`:           {},
		`"-5"`:           {},
	}
	for raw, want := range cases {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(raw), &a), raw)
		assert.Equal(t, want, a, raw)
	}
}

func TestSendSold_MissingSoldPrice(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewNotificationService(mailer, NewEmailRenderer(), "agent@example.com", zap.NewNop())

	req := decodeSold(t, `{"propertyDetails":{"address":"1 King St","city":"Toronto","province":"ON"}}`)
	err := svc.SendSold(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "Property details and sold price are required", err.Error())
	assert.Empty(t, mailer.sent)
}

func TestSendSold_MissingDetails(t *testing.T) {
	svc := NewNotificationService(&fakeMailer{}, NewEmailRenderer(), "agent@example.com", zap.NewNop())

	for _, body := range []string{
		`{"soldPrice":1000000}`,
		`{"soldPrice":1000000,"propertyDetails":{"address":"1 King St","city":"Toronto"}}`,
	} {
		err := svc.SendSold(context.Background(), decodeSold(t, body))
		assert.ErrorIs(t, err, ErrInvalidInput, body)
	}
}

func TestSendSold_RendersAndSends(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewNotificationService(mailer, NewEmailRenderer(), "agent@example.com", zap.NewNop())

	req := decodeSold(t, `{
		"propertyDetails":{"address":"1 King <St>","city":"Toronto","province":"ON","propertyType":"condo","bedrooms":"2+1"},
		"soldPrice":"2,150,000",
		"listPrice":1999000,
		"daysOnMarket":6
	}`)
	require.NoError(t, svc.SendSold(context.Background(), req))
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, []string{"agent@example.com"}, msg.To)
	assert.Equal(t, "Just Sold: 1 King <St>", msg.Subject)
	assert.Contains(t, msg.HTML, "$2,150,000")
	assert.Contains(t, msg.HTML, "$1,999,000")
	assert.Contains(t, msg.HTML, "1 King")
	assert.NotContains(t, msg.HTML, "<St>")
	assert.NotContains(t, msg.HTML, "\n    ")
}

func TestSendSold_MailerFailure(t *testing.T) {
	svc := NewNotificationService(&fakeMailer{err: errors.New("smtp down")}, NewEmailRenderer(), "agent@example.com", zap.NewNop())
	req := decodeSold(t, `{"propertyDetails":{"address":"1 King St","city":"Toronto","province":"ON"},"soldPrice":1}`)
	err := svc.SendSold(context.Background(), req)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 500, upstream.Status)
}

func TestSendSold_EmailAPIStatusIsKept(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("email API error: 429 Too Many Requests: slow down")}
	svc := NewNotificationService(mailer, NewEmailRenderer(), "agent@example.com", zap.NewNop())
	req := decodeSold(t, `{"propertyDetails":{"address":"1 King St","city":"Toronto","province":"ON"},"soldPrice":1}`)

	var upstream *UpstreamError
	require.ErrorAs(t, svc.SendSold(context.Background(), req), &upstream)
	assert.Equal(t, 429, upstream.Status)
}

func TestSendSold_IgnoresRecipientsInBody(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewNotificationService(mailer, NewEmailRenderer(), "agent@example.com", zap.NewNop())

	req := decodeSold(t, `{
		"propertyDetails":{"address":"1 King St","city":"Toronto","province":"ON"},
		"soldPrice":1000000,
		"recipients":["someone@example.net","other@example.net"]
	}`)
	require.NoError(t, svc.SendSold(context.Background(), req))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"agent@example.com"}, mailer.sent[0].To)
}

func TestSendSold_NoAgentEmail(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewNotificationService(mailer, NewEmailRenderer(), "", zap.NewNop())
	req := decodeSold(t, `{"propertyDetails":{"address":"1 King St","city":"Toronto","province":"ON"},"soldPrice":1}`)
	assert.Error(t, svc.SendSold(context.Background(), req))
	assert.Empty(t, mailer.sent)
}

func TestSendLead(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewNotificationService(mailer, NewEmailRenderer(), "agent@example.com", zap.NewNop())

	require.NoError(t, svc.SendLead(context.Background(), &domain.Lead{
		Kind: domain.LeadShowing, Name: "Ana", Email: "ana@example.com",
		PropertyID: "C1", PropertySource: domain.SourceMLS,
	}))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ana@example.com", mailer.sent[0].ReplyTo)
	assert.Equal(t, "Showing request from Ana", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "mls:C1")
}

func TestFormatCAD(t *testing.T) {
	assert.Equal(t, "$0", FormatCAD(0))
	assert.Equal(t, "$999", FormatCAD(999))
	assert.Equal(t, "$1,000", FormatCAD(1000))
	assert.Equal(t, "$12,345,678", FormatCAD(12345678))
}

func TestAPIMailer_Send(t *testing.T) {
	var got apiEmailRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/emails" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"em_1"}`))
	}))
	defer srv.Close()

	m := NewAPIMailer(srv.URL, "re_key", "Listings <listings@example.com>", zap.NewNop())
	err := m.Send(context.Background(), Email{To: []string{"a@example.com"}, Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer re_key", auth)
	assert.Equal(t, "Listings <listings@example.com>", got.From)
	assert.Equal(t, []string{"a@example.com"}, got.To)
}

func TestAPIMailer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"domain not verified"}`))
	}))
	defer srv.Close()

	m := NewAPIMailer(srv.URL, "k", "from@example.com", zap.NewNop())
	err := m.Send(context.Background(), Email{To: []string{"a@example.com"}, Subject: "Hi", HTML: "<p>x</p>"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "403"))
	assert.Contains(t, err.Error(), "domain not verified")
}

func TestMailers_RejectEmptyMessages(t *testing.T) {
	assert.Error(t, NewLogMailer(zap.NewNop()).Send(context.Background(), Email{}))
	assert.Error(t, NewSMTPMailer("localhost", 465, "", "", "f@example.com", zap.NewNop()).
		Send(context.Background(), Email{To: []string{"a@example.com"}}))
}
