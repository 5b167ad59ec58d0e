package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"realtor-site/internal/domain"

	"go.uber.org/zap"
)

// Amount money in whole dollars. Decodes from a JSON number or a numeric
// string ("1,250,000", "$1250000"); null, unparseable or out of int64 range
// leaves it unset.
type Amount struct {
	Value int64
	Set   bool
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 || f+0.5 >= math.MaxInt64 {
		return nil
	}
	a.Value, a.Set = int64(f+0.5), true
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(a.Value, 10)), nil
}

// SoldPropertyDetails property block of a sold notification.
type SoldPropertyDetails struct {
	Address      string `json:"address"`
	City         string `json:"city"`
	Province     string `json:"province"`
	PropertyType string `json:"propertyType"`
	Bedrooms     string `json:"bedrooms"`
	Bathrooms    string `json:"bathrooms"`
	HeroImage    string `json:"heroImage"`
}

// SoldNotificationRequest body of POST /api/sold-notification.
type SoldNotificationRequest struct {
	PropertyDetails *SoldPropertyDetails `json:"propertyDetails"`
	SoldPrice       Amount               `json:"soldPrice"`
	ListPrice       Amount               `json:"listPrice"`
	DaysOnMarket    int                  `json:"daysOnMarket"`
}

const soldDetailsRequired = "Property details and sold price are required"

// NotificationService renders and sends site emails.
type NotificationService struct {
	mailer     Mailer
	renderer   *EmailRenderer
	agentEmail string
	logger     *zap.Logger
}

func NewNotificationService(mailer Mailer, renderer *EmailRenderer, agentEmail string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		mailer:     mailer,
		renderer:   renderer,
		agentEmail: agentEmail,
		logger:     logger,
	}
}

// SendSold emails the sold announcement to the agent. The route is public,
// so the recipient is never taken from the request.
func (s *NotificationService) SendSold(ctx context.Context, req SoldNotificationRequest) error {
	d := req.PropertyDetails
	if d == nil || strings.TrimSpace(d.Address) == "" || strings.TrimSpace(d.City) == "" ||
		strings.TrimSpace(d.Province) == "" || !req.SoldPrice.Set {
		return invalidf(soldDetailsRequired)
	}

	if s.agentEmail == "" {
		return fmt.Errorf("agent email not configured")
	}
	to := []string{s.agentEmail}

	data := SoldEmailData{
		Title:        "Just Sold: " + d.Address,
		Address:      d.Address,
		City:         d.City,
		Province:     d.Province,
		SoldPrice:    FormatCAD(req.SoldPrice.Value),
		DaysOnMarket: req.DaysOnMarket,
		HeroImage:    d.HeroImage,
		Details:      soldDetailsLine(d),
	}
	if req.ListPrice.Set {
		data.ListPrice = FormatCAD(req.ListPrice.Value)
	}
	body, err := s.renderer.RenderSold(data)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(ctx, Email{To: to, Subject: data.Title, HTML: body}); err != nil {
		s.logger.Error("Failed to send sold notification", zap.String("address", d.Address), zap.Error(err))
		return &UpstreamError{
			Status: UpstreamStatus(err),
			Err:    fmt.Errorf("failed to send sold notification: %w", err),
		}
	}
	s.logger.Info("Sold notification sent", zap.String("address", d.Address))
	return nil
}

func soldDetailsLine(d *SoldPropertyDetails) string {
	var parts []string
	if d.PropertyType != "" {
		parts = append(parts, d.PropertyType)
	}
	if d.Bedrooms != "" {
		parts = append(parts, d.Bedrooms+" bed")
	}
	if d.Bathrooms != "" {
		parts = append(parts, d.Bathrooms+" bath")
	}
	return strings.Join(parts, " · ")
}

// SendLead tells the agent about a new contact or showing request.
func (s *NotificationService) SendLead(ctx context.Context, lead *domain.Lead) error {
	if s.agentEmail == "" {
		return fmt.Errorf("agent email not configured")
	}
	data := LeadEmailData{
		Title:   "New inquiry from " + lead.Name,
		Heading: "New inquiry",
		Name:    lead.Name,
		Email:   lead.Email,
		Phone:   lead.Phone,
		Message: lead.Message,
	}
	if lead.Kind == domain.LeadShowing {
		data.Title = "Showing request from " + lead.Name
		data.Heading = "Showing request"
	}
	if lead.PropertyID != "" {
		data.Property = string(lead.PropertySource) + ":" + lead.PropertyID
	}
	if lead.PreferredTime != nil {
		data.PreferredTime = lead.PreferredTime.Format("Mon Jan 2, 2006 3:04 PM MST")
	}

	body, err := s.renderer.RenderLead(data)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, Email{
		To:      []string{s.agentEmail},
		ReplyTo: lead.Email,
		Subject: data.Title,
		HTML:    body,
	})
}
