package domain

import "time"

// LeadKind what the visitor submitted.
type LeadKind string

const (
	LeadContact LeadKind = "contact"
	LeadShowing LeadKind = "showing"
)

// Lead contact-form or showing-booking submission (leads table).
type Lead struct {
	ID             string     `db:"id" json:"id"`
	Kind           LeadKind   `db:"kind" json:"kind"`
	Name           string     `db:"name" json:"name"`
	Email          string     `db:"email" json:"email"`
	Phone          string     `db:"phone" json:"phone,omitempty"`
	Message        string     `db:"message" json:"message,omitempty"`
	PropertyID     string     `db:"property_id" json:"propertyId,omitempty"`
	PropertySource Source     `db:"property_source" json:"propertySource,omitempty"`
	PreferredTime  *time.Time `db:"preferred_time" json:"preferredTime,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
}
