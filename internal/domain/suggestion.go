package domain

// SuggestionType group a type-ahead suggestion belongs to.
type SuggestionType string

const (
	SuggestionCity         SuggestionType = "city"
	SuggestionPropertyType SuggestionType = "propertyType"
	SuggestionStreet       SuggestionType = "street"
)

// Suggestion a grouped candidate value, not a full record.
type Suggestion struct {
	Type  SuggestionType `json:"type"`
	Value string         `json:"value"`
	Count int            `json:"count"`
}
