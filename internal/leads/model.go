package leads

import "time"

// Source tags accepted on submission.
const (
	SourceContact = "contact"
	SourceHero    = "hero"
)

// Lead represents a captured form submission from the marketing site.
// Optional fields are pointers so absent values round-trip as NULL rather
// than empty strings.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   *string   `json:"company"`
	Message   *string   `json:"message"`
	Demo      *string   `json:"demo"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateLeadRequest represents the request body for creating a lead
type CreateLeadRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
	Demo    string `json:"demo"`
	Source  string `json:"source"`
}

// Validate checks required fields first, then the source tag, matching the
// order the public API documents.
func (r *CreateLeadRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Phone == "" || r.Source == "" {
		return ErrMissingFields
	}
	if r.Source != SourceContact && r.Source != SourceHero {
		return ErrInvalidSource
	}
	return nil
}

// optional maps an empty form value to NULL.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
