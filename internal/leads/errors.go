package leads

import "errors"

var (
	// ErrMissingFields is returned when any required field is absent
	ErrMissingFields = errors.New("missing required fields: name, email, phone, and source are required")

	// ErrInvalidSource is returned when the source tag is outside the allowed set
	ErrInvalidSource = errors.New(`source must be either "contact" or "hero"`)
)
