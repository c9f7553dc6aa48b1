package testmodels

import "github.com/go-openapi/strfmt"

type Member struct {

	// Unique key of the member record.
	// Required: true
	Key *string `json:"key"`

	// Display name of the member.
	// Required: true
	Name *string `json:"Name"`

	// Contact email address.
	Email string `json:"Email,omitempty"`

	// Age in years.
	Age int64 `json:"Age,omitempty"`

	// Timestamp when the member joined.
	// Format: date-time
	JoinedAt *strfmt.DateTime `json:"JoinedAt,omitempty"`
}
