// Package model defines the submission data contract shared by client and server.
package model

import "time"

// Submission represents an incoming contact form payload.
type Submission struct {
	Name    string `json:"name" validate:"required,nameformat,min=2,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Company string `json:"company,omitempty" validate:"omitempty,max=200"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,phoneformat,max=50"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
	Privacy bool   `json:"privacy" validate:"required"`

	// ConsentToken is optional; when present it is compared against the
	// configured expected value.
	ConsentToken string `json:"consent_token,omitempty"`

	// Client-supplied metadata. Logged but never validated.
	Language  string `json:"language,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	PageURL   string `json:"page_url,omitempty"`

	// SubjectLabel is filled in by the intake pipeline after code translation.
	SubjectLabel string `json:"-"`
}

// Outcome is the structured response the intake pipeline returns.
type Outcome struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorID   string `json:"error_id,omitempty"`
	Code      int    `json:"code,omitempty"`
	Timestamp string `json:"timestamp"`
}

// AuditRecord is appended to the submission log once per attempt.
type AuditRecord struct {
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Success   bool      `json:"success"`
}

// subjectLabels maps form subject codes to human-readable labels. Both the
// German and English code sets are accepted.
var subjectLabels = map[string]string{
	"beratung":    "Beratungsanfrage",
	"projekt":     "Projektanfrage",
	"schulung":    "Schulung/Workshop",
	"partnership": "Partnerschaft",
	"media":       "Medienanfrage",
	"support":     "Support",
	"sonstiges":   "Sonstiges",
	"consulting":  "Consulting Inquiry",
	"project":     "Project Inquiry",
	"training":    "Training/Workshop",
	"other":       "Other",
}

// SubjectLabelFor translates a subject code into its label. Unrecognized
// codes pass through verbatim.
func SubjectLabelFor(code string) string {
	if label, ok := subjectLabels[code]; ok {
		return label
	}
	return code
}
