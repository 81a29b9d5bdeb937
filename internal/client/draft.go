package client

import (
	"time"

	"bfluegel-contact/internal/form"
	"bfluegel-contact/internal/model"
)

// Draft holds the in-flight form values plus derived metadata. It is owned
// exclusively by the submission controller: created on first field edit,
// overwritten on every autosave tick, destroyed on successful submission.
type Draft struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Privacy bool   `json:"privacy"`

	Language  string `json:"language"`
	Timestamp string `json:"timestamp"`
	PageURL   string `json:"page_url,omitempty"`
	ClientID  string `json:"client_id"`
}

// values flattens the draft for the field rule engine.
func (d *Draft) values() map[string]string {
	privacy := ""
	if d.Privacy {
		privacy = "true"
	}
	return map[string]string{
		form.FieldName:    d.Name,
		form.FieldEmail:   d.Email,
		form.FieldCompany: d.Company,
		form.FieldPhone:   d.Phone,
		form.FieldSubject: d.Subject,
		form.FieldMessage: d.Message,
		form.FieldPrivacy: privacy,
	}
}

// toSubmission builds the wire payload, stamping fresh metadata.
func (d *Draft) toSubmission(now time.Time, userAgent string) *model.Submission {
	return &model.Submission{
		Name:      d.Name,
		Email:     d.Email,
		Company:   d.Company,
		Phone:     d.Phone,
		Subject:   d.Subject,
		Message:   d.Message,
		Privacy:   d.Privacy,
		Language:  d.Language,
		Timestamp: now.Format(time.RFC3339),
		UserAgent: userAgent,
		PageURL:   d.PageURL,
	}
}

// SetField updates one form field by name. Unknown fields are ignored.
func (d *Draft) SetField(field, value string) {
	switch field {
	case form.FieldName:
		d.Name = value
	case form.FieldEmail:
		d.Email = value
	case form.FieldCompany:
		d.Company = value
	case form.FieldPhone:
		d.Phone = value
	case form.FieldSubject:
		d.Subject = value
	case form.FieldMessage:
		d.Message = value
	case form.FieldPrivacy:
		d.Privacy = value == "true" || value == "on" || value == "1"
	}
}

// Empty reports whether the draft has no user-entered content.
func (d *Draft) Empty() bool {
	return d.Name == "" && d.Email == "" && d.Company == "" && d.Phone == "" &&
		d.Subject == "" && d.Message == "" && !d.Privacy
}
