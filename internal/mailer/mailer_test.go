package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bfluegel-contact/internal/model"
)

func testSubmission() *model.Submission {
	return &model.Submission{
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		Company:      "ACME GmbH",
		Phone:        "+49 170 1234567",
		Subject:      "projekt",
		SubjectLabel: "Projektanfrage",
		Message:      "Please build me a website.",
	}
}

func testConfig() SMTPConfig {
	return SMTPConfig{
		Host:        "smtp.example.com",
		Port:        587,
		FromAddress: "noreply@bastianfluegel.de",
		FromName:    "Bastian Flügel Website",
		ToAddress:   "info@bfluegel.de",
		ToName:      "Bastian Flügel",
	}
}

func TestBuildNotification(t *testing.T) {
	n, err := BuildNotification(testConfig(), testSubmission())
	require.NoError(t, err)

	assert.Equal(t, "info@bfluegel.de", n.To)
	assert.Equal(t, "Bastian Flügel", n.ToName)
	assert.Equal(t, "[Kontaktformular] Projektanfrage", n.Subject)
	assert.Equal(t, "jane@example.com", n.ReplyTo, "replies go straight to the submitter")
}

func TestRenderBodyContainsFields(t *testing.T) {
	body, err := renderBody(testSubmission())
	require.NoError(t, err)

	assert.Contains(t, body, "Jane Doe")
	assert.Contains(t, body, "mailto:jane@example.com")
	assert.Contains(t, body, "ACME GmbH")
	assert.Contains(t, body, "+49 170 1234567")
	assert.Contains(t, body, "Projektanfrage")
	assert.Contains(t, body, "Please build me a website.")
	assert.Contains(t, body, "Eingegangen am:")
}

func TestRenderBodyOmitsEmptyOptionals(t *testing.T) {
	sub := testSubmission()
	sub.Company = ""
	sub.Phone = ""

	body, err := renderBody(sub)
	require.NoError(t, err)

	assert.NotContains(t, body, "Unternehmen:")
	assert.NotContains(t, body, "Telefon:")
}

func TestRenderBodyEscapesHTML(t *testing.T) {
	sub := testSubmission()
	sub.Message = `<script>alert("xss")</script>`

	body, err := renderBody(sub)
	require.NoError(t, err)

	assert.NotContains(t, body, "<script>")
}
