// Package i18n holds the German and English message catalog for validation
// messages, toasts and server outcome texts.
package i18n

import "strings"

// Languages known to the catalog. German is the fallback.
const (
	German  = "de"
	English = "en"
)

// Message keys used across the client controller and server intake.
const (
	KeyRequired    = "validation.required"
	KeyEmail       = "validation.email"
	KeyMinLength   = "validation.min_length"
	KeyMaxLength   = "validation.max_length"
	KeyPhone       = "validation.phone"
	KeyPrivacy     = "validation.privacy"
	KeyFormat      = "validation.format"
	KeySuccess     = "message.success"
	KeyGeneral     = "message.general_error"
	KeyNetwork     = "message.network_error"
	KeyRateLimit   = "message.rate_limit_error"
	KeyValidation  = "message.validation_error"
	KeyDraftSaved  = "message.draft_saved"
	KeyDraftLoaded = "message.draft_loaded"
)

var catalog = map[string]map[string]string{
	German: {
		KeyRequired:    "Dieses Feld ist erforderlich",
		KeyEmail:       "Bitte geben Sie eine gültige E-Mail-Adresse ein",
		KeyMinLength:   "Mindestens {min} Zeichen erforderlich",
		KeyMaxLength:   "Maximal {max} Zeichen erlaubt",
		KeyPhone:       "Bitte geben Sie eine gültige Telefonnummer ein",
		KeyPrivacy:     "Sie müssen der Datenschutzerklärung zustimmen",
		KeyFormat:      "Ungültiges Format",
		KeySuccess:     "Vielen Dank! Ihre Nachricht wurde erfolgreich gesendet.",
		KeyGeneral:     "Ein Fehler ist aufgetreten. Bitte versuchen Sie es später erneut.",
		KeyNetwork:     "Netzwerkfehler. Bitte überprüfen Sie Ihre Internetverbindung.",
		KeyRateLimit:   "Sie haben zu viele Nachrichten gesendet. Bitte warten Sie eine Stunde.",
		KeyValidation:  "Bitte überprüfen Sie Ihre Eingaben.",
		KeyDraftSaved:  "Entwurf automatisch gespeichert",
		KeyDraftLoaded: "Vorheriger Entwurf geladen",
	},
	English: {
		KeyRequired:    "This field is required",
		KeyEmail:       "Please enter a valid email address",
		KeyMinLength:   "At least {min} characters required",
		KeyMaxLength:   "Maximum {max} characters allowed",
		KeyPhone:       "Please enter a valid phone number",
		KeyPrivacy:     "You must agree to the privacy policy",
		KeyFormat:      "Invalid format",
		KeySuccess:     "Thank you! Your message has been sent successfully.",
		KeyGeneral:     "An error occurred. Please try again later.",
		KeyNetwork:     "Network error. Please check your internet connection.",
		KeyRateLimit:   "You have sent too many messages. Please wait an hour.",
		KeyValidation:  "Please check your input.",
		KeyDraftSaved:  "Draft automatically saved",
		KeyDraftLoaded: "Previous draft loaded",
	},
}

// T resolves a message key for the given language. Unknown languages fall
// back to German, unknown keys to the key itself.
func T(lang, key string) string {
	msgs, ok := catalog[lang]
	if !ok {
		msgs = catalog[German]
	}
	if msg, ok := msgs[key]; ok {
		return msg
	}
	return key
}

// TF resolves a key and substitutes {placeholder} parameters.
func TF(lang, key string, params map[string]string) string {
	msg := T(lang, key)
	for name, value := range params {
		msg = strings.ReplaceAll(msg, "{"+name+"}", value)
	}
	return msg
}
