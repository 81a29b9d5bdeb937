// Package form implements the per-field validation rule engine the client
// controller runs before any network call.
package form

import (
	"regexp"
	"strconv"
	"strings"

	"bfluegel-contact/internal/i18n"
)

// Field names of the contact form.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldCompany = "company"
	FieldPhone   = "phone"
	FieldSubject = "subject"
	FieldMessage = "message"
	FieldPrivacy = "privacy"
)

// Rule describes the constraints for one field. Zero-valued length limits
// mean the limit is absent.
type Rule struct {
	Required      bool
	MinLength     int
	MaxLength     int
	Pattern       *regexp.Regexp
	MustBeChecked bool
}

// RuleSet maps field names to their rules. Immutable after construction.
type RuleSet map[string]Rule

// Result aggregates violations across a whole form.
type Result struct {
	Errors map[string][]string
	Valid  bool
}

var (
	namePattern  = regexp.MustCompile(`^[a-zA-ZäöüÄÖÜß\s\-.]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+]?[0-9\s\-()]+$`)
)

// DefaultRules returns the authoritative contact form rule table.
func DefaultRules() RuleSet {
	return RuleSet{
		FieldName:    {Required: true, MinLength: 2, MaxLength: 100, Pattern: namePattern},
		FieldEmail:   {Required: true, MaxLength: 255, Pattern: emailPattern},
		FieldCompany: {MaxLength: 200},
		FieldPhone:   {MaxLength: 50, Pattern: phonePattern},
		FieldSubject: {Required: true},
		FieldMessage: {Required: true, MinLength: 10, MaxLength: 5000},
		FieldPrivacy: {Required: true, MustBeChecked: true},
	}
}

// Validator checks raw field values against a RuleSet, producing localized
// violation messages in a fixed order.
type Validator struct {
	rules RuleSet
	lang  string
}

func NewValidator(rules RuleSet, lang string) *Validator {
	return &Validator{rules: rules, lang: lang}
}

// SetLanguage switches the language violation messages are produced in.
func (v *Validator) SetLanguage(lang string) { v.lang = lang }

// ValidateField returns the ordered violations for a single field value.
// An empty list means the value is valid.
func (v *Validator) ValidateField(field, value string) []string {
	rule, ok := v.rules[field]
	if !ok {
		return nil
	}

	var violations []string
	trimmed := strings.TrimSpace(value)

	if rule.Required && trimmed == "" {
		violations = append(violations, i18n.T(v.lang, i18n.KeyRequired))
	}
	// An optional empty field is trivially valid; a required empty one has
	// nothing further to check.
	if trimmed == "" {
		return violations
	}

	if rule.MinLength > 0 && len([]rune(trimmed)) < rule.MinLength {
		violations = append(violations, i18n.TF(v.lang, i18n.KeyMinLength,
			map[string]string{"min": strconv.Itoa(rule.MinLength)}))
	}
	if rule.MaxLength > 0 && len([]rune(value)) > rule.MaxLength {
		violations = append(violations, i18n.TF(v.lang, i18n.KeyMaxLength,
			map[string]string{"max": strconv.Itoa(rule.MaxLength)}))
	}

	if rule.Pattern != nil && !rule.Pattern.MatchString(value) {
		switch field {
		case FieldEmail:
			violations = append(violations, i18n.T(v.lang, i18n.KeyEmail))
		case FieldPhone:
			violations = append(violations, i18n.T(v.lang, i18n.KeyPhone))
		default:
			violations = append(violations, i18n.T(v.lang, i18n.KeyFormat))
		}
	}

	if rule.MustBeChecked && !isChecked(value) {
		violations = append(violations, i18n.T(v.lang, i18n.KeyPrivacy))
	}

	return violations
}

// Validate runs every configured field against the given values and
// aggregates the result. Fields absent from values validate as empty.
func (v *Validator) Validate(values map[string]string) Result {
	result := Result{Errors: make(map[string][]string), Valid: true}
	for field := range v.rules {
		if violations := v.ValidateField(field, values[field]); len(violations) > 0 {
			result.Errors[field] = violations
			result.Valid = false
		}
	}
	return result
}

func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "yes", "checked":
		return true
	}
	return false
}
