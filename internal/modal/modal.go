// Package modal models the site's dialog types as a closed set of tagged
// variants with typed payloads, dispatched exhaustively instead of through
// a string-keyed generator table.
package modal

import (
	"fmt"

	"bfluegel-contact/internal/form"
	"bfluegel-contact/internal/i18n"
)

// Content is the closed interface over modal payloads. Only the variants
// in this package implement it.
type Content interface {
	isModalContent()
}

// Contact carries the contact form configuration.
type Contact struct {
	Rules    form.RuleSet
	Subjects []string
}

// Login carries the demo login form state.
type Login struct {
	RememberMe bool
}

// About is the static profile dialog.
type About struct{}

// Privacy is the static privacy policy dialog.
type Privacy struct{}

// Settings carries the preferences dialog state.
type Settings struct {
	Language string
}

func (Contact) isModalContent()  {}
func (Login) isModalContent()    {}
func (About) isModalContent()    {}
func (Privacy) isModalContent()  {}
func (Settings) isModalContent() {}

// Title resolves the localized dialog title for a variant. The switch is
// exhaustive over the closed set.
func Title(lang string, content Content) string {
	titles := map[string][2]string{
		"contact":  {"Kontakt aufnehmen", "Get in Touch"},
		"login":    {"Anmelden", "Sign In"},
		"about":    {"Über mich", "About Me"},
		"privacy":  {"Datenschutzerklärung", "Privacy Policy"},
		"settings": {"Einstellungen", "Settings"},
	}
	idx := 0
	if lang == i18n.English {
		idx = 1
	}
	switch content.(type) {
	case Contact, *Contact:
		return titles["contact"][idx]
	case Login, *Login:
		return titles["login"][idx]
	case About, *About:
		return titles["about"][idx]
	case Privacy, *Privacy:
		return titles["privacy"][idx]
	case Settings, *Settings:
		return titles["settings"][idx]
	default:
		panic(fmt.Sprintf("unknown modal content %T", content))
	}
}
