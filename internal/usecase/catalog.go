package usecase

import "strings"

// ServiceTypes lists the services a customer can request.
var ServiceTypes = []string{
	"Translation",
	"Localization",
	"Reviewing",
	"Typing",
	"DTP (Desktop Publishing)",
	"Designing",
	"Subtitling",
	"Editing",
	"Transcription",
	"Auditing",
	"Custom Solutions",
	"Other",
}

// Languages lists the languages offered on either side of a pair.
var Languages = []string{
	"English",
	"Arabic",
	"French",
	"German",
	"Spanish",
	"Mandarin",
	"Japanese",
	"Korean",
	"Portuguese",
	"Russian",
}

// canonical returns the catalog spelling of value, matched case-insensitively.
func canonical(catalog []string, value string) (string, bool) {
	value = strings.TrimSpace(value)
	for _, c := range catalog {
		if strings.EqualFold(c, value) {
			return c, true
		}
	}
	return "", false
}

// Catalog is what the agency offers on the public site.
type Catalog struct {
	Services        []string
	Languages       []string
	WorkingLanguage string
	Contacts        []string
}
