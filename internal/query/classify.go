// Package query classifies free-text search input into the closed set of
// lookup types understood by the verification backend, and owns the single
// normalization step applied at the system boundary. Classification is pure
// string work; it never touches the network.
package query

import "strings"

// Type is the classified kind of a search string. The same tags travel
// through the search response, the create-report prefill URL, and the report
// composer, so there is exactly one vocabulary end to end.
type Type string

const (
	TypeTaxID       Type = "NIP"
	TypePhone       Type = "PHONE"
	TypeBankAccount Type = "ACCOUNT"
	TypeNone        Type = ""
)

// TargetKind is the report-target vocabulary the verification backend
// expects on submissions.
type TargetKind string

const (
	TargetCompany TargetKind = "COMPANY"
	TargetPerson  TargetKind = "PERSON"
)

// TargetKind maps a classified query type onto the report-target kind a
// submission against it would carry. Only tax IDs identify companies;
// phones, bank accounts, and free text all report a person.
func (t Type) TargetKind() TargetKind {
	if t == TypeTaxID {
		return TargetCompany
	}
	return TargetPerson
}

// Query is one classified search interaction.
type Query struct {
	Raw   string
	Clean string
	Type  Type
}

// Classify strips separators from the raw input and assigns a type. Check
// order is fixed: a 10-digit string is always a tax ID, even though a local
// phone number with a 48 country code also spells 11 digits; the backend
// resolves lookups in the same order, so the classifier must not reorder.
func Classify(raw string) Query {
	clean := stripSeparators(raw)
	return Query{Raw: raw, Clean: clean, Type: classify(clean)}
}

func classify(clean string) Type {
	switch {
	case isDigits(clean) && len(clean) == 10:
		return TypeTaxID
	case isPhone(clean):
		return TypePhone
	case isDigits(clean) && len(clean) == 26:
		return TypeBankAccount
	default:
		return TypeNone
	}
}

// isPhone accepts 9 bare digits or 9 digits behind a 48 country code. The
// leading "+" is gone by the time this runs; stripSeparators drops it.
func isPhone(clean string) bool {
	if isDigits(clean) && len(clean) == 9 {
		return true
	}
	rest, ok := strings.CutPrefix(clean, "48")
	return ok && isDigits(rest) && len(rest) == 9
}

// NormalizePhone guarantees the leading "+" the backend's phone-linking
// endpoint requires.
func NormalizePhone(number string) string {
	number = strings.TrimSpace(number)
	if number == "" || strings.HasPrefix(number, "+") {
		return number
	}
	return "+" + number
}

func stripSeparators(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
