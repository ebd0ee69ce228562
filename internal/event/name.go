package event

import "strings"

// Name bundles the name parts of a persona and derives the display forms the
// documents use. The forms differ in register: badges lead with the display
// name, legal documents spell everything out, participant lists keep the
// given names searchable.
type Name struct {
	Title          string
	GivenNames     string
	FamilyName     string
	NameSupplement string
	DisplayName    string
}

// usesDisplayName reports whether the display name is a shorthand of the
// given names, like "Tom" for "Thomas".
func (n Name) usesDisplayName() bool {
	return n.DisplayName != "" && strings.Contains(n.GivenNames, n.DisplayName)
}

// CommonForename is the everyday forename: the display name when it is a
// shorthand of the given names, the given names otherwise.
func (n Name) CommonForename() string {
	if n.usesDisplayName() {
		return n.DisplayName
	}
	return n.GivenNames
}

// CommonSurname is the everyday surname.
func (n Name) CommonSurname() string {
	return n.FamilyName
}

// Common is the everyday full name.
func (n Name) Common() string {
	return joinNonEmpty(n.CommonForename(), n.CommonSurname())
}

// Salutation is how the person wants to be addressed directly.
func (n Name) Salutation() string {
	if n.DisplayName != "" {
		return n.DisplayName
	}
	return n.GivenNames
}

// Legal is the full formal name including title and supplement.
func (n Name) Legal() string {
	return joinNonEmpty(n.Title, n.GivenNames, n.FamilyName, n.NameSupplement)
}

// NametagForename is the large first line of a badge.
func (n Name) NametagForename() string {
	if n.DisplayName != "" {
		return n.DisplayName
	}
	return n.GivenNames
}

// NametagSurname is the second line of a badge. When the display name is not
// part of the given names, the given names move down here so the badge still
// carries them.
func (n Name) NametagSurname() string {
	if n.DisplayName != "" && !strings.Contains(n.GivenNames, n.DisplayName) {
		return joinNonEmpty(n.GivenNames, n.FamilyName)
	}
	return n.FamilyName
}

// Organizational is the list form: the given names, a parenthesized display
// name when one differs, then the family name.
func (n Name) Organizational() string {
	forename := n.GivenNames
	if n.DisplayName != "" && n.DisplayName != n.GivenNames {
		forename = n.GivenNames + " (" + n.DisplayName + ")"
	}
	return joinNonEmpty(forename, n.FamilyName)
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Address is the postal address of a persona.
type Address struct {
	Address           string
	AddressSupplement string
	PostalCode        string
	Location          string
	Country           string

	// IsHomeCountry suppresses the country line in Block. Set during
	// construction from the configured home country spellings.
	IsHomeCountry bool
}

// DefaultHomeCountries are the country spellings whose line a postal block
// omits when no other set is configured.
var DefaultHomeCountries = []string{"Germany", "Deutschland", "DE"}

// Block renders the multi-line postal block, skipping empty lines and the
// country when it is the home country.
func (a Address) Block() string {
	lines := make([]string, 0, 4)
	if a.Address != "" {
		lines = append(lines, a.Address)
	}
	if a.AddressSupplement != "" {
		lines = append(lines, a.AddressSupplement)
	}
	if city := joinNonEmpty(a.PostalCode, a.Location); city != "" {
		lines = append(lines, city)
	}
	if a.Country != "" && !a.IsHomeCountry {
		lines = append(lines, a.Country)
	}
	return strings.Join(lines, "\n")
}
