package types

import (
	"fmt"
	"strings"
)

// StyleLabel classifies the overall look of a combination.
type StyleLabel byte

const (
	StyleCasual StyleLabel = iota + 1
	StyleFormal
	StyleBusiness
	StyleSporty
	StyleParty
)

var styleNames = map[StyleLabel]string{
	StyleCasual:   "casual",
	StyleFormal:   "formal",
	StyleBusiness: "business",
	StyleSporty:   "sporty",
	StyleParty:    "party",
}

func (s StyleLabel) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether s is one of the known labels.
func (s StyleLabel) Valid() bool {
	_, ok := styleNames[s]
	return ok
}

// ParseStyleLabel converts a style name (case-insensitive) into a StyleLabel.
func ParseStyleLabel(s string) (StyleLabel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for label, n := range styleNames {
		if n == name {
			return label, nil
		}
	}
	return 0, fmt.Errorf("unknown style label: %q", s)
}

func (s StyleLabel) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *StyleLabel) UnmarshalText(text []byte) error {
	parsed, err := ParseStyleLabel(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
