package enums

import "fmt"

// SearchKind distinguishes how a judicial-records lookup was issued.
type SearchKind string

const (
	SearchKindNumber SearchKind = "number"
	SearchKindParty  SearchKind = "party"
	SearchKindCourt  SearchKind = "court"
)

var validSearchKinds = []SearchKind{
	SearchKindNumber,
	SearchKindParty,
	SearchKindCourt,
}

// String implements fmt.Stringer.
func (k SearchKind) String() string {
	return string(k)
}

// IsValid reports whether the value is known.
func (k SearchKind) IsValid() bool {
	for _, candidate := range validSearchKinds {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseSearchKind converts raw input into a SearchKind.
func ParseSearchKind(value string) (SearchKind, error) {
	for _, candidate := range validSearchKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid search kind %q", value)
}
