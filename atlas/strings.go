package atlas

import "strings"

// NonEmptyString is a string that is either absent (the zero value) or
// guaranteed non-empty. Optional flag values use it so that a
// present-but-empty value cannot be constructed.
type NonEmptyString struct {
	value string
}

// NewNonEmptyString wraps s, rejecting the empty string.
func NewNonEmptyString(s string) (NonEmptyString, error) {
	if s == "" {
		return NonEmptyString{}, ErrEmptyValue
	}
	return NonEmptyString{value: s}, nil
}

// IsSet reports whether the value is present.
func (s NonEmptyString) IsSet() bool { return s.value != "" }

func (s NonEmptyString) String() string { return s.value }

// joinCSV renders a list of values as a single comma-separated flag value.
func joinCSV(items []NonEmptyString) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.value)
	}
	return strings.Join(parts, ",")
}
