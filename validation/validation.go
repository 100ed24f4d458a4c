package validation

import "strings"

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MinLength(field, value string, minLen int, v Violations) {
	if len(strings.TrimSpace(value)) < minLen {
		v[field] = "too_short"
	}
}

// Email performs a light structural check, the unique index does the rest.
func Email(field, value string, v Violations) {
	s := strings.TrimSpace(value)
	at := strings.Index(s, "@")
	if at < 1 || at == len(s)-1 || !strings.Contains(s[at+1:], ".") {
		v[field] = "invalid_email"
	}
}

func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_value"
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}
