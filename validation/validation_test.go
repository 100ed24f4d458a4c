package validation

import "testing"

func TestRequired(t *testing.T) {
	v := make(Violations)
	Required("name", "  ", v)
	if v["name"] != "required" {
		t.Fatalf("expected required violation, got %v", v)
	}
	v = make(Violations)
	Required("name", "Léa", v)
	if !v.Empty() {
		t.Fatalf("unexpected violation: %v", v)
	}
}

func TestEmail(t *testing.T) {
	for _, bad := range []string{"", "a", "a@", "@b.fr", "a@b"} {
		v := make(Violations)
		Email("email", bad, v)
		if v.Empty() {
			t.Fatalf("%q should be invalid", bad)
		}
	}
	v := make(Violations)
	Email("email", "marie@agence.fr", v)
	if !v.Empty() {
		t.Fatalf("unexpected violation: %v", v)
	}
}

func TestMinLength(t *testing.T) {
	v := make(Violations)
	MinLength("password", "court  ", 8, v)
	if v["password"] != "too_short" {
		t.Fatalf("expected too_short, got %v", v)
	}
}

func TestOneOf(t *testing.T) {
	v := make(Violations)
	OneOf("role", "SUPERADMIN", []string{"ADMIN", "TALENT_MANAGER"}, v)
	if v["role"] != "invalid_value" {
		t.Fatalf("expected invalid_value, got %v", v)
	}
	v = make(Violations)
	OneOf("role", "ADMIN", []string{"ADMIN", "TALENT_MANAGER"}, v)
	if !v.Empty() {
		t.Fatalf("unexpected violation: %v", v)
	}
}
