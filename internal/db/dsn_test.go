package db

import "testing"

func TestNormalizeDSN(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"url untouched", "postgres://u:p@localhost:5432/talents", "postgres://u:p@localhost:5432/talents"},
		{"quoted url", `"postgres://u:p@localhost/talents"`, "postgres://u:p@localhost/talents"},
		{"kv gets sslmode", "host=localhost user=app dbname=talents", "host=localhost user=app dbname=talents sslmode=disable"},
		{"kv keeps sslmode", "host=localhost sslmode=require", "host=localhost sslmode=require"},
		{"kv whitespace collapsed", "  host=localhost   user=app  ", "host=localhost user=app sslmode=disable"},
		{"empty", "", ""},
		{"opaque passthrough", "file:test.db", "file:test.db"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeDSN(tc.in); got != tc.want {
				t.Fatalf("NormalizeDSN(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestIsSQLiteDSN(t *testing.T) {
	for _, dsn := range []string{"file:test?mode=memory", "sqlite://app.db", "local.db", ":memory:"} {
		if !isSQLiteDSN(dsn) {
			t.Fatalf("%q should be detected as sqlite", dsn)
		}
	}
	for _, dsn := range []string{"postgres://localhost/talents", "host=localhost dbname=talents"} {
		if isSQLiteDSN(dsn) {
			t.Fatalf("%q should not be detected as sqlite", dsn)
		}
	}
}
