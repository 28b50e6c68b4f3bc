package naming_test

import (
	"testing"

	"github.com/goliatone/sdkgen/pkg/naming"
)

func TestConversions(t *testing.T) {
	cases := []struct {
		in         string
		snake      string
		upperSnake string
		lowerCamel string
		upperCamel string
	}{
		{"petName", "pet_name", "PET_NAME", "petName", "PetName"},
		{"pet_name", "pet_name", "PET_NAME", "petName", "PetName"},
		{"pet-name", "pet_name", "PET_NAME", "petName", "PetName"},
		{"PetName", "pet_name", "PET_NAME", "petName", "PetName"},
		{"HTTPServer", "http_server", "HTTP_SERVER", "httpServer", "HttpServer"},
		{"v1", "v_1", "V_1", "v1", "V1"},
		{"foo1Bar", "foo_1_bar", "FOO_1_BAR", "foo1Bar", "Foo1Bar"},
		{"message.attempt", "message_attempt", "MESSAGE_ATTEMPT", "messageAttempt", "MessageAttempt"},
		{"", "", "", "", ""},
		{"___", "", "", "", ""},
	}

	for _, tc := range cases {
		if got := naming.ToSnake(tc.in); got != tc.snake {
			t.Errorf("ToSnake(%q) = %q, want %q", tc.in, got, tc.snake)
		}
		if got := naming.ToUpperSnake(tc.in); got != tc.upperSnake {
			t.Errorf("ToUpperSnake(%q) = %q, want %q", tc.in, got, tc.upperSnake)
		}
		if got := naming.ToLowerCamel(tc.in); got != tc.lowerCamel {
			t.Errorf("ToLowerCamel(%q) = %q, want %q", tc.in, got, tc.lowerCamel)
		}
		if got := naming.ToUpperCamel(tc.in); got != tc.upperCamel {
			t.Errorf("ToUpperCamel(%q) = %q, want %q", tc.in, got, tc.upperCamel)
		}
	}
}

func TestIdempotency(t *testing.T) {
	inputs := []string{
		"petName", "pet_name", "Pet-Name", "HTTPServer", "v1",
		"foo1Bar", "FOO_1_BAR", "already_snake", "AlreadyCamel",
		"weird..séparators!!x", "123abc", "",
	}

	fns := map[string]func(string) string{
		"ToSnake":      naming.ToSnake,
		"ToUpperSnake": naming.ToUpperSnake,
		"ToLowerCamel": naming.ToLowerCamel,
		"ToUpperCamel": naming.ToUpperCamel,
	}

	for name, fn := range fns {
		for _, in := range inputs {
			once := fn(in)
			twice := fn(once)
			if once != twice {
				t.Errorf("%s not idempotent for %q: %q != %q", name, in, once, twice)
			}
		}
	}
}
