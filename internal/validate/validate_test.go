package validate

import (
	"strings"
	"testing"
)

func TestEmail(t *testing.T) {
	for _, ok := range []string{"ana@example.com", "a.b+c@mail.example.org"} {
		if msg := Email(ok); msg != "" {
			t.Fatalf("expected %q valid, got %q", ok, msg)
		}
	}
	for _, bad := range []string{"", "ana", "ana@", "Ana <ana@example.com>", "ana@localhost"} {
		if Email(bad) == "" {
			t.Fatalf("expected %q invalid", bad)
		}
	}
}

func TestPasswordBounds(t *testing.T) {
	if Password("1234") == "" {
		t.Fatalf("expected 4 chars rejected")
	}
	if Password("12345") != "" {
		t.Fatalf("expected 5 chars accepted")
	}
	if Password(strings.Repeat("x", 20)) != "" {
		t.Fatalf("expected 20 chars accepted")
	}
	if Password(strings.Repeat("x", 21)) == "" {
		t.Fatalf("expected 21 chars rejected")
	}
}

func TestNameCountsRunes(t *testing.T) {
	if Name("abc") == "" {
		t.Fatalf("expected 3 chars rejected")
	}
	if Name("ñoño") != "" {
		t.Fatalf("expected 4 runes accepted")
	}
	if Name("   ") == "" {
		t.Fatalf("expected blank name rejected")
	}
}

func TestCode(t *testing.T) {
	if Code("123456") != "" {
		t.Fatalf("expected six digits accepted")
	}
	for _, bad := range []string{"", "12345", "1234567", "12a456"} {
		if Code(bad) == "" {
			t.Fatalf("expected %q rejected", bad)
		}
	}
}

func TestRegisterCollectsFieldErrors(t *testing.T) {
	errs := Register("ab", "nope", "12345")
	for _, field := range []string{FieldName, FieldEmail} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, errs)
		}
	}
	if _, ok := errs[FieldPassword]; ok {
		t.Fatalf("did not expect password error: %v", errs)
	}
	if errs.Err() == nil {
		t.Fatalf("expected non-nil error")
	}
	if !strings.HasPrefix(errs.Error(), "email: ") {
		t.Fatalf("expected sorted message, got %q", errs.Error())
	}
}

func TestResetRequiresMatchingConfirmation(t *testing.T) {
	errs := Reset("ana@example.com", "123456", "secret", "secreto")
	if errs[FieldConfirm] != "passwords do not match" {
		t.Fatalf("expected mismatch error, got %v", errs)
	}
}

func TestValidFormsHaveNoErrors(t *testing.T) {
	if err := Login("ana@example.com", "secret").Err(); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := Reset("ana@example.com", "000111", "secret", "secret").Err(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := Forgot("ana@example.com").Err(); err != nil {
		t.Fatalf("forgot: %v", err)
	}
}
