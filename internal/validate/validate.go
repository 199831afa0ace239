// Package validate checks account form values before they are sent.
package validate

import (
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	PasswordMin = 5
	PasswordMax = 20
	NameMin     = 4
	NameMax     = 20
	CodeLength  = 6
)

// Field names used as FieldErrors keys.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldConfirm  = "confirm"
	FieldCode     = "code"
)

// FieldErrors maps a field name to its first validation message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+f[k])
	}
	return strings.Join(parts, "; ")
}

// Err returns f as an error, or nil when it is empty.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

func (f FieldErrors) add(field, msg string) {
	if msg == "" {
		return
	}
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Email reports the problem with an email address, or "".
func Email(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "email is required"
	}
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@")+1:], ".") {
		return "enter a valid email"
	}
	return ""
}

// Password reports the problem with a password, or "".
func Password(v string) string {
	if v == "" {
		return "password is required"
	}
	return length("password", v, PasswordMin, PasswordMax)
}

// Name reports the problem with a display name, or "".
func Name(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "name is required"
	}
	return length("name", v, NameMin, NameMax)
}

// Code reports the problem with a recovery code, or "".
func Code(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "code is required"
	}
	if len(v) != CodeLength {
		return fmt.Sprintf("code must have exactly %d digits", CodeLength)
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return "code must contain only digits"
		}
	}
	return ""
}

// Confirm reports a mismatch between a password and its confirmation.
func Confirm(password, confirm string) string {
	if confirm == "" {
		return "confirm your password"
	}
	if password != confirm {
		return "passwords do not match"
	}
	return ""
}

func length(field, v string, min, max int) string {
	n := utf8.RuneCountInString(v)
	switch {
	case n < min:
		return fmt.Sprintf("%s must have at least %d characters", field, min)
	case n > max:
		return fmt.Sprintf("%s must have at most %d characters", field, max)
	}
	return ""
}

// Login validates the login form.
func Login(email, password string) FieldErrors {
	errs := FieldErrors{}
	errs.add(FieldEmail, Email(email))
	errs.add(FieldPassword, Password(password))
	return errs
}

// Register validates the sign-up form.
func Register(name, email, password string) FieldErrors {
	errs := FieldErrors{}
	errs.add(FieldName, Name(name))
	errs.add(FieldEmail, Email(email))
	errs.add(FieldPassword, Password(password))
	return errs
}

// Forgot validates the recovery request form.
func Forgot(email string) FieldErrors {
	errs := FieldErrors{}
	errs.add(FieldEmail, Email(email))
	return errs
}

// Reset validates the password reset form.
func Reset(email, code, password, confirm string) FieldErrors {
	errs := FieldErrors{}
	errs.add(FieldEmail, Email(email))
	errs.add(FieldCode, Code(code))
	errs.add(FieldPassword, Password(password))
	errs.add(FieldConfirm, Confirm(password, confirm))
	return errs
}
