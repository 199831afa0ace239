package formui

import (
	"context"

	"github.com/verte-zerg/tecla/internal/api"
	"github.com/verte-zerg/tecla/internal/validate"
)

const emailPlaceholder = "example@gmail.com"

func emailField(value string) Field {
	return Field{Name: validate.FieldEmail, Label: "Email", Placeholder: emailPlaceholder, CharLimit: 254, Value: value}
}

func passwordField(name, label string) Field {
	return Field{Name: name, Label: label, Placeholder: "••••••••", Password: true, CharLimit: validate.PasswordMax}
}

// Login builds the sign-in form.
func Login(ctx context.Context, email string, submit func(context.Context, api.Credentials) (string, error)) *Model {
	return New(ctx, Layout{
		Title: "Log in",
		Fields: []Field{
			emailField(email),
			passwordField(validate.FieldPassword, "Password"),
		},
		SubmitLabel: "log in",
		Validate: func(v Values) validate.FieldErrors {
			return validate.Login(v[validate.FieldEmail], v[validate.FieldPassword])
		},
		Submit: func(ctx context.Context, v Values) (string, error) {
			return submit(ctx, api.Credentials{Email: v[validate.FieldEmail], Password: v[validate.FieldPassword]})
		},
	})
}

// Register builds the sign-up form.
func Register(ctx context.Context, submit func(context.Context, api.Registration) (string, error)) *Model {
	return New(ctx, Layout{
		Title: "Create an account",
		Fields: []Field{
			{Name: validate.FieldName, Label: "Name", Placeholder: "Your name", CharLimit: validate.NameMax},
			emailField(""),
			passwordField(validate.FieldPassword, "Password"),
		},
		SubmitLabel: "register",
		Validate: func(v Values) validate.FieldErrors {
			return validate.Register(v[validate.FieldName], v[validate.FieldEmail], v[validate.FieldPassword])
		},
		Submit: func(ctx context.Context, v Values) (string, error) {
			return submit(ctx, api.Registration{
				Name:     v[validate.FieldName],
				Email:    v[validate.FieldEmail],
				Password: v[validate.FieldPassword],
			})
		},
	})
}

// Forgot builds the recovery code request form.
func Forgot(ctx context.Context, email string, submit func(context.Context, string) (string, error)) *Model {
	return New(ctx, Layout{
		Title:       "Recover your account",
		Fields:      []Field{emailField(email)},
		SubmitLabel: "send a code",
		Validate: func(v Values) validate.FieldErrors {
			return validate.Forgot(v[validate.FieldEmail])
		},
		Submit: func(ctx context.Context, v Values) (string, error) {
			return submit(ctx, v[validate.FieldEmail])
		},
	})
}

// Reset builds the password reset form.
func Reset(ctx context.Context, email string, submit func(context.Context, api.PasswordReset) (string, error)) *Model {
	return New(ctx, Layout{
		Title: "Choose a new password",
		Fields: []Field{
			emailField(email),
			{Name: validate.FieldCode, Label: "Recovery code", Placeholder: "000000", CharLimit: validate.CodeLength},
			passwordField(validate.FieldPassword, "Password"),
			passwordField(validate.FieldConfirm, "Confirm password"),
		},
		SubmitLabel: "change the password",
		Validate: func(v Values) validate.FieldErrors {
			return validate.Reset(v[validate.FieldEmail], v[validate.FieldCode], v[validate.FieldPassword], v[validate.FieldConfirm])
		},
		Submit: func(ctx context.Context, v Values) (string, error) {
			return submit(ctx, api.PasswordReset{
				Email:       v[validate.FieldEmail],
				Code:        v[validate.FieldCode],
				NewPassword: v[validate.FieldPassword],
			})
		},
	})
}
