// Package validation holds the client-side form rules.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinPasswordLength is the shortest password the register form accepts.
const MinPasswordLength = 6

const (
	MsgEmailRequired    = "El email es requerido"
	MsgEmailInvalid     = "Email inválido"
	MsgPasswordRequired = "La contraseña es requerida"
	MsgPasswordShort    = "La contraseña debe tener al menos 6 caracteres"
	MsgConfirmRequired  = "La confirmación de contraseña es requerida"
	MsgConfirmMismatch  = "Las contraseñas no coinciden"
)

// emailPattern is the address pattern Android ships as Patterns.EMAIL_ADDRESS.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`)

// FieldErrors carries one message per field; "" means the field passed.
type FieldErrors struct {
	Email           string
	Password        string
	ConfirmPassword string
}

func (e FieldErrors) OK() bool {
	return e.Email == "" && e.Password == "" && e.ConfirmPassword == ""
}

// Fields checks the register form. Every rule runs; each failing field calls
// its own callback exactly once. It returns true only when nothing failed.
// Nil callbacks are skipped.
func Fields(email, password, confirmPassword string, onEmailError, onPasswordError, onConfirmPasswordError func(string)) bool {
	errs := Check(email, password, confirmPassword)
	report(errs.Email, onEmailError)
	report(errs.Password, onPasswordError)
	report(errs.ConfirmPassword, onConfirmPasswordError)
	return errs.OK()
}

// Check is Fields without callbacks.
func Check(email, password, confirmPassword string) FieldErrors {
	return FieldErrors{
		Email:           checkEmail(email),
		Password:        checkPassword(password),
		ConfirmPassword: checkConfirm(password, confirmPassword),
	}
}

// Login applies the email and password rules of the register form.
func Login(email, password string) FieldErrors {
	return FieldErrors{
		Email:    checkEmail(email),
		Password: checkPassword(password),
	}
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func checkEmail(email string) string {
	switch {
	case isBlank(email):
		return MsgEmailRequired
	case !ValidEmail(email):
		return MsgEmailInvalid
	}
	return ""
}

func checkPassword(password string) string {
	switch {
	case isBlank(password):
		return MsgPasswordRequired
	case utf8.RuneCountInString(password) < MinPasswordLength:
		return MsgPasswordShort
	}
	return ""
}

func checkConfirm(password, confirm string) string {
	switch {
	case isBlank(confirm):
		return MsgConfirmRequired
	case confirm != password:
		return MsgConfirmMismatch
	}
	return ""
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func report(msg string, fn func(string)) {
	if msg != "" && fn != nil {
		fn(msg)
	}
}
