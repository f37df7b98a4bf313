package forms

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/marshallshelly/stockroom/pkg/client"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Login is the login form.
type Login struct {
	Username string
	Password string
}

// Validate checks the form and returns the first problem found.
func (f Login) Validate() error {
	if err := validateUsername(f.Username); err != nil {
		return err
	}
	n := utf8.RuneCountInString(f.Password)
	switch {
	case f.Password == "":
		return invalid("password", "Password is required")
	case n < 6:
		return invalid("password", "Password must be at least 6 characters")
	case n > 128:
		return invalid("password", "Password must be less than 128 characters")
	}
	return nil
}

// Credentials returns the request payload.
func (f Login) Credentials() client.Credentials {
	return client.Credentials{
		Username: strings.TrimSpace(f.Username),
		Password: f.Password,
	}
}

// LoginFailure returns the message shown when a login request fails.
func LoginFailure(err error) string {
	if errors.Is(err, client.ErrInvalidLoginResponse) {
		return MsgLoginEmpty
	}
	return serverMessage(err, "Login failed. Please check your credentials.")
}

// Register is the registration form.
type Register struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Validate checks the form and returns the first problem found.
func (f Register) Validate() error {
	if err := validateUsername(f.Username); err != nil {
		return err
	}

	email := strings.TrimSpace(f.Email)
	switch {
	case email == "":
		return invalid("email", "Email is required")
	case !emailPattern.MatchString(email):
		return invalid("email", "Please enter a valid email address")
	case utf8.RuneCountInString(email) > 254:
		return invalid("email", "Email must be less than 254 characters")
	}

	n := utf8.RuneCountInString(f.Password)
	switch {
	case f.Password == "":
		return invalid("password", "Password is required")
	case n < 8:
		return invalid("password", "Password must be at least 8 characters")
	case n > 128:
		return invalid("password", "Password must be less than 128 characters")
	case !hasRune(f.Password, unicode.IsLower) || !hasRune(f.Password, unicode.IsUpper):
		return invalid("password", "Password must contain at least one uppercase and one lowercase letter")
	case !hasRune(f.Password, unicode.IsDigit):
		return invalid("password", "Password must contain at least one number")
	}

	switch {
	case f.ConfirmPassword == "":
		return invalid("confirm_password", "Please confirm your password")
	case f.ConfirmPassword != f.Password:
		return invalid("confirm_password", "Passwords do not match")
	}
	return nil
}

// Registration returns the request payload.
func (f Register) Registration() client.Registration {
	return client.Registration{
		Username: strings.TrimSpace(f.Username),
		Email:    strings.ToLower(strings.TrimSpace(f.Email)),
		Password: f.Password,
	}
}

// RegisterFailure returns the message shown when registration fails.
func RegisterFailure(err error) string {
	return serverMessage(err, "Registration failed. Please check your info.")
}

func validateUsername(raw string) error {
	u := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(u)
	switch {
	case u == "":
		return invalid("username", "Username is required")
	case n < 3:
		return invalid("username", "Username must be at least 3 characters")
	case n > 50:
		return invalid("username", "Username must be less than 50 characters")
	case !usernamePattern.MatchString(u):
		return invalid("username", "Username can only contain letters, numbers, and underscores")
	}
	return nil
}

func hasRune(s string, pred func(rune) bool) bool {
	return strings.IndexFunc(s, pred) >= 0
}
