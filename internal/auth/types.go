package auth

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

const (
	maxUsernameLength = 64
	minPasswordLength = 8
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._ -]{1,64}$`)

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Registration is a sign-up request.
type Registration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Normalize trims the email and username. An empty username becomes the
// local part of the email.
func (r Registration) Normalize() Registration {
	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		if local, _, ok := strings.Cut(r.Email, "@"); ok {
			r.Username = local
		}
	}
	return r
}

// Validate checks a normalised registration.
func (r Registration) Validate() error {
	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != r.Email {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, r.Email)
	}
	if len(r.Username) > maxUsernameLength || !usernamePattern.MatchString(r.Username) {
		return fmt.Errorf("%w: must be 1-%d letters, digits, spaces, dots, hyphens or underscores", ErrInvalidUsername, maxUsernameLength)
	}
	if len(r.Password) < minPasswordLength {
		return fmt.Errorf("%w: at least %d characters", ErrWeakPassword, minPasswordLength)
	}
	return nil
}

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is an issued access token.
type Token struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
