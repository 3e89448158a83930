package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Service registers users and logs them in.
type Service struct {
	users  UserRepository
	secret string
	ttl    time.Duration

	// dummyHash is verified for unknown emails so a miss costs the same
	// as a wrong password.
	dummyHash string
}

// NewService returns a Service issuing tokens signed with secret.
//
// Parameters:
//   - users: Store for accounts
//   - secret: HS256 signing key, required
//   - ttl: Lifetime of issued access tokens
//
// Returns:
//   - *Service: Service ready for Register, Login and Authenticate
//   - error: If users or secret is missing
func NewService(users UserRepository, secret string, ttl time.Duration) (*Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	dummy, err := HashPassword("currently-timing-equaliser")
	if err != nil {
		return nil, err
	}
	return &Service{users: users, secret: secret, ttl: ttl, dummyHash: dummy}, nil
}

// Register creates an account. The password is stored only as a hash.
func (s *Service) Register(ctx context.Context, reg Registration) (*User, error) {
	reg = reg.Normalize()
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	hash, err := HashPassword(reg.Password)
	if err != nil {
		return nil, err
	}
	user := &User{Email: reg.Email, Username: reg.Username, PasswordHash: hash}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues an access token. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, creds Credentials) (Token, *User, error) {
	user, err := s.users.GetByEmail(ctx, creds.Email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		VerifyPassword(creds.Password, s.dummyHash) //nolint:errcheck // timing only
		return Token{}, nil, ErrInvalidCredentials
	case err != nil:
		return Token{}, nil, err
	}

	ok, err := VerifyPassword(creds.Password, user.PasswordHash)
	if err != nil {
		return Token{}, nil, fmt.Errorf("verifying password for %s: %w", user.ID, err)
	}
	if !ok {
		return Token{}, nil, ErrInvalidCredentials
	}

	token, err := GenerateAccessToken(user, s.secret, s.ttl)
	if err != nil {
		return Token{}, nil, err
	}
	return token, user, nil
}

// Authenticate validates an access token and returns the user ID it was
// issued to.
func (s *Service) Authenticate(token string) (string, error) {
	claims, err := ParseToken(token, s.secret)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
