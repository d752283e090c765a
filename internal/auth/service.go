// Package auth implements the authenticate seam with bcrypt password
// hashes and HS256 session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/leeozaka/achados/internal/backend"
	"github.com/leeozaka/achados/internal/models"
	"github.com/leeozaka/achados/internal/observability"
)

const (
	issuer     = "achados"
	sessionTTL = 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid session token")

type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Admin bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	users     backend.Users
	jwtSecret []byte
	admins    map[string]bool
	now       func() time.Time
}

var _ backend.Authenticator = (*Service)(nil)

// NewService signs sessions with secret. Accounts created with one of
// adminEmails get the admin flag.
func NewService(users backend.Users, secret string, adminEmails ...string) *Service {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range adminEmails {
		admins[strings.ToLower(strings.TrimSpace(e))] = true
	}
	return &Service{
		users:     users,
		jwtSecret: []byte(secret),
		admins:    admins,
		now:       time.Now,
	}
}

// HashPassword is also used to seed demo accounts.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (s *Service) Authenticate(ctx context.Context, email, password string) (models.Session, error) {
	u, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, backend.ErrNotFound) {
		return models.Session{}, backend.ErrInvalidCredentials
	}
	if err != nil {
		return models.Session{}, err
	}

	if u.PasswordHash == "" {
		return models.Session{}, backend.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return models.Session{}, backend.ErrInvalidCredentials
	}
	if u.Blocked {
		return models.Session{}, backend.ErrBlocked
	}

	observability.LoggerFromContext(ctx).Info("user authenticated", "user_id", u.ID)
	return s.issue(u)
}

func (s *Service) SignUp(ctx context.Context, req models.SignupRequest) (models.Session, error) {
	hashed, err := HashPassword(req.Password)
	if err != nil {
		return models.Session{}, err
	}

	u, err := s.users.CreateUser(ctx, models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Role:         req.Role,
		Admin:        s.admins[strings.ToLower(strings.TrimSpace(req.Email))],
		PasswordHash: hashed,
	})
	if err != nil {
		return models.Session{}, err
	}

	observability.LoggerFromContext(ctx).Info("user signed up", "user_id", u.ID, "role", u.Role)
	return s.issue(u)
}

// RequestPasswordReset never reveals whether the account exists.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := s.users.UserByEmail(ctx, email)
	if err != nil && !errors.Is(err, backend.ErrNotFound) {
		return err
	}
	observability.LoggerFromContext(ctx).Info("password reset requested", "known", err == nil)
	return nil
}

func (s *Service) issue(u models.User) (models.Session, error) {
	now := s.now()
	exp := now.Add(sessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Name:  u.Name,
		Email: u.Email,
		Admin: u.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	ss, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return models.Session{}, fmt.Errorf("sign session: %w", err)
	}
	return models.Session{
		UserID:    u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Admin:     u.Admin,
		Token:     ss,
		ExpiresAt: exp,
	}, nil
}

// ValidateToken parses a session token back into a session.
func (s *Service) ValidateToken(tokenString string) (models.Session, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return models.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return models.Session{
		UserID:    claims.Subject,
		Name:      claims.Name,
		Email:     claims.Email,
		Admin:     claims.Admin,
		Token:     tokenString,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
