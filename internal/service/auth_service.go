package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/campusboard/internal/config"
	"github.com/stemsi/campusboard/internal/model"
	"github.com/stemsi/campusboard/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the work factor used when the configuration leaves it unset.
	DefaultBcryptCost = 10
	// DefaultTokenExpiry is the token lifetime used when the configuration leaves it unset.
	DefaultTokenExpiry = 7 * 24 * time.Hour
)

// Claims extends JWT standard claims with the subject's role.
type Claims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// AuthService handles password verification, JWT issuance and identity
// resolution. It is safe for concurrent use; all fields are read-only after
// construction.
type AuthService struct {
	secret []byte
	expiry time.Duration
	cost   int
	users  UserStore
	log    zerolog.Logger
	now    func() time.Time

	// dummyHash is compared against when a login names no user, so both
	// failure paths pay for one bcrypt comparison.
	dummyHash []byte
}

// NewAuthService creates a new AuthService. The signing secret is copied once
// and never re-read.
func NewAuthService(cfg *config.Config, users UserStore, log zerolog.Logger) (*AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, config.ErrMissingJWTSecret
	}
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	expiry := cfg.JWTExpiry
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AuthService{
		secret:    []byte(cfg.JWTSecret),
		expiry:    expiry,
		cost:      cost,
		users:     users,
		log:       log.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	return string(hash), err
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// A malformed hash is a mismatch.
func (s *AuthService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken creates a signed JWT for the user.
func (s *AuthService) IssueToken(u *model.User) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		Role: u.Role(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims. Every
// failure is reported as ErrTokenInvalid.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid || claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Login verifies the password of the user named by acc and issues a token.
// Unknown accounts and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, acc model.Account, password string) (*model.LoginResponse, error) {
	user, err := s.users.GetByAccount(ctx, acc)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			s.log.Debug().Str("role", string(acc.Role())).Msg("Login rejected")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.Role() != acc.Role() || !s.VerifyPassword(password, user.PasswordHash) {
		s.log.Debug().Str("role", string(acc.Role())).Msg("Login rejected")
		return nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role())).Msg("User logged in")

	return &model.LoginResponse{Token: token, User: user.Profile()}, nil
}

// Authenticate resolves a bearer token to the identity of an existing user.
// It returns ErrTokenInvalid for bad tokens and ErrUnauthenticated when the
// subject no longer exists or no longer holds the token's role.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*model.Identity, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.Role() != claims.Role {
		return nil, ErrUnauthenticated
	}

	return user.Identity(), nil
}
