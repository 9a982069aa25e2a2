package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the user store the service needs. *Store
// satisfies it; tests substitute fakes.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, username, password string, role Role) (*User, error)
}

type Service struct {
	store    UserStore
	secret   []byte
	tokenTTL time.Duration
}

func NewService(store UserStore, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		store:    store,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

func (s *Service) Register(ctx context.Context, username, password string, role Role) (*User, error) {
	return s.store.Create(ctx, username, password, role)
}

// Login verifies the password and issues a token. Unknown username and
// wrong password fail identically so callers cannot probe for accounts.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

func (s *Service) IssueToken(user *User) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

func (s *Service) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
