package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"cafeteria/internal/config"
	"cafeteria/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Customer is the storefront identity asserted by the hosted auth provider.
type Customer struct {
	UID   string
	Email string
	Name  string
}

// DisplayName is the name stamped on orders: display name, then email,
// then a fixed placeholder.
func (c Customer) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	if c.Email != "" {
		return c.Email
	}
	return "Cliente app"
}

type customerClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// StaffPrincipal is the identity carried by a point-of-sale session token.
type StaffPrincipal struct {
	ID   string
	Name string
	Role domain.StaffRole
}

type staffClaims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	customerSecret []byte
	staffSecret    []byte
	issuer         string
	staffTTL       time.Duration
	now            func() time.Time
}

func NewTokenService(cfg config.AuthConfig, now func() time.Time) *TokenService {
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		customerSecret: []byte(cfg.CustomerSecret),
		staffSecret:    []byte(cfg.StaffSecret),
		issuer:         cfg.Issuer,
		staffTTL:       cfg.StaffTokenTTL,
		now:            now,
	}
}

func (s *TokenService) ParseCustomer(tokenString string) (*Customer, error) {
	if len(s.customerSecret) == 0 {
		return nil, ErrInvalidToken
	}

	var claims customerClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.customerSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	uid := claims.UID
	if uid == "" {
		uid = claims.Subject
	}
	if uid == "" {
		return nil, ErrInvalidToken
	}

	return &Customer{UID: uid, Email: claims.Email, Name: claims.Name}, nil
}

func (s *TokenService) IssueStaff(u domain.StaffUser) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.staffTTL)

	claims := staffClaims{
		Name: u.Name,
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.staffSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing staff token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *TokenService) ParseStaff(tokenString string) (*StaffPrincipal, error) {
	if len(s.staffSecret) == 0 {
		return nil, ErrInvalidToken
	}

	var claims staffClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.staffSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	role := domain.StaffRole(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return nil, ErrInvalidToken
	}

	return &StaffPrincipal{ID: claims.Subject, Name: claims.Name, Role: role}, nil
}
