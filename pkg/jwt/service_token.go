package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleOperator is the only role accepted on admin routes.
const RoleOperator = "operator"

// ErrInvalidToken is returned for tokens that fail signature or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// ServiceClaims are carried by operator service tokens
type ServiceClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ServiceTokenService issues and verifies HS256 service tokens
type ServiceTokenService struct {
	secret    []byte
	issuer    string
	expiresIn time.Duration
	now       func() time.Time
}

// NewServiceTokenService creates a token service. expiresIn <= 0 means 24h.
func NewServiceTokenService(secret, issuer string, expiresIn time.Duration) *ServiceTokenService {
	if expiresIn <= 0 {
		expiresIn = 24 * time.Hour
	}
	return &ServiceTokenService{
		secret:    []byte(secret),
		issuer:    issuer,
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// Issue signs a token for subject with the given role
func (s *ServiceTokenService) Issue(subject, role string) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("jwt secret is not configured")
	}
	now := s.now()
	claims := ServiceClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, expiry and issuer and returns the claims.
// Expired tokens are reported with jwt.ErrTokenExpired in the chain.
func (s *ServiceTokenService) Parse(tokenString string) (*ServiceClaims, error) {
	claims := &ServiceClaims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsExpired reports whether err came from an expired token.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
