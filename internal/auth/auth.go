package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrWrongPassword = errors.New("wrong password")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

type Claims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

// Service gates the admin API. Login checks the shared operator secret and
// issues an expiring HS256 session token; every admin request re-validates
// the token server-side.
type Service struct {
	password   []byte
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewService(password, signingKey, issuer string, ttl time.Duration) *Service {
	return &Service{
		password:   []byte(password),
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// Login exchanges the operator password for a session token. The comparison
// is constant-time.
func (s *Service) Login(password string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(password), s.password) != 1 {
		return "", time.Time{}, ErrWrongPassword
	}

	expiresAt := time.Now().Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Operator: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
