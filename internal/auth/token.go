package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"blogapi/internal/models"
)

// Token errors
var (
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrMalformedToken   = errors.New("token malformed")
)

// TokenService issues and verifies signed, expiring bearer tokens. Tokens
// are stateless: validity is determined purely by signature and expiry, so
// there is no revocation before the TTL elapses.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenService builds a token service for the configured secret and
// algorithm. Only HMAC algorithms are accepted; anything else fails closed
// at startup rather than at the first login.
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}
	return &TokenService{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// Issue creates a signed token whose subject is userID and which expires
// after the configured TTL.
func (s *TokenService) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns the
// subject user id exactly as issued. Both the subject and the expiry claim
// are required; a token without an expiry would otherwise never expire.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return 0, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return 0, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenUnverifiable):
			// The keyfunc refused the signing method.
			return 0, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return 0, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return 0, ErrMalformedToken
		default:
			return 0, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
	}
	if !token.Valid {
		return 0, ErrInvalidSignature
	}

	if claims.Subject == "" {
		return 0, fmt.Errorf("%w: missing sub claim", ErrMalformedToken)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: sub claim is not a user id", ErrMalformedToken)
	}
	return userID, nil
}
