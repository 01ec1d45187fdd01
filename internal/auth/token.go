package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Token lifetimes. rememberMe stretches the window from one hour to
// seven days.
const (
	DefaultTokenTTL    = time.Hour
	RememberMeTokenTTL = 7 * 24 * time.Hour
)

// TokenService issues and verifies the signed bearer tokens that stand
// in for sessions. There is no server-side session state; the embedded
// expiry is the only invalidation mechanism.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), now: time.Now}
}

// Issue signs an HS256 token for the given subject.
func (t *TokenService) Issue(subjectID string, rememberMe bool) (string, error) {
	ttl := DefaultTokenTTL
	if rememberMe {
		ttl = RememberMeTokenTTL
	}
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify validates a token and returns its subject id. Expired and
// malformed tokens come back as distinct errors so callers can word
// their rejection differently; both are rejected the same way.
func (t *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return t.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
