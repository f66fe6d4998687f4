package authn

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"joybor-backend/internal/model"
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

var (
	// ErrInvalidToken is returned for malformed, expired or mis-signed tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenKind is returned when a refresh token is presented where an
	// access token is expected, or vice versa.
	ErrWrongTokenKind = errors.New("wrong token kind")
)

// Claims are the JWT claims carried by both token kinds.
type Claims struct {
	UserID int64      `json:"uid"`
	Role   model.Role `json:"role"`
	Kind   TokenKind  `json:"kind"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the bearer tokens used by the API.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the given signing secret and
// token lifetimes.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// IssuePair returns a short-lived access token and a refresh token for the user.
func (ti *TokenIssuer) IssuePair(user *model.User) (access, refresh string, err error) {
	access, err = ti.issue(user, KindAccess, ti.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = ti.issue(user, KindRefresh, ti.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (ti *TokenIssuer) issue(user *model.User, kind TokenKind, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Parse verifies a token string and checks it is of the expected kind.
func (ti *TokenIssuer) Parse(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}

// NewResetToken returns a random opaque token for the password reset flow.
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
