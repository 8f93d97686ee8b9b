package utils // package utils provides helpers for session token creation and hashing

import (
	"errors"
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed session token along with its expiry.
// Sessions are stateless: validity is cryptographic signature plus expiry,
// there is no server-side session store.  The token is presented in the
// Authorization header on every subsequent request.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// SessionClaims is the identity carried inside a verified session token.
type SessionClaims struct {
	UserID uint64
	Email  string
	Role   string
}

// ErrInvalidToken covers every verification failure: malformed input, a bad
// signature and an expired token all map to the same error so the response
// never tells a caller which one it was.
var ErrInvalidToken = errors.New("invalid or expired token")

// NewSessionToken builds and signs an HS256 JWT binding a user's id, email
// and role.  The ttlDays parameter controls the validity window; the login
// surface passes the configured default of seven days.
func NewSessionToken(secret string, userID uint64, email, role string, ttlDays int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates the signature and expiry of a raw token and
// returns the embedded claims.  Any failure is reported as ErrInvalidToken.
func ParseSessionToken(secret, raw string) (SessionClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but HMAC.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return SessionClaims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return SessionClaims{}, ErrInvalidToken
	}
	var claims SessionClaims
	switch sub := mc["sub"].(type) {
	case float64:
		// JSON numbers decode as float64.
		claims.UserID = uint64(sub)
	default:
		return SessionClaims{}, ErrInvalidToken
	}
	if v, ok := mc["email"].(string); ok {
		claims.Email = v
	}
	if v, ok := mc["role"].(string); ok {
		claims.Role = v
	}
	if claims.Role == "" {
		return SessionClaims{}, ErrInvalidToken
	}
	return claims, nil
}
