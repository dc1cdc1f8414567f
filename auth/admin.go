/*
admin.go - Admin password verification and session tokens

PURPOSE:
  The admin surface (forced extraction, ledger listing, name reload) sits
  behind a password exchanged for a short-lived HS256 token. The token only
  asserts the admin role; there are no user accounts.

FLOW:
  POST /admin/verify {password}  ->  {token}
  subsequent admin requests      ->  Authorization: Bearer <token>

The password compare uses constant-time equality so timing does not leak
prefix matches.
*/
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

const roleAdmin = "admin"

// ErrInvalidToken is returned for missing, malformed, expired, or
// non-admin tokens.
var ErrInvalidToken = errors.New("invalid admin token")

// Claims is the token payload.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Admin issues and validates admin session tokens.
type Admin struct {
	password []byte
	secret   []byte
	ttl      time.Duration

	// Now supplies issue/expiry timestamps. Tests pin it.
	Now func() time.Time
}

// New builds an Admin from the configured password, signing secret, and
// token lifetime.
func New(password, secret string, ttl time.Duration) *Admin {
	return &Admin{
		password: []byte(password),
		secret:   []byte(secret),
		ttl:      ttl,
		Now:      time.Now,
	}
}

// VerifyPassword reports whether the supplied password matches.
func (a *Admin) VerifyPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), a.password) == 1
}

// IssueToken creates a signed admin token.
func (a *Admin) IssueToken() (string, error) {
	now := a.Now()
	claims := Claims{
		Role: roleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// ValidateToken parses and checks an admin token.
func (a *Admin) ValidateToken(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return a.Now() }))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.Role != roleAdmin {
		return nil, ErrInvalidToken
	}
	return c, nil
}

// RequireAdmin is middleware rejecting requests without a valid bearer
// token.
func (a *Admin) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenStr, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			unauthorized(w, "admin token required")
			return
		}
		if _, err := a.ValidateToken(tokenStr); err != nil {
			unauthorized(w, "invalid admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, `{"success":false,"code":"unauthorized","message":%q}`, msg)
}
