package auth

import (
	"errors"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Role classifies the caller for access scoping.
type Role string

const (
	// RoleAdmin has unrestricted read access and exclusive write access.
	RoleAdmin Role = "admin"
	// RoleUser is a standard account scoped to its own shipments.
	RoleUser Role = "user"
	// RoleAnonymous is an unauthenticated caller.
	RoleAnonymous Role = "anonymous"
)

// Principal represents the authenticated caller extracted from a JWT.
// Identity issuance lives outside this service; the token is trusted as-is.
type Principal struct {
	ID    string
	Email string
	Role  Role
}

// Anonymous is the principal used when no credentials are presented.
var Anonymous = Principal{Role: RoleAnonymous}

// IsAdmin reports whether the principal holds administrative capability.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IsAuthenticated reports whether the principal carries a verified identity.
func (p Principal) IsAuthenticated() bool {
	return p.Role == RoleAdmin || p.Role == RoleUser
}

var (
	// ErrInvalidToken is returned for malformed, expired, or mis-signed tokens.
	ErrInvalidToken = errors.New("invalid token")
)

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ParseToken validates an HS256 JWT and extracts the Principal.
func ParseToken(tokenStr, secret string) (Principal, error) {
	if secret == "" {
		return Anonymous, errors.New("jwt secret is empty")
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Anonymous, ErrInvalidToken
	}

	claims, _ := tok.Claims.(*tokenClaims)
	if claims == nil || claims.Subject == "" || claims.Email == "" {
		return Anonymous, ErrInvalidToken
	}

	role := Role(strings.ToLower(claims.Role))
	if role != RoleAdmin && role != RoleUser {
		return Anonymous, ErrInvalidToken
	}

	return Principal{
		ID:    claims.Subject,
		Email: strings.ToLower(claims.Email),
		Role:  role,
	}, nil
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
