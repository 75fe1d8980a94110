package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims accepted by the credit service. The
// subject is the username; Document links an affiliate login to its
// affiliate record.
type Claims struct {
	jwt.RegisteredClaims
	Document string   `json:"document,omitempty"`
	Roles    []string `json:"roles"`
}

// HasRole checks if the claims include the specified role. Legacy
// "ROLE_"-prefixed authority names are accepted.
func (c Claims) HasRole(role string) bool {
	want := NormalizeRole(role)
	for _, r := range c.Roles {
		if NormalizeRole(r) == want {
			return true
		}
	}
	return false
}

// Role constants
const (
	RoleAdmin     = "admin"
	RoleAnalyst   = "analyst"
	RoleAffiliate = "affiliate"
)

var legacyRoles = map[string]string{
	"admin":    RoleAdmin,
	"analista": RoleAnalyst,
	"afiliado": RoleAffiliate,
}

// NormalizeRole maps a role or authority name such as "ROLE_ANALISTA" to
// its canonical lower-case form.
func NormalizeRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	r = strings.TrimPrefix(r, "role_")
	if canonical, ok := legacyRoles[r]; ok {
		return canonical
	}
	return r
}
