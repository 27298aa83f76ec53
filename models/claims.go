package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session payload carried inside a signed token. It never holds
// the credential digest.
type Claims struct {
	MemberID string `json:"memberId"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
