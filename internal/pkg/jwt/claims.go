package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the access-token claims.
type Claims struct {
	IdentityID int64  `json:"identity_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}
