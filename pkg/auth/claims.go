package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload carries the identity facts embedded into a minted token.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	IsVendor bool
	IsAdmin  bool
	JTI      string
}

// AccessTokenClaims is the JWT claim set for access tokens.
type AccessTokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	IsVendor bool      `json:"is_vendor"`
	IsAdmin  bool      `json:"is_admin"`
	jwt.RegisteredClaims
}
