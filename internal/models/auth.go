package models

import "github.com/golang-jwt/jwt/v5"

// UserRole scopes what an authenticated caller may do.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleTeacher UserRole = "TEACHER"
	RoleStaff   UserRole = "STAFF"
)

// JWTClaims carries the verified identity attached to each request. Token
// issuance belongs to the external identity provider; this service only
// verifies.
type JWTClaims struct {
	UserID         string   `json:"uid"`
	OrganizationID string   `json:"org"`
	Role           UserRole `json:"role"`
	jwt.RegisteredClaims
}
