// Package identity implements the identity service: user registration,
// login with bcrypt-hashed credentials, and profile lookup.
package identity

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the service.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
