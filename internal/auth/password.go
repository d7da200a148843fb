package auth

import (
	"log"

	"golang.org/x/crypto/bcrypt"
)

// Validator compares a presented password against the configured
// bcrypt hash. It is stateless; attempt counting and rate limiting are
// layered on top of it, not inside it.
type Validator struct {
	Hash string
}

func NewValidator(hash string) *Validator {
	if hash == "" {
		log.Printf("ERROR: auth.password_hash is not configured, all logins will fail")
	}
	return &Validator{Hash: hash}
}

// Validate reports whether candidate matches the configured hash.
// A missing hash fails closed. The candidate is never logged.
func (v *Validator) Validate(candidate string) bool {
	if v.Hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(v.Hash), []byte(candidate)) == nil
}
