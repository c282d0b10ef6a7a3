package auth

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// GenerateCode returns a fresh confirmation code. A random UUID gives enough
// entropy for a short-lived single-use secret.
func GenerateCode() string {
	return uuid.New().String()
}

// HashCode creates a bcrypt hash of a confirmation code. Codes are stored
// hashed so a leaked database dump cannot be exchanged for tokens.
func HashCode(code string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCode checks a plaintext confirmation code against the stored hash.
func VerifyCode(hashedCode, providedCode string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedCode), []byte(providedCode))
}
