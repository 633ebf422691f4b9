package bcrypt

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = 12
)

// HashPassword returns the bcrypt digest of password.
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// ComparePassword checks a plaintext candidate against a stored digest.
func ComparePassword(hashedPassword, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	if err != nil {
		return fmt.Errorf("password comparison failed: %w", err)
	}
	return nil
}

// IsHash reports whether s looks like a bcrypt digest.
func IsHash(s string) bool {
	if len(s) != 60 || s[0:2] != "$2" {
		return false
	}
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
