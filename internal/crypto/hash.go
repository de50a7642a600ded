package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// hashCost is the fixed bcrypt cost factor (2^10 rounds).
const hashCost = 10

// HashPassword hashes a password with bcrypt. The salt is generated by
// bcrypt and embedded in the returned hash string.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks whether a password matches the given bcrypt hash.
// The comparison is constant-time within bcrypt itself.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
