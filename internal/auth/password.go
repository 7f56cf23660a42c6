package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the fixed hashing cost for stored passwords.
const BcryptCost = 12

// HashPassword returns a salted irreversible hash of the plaintext.
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext matches the stored hash.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
