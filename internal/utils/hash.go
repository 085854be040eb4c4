package utils

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for new password hashes.
const BcryptCost = 10

// HashPassword generates a salted bcrypt hash. Hashing the same password twice
// yields different outputs, so hashes must be checked with VerifyPassword.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks password against a stored bcrypt hash.
// A mismatch is reported as (false, nil); a malformed hash is an error.
func VerifyPassword(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// placeholderHash is compared against when no account matches a login, so
// unknown emails cost as much as wrong passwords.
var placeholderHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("placeholder-password"), BcryptCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// SimulateVerify runs a bcrypt comparison whose result is discarded.
func SimulateVerify(password string) {
	_ = bcrypt.CompareHashAndPassword(placeholderHash(), []byte(password))
}
