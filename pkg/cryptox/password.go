package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor applied to every stored credential.
// Verification reads the cost back out of the stored hash, so raising this
// only affects newly hashed passwords.
const PasswordCost = 12

// ErrPasswordMismatch is returned by VerifyPassword when the supplied
// plaintext does not match the stored hash.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword derives a bcrypt hash of the plaintext password. The returned
// string embeds the salt and cost and is safe to persist as-is.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored bcrypt hash.
// The comparison cost is fixed by bcrypt itself; callers must not branch on
// anything other than the returned error.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return err
	}
	return nil
}
