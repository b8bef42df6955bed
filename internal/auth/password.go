package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is bcrypt's default work factor (10).
const PasswordCost = bcrypt.DefaultCost

// ErrPasswordTooLong is returned for inputs bcrypt would silently truncate.
var ErrPasswordTooLong = errors.New("password longer than 72 bytes")

func HashPassword(p string) (string, error) {
	if len(p) > 72 {
		return "", ErrPasswordTooLong
	}
	b, err := bcrypt.GenerateFromPassword([]byte(p), PasswordCost)
	return string(b), err
}

func VerifyPassword(plain, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
