package userservice

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

func (u *User) setPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcryptCost)
	if err != nil {
		return err
	}

	u.PasswordHash = hash

	return nil
}

func (u *User) comparePassword(pwd string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword), errors.Is(err, bcrypt.ErrPasswordTooLong):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}
