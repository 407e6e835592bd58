package validators

import (
	"errors"
	"strings"
)

var (
	ErrPasswordTooLong = errors.New("password is too long")
	ErrPasswordEmpty   = errors.New("no password provided")
	ErrUsernameEmpty   = errors.New("no username provided")
	ErrUsernameTooLong = errors.New("username is too long")
)

const maxUsernameLength = 64

// PasswordValidator only enforces presence and an upper bound. Accounts created
// before this service existed may use short passwords.
func PasswordValidator(p string, maxLen int) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if maxLen > 0 && len(p) > maxLen {
		return ErrPasswordTooLong
	}

	return nil
}

func UsernameValidator(u string) error {
	u = strings.TrimSpace(u)
	if u == "" {
		return ErrUsernameEmpty
	}

	if len(u) > maxUsernameLength {
		return ErrUsernameTooLong
	}

	return nil
}
