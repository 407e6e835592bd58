package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.io", NormalizeEmail("  A@X.io "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestEmailValidator(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"a@x.io", nil},
		{"  Alice@Example.COM ", nil},
		{"", ErrEmailEmpty},
		{"   ", ErrEmailEmpty},
		{"not-an-email", ErrEmailInvalid},
		{"a@", ErrEmailInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EmailValidator(tt.in))
		})
	}
}

func TestPasswordValidator(t *testing.T) {
	assert.NoError(t, PasswordValidator("pw1", 255))
	assert.ErrorIs(t, PasswordValidator("", 255), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator(strings.Repeat("a", 256), 255), ErrPasswordTooLong)
	assert.NoError(t, PasswordValidator(strings.Repeat("a", 256), 0))
}

func TestUsernameValidator(t *testing.T) {
	assert.NoError(t, UsernameValidator("alice"))
	assert.ErrorIs(t, UsernameValidator("  "), ErrUsernameEmpty)
	assert.ErrorIs(t, UsernameValidator(strings.Repeat("a", 65)), ErrUsernameTooLong)
}
