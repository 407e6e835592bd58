package security

import (
	"errors"
	"time"

	"greanix/footprint-api/pkg/util"
)

// ResetTokenSize is the amount of random bytes in a reset token. Encoded as hex
// the token is twice as long.
const ResetTokenSize = 20

type ResetToken struct {
	Token     string
	ExpiresAt time.Time
}

// MakeResetToken creates a fresh single-use token that stops being valid ttl after now
func MakeResetToken(now time.Time, ttl time.Duration) (*ResetToken, error) {
	if ttl <= 0 {
		return nil, errors.New("reset token ttl must be positive")
	}

	token, err := util.GenerateToken(ResetTokenSize)
	if err != nil {
		return nil, err
	}

	return &ResetToken{
		Token:     token,
		ExpiresAt: now.Add(ttl).UTC(),
	}, nil
}
