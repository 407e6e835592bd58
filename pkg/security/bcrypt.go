package security

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptHash hashes with bcrypt. Accounts created by the earlier Node.js
// deployment carry cost 10 bcrypt digests.
const bcryptMaxLength = 72

type BcryptHash struct {
	Cost int
}

func NewBcrypt(cost int) *BcryptHash {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptHash{Cost: cost}
}

// MaxLength is the longest secret bcrypt accepts, in bytes
func (b *BcryptHash) MaxLength() int {
	return bcryptMaxLength
}

func (b *BcryptHash) Hash(p string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p), b.Cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

func (b *BcryptHash) Verify(p, e string) (bool, error) {
	if !isBcrypt(e) {
		return false, ErrUnknownDigest
	}

	err := bcrypt.CompareHashAndPassword([]byte(e), []byte(p))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}

	return false, err
}

func isBcrypt(e string) bool {
	return strings.HasPrefix(e, "$2a$") || strings.HasPrefix(e, "$2b$") || strings.HasPrefix(e, "$2y$")
}
