package security

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownDigest = errors.New("unknown digest format")

// Hasher is the credential hashing contract. Hash must salt every call so two
// digests of the same secret differ.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) (bool, error)
}

// LengthLimiter is implemented by hashers that refuse secrets above a size
type LengthLimiter interface {
	MaxLength() int
}

// MaxSecretLength returns the byte limit h puts on new secrets, 0 when it has none
func MaxSecretLength(h Hasher) int {
	if l, ok := h.(LengthLimiter); ok {
		return l.MaxLength()
	}

	return 0
}

// Composite hashes with Primary and verifies with whichever algorithm produced
// the digest.
type Composite struct {
	Primary Hasher
	Argon   *ArgonHash
	Bcrypt  *BcryptHash
}

// NewHasher builds a Composite whose primary algorithm is algo
// ("argon2id" or "bcrypt").
func NewHasher(algo string, bcryptCost int) (*Composite, error) {
	c := &Composite{
		Argon:  NewArgon(),
		Bcrypt: NewBcrypt(bcryptCost),
	}

	switch strings.ToLower(algo) {
	case "", "argon2id":
		c.Primary = c.Argon
	case "bcrypt":
		c.Primary = c.Bcrypt
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algo)
	}

	return c, nil
}

// MaxLength only reflects the primary algorithm, the one new digests are made with
func (c *Composite) MaxLength() int {
	return MaxSecretLength(c.Primary)
}

func (c *Composite) Hash(secret string) (string, error) {
	return c.Primary.Hash(secret)
}

func (c *Composite) Verify(secret, digest string) (bool, error) {
	switch {
	case strings.HasPrefix(digest, argonPrefix):
		return c.Argon.Verify(secret, digest)
	case isBcrypt(digest):
		return c.Bcrypt.Verify(secret, digest)
	}

	return false, ErrUnknownDigest
}
