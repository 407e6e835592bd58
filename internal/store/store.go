// Package store persists accounts and their footprint history
package store

import (
	"context"
	"time"

	"greanix/footprint-api/internal/model"
)

// AccountDraft carries the fields of a new account. Password is plaintext and is
// hashed before it reaches the database.
type AccountDraft struct {
	Username string
	Email    string
	Password string
}

// AccountUpdate is a partial update. Nil fields are left untouched, a non-nil
// Password is hashed before it is written.
type AccountUpdate struct {
	Username *string
	Password *string
}

type Store interface {
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByID(ctx context.Context, id string) (*model.Account, error)
	Create(ctx context.Context, draft AccountDraft) (*model.Account, error)
	Update(ctx context.Context, id string, upd AccountUpdate) error

	SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token, newPassword string, now time.Time) error

	AppendFootprintRecord(ctx context.Context, id string, rec *model.FootprintRecord) error
	History(ctx context.Context, id string) ([]model.FootprintRecord, error)
}
