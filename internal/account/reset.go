package account

import (
	"context"
	"fmt"
	"time"

	"greanix/footprint-api/internal/model"
	"greanix/footprint-api/internal/service"
	"greanix/footprint-api/internal/store"
	"greanix/footprint-api/pkg/security"
)

const DefaultResetTTL = time.Hour

// ResetManager owns the reset token lifecycle. An account either holds no token
// or one token with a future expiry; consuming it returns the account to the
// first state.
type ResetManager struct {
	store  store.Store
	mailer service.Mailer
	ttl    time.Duration
	now    func() time.Time
}

func NewResetManager(s store.Store, m service.Mailer, ttl time.Duration) *ResetManager {
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}

	return &ResetManager{
		store:  s,
		mailer: m,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Request issues a new token for acc, replacing any previous one, and mails the
// reset link to the account's address
func (r *ResetManager) Request(ctx context.Context, acc *model.Account) error {
	tok, err := security.MakeResetToken(r.now(), r.ttl)
	if err != nil {
		return fmt.Errorf("failed to generate reset token, %w", err)
	}

	if err := r.store.SetResetToken(ctx, acc.ID, tok.Token, tok.ExpiresAt); err != nil {
		return fmt.Errorf("failed to store reset token, %w", err)
	}

	if err := r.mailer.SendResetLink(ctx, acc.Email, tok.Token); err != nil {
		return fmt.Errorf("failed to deliver reset link, %w", err)
	}

	return nil
}

// Consume replaces the password of the account holding token. The token stops
// working after the first success.
func (r *ResetManager) Consume(ctx context.Context, token, newPassword string) error {
	return r.store.ConsumeResetToken(ctx, token, newPassword, r.now())
}
