package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"greanix/footprint-api/internal/errs"
	"greanix/footprint-api/internal/model"
	"greanix/footprint-api/pkg/security"
	"greanix/footprint-api/pkg/util"
	"greanix/footprint-api/pkg/validators"

	"gorm.io/gorm"
)

type GormStore struct {
	db     *gorm.DB
	hasher security.Hasher
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB, hasher security.Hasher) *GormStore {
	return &GormStore{db: db, hasher: hasher}
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var acc model.Account

	err := s.db.WithContext(ctx).
		Where("email = ?", validators.NormalizeEmail(email)).
		First(&acc).Error
	if err != nil {
		return nil, translate("find account by email", err)
	}

	return &acc, nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*model.Account, error) {
	var acc model.Account

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&acc).Error
	if err != nil {
		return nil, translate("find account by id", err)
	}

	return &acc, nil
}

func (s *GormStore) Create(ctx context.Context, draft AccountDraft) (*model.Account, error) {
	email := validators.NormalizeEmail(draft.Email)

	var count int64
	err := s.db.WithContext(ctx).Model(&model.Account{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return nil, errs.Internal("check email uniqueness", err)
	}

	if count > 0 {
		return nil, errs.ErrDuplicateKey
	}

	hash, err := s.hasher.Hash(draft.Password)
	if err != nil {
		return nil, errs.Internal("hash password", err)
	}

	id, err := util.NewID()
	if err != nil {
		return nil, errs.Internal("generate account id", err)
	}

	acc := &model.Account{
		ID:           id,
		Username:     strings.TrimSpace(draft.Username),
		Email:        email,
		PasswordHash: hash,
	}

	// The unique index still catches a concurrent signup that slipped past the count
	if err := s.db.WithContext(ctx).Create(acc).Error; err != nil {
		return nil, translate("create account", err)
	}

	return acc, nil
}

func (s *GormStore) Update(ctx context.Context, id string, upd AccountUpdate) error {
	fields := map[string]any{}

	if upd.Username != nil {
		fields["username"] = strings.TrimSpace(*upd.Username)
	}

	if upd.Password != nil {
		hash, err := s.hasher.Hash(*upd.Password)
		if err != nil {
			return errs.Internal("hash password", err)
		}

		fields["password_hash"] = hash
	}

	if len(fields) == 0 {
		return nil
	}

	res := s.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate("update account", res.Error)
	}

	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}

	return nil
}

func (s *GormStore) SetResetToken(ctx context.Context, id, token string, expiresAt time.Time) error {
	expiresAt = expiresAt.UTC()

	res := s.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).Updates(map[string]any{
		"reset_token":      token,
		"reset_expires_at": expiresAt,
	})
	if res.Error != nil {
		return translate("store reset token", res.Error)
	}

	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// ConsumeResetToken replaces the password of the account holding token and clears
// the token in one conditional write. Unknown, expired and already used tokens all
// fail with errs.ErrInvalidOrExpiredToken.
func (s *GormStore) ConsumeResetToken(ctx context.Context, token, newPassword string, now time.Time) error {
	if token == "" {
		return errs.ErrInvalidOrExpiredToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return errs.Internal("hash password", err)
	}

	res := s.db.WithContext(ctx).Model(&model.Account{}).
		Where("reset_token = ? AND reset_expires_at > ?", token, now.UTC()).
		Updates(map[string]any{
			"password_hash":    hash,
			"reset_token":      nil,
			"reset_expires_at": nil,
		})
	if res.Error != nil {
		return errs.Internal("consume reset token", res.Error)
	}

	if res.RowsAffected == 0 {
		return errs.ErrInvalidOrExpiredToken
	}

	return nil
}

func (s *GormStore) AppendFootprintRecord(ctx context.Context, id string, rec *model.FootprintRecord) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Account{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return errs.Internal("check account", err)
		}

		if count == 0 {
			return errs.ErrNotFound
		}

		rec.ID = 0
		rec.AccountID = id
		rec.Date = rec.Date.UTC()

		if err := tx.Create(rec).Error; err != nil {
			return errs.Internal("append footprint record", err)
		}

		return nil
	})
}

// History returns the account's records in insertion order
func (s *GormStore) History(ctx context.Context, id string) ([]model.FootprintRecord, error) {
	records := []model.FootprintRecord{}

	err := s.db.WithContext(ctx).Where("account_id = ?", id).Order("id ASC").Find(&records).Error
	if err != nil {
		return nil, errs.Internal("load footprint history", err)
	}

	return records, nil
}

func translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s, %w", op, errs.ErrDuplicateKey)
	}

	return errs.Internal(op, err)
}
