// Package account implements signup, login and password reset
package account

import (
	"context"
	"errors"
	"strings"
	"sync"

	"greanix/footprint-api/internal/errs"
	"greanix/footprint-api/internal/model"
	"greanix/footprint-api/internal/store"
	"greanix/footprint-api/pkg/security"
	"greanix/footprint-api/pkg/validators"

	"go.uber.org/zap"
)

type Service struct {
	store          store.Store
	hasher         security.Hasher
	resets         *ResetManager
	maxPasswordLen int

	dummyOnce   sync.Once
	dummyDigest string
}

// NewService creates the service. maxPasswordLen is lowered to whatever the
// hasher can take, so oversized passwords fail validation instead of hashing.
func NewService(s store.Store, h security.Hasher, r *ResetManager, maxPasswordLen int) *Service {
	if limit := security.MaxSecretLength(h); limit > 0 && (maxPasswordLen <= 0 || maxPasswordLen > limit) {
		maxPasswordLen = limit
	}

	return &Service{
		store:          s,
		hasher:         h,
		resets:         r,
		maxPasswordLen: maxPasswordLen,
	}
}

func (s *Service) Signup(ctx context.Context, username, email, password string) (*model.Account, error) {
	if err := validators.UsernameValidator(username); err != nil {
		return nil, errs.ValidationError{Field: "username", Msg: err.Error()}
	}

	if err := validators.EmailValidator(email); err != nil {
		return nil, errs.ValidationError{Field: "email", Msg: err.Error()}
	}

	if err := validators.PasswordValidator(password, s.maxPasswordLen); err != nil {
		return nil, errs.ValidationError{Field: "password", Msg: err.Error()}
	}

	return s.store.Create(ctx, store.AccountDraft{
		Username: username,
		Email:    email,
		Password: password,
	})
}

// Login returns the account matching the credentials. Unknown emails and wrong
// passwords both yield errs.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*model.Account, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, errs.ErrInvalidCredentials
	}

	acc, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.burnVerify(password)
			return nil, errs.ErrInvalidCredentials
		}

		return nil, err
	}

	ok, err := s.hasher.Verify(password, acc.PasswordHash)
	if err != nil {
		return nil, errs.Internal("verify password", err)
	}

	if !ok {
		return nil, errs.ErrInvalidCredentials
	}

	return acc, nil
}

// RequestPasswordReset never reports whether email belongs to an account. Any
// failure is logged and swallowed.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) {
	acc, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			zap.L().Error("Failed to look up account for password reset", zap.Error(err))
		}
		return
	}

	if err := s.resets.Request(ctx, acc); err != nil {
		zap.L().Error("Failed to issue password reset", zap.Error(err), zap.String("accountID", acc.ID))
	}
}

func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return errs.ErrInvalidOrExpiredToken
	}

	if err := validators.PasswordValidator(newPassword, s.maxPasswordLen); err != nil {
		return errs.ValidationError{Field: "password", Msg: err.Error()}
	}

	return s.resets.Consume(ctx, token, newPassword)
}

// burnVerify runs a verification against a throwaway digest so a login for an
// unknown email costs about as much as one with a wrong password
func (s *Service) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		d, err := s.hasher.Hash("greanix-dummy-password")
		if err != nil {
			zap.L().Warn("Failed to prepare dummy digest", zap.Error(err))
			return
		}
		s.dummyDigest = d
	})

	if s.dummyDigest != "" {
		_, _ = s.hasher.Verify(password, s.dummyDigest)
	}
}
