// Package footprint stores and reads the emission history of an account
package footprint

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"greanix/footprint-api/internal/errs"
	"greanix/footprint-api/internal/model"
	"greanix/footprint-api/internal/store"

	"github.com/chenyahui/gin-cache/persist"
	"go.uber.org/zap"
)

// History is what an account's owner sees: the display name plus every record
// in the order it was submitted
type History struct {
	Username string                  `json:"username"`
	Records  []model.FootprintRecord `json:"history"`
}

type Service struct {
	store    store.Store
	cache    persist.CacheStore
	cacheTTL time.Duration
	now      func() time.Time

	// Bumped on every submit. A read only fills the cache if no submit for the
	// account landed while it was loading.
	mu          sync.Mutex
	generations map[string]uint64
}

// NewService creates the service. cache may be nil.
func NewService(s store.Store, cache persist.CacheStore, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	return &Service{
		store:       s,
		cache:       cache,
		cacheTTL:    cacheTTL,
		now:         time.Now,
		generations: make(map[string]uint64),
	}
}

func (s *Service) Submit(ctx context.Context, accountID string, total float64, b model.Breakdown) (*model.FootprintRecord, error) {
	if accountID == "" {
		return nil, errs.Required("accountId")
	}

	checks := []struct {
		field string
		value float64
	}{
		{"totalEmissions", total},
		{"breakdown.homeEnergy", b.HomeEnergy},
		{"breakdown.transportation", b.Transportation},
		{"breakdown.consumption", b.Consumption},
	}

	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return nil, errs.ValidationError{Field: c.field, Msg: "must be a finite number"}
		}

		if c.value < 0 {
			return nil, errs.ValidationError{Field: c.field, Msg: "must not be negative"}
		}
	}

	rec := &model.FootprintRecord{
		Date:           s.now().UTC(),
		TotalEmissions: total,
		Breakdown:      b,
	}

	if err := s.store.AppendFootprintRecord(ctx, accountID, rec); err != nil {
		return nil, err
	}

	s.invalidate(accountID)
	return rec, nil
}

func (s *Service) History(ctx context.Context, accountID string) (*History, error) {
	if accountID == "" {
		return nil, errs.Required("accountId")
	}

	if s.cache != nil {
		var h History
		err := s.cache.Get(cacheKey(accountID), &h)
		if err == nil {
			if h.Records == nil {
				h.Records = []model.FootprintRecord{}
			}
			return &h, nil
		}

		if !errors.Is(err, persist.ErrCacheMiss) {
			zap.L().Warn("Failed to read history cache", zap.Error(err), zap.String("accountID", accountID))
		}
	}

	gen := s.generation(accountID)

	acc, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	records, err := s.store.History(ctx, accountID)
	if err != nil {
		return nil, err
	}

	h := History{Username: acc.Username, Records: records}

	s.fill(accountID, gen, h)

	return &h, nil
}

func (s *Service) generation(accountID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.generations[accountID]
}

func (s *Service) fill(accountID string, gen uint64, h History) {
	if s.cache == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generations[accountID] != gen {
		return
	}

	if err := s.cache.Set(cacheKey(accountID), h, s.cacheTTL); err != nil {
		zap.L().Warn("Failed to fill history cache", zap.Error(err), zap.String("accountID", accountID))
	}
}

func (s *Service) invalidate(accountID string) {
	if s.cache == nil {
		return
	}

	s.mu.Lock()
	s.generations[accountID]++
	s.mu.Unlock()

	// Deleting a key that was never cached is not an error worth reporting
	if err := s.cache.Delete(cacheKey(accountID)); err != nil {
		zap.L().Debug("History cache not invalidated", zap.Error(err), zap.String("accountID", accountID))
	}
}

func cacheKey(accountID string) string {
	return "history:" + accountID
}
