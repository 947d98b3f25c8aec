package aiquota

import (
	"context"
	"errors"
)

// Service enforces the per-user monthly AI allowance.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Consume deducts one request from uid's monthly allowance.
// A missing row is created on first use and the request is charged against it.
func (s *Service) Consume(ctx context.Context, uid string) error {
	err := s.store.Consume(ctx, uid)
	if !errors.Is(err, ErrQuotaExceeded) {
		return err
	}

	// Row may be missing: create it, then retry once.
	if err := s.store.EnsureUser(ctx, uid); err != nil {
		return err
	}
	return s.store.Consume(ctx, uid)
}

// Refund returns a request whose AI call failed.
func (s *Service) Refund(ctx context.Context, uid string) error {
	return s.store.Refund(ctx, uid)
}
