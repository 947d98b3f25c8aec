package aiquota

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store handles ai_quota persistence.
type Store struct {
	db    DB
	quota int
	now   func() time.Time
}

// NewStore returns a Store granting quota requests per month. quota <= 0 uses DefaultMonthlyQuota.
func NewStore(db DB, quota int) *Store {
	if quota <= 0 {
		quota = DefaultMonthlyQuota
	}
	return &Store{db: db, quota: quota, now: time.Now}
}

func (s *Store) period() string {
	return s.now().Format(periodLayout)
}

// Consume atomically checks the monthly allowance and deducts one request.
// The counter is reset to the full quota when period is behind the current month.
// Returns ErrQuotaExceeded when no row is updated (quota exhausted or user absent).
func (s *Store) Consume(ctx context.Context, uid string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE ai_quota SET
			requests_remaining = CASE WHEN period != $1 THEN $2 - 1 ELSE requests_remaining - 1 END,
			period = $1
		WHERE uid = $3 AND (period < $1 OR requests_remaining > 0)
	`, s.period(), s.quota, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// EnsureUser inserts a row for uid with the full allowance. Existing rows are left untouched.
func (s *Store) EnsureUser(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ai_quota (uid, requests_remaining, period)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, s.quota, s.period())
	return err
}

// Refund gives back one request charged in the current period, never above the quota.
func (s *Store) Refund(ctx context.Context, uid string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE ai_quota SET requests_remaining = LEAST(requests_remaining + 1, $2)
		WHERE uid = $3 AND period = $1
	`, s.period(), s.quota, uid)
	return err
}
