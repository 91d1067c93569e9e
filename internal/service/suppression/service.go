package suppression

import (
	"context"
	"strings"

	"github.com/ignite/outreach/internal/domain"
)

// Service implements do-not-contact list logic. Safe for concurrent use.
type Service struct {
	repo Repository
}

// NewService creates a suppression service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// IsSuppressed checks whether an email address is blocked from sending.
func (s *Service) IsSuppressed(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	return s.repo.IsSuppressed(ctx, email)
}

// Suppress adds an email to the list. Idempotent.
func (s *Service) Suppress(ctx context.Context, email string, reason domain.SuppressionReason, source string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrEmailMissing
	}
	return s.repo.Suppress(ctx, &domain.Suppression{
		Email:  email,
		Reason: reason,
		Source: source,
		Active: true,
	})
}

// Remove deactivates a suppression entry.
func (s *Service) Remove(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrEmailMissing
	}
	return s.repo.Remove(ctx, email)
}

// List returns active entries matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Suppression, error) {
	return s.repo.List(ctx, f)
}

// Stats is the by-reason breakdown of the active list.
type Stats struct {
	Total    int            `json:"total"`
	ByReason map[string]int `json:"by_reason"`
}

// GetStats computes list statistics for reporting.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	entries, err := s.repo.List(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}
	stats := &Stats{Total: len(entries), ByReason: make(map[string]int)}
	for _, e := range entries {
		stats.ByReason[string(e.Reason)]++
	}
	return stats, nil
}
