package contact

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/outreach/internal/domain"
)

// Service implements contact business logic: validation, email
// normalization, and duplicate detection on top of the repository.
type Service struct {
	repo Repository
}

// NewService creates a contact service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns contacts matching the filter.
func (s *Service) List(ctx context.Context, f ListFilter) ([]domain.Contact, error) {
	return s.repo.List(ctx, f)
}

// Get returns a single contact.
func (s *Service) Get(ctx context.Context, id string) (*domain.Contact, error) {
	return s.repo.Get(ctx, id)
}

// GetByEmail returns the contact with the given email, case-insensitively.
func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.Contact, error) {
	return s.repo.GetByEmail(ctx, NormalizeEmail(email))
}

// Create validates and persists a new contact in status new. Email is
// lowercased; a non-empty email must be unique.
func (s *Service) Create(ctx context.Context, c *domain.Contact) (*domain.Contact, error) {
	if strings.TrimSpace(c.Company) == "" {
		return nil, ErrCompanyMissing
	}
	c.Email = NormalizeEmail(c.Email)
	if c.Email != "" {
		if _, err := s.repo.GetByEmail(ctx, c.Email); err == nil {
			return nil, ErrDuplicateEmail
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = domain.ContactNew
	}

	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	c.ID = id
	return c, nil
}

// Upsert creates the contact, or returns the existing one when a contact
// with the same email already exists. Used by CSV import.
func (s *Service) Upsert(ctx context.Context, c *domain.Contact) (*domain.Contact, bool, error) {
	created, err := s.Create(ctx, c)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, ErrDuplicateEmail) {
		return nil, false, err
	}
	existing, err := s.repo.GetByEmail(ctx, NormalizeEmail(c.Email))
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// Update persists a mutated contact.
func (s *Service) Update(ctx context.Context, c *domain.Contact) error {
	if strings.TrimSpace(c.Company) == "" {
		return ErrCompanyMissing
	}
	c.Email = NormalizeEmail(c.Email)
	return s.repo.Update(ctx, c)
}

// ListDueFollowups returns contacts due for their next follow-up at now.
func (s *Service) ListDueFollowups(ctx context.Context, now time.Time, limit int) ([]domain.Contact, error) {
	return s.repo.ListDueFollowups(ctx, now, limit)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
