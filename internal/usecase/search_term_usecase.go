package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"listing-radar/internal/domain/listing"
	"listing-radar/internal/infrastructure/cache"
	"listing-radar/internal/repository"

	"github.com/google/uuid"
)

type CreateSearchTermParams struct {
	Term         string
	Mode         string
	ExcludeTerms []string
}

type SearchTermUsecase interface {
	ListTerms(ctx context.Context) ([]listing.SearchTerm, error)
	CreateTerm(ctx context.Context, params CreateSearchTermParams) (listing.SearchTerm, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteTerm(ctx context.Context, id uuid.UUID) error
}

type SearchTerm struct {
	terms  repository.SearchTermRepository
	cache  *cache.Redis
	logger *log.Logger
}

func NewSearchTermUsecase(terms repository.SearchTermRepository, c *cache.Redis, logger *log.Logger) *SearchTerm {
	if logger == nil {
		logger = log.Default()
	}
	return &SearchTerm{terms: terms, cache: c, logger: logger}
}

func (u *SearchTerm) ListTerms(ctx context.Context) ([]listing.SearchTerm, error) {
	return u.terms.List(ctx)
}

func (u *SearchTerm) CreateTerm(ctx context.Context, params CreateSearchTermParams) (listing.SearchTerm, error) {
	term := strings.TrimSpace(params.Term)
	if term == "" {
		return listing.SearchTerm{}, ErrInvalidInput
	}

	mode := listing.MatchModeExact
	switch strings.ToLower(strings.TrimSpace(params.Mode)) {
	case "", string(listing.MatchModeExact):
	case string(listing.MatchModePartial):
		mode = listing.MatchModePartial
	default:
		return listing.SearchTerm{}, ErrInvalidInput
	}

	excludes := make([]string, 0, len(params.ExcludeTerms))
	for _, ex := range params.ExcludeTerms {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		excludes = append(excludes, ex)
	}

	created, err := u.terms.Create(ctx, term, mode, excludes)
	if err != nil {
		return listing.SearchTerm{}, err
	}
	u.invalidate(ctx, "create")
	return created, nil
}

func (u *SearchTerm) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.terms.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	u.invalidate(ctx, "set_active")
	return nil
}

func (u *SearchTerm) DeleteTerm(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.terms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	u.invalidate(ctx, "delete")
	return nil
}

func (u *SearchTerm) invalidate(ctx context.Context, op string) {
	if err := u.cache.InvalidateListings(ctx); err != nil {
		u.logger.Printf("search_terms=%s status=cache_invalidate_failed error=%v", op, err)
	}
}
