package usecase

import (
	"context"
	"errors"
	"log"

	"listing-radar/internal/domain/listing"
	"listing-radar/internal/infrastructure/cache"
	"listing-radar/internal/repository"

	"github.com/google/uuid"
)

type SourceUsecase interface {
	ListSources(ctx context.Context) ([]listing.Source, error)
	SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error
}

type Source struct {
	sources repository.SourceRepository
	cache   *cache.Redis
	logger  *log.Logger
}

func NewSourceUsecase(sources repository.SourceRepository, c *cache.Redis, logger *log.Logger) *Source {
	if logger == nil {
		logger = log.Default()
	}
	return &Source{sources: sources, cache: c, logger: logger}
}

func (u *Source) ListSources(ctx context.Context) ([]listing.Source, error) {
	return u.sources.List(ctx)
}

func (u *Source) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.sources.SetEnabled(ctx, id, enabled); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := u.cache.InvalidateListings(ctx); err != nil {
		u.logger.Printf("sources=set_enabled status=cache_invalidate_failed error=%v", err)
	}
	return nil
}
