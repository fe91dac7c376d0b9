package usecase

import (
	"context"
	"fmt"
	"log"

	"listing-radar/internal/domain/listing"
	"listing-radar/internal/infrastructure/cache"
	"listing-radar/internal/repository"
)

type MatchListParams struct {
	Limit   int
	Offset  int
	OnlyNew bool
}

type MatchListUsecase interface {
	ListMatches(ctx context.Context, params MatchListParams) ([]listing.Match, error)
	MarkAllSeen(ctx context.Context) error
}

type MatchList struct {
	matches repository.MatchRepository
	cache   *cache.Redis
	logger  *log.Logger
}

func NewMatchListUsecase(matches repository.MatchRepository, c *cache.Redis, logger *log.Logger) *MatchList {
	if logger == nil {
		logger = log.Default()
	}
	return &MatchList{matches: matches, cache: c, logger: logger}
}

func (u *MatchList) ListMatches(ctx context.Context, params MatchListParams) ([]listing.Match, error) {
	limit := params.Limit
	if limit == 0 {
		limit = 50
	}
	if limit < 0 || limit > 200 {
		return nil, ErrInvalidInput
	}
	offset := params.Offset
	if offset < 0 {
		return nil, ErrInvalidInput
	}

	key := matchListCacheKey(limit, offset, params.OnlyNew)
	var cached []listing.Match
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	items, err := u.matches.List(ctx, repository.MatchListFilter{
		Limit:   limit,
		Offset:  offset,
		OnlyNew: params.OnlyNew,
	})
	if err != nil {
		return nil, err
	}

	if err := u.cache.SetJSON(ctx, key, items, 0); err != nil {
		u.logger.Printf("matches=list status=cache_write_failed error=%v", err)
	}
	return items, nil
}

func (u *MatchList) MarkAllSeen(ctx context.Context) error {
	if err := u.matches.MarkAllSeen(ctx); err != nil {
		return err
	}
	if err := u.cache.InvalidateListings(ctx); err != nil {
		u.logger.Printf("matches=mark_seen status=cache_invalidate_failed error=%v", err)
	}
	return nil
}

func matchListCacheKey(limit, offset int, onlyNew bool) string {
	return fmt.Sprintf("matches:list:%d:%d:%t", limit, offset, onlyNew)
}
