package usecase

import (
	"context"
	"errors"
	"testing"

	"listing-radar/internal/domain/listing"
	"listing-radar/internal/repository"

	"github.com/google/uuid"
)

type recordingTermRepo struct {
	stubTermRepo
	createdTerm     string
	createdMode     listing.MatchMode
	createdExcludes []string
	setActiveErr    error
	deleteErr       error
}

func (r *recordingTermRepo) Create(_ context.Context, term string, mode listing.MatchMode, excludes []string) (listing.SearchTerm, error) {
	r.createdTerm = term
	r.createdMode = mode
	r.createdExcludes = excludes
	return listing.SearchTerm{ID: uuid.New(), Term: term, Mode: mode, ExcludeTerms: excludes, IsActive: true}, nil
}

func (r *recordingTermRepo) SetActive(context.Context, uuid.UUID, bool) error { return r.setActiveErr }
func (r *recordingTermRepo) Delete(context.Context, uuid.UUID) error          { return r.deleteErr }

func TestSearchTermUsecase_CreateValidation(t *testing.T) {
	uc := NewSearchTermUsecase(&recordingTermRepo{}, nil, nil)

	if _, err := uc.CreateTerm(context.Background(), CreateSearchTermParams{Term: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank term, got %v", err)
	}
	if _, err := uc.CreateTerm(context.Background(), CreateSearchTermParams{Term: "x", Mode: "fuzzy"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown mode, got %v", err)
	}
}

func TestSearchTermUsecase_CreateNormalizesInput(t *testing.T) {
	repo := &recordingTermRepo{}
	uc := NewSearchTermUsecase(repo, nil, nil)

	created, err := uc.CreateTerm(context.Background(), CreateSearchTermParams{
		Term:         "  Leica M6  ",
		Mode:         "Partial",
		ExcludeTerms: []string{" defekt ", "", "Bastler"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.createdTerm != "Leica M6" {
		t.Fatalf("expected trimmed term, got %q", repo.createdTerm)
	}
	if repo.createdMode != listing.MatchModePartial {
		t.Fatalf("expected partial mode, got %s", repo.createdMode)
	}
	if len(repo.createdExcludes) != 2 {
		t.Fatalf("expected 2 cleaned excludes, got %v", repo.createdExcludes)
	}
	if created.Term != "Leica M6" {
		t.Fatalf("unexpected created term: %+v", created)
	}
}

func TestSearchTermUsecase_DefaultModeIsExact(t *testing.T) {
	repo := &recordingTermRepo{}
	uc := NewSearchTermUsecase(repo, nil, nil)

	if _, err := uc.CreateTerm(context.Background(), CreateSearchTermParams{Term: "K31"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.createdMode != listing.MatchModeExact {
		t.Fatalf("expected exact default, got %s", repo.createdMode)
	}
}

func TestSearchTermUsecase_NotFoundMapping(t *testing.T) {
	repo := &recordingTermRepo{setActiveErr: repository.ErrNotFound, deleteErr: repository.ErrNotFound}
	uc := NewSearchTermUsecase(repo, nil, nil)

	if err := uc.SetActive(context.Background(), uuid.New(), true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := uc.DeleteTerm(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := uc.SetActive(context.Background(), uuid.Nil, true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil id, got %v", err)
	}
}
