package content

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/database"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

func (s *Service) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return s.store.ListGenres(ctx)
}

// EnsureGenre creates the genre unless one with the same slug exists.
func (s *Service) EnsureGenre(ctx context.Context, name, description string) (*models.Genre, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, apperror.Validation("genre name is required")
	}
	genreSlug := slug.Make(name)

	existing, err := s.store.GenreBySlug(ctx, genreSlug)
	if err == nil {
		return existing, false, nil
	}
	if !database.IsNotFound(err) {
		return nil, false, err
	}

	genre := models.Genre{Name: name, Slug: genreSlug, Description: description}
	if err := s.store.CreateGenre(ctx, &genre); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, false, apperror.Conflict("genre already exists", err)
		}
		return nil, false, err
	}
	return &genre, true, nil
}

// DeleteGenre deletes a genre and every post filed under it, with their
// comments and likes. Posts are not reassigned.
func (s *Service) DeleteGenre(ctx context.Context, genreSlug string) error {
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		genre, err := tx.GenreBySlug(ctx, genreSlug)
		if err != nil {
			return notFound(err, "genre not found")
		}

		postIDs, err := tx.PostIDsByGenre(ctx, genre.ID)
		if err != nil {
			return err
		}
		if err := tx.DeletePosts(ctx, postIDs); err != nil {
			return err
		}
		s.log.Warn("genre deleted with its posts",
			zap.String("genre", genre.Slug), zap.Int("posts", len(postIDs)))
		return tx.DeleteGenre(ctx, genre.ID)
	})
}
