package store

import (
	"context"

	"github.com/emilythestrangee/social-blog/backend/internal/models"
)

func (s *Store) ListGenres(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	err := s.conn(ctx).Order("name ASC").Find(&genres).Error
	return genres, wrap("list genres", err)
}

func (s *Store) GenreBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := s.conn(ctx).Where("slug = ?", slug).First(&genre).Error; err != nil {
		return nil, wrap("get genre", err)
	}
	return &genre, nil
}

func (s *Store) CreateGenre(ctx context.Context, genre *models.Genre) error {
	return wrap("create genre", s.create(ctx, genre))
}

// DeleteGenre removes the genre row only; callers cascade its posts first.
func (s *Store) DeleteGenre(ctx context.Context, id int) error {
	return wrap("delete genre", s.conn(ctx).Delete(&models.Genre{}, id).Error)
}
