package store

import (
	"context"

	"github.com/emilythestrangee/social-blog/backend/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return wrap("create user", s.create(ctx, user))
}

func (s *Store) UserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).First(&user, id).Error; err != nil {
		return nil, wrap("get user", err)
	}
	return &user, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, wrap("get user by username", err)
	}
	return &user, nil
}

// Followers lists the users following userID, most recent follow first.
func (s *Store) Followers(ctx context.Context, userID, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := s.conn(ctx).Select("users.*").
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", userID).
		Order("follows.created_at DESC").Order("follows.id DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, wrap("list followers", err)
}

// Following lists the users userID follows, most recent follow first.
func (s *Store) Following(ctx context.Context, userID, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := s.conn(ctx).Select("users.*").
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC").Order("follows.id DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, wrap("list following", err)
}

func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	return wrap("save user", s.save(ctx, user))
}
