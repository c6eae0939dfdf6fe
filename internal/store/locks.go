package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/social-blog/backend/internal/models"
)

// The Lock* finders take a row lock on the target of a toggle, so toggles on
// the same target queue up behind each other instead of racing on the edge
// table. NO KEY UPDATE leaves the KEY SHARE locks taken by foreign-key checks
// alone: A following B while B follows A must not deadlock. SQLite ignores
// the clause; its single writer serialises transactions anyway. Only
// meaningful on a transaction store.

const noKeyUpdate = "NO KEY UPDATE"

func (s *Store) forUpdate(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Clauses(clause.Locking{Strength: noKeyUpdate})
}

func (s *Store) LockUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := s.forUpdate(ctx).First(&user, id).Error; err != nil {
		return nil, wrap("lock user", err)
	}
	return &user, nil
}

func (s *Store) LockPost(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := s.forUpdate(ctx).First(&post, id).Error; err != nil {
		return nil, wrap("lock post", err)
	}
	return &post, nil
}

func (s *Store) LockComment(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	if err := s.forUpdate(ctx).First(&comment, id).Error; err != nil {
		return nil, wrap("lock comment", err)
	}
	return &comment, nil
}
