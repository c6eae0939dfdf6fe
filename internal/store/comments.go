package store

import (
	"context"

	"github.com/emilythestrangee/social-blog/backend/internal/models"
)

func (s *Store) CreateComment(ctx context.Context, comment *models.Comment) error {
	return wrap("create comment", s.create(ctx, comment))
}

func (s *Store) SaveComment(ctx context.Context, comment *models.Comment) error {
	return wrap("save comment", s.save(ctx, comment))
}

func (s *Store) CommentByID(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	if err := s.conn(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, wrap("get comment", err)
	}
	return &comment, nil
}

// TopLevelComments returns the comments of a post that answer no other
// comment, oldest first.
func (s *Store) TopLevelComments(ctx context.Context, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.conn(ctx).Preload("Author").
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&comments).Error
	return comments, wrap("list top-level comments", err)
}

// RepliesByRootIDs fetches every reply below the given top-level comments in
// one query, grouped by root id and ordered oldest first.
func (s *Store) RepliesByRootIDs(ctx context.Context, rootIDs []int) (map[int][]models.Comment, error) {
	out := make(map[int][]models.Comment, len(rootIDs))
	if len(rootIDs) == 0 {
		return out, nil
	}

	var replies []models.Comment
	err := s.conn(ctx).Preload("Author").
		Where("root_id IN ?", rootIDs).
		Order("created_at ASC").Order("id ASC").
		Find(&replies).Error
	if err != nil {
		return nil, wrap("list replies", err)
	}
	for _, r := range replies {
		out[*r.RootID] = append(out[*r.RootID], r)
	}
	return out, nil
}

// DescendantIDs walks the parent links breadth first and returns id plus
// every comment below it.
func (s *Store) DescendantIDs(ctx context.Context, id int) ([]int, error) {
	all := []int{id}
	frontier := []int{id}
	for len(frontier) > 0 {
		var next []int
		err := s.conn(ctx).Model(&models.Comment{}).
			Where("parent_id IN ?", frontier).
			Pluck("id", &next).Error
		if err != nil {
			return nil, wrap("list child comments", err)
		}
		all = append(all, next...)
		frontier = next
	}
	return all, nil
}

// DeleteComments removes the comments and their likes.
func (s *Store) DeleteComments(ctx context.Context, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	db := s.conn(ctx)
	if err := db.Where("comment_id IN ?", ids).Delete(&models.CommentLike{}).Error; err != nil {
		return wrap("delete comment likes", err)
	}
	if err := db.Where("id IN ?", ids).Delete(&models.Comment{}).Error; err != nil {
		return wrap("delete comments", err)
	}
	return nil
}
