package store

import (
	"context"
	"errors"

	"github.com/emilythestrangee/social-blog/backend/internal/database"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
)

// ErrEdgeVanished means the edge seen by the existence check was deleted by
// someone else before this toggle could delete it. The toggle should rerun.
var ErrEdgeVanished = errors.New("store: edge removed concurrently")

// ToggleFollow removes the follow edge if present, otherwise creates it.
// It reports whether the edge exists afterwards.
func (s *Store) ToggleFollow(ctx context.Context, followerID, followingID int) (bool, error) {
	return s.toggleEdge(ctx, &models.Follow{},
		"follower_id = ? AND following_id = ?", []interface{}{followerID, followingID},
		&models.Follow{FollowerID: followerID, FollowingID: followingID})
}

func (s *Store) TogglePostLike(ctx context.Context, userID, postID int) (bool, error) {
	return s.toggleEdge(ctx, &models.PostLike{},
		"user_id = ? AND post_id = ?", []interface{}{userID, postID},
		&models.PostLike{UserID: userID, PostID: postID})
}

func (s *Store) ToggleCommentLike(ctx context.Context, userID, commentID int) (bool, error) {
	return s.toggleEdge(ctx, &models.CommentLike{},
		"user_id = ? AND comment_id = ?", []interface{}{userID, commentID},
		&models.CommentLike{UserID: userID, CommentID: commentID})
}

// toggleEdge is the two-state transition shared by follows and likes. An
// insert that loses a race surfaces the driver's unique violation; the
// caller decides whether to retry.
func (s *Store) toggleEdge(ctx context.Context, model interface{}, cond string, args []interface{}, row interface{}) (bool, error) {
	db := s.conn(ctx)

	var ids []int
	if err := db.Model(model).Where(cond, args...).Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, wrap("look up edge", err)
	}

	if len(ids) > 0 {
		res := db.Where("id = ?", ids[0]).Delete(model)
		if res.Error != nil {
			return false, wrap("delete edge", res.Error)
		}
		if res.RowsAffected == 0 {
			return false, ErrEdgeVanished
		}
		return false, nil
	}

	if err := s.create(ctx, row); err != nil {
		return false, wrap("insert edge", err)
	}
	return true, nil
}

// IsRaceLost reports whether a toggle failure came from a concurrent toggle
// on the same pair.
func IsRaceLost(err error) bool {
	return errors.Is(err, ErrEdgeVanished) || database.IsUniqueViolation(err)
}
