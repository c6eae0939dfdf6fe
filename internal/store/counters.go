package store

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/emilythestrangee/social-blog/backend/internal/models"
)

// Counters are plain COUNT(*) queries run on whichever handle the Store
// wraps, so a transaction sees its own writes.

func (s *Store) count(ctx context.Context, model interface{}, cond string, args ...interface{}) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(model).Where(cond, args...).Count(&n).Error
	return n, err
}

func (s *Store) FollowersCount(ctx context.Context, userID int) (int64, error) {
	n, err := s.count(ctx, &models.Follow{}, "following_id = ?", userID)
	return n, wrap("count followers", err)
}

func (s *Store) FollowingCount(ctx context.Context, userID int) (int64, error) {
	n, err := s.count(ctx, &models.Follow{}, "follower_id = ?", userID)
	return n, wrap("count following", err)
}

func (s *Store) PublishedPostsCount(ctx context.Context, authorID int) (int64, error) {
	n, err := s.count(ctx, &models.Post{}, "author_id = ? AND is_published = ?", authorID, true)
	return n, wrap("count posts", err)
}

func (s *Store) PostLikesCount(ctx context.Context, postID int) (int64, error) {
	n, err := s.count(ctx, &models.PostLike{}, "post_id = ?", postID)
	return n, wrap("count post likes", err)
}

// PostCommentsCount counts top-level comments only.
func (s *Store) PostCommentsCount(ctx context.Context, postID int) (int64, error) {
	n, err := s.count(ctx, &models.Comment{}, "post_id = ? AND parent_id IS NULL", postID)
	return n, wrap("count comments", err)
}

func (s *Store) CommentLikesCount(ctx context.Context, commentID int) (int64, error) {
	n, err := s.count(ctx, &models.CommentLike{}, "comment_id = ?", commentID)
	return n, wrap("count comment likes", err)
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followingID int) (bool, error) {
	n, err := s.count(ctx, &models.Follow{}, "follower_id = ? AND following_id = ?", followerID, followingID)
	return n > 0, wrap("check follow", err)
}

func (s *Store) HasLikedPost(ctx context.Context, userID, postID int) (bool, error) {
	n, err := s.count(ctx, &models.PostLike{}, "user_id = ? AND post_id = ?", userID, postID)
	return n > 0, wrap("check post like", err)
}

// PostCounts is the per-post aggregate shown on feed items.
type PostCounts struct {
	Likes         int64
	Comments      int64
	LikedByViewer bool
}

// CommentCounts is the per-comment aggregate shown in threads.
type CommentCounts struct {
	Likes         int64
	LikedByViewer bool
}

type idCount struct {
	ID int   `db:"id"`
	N  int64 `db:"n"`
}

// PostCountsFor computes likes and top-level comment counts for a page of
// posts with one grouped query each, plus one for the viewer's likes when
// viewerID is set.
func (s *Store) PostCountsFor(ctx context.Context, postIDs []int, viewerID int) (map[int]PostCounts, error) {
	out := make(map[int]PostCounts, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	if s.x == nil {
		return nil, ErrNoPool
	}

	likes, err := s.groupCount(ctx,
		`SELECT post_id AS id, COUNT(*) AS n FROM post_likes WHERE post_id IN (?) GROUP BY post_id`, postIDs)
	if err != nil {
		return nil, wrap("count post likes", err)
	}
	comments, err := s.groupCount(ctx,
		`SELECT post_id AS id, COUNT(*) AS n FROM comments WHERE post_id IN (?) AND parent_id IS NULL GROUP BY post_id`, postIDs)
	if err != nil {
		return nil, wrap("count comments", err)
	}

	var liked map[int]bool
	if viewerID != 0 {
		liked, err = s.likedIDs(ctx,
			`SELECT post_id FROM post_likes WHERE user_id = ? AND post_id IN (?)`, viewerID, postIDs)
		if err != nil {
			return nil, wrap("load viewer post likes", err)
		}
	}

	for _, id := range postIDs {
		out[id] = PostCounts{Likes: likes[id], Comments: comments[id], LikedByViewer: liked[id]}
	}
	return out, nil
}

// CommentCountsFor is PostCountsFor for comment likes.
func (s *Store) CommentCountsFor(ctx context.Context, commentIDs []int, viewerID int) (map[int]CommentCounts, error) {
	out := make(map[int]CommentCounts, len(commentIDs))
	if len(commentIDs) == 0 {
		return out, nil
	}
	if s.x == nil {
		return nil, ErrNoPool
	}

	likes, err := s.groupCount(ctx,
		`SELECT comment_id AS id, COUNT(*) AS n FROM comment_likes WHERE comment_id IN (?) GROUP BY comment_id`, commentIDs)
	if err != nil {
		return nil, wrap("count comment likes", err)
	}

	var liked map[int]bool
	if viewerID != 0 {
		liked, err = s.likedIDs(ctx,
			`SELECT comment_id FROM comment_likes WHERE user_id = ? AND comment_id IN (?)`, viewerID, commentIDs)
		if err != nil {
			return nil, wrap("load viewer comment likes", err)
		}
	}

	for _, id := range commentIDs {
		out[id] = CommentCounts{Likes: likes[id], LikedByViewer: liked[id]}
	}
	return out, nil
}

func (s *Store) groupCount(ctx context.Context, query string, ids []int) (map[int]int64, error) {
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return nil, err
	}
	var rows []idCount
	if err := s.x.SelectContext(ctx, &rows, s.x.Rebind(query), args...); err != nil {
		return nil, err
	}
	out := make(map[int]int64, len(rows))
	for _, r := range rows {
		out[r.ID] = r.N
	}
	return out, nil
}

func (s *Store) likedIDs(ctx context.Context, query string, userID int, ids []int) (map[int]bool, error) {
	query, args, err := sqlx.In(query, userID, ids)
	if err != nil {
		return nil, err
	}
	var liked []int
	if err := s.x.SelectContext(ctx, &liked, s.x.Rebind(query), args...); err != nil {
		return nil, err
	}
	out := make(map[int]bool, len(liked))
	for _, id := range liked {
		out[id] = true
	}
	return out, nil
}
