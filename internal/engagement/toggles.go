package engagement

import (
	"context"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/events"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

type FollowState string

const (
	Followed   FollowState = "followed"
	Unfollowed FollowState = "unfollowed"
)

type LikeState string

const (
	Liked   LikeState = "liked"
	Unliked LikeState = "unliked"
)

type FollowResult struct {
	State          FollowState `json:"state"`
	FollowersCount int64       `json:"followers_count"`
}

type LikeResult struct {
	State      LikeState `json:"state"`
	LikesCount int64     `json:"likes_count"`
}

// ToggleFollow makes followerID follow targetID, or stop following it.
// The returned count is read in the same transaction as the change.
func (s *Service) ToggleFollow(ctx context.Context, followerID, targetID int) (*FollowResult, error) {
	if followerID == 0 {
		return nil, apperror.Unauthorized("login required")
	}
	if followerID == targetID {
		return nil, apperror.InvalidOperation("cannot follow self")
	}

	var res FollowResult
	err := s.toggle(ctx, "toggle follow", func(tx *store.Store) error {
		if _, err := tx.LockUser(ctx, targetID); err != nil {
			return notFound(err, "user not found")
		}

		on, err := tx.ToggleFollow(ctx, followerID, targetID)
		if err != nil {
			return err
		}
		n, err := tx.FollowersCount(ctx, targetID)
		if err != nil {
			return err
		}

		res = FollowResult{State: Unfollowed, FollowersCount: n}
		if on {
			res.State = Followed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	subject := events.UserUnfollowed
	if res.State == Followed {
		subject = events.UserFollowed
	}
	ev := events.New(subject, followerID, targetID)
	ev.Count = res.FollowersCount
	s.publish(ctx, ev)

	return &res, nil
}

// TogglePostLike likes or unlikes a post. Authors may like their own posts.
// Comments and likes on a draft are hidden from everyone but its author.
func (s *Service) TogglePostLike(ctx context.Context, userID, postID int) (*LikeResult, error) {
	if userID == 0 {
		return nil, apperror.Unauthorized("login required")
	}

	var res LikeResult
	err := s.toggle(ctx, "toggle post like", func(tx *store.Store) error {
		post, err := tx.LockPost(ctx, postID)
		if err != nil {
			return notFound(err, "post not found")
		}
		if !post.IsPublished && post.AuthorID != userID {
			return apperror.NotFound("post not found")
		}

		on, err := tx.TogglePostLike(ctx, userID, postID)
		if err != nil {
			return err
		}
		n, err := tx.PostLikesCount(ctx, postID)
		if err != nil {
			return err
		}

		res = likeResult(on, n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, likeEvent(res, events.PostLiked, events.PostUnliked, userID, postID))
	return &res, nil
}

func (s *Service) ToggleCommentLike(ctx context.Context, userID, commentID int) (*LikeResult, error) {
	if userID == 0 {
		return nil, apperror.Unauthorized("login required")
	}

	var res LikeResult
	err := s.toggle(ctx, "toggle comment like", func(tx *store.Store) error {
		comment, err := tx.LockComment(ctx, commentID)
		if err != nil {
			return notFound(err, "comment not found")
		}
		post, err := tx.PostByID(ctx, comment.PostID)
		if err != nil {
			return notFound(err, "comment not found")
		}
		if !post.IsPublished && post.AuthorID != userID {
			return apperror.NotFound("comment not found")
		}

		on, err := tx.ToggleCommentLike(ctx, userID, commentID)
		if err != nil {
			return err
		}
		n, err := tx.CommentLikesCount(ctx, commentID)
		if err != nil {
			return err
		}

		res = likeResult(on, n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, likeEvent(res, events.CommentLiked, events.CommentUnliked, userID, commentID))
	return &res, nil
}

func likeResult(on bool, count int64) LikeResult {
	if on {
		return LikeResult{State: Liked, LikesCount: count}
	}
	return LikeResult{State: Unliked, LikesCount: count}
}

func likeEvent(res LikeResult, liked, unliked string, userID, targetID int) events.Event {
	subject := unliked
	if res.State == Liked {
		subject = liked
	}
	ev := events.New(subject, userID, targetID)
	ev.Count = res.LikesCount
	return ev
}
