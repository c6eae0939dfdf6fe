package engagement

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/events"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

const maxCommentRunes = 5000

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperror.Validation("comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentRunes {
		return "", apperror.Validation("comment content is too long")
	}
	return content, nil
}

// AddComment stores a comment on postID, as a reply when parentID is set.
// A reply records the top-level comment of its thread as RootID.
func (s *Service) AddComment(ctx context.Context, postID, authorID int, content string, parentID *int) (*models.Comment, error) {
	if authorID == 0 {
		return nil, apperror.Unauthorized("login required")
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{PostID: postID, AuthorID: authorID, Content: content}
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		post, err := tx.PostByID(ctx, postID)
		if err != nil {
			return notFound(err, "post not found")
		}
		if !post.IsPublished && post.AuthorID != authorID {
			return apperror.NotFound("post not found")
		}

		if parentID != nil {
			parent, err := tx.CommentByID(ctx, *parentID)
			if err != nil {
				return notFound(err, "parent comment not found")
			}
			if parent.PostID != postID {
				return apperror.InvalidOperation("reply must belong to the same post as its parent")
			}
			root := parent.ID
			if parent.RootID != nil {
				root = *parent.RootID
			}
			comment.ParentID = &parent.ID
			comment.RootID = &root
		}

		return tx.CreateComment(ctx, &comment)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.New(events.CommentAdded, authorID, comment.ID))
	return &comment, nil
}

// UpdateComment replaces the text of a comment. Only its author may edit it.
func (s *Service) UpdateComment(ctx context.Context, actorID, commentID int, content string) (*models.Comment, error) {
	if actorID == 0 {
		return nil, apperror.Unauthorized("login required")
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}

	var comment *models.Comment
	err = s.store.WithTx(ctx, func(tx *store.Store) error {
		c, err := tx.CommentByID(ctx, commentID)
		if err != nil {
			return notFound(err, "comment not found")
		}
		if c.AuthorID != actorID {
			return apperror.Forbidden("only the author can edit this comment")
		}

		c.Content = content
		if err := tx.SaveComment(ctx, c); err != nil {
			return err
		}
		comment = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment together with its replies at every depth
// and all of their likes.
func (s *Service) DeleteComment(ctx context.Context, actorID, commentID int) error {
	if actorID == 0 {
		return apperror.Unauthorized("login required")
	}

	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		c, err := tx.CommentByID(ctx, commentID)
		if err != nil {
			return notFound(err, "comment not found")
		}
		if c.AuthorID != actorID {
			return apperror.Forbidden("only the author can delete this comment")
		}

		ids, err := tx.DescendantIDs(ctx, commentID)
		if err != nil {
			return err
		}
		return tx.DeleteComments(ctx, ids)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.New(events.CommentDeleted, actorID, commentID))
	return nil
}
