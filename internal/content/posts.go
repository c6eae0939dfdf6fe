package content

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/database"
	"github.com/emilythestrangee/social-blog/backend/internal/engagement"
	"github.com/emilythestrangee/social-blog/backend/internal/events"
	"github.com/emilythestrangee/social-blog/backend/internal/feed"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

const (
	maxTitleRunes   = 200
	excerptRunes    = 200
	maxSlugAttempts = 50
)

// PostDetail is the post page: the post, its thread and related posts.
type PostDetail struct {
	Post     feed.Item                 `json:"post"`
	Comments []*engagement.CommentNode `json:"comments"`
	Related  []feed.Item               `json:"related"`
}

// Excerpt returns the first 200 runes of content, with an ellipsis when it
// was cut.
func Excerpt(content string) string {
	content = strings.TrimSpace(content)
	if utf8.RuneCountInString(content) <= excerptRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:excerptRunes]) + "..."
}

// ResolvePost finds a post by slug. Drafts are only visible to their author.
func (s *Service) ResolvePost(ctx context.Context, postSlug string, viewerID int) (*models.Post, error) {
	post, err := s.store.PostBySlug(ctx, postSlug)
	if err != nil {
		return nil, notFound(err, "post not found")
	}
	if !post.IsPublished && post.AuthorID != viewerID {
		return nil, apperror.NotFound("post not found")
	}
	return post, nil
}

// GetPost returns the detail view of a post for viewerID (0 if anonymous).
func (s *Service) GetPost(ctx context.Context, postSlug string, viewerID int) (*PostDetail, error) {
	post, err := s.ResolvePost(ctx, postSlug, viewerID)
	if err != nil {
		return nil, err
	}

	items, err := s.feed.Annotate(ctx, []models.Post{*post}, viewerID)
	if err != nil {
		return nil, err
	}
	comments, err := s.threads.Thread(ctx, post.ID, viewerID)
	if err != nil {
		return nil, err
	}
	related, err := s.feed.Related(ctx, post, viewerID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{Post: items[0], Comments: comments, Related: related}, nil
}

func (s *Service) CreatePost(ctx context.Context, authorID int, req models.CreatePostRequest) (*models.Post, error) {
	if authorID == 0 {
		return nil, apperror.Unauthorized("login required")
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if err := validatePost(title, content); err != nil {
		return nil, err
	}

	post := models.Post{
		Title:       title,
		Content:     content,
		Excerpt:     strings.TrimSpace(req.Excerpt),
		AuthorID:    authorID,
		IsPublished: true,
	}
	if post.Excerpt == "" {
		post.Excerpt = Excerpt(content)
	}
	if req.IsPublished != nil {
		post.IsPublished = *req.IsPublished
	}

	base := req.Slug
	if strings.TrimSpace(base) == "" {
		base = title
	}

	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.UserByID(ctx, authorID); err != nil {
			return notFound(err, "author not found")
		}
		genre, err := tx.GenreBySlug(ctx, req.GenreSlug)
		if err != nil {
			return notFound(err, "genre not found")
		}
		post.GenreID = genre.ID

		post.Slug, err = uniqueSlug(ctx, tx, base)
		if err != nil {
			return err
		}
		return tx.CreatePost(ctx, &post)
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.Conflict("slug already taken, try again", err)
		}
		return nil, err
	}
	return &post, nil
}

// UpdatePost applies the non-nil fields of req. The slug never changes so
// existing links keep working.
func (s *Service) UpdatePost(ctx context.Context, actorID int, postSlug string, req models.UpdatePostRequest) (*models.Post, error) {
	if actorID == 0 {
		return nil, apperror.Unauthorized("login required")
	}

	var post *models.Post
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		p, err := tx.PostBySlug(ctx, postSlug)
		if err != nil {
			return notFound(err, "post not found")
		}
		if p.AuthorID != actorID {
			if !p.IsPublished {
				return apperror.NotFound("post not found")
			}
			return apperror.Forbidden("only the author can edit this post")
		}

		if req.Title != nil {
			p.Title = strings.TrimSpace(*req.Title)
		}
		if req.Content != nil {
			p.Content = strings.TrimSpace(*req.Content)
			if req.Excerpt == nil {
				p.Excerpt = Excerpt(p.Content)
			}
		}
		if req.Excerpt != nil {
			p.Excerpt = strings.TrimSpace(*req.Excerpt)
			if p.Excerpt == "" {
				p.Excerpt = Excerpt(p.Content)
			}
		}
		if req.IsPublished != nil {
			p.IsPublished = *req.IsPublished
		}
		if err := validatePost(p.Title, p.Content); err != nil {
			return err
		}
		if req.GenreSlug != nil {
			genre, err := tx.GenreBySlug(ctx, *req.GenreSlug)
			if err != nil {
				return notFound(err, "genre not found")
			}
			p.GenreID = genre.ID
			p.Genre = *genre
		}

		if err := tx.SavePost(ctx, p); err != nil {
			return err
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes a post with all its comments, replies and likes.
func (s *Service) DeletePost(ctx context.Context, actorID int, postSlug string) error {
	if actorID == 0 {
		return apperror.Unauthorized("login required")
	}

	var postID int
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		p, err := tx.PostBySlug(ctx, postSlug)
		if err != nil {
			return notFound(err, "post not found")
		}
		if p.AuthorID != actorID {
			if !p.IsPublished {
				return apperror.NotFound("post not found")
			}
			return apperror.Forbidden("only the author can delete this post")
		}
		postID = p.ID
		return tx.DeletePosts(ctx, []int{p.ID})
	})
	if err != nil {
		return err
	}

	s.publish(ctx, events.New(events.PostDeleted, actorID, postID))
	return nil
}

func validatePost(title, content string) error {
	if title == "" {
		return apperror.Validation("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		return apperror.Validation("title is too long")
	}
	if content == "" {
		return apperror.Validation("content is required")
	}
	return nil
}

// uniqueSlug slugifies base and appends -2, -3... until the slug is free.
func uniqueSlug(ctx context.Context, tx *store.Store, base string) (string, error) {
	root := slug.Make(base)
	if root == "" {
		root = "post"
	}
	if len(root) > maxTitleRunes-4 {
		root = strings.TrimRight(root[:maxTitleRunes-4], "-")
	}

	candidate := root
	for n := 2; n <= maxSlugAttempts+1; n++ {
		taken, err := tx.SlugTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", root, n)
	}
	return "", apperror.Conflict("could not find a free slug for "+root, nil)
}
