// Package feed assembles the paginated post listings: the global feed, one
// genre, the authors a viewer follows, and a single author's profile.
package feed

import (
	"context"
	"time"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/database"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

type Kind string

const (
	Global    Kind = "global"
	Genre     Kind = "genre"
	Following Kind = "following"
	Profile   Kind = "profile"
)

const (
	DefaultGlobalPageSize    = 6
	DefaultGenrePageSize     = 8
	DefaultFollowingPageSize = 8
	ProfilePageSize          = 10
	MaxPageSize              = 50

	FeaturedCount = 3
	RelatedCount  = 3
)

// Query selects one page of one feed. ViewerID 0 is an anonymous viewer.
type Query struct {
	Kind      Kind
	GenreSlug string
	Username  string
	ViewerID  int
	Page      int
	PageSize  int
}

// Item is a published post with its author, genre and counters.
type Item struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Excerpt        string    `json:"excerpt"`
	Content        string    `json:"content"`
	AuthorID       int       `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	GenreID        int       `json:"genre_id"`
	GenreName      string    `json:"genre_name"`
	GenreSlug      string    `json:"genre_slug"`
	IsPublished    bool      `json:"is_published"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LikesCount     int64     `json:"likes_count"`
	CommentsCount  int64     `json:"comments_count"`
	LikedByViewer  bool      `json:"liked_by_viewer"`
}

type Page struct {
	Items    []Item `json:"items"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Total    int64  `json:"total"`
	HasMore  bool   `json:"has_more"`
}

type Assembler struct {
	store *store.Store
}

func NewAssembler(st *store.Store) *Assembler {
	return &Assembler{store: st}
}

// GetFeed returns one page of the requested feed, newest first.
func (a *Assembler) GetFeed(ctx context.Context, q Query) (*Page, error) {
	if q.Page < 1 {
		return nil, apperror.Validation("page must be 1 or greater")
	}

	filter := store.PostFilter{PublishedOnly: true}
	pageSize := q.PageSize

	switch q.Kind {
	case Global, "":
		pageSize = sizeOr(pageSize, DefaultGlobalPageSize)
	case Genre:
		genre, err := a.store.GenreBySlug(ctx, q.GenreSlug)
		if err != nil {
			return nil, notFound(err, "genre not found")
		}
		filter.GenreID = genre.ID
		pageSize = sizeOr(pageSize, DefaultGenrePageSize)
	case Following:
		if q.ViewerID == 0 {
			return nil, apperror.Unauthorized("login required to see the following feed")
		}
		filter.FollowerID = q.ViewerID
		pageSize = sizeOr(pageSize, DefaultFollowingPageSize)
	case Profile:
		user, err := a.store.UserByUsername(ctx, q.Username)
		if err != nil {
			return nil, notFound(err, "user not found")
		}
		filter.AuthorID = user.ID
		pageSize = ProfilePageSize
	default:
		return nil, apperror.Validation("unknown feed kind " + string(q.Kind))
	}

	total, err := a.store.CountPosts(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &Page{
		Items:    []Item{},
		Page:     q.Page,
		PageSize: pageSize,
		Total:    total,
		HasMore:  int64(q.Page)*int64(pageSize) < total,
	}

	offset := (q.Page - 1) * pageSize
	if int64(offset) >= total {
		return page, nil
	}

	posts, err := a.store.ListPosts(ctx, filter, offset, pageSize)
	if err != nil {
		return nil, err
	}
	page.Items, err = a.Annotate(ctx, posts, q.ViewerID)
	if err != nil {
		return nil, err
	}
	return page, nil
}

// Featured returns the newest published posts shown above the global feed.
func (a *Assembler) Featured(ctx context.Context, viewerID int) ([]Item, error) {
	posts, err := a.store.ListPosts(ctx, store.PostFilter{PublishedOnly: true}, 0, FeaturedCount)
	if err != nil {
		return nil, err
	}
	return a.Annotate(ctx, posts, viewerID)
}

// Related returns the newest published posts of the same genre as post.
func (a *Assembler) Related(ctx context.Context, post *models.Post, viewerID int) ([]Item, error) {
	filter := store.PostFilter{PublishedOnly: true, GenreID: post.GenreID, ExcludeID: post.ID}
	posts, err := a.store.ListPosts(ctx, filter, 0, RelatedCount)
	if err != nil {
		return nil, err
	}
	return a.Annotate(ctx, posts, viewerID)
}

// Annotate attaches counters to posts loaded with their author and genre.
func (a *Assembler) Annotate(ctx context.Context, posts []models.Post, viewerID int) ([]Item, error) {
	ids := make([]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	counts, err := a.store.PostCountsFor(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}

	items := make([]Item, len(posts))
	for i, p := range posts {
		c := counts[p.ID]
		items[i] = Item{
			ID:             p.ID,
			Title:          p.Title,
			Slug:           p.Slug,
			Excerpt:        p.Excerpt,
			Content:        p.Content,
			AuthorID:       p.AuthorID,
			AuthorUsername: p.Author.Username,
			GenreID:        p.GenreID,
			GenreName:      p.Genre.Name,
			GenreSlug:      p.Genre.Slug,
			IsPublished:    p.IsPublished,
			CreatedAt:      p.CreatedAt,
			UpdatedAt:      p.UpdatedAt,
			LikesCount:     c.Likes,
			CommentsCount:  c.Comments,
			LikedByViewer:  c.LikedByViewer,
		}
	}
	return items, nil
}

func sizeOr(size, def int) int {
	if size <= 0 {
		return def
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

func notFound(err error, msg string) error {
	if database.IsNotFound(err) {
		return apperror.NotFound(msg)
	}
	return err
}
