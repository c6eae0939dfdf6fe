package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/emilythestrangee/social-blog/backend/internal/models"
)

// PostFilter narrows a post listing. Zero fields do not filter.
type PostFilter struct {
	PublishedOnly bool
	GenreID       int
	AuthorID      int
	// FollowerID keeps posts whose author is followed by this user.
	FollowerID int
	ExcludeID  int
}

func (s *Store) CreatePost(ctx context.Context, post *models.Post) error {
	return wrap("create post", s.create(ctx, post))
}

func (s *Store) SavePost(ctx context.Context, post *models.Post) error {
	return wrap("save post", s.save(ctx, post))
}

func (s *Store) PostByID(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := s.conn(ctx).First(&post, id).Error; err != nil {
		return nil, wrap("get post", err)
	}
	return &post, nil
}

// PostBySlug loads a post with its author and genre.
func (s *Store) PostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := s.conn(ctx).Preload("Author").Preload("Genre").
		Where("slug = ?", slug).First(&post).Error
	if err != nil {
		return nil, wrap("get post by slug", err)
	}
	return &post, nil
}

func (s *Store) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Post{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, wrap("check slug", err)
}

// ListPosts returns one window of posts, newest first with id as tiebreak.
func (s *Store) ListPosts(ctx context.Context, f PostFilter, offset, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.filtered(ctx, f).
		Preload("Author").Preload("Genre").
		Order("posts.created_at DESC").Order("posts.id DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error
	return posts, wrap("list posts", err)
}

func (s *Store) CountPosts(ctx context.Context, f PostFilter) (int64, error) {
	var n int64
	err := s.filtered(ctx, f).Count(&n).Error
	return n, wrap("count posts", err)
}

func (s *Store) filtered(ctx context.Context, f PostFilter) *gorm.DB {
	q := s.conn(ctx).Model(&models.Post{})
	if f.PublishedOnly {
		q = q.Where("posts.is_published = ?", true)
	}
	if f.GenreID != 0 {
		q = q.Where("posts.genre_id = ?", f.GenreID)
	}
	if f.AuthorID != 0 {
		q = q.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.FollowerID != 0 {
		followed := s.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", f.FollowerID)
		q = q.Where("posts.author_id IN (?)", followed)
	}
	if f.ExcludeID != 0 {
		q = q.Where("posts.id <> ?", f.ExcludeID)
	}
	return q
}

// PostIDsByGenre lists the posts a genre delete takes with it.
func (s *Store) PostIDsByGenre(ctx context.Context, genreID int) ([]int, error) {
	var ids []int
	err := s.conn(ctx).Model(&models.Post{}).Where("genre_id = ?", genreID).Pluck("id", &ids).Error
	return ids, wrap("list genre post ids", err)
}

// DeletePosts removes posts with every comment, reply and like hanging off
// them. The foreign keys cascade too; deleting explicitly keeps the result
// independent of whether the connection enforces them.
func (s *Store) DeletePosts(ctx context.Context, postIDs []int) error {
	if len(postIDs) == 0 {
		return nil
	}
	db := s.conn(ctx)

	var commentIDs []int
	if err := db.Model(&models.Comment{}).Where("post_id IN ?", postIDs).Pluck("id", &commentIDs).Error; err != nil {
		return wrap("list post comments", err)
	}
	if err := s.DeleteComments(ctx, commentIDs); err != nil {
		return err
	}
	if err := db.Where("post_id IN ?", postIDs).Delete(&models.PostLike{}).Error; err != nil {
		return wrap("delete post likes", err)
	}
	if err := db.Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
		return wrap("delete posts", err)
	}
	return nil
}
