// Package testutil opens a throwaway SQLite database through the production
// gorm setup and creates rows for tests.
package testutil

import (
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emilythestrangee/social-blog/backend/internal/database"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

// DB is a migrated test database.
type DB struct {
	Service database.Service
	Gorm    *gorm.DB
	Store   *store.Store

	t   *testing.T
	seq atomic.Int64
	// clock hands out strictly increasing creation times.
	clock time.Time
}

func NewDB(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "blog.db")
	gdb, err := database.Open(sqlite.Open(database.SQLiteDSN(path)), "silent", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return wrapDB(t, gdb)
}

func wrapDB(t *testing.T, gdb *gorm.DB) *DB {
	t.Helper()
	srv := database.Wrap(gdb, zap.NewNop())
	t.Cleanup(func() { _ = srv.Close() })

	return &DB{
		Service: srv,
		Gorm:    gdb,
		Store:   store.New(gdb, srv.GetSQLX()),
		t:       t,
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Tick returns the next creation time.
func (d *DB) Tick() time.Time {
	d.clock = d.clock.Add(time.Minute)
	return d.clock
}

func (d *DB) next() int64 {
	return d.seq.Add(1)
}

func (d *DB) User(username string) models.User {
	d.t.Helper()
	u := models.User{Username: username, CreatedAt: d.Tick()}
	require.NoError(d.t, d.Gorm.Create(&u).Error)
	return u
}

func (d *DB) Genre(name, slug string) models.Genre {
	d.t.Helper()
	g := models.Genre{Name: name, Slug: slug, CreatedAt: d.Tick()}
	require.NoError(d.t, d.Gorm.Create(&g).Error)
	return g
}

// PostOption tweaks a fixture post before it is inserted.
type PostOption func(*models.Post)

func Unpublished() PostOption {
	return func(p *models.Post) { p.IsPublished = false }
}

func Titled(title string) PostOption {
	return func(p *models.Post) { p.Title = title }
}

func CreatedAt(at time.Time) PostOption {
	return func(p *models.Post) { p.CreatedAt = at; p.UpdatedAt = at }
}

// Post inserts a published post by author in genre.
func (d *DB) Post(author models.User, genre models.Genre, opts ...PostOption) models.Post {
	d.t.Helper()
	n := d.next()
	at := d.Tick()
	p := models.Post{
		Title:       fmt.Sprintf("Post %d", n),
		Slug:        fmt.Sprintf("post-%d", n),
		Content:     "content",
		Excerpt:     "content",
		AuthorID:    author.ID,
		GenreID:     genre.ID,
		IsPublished: true,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	for _, opt := range opts {
		opt(&p)
	}
	require.NoError(d.t, d.Gorm.Omit("Author", "Genre").Create(&p).Error)
	return p
}

// Comment inserts a comment, as a reply when parent is not nil.
func (d *DB) Comment(post models.Post, author models.User, parent *models.Comment) models.Comment {
	d.t.Helper()
	at := d.Tick()
	c := models.Comment{
		PostID:    post.ID,
		AuthorID:  author.ID,
		Content:   fmt.Sprintf("comment %d", d.next()),
		CreatedAt: at,
		UpdatedAt: at,
	}
	if parent != nil {
		c.ParentID = &parent.ID
		root := parent.ID
		if parent.RootID != nil {
			root = *parent.RootID
		}
		c.RootID = &root
	}
	require.NoError(d.t, d.Gorm.Omit("Post", "Author", "Parent").Create(&c).Error)
	return c
}

func (d *DB) Follow(follower, following models.User) {
	d.t.Helper()
	require.NoError(d.t, d.Gorm.Omit("Follower", "Following").
		Create(&models.Follow{FollowerID: follower.ID, FollowingID: following.ID, CreatedAt: d.Tick()}).Error)
}

func (d *DB) LikePost(user models.User, post models.Post) {
	d.t.Helper()
	require.NoError(d.t, d.Gorm.Omit("User", "Post").
		Create(&models.PostLike{UserID: user.ID, PostID: post.ID}).Error)
}

func (d *DB) LikeComment(user models.User, comment models.Comment) {
	d.t.Helper()
	require.NoError(d.t, d.Gorm.Omit("User", "Comment").
		Create(&models.CommentLike{UserID: user.ID, CommentID: comment.ID}).Error)
}

// Count returns the number of rows in model's table matching the condition.
func (d *DB) Count(model interface{}, cond string, args ...interface{}) int64 {
	d.t.Helper()
	var n int64
	q := d.Gorm.Model(model)
	if cond != "" {
		q = q.Where(cond, args...)
	}
	require.NoError(d.t, q.Count(&n).Error)
	return n
}
