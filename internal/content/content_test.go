package content

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/engagement"
	"github.com/emilythestrangee/social-blog/backend/internal/events"
	"github.com/emilythestrangee/social-blog/backend/internal/feed"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
	"github.com/emilythestrangee/social-blog/backend/internal/testutil"
)

func newTestService(t *testing.T) (*testutil.DB, *Service) {
	t.Helper()
	db := testutil.NewDB(t)
	eng := engagement.NewService(db.Store, events.Nop{}, zap.NewNop())
	return db, NewService(db.Store, feed.NewAssembler(db.Store), eng, events.Nop{}, zap.NewNop())
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("  short "))

	exact := strings.Repeat("a", excerptRunes)
	assert.Equal(t, exact, Excerpt(exact))

	long := strings.Repeat("ü", excerptRunes+10)
	got := Excerpt(long)
	assert.Equal(t, strings.Repeat("ü", excerptRunes)+"...", got)
}

func TestCreatePostDerivesSlugAndExcerpt(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	u := db.User("writer")
	db.Genre("Technology", "technology")

	req := models.CreatePostRequest{Title: "Hello, World!", Content: "body", GenreSlug: "technology"}
	first, err := svc.CreatePost(ctx, u.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, "body", first.Excerpt)
	assert.True(t, first.IsPublished)

	second, err := svc.CreatePost(ctx, u.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-2", second.Slug)

	req.IsPublished = boolPtr(false)
	req.Slug = "Custom Slug"
	draft, err := svc.CreatePost(ctx, u.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", draft.Slug)
	assert.False(t, draft.IsPublished)
}

func TestCreatePostValidation(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	u := db.User("writer")
	db.Genre("Technology", "technology")

	_, err := svc.CreatePost(ctx, u.ID, models.CreatePostRequest{Title: " ", Content: "x", GenreSlug: "technology"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.CreatePost(ctx, u.ID, models.CreatePostRequest{Title: "t", Content: "", GenreSlug: "technology"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = svc.CreatePost(ctx, u.ID, models.CreatePostRequest{Title: "t", Content: "x", GenreSlug: "nope"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.CreatePost(ctx, 0, models.CreatePostRequest{Title: "t", Content: "x", GenreSlug: "technology"})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	assert.Zero(t, db.Count(&models.Post{}, ""))
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	author, other := db.User("author"), db.User("other")
	g := db.Genre("Tech", "tech")
	art := db.Genre("Art", "art")
	p := db.Post(author, g)

	_, err := svc.UpdatePost(ctx, other.ID, p.Slug, models.UpdatePostRequest{Title: strPtr("mine")})
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.UpdatePost(ctx, author.ID, p.Slug, models.UpdatePostRequest{Title: strPtr("")})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	updated, err := svc.UpdatePost(ctx, author.ID, p.Slug, models.UpdatePostRequest{
		Content:   strPtr("new body"),
		GenreSlug: strPtr("art"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new body", updated.Content)
	assert.Equal(t, "new body", updated.Excerpt)
	assert.Equal(t, art.ID, updated.GenreID)
	assert.Equal(t, p.Slug, updated.Slug)
}

func TestDeletePostCascades(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	author, fan := db.User("author"), db.User("fan")
	g := db.Genre("Tech", "tech")
	p := db.Post(author, g)
	keep := db.Post(author, g)

	top := db.Comment(p, fan, nil)
	reply := db.Comment(p, author, &top)
	deeper := db.Comment(p, fan, &reply)
	db.LikeComment(author, top)
	db.LikeComment(fan, deeper)
	db.LikePost(fan, p)
	db.LikePost(author, p)

	kept := db.Comment(keep, fan, nil)
	db.LikeComment(author, kept)
	db.LikePost(fan, keep)

	assert.True(t, apperror.Is(svc.DeletePost(ctx, fan.ID, p.Slug), apperror.KindForbidden))
	require.NoError(t, svc.DeletePost(ctx, author.ID, p.Slug))

	assert.Zero(t, db.Count(&models.Post{}, "id = ?", p.ID))
	assert.Zero(t, db.Count(&models.Comment{}, "post_id = ?", p.ID))
	assert.Zero(t, db.Count(&models.CommentLike{}, "comment_id IN ?", []int{top.ID, reply.ID, deeper.ID}))
	assert.Zero(t, db.Count(&models.PostLike{}, "post_id = ?", p.ID))

	assert.EqualValues(t, 1, db.Count(&models.Comment{}, ""))
	assert.EqualValues(t, 1, db.Count(&models.CommentLike{}, ""))
	assert.EqualValues(t, 1, db.Count(&models.PostLike{}, ""))
}

func TestDeleteGenreCascadesToPosts(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	u := db.User("u")
	tech, art := db.Genre("Tech", "tech"), db.Genre("Art", "art")
	p := db.Post(u, tech)
	db.Comment(p, u, nil)
	db.LikePost(u, p)
	other := db.Post(u, art)

	require.NoError(t, svc.DeleteGenre(ctx, "tech"))

	assert.Zero(t, db.Count(&models.Genre{}, "id = ?", tech.ID))
	assert.Zero(t, db.Count(&models.Post{}, "genre_id = ?", tech.ID))
	assert.Zero(t, db.Count(&models.Comment{}, ""))
	assert.Zero(t, db.Count(&models.PostLike{}, ""))
	assert.EqualValues(t, 1, db.Count(&models.Post{}, "id = ?", other.ID))

	assert.True(t, apperror.Is(svc.DeleteGenre(ctx, "tech"), apperror.KindNotFound))
}

func TestEnsureGenreIsIdempotent(t *testing.T) {
	_, svc := newTestService(t)
	ctx := context.Background()

	g, created, err := svc.EnsureGenre(ctx, "Personal Stories", "Life experiences")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "personal-stories", g.Slug)

	again, created, err := svc.EnsureGenre(ctx, "Personal Stories", "ignored")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, g.ID, again.ID)

	genres, err := svc.ListGenres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 1)
}

func TestGetPostDetail(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	author, fan := db.User("author"), db.User("fan")
	g := db.Genre("Tech", "tech")
	p := db.Post(author, g)
	sibling := db.Post(author, g)
	db.LikePost(fan, p)
	top := db.Comment(p, fan, nil)
	db.Comment(p, author, &top)

	detail, err := svc.GetPost(ctx, p.Slug, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, detail.Post.ID)
	assert.Equal(t, "author", detail.Post.AuthorUsername)
	assert.EqualValues(t, 1, detail.Post.LikesCount)
	assert.True(t, detail.Post.LikedByViewer)
	require.Len(t, detail.Comments, 1)
	assert.Len(t, detail.Comments[0].Replies, 1)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, sibling.ID, detail.Related[0].ID)

	_, err = svc.GetPost(ctx, "missing", 0)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDraftVisibleOnlyToAuthor(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	author, other := db.User("author"), db.User("other")
	draft := db.Post(author, db.Genre("Tech", "tech"), testutil.Unpublished())

	_, err := svc.GetPost(ctx, draft.Slug, other.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	_, err = svc.GetPost(ctx, draft.Slug, 0)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.True(t, apperror.Is(svc.DeletePost(ctx, other.ID, draft.Slug), apperror.KindNotFound))

	detail, err := svc.GetPost(ctx, draft.Slug, author.ID)
	require.NoError(t, err)
	assert.False(t, detail.Post.IsPublished)
}

func TestGetProfile(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	a, b, c := db.User("a"), db.User("b"), db.User("c")
	g := db.Genre("Tech", "tech")
	db.Follow(b, a)
	db.Follow(c, a)
	db.Follow(a, c)
	db.Post(a, g)
	db.Post(a, g)
	db.Post(a, g, testutil.Unpublished())

	view, err := svc.GetProfile(ctx, "a", b.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, view.User.ID)
	assert.EqualValues(t, 2, view.FollowersCount)
	assert.EqualValues(t, 1, view.FollowingCount)
	assert.EqualValues(t, 2, view.PostsCount)
	assert.True(t, view.IsFollowing)
	assert.Len(t, view.Posts.Items, 2)
	assert.Equal(t, feed.ProfilePageSize, view.Posts.PageSize)

	view, err = svc.GetProfile(ctx, "a", 0)
	require.NoError(t, err)
	assert.False(t, view.IsFollowing)

	_, err = svc.GetProfile(ctx, "zed", 0)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestUpdateProfile(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	a, b := db.User("a"), db.User("b")

	user, err := svc.UpdateProfile(ctx, a.ID, models.UpdateProfileRequest{
		Bio:      strPtr("  writes about trams  "),
		Website:  strPtr("https://a.example.com"),
		Location: strPtr("Lisbon"),
	})
	require.NoError(t, err)
	assert.Equal(t, "writes about trams", user.Bio)

	// nil fields are left alone
	_, err = svc.UpdateProfile(ctx, a.ID, models.UpdateProfileRequest{Location: strPtr("Porto")})
	require.NoError(t, err)

	view, err := svc.GetProfile(ctx, "a", b.ID)
	require.NoError(t, err)
	assert.Equal(t, "writes about trams", view.User.Bio)
	assert.Equal(t, "https://a.example.com", view.User.Website)
	assert.Equal(t, "Porto", view.User.Location)
}

func TestUpdateProfileValidation(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	a := db.User("a")

	cases := []models.UpdateProfileRequest{
		{Bio: strPtr(strings.Repeat("b", maxBioRunes+1))},
		{Location: strPtr(strings.Repeat("l", maxLocationRunes+1))},
		{Website: strPtr("javascript:alert(1)")},
		{Website: strPtr("not a url")},
	}
	for _, req := range cases {
		_, err := svc.UpdateProfile(ctx, a.ID, req)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	}

	_, err := svc.UpdateProfile(ctx, 0, models.UpdateProfileRequest{Bio: strPtr("x")})
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))

	// clearing the website is allowed
	_, err = svc.UpdateProfile(ctx, a.ID, models.UpdateProfileRequest{Website: strPtr("")})
	assert.NoError(t, err)
}

func TestDarkModeShownOnlyToOwner(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	a, b := db.User("a"), db.User("b")

	require.NoError(t, svc.SetDarkMode(ctx, a.ID, true))

	own, err := svc.GetProfile(ctx, "a", a.ID)
	require.NoError(t, err)
	require.NotNil(t, own.DarkMode)
	assert.True(t, *own.DarkMode)

	other, err := svc.GetProfile(ctx, "a", b.ID)
	require.NoError(t, err)
	assert.Nil(t, other.DarkMode)

	require.NoError(t, svc.SetDarkMode(ctx, a.ID, false))
	own, err = svc.GetProfile(ctx, "a", a.ID)
	require.NoError(t, err)
	assert.False(t, *own.DarkMode)
}

func TestListFollowersAndFollowing(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	a := db.User("a")
	for _, name := range []string{"b", "c", "d"} {
		db.Follow(db.User(name), a)
	}

	page, err := svc.ListFollowers(ctx, "a", 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Users, 2)
	assert.Equal(t, "d", page.Users[0].Username)
	assert.EqualValues(t, 3, page.Total)
	assert.True(t, page.HasMore)

	page, err = svc.ListFollowers(ctx, "a", 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Users, 1)
	assert.False(t, page.HasMore)

	following, err := svc.ListFollowing(ctx, "a", 1, 0)
	require.NoError(t, err)
	assert.Empty(t, following.Users)
	assert.NotNil(t, following.Users)

	_, err = svc.ListFollowers(ctx, "a", 0, 10)
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
