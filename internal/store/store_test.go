package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/social-blog/backend/internal/models"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
	"github.com/emilythestrangee/social-blog/backend/internal/testutil"
)

func TestToggleEdgeFlipsState(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	a, b := db.User("a"), db.User("b")

	on, err := db.Store.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = db.Store.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Zero(t, db.Count(&models.Follow{}, ""))
}

func TestToggleInsideTransactionSeesOwnWrite(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	u, g := db.User("u"), db.Genre("Tech", "tech")
	p := db.Post(u, g)

	var count int64
	err := db.Store.WithTx(ctx, func(tx *store.Store) error {
		if _, err := tx.TogglePostLike(ctx, u.ID, p.ID); err != nil {
			return err
		}
		var err error
		count, err = tx.PostLikesCount(ctx, p.ID)
		return err
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestPostCountsForBatches(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	a, b := db.User("a"), db.User("b")
	g := db.Genre("Tech", "tech")
	p1, p2, p3 := db.Post(a, g), db.Post(a, g), db.Post(b, g)

	db.LikePost(a, p1)
	db.LikePost(b, p1)
	db.LikePost(b, p2)
	top := db.Comment(p1, b, nil)
	db.Comment(p1, a, &top)
	db.Comment(p2, a, nil)

	counts, err := db.Store.PostCountsFor(ctx, []int{p1.ID, p2.ID, p3.ID}, a.ID)
	require.NoError(t, err)

	assert.Equal(t, store.PostCounts{Likes: 2, Comments: 1, LikedByViewer: true}, counts[p1.ID])
	assert.Equal(t, store.PostCounts{Likes: 1, Comments: 1}, counts[p2.ID])
	assert.Equal(t, store.PostCounts{}, counts[p3.ID])

	anon, err := db.Store.PostCountsFor(ctx, []int{p1.ID}, 0)
	require.NoError(t, err)
	assert.False(t, anon[p1.ID].LikedByViewer)
}

func TestBatchedCountsRefuseTransactionStore(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()

	err := db.Store.WithTx(ctx, func(tx *store.Store) error {
		assert.True(t, tx.InTx())
		_, err := tx.PostCountsFor(ctx, []int{1}, 0)
		return err
	})
	assert.ErrorIs(t, err, store.ErrNoPool)
}

func TestRepliesByRootIDsGroupsAllDepths(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	u, g := db.User("u"), db.Genre("Tech", "tech")
	p := db.Post(u, g)

	top1 := db.Comment(p, u, nil)
	top2 := db.Comment(p, u, nil)
	r1 := db.Comment(p, u, &top1)
	r2 := db.Comment(p, u, &r1)
	r3 := db.Comment(p, u, &top2)

	replies, err := db.Store.RepliesByRootIDs(ctx, []int{top1.ID, top2.ID})
	require.NoError(t, err)

	require.Len(t, replies[top1.ID], 2)
	assert.Equal(t, r1.ID, replies[top1.ID][0].ID)
	assert.Equal(t, r2.ID, replies[top1.ID][1].ID)
	require.Len(t, replies[top2.ID], 1)
	assert.Equal(t, r3.ID, replies[top2.ID][0].ID)
}

func TestDescendantIDs(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	u, g := db.User("u"), db.Genre("Tech", "tech")
	p := db.Post(u, g)

	top := db.Comment(p, u, nil)
	r1 := db.Comment(p, u, &top)
	r2 := db.Comment(p, u, &r1)
	other := db.Comment(p, u, nil)

	ids, err := db.Store.DescendantIDs(ctx, r1.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{r1.ID, r2.ID}, ids)
	assert.NotContains(t, ids, other.ID)
}

func TestListPostsFilters(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	a, b, c := db.User("a"), db.User("b"), db.User("c")
	tech, art := db.Genre("Tech", "tech"), db.Genre("Art", "art")

	p1 := db.Post(b, tech)
	p2 := db.Post(c, art)
	db.Post(b, tech, testutil.Unpublished())
	db.Post(a, tech)
	db.Follow(a, b)
	db.Follow(a, c)

	posts, err := db.Store.ListPosts(ctx, store.PostFilter{PublishedOnly: true, FollowerID: a.ID}, 0, 10)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, p2.ID, posts[0].ID)
	assert.Equal(t, p1.ID, posts[1].ID)
	assert.Equal(t, "c", posts[0].Author.Username)
	assert.Equal(t, "Art", posts[0].Genre.Name)

	n, err := db.Store.CountPosts(ctx, store.PostFilter{PublishedOnly: true, GenreID: tech.ID, ExcludeID: p1.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestFollowersAndFollowing(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	a, b, c := db.User("a"), db.User("b"), db.User("c")
	db.Follow(b, a)
	db.Follow(c, a)
	db.Follow(a, c)

	followers, err := db.Store.Followers(ctx, a.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "c", followers[0].Username)

	following, err := db.Store.Following(ctx, a.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "c", following[0].Username)
}
