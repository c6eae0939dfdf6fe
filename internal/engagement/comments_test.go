package engagement

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
)

func TestAddCommentRejectsEmptyContent(t *testing.T) {
	db, svc := newTestService(t)
	u, g := db.User("u"), db.Genre("Tech", "tech")
	p := db.Post(u, g)

	for _, content := range []string{"", "   \n\t"} {
		_, err := svc.AddComment(context.Background(), p.ID, u.ID, content, nil)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	}
	_, err := svc.AddComment(context.Background(), p.ID, u.ID, strings.Repeat("é", maxCommentRunes+1), nil)
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	assert.Zero(t, db.Count(&models.Comment{}, ""))
}

func TestAddCommentRejectsCrossPostReply(t *testing.T) {
	db, svc := newTestService(t)
	u, g := db.User("u"), db.Genre("Tech", "tech")
	p1, p2 := db.Post(u, g), db.Post(u, g)
	parent := db.Comment(p1, u, nil)

	_, err := svc.AddComment(context.Background(), p2.ID, u.ID, "hi", &parent.ID)
	assert.True(t, apperror.Is(err, apperror.KindInvalidOperation))
	assert.Zero(t, db.Count(&models.Comment{}, "post_id = ?", p2.ID))
}

func TestAddCommentMissingTargets(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	u, g := db.User("u"), db.Genre("Tech", "tech")
	p := db.Post(u, g)

	_, err := svc.AddComment(ctx, p.ID+100, u.ID, "hi", nil)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	missing := 999
	_, err = svc.AddComment(ctx, p.ID, u.ID, "hi", &missing)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = svc.AddComment(ctx, p.ID, 0, "hi", nil)
	assert.True(t, apperror.Is(err, apperror.KindUnauthorized))
}

func TestAddCommentRecordsRoot(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	u, g := db.User("u"), db.Genre("Tech", "tech")
	p := db.Post(u, g)

	top, err := svc.AddComment(ctx, p.ID, u.ID, "  top  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "top", top.Content)
	assert.Nil(t, top.RootID)

	reply, err := svc.AddComment(ctx, p.ID, u.ID, "reply", &top.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.RootID)
	assert.Equal(t, top.ID, *reply.RootID)

	deeper, err := svc.AddComment(ctx, p.ID, u.ID, "deeper", &reply.ID)
	require.NoError(t, err)
	assert.Equal(t, reply.ID, *deeper.ParentID)
	assert.Equal(t, top.ID, *deeper.RootID)
}

func TestUpdateCommentAuthorOnly(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	author, other, g := db.User("author"), db.User("other"), db.Genre("Tech", "tech")
	c := db.Comment(db.Post(author, g), author, nil)

	_, err := svc.UpdateComment(ctx, other.ID, c.ID, "hijack")
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = svc.UpdateComment(ctx, author.ID, c.ID, " ")
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	updated, err := svc.UpdateComment(ctx, author.ID, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	var stored models.Comment
	require.NoError(t, db.Gorm.First(&stored, c.ID).Error)
	assert.Equal(t, "edited", stored.Content)
}

func TestDeleteCommentCascadesToReplies(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	author, other, g := db.User("author"), db.User("other"), db.Genre("Tech", "tech")
	p := db.Post(author, g)

	top := db.Comment(p, author, nil)
	reply := db.Comment(p, other, &top)
	deeper := db.Comment(p, author, &reply)
	sibling := db.Comment(p, other, nil)
	db.LikeComment(other, top)
	db.LikeComment(author, deeper)
	db.LikeComment(author, sibling)

	assert.True(t, apperror.Is(svc.DeleteComment(ctx, other.ID, top.ID), apperror.KindForbidden))
	require.NoError(t, svc.DeleteComment(ctx, author.ID, top.ID))

	assert.EqualValues(t, 1, db.Count(&models.Comment{}, ""))
	assert.EqualValues(t, 1, db.Count(&models.CommentLike{}, ""))
	assert.EqualValues(t, 1, db.Count(&models.CommentLike{}, "comment_id = ?", sibling.ID))

	err := svc.DeleteComment(ctx, author.ID, top.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestThreadFlattensRepliesUnderRoot(t *testing.T) {
	db, svc := newTestService(t)
	ctx := context.Background()
	a, b, g := db.User("a"), db.User("b"), db.Genre("Tech", "tech")
	p := db.Post(a, g)

	top1 := db.Comment(p, a, nil)
	top2 := db.Comment(p, b, nil)
	r1 := db.Comment(p, b, &top1)
	r2 := db.Comment(p, a, &r1)
	db.LikeComment(b, top1)
	db.LikeComment(a, r2)

	thread, err := svc.Thread(ctx, p.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)

	assert.Equal(t, top1.ID, thread[0].ID)
	assert.Equal(t, "a", thread[0].AuthorUsername)
	assert.EqualValues(t, 1, thread[0].LikesCount)
	assert.True(t, thread[0].LikedByViewer)
	require.Len(t, thread[0].Replies, 2)
	assert.Equal(t, r1.ID, thread[0].Replies[0].ID)
	assert.Equal(t, r2.ID, thread[0].Replies[1].ID)
	assert.Equal(t, r1.ID, *thread[0].Replies[1].ParentID)
	assert.False(t, thread[0].Replies[1].LikedByViewer)
	assert.EqualValues(t, 1, thread[0].Replies[1].LikesCount)

	assert.Equal(t, top2.ID, thread[1].ID)
	assert.Empty(t, thread[1].Replies)

	anon, err := svc.Thread(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.False(t, anon[0].LikedByViewer)
}

func TestThreadEmpty(t *testing.T) {
	db, svc := newTestService(t)
	u, g := db.User("u"), db.Genre("Tech", "tech")

	thread, err := svc.Thread(context.Background(), db.Post(u, g).ID, 0)
	require.NoError(t, err)
	assert.NotNil(t, thread)
	assert.Empty(t, thread)
}
