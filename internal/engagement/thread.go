package engagement

import (
	"context"
	"time"

	"github.com/emilythestrangee/social-blog/backend/internal/loader"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
)

// CommentNode is one comment as shown under a post. Replies of any depth are
// flattened under their top-level comment.
type CommentNode struct {
	ID             int            `json:"id"`
	PostID         int            `json:"post_id"`
	AuthorID       int            `json:"author_id"`
	AuthorUsername string         `json:"author_username"`
	ParentID       *int           `json:"parent_id,omitempty"`
	Content        string         `json:"content"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	LikesCount     int64          `json:"likes_count"`
	LikedByViewer  bool           `json:"liked_by_viewer"`
	Replies        []*CommentNode `json:"replies,omitempty"`
}

// Thread loads the comments of a post: top-level comments oldest first, each
// with its replies oldest first. viewerID 0 means an anonymous viewer.
func (s *Service) Thread(ctx context.Context, postID, viewerID int) ([]*CommentNode, error) {
	tops, err := s.store.TopLevelComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	if len(tops) == 0 {
		return []*CommentNode{}, nil
	}

	rootIDs := make([]int, len(tops))
	for i, c := range tops {
		rootIDs[i] = c.ID
	}
	replies, err := loader.For(ctx, s.store).Replies(ctx, rootIDs)
	if err != nil {
		return nil, err
	}

	ids := append([]int(nil), rootIDs...)
	for _, rs := range replies {
		for _, r := range rs {
			ids = append(ids, r.ID)
		}
	}
	counts, err := s.store.CommentCountsFor(ctx, ids, viewerID)
	if err != nil {
		return nil, err
	}

	node := func(c models.Comment) *CommentNode {
		return &CommentNode{
			ID:             c.ID,
			PostID:         c.PostID,
			AuthorID:       c.AuthorID,
			AuthorUsername: c.Author.Username,
			ParentID:       c.ParentID,
			Content:        c.Content,
			CreatedAt:      c.CreatedAt,
			UpdatedAt:      c.UpdatedAt,
			LikesCount:     counts[c.ID].Likes,
			LikedByViewer:  counts[c.ID].LikedByViewer,
		}
	}

	out := make([]*CommentNode, 0, len(tops))
	for _, top := range tops {
		n := node(top)
		for _, r := range replies[top.ID] {
			n.Replies = append(n.Replies, node(r))
		}
		out = append(out, n)
	}
	return out, nil
}
