package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Subjects published on every committed engagement change.
const (
	PostLiked      = "post.liked"
	PostUnliked    = "post.unliked"
	CommentLiked   = "comment.liked"
	CommentUnliked = "comment.unliked"
	UserFollowed   = "user.followed"
	UserUnfollowed = "user.unfollowed"
	CommentAdded   = "comment.added"
	CommentDeleted = "comment.deleted"
	PostDeleted    = "post.deleted"
)

type Event struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	ActorID    int       `json:"actor_id"`
	TargetID   int       `json:"target_id"`
	Count      int64     `json:"count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(subject string, actorID, targetID int) Event {
	return Event{
		ID:         uuid.NewString(),
		Subject:    subject,
		ActorID:    actorID,
		TargetID:   targetID,
		OccurredAt: time.Now().UTC(),
	}
}

// Publisher delivers events after the transaction that caused them commits.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// Nop drops every event. Used when NATS_URL is unset.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close()                               {}
