// Package content manages the lifecycle of posts and genres and serves the
// read models built on top of them: post detail pages and user profiles.
package content

import (
	"context"

	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/database"
	"github.com/emilythestrangee/social-blog/backend/internal/engagement"
	"github.com/emilythestrangee/social-blog/backend/internal/events"
	"github.com/emilythestrangee/social-blog/backend/internal/feed"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

// ThreadReader loads the comment thread shown under a post.
type ThreadReader interface {
	Thread(ctx context.Context, postID, viewerID int) ([]*engagement.CommentNode, error)
}

type Service struct {
	store     *store.Store
	feed      *feed.Assembler
	threads   ThreadReader
	publisher events.Publisher
	log       *zap.Logger
}

func NewService(st *store.Store, assembler *feed.Assembler, threads ThreadReader, publisher events.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		store:     st,
		feed:      assembler,
		threads:   threads,
		publisher: publisher,
		log:       log,
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event",
			zap.String("subject", event.Subject), zap.String("event_id", event.ID), zap.Error(err))
	}
}

func notFound(err error, msg string) error {
	if database.IsNotFound(err) {
		return apperror.NotFound(msg)
	}
	return err
}
