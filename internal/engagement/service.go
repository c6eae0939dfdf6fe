// Package engagement owns the follow and like edges and the comment
// threads hanging off posts.
package engagement

import (
	"context"

	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/database"
	"github.com/emilythestrangee/social-blog/backend/internal/events"
	"github.com/emilythestrangee/social-blog/backend/internal/store"
)

// maxToggleAttempts bounds how often a toggle reruns after losing a race.
const maxToggleAttempts = 3

type Service struct {
	store     *store.Store
	publisher events.Publisher
	log       *zap.Logger
}

func NewService(st *store.Store, publisher events.Publisher, log *zap.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{store: st, publisher: publisher, log: log}
}

// toggle runs fn in its own transaction, starting over when a concurrent
// toggle on the same pair won the race.
func (s *Service) toggle(ctx context.Context, op string, fn func(tx *store.Store) error) error {
	var err error
	for attempt := 1; attempt <= maxToggleAttempts; attempt++ {
		err = s.store.WithTx(ctx, fn)
		if err == nil || !store.IsRaceLost(err) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.log.Debug("toggle lost a race, retrying",
			zap.String("op", op), zap.Int("attempt", attempt), zap.Error(err))
	}
	return apperror.Conflict(op+" conflicted with concurrent updates, try again", err)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event",
			zap.String("subject", event.Subject), zap.String("event_id", event.ID), zap.Error(err))
	}
}

// notFound turns gorm's missing-row error into a NotFound with msg.
func notFound(err error, msg string) error {
	if database.IsNotFound(err) {
		return apperror.NotFound(msg)
	}
	return err
}
