package handlers

import (
	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/content"
	"github.com/emilythestrangee/social-blog/backend/internal/engagement"
	"github.com/emilythestrangee/social-blog/backend/internal/feed"
)

// Handler combines all handler types
type Handler struct {
	Post    *PostHandler
	Comment *CommentHandler
	User    *UserHandler
	Feed    *FeedHandler
	Genre   *GenreHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(contentSvc *content.Service, engagementSvc *engagement.Service, assembler *feed.Assembler, log *zap.Logger) *Handler {
	return &Handler{
		Post:    NewPostHandler(contentSvc, engagementSvc, log),
		Comment: NewCommentHandler(engagementSvc, log),
		User:    NewUserHandler(contentSvc, engagementSvc, log),
		Feed:    NewFeedHandler(assembler, log),
		Genre:   NewGenreHandler(contentSvc, log),
	}
}
