package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/engagement"
	"github.com/emilythestrangee/social-blog/backend/internal/middleware"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
)

type CommentHandler struct {
	engagement *engagement.Service
	log        *zap.Logger
}

func NewCommentHandler(engagementSvc *engagement.Service, log *zap.Logger) *CommentHandler {
	return &CommentHandler{engagement: engagementSvc, log: log}
}

// UpdateComment updates a comment (only by author)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	commentID, err := intParam(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	var input models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apperror.Validation("invalid request body"))
		return
	}

	comment, err := h.engagement.UpdateComment(c.Request.Context(), middleware.UserID(c), commentID, input.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment and its replies (only by author)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	commentID, err := intParam(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	if err := h.engagement.DeleteComment(c.Request.Context(), middleware.UserID(c), commentID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// LikeComment toggles the caller's like on a comment
func (h *CommentHandler) LikeComment(c *gin.Context) {
	commentID, err := intParam(c, "id")
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	res, err := h.engagement.ToggleCommentLike(c.Request.Context(), middleware.UserID(c), commentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
