package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
	"github.com/emilythestrangee/social-blog/backend/internal/content"
	"github.com/emilythestrangee/social-blog/backend/internal/engagement"
	"github.com/emilythestrangee/social-blog/backend/internal/middleware"
	"github.com/emilythestrangee/social-blog/backend/internal/models"
)

type PostHandler struct {
	content    *content.Service
	engagement *engagement.Service
	log        *zap.Logger
}

func NewPostHandler(contentSvc *content.Service, engagementSvc *engagement.Service, log *zap.Logger) *PostHandler {
	return &PostHandler{content: contentSvc, engagement: engagementSvc, log: log}
}

// GetPost returns a post with its comment thread and related posts
func (h *PostHandler) GetPost(c *gin.Context) {
	detail, err := h.content.GetPost(c.Request.Context(), c.Param("slug"), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreatePost creates a new post (PROTECTED - requires authentication)
func (h *PostHandler) CreatePost(c *gin.Context) {
	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apperror.Validation("title, content and genre are required"))
		return
	}

	post, err := h.content.CreatePost(c.Request.Context(), middleware.UserID(c), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdatePost edits a post (author only)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	var input models.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apperror.Validation("invalid request body"))
		return
	}

	post, err := h.content.UpdatePost(c.Request.Context(), middleware.UserID(c), c.Param("slug"), input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post with its comments and likes (author only)
func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.content.DeletePost(c.Request.Context(), middleware.UserID(c), c.Param("slug")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// LikePost toggles the caller's like on a post
func (h *PostHandler) LikePost(c *gin.Context) {
	userID := middleware.UserID(c)
	post, err := h.content.ResolvePost(c.Request.Context(), c.Param("slug"), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	res, err := h.engagement.TogglePostLike(c.Request.Context(), userID, post.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// CreateComment adds a comment, or a reply when parent_id is set
func (h *PostHandler) CreateComment(c *gin.Context) {
	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apperror.Validation("invalid request body"))
		return
	}

	userID := middleware.UserID(c)
	post, err := h.content.ResolvePost(c.Request.Context(), c.Param("slug"), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	comment, err := h.engagement.AddComment(c.Request.Context(), post.ID, userID, input.Content, input.ParentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
