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

type UserHandler struct {
	content    *content.Service
	engagement *engagement.Service
	log        *zap.Logger
}

func NewUserHandler(contentSvc *content.Service, engagementSvc *engagement.Service, log *zap.Logger) *UserHandler {
	return &UserHandler{content: contentSvc, engagement: engagementSvc, log: log}
}

// GetUserProfile returns counts, follow state and the first page of posts
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	profile, err := h.content.GetProfile(c.Request.Context(), c.Param("username"), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetFollowers returns one page of the users following this user
func (h *UserHandler) GetFollowers(c *gin.Context) {
	page, size, err := pageParams(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	users, err := h.content.ListFollowers(c.Request.Context(), c.Param("username"), page, size)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetFollowing returns one page of the users this user follows
func (h *UserHandler) GetFollowing(c *gin.Context) {
	page, size, err := pageParams(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	users, err := h.content.ListFollowing(c.Request.Context(), c.Param("username"), page, size)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// FollowUser toggles whether the caller follows this user
func (h *UserHandler) FollowUser(c *gin.Context) {
	target, err := h.content.ResolveUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	res, err := h.engagement.ToggleFollow(c.Request.Context(), middleware.UserID(c), target.ID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateUserProfile edits the caller's own bio, website, location and theme
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	var input models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apperror.Validation("invalid request body"))
		return
	}

	userID := middleware.UserID(c)
	user, err := h.content.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	profile, err := h.content.GetProfile(c.Request.Context(), user.Username, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SetDarkMode stores the caller's theme preference
func (h *UserHandler) SetDarkMode(c *gin.Context) {
	var input struct {
		DarkMode *bool `json:"dark_mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, h.log, apperror.Validation("dark_mode is required"))
		return
	}

	if err := h.content.SetDarkMode(c.Request.Context(), middleware.UserID(c), *input.DarkMode); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dark_mode": *input.DarkMode})
}
