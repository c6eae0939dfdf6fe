package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/feed"
	"github.com/emilythestrangee/social-blog/backend/internal/middleware"
)

type FeedHandler struct {
	feed *feed.Assembler
	log  *zap.Logger
}

func NewFeedHandler(assembler *feed.Assembler, log *zap.Logger) *FeedHandler {
	return &FeedHandler{feed: assembler, log: log}
}

type globalFeedResponse struct {
	*feed.Page
	Featured []feed.Item `json:"featured,omitempty"`
}

// GetGlobalFeed returns all published posts; page 1 also carries the
// featured posts.
func (h *FeedHandler) GetGlobalFeed(c *gin.Context) {
	q, ok := h.query(c, feed.Global)
	if !ok {
		return
	}

	page, err := h.feed.GetFeed(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := globalFeedResponse{Page: page}
	if q.Page == 1 {
		resp.Featured, err = h.feed.Featured(c.Request.Context(), q.ViewerID)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FeedHandler) GetGenreFeed(c *gin.Context) {
	h.serve(c, feed.Genre)
}

func (h *FeedHandler) GetFollowingFeed(c *gin.Context) {
	h.serve(c, feed.Following)
}

func (h *FeedHandler) GetProfileFeed(c *gin.Context) {
	h.serve(c, feed.Profile)
}

func (h *FeedHandler) serve(c *gin.Context, kind feed.Kind) {
	q, ok := h.query(c, kind)
	if !ok {
		return
	}
	page, err := h.feed.GetFeed(c.Request.Context(), q)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FeedHandler) query(c *gin.Context, kind feed.Kind) (feed.Query, bool) {
	page, size, err := pageParams(c)
	if err != nil {
		respondError(c, h.log, err)
		return feed.Query{}, false
	}
	return feed.Query{
		Kind:      kind,
		GenreSlug: c.Param("slug"),
		Username:  c.Param("username"),
		ViewerID:  middleware.UserID(c),
		Page:      page,
		PageSize:  size,
	}, true
}
