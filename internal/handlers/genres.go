package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/content"
)

type GenreHandler struct {
	content *content.Service
	log     *zap.Logger
}

func NewGenreHandler(contentSvc *content.Service, log *zap.Logger) *GenreHandler {
	return &GenreHandler{content: contentSvc, log: log}
}

// GetGenres lists every genre by name.
func (h *GenreHandler) GetGenres(c *gin.Context) {
	genres, err := h.content.ListGenres(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}
