package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emilythestrangee/social-blog/backend/internal/apperror"
)

// respondError maps an error kind to its HTTP status. Internal causes are
// logged, never returned to the client.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	kind := apperror.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperror.KindValidation, apperror.KindInvalidOperation:
		status = http.StatusBadRequest
	case apperror.KindUnauthorized:
		status = http.StatusUnauthorized
	case apperror.KindForbidden:
		status = http.StatusForbidden
	case apperror.KindNotFound:
		status = http.StatusNotFound
	case apperror.KindConflict:
		status = http.StatusConflict
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		log.Error("request failed",
			zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, gin.H{"error": apperror.Message(err)})
}

// intParam reads a positive integer path parameter.
func intParam(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, apperror.Validation("invalid " + name)
	}
	return v, nil
}

// pageParams reads ?page= and ?page_size=. page defaults to 1 and
// page_size to 0, which lets the service pick its default.
func pageParams(c *gin.Context) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 0, 0, apperror.Validation("page must be a number")
	}
	size, err := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	if err != nil {
		return 0, 0, apperror.Validation("page_size must be a number")
	}
	return page, size, nil
}
