package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cleanblog/internal/service"
	"github.com/gin-gonic/gin"
)

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func (a *API) renderNotFound(c *gin.Context) {
	a.renderHTML(c, http.StatusNotFound, "error.html", gin.H{
		"title": "Not Found",
		"error": "The page you were looking for does not exist.",
	})
	c.Abort()
}

// respondServiceError 将服务层错误映射为 HTTP 响应
func (a *API) respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		c.AbortWithStatus(http.StatusForbidden)
	case errors.Is(err, service.ErrPostNotFound):
		a.renderNotFound(c)
	default:
		_ = c.Error(err)
		a.logger(c).WithError(err).Error("request failed")
		a.renderHTML(c, http.StatusInternalServerError, "error.html", gin.H{
			"title": "Something went wrong",
			"error": "The request could not be completed. Please try again later.",
		})
		c.Abort()
	}
}
