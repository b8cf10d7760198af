package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/transcript-analytics/internal/middleware"
	"github.com/xxxsen/transcript-analytics/internal/pkg/errcode"
	appErr "github.com/xxxsen/transcript-analytics/internal/pkg/errors"
	"github.com/xxxsen/transcript-analytics/internal/pkg/response"
)

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get(middleware.ContextRequestIDKey)
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	switch {
	case errors.Is(err, appErr.ErrTooShort):
		response.Error(c, http.StatusBadRequest, errcode.ErrTooShort, appErr.Detail(err, "text too short"))
	case errors.Is(err, appErr.ErrUnsupportedLanguage):
		response.Error(c, http.StatusBadRequest, errcode.ErrUnsupportedLanguage, appErr.Detail(err, "unsupported language"))
	case appErr.IsInvalid(err):
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, appErr.Detail(err, "invalid request"))
	case errors.Is(err, appErr.ErrTooMany):
		response.Error(c, http.StatusTooManyRequests, errcode.ErrTooMany, "too many requests")
	default:
		response.Error(c, http.StatusInternalServerError, errcode.ErrAnalysisFailed, "analysis failed: "+err.Error())
	}
}
