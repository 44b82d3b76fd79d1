package handlers

import (
	perrors "djp.chapter42.de/printerbridge/internal/errors"
	"djp.chapter42.de/printerbridge/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func renderError(c *gin.Context, err error) {
	e := perrors.Normalize(err)
	status := perrors.HTTPStatus(e.Code)

	fields := []zap.Field{zap.String("path", c.FullPath()), zap.String("code", string(e.Code)), zap.Error(err)}
	if status >= 500 {
		logger.Log.Error("Request failed:", fields...)
	} else {
		logger.Log.Warn("Request rejected:", fields...)
	}
	c.JSON(status, e)
}
