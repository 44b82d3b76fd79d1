package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"djp.chapter42.de/printerbridge/internal/data"
	perrors "djp.chapter42.de/printerbridge/internal/errors"
	"djp.chapter42.de/printerbridge/internal/logger"
	"djp.chapter42.de/printerbridge/internal/printer"
	"djp.chapter42.de/printerbridge/internal/processor"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Printer is what the HTTP layer needs from the printer service.
type Printer interface {
	Submit(ctx context.Context, kind data.Kind, raw map[string]interface{}) (printer.Result, error)
	Action(ctx context.Context, action string) (printer.Result, error)
	Status(ctx context.Context) data.PrinterStatus
	QueueSnapshot() processor.Snapshot
	ClearQueue() int
}

// NewPrintHandler serves POST /api/print/:kind. The body is the field map of the kind.
func NewPrintHandler(p Printer) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind := data.Kind(c.Param("kind"))

		var raw map[string]interface{}
		if err := c.ShouldBindJSON(&raw); err != nil && !errors.Is(err, io.EOF) {
			renderError(c, perrors.NewInvalidJSONError(err))
			return
		}

		res, err := p.Submit(c.Request.Context(), kind, raw)
		if err != nil {
			renderError(c, err)
			return
		}

		if res.Queued {
			logger.Log.Info("Print job accepted:", zap.String("id", res.JobID), zap.String("service", res.Service))
			c.JSON(http.StatusAccepted, res)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// NewActionHandler serves POST /api/actions/:action for the payload-free printer actions.
func NewActionHandler(p Printer) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := p.Action(c.Request.Context(), c.Param("action"))
		if err != nil {
			renderError(c, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
