package handlers

import (
	"net/http"

	"djp.chapter42.de/printerbridge/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewQueueHandler(p Printer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, p.QueueSnapshot())
	}
}

// NewClearQueueHandler drops pending jobs. A job already being printed finishes.
func NewClearQueueHandler(p Printer) gin.HandlerFunc {
	return func(c *gin.Context) {
		n := p.ClearQueue()
		logger.Log.Info("Queue cleared via API", zap.Int("cleared", n))
		c.JSON(http.StatusOK, gin.H{"cleared": n})
	}
}

func NewStatusHandler(p Printer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, p.Status(c.Request.Context()))
	}
}

func NewHealthHandler(p Printer) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := p.QueueSnapshot()
		c.JSON(http.StatusOK, gin.H{"status": "ok", "queue": snap.State, "pending": snap.Length})
	}
}
