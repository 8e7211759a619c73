package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *TicketHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *TicketHandler) Options(c *gin.Context) {
	opts, err := h.svc.Options(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load options"})
		return
	}
	c.JSON(http.StatusOK, opts)
}
