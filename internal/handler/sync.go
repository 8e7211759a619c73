package handler

import (
	"errors"
	"net/http"

	"github.com/AngelP17/ticketing/internal/errs"
	"github.com/AngelP17/ticketing/internal/etl"
	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	syncer *etl.Syncer
}

func NewSyncHandler(syncer *etl.Syncer) *SyncHandler {
	return &SyncHandler{syncer: syncer}
}

// Run запускает синхронизацию книги с базой и возвращает отчёт. 409, если
// синхронизация уже идёт; детали ошибок источника/стора наружу не утекают.
func (h *SyncHandler) Run(c *gin.Context) {
	report, err := h.syncer.Run(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrSyncInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": "sync already in progress"})
		case errors.Is(err, errs.ErrSourceUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "spreadsheet unavailable, nothing was synced"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed, no rows were applied"})
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
