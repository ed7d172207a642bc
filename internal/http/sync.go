package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AvivElectis/electisSpace-sub002/internal/database/queue"
	"github.com/AvivElectis/electisSpace-sub002/internal/entities"
	"github.com/AvivElectis/electisSpace-sub002/internal/syncqueue"
)

// SyncController exposes the sync queue processor.
type SyncController struct {
	processor SyncProcessor
	queue     QueueReader
}

func NewSyncController(processor SyncProcessor, queue QueueReader) *SyncController {
	return &SyncController{processor: processor, queue: queue}
}

// SyncStatusResponse describes the processor and the queue backlog.
type SyncStatusResponse struct {
	Running   bool                           `json:"running"`
	Sweeping  bool                           `json:"sweeping"`
	LastSweep *syncqueue.SweepReport         `json:"last_sweep,omitempty"`
	Queue     map[entities.QueueStatus]int64 `json:"queue"`
}

// GetStatus handles GET /api/sync/status
func (sc *SyncController) GetStatus(c *gin.Context) {
	counts, err := sc.queue.CountByStatus(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "count queue items")
		return
	}

	c.JSON(http.StatusOK, SyncStatusResponse{
		Running:   sc.processor.IsRunning(),
		Sweeping:  sc.processor.IsSweeping(),
		LastSweep: sc.processor.LastResult(),
		Queue:     counts,
	})
}

// RunSweep handles POST /api/sync/run
// Runs one sweep synchronously. A sweep already underway, here or on another
// instance, is reported as 409 rather than waited for.
func (sc *SyncController) RunSweep(c *gin.Context) {
	result, err := sc.processor.Sweep(c.Request.Context())
	switch {
	case errors.Is(err, syncqueue.ErrSweepInProgress):
		respondError(c, http.StatusConflict, "sweep_in_progress", err.Error())
		return
	case errors.Is(err, syncqueue.ErrSweepLocked):
		respondError(c, http.StatusConflict, "sweep_locked", err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "sync sweep")
		return
	}

	respondSuccess(c, "sync sweep completed", result)
}

// ListQueue handles GET /api/sync/queue
// Query: status, store_id, limit, offset.
func (sc *SyncController) ListQueue(c *gin.Context) {
	status := entities.QueueStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		respondBadRequest(c, "invalid status: "+string(status))
		return
	}

	limit, offset := parseLimitOffset(c, 50, 200)
	filter := queue.ListFilter{
		Status:  status,
		StoreID: c.Query("store_id"),
		Limit:   limit,
		Offset:  offset,
	}

	items, total, err := sc.queue.List(c.Request.Context(), filter)
	if err != nil {
		respondInternalError(c, err, "list queue items")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(items)) < total,
	})
}

// ProcessItem handles POST /api/sync/queue/:id/process
func (sc *SyncController) ProcessItem(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "item id is required")
		return
	}

	err := sc.processor.ProcessItemByID(c.Request.Context(), id)
	switch {
	case errors.Is(err, syncqueue.ErrItemNotFound):
		respondError(c, http.StatusNotFound, "item_not_found", err.Error())
		return
	case errors.Is(err, syncqueue.ErrSyncDisabled):
		respondError(c, http.StatusConflict, "sync_disabled", err.Error())
		return
	case errors.Is(err, syncqueue.ErrItemBusy):
		respondError(c, http.StatusConflict, "item_busy", err.Error())
		return
	case err != nil:
		requestLogger(c).Warn("manual reprocess failed", zap.String("item_id", id), zap.Error(err))
		respondError(c, http.StatusBadGateway, "sync_failed", err.Error())
		return
	}

	respondSuccess(c, "item processed", gin.H{"item_id": id})
}
