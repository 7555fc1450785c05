package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/reconcile"
)

func (h *WorkspaceHandler) ListSpoilage(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	ws, err := h.svc.Snapshot(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]spoilageView, 0, len(ws.RuinedItems))
	for _, rec := range ws.RuinedItems {
		views = append(views, newSpoilageView(ws, rec))
	}
	c.JSON(http.StatusOK, views)
}

// RecordSpoilage requires the spoilage secret in X-Operator-Password.
func (h *WorkspaceHandler) RecordSpoilage(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req spoilageRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	rec, err := h.svc.RecordSpoilage(c.Request.Context(), uid, reconcile.SpoilageInput{
		ItemID:   models.ItemID(req.ItemID),
		Quantity: req.Quantity,
	}, c.GetHeader(HeaderOperatorPassword))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSpoilageView(h.snapshot(c, uid), rec))
}
