package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/reconcile"
)

func (h *WorkspaceHandler) ListInventory(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	ws, err := h.svc.Snapshot(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ws.Inventory)
}

func (h *WorkspaceHandler) CreateItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req itemRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	price := decimal.Zero
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}
	item, err := h.svc.AddItem(c.Request.Context(), uid, reconcile.ItemInput{
		Name:      req.Name,
		Quantity:  req.Quantity,
		UnitPrice: price,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *WorkspaceHandler) UpdateItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var req itemRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	item, err := h.svc.EditItem(c.Request.Context(), uid, models.ItemID(id), reconcile.ItemUpdate{
		Name:      req.Name,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	}, c.GetHeader(HeaderOperatorPassword))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *WorkspaceHandler) DeleteItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.svc.DeleteItem(c.Request.Context(), uid, models.ItemID(id), c.GetHeader(HeaderOperatorPassword)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
