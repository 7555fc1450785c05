package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
)

// ListReturns returns return records newest first.
func (h *WorkspaceHandler) ListReturns(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	ws, err := h.svc.Snapshot(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]returnView, 0, len(ws.ReturnHistory))
	for _, rec := range ws.ReturnHistory {
		views = append(views, newReturnView(ws, rec))
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Date.After(views[j].Date) })
	c.JSON(http.StatusOK, views)
}

func (h *WorkspaceHandler) GetReturn(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	ws, err := h.svc.Snapshot(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}

	idx := ws.FindReturn(id)
	if idx < 0 {
		fail(c, apperror.NewNotFound("return record", id))
		return
	}
	c.JSON(http.StatusOK, newReturnView(ws, ws.ReturnHistory[idx]))
}

func (h *WorkspaceHandler) CreateReturn(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req returnRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		fail(c, err)
		return
	}

	rec, err := h.svc.CreateReturn(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newReturnView(h.snapshot(c, uid), rec))
}

func (h *WorkspaceHandler) UpdateReturn(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var req returnRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		fail(c, err)
		return
	}

	rec, err := h.svc.EditReturn(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newReturnView(h.snapshot(c, uid), rec))
}

func (h *WorkspaceHandler) DeleteReturn(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.svc.DeleteReturn(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
