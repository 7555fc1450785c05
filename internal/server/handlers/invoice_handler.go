package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
)

// ListInvoices returns invoices newest first.
func (h *WorkspaceHandler) ListInvoices(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	ws, err := h.svc.Snapshot(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}

	views := make([]invoiceView, 0, len(ws.Invoices))
	for _, inv := range ws.Invoices {
		views = append(views, newInvoiceView(ws, inv))
	}
	sort.SliceStable(views, func(i, j int) bool { return views[i].Date.After(views[j].Date) })
	c.JSON(http.StatusOK, views)
}

func (h *WorkspaceHandler) GetInvoice(c *gin.Context) {
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

	idx := ws.FindInvoice(id)
	if idx < 0 {
		fail(c, apperror.NewNotFound("invoice", id))
		return
	}
	c.JSON(http.StatusOK, newInvoiceView(ws, ws.Invoices[idx]))
}

func (h *WorkspaceHandler) CreateInvoice(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var req invoiceRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		fail(c, err)
		return
	}

	inv, err := h.svc.CreateInvoice(c.Request.Context(), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newInvoiceView(h.snapshot(c, uid), inv))
}

func (h *WorkspaceHandler) UpdateInvoice(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}
	var req invoiceRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		fail(c, err)
		return
	}

	inv, err := h.svc.EditInvoice(c.Request.Context(), uid, id, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newInvoiceView(h.snapshot(c, uid), inv))
}

func (h *WorkspaceHandler) DeleteInvoice(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.svc.DeleteInvoice(c.Request.Context(), uid, id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
