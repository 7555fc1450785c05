package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReportHandler exposes the dashboard and inventory exports.
type ReportHandler struct {
	svc    ReportingService
	logger *zap.Logger
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportingService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{svc: svc, logger: logger}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	summary, err := h.svc.Dashboard(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) InventoryPDF(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.svc.WriteInventoryPDF(c.Request.Context(), uid, &buf); err != nil {
		fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "inventory_total.pdf"))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *ReportHandler) ExportSheets(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	rows, err := h.svc.ExportToSheets(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}
