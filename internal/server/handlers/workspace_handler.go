package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/server/middleware"
)

const streamHeartbeat = 25 * time.Second

// WorkspaceHandler exposes the workspace, inventory, invoice, return and
// spoilage endpoints of the signed-in account.
type WorkspaceHandler struct {
	svc       WorkspaceService
	logger    *zap.Logger
	heartbeat time.Duration
}

// NewWorkspaceHandler constructs the HTTP handler adapter.
func NewWorkspaceHandler(svc WorkspaceService, logger *zap.Logger) *WorkspaceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkspaceHandler{svc: svc, logger: logger, heartbeat: streamHeartbeat}
}

func userID(c *gin.Context) (string, bool) {
	principal := middleware.Principal(c)
	if principal == nil {
		fail(c, apperror.NewUnauthorized("authentication required"))
		return "", false
	}
	return principal.UserID, true
}

// snapshot loads the workspace for a response. A failed read after a
// committed write only loses the resolved item names.
func (h *WorkspaceHandler) snapshot(c *gin.Context, uid string) *models.Workspace {
	ws, err := h.svc.Snapshot(c.Request.Context(), uid)
	if err != nil {
		h.logger.Warn("could not reload workspace for response", zap.String("user_id", uid), zap.Error(err))
		return models.NewWorkspace(uid)
	}
	return ws
}

func (h *WorkspaceHandler) GetWorkspace(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	ws, err := h.svc.Snapshot(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

// Stream pushes the current workspace and every later commit as
// Server-Sent Events.
func (h *WorkspaceHandler) Stream(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	updates, err := h.svc.Subscribe(ctx, uid)
	if err != nil {
		fail(c, err)
		return
	}
	current, err := h.svc.Snapshot(ctx, uid)
	if err != nil {
		fail(c, err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("workspace", current)
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	h.logger.Debug("workspace stream opened", zap.String("user_id", uid))
	c.Stream(func(io.Writer) bool {
		select {
		case ws, open := <-updates:
			if !open {
				return false
			}
			c.SSEvent("workspace", ws)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.Unix())
			return true
		case <-ctx.Done():
			return false
		}
	})
	h.logger.Debug("workspace stream closed", zap.String("user_id", uid))
}

// Sync rewrites the stored document with a fresh timestamp.
func (h *WorkspaceHandler) Sync(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	ws, err := h.svc.Sync(c.Request.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}

func (h *WorkspaceHandler) Reset(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	ws, err := h.svc.Reset(c.Request.Context(), uid, c.GetHeader(HeaderOperatorPassword))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ws)
}
