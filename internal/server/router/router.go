package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/server/handlers"
	"github.com/mamadbah2/stockbook/internal/server/middleware"
)

// Handlers groups the HTTP handler adapters.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Workspace *handlers.WorkspaceHandler
	Report    *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, auth middleware.Authenticator, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.ErrorHandler(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	public := api.Group("/auth")
	public.POST("/signup", h.Auth.SignUp)
	public.POST("/signin", h.Auth.SignIn)
	public.POST("/signin/federated", h.Auth.SignInFederated)

	protected := api.Group("")
	protected.Use(middleware.Auth(auth))

	protected.POST("/auth/signout", h.Auth.SignOut)
	protected.GET("/auth/session", h.Auth.Session)

	protected.GET("/workspace", h.Workspace.GetWorkspace)
	protected.GET("/workspace/stream", h.Workspace.Stream)
	protected.POST("/workspace/sync", h.Workspace.Sync)
	protected.POST("/workspace/reset", h.Workspace.Reset)

	protected.GET("/inventory", h.Workspace.ListInventory)
	protected.POST("/inventory", h.Workspace.CreateItem)
	protected.GET("/inventory/export.pdf", h.Report.InventoryPDF)
	protected.POST("/inventory/export/sheets", h.Report.ExportSheets)
	protected.PUT("/inventory/:id", h.Workspace.UpdateItem)
	protected.DELETE("/inventory/:id", h.Workspace.DeleteItem)

	protected.GET("/invoices", h.Workspace.ListInvoices)
	protected.POST("/invoices", h.Workspace.CreateInvoice)
	protected.GET("/invoices/:id", h.Workspace.GetInvoice)
	protected.PUT("/invoices/:id", h.Workspace.UpdateInvoice)
	protected.DELETE("/invoices/:id", h.Workspace.DeleteInvoice)

	protected.GET("/returns", h.Workspace.ListReturns)
	protected.POST("/returns", h.Workspace.CreateReturn)
	protected.GET("/returns/:id", h.Workspace.GetReturn)
	protected.PUT("/returns/:id", h.Workspace.UpdateReturn)
	protected.DELETE("/returns/:id", h.Workspace.DeleteReturn)

	protected.GET("/spoilage", h.Workspace.ListSpoilage)
	protected.POST("/spoilage", h.Workspace.RecordSpoilage)

	protected.GET("/dashboard", h.Report.Dashboard)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}
