package handlers

import (
	"context"
	"io"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/reconcile"
	"github.com/mamadbah2/stockbook/internal/service/identity"
)

// AuthService is the identity service used by AuthHandler.
type AuthService interface {
	SignUp(ctx context.Context, creds models.Credentials) (*models.Session, error)
	SignIn(ctx context.Context, creds models.Credentials) (*models.Session, error)
	SignInFederated(ctx context.Context, creds models.FederatedCredentials) (*models.Session, error)
	SignOut(ctx context.Context, p *identity.Principal) error
}

// WorkspaceService is the workspace controller used by WorkspaceHandler.
type WorkspaceService interface {
	Snapshot(ctx context.Context, userID string) (*models.Workspace, error)
	Subscribe(ctx context.Context, userID string) (<-chan *models.Workspace, error)
	Sync(ctx context.Context, userID string) (*models.Workspace, error)
	Reset(ctx context.Context, userID, secret string) (*models.Workspace, error)

	AddItem(ctx context.Context, userID string, in reconcile.ItemInput) (models.InventoryItem, error)
	EditItem(ctx context.Context, userID string, id models.ItemID, in reconcile.ItemUpdate, secret string) (models.InventoryItem, error)
	DeleteItem(ctx context.Context, userID string, id models.ItemID, secret string) error

	CreateInvoice(ctx context.Context, userID string, in reconcile.InvoiceInput) (models.Invoice, error)
	EditInvoice(ctx context.Context, userID string, id int64, in reconcile.InvoiceInput) (models.Invoice, error)
	DeleteInvoice(ctx context.Context, userID string, id int64) error

	CreateReturn(ctx context.Context, userID string, in reconcile.ReturnInput) (models.ReturnRecord, error)
	EditReturn(ctx context.Context, userID string, id int64, in reconcile.ReturnInput) (models.ReturnRecord, error)
	DeleteReturn(ctx context.Context, userID string, id int64) error

	RecordSpoilage(ctx context.Context, userID string, in reconcile.SpoilageInput, secret string) (models.SpoilageRecord, error)
}

// ReportingService is the reporting service used by ReportHandler.
type ReportingService interface {
	Dashboard(ctx context.Context, userID string) (models.DashboardSummary, error)
	ExportToSheets(ctx context.Context, userID string) (int, error)
	WriteInventoryPDF(ctx context.Context, userID string, w io.Writer) error
}
