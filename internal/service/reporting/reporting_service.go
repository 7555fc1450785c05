package reporting

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/export/pdf"
	repo "github.com/mamadbah2/stockbook/internal/repository/sheets"
)

const (
	dateLayout         = "2006-01-02"
	inventorySheet     = "Inventory"
	inventoryDataRange = inventorySheet + "!A:F"
	recentActivitySize = 20
)

var inventoryHeader = []interface{}{"Date", "User", "Item ID", "Name", "Quantity", "Unit price"}

// WorkspaceSource reads stored workspaces.
type WorkspaceSource interface {
	Load(ctx context.Context, userID string) (*models.Workspace, error)
	ListUserIDs(ctx context.Context) ([]string, error)
}

// Service builds dashboards and inventory exports.
type Service struct {
	source WorkspaceSource
	sheets repo.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance. A nil sheets repository
// disables the Sheets export.
func NewService(source WorkspaceSource, sheets repo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, sheets: sheets, logger: logger, now: time.Now}
}

func (s *Service) load(ctx context.Context, userID string) (*models.Workspace, error) {
	ws, err := s.source.Load(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load workspace", zap.String("user_id", userID), zap.Error(err))
		return nil, apperror.NewPersistence(err)
	}
	return ws, nil
}

// Dashboard summarizes the user's workspace.
func (s *Service) Dashboard(ctx context.Context, userID string) (models.DashboardSummary, error) {
	ws, err := s.load(ctx, userID)
	if err != nil {
		return models.DashboardSummary{}, err
	}
	return Summarize(ws), nil
}

// Summarize aggregates stock totals and the most recent activity. Bonus
// units are not counted as sold or returned.
func Summarize(ws *models.Workspace) models.DashboardSummary {
	summary := models.DashboardSummary{
		TotalItems:  len(ws.Inventory),
		StockValue:  decimal.Zero,
		LastUpdated: ws.LastUpdated,
	}

	for _, item := range ws.Inventory {
		summary.TotalStock += item.Quantity
		summary.StockValue = summary.StockValue.Add(item.Value())
	}

	activity := make([]models.ActivityEntry, 0, len(ws.Invoices)+len(ws.ReturnHistory)+len(ws.RuinedItems))
	for _, inv := range ws.Invoices {
		lines := make([]models.ActivityLine, 0, len(inv.Lines))
		for _, line := range inv.Lines {
			summary.TotalSold += line.OrderedQty
			lines = append(lines, models.ActivityLine{
				ItemID:   line.ItemID,
				Name:     ws.ItemName(line.ItemID),
				Quantity: line.OrderedQty,
				BonusQty: line.BonusQty,
			})
		}
		activity = append(activity, models.ActivityEntry{
			ID: inv.ID, Kind: models.ActivitySale, CustomerName: inv.CustomerName,
			Date: inv.Date, Lines: lines, Total: inv.Total,
		})
	}
	for _, rec := range ws.ReturnHistory {
		lines := make([]models.ActivityLine, 0, len(rec.Lines))
		for _, line := range rec.Lines {
			summary.TotalReturned += line.ReturnedQty
			lines = append(lines, models.ActivityLine{
				ItemID:   line.ItemID,
				Name:     ws.ItemName(line.ItemID),
				Quantity: line.ReturnedQty,
				BonusQty: line.BonusQty,
			})
		}
		activity = append(activity, models.ActivityEntry{
			ID: rec.ID, Kind: models.ActivityReturn, CustomerName: rec.CustomerName,
			Date: rec.Date, Lines: lines, Total: rec.Total,
		})
	}
	for _, r := range ws.RuinedItems {
		summary.TotalRuined += r.RuinedQty
		activity = append(activity, models.ActivityEntry{
			ID:    r.ID,
			Kind:  models.ActivityRuined,
			Date:  r.Date,
			Lines: []models.ActivityLine{{ItemID: r.ItemID, Name: ws.ItemName(r.ItemID), Quantity: r.RuinedQty}},
			Total: r.UnitPrice.Mul(decimal.NewFromInt(int64(r.RuinedQty))),
		})
	}

	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Date.After(activity[j].Date)
	})
	if len(activity) > recentActivitySize {
		activity = activity[:recentActivitySize]
	}
	summary.RecentActivity = activity

	return summary
}

// InventoryRows formats one export row per item:
// date, user id, item id, name, quantity, unit price.
func InventoryRows(ws *models.Workspace, at time.Time) [][]interface{} {
	rows := make([][]interface{}, 0, len(ws.Inventory))
	date := at.Format(dateLayout)
	for _, item := range ws.Inventory {
		rows = append(rows, []interface{}{
			date,
			ws.UserID,
			fmt.Sprint(int64(item.ID)),
			item.Name,
			item.Quantity,
			item.UnitPrice.String(),
		})
	}
	return rows
}

// SheetsEnabled reports whether a Sheets repository is configured.
func (s *Service) SheetsEnabled() bool {
	return s.sheets != nil
}

// ExportToSheets appends the user's inventory to the spreadsheet and returns
// the number of rows written.
func (s *Service) ExportToSheets(ctx context.Context, userID string) (int, error) {
	if s.sheets == nil {
		return 0, apperror.NewValidation("Google Sheets export is not configured")
	}
	ws, err := s.load(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := s.sheets.EnsureHeader(ctx, inventorySheet, inventoryHeader); err != nil {
		s.logger.Error("sheets header check failed", zap.Error(err))
		return 0, apperror.NewInternal(err)
	}

	rows := InventoryRows(ws, s.now())
	if err := s.sheets.AppendRows(ctx, inventoryDataRange, rows); err != nil {
		s.logger.Error("sheets export failed", zap.String("user_id", userID), zap.Error(err))
		return 0, apperror.NewInternal(err)
	}

	s.logger.Info("inventory exported to sheets", zap.String("user_id", userID), zap.Int("rows", len(rows)))
	return len(rows), nil
}

// ExportAll exports every stored workspace. Failures are logged and the
// remaining users are still exported; the first error is returned.
func (s *Service) ExportAll(ctx context.Context) error {
	ids, err := s.source.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("list workspaces: %w", err)
	}

	var firstErr error
	for _, id := range ids {
		if _, err := s.ExportToSheets(ctx, id); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WriteInventoryPDF renders the user's inventory as a PDF.
func (s *Service) WriteInventoryPDF(ctx context.Context, userID string, w io.Writer) error {
	ws, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := pdf.WriteInventory(w, "Inventory", ws.Inventory, s.now()); err != nil {
		return apperror.NewInternal(err)
	}
	return nil
}
