package workspace

import (
	"context"
	"time"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/reconcile"
	"github.com/mamadbah2/stockbook/internal/service/approval"
)

// AddItem registers a new stock item.
func (s *Service) AddItem(ctx context.Context, userID string, in reconcile.ItemInput) (models.InventoryItem, error) {
	var item models.InventoryItem
	_, err := s.mutate(ctx, userID, "item.add", func(ws *models.Workspace, now time.Time) (res reconcile.Result, err error) {
		item, err = reconcile.AddItem(ws, in, now)
		return res, err
	})
	return item, err
}

// EditItem corrects an item. It requires the privileged secret.
func (s *Service) EditItem(ctx context.Context, userID string, id models.ItemID, in reconcile.ItemUpdate, secret string) (models.InventoryItem, error) {
	if err := s.authorize(approval.ActionItemEdit, secret); err != nil {
		return models.InventoryItem{}, err
	}
	var item models.InventoryItem
	_, err := s.mutate(ctx, userID, "item.edit", func(ws *models.Workspace, _ time.Time) (res reconcile.Result, err error) {
		item, err = reconcile.EditItem(ws, id, in)
		return res, err
	})
	return item, err
}

// DeleteItem removes an item. It requires the privileged secret.
func (s *Service) DeleteItem(ctx context.Context, userID string, id models.ItemID, secret string) error {
	if err := s.authorize(approval.ActionItemDelete, secret); err != nil {
		return err
	}
	_, err := s.mutate(ctx, userID, "item.delete", func(ws *models.Workspace, _ time.Time) (reconcile.Result, error) {
		return reconcile.Result{}, reconcile.DeleteItem(ws, id)
	})
	return err
}

// CreateInvoice records a sale and takes its units out of stock.
func (s *Service) CreateInvoice(ctx context.Context, userID string, in reconcile.InvoiceInput) (models.Invoice, error) {
	var invoice models.Invoice
	_, err := s.mutate(ctx, userID, "invoice.create", func(ws *models.Workspace, now time.Time) (res reconcile.Result, err error) {
		invoice, err = reconcile.CreateInvoice(ws, in, now)
		return res, err
	})
	return invoice, err
}

// EditInvoice restores the stored invoice and applies the new lines.
func (s *Service) EditInvoice(ctx context.Context, userID string, id int64, in reconcile.InvoiceInput) (models.Invoice, error) {
	var invoice models.Invoice
	_, err := s.mutate(ctx, userID, "invoice.edit", func(ws *models.Workspace, _ time.Time) (res reconcile.Result, err error) {
		invoice, res, err = reconcile.EditInvoice(ws, id, in)
		return res, err
	})
	return invoice, err
}

// DeleteInvoice removes an invoice and puts its units back.
func (s *Service) DeleteInvoice(ctx context.Context, userID string, id int64) error {
	_, err := s.mutate(ctx, userID, "invoice.delete", func(ws *models.Workspace, _ time.Time) (reconcile.Result, error) {
		return reconcile.DeleteInvoice(ws, id)
	})
	return err
}

// CreateReturn records a customer return.
func (s *Service) CreateReturn(ctx context.Context, userID string, in reconcile.ReturnInput) (models.ReturnRecord, error) {
	var record models.ReturnRecord
	_, err := s.mutate(ctx, userID, "return.create", func(ws *models.Workspace, _ time.Time) (res reconcile.Result, err error) {
		record, err = reconcile.CreateReturn(ws, in)
		return res, err
	})
	return record, err
}

// EditReturn replaces a return record and rebalances stock.
func (s *Service) EditReturn(ctx context.Context, userID string, id int64, in reconcile.ReturnInput) (models.ReturnRecord, error) {
	var record models.ReturnRecord
	_, err := s.mutate(ctx, userID, "return.edit", func(ws *models.Workspace, _ time.Time) (res reconcile.Result, err error) {
		record, res, err = reconcile.EditReturn(ws, id, in)
		return res, err
	})
	return record, err
}

// DeleteReturn removes a return unless its units were already sold.
func (s *Service) DeleteReturn(ctx context.Context, userID string, id int64) error {
	_, err := s.mutate(ctx, userID, "return.delete", func(ws *models.Workspace, _ time.Time) (reconcile.Result, error) {
		return reconcile.DeleteReturn(ws, id)
	})
	return err
}

// RecordSpoilage requires the spoilage secret.
func (s *Service) RecordSpoilage(ctx context.Context, userID string, in reconcile.SpoilageInput, secret string) (models.SpoilageRecord, error) {
	if err := s.authorize(approval.ActionSpoilage, secret); err != nil {
		return models.SpoilageRecord{}, err
	}
	var record models.SpoilageRecord
	_, err := s.mutate(ctx, userID, "spoilage.record", func(ws *models.Workspace, now time.Time) (res reconcile.Result, err error) {
		record, err = reconcile.RecordSpoilage(ws, in, now)
		return res, err
	})
	return record, err
}
