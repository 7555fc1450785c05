package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/reconcile"
)

const HeaderOperatorPassword = "X-Operator-Password"

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// parseDate accepts a calendar date or a full timestamp. Empty input yields
// the zero time, which the reconciliation rejects as missing.
func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperror.NewValidation("invalid date").WithDetail("field", "date").WithDetail("value", value)
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperror.NewValidation("invalid request body").WithDetail("error", err.Error())
	}
	return nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperror.NewValidation("invalid id").WithDetail("field", name)
	}
	return id, nil
}

type invoiceLineRequest struct {
	ItemID     int64 `json:"itemId"`
	OrderedQty int   `json:"orderedQty"`
	BonusQty   int   `json:"bonusQty"`
}

type invoiceRequest struct {
	CustomerName  string               `json:"customerName"`
	Date          string               `json:"date"`
	Items         []invoiceLineRequest `json:"items"`
	InvoiceNumber string               `json:"invoiceNumber"`
	ImageURL      string               `json:"imageUrl"`
	Notes         string               `json:"notes"`
}

func (r invoiceRequest) toInput() (reconcile.InvoiceInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return reconcile.InvoiceInput{}, err
	}
	lines := make([]reconcile.InvoiceLineInput, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, reconcile.InvoiceLineInput{
			ItemID:     models.ItemID(it.ItemID),
			OrderedQty: it.OrderedQty,
			BonusQty:   it.BonusQty,
		})
	}
	return reconcile.InvoiceInput{
		CustomerName:  r.CustomerName,
		Date:          date,
		Lines:         lines,
		InvoiceNumber: r.InvoiceNumber,
		ImageURL:      r.ImageURL,
		Notes:         r.Notes,
	}, nil
}

type returnLineRequest struct {
	ItemID      int64 `json:"itemId"`
	ReturnedQty int   `json:"returnedQty"`
	BonusQty    int   `json:"bonusQty"`
}

type returnRequest struct {
	CustomerName        string              `json:"customerName"`
	Date                string              `json:"date"`
	Items               []returnLineRequest `json:"items"`
	ReturnInvoiceNumber string              `json:"returnInvoiceNumber"`
	ImageURL            string              `json:"imageUrl"`
	Notes               string              `json:"notes"`
}

func (r returnRequest) toInput() (reconcile.ReturnInput, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return reconcile.ReturnInput{}, err
	}
	lines := make([]reconcile.ReturnLineInput, 0, len(r.Items))
	for _, it := range r.Items {
		lines = append(lines, reconcile.ReturnLineInput{
			ItemID:      models.ItemID(it.ItemID),
			ReturnedQty: it.ReturnedQty,
			BonusQty:    it.BonusQty,
		})
	}
	return reconcile.ReturnInput{
		CustomerName:        r.CustomerName,
		Date:                date,
		Lines:               lines,
		ReturnInvoiceNumber: r.ReturnInvoiceNumber,
		ImageURL:            r.ImageURL,
		Notes:               r.Notes,
	}, nil
}

type itemRequest struct {
	Name      string           `json:"name"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice"`
}

type spoilageRequest struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

// Views resolve item names through the current inventory.

type invoiceLineView struct {
	ItemID     models.ItemID   `json:"itemId"`
	Name       string          `json:"name"`
	OrderedQty int             `json:"orderedQty"`
	BonusQty   int             `json:"bonusQty"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
}

type invoiceView struct {
	ID            int64             `json:"id"`
	Type          string            `json:"type"`
	CustomerName  string            `json:"customerName"`
	Date          time.Time         `json:"date"`
	Items         []invoiceLineView `json:"items"`
	InvoiceNumber string            `json:"invoiceNumber,omitempty"`
	ImageURL      string            `json:"imageUrl,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	Total         decimal.Decimal   `json:"total"`
}

func newInvoiceView(ws *models.Workspace, inv models.Invoice) invoiceView {
	items := make([]invoiceLineView, 0, len(inv.Lines))
	for _, l := range inv.Lines {
		items = append(items, invoiceLineView{
			ItemID: l.ItemID, Name: ws.ItemName(l.ItemID),
			OrderedQty: l.OrderedQty, BonusQty: l.BonusQty, UnitPrice: l.UnitPrice,
		})
	}
	return invoiceView{
		ID: inv.ID, Type: string(models.ActivitySale), CustomerName: inv.CustomerName, Date: inv.Date,
		Items: items, InvoiceNumber: inv.InvoiceNumber, ImageURL: inv.ImageURL, Notes: inv.Notes, Total: inv.Total,
	}
}

type returnLineView struct {
	ItemID      models.ItemID   `json:"itemId"`
	Name        string          `json:"name"`
	ReturnedQty int             `json:"returnedQty"`
	BonusQty    int             `json:"bonusQty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type returnView struct {
	ID                  int64            `json:"id"`
	Type                string           `json:"type"`
	CustomerName        string           `json:"customerName"`
	Date                time.Time        `json:"date"`
	Items               []returnLineView `json:"items"`
	ReturnInvoiceNumber string           `json:"returnInvoiceNumber,omitempty"`
	ImageURL            string           `json:"imageUrl,omitempty"`
	Notes               string           `json:"notes,omitempty"`
	Total               decimal.Decimal  `json:"total"`
}

func newReturnView(ws *models.Workspace, rec models.ReturnRecord) returnView {
	items := make([]returnLineView, 0, len(rec.Lines))
	for _, l := range rec.Lines {
		items = append(items, returnLineView{
			ItemID: l.ItemID, Name: ws.ItemName(l.ItemID),
			ReturnedQty: l.ReturnedQty, BonusQty: l.BonusQty, UnitPrice: l.UnitPrice,
		})
	}
	return returnView{
		ID: rec.ID, Type: string(models.ActivityReturn), CustomerName: rec.CustomerName, Date: rec.Date,
		Items: items, ReturnInvoiceNumber: rec.ReturnInvoiceNumber, ImageURL: rec.ImageURL, Notes: rec.Notes, Total: rec.Total,
	}
}

type spoilageView struct {
	models.SpoilageRecord
	Name string `json:"name"`
}

func newSpoilageView(ws *models.Workspace, rec models.SpoilageRecord) spoilageView {
	return spoilageView{SpoilageRecord: rec, Name: ws.ItemName(rec.ItemID)}
}
