// Package pdf renders inventory reports with gofpdf.
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

const (
	rowHeight = 7.0
	margin    = 12.0
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"#", 12, "C"},
	{"Item", 80, "L"},
	{"Quantity", 28, "R"},
	{"Unit price", 32, "R"},
	{"Value", 34, "R"},
}

// WriteInventory writes a paginated inventory table with totals to w.
func WriteInventory(w io.Writer, title string, items []models.InventoryItem, generatedAt time.Time) error {
	doc := render(title, items, generatedAt)
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render inventory pdf: %w", err)
	}
	return nil
}

func render(title string, items []models.InventoryItem, generatedAt time.Time) *gofpdf.Fpdf {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, 15)
	doc.AliasNbPages("")
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetHeaderFunc(func() {
		doc.SetFont("Arial", "B", 14)
		doc.CellFormat(0, 10, tr(title), "", 1, "C", false, 0, "")
		doc.SetFont("Arial", "", 9)
		doc.CellFormat(0, 5, "Generated "+generatedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
		doc.Ln(3)
		tableHeader(doc)
	})
	doc.SetFooterFunc(func() {
		doc.SetY(-12)
		doc.SetFont("Arial", "I", 8)
		doc.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", doc.PageNo()), "", 0, "C", false, 0, "")
	})

	doc.AddPage()
	doc.SetFont("Arial", "", 10)

	var totalQty int
	totalValue := decimal.Zero
	for i, item := range items {
		value := item.Value()
		totalQty += item.Quantity
		totalValue = totalValue.Add(value)

		cells := []string{
			strconv.Itoa(i + 1),
			tr(item.Name),
			strconv.Itoa(item.Quantity),
			item.UnitPrice.StringFixed(2),
			value.StringFixed(2),
		}
		for c, col := range columns {
			doc.CellFormat(col.width, rowHeight, cells[c], "1", 0, col.align, false, 0, "")
		}
		doc.Ln(-1)
	}

	doc.SetFont("Arial", "B", 10)
	doc.CellFormat(columns[0].width+columns[1].width, rowHeight, "Total", "1", 0, "L", true, 0, "")
	doc.CellFormat(columns[2].width, rowHeight, strconv.Itoa(totalQty), "1", 0, "R", true, 0, "")
	doc.CellFormat(columns[3].width, rowHeight, "", "1", 0, "R", true, 0, "")
	doc.CellFormat(columns[4].width, rowHeight, totalValue.StringFixed(2), "1", 1, "R", true, 0, "")

	return doc
}

func tableHeader(doc *gofpdf.Fpdf) {
	doc.SetFont("Arial", "B", 10)
	doc.SetFillColor(230, 230, 230)
	for _, col := range columns {
		doc.CellFormat(col.width, rowHeight, col.title, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)
	doc.SetFont("Arial", "", 10)
}
