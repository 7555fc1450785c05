package models

import "time"

// Workspace is everything one account owns. It is persisted as a single
// document keyed by the user id.
type Workspace struct {
	UserID        string           `bson:"_id" json:"userId"`
	Email         string           `bson:"email,omitempty" json:"email,omitempty"`
	Inventory     []InventoryItem  `bson:"inventory" json:"inventory"`
	Invoices      []Invoice        `bson:"invoices" json:"invoices"`
	ReturnHistory []ReturnRecord   `bson:"returnHistory" json:"returnHistory"`
	RuinedItems   []SpoilageRecord `bson:"ruinedItems" json:"ruinedItems"`
	LastUpdated   time.Time        `bson:"lastUpdated" json:"lastUpdated"`
	Version       int64            `bson:"version" json:"version"`
}

// NewWorkspace returns an empty workspace for userID.
func NewWorkspace(userID string) *Workspace {
	return &Workspace{
		UserID:        userID,
		Inventory:     []InventoryItem{},
		Invoices:      []Invoice{},
		ReturnHistory: []ReturnRecord{},
		RuinedItems:   []SpoilageRecord{},
	}
}

// Clone returns a deep copy. Mutations run against a clone and only replace
// the original once persisted.
func (w *Workspace) Clone() *Workspace {
	if w == nil {
		return nil
	}
	out := *w
	out.Inventory = append([]InventoryItem{}, w.Inventory...)
	out.Invoices = make([]Invoice, len(w.Invoices))
	for i, inv := range w.Invoices {
		inv.Lines = append([]InvoiceLine{}, inv.Lines...)
		out.Invoices[i] = inv
	}
	out.ReturnHistory = make([]ReturnRecord, len(w.ReturnHistory))
	for i, rec := range w.ReturnHistory {
		rec.Lines = append([]ReturnLine{}, rec.Lines...)
		out.ReturnHistory[i] = rec
	}
	out.RuinedItems = append([]SpoilageRecord{}, w.RuinedItems...)
	return &out
}

// Normalize replaces nil collections with empty ones so documents decoded
// from storage serialize as arrays.
func (w *Workspace) Normalize() {
	if w.Inventory == nil {
		w.Inventory = []InventoryItem{}
	}
	if w.Invoices == nil {
		w.Invoices = []Invoice{}
	}
	if w.ReturnHistory == nil {
		w.ReturnHistory = []ReturnRecord{}
	}
	if w.RuinedItems == nil {
		w.RuinedItems = []SpoilageRecord{}
	}
}

// FindInvoice returns the index of the invoice with id, or -1.
func (w *Workspace) FindInvoice(id int64) int {
	for i := range w.Invoices {
		if w.Invoices[i].ID == id {
			return i
		}
	}
	return -1
}

// FindReturn returns the index of the return record with id, or -1.
func (w *Workspace) FindReturn(id int64) int {
	for i := range w.ReturnHistory {
		if w.ReturnHistory[i].ID == id {
			return i
		}
	}
	return -1
}

// ItemName resolves an item reference; deleted items resolve to "".
func (w *Workspace) ItemName(id ItemID) string {
	for _, item := range w.Inventory {
		if item.ID == id {
			return item.Name
		}
	}
	return ""
}
