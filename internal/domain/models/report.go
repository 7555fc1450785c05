package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityKind tags an entry of the recent activity feed.
type ActivityKind string

const (
	ActivitySale   ActivityKind = "sale"
	ActivityReturn ActivityKind = "return"
	ActivityRuined ActivityKind = "ruined"
)

// ActivityLine is a resolved line of an activity entry.
type ActivityLine struct {
	ItemID   ItemID `json:"itemId"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	BonusQty int    `json:"bonusQty,omitempty"`
}

// ActivityEntry is one sale, return or spoilage event for the dashboard.
type ActivityEntry struct {
	ID           int64           `json:"id"`
	Kind         ActivityKind    `json:"type"`
	CustomerName string          `json:"customerName"`
	Date         time.Time       `json:"date"`
	Lines        []ActivityLine  `json:"items"`
	Total        decimal.Decimal `json:"total"`
}

// DashboardSummary aggregates a workspace for the home page.
type DashboardSummary struct {
	TotalItems     int             `json:"totalItems"`
	TotalStock     int             `json:"totalStock"`
	TotalSold      int             `json:"totalSold"`
	TotalReturned  int             `json:"totalReturned"`
	TotalRuined    int             `json:"totalRuined"`
	StockValue     decimal.Decimal `json:"stockValue"`
	RecentActivity []ActivityEntry `json:"recentActivity"`
	LastUpdated    time.Time       `json:"lastUpdated"`
}
