package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawOrder is a CSV row before normalization. OrderDate is still the
// string from the source; the normalizer owns date parsing.
type RawOrder struct {
	OrderID      int
	CustomerName string
	ProductName  string
	Category     string
	Region       string
	OrderDate    string
	Sales        decimal.Decimal
	Profit       decimal.Decimal
	Quantity     int
}

// Order is a normalized sales record. Derived fields (Month, MonthName,
// Year, ProfitMargin) are computed once by the normalizer and never
// mutated afterward.
type Order struct {
	OrderID      int             `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	ProductName  string          `json:"product_name"`
	Category     string          `json:"category"`
	Region       string          `json:"region"`
	OrderDate    time.Time       `json:"order_date"`
	Sales        decimal.Decimal `json:"sales"`
	Profit       decimal.Decimal `json:"profit"`
	Quantity     int             `json:"quantity"`

	Month        int     `json:"month"`
	MonthName    string  `json:"month_name"`
	Year         int     `json:"year"`
	ProfitMargin Percent `json:"profit_margin"`
}

// DimensionSummary is one aggregated row per distinct dimension value.
// ProfitMargin and SalesShare are derived from the summed values, not
// averaged per order. SalesShare is only attached for region/category
// breakdowns.
type DimensionSummary struct {
	Key      string          `json:"key"`
	Sales    decimal.Decimal `json:"sales"`
	Profit   decimal.Decimal `json:"profit"`
	Quantity int             `json:"quantity"`
	Orders   int             `json:"orders"`

	ProfitMargin Percent `json:"profit_margin"`
	SalesShare   Percent `json:"sales_share"`
}

// MonthlySummary is one row per (Year, Month) pair, so data spanning
// multiple years never conflates same-numbered months.
type MonthlySummary struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	MonthName string          `json:"month_name"`
	Sales     decimal.Decimal `json:"sales"`
	Profit    decimal.Decimal `json:"profit"`
	Quantity  int             `json:"quantity"`
	Orders    int             `json:"orders"`

	ProfitMargin Percent `json:"profit_margin"`
}

// ParetoItem is one point on the cumulative-share curve.
type ParetoItem struct {
	Key        string          `json:"key"`
	Value      decimal.Decimal `json:"value"`
	Share      float64         `json:"share"`
	Cumulative float64         `json:"cumulative"`
	Head       bool            `json:"head"`
}

// ParetoResult holds the curve sorted descending by metric value.
// Items[:HeadCount] is the head (cumulative share <= 80), the rest the
// tail; the two partitions are disjoint and exhaustive.
type ParetoResult struct {
	Dimension string       `json:"dimension"`
	Metric    string       `json:"metric"`
	Items     []ParetoItem `json:"items"`
	HeadCount int          `json:"head_count"`
}

// Head returns the items contributing the first ~80% of the metric.
func (r ParetoResult) Head() []ParetoItem { return r.Items[:r.HeadCount] }

// Tail returns the items past the 80% line.
func (r ParetoResult) Tail() []ParetoItem { return r.Items[r.HeadCount:] }

// KPIReport is the top-line summary over a (possibly filtered) record
// set. AverageOrderValue is zero when there are no orders; OverallMargin
// is the undefined sentinel when total sales is zero.
type KPIReport struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	TotalOrders       int             `json:"total_orders"`
	TotalQuantity     int             `json:"total_quantity"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	OverallMargin     Percent         `json:"overall_profit_margin"`
}
