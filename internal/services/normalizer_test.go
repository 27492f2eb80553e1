package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	apperrors "sales-insights/internal/errors"
	"sales-insights/internal/models"
)

func rawOrder(id int, date string, sales, profit int64) models.RawOrder {
	return models.RawOrder{
		OrderID:      id,
		CustomerName: "Alice",
		ProductName:  "Smartphone",
		Category:     "Electronics",
		Region:       "North",
		OrderDate:    date,
		Sales:        decimal.NewFromInt(sales),
		Profit:       decimal.NewFromInt(profit),
		Quantity:     1,
	}
}

// rawFrom turns a normalized order back into its raw form, for
// round-trip checks.
func rawFrom(o models.Order) models.RawOrder {
	return models.RawOrder{
		OrderID:      o.OrderID,
		CustomerName: o.CustomerName,
		ProductName:  o.ProductName,
		Category:     o.Category,
		Region:       o.Region,
		OrderDate:    o.OrderDate.Format("2006-01-02"),
		Sales:        o.Sales,
		Profit:       o.Profit,
		Quantity:     o.Quantity,
	}
}

func TestNormalize_DerivedFields(t *testing.T) {
	orders, dupes, err := Normalize([]models.RawOrder{rawOrder(1, "2023-02-10", 20000, 3000)})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if dupes != 0 {
		t.Errorf("expected 0 duplicates, got %d", dupes)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	o := orders[0]
	if o.Month != 2 || o.MonthName != "February" || o.Year != 2023 {
		t.Errorf("derived calendar fields wrong: month=%d name=%s year=%d", o.Month, o.MonthName, o.Year)
	}
	if !o.ProfitMargin.Valid {
		t.Fatal("margin should be defined for non-zero sales")
	}
	if got, want := o.ProfitMargin.Value, 15.0; got != want {
		t.Errorf("margin = %v, want %v", got, want)
	}
}

func TestNormalize_MalformedDate(t *testing.T) {
	tests := []struct {
		name string
		date string
	}{
		{"wrong separator order", "05-01-2023"},
		{"month out of range", "2023-13-01"},
		{"free text", "January 5th"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Normalize([]models.RawOrder{rawOrder(1, tt.date, 100, 10)})
			if err == nil {
				t.Fatalf("Normalize() with date %q should fail", tt.date)
			}
			if !apperrors.Is(err, apperrors.CodeMalformedDate) {
				t.Errorf("expected MALFORMED_DATE, got %v", err)
			}
		})
	}
}

func TestNormalize_Deduplicate(t *testing.T) {
	first := rawOrder(1, "2023-01-05", 20000, 3000)
	distinct := rawOrder(2, "2023-01-05", 20000, 3000)

	orders, dupes, err := Normalize([]models.RawOrder{first, first, distinct, first})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if dupes != 2 {
		t.Errorf("expected 2 duplicates removed, got %d", dupes)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}
	// First-seen order preserved.
	if orders[0].OrderID != 1 || orders[1].OrderID != 2 {
		t.Errorf("dedup changed row order: %d, %d", orders[0].OrderID, orders[1].OrderID)
	}
}

func TestNormalize_NearDuplicatesKept(t *testing.T) {
	a := rawOrder(1, "2023-01-05", 20000, 3000)
	b := a
	b.Profit = decimal.NewFromInt(3001)

	orders, dupes, err := Normalize([]models.RawOrder{a, b})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if dupes != 0 || len(orders) != 2 {
		t.Errorf("rows differing in one field are not duplicates: dupes=%d len=%d", dupes, len(orders))
	}
}

func TestNormalize_ZeroSalesMargin(t *testing.T) {
	orders, _, err := Normalize([]models.RawOrder{rawOrder(1, "2023-01-05", 0, 500)})
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if orders[0].ProfitMargin.Valid {
		t.Error("margin must be the undefined sentinel when sales is zero")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raws := []models.RawOrder{
		rawOrder(1, "2023-01-05", 20000, 3000),
		rawOrder(2, "2023-02-10", 0, 500),
		rawOrder(3, "2024-03-01", 45000, 6000),
	}

	once, _, err := Normalize(raws)
	if err != nil {
		t.Fatalf("first Normalize() error = %v", err)
	}

	again := make([]models.RawOrder, len(once))
	for i, o := range once {
		again[i] = rawFrom(o)
	}

	twice, dupes, err := Normalize(again)
	if err != nil {
		t.Fatalf("second Normalize() error = %v", err)
	}
	if dupes != 0 {
		t.Errorf("re-normalizing removed %d rows from an already-deduplicated set", dupes)
	}
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("normalization is not idempotent (-once +twice):\n%s", diff)
	}
}
