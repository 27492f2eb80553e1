package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"sales-insights/internal/models"
)

type fixtureRow struct {
	id       int
	customer string
	product  string
	category string
	region   string
	date     string
	sales    int64
	profit   int64
	quantity int
}

// The deterministic sample dataset written when no source exists.
// Totals: Sales 158000, Profit 23300, Quantity 9.
var fixtureRows = []fixtureRow{
	{1, "Alice", "Smartphone", "Electronics", "North", "2023-01-05", 20000, 3000, 1},
	{2, "Bob", "Laptop", "Electronics", "South", "2023-01-12", 55000, 8000, 1},
	{3, "Charlie", "Desk", "Furniture", "East", "2023-01-20", 15000, 2500, 1},
	{4, "Diana", "Chair", "Furniture", "West", "2023-02-02", 7000, 1200, 2},
	{5, "Edward", "Blender", "Home & Garden", "North", "2023-02-10", 4000, 600, 1},
	{6, "Frank", "Headphones", "Electronics", "South", "2023-02-18", 3000, 500, 1},
	{7, "Grace", "TV", "Electronics", "East", "2023-03-01", 45000, 6000, 1},
	{8, "Helen", "Coffee Table", "Furniture", "West", "2023-03-09", 9000, 1500, 1},
}

// FixtureOrders returns the sample dataset as raw rows, identical to
// what EnsureFixture writes.
func FixtureOrders() []models.RawOrder {
	orders := make([]models.RawOrder, len(fixtureRows))
	for i, r := range fixtureRows {
		orders[i] = models.RawOrder{
			OrderID:      r.id,
			CustomerName: r.customer,
			ProductName:  r.product,
			Category:     r.category,
			Region:       r.region,
			OrderDate:    r.date,
			Sales:        decimal.NewFromInt(r.sales),
			Profit:       decimal.NewFromInt(r.profit),
			Quantity:     r.quantity,
		}
	}
	return orders
}

// EnsureFixture writes the sample dataset to path unless a file is
// already there. Callers opt into this side effect explicitly; Load
// itself never creates files.
func EnsureFixture(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat fixture path: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create fixture directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fixture: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(requiredColumns); err != nil {
		return fmt.Errorf("write fixture header: %w", err)
	}
	for _, r := range fixtureRows {
		record := []string{
			strconv.Itoa(r.id),
			r.customer,
			r.product,
			r.category,
			r.region,
			r.date,
			strconv.FormatInt(r.sales, 10),
			strconv.FormatInt(r.profit, 10),
			strconv.Itoa(r.quantity),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write fixture row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
