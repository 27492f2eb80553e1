package loader

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	apperrors "sales-insights/internal/errors"
	"sales-insights/internal/models"
)

const maxParseWorkers = 10

// Columns required in the source CSV, matched case-insensitively.
var requiredColumns = []string{
	"OrderID", "CustomerName", "ProductName", "Category",
	"Region", "OrderDate", "Sales", "Profit", "Quantity",
}

// Load reads raw order rows from a CSV file. The order date stays a
// string; the normalizer owns date parsing. A missing file yields a
// SourceNotFound error so callers can decide whether to fall back to
// the fixture. Load never writes to disk.
func Load(ctx context.Context, path string) ([]models.RawOrder, error) {
	start := time.Now()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.SourceNotFound(path)
		}
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.BadRequestWrap(err, "source has no header row")
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.BadRequestWrap(err, "malformed CSV body")
	}

	orders := make([]models.RawOrder, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParseWorkers)
	for i, row := range rows {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			// Row 1 is the header, so data rows start at 2.
			order, err := parseRow(cols, row, i+2)
			if err != nil {
				return err
			}
			orders[i] = order
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Default().Info("order source loaded",
		"path", path,
		"rows", len(orders),
		"duration", time.Since(start),
	)

	return orders, nil
}

// LoadOrFixture loads the source, creating the sample dataset first if
// the file does not exist. This is the only loader entry point with a
// filesystem side effect.
func LoadOrFixture(ctx context.Context, path string) ([]models.RawOrder, error) {
	orders, err := Load(ctx, path)
	if err == nil || !apperrors.Is(err, apperrors.CodeSourceNotFound) {
		return orders, err
	}

	if err := EnsureFixture(path); err != nil {
		return nil, err
	}
	return Load(ctx, path)
}

type columnIndex struct {
	orderID, customer, product, category, region, date, sales, profit, quantity int
}

func mapColumns(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := positions[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return columnIndex{}, apperrors.BadRequest(fmt.Sprintf("source is missing required columns: %s", strings.Join(missing, ", ")))
	}

	return columnIndex{
		orderID:  positions["orderid"],
		customer: positions["customername"],
		product:  positions["productname"],
		category: positions["category"],
		region:   positions["region"],
		date:     positions["orderdate"],
		sales:    positions["sales"],
		profit:   positions["profit"],
		quantity: positions["quantity"],
	}, nil
}

func parseRow(cols columnIndex, row []string, rowNum int) (models.RawOrder, error) {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	orderID, err := strconv.Atoi(field(cols.orderID))
	if err != nil {
		return models.RawOrder{}, apperrors.BadRequestWrap(err, fmt.Sprintf("row %d: invalid OrderID %q", rowNum, field(cols.orderID)))
	}

	sales, err := decimal.NewFromString(field(cols.sales))
	if err != nil {
		return models.RawOrder{}, apperrors.BadRequestWrap(err, fmt.Sprintf("row %d: invalid Sales %q", rowNum, field(cols.sales)))
	}
	if sales.IsNegative() {
		return models.RawOrder{}, apperrors.BadRequest(fmt.Sprintf("row %d: Sales must be non-negative, got %s", rowNum, sales))
	}

	profit, err := decimal.NewFromString(field(cols.profit))
	if err != nil {
		return models.RawOrder{}, apperrors.BadRequestWrap(err, fmt.Sprintf("row %d: invalid Profit %q", rowNum, field(cols.profit)))
	}

	quantity, err := strconv.Atoi(field(cols.quantity))
	if err != nil {
		return models.RawOrder{}, apperrors.BadRequestWrap(err, fmt.Sprintf("row %d: invalid Quantity %q", rowNum, field(cols.quantity)))
	}
	if quantity < 1 {
		return models.RawOrder{}, apperrors.BadRequest(fmt.Sprintf("row %d: Quantity must be positive, got %d", rowNum, quantity))
	}

	return models.RawOrder{
		OrderID:      orderID,
		CustomerName: field(cols.customer),
		ProductName:  field(cols.product),
		Category:     field(cols.category),
		Region:       field(cols.region),
		OrderDate:    field(cols.date),
		Sales:        sales,
		Profit:       profit,
		Quantity:     quantity,
	}, nil
}
