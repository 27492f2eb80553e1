package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "sales-insights/internal/errors"
	"sales-insights/internal/models"
)

const dateLayout = "2006-01-02"

// Normalize turns raw rows into well-typed orders: it parses dates
// strictly, derives the calendar fields and the per-record profit
// margin, and removes exact duplicates (all fields, derived included)
// keeping the first-seen row. The returned count is the number of
// duplicates dropped.
//
// Derivation is deterministic, so running Normalize over rows that
// were already normalized once yields the same orders and removes
// nothing.
func Normalize(raws []models.RawOrder) ([]models.Order, int, error) {
	orders := make([]models.Order, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	duplicates := 0

	for i, raw := range raws {
		date, err := time.Parse(dateLayout, raw.OrderDate)
		if err != nil {
			return nil, 0, apperrors.MalformedDate(err, i+1, raw.OrderDate)
		}

		order := models.Order{
			OrderID:      raw.OrderID,
			CustomerName: raw.CustomerName,
			ProductName:  raw.ProductName,
			Category:     raw.Category,
			Region:       raw.Region,
			OrderDate:    date,
			Sales:        raw.Sales,
			Profit:       raw.Profit,
			Quantity:     raw.Quantity,
			Month:        int(date.Month()),
			MonthName:    date.Month().String(),
			Year:         date.Year(),
			ProfitMargin: models.PercentOf(raw.Profit, raw.Sales),
		}

		key := identityKey(order)
		if _, dup := seen[key]; dup {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
		orders = append(orders, order)
	}

	return orders, duplicates, nil
}

// identityKey covers every normalized field so that two rows are
// duplicates only when identical in all of them.
func identityKey(o models.Order) string {
	margin := "undefined"
	if o.ProfitMargin.Valid {
		margin = strconv.FormatFloat(o.ProfitMargin.Value, 'g', -1, 64)
	}
	return strings.Join([]string{
		strconv.Itoa(o.OrderID),
		o.CustomerName,
		o.ProductName,
		o.Category,
		o.Region,
		o.OrderDate.Format(dateLayout),
		o.Sales.String(),
		o.Profit.String(),
		strconv.Itoa(o.Quantity),
		fmt.Sprintf("%d|%s|%d", o.Month, o.MonthName, o.Year),
		margin,
	}, "\x1f")
}
