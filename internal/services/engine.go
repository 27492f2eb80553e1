package services

import (
	"sort"

	"github.com/shopspring/decimal"

	"sales-insights/internal/models"
)

// Summarize groups orders by a dimension and sums Sales, Profit and
// Quantity per group, counting contributing orders. Margins are
// computed from the summed values afterwards, never averaged per row.
// The result is sorted descending by summed Sales; ties keep the
// first-seen group order, so the output is reproducible bit-for-bit
// for a given input.
func Summarize(orders []models.Order, dim Dimension) []models.DimensionSummary {
	index := make(map[string]int)
	rows := make([]models.DimensionSummary, 0)

	for _, o := range orders {
		key := dim.valueOf(o)
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, models.DimensionSummary{Key: key})
		}
		row := &rows[i]
		row.Sales = row.Sales.Add(o.Sales)
		row.Profit = row.Profit.Add(o.Profit)
		row.Quantity += o.Quantity
		row.Orders++
	}

	for i := range rows {
		rows[i].ProfitMargin = models.PercentOf(rows[i].Profit, rows[i].Sales)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Sales.GreaterThan(rows[j].Sales)
	})

	return rows
}

// TopN returns the first n rows of an already-sorted summary. A
// non-positive n yields an empty result; an oversized n returns all
// rows.
func TopN(rows []models.DimensionSummary, n int) []models.DimensionSummary {
	if n <= 0 {
		return []models.DimensionSummary{}
	}
	if n >= len(rows) {
		return rows
	}
	return rows[:n]
}

// TopProducts ranks products by summed Sales.
func TopProducts(orders []models.Order, n int) []models.DimensionSummary {
	return TopN(Summarize(orders, DimProduct), n)
}

// TopCustomers ranks customers by summed Sales.
func TopCustomers(orders []models.Order, n int) []models.DimensionSummary {
	return TopN(Summarize(orders, DimCustomer), n)
}

// RegionalPerformance summarizes by region and attaches each region's
// share of the total Sales in the input set.
func RegionalPerformance(orders []models.Order) []models.DimensionSummary {
	return withSalesShare(Summarize(orders, DimRegion))
}

// CategoryPerformance summarizes by category with Sales shares.
func CategoryPerformance(orders []models.Order) []models.DimensionSummary {
	return withSalesShare(Summarize(orders, DimCategory))
}

// withSalesShare computes each row's percentage of the total summed
// Sales. The total is taken over the rows themselves, so shares always
// reflect the filtered universe the summary was built from.
func withSalesShare(rows []models.DimensionSummary) []models.DimensionSummary {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Sales)
	}
	for i := range rows {
		rows[i].SalesShare = models.PercentOf(rows[i].Sales, total)
	}
	return rows
}

// MonthlyTrend groups by the (Year, Month) pair so that multi-year
// data never conflates same-numbered months, and orders the result
// chronologically ascending for trend rendering. This deliberately
// differs from the descending-by-Sales order used elsewhere.
func MonthlyTrend(orders []models.Order) []models.MonthlySummary {
	index := make(map[int]int)
	rows := make([]models.MonthlySummary, 0)

	for _, o := range orders {
		key := o.Year*100 + o.Month
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, models.MonthlySummary{
				Year:      o.Year,
				Month:     o.Month,
				MonthName: o.MonthName,
			})
		}
		row := &rows[i]
		row.Sales = row.Sales.Add(o.Sales)
		row.Profit = row.Profit.Add(o.Profit)
		row.Quantity += o.Quantity
		row.Orders++
	}

	for i := range rows {
		rows[i].ProfitMargin = models.PercentOf(rows[i].Profit, rows[i].Sales)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})

	return rows
}
