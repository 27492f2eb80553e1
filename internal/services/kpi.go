package services

import (
	"github.com/shopspring/decimal"

	"sales-insights/internal/models"
)

// KPIs computes the top-line report over a (possibly filtered) record
// set. An empty set degrades to zero totals: average order value is
// zero when there are no orders, and the overall margin is the
// undefined sentinel when total sales is zero.
func KPIs(orders []models.Order) models.KPIReport {
	report := models.KPIReport{
		TotalSales:        decimal.Zero,
		TotalProfit:       decimal.Zero,
		AverageOrderValue: decimal.Zero,
		TotalOrders:       len(orders),
	}

	for _, o := range orders {
		report.TotalSales = report.TotalSales.Add(o.Sales)
		report.TotalProfit = report.TotalProfit.Add(o.Profit)
		report.TotalQuantity += o.Quantity
	}

	if report.TotalOrders > 0 {
		report.AverageOrderValue = report.TotalSales.Div(decimal.NewFromInt(int64(report.TotalOrders)))
	}
	report.OverallMargin = models.PercentOf(report.TotalProfit, report.TotalSales)

	return report
}
