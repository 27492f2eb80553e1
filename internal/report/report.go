// Package report renders analysis results as a console-style insights
// report.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"sales-insights/internal/models"
	"sales-insights/internal/services"
)

const rule = "============================================================"

// Build produces the full insights report for a dataset: KPI block,
// top-N rankings, regional and category breakdowns with shares,
// monthly trend, Pareto concentration and a short key-insights list.
func Build(ds *services.Dataset, topN int) string {
	var b strings.Builder

	orders := ds.Orders
	kpis := services.KPIs(orders)
	products := services.TopProducts(orders, topN)
	customers := services.TopCustomers(orders, topN)
	regions := services.RegionalPerformance(orders)
	categories := services.CategoryPerformance(orders)
	trend := services.MonthlyTrend(orders)

	fmt.Fprintf(&b, "%s\nSALES INSIGHTS REPORT\n%s\n", rule, rule)
	fmt.Fprintf(&b, "Source: %s (%d orders", ds.Source, len(orders))
	if ds.DuplicatesRemoved > 0 {
		fmt.Fprintf(&b, ", %d duplicates removed", ds.DuplicatesRemoved)
	}
	b.WriteString(")\n")

	writeKPIs(&b, kpis)
	writeSummaries(&b, fmt.Sprintf("Top %d Products by Revenue", topN), products, false)
	writeSummaries(&b, fmt.Sprintf("Top %d Customers by Revenue", topN), customers, false)
	writeSummaries(&b, "Regional Performance", regions, true)
	writeSummaries(&b, "Category Performance", categories, true)
	writeTrend(&b, trend)
	writePareto(&b, orders)
	writeInsights(&b, products, customers, regions, categories, trend)

	return b.String()
}

func writeKPIs(b *strings.Builder, k models.KPIReport) {
	fmt.Fprintf(b, "\nKey Performance Indicators\n%s\n", strings.Repeat("-", 40))
	fmt.Fprintf(b, "Total Sales:          Rs %s\n", money(k.TotalSales))
	fmt.Fprintf(b, "Total Profit:         Rs %s\n", money(k.TotalProfit))
	fmt.Fprintf(b, "Total Orders:         %d\n", k.TotalOrders)
	fmt.Fprintf(b, "Total Quantity Sold:  %d\n", k.TotalQuantity)
	fmt.Fprintf(b, "Average Order Value:  Rs %s\n", money(k.AverageOrderValue))
	fmt.Fprintf(b, "Overall Profit Margin: %s\n", percent(k.OverallMargin))
}

func writeSummaries(b *strings.Builder, title string, rows []models.DimensionSummary, withShare bool) {
	fmt.Fprintf(b, "\n%s\n%s\n", title, strings.Repeat("-", 40))
	if len(rows) == 0 {
		b.WriteString("(no data)\n")
		return
	}
	for _, row := range rows {
		fmt.Fprintf(b, "%-20s sales Rs %-14s profit Rs %-12s qty %-4d orders %-3d margin %s",
			row.Key, money(row.Sales), money(row.Profit), row.Quantity, row.Orders, percent(row.ProfitMargin))
		if withShare {
			fmt.Fprintf(b, "  share %s", percent(row.SalesShare))
		}
		b.WriteString("\n")
	}
}

func writeTrend(b *strings.Builder, rows []models.MonthlySummary) {
	fmt.Fprintf(b, "\nMonthly Sales Trend\n%s\n", strings.Repeat("-", 40))
	if len(rows) == 0 {
		b.WriteString("(no data)\n")
		return
	}
	for _, row := range rows {
		fmt.Fprintf(b, "%s %d: sales Rs %s, profit Rs %s, orders %d, margin %s\n",
			row.MonthName, row.Year, money(row.Sales), money(row.Profit), row.Orders, percent(row.ProfitMargin))
	}
}

func writePareto(b *strings.Builder, orders []models.Order) {
	fmt.Fprintf(b, "\nPareto Analysis (Sales by product)\n%s\n", strings.Repeat("-", 40))

	result, err := services.Pareto(orders, services.DimProduct, services.MetricSales)
	if err != nil {
		fmt.Fprintf(b, "not available: %v\n", err)
		return
	}

	head := result.Head()
	headContribution := 0.0
	for _, item := range head {
		headContribution += item.Share
	}
	fmt.Fprintf(b, "Head: %d of %d items contribute %.1f%% of sales\n",
		len(head), len(result.Items), headContribution)
	fmt.Fprintf(b, "Tail: %d items carry the remaining %.1f%%\n",
		len(result.Tail()), 100-headContribution)
	for _, item := range result.Items {
		marker := "tail"
		if item.Head {
			marker = "HEAD"
		}
		fmt.Fprintf(b, "  [%s] %-20s Rs %-14s %6.2f%%  cum %6.2f%%\n",
			marker, item.Key, money(item.Value), item.Share, item.Cumulative)
	}
}

func writeInsights(b *strings.Builder,
	products, customers, regions, categories []models.DimensionSummary,
	trend []models.MonthlySummary,
) {
	fmt.Fprintf(b, "\nKey Insights\n%s\n", strings.Repeat("-", 40))
	n := 1
	if len(products) > 0 {
		fmt.Fprintf(b, "%d. Best-selling product: %q with Rs %s in sales\n", n, products[0].Key, money(products[0].Sales))
		n++
	}
	if len(customers) > 0 {
		fmt.Fprintf(b, "%d. Top customer: %q with Rs %s in purchases\n", n, customers[0].Key, money(customers[0].Sales))
		n++
	}
	if len(regions) > 0 {
		fmt.Fprintf(b, "%d. Best performing region: %s with Rs %s (%s of total sales)\n",
			n, regions[0].Key, money(regions[0].Sales), percent(regions[0].SalesShare))
		n++
	}
	if len(categories) > 0 {
		fmt.Fprintf(b, "%d. Top category: %s with Rs %s (%s of total sales)\n",
			n, categories[0].Key, money(categories[0].Sales), percent(categories[0].SalesShare))
		n++
		if best, ok := bestMargin(categories); ok {
			fmt.Fprintf(b, "%d. Most profitable category: %s with %s margin\n", n, best.Key, percent(best.ProfitMargin))
			n++
		}
	}
	if len(trend) > 1 {
		best := trend[0]
		for _, row := range trend[1:] {
			if row.Sales.GreaterThan(best.Sales) {
				best = row
			}
		}
		fmt.Fprintf(b, "%d. Best sales month: %s %d with Rs %s\n", n, best.MonthName, best.Year, money(best.Sales))
	}
}

// bestMargin picks the row with the highest defined margin; rows with
// an undefined margin are excluded rather than treated as zero.
func bestMargin(rows []models.DimensionSummary) (models.DimensionSummary, bool) {
	var best models.DimensionSummary
	found := false
	for _, row := range rows {
		if !row.ProfitMargin.Valid {
			continue
		}
		if !found || row.ProfitMargin.Value > best.ProfitMargin.Value {
			best = row
			found = true
		}
	}
	return best, found
}

func percent(p models.Percent) string {
	if !p.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", p.Value)
}

// money renders a decimal with thousands separators and two decimals.
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	var parts []string
	for len(intPart) > 3 {
		parts = append([]string{intPart[len(intPart)-3:]}, parts...)
		intPart = intPart[:len(intPart)-3]
	}
	parts = append([]string{intPart}, parts...)
	out := strings.Join(parts, ",") + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}
