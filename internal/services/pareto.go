package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	apperrors "sales-insights/internal/errors"
	"sales-insights/internal/models"
)

var (
	hundred         = decimal.NewFromInt(100)
	paretoThreshold = decimal.NewFromInt(80)
)

// Pareto builds the 80/20 concentration curve for a metric over a
// dimension: group, sum, sort descending (ties keep first-seen group
// order), then compute per-item share of the grand total and the
// running cumulative share.
//
// An item is in the head while the cumulative share up to and
// including it is <= 80; the first item that pushes cumulative past 80
// already belongs to the tail. The head's summed contribution
// therefore usually lands slightly below 80% — that one-sided boundary
// is intentional and must not be rounded into a symmetric split. A
// single group above 80% leaves the head empty.
func Pareto(orders []models.Order, dim Dimension, metric Metric) (models.ParetoResult, error) {
	result := models.ParetoResult{
		Dimension: string(dim),
		Metric:    string(metric),
	}

	type group struct {
		key   string
		value decimal.Decimal
	}
	index := make(map[string]int)
	groups := make([]group, 0)

	for _, o := range orders {
		key := dim.valueOf(o)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, group{key: key})
		}
		groups[i].value = groups[i].value.Add(metric.valueOf(o))
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].value.GreaterThan(groups[j].value)
	})

	total := decimal.Zero
	for _, g := range groups {
		total = total.Add(g.value)
	}
	if total.IsZero() {
		return result, apperrors.UndefinedDivision(fmt.Sprintf("total %s is zero, shares are undefined", metric))
	}

	items := make([]models.ParetoItem, len(groups))
	cumulative := decimal.Zero
	headOpen := true

	for i, g := range groups {
		share := g.value.Div(total).Mul(hundred)
		cumulative = cumulative.Add(share)

		if headOpen && cumulative.LessThanOrEqual(paretoThreshold) {
			result.HeadCount++
		} else {
			headOpen = false
		}

		shareF, _ := share.Float64()
		cumulativeF, _ := cumulative.Float64()
		items[i] = models.ParetoItem{
			Key:        g.key,
			Value:      g.value,
			Share:      shareF,
			Cumulative: cumulativeF,
			Head:       i < result.HeadCount,
		}
	}

	result.Items = items
	return result, nil
}
