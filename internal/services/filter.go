package services

import (
	"strings"
	"time"

	"sales-insights/internal/models"
)

// Filter narrows a record set before aggregation. Date bounds are
// inclusive; a zero time means unbounded. Region and category values
// are OR-combined within a dimension and AND-combined across
// dimensions; an empty selection imposes no restriction.
type Filter struct {
	From       time.Time
	To         time.Time
	Regions    []string
	Categories []string
}

func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() && len(f.Regions) == 0 && len(f.Categories) == 0
}

// Apply returns the orders matching every constraint, in a single
// pass, preserving input order. Filtering happens upstream of any
// aggregation so that percentages reflect the filtered universe.
func (f Filter) Apply(orders []models.Order) []models.Order {
	if f.IsZero() {
		return orders
	}

	regions := toLowerSet(f.Regions)
	categories := toLowerSet(f.Categories)

	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if !f.From.IsZero() && o.OrderDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && o.OrderDate.After(f.To) {
			continue
		}
		if len(regions) > 0 && !regions[strings.ToLower(o.Region)] {
			continue
		}
		if len(categories) > 0 && !categories[strings.ToLower(o.Category)] {
			continue
		}
		out = append(out, o)
	}
	return out
}

func toLowerSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
