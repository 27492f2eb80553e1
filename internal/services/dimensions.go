package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "sales-insights/internal/errors"
	"sales-insights/internal/models"
)

// Dimension is a categorical field used as a group-by key.
type Dimension string

const (
	DimProduct  Dimension = "product"
	DimCustomer Dimension = "customer"
	DimRegion   Dimension = "region"
	DimCategory Dimension = "category"
)

func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimProduct, DimCustomer, DimRegion, DimCategory:
		return Dimension(s), nil
	}
	return "", apperrors.BadRequest(fmt.Sprintf("unknown dimension %q", s))
}

func (d Dimension) valueOf(o models.Order) string {
	switch d {
	case DimCustomer:
		return o.CustomerName
	case DimRegion:
		return o.Region
	case DimCategory:
		return o.Category
	default:
		return o.ProductName
	}
}

// Metric is a numeric field being summed and ranked.
type Metric string

const (
	MetricSales    Metric = "sales"
	MetricProfit   Metric = "profit"
	MetricQuantity Metric = "quantity"
)

func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricSales, MetricProfit, MetricQuantity:
		return Metric(s), nil
	}
	return "", apperrors.BadRequest(fmt.Sprintf("unknown metric %q", s))
}

func (m Metric) valueOf(o models.Order) decimal.Decimal {
	switch m {
	case MetricProfit:
		return o.Profit
	case MetricQuantity:
		return decimal.NewFromInt(int64(o.Quantity))
	default:
		return o.Sales
	}
}
