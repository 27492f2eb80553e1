package services

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	apperrors "sales-insights/internal/errors"
	"sales-insights/internal/models"
)

func salesOrders(values map[string]int64, keys ...string) []models.Order {
	day := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := make([]models.Order, 0, len(keys))
	for _, key := range keys {
		orders = append(orders, order(key, "x", "North", "c", day, values[key], 0, 1))
	}
	return orders
}

func TestPareto_FixtureProducts(t *testing.T) {
	result, err := Pareto(fixtureOrders(t), DimProduct, MetricSales)
	if err != nil {
		t.Fatalf("Pareto() error = %v", err)
	}

	if len(result.Items) != 8 {
		t.Fatalf("expected 8 products, got %d", len(result.Items))
	}

	// Laptop 34.81% -> TV 63.29% -> Smartphone 75.95% head; the Desk
	// pushes cumulative to 85.44% and opens the tail.
	if result.HeadCount != 3 {
		t.Fatalf("head count = %d, want 3", result.HeadCount)
	}
	wantHead := []string{"Laptop", "TV", "Smartphone"}
	for i, key := range wantHead {
		if result.Items[i].Key != key {
			t.Errorf("head item %d = %s, want %s", i, result.Items[i].Key, key)
		}
	}
	if result.Items[3].Key != "Desk" || result.Items[3].Head {
		t.Errorf("Desk must be the first tail item, got %+v", result.Items[3])
	}

	headContribution := 0.0
	for _, item := range result.Head() {
		headContribution += item.Share
	}
	if headContribution > 80 {
		t.Errorf("head contribution %v must stay below the 80%% line", headContribution)
	}
}

func TestPareto_CumulativeCurve(t *testing.T) {
	result, err := Pareto(fixtureOrders(t), DimProduct, MetricSales)
	if err != nil {
		t.Fatalf("Pareto() error = %v", err)
	}

	prev := 0.0
	for i, item := range result.Items {
		if item.Cumulative < prev {
			t.Errorf("cumulative decreased at item %d: %v -> %v", i, prev, item.Cumulative)
		}
		prev = item.Cumulative
	}

	last := result.Items[len(result.Items)-1].Cumulative
	if math.Abs(last-100) > 1e-9 {
		t.Errorf("final cumulative = %v, want 100", last)
	}
}

func TestPareto_PartitionDisjointExhaustive(t *testing.T) {
	result, err := Pareto(fixtureOrders(t), DimCustomer, MetricSales)
	if err != nil {
		t.Fatalf("Pareto() error = %v", err)
	}

	head, tail := result.Head(), result.Tail()
	if len(head)+len(tail) != len(result.Items) {
		t.Fatalf("partition not exhaustive: %d + %d != %d", len(head), len(tail), len(result.Items))
	}
	for _, item := range head {
		if !item.Head {
			t.Errorf("head item %s not flagged", item.Key)
		}
	}
	for _, item := range tail {
		if item.Head {
			t.Errorf("tail item %s flagged as head", item.Key)
		}
	}
}

func TestPareto_BoundaryExactlyEighty(t *testing.T) {
	// Shares 50, 30, 20: cumulative hits exactly 80 at the second
	// item, which therefore stays in the head.
	orders := salesOrders(map[string]int64{"a": 50, "b": 30, "c": 20}, "a", "b", "c")

	result, err := Pareto(orders, DimProduct, MetricSales)
	if err != nil {
		t.Fatalf("Pareto() error = %v", err)
	}
	if result.HeadCount != 2 {
		t.Errorf("head count = %d, want 2 (cumulative exactly 80 is head)", result.HeadCount)
	}
	if math.Abs(result.Items[1].Cumulative-80) > 1e-9 {
		t.Errorf("second cumulative = %v, want exactly 80", result.Items[1].Cumulative)
	}
}

func TestPareto_FirstCrossingIsTail(t *testing.T) {
	// Shares 79, 2, 19: the 2% item lifts cumulative to 81 and must
	// fall in the tail even though the head then holds only 79%.
	orders := salesOrders(map[string]int64{"a": 79, "b": 2, "c": 19}, "a", "b", "c")

	result, err := Pareto(orders, DimProduct, MetricSales)
	if err != nil {
		t.Fatalf("Pareto() error = %v", err)
	}
	if result.HeadCount != 1 {
		t.Errorf("head count = %d, want 1", result.HeadCount)
	}
	if result.Items[1].Head {
		t.Error("the item crossing the 80% line belongs to the tail")
	}
}

func TestPareto_DominatingGroup(t *testing.T) {
	orders := salesOrders(map[string]int64{"whale": 85, "minnow": 15}, "whale", "minnow")

	result, err := Pareto(orders, DimProduct, MetricSales)
	if err != nil {
		t.Fatalf("Pareto() error = %v", err)
	}
	if result.HeadCount != 0 {
		t.Errorf("a single >80%% group leaves the head empty, got head count %d", result.HeadCount)
	}
	if len(result.Tail()) != 2 {
		t.Errorf("everything belongs to the tail, got %d items", len(result.Tail()))
	}
}

func TestPareto_TiesStayStable(t *testing.T) {
	orders := salesOrders(map[string]int64{"b": 10, "c": 10, "a": 10}, "b", "c", "a")

	result, err := Pareto(orders, DimProduct, MetricSales)
	if err != nil {
		t.Fatalf("Pareto() error = %v", err)
	}
	want := []string{"b", "c", "a"}
	for i, key := range want {
		if result.Items[i].Key != key {
			t.Errorf("item %d = %s, want %s (first-seen order on ties)", i, result.Items[i].Key, key)
		}
	}
}

func TestPareto_ZeroTotalFails(t *testing.T) {
	day := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		order("a", "x", "North", "c", day, 0, 0, 1),
		order("b", "x", "North", "c", day, 0, 0, 1),
	}

	_, err := Pareto(orders, DimProduct, MetricSales)
	if err == nil {
		t.Fatal("Pareto() over a zero total must fail explicitly")
	}
	if !apperrors.Is(err, apperrors.CodeUndefinedRatio) {
		t.Errorf("expected UNDEFINED_DIVISION, got %v", err)
	}
}

func TestPareto_QuantityMetric(t *testing.T) {
	result, err := Pareto(fixtureOrders(t), DimRegion, MetricQuantity)
	if err != nil {
		t.Fatalf("Pareto() error = %v", err)
	}

	total := decimal.Zero
	for _, item := range result.Items {
		total = total.Add(item.Value)
	}
	if !total.Equal(decimal.NewFromInt(9)) {
		t.Errorf("quantity total = %s, want 9", total)
	}
	// West sold 3 units (2 chairs + 1 coffee table) and leads.
	if result.Items[0].Key != "West" {
		t.Errorf("top region by quantity = %s, want West", result.Items[0].Key)
	}
}
