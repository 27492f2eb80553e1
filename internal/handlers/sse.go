package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"sales-insights/internal/config"
	"sales-insights/internal/models"
	"sales-insights/internal/services"
)

var kpiTemplate = template.Must(template.New("kpis").Parse(`
<div id="kpi-content">
<div class="kpi-grid">
<div class="kpi-card"><span>Total Sales</span><strong>Rs {{.TotalSales}}</strong></div>
<div class="kpi-card"><span>Total Profit</span><strong>Rs {{.TotalProfit}}</strong></div>
<div class="kpi-card"><span>Orders</span><strong>{{.TotalOrders}}</strong></div>
<div class="kpi-card"><span>Quantity</span><strong>{{.TotalQuantity}}</strong></div>
<div class="kpi-card"><span>Avg Order Value</span><strong>Rs {{.AverageOrderValue}}</strong></div>
<div class="kpi-card"><span>Profit Margin</span><strong>{{.OverallMargin}}</strong></div>
</div>
</div>`))

var paretoTemplate = template.Must(template.New("pareto").Parse(`
<div id="pareto-content">
<table class="modern-table">
<thead><tr><th></th><th>Item</th><th>Value</th><th>Share</th><th>Cumulative</th></tr></thead>
<tbody>
{{range .Items}}<tr{{if .Head}} class="pareto-head"{{end}}>
<td>{{if .Head}}HEAD{{else}}tail{{end}}</td>
<td>{{.Key}}</td>
<td>{{.Value}}</td>
<td>{{printf "%.2f" .Share}}%</td>
<td>{{printf "%.2f" .Cumulative}}%</td>
</tr>{{end}}
</tbody>
</table>
</div>`))

// filterSignals mirrors the dashboard's filter panel signals.
type filterSignals struct {
	From       string   `json:"from"`
	To         string   `json:"to"`
	Regions    []string `json:"regions"`
	Categories []string `json:"categories"`
	Dimension  string   `json:"paretoDimension"`
	Metric     string   `json:"paretoMetric"`
}

func (s filterSignals) filter() (services.Filter, error) {
	var filter services.Filter
	if s.From != "" {
		t, err := time.Parse(dateParamLayout, s.From)
		if err != nil {
			return filter, fmt.Errorf("parse from date: %w", err)
		}
		filter.From = t
	}
	if s.To != "" {
		t, err := time.Parse(dateParamLayout, s.To)
		if err != nil {
			return filter, fmt.Errorf("parse to date: %w", err)
		}
		filter.To = t
	}
	filter.Regions = s.Regions
	filter.Categories = s.Categories
	return filter, nil
}

type SSEHandlers struct {
	store  *services.Store
	data   config.DataConfig
	logger *slog.Logger
}

func NewSSEHandlers(store *services.Store, data config.DataConfig, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		store:  store,
		data:   data,
		logger: logger,
	}
}

// view resolves the dataset and applies the filter carried in the
// request's datastar signals. Filtering happens before any aggregate
// so every patched chart reflects the filtered universe.
func (h *SSEHandlers) view(r *http.Request) ([]models.Order, filterSignals, error) {
	var signals filterSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		// No signals on the initial page load; fall back to the
		// unfiltered view.
		signals = filterSignals{}
	}

	ds, err := h.store.Dataset(r.Context(), h.data.CSVFile)
	if err != nil {
		return nil, signals, err
	}
	filter, err := signals.filter()
	if err != nil {
		return nil, signals, err
	}
	return filter.Apply(ds.Orders), signals, nil
}

func (h *SSEHandlers) renderKPIs(orders []models.Order) (string, error) {
	k := services.KPIs(orders)
	view := struct {
		TotalSales, TotalProfit, AverageOrderValue string
		TotalOrders, TotalQuantity                 int
		OverallMargin                              string
	}{
		TotalSales:        k.TotalSales.StringFixed(2),
		TotalProfit:       k.TotalProfit.StringFixed(2),
		AverageOrderValue: k.AverageOrderValue.StringFixed(2),
		TotalOrders:       k.TotalOrders,
		TotalQuantity:     k.TotalQuantity,
		OverallMargin:     percentLabel(k.OverallMargin),
	}

	var buf strings.Builder
	err := kpiTemplate.Execute(&buf, view)
	return buf.String(), err
}

func percentLabel(p models.Percent) string {
	if !p.Valid {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", p.Value)
}

func (h *SSEHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	orders, _, err := h.view(r)
	if err != nil {
		h.logger.Error("resolve filtered view", "error", err)
		return
	}

	html, err := h.renderKPIs(orders)
	if err != nil {
		h.logger.Error("render kpis", "error", err)
		return
	}
	sse.PatchElements(html)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleProducts(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	orders, _, err := h.view(r)
	if err != nil {
		h.logger.Error("resolve filtered view", "error", err)
		return
	}

	h.patchSignals(sse, map[string]any{
		"productsData": services.TopProducts(orders, h.data.TopN),
	})
	sse.PatchElements(`<div id="products-content">Products chart updated</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleCustomers(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	orders, _, err := h.view(r)
	if err != nil {
		h.logger.Error("resolve filtered view", "error", err)
		return
	}

	h.patchSignals(sse, map[string]any{
		"customersData": services.TopCustomers(orders, h.data.TopN),
	})
	sse.PatchElements(`<div id="customers-content">Customers chart updated</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleBreakdown patches the regional and category pie charts in one
// event.
func (h *SSEHandlers) HandleBreakdown(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	orders, _, err := h.view(r)
	if err != nil {
		h.logger.Error("resolve filtered view", "error", err)
		return
	}

	h.patchSignals(sse, map[string]any{
		"regionsData":    services.RegionalPerformance(orders),
		"categoriesData": services.CategoryPerformance(orders),
	})
	sse.PatchElements(`<div id="breakdown-content">Breakdown charts updated</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandleTrend(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	orders, _, err := h.view(r)
	if err != nil {
		h.logger.Error("resolve filtered view", "error", err)
		return
	}

	h.patchSignals(sse, map[string]any{
		"trendData": services.MonthlyTrend(orders),
	})
	sse.PatchElements(`<div id="trend-content">Trend chart updated</div>`)

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) HandlePareto(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	orders, signals, err := h.view(r)
	if err != nil {
		h.logger.Error("resolve filtered view", "error", err)
		return
	}

	dim := services.DimProduct
	if signals.Dimension != "" {
		if parsed, err := services.ParseDimension(signals.Dimension); err == nil {
			dim = parsed
		}
	}
	metric := services.MetricSales
	if signals.Metric != "" {
		if parsed, err := services.ParseMetric(signals.Metric); err == nil {
			metric = parsed
		}
	}

	result, err := services.Pareto(orders, dim, metric)
	if err != nil {
		sse.PatchElements(`<div id="pareto-content">Pareto is undefined for the current selection</div>`)
		return
	}

	var buf strings.Builder
	if err := paretoTemplate.Execute(&buf, result); err != nil {
		h.logger.Error("render pareto table", "error", err)
		return
	}
	sse.PatchElements(buf.String())

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// HandleRefresh re-renders everything the dashboard shows for the
// current filter selection.
func (h *SSEHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	orders, _, err := h.view(r)
	if err != nil {
		h.logger.Error("resolve filtered view", "error", err)
		return
	}

	html, err := h.renderKPIs(orders)
	if err != nil {
		h.logger.Error("render kpis", "error", err)
		return
	}
	sse.PatchElements(html)

	h.patchSignals(sse, map[string]any{
		"productsData":   services.TopProducts(orders, h.data.TopN),
		"customersData":  services.TopCustomers(orders, h.data.TopN),
		"regionsData":    services.RegionalPerformance(orders),
		"categoriesData": services.CategoryPerformance(orders),
		"trendData":      services.MonthlyTrend(orders),
	})

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (h *SSEHandlers) patchSignals(sse *datastar.ServerSentEventGenerator, signals map[string]any) {
	data, err := json.Marshal(signals)
	if err != nil {
		h.logger.Error("marshal signals", "error", err)
		return
	}
	sse.PatchSignals(data)
}
