package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sales-insights/internal/config"
	"sales-insights/internal/errors"
	"sales-insights/internal/models"
	"sales-insights/internal/observability"
	"sales-insights/internal/services"
)

const dateParamLayout = "2006-01-02"

var cacheHeaders = map[string]string{
	"Cache-Control": "public, max-age=300",
}

type APIHandlers struct {
	store  *services.Store
	data   config.DataConfig
	logger *slog.Logger
}

func NewAPIHandlers(store *services.Store, data config.DataConfig, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		store:  store,
		data:   data,
		logger: logger,
	}
}

// filteredOrders resolves the dataset and applies the request's filter
// before any aggregation runs, so shares and KPIs reflect the filtered
// universe.
func (h *APIHandlers) filteredOrders(r *http.Request) ([]models.Order, error) {
	ds, err := h.store.Dataset(r.Context(), h.data.CSVFile)
	if err != nil {
		return nil, err
	}
	filter, err := filterFromQuery(r)
	if err != nil {
		return nil, err
	}
	return filter.Apply(ds.Orders), nil
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, err, observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	orders, err := h.filteredOrders(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.KPIs(orders), cacheHeaders)
}

func (h *APIHandlers) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	orders, err := h.filteredOrders(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.TopProducts(orders, h.topN(r)), cacheHeaders)
}

func (h *APIHandlers) HandleTopCustomers(w http.ResponseWriter, r *http.Request) {
	orders, err := h.filteredOrders(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.TopCustomers(orders, h.topN(r)), cacheHeaders)
}

func (h *APIHandlers) HandleRegions(w http.ResponseWriter, r *http.Request) {
	orders, err := h.filteredOrders(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.RegionalPerformance(orders), cacheHeaders)
}

func (h *APIHandlers) HandleCategories(w http.ResponseWriter, r *http.Request) {
	orders, err := h.filteredOrders(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.CategoryPerformance(orders), cacheHeaders)
}

func (h *APIHandlers) HandleTrend(w http.ResponseWriter, r *http.Request) {
	orders, err := h.filteredOrders(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, services.MonthlyTrend(orders), cacheHeaders)
}

func (h *APIHandlers) HandlePareto(w http.ResponseWriter, r *http.Request) {
	dim := services.DimProduct
	if s := r.URL.Query().Get("dimension"); s != "" {
		parsed, err := services.ParseDimension(s)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		dim = parsed
	}

	metric := services.MetricSales
	if s := r.URL.Query().Get("metric"); s != "" {
		parsed, err := services.ParseMetric(s)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		metric = parsed
	}

	orders, err := h.filteredOrders(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	result, err := services.Pareto(orders, dim, metric)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, result, cacheHeaders)
}

// HandleMeta exposes the filter panel's options: date bounds and the
// distinct region/category values of the full dataset.
func (h *APIHandlers) HandleMeta(w http.ResponseWriter, r *http.Request) {
	ds, err := h.store.Dataset(r.Context(), h.data.CSVFile)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	minDate, maxDate := ds.DateBounds()
	meta := map[string]any{
		"regions":    ds.Regions(),
		"categories": ds.Categories(),
		"orders":     len(ds.Orders),
	}
	if !minDate.IsZero() {
		meta["min_date"] = minDate.Format(dateParamLayout)
		meta["max_date"] = maxDate.Format(dateParamLayout)
	}
	errors.WriteSuccess(w, meta)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.store.Stats())
}

func (h *APIHandlers) topN(r *http.Request) int {
	if s := r.URL.Query().Get("n"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return h.data.TopN
}

// filterFromQuery parses from/to/regions/categories query parameters.
// Multi-value dimensions accept both repeated parameters and
// comma-separated lists.
func filterFromQuery(r *http.Request) (services.Filter, error) {
	query := r.URL.Query()
	var filter services.Filter

	if s := query.Get("from"); s != "" {
		t, err := time.Parse(dateParamLayout, s)
		if err != nil {
			return filter, errors.BadRequestWrap(err, "invalid from date, expected YYYY-MM-DD")
		}
		filter.From = t
	}
	if s := query.Get("to"); s != "" {
		t, err := time.Parse(dateParamLayout, s)
		if err != nil {
			return filter, errors.BadRequestWrap(err, "invalid to date, expected YYYY-MM-DD")
		}
		filter.To = t
	}

	filter.Regions = multiValues(query["regions"])
	filter.Categories = multiValues(query["categories"])
	return filter, nil
}

func multiValues(raw []string) []string {
	var values []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	}
	return values
}
