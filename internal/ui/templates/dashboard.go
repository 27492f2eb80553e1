// Package templates holds the dashboard page components.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard returns the single-page dashboard shell. All data arrives
// over the /sse endpoints as datastar element patches and chart
// signals; the page itself carries only the filter panel and the
// target containers.
func Dashboard() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, dashboardPage)
		return err
	})
}

const dashboardPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>Sales Insights Dashboard</title>
<script type="module" src="https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"></script>
<script src="https://cdn.jsdelivr.net/npm/chart.js@4"></script>
<style>
body{font-family:system-ui,sans-serif;margin:0;background:#f5f6fa;color:#222}
header{background:#1f2937;color:#fff;padding:1rem 2rem}
main{padding:1.5rem 2rem;display:grid;gap:1.5rem}
.filters{display:flex;flex-wrap:wrap;gap:1rem;align-items:end;background:#fff;padding:1rem;border-radius:8px}
.filters label{display:block;font-size:.8rem;margin-bottom:.25rem;color:#555}
.kpi-grid{display:grid;grid-template-columns:repeat(auto-fit,minmax(150px,1fr));gap:1rem}
.kpi-card{background:#fff;border-radius:8px;padding:1rem;display:flex;flex-direction:column;gap:.25rem}
.kpi-card span{font-size:.8rem;color:#666}
.modern-table{width:100%;border-collapse:collapse;background:#fff;border-radius:8px}
.modern-table th,.modern-table td{padding:.5rem .75rem;text-align:left;border-bottom:1px solid #eee}
.pareto-head{background:#ecfdf5}
section{background:#fff;border-radius:8px;padding:1rem}
button{background:#2563eb;color:#fff;border:none;border-radius:6px;padding:.5rem 1rem;cursor:pointer}
</style>
</head>
<body data-signals="{from:'',to:'',regions:[],categories:[],paretoDimension:'product',paretoMetric:'sales',productsData:[],customersData:[],regionsData:[],categoriesData:[],trendData:[]}"
      data-on-load="@get('/sse/refresh')">
<header><h1>Sales Insights Dashboard</h1></header>
<main>
<div class="filters">
  <div><label for="from">From</label><input id="from" type="date" data-bind-from/></div>
  <div><label for="to">To</label><input id="to" type="date" data-bind-to/></div>
  <div><label for="regions">Regions</label>
    <select id="regions" multiple data-bind-regions>
      <option>North</option><option>South</option><option>East</option><option>West</option>
    </select>
  </div>
  <div><label for="categories">Categories</label>
    <select id="categories" multiple data-bind-categories>
      <option>Electronics</option><option>Furniture</option><option>Home &amp; Garden</option>
    </select>
  </div>
  <button data-on-click="@get('/sse/refresh')">Apply filters</button>
</div>

<section>
  <h2>KPIs</h2>
  <div id="kpi-content">Loading…</div>
</section>

<section>
  <h2>Top Products</h2>
  <div id="products-content" data-on-signal-patch="renderBarChart('products-chart', $productsData)"></div>
  <canvas id="products-chart" height="120"></canvas>
</section>

<section>
  <h2>Top Customers</h2>
  <div id="customers-content" data-on-signal-patch="renderBarChart('customers-chart', $customersData)"></div>
  <canvas id="customers-chart" height="120"></canvas>
</section>

<section>
  <h2>Regions &amp; Categories</h2>
  <div id="breakdown-content" data-on-signal-patch="renderPieChart('regions-chart', $regionsData); renderPieChart('categories-chart', $categoriesData)"></div>
  <canvas id="regions-chart" height="120"></canvas>
  <canvas id="categories-chart" height="120"></canvas>
</section>

<section>
  <h2>Monthly Trend</h2>
  <div id="trend-content" data-on-signal-patch="renderTrendChart('trend-chart', $trendData)"></div>
  <canvas id="trend-chart" height="120"></canvas>
</section>

<section>
  <h2>Pareto (80/20)</h2>
  <div>
    <select data-bind-pareto-dimension>
      <option value="product">Product</option>
      <option value="customer">Customer</option>
      <option value="region">Region</option>
      <option value="category">Category</option>
    </select>
    <select data-bind-pareto-metric>
      <option value="sales">Sales</option>
      <option value="profit">Profit</option>
      <option value="quantity">Quantity</option>
    </select>
    <button data-on-click="@get('/sse/pareto')">Run</button>
  </div>
  <div id="pareto-content"></div>
</section>
</main>

<script>
const charts = {};
function upsert(id, cfg) {
  if (charts[id]) { charts[id].destroy(); }
  charts[id] = new Chart(document.getElementById(id), cfg);
}
function renderBarChart(id, rows) {
  if (!rows || !rows.length) return;
  upsert(id, {type:'bar',data:{labels:rows.map(r=>r.key),datasets:[{label:'Sales',data:rows.map(r=>Number(r.sales))}]}});
}
function renderPieChart(id, rows) {
  if (!rows || !rows.length) return;
  upsert(id, {type:'doughnut',data:{labels:rows.map(r=>r.key),datasets:[{data:rows.map(r=>Number(r.sales))}]}});
}
function renderTrendChart(id, rows) {
  if (!rows || !rows.length) return;
  upsert(id, {type:'line',data:{labels:rows.map(r=>r.month_name+' '+r.year),datasets:[{label:'Sales',data:rows.map(r=>Number(r.sales))}]}});
}
</script>
</body>
</html>
`
