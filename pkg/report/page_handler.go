package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/klokku/fintrack/internal/event_bus"
	"github.com/klokku/fintrack/internal/rest"
	"github.com/klokku/fintrack/internal/utils"
	"github.com/klokku/fintrack/pkg/chart"
	"github.com/klokku/fintrack/pkg/currency"
	"github.com/klokku/fintrack/pkg/finance"
	"github.com/klokku/fintrack/pkg/ui"
	"github.com/klokku/fintrack/web"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html"
)

const (
	defaultCanvasWidth  = 300
	defaultCanvasHeight = 150
	chartDataSelector   = "#chart-data"
)

// PageHandler serves the server-rendered pages. Charts are drawn into the page's canvases
// and shipped to the browser as Chart.js configurations.
type PageHandler struct {
	reports        finance.ReportService
	engine         chart.Engine
	theme          chart.Theme
	layer          *ui.Layer
	clock          utils.Clock
	resizeDebounce time.Duration
	currency       string
	templates      *template.Template
}

func NewPageHandler(
	reports finance.ReportService,
	engine chart.Engine,
	theme chart.Theme,
	layer *ui.Layer,
	formatter *currency.Formatter,
	clock utils.Clock,
	resizeDebounce time.Duration,
) (*PageHandler, error) {
	templates, err := web.Templates(ui.TemplateFuncs(formatter))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}
	return &PageHandler{
		reports:        reports,
		engine:         engine,
		theme:          theme,
		layer:          layer,
		clock:          clock,
		resizeDebounce: resizeDebounce,
		currency:       formatter.Code(),
		templates:      templates,
	}, nil
}

type categoryTable struct {
	Items []finance.CategoryBreakdown
	Total decimal.Decimal
}

func newCategoryTable(items []finance.CategoryBreakdown) categoryTable {
	return categoryTable{Items: items, Total: finance.Total(items)}
}

type dashboardPage struct {
	Title    string
	Summary  finance.Summary
	Expenses categoryTable
	Recent   []finance.Transaction
}

type transactionsPage struct {
	Title  string
	Filter finance.TransactionFilter
	List   finance.TransactionPage
}

// PageURL links to another page of the list, keeping the filter.
func (p transactionsPage) PageURL(page int) string {
	query := url.Values{}
	if p.Filter.Category != "" {
		query.Set("category", p.Filter.Category)
	}
	if p.Filter.Kind != "" {
		query.Set("type", string(p.Filter.Kind))
	}
	query.Set("page", strconv.Itoa(page))
	return "/transactions?" + query.Encode()
}

type reportsPage struct {
	Title    string
	Year     int
	Income   categoryTable
	Expenses categoryTable
}

type transactionFormPage struct {
	Title    string
	Currency string
}

// pageChart draws one chart into the canvas with the given id.
type pageChart struct {
	canvas string
	draw   func(renderer *chart.Renderer, surface chart.Surface) (*chart.Handle, error)
}

func (handler *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := handler.reports.Dashboard(r.Context())
	if err != nil {
		log.Errorf("failed to load dashboard: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load dashboard", err.Error())
		return
	}

	summary := dashboard.Summary
	charts := []pageChart{
		{canvas: "overviewChart", draw: func(renderer *chart.Renderer, surface chart.Surface) (*chart.Handle, error) {
			theme := renderer.Theme()
			return renderer.RenderPie(surface, []string{"Income", "Expenses"},
				[]decimal.Decimal{summary.Income, summary.Expense}, theme.Secondary, theme.Accent)
		}},
		{canvas: "expenseChart", draw: func(renderer *chart.Renderer, surface chart.Surface) (*chart.Handle, error) {
			return renderer.RenderCategoryDonut(surface, dashboard.Expenses, finance.Expense)
		}},
	}
	data := dashboardPage{
		Title:    "Dashboard",
		Summary:  summary,
		Expenses: newCategoryTable(dashboard.Expenses),
		Recent:   dashboard.Recent,
	}
	handler.writePage(w, r, "dashboard.html", data, charts)
}

func (handler *PageHandler) Reports(w http.ResponseWriter, r *http.Request) {
	reports, err := handler.reports.Reports(r.Context())
	if err != nil {
		log.Errorf("failed to load reports: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load reports", err.Error())
		return
	}

	charts := []pageChart{
		{canvas: "trendChart", draw: func(renderer *chart.Renderer, surface chart.Surface) (*chart.Handle, error) {
			return renderer.RenderTrendChart(surface, reports.Trend)
		}},
		{canvas: "comparisonChart", draw: func(renderer *chart.Renderer, surface chart.Surface) (*chart.Handle, error) {
			labels, datasets := monthlyComparison(reports.Trend)
			return renderer.RenderComparativeBars(surface, labels, datasets)
		}},
		{canvas: "incomeChart", draw: func(renderer *chart.Renderer, surface chart.Surface) (*chart.Handle, error) {
			return renderer.RenderCategoryDonut(surface, reports.Income, finance.Income)
		}},
		{canvas: "expenseChart", draw: func(renderer *chart.Renderer, surface chart.Surface) (*chart.Handle, error) {
			return renderer.RenderCategoryDonut(surface, reports.Expenses, finance.Expense)
		}},
	}
	data := reportsPage{
		Title:    "Reports",
		Year:     reports.Year,
		Income:   newCategoryTable(reports.Income),
		Expenses: newCategoryTable(reports.Expenses),
	}
	handler.writePage(w, r, "reports.html", data, charts)
}

// Transactions lists the transactions, filtered by the category and type query
// parameters, twenty to a page.
func (handler *PageHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := finance.TransactionFilter{Category: query.Get("category"), Kind: finance.Kind(query.Get("type"))}
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		page = 1
	}

	list, err := handler.reports.Transactions(r.Context(), filter, page)
	if errors.Is(err, finance.ErrUnknownKind) {
		rest.WriteError(w, http.StatusBadRequest, "Invalid transaction type", err.Error())
		return
	}
	if err != nil {
		log.Errorf("failed to load transactions: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load transactions", err.Error())
		return
	}
	handler.writePage(w, r, "transactions.html", transactionsPage{Title: "Transactions", Filter: filter, List: list}, nil)
}

// NewTransaction serves the transaction form with today's date filled in.
func (handler *PageHandler) NewTransaction(w http.ResponseWriter, r *http.Request) {
	data := transactionFormPage{Title: "Add transaction", Currency: handler.currency}
	handler.writePage(w, r, "transaction_form.html", data, nil)
}

func monthlyComparison(trend []finance.TimeSeriesPoint) ([]string, []chart.BarDataset) {
	labels := make([]string, len(trend))
	income := make([]decimal.Decimal, len(trend))
	expense := make([]decimal.Decimal, len(trend))
	for i, p := range trend {
		labels[i] = p.Period
		income[i] = p.Income
		expense[i] = p.Expense
	}
	return labels, []chart.BarDataset{
		{Name: "Income", Values: income},
		{Name: "Expenses", Values: expense},
	}
}

// writePage executes the template, loads it as a live page, draws the charts and runs the
// UI layer over it. Charts are destroyed and the layer torn down before the page is sent.
func (handler *PageHandler) writePage(w http.ResponseWriter, r *http.Request, name string, data any, charts []pageChart) {
	var buf bytes.Buffer
	if err := handler.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Errorf("failed to execute template %s: %v", name, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	bus := event_bus.NewEventBus()
	page, err := ui.ParsePage(&buf, bus, handler.clock)
	if err != nil {
		log.Errorf("failed to load page %s: %v", name, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	defer page.Close()

	controller := chart.NewController(handler.engine, handler.theme, handler.clock, handler.resizeDebounce)
	defer controller.Close()

	teardown := handler.layer.Init(page)
	defer teardown()

	configs := make(map[string]json.RawMessage, len(charts))
	for _, c := range charts {
		handle, err := c.draw(controller.Renderer(), canvasSurface(page, c.canvas))
		if errors.Is(err, chart.ErrNoSurface) {
			log.Debugf("page %s has no canvas %s", name, c.canvas)
			continue
		}
		if err != nil {
			log.Errorf("failed to draw %s on page %s: %v", c.canvas, name, err)
			continue
		}
		config, err := json.Marshal(handle)
		if err != nil {
			log.Errorf("failed to encode chart %s: %v", c.canvas, err)
			continue
		}
		configs[c.canvas] = config
	}
	payload, err := json.Marshal(configs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	page.Locked(func(doc *goquery.Document) {
		setScriptData(doc.Find(chartDataSelector), payload)
	})

	query := r.URL.Query()
	handler.layer.Flash(page, query.Get("notice"), query.Get("severity"))

	body, err := page.HTML()
	if err != nil {
		log.Errorf("failed to serialise page %s: %v", name, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(body)); err != nil {
		log.Errorf("failed to write page %s: %v", name, err)
	}
}

// setScriptData replaces the content of a data script element with raw JSON. Script
// content is not entity-decoded by browsers, so it must not go through SetText.
func setScriptData(script *goquery.Selection, payload []byte) {
	for _, node := range script.Nodes {
		for child := node.FirstChild; child != nil; child = node.FirstChild {
			node.RemoveChild(child)
		}
		node.AppendChild(&html.Node{Type: html.TextNode, Data: string(payload)})
	}
}

// canvasSurface measures the canvas with the given id, or returns nil when the page
// has none.
func canvasSurface(page *ui.Page, id string) chart.Surface {
	canvas := page.Find("canvas#" + id)
	if canvas.Length() == 0 {
		return nil
	}
	width := dimension(canvas.AttrOr("width", ""), defaultCanvasWidth)
	height := dimension(canvas.AttrOr("height", ""), defaultCanvasHeight)
	return chart.NewCanvas(id, width, height)
}

func dimension(value string, fallback int) int {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
