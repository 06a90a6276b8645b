package chart

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/fintrack/internal/rest"
	"github.com/klokku/fintrack/pkg/finance"
	log "github.com/sirupsen/logrus"
)

// ChartHandler serves chart configurations for pages that draw their charts later,
// e.g. after a date range change.
type ChartHandler struct {
	reports     finance.ReportService
	engine      Engine
	theme       Theme
	csvRenderer *CsvRenderer
}

func NewChartHandler(reports finance.ReportService, engine Engine, theme Theme, csvRenderer *CsvRenderer) *ChartHandler {
	return &ChartHandler{reports: reports, engine: engine, theme: theme, csvRenderer: csvRenderer}
}

func (handler *ChartHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	points, err := handler.reports.Trend(r.Context())
	if err != nil {
		log.Errorf("failed to load trend: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load trend", err.Error())
		return
	}
	handler.respond(w, r, "trend", func(renderer *Renderer, surface Surface) (*Handle, error) {
		return renderer.RenderTrendChart(surface, points)
	})
}

func (handler *ChartHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	kind, err := finance.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid category kind", "kind must be income or expense")
		return
	}
	breakdown, err := handler.reports.YearCategories(r.Context(), kind)
	if err != nil {
		log.Errorf("failed to load %s categories: %v", kind, err)
		rest.WriteError(w, http.StatusInternalServerError, "Failed to load categories", err.Error())
		return
	}
	handler.respond(w, r, string(kind), func(renderer *Renderer, surface Surface) (*Handle, error) {
		return renderer.RenderCategoryDonut(surface, breakdown, kind)
	})
}

// respond renders into a request-scoped registry and releases the chart once written.
func (handler *ChartHandler) respond(w http.ResponseWriter, r *http.Request, name string,
	render func(*Renderer, Surface) (*Handle, error)) {
	registry := NewRegistry()
	defer registry.DestroyAll()

	handle, err := render(NewRenderer(handler.engine, handler.theme, registry), NewCanvas(name, 0, 0))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, finance.ErrUnknownKind) {
			status = http.StatusBadRequest
		}
		rest.WriteError(w, status, "Failed to render chart", err.Error())
		return
	}

	if rest.WantsCSV(r) {
		csv, err := handler.csvRenderer.Render(handle)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.csv"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv: %v", err)
		}
		return
	}

	body, err := json.Marshal(handle)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Errorf("failed to write chart: %v", err)
	}
}
