package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/fintrack/internal/config"
	"github.com/klokku/fintrack/internal/database"
	"github.com/klokku/fintrack/internal/utils"
	"github.com/klokku/fintrack/pkg/chart"
	"github.com/klokku/fintrack/pkg/currency"
	"github.com/klokku/fintrack/pkg/finance"
	"github.com/klokku/fintrack/pkg/report"
	"github.com/klokku/fintrack/pkg/transaction"
	"github.com/klokku/fintrack/pkg/ui"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock     utils.Clock
	Formatter *currency.Formatter
	DB        *pgxpool.Pool

	Source        finance.AggregateSource
	ReportService finance.ReportService

	ChartEngine  chart.Engine
	ChartTheme   chart.Theme
	CsvRenderer  *chart.CsvRenderer
	ChartHandler *chart.ChartHandler

	Layer       *ui.Layer
	PageHandler *report.PageHandler

	TransactionHandler *transaction.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(ctx context.Context, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}
	deps.Clock = &utils.SystemClock{}

	formatter, err := currency.NewFormatter(cfg.Locale.Language, cfg.Locale.Currency)
	if err != nil {
		return nil, err
	}
	deps.Formatter = formatter

	switch cfg.Data.Source {
	case config.SourcePostgres:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		deps.DB = db
		deps.Source = finance.NewPostgresSource(db, cfg.Data.UserId)
	default:
		source, err := finance.NewFileSource(cfg.Data.File)
		if err != nil {
			return nil, err
		}
		deps.Source = source
	}
	deps.ReportService = finance.NewReportService(deps.Source, deps.Clock)

	deps.ChartEngine = chart.NewChartJSEngine(formatter)
	deps.ChartTheme = chart.DefaultTheme()
	deps.CsvRenderer = chart.NewCsvRenderer()
	deps.ChartHandler = chart.NewChartHandler(deps.ReportService, deps.ChartEngine, deps.ChartTheme, deps.CsvRenderer)

	deps.Layer = ui.NewLayer(ui.Options{
		ToastLifetime:  cfg.UI.ToastLifetime,
		SubmitFallback: cfg.UI.SubmitFallback,
		Formatter:      formatter,
	})
	deps.PageHandler, err = report.NewPageHandler(deps.ReportService, deps.ChartEngine, deps.ChartTheme,
		deps.Layer, formatter, deps.Clock, cfg.Charts.ResizeDebounce)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to build page handler: %w", err)
	}

	deps.TransactionHandler = transaction.NewHandler(deps.Clock, formatter)
	return deps, nil
}

// Close releases the database pool, if one was opened.
func (deps *Dependencies) Close() {
	if deps.DB != nil {
		deps.DB.Close()
	}
}
