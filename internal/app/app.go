package app

import (
	"log/slog"

	"github.com/trebuchet-org/drc/internal/adapters/gateway"
	"github.com/trebuchet-org/drc/internal/adapters/metrics"
	"github.com/trebuchet-org/drc/internal/domain/config"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Use cases
	ValidateDomain  *usecase.ValidateDomain
	RequestUpdate   *usecase.RequestUpdate
	QueryBinding    *usecase.QueryBinding
	ManageAllowList *usecase.ManageAllowList
	ProcessJob      *usecase.ProcessJob

	// Transports
	Handler *gateway.Handler
	Runner  *gateway.Runner
	Metrics *metrics.Metrics
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	validateDomain *usecase.ValidateDomain,
	requestUpdate *usecase.RequestUpdate,
	queryBinding *usecase.QueryBinding,
	manageAllowList *usecase.ManageAllowList,
	processJob *usecase.ProcessJob,
	handler *gateway.Handler,
	runner *gateway.Runner,
	m *metrics.Metrics,
) *App {
	return &App{
		Config:          cfg,
		Log:             log,
		ValidateDomain:  validateDomain,
		RequestUpdate:   requestUpdate,
		QueryBinding:    queryBinding,
		ManageAllowList: manageAllowList,
		ProcessJob:      processJob,
		Handler:         handler,
		Runner:          runner,
		Metrics:         m,
	}
}
