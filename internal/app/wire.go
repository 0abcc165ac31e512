//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/drc/internal/adapters"
	"github.com/trebuchet-org/drc/internal/config"
	"github.com/trebuchet-org/drc/internal/logging"
	"github.com/trebuchet-org/drc/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewValidateDomain,
		wire.Bind(new(usecase.DomainValidator), new(*usecase.ValidateDomain)),
		usecase.NewRequestUpdate,
		usecase.NewQueryBinding,
		usecase.NewManageAllowList,
		usecase.NewProcessJob,

		// App
		NewApp,
	)
	return nil, nil, nil
}
