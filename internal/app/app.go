// Package app wires configuration, storage, clients and services into one
// shared core used by cmd/stonks-server and the tests.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/SynTaxOp/Stonks/internal/clients/mfapi"
	"github.com/SynTaxOp/Stonks/internal/common"
	"github.com/SynTaxOp/Stonks/internal/interfaces"
	"github.com/SynTaxOp/Stonks/internal/services/dashboard"
	"github.com/SynTaxOp/Stonks/internal/services/fund"
	"github.com/SynTaxOp/Stonks/internal/services/ledger"
	"github.com/SynTaxOp/Stonks/internal/services/navdata"
	"github.com/SynTaxOp/Stonks/internal/services/sip"
	"github.com/SynTaxOp/Stonks/internal/storage"
)

// App holds all initialized services and clients.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	MFAPIClient      interfaces.MFAPIClient
	NAVService       interfaces.NAVService
	LedgerService    interfaces.LedgerService
	SIPService       interfaces.SIPService
	FundService      interfaces.FundService
	DashboardService interfaces.DashboardService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes configuration, storage, the NAV client and all services.
// configPath may be empty, in which case STONKS_CONFIG and the binary
// directory are consulted.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("STONKS_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "stonks.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/stonks.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	mfapiClient := mfapi.NewClient(
		mfapi.WithBaseURL(config.Clients.MFAPI.BaseURL),
		mfapi.WithLogger(logger),
		mfapi.WithRateLimit(config.Clients.MFAPI.RateLimit),
		mfapi.WithTimeout(time.Duration(config.Clients.MFAPI.TimeoutSeconds)*time.Second),
	)

	navService := navdata.NewService(mfapiClient,
		time.Duration(config.Clients.MFAPI.CacheTTLMinutes)*time.Minute, logger)
	ledgerService := ledger.NewService(storageManager.Transactions(), navService, logger)
	sipService := sip.NewService(storageManager.SIPs(), logger)
	fundService := fund.NewService(storageManager.Holdings(), ledgerService, navService, sipService, logger)
	dashboardService := dashboard.NewService(fundService, ledgerService, navService, logger)

	logger.Info().
		Str("environment", config.Environment).
		Str("version", common.Version).
		Msg("Application initialized")

	return &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		MFAPIClient:      mfapiClient,
		NAVService:       navService,
		LedgerService:    ledgerService,
		SIPService:       sipService,
		FundService:      fundService,
		DashboardService: dashboardService,
		StartupTime:      time.Now(),
	}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	if err := a.Storage.Close(); err != nil {
		a.Logger.Error().Err(err).Msg("Storage close failed")
	}
}
