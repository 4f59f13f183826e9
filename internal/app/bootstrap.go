package app

import (
	"log/slog"
	"time"

	"otc_go/internal/domain"
	"otc_go/internal/engine"
	"otc_go/internal/infra"
	"otc_go/internal/pricing"
)

// Bootstrap orchestrates the simulation server startup sequence.
type Bootstrap struct {
	Config *infra.Config
	Engine *engine.Engine
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration, installs the logger and assembles the
// engine with seeded prices and balances.
func (b *Bootstrap) Initialize(configPath string) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	fluctuation := pricing.DefaultRange
	if cfg.Server.DisableFluctuation {
		fluctuation = nil
	} else if cfg.Server.FluctuationLower != 0 || cfg.Server.FluctuationUpper != 0 {
		fluctuation = &pricing.Range{
			Lower: cfg.Server.FluctuationLower,
			Upper: cfg.Server.FluctuationUpper,
		}
	}

	seed := cfg.Server.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	model := pricing.NewModel(pricing.DefaultPrices(), fluctuation, seed)
	ledger := domain.NewLedger(domain.DefaultBalances())
	validity := time.Duration(cfg.Server.ValidityWindowSec) * time.Second
	b.Engine = engine.New(model, ledger, validity)

	slog.Info("engine initialized",
		slog.Int("instruments", len(pricing.DefaultPrices())),
		slog.Bool("fluctuation", fluctuation != nil))
	return nil
}
