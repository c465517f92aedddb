// Package scanner implements the scanning bounded context: gates, spreads,
// paper trades, and the per-cycle artifacts.
package scanner

import (
	"context"

	blockchainDI "github.com/0xmachado/dexscan/business/blockchain/di"
	pricingDI "github.com/0xmachado/dexscan/business/pricing/di"
	"github.com/0xmachado/dexscan/business/scanner/app"
	scannerDI "github.com/0xmachado/dexscan/business/scanner/di"
	"github.com/0xmachado/dexscan/business/scanner/domain"
	"github.com/0xmachado/dexscan/business/scanner/infra"
	"github.com/0xmachado/dexscan/internal/config"
	idi "github.com/0xmachado/dexscan/internal/di"
	"github.com/0xmachado/dexscan/internal/logger"
	"github.com/0xmachado/dexscan/internal/monolith"
)

// Module implements the scanner bounded context.
type Module struct {
	// RunOnce limits the scan loop to a single cycle, for -once runs.
	RunOnce bool
}

// RegisterServices registers all scanner services with the DI container.
func (m *Module) RegisterServices(c idi.Container) error {
	// Register PaperSession (private - persists across cycles)
	idi.RegisterToken(c, scannerDI.PaperSession, func(sr idi.ServiceRegistry) *app.PaperSession {
		cfg := sr.Get("config").(*config.Config)
		return app.NewPaperSession(cfg.Paper.CooldownSeconds, cfg.Paper.CooldownBlocks)
	})

	// Register ArtifactWriter (private)
	idi.RegisterToken(c, scannerDI.ArtifactWriter, func(sr idi.ServiceRegistry) app.ArtifactWriter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		writer, err := infra.NewFileArtifactWriter(cfg.Scan.ArtifactsDir, log)
		if err != nil {
			panic("failed to create artifact writer: " + err.Error())
		}
		return writer
	})

	// Register Reporter (private)
	idi.RegisterToken(c, scannerDI.Reporter, func(sr idi.ServiceRegistry) app.Reporter {
		return infra.NewConsoleReporter()
	})

	// Register Scanner (public)
	idi.RegisterToken(c, scannerDI.Scanner, func(sr idi.ServiceRegistry) *app.Scanner {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		scannerCfg := app.ScannerConfig{
			Pairs:         cfg.Scan.Pairs,
			TradeSizes:    cfg.Scan.TradeSizesDecimal(),
			Interval:      cfg.Scan.Interval,
			HeadTriggered: cfg.Scan.HeadTriggered,
			RunOnce:       m.RunOnce,
			Gates: domain.GateConfig{
				MaxGasEstimate:       cfg.Gates.MaxGasEstimate,
				MaxTicksCrossed:      cfg.Gates.MaxTicksCrossed,
				MaxPriceDeviationBps: cfg.Gates.MaxPriceDeviationBps,
				MaxSlippageBps:       cfg.Gates.MaxSlippageBps,
				FreshnessThresholdMs: cfg.Gates.FreshnessThresholdMs,
			},
		}

		return app.NewScanner(
			blockchainDI.GetBlockchainService(sr),
			pricingDI.GetPricingService(sr),
			scannerDI.GetPaperSession(sr),
			scannerDI.GetArtifactWriter(sr),
			scannerDI.GetReporter(sr),
			scannerCfg,
			log,
		)
	})

	return nil
}

// Startup initializes the scanner module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	mono.Logger().Info(ctx, "scanner module started",
		"pairs", len(mono.Config().Scan.Pairs),
		"trade_sizes", len(mono.Config().Scan.TradeSizes),
		"head_triggered", mono.Config().Scan.HeadTriggered,
		"artifacts_dir", mono.Config().Scan.ArtifactsDir)
	return nil
}
