package di

import (
	"log/slog"

	channelRepo "github.com/rdl-tech/coupon-radar/internal/modules/channel/repository"
	"github.com/rdl-tech/coupon-radar/internal/modules/collector/ai"
	"github.com/rdl-tech/coupon-radar/internal/modules/collector/extractor"
	collectorService "github.com/rdl-tech/coupon-radar/internal/modules/collector/service"
	"github.com/rdl-tech/coupon-radar/internal/modules/collector/telegram"
	couponRepo "github.com/rdl-tech/coupon-radar/internal/modules/coupon/repository"
	notifyService "github.com/rdl-tech/coupon-radar/internal/modules/notify/service"
	settingsRepo "github.com/rdl-tech/coupon-radar/internal/modules/settings/repository"
	"github.com/rdl-tech/coupon-radar/internal/shared/config"
	httpServer "github.com/rdl-tech/coupon-radar/internal/transport/http"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Channel Repository
	do.Provide(injector, func(i do.Injector) (channelRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := channelRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize channel repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Settings Repository
	do.Provide(injector, func(i do.Injector) (settingsRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := settingsRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize settings repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Coupon Repository
	do.Provide(injector, func(i do.Injector) (couponRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := couponRepo.NewGormStorage(cfg.DatabaseDSN)
		if err != nil {
			return nil, oops.With("context", "failed to initialize coupon repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Session Store
	do.Provide(injector, func(i do.Injector) (*telegram.FileSession, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return telegram.NewFileSession(cfg.SessionPath)
	})

	// Register MTProto Client
	do.Provide(injector, func(i do.Injector) (telegram.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		sess := do.MustInvoke[*telegram.FileSession](i)
		return telegram.NewGotdClient(cfg.TelegramAPIID, cfg.TelegramAPIHash, sess, slog.Default()), nil
	})

	// Register Connection Manager
	do.Provide(injector, func(i do.Injector) (*collectorService.ConnectionManager, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[telegram.Client](i)
		sess := do.MustInvoke[*telegram.FileSession](i)
		settings := do.MustInvoke[settingsRepo.Repository](i)
		return collectorService.NewConnectionManager(client, sess, settings, cfg.TelegramPhone, slog.Default()), nil
	})

	// Register Extractor (AI strategy is optional)
	do.Provide(injector, func(i do.Injector) (*extractor.Extractor, error) {
		cfg := do.MustInvoke[*config.Config](i)

		var analyzer ai.Analyzer
		if cfg.AIEnabled {
			analyzer = ai.NewOpenRouterAnalyzer(cfg.AIEndpoint, cfg.AIAPIKey, cfg.AIModel, slog.Default())
		}
		return extractor.New(analyzer, slog.Default()), nil
	})

	// Register Notifier (optional, token gated)
	do.Provide(injector, func(i do.Injector) (collectorService.Notifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.NotifyBotToken == "" || cfg.NotifyChatID == "" {
			return nil, nil
		}

		notifier, err := notifyService.New(cfg.NotifyBotToken, cfg.NotifyChatID, slog.Default())
		if err != nil {
			return nil, oops.With("context", "failed to initialize notifier").Wrap(err)
		}
		return notifier, nil
	})

	// Register Collector Service
	do.Provide(injector, func(i do.Injector) (*collectorService.Service, error) {
		conn := do.MustInvoke[*collectorService.ConnectionManager](i)
		client := do.MustInvoke[telegram.Client](i)
		channels := do.MustInvoke[channelRepo.Repository](i)
		coupons := do.MustInvoke[couponRepo.Repository](i)
		ext := do.MustInvoke[*extractor.Extractor](i)
		notifier, _ := do.Invoke[collectorService.Notifier](i)
		return collectorService.New(conn, client, channels, coupons, ext, notifier, slog.Default()), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		collector := do.MustInvoke[*collectorService.Service](i)
		server := httpServer.New(cfg, collector)
		server.SetLogger(slog.Default())
		return server, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	// Stop the collector if it is running
	if collector, err := do.Invoke[*collectorService.Service](injector); err == nil && collector != nil {
		_ = collector.Stop()
	}

	return nil
}
