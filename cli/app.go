package cli

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"catalog/domain"
	"catalog/messaging"
	"catalog/metrics"
	"catalog/store"
	"catalog/usecase"
)

const serviceName = "catalog"

// App is the composition root: every collaborator a command may need, built
// once from Config.
type App struct {
	Backend    *store.Backend
	Catalog    *usecase.Catalog
	Events     domain.EventLog
	Dispatcher *messaging.Dispatcher
	Telemetry  *metrics.Telemetry
	Logger     *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Build opens the store, the metrics pipeline and the event sink, then wires
// the use cases over them.
func Build(ctx context.Context, cfg Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	telemetry, err := metrics.Setup(serviceName)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	sink, err := messaging.NewSink(ctx, cfg.Sink)
	if err != nil {
		_ = telemetry.Shutdown(ctx)
		_ = backend.Close()
		return nil, err
	}

	dispatcher := messaging.NewDispatcher(backend.Events,
		messaging.WithLogger(logger),
		messaging.WithRecorder(telemetry.Recorder),
		messaging.WithSink(sink),
	)
	messaging.RegisterLoggingHandlers(dispatcher, logger)

	logger.Debug("catalog wired", "store", backend.Kind, "event_sink", cfg.Sink.Kind)

	return &App{
		Backend:    backend,
		Catalog:    usecase.NewCatalog(backend.Products, dispatcher, logger),
		Events:     backend.Events,
		Dispatcher: dispatcher,
		Telemetry:  telemetry,
		Logger:     logger,
	}, nil
}

// Close shuts down the sink, the metrics pipeline and the store. Only the
// first call does any work.
func (a *App) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		var errs []error
		if a.Dispatcher != nil {
			errs = append(errs, a.Dispatcher.Close())
		}
		if a.Telemetry != nil {
			errs = append(errs, a.Telemetry.Shutdown(ctx))
		}
		if a.Backend != nil {
			errs = append(errs, a.Backend.Close())
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}
