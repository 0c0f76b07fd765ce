package messaging

import (
	"context"
	"log/slog"

	"catalog/domain"
)

// RegisterLoggingHandlers logs every catalog event kind at info level.
func RegisterLoggingHandlers(d *Dispatcher, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "events")

	d.Subscribe(domain.KindProductCreated, func(ctx context.Context, e domain.Event) error {
		if p, ok := e.Payload.(domain.ProductCreated); ok {
			logger.InfoContext(ctx, "product created",
				"product_id", e.AggregateID, "name", p.ProductName, "price", p.Price.String())
		}
		return nil
	})
	d.Subscribe(domain.KindProductPriceChanged, func(ctx context.Context, e domain.Event) error {
		if p, ok := e.Payload.(domain.ProductPriceChanged); ok {
			logger.InfoContext(ctx, "product price changed",
				"product_id", e.AggregateID, "old_price", p.OldPrice.String(), "new_price", p.NewPrice.String())
		}
		return nil
	})
}
