package worker

import (
	"context"
	"time"

	"github.com/rookgm/storefront/internal/logger"
	"github.com/rookgm/storefront/internal/models"
	"github.com/rookgm/storefront/internal/orderview"
	"go.uber.org/zap"
)

// default poll interval
const defaultInterval = 5 * time.Second

// OrderLoader loads current state of an order
type OrderLoader interface {
	Order(ctx context.Context, id string) (*models.Order, error)
}

// OrderWatcher polls an order and reports timeline entries it has not seen yet
type OrderWatcher struct {
	api      OrderLoader
	interval time.Duration
}

// NewOrderWatcher creates new order watcher, a non-positive interval means the default
func NewOrderWatcher(api OrderLoader, interval time.Duration) *OrderWatcher {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &OrderWatcher{api: api, interval: interval}
}

// Watch emits new entries, oldest first, until ctx is done or the order
// reaches a status that no longer changes. Failed polls are logged and
// skipped, the next tick tries again.
func (ow *OrderWatcher) Watch(ctx context.Context, orderID string, emit func(orderview.DisplayStatus)) error {
	seen := make(map[string]bool)

	poll := func() bool {
		order, err := ow.api.Order(ctx, orderID)
		if err != nil {
			logger.Log.Debug("poll order", zap.String("order", orderID), zap.Error(err))
			return false
		}

		history := orderview.StatusHistory(*order)
		for i := len(history) - 1; i >= 0; i-- {
			entry := history[i]
			key := entry.Status + "|" + entry.ChangedAt
			if seen[key] {
				continue
			}
			seen[key] = true
			emit(entry)
		}

		return !models.IsCancelableStatus(order.OrderStatus)
	}

	if poll() {
		return nil
	}

	ticker := time.NewTicker(ow.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("order watcher is done", zap.String("order", orderID))
			return ctx.Err()
		case <-ticker.C:
			if poll() {
				return nil
			}
		}
	}
}
