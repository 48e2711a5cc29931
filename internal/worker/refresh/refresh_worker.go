package refresh

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/counter-map/internal/usecase"
	"github.com/counter-map/internal/worker"
)

// Worker periodically reloads the counter store from the upstream API,
// replacing the set wholesale each time. A failed reload keeps the
// previous set; there is no retry before the next tick.
type Worker struct {
	*worker.BaseWorker
	counterUC *usecase.CounterUseCase
	interval  time.Duration
}

func New(counterUC *usecase.CounterUseCase, interval time.Duration, logger *zap.Logger) *Worker {
	return &Worker{
		BaseWorker: worker.NewBaseWorker("counter-refresh", logger),
		counterUC:  counterUC,
		interval:   interval,
	}
}

// Start runs the refresh loop until Stop or context cancellation.
func (w *Worker) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Logger().Info("Refresh worker started",
		zap.Duration("interval", w.interval))

	for {
		select {
		case <-ctx.Done():
			w.Logger().Info("Refresh worker context cancelled")
			return nil
		case <-w.StopChan():
			w.Logger().Info("Refresh worker stopped")
			return nil
		case <-ticker.C:
			if err := w.counterUC.Reload(ctx); err != nil {
				w.Logger().Error("Scheduled counter reload failed", zap.Error(err))
			}
		}
	}
}
