package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

type HandlersRegistry struct {
	mux *asynq.ServeMux
}

// NewHandlersRegistry returns a registry whose handlers are wrapped with
// task logging.
func NewHandlersRegistry(logger *slog.Logger) *HandlersRegistry {
	mux := asynq.NewServeMux()
	mux.Use(logTasks(logger))
	return &HandlersRegistry{mux: mux}
}

func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, handler)
}

func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}

func logTasks(logger *slog.Logger) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
			start := time.Now()
			retried, _ := asynq.GetRetryCount(ctx)

			err := next.ProcessTask(ctx, t)

			attrs := []any{
				"type", t.Type(),
				"retry", retried,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				logger.Warn("task failed", append(attrs, "error", err)...)
				return err
			}
			logger.Info("task done", attrs...)
			return nil
		})
	}
}
