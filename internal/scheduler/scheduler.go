package scheduler

import (
	"context"
	"log/slog"
	"time"

	"app/internal/usecase"

	"github.com/google/uuid"
)

// 注文ステータスの定期リコンサイル。
// 1つのループで順番に実行するので、sweep同士が重なることはない。
type StatusScheduler struct {
	log      *slog.Logger
	statuses *usecase.OrderStatusUsecase
	interval time.Duration
}

func NewStatusScheduler(log *slog.Logger, statuses *usecase.OrderStatusUsecase, interval time.Duration) *StatusScheduler {
	return &StatusScheduler{
		log:      log,
		statuses: statuses,
		interval: interval,
	}
}

func (s *StatusScheduler) Run(ctx context.Context) error {
	t := time.NewTicker(s.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("status scheduler stopping")
			return nil
		case <-t.C:
			runID := uuid.NewString()

			result, err := s.statuses.UpdateOrderStatuses(ctx)
			if err != nil {
				s.log.Error("status sweep failed", "run_id", runID, "err", err)
				continue
			}

			if result.Completed > 0 || result.Overdue > 0 {
				s.log.Info("status sweep done",
					"run_id", runID,
					"checked", result.Checked,
					"completed", result.Completed,
					"overdue", result.Overdue,
				)
			}
		}
	}
}
