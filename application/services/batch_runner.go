package services

import (
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ItemHandler processes one notification. The returned details are attached to the
// item's report entry whether it succeeded or failed.
type ItemHandler func(ctx context.Context, notification domain.Notification) (map[string]interface{}, error)

// BatchRunner runs every item of a batch on the worker pool. An item failure never
// affects its siblings, and the report keeps delivery order.
type BatchRunner struct {
	logger     outbound.LoggerPort
	workerPool outbound.TaskDispatcher
	timeout    time.Duration
}

func NewBatchRunner(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher, timeout time.Duration) *BatchRunner {
	return &BatchRunner{
		logger:     logger,
		workerPool: workerPool,
		timeout:    timeout,
	}
}

type itemOutcome struct {
	details map[string]interface{}
	err     error
}

func (r *BatchRunner) Run(ctx context.Context, stage domain.StageName, batch domain.Batch, handle ItemHandler) domain.BatchReport {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	outcomes := make([]itemOutcome, len(batch))
	var wg sync.WaitGroup

	for i, notification := range batch {
		if ctx.Err() != nil {
			outcomes[i] = itemOutcome{err: notStarted(ctx)}
			continue
		}

		i, notification := i, notification
		wg.Add(1)
		err := r.workerPool.Submit(func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					outcomes[i] = itemOutcome{err: fmt.Errorf("panic while processing %s: %v", notification.Key, p)}
				}
			}()

			if ctx.Err() != nil {
				outcomes[i] = itemOutcome{err: notStarted(ctx)}
				return
			}

			details, err := handle(ctx, notification)
			outcomes[i] = itemOutcome{details: details, err: err}
		})
		if err != nil {
			wg.Done()
			outcomes[i] = itemOutcome{err: fmt.Errorf("submit item: %w", err)}
		}
	}

	wg.Wait()

	report := domain.NewBatchReport()
	for i, notification := range batch {
		outcome := outcomes[i]
		if outcome.err != nil {
			r.logger.ErrorWithFields(outcome.err, "Failed to process item", map[string]interface{}{
				"stage":  stage,
				"bucket": notification.Bucket,
				"key":    notification.Key,
			})
			report.FailedOps = append(report.FailedOps, domain.FailedOp{
				Stage:   string(stage),
				Error:   outcome.err.Error(),
				Record:  notification,
				Context: outcome.details,
			})
			continue
		}

		report.SuccessfulOps = append(report.SuccessfulOps, domain.SuccessfulOp{
			Stage:   string(stage),
			Record:  notification,
			Details: outcome.details,
		})
	}

	r.logger.InfoWithFields("Batch processed", map[string]interface{}{
		"stage":     stage,
		"items":     len(batch),
		"succeeded": len(report.SuccessfulOps),
		"failed":    len(report.FailedOps),
	})

	return report
}

func notStarted(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.ErrInvocationTimeout
	}
	return fmt.Errorf("item not started: %w", ctx.Err())
}
