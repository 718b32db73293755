package services

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/channel_utils"
	"article-narration-pipeline/domain"
	"context"
	"fmt"
)

const routerStage = "router"

type router struct {
	logger     outbound.LoggerPort
	workerPool outbound.TaskDispatcher
	routes     []domain.Route
	workers    map[domain.StageName]inbound.StageWorkerPort
}

// NewRouter fails when two routes overlap or a route names a stage without a worker.
func NewRouter(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher, routes []domain.Route,
	workers ...inbound.StageWorkerPort) (inbound.RouterPort, error) {
	if err := domain.ValidateRoutes(routes); err != nil {
		return nil, err
	}

	byName := make(map[domain.StageName]inbound.StageWorkerPort, len(workers))
	for _, w := range workers {
		byName[w.Name()] = w
	}
	for _, route := range routes {
		if _, ok := byName[route.Stage]; !ok {
			return nil, fmt.Errorf("no worker registered for stage %s", route.Stage)
		}
	}

	return &router{
		logger:     logger,
		workerPool: workerPool,
		routes:     append([]domain.Route(nil), routes...),
		workers:    byName,
	}, nil
}

func (r *router) Routes() []domain.Route {
	return append([]domain.Route(nil), r.routes...)
}

func (r *router) Resolve(key string) (domain.Route, error) {
	return domain.ResolveRoute(r.routes, key)
}

// Dispatch groups a mixed batch by stage, keeping delivery order inside each group, and
// runs the groups concurrently.
func (r *router) Dispatch(ctx context.Context, batch domain.Batch) domain.BatchReport {
	report := domain.NewBatchReport()
	groups := make(map[domain.StageName]domain.Batch)
	order := make([]domain.StageName, 0, len(r.workers))

	for _, notification := range batch {
		route, err := r.Resolve(notification.Key)
		if err != nil {
			r.reject(&report, notification, err)
			continue
		}
		if _, seen := groups[route.Stage]; !seen {
			order = append(order, route.Stage)
		}
		groups[route.Stage] = append(groups[route.Stage], notification)
	}

	if len(order) == 0 {
		return report
	}

	// Reports are always collected, even after ctx is done; workers finish on their own.
	mergeCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channels := make([]<-chan domain.BatchReport, 0, len(order))
	started := make([]domain.StageName, 0, len(order))
	for _, stage := range order {
		worker, items := r.workers[stage], groups[stage]
		reportCh := make(chan domain.BatchReport, 1)
		err := r.workerPool.Submit(func() {
			defer close(reportCh)
			reportCh <- worker.HandleBatch(ctx, items)
		})
		if err != nil {
			r.logger.ErrorWithFields(err, "Failed to start stage", map[string]interface{}{
				"stage": stage,
				"items": len(items),
			})
			for _, notification := range items {
				r.fail(&report, stage, notification, fmt.Errorf("start stage: %w", err))
			}
			continue
		}
		channels = append(channels, reportCh)
		started = append(started, stage)
	}

	merged, err := channel_utils.MergeChannels(mergeCtx, r.workerPool, channels...)
	if err != nil {
		r.logger.Error(err, "Failed to merge stage reports")
		for _, stage := range started {
			for _, notification := range groups[stage] {
				r.fail(&report, stage, notification, fmt.Errorf("collect stage report: %w", err))
			}
		}
		return report
	}

	for partial := range merged {
		report.Merge(partial)
	}

	return report
}

// DispatchTo hands the batch to one stage, rejecting records its routes do not cover.
func (r *router) DispatchTo(ctx context.Context, stage domain.StageName, batch domain.Batch) domain.BatchReport {
	report := domain.NewBatchReport()
	worker, ok := r.workers[stage]
	if !ok {
		for _, notification := range batch {
			r.fail(&report, stage, notification, fmt.Errorf("%w: stage %s is not registered", domain.ErrNoRoute, stage))
		}
		return report
	}

	accepted := make(domain.Batch, 0, len(batch))
	for _, notification := range batch {
		route, err := r.Resolve(notification.Key)
		if err != nil {
			r.reject(&report, notification, err)
			continue
		}
		if route.Stage != stage {
			r.reject(&report, notification, fmt.Errorf("%w: %s belongs to %s", domain.ErrNoRoute, notification.Key, route.Stage))
			continue
		}
		accepted = append(accepted, notification)
	}

	if len(accepted) > 0 {
		report.Merge(worker.HandleBatch(ctx, accepted))
	}
	return report
}

func (r *router) reject(report *domain.BatchReport, notification domain.Notification, err error) {
	r.logger.WarnWithFields("Unroutable record", map[string]interface{}{
		"bucket": notification.Bucket,
		"key":    notification.Key,
		"error":  err.Error(),
	})
	r.fail(report, routerStage, notification, err)
}

func (r *router) fail(report *domain.BatchReport, stage domain.StageName, notification domain.Notification, err error) {
	report.FailedOps = append(report.FailedOps, domain.FailedOp{
		Stage:  string(stage),
		Error:  err.Error(),
		Record: notification,
	})
}
