package main

import (
	"article-narration-pipeline/application/ports/inbound"
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/application/services"
	"article-narration-pipeline/config"
	"article-narration-pipeline/domain"
	"article-narration-pipeline/infrastructure/adapters"
	"context"
	"database/sql"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/comprehend"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/polly"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/panjf2000/ants/v2"
)

// app owns the process-wide clients and pools. Stage workers are built on demand so a
// single-stage process only needs the configuration of that stage.
type app struct {
	cfg           *config.Config
	logger        outbound.LoggerPort
	sess          *session.Session
	pools         *workerPools
	db            *sql.DB
	contentStore  outbound.ContentStorePort
	metadataStore outbound.MetadataStorePort
	fetcher       outbound.ContentFetcher
	runner        *services.BatchRunner
}

func newApp(cfg *config.Config) (*app, error) {
	logger := adapters.NewZerologWrapper(cfg.Log.Level)

	panicHandler := func(p interface{}) {
		logger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	pools, err := newWorkerPools(&cfg.Worker, panicHandler)
	if err != nil {
		return nil, err
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
		Config:            aws.Config{Region: aws.String(cfg.S3.Region)},
	})
	if err != nil {
		pools.release()
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	s3Client := s3.New(sess, s3ClientConfig(&cfg.S3))

	a := &app{
		cfg:          cfg,
		logger:       logger,
		sess:         sess,
		pools:        pools,
		contentStore: adapters.NewS3ContentStore(logger, s3Client),
		fetcher:      adapters.NewContentFetcher(logger, cfg.Scraper.Timeout, cfg.Scraper.UserAgent),
		runner:       services.NewBatchRunner(logger, pools.item, cfg.Worker.InvocationTimeout),
	}

	switch cfg.Metadata.Backend {
	case config.SQLiteBackend:
		db, err := adapters.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.db = db
		a.metadataStore = adapters.NewSQLiteMetadataStore(logger, db)
	default:
		a.metadataStore = adapters.NewDynamoMetadataStore(logger, dynamodb.New(sess), &cfg.Dynamo)
	}

	return a, nil
}

func s3ClientConfig(s3Config *config.S3Config) *aws.Config {
	c := aws.NewConfig()
	if s3Config.Endpoint != "" {
		c = c.WithEndpoint(s3Config.Endpoint).WithS3ForcePathStyle(true)
	}
	return c
}

func (a *app) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error(err, "Failed to close metadata database")
		}
	}
	a.pools.release()
}

// workerPools keeps work that waits on other work off the pool it waits on. Items run on item,
// stage fan-out and report merging on fanout, and status watches, which live as long as their
// client, on watch. The watch pool never blocks a caller: once full, new watches fail.
type workerPools struct {
	item   *ants.Pool
	fanout *ants.Pool
	watch  *ants.Pool
}

func newWorkerPools(workerConfig *config.WorkerConfig, panicHandler func(interface{})) (*workerPools, error) {
	item, err := ants.NewPool(workerConfig.PoolSize, ants.WithPanicHandler(panicHandler))
	if err != nil {
		return nil, fmt.Errorf("create item pool: %w", err)
	}
	fanout, err := ants.NewPool(workerConfig.FanoutPoolSize, ants.WithPanicHandler(panicHandler))
	if err != nil {
		item.Release()
		return nil, fmt.Errorf("create fan-out pool: %w", err)
	}
	watch, err := ants.NewPool(workerConfig.WatchPoolSize, ants.WithPanicHandler(panicHandler), ants.WithNonblocking(true))
	if err != nil {
		item.Release()
		fanout.Release()
		return nil, fmt.Errorf("create watch pool: %w", err)
	}
	return &workerPools{item: item, fanout: fanout, watch: watch}, nil
}

func (p *workerPools) release() {
	p.item.Release()
	p.fanout.Release()
	p.watch.Release()
}

func (a *app) intake() inbound.IntakePort {
	scraper := adapters.NewGoqueryArticleScraper(a.logger, a.fetcher)
	analyzer := adapters.NewComprehendTextAnalyzer(a.logger, comprehend.New(a.sess))
	return services.NewIntakeService(a.logger, scraper, analyzer, a.contentStore, a.metadataStore,
		domain.DefaultVoices, services.RandomChooser(), &a.cfg.S3, &a.cfg.Pipeline)
}

func (a *app) worker(ctx context.Context, stage domain.StageName) (inbound.StageWorkerPort, error) {
	switch stage {
	case domain.NarrationDispatchStage:
		engine := adapters.NewPollyNarrationEngine(a.logger, polly.New(a.sess), &a.cfg.Narration)
		return services.NewNarrationDispatcher(a.logger, a.runner, a.contentStore, a.metadataStore, engine, &a.cfg.S3), nil
	case domain.AudioPostProcessingStage:
		processor := adapters.NewFFmpegAudioProcessor(a.logger, &a.cfg.Pipeline)
		return services.NewAudioPostProcessor(a.logger, a.runner, a.contentStore, a.metadataStore, processor, &a.cfg.Pipeline), nil
	case domain.VisualExtractionStage:
		processor := adapters.NewFFmpegImageProcessor(a.logger, &a.cfg.Pipeline)
		return services.NewVisualExtractor(a.logger, a.runner, a.contentStore, a.metadataStore, a.fetcher, processor, &a.cfg.Pipeline), nil
	case domain.VideoAssemblyStage:
		if err := a.cfg.Video.Validate(); err != nil {
			return nil, err
		}
		jobs, err := adapters.NewMediaConvertVideoJobs(ctx, a.logger, a.sess, &a.cfg.Video)
		if err != nil {
			return nil, err
		}
		return services.NewVideoAssembler(a.logger, a.runner, a.contentStore, a.metadataStore, jobs, &a.cfg.Video), nil
	case domain.FinalizationStage:
		return services.NewFinalizer(a.logger, a.runner, a.metadataStore), nil
	}
	return nil, fmt.Errorf("unknown stage %q", stage)
}

// router wires the given stages, or every stage of the route table when none are named.
func (a *app) router(ctx context.Context, stages ...domain.StageName) (inbound.RouterPort, error) {
	routes := domain.DefaultRoutes
	if len(stages) > 0 {
		routes = routesFor(stages)
	} else {
		stages = stagesOf(routes)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no routes for stages %v", stages)
	}

	workers := make([]inbound.StageWorkerPort, 0, len(stages))
	for _, stage := range stages {
		w, err := a.worker(ctx, stage)
		if err != nil {
			return nil, fmt.Errorf("build %s worker: %w", stage, err)
		}
		workers = append(workers, w)
	}

	return services.NewRouter(a.logger, a.pools.fanout, routes, workers...)
}

func routesFor(stages []domain.StageName) []domain.Route {
	wanted := make(map[domain.StageName]bool, len(stages))
	for _, s := range stages {
		wanted[s] = true
	}
	var routes []domain.Route
	for _, route := range domain.DefaultRoutes {
		if wanted[route.Stage] {
			routes = append(routes, route)
		}
	}
	return routes
}

func stagesOf(routes []domain.Route) []domain.StageName {
	seen := make(map[domain.StageName]bool)
	var stages []domain.StageName
	for _, route := range routes {
		if !seen[route.Stage] {
			seen[route.Stage] = true
			stages = append(stages, route.Stage)
		}
	}
	return stages
}
