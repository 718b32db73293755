package main

import (
	"article-narration-pipeline/application/services"
	"article-narration-pipeline/config"
	"article-narration-pipeline/domain"
	"article-narration-pipeline/infrastructure/gin_interface/controllers"
	"article-narration-pipeline/infrastructure/lambda_interface"
	"article-narration-pipeline/middleware"
	"context"
	"encoding/json"
	"fmt"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"os"
	"time"
)

const intakeFunction = "intake"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "narration-pipeline",
		Short:         "Turns published articles into narrated videos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $PIPELINE_CONFIG)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP surface and every stage in one process",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()
			return serve(cmd.Context(), a)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:       "lambda <stage>",
		Short:     "Run one stage, or the intake function, as a Lambda handler",
		Args:      cobra.ExactArgs(1),
		ValidArgs: lambdaFunctions(),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if args[0] == intakeFunction {
				lambda.Start(lambda_interface.NewIntakeHandler(a.logger, a.intake()).Handle)
				return nil
			}

			stage := domain.StageName(args[0])
			router, err := a.router(cmd.Context(), stage)
			if err != nil {
				return err
			}
			lambda.Start(lambda_interface.NewStageHandler(a.logger, router, stage).Handle)
			return nil
		},
	})

	var olderThan time.Duration
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "List assets that stopped advancing",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			if olderThan <= 0 {
				olderThan = a.cfg.Worker.StuckAfter
			}
			stuck, err := services.NewAuditor(a.logger, a.metadataStore).FindStuck(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			return printJSON(stuck)
		},
	}
	auditCmd.Flags().DurationVar(&olderThan, "older-than", 0, "Idle window (default $STUCK_AFTER)")
	rootCmd.AddCommand(auditCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "routes",
		Short: "Print the trigger routing table",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := domain.ValidateRoutes(domain.DefaultRoutes); err != nil {
				return err
			}
			for _, route := range domain.DefaultRoutes {
				fmt.Println(route.String())
			}
			return nil
		},
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func loadApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return newApp(cfg)
}

func serve(ctx context.Context, a *app) error {
	router, err := a.router(ctx)
	if err != nil {
		return err
	}

	tracker := services.NewAssetTracker(a.logger, a.metadataStore, a.pools.watch, a.cfg.Worker.WatchInterval)
	auditor := services.NewAuditor(a.logger, a.metadataStore)

	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger(a.logger))
	if err := engine.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("set trusted proxies: %w", err)
	}

	controllers.NewIntakeController(a.logger, a.intake()).RegisterRoutes(engine)
	controllers.NewEventsController(a.logger, router).RegisterRoutes(engine)
	controllers.NewAssetsController(a.logger, tracker).RegisterRoutes(engine)
	controllers.NewAuditController(a.logger, auditor, a.cfg.Worker.StuckAfter).RegisterRoutes(engine)
	controllers.NewRoutesController(router).RegisterRoutes(engine)

	a.logger.InfoWithFields("Starting server", map[string]interface{}{
		"addr":     a.cfg.Server.Addr,
		"metadata": a.cfg.Metadata.Backend,
	})
	return engine.Run(a.cfg.Server.Addr)
}

func lambdaFunctions() []string {
	functions := []string{intakeFunction}
	for _, stage := range stagesOf(domain.DefaultRoutes) {
		functions = append(functions, string(stage))
	}
	return functions
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
