// Package main provides the entry point for the data ingestion tool.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/config"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/database"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/datasource"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/factors"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/logger"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/metrics"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/repository"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/scheduler"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		syncLogs   = flag.Bool("sync-logs", false, "Sync game logs for every active player and exit")
		injuries   = flag.Bool("injuries", false, "Refresh rosters and injury designations and exit")
		limit      = flag.Int("limit", 0, "Max game logs per player (0 = provider default)")
		schedule   = flag.Bool("schedule", false, "Run the cron scheduler until interrupted")
	)
	flag.Parse()

	appLog := logrus.New()
	appLog.SetFormatter(&logrus.JSONFormatter{})
	ctx := context.Background()

	cfg := loadConfigWithSecrets(*configPath, appLog)

	if err := factors.ValidateTables(); err != nil {
		appLog.Fatalf("Invalid factor tables: %v", err)
	}

	db, err := database.Initialize(ctx, &cfg.Database)
	if err != nil {
		appLog.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.Fatalf("Failed to initialize repositories: %v", err)
	}

	httpLogger := log.New(os.Stdout, "datasource: ", log.LstdFlags)
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), httpLogger)

	providers, err := datasource.NewProviders(cfg.Ingestion, httpClient, appLog)
	if err != nil {
		appLog.Fatalf("Failed to build data providers: %v", err)
	}

	metrics.InitRegistry()

	svc := service.NewIngestionService(
		providers.GameLogs,
		providers.Roster,
		repos.Player,
		repos.GameLog,
		cfg.Ingestion.Season,
		logger.NewIngestionLogger(appLog),
	)

	switch {
	case *schedule:
		runScheduler(cfg, svc, *limit, appLog)
	case *syncLogs:
		result, err := svc.SyncGameLogs(ctx, *limit)
		if err != nil {
			appLog.Fatalf("Game-log sync failed: %v", err)
		}
		appLog.WithField("result", result.String()).Info("Game-log sync completed")
	case *injuries:
		if err := svc.RefreshInjuries(ctx); err != nil {
			appLog.Fatalf("Injury refresh failed: %v", err)
		}
		appLog.Info("Injury refresh completed")
	default:
		appLog.Fatal("Nothing to do: pass -sync-logs, -injuries, or -schedule")
	}
}

func runScheduler(cfg *config.Config, svc *service.IngestionService, limit int, appLog *logrus.Logger) {
	cronLogger := log.New(os.Stdout, "scheduler: ", log.LstdFlags)
	sched := scheduler.NewScheduler(svc, cronLogger)

	if err := sched.ScheduleGameLogSync(cfg.Ingestion.Schedule.GameLogSync, limit); err != nil {
		appLog.Fatalf("Failed to schedule game-log sync: %v", err)
	}
	if err := sched.ScheduleInjuryRefresh(cfg.Ingestion.Schedule.InjuryRefresh); err != nil {
		appLog.Fatalf("Failed to schedule injury refresh: %v", err)
	}
	if err := sched.Start(); err != nil {
		appLog.Fatalf("Failed to start scheduler: %v", err)
	}

	appLog.WithField("next_run", sched.GetNextRun()).Info("Scheduler running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	if err := sched.Stop(); err != nil {
		appLog.Errorf("Error stopping scheduler: %v", err)
	}
}

func loadConfigWithSecrets(path string, appLog *logrus.Logger) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		appLog.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			appLog.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			appLog.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		appLog.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}
