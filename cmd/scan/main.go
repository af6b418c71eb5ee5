package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Niwa-Yume/jimmy-ai-nba/internal/config"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/database"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/datasource"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/factors"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/health"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/logger"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/metrics"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/models"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/narrative"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/projection"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/repository"
	"github.com/Niwa-Yume/jimmy-ai-nba/internal/scan"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile string
	scanDate   string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	oddsClient *datasource.OddsAPIClient
	scanner    *scan.Scanner
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&scanDate, "date", "d", "", "Slate date to scan (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the NBA slate for player-prop value",
	Long:  `Projects every active player against the bookmaker lines for a slate date and prints the qualifying bet candidates.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scanner as a long-lived service",
	Long:  `Starts the health and metrics endpoints and kicks off a background scan job for the slate date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	return config.Validate(cfg)
}

func setupDependencies() error {
	if err := factors.ValidateTables(); err != nil {
		return fmt.Errorf("invalid factor tables: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
	}).Info("Jimmy AI scanner starting")

	var err error
	db, err = database.Initialize(context.Background(), &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	httpLogger := log.New(os.Stdout, "datasource: ", log.LstdFlags)
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), httpLogger)

	providers, err := datasource.NewProviders(cfg.Ingestion, httpClient, appLog)
	if err != nil {
		return fmt.Errorf("failed to build data providers: %w", err)
	}

	oddsClient = datasource.NewOddsAPIClient(httpClient, cfg.OddsAPI, logger.NewOddsLogger(appLog))

	var narrator narrative.Generator
	if cfg.Narrative.Enabled {
		narrator = narrative.NewLLMClient(cfg.Narrative, appLog)
	} else {
		narrator = narrative.NewRuleBased()
	}

	metrics.InitRegistry()

	scanner = scan.NewScanner(
		cfg.Scan,
		repos,
		providers.Roster,
		oddsClient,
		projection.NewComposer(appLog),
		narrator,
		logger.NewScanLogger(appLog),
	)

	return nil
}

func slateDate() (time.Time, error) {
	if scanDate == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", scanDate)
}

func runScan() error {
	defer closeDB()

	date, err := slateDate()
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLog.Info("Shutdown signal received, aborting scan")
		cancel()
	}()

	candidates, err := scanner.Scan(ctx, date, nil)
	if err != nil && err != scan.ErrScanAborted {
		appLog.WithError(err).Error("Scan failed")
		return err
	}

	printReport(date, candidates, err == scan.ErrScanAborted)

	if cfg.Features.ParlayEnabled && len(candidates) >= 2 {
		printParlay(candidates)
	}

	return nil
}

func runServe() error {
	defer closeDB()

	date, err := slateDate()
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	healthServer := health.NewServer(health.Config{
		ServiceName: "jimmy-ai-scan",
		Version:     Version,
		Logger:      appLog,
		DB:          db,
		Odds:        oddsClient,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	healthServer.SetReady(true)

	job := scanner.StartJob(ctx, date)
	appLog.WithField("job_id", job.ID).Info("Background scan job started")

	go func() {
		for !job.Done() {
			time.Sleep(time.Second)
		}
		snapshot := job.Snapshot()
		appLog.WithFields(logrus.Fields{
			"job_id":     snapshot.ID,
			"status":     snapshot.Status,
			"candidates": len(snapshot.Candidates),
		}).Info("Background scan job finished")
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	job.Abort()
	cancel()
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error during health server shutdown")
	}

	appLog.Info("Jimmy AI scanner shut down successfully")
	return nil
}

func closeDB() {
	if db != nil {
		db.Close()
	}
}

func printReport(date time.Time, candidates []models.BetCandidate, aborted bool) {
	fmt.Printf("\n=== Slate Scan Report (%s) ===\n", date.Format("2006-01-02"))
	if aborted {
		fmt.Println("NOTE: scan aborted early, results are partial")
	}
	if len(candidates) == 0 {
		fmt.Println("No qualifying candidates")
		return
	}
	for i, c := range candidates {
		fmt.Printf("  %d. %s (%s vs %s) %s %s %.1f @ %.2f [%s]\n",
			i+1, c.PlayerName, c.TeamCode, c.OpponentCode, c.Market, c.Side, c.Line, c.Odds, c.Bookmaker)
		fmt.Printf("     projection=%.1f prob=%.1f%% ev=%+.3f score=%.0f tag=%s\n",
			c.Projection, c.Probability*100, c.EV, c.Score, c.Tag)
		if c.Verdict != "" {
			fmt.Printf("     %s\n", c.Verdict)
		}
	}
}

func printParlay(candidates []models.BetCandidate) {
	legs := candidates
	if len(legs) > 3 {
		legs = legs[:3]
	}
	parlay, err := scan.BuildParlay(legs)
	if err != nil {
		appLog.WithError(err).Warn("Parlay construction failed")
		return
	}
	fmt.Printf("\n=== Suggested Parlay (%d legs) ===\n", len(parlay.Legs))
	fmt.Printf("Combined odds: %.2f  Probability: %.1f%%  EV: %+.3f\n",
		parlay.CombinedOdds, parlay.Probability*100, parlay.EV)
}
