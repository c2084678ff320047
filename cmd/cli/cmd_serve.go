package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alex22022005/AquaSentry/pkg/alerts"
	"github.com/alex22022005/AquaSentry/pkg/config"
	"github.com/alex22022005/AquaSentry/pkg/database"
	"github.com/alex22022005/AquaSentry/pkg/hub"
	"github.com/alex22022005/AquaSentry/pkg/inference"
	"github.com/alex22022005/AquaSentry/pkg/link"
	"github.com/alex22022005/AquaSentry/pkg/models"
	"github.com/alex22022005/AquaSentry/pkg/pipeline"
	"github.com/alex22022005/AquaSentry/pkg/training"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the AquaSentry surveillance server",
	Long:  `Start the AquaSentry server: sensor ingestion, risk scoring, alerting and the observer API.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The store is a hard dependency; refuse to start without it.
	dbManager, err := database.NewDatabaseManager(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.Init(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broadcastHub := hub.NewHub()

	ledger := alerts.NewLedger(cfg.Alerts.Hysteresis, 0)
	ledger.Start()
	defer ledger.Stop()

	var mailer alerts.Mailer
	if cfg.EmailEnabled() {
		mailer = alerts.NewSMTPMailer(cfg.Email.Host, cfg.Email.Port, cfg.Email.Username, cfg.Email.Password, cfg.Email.From)
		log.Printf("✓ Email notifications enabled via %s", cfg.Email.Host)
	} else {
		log.Println("Email notifications disabled (no SMTP host configured)")
	}
	notifier := alerts.NewNotifier(
		mailer,
		alerts.NewCooldownTracker(cfg.Alerts.Cooldown),
		cfg.Email.MaintenanceRecipients,
		cfg.Email.HealthRecipients,
		cfg.Alerts.HighRiskThreshold,
	)

	daylog, err := pipeline.NewDayLogger(cfg.Data.Dir)
	if err != nil {
		return err
	}

	var live pipeline.LiveFeed
	if cfg.Redis.URL != "" {
		feed, err := pipeline.NewRedisFeed(ctx, cfg.Redis.URL, cfg.Redis.Channel)
		if err != nil {
			// Live mirroring is best-effort; the engine runs without it.
			log.Printf("❌ Redis live feed unavailable: %v", err)
		} else {
			defer feed.Close()
			live = feed
			log.Printf("✓ Redis live feed on channel %s", cfg.Redis.Channel)
		}
	}

	pipe := pipeline.New(pipeline.Config{
		Scorer:      inference.NewProcessGateway(cfg.ML.Python, cfg.ML.PredictScript),
		Store:       dbManager,
		DayLog:      daylog,
		Hub:         broadcastHub,
		Ledger:      ledger,
		Live:        live,
		MaxInflight: cfg.Inference.MaxInflight,
		Timeout:     cfg.Inference.Timeout,
	})

	orchestrator := training.NewOrchestrator(
		training.NewProcessRunner(cfg.ML.Python, cfg.ML.TrainScript),
		daylog,
		broadcastHub,
	)
	go orchestrator.Schedule(ctx, cfg.Training.Interval, cfg.Training.InitialDelay)

	linkManager := link.NewManager(
		link.SerialLister{},
		link.SerialOpener{},
		cfg.Serial.Vendors,
		cfg.Serial.BaudRate,
		broadcastHub,
		ledger,
		pipe.HandleRaw,
	)
	go linkManager.Run(ctx, cfg.Serial.ScanInterval)

	broadcastHub.SetControlHandler(&controlBridge{orchestrator: orchestrator, notifier: notifier})

	// Setup Router
	routeManager := NewRouteManager(dbManager, broadcastHub, ledger, notifier, orchestrator)
	routeManager.Setup()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Handler:      routeManager.Router,
		Addr:         addr,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Shutdown signal received")

		cancel()
		pipe.Wait()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting AquaSentry server on %s...", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// controlBridge routes observer control messages to the subsystems that
// handle them. Notification outcomes are reported over email and logs; the
// websocket path has no reply channel.
type controlBridge struct {
	orchestrator *training.Orchestrator
	notifier     *alerts.Notifier
}

func (b *controlBridge) StartTraining() {
	b.orchestrator.Start(training.TriggerManual)
}

func (b *controlBridge) SendMaintenanceAlert(suggestions []models.MaintenanceSuggestion) {
	b.notifier.SendMaintenanceAlert(suggestions)
}

func (b *controlBridge) SendHealthAlert(report models.DiseaseRiskReport) {
	b.notifier.SendHealthAlert(report)
}
