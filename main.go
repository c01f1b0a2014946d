package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/wardwatch/wardwatch/apps/backend/internal/config"
	"github.com/wardwatch/wardwatch/apps/backend/internal/handler"
	"github.com/wardwatch/wardwatch/apps/backend/internal/logger"
	"github.com/wardwatch/wardwatch/apps/backend/internal/metrics"
	"github.com/wardwatch/wardwatch/apps/backend/internal/middleware"
	"github.com/wardwatch/wardwatch/apps/backend/internal/repository"
	"github.com/wardwatch/wardwatch/apps/backend/internal/scheduler"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "wardwatch",
		Short:         "Ward alerting, routing and risk prediction backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(schemaCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger shared by every command
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	log.Info("Configuration loaded successfully",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)
	return cfg, log, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the sweep scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			return serve(cmd.Context(), cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	router, err := newRouter(cfg, log, app)
	if err != nil {
		return err
	}

	sweepCtx, stopSweeps := context.WithCancel(context.Background())
	defer stopSweeps()

	sched := scheduler.New(log)
	if cfg.Scheduler.Enabled {
		sched.Add("vitals", cfg.Scheduler.VitalInterval, app.monitor.RunSimulationCycle)
		sched.Add("risk", cfg.Scheduler.RiskInterval, app.monitor.RunRiskSweep)
		sched.Add("medications", cfg.Scheduler.MedicationInterval, func(ctx context.Context) (*service.SweepReport, error) {
			return app.medications.CheckDue(ctx, time.Now())
		})
		sched.Start(sweepCtx)
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		stopSweeps()
		sched.Stop()
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Info("Shutting down server...")

	stopSweeps()
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}

// newRouter assembles the middleware chain and the generated routes
func newRouter(cfg *config.Config, log *zap.Logger, app *application) (*gin.Engine, error) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	validator, err := openAPIValidator(log)
	if err != nil {
		return nil, err
	}

	apiHandler := &APIHandler{
		alerts:     handler.NewAlertHandler(app.alerts, app.hub, app.recent, log),
		vitals:     handler.NewVitalHandler(app.monitor, app.risk, log),
		medication: handler.NewMedicationHandler(app.medications, log),
		report:     handler.NewReportHandler(app.reports, log),
		dashboard:  handler.NewDashboardHandler(app.dashboard, log),
		shifts:     handler.NewShiftHandler(app.shifts, log),
		sweeps:     handler.NewSweepHandler(app.monitor, app.medications, log),
		pool:       app.pool,
		logger:     log,
	}

	r := gin.New()

	// Add recovery middleware (must be first)
	r.Use(middleware.RecoveryMiddleware(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", middleware.StaffHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Request-ID", "X-Report-ID", "X-Blob-Name"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggingMiddleware(log))
	r.Use(middleware.ErrorLoggingMiddleware(log))
	r.Use(middleware.SlowRequestLoggingMiddleware(log, 1*time.Second))
	r.Use(validator)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Register generated API handlers
	api.RegisterHandlersWithOptions(r, apiHandler, api.GinServerOptions{
		ErrorHandler: handler.ParameterErrorHandler,
	})

	return r, nil
}

func openAPIValidator(log *zap.Logger) (gin.HandlerFunc, error) {
	doc, err := api.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load API document: %w", err)
	}
	validator, err := middleware.OpenAPIValidator(doc, log)
	if err != nil {
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}
	return validator, nil
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one monitoring sweep and print its report",
	}

	sweeps := []struct {
		use   string
		short string
		run   func(ctx context.Context, app *application) (*service.SweepReport, error)
	}{
		{"vitals", "Simulate readings for a sample of monitored patients", func(ctx context.Context, app *application) (*service.SweepReport, error) {
			return app.monitor.RunSimulationCycle(ctx)
		}},
		{"risk", "Analyze every monitored patient and raise predictive alerts", func(ctx context.Context, app *application) (*service.SweepReport, error) {
			return app.monitor.RunRiskSweep(ctx)
		}},
		{"medications", "Raise alerts for overdue doses", func(ctx context.Context, app *application) (*service.SweepReport, error) {
			return app.medications.CheckDue(ctx, time.Now())
		}},
	}

	for _, s := range sweeps {
		cmd.AddCommand(&cobra.Command{
			Use:   s.use,
			Short: s.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApplication(cmd, func(ctx context.Context, app *application) (any, error) {
					return s.run(ctx, app)
				})
			},
		})
	}

	return cmd
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <patient-id>",
		Short: "Run a risk analysis for one patient and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApplication(cmd, func(ctx context.Context, app *application) (any, error) {
				return app.monitor.AnalyzePatient(ctx, args[0])
			})
		},
	}
}

// withApplication builds the services, runs fn and prints its result as JSON
func withApplication(cmd *cobra.Command, fn func(ctx context.Context, app *application) (any, error)) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := fn(ctx, app)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Create missing tables and indexes in a local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, cfg.Database.URL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer pool.Close()

			if err := repository.ApplySchema(ctx, pool); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d schema statement(s).\n", len(repository.Schema))
			return nil
		},
	}
}
