package main

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wardwatch/wardwatch/apps/backend/internal/advisory"
	"github.com/wardwatch/wardwatch/apps/backend/internal/audit"
	"github.com/wardwatch/wardwatch/apps/backend/internal/azure"
	"github.com/wardwatch/wardwatch/apps/backend/internal/config"
	"github.com/wardwatch/wardwatch/apps/backend/internal/handler"
	"github.com/wardwatch/wardwatch/apps/backend/internal/pdf"
	"github.com/wardwatch/wardwatch/apps/backend/internal/push"
	"github.com/wardwatch/wardwatch/apps/backend/internal/repository"
	"github.com/wardwatch/wardwatch/apps/backend/internal/security"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"github.com/wardwatch/wardwatch/apps/backend/internal/simulator"
	"github.com/wardwatch/wardwatch/apps/backend/internal/stream"
	"github.com/wardwatch/wardwatch/apps/backend/internal/webhook"
	"go.uber.org/zap"
)

// application holds the wired services shared by the serve and sweep commands
type application struct {
	cfg    *config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redis.Client

	hub         *stream.Hub
	recent      handler.RecentNotifications
	dedup       *service.AlertDeduplicator
	risk        *service.RiskPredictor
	monitor     *service.VitalMonitor
	alerts      *service.AlertService
	medications *service.MedicationService
	reports     *service.ReportService
	dashboard   *service.DashboardService
	shifts      *service.ShiftService
}

// newApplication connects to the database and builds every service. Optional
// integrations are left out when their settings are absent.
func newApplication(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*application, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("Successfully connected to database")

	app := &application{cfg: cfg, logger: logger, pool: pool}

	// Live alert hub, mirrored to Redis Streams when configured
	var mirror stream.Mirror
	if cfg.Redis.Addr != "" {
		client, err := stream.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.redis = client
		redisMirror := stream.NewRedisMirror(client, cfg.Redis.Stream, cfg.Redis.MaxLen, logger)
		mirror = redisMirror
		app.recent = redisMirror
		logger.Info("Redis notification mirror enabled", zap.String("stream", cfg.Redis.Stream))
	}
	app.hub = stream.NewHub(0, mirror, logger)
	app.hub.AllowOrigins(cfg.Server.AllowedOrigins)

	var pusher service.StaffNotifier
	if cfg.Push.CredentialsFile != "" {
		notifier, err := push.NewFirebaseNotifier(ctx, cfg.Push.CredentialsFile, cfg.Push.ChannelID, logger)
		if err != nil {
			app.Close()
			return nil, err
		}
		pusher = notifier
	}

	var signer *security.Signer
	if cfg.Webhook.Secret != "" {
		signer, err = security.NewSigner(cfg.Webhook.Secret)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to create webhook signer: %w", err)
		}
	}
	sink := webhook.NewSink(cfg.Webhook.URL, cfg.Webhook.Timeout, signer, logger)
	if sink.Enabled() {
		logger.Info("Alert webhook enabled", zap.Bool("signed", signer != nil))
	}

	var advisor advisory.Consultant
	if cfg.Azure.OpenAI.Enabled() {
		openAIClient, err := azure.NewOpenAIClient(
			cfg.Azure.OpenAI.Endpoint,
			cfg.Azure.OpenAI.APIKey,
			cfg.Azure.OpenAI.Deployment,
			cfg.Advisory.MaxRetries,
			logger,
		)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize Azure OpenAI client: %w", err)
		}
		advisor = advisory.NewTextConsultant(openAIClient, logger)
		logger.Info("Risk advisory enabled", zap.String("deployment", cfg.Azure.OpenAI.Deployment))
	}

	var blobs azure.BlobStorage
	if cfg.Azure.Storage.Enabled() {
		blobClient, err := azure.NewBlobStorageClient(
			cfg.Azure.Storage.AccountName,
			cfg.Azure.Storage.AccountKey,
			cfg.Azure.Storage.ReportContainer,
			logger,
		)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to initialize report blob storage client: %w", err)
		}
		blobs = blobClient
	} else {
		logger.Warn("Azure Blob Storage not configured, reports are kept in memory")
		blobs = azure.NewMemoryBlobStorage(logger)
	}

	// Initialize repositories
	patientRepo := repository.NewPatientRepository(pool, logger)
	staffRepo := repository.NewStaffRepository(pool, logger)
	vitalRepo := repository.NewVitalRepository(pool, logger)
	alertRepo := repository.NewAlertRepository(pool, logger)
	riskRepo := repository.NewRiskAssessmentRepository(pool, logger)
	medicationRepo := repository.NewMedicationRepository(pool, logger)
	dashboardRepo := repository.NewDashboardRepository(pool, logger)
	shiftRepo := repository.NewShiftRepository(pool, logger)
	auditLogger := audit.NewLogger(pool, logger)

	// Initialize services
	router := service.NewAlertRouter(staffRepo, patientRepo, alertRepo, logger)
	app.dedup = service.NewAlertDeduplicator(alertRepo, sink, cfg.Webhook.Timeout, logger)
	app.risk = service.NewRiskPredictor(vitalRepo, patientRepo, riskRepo, advisor, cfg.Advisory.Timeout, logger)
	predictive := service.NewPredictiveAlerter(patientRepo, app.dedup, logger)

	app.monitor = service.NewVitalMonitor(service.MonitorDeps{
		Vitals:          vitalRepo,
		Patients:        patientRepo,
		Alerts:          app.dedup,
		Router:          router,
		Publisher:       app.hub,
		Pusher:          pusher,
		Generator:       simulator.NewRandom(),
		Risk:            app.risk,
		Predictive:      predictive,
		RiskConcurrency: cfg.Scheduler.RiskConcurrency,
	}, logger)

	app.alerts = service.NewAlertService(alertRepo, staffRepo, patientRepo, router, app.hub, auditLogger, logger)
	app.medications = service.NewMedicationService(medicationRepo, patientRepo, app.dedup, router, app.hub, pusher, logger)
	app.reports = service.NewReportService(
		patientRepo,
		vitalRepo,
		riskRepo,
		alertRepo,
		medicationRepo,
		pdf.NewPDFGenerator(logger),
		blobs,
		auditLogger,
		logger,
	)
	app.dashboard = service.NewDashboardService(dashboardRepo, logger)
	app.shifts = service.NewShiftService(shiftRepo, staffRepo, auditLogger, cfg.Server.Location(), logger)

	return app, nil
}

// Close waits for background webhook deliveries and releases connections
func (a *application) Close() {
	if a.dedup != nil {
		a.dedup.Wait()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	a.pool.Close()
}
