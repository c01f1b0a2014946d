package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/wardwatch/wardwatch/apps/backend/internal/advisory"
	"github.com/wardwatch/wardwatch/apps/backend/internal/azure"
	"github.com/wardwatch/wardwatch/apps/backend/internal/config"
	"github.com/wardwatch/wardwatch/apps/backend/internal/logger"
	"github.com/wardwatch/wardwatch/apps/backend/internal/push"
	"github.com/wardwatch/wardwatch/apps/backend/internal/security"
	"github.com/wardwatch/wardwatch/apps/backend/internal/stream"
	"github.com/wardwatch/wardwatch/apps/backend/internal/webhook"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
)

// check-integrations exercises every optional integration that is
// configured and reports which ones work. Unconfigured ones are skipped.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("debug", "console", "check-integrations")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	checks := []struct {
		name    string
		enabled bool
		run     func(ctx context.Context, cfg *config.Config, logger *zap.Logger) error
	}{
		{"Azure OpenAI advisory", cfg.Azure.OpenAI.Enabled(), checkAdvisory},
		{"Azure Blob Storage", cfg.Azure.Storage.Enabled(), checkBlobStorage},
		{"Redis notification stream", cfg.Redis.Addr != "", checkRedis},
		{"Alert webhook", cfg.Webhook.URL != "", checkWebhook},
		{"Firebase push", cfg.Push.CredentialsFile != "", checkFirebase},
	}

	failed := 0
	for _, c := range checks {
		if !c.enabled {
			log.Info("skipped, not configured", zap.String("check", c.name))
			continue
		}

		log.Info("running", zap.String("check", c.name))
		if err := c.run(ctx, cfg, log); err != nil {
			failed++
			log.Error("failed", zap.String("check", c.name), zap.Error(err))
			continue
		}
		log.Info("passed", zap.String("check", c.name))
	}

	if failed > 0 {
		log.Error("integration checks failed", zap.Int("failed", failed))
		os.Exit(1)
	}
	log.Info("all configured integrations passed")
}

func checkAdvisory(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	client, err := azure.NewOpenAIClient(
		cfg.Azure.OpenAI.Endpoint,
		cfg.Azure.OpenAI.APIKey,
		cfg.Azure.OpenAI.Deployment,
		cfg.Advisory.MaxRetries,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	heartRate, spo2 := 128.0, 89.0
	room := "ICU-2"
	in := advisory.Context{
		Patient: &model.Patient{
			PatientCode: "CHECK-001",
			FirstName:   "Integration",
			LastName:    "Check",
			RoomNumber:  &room,
			Status:      model.PatientStatusICU,
		},
		Recent: []model.VitalReading{
			{HeartRate: &heartRate, OxygenSaturation: &spo2, RecordedAt: time.Now()},
		},
		Score: 55,
		Level: model.RiskLevelHigh,
		Factors: []model.RiskFactor{
			{Type: "heart_rate", Severity: "high", Message: "Tachycardia"},
		},
		Now: time.Now(),
	}

	suggestion, err := advisory.NewTextConsultant(client, logger).Suggest(ctx, in)
	if err != nil {
		return fmt.Errorf("advisory call failed: %w", err)
	}
	if suggestion == nil {
		logger.Warn("advisory returned no opinion")
		return nil
	}

	fields := []zap.Field{zap.String("note", suggestion.Note)}
	if suggestion.Score != nil {
		fields = append(fields, zap.Int("score", *suggestion.Score))
	}
	if suggestion.Level != nil {
		fields = append(fields, zap.String("level", string(*suggestion.Level)))
	}
	logger.Info("advisory response received", fields...)
	return nil
}

func checkBlobStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	client, err := azure.NewBlobStorageClient(
		cfg.Azure.Storage.AccountName,
		cfg.Azure.Storage.AccountKey,
		cfg.Azure.Storage.ReportContainer,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create Blob Storage client: %w", err)
	}

	data := []byte("%PDF-1.4\nintegration check")
	name := fmt.Sprintf("checks/report-%d.pdf", time.Now().Unix())

	blobName, err := client.Upload(ctx, name, azure.ContentTypePDF, data)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	downloaded, err := client.Download(ctx, blobName)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	if !bytes.Equal(downloaded, data) {
		return fmt.Errorf("downloaded data doesn't match uploaded data")
	}

	logger.Info("blob round trip verified", zap.String("blob_name", blobName), zap.Int("size_bytes", len(data)))
	return nil
}

func checkRedis(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	client, err := stream.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer client.Close()

	mirror := stream.NewRedisMirror(client, cfg.Redis.Stream, cfg.Redis.MaxLen, logger)
	recent, err := mirror.Recent(ctx, 5)
	if err != nil {
		return fmt.Errorf("failed to read stream: %w", err)
	}

	logger.Info("redis stream readable", zap.String("stream", cfg.Redis.Stream), zap.Int("recent", len(recent)))
	return nil
}

func checkWebhook(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var signer *security.Signer
	if cfg.Webhook.Secret != "" {
		s, err := security.NewSigner(cfg.Webhook.Secret)
		if err != nil {
			return err
		}
		signer = s
	}

	sink := webhook.NewSink(cfg.Webhook.URL, cfg.Webhook.Timeout, signer, logger)
	alert := &model.Alert{
		ID:        "00000000-0000-0000-0000-000000000000",
		PatientID: "00000000-0000-0000-0000-000000000000",
		AlertType: model.AlertTypeCriticalVitals,
		Severity:  model.AlertSeverityWarning,
		Title:     "Integration check",
		Message:   "Test alert sent by check-integrations",
		CreatedAt: time.Now().UTC(),
	}
	return sink.Post(ctx, alert)
}

func checkFirebase(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	_, err := push.NewFirebaseNotifier(ctx, cfg.Push.CredentialsFile, cfg.Push.ChannelID, logger)
	return err
}
