package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wardwatch/wardwatch/apps/backend/internal/metrics"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// AlertStore is the persistence the deduplicator needs. UpsertActive must be
// atomic with respect to concurrent calls for the same (patient, type).
type AlertStore interface {
	UpsertActive(ctx context.Context, alert *model.Alert) (bool, error)
}

// AlertNotifier forwards alerts to an external automation endpoint
type AlertNotifier interface {
	Post(ctx context.Context, alert *model.Alert) error
}

// AlertDraft is a detected condition to be merged into the alert store
type AlertDraft struct {
	PatientID       string
	Type            string
	Severity        model.AlertSeverity
	Title           string
	Message         string
	SourceReadingID *string
}

// AlertDeduplicator keeps at most one unacknowledged alert per (patient, type)
type AlertDeduplicator struct {
	store         AlertStore
	notifier      AlertNotifier
	notifyTimeout time.Duration
	logger        *zap.Logger
	inflight      sync.WaitGroup
}

// NewAlertDeduplicator creates a new AlertDeduplicator. notifier may be nil.
func NewAlertDeduplicator(store AlertStore, notifier AlertNotifier, notifyTimeout time.Duration, logger *zap.Logger) *AlertDeduplicator {
	if notifyTimeout <= 0 {
		notifyTimeout = 5 * time.Second
	}
	return &AlertDeduplicator{
		store:         store,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		logger:        logger,
	}
}

// Upsert refreshes the active alert of the same patient and type in place,
// or creates one. The webhook notification runs in the background and its
// outcome never affects the result.
func (d *AlertDeduplicator) Upsert(ctx context.Context, draft AlertDraft) (*model.Alert, error) {
	if draft.PatientID == "" || draft.Type == "" {
		return nil, fmt.Errorf("patient id and alert type are required")
	}
	if draft.Severity.Rank() == 0 {
		return nil, fmt.Errorf("invalid alert severity: %q", draft.Severity)
	}

	alert := &model.Alert{
		PatientID:      draft.PatientID,
		VitalReadingID: draft.SourceReadingID,
		AlertType:      draft.Type,
		Severity:       draft.Severity,
		Title:          draft.Title,
		Message:        draft.Message,
	}

	created, err := d.store.UpsertActive(ctx, alert)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert alert: %w", err)
	}

	metrics.ObserveAlertUpsert(alert.AlertType, string(alert.Severity), created)
	d.logger.Info("alert upserted",
		zap.String("alert_id", alert.ID),
		zap.String("patient_id", alert.PatientID),
		zap.String("alert_type", alert.AlertType),
		zap.String("severity", string(alert.Severity)),
		zap.Bool("created", created),
	)

	d.notify(*alert)

	return alert, nil
}

// Wait blocks until background notifications started so far have finished
func (d *AlertDeduplicator) Wait() {
	d.inflight.Wait()
}

func (d *AlertDeduplicator) notify(alert model.Alert) {
	if d.notifier == nil {
		return
	}

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.notifyTimeout)
		defer cancel()

		if err := d.notifier.Post(ctx, &alert); err != nil {
			d.logger.Warn("alert webhook delivery failed",
				zap.Error(err),
				zap.String("alert_id", alert.ID),
			)
		}
	}()
}
