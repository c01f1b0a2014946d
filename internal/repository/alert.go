package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// ErrAlreadyAcknowledged is returned when acknowledging an alert that is no longer active
var ErrAlreadyAcknowledged = errors.New("alert already acknowledged")

// AlertRepository manages alerts and their routed recipients
type AlertRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewAlertRepository creates a new AlertRepository
func NewAlertRepository(db *pgxpool.Pool, logger *zap.Logger) *AlertRepository {
	return &AlertRepository{
		db:     db,
		logger: logger,
	}
}

const alertColumns = `
	id, patient_id, vital_sign_id, alert_type, severity, title, message,
	is_acknowledged, acknowledged_by_id, acknowledged_at, created_at`

const severityRank = `CASE severity WHEN 'emergency' THEN 3 WHEN 'critical' THEN 2 WHEN 'warning' THEN 1 ELSE 0 END`

func scanAlert(row pgx.Row) (*model.Alert, error) {
	var a model.Alert
	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.VitalReadingID,
		&a.AlertType,
		&a.Severity,
		&a.Title,
		&a.Message,
		&a.IsAcknowledged,
		&a.AcknowledgedByID,
		&a.AcknowledgedAt,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpsertActive merges the alert into the unacknowledged alert of the same
// (patient, type) or inserts it. The statement is atomic: the partial unique
// index on unacknowledged alerts turns a concurrent duplicate insert into an
// update. On return the alert carries the persisted id, title and timestamp.
// The boolean reports whether a new row was created.
func (r *AlertRepository) UpsertActive(ctx context.Context, a *model.Alert) (bool, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	query := `
		INSERT INTO alerts (
			id, patient_id, vital_sign_id, alert_type, severity, title, message,
			is_acknowledged, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, false, NOW())
		ON CONFLICT (patient_id, alert_type) WHERE is_acknowledged = false
		DO UPDATE SET
			message = EXCLUDED.message,
			severity = EXCLUDED.severity,
			vital_sign_id = EXCLUDED.vital_sign_id,
			created_at = EXCLUDED.created_at
		RETURNING id, title, is_acknowledged, acknowledged_by_id, acknowledged_at, created_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.db.QueryRow(ctx, query,
		a.ID,
		a.PatientID,
		a.VitalReadingID,
		a.AlertType,
		string(a.Severity),
		a.Title,
		a.Message,
	).Scan(
		&a.ID,
		&a.Title,
		&a.IsAcknowledged,
		&a.AcknowledgedByID,
		&a.AcknowledgedAt,
		&a.CreatedAt,
		&inserted,
	)
	if err != nil {
		r.logger.Error("failed to upsert alert",
			zap.Error(err),
			zap.String("patient_id", a.PatientID),
			zap.String("alert_type", a.AlertType),
		)
		return false, fmt.Errorf("failed to upsert alert: %w", err)
	}

	return inserted, nil
}

// GetByID retrieves an alert by id
func (r *AlertRepository) GetByID(ctx context.Context, alertID string) (*model.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`

	a, err := scanAlert(r.db.QueryRow(ctx, query, alertID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("alert %s: %w", alertID, ErrNotFound)
		}
		r.logger.Error("failed to get alert", zap.Error(err), zap.String("alert_id", alertID))
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}

	return a, nil
}

// Acknowledge marks an active alert as acknowledged by a staff member
func (r *AlertRepository) Acknowledge(ctx context.Context, alertID, staffID string) (*model.Alert, error) {
	query := `
		UPDATE alerts
		SET is_acknowledged = true, acknowledged_by_id = $2, acknowledged_at = NOW()
		WHERE id = $1 AND is_acknowledged = false
		RETURNING ` + alertColumns

	a, err := scanAlert(r.db.QueryRow(ctx, query, alertID, staffID))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("failed to acknowledge alert",
			zap.Error(err),
			zap.String("alert_id", alertID),
			zap.String("staff_id", staffID),
		)
		return nil, fmt.Errorf("failed to acknowledge alert: %w", err)
	}

	// Distinguish a missing alert from one that was acknowledged already.
	if _, err := r.GetByID(ctx, alertID); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("alert %s: %w", alertID, ErrAlreadyAcknowledged)
}

// ListActive returns unacknowledged alerts, most severe and most recent first
func (r *AlertRepository) ListActive(ctx context.Context) ([]model.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE is_acknowledged = false
		ORDER BY ` + severityRank + ` DESC, created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("failed to list active alerts", zap.Error(err))
		return nil, fmt.Errorf("failed to list active alerts: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// ListByPatient returns up to limit alerts of a patient, newest first
func (r *AlertRepository) ListByPatient(ctx context.Context, patientID string, limit int) ([]model.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, patientID, limit)
	if err != nil {
		r.logger.Error("failed to list patient alerts", zap.Error(err), zap.String("patient_id", patientID))
		return nil, fmt.Errorf("failed to list patient alerts: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// ListSince returns alerts created at or after since, newest first
func (r *AlertRepository) ListSince(ctx context.Context, since time.Time, limit int) ([]model.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM alerts
		WHERE created_at >= $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, since, limit)
	if err != nil {
		r.logger.Error("failed to list alert history", zap.Error(err), zap.Time("since", since))
		return nil, fmt.Errorf("failed to list alert history: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// RecordRecipients stores which staff members an alert was routed to
func (r *AlertRepository) RecordRecipients(ctx context.Context, alertID string, strategy model.RoutingStrategy, staffIDs []string) error {
	if len(staffIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO alert_recipients (alert_id, staff_id, strategy, routed_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (alert_id, staff_id) DO UPDATE SET strategy = EXCLUDED.strategy, routed_at = EXCLUDED.routed_at
	`

	batch := &pgx.Batch{}
	for _, staffID := range staffIDs {
		batch.Queue(query, alertID, staffID, string(strategy))
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		r.logger.Error("failed to record alert recipients",
			zap.Error(err),
			zap.String("alert_id", alertID),
			zap.Int("recipients", len(staffIDs)),
		)
		return fmt.Errorf("failed to record alert recipients: %w", err)
	}

	return nil
}

// CountUnacknowledgedAssigned counts, per staff member, the unacknowledged
// alerts routed to them. Staff without such alerts are reported as zero.
func (r *AlertRepository) CountUnacknowledgedAssigned(ctx context.Context, staffIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(staffIDs))
	for _, id := range staffIDs {
		counts[id] = 0
	}
	if len(staffIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT ar.staff_id::text, COUNT(*)
		FROM alert_recipients ar
		JOIN alerts a ON a.id = ar.alert_id
		WHERE a.is_acknowledged = false AND ar.staff_id::text = ANY($1::text[])
		GROUP BY ar.staff_id
	`

	rows, err := r.db.Query(ctx, query, staffIDs)
	if err != nil {
		r.logger.Error("failed to count assigned alerts", zap.Error(err))
		return nil, fmt.Errorf("failed to count assigned alerts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var staffID string
		var count int
		if err := rows.Scan(&staffID, &count); err != nil {
			r.logger.Error("failed to scan assigned alert count", zap.Error(err))
			return nil, fmt.Errorf("failed to scan assigned alert count: %w", err)
		}
		counts[staffID] = count
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating assigned alert counts", zap.Error(err))
		return nil, fmt.Errorf("error iterating assigned alert counts: %w", err)
	}

	return counts, nil
}

func (r *AlertRepository) collect(rows pgx.Rows) ([]model.Alert, error) {
	var alerts []model.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			r.logger.Error("failed to scan alert", zap.Error(err))
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *a)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating alerts", zap.Error(err))
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	return alerts, nil
}
