package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// VitalRepository stores time-ordered vital-sign readings per patient
type VitalRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewVitalRepository creates a new VitalRepository
func NewVitalRepository(db *pgxpool.Pool, logger *zap.Logger) *VitalRepository {
	return &VitalRepository{
		db:     db,
		logger: logger,
	}
}

const vitalColumns = `
	id, patient_id, heart_rate, blood_pressure_systolic, blood_pressure_diastolic,
	oxygen_saturation, temperature, respiratory_rate, status,
	recorded_at, recorded_by_id, created_at`

func scanVital(row pgx.Row) (*model.VitalReading, error) {
	var v model.VitalReading
	err := row.Scan(
		&v.ID,
		&v.PatientID,
		&v.HeartRate,
		&v.SystolicBP,
		&v.DiastolicBP,
		&v.OxygenSaturation,
		&v.Temperature,
		&v.RespiratoryRate,
		&v.Status,
		&v.RecordedAt,
		&v.RecordedByID,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a vital reading. RecordedAt defaults to now when zero.
func (r *VitalRepository) Create(ctx context.Context, v *model.VitalReading) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.Status == "" {
		v.Status = model.VitalStatusNormal
	}

	query := `
		INSERT INTO vital_signs (
			id, patient_id, heart_rate, blood_pressure_systolic, blood_pressure_diastolic,
			oxygen_saturation, temperature, respiratory_rate, status,
			recorded_at, recorded_by_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, NOW()), $11)
		RETURNING recorded_at, created_at
	`

	var recordedAt any
	if !v.RecordedAt.IsZero() {
		recordedAt = v.RecordedAt
	}

	err := r.db.QueryRow(ctx, query,
		v.ID,
		v.PatientID,
		v.HeartRate,
		v.SystolicBP,
		v.DiastolicBP,
		v.OxygenSaturation,
		v.Temperature,
		v.RespiratoryRate,
		string(v.Status),
		recordedAt,
		v.RecordedByID,
	).Scan(&v.RecordedAt, &v.CreatedAt)
	if err != nil {
		r.logger.Error("failed to create vital reading",
			zap.Error(err),
			zap.String("patient_id", v.PatientID),
		)
		return fmt.Errorf("failed to create vital reading: %w", err)
	}

	return nil
}

// FindRecentByPatient returns up to limit readings for a patient, newest first
func (r *VitalRepository) FindRecentByPatient(ctx context.Context, patientID string, limit int) ([]model.VitalReading, error) {
	query := `
		SELECT ` + vitalColumns + `
		FROM vital_signs
		WHERE patient_id = $1
		ORDER BY recorded_at DESC, created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, patientID, limit)
	if err != nil {
		r.logger.Error("failed to find vital readings", zap.Error(err), zap.String("patient_id", patientID))
		return nil, fmt.Errorf("failed to find vital readings: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// LatestForStatuses returns the newest reading of every patient in one of the given statuses
func (r *VitalRepository) LatestForStatuses(ctx context.Context, statuses []model.PatientStatus) ([]model.VitalReading, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	query := `
		SELECT DISTINCT ON (v.patient_id) ` + prefixColumns("v", vitalColumns) + `
		FROM vital_signs v
		JOIN patients p ON p.id = v.patient_id
		WHERE p.status = ANY($1::text[])
		ORDER BY v.patient_id, v.recorded_at DESC, v.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, values)
	if err != nil {
		r.logger.Error("failed to find latest vital readings", zap.Error(err))
		return nil, fmt.Errorf("failed to find latest vital readings: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

func (r *VitalRepository) collect(rows pgx.Rows) ([]model.VitalReading, error) {
	var readings []model.VitalReading
	for rows.Next() {
		v, err := scanVital(rows)
		if err != nil {
			r.logger.Error("failed to scan vital reading", zap.Error(err))
			return nil, fmt.Errorf("failed to scan vital reading: %w", err)
		}
		readings = append(readings, *v)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating vital readings", zap.Error(err))
		return nil, fmt.Errorf("error iterating vital readings: %w", err)
	}

	return readings, nil
}
