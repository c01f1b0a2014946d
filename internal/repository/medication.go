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

// MedicationRepository manages medication data
type MedicationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewMedicationRepository creates a new MedicationRepository
func NewMedicationRepository(db *pgxpool.Pool, logger *zap.Logger) *MedicationRepository {
	return &MedicationRepository{
		db:     db,
		logger: logger,
	}
}

const medicationColumns = `
	id, patient_id, name, dosage, frequency, route,
	start_date, end_date, last_administered, next_due,
	prescribed_by_id, notes, active, created_at, updated_at`

func scanMedication(row pgx.Row) (*model.Medication, error) {
	var med model.Medication
	err := row.Scan(
		&med.ID,
		&med.PatientID,
		&med.Name,
		&med.Dosage,
		&med.Frequency,
		&med.Route,
		&med.StartDate,
		&med.EndDate,
		&med.LastAdministered,
		&med.NextDue,
		&med.PrescribedByID,
		&med.Notes,
		&med.Active,
		&med.CreatedAt,
		&med.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &med, nil
}

// Create creates a new medication record
func (r *MedicationRepository) Create(ctx context.Context, med *model.Medication) error {
	if med.ID == "" {
		med.ID = uuid.New().String()
	}

	query := `
		INSERT INTO medications (
			id, patient_id, name, dosage, frequency, route,
			start_date, end_date, next_due, prescribed_by_id, notes, active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		med.ID,
		med.PatientID,
		med.Name,
		med.Dosage,
		med.Frequency,
		med.Route,
		med.StartDate,
		med.EndDate,
		med.NextDue,
		med.PrescribedByID,
		med.Notes,
		med.Active,
	).Scan(&med.CreatedAt, &med.UpdatedAt)

	if err != nil {
		r.logger.Error("failed to create medication",
			zap.Error(err),
			zap.String("medication_id", med.ID),
			zap.String("patient_id", med.PatientID),
		)
		return fmt.Errorf("failed to create medication: %w", err)
	}

	return nil
}

// FindByPatientID retrieves all medications for a patient, sorted by start date
func (r *MedicationRepository) FindByPatientID(ctx context.Context, patientID string) ([]model.Medication, error) {
	query := `
		SELECT ` + medicationColumns + `
		FROM medications
		WHERE patient_id = $1
		ORDER BY start_date DESC
	`

	rows, err := r.db.Query(ctx, query, patientID)
	if err != nil {
		r.logger.Error("failed to find medications", zap.Error(err), zap.String("patient_id", patientID))
		return nil, fmt.Errorf("failed to find medications: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// FindByID retrieves a medication by ID
func (r *MedicationRepository) FindByID(ctx context.Context, medicationID string) (*model.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM medications WHERE id = $1`

	med, err := scanMedication(r.db.QueryRow(ctx, query, medicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("medication %s: %w", medicationID, ErrNotFound)
		}
		r.logger.Error("failed to find medication", zap.Error(err), zap.String("medication_id", medicationID))
		return nil, fmt.Errorf("failed to find medication: %w", err)
	}

	return med, nil
}

// FindDue returns active medications of active patients whose next dose is due at or before the given time
func (r *MedicationRepository) FindDue(ctx context.Context, before time.Time) ([]model.Medication, error) {
	query := `
		SELECT ` + prefixColumns("m", medicationColumns) + `
		FROM medications m
		JOIN patients p ON p.id = m.patient_id
		WHERE m.active = true
			AND m.next_due IS NOT NULL
			AND m.next_due <= $1
			AND (m.end_date IS NULL OR m.end_date > $1)
			AND p.status IN ('admitted', 'icu', 'emergency')
		ORDER BY m.next_due
	`

	rows, err := r.db.Query(ctx, query, before)
	if err != nil {
		r.logger.Error("failed to find due medications", zap.Error(err))
		return nil, fmt.Errorf("failed to find due medications: %w", err)
	}
	defer rows.Close()

	return r.collect(rows)
}

// RecordAdministration stores the administration time and the next due time
func (r *MedicationRepository) RecordAdministration(ctx context.Context, medicationID string, at time.Time, nextDue *time.Time) (*model.Medication, error) {
	query := `
		UPDATE medications
		SET last_administered = $2, next_due = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + medicationColumns

	med, err := scanMedication(r.db.QueryRow(ctx, query, medicationID, at, nextDue))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("medication %s: %w", medicationID, ErrNotFound)
		}
		r.logger.Error("failed to record administration", zap.Error(err), zap.String("medication_id", medicationID))
		return nil, fmt.Errorf("failed to record administration: %w", err)
	}

	return med, nil
}

func (r *MedicationRepository) collect(rows pgx.Rows) ([]model.Medication, error) {
	var medications []model.Medication
	for rows.Next() {
		med, err := scanMedication(rows)
		if err != nil {
			r.logger.Error("failed to scan medication", zap.Error(err))
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		medications = append(medications, *med)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating medications", zap.Error(err))
		return nil, fmt.Errorf("error iterating medications: %w", err)
	}

	return medications, nil
}
