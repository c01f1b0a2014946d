package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// PatientRepository manages patient records
type PatientRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPatientRepository creates a new PatientRepository
func NewPatientRepository(db *pgxpool.Pool, logger *zap.Logger) *PatientRepository {
	return &PatientRepository{
		db:     db,
		logger: logger,
	}
}

const patientColumns = `
	id, patient_code, first_name, last_name, date_of_birth, gender,
	room_number, bed_number, status, diagnosis,
	assigned_doctor_id, assigned_nurse_id,
	admission_date, discharge_date, created_at, updated_at`

func scanPatient(row pgx.Row) (*model.Patient, error) {
	var p model.Patient
	err := row.Scan(
		&p.ID,
		&p.PatientCode,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.Gender,
		&p.RoomNumber,
		&p.BedNumber,
		&p.Status,
		&p.Diagnosis,
		&p.AssignedDoctorID,
		&p.AssignedNurseID,
		&p.AdmissionDate,
		&p.DischargeDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new patient, assigning an id when missing
func (r *PatientRepository) Create(ctx context.Context, p *model.Patient) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = model.PatientStatusAdmitted
	}

	query := `
		INSERT INTO patients (
			id, patient_code, first_name, last_name, date_of_birth, gender,
			room_number, bed_number, status, diagnosis,
			assigned_doctor_id, assigned_nurse_id, admission_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		RETURNING admission_date, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		p.ID,
		p.PatientCode,
		p.FirstName,
		p.LastName,
		p.DateOfBirth,
		p.Gender,
		p.RoomNumber,
		p.BedNumber,
		string(p.Status),
		p.Diagnosis,
		p.AssignedDoctorID,
		p.AssignedNurseID,
	).Scan(&p.AdmissionDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create patient", zap.Error(err), zap.String("patient_code", p.PatientCode))
		return fmt.Errorf("failed to create patient: %w", err)
	}

	return nil
}

// GetByID retrieves a patient by id
func (r *PatientRepository) GetByID(ctx context.Context, patientID string) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	p, err := scanPatient(r.db.QueryRow(ctx, query, patientID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("patient %s: %w", patientID, ErrNotFound)
		}
		r.logger.Error("failed to get patient", zap.Error(err), zap.String("patient_id", patientID))
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return p, nil
}

// ListByStatuses returns patients in any of the given statuses, ordered by room and bed
func (r *PatientRepository) ListByStatuses(ctx context.Context, statuses []model.PatientStatus) ([]model.Patient, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	query := `
		SELECT ` + patientColumns + `
		FROM patients
		WHERE status = ANY($1::text[])
		ORDER BY room_number NULLS LAST, bed_number NULLS LAST, patient_code
	`

	rows, err := r.db.Query(ctx, query, values)
	if err != nil {
		r.logger.Error("failed to list patients", zap.Error(err), zap.Strings("statuses", values))
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	defer rows.Close()

	var patients []model.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			r.logger.Error("failed to scan patient", zap.Error(err))
			return nil, fmt.Errorf("failed to scan patient: %w", err)
		}
		patients = append(patients, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating patients", zap.Error(err))
		return nil, fmt.Errorf("error iterating patients: %w", err)
	}

	return patients, nil
}

// ListActive returns all patients covered by monitoring sweeps
func (r *PatientRepository) ListActive(ctx context.Context) ([]model.Patient, error) {
	return r.ListByStatuses(ctx, model.ActivePatientStatuses)
}
