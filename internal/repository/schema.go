package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is wrapped by repository lookups that match no row
var ErrNotFound = errors.New("not found")

// Schema is the base table layout the repositories operate on. It is applied
// by tests and by the schema command for local environments.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS staff_members (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		staff_code VARCHAR(50) UNIQUE NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		role VARCHAR(20) NOT NULL CHECK (role IN ('admin', 'doctor', 'nurse')),
		department VARCHAR(100),
		specialization VARCHAR(100),
		device_token TEXT,
		is_on_duty BOOLEAN NOT NULL DEFAULT false,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS patients (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		patient_code VARCHAR(50) UNIQUE NOT NULL,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		date_of_birth DATE NOT NULL,
		gender VARCHAR(10) NOT NULL,
		room_number VARCHAR(20),
		bed_number VARCHAR(10),
		status VARCHAR(20) NOT NULL DEFAULT 'admitted',
		diagnosis TEXT,
		assigned_doctor_id UUID REFERENCES staff_members(id) ON DELETE SET NULL,
		assigned_nurse_id UUID REFERENCES staff_members(id) ON DELETE SET NULL,
		admission_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		discharge_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS vital_signs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		patient_id UUID NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
		heart_rate DOUBLE PRECISION,
		blood_pressure_systolic INTEGER,
		blood_pressure_diastolic INTEGER,
		oxygen_saturation DOUBLE PRECISION,
		temperature DOUBLE PRECISION,
		respiratory_rate INTEGER,
		status VARCHAR(20) NOT NULL DEFAULT 'normal',
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		recorded_by_id UUID REFERENCES staff_members(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vital_signs_patient_recorded ON vital_signs (patient_id, recorded_at DESC)`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		patient_id UUID NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
		vital_sign_id UUID REFERENCES vital_signs(id) ON DELETE SET NULL,
		alert_type VARCHAR(50) NOT NULL,
		severity VARCHAR(20) NOT NULL CHECK (severity IN ('warning', 'critical', 'emergency')),
		title VARCHAR(200) NOT NULL,
		message TEXT NOT NULL,
		is_acknowledged BOOLEAN NOT NULL DEFAULT false,
		acknowledged_by_id UUID REFERENCES staff_members(id) ON DELETE SET NULL,
		acknowledged_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_alerts_active_patient_type ON alerts (patient_id, alert_type) WHERE is_acknowledged = false`,
	`CREATE TABLE IF NOT EXISTS alert_recipients (
		alert_id UUID NOT NULL REFERENCES alerts(id) ON DELETE CASCADE,
		staff_id UUID NOT NULL REFERENCES staff_members(id) ON DELETE CASCADE,
		strategy VARCHAR(30) NOT NULL,
		routed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (alert_id, staff_id)
	)`,
	`CREATE TABLE IF NOT EXISTS risk_assessments (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		patient_id UUID NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
		risk_level VARCHAR(20) NOT NULL,
		risk_score INTEGER NOT NULL CHECK (risk_score >= 0 AND risk_score <= 100),
		risk_factors JSONB NOT NULL DEFAULT '[]',
		predictions TEXT[] NOT NULL DEFAULT '{}',
		message TEXT,
		vital_count INTEGER NOT NULL DEFAULT 0,
		early_warning_score INTEGER,
		assessed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_risk_assessments_patient ON risk_assessments (patient_id, assessed_at DESC)`,
	`CREATE TABLE IF NOT EXISTS medications (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		patient_id UUID NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
		name VARCHAR(200) NOT NULL,
		dosage VARCHAR(100) NOT NULL,
		frequency VARCHAR(100) NOT NULL,
		route VARCHAR(50),
		start_date TIMESTAMPTZ NOT NULL,
		end_date TIMESTAMPTZ,
		last_administered TIMESTAMPTZ,
		next_due TIMESTAMPTZ,
		prescribed_by_id UUID REFERENCES staff_members(id) ON DELETE SET NULL,
		notes TEXT,
		active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS shifts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		staff_id UUID NOT NULL REFERENCES staff_members(id) ON DELETE CASCADE,
		shift_type VARCHAR(20) NOT NULL CHECK (shift_type IN ('morning', 'afternoon', 'night')),
		department VARCHAR(100),
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ NOT NULL,
		checked_in_at TIMESTAMPTZ,
		checked_out_at TIMESTAMPTZ,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_shifts_start ON shifts (start_time)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		actor_id VARCHAR(100) NOT NULL,
		operation_type VARCHAR(20) NOT NULL,
		resource_type VARCHAR(50) NOT NULL,
		resource_id VARCHAR(100) NOT NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		ip_address VARCHAR(64),
		user_agent TEXT,
		additional_data JSONB
	)`,
}

// ApplySchema creates any missing tables and indexes
func ApplySchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range Schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
