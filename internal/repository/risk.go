package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// RiskAssessmentRepository keeps the history of risk assessments
type RiskAssessmentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewRiskAssessmentRepository creates a new RiskAssessmentRepository
func NewRiskAssessmentRepository(db *pgxpool.Pool, logger *zap.Logger) *RiskAssessmentRepository {
	return &RiskAssessmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create persists an assessment
func (r *RiskAssessmentRepository) Create(ctx context.Context, a *model.RiskAssessment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}

	factors, err := json.Marshal(a.RiskFactors)
	if err != nil {
		return fmt.Errorf("failed to encode risk factors: %w", err)
	}
	predictions := a.Predictions
	if predictions == nil {
		predictions = []string{}
	}

	query := `
		INSERT INTO risk_assessments (
			id, patient_id, risk_level, risk_score, risk_factors, predictions,
			message, vital_count, early_warning_score, assessed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = r.db.Exec(ctx, query,
		a.ID,
		a.PatientID,
		string(a.RiskLevel),
		a.RiskScore,
		factors,
		predictions,
		a.Message,
		a.VitalCount,
		a.EarlyWarningScore,
		a.AssessedAt,
	)
	if err != nil {
		r.logger.Error("failed to create risk assessment",
			zap.Error(err),
			zap.String("patient_id", a.PatientID),
			zap.String("risk_level", string(a.RiskLevel)),
		)
		return fmt.Errorf("failed to create risk assessment: %w", err)
	}

	return nil
}

// FindRecentByPatient returns up to limit assessments of a patient, newest first
func (r *RiskAssessmentRepository) FindRecentByPatient(ctx context.Context, patientID string, limit int) ([]model.RiskAssessment, error) {
	query := `
		SELECT id, patient_id, risk_level, risk_score, risk_factors, predictions,
			COALESCE(message, ''), vital_count, early_warning_score, assessed_at
		FROM risk_assessments
		WHERE patient_id = $1
		ORDER BY assessed_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, patientID, limit)
	if err != nil {
		r.logger.Error("failed to find risk assessments", zap.Error(err), zap.String("patient_id", patientID))
		return nil, fmt.Errorf("failed to find risk assessments: %w", err)
	}
	defer rows.Close()

	var assessments []model.RiskAssessment
	for rows.Next() {
		var a model.RiskAssessment
		var factors []byte
		err := rows.Scan(
			&a.ID,
			&a.PatientID,
			&a.RiskLevel,
			&a.RiskScore,
			&factors,
			&a.Predictions,
			&a.Message,
			&a.VitalCount,
			&a.EarlyWarningScore,
			&a.AssessedAt,
		)
		if err != nil {
			r.logger.Error("failed to scan risk assessment", zap.Error(err))
			return nil, fmt.Errorf("failed to scan risk assessment: %w", err)
		}
		if err := json.Unmarshal(factors, &a.RiskFactors); err != nil {
			r.logger.Warn("invalid risk factors payload", zap.Error(err), zap.String("assessment_id", a.ID))
			a.RiskFactors = nil
		}
		assessments = append(assessments, a)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating risk assessments", zap.Error(err))
		return nil, fmt.Errorf("error iterating risk assessments: %w", err)
	}

	return assessments, nil
}
