package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wardwatch/wardwatch/apps/backend/internal/repository"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// AlertUpserter merges a draft into the active alerts of a patient
type AlertUpserter interface {
	Upsert(ctx context.Context, draft AlertDraft) (*model.Alert, error)
}

// PredictiveAlerter turns high and critical risk assessments into alerts
type PredictiveAlerter struct {
	patients PatientDirectory
	alerts   AlertUpserter
	logger   *zap.Logger
}

// NewPredictiveAlerter creates a new PredictiveAlerter
func NewPredictiveAlerter(patients PatientDirectory, alerts AlertUpserter, logger *zap.Logger) *PredictiveAlerter {
	return &PredictiveAlerter{
		patients: patients,
		alerts:   alerts,
		logger:   logger,
	}
}

// MaybeAlert upserts a predictive_warning alert when the assessment is high
// or critical. It returns nil without touching the store for lower levels
// and for unknown patients.
func (a *PredictiveAlerter) MaybeAlert(ctx context.Context, patientID string, assessment *model.RiskAssessment) (*model.Alert, error) {
	if assessment == nil {
		return nil, nil
	}
	if assessment.RiskLevel != model.RiskLevelHigh && assessment.RiskLevel != model.RiskLevelCritical {
		return nil, nil
	}

	patient, err := a.patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	alert, err := a.alerts.Upsert(ctx, PredictiveDraft(patient, assessment))
	if err != nil {
		return nil, err
	}

	a.logger.Info("predictive alert raised",
		zap.String("alert_id", alert.ID),
		zap.String("patient_id", patientID),
		zap.String("risk_level", string(assessment.RiskLevel)),
		zap.Int("risk_score", assessment.RiskScore),
	)
	return alert, nil
}

// PredictiveDraft builds the alert draft for a risk assessment
func PredictiveDraft(patient *model.Patient, assessment *model.RiskAssessment) AlertDraft {
	detail := "Early intervention recommended"
	if len(assessment.Predictions) > 0 {
		detail = strings.Join(assessment.Predictions, "; ")
	}

	severity := model.AlertSeverityWarning
	if assessment.RiskLevel == model.RiskLevelCritical {
		severity = model.AlertSeverityCritical
	}

	return AlertDraft{
		PatientID: patient.ID,
		Type:      model.AlertTypePredictiveWarning,
		Severity:  severity,
		Title:     fmt.Sprintf("AI Risk Alert - %s", patient.FullName()),
		Message:   fmt.Sprintf("Risk Score: %d. %s", assessment.RiskScore, detail),
	}
}
