package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/wardwatch/wardwatch/apps/backend/internal/advisory"
	"github.com/wardwatch/wardwatch/apps/backend/internal/metrics"
	"github.com/wardwatch/wardwatch/apps/backend/internal/repository"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

const (
	riskWindow      = 20
	trendWindow     = 5
	minRiskReadings = 3

	messageInsufficientData = "Insufficient data for analysis"
	messagePatientNotFound  = "Patient not found"
	messageDataUnavailable  = "Vital data unavailable"
)

// VitalHistory reads the most recent readings of a patient, newest first
type VitalHistory interface {
	FindRecentByPatient(ctx context.Context, patientID string, limit int) ([]model.VitalReading, error)
}

// AssessmentStore persists risk assessments
type AssessmentStore interface {
	Create(ctx context.Context, a *model.RiskAssessment) error
	FindRecentByPatient(ctx context.Context, patientID string, limit int) ([]model.RiskAssessment, error)
}

// RiskPredictor aggregates trending vitals into a composite risk assessment
type RiskPredictor struct {
	vitals          VitalHistory
	patients        PatientDirectory
	assessments     AssessmentStore
	advisor         advisory.Consultant
	advisoryTimeout time.Duration
	logger          *zap.Logger
	now             func() time.Time
}

// NewRiskPredictor creates a new RiskPredictor. A nil advisor disables refinement.
func NewRiskPredictor(
	vitals VitalHistory,
	patients PatientDirectory,
	assessments AssessmentStore,
	advisor advisory.Consultant,
	advisoryTimeout time.Duration,
	logger *zap.Logger,
) *RiskPredictor {
	if advisor == nil {
		advisor = advisory.Nop{}
	}
	if advisoryTimeout <= 0 {
		advisoryTimeout = 8 * time.Second
	}
	return &RiskPredictor{
		vitals:          vitals,
		patients:        patients,
		assessments:     assessments,
		advisor:         advisor,
		advisoryTimeout: advisoryTimeout,
		logger:          logger,
		now:             time.Now,
	}
}

// Analyze computes a fresh assessment for a patient. Only a malformed
// patient id is an error; missing data yields an unknown assessment.
func (p *RiskPredictor) Analyze(ctx context.Context, patientID string) (*model.RiskAssessment, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return nil, fmt.Errorf("%w: patient id %q", ErrInvalidID, patientID)
	}

	start := time.Now()
	assessment := p.analyze(ctx, patientID)
	metrics.ObserveRiskAssessment(time.Since(start), string(assessment.RiskLevel))

	p.logger.Info("risk analysis completed",
		zap.String("patient_id", patientID),
		zap.String("risk_level", string(assessment.RiskLevel)),
		zap.Int("risk_score", assessment.RiskScore),
		zap.Int("factors", len(assessment.RiskFactors)),
		zap.Int("vital_count", assessment.VitalCount),
	)

	return assessment, nil
}

func (p *RiskPredictor) analyze(ctx context.Context, patientID string) *model.RiskAssessment {
	now := p.now()

	patient, err := p.patients.GetByID(ctx, patientID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			p.logger.Warn("patient lookup failed", zap.Error(err), zap.String("patient_id", patientID))
		}
		return unknownAssessment(patientID, messagePatientNotFound, 0, now)
	}

	readings, err := p.vitals.FindRecentByPatient(ctx, patientID, riskWindow)
	if err != nil {
		p.logger.Warn("vital history unavailable", zap.Error(err), zap.String("patient_id", patientID))
		return unknownAssessment(patientID, messageDataUnavailable, 0, now)
	}
	if len(readings) < minRiskReadings {
		return unknownAssessment(patientID, messageInsufficientData, len(readings), now)
	}

	assessment := AssessVitals(readings)
	assessment.PatientID = patientID
	assessment.AssessedAt = now
	ews := EarlyWarningScore(&readings[0])
	assessment.EarlyWarningScore = &ews

	p.refine(ctx, patient, readings, assessment)

	return assessment
}

// refine applies the advisory opinion. Any failure leaves the local result untouched.
func (p *RiskPredictor) refine(ctx context.Context, patient *model.Patient, readings []model.VitalReading, a *model.RiskAssessment) {
	ctx, cancel := context.WithTimeout(ctx, p.advisoryTimeout)
	defer cancel()

	suggestion, err := p.advisor.Suggest(ctx, advisory.Context{
		Patient: patient,
		Recent:  readings,
		Score:   a.RiskScore,
		Level:   a.RiskLevel,
		Factors: a.RiskFactors,
		Now:     a.AssessedAt,
	})
	if err != nil {
		if errors.Is(err, advisory.ErrUnavailable) {
			metrics.ObserveExternalCall("advisory", metrics.OutcomeSkipped)
			return
		}
		p.logger.Warn("advisory refinement skipped", zap.Error(err), zap.String("patient_id", a.PatientID))
		return
	}
	if suggestion == nil {
		return
	}

	if suggestion.Score != nil && *suggestion.Score >= 0 && *suggestion.Score <= 100 {
		a.RiskScore = *suggestion.Score
	}
	if suggestion.Level != nil && isAssessedLevel(*suggestion.Level) {
		a.RiskLevel = *suggestion.Level
	}
	if suggestion.Note != "" {
		a.Predictions = append([]string{"AI: " + suggestion.Note}, a.Predictions...)
	}
}

// AnalyzeAndRecord analyzes a patient and appends the result to the
// assessment history. Unknown assessments are not persisted.
func (p *RiskPredictor) AnalyzeAndRecord(ctx context.Context, patientID string) (*model.RiskAssessment, error) {
	assessment, err := p.Analyze(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if assessment.RiskLevel == model.RiskLevelUnknown {
		return assessment, nil
	}

	if err := p.assessments.Create(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to record risk assessment: %w", err)
	}
	return assessment, nil
}

// History returns up to limit stored assessments of a patient, newest first
func (p *RiskPredictor) History(ctx context.Context, patientID string, limit int) ([]model.RiskAssessment, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return nil, fmt.Errorf("%w: patient id %q", ErrInvalidID, patientID)
	}
	if limit <= 0 || limit > 100 {
		limit = riskWindow
	}

	history, err := p.assessments.FindRecentByPatient(ctx, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load risk history: %w", err)
	}
	return history, nil
}

// AssessVitals scores a window of readings ordered newest first. The caller
// guarantees at least three readings.
func AssessVitals(readings []model.VitalReading) *model.RiskAssessment {
	score := 0
	var factors []model.RiskFactor
	add := func(points int, f model.RiskFactor) {
		score += points
		factors = append(factors, f)
	}

	if hr := channel(readings, func(r model.VitalReading) (float64, bool) { return floatValue(r.HeartRate) }); len(hr) > 0 {
		avg := mean(hr)
		trend := classifyTrend(trendSlope(hr), 0.5)
		switch {
		case avg < 55 || avg > 110:
			add(25, model.RiskFactor{Type: "heart_rate", Severity: "high", Trend: trend,
				Message: fmt.Sprintf("Average heart rate (%.0f bpm) is outside normal range", avg)})
		case avg < 60 || avg > 100:
			add(10, model.RiskFactor{Type: "heart_rate", Severity: "medium", Trend: trend,
				Message: fmt.Sprintf("Heart rate trending towards abnormal (%.0f bpm)", avg)})
		}
		if sd := stddev(hr); sd > 15 {
			add(15, model.RiskFactor{Type: "heart_rate_variability", Severity: "medium", Trend: model.TrendUnstable,
				Message: fmt.Sprintf("High heart rate variability detected (SD: %.1f)", sd)})
		}
	}

	if sbp := channel(readings, func(r model.VitalReading) (float64, bool) { return intValue(r.SystolicBP) }); len(sbp) > 0 {
		avg := mean(sbp)
		trend := classifyTrend(trendSlope(sbp), 1)
		switch {
		case avg < 85 || avg > 165:
			add(30, model.RiskFactor{Type: "blood_pressure", Severity: "high", Trend: trend,
				Message: fmt.Sprintf("Blood pressure (%.0f mmHg systolic) critically abnormal", avg)})
		case avg < 95 || avg > 145:
			add(15, model.RiskFactor{Type: "blood_pressure", Severity: "medium", Trend: trend,
				Message: "Blood pressure trending towards abnormal range"})
		}
	}

	if o2 := channel(readings, func(r model.VitalReading) (float64, bool) { return floatValue(r.OxygenSaturation) }); len(o2) > 0 {
		avg := mean(o2)
		slope := trendSlope(o2)
		trend := model.TrendStable
		if slope < -0.2 {
			trend = model.TrendDecreasing
		}
		switch {
		case avg < 90:
			add(35, model.RiskFactor{Type: "oxygen_saturation", Severity: "critical", Trend: trend,
				Message: fmt.Sprintf("Oxygen saturation critically low (%.0f%%)", avg)})
		case avg < 94:
			add(20, model.RiskFactor{Type: "oxygen_saturation", Severity: "high", Trend: trend,
				Message: fmt.Sprintf("Low oxygen saturation (%.0f%%)", avg)})
		}
		if slope < -0.5 && avg < 96 {
			add(10, model.RiskFactor{Type: "oxygen_trend", Severity: "medium", Trend: model.TrendDecreasing,
				Message: "Oxygen saturation showing declining trend"})
		}
	}

	if temp := channel(readings, func(r model.VitalReading) (float64, bool) { return floatValue(r.Temperature) }); len(temp) > 0 {
		avg := mean(temp)
		trend := classifyTrend(trendSlope(temp), 0.1)
		switch {
		case avg < 96 || avg > 102:
			add(25, model.RiskFactor{Type: "temperature", Severity: "high", Trend: trend,
				Message: fmt.Sprintf("Temperature critically abnormal (%.1f°F)", avg)})
		case avg < 97 || avg > 100:
			add(10, model.RiskFactor{Type: "temperature", Severity: "medium", Trend: trend,
				Message: fmt.Sprintf("Temperature outside normal range (%.1f°F)", avg)})
		}
	}

	if rr := channel(readings, func(r model.VitalReading) (float64, bool) { return intValue(r.RespiratoryRate) }); len(rr) > 0 {
		if avg := mean(rr); avg < 10 || avg > 28 {
			add(25, model.RiskFactor{Type: "respiratory_rate", Severity: "high", Trend: model.TrendAbnormal,
				Message: fmt.Sprintf("Respiratory rate abnormal (%.0f/min)", avg)})
		}
	}

	if score > 100 {
		score = 100
	}

	if factors == nil {
		factors = []model.RiskFactor{}
	}

	return &model.RiskAssessment{
		RiskLevel:   LevelForScore(score),
		RiskScore:   score,
		RiskFactors: factors,
		Predictions: predictionsFor(factors),
		VitalCount:  len(readings),
	}
}

// LevelForScore maps a clamped risk score to a level
func LevelForScore(score int) model.RiskLevel {
	switch {
	case score >= 70:
		return model.RiskLevelCritical
	case score >= 50:
		return model.RiskLevelHigh
	case score >= 30:
		return model.RiskLevelModerate
	case score > 0:
		return model.RiskLevelLow
	default:
		return model.RiskLevelStable
	}
}

// predictions keyed by factor type and trend direction
var trendPredictions = map[string]map[model.Trend]string{
	"heart_rate":        {model.TrendIncreasing: "Heart rate may reach critical levels in next 1-2 hours"},
	"oxygen_saturation": {model.TrendDecreasing: "Oxygen levels may require intervention within 30-60 minutes"},
	"blood_pressure":    {model.TrendIncreasing: "Blood pressure trending upward - monitor closely"},
	"temperature":       {model.TrendIncreasing: "Fever may worsen - consider intervention"},
}

func predictionsFor(factors []model.RiskFactor) []string {
	predictions := []string{}
	for _, f := range factors {
		if text, ok := trendPredictions[f.Type][f.Trend]; ok {
			predictions = append(predictions, text)
		}
	}
	return predictions
}

func isAssessedLevel(level model.RiskLevel) bool {
	switch level {
	case model.RiskLevelCritical, model.RiskLevelHigh, model.RiskLevelModerate, model.RiskLevelLow, model.RiskLevelStable:
		return true
	}
	return false
}

func unknownAssessment(patientID, message string, count int, now time.Time) *model.RiskAssessment {
	return &model.RiskAssessment{
		PatientID:   patientID,
		RiskLevel:   model.RiskLevelUnknown,
		RiskScore:   0,
		RiskFactors: []model.RiskFactor{},
		Predictions: []string{},
		Message:     message,
		VitalCount:  count,
		AssessedAt:  now,
	}
}

// channel collects the non-null values of one measurement, preserving the
// newest-first order of readings.
func channel(readings []model.VitalReading, value func(model.VitalReading) (float64, bool)) []float64 {
	values := make([]float64, 0, len(readings))
	for _, r := range readings {
		if v, ok := value(r); ok {
			values = append(values, v)
		}
	}
	return values
}

func classifyTrend(slope, threshold float64) model.Trend {
	switch {
	case slope > threshold:
		return model.TrendIncreasing
	case slope < -threshold:
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}

// trendSlope fits a least-squares line over the most recent trendWindow
// values in chronological order. newestFirst is ordered newest first.
func trendSlope(newestFirst []float64) float64 {
	n := len(newestFirst)
	if n > trendWindow {
		n = trendWindow
	}
	if n < 2 {
		return 0
	}

	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		ys[n-1-i] = newestFirst[i]
	}
	return slope(ys)
}

// slope returns the least-squares slope of ys against x = 0..len(ys)-1
func slope(ys []float64) float64 {
	n := float64(len(ys))
	if n < 2 {
		return 0
	}
	xMean := (n - 1) / 2
	yMean := mean(ys)

	var num, den float64
	for i, y := range ys {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation
func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return math.Sqrt(sum / float64(len(values)))
}
