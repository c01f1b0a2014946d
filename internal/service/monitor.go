package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wardwatch/wardwatch/apps/backend/internal/metrics"
	"github.com/wardwatch/wardwatch/apps/backend/internal/simulator"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultVitalLimit = 50
	maxVitalLimit     = 500
)

// VitalStore persists and reads vital readings
type VitalStore interface {
	Create(ctx context.Context, v *model.VitalReading) error
	FindRecentByPatient(ctx context.Context, patientID string, limit int) ([]model.VitalReading, error)
	LatestForStatuses(ctx context.Context, statuses []model.PatientStatus) ([]model.VitalReading, error)
}

// PatientLister looks up single patients and lists the monitored ones
type PatientLister interface {
	PatientDirectory
	ListActive(ctx context.Context) ([]model.Patient, error)
}

// RiskRecorder analyzes a patient and stores the assessment
type RiskRecorder interface {
	AnalyzeAndRecord(ctx context.Context, patientID string) (*model.RiskAssessment, error)
}

// PredictiveAlerts raises alerts for high risk assessments
type PredictiveAlerts interface {
	MaybeAlert(ctx context.Context, patientID string, assessment *model.RiskAssessment) (*model.Alert, error)
}

// ReadingGenerator produces synthetic readings. *simulator.Generator implements it.
type ReadingGenerator interface {
	Sample(patients []model.Patient) []model.Patient
	BiasFor(status model.PatientStatus) simulator.Bias
	Reading(patient model.Patient, bias simulator.Bias, at time.Time) model.VitalReading
}

// MonitorDeps wires the collaborators of a VitalMonitor. Publisher, Pusher,
// Generator, Risk and Predictive are optional.
type MonitorDeps struct {
	Vitals          VitalStore
	Patients        PatientLister
	Alerts          AlertUpserter
	Router          AlertDispatcher
	Publisher       NotificationPublisher
	Pusher          StaffNotifier
	Generator       ReadingGenerator
	Risk            RiskRecorder
	Predictive      PredictiveAlerts
	RiskConcurrency int
}

// IngestResult is the outcome of ingesting one reading
type IngestResult struct {
	Reading       *model.VitalReading        `json:"reading"`
	Alerts        []model.Alert              `json:"alerts"`
	Notifications []model.AlertNotification `json:"notifications"`
}

// SweepReport summarizes one simulation or risk sweep
type SweepReport struct {
	Patients      int `json:"patients"`
	Processed     int `json:"processed"`
	Alerts        int `json:"alerts"`
	Notifications int `json:"notifications"`
	Failed        int `json:"failed"`
}

// AnalyzeResult is the outcome of an on-demand risk analysis. Alert is nil
// when the assessment did not warrant one.
type AnalyzeResult struct {
	Assessment    *model.RiskAssessment     `json:"assessment"`
	Alert         *model.Alert              `json:"alert,omitempty"`
	Notifications []model.AlertNotification `json:"notifications"`
}

// LiveVital pairs an active patient with the newest reading, if any
type LiveVital struct {
	Patient model.Patient       `json:"patient"`
	Reading *model.VitalReading `json:"reading,omitempty"`
}

// VitalMonitor runs the ingestion pipeline: store the reading, evaluate
// thresholds, deduplicate, route and notify.
type VitalMonitor struct {
	vitals          VitalStore
	patients        PatientLister
	alerts          AlertUpserter
	router          AlertDispatcher
	generator       ReadingGenerator
	risk            RiskRecorder
	predictive      PredictiveAlerts
	riskConcurrency int
	fanout          fanout
	logger          *zap.Logger
	now             func() time.Time
}

// NewVitalMonitor creates a new VitalMonitor
func NewVitalMonitor(deps MonitorDeps, logger *zap.Logger) *VitalMonitor {
	if deps.RiskConcurrency <= 0 {
		deps.RiskConcurrency = 4
	}
	return &VitalMonitor{
		vitals:          deps.Vitals,
		patients:        deps.Patients,
		alerts:          deps.Alerts,
		router:          deps.Router,
		generator:       deps.Generator,
		risk:            deps.Risk,
		predictive:      deps.Predictive,
		riskConcurrency: deps.RiskConcurrency,
		fanout: fanout{
			publisher: deps.Publisher,
			pusher:    deps.Pusher,
			logger:    logger,
		},
		logger: logger,
		now:    time.Now,
	}
}

// ValidateReading rejects physiologically implausible measurements
func ValidateReading(r *model.VitalReading) error {
	if r.HeartRate == nil && r.SystolicBP == nil && r.DiastolicBP == nil &&
		r.OxygenSaturation == nil && r.Temperature == nil && r.RespiratoryRate == nil {
		return &ValidationError{Message: "at least one measurement is required"}
	}

	if r.HeartRate != nil && (*r.HeartRate < 20 || *r.HeartRate > 300) {
		return invalid("heart_rate", "must be between 20 and 300")
	}
	if r.SystolicBP != nil && (*r.SystolicBP < 40 || *r.SystolicBP > 300) {
		return invalid("blood_pressure_systolic", "must be between 40 and 300")
	}
	if r.DiastolicBP != nil {
		if *r.DiastolicBP < 20 || *r.DiastolicBP > 200 {
			return invalid("blood_pressure_diastolic", "must be between 20 and 200")
		}
		if r.SystolicBP != nil && *r.DiastolicBP >= *r.SystolicBP {
			return invalid("blood_pressure_diastolic", "must be lower than systolic")
		}
	}
	if r.OxygenSaturation != nil && (*r.OxygenSaturation < 0 || *r.OxygenSaturation > 100) {
		return invalid("oxygen_saturation", "must be between 0 and 100")
	}
	if r.Temperature != nil && (*r.Temperature < 80 || *r.Temperature > 115) {
		return invalid("temperature", "must be between 80 and 115")
	}
	if r.RespiratoryRate != nil && (*r.RespiratoryRate < 0 || *r.RespiratoryRate > 80) {
		return invalid("respiratory_rate", "must be between 0 and 80")
	}
	return nil
}

// Ingest stores a reading and raises, routes and publishes its threshold
// alerts, one per alert type. A failed alert upsert is logged and does not
// undo the reading.
func (m *VitalMonitor) Ingest(ctx context.Context, reading *model.VitalReading) (*IngestResult, error) {
	if reading == nil {
		return nil, &ValidationError{Message: "reading is required"}
	}
	if _, err := uuid.Parse(reading.PatientID); err != nil {
		return nil, fmt.Errorf("%w: patient id %q", ErrInvalidID, reading.PatientID)
	}
	if err := ValidateReading(reading); err != nil {
		return nil, err
	}

	patient, err := m.patients.GetByID(ctx, reading.PatientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	if !patient.IsActive() {
		return nil, invalid("patient_id", "patient %s is %s", patient.ID, patient.Status)
	}

	reading.Status = ClassifyReading(reading)
	if reading.RecordedAt.IsZero() {
		reading.RecordedAt = m.now()
	}

	if err := m.vitals.Create(ctx, reading); err != nil {
		m.logger.Error("failed to store vital reading",
			zap.Error(err),
			zap.String("patient_id", reading.PatientID),
		)
		return nil, fmt.Errorf("failed to store vital reading: %w", err)
	}

	result := &IngestResult{
		Reading:       reading,
		Alerts:        []model.Alert{},
		Notifications: []model.AlertNotification{},
	}

	readingID := reading.ID
	for _, raw := range MergeRawAlerts(patient, EvaluateThresholds(patient, reading)) {
		alert, err := m.alerts.Upsert(ctx, AlertDraft{
			PatientID:       patient.ID,
			Type:            raw.Type,
			Severity:        raw.Severity,
			Title:           raw.Title,
			Message:         raw.Message,
			SourceReadingID: &readingID,
		})
		if err != nil {
			m.logger.Error("failed to raise threshold alert",
				zap.Error(err),
				zap.String("patient_id", patient.ID),
				zap.String("measurement", raw.Measurement),
			)
			continue
		}
		result.Alerts = append(result.Alerts, *alert)

		recipients := m.router.Distribute(ctx, patient.ID, alert.ID, alert.Severity)
		notifications := m.fanout.deliver(ctx, alert, patient, recipients, model.RoutingAssignedCare)
		result.Notifications = append(result.Notifications, notifications...)
	}

	m.logger.Info("vital reading ingested",
		zap.String("reading_id", reading.ID),
		zap.String("patient_id", patient.ID),
		zap.String("status", string(reading.Status)),
		zap.Int("alerts", len(result.Alerts)),
		zap.Int("notifications", len(result.Notifications)),
	)

	return result, nil
}

// RunSimulationCycle generates and ingests one synthetic reading for a
// sample of the active patients.
func (m *VitalMonitor) RunSimulationCycle(ctx context.Context) (*SweepReport, error) {
	if m.generator == nil {
		return nil, fmt.Errorf("vital simulator is not configured")
	}
	start := time.Now()
	defer func() { metrics.ObserveSweep("vitals", time.Since(start)) }()

	patients, err := m.patients.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active patients: %w", err)
	}

	sample := m.generator.Sample(patients)
	report := &SweepReport{Patients: len(sample)}
	for _, patient := range sample {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		reading := m.generator.Reading(patient, m.generator.BiasFor(patient.Status), m.now())
		result, err := m.Ingest(ctx, &reading)
		if err != nil {
			m.logger.Warn("simulated reading rejected", zap.Error(err), zap.String("patient_id", patient.ID))
			report.Failed++
			continue
		}
		report.Processed++
		report.Alerts += len(result.Alerts)
		report.Notifications += len(result.Notifications)
	}

	m.logger.Info("simulation cycle completed",
		zap.Int("patients", report.Patients),
		zap.Int("alerts", report.Alerts),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// RunRiskSweep analyzes every active patient with bounded parallelism.
// Predictive alerts are routed with the critical policy. Per-patient
// failures are logged and counted.
func (m *VitalMonitor) RunRiskSweep(ctx context.Context) (*SweepReport, error) {
	if m.risk == nil || m.predictive == nil {
		return nil, fmt.Errorf("risk predictor is not configured")
	}
	start := time.Now()
	defer func() { metrics.ObserveSweep("risk", time.Since(start)) }()

	patients, err := m.patients.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active patients: %w", err)
	}

	report := &SweepReport{Patients: len(patients)}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(m.riskConcurrency)
	for i := range patients {
		patient := &patients[i]
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			alerted, notified, err := m.sweepPatient(ctx, patient)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				m.logger.Warn("risk sweep skipped patient", zap.Error(err), zap.String("patient_id", patient.ID))
				report.Failed++
				return nil
			}
			report.Processed++
			if alerted {
				report.Alerts++
			}
			report.Notifications += notified
			return nil
		})
	}
	_ = g.Wait()

	m.logger.Info("risk sweep completed",
		zap.Int("patients", report.Patients),
		zap.Int("processed", report.Processed),
		zap.Int("alerts", report.Alerts),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", time.Since(start)),
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (m *VitalMonitor) sweepPatient(ctx context.Context, patient *model.Patient) (bool, int, error) {
	result, err := m.analyze(ctx, patient)
	if err != nil {
		return false, 0, err
	}
	return result.Alert != nil, len(result.Notifications), nil
}

// AnalyzePatient runs one on-demand risk analysis, records it and raises a
// routed predictive alert when the patient is at high or critical risk.
func (m *VitalMonitor) AnalyzePatient(ctx context.Context, patientID string) (*AnalyzeResult, error) {
	if m.risk == nil || m.predictive == nil {
		return nil, fmt.Errorf("risk predictor is not configured")
	}
	if _, err := uuid.Parse(patientID); err != nil {
		return nil, fmt.Errorf("%w: patient id %q", ErrInvalidID, patientID)
	}

	patient, err := m.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}
	return m.analyze(ctx, patient)
}

func (m *VitalMonitor) analyze(ctx context.Context, patient *model.Patient) (*AnalyzeResult, error) {
	assessment, err := m.risk.AnalyzeAndRecord(ctx, patient.ID)
	if err != nil {
		return nil, err
	}
	result := &AnalyzeResult{Assessment: assessment, Notifications: []model.AlertNotification{}}

	alert, err := m.predictive.MaybeAlert(ctx, patient.ID, assessment)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return result, nil
	}
	result.Alert = alert

	recipients, err := m.router.Route(ctx, patient, alert.Severity)
	if err != nil {
		m.logger.Warn("predictive alert routing failed", zap.Error(err), zap.String("alert_id", alert.ID))
		return result, nil
	}

	strategy := StrategyFor(alert.Severity)
	m.router.Record(ctx, alert.ID, strategy, recipients)
	result.Notifications = m.fanout.deliver(ctx, alert, patient, recipients, strategy)
	return result, nil
}

// LiveVitals returns every active patient with the newest reading
func (m *VitalMonitor) LiveVitals(ctx context.Context) ([]LiveVital, error) {
	patients, err := m.patients.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active patients: %w", err)
	}

	latest, err := m.vitals.LatestForStatuses(ctx, model.ActivePatientStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest vitals: %w", err)
	}

	byPatient := make(map[string]model.VitalReading, len(latest))
	for _, r := range latest {
		byPatient[r.PatientID] = r
	}

	board := make([]LiveVital, 0, len(patients))
	for _, p := range patients {
		entry := LiveVital{Patient: p}
		if r, ok := byPatient[p.ID]; ok {
			entry.Reading = &r
		}
		board = append(board, entry)
	}
	return board, nil
}

// ListVitals returns up to limit readings of a patient, newest first
func (m *VitalMonitor) ListVitals(ctx context.Context, patientID string, limit int) ([]model.VitalReading, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return nil, fmt.Errorf("%w: patient id %q", ErrInvalidID, patientID)
	}
	if limit <= 0 {
		limit = defaultVitalLimit
	}
	if limit > maxVitalLimit {
		limit = maxVitalLimit
	}

	readings, err := m.vitals.FindRecentByPatient(ctx, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list vital readings: %w", err)
	}
	if readings == nil {
		readings = []model.VitalReading{}
	}
	return readings, nil
}
