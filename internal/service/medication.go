package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wardwatch/wardwatch/apps/backend/internal/metrics"
	"github.com/wardwatch/wardwatch/apps/backend/internal/repository"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// MedicationStore persists medications and their administration schedule
type MedicationStore interface {
	Create(ctx context.Context, med *model.Medication) error
	FindByPatientID(ctx context.Context, patientID string) ([]model.Medication, error)
	FindByID(ctx context.Context, medicationID string) (*model.Medication, error)
	FindDue(ctx context.Context, before time.Time) ([]model.Medication, error)
	RecordAdministration(ctx context.Context, medicationID string, at time.Time, nextDue *time.Time) (*model.Medication, error)
}

// dosingIntervals maps common frequency wordings to the interval between doses
var dosingIntervals = map[string]time.Duration{
	"daily":             24 * time.Hour,
	"once daily":        24 * time.Hour,
	"qd":                24 * time.Hour,
	"twice daily":       12 * time.Hour,
	"bid":               12 * time.Hour,
	"three times daily": 8 * time.Hour,
	"tid":               8 * time.Hour,
	"four times daily":  6 * time.Hour,
	"qid":               6 * time.Hour,
	"weekly":            7 * 24 * time.Hour,
	"every other day":   48 * time.Hour,
	"at bedtime":        24 * time.Hour,
	"nightly":           24 * time.Hour,
}

var hourlyFrequency = regexp.MustCompile(`^(?:every|q)\s*(\d{1,3})\s*(?:h|hr|hrs|hour|hours)$`)

// MedicationService manages ward medications and raises alerts for missed doses
type MedicationService struct {
	repo     MedicationStore
	patients PatientDirectory
	alerts   AlertUpserter
	router   AlertDispatcher
	fanout   fanout
	logger   *zap.Logger
	now      func() time.Time
}

// NewMedicationService creates a new MedicationService. publisher and pusher may be nil.
func NewMedicationService(
	repo MedicationStore,
	patients PatientDirectory,
	alerts AlertUpserter,
	router AlertDispatcher,
	publisher NotificationPublisher,
	pusher StaffNotifier,
	logger *zap.Logger,
) *MedicationService {
	return &MedicationService{
		repo:     repo,
		patients: patients,
		alerts:   alerts,
		router:   router,
		fanout:   fanout{publisher: publisher, pusher: pusher, logger: logger},
		logger:   logger,
		now:      time.Now,
	}
}

// DosingInterval returns the interval between doses for a frequency.
// ok is false for as-needed and unrecognized frequencies.
func DosingInterval(frequency string) (time.Duration, bool) {
	f := strings.ToLower(strings.TrimSpace(frequency))
	if d, ok := dosingIntervals[f]; ok {
		return d, true
	}
	if m := hourlyFrequency.FindStringSubmatch(f); m != nil {
		hours, err := strconv.Atoi(m[1])
		if err == nil && hours > 0 {
			return time.Duration(hours) * time.Hour, true
		}
	}
	return 0, false
}

// AddMedication prescribes a medication to a patient
func (s *MedicationService) AddMedication(ctx context.Context, patientID string, med *model.Medication) error {
	if _, err := uuid.Parse(patientID); err != nil {
		return fmt.Errorf("%w: patient id %q", ErrInvalidID, patientID)
	}
	if med.Name == "" {
		return invalid("name", "medication name is required")
	}
	if med.Dosage == "" {
		return invalid("dosage", "medication dosage is required")
	}
	if med.Frequency == "" {
		return invalid("frequency", "medication frequency is required")
	}

	if _, err := s.patients.GetByID(ctx, patientID); err != nil {
		return fmt.Errorf("failed to load patient: %w", err)
	}

	now := s.now()
	if med.ID == "" {
		med.ID = uuid.New().String()
	}
	med.PatientID = patientID
	if med.StartDate.IsZero() {
		med.StartDate = now
	}
	if med.EndDate != nil && !med.EndDate.After(med.StartDate) {
		return invalid("end_date", "must be after the start date")
	}

	med.Active = med.EndDate == nil || med.EndDate.After(now)
	if med.NextDue == nil {
		if _, scheduled := DosingInterval(med.Frequency); scheduled {
			first := med.StartDate
			med.NextDue = &first
		}
	}

	if err := s.repo.Create(ctx, med); err != nil {
		s.logger.Error("failed to add medication",
			zap.Error(err),
			zap.String("patient_id", patientID),
			zap.String("medication_name", med.Name),
		)
		return fmt.Errorf("failed to add medication: %w", err)
	}

	s.logger.Info("medication added successfully",
		zap.String("medication_id", med.ID),
		zap.String("patient_id", patientID),
		zap.String("name", med.Name),
	)

	return nil
}

// ListMedications returns the medications of a patient. Medications past
// their end date are reported inactive.
func (s *MedicationService) ListMedications(ctx context.Context, patientID string) ([]model.Medication, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return nil, fmt.Errorf("%w: patient id %q", ErrInvalidID, patientID)
	}

	medications, err := s.repo.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}

	now := s.now()
	for i := range medications {
		if medications[i].EndDate != nil && medications[i].EndDate.Before(now) {
			medications[i].Active = false
		}
	}
	if medications == nil {
		medications = []model.Medication{}
	}
	return medications, nil
}

// Administer records a dose and schedules the next one from the frequency
func (s *MedicationService) Administer(ctx context.Context, medicationID string, at time.Time) (*model.Medication, error) {
	if _, err := uuid.Parse(medicationID); err != nil {
		return nil, fmt.Errorf("%w: medication id %q", ErrInvalidID, medicationID)
	}
	if at.IsZero() {
		at = s.now()
	}

	med, err := s.repo.FindByID(ctx, medicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load medication: %w", err)
	}
	if !med.Active {
		return nil, invalid("medication_id", "medication %s is not active", medicationID)
	}

	var nextDue *time.Time
	if interval, ok := DosingInterval(med.Frequency); ok {
		next := at.Add(interval)
		if med.EndDate == nil || next.Before(*med.EndDate) {
			nextDue = &next
		}
	}

	updated, err := s.repo.RecordAdministration(ctx, medicationID, at, nextDue)
	if err != nil {
		return nil, fmt.Errorf("failed to record administration: %w", err)
	}

	s.logger.Info("medication administered",
		zap.String("medication_id", medicationID),
		zap.String("patient_id", updated.PatientID),
		zap.Time("administered_at", at),
	)
	return updated, nil
}

// CheckDue raises a medication_due alert for every active medication whose
// next dose is due at or before now, and routes it to the assigned care team.
func (s *MedicationService) CheckDue(ctx context.Context, now time.Time) (*SweepReport, error) {
	start := time.Now()
	defer func() { metrics.ObserveSweep("medications", time.Since(start)) }()

	due, err := s.repo.FindDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to find due medications: %w", err)
	}

	report := &SweepReport{}
	patients := make(map[string]*model.Patient)
	for i := range due {
		med := &due[i]
		if med.NextDue == nil {
			continue
		}

		patient, ok := patients[med.PatientID]
		if !ok {
			patient, err = s.patients.GetByID(ctx, med.PatientID)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					s.logger.Warn("patient lookup failed", zap.Error(err), zap.String("patient_id", med.PatientID))
				}
				report.Failed++
				continue
			}
			patients[med.PatientID] = patient
			report.Patients++
		}

		alert, err := s.alerts.Upsert(ctx, MedicationDueDraft(patient, med, now.Location()))
		if err != nil {
			s.logger.Error("failed to raise medication alert", zap.Error(err), zap.String("medication_id", med.ID))
			report.Failed++
			continue
		}
		report.Processed++
		report.Alerts++

		recipients := s.router.Distribute(ctx, patient.ID, alert.ID, alert.Severity)
		notifications := s.fanout.deliver(ctx, alert, patient, recipients, model.RoutingAssignedCare)
		report.Notifications += len(notifications)
	}

	if len(due) > 0 {
		s.logger.Info("medication due check completed",
			zap.Int("due", len(due)),
			zap.Int("alerts", report.Alerts),
			zap.Int("failed", report.Failed),
		)
	}
	return report, nil
}

// MedicationDueDraft builds the alert draft for a missed dose
func MedicationDueDraft(patient *model.Patient, med *model.Medication, loc *time.Location) AlertDraft {
	dose := fmt.Sprintf("%s %s", med.Name, med.Dosage)
	if med.Route != nil && *med.Route != "" {
		dose = fmt.Sprintf("%s (%s)", dose, *med.Route)
	}

	return AlertDraft{
		PatientID: patient.ID,
		Type:      model.AlertTypeMedicationDue,
		Severity:  model.AlertSeverityWarning,
		Title:     fmt.Sprintf("Medication Due - %s", patient.FullName()),
		Message:   fmt.Sprintf("%s was due at %s. %s", dose, med.NextDue.In(loc).Format("15:04"), patient.Location()),
	}
}
