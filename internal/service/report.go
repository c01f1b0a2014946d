package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wardwatch/wardwatch/apps/backend/internal/audit"
	"github.com/wardwatch/wardwatch/apps/backend/internal/azure"
	"github.com/wardwatch/wardwatch/apps/backend/internal/export"
	"github.com/wardwatch/wardwatch/apps/backend/internal/metrics"
	"github.com/wardwatch/wardwatch/apps/backend/internal/pdf"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

const (
	reportVitalLimit      = 20
	reportAssessmentLimit = 10
	reportAlertLimit      = 15
	maxExportWindow       = 31 * 24 * time.Hour
)

// ErrStorageDisabled is returned when a stored report is requested but no
// blob storage is configured
var ErrStorageDisabled = errors.New("report storage is not configured")

// ReportRenderer renders a patient risk report. *pdf.PDFGenerator implements it.
type ReportRenderer interface {
	Generate(data *pdf.ReportData) ([]byte, error)
}

// RiskHistory reads stored risk assessments, newest first
type RiskHistory interface {
	FindRecentByPatient(ctx context.Context, patientID string, limit int) ([]model.RiskAssessment, error)
}

// AlertHistory reads past alerts, newest first
type AlertHistory interface {
	ListByPatient(ctx context.Context, patientID string, limit int) ([]model.Alert, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]model.Alert, error)
}

// MedicationLister lists the medications of a patient
type MedicationLister interface {
	FindByPatientID(ctx context.Context, patientID string) ([]model.Medication, error)
}

// Report is a rendered document. BlobName is empty when the document was
// not stored.
type Report struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id,omitempty"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	BlobName    string    `json:"blob_name,omitempty"`
	SizeBytes   int       `json:"size_bytes"`
	GeneratedAt time.Time `json:"generated_at"`
	Data        []byte    `json:"-"`
}

// ReportService manages risk report and alert export generation
type ReportService struct {
	patients    PatientDirectory
	vitals      VitalHistory
	assessments RiskHistory
	alerts      AlertHistory
	medications MedicationLister
	renderer    ReportRenderer
	blobs       azure.BlobStorage
	audit       AuditTrail
	logger      *zap.Logger
	now         func() time.Time
}

// NewReportService creates a new ReportService. blobs and auditTrail may be nil.
func NewReportService(
	patients PatientDirectory,
	vitals VitalHistory,
	assessments RiskHistory,
	alerts AlertHistory,
	medications MedicationLister,
	renderer ReportRenderer,
	blobs azure.BlobStorage,
	auditTrail AuditTrail,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		patients:    patients,
		vitals:      vitals,
		assessments: assessments,
		alerts:      alerts,
		medications: medications,
		renderer:    renderer,
		blobs:       blobs,
		audit:       auditTrail,
		logger:      logger,
		now:         time.Now,
	}
}

// PatientReport renders the risk report of one patient and stores it when
// blob storage is configured. A failed upload still returns the document.
func (s *ReportService) PatientReport(ctx context.Context, patientID, actorID string, origin Origin) (*Report, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return nil, fmt.Errorf("%w: patient id %q", ErrInvalidID, patientID)
	}

	s.logger.Info("generating risk report", zap.String("patient_id", patientID))

	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	vitals, err := s.vitals.FindRecentByPatient(ctx, patientID, reportVitalLimit)
	if err != nil {
		s.logger.Error("failed to get vitals for report", zap.Error(err), zap.String("patient_id", patientID))
		return nil, fmt.Errorf("failed to get vitals: %w", err)
	}

	assessments, err := s.assessments.FindRecentByPatient(ctx, patientID, reportAssessmentLimit)
	if err != nil {
		s.logger.Error("failed to get risk history for report", zap.Error(err), zap.String("patient_id", patientID))
		return nil, fmt.Errorf("failed to get risk history: %w", err)
	}

	alerts, err := s.alerts.ListByPatient(ctx, patientID, reportAlertLimit)
	if err != nil {
		s.logger.Error("failed to get alerts for report", zap.Error(err), zap.String("patient_id", patientID))
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}

	medications, err := s.medications.FindByPatientID(ctx, patientID)
	if err != nil {
		s.logger.Error("failed to get medications for report", zap.Error(err), zap.String("patient_id", patientID))
		return nil, fmt.Errorf("failed to get medications: %w", err)
	}

	now := s.now()
	data, err := s.renderer.Generate(&pdf.ReportData{
		Patient:     *patient,
		Assessments: assessments,
		Vitals:      vitals,
		Alerts:      alerts,
		Medications: medications,
		GeneratedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	report := &Report{
		ID:          uuid.New().String(),
		PatientID:   patientID,
		Filename:    fmt.Sprintf("risk_%s_%s.pdf", patient.PatientCode, now.UTC().Format("20060102_150405")),
		ContentType: azure.ContentTypePDF,
		SizeBytes:   len(data),
		GeneratedAt: now,
		Data:        data,
	}
	report.BlobName = s.store(ctx, azure.ReportBlobName(patientID, report.Filename), report)

	s.record(ctx, audit.AuditLog{
		ActorID:       actorID,
		OperationType: audit.OperationExport,
		ResourceType:  audit.ResourceReport,
		ResourceID:    report.ID,
		IPAddress:     origin.IPAddress,
		UserAgent:     origin.UserAgent,
		AdditionalData: map[string]interface{}{
			"kind":       "risk_report",
			"patient_id": patientID,
			"blob_name":  report.BlobName,
		},
	})

	s.logger.Info("risk report generated",
		zap.String("report_id", report.ID),
		zap.String("patient_id", patientID),
		zap.Int("size_bytes", report.SizeBytes),
		zap.String("blob_name", report.BlobName),
	)
	return report, nil
}

// AlertExport writes the alerts created in [since, until) to a spreadsheet.
// The window may span at most 31 days.
func (s *ReportService) AlertExport(ctx context.Context, since, until time.Time, actorID string, origin Origin) (*Report, error) {
	now := s.now()
	if until.IsZero() {
		until = now
	}
	if since.IsZero() {
		since = until.Add(-24 * time.Hour)
	}
	if !since.Before(until) {
		return nil, invalid("since", "must be before until")
	}
	if until.Sub(since) > maxExportWindow {
		return nil, invalid("since", "export window may not exceed 31 days")
	}

	alerts, err := s.alerts.ListSince(ctx, since, maxAlertHistoryLimit)
	if err != nil {
		s.logger.Error("failed to get alerts for export", zap.Error(err))
		return nil, fmt.Errorf("failed to get alerts: %w", err)
	}

	inWindow := make([]model.Alert, 0, len(alerts))
	patients := make(map[string]model.Patient)
	looked := make(map[string]bool)
	for _, a := range alerts {
		if !a.CreatedAt.Before(until) {
			continue
		}
		inWindow = append(inWindow, a)

		if looked[a.PatientID] {
			continue
		}
		looked[a.PatientID] = true

		p, err := s.patients.GetByID(ctx, a.PatientID)
		if err != nil {
			s.logger.Warn("patient lookup failed during export",
				zap.Error(err),
				zap.String("patient_id", a.PatientID),
			)
			continue
		}
		patients[a.PatientID] = *p
	}

	data, err := export.AlertWorkbook(inWindow, patients)
	if err != nil {
		return nil, fmt.Errorf("failed to build alert export: %w", err)
	}

	report := &Report{
		ID:          uuid.New().String(),
		Filename:    fmt.Sprintf("alerts_%s_%s.xlsx", since.UTC().Format("20060102T1504"), until.UTC().Format("20060102T1504")),
		ContentType: azure.ContentTypeXLSX,
		SizeBytes:   len(data),
		GeneratedAt: now,
		Data:        data,
	}
	report.BlobName = s.store(ctx, azure.ExportBlobName(report.Filename), report)

	s.record(ctx, audit.AuditLog{
		ActorID:       actorID,
		OperationType: audit.OperationExport,
		ResourceType:  audit.ResourceReport,
		ResourceID:    report.ID,
		IPAddress:     origin.IPAddress,
		UserAgent:     origin.UserAgent,
		AdditionalData: map[string]interface{}{
			"kind":   "alert_export",
			"alerts": len(inWindow),
			"since":  since.UTC().Format(time.RFC3339),
			"until":  until.UTC().Format(time.RFC3339),
		},
	})

	s.logger.Info("alert export generated",
		zap.String("report_id", report.ID),
		zap.Int("alerts", len(inWindow)),
		zap.Int("size_bytes", report.SizeBytes),
	)
	return report, nil
}

// Download returns a previously stored document
func (s *ReportService) Download(ctx context.Context, blobName string) ([]byte, error) {
	if s.blobs == nil {
		return nil, ErrStorageDisabled
	}
	data, err := s.blobs.Download(ctx, blobName)
	if err != nil {
		return nil, fmt.Errorf("failed to download report: %w", err)
	}
	return data, nil
}

func (s *ReportService) store(ctx context.Context, blobName string, report *Report) string {
	if s.blobs == nil {
		return ""
	}

	name, err := s.blobs.Upload(ctx, blobName, report.ContentType, report.Data)
	if err != nil {
		metrics.ObserveExternalCall("blob", metrics.OutcomeError)
		s.logger.Warn("failed to store report, returning it unstored",
			zap.Error(err),
			zap.String("report_id", report.ID),
			zap.String("blob_name", blobName),
		)
		return ""
	}
	metrics.ObserveExternalCall("blob", metrics.OutcomeSuccess)
	return name
}

func (s *ReportService) record(ctx context.Context, entry audit.AuditLog) {
	if s.audit == nil || entry.ActorID == "" {
		return
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit entry",
			zap.Error(err),
			zap.String("resource_id", entry.ResourceID),
		)
	}
}
