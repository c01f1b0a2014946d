package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/wardwatch/wardwatch/apps/backend/internal/audit"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

const (
	defaultAlertHistoryLimit = 200
	maxAlertHistoryLimit     = 5000
	defaultTrailLimit        = 50
)

// AlertBook reads and acknowledges stored alerts
type AlertBook interface {
	GetByID(ctx context.Context, alertID string) (*model.Alert, error)
	Acknowledge(ctx context.Context, alertID, staffID string) (*model.Alert, error)
	ListActive(ctx context.Context) ([]model.Alert, error)
	ListByPatient(ctx context.Context, patientID string, limit int) ([]model.Alert, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]model.Alert, error)
}

// StaffRoster reads staff members and toggles their duty status
type StaffRoster interface {
	GetByID(ctx context.Context, staffID string) (*model.StaffMember, error)
	SetOnDuty(ctx context.Context, staffID string, onDuty bool) (*model.StaffMember, error)
}

// AuditTrail records and reads audit entries
type AuditTrail interface {
	Log(ctx context.Context, entry audit.AuditLog) error
	ListForResource(ctx context.Context, resourceType audit.ResourceType, resourceID string, limit int) ([]audit.AuditLog, error)
}

// NotificationFeed drains notifications queued for polling clients
type NotificationFeed interface {
	Drain() []model.AlertNotification
}

// RoutePlanner evaluates a routing strategy without recording it
type RoutePlanner interface {
	RouteWith(ctx context.Context, strategy model.RoutingStrategy, patient *model.Patient, severity model.AlertSeverity) ([]model.StaffMember, error)
}

// Origin describes where a staff action came from, for the audit trail
type Origin struct {
	IPAddress string
	UserAgent string
}

// AlertService serves the staff-facing alert operations
type AlertService struct {
	alerts   AlertBook
	staff    StaffRoster
	patients PatientDirectory
	planner  RoutePlanner
	feed     NotificationFeed
	audit    AuditTrail
	logger   *zap.Logger
}

// NewAlertService creates a new AlertService. auditTrail may be nil.
func NewAlertService(
	alerts AlertBook,
	staff StaffRoster,
	patients PatientDirectory,
	planner RoutePlanner,
	feed NotificationFeed,
	auditTrail AuditTrail,
	logger *zap.Logger,
) *AlertService {
	return &AlertService{
		alerts:   alerts,
		staff:    staff,
		patients: patients,
		planner:  planner,
		feed:     feed,
		audit:    auditTrail,
		logger:   logger,
	}
}

// Acknowledge marks an alert as handled by a staff member. Acknowledging
// twice fails with repository.ErrAlreadyAcknowledged.
func (s *AlertService) Acknowledge(ctx context.Context, alertID, staffID string, origin Origin) (*model.Alert, error) {
	if _, err := uuid.Parse(alertID); err != nil {
		return nil, fmt.Errorf("%w: alert id %q", ErrInvalidID, alertID)
	}
	if _, err := uuid.Parse(staffID); err != nil {
		return nil, fmt.Errorf("%w: staff id %q", ErrInvalidID, staffID)
	}

	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff member: %w", err)
	}
	if !staff.IsActive {
		return nil, invalid("staff_id", "staff member %s is not active", staffID)
	}

	alert, err := s.alerts.Acknowledge(ctx, alertID, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to acknowledge alert: %w", err)
	}

	s.record(ctx, audit.AuditLog{
		ActorID:       staffID,
		OperationType: audit.OperationAcknowledge,
		ResourceType:  audit.ResourceAlert,
		ResourceID:    alertID,
		IPAddress:     origin.IPAddress,
		UserAgent:     origin.UserAgent,
		AdditionalData: map[string]interface{}{
			"alert_type": alert.AlertType,
			"severity":   string(alert.Severity),
			"patient_id": alert.PatientID,
		},
	})

	s.logger.Info("alert acknowledged",
		zap.String("alert_id", alertID),
		zap.String("staff_id", staffID),
	)
	return alert, nil
}

// Get returns one alert
func (s *AlertService) Get(ctx context.Context, alertID string) (*model.Alert, error) {
	if _, err := uuid.Parse(alertID); err != nil {
		return nil, fmt.Errorf("%w: alert id %q", ErrInvalidID, alertID)
	}

	alert, err := s.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert: %w", err)
	}
	return alert, nil
}

// ActiveForStaff returns the unacknowledged alerts a staff member should see,
// most severe first and newest first within a severity. Admins and off-duty
// staff get an empty list.
func (s *AlertService) ActiveForStaff(ctx context.Context, staffID string) ([]model.Alert, error) {
	if _, err := uuid.Parse(staffID); err != nil {
		return nil, fmt.Errorf("%w: staff id %q", ErrInvalidID, staffID)
	}

	staff, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff member: %w", err)
	}
	if staff.Role == model.StaffRoleAdmin || !staff.Eligible() {
		return []model.Alert{}, nil
	}

	return s.ListActive(ctx)
}

// ListActive returns every unacknowledged alert in display order
func (s *AlertService) ListActive(ctx context.Context) ([]model.Alert, error) {
	alerts, err := s.alerts.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active alerts: %w", err)
	}
	if alerts == nil {
		return []model.Alert{}, nil
	}

	SortAlerts(alerts)
	return alerts, nil
}

// SortAlerts orders alerts by severity descending, then created_at descending
func SortAlerts(alerts []model.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := alerts[i].Severity.Rank(), alerts[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
}

// Feed drains the notifications queued since the previous call
func (s *AlertService) Feed() []model.AlertNotification {
	if s.feed == nil {
		return []model.AlertNotification{}
	}
	return s.feed.Drain()
}

// History returns alerts created since the given time, newest first
func (s *AlertService) History(ctx context.Context, since time.Time, limit int) ([]model.Alert, error) {
	if limit <= 0 {
		limit = defaultAlertHistoryLimit
	}
	if limit > maxAlertHistoryLimit {
		limit = maxAlertHistoryLimit
	}

	alerts, err := s.alerts.ListSince(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load alert history: %w", err)
	}
	if alerts == nil {
		alerts = []model.Alert{}
	}
	return alerts, nil
}

// PatientAlerts returns the alerts of one patient, newest first
func (s *AlertService) PatientAlerts(ctx context.Context, patientID string, limit int) ([]model.Alert, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return nil, fmt.Errorf("%w: patient id %q", ErrInvalidID, patientID)
	}
	if limit <= 0 || limit > maxAlertHistoryLimit {
		limit = defaultAlertHistoryLimit
	}

	alerts, err := s.alerts.ListByPatient(ctx, patientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient alerts: %w", err)
	}
	if alerts == nil {
		alerts = []model.Alert{}
	}
	return alerts, nil
}

// Trail returns the audit entries of an alert
func (s *AlertService) Trail(ctx context.Context, alertID string) ([]audit.AuditLog, error) {
	if _, err := uuid.Parse(alertID); err != nil {
		return nil, fmt.Errorf("%w: alert id %q", ErrInvalidID, alertID)
	}
	if s.audit == nil {
		return []audit.AuditLog{}, nil
	}
	return s.audit.ListForResource(ctx, audit.ResourceAlert, alertID, defaultTrailLimit)
}

// PreviewRoute shows who a strategy would notify for a patient without
// recording anything.
func (s *AlertService) PreviewRoute(ctx context.Context, patientID string, strategy model.RoutingStrategy, severity model.AlertSeverity) ([]model.StaffMember, error) {
	if _, err := uuid.Parse(patientID); err != nil {
		return nil, fmt.Errorf("%w: patient id %q", ErrInvalidID, patientID)
	}
	if severity.Rank() == 0 {
		return nil, invalid("severity", "unknown severity %q", severity)
	}

	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient: %w", err)
	}

	staff, err := s.planner.RouteWith(ctx, strategy, patient, severity)
	if err != nil {
		return nil, err
	}
	if staff == nil {
		staff = []model.StaffMember{}
	}
	return staff, nil
}

// SetDuty toggles the on-duty flag of a staff member
func (s *AlertService) SetDuty(ctx context.Context, staffID string, onDuty bool, actorID string, origin Origin) (*model.StaffMember, error) {
	if _, err := uuid.Parse(staffID); err != nil {
		return nil, fmt.Errorf("%w: staff id %q", ErrInvalidID, staffID)
	}
	if actorID == "" {
		actorID = staffID
	}

	staff, err := s.staff.SetOnDuty(ctx, staffID, onDuty)
	if err != nil {
		return nil, fmt.Errorf("failed to update duty status: %w", err)
	}

	s.record(ctx, audit.AuditLog{
		ActorID:        actorID,
		OperationType:  audit.OperationUpdate,
		ResourceType:   audit.ResourceStaff,
		ResourceID:     staffID,
		IPAddress:      origin.IPAddress,
		UserAgent:      origin.UserAgent,
		AdditionalData: map[string]interface{}{"is_on_duty": onDuty},
	})

	s.logger.Info("staff duty status changed",
		zap.String("staff_id", staffID),
		zap.Bool("is_on_duty", onDuty),
	)
	return staff, nil
}

func (s *AlertService) record(ctx context.Context, entry audit.AuditLog) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Log(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit entry",
			zap.Error(err),
			zap.String("resource_id", entry.ResourceID),
		)
	}
}
