package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/wardwatch/wardwatch/apps/backend/internal/advisory"
	"github.com/wardwatch/wardwatch/apps/backend/internal/repository"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
)

// Mock implementations for testing

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) GetByID(ctx context.Context, patientID string) (*model.Patient, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Patient), args.Error(1)
}

func (m *MockPatientRepository) ListActive(ctx context.Context) ([]model.Patient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Patient), args.Error(1)
}

type MockStaffRepository struct {
	mock.Mock
}

func (m *MockStaffRepository) GetByID(ctx context.Context, staffID string) (*model.StaffMember, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StaffMember), args.Error(1)
}

func (m *MockStaffRepository) ListEligible(ctx context.Context, filter repository.StaffFilter) ([]model.StaffMember, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StaffMember), args.Error(1)
}

func (m *MockStaffRepository) SetOnDuty(ctx context.Context, staffID string, onDuty bool) (*model.StaffMember, error) {
	args := m.Called(ctx, staffID, onDuty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StaffMember), args.Error(1)
}

type MockAlertRepository struct {
	mock.Mock
}

func (m *MockAlertRepository) UpsertActive(ctx context.Context, alert *model.Alert) (bool, error) {
	args := m.Called(ctx, alert)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlertRepository) GetByID(ctx context.Context, alertID string) (*model.Alert, error) {
	args := m.Called(ctx, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Alert), args.Error(1)
}

func (m *MockAlertRepository) Acknowledge(ctx context.Context, alertID, staffID string) (*model.Alert, error) {
	args := m.Called(ctx, alertID, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Alert), args.Error(1)
}

func (m *MockAlertRepository) ListActive(ctx context.Context) ([]model.Alert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Alert), args.Error(1)
}

func (m *MockAlertRepository) ListByPatient(ctx context.Context, patientID string, limit int) ([]model.Alert, error) {
	args := m.Called(ctx, patientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Alert), args.Error(1)
}

func (m *MockAlertRepository) ListSince(ctx context.Context, since time.Time, limit int) ([]model.Alert, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Alert), args.Error(1)
}

func (m *MockAlertRepository) RecordRecipients(ctx context.Context, alertID string, strategy model.RoutingStrategy, staffIDs []string) error {
	args := m.Called(ctx, alertID, strategy, staffIDs)
	return args.Error(0)
}

func (m *MockAlertRepository) CountUnacknowledgedAssigned(ctx context.Context, staffIDs []string) (map[string]int, error) {
	args := m.Called(ctx, staffIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockVitalRepository struct {
	mock.Mock
}

func (m *MockVitalRepository) Create(ctx context.Context, v *model.VitalReading) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *MockVitalRepository) FindRecentByPatient(ctx context.Context, patientID string, limit int) ([]model.VitalReading, error) {
	args := m.Called(ctx, patientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VitalReading), args.Error(1)
}

func (m *MockVitalRepository) LatestForStatuses(ctx context.Context, statuses []model.PatientStatus) ([]model.VitalReading, error) {
	args := m.Called(ctx, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VitalReading), args.Error(1)
}

type MockAssessmentStore struct {
	mock.Mock
}

func (m *MockAssessmentStore) Create(ctx context.Context, a *model.RiskAssessment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssessmentStore) FindRecentByPatient(ctx context.Context, patientID string, limit int) ([]model.RiskAssessment, error) {
	args := m.Called(ctx, patientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RiskAssessment), args.Error(1)
}

type MockConsultant struct {
	mock.Mock
}

func (m *MockConsultant) Suggest(ctx context.Context, in advisory.Context) (*advisory.Suggestion, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*advisory.Suggestion), args.Error(1)
}

type MockAlertNotifier struct {
	mock.Mock
}

func (m *MockAlertNotifier) Post(ctx context.Context, alert *model.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

type MockAlertUpserter struct {
	mock.Mock
}

func (m *MockAlertUpserter) Upsert(ctx context.Context, draft AlertDraft) (*model.Alert, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Alert), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Distribute(ctx context.Context, patientID, alertID string, severity model.AlertSeverity) []model.StaffMember {
	args := m.Called(ctx, patientID, alertID, severity)
	return args.Get(0).([]model.StaffMember)
}

func (m *MockDispatcher) Route(ctx context.Context, patient *model.Patient, severity model.AlertSeverity) ([]model.StaffMember, error) {
	args := m.Called(ctx, patient, severity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StaffMember), args.Error(1)
}

func (m *MockDispatcher) Record(ctx context.Context, alertID string, strategy model.RoutingStrategy, recipients []model.StaffMember) {
	m.Called(ctx, alertID, strategy, recipients)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, notifications ...model.AlertNotification) {
	m.Called(ctx, notifications)
}

type MockStaffNotifier struct {
	mock.Mock
}

func (m *MockStaffNotifier) Deliver(ctx context.Context, staff model.StaffMember, notification model.AlertNotification) error {
	args := m.Called(ctx, staff, notification)
	return args.Error(0)
}

type MockRiskRecorder struct {
	mock.Mock
}

func (m *MockRiskRecorder) AnalyzeAndRecord(ctx context.Context, patientID string) (*model.RiskAssessment, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RiskAssessment), args.Error(1)
}

type MockPredictiveAlerts struct {
	mock.Mock
}

func (m *MockPredictiveAlerts) MaybeAlert(ctx context.Context, patientID string, assessment *model.RiskAssessment) (*model.Alert, error) {
	args := m.Called(ctx, patientID, assessment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Alert), args.Error(1)
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func testPatient(id string) *model.Patient {
	return &model.Patient{
		ID:          id,
		PatientCode: "MRN-" + id[:4],
		FirstName:   "John",
		LastName:    "Doe",
		Gender:      "male",
		RoomNumber:  strPtr("101"),
		BedNumber:   strPtr("A"),
		Status:      model.PatientStatusAdmitted,
	}
}

func staffMember(id, code string, role model.StaffRole) model.StaffMember {
	return model.StaffMember{
		ID:        id,
		StaffCode: code,
		FirstName: code,
		LastName:  string(role),
		Role:      role,
		IsActive:  true,
		IsOnDuty:  true,
	}
}
