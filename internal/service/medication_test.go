package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wardwatch/wardwatch/apps/backend/internal/repository"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

type MockMedicationStore struct {
	mock.Mock
}

func (m *MockMedicationStore) Create(ctx context.Context, med *model.Medication) error {
	args := m.Called(ctx, med)
	return args.Error(0)
}

func (m *MockMedicationStore) FindByPatientID(ctx context.Context, patientID string) ([]model.Medication, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Medication), args.Error(1)
}

func (m *MockMedicationStore) FindByID(ctx context.Context, medicationID string) (*model.Medication, error) {
	args := m.Called(ctx, medicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medication), args.Error(1)
}

func (m *MockMedicationStore) FindDue(ctx context.Context, before time.Time) ([]model.Medication, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Medication), args.Error(1)
}

func (m *MockMedicationStore) RecordAdministration(ctx context.Context, medicationID string, at time.Time, nextDue *time.Time) (*model.Medication, error) {
	args := m.Called(ctx, medicationID, at, nextDue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medication), args.Error(1)
}

const (
	medPatientID    = "7e57a11c-3b2d-4f6e-8a90-1c2d3e4f5a6b"
	medicationID    = "9a8b7c6d-5e4f-4a3b-9c2d-1e0f9a8b7c6d"
	medicationClock = "2026-03-10T09:00:00Z"
)

type medicationMocks struct {
	repo      *MockMedicationStore
	patients  *MockPatientRepository
	alerts    *MockAlertUpserter
	router    *MockDispatcher
	publisher *MockPublisher
}

func newTestMedicationService() (*MedicationService, *medicationMocks) {
	m := &medicationMocks{
		repo:      new(MockMedicationStore),
		patients:  new(MockPatientRepository),
		alerts:    new(MockAlertUpserter),
		router:    new(MockDispatcher),
		publisher: new(MockPublisher),
	}
	svc := NewMedicationService(m.repo, m.patients, m.alerts, m.router, m.publisher, nil, zap.NewNop())
	now, _ := time.Parse(time.RFC3339, medicationClock)
	svc.now = func() time.Time { return now }
	return svc, m
}

func TestAddMedication_ValidationErrors(t *testing.T) {
	svc, m := newTestMedicationService()
	ctx := context.Background()

	tests := []struct {
		name        string
		patientID   string
		medication  *model.Medication
		expectedErr string
	}{
		{
			name:        "malformed patient ID",
			patientID:   "bed-4",
			medication:  &model.Medication{Name: "Heparin", Dosage: "5000 units", Frequency: "bid"},
			expectedErr: "invalid id",
		},
		{
			name:        "empty medication name",
			patientID:   medPatientID,
			medication:  &model.Medication{Dosage: "100mg", Frequency: "daily"},
			expectedErr: "medication name is required",
		},
		{
			name:        "empty dosage",
			patientID:   medPatientID,
			medication:  &model.Medication{Name: "Aspirin", Frequency: "daily"},
			expectedErr: "medication dosage is required",
		},
		{
			name:        "empty frequency",
			patientID:   medPatientID,
			medication:  &model.Medication{Name: "Aspirin", Dosage: "100mg"},
			expectedErr: "medication frequency is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.AddMedication(ctx, tt.patientID, tt.medication)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddMedication_SchedulesFirstDose(t *testing.T) {
	svc, m := newTestMedicationService()
	ctx := context.Background()
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	m.patients.On("GetByID", ctx, medPatientID).Return(testPatient(medPatientID), nil)
	m.repo.On("Create", ctx, mock.MatchedBy(func(med *model.Medication) bool {
		return med.PatientID == medPatientID &&
			med.Active &&
			med.NextDue != nil && med.NextDue.Equal(start)
	})).Return(nil)

	med := &model.Medication{Name: "Heparin", Dosage: "5000 units", Frequency: "every 8 hours", StartDate: start}
	err := svc.AddMedication(ctx, medPatientID, med)

	require.NoError(t, err)
	assert.NotEmpty(t, med.ID)
	m.repo.AssertExpectations(t)
}

func TestAddMedication_AsNeededHasNoSchedule(t *testing.T) {
	svc, m := newTestMedicationService()
	ctx := context.Background()

	m.patients.On("GetByID", ctx, medPatientID).Return(testPatient(medPatientID), nil)
	m.repo.On("Create", ctx, mock.MatchedBy(func(med *model.Medication) bool {
		return med.NextDue == nil
	})).Return(nil)

	err := svc.AddMedication(ctx, medPatientID, &model.Medication{Name: "Morphine", Dosage: "2mg", Frequency: "as needed"})

	require.NoError(t, err)
	m.repo.AssertExpectations(t)
}

func TestAddMedication_UnknownPatient(t *testing.T) {
	svc, m := newTestMedicationService()
	ctx := context.Background()

	m.patients.On("GetByID", ctx, medPatientID).Return(nil, fmt.Errorf("patient %s: %w", medPatientID, repository.ErrNotFound))

	err := svc.AddMedication(ctx, medPatientID, &model.Medication{Name: "Aspirin", Dosage: "100mg", Frequency: "daily"})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListMedications_MarksExpiredInactive(t *testing.T) {
	svc, m := newTestMedicationService()
	ctx := context.Background()
	past := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	m.repo.On("FindByPatientID", ctx, medPatientID).Return([]model.Medication{
		{ID: "m1", Name: "Cefazolin", Active: true, EndDate: &past},
		{ID: "m2", Name: "Heparin", Active: true},
	}, nil)

	meds, err := svc.ListMedications(ctx, medPatientID)

	require.NoError(t, err)
	require.Len(t, meds, 2)
	assert.False(t, meds[0].Active)
	assert.True(t, meds[1].Active)
}

func TestAdminister_SchedulesNextDose(t *testing.T) {
	svc, m := newTestMedicationService()
	ctx := context.Background()
	at := time.Date(2026, 3, 10, 8, 5, 0, 0, time.UTC)
	wantNext := at.Add(12 * time.Hour)

	m.repo.On("FindByID", ctx, medicationID).Return(&model.Medication{
		ID: medicationID, PatientID: medPatientID, Frequency: "BID", Active: true,
	}, nil)
	m.repo.On("RecordAdministration", ctx, medicationID, at, mock.MatchedBy(func(next *time.Time) bool {
		return next != nil && next.Equal(wantNext)
	})).Return(&model.Medication{ID: medicationID, PatientID: medPatientID, NextDue: &wantNext}, nil)

	med, err := svc.Administer(ctx, medicationID, at)

	require.NoError(t, err)
	assert.Equal(t, wantNext, *med.NextDue)
}

func TestAdminister_LastDoseBeforeEndDate(t *testing.T) {
	svc, m := newTestMedicationService()
	ctx := context.Background()
	at := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	end := at.Add(6 * time.Hour)

	m.repo.On("FindByID", ctx, medicationID).Return(&model.Medication{
		ID: medicationID, Frequency: "daily", Active: true, EndDate: &end,
	}, nil)
	m.repo.On("RecordAdministration", ctx, medicationID, at, (*time.Time)(nil)).
		Return(&model.Medication{ID: medicationID}, nil)

	_, err := svc.Administer(ctx, medicationID, at)

	require.NoError(t, err)
	m.repo.AssertExpectations(t)
}

func TestAdminister_InactiveMedication(t *testing.T) {
	svc, m := newTestMedicationService()
	ctx := context.Background()

	m.repo.On("FindByID", ctx, medicationID).Return(&model.Medication{ID: medicationID, Active: false}, nil)

	_, err := svc.Administer(ctx, medicationID, time.Time{})

	assert.True(t, IsValidation(err))
}

func TestCheckDue_RaisesAndRoutesAlert(t *testing.T) {
	svc, m := newTestMedicationService()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	route := "IV"
	nurse := staffMember("n1", "NUR-001", model.StaffRoleNurse)

	m.repo.On("FindDue", ctx, now).Return([]model.Medication{
		{ID: "m1", PatientID: medPatientID, Name: "Heparin", Dosage: "5000 units", Route: &route, NextDue: &due, Active: true},
	}, nil)
	m.patients.On("GetByID", ctx, medPatientID).Return(testPatient(medPatientID), nil)
	m.alerts.On("Upsert", ctx, AlertDraft{
		PatientID: medPatientID,
		Type:      model.AlertTypeMedicationDue,
		Severity:  model.AlertSeverityWarning,
		Title:     "Medication Due - John Doe",
		Message:   "Heparin 5000 units (IV) was due at 08:00. Room 101, Bed A.",
	}).Return(&model.Alert{ID: "alert-med", AlertType: model.AlertTypeMedicationDue, Severity: model.AlertSeverityWarning}, nil)
	m.router.On("Distribute", ctx, medPatientID, "alert-med", model.AlertSeverityWarning).Return([]model.StaffMember{nurse})
	m.publisher.On("Publish", ctx, mock.MatchedBy(func(n []model.AlertNotification) bool {
		return len(n) == 1 && n[0].StaffID == "n1" && n[0].Type == model.AlertTypeMedicationDue
	})).Return()

	report, err := svc.CheckDue(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Alerts)
	assert.Equal(t, 1, report.Notifications)
	m.alerts.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestCheckDue_SkipsMissingPatient(t *testing.T) {
	svc, m := newTestMedicationService()
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)

	m.repo.On("FindDue", ctx, now).Return([]model.Medication{
		{ID: "m1", PatientID: medPatientID, Name: "Heparin", Dosage: "5000 units", NextDue: &due},
	}, nil)
	m.patients.On("GetByID", ctx, medPatientID).Return(nil, repository.ErrNotFound)

	report, err := svc.CheckDue(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	m.alerts.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestCheckDue_StoreFailure(t *testing.T) {
	svc, m := newTestMedicationService()
	m.repo.On("FindDue", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := svc.CheckDue(context.Background(), time.Now())
	assert.Error(t, err)
}

func TestMedicationDueDraft_WithoutRoute(t *testing.T) {
	due := time.Date(2026, 3, 10, 21, 30, 0, 0, time.UTC)
	draft := MedicationDueDraft(testPatient(medPatientID), &model.Medication{Name: "Aspirin", Dosage: "81mg", NextDue: &due}, time.UTC)

	assert.Equal(t, "Aspirin 81mg was due at 21:30. Room 101, Bed A.", draft.Message)
}

func TestDosingInterval(t *testing.T) {
	tests := []struct {
		frequency string
		want      time.Duration
		ok        bool
	}{
		{"daily", 24 * time.Hour, true},
		{"Twice Daily", 12 * time.Hour, true},
		{"TID", 8 * time.Hour, true},
		{"q6h", 6 * time.Hour, true},
		{"every 4 hours", 4 * time.Hour, true},
		{"q 2 hr", 2 * time.Hour, true},
		{"as needed", 0, false},
		{"prn", 0, false},
		{"every 0 hours", 0, false},
	}

	for _, tt := range tests {
		got, ok := DosingInterval(tt.frequency)
		assert.Equal(t, tt.ok, ok, tt.frequency)
		assert.Equal(t, tt.want, got, tt.frequency)
	}
}

func TestProperty_HourlyFrequencyRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every N hours schedules N hours apart", prop.ForAll(
		func(hours int) bool {
			got, ok := DosingInterval(fmt.Sprintf("every %d hours", hours))
			return ok && got == time.Duration(hours)*time.Hour
		},
		gen.IntRange(1, 168),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
