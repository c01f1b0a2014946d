package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/wardwatch/wardwatch/apps/backend/internal/audit"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// Mock implementations for testing

type MockAlertOperations struct {
	mock.Mock
}

func (m *MockAlertOperations) Acknowledge(ctx context.Context, alertID, staffID string, origin service.Origin) (*model.Alert, error) {
	args := m.Called(ctx, alertID, staffID, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Alert), args.Error(1)
}

func (m *MockAlertOperations) Get(ctx context.Context, alertID string) (*model.Alert, error) {
	args := m.Called(ctx, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Alert), args.Error(1)
}

func (m *MockAlertOperations) ActiveForStaff(ctx context.Context, staffID string) ([]model.Alert, error) {
	args := m.Called(ctx, staffID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Alert), args.Error(1)
}

func (m *MockAlertOperations) ListActive(ctx context.Context) ([]model.Alert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Alert), args.Error(1)
}

func (m *MockAlertOperations) Feed() []model.AlertNotification {
	args := m.Called()
	return args.Get(0).([]model.AlertNotification)
}

func (m *MockAlertOperations) History(ctx context.Context, since time.Time, limit int) ([]model.Alert, error) {
	args := m.Called(ctx, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Alert), args.Error(1)
}

func (m *MockAlertOperations) PatientAlerts(ctx context.Context, patientID string, limit int) ([]model.Alert, error) {
	args := m.Called(ctx, patientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Alert), args.Error(1)
}

func (m *MockAlertOperations) Trail(ctx context.Context, alertID string) ([]audit.AuditLog, error) {
	args := m.Called(ctx, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.AuditLog), args.Error(1)
}

func (m *MockAlertOperations) PreviewRoute(ctx context.Context, patientID string, strategy model.RoutingStrategy, severity model.AlertSeverity) ([]model.StaffMember, error) {
	args := m.Called(ctx, patientID, strategy, severity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StaffMember), args.Error(1)
}

func (m *MockAlertOperations) SetDuty(ctx context.Context, staffID string, onDuty bool, actorID string, origin service.Origin) (*model.StaffMember, error) {
	args := m.Called(ctx, staffID, onDuty, actorID, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StaffMember), args.Error(1)
}

type MockRecentNotifications struct {
	mock.Mock
}

func (m *MockRecentNotifications) Recent(ctx context.Context, count int64) ([]model.AlertNotification, error) {
	args := m.Called(ctx, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AlertNotification), args.Error(1)
}

type fakeStream struct {
	staffID string
	err     error
}

func (f *fakeStream) ServeWS(w http.ResponseWriter, r *http.Request, staffID string) error {
	f.staffID = staffID
	if f.err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return f.err
	}
	w.WriteHeader(http.StatusSwitchingProtocols)
	return nil
}

type MockVitalPipeline struct {
	mock.Mock
}

func (m *MockVitalPipeline) Ingest(ctx context.Context, reading *model.VitalReading) (*service.IngestResult, error) {
	args := m.Called(ctx, reading)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.IngestResult), args.Error(1)
}

func (m *MockVitalPipeline) LiveVitals(ctx context.Context) ([]service.LiveVital, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.LiveVital), args.Error(1)
}

func (m *MockVitalPipeline) ListVitals(ctx context.Context, patientID string, limit int) ([]model.VitalReading, error) {
	args := m.Called(ctx, patientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.VitalReading), args.Error(1)
}

func (m *MockVitalPipeline) AnalyzePatient(ctx context.Context, patientID string) (*service.AnalyzeResult, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalyzeResult), args.Error(1)
}

func (m *MockVitalPipeline) RunSimulationCycle(ctx context.Context) (*service.SweepReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SweepReport), args.Error(1)
}

func (m *MockVitalPipeline) RunRiskSweep(ctx context.Context) (*service.SweepReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SweepReport), args.Error(1)
}

type MockRiskHistory struct {
	mock.Mock
}

func (m *MockRiskHistory) History(ctx context.Context, patientID string, limit int) ([]model.RiskAssessment, error) {
	args := m.Called(ctx, patientID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RiskAssessment), args.Error(1)
}

type MockMedicationManager struct {
	mock.Mock
}

func (m *MockMedicationManager) AddMedication(ctx context.Context, patientID string, med *model.Medication) error {
	args := m.Called(ctx, patientID, med)
	return args.Error(0)
}

func (m *MockMedicationManager) ListMedications(ctx context.Context, patientID string) ([]model.Medication, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Medication), args.Error(1)
}

func (m *MockMedicationManager) Administer(ctx context.Context, medicationID string, at time.Time) (*model.Medication, error) {
	args := m.Called(ctx, medicationID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Medication), args.Error(1)
}

func (m *MockMedicationManager) CheckDue(ctx context.Context, now time.Time) (*service.SweepReport, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SweepReport), args.Error(1)
}

type MockReportGenerator struct {
	mock.Mock
}

func (m *MockReportGenerator) PatientReport(ctx context.Context, patientID, actorID string, origin service.Origin) (*service.Report, error) {
	args := m.Called(ctx, patientID, actorID, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}

func (m *MockReportGenerator) AlertExport(ctx context.Context, since, until time.Time, actorID string, origin service.Origin) (*service.Report, error) {
	args := m.Called(ctx, since, until, actorID, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Report), args.Error(1)
}

func (m *MockReportGenerator) Download(ctx context.Context, blobName string) ([]byte, error) {
	args := m.Called(ctx, blobName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockSummaryProvider struct {
	mock.Mock
}

func (m *MockSummaryProvider) GetSummary(ctx context.Context, hours int) (*service.DashboardSummary, error) {
	args := m.Called(ctx, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DashboardSummary), args.Error(1)
}

type MockShiftOperations struct {
	mock.Mock
}

func (m *MockShiftOperations) Schedule(ctx context.Context, staffID string, shiftType model.ShiftType, day time.Time, department *string, actorID string, origin service.Origin) (*model.Shift, error) {
	args := m.Called(ctx, staffID, shiftType, day, department, actorID, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shift), args.Error(1)
}

func (m *MockShiftOperations) ListForDay(ctx context.Context, day time.Time) ([]model.Shift, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shift), args.Error(1)
}

func (m *MockShiftOperations) Today() time.Time {
	return m.Called().Get(0).(time.Time)
}

func (m *MockShiftOperations) CheckIn(ctx context.Context, shiftID, actorID string, origin service.Origin) (*model.Shift, error) {
	args := m.Called(ctx, shiftID, actorID, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shift), args.Error(1)
}

func (m *MockShiftOperations) CheckOut(ctx context.Context, shiftID, actorID string, origin service.Origin) (*model.Shift, error) {
	args := m.Called(ctx, shiftID, actorID, origin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shift), args.Error(1)
}

// testServer assembles every handler behind the generated routes
type testServer struct {
	*AlertHandler
	*VitalHandler
	*MedicationHandler
	*ReportHandler
	*DashboardHandler
	*SweepHandler
	*ShiftHandler
}

func (testServer) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{Status: "healthy", Database: "connected"})
}

var _ api.ServerInterface = testServer{}

type handlerMocks struct {
	alerts      *MockAlertOperations
	recent      *MockRecentNotifications
	stream      *fakeStream
	vitals      *MockVitalPipeline
	risk        *MockRiskHistory
	medications *MockMedicationManager
	reports     *MockReportGenerator
	dashboard   *MockSummaryProvider
	shifts      *MockShiftOperations
}

var handlerClock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestRouter() (*gin.Engine, *handlerMocks) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	m := &handlerMocks{
		alerts:      new(MockAlertOperations),
		recent:      new(MockRecentNotifications),
		stream:      &fakeStream{},
		vitals:      new(MockVitalPipeline),
		risk:        new(MockRiskHistory),
		medications: new(MockMedicationManager),
		reports:     new(MockReportGenerator),
		dashboard:   new(MockSummaryProvider),
		shifts:      new(MockShiftOperations),
	}

	alerts := NewAlertHandler(m.alerts, m.stream, m.recent, logger)
	alerts.now = func() time.Time { return handlerClock }
	sweeps := NewSweepHandler(m.vitals, m.medications, logger)
	sweeps.now = func() time.Time { return handlerClock }

	server := testServer{
		AlertHandler:      alerts,
		VitalHandler:      NewVitalHandler(m.vitals, m.risk, logger),
		MedicationHandler: NewMedicationHandler(m.medications, logger),
		ReportHandler:     NewReportHandler(m.reports, logger),
		DashboardHandler:  NewDashboardHandler(m.dashboard, logger),
		SweepHandler:      sweeps,
		ShiftHandler:      NewShiftHandler(m.shifts, logger),
	}

	router := gin.New()
	api.RegisterHandlersWithOptions(router, server, api.GinServerOptions{ErrorHandler: ParameterErrorHandler})
	return router, m
}
