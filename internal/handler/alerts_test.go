package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wardwatch/wardwatch/apps/backend/internal/audit"
	"github.com/wardwatch/wardwatch/apps/backend/internal/repository"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

const (
	testAlertID   = "0b8e2f4c-6a1d-4e3b-9c7f-5d2a8e1b4c60"
	testStaffID   = "7c1f9e3a-2b4d-4f6e-8a0c-1e3b5d7f9a2c"
	testPatientID = "5d0c2a8e-1f4b-4c6a-9e2d-7b3a1c9f0e42"
)

func serve(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestAlertHandler_Active(t *testing.T) {
	t.Run("all active alerts", func(t *testing.T) {
		router, m := newTestRouter()
		m.alerts.On("ListActive", mock.Anything).Return([]model.Alert{
			{ID: "a-1", Severity: model.AlertSeverityCritical},
			{ID: "a-2", Severity: model.AlertSeverityWarning},
		}, nil)

		w := serve(router, http.MethodGet, "/api/v1/alerts/active", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var alerts []model.Alert
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alerts))
		assert.Len(t, alerts, 2)
		m.alerts.AssertNotCalled(t, "ActiveForStaff", mock.Anything, mock.Anything)
	})

	t.Run("for one staff member", func(t *testing.T) {
		router, m := newTestRouter()
		m.alerts.On("ActiveForStaff", mock.Anything, testStaffID).Return([]model.Alert{}, nil)

		w := serve(router, http.MethodGet, "/api/v1/alerts/active?staff_id="+testStaffID, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("malformed staff id", func(t *testing.T) {
		router, _ := newTestRouter()

		w := serve(router, http.MethodGet, "/api/v1/alerts/active?staff_id=nurse-1", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeValidation, decodeError(t, w).Code)
	})

	t.Run("unknown staff member", func(t *testing.T) {
		router, m := newTestRouter()
		m.alerts.On("ActiveForStaff", mock.Anything, testStaffID).Return(nil, repository.ErrNotFound)

		w := serve(router, http.MethodGet, "/api/v1/alerts/active?staff_id="+testStaffID, "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, CodeNotFound, decodeError(t, w).Code)
	})
}

func TestAlertHandler_Acknowledge(t *testing.T) {
	target := "/api/v1/alerts/" + testAlertID + "/acknowledge"
	body := `{"staff_id":"` + testStaffID + `"}`

	t.Run("success", func(t *testing.T) {
		router, m := newTestRouter()
		now := handlerClock
		staff := testStaffID
		m.alerts.On("Acknowledge", mock.Anything, testAlertID, testStaffID, mock.MatchedBy(func(o service.Origin) bool {
			return o.IPAddress != ""
		})).Return(&model.Alert{ID: testAlertID, IsAcknowledged: true, AcknowledgedByID: &staff, AcknowledgedAt: &now}, nil)

		w := serve(router, http.MethodPost, target, body)

		assert.Equal(t, http.StatusOK, w.Code)
		var alert model.Alert
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &alert))
		assert.True(t, alert.IsAcknowledged)
		m.alerts.AssertExpectations(t)
	})

	t.Run("already acknowledged", func(t *testing.T) {
		router, m := newTestRouter()
		m.alerts.On("Acknowledge", mock.Anything, testAlertID, testStaffID, mock.Anything).
			Return(nil, repository.ErrAlreadyAcknowledged)

		w := serve(router, http.MethodPost, target, body)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, CodeConflict, decodeError(t, w).Code)
	})

	t.Run("missing staff id", func(t *testing.T) {
		router, m := newTestRouter()

		w := serve(router, http.MethodPost, target, `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.alerts.AssertNotCalled(t, "Acknowledge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed alert id", func(t *testing.T) {
		router, _ := newTestRouter()

		w := serve(router, http.MethodPost, "/api/v1/alerts/not-a-uuid/acknowledge", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeValidation, decodeError(t, w).Code)
	})

	t.Run("store failure", func(t *testing.T) {
		router, m := newTestRouter()
		m.alerts.On("Acknowledge", mock.Anything, testAlertID, testStaffID, mock.Anything).
			Return(nil, errors.New("connection refused"))

		w := serve(router, http.MethodPost, target, body)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, CodeInternal, resp.Code)
		require.NotNil(t, resp.Details)
		assert.Contains(t, *resp.Details, "connection refused")
	})
}

func TestAlertHandler_Get(t *testing.T) {
	router, m := newTestRouter()
	m.alerts.On("Get", mock.Anything, testAlertID).Return(nil, repository.ErrNotFound)

	w := serve(router, http.MethodGet, "/api/v1/alerts/"+testAlertID, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAlertHandler_History(t *testing.T) {
	t.Run("defaults to the last day", func(t *testing.T) {
		router, m := newTestRouter()
		m.alerts.On("History", mock.Anything, handlerClock.Add(-24*time.Hour), 0).Return([]model.Alert{}, nil)

		w := serve(router, http.MethodGet, "/api/v1/alerts/history", "")

		assert.Equal(t, http.StatusOK, w.Code)
		m.alerts.AssertExpectations(t)
	})

	t.Run("explicit window", func(t *testing.T) {
		router, m := newTestRouter()
		since := time.Date(2026, 3, 9, 6, 0, 0, 0, time.UTC)
		m.alerts.On("History", mock.Anything, mock.MatchedBy(func(got time.Time) bool { return got.Equal(since) }), 25).
			Return([]model.Alert{{ID: "a-1"}}, nil)

		w := serve(router, http.MethodGet, "/api/v1/alerts/history?since=2026-03-09T06:00:00Z&limit=25", "")

		assert.Equal(t, http.StatusOK, w.Code)
		m.alerts.AssertExpectations(t)
	})

	t.Run("malformed since", func(t *testing.T) {
		router, _ := newTestRouter()

		w := serve(router, http.MethodGet, "/api/v1/alerts/history?since=yesterday", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAlertHandler_FeedAndRecent(t *testing.T) {
	router, m := newTestRouter()
	m.alerts.On("Feed").Return([]model.AlertNotification{{AlertID: "a-1", StaffID: "s-1"}})
	m.recent.On("Recent", mock.Anything, int64(defaultRecentCount)).Return([]model.AlertNotification{{AlertID: "a-0"}}, nil)

	w := serve(router, http.MethodGet, "/api/v1/alerts/feed", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alert_id":"a-1"`)

	w = serve(router, http.MethodGet, "/api/v1/alerts/recent", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"alert_id":"a-0"`)
}

func TestAlertHandler_RecentWithoutMirror(t *testing.T) {
	_, m := newTestRouter()
	alerts := NewAlertHandler(m.alerts, m.stream, nil, zap.NewNop())

	router := gin.New()
	router.GET("/recent", func(c *gin.Context) {
		alerts.GetApiV1AlertsRecent(c, api.GetApiV1AlertsRecentParams{})
	})

	w := serve(router, http.MethodGet, "/recent", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAlertHandler_Stream(t *testing.T) {
	router, m := newTestRouter()

	w := serve(router, http.MethodGet, "/api/v1/alerts/stream?staff_id="+testStaffID, "")
	assert.Equal(t, http.StatusSwitchingProtocols, w.Code)
	assert.Equal(t, testStaffID, m.stream.staffID)

	w = serve(router, http.MethodGet, "/api/v1/alerts/stream", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAlertHandler_Trail(t *testing.T) {
	router, m := newTestRouter()
	m.alerts.On("Trail", mock.Anything, testAlertID).Return([]audit.AuditLog{
		{ActorID: testStaffID, OperationType: audit.OperationAcknowledge, ResourceType: audit.ResourceAlert, ResourceID: testAlertID},
	}, nil)

	w := serve(router, http.MethodGet, "/api/v1/alerts/"+testAlertID+"/trail", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), testStaffID)
}

func TestAlertHandler_RoutePreview(t *testing.T) {
	target := "/api/v1/patients/" + testPatientID + "/route-preview?strategy=department&severity=critical"

	t.Run("success", func(t *testing.T) {
		router, m := newTestRouter()
		m.alerts.On("PreviewRoute", mock.Anything, testPatientID, model.RoutingDepartment, model.AlertSeverityCritical).
			Return([]model.StaffMember{{ID: "d-1", StaffCode: "DOC-001", Role: model.StaffRoleDoctor}}, nil)

		w := serve(router, http.MethodGet, target, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "DOC-001")
	})

	t.Run("rejected strategy", func(t *testing.T) {
		router, m := newTestRouter()
		m.alerts.On("PreviewRoute", mock.Anything, testPatientID, model.RoutingDepartment, model.AlertSeverityCritical).
			Return(nil, &service.ValidationError{Field: "strategy", Message: "unknown routing strategy"})

		w := serve(router, http.MethodGet, target, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing strategy", func(t *testing.T) {
		router, _ := newTestRouter()

		w := serve(router, http.MethodGet, "/api/v1/patients/"+testPatientID+"/route-preview?severity=critical", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAlertHandler_Duty(t *testing.T) {
	router, m := newTestRouter()
	m.alerts.On("SetDuty", mock.Anything, testStaffID, false, "admin-1", mock.Anything).
		Return(&model.StaffMember{ID: testStaffID, IsOnDuty: false, IsActive: true}, nil)

	w := serve(router, http.MethodPut, "/api/v1/staff/"+testStaffID+"/duty", `{"is_on_duty":false,"actor_id":"admin-1"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_on_duty":false`)
	m.alerts.AssertExpectations(t)
}
