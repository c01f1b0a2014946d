package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime/types"
	"github.com/wardwatch/wardwatch/apps/backend/internal/audit"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

const (
	defaultHistoryWindow = 24 * time.Hour
	defaultRecentCount   = 50
)

// AlertOperations is the staff-facing surface of service.AlertService
type AlertOperations interface {
	Acknowledge(ctx context.Context, alertID, staffID string, origin service.Origin) (*model.Alert, error)
	Get(ctx context.Context, alertID string) (*model.Alert, error)
	ActiveForStaff(ctx context.Context, staffID string) ([]model.Alert, error)
	ListActive(ctx context.Context) ([]model.Alert, error)
	Feed() []model.AlertNotification
	History(ctx context.Context, since time.Time, limit int) ([]model.Alert, error)
	PatientAlerts(ctx context.Context, patientID string, limit int) ([]model.Alert, error)
	Trail(ctx context.Context, alertID string) ([]audit.AuditLog, error)
	PreviewRoute(ctx context.Context, patientID string, strategy model.RoutingStrategy, severity model.AlertSeverity) ([]model.StaffMember, error)
	SetDuty(ctx context.Context, staffID string, onDuty bool, actorID string, origin service.Origin) (*model.StaffMember, error)
}

// NotificationStream upgrades a request to a live notification stream.
// *stream.Hub implements it.
type NotificationStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request, staffID string) error
}

// RecentNotifications reads the durable notification log.
// *stream.RedisMirror implements it.
type RecentNotifications interface {
	Recent(ctx context.Context, count int64) ([]model.AlertNotification, error)
}

// AlertHandler implements alert, routing and duty endpoints
type AlertHandler struct {
	alerts AlertOperations
	stream NotificationStream
	recent RecentNotifications
	logger *zap.Logger
	now    func() time.Time
}

// NewAlertHandler creates a new AlertHandler. recent may be nil when no
// durable stream is configured.
func NewAlertHandler(alerts AlertOperations, stream NotificationStream, recent RecentNotifications, logger *zap.Logger) *AlertHandler {
	return &AlertHandler{
		alerts: alerts,
		stream: stream,
		recent: recent,
		logger: logger,
		now:    time.Now,
	}
}

// GetApiV1AlertsActive lists unacknowledged alerts, for one staff member when
// staff_id is given
func (h *AlertHandler) GetApiV1AlertsActive(c *gin.Context, params api.GetApiV1AlertsActiveParams) {
	var (
		alerts []model.Alert
		err    error
	)
	if params.StaffId != nil {
		staffID := uuidToString(*params.StaffId)
		setActor(c, staffID)
		alerts, err = h.alerts.ActiveForStaff(c.Request.Context(), staffID)
	} else {
		alerts, err = h.alerts.ListActive(c.Request.Context())
	}
	if err != nil {
		writeError(c, h.logger, err, "Failed to list active alerts")
		return
	}

	c.JSON(http.StatusOK, alerts)
}

// GetApiV1AlertsFeed drains the notifications queued since the previous poll
func (h *AlertHandler) GetApiV1AlertsFeed(c *gin.Context) {
	c.JSON(http.StatusOK, h.alerts.Feed())
}

// GetApiV1AlertsRecent reads the newest notifications from the durable stream
func (h *AlertHandler) GetApiV1AlertsRecent(c *gin.Context, params api.GetApiV1AlertsRecentParams) {
	if h.recent == nil {
		c.JSON(http.StatusOK, []model.AlertNotification{})
		return
	}

	count := valueOr(params.Count, defaultRecentCount)
	notifications, err := h.recent.Recent(c.Request.Context(), int64(count))
	if err != nil {
		writeError(c, h.logger, err, "Failed to read recent notifications")
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// GetApiV1AlertsStream upgrades to a websocket carrying the notifications
// routed to one staff member
func (h *AlertHandler) GetApiV1AlertsStream(c *gin.Context, params api.GetApiV1AlertsStreamParams) {
	staffID := uuidToString(params.StaffId)
	setActor(c, staffID)

	if err := h.stream.ServeWS(c.Writer, c.Request, staffID); err != nil {
		// the upgrader has already written the failure response
		h.logger.Warn("alert stream upgrade failed", zap.Error(err), zap.String("staff_id", staffID))
	}
}

// GetApiV1AlertsHistory lists alerts created since a point in time, the last
// day by default
func (h *AlertHandler) GetApiV1AlertsHistory(c *gin.Context, params api.GetApiV1AlertsHistoryParams) {
	since := valueOr(params.Since, h.now().Add(-defaultHistoryWindow))
	limit := valueOr(params.Limit, 0)

	alerts, err := h.alerts.History(c.Request.Context(), since, limit)
	if err != nil {
		writeError(c, h.logger, err, "Failed to load alert history", zap.Time("since", since))
		return
	}

	c.JSON(http.StatusOK, alerts)
}

// GetApiV1AlertsId returns one alert
func (h *AlertHandler) GetApiV1AlertsId(c *gin.Context, id types.UUID) {
	alertID := uuidToString(id)

	alert, err := h.alerts.Get(c.Request.Context(), alertID)
	if err != nil {
		writeError(c, h.logger, err, "Failed to load alert", zap.String("alert_id", alertID))
		return
	}

	c.JSON(http.StatusOK, alert)
}

// PostApiV1AlertsIdAcknowledge marks an alert handled
func (h *AlertHandler) PostApiV1AlertsIdAcknowledge(c *gin.Context, id types.UUID) {
	var req api.AcknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}
	if req.StaffId == (types.UUID{}) {
		badRequest(c, "staff_id is required", nil)
		return
	}

	alertID := uuidToString(id)
	staffID := uuidToString(req.StaffId)
	setActor(c, staffID)

	alert, err := h.alerts.Acknowledge(c.Request.Context(), alertID, staffID, origin(c))
	if err != nil {
		writeError(c, h.logger, err, "Failed to acknowledge alert",
			zap.String("alert_id", alertID),
			zap.String("staff_id", staffID),
		)
		return
	}

	c.JSON(http.StatusOK, alert)
}

// GetApiV1AlertsIdTrail lists the audit entries of an alert
func (h *AlertHandler) GetApiV1AlertsIdTrail(c *gin.Context, id types.UUID) {
	alertID := uuidToString(id)

	entries, err := h.alerts.Trail(c.Request.Context(), alertID)
	if err != nil {
		writeError(c, h.logger, err, "Failed to load audit trail", zap.String("alert_id", alertID))
		return
	}
	if entries == nil {
		entries = []audit.AuditLog{}
	}

	c.JSON(http.StatusOK, entries)
}

// GetApiV1PatientsIdAlerts lists the alerts of a patient
func (h *AlertHandler) GetApiV1PatientsIdAlerts(c *gin.Context, id types.UUID, params api.GetApiV1PatientsIdAlertsParams) {
	patientID := uuidToString(id)

	alerts, err := h.alerts.PatientAlerts(c.Request.Context(), patientID, valueOr(params.Limit, 0))
	if err != nil {
		writeError(c, h.logger, err, "Failed to load patient alerts", zap.String("patient_id", patientID))
		return
	}

	c.JSON(http.StatusOK, alerts)
}

// GetApiV1PatientsIdRoutePreview shows who a strategy would notify
func (h *AlertHandler) GetApiV1PatientsIdRoutePreview(c *gin.Context, id types.UUID, params api.GetApiV1PatientsIdRoutePreviewParams) {
	patientID := uuidToString(id)

	staff, err := h.alerts.PreviewRoute(c.Request.Context(), patientID,
		model.RoutingStrategy(params.Strategy), model.AlertSeverity(params.Severity))
	if err != nil {
		writeError(c, h.logger, err, "Failed to preview routing",
			zap.String("patient_id", patientID),
			zap.String("strategy", string(params.Strategy)),
		)
		return
	}

	c.JSON(http.StatusOK, staff)
}

// PutApiV1StaffIdDuty toggles the duty status of a staff member
func (h *AlertHandler) PutApiV1StaffIdDuty(c *gin.Context, id types.UUID) {
	var req api.DutyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	staffID := uuidToString(id)
	actorID := valueOr(req.ActorId, "")
	setActor(c, actorID)

	staff, err := h.alerts.SetDuty(c.Request.Context(), staffID, req.IsOnDuty, actorID, origin(c))
	if err != nil {
		writeError(c, h.logger, err, "Failed to update duty status", zap.String("staff_id", staffID))
		return
	}

	c.JSON(http.StatusOK, staff)
}
