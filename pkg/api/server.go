package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Service and database health
	// (GET /health)
	GetHealth(c *gin.Context)
	// Unacknowledged alerts, optionally for one staff member
	// (GET /api/v1/alerts/active)
	GetApiV1AlertsActive(c *gin.Context, params GetApiV1AlertsActiveParams)
	// Alert history spreadsheet
	// (GET /api/v1/alerts/export)
	GetApiV1AlertsExport(c *gin.Context, params GetApiV1AlertsExportParams)
	// Drain queued notifications
	// (GET /api/v1/alerts/feed)
	GetApiV1AlertsFeed(c *gin.Context)
	// Alerts created since a point in time
	// (GET /api/v1/alerts/history)
	GetApiV1AlertsHistory(c *gin.Context, params GetApiV1AlertsHistoryParams)
	// Recent notifications from the durable stream
	// (GET /api/v1/alerts/recent)
	GetApiV1AlertsRecent(c *gin.Context, params GetApiV1AlertsRecentParams)
	// Websocket notification stream
	// (GET /api/v1/alerts/stream)
	GetApiV1AlertsStream(c *gin.Context, params GetApiV1AlertsStreamParams)
	// Get one alert
	// (GET /api/v1/alerts/{id})
	GetApiV1AlertsId(c *gin.Context, id Id)
	// Acknowledge an alert
	// (POST /api/v1/alerts/{id}/acknowledge)
	PostApiV1AlertsIdAcknowledge(c *gin.Context, id Id)
	// Audit trail of an alert
	// (GET /api/v1/alerts/{id}/trail)
	GetApiV1AlertsIdTrail(c *gin.Context, id Id)
	// Ward overview
	// (GET /api/v1/dashboard/summary)
	GetApiV1DashboardSummary(c *gin.Context, params GetApiV1DashboardSummaryParams)
	// Record a medication administration
	// (POST /api/v1/medications/{id}/administer)
	PostApiV1MedicationsIdAdminister(c *gin.Context, id Id)
	// Alerts of a patient
	// (GET /api/v1/patients/{id}/alerts)
	GetApiV1PatientsIdAlerts(c *gin.Context, id Id, params GetApiV1PatientsIdAlertsParams)
	// Medications of a patient
	// (GET /api/v1/patients/{id}/medications)
	GetApiV1PatientsIdMedications(c *gin.Context, id Id)
	// Prescribe a medication
	// (POST /api/v1/patients/{id}/medications)
	PostApiV1PatientsIdMedications(c *gin.Context, id Id)
	// Patient risk report
	// (GET /api/v1/patients/{id}/report)
	GetApiV1PatientsIdReport(c *gin.Context, id Id, params GetApiV1PatientsIdReportParams)
	// Risk assessment history
	// (GET /api/v1/patients/{id}/risk)
	GetApiV1PatientsIdRisk(c *gin.Context, id Id, params GetApiV1PatientsIdRiskParams)
	// Run a risk analysis now
	// (POST /api/v1/patients/{id}/risk/analyze)
	PostApiV1PatientsIdRiskAnalyze(c *gin.Context, id Id)
	// Preview alert recipients
	// (GET /api/v1/patients/{id}/route-preview)
	GetApiV1PatientsIdRoutePreview(c *gin.Context, id Id, params GetApiV1PatientsIdRoutePreviewParams)
	// Vital readings of a patient
	// (GET /api/v1/patients/{id}/vitals)
	GetApiV1PatientsIdVitals(c *gin.Context, id Id, params GetApiV1PatientsIdVitalsParams)
	// Download a stored document
	// (GET /api/v1/reports)
	GetApiV1Reports(c *gin.Context, params GetApiV1ReportsParams)
	// Shifts starting on a day
	// (GET /api/v1/shifts)
	GetApiV1Shifts(c *gin.Context, params GetApiV1ShiftsParams)
	// Schedule a shift
	// (POST /api/v1/shifts)
	PostApiV1Shifts(c *gin.Context)
	// Check in to a shift
	// (POST /api/v1/shifts/{id}/check-in)
	PostApiV1ShiftsIdCheckIn(c *gin.Context, id Id)
	// Check out of a shift
	// (POST /api/v1/shifts/{id}/check-out)
	PostApiV1ShiftsIdCheckOut(c *gin.Context, id Id)
	// Set staff duty status
	// (PUT /api/v1/staff/{id}/duty)
	PutApiV1StaffIdDuty(c *gin.Context, id Id)
	// Run a sweep
	// (POST /api/v1/sweeps/{kind})
	PostApiV1SweepsKind(c *gin.Context, kind SweepKind)
	// Latest reading per active patient
	// (GET /api/v1/vitals/live)
	GetApiV1VitalsLive(c *gin.Context)
	// Ingest a vital reading
	// (POST /api/v1/vitals)
	PostApiV1Vitals(c *gin.Context)
}

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandler       func(*gin.Context, error, int)
}

type MiddlewareFunc func(c *gin.Context)

// GetHealth operation middleware
func (siw *ServerInterfaceWrapper) GetHealth(c *gin.Context) {
	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetHealth(c)
}

// GetApiV1AlertsActive operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1AlertsActive(c *gin.Context) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1AlertsActiveParams

	// ------------- Optional query parameter "staff_id" -------------

	err = runtime.BindQueryParameter("form", true, false, "staff_id", c.Request.URL.Query(), &params.StaffId)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter staff_id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1AlertsActive(c, params)
}

// GetApiV1AlertsExport operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1AlertsExport(c *gin.Context) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1AlertsExportParams

	// ------------- Optional query parameter "since" -------------

	err = runtime.BindQueryParameter("form", true, false, "since", c.Request.URL.Query(), &params.Since)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter since: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Optional query parameter "until" -------------

	err = runtime.BindQueryParameter("form", true, false, "until", c.Request.URL.Query(), &params.Until)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter until: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Optional query parameter "actor_id" -------------

	err = runtime.BindQueryParameter("form", true, false, "actor_id", c.Request.URL.Query(), &params.ActorId)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter actor_id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1AlertsExport(c, params)
}

// GetApiV1AlertsFeed operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1AlertsFeed(c *gin.Context) {
	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1AlertsFeed(c)
}

// GetApiV1AlertsHistory operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1AlertsHistory(c *gin.Context) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1AlertsHistoryParams

	// ------------- Optional query parameter "since" -------------

	err = runtime.BindQueryParameter("form", true, false, "since", c.Request.URL.Query(), &params.Since)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter since: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter limit: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1AlertsHistory(c, params)
}

// GetApiV1AlertsRecent operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1AlertsRecent(c *gin.Context) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1AlertsRecentParams

	// ------------- Optional query parameter "count" -------------

	err = runtime.BindQueryParameter("form", true, false, "count", c.Request.URL.Query(), &params.Count)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter count: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1AlertsRecent(c, params)
}

// GetApiV1AlertsStream operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1AlertsStream(c *gin.Context) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1AlertsStreamParams

	// ------------- Required query parameter "staff_id" -------------

	if paramValue := c.Query("staff_id"); paramValue != "" {

	} else {
		siw.ErrorHandler(c, fmt.Errorf("Query argument staff_id is required, but not found"), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, true, "staff_id", c.Request.URL.Query(), &params.StaffId)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter staff_id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1AlertsStream(c, params)
}

// GetApiV1AlertsId operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1AlertsId(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1AlertsId(c, id)
}

// PostApiV1AlertsIdAcknowledge operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1AlertsIdAcknowledge(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PostApiV1AlertsIdAcknowledge(c, id)
}

// GetApiV1AlertsIdTrail operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1AlertsIdTrail(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1AlertsIdTrail(c, id)
}

// GetApiV1DashboardSummary operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1DashboardSummary(c *gin.Context) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1DashboardSummaryParams

	// ------------- Optional query parameter "hours" -------------

	err = runtime.BindQueryParameter("form", true, false, "hours", c.Request.URL.Query(), &params.Hours)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter hours: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1DashboardSummary(c, params)
}

// PostApiV1MedicationsIdAdminister operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1MedicationsIdAdminister(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PostApiV1MedicationsIdAdminister(c, id)
}

// GetApiV1PatientsIdAlerts operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1PatientsIdAlerts(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1PatientsIdAlertsParams

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter limit: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1PatientsIdAlerts(c, id, params)
}

// GetApiV1PatientsIdMedications operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1PatientsIdMedications(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1PatientsIdMedications(c, id)
}

// PostApiV1PatientsIdMedications operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1PatientsIdMedications(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PostApiV1PatientsIdMedications(c, id)
}

// GetApiV1PatientsIdReport operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1PatientsIdReport(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1PatientsIdReportParams

	// ------------- Optional query parameter "actor_id" -------------

	err = runtime.BindQueryParameter("form", true, false, "actor_id", c.Request.URL.Query(), &params.ActorId)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter actor_id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1PatientsIdReport(c, id, params)
}

// GetApiV1PatientsIdRisk operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1PatientsIdRisk(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1PatientsIdRiskParams

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter limit: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1PatientsIdRisk(c, id, params)
}

// PostApiV1PatientsIdRiskAnalyze operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1PatientsIdRiskAnalyze(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PostApiV1PatientsIdRiskAnalyze(c, id)
}

// GetApiV1PatientsIdRoutePreview operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1PatientsIdRoutePreview(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1PatientsIdRoutePreviewParams

	// ------------- Required query parameter "strategy" -------------

	if paramValue := c.Query("strategy"); paramValue != "" {

	} else {
		siw.ErrorHandler(c, fmt.Errorf("Query argument strategy is required, but not found"), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, true, "strategy", c.Request.URL.Query(), &params.Strategy)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter strategy: %w", err), http.StatusBadRequest)
		return
	}

	// ------------- Required query parameter "severity" -------------

	if paramValue := c.Query("severity"); paramValue != "" {

	} else {
		siw.ErrorHandler(c, fmt.Errorf("Query argument severity is required, but not found"), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, true, "severity", c.Request.URL.Query(), &params.Severity)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter severity: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1PatientsIdRoutePreview(c, id, params)
}

// GetApiV1PatientsIdVitals operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1PatientsIdVitals(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1PatientsIdVitalsParams

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", c.Request.URL.Query(), &params.Limit)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter limit: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1PatientsIdVitals(c, id, params)
}

// GetApiV1Reports operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1Reports(c *gin.Context) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1ReportsParams

	// ------------- Required query parameter "blob_name" -------------

	if paramValue := c.Query("blob_name"); paramValue != "" {

	} else {
		siw.ErrorHandler(c, fmt.Errorf("Query argument blob_name is required, but not found"), http.StatusBadRequest)
		return
	}

	err = runtime.BindQueryParameter("form", true, true, "blob_name", c.Request.URL.Query(), &params.BlobName)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter blob_name: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1Reports(c, params)
}

// GetApiV1Shifts operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1Shifts(c *gin.Context) {

	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params GetApiV1ShiftsParams

	// ------------- Optional query parameter "date" -------------

	err = runtime.BindQueryParameter("form", true, false, "date", c.Request.URL.Query(), &params.Date)
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter date: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1Shifts(c, params)
}

// PostApiV1Shifts operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1Shifts(c *gin.Context) {
	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PostApiV1Shifts(c)
}

// PostApiV1ShiftsIdCheckIn operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1ShiftsIdCheckIn(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PostApiV1ShiftsIdCheckIn(c, id)
}

// PostApiV1ShiftsIdCheckOut operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1ShiftsIdCheckOut(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PostApiV1ShiftsIdCheckOut(c, id)
}

// PutApiV1StaffIdDuty operation middleware
func (siw *ServerInterfaceWrapper) PutApiV1StaffIdDuty(c *gin.Context) {

	var err error

	// ------------- Path parameter "id" -------------
	var id Id

	err = runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter id: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PutApiV1StaffIdDuty(c, id)
}

// PostApiV1SweepsKind operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1SweepsKind(c *gin.Context) {

	var err error

	// ------------- Path parameter "kind" -------------
	var kind SweepKind

	err = runtime.BindStyledParameterWithOptions("simple", "kind", c.Param("kind"), &kind, runtime.BindStyledParameterOptions{Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandler(c, fmt.Errorf("Invalid format for parameter kind: %w", err), http.StatusBadRequest)
		return
	}

	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PostApiV1SweepsKind(c, kind)
}

// GetApiV1VitalsLive operation middleware
func (siw *ServerInterfaceWrapper) GetApiV1VitalsLive(c *gin.Context) {
	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.GetApiV1VitalsLive(c)
}

// PostApiV1Vitals operation middleware
func (siw *ServerInterfaceWrapper) PostApiV1Vitals(c *gin.Context) {
	for _, middleware := range siw.HandlerMiddlewares {
		middleware(c)
		if c.IsAborted() {
			return
		}
	}

	siw.Handler.PostApiV1Vitals(c)
}

// GinServerOptions provides options for the Gin server.
type GinServerOptions struct {
	BaseURL      string
	Middlewares  []MiddlewareFunc
	ErrorHandler func(*gin.Context, error, int)
}

// RegisterHandlers creates http.Handler with routing matching OpenAPI spec.
func RegisterHandlers(router gin.IRouter, si ServerInterface) {
	RegisterHandlersWithOptions(router, si, GinServerOptions{})
}

// RegisterHandlersWithOptions creates http.Handler with additional options
func RegisterHandlersWithOptions(router gin.IRouter, si ServerInterface, options GinServerOptions) {
	errorHandler := options.ErrorHandler
	if errorHandler == nil {
		errorHandler = func(c *gin.Context, err error, statusCode int) {
			c.JSON(statusCode, gin.H{"msg": err.Error()})
		}
	}

	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandler:       errorHandler,
	}

	router.GET(options.BaseURL+"/health", wrapper.GetHealth)
	router.GET(options.BaseURL+"/api/v1/alerts/active", wrapper.GetApiV1AlertsActive)
	router.GET(options.BaseURL+"/api/v1/alerts/export", wrapper.GetApiV1AlertsExport)
	router.GET(options.BaseURL+"/api/v1/alerts/feed", wrapper.GetApiV1AlertsFeed)
	router.GET(options.BaseURL+"/api/v1/alerts/history", wrapper.GetApiV1AlertsHistory)
	router.GET(options.BaseURL+"/api/v1/alerts/recent", wrapper.GetApiV1AlertsRecent)
	router.GET(options.BaseURL+"/api/v1/alerts/stream", wrapper.GetApiV1AlertsStream)
	router.GET(options.BaseURL+"/api/v1/alerts/:id", wrapper.GetApiV1AlertsId)
	router.POST(options.BaseURL+"/api/v1/alerts/:id/acknowledge", wrapper.PostApiV1AlertsIdAcknowledge)
	router.GET(options.BaseURL+"/api/v1/alerts/:id/trail", wrapper.GetApiV1AlertsIdTrail)
	router.GET(options.BaseURL+"/api/v1/dashboard/summary", wrapper.GetApiV1DashboardSummary)
	router.POST(options.BaseURL+"/api/v1/medications/:id/administer", wrapper.PostApiV1MedicationsIdAdminister)
	router.GET(options.BaseURL+"/api/v1/patients/:id/alerts", wrapper.GetApiV1PatientsIdAlerts)
	router.GET(options.BaseURL+"/api/v1/patients/:id/medications", wrapper.GetApiV1PatientsIdMedications)
	router.POST(options.BaseURL+"/api/v1/patients/:id/medications", wrapper.PostApiV1PatientsIdMedications)
	router.GET(options.BaseURL+"/api/v1/patients/:id/report", wrapper.GetApiV1PatientsIdReport)
	router.GET(options.BaseURL+"/api/v1/patients/:id/risk", wrapper.GetApiV1PatientsIdRisk)
	router.POST(options.BaseURL+"/api/v1/patients/:id/risk/analyze", wrapper.PostApiV1PatientsIdRiskAnalyze)
	router.GET(options.BaseURL+"/api/v1/patients/:id/route-preview", wrapper.GetApiV1PatientsIdRoutePreview)
	router.GET(options.BaseURL+"/api/v1/patients/:id/vitals", wrapper.GetApiV1PatientsIdVitals)
	router.GET(options.BaseURL+"/api/v1/reports", wrapper.GetApiV1Reports)
	router.GET(options.BaseURL+"/api/v1/shifts", wrapper.GetApiV1Shifts)
	router.POST(options.BaseURL+"/api/v1/shifts", wrapper.PostApiV1Shifts)
	router.POST(options.BaseURL+"/api/v1/shifts/:id/check-in", wrapper.PostApiV1ShiftsIdCheckIn)
	router.POST(options.BaseURL+"/api/v1/shifts/:id/check-out", wrapper.PostApiV1ShiftsIdCheckOut)
	router.PUT(options.BaseURL+"/api/v1/staff/:id/duty", wrapper.PutApiV1StaffIdDuty)
	router.POST(options.BaseURL+"/api/v1/sweeps/:kind", wrapper.PostApiV1SweepsKind)
	router.GET(options.BaseURL+"/api/v1/vitals/live", wrapper.GetApiV1VitalsLive)
	router.POST(options.BaseURL+"/api/v1/vitals", wrapper.PostApiV1Vitals)
}
