package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime/types"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// ShiftOperations is implemented by *service.ShiftService
type ShiftOperations interface {
	Schedule(ctx context.Context, staffID string, shiftType model.ShiftType, day time.Time, department *string, actorID string, origin service.Origin) (*model.Shift, error)
	ListForDay(ctx context.Context, day time.Time) ([]model.Shift, error)
	Today() time.Time
	CheckIn(ctx context.Context, shiftID, actorID string, origin service.Origin) (*model.Shift, error)
	CheckOut(ctx context.Context, shiftID, actorID string, origin service.Origin) (*model.Shift, error)
}

// ShiftHandler implements shift scheduling and check-in endpoints
type ShiftHandler struct {
	shifts ShiftOperations
	logger *zap.Logger
}

// NewShiftHandler creates a new ShiftHandler
func NewShiftHandler(shifts ShiftOperations, logger *zap.Logger) *ShiftHandler {
	return &ShiftHandler{
		shifts: shifts,
		logger: logger,
	}
}

// GetApiV1Shifts lists the shifts starting on a day, today by default
func (h *ShiftHandler) GetApiV1Shifts(c *gin.Context, params api.GetApiV1ShiftsParams) {
	day := h.shifts.Today()
	if params.Date != nil {
		day = dateToTime(*params.Date)
	}

	shifts, err := h.shifts.ListForDay(c.Request.Context(), day)
	if err != nil {
		writeError(c, h.logger, err, "Failed to list shifts")
		return
	}

	c.JSON(http.StatusOK, shifts)
}

// PostApiV1Shifts schedules a shift
func (h *ShiftHandler) PostApiV1Shifts(c *gin.Context) {
	var req api.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body", err)
		return
	}

	staffID := uuidToString(req.StaffId)
	actorID := valueOr(req.ActorId, "")
	setActor(c, actorID)

	shift, err := h.shifts.Schedule(c.Request.Context(), staffID, model.ShiftType(req.ShiftType),
		dateToTime(req.Date), req.Department, actorID, origin(c))
	if err != nil {
		writeError(c, h.logger, err, "Failed to schedule shift", zap.String("staff_id", staffID))
		return
	}

	c.JSON(http.StatusCreated, shift)
}

// PostApiV1ShiftsIdCheckIn checks in to a shift and puts its staff member on duty
func (h *ShiftHandler) PostApiV1ShiftsIdCheckIn(c *gin.Context, id types.UUID) {
	h.transition(c, id, "Failed to check in", h.shifts.CheckIn)
}

// PostApiV1ShiftsIdCheckOut checks out of a shift and takes its staff member off duty
func (h *ShiftHandler) PostApiV1ShiftsIdCheckOut(c *gin.Context, id types.UUID) {
	h.transition(c, id, "Failed to check out", h.shifts.CheckOut)
}

func (h *ShiftHandler) transition(
	c *gin.Context,
	id types.UUID,
	message string,
	fn func(ctx context.Context, shiftID, actorID string, origin service.Origin) (*model.Shift, error),
) {
	var req api.ShiftActionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "Invalid request body", err)
		return
	}

	shiftID := uuidToString(id)
	actorID := valueOr(req.ActorId, "")
	setActor(c, actorID)

	shift, err := fn(c.Request.Context(), shiftID, actorID, origin(c))
	if err != nil {
		writeError(c, h.logger, err, message, zap.String("shift_id", shiftID))
		return
	}

	c.JSON(http.StatusOK, shift)
}
