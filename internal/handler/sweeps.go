package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/api"
	"go.uber.org/zap"
)

// Sweeper runs the periodic monitoring sweeps on demand
type Sweeper interface {
	RunSimulationCycle(ctx context.Context) (*service.SweepReport, error)
	RunRiskSweep(ctx context.Context) (*service.SweepReport, error)
}

// DoseChecker raises alerts for overdue doses. *service.MedicationService implements it.
type DoseChecker interface {
	CheckDue(ctx context.Context, now time.Time) (*service.SweepReport, error)
}

// SweepHandler triggers sweeps outside their schedule
type SweepHandler struct {
	monitor Sweeper
	doses   DoseChecker
	logger  *zap.Logger
	now     func() time.Time
}

// NewSweepHandler creates a new SweepHandler
func NewSweepHandler(monitor Sweeper, doses DoseChecker, logger *zap.Logger) *SweepHandler {
	return &SweepHandler{
		monitor: monitor,
		doses:   doses,
		logger:  logger,
		now:     time.Now,
	}
}

// PostApiV1SweepsKind runs one sweep and returns its report
func (h *SweepHandler) PostApiV1SweepsKind(c *gin.Context, kind api.SweepKind) {
	ctx := c.Request.Context()

	var (
		report *service.SweepReport
		err    error
	)
	switch kind {
	case api.SweepKindVitals:
		report, err = h.monitor.RunSimulationCycle(ctx)
	case api.SweepKindRisk:
		report, err = h.monitor.RunRiskSweep(ctx)
	case api.SweepKindMedications:
		report, err = h.doses.CheckDue(ctx, h.now())
	default:
		badRequest(c, "Unknown sweep", fmt.Errorf("unknown sweep kind %q", kind))
		return
	}
	if err != nil {
		writeError(c, h.logger, err, "Sweep failed", zap.String("sweep", string(kind)))
		return
	}

	c.JSON(http.StatusOK, report)
}
