// Package advisory refines locally computed risk assessments with an
// external text generation service. Every call is best effort.
package advisory

import (
	"context"
	"errors"
	"time"

	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
)

// ErrUnavailable is returned when no advisory service is configured
var ErrUnavailable = errors.New("advisory service unavailable")

// Generator is a text-in/text-out completion service
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Context is the input handed to a consultant
type Context struct {
	Patient *model.Patient
	// Recent readings, newest first
	Recent  []model.VitalReading
	Score   int
	Level   model.RiskLevel
	Factors []model.RiskFactor
	Now     time.Time
}

// Suggestion is a consultant's opinion. Nil fields mean no opinion.
type Suggestion struct {
	Level *model.RiskLevel
	Score *int
	Note  string
}

// Consultant suggests refinements to a risk assessment. A nil suggestion
// with a nil error means the consultant has no opinion.
type Consultant interface {
	Suggest(ctx context.Context, in Context) (*Suggestion, error)
}

// Nop never has an opinion
type Nop struct{}

// Suggest implements Consultant
func (Nop) Suggest(context.Context, Context) (*Suggestion, error) {
	return nil, nil
}
