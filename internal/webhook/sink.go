// Package webhook forwards alerts to an external automation endpoint.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/wardwatch/wardwatch/apps/backend/internal/metrics"
	"github.com/wardwatch/wardwatch/apps/backend/internal/security"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

// Payload is the JSON body posted for every alert
type Payload struct {
	AlertID   string `json:"alert_id"`
	PatientID string `json:"patient_id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	CreatedAt string `json:"created_at"`
}

// NewPayload converts an alert to its webhook payload
func NewPayload(alert *model.Alert) Payload {
	return Payload{
		AlertID:   alert.ID,
		PatientID: alert.PatientID,
		Title:     alert.Title,
		Message:   alert.Message,
		Severity:  string(alert.Severity),
		CreatedAt: alert.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Sink posts alerts to a single endpoint. Delivery is never retried.
type Sink struct {
	httpClient *resty.Client
	url        string
	signer     *security.Signer
	logger     *zap.Logger
}

// NewSink creates a new webhook sink. An empty url yields a sink whose Post
// is a no-op; signer may be nil.
func NewSink(url string, timeout time.Duration, signer *security.Signer, logger *zap.Logger) *Sink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Sink{
		httpClient: client,
		url:        url,
		signer:     signer,
		logger:     logger,
	}
}

// Enabled reports whether an endpoint is configured
func (s *Sink) Enabled() bool {
	return s.url != ""
}

// Post sends the alert payload. Non-2xx responses are errors.
func (s *Sink) Post(ctx context.Context, alert *model.Alert) error {
	if !s.Enabled() {
		metrics.ObserveExternalCall("webhook", metrics.OutcomeSkipped)
		return nil
	}

	body, err := json.Marshal(NewPayload(alert))
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req := s.httpClient.R().
		SetContext(ctx).
		SetBody(body)
	if s.signer != nil {
		req.SetHeader(security.SignatureHeader, s.signer.Sign(body))
	}

	resp, err := req.Post(s.url)
	if err != nil {
		metrics.ObserveExternalCall("webhook", metrics.OutcomeError)
		return fmt.Errorf("failed to post webhook: %w", err)
	}
	if resp.IsError() {
		metrics.ObserveExternalCall("webhook", metrics.OutcomeError)
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	metrics.ObserveExternalCall("webhook", metrics.OutcomeSuccess)
	s.logger.Debug("alert forwarded to webhook",
		zap.String("alert_id", alert.ID),
		zap.Int("status_code", resp.StatusCode()),
		zap.Duration("duration", resp.Time()),
	)

	return nil
}
