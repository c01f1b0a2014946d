package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardwatch/wardwatch/apps/backend/internal/security"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

func testAlert() *model.Alert {
	return &model.Alert{
		ID:        "6c1d1a51-2f0e-4c43-a2c5-2d5f7d7c9e10",
		PatientID: "0b6f1c1e-7a52-4d3e-9b0e-3f1f2a9d8c11",
		AlertType: model.AlertTypeCriticalVitals,
		Severity:  model.AlertSeverityCritical,
		Title:     "Abnormal Heart Rate - John Doe",
		Message:   "Heart rate is 200 bpm. Room 101, Bed A.",
		CreatedAt: time.Date(2026, 3, 10, 12, 30, 0, 0, time.UTC),
	}
}

func TestSink_Post_Payload(t *testing.T) {
	var body map[string]any
	var signature string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
		signature = r.Header.Get(security.SignatureHeader)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sink := NewSink(server.URL, time.Second, nil, zap.NewNop())
	require.NoError(t, sink.Post(context.Background(), testAlert()))

	assert.Equal(t, map[string]any{
		"alert_id":   "6c1d1a51-2f0e-4c43-a2c5-2d5f7d7c9e10",
		"patient_id": "0b6f1c1e-7a52-4d3e-9b0e-3f1f2a9d8c11",
		"title":      "Abnormal Heart Rate - John Doe",
		"message":    "Heart rate is 200 bpm. Room 101, Bed A.",
		"severity":   "critical",
		"created_at": "2026-03-10T12:30:00Z",
	}, body)
	assert.Empty(t, signature)
}

func TestSink_Post_Signed(t *testing.T) {
	signer, err := security.NewSigner("hook-secret")
	require.NoError(t, err)

	var verified atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		verified.Store(signer.Verify(raw, r.Header.Get(security.SignatureHeader)))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sink := NewSink(server.URL, time.Second, signer, zap.NewNop())
	require.NoError(t, sink.Post(context.Background(), testAlert()))
	assert.True(t, verified.Load())
}

func TestSink_Post_ErrorStatusIsNotRetried(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sink := NewSink(server.URL, time.Second, nil, zap.NewNop())
	err := sink.Post(context.Background(), testAlert())

	assert.Error(t, err)
	assert.Equal(t, int32(1), requests.Load())
}

func TestSink_Post_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	sink := NewSink(server.URL, 50*time.Millisecond, nil, zap.NewNop())

	start := time.Now()
	err := sink.Post(context.Background(), testAlert())

	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSink_Post_Disabled(t *testing.T) {
	sink := NewSink("", 0, nil, zap.NewNop())

	assert.False(t, sink.Enabled())
	assert.NoError(t, sink.Post(context.Background(), testAlert()))
}
