package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

func TestAlertDeduplicator_Upsert_NotifiesWebhook(t *testing.T) {
	store := new(MockAlertRepository)
	notifier := new(MockAlertNotifier)

	store.On("UpsertActive", mock.Anything, mock.MatchedBy(func(a *model.Alert) bool {
		return a.PatientID == riskPatientID && a.AlertType == model.AlertTypeCriticalVitals && a.Severity == model.AlertSeverityCritical
	})).Run(func(args mock.Arguments) {
		a := args.Get(1).(*model.Alert)
		a.ID = "alert-1"
		a.CreatedAt = time.Now()
	}).Return(true, nil)
	notifier.On("Post", mock.Anything, mock.MatchedBy(func(a *model.Alert) bool {
		return a.ID == "alert-1"
	})).Return(nil)

	d := NewAlertDeduplicator(store, notifier, time.Second, zap.NewNop())
	alert, err := d.Upsert(context.Background(), AlertDraft{
		PatientID: riskPatientID,
		Type:      model.AlertTypeCriticalVitals,
		Severity:  model.AlertSeverityCritical,
		Title:     "Abnormal Heart Rate - John Doe",
		Message:   "Heart rate is 200 bpm. Room 101, Bed A.",
	})
	d.Wait()

	require.NoError(t, err)
	assert.Equal(t, "alert-1", alert.ID)
	assert.False(t, alert.IsAcknowledged)
	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestAlertDeduplicator_Upsert_WebhookFailureIsSwallowed(t *testing.T) {
	store := new(MockAlertRepository)
	notifier := new(MockAlertNotifier)
	store.On("UpsertActive", mock.Anything, mock.Anything).Return(false, nil)
	notifier.On("Post", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	d := NewAlertDeduplicator(store, notifier, time.Second, zap.NewNop())
	alert, err := d.Upsert(context.Background(), AlertDraft{
		PatientID: riskPatientID,
		Type:      model.AlertTypePredictiveWarning,
		Severity:  model.AlertSeverityWarning,
		Title:     "AI Risk Alert - John Doe",
		Message:   "Risk Score: 55. Early intervention recommended",
	})
	d.Wait()

	require.NoError(t, err)
	assert.NotNil(t, alert)
	notifier.AssertExpectations(t)
}

func TestAlertDeduplicator_Upsert_WithoutNotifier(t *testing.T) {
	store := new(MockAlertRepository)
	store.On("UpsertActive", mock.Anything, mock.Anything).Return(true, nil)

	d := NewAlertDeduplicator(store, nil, 0, zap.NewNop())
	_, err := d.Upsert(context.Background(), AlertDraft{
		PatientID: riskPatientID,
		Type:      model.AlertTypeMedicationDue,
		Severity:  model.AlertSeverityWarning,
	})
	d.Wait()

	assert.NoError(t, err)
}

func TestAlertDeduplicator_Upsert_Errors(t *testing.T) {
	tests := []struct {
		name  string
		draft AlertDraft
	}{
		{name: "missing patient", draft: AlertDraft{Type: model.AlertTypeCriticalVitals, Severity: model.AlertSeverityCritical}},
		{name: "missing type", draft: AlertDraft{PatientID: riskPatientID, Severity: model.AlertSeverityCritical}},
		{name: "unknown severity", draft: AlertDraft{PatientID: riskPatientID, Type: model.AlertTypeCriticalVitals, Severity: "urgent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockAlertRepository)
			d := NewAlertDeduplicator(store, nil, time.Second, zap.NewNop())

			_, err := d.Upsert(context.Background(), tt.draft)

			assert.Error(t, err)
			store.AssertNotCalled(t, "UpsertActive", mock.Anything, mock.Anything)
		})
	}

	t.Run("store failure", func(t *testing.T) {
		store := new(MockAlertRepository)
		notifier := new(MockAlertNotifier)
		store.On("UpsertActive", mock.Anything, mock.Anything).Return(false, errors.New("deadlock detected"))

		d := NewAlertDeduplicator(store, notifier, time.Second, zap.NewNop())
		_, err := d.Upsert(context.Background(), AlertDraft{
			PatientID: riskPatientID,
			Type:      model.AlertTypeCriticalVitals,
			Severity:  model.AlertSeverityCritical,
		})
		d.Wait()

		assert.Error(t, err)
		notifier.AssertNotCalled(t, "Post", mock.Anything, mock.Anything)
	})
}
