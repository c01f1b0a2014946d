package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/wardwatch/wardwatch/apps/backend/internal/azure"
	"github.com/wardwatch/wardwatch/apps/backend/internal/service"
)

func TestReportHandler_PatientReport(t *testing.T) {
	t.Run("stored report", func(t *testing.T) {
		router, m := newTestRouter()
		m.reports.On("PatientReport", mock.Anything, testPatientID, testStaffID, mock.Anything).Return(&service.Report{
			ID:          "r-1",
			PatientID:   testPatientID,
			Filename:    "risk-report-P-001.pdf",
			ContentType: azure.ContentTypePDF,
			BlobName:    "reports/" + testPatientID + "/r-1.pdf",
			Data:        []byte("%PDF-1.3"),
		}, nil)

		w := serve(router, http.MethodGet, "/api/v1/patients/"+testPatientID+"/report?actor_id="+testStaffID, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, azure.ContentTypePDF, w.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=risk-report-P-001.pdf", w.Header().Get("Content-Disposition"))
		assert.Equal(t, "r-1", w.Header().Get("X-Report-ID"))
		assert.Equal(t, "reports/"+testPatientID+"/r-1.pdf", w.Header().Get("X-Blob-Name"))
		assert.Equal(t, "%PDF-1.3", w.Body.String())
	})

	t.Run("upload skipped", func(t *testing.T) {
		router, m := newTestRouter()
		m.reports.On("PatientReport", mock.Anything, testPatientID, "", mock.Anything).Return(&service.Report{
			ID:          "r-2",
			Filename:    "risk-report-P-001.pdf",
			ContentType: azure.ContentTypePDF,
			Data:        []byte("%PDF-1.3"),
		}, nil)

		w := serve(router, http.MethodGet, "/api/v1/patients/"+testPatientID+"/report", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-Blob-Name"))
	})

	t.Run("render failure", func(t *testing.T) {
		router, m := newTestRouter()
		m.reports.On("PatientReport", mock.Anything, testPatientID, "", mock.Anything).
			Return(nil, fmt.Errorf("failed to load vitals: %w", assert.AnError))

		w := serve(router, http.MethodGet, "/api/v1/patients/"+testPatientID+"/report", "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestReportHandler_AlertExport(t *testing.T) {
	t.Run("window passed through", func(t *testing.T) {
		router, m := newTestRouter()
		since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		until := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
		m.reports.On("AlertExport", mock.Anything,
			mock.MatchedBy(func(got time.Time) bool { return got.Equal(since) }),
			mock.MatchedBy(func(got time.Time) bool { return got.Equal(until) }),
			"", mock.Anything,
		).Return(&service.Report{
			ID:          "x-1",
			Filename:    "alerts-20260301-20260308.xlsx",
			ContentType: azure.ContentTypeXLSX,
			Data:        []byte("PK"),
		}, nil)

		w := serve(router, http.MethodGet, "/api/v1/alerts/export?since=2026-03-01T00:00:00Z&until=2026-03-08T00:00:00Z", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, azure.ContentTypeXLSX, w.Header().Get("Content-Type"))
		m.reports.AssertExpectations(t)
	})

	t.Run("defaults left to the service", func(t *testing.T) {
		router, m := newTestRouter()
		m.reports.On("AlertExport", mock.Anything, time.Time{}, time.Time{}, "", mock.Anything).
			Return(nil, &service.ValidationError{Field: "since", Message: "window exceeds 31 days"})

		w := serve(router, http.MethodGet, "/api/v1/alerts/export", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeValidation, decodeError(t, w).Code)
	})
}

func TestReportHandler_Download(t *testing.T) {
	tests := []struct {
		name       string
		blobName   string
		data       []byte
		err        error
		wantStatus int
		wantType   string
	}{
		{
			name:       "pdf",
			blobName:   "reports/p-1/r-1.pdf",
			data:       []byte("%PDF-1.3"),
			wantStatus: http.StatusOK,
			wantType:   azure.ContentTypePDF,
		},
		{
			name:       "spreadsheet",
			blobName:   "exports/x-1.xlsx",
			data:       []byte("PK"),
			wantStatus: http.StatusOK,
			wantType:   azure.ContentTypeXLSX,
		},
		{
			name:       "unknown extension",
			blobName:   "exports/x-1.bin",
			data:       []byte{0x01},
			wantStatus: http.StatusOK,
			wantType:   "application/octet-stream",
		},
		{
			name:       "blob missing",
			blobName:   "reports/p-1/gone.pdf",
			err:        fmt.Errorf("%w: reports/p-1/gone.pdf", azure.ErrBlobNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "storage disabled",
			blobName:   "reports/p-1/r-1.pdf",
			err:        service.ErrStorageDisabled,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter()
			if tt.err != nil {
				m.reports.On("Download", mock.Anything, tt.blobName).Return(nil, tt.err)
			} else {
				m.reports.On("Download", mock.Anything, tt.blobName).Return(tt.data, nil)
			}

			w := serve(router, http.MethodGet, "/api/v1/reports?blob_name="+tt.blobName, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantType != "" {
				assert.Equal(t, tt.wantType, w.Header().Get("Content-Type"))
				assert.Equal(t, tt.data, w.Body.Bytes())
			}
		})
	}

	t.Run("missing blob name", func(t *testing.T) {
		router, m := newTestRouter()

		w := serve(router, http.MethodGet, "/api/v1/reports", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.reports.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
	})
}
