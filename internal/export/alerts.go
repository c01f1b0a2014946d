// Package export renders alert history as spreadsheets.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"github.com/xuri/excelize/v2"
)

// AlertSheet is the name of the worksheet holding alert rows
const AlertSheet = "Alerts"

// AlertHeader lists the exported columns in order
var AlertHeader = []string{
	"Alert ID",
	"Created At",
	"Patient Code",
	"Patient Name",
	"Room",
	"Bed",
	"Type",
	"Severity",
	"Title",
	"Message",
	"Acknowledged",
	"Acknowledged By",
	"Acknowledged At",
}

var alertColumnWidths = []float64{38, 20, 14, 22, 8, 6, 20, 12, 34, 60, 14, 38, 20}

const timeLayout = "2006-01-02 15:04:05"

// AlertWorkbook writes one row per alert. Patients are looked up by id for
// the name and location columns; unknown patients leave them blank.
func AlertWorkbook(alerts []model.Alert, patients map[string]model.Patient) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(AlertSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range AlertHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(AlertSheet, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(AlertSheet, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(AlertSheet, name, name, alertColumnWidths[col]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, alert := range alerts {
		row := i + 2
		patient, known := patients[alert.PatientID]

		values := alertRow(alert)
		if known {
			values[2] = patient.PatientCode
			values[3] = patient.FullName()
			values[4] = patient.Room()
			values[5] = patient.Bed()
		}

		for col, value := range values {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(AlertSheet, cell, value); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell value at row %d, col %d: %w", row, col+1, err)
			}
		}
	}

	if err := f.SetPanes(AlertSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func alertRow(a model.Alert) []string {
	acknowledged := "No"
	if a.IsAcknowledged {
		acknowledged = "Yes"
	}

	return []string{
		a.ID,
		formatTime(&a.CreatedAt),
		"",
		"",
		"",
		"",
		a.AlertType,
		string(a.Severity),
		a.Title,
		a.Message,
		acknowledged,
		deref(a.AcknowledgedByID),
		formatTime(a.AcknowledgedAt),
	}
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
