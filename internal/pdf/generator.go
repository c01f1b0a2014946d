package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

const (
	maxVitalRows      = 20
	maxAssessmentRows = 10
	maxAlertRows      = 15
)

// PDFGenerator renders patient risk reports
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportData contains all data needed for a patient risk report. Slices are
// expected newest first.
type ReportData struct {
	Patient     model.Patient
	Assessments []model.RiskAssessment
	Vitals      []model.VitalReading
	Alerts      []model.Alert
	Medications []model.Medication
	GeneratedAt time.Time
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	if data == nil {
		return nil, fmt.Errorf("report data is required")
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	g.logger.Info("generating risk report PDF",
		zap.String("patient_id", data.Patient.ID),
		zap.Int("assessments", len(data.Assessments)),
		zap.Int("vitals", len(data.Vitals)),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	g.addTitle(pdf, data)
	g.addCurrentRisk(pdf, data.Assessments)
	g.addRiskHistory(pdf, data.Assessments)
	g.addVitalsTable(pdf, data.Vitals)
	g.addAlerts(pdf, data.Alerts)
	g.addMedicationList(pdf, data.Medications)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("risk report PDF generated",
		zap.String("patient_id", data.Patient.ID),
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, data *ReportData) {
	p := data.Patient

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, "Patient Risk Report", "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Patient: %s (%s)", p.FullName(), p.PatientCode), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Location: Room %s, Bed %s", p.Room(), p.Bed()), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Status: %s", p.Status), "", 1, "L", false, 0, "")
	if p.Diagnosis != nil && *p.Diagnosis != "" {
		pdf.CellFormat(0, 8, fmt.Sprintf("Diagnosis: %s", *p.Diagnosis), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", data.GeneratedAt.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(8)
}

func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

func (g *PDFGenerator) addCurrentRisk(pdf *gofpdf.Fpdf, assessments []model.RiskAssessment) {
	g.addSectionHeader(pdf, "Current Risk")

	if len(assessments) == 0 {
		pdf.CellFormat(0, 8, "No risk assessment recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	latest := assessments[0]
	r, gr, b := levelColor(latest.RiskLevel)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(r, gr, b)
	pdf.CellFormat(0, 7, fmt.Sprintf("%s (score %d)", strings.ToUpper(string(latest.RiskLevel)), latest.RiskScore), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)

	pdf.CellFormat(0, 5, fmt.Sprintf("Assessed: %s from %d readings", latest.AssessedAt.Format("2006-01-02 15:04"), latest.VitalCount), "", 1, "L", false, 0, "")
	if latest.EarlyWarningScore != nil {
		pdf.CellFormat(0, 5, fmt.Sprintf("Early warning score: %d", *latest.EarlyWarningScore), "", 1, "L", false, 0, "")
	}
	if latest.Message != "" {
		pdf.CellFormat(0, 5, latest.Message, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	if len(latest.RiskFactors) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Risk factors:", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, f := range latest.RiskFactors {
			pdf.MultiCell(0, 5, fmt.Sprintf("  - [%s] %s (%s)", f.Severity, f.Message, f.Trend), "", "L", false)
		}
	}

	if len(latest.Predictions) > 0 {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, "Predictions:", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, p := range latest.Predictions {
			pdf.MultiCell(0, 5, fmt.Sprintf("  - %s", p), "", "L", false)
		}
	}
	pdf.Ln(5)
}

func (g *PDFGenerator) addRiskHistory(pdf *gofpdf.Fpdf, assessments []model.RiskAssessment) {
	g.addSectionHeader(pdf, "Risk History")

	if len(assessments) < 2 {
		pdf.CellFormat(0, 8, "No earlier assessments.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	headers := []string{"Assessed", "Level", "Score", "Factors"}
	widths := []float64{50, 40, 25, 55}
	g.tableHeader(pdf, headers, widths)

	for i, a := range assessments {
		if i >= maxAssessmentRows {
			break
		}
		pdf.CellFormat(widths[0], 6, a.AssessedAt.Format("2006-01-02 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, string(a.RiskLevel), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", a.RiskScore), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 6, fmt.Sprintf("%d", len(a.RiskFactors)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)
}

func (g *PDFGenerator) addVitalsTable(pdf *gofpdf.Fpdf, vitals []model.VitalReading) {
	g.addSectionHeader(pdf, "Recent Vital Signs")

	if len(vitals) == 0 {
		pdf.CellFormat(0, 8, "No vital signs recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	headers := []string{"Recorded", "HR", "BP", "SpO2", "Temp F", "RR", "Status"}
	widths := []float64{36, 18, 26, 20, 22, 16, 32}
	g.tableHeader(pdf, headers, widths)

	for i, v := range vitals {
		if i >= maxVitalRows {
			break
		}
		bp := "-"
		if v.SystolicBP != nil && v.DiastolicBP != nil {
			bp = fmt.Sprintf("%d/%d", *v.SystolicBP, *v.DiastolicBP)
		} else if v.SystolicBP != nil {
			bp = fmt.Sprintf("%d/-", *v.SystolicBP)
		}

		cells := []string{
			v.RecordedAt.Format("01-02 15:04"),
			formatFloat(v.HeartRate, "%.0f"),
			bp,
			formatFloat(v.OxygenSaturation, "%.0f"),
			formatFloat(v.Temperature, "%.1f"),
			formatInt(v.RespiratoryRate),
			string(v.Status),
		}
		for j, c := range cells {
			ln := 0
			if j == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(widths[j], 6, c, "1", ln, "C", false, 0, "")
		}
	}
	pdf.Ln(5)
}

func (g *PDFGenerator) addAlerts(pdf *gofpdf.Fpdf, alerts []model.Alert) {
	g.addSectionHeader(pdf, "Alerts")

	if len(alerts) == 0 {
		pdf.CellFormat(0, 8, "No alerts raised.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for i, a := range alerts {
		if i >= maxAlertRows {
			break
		}
		state := "open"
		if a.IsAcknowledged {
			state = "acknowledged"
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s  [%s, %s]", a.CreatedAt.Format("2006-01-02 15:04"), a.Severity, state), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, fmt.Sprintf("  %s: %s", a.Title, a.Message), "", "L", false)
		pdf.Ln(1)
	}
	pdf.Ln(5)
}

func (g *PDFGenerator) addMedicationList(pdf *gofpdf.Fpdf, medications []model.Medication) {
	g.addSectionHeader(pdf, "Medications")

	if len(medications) == 0 {
		pdf.CellFormat(0, 8, "No medications recorded.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, med := range medications {
		pdf.SetFont("Arial", "B", 10)
		title := med.Name
		if !med.Active {
			title += " (inactive)"
		}
		pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Dosage: %s, %s", med.Dosage, med.Frequency), "", 1, "L", false, 0, "")
		if med.Route != nil {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Route: %s", *med.Route), "", 1, "L", false, 0, "")
		}
		if med.LastAdministered != nil {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Last given: %s", med.LastAdministered.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
		}
		if med.NextDue != nil {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Next due: %s", med.NextDue.Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
		}
		if med.Notes != nil && *med.Notes != "" {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Notes: %s", *med.Notes), "", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}
	pdf.Ln(5)
}

func (g *PDFGenerator) tableHeader(pdf *gofpdf.Fpdf, headers []string, widths []float64) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(245, 245, 245)
	for i, h := range headers {
		ln := 0
		if i == len(headers)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 7, h, "1", ln, "C", true, 0, "")
	}
	pdf.SetFont("Arial", "", 9)
}

func levelColor(level model.RiskLevel) (int, int, int) {
	switch level {
	case model.RiskLevelCritical:
		return 190, 20, 20
	case model.RiskLevelHigh:
		return 220, 110, 0
	case model.RiskLevelModerate:
		return 180, 150, 0
	default:
		return 0, 110, 40
	}
}

func formatFloat(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func formatInt(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}
