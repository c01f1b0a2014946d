package service

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
)

// RawAlert is one threshold violation detected on a single reading
type RawAlert struct {
	Type        string
	Severity    model.AlertSeverity
	Measurement string
	Title       string
	Message     string
	Detail      string
}

// vitalThreshold describes the critical and warning bands of one measurement.
// A value is critical outside [criticalLow, criticalHigh] and a warning
// outside [warningLow, warningHigh].
type vitalThreshold struct {
	measurement  string
	title        string
	criticalLow  float64
	criticalHigh float64
	warningLow   float64
	warningHigh  float64
	value        func(r *model.VitalReading) (float64, bool)
	describe     func(r *model.VitalReading) string
}

var vitalThresholds = []vitalThreshold{
	{
		measurement:  "heart_rate",
		title:        "Abnormal Heart Rate",
		criticalLow:  40,
		criticalHigh: 150,
		warningLow:   50,
		warningHigh:  130,
		value:        func(r *model.VitalReading) (float64, bool) { return floatValue(r.HeartRate) },
		describe: func(r *model.VitalReading) string {
			return fmt.Sprintf("Heart rate is %s bpm.", formatNumber(*r.HeartRate))
		},
	},
	{
		measurement:  "blood_pressure",
		title:        "Abnormal Blood Pressure",
		criticalLow:  80,
		criticalHigh: 180,
		warningLow:   90,
		warningHigh:  160,
		value:        func(r *model.VitalReading) (float64, bool) { return intValue(r.SystolicBP) },
		describe: func(r *model.VitalReading) string {
			if r.DiastolicBP == nil {
				return fmt.Sprintf("Systolic blood pressure is %d mmHg.", *r.SystolicBP)
			}
			return fmt.Sprintf("Blood pressure is %d/%d mmHg.", *r.SystolicBP, *r.DiastolicBP)
		},
	},
	{
		measurement:  "oxygen_saturation",
		title:        "Low Oxygen Saturation",
		criticalLow:  88,
		criticalHigh: math.Inf(1),
		warningLow:   92,
		warningHigh:  math.Inf(1),
		value:        func(r *model.VitalReading) (float64, bool) { return floatValue(r.OxygenSaturation) },
		describe: func(r *model.VitalReading) string {
			return fmt.Sprintf("SpO2 is %s%%.", formatNumber(*r.OxygenSaturation))
		},
	},
	{
		measurement:  "temperature",
		title:        "Abnormal Temperature",
		criticalLow:  95,
		criticalHigh: 103,
		warningLow:   96.5,
		warningHigh:  101.5,
		value:        func(r *model.VitalReading) (float64, bool) { return floatValue(r.Temperature) },
		describe: func(r *model.VitalReading) string {
			return fmt.Sprintf("Temperature is %s°F.", formatNumber(*r.Temperature))
		},
	},
	{
		measurement:  "respiratory_rate",
		title:        "Abnormal Respiratory Rate",
		criticalLow:  8,
		criticalHigh: 30,
		warningLow:   10,
		warningHigh:  25,
		value:        func(r *model.VitalReading) (float64, bool) { return intValue(r.RespiratoryRate) },
		describe: func(r *model.VitalReading) string {
			return fmt.Sprintf("Respiratory rate is %d breaths/min.", *r.RespiratoryRate)
		},
	},
}

// severity classifies a value against the bands. ok is false inside the normal band.
func (t vitalThreshold) severity(v float64) (model.AlertSeverity, bool) {
	switch {
	case v < t.criticalLow || v > t.criticalHigh:
		return model.AlertSeverityCritical, true
	case v < t.warningLow || v > t.warningHigh:
		return model.AlertSeverityWarning, true
	default:
		return "", false
	}
}

// EvaluateThresholds checks one reading against the static vital thresholds.
// Every measurement is evaluated independently; missing measurements are skipped.
func EvaluateThresholds(patient *model.Patient, reading *model.VitalReading) []RawAlert {
	var alerts []RawAlert
	for _, t := range vitalThresholds {
		v, ok := t.value(reading)
		if !ok {
			continue
		}
		severity, abnormal := t.severity(v)
		if !abnormal {
			continue
		}
		alerts = append(alerts, RawAlert{
			Type:        model.AlertTypeCriticalVitals,
			Severity:    severity,
			Measurement: t.measurement,
			Title:       fmt.Sprintf("%s - %s", t.title, patient.FullName()),
			Message:     fmt.Sprintf("%s %s", t.describe(reading), patient.Location()),
			Detail:      t.describe(reading),
		})
	}
	return alerts
}

// MergeRawAlerts folds violations that share an alert type into a single
// alert, since they land on the same active alert row. The merged alert has
// the highest severity and the title of its most severe violation, and its
// message lists every violation, most severe first. Types keep the order of
// their first violation.
func MergeRawAlerts(patient *model.Patient, raws []RawAlert) []RawAlert {
	var order []string
	groups := make(map[string][]RawAlert)
	for _, raw := range raws {
		if _, seen := groups[raw.Type]; !seen {
			order = append(order, raw.Type)
		}
		groups[raw.Type] = append(groups[raw.Type], raw)
	}

	merged := make([]RawAlert, 0, len(order))
	for _, alertType := range order {
		group := groups[alertType]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}

		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Severity.Rank() > group[j].Severity.Rank()
		})

		measurements := make([]string, len(group))
		details := make([]string, len(group))
		for i, raw := range group {
			measurements[i] = raw.Measurement
			details[i] = raw.Detail
		}

		merged = append(merged, RawAlert{
			Type:        alertType,
			Severity:    group[0].Severity,
			Measurement: strings.Join(measurements, ","),
			Title:       group[0].Title,
			Message:     fmt.Sprintf("%s %s", strings.Join(details, " "), patient.Location()),
			Detail:      strings.Join(details, " "),
		})
	}
	return merged
}

// ClassifyReading derives the status tag of a reading from its worst threshold violation
func ClassifyReading(reading *model.VitalReading) model.VitalStatus {
	status := model.VitalStatusNormal
	for _, t := range vitalThresholds {
		v, ok := t.value(reading)
		if !ok {
			continue
		}
		severity, abnormal := t.severity(v)
		if !abnormal {
			continue
		}
		if severity == model.AlertSeverityCritical {
			return model.VitalStatusCritical
		}
		status = model.VitalStatusWarning
	}
	return status
}

// EarlyWarningScore computes a NEWS-style aggregate score for a single reading.
// Higher is worse; missing measurements contribute nothing.
func EarlyWarningScore(r *model.VitalReading) int {
	score := 0

	if rr, ok := intValue(r.RespiratoryRate); ok {
		switch {
		case rr <= 8:
			score += 3
		case rr <= 11:
			score++
		case rr >= 25:
			score += 3
		case rr >= 21:
			score += 2
		}
	}

	if o2, ok := floatValue(r.OxygenSaturation); ok {
		switch {
		case o2 <= 91:
			score += 3
		case o2 <= 93:
			score += 2
		case o2 <= 95:
			score++
		}
	}

	if hr, ok := floatValue(r.HeartRate); ok {
		switch {
		case hr <= 40:
			score += 3
		case hr <= 50:
			score++
		case hr >= 131:
			score += 3
		case hr >= 111:
			score += 2
		case hr >= 91:
			score++
		}
	}

	if sbp, ok := intValue(r.SystolicBP); ok {
		switch {
		case sbp <= 90:
			score += 3
		case sbp <= 100:
			score += 2
		case sbp >= 220:
			score += 3
		}
	}

	if temp, ok := floatValue(r.Temperature); ok {
		switch {
		case temp <= 95:
			score += 3
		case temp >= 102.2:
			score += 2
		case temp >= 100.4:
			score++
		}
	}

	return score
}

func floatValue(v *float64) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return *v, true
}

func intValue(v *int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}

// formatNumber prints a measurement without trailing zeros, e.g. 200 or 103.5
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
