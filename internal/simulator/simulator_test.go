package simulator

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
)

func patients(n int, status model.PatientStatus) []model.Patient {
	out := make([]model.Patient, n)
	for i := range out {
		out[i] = model.Patient{ID: fmt.Sprintf("p%d", i), Status: status}
	}
	return out
}

func TestGenerator_SampleSize(t *testing.T) {
	g := New(1)

	tests := []struct {
		patients int
		want     int
	}{
		{0, 0},
		{1, 1},
		{3, 3},
		{5, 3},
		{8, 4},
		{21, 10},
	}

	for _, tt := range tests {
		sample := g.Sample(patients(tt.patients, model.PatientStatusAdmitted))
		assert.Len(t, sample, tt.want, "patients=%d", tt.patients)

		seen := make(map[string]bool)
		for _, p := range sample {
			assert.False(t, seen[p.ID], "duplicate patient in sample")
			seen[p.ID] = true
		}
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	patient := model.Patient{ID: "p1", Status: model.PatientStatusICU}

	a := New(42).Reading(patient, BiasWarning, at)
	b := New(42).Reading(patient, BiasWarning, at)

	assert.Equal(t, a, b)
	assert.Equal(t, "p1", a.PatientID)
	assert.Equal(t, at, a.RecordedAt)
}

func TestGenerator_BiasWeights(t *testing.T) {
	g := New(7)
	const draws = 20000

	tests := []struct {
		status       model.PatientStatus
		wantCritical float64
		wantWarning  float64
	}{
		{model.PatientStatusICU, 0.20, 0.30},
		{model.PatientStatusEmergency, 0.30, 0.40},
		{model.PatientStatusAdmitted, 0.05, 0.10},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			counts := map[Bias]int{}
			for i := 0; i < draws; i++ {
				counts[g.BiasFor(tt.status)]++
			}
			assert.InDelta(t, tt.wantCritical, float64(counts[BiasCritical])/draws, 0.02)
			assert.InDelta(t, tt.wantWarning, float64(counts[BiasWarning])/draws, 0.02)
		})
	}
}

func TestGenerator_CriticalProfileRanges(t *testing.T) {
	g := New(3)
	patient := model.Patient{ID: "p1", Status: model.PatientStatusAdmitted}

	for i := 0; i < 500; i++ {
		r := g.Reading(patient, BiasCritical, time.Now())

		require.NotNil(t, r.OxygenSaturation)
		assert.GreaterOrEqual(t, *r.OxygenSaturation, 80.0)
		assert.LessOrEqual(t, *r.OxygenSaturation, 89.0)

		hr := *r.HeartRate
		assert.True(t, (hr >= 35 && hr <= 50) || (hr >= 120 && hr <= 160), "heart rate %v", hr)

		rr := *r.RespiratoryRate
		assert.True(t, (rr >= 6 && rr <= 10) || (rr >= 28 && rr <= 40), "respiratory rate %d", rr)
	}
}

func TestProperty_DiastolicBelowSystolic(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("generated diastolic pressure is always below systolic", prop.ForAll(
		func(seed uint64, biasIndex int) bool {
			g := New(seed)
			bias := []Bias{BiasNone, BiasWarning, BiasCritical}[biasIndex]
			r := g.Reading(model.Patient{ID: "p1", Status: model.PatientStatusEmergency}, bias, time.Now())
			return *r.DiastolicBP < *r.SystolicBP
		},
		gen.UInt64(),
		gen.IntRange(0, 2),
	))

	properties.Property("temperature has one decimal", prop.ForAll(
		func(seed uint64) bool {
			r := New(seed).Reading(model.Patient{ID: "p1"}, BiasNone, time.Now())
			scaled := *r.Temperature * 10
			return scaled-float64(int(scaled+0.5)) < 1e-6 && float64(int(scaled+0.5))-scaled < 1e-6
		},
		gen.UInt64(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
