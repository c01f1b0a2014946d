// Package simulator generates synthetic bedside vital readings for wards
// without connected monitors.
package simulator

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
)

// Bias steers a generated reading towards a band
type Bias string

const (
	BiasNone     Bias = ""
	BiasWarning  Bias = "warning"
	BiasCritical Bias = "critical"
)

// biasWeights are the critical, warning and none weights per patient status
var biasWeights = map[model.PatientStatus][3]int{
	model.PatientStatusICU:       {20, 30, 50},
	model.PatientStatusEmergency: {30, 40, 30},
}

var defaultBiasWeights = [3]int{5, 10, 85}

// Generator is safe for concurrent use
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a generator with a fixed seed
func New(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandom creates a generator seeded from the runtime source
func NewRandom() *Generator {
	return New(rand.Uint64())
}

// Sample picks min(n, max(3, n/2)) distinct patients in random order
func (g *Generator) Sample(patients []model.Patient) []model.Patient {
	n := len(patients)
	k := n / 2
	if k < 3 {
		k = 3
	}
	if k > n {
		k = n
	}

	g.mu.Lock()
	perm := g.rnd.Perm(n)
	g.mu.Unlock()

	sample := make([]model.Patient, k)
	for i := 0; i < k; i++ {
		sample[i] = patients[perm[i]]
	}
	return sample
}

// BiasFor draws a bias using the weights of the patient's status
func (g *Generator) BiasFor(status model.PatientStatus) Bias {
	weights, ok := biasWeights[status]
	if !ok {
		weights = defaultBiasWeights
	}

	g.mu.Lock()
	roll := g.rnd.IntN(weights[0] + weights[1] + weights[2])
	g.mu.Unlock()

	switch {
	case roll < weights[0]:
		return BiasCritical
	case roll < weights[0]+weights[1]:
		return BiasWarning
	default:
		return BiasNone
	}
}

// Reading generates one reading for the patient. ICU and emergency patients
// have an extra 30% chance of a critical profile; any patient has a 15%
// chance of drifting into the warning profile.
func (g *Generator) Reading(patient model.Patient, bias Bias, at time.Time) model.VitalReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	acute := patient.Status == model.PatientStatusICU || patient.Status == model.PatientStatusEmergency

	var r model.VitalReading
	switch {
	case bias == BiasCritical || (acute && g.rnd.Float64() < 0.3):
		r = g.criticalProfile()
	case bias == BiasWarning || g.rnd.Float64() < 0.15:
		r = g.warningProfile()
	default:
		r = g.normalProfile()
	}

	r.PatientID = patient.ID
	r.RecordedAt = at
	return r
}

func (g *Generator) criticalProfile() model.VitalReading {
	hr := g.pickInt([2]int{35, 50}, [2]int{120, 160})
	sys, dia := g.pressure([2]int{70, 85}, [2]int{40, 55}, [2]int{180, 210}, [2]int{110, 130})
	o2 := g.intRange(80, 89)
	temp := g.pickFloat([2]float64{95.0, 96.5}, [2]float64{102.5, 105.0})
	rr := g.pickInt([2]int{6, 10}, [2]int{28, 40})
	return reading(hr, sys, dia, o2, temp, rr)
}

func (g *Generator) warningProfile() model.VitalReading {
	hr := g.pickInt([2]int{50, 60}, [2]int{100, 120})
	sys, dia := g.pressure([2]int{90, 100}, [2]int{55, 65}, [2]int{140, 160}, [2]int{90, 100})
	o2 := g.intRange(90, 93)
	temp := g.pickFloat([2]float64{96.5, 97.5}, [2]float64{99.5, 101.5})
	rr := g.pickInt([2]int{10, 12}, [2]int{20, 25})
	return reading(hr, sys, dia, o2, temp, rr)
}

func (g *Generator) normalProfile() model.VitalReading {
	return reading(
		g.intRange(60, 100),
		g.intRange(110, 130),
		g.intRange(70, 85),
		g.intRange(95, 100),
		g.floatRange(97.5, 99.0),
		g.intRange(12, 20),
	)
}

// pressure draws systolic and diastolic from the same side so diastolic
// stays below systolic.
func (g *Generator) pressure(lowSys, lowDia, highSys, highDia [2]int) (int, int) {
	if g.rnd.IntN(2) == 0 {
		return g.intRange(lowSys[0], lowSys[1]), g.intRange(lowDia[0], lowDia[1])
	}
	return g.intRange(highSys[0], highSys[1]), g.intRange(highDia[0], highDia[1])
}

func (g *Generator) pickInt(low, high [2]int) int {
	if g.rnd.IntN(2) == 0 {
		return g.intRange(low[0], low[1])
	}
	return g.intRange(high[0], high[1])
}

func (g *Generator) pickFloat(low, high [2]float64) float64 {
	if g.rnd.IntN(2) == 0 {
		return g.floatRange(low[0], low[1])
	}
	return g.floatRange(high[0], high[1])
}

// intRange returns an integer in [min, max]
func (g *Generator) intRange(min, max int) int {
	return min + g.rnd.IntN(max-min+1)
}

// floatRange returns a value in [min, max] rounded to one decimal
func (g *Generator) floatRange(min, max float64) float64 {
	v := min + g.rnd.Float64()*(max-min)
	return math.Round(v*10) / 10
}

func reading(hr, sys, dia, o2 int, temp float64, rr int) model.VitalReading {
	heartRate := float64(hr)
	oxygen := float64(o2)
	return model.VitalReading{
		HeartRate:        &heartRate,
		SystolicBP:       &sys,
		DiastolicBP:      &dia,
		OxygenSaturation: &oxygen,
		Temperature:      &temp,
		RespiratoryRate:  &rr,
	}
}
