package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/wardwatch/wardwatch/apps/backend/pkg/model"
	"go.uber.org/zap"
)

const (
	maxPromptReadings = 10
	maxNoteLength     = 1000
)

// levelPriority is the scan order used for free-text replies
var levelPriority = []model.RiskLevel{
	model.RiskLevelCritical,
	model.RiskLevelHigh,
	model.RiskLevelModerate,
	model.RiskLevelLow,
	model.RiskLevelStable,
}

var (
	scorePattern = regexp.MustCompile(`(?i)score["']?\s*[:=]?\s*(\d{1,3})\b`)
	levelPattern = map[model.RiskLevel]*regexp.Regexp{}
)

func init() {
	for _, level := range levelPriority {
		levelPattern[level] = regexp.MustCompile(`(?i)\b` + string(level) + `\b`)
	}
}

// TextConsultant asks a Generator for a second opinion and parses the reply
type TextConsultant struct {
	generator Generator
	logger    *zap.Logger
}

// NewTextConsultant creates a new TextConsultant. A nil generator makes every
// call return ErrUnavailable.
func NewTextConsultant(generator Generator, logger *zap.Logger) *TextConsultant {
	return &TextConsultant{
		generator: generator,
		logger:    logger,
	}
}

// Suggest implements Consultant
func (c *TextConsultant) Suggest(ctx context.Context, in Context) (*Suggestion, error) {
	if c.generator == nil {
		return nil, ErrUnavailable
	}

	reply, err := c.generator.Generate(ctx, BuildPrompt(in))
	if err != nil {
		return nil, fmt.Errorf("advisory request failed: %w", err)
	}

	suggestion := ParseReply(reply)
	if suggestion == nil {
		return nil, fmt.Errorf("unparseable advisory reply")
	}

	c.logger.Debug("advisory suggestion received",
		zap.Bool("has_level", suggestion.Level != nil),
		zap.Bool("has_score", suggestion.Score != nil),
		zap.Int("note_length", len(suggestion.Note)),
	)

	return suggestion, nil
}

// BuildPrompt renders the patient summary, recent readings, local score and
// factors into a single prompt.
func BuildPrompt(in Context) string {
	var b strings.Builder

	b.WriteString("Review the following ward patient and give a one-line clinical recommendation, ")
	b.WriteString("a risk level (critical, high, moderate, low or stable) and a risk score from 0 to 100.\n")
	b.WriteString(`Reply as JSON: {"risk_level": "...", "risk_score": 0, "recommendation": "..."}` + "\n\n")

	if p := in.Patient; p != nil {
		fmt.Fprintf(&b, "Patient: %s, %s", p.FullName(), p.Gender)
		if !in.Now.IsZero() && !p.DateOfBirth.IsZero() {
			fmt.Fprintf(&b, ", age %d", age(p, in))
		}
		fmt.Fprintf(&b, ", status %s\n", p.Status)
		if p.Diagnosis != nil && *p.Diagnosis != "" {
			fmt.Fprintf(&b, "Diagnosis: %s\n", *p.Diagnosis)
		}
	}

	b.WriteString("Recent vitals (most recent first):\n")
	readings := in.Recent
	if len(readings) > maxPromptReadings {
		readings = readings[:maxPromptReadings]
	}
	for _, r := range readings {
		fmt.Fprintf(&b, "- %s HR=%s BP=%s SpO2=%s Temp=%s RR=%s\n",
			r.RecordedAt.Format("2006-01-02 15:04"),
			floatText(r.HeartRate),
			bpText(r.SystolicBP, r.DiastolicBP),
			floatText(r.OxygenSaturation),
			floatText(r.Temperature),
			intText(r.RespiratoryRate),
		)
	}

	fmt.Fprintf(&b, "\nLocal risk score: %d (%s)\n", in.Score, in.Level)
	if len(in.Factors) > 0 {
		b.WriteString("Risk factors:\n")
		for _, f := range in.Factors {
			fmt.Fprintf(&b, "- %s [%s, trend %s]: %s\n", f.Type, f.Severity, f.Trend, f.Message)
		}
	}

	return b.String()
}

type jsonReply struct {
	RiskLevel      string   `json:"risk_level"`
	RiskScore      *float64 `json:"risk_score"`
	Recommendation string   `json:"recommendation"`
}

// ParseReply extracts a suggestion from a JSON or free-text reply. It returns
// nil when the reply is empty.
func ParseReply(reply string) *Suggestion {
	text := strings.TrimSpace(reply)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var parsed jsonReply
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		s := &Suggestion{Note: truncate(strings.TrimSpace(parsed.Recommendation))}
		if level, ok := matchLevel(parsed.RiskLevel); ok {
			s.Level = &level
		}
		if parsed.RiskScore != nil && *parsed.RiskScore >= 0 && *parsed.RiskScore <= 100 {
			score := int(*parsed.RiskScore + 0.5)
			s.Score = &score
		}
		if s.Note == "" && s.Level == nil && s.Score == nil {
			return nil
		}
		return s
	}

	s := &Suggestion{Note: truncate(text)}
	if level, ok := matchLevel(text); ok {
		s.Level = &level
	}
	if m := scorePattern.FindStringSubmatch(text); m != nil {
		if score, err := strconv.Atoi(m[1]); err == nil && score <= 100 {
			s.Score = &score
		}
	}
	return s
}

func matchLevel(text string) (model.RiskLevel, bool) {
	for _, level := range levelPriority {
		if levelPattern[level].MatchString(text) {
			return level, true
		}
	}
	return "", false
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxNoteLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxNoteLength])
}

func age(p *model.Patient, in Context) int {
	years := in.Now.Year() - p.DateOfBirth.Year()
	if in.Now.YearDay() < p.DateOfBirth.YearDay() {
		years--
	}
	return years
}

func floatText(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func intText(v *int) string {
	if v == nil {
		return "n/a"
	}
	return strconv.Itoa(*v)
}

func bpText(sys, dia *int) string {
	if sys == nil {
		return "n/a"
	}
	if dia == nil {
		return strconv.Itoa(*sys)
	}
	return fmt.Sprintf("%d/%d", *sys, *dia)
}
