package report

import (
	"math"
)

// StepsTarget is the daily step count that earns a full activity
// sub-score.
const StepsTarget = 10000

// Band classifies a score for presentation. Band thresholds (80/60)
// are deliberately distinct from the label thresholds (90/80/70/60);
// the two ladders must not be unified.
type Band string

const (
	BandSuccess Band = "success"
	BandWarning Band = "warning"
	BandError   Band = "error"
)

// Score is the composite daily score with its qualitative label and
// per-dimension breakdown.
type Score struct {
	Value     int       `json:"value"` // 0..100
	Label     string    `json:"label"`
	Breakdown Breakdown `json:"breakdown"`
}

// Breakdown holds the four clamped sub-scores feeding the composite.
type Breakdown struct {
	Nutrition float64 `json:"nutrition"`
	Activity  float64 `json:"activity"`
	Training  float64 `json:"training"`
	Recovery  float64 `json:"recovery"`
}

// ComputeScore combines nutrition adherence, steps, training completion,
// and injury risk into one 0-100 composite. The unweighted mean keeps
// the score explainable: each sub-score maps 1:1 to an icon in the UI.
func ComputeScore(r DailyReport) Score {
	breakdown := Breakdown{
		Nutrition: clampScore(r.Nutrition.Adherence),
		Activity:  clampScore(float64(r.Activity.Steps) / StepsTarget * 100),
		Training:  trainingScore(r.Training),
		Recovery:  recoveryScore(r.InjuryRisk.OverallRisk),
	}

	mean := (breakdown.Nutrition + breakdown.Activity + breakdown.Training + breakdown.Recovery) / 4
	value := int(math.Round(clampScore(mean)))

	return Score{
		Value:     value,
		Label:     ScoreLabel(value),
		Breakdown: breakdown,
	}
}

// ScoreLabel maps a composite value onto its qualitative label.
// Thresholds are inclusive lower bounds.
func ScoreLabel(value int) string {
	switch {
	case value >= 90:
		return "Excellent"
	case value >= 80:
		return "Great"
	case value >= 70:
		return "Good"
	case value >= 60:
		return "Fair"
	default:
		return "Needs Work"
	}
}

// ScoreBand maps a composite value onto its presentation color band.
// Note the 80/60 cut-points differ from the label ladder.
func ScoreBand(value int) Band {
	switch {
	case value >= 80:
		return BandSuccess
	case value >= 60:
		return BandWarning
	default:
		return BandError
	}
}

// RiskBand maps an injury risk level onto a presentation color band.
func RiskBand(level RiskLevel) Band {
	switch level {
	case RiskLow:
		return BandSuccess
	case RiskModerate:
		return BandWarning
	default:
		return BandError
	}
}

// RiskGuidance returns the textual recommendation for an assessment.
// A rest-day flag overrides the level text regardless of overall risk.
func RiskGuidance(risk InjuryRisk) string {
	if risk.NeedsRestDay {
		return "Take a rest day. Your body needs time to recover."
	}
	switch risk.OverallRisk {
	case RiskLow:
		return "You're recovering well. Keep up the good work."
	case RiskModerate:
		return "Some muscle groups need attention. Consider lighter training."
	case RiskHigh:
		return "High fatigue detected. Reduce training intensity."
	case RiskVeryHigh:
		return "Very high injury risk. Strongly consider resting."
	default:
		return "No recovery data available yet."
	}
}

func trainingScore(t TrainingSection) float64 {
	if t.WorkoutsCompleted > 0 {
		return 100
	}
	return 50
}

func recoveryScore(level RiskLevel) float64 {
	switch level {
	case RiskLow:
		return 100
	case RiskModerate:
		return 70
	default:
		return 40
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
