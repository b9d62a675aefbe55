// Package report provides the daily report model and the composite
// daily score engine.
package report

import (
	"github.com/fitpulse/fitpulse/internal/nutrition"
)

// RiskLevel classifies the backend's injury/recovery assessment.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

// MuscleRisk is one muscle group's risk entry within an assessment.
type MuscleRisk struct {
	Muscle string    `json:"muscle"`
	Level  RiskLevel `json:"riskLevel"`
}

// InjuryRisk is the backend-classified fatigue/recovery report.
// Consumed read-only; the client only classifies and labels it.
type InjuryRisk struct {
	OverallRisk     RiskLevel    `json:"overallRisk"`
	MusclesAtRisk   []MuscleRisk `json:"musclesAtRisk"`
	Recommendations []string     `json:"recommendations"`
	NeedsRestDay    bool         `json:"needsRestDay"`
}

// NutritionSection is the nutrition slice of a daily report.
type NutritionSection struct {
	Totals    nutrition.Macros `json:"totals"`
	Targets   nutrition.Macros `json:"targets"`
	Adherence float64          `json:"adherence"`
}

// ActivitySection is the activity slice of a daily report.
type ActivitySection struct {
	Steps          int     `json:"steps"`
	CaloriesBurned float64 `json:"caloriesBurned"`
	WaterIntake    float64 `json:"waterIntake"`
	SleepHours     float64 `json:"sleepHours"`
}

// TrainingSection is the training slice of a daily report.
type TrainingSection struct {
	WorkoutsCompleted int     `json:"workoutsCompleted"`
	TotalVolume       float64 `json:"totalVolume"`
	Sessions          int     `json:"sessions"`
}

// DailyReport is the composite input to the daily score engine for one
// calendar date.
type DailyReport struct {
	Date       string           `json:"date"` // YYYY-MM-DD
	Nutrition  NutritionSection `json:"nutrition"`
	Activity   ActivitySection  `json:"activity"`
	Training   TrainingSection  `json:"training"`
	InjuryRisk InjuryRisk       `json:"injuryRisk"`
}
