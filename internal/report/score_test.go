package report_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fitpulse/fitpulse/internal/report"
)

func TestComputeScore_ExampleScenario(t *testing.T) {
	// adherence 90, 12k steps, 1 workout, moderate risk without rest day
	// => sub-scores {90, 100, 100, 70} => composite 90.
	r := report.DailyReport{
		Nutrition:  report.NutritionSection{Adherence: 90},
		Activity:   report.ActivitySection{Steps: 12000},
		Training:   report.TrainingSection{WorkoutsCompleted: 1},
		InjuryRisk: report.InjuryRisk{OverallRisk: report.RiskModerate},
	}

	score := report.ComputeScore(r)

	assert.Equal(t, 90, score.Value)
	assert.Equal(t, "Excellent", score.Label)
	assert.Equal(t, report.BandSuccess, report.ScoreBand(score.Value))

	assert.Equal(t, 90.0, score.Breakdown.Nutrition)
	assert.Equal(t, 100.0, score.Breakdown.Activity)
	assert.Equal(t, 100.0, score.Breakdown.Training)
	assert.Equal(t, 70.0, score.Breakdown.Recovery)
}

func TestComputeScore_SubScoresClamped(t *testing.T) {
	cases := []struct {
		name      string
		adherence float64
		steps     int
	}{
		{"zero inputs", 0, 0},
		{"over-adherence", 150, 1000000},
		{"negative adherence", -20, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := report.DailyReport{
				Nutrition: report.NutritionSection{Adherence: tc.adherence},
				Activity:  report.ActivitySection{Steps: tc.steps},
			}

			score := report.ComputeScore(r)

			for _, sub := range []float64{
				score.Breakdown.Nutrition,
				score.Breakdown.Activity,
				score.Breakdown.Training,
				score.Breakdown.Recovery,
			} {
				assert.GreaterOrEqual(t, sub, 0.0)
				assert.LessOrEqual(t, sub, 100.0)
			}
			assert.GreaterOrEqual(t, score.Value, 0)
			assert.LessOrEqual(t, score.Value, 100)
		})
	}
}

func TestComputeScore_TrainingHalfCreditWithoutWorkout(t *testing.T) {
	r := report.DailyReport{}
	score := report.ComputeScore(r)

	assert.Equal(t, 50.0, score.Breakdown.Training)
}

func TestComputeScore_RecoveryLadder(t *testing.T) {
	cases := map[report.RiskLevel]float64{
		report.RiskLow:      100,
		report.RiskModerate: 70,
		report.RiskHigh:     40,
		report.RiskVeryHigh: 40,
	}

	for level, want := range cases {
		r := report.DailyReport{InjuryRisk: report.InjuryRisk{OverallRisk: level}}
		assert.Equal(t, want, report.ComputeScore(r).Breakdown.Recovery, "level %s", level)
	}
}

func TestScoreLabel_Thresholds(t *testing.T) {
	cases := []struct {
		value int
		want  string
	}{
		{100, "Excellent"},
		{90, "Excellent"},
		{89, "Great"},
		{80, "Great"},
		{79, "Good"},
		{70, "Good"},
		{69, "Fair"},
		{60, "Fair"},
		{59, "Needs Work"},
		{0, "Needs Work"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, report.ScoreLabel(tc.value), "value %d", tc.value)
	}
}

func TestScoreBand_IndependentFromLabelLadder(t *testing.T) {
	cases := []struct {
		value int
		want  report.Band
	}{
		{100, report.BandSuccess},
		{80, report.BandSuccess},
		{79, report.BandWarning},
		{60, report.BandWarning},
		{59, report.BandError},
		{0, report.BandError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, report.ScoreBand(tc.value), "value %d", tc.value)
	}

	// 85 sits in different rungs of the two ladders: "Great" but already
	// a success band; 65 is "Fair" but a warning, not an error.
	assert.Equal(t, "Great", report.ScoreLabel(85))
	assert.Equal(t, report.BandSuccess, report.ScoreBand(85))
	assert.Equal(t, "Fair", report.ScoreLabel(65))
	assert.Equal(t, report.BandWarning, report.ScoreBand(65))
}

func TestRiskGuidance_RestDayOverrides(t *testing.T) {
	risk := report.InjuryRisk{OverallRisk: report.RiskLow, NeedsRestDay: true}

	assert.Contains(t, report.RiskGuidance(risk), "rest day")
}

func TestRiskGuidance_PerLevel(t *testing.T) {
	for _, level := range []report.RiskLevel{report.RiskLow, report.RiskModerate, report.RiskHigh, report.RiskVeryHigh} {
		guidance := report.RiskGuidance(report.InjuryRisk{OverallRisk: level})
		assert.NotEmpty(t, guidance, "level %s", level)
	}
}

func TestRiskBand(t *testing.T) {
	assert.Equal(t, report.BandSuccess, report.RiskBand(report.RiskLow))
	assert.Equal(t, report.BandWarning, report.RiskBand(report.RiskModerate))
	assert.Equal(t, report.BandError, report.RiskBand(report.RiskHigh))
	assert.Equal(t, report.BandError, report.RiskBand(report.RiskVeryHigh))
}
