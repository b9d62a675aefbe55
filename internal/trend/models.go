// Package trend rolls calorie and weight history into summaries for the
// trends view.
package trend

// WeightLog is one entry in the append-only weight series.
type WeightLog struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"` // kg
	Date   string  `json:"date"`   // YYYY-MM-DD
	Note   string  `json:"note,omitempty"`
}

// Direction classifies a weight series as moving up, down, flat, or
// lacking the two points needed to say anything.
type Direction string

const (
	TrendUp               Direction = "up"
	TrendDown             Direction = "down"
	TrendStable           Direction = "stable"
	TrendInsufficientData Direction = "insufficient_data"
)

// WeightTrend is the server-derived summary over the weight series.
// Numeric fields are nil when the series has fewer than two points.
type WeightTrend struct {
	Current      *float64  `json:"current"`
	SevenDayAvg  *float64  `json:"sevenDayAvg"`
	ThirtyDayAvg *float64  `json:"thirtyDayAvg"`
	Trend        Direction `json:"trend"`
	Change       *float64  `json:"change"`
}

// CaloriePoint is one day of the backend calorie history.
type CaloriePoint struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Calories float64 `json:"calories"`
}

// CalorieStats is the backend-computed roll-up that accompanies real
// history. The client never recomputes these when history exists.
type CalorieStats struct {
	Average          float64 `json:"average"`
	AdherencePercent float64 `json:"adherencePercent"`
	DaysTracked      int     `json:"daysTracked"`
}

// CalorieHistory is the gateway response for calorie history lookups.
type CalorieHistory struct {
	History []CaloriePoint `json:"history"`
	Stats   CalorieStats   `json:"stats"`
}

// ChartSlot is one bar of the calorie chart series.
type ChartSlot struct {
	Date     string  `json:"date"`
	Calories float64 `json:"calories"`
	// Muted marks placeholder slots rendered with reduced opacity.
	Muted bool `json:"muted"`
}

// CalorieSummary is the derived trends-view state over calorie history.
type CalorieSummary struct {
	Series           []ChartSlot `json:"series"`
	Average          float64     `json:"average"`
	AdherencePercent float64     `json:"adherencePercent"`
	DaysTracked      int         `json:"daysTracked"`
	// Placeholder marks the "not enough history yet" state, distinct
	// from "zero calories logged today".
	Placeholder bool `json:"placeholder"`
}
