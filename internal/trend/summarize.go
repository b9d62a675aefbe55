package trend

// placeholderSlots is the width of the fallback chart when the backend
// has no usable history yet.
const placeholderSlots = 7

// SummarizeCalorieHistory derives the trends-view calorie summary.
// Real history passes the backend stats through untouched. An empty or
// all-zero history falls back to a 7-slot placeholder series where only
// the last slot carries today's live consumed calories.
func SummarizeCalorieHistory(h CalorieHistory, consumedToday float64, today string) CalorieSummary {
	if !hasRealHistory(h.History) {
		return placeholderSummary(consumedToday, today)
	}

	series := make([]ChartSlot, 0, len(h.History))
	for _, point := range h.History {
		series = append(series, ChartSlot{Date: point.Date, Calories: point.Calories})
	}

	return CalorieSummary{
		Series:           series,
		Average:          h.Stats.Average,
		AdherencePercent: h.Stats.AdherencePercent,
		DaysTracked:      h.Stats.DaysTracked,
	}
}

// placeholderSummary builds the "not enough history yet" series: six
// muted zero slots followed by today's live value.
func placeholderSummary(consumedToday float64, today string) CalorieSummary {
	series := make([]ChartSlot, placeholderSlots)
	for i := 0; i < placeholderSlots-1; i++ {
		series[i] = ChartSlot{Muted: true}
	}
	series[placeholderSlots-1] = ChartSlot{Date: today, Calories: consumedToday}

	daysTracked := 0
	if consumedToday > 0 {
		daysTracked = 1
	}

	return CalorieSummary{
		Series:           series,
		Average:          consumedToday,
		AdherencePercent: 0,
		DaysTracked:      daysTracked,
		Placeholder:      true,
	}
}

// hasRealHistory reports whether the backend series carries any signal.
func hasRealHistory(history []CaloriePoint) bool {
	for _, p := range history {
		if p.Calories > 0 {
			return true
		}
	}
	return false
}

// SevenDayAverage is the mean over a series, 0 on empty input.
func SevenDayAverage(history []CaloriePoint) float64 {
	if len(history) == 0 {
		return 0
	}
	var total float64
	for _, p := range history {
		total += p.Calories
	}
	return total / float64(len(history))
}

// AnalyzeWeight applies the insufficient-data guard to a server trend:
// with fewer than two data points every numeric field is nil and the
// direction is insufficient_data, whatever the server said.
func AnalyzeWeight(t WeightTrend, dataPoints int) WeightTrend {
	if dataPoints < 2 {
		return WeightTrend{Trend: TrendInsufficientData}
	}
	if t.Trend == "" {
		t.Trend = TrendStable
	}
	return t
}
