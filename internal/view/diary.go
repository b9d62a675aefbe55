// Package view holds screen-scoped derived state over the aggregation
// engines. A state object is built fresh on mount, loads its sections
// concurrently, and drops updates after teardown; nothing here is a
// process-wide singleton.
package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitpulse/fitpulse/internal/gateway"
	"github.com/fitpulse/fitpulse/internal/history"
	"github.com/fitpulse/fitpulse/internal/nutrition"
	"github.com/fitpulse/fitpulse/internal/report"
	"github.com/fitpulse/fitpulse/internal/trend"
)

// Tab identifies one diary screen tab. Switching tabs re-renders
// already-computed aggregates; it never triggers a fetch.
type Tab string

const (
	TabDiary     Tab = "diary"
	TabNutrients Tab = "nutrients"
	TabTrends    Tab = "trends"
	TabGoals     Tab = "goals"
)

// Section identifiers for progressive disclosure.
const (
	SectionPlan    = "plan"
	SectionSummary = "summary"
	SectionWeight  = "weight"
	SectionTrends  = "trends"
	SectionRisk    = "risk"
	SectionScore   = "score"
)

// Gateway is the slice of the API client the diary consumes.
type Gateway interface {
	GetNutritionPlan(ctx context.Context) (*nutrition.Plan, error)
	GetTodayLogs(ctx context.Context) ([]nutrition.FoodLog, error)
	GetWeightHistory(ctx context.Context, days int) ([]trend.WeightLog, error)
	GetWeightTrend(ctx context.Context, days int) (*trend.WeightTrend, error)
	GetCalorieHistory(ctx context.Context, days int) (*trend.CalorieHistory, error)
	GetDailyReport(ctx context.Context, date string) (*report.DailyReport, error)
	GetInjuryRisk(ctx context.Context) (*report.InjuryRisk, error)
	GetUserProfile(ctx context.Context) (*gateway.Profile, error)
	LogFood(ctx context.Context, req gateway.LogFoodRequest) (*nutrition.FoodLog, error)
	DeleteFoodLog(ctx context.Context, logID string) error
}

// Status tells the renderer how to treat a section.
type Status string

const (
	StatusPending Status = "pending"
	StatusLoaded  Status = "loaded"
	// StatusNoData is the explicit empty state for a failed source;
	// sibling sections render regardless.
	StatusNoData Status = "no_data"
)

// Section wraps one independently-fetched slice of screen data.
type Section[T any] struct {
	Data   *T
	Status Status
}

// ConfirmationError is returned by LogFood when the allergen screener
// flags the food and the caller has not confirmed. The confirmation
// gate is a hard contract: no log without an explicit "add anyway".
type ConfirmationError struct {
	Matches []string
}

func (e *ConfirmationError) Error() string {
	return fmt.Sprintf("allergen confirmation required: %v", e.Matches)
}

// DiaryConfig holds configuration for a diary state.
type DiaryConfig struct {
	Gateway Gateway
	Logger  zerolog.Logger

	// Clock pins "today" for the navigator. Defaults to time.Now.
	Clock history.Clock

	// HistoryDays is the trailing window for trend fetches (default 7).
	HistoryDays int
}

// Diary is the screen-scoped state for the nutrition diary.
type Diary struct {
	gw          Gateway
	logger      zerolog.Logger
	nav         *history.Navigator
	clock       history.Clock
	historyDays int

	mu       sync.Mutex
	closed   bool
	selected time.Time
	tab      Tab
	expanded map[string]bool

	plan     Section[nutrition.Plan]
	summary  Section[nutrition.DailySummary]
	weight   Section[trend.WeightTrend]
	calories Section[trend.CalorieSummary]
	risk     Section[report.InjuryRisk]
	profile  Section[gateway.Profile]
	score    Section[report.Score]
}

// NewDiary builds a fresh diary state selecting today.
func NewDiary(cfg DiaryConfig) *Diary {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	historyDays := cfg.HistoryDays
	if historyDays <= 0 {
		historyDays = 7
	}

	d := &Diary{
		gw:          cfg.Gateway,
		logger:      cfg.Logger,
		nav:         history.NewNavigator(clock),
		clock:       clock,
		historyDays: historyDays,
		selected:    clock(),
		tab:         TabDiary,
		expanded:    map[string]bool{SectionSummary: true},
	}
	d.plan.Status = StatusPending
	d.summary.Status = StatusPending
	d.weight.Status = StatusPending
	d.calories.Status = StatusPending
	d.risk.Status = StatusPending
	d.profile.Status = StatusPending
	d.score.Status = StatusPending
	return d
}

// Load fetches all raw inputs concurrently, then runs the pure
// aggregators over whatever resolved. Sources are independent: a
// failed fetch leaves an explicit no-data state and never blocks its
// siblings. Safe to call again for pull-to-refresh.
func (d *Diary) Load(ctx context.Context) {
	var (
		wg sync.WaitGroup

		plan    *nutrition.Plan
		planErr error

		logs    []nutrition.FoodLog
		logsErr error

		weightHist    []trend.WeightLog
		weightHistErr error

		weightTrend    *trend.WeightTrend
		weightTrendErr error

		calHist    *trend.CalorieHistory
		calHistErr error

		risk    *report.InjuryRisk
		riskErr error

		rep    *report.DailyReport
		repErr error

		profile    *gateway.Profile
		profileErr error
	)

	date := d.SelectedDate()

	fetch := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	fetch(func() { plan, planErr = d.gw.GetNutritionPlan(ctx) })
	fetch(func() { logs, logsErr = d.gw.GetTodayLogs(ctx) })
	fetch(func() { weightHist, weightHistErr = d.gw.GetWeightHistory(ctx, 30) })
	fetch(func() { weightTrend, weightTrendErr = d.gw.GetWeightTrend(ctx, 30) })
	fetch(func() { calHist, calHistErr = d.gw.GetCalorieHistory(ctx, d.historyDays) })
	fetch(func() { risk, riskErr = d.gw.GetInjuryRisk(ctx) })
	fetch(func() { rep, repErr = d.gw.GetDailyReport(ctx, date) })
	fetch(func() { profile, profileErr = d.gw.GetUserProfile(ctx) })

	wg.Wait()

	// Profile: read-only passthrough. Missing allergies fail open in
	// the screener.
	setSection(d, &d.profile, profile, profileErr, "profile")

	// Plan and summary. The summary is derivable even when the plan
	// failed: remaining macros then floor against zero targets.
	setSection(d, &d.plan, plan, planErr, "plan")
	consumed := 0.0
	if logsErr != nil {
		setSection(d, &d.summary, nil, logsErr, "summary")
	} else {
		var activePlan nutrition.Plan
		if plan != nil {
			activePlan = *plan
		}
		summary := nutrition.Summarize(logs, activePlan)
		if summary.Date == "" {
			summary.Date = date
		}
		consumed = summary.Totals.Calories
		setSection(d, &d.summary, &summary, nil, "summary")
	}

	// Weight trend with the insufficient-data guard over the series
	// length actually fetched.
	if weightTrendErr != nil {
		setSection(d, &d.weight, nil, weightTrendErr, "weight")
	} else {
		points := len(weightHist)
		if weightHistErr != nil {
			// History unavailable: trust the server's summary as-is.
			points = 2
		}
		guarded := trend.AnalyzeWeight(*weightTrend, points)
		setSection(d, &d.weight, &guarded, nil, "weight")
	}

	// Calorie trend. A failed fetch degrades to the placeholder series
	// seeded with today's consumed calories, not to an error state.
	var historyIn trend.CalorieHistory
	if calHistErr == nil && calHist != nil {
		historyIn = *calHist
	} else if calHistErr != nil {
		d.logger.Debug().Err(calHistErr).Msg("calorie history unavailable, using placeholder")
	}
	calSummary := trend.SummarizeCalorieHistory(historyIn, consumed, date)
	setSection(d, &d.calories, &calSummary, nil, "calories")

	// Injury risk passthrough.
	setSection(d, &d.risk, risk, riskErr, "risk")

	// Daily score over the report for the selected date.
	if repErr != nil {
		setSection(d, &d.score, nil, repErr, "score")
	} else {
		score := report.ComputeScore(*rep)
		setSection(d, &d.score, &score, nil, "score")
	}
}

// setSection stores a fetch result unless the view has been torn down
// (ignore-if-unmounted guard for stale resolutions).
func setSection[T any](d *Diary, s *Section[T], data *T, err error, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if err != nil || data == nil {
		s.Data = nil
		s.Status = StatusNoData
		if err != nil {
			d.logger.Debug().Err(err).Str("section", name).Msg("section fetch failed")
		}
		return
	}
	s.Data = data
	s.Status = StatusLoaded
}

// LogFood screens the food against the user's declared allergies and
// logs it. When the screener matches and confirmed is false, the call
// is rejected with a ConfirmationError carrying the matches.
func (d *Diary) LogFood(ctx context.Context, food nutrition.Food, servings float64, meal nutrition.MealType, confirmed bool) (*nutrition.FoodLog, error) {
	if servings < nutrition.MinServings {
		return nil, nutrition.ErrInvalidServings
	}

	matches := nutrition.MatchAllergens(food, d.allergies())
	if len(matches) > 0 && !confirmed {
		return nil, &ConfirmationError{Matches: matches}
	}

	return d.gw.LogFood(ctx, gateway.LogFoodRequest{
		FoodID:   food.ID,
		Servings: servings,
		MealType: meal,
		Date:     d.SelectedDate(),
	})
}

// DeleteLog removes a logged entry. Concurrent refreshes resolve
// last-write-wins; the server is the source of truth on next fetch.
func (d *Diary) DeleteLog(ctx context.Context, logID string) error {
	return d.gw.DeleteFoodLog(ctx, logID)
}

// allergies returns the loaded allergy set, empty while the profile is
// absent: the screener fails open, not closed.
func (d *Diary) allergies() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.profile.Data == nil {
		return nil
	}
	return d.profile.Data.FoodAllergies
}

// PageDate shifts the selected date and reloads when it changed. The
// navigator rejects any move past today.
func (d *Diary) PageDate(ctx context.Context, deltaDays int) bool {
	d.mu.Lock()
	next := d.nav.PageDate(d.selected, deltaDays)
	changed := !sameDay(next, d.selected)
	if changed {
		d.selected = next
	}
	d.mu.Unlock()

	if changed {
		d.Load(ctx)
	}
	return changed
}

// SelectDate jumps to a calendar date and reloads. Future dates are
// rejected, mirroring the grid's non-selectable cells.
func (d *Diary) SelectDate(ctx context.Context, date time.Time) bool {
	d.mu.Lock()
	// Day granularity: any time-of-day on today's date is selectable.
	if date.Format(history.DayFormat) > d.clock().Format(history.DayFormat) {
		d.mu.Unlock()
		return false
	}
	changed := !sameDay(date, d.selected)
	if changed {
		d.selected = date
	}
	d.mu.Unlock()

	if changed {
		d.Load(ctx)
	}
	return changed
}

// CanPageForward reports whether the forward control is enabled; false
// exactly when the selected date is today.
func (d *Diary) CanPageForward() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.nav.CanPageForward(d.selected)
}

// CalendarGrid builds the month grid around the selected date.
func (d *Diary) CalendarGrid(month time.Time) []history.DayCell {
	d.mu.Lock()
	selected := d.selected
	d.mu.Unlock()
	return d.nav.CalendarGrid(month, selected)
}

// SelectedDate returns the selected day as YYYY-MM-DD.
func (d *Diary) SelectedDate() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected.Format(history.DayFormat)
}

// SetTab switches the active tab. Purely a render concern: no fetch.
func (d *Diary) SetTab(tab Tab) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tab = tab
}

// ActiveTab returns the current tab.
func (d *Diary) ActiveTab() Tab {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tab
}

// Toggle flips a section's disclosure state and returns the new value.
func (d *Diary) Toggle(sectionID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.expanded[sectionID] = !d.expanded[sectionID]
	return d.expanded[sectionID]
}

// Expanded reports a section's disclosure state.
func (d *Diary) Expanded(sectionID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.expanded[sectionID]
}

// Close tears the view down. Late fetch resolutions are dropped.
func (d *Diary) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

// Section accessors return copies; renderers never share mutable state
// with the loader.

func (d *Diary) Plan() Section[nutrition.Plan]            { d.mu.Lock(); defer d.mu.Unlock(); return d.plan }
func (d *Diary) Summary() Section[nutrition.DailySummary] { d.mu.Lock(); defer d.mu.Unlock(); return d.summary }
func (d *Diary) Weight() Section[trend.WeightTrend]       { d.mu.Lock(); defer d.mu.Unlock(); return d.weight }
func (d *Diary) Calories() Section[trend.CalorieSummary]  { d.mu.Lock(); defer d.mu.Unlock(); return d.calories }
func (d *Diary) Risk() Section[report.InjuryRisk]         { d.mu.Lock(); defer d.mu.Unlock(); return d.risk }
func (d *Diary) Profile() Section[gateway.Profile]        { d.mu.Lock(); defer d.mu.Unlock(); return d.profile }
func (d *Diary) Score() Section[report.Score]             { d.mu.Lock(); defer d.mu.Unlock(); return d.score }

func sameDay(a, b time.Time) bool {
	return a.Format(history.DayFormat) == b.Format(history.DayFormat)
}
