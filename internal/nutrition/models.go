// Package nutrition provides food log aggregation and allergen screening.
package nutrition

import (
	"errors"
)

// Aggregation errors.
var (
	ErrInvalidServings = errors.New("servings must be positive")
)

// MealType identifies which meal a food log belongs to.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// MealTypes lists all meal buckets in display order.
var MealTypes = []MealType{MealBreakfast, MealLunch, MealDinner, MealSnack}

// MinServings is the smallest loggable portion. The UI increments in
// steps of 0.5 with this floor.
const MinServings = 0.5

// Food is immutable reference data for a single food item.
// Macro values are per single serving.
type Food struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category,omitempty"`
	ServingSize string  `json:"servingSize"`
	Calories    float64 `json:"calories"`
	Protein     float64 `json:"protein"`
	Carbs       float64 `json:"carbs"`
	Fat         float64 `json:"fat"`
	Fiber       float64 `json:"fiber,omitempty"`
	Sugar       float64 `json:"sugar,omitempty"`
	Sodium      float64 `json:"sodium,omitempty"`

	// Micros holds any additional micronutrients keyed by name,
	// amounts per single serving.
	Micros map[string]float64 `json:"micronutrients,omitempty"`
}

// FoodLog is a single logged consumption event. Logs are never mutated
// in place; re-logging creates a new entry.
type FoodLog struct {
	ID       string   `json:"id"`
	FoodID   string   `json:"foodId"`
	Food     Food     `json:"food"`
	Servings float64  `json:"servings"`
	MealType MealType `json:"mealType"`
	Date     string   `json:"date"` // YYYY-MM-DD
}

// Macros groups the macronutrient totals for a day or a target.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Plan holds the server-computed nutrition targets. Read-only input to
// the aggregator.
type Plan struct {
	BMR            float64 `json:"bmr"`
	TDEE           float64 `json:"tdee"`
	TargetCalories float64 `json:"targetCalories"`
	Targets        Macros  `json:"macros"`
}

// TargetMacros returns the plan's per-macro targets with the calorie
// target folded in.
func (p Plan) TargetMacros() Macros {
	t := p.Targets
	t.Calories = p.TargetCalories
	return t
}

// DailySummary is the derived per-day view over a set of food logs.
// All four meal buckets are always present, possibly empty.
type DailySummary struct {
	Date      string                 `json:"date"`
	Meals     map[MealType][]FoodLog `json:"meals"`
	Totals    Macros                 `json:"totals"`
	Remaining Macros                 `json:"remaining"`
}

// NutrientProgress reports intake toward a single nutrient target.
type NutrientProgress struct {
	Key     string  `json:"key"`
	Current float64 `json:"current"`
	Target  float64 `json:"target"`
	// Percentage is clamped to [0, 100] and defined as 0 when Target is 0.
	Percentage float64 `json:"percentage"`
	// HasData is false when nothing was observed for this nutrient,
	// except for the always-estimated keys (fiber, sugar, sodium) where
	// zero is still treated as real data.
	HasData bool `json:"hasData"`
}

// Streak mirrors the server-maintained logging streak counters.
// Display-only on the client.
type Streak struct {
	CurrentStreak   int    `json:"currentStreak"`
	LongestStreak   int    `json:"longestStreak"`
	TotalDaysLogged int    `json:"totalDaysLogged"`
	LastLoggedDate  string `json:"lastLoggedDate"`
}
