package nutrition

import (
	"math"
)

// alwaysEstimated are nutrient keys where a zero observation still counts
// as real data; food databases report them for nearly every item.
var alwaysEstimated = map[string]bool{
	"fiber":  true,
	"sugar":  true,
	"sodium": true,
}

// Summarize merges one day's food logs into per-meal buckets, daily
// totals, and remaining macros against the plan targets. Insertion order
// is preserved within each bucket and the input slice is never mutated.
func Summarize(logs []FoodLog, plan Plan) DailySummary {
	summary := DailySummary{
		Meals: make(map[MealType][]FoodLog, len(MealTypes)),
	}
	for _, meal := range MealTypes {
		summary.Meals[meal] = []FoodLog{}
	}

	for _, log := range logs {
		if summary.Date == "" {
			summary.Date = log.Date
		}
		meal := log.MealType
		if _, ok := summary.Meals[meal]; !ok {
			// Unknown meal types bucket as snacks rather than dropping
			// the entry.
			meal = MealSnack
		}
		summary.Meals[meal] = append(summary.Meals[meal], log)

		servings := effectiveServings(log.Servings)
		summary.Totals.Calories += log.Food.Calories * servings
		summary.Totals.Protein += log.Food.Protein * servings
		summary.Totals.Carbs += log.Food.Carbs * servings
		summary.Totals.Fat += log.Food.Fat * servings
	}

	targets := plan.TargetMacros()
	summary.Remaining = Macros{
		Calories: remaining(targets.Calories, summary.Totals.Calories),
		Protein:  remaining(targets.Protein, summary.Totals.Protein),
		Carbs:    remaining(targets.Carbs, summary.Totals.Carbs),
		Fat:      remaining(targets.Fat, summary.Totals.Fat),
	}

	return summary
}

// MealCalories returns the calorie subtotal for a single meal bucket.
func MealCalories(bucket []FoodLog) float64 {
	var total float64
	for _, log := range bucket {
		total += log.Food.Calories * effectiveServings(log.Servings)
	}
	return total
}

// Progress computes intake toward a nutrient target across one day's
// logs. The key resolves against first-class Food fields, falling back
// to the open micronutrient map.
func Progress(logs []FoodLog, key string, target float64) NutrientProgress {
	var current float64
	for _, log := range logs {
		current += nutrientAmount(log.Food, key) * effectiveServings(log.Servings)
	}

	progress := NutrientProgress{
		Key:     key,
		Current: current,
		Target:  target,
		HasData: current > 0 || alwaysEstimated[key],
	}
	if target > 0 {
		progress.Percentage = math.Min(100, current/target*100)
	}
	return progress
}

// nutrientAmount resolves a nutrient key against a food record.
// Missing values default to 0.
func nutrientAmount(food Food, key string) float64 {
	switch key {
	case "calories":
		return food.Calories
	case "protein":
		return food.Protein
	case "carbs":
		return food.Carbs
	case "fat":
		return food.Fat
	case "fiber":
		return food.Fiber
	case "sugar":
		return food.Sugar
	case "sodium":
		return food.Sodium
	default:
		return food.Micros[key]
	}
}

// effectiveServings clamps non-positive servings to zero so a malformed
// log cannot subtract from daily totals.
func effectiveServings(servings float64) float64 {
	if servings <= 0 {
		return 0
	}
	return servings
}

// remaining floors target minus consumed at zero.
func remaining(target, consumed float64) float64 {
	return math.Max(0, target-consumed)
}
