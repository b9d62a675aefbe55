package main

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fitpulse/fitpulse/internal/history"
	"github.com/fitpulse/fitpulse/internal/nutrition"
	"github.com/fitpulse/fitpulse/internal/report"
	"github.com/fitpulse/fitpulse/internal/trend"
	"github.com/fitpulse/fitpulse/internal/view"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's diary: meals, totals, and remaining macros",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		plan, err := rt.client.GetNutritionPlan(ctx)
		if err != nil {
			rt.logger.Debug().Err(err).Msg("plan unavailable, showing totals only")
			plan = &nutrition.Plan{}
		}
		logs, err := rt.client.GetTodayLogs(ctx)
		if err != nil {
			return err
		}

		summary := nutrition.Summarize(logs, *plan)
		for _, meal := range nutrition.MealTypes {
			bucket := summary.Meals[meal]
			fmt.Fprintf(out, "%-10s %7.0f kcal  (%d items)\n", meal, nutrition.MealCalories(bucket), len(bucket))
			for _, log := range bucket {
				fmt.Fprintf(out, "  %s x%.1f\n", log.Food.Name, log.Servings)
			}
		}
		fmt.Fprintf(out, "\nconsumed  %7.0f kcal  %5.0fg protein  %5.0fg carbs  %5.0fg fat\n",
			summary.Totals.Calories, summary.Totals.Protein, summary.Totals.Carbs, summary.Totals.Fat)
		fmt.Fprintf(out, "remaining %7.0f kcal  %5.0fg protein  %5.0fg carbs  %5.0fg fat\n",
			summary.Remaining.Calories, summary.Remaining.Protein, summary.Remaining.Carbs, summary.Remaining.Fat)
		return nil
	},
}

var scoreDate string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show the daily score with its per-dimension breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		date := scoreDate
		if date == "" {
			date = time.Now().Format(history.DayFormat)
		}

		rep, err := rt.client.GetDailyReport(cmd.Context(), date)
		if err != nil {
			return err
		}
		score := report.ComputeScore(*rep)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s  %d/100  %s (%s)\n", date, score.Value, score.Label, report.ScoreBand(score.Value))
		fmt.Fprintf(out, "  nutrition %3.0f  activity %3.0f  training %3.0f  recovery %3.0f\n",
			score.Breakdown.Nutrition, score.Breakdown.Activity, score.Breakdown.Training, score.Breakdown.Recovery)
		fmt.Fprintf(out, "  %s\n", report.RiskGuidance(rep.InjuryRisk))
		return nil
	},
}

var trendsDays int

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show calorie and weight trends",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		today := time.Now().Format(history.DayFormat)

		consumed := 0.0
		if logs, err := rt.client.GetTodayLogs(ctx); err == nil {
			consumed = nutrition.Summarize(logs, nutrition.Plan{}).Totals.Calories
		}

		var calHistory trend.CalorieHistory
		if h, err := rt.client.GetCalorieHistory(ctx, trendsDays); err == nil {
			calHistory = *h
		} else {
			rt.logger.Debug().Err(err).Msg("calorie history unavailable")
		}
		calories := trend.SummarizeCalorieHistory(calHistory, consumed, today)

		fmt.Fprintln(out, "calories:")
		for _, slot := range calories.Series {
			marker := ""
			if slot.Muted {
				marker = " (no data)"
			}
			fmt.Fprintf(out, "  %s  %6.0f%s\n", slot.Date, slot.Calories, marker)
		}
		if calories.Placeholder {
			fmt.Fprintln(out, "  keep logging to build your history")
		} else {
			fmt.Fprintf(out, "  avg %.0f kcal over %d days, %.0f%% adherence\n",
				calories.Average, calories.DaysTracked, calories.AdherencePercent)
		}

		weightTrend, err := rt.client.GetWeightTrend(ctx, 30)
		if err != nil {
			return err
		}
		weightLogs, err := rt.client.GetWeightHistory(ctx, 30)
		if err != nil {
			return err
		}
		weight := trend.AnalyzeWeight(*weightTrend, len(weightLogs))

		fmt.Fprintln(out, "weight:")
		if weight.Trend == trend.TrendInsufficientData {
			fmt.Fprintln(out, "  log at least two weights to see a trend")
			return nil
		}
		fmt.Fprintf(out, "  current %.1f kg, 7-day avg %.1f kg, trend %s\n",
			deref(weight.Current), deref(weight.SevenDayAvg), weight.Trend)
		return nil
	},
}

var weightCmd = &cobra.Command{
	Use:   "weight",
	Short: "Log and review body weight",
}

var weightNote string

var weightLogCmd = &cobra.Command{
	Use:   "log <kg>",
	Short: "Log a weight entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kg, err := parseWeight(args[0])
		if err != nil {
			return err
		}
		entry, err := rt.client.LogWeight(cmd.Context(), kg, weightNote)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged %.1f kg on %s\n", entry.Weight, entry.Date)
		return nil
	},
}

var weightHistoryDays int

var weightHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent weight entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		logs, err := rt.client.GetWeightHistory(cmd.Context(), weightHistoryDays)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, log := range logs {
			fmt.Fprintf(out, "%s  %6.1f kg  %s\n", log.Date, log.Weight, log.Note)
		}
		return nil
	},
}

var foodCmd = &cobra.Command{
	Use:   "food",
	Short: "Search the food database and log what you ate",
}

var foodSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search foods by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		foods, err := rt.client.SearchFood(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(foods) == 0 {
			fmt.Fprintln(out, "no matches")
			return nil
		}
		for _, f := range foods {
			fmt.Fprintf(out, "%-20s %-30s %6.0f kcal / %s\n", f.ID, f.Name, f.Calories, f.ServingSize)
		}
		return nil
	},
}

var (
	foodServings float64
	foodMeal     string
	foodYes      bool
)

var foodLogCmd = &cobra.Command{
	Use:   "log <query>",
	Short: "Log the best-matching food, with allergen screening",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		query := strings.Join(args, " ")

		foods, err := rt.client.SearchFood(ctx, query)
		if err != nil {
			return err
		}
		if len(foods) == 0 {
			return fmt.Errorf("no food matches %q", query)
		}
		food := foods[0]

		diary := view.NewDiary(view.DiaryConfig{Gateway: rt.client, Logger: rt.logger})
		defer diary.Close()
		diary.Load(ctx)

		logged, err := diary.LogFood(ctx, food, foodServings, nutrition.MealType(foodMeal), foodYes)
		var confirm *view.ConfirmationError
		if errors.As(err, &confirm) {
			if !promptYes(cmd, fmt.Sprintf("%s may contain %s. Add anyway?", food.Name, strings.Join(confirm.Matches, ", "))) {
				fmt.Fprintln(cmd.OutOrStdout(), "not logged")
				return nil
			}
			logged, err = diary.LogFood(ctx, food, foodServings, nutrition.MealType(foodMeal), true)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "logged %s x%.1f (%s)\n", food.Name, logged.Servings, logged.MealType)
		return nil
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show profile, allergies, and logging streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := rt.client.GetUserProfile(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", profile.Name)
		if len(profile.FoodAllergies) > 0 {
			fmt.Fprintf(out, "allergies: %s\n", strings.Join(profile.FoodAllergies, ", "))
		}
		fmt.Fprintf(out, "streak: %d days (best %d, %d total logged)\n",
			profile.Streak.CurrentStreak, profile.Streak.LongestStreak, profile.Streak.TotalDaysLogged)
		return nil
	},
}

// parseWeight parses a weight argument in kg, rejecting anything that
// is not a bare finite number.
func parseWeight(arg string) (float64, error) {
	kg, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil || math.IsNaN(kg) || math.IsInf(kg, 0) {
		return 0, fmt.Errorf("invalid weight %q", arg)
	}
	return kg, nil
}

// promptYes asks a y/n question on the command's streams.
func promptYes(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func init() {
	scoreCmd.Flags().StringVar(&scoreDate, "date", "", "Date to score (YYYY-MM-DD, default today)")
	trendsCmd.Flags().IntVar(&trendsDays, "days", 7, "Trailing window for calorie history")
	weightLogCmd.Flags().StringVar(&weightNote, "note", "", "Optional note")
	weightHistoryCmd.Flags().IntVar(&weightHistoryDays, "days", 30, "Trailing window")
	foodLogCmd.Flags().Float64Var(&foodServings, "servings", 1, "Servings in 0.5 steps")
	foodLogCmd.Flags().StringVar(&foodMeal, "meal", string(nutrition.MealSnack), "Meal bucket (breakfast|lunch|dinner|snack)")
	foodLogCmd.Flags().BoolVarP(&foodYes, "yes", "y", false, "Skip the allergen confirmation prompt")

	weightCmd.AddCommand(weightLogCmd, weightHistoryCmd)
	foodCmd.AddCommand(foodSearchCmd, foodLogCmd)
	rootCmd.AddCommand(todayCmd, scoreCmd, trendsCmd, weightCmd, foodCmd, profileCmd)
}
