package gateway_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitpulse/fitpulse/internal/gateway"
	"github.com/fitpulse/fitpulse/internal/gateway/gatewaytest"
	"github.com/fitpulse/fitpulse/internal/nutrition"
	"github.com/fitpulse/fitpulse/internal/report"
	"github.com/fitpulse/fitpulse/internal/session"
	"github.com/fitpulse/fitpulse/internal/trend"
)

func newClient(t *testing.T, server *gatewaytest.Server, token string) (*gateway.Client, *session.Store) {
	t.Helper()
	store := session.NewStore(token)
	client := gateway.NewClient(gateway.ClientConfig{
		BaseURL:    server.URL,
		Session:    store,
		HTTPClient: server.Client(),
		Logger:     zerolog.Nop(),
	})
	return client, store
}

func TestClient_GetNutritionPlan(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()
	server.Plan = nutrition.Plan{
		BMR:            1650,
		TDEE:           2400,
		TargetCalories: 2000,
		Targets:        nutrition.Macros{Protein: 150, Carbs: 220, Fat: 65},
	}

	client, _ := newClient(t, server, "tok")

	plan, err := client.GetNutritionPlan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2000.0, plan.TargetCalories)
	assert.Equal(t, 150.0, plan.Targets.Protein)
}

func TestClient_SearchFood(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()
	server.Foods = []nutrition.Food{
		{ID: "food_1", Name: "Greek Yogurt", Calories: 120},
	}

	client, _ := newClient(t, server, "tok")

	foods, err := client.SearchFood(context.Background(), "yogurt")
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "Greek Yogurt", foods[0].Name)
}

func TestClient_SearchFood_EmptyQueryRejectedLocally(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()

	client, _ := newClient(t, server, "tok")

	_, err := client.SearchFood(context.Background(), "   ")
	assert.ErrorIs(t, err, gateway.ErrEmptyQuery)
}

func TestClient_LogFoodAndFetchToday(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()
	server.Foods = []nutrition.Food{
		{ID: "food_1", Name: "Oatmeal", Calories: 300, Protein: 20},
	}

	client, _ := newClient(t, server, "tok")
	ctx := context.Background()

	logged, err := client.LogFood(ctx, gateway.LogFoodRequest{
		FoodID:   "food_1",
		Servings: 1.5,
		MealType: nutrition.MealBreakfast,
		Date:     "2026-08-27",
	})
	require.NoError(t, err)
	assert.Equal(t, 1.5, logged.Servings)
	assert.Equal(t, "Oatmeal", logged.Food.Name)

	logs, err := client.GetTodayLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, logged.ID, logs[0].ID)
}

func TestClient_LogFood_ServingsFloor(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()

	client, _ := newClient(t, server, "tok")

	_, err := client.LogFood(context.Background(), gateway.LogFoodRequest{
		FoodID:   "food_1",
		Servings: 0.25,
		MealType: nutrition.MealSnack,
	})
	assert.ErrorIs(t, err, nutrition.ErrInvalidServings)
}

func TestClient_DeleteFoodLog(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()
	server.TodayLogs = []nutrition.FoodLog{{ID: "log_1"}}

	client, _ := newClient(t, server, "tok")
	ctx := context.Background()

	require.NoError(t, client.DeleteFoodLog(ctx, "log_1"))

	err := client.DeleteFoodLog(ctx, "log_1")
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestClient_LogWeight_RejectsNonPositive(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()

	client, _ := newClient(t, server, "tok")

	_, err := client.LogWeight(context.Background(), 0, "")
	assert.ErrorIs(t, err, gateway.ErrInvalidWeight)

	_, err = client.LogWeight(context.Background(), -70, "")
	assert.ErrorIs(t, err, gateway.ErrInvalidWeight)
}

func TestClient_LogWeight(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()

	client, _ := newClient(t, server, "tok")

	log, err := client.LogWeight(context.Background(), 82.4, "morning")
	require.NoError(t, err)
	assert.Equal(t, 82.4, log.Weight)
	assert.Equal(t, "morning", log.Note)
}

func TestClient_GetWeightTrend(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()
	current := 82.4
	server.WeightTrend = trend.WeightTrend{Current: &current, Trend: trend.TrendDown}

	client, _ := newClient(t, server, "tok")

	got, err := client.GetWeightTrend(context.Background(), 30)
	require.NoError(t, err)
	require.NotNil(t, got.Current)
	assert.Equal(t, 82.4, *got.Current)
	assert.Equal(t, trend.TrendDown, got.Trend)
}

func TestClient_GetDailyReport(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()
	server.DailyReports["2026-08-26"] = report.DailyReport{
		Date:      "2026-08-26",
		Nutrition: report.NutritionSection{Adherence: 90},
		Activity:  report.ActivitySection{Steps: 12000},
	}

	client, _ := newClient(t, server, "tok")

	rep, err := client.GetDailyReport(context.Background(), "2026-08-26")
	require.NoError(t, err)
	assert.Equal(t, 12000, rep.Activity.Steps)

	_, err = client.GetDailyReport(context.Background(), "2026-01-01")
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()
	server.RequireToken = "good-token"

	client, store := newClient(t, server, "stale-token")

	_, err := client.GetUserProfile(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, gateway.ErrUnauthorized))

	// The 401 must clear the local session token.
	_, err = store.Token()
	assert.ErrorIs(t, err, session.ErrNoToken)
}

func TestClient_GetUserProfile(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()
	server.Profile = gateway.Profile{
		ID:            "usr_1",
		Name:          "Sam",
		FoodAllergies: []string{"dairy", "peanuts"},
		Streak:        nutrition.Streak{CurrentStreak: 4, LongestStreak: 11},
	}

	client, _ := newClient(t, server, "tok")

	profile, err := client.GetUserProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"dairy", "peanuts"}, profile.FoodAllergies)
	assert.Equal(t, 4, profile.Streak.CurrentStreak)
}

func TestClient_GetConversationsAndMessages(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()
	server.Conversations = []gateway.Conversation{{ID: "conv_1", CoachName: "Alex"}}
	server.Messages["conv_1"] = []gateway.Message{{ID: "msg_1", Body: "Nice session today"}}

	client, _ := newClient(t, server, "tok")
	ctx := context.Background()

	conversations, err := client.GetConversations(ctx)
	require.NoError(t, err)
	require.Len(t, conversations, 1)

	messages, err := client.GetMessages(ctx, "conv_1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Nice session today", messages[0].Body)
}

func TestClient_ServerErrorSurfacesAPIError(t *testing.T) {
	server := gatewaytest.New()
	defer server.Close()
	server.Fail("GET", "/injury-risk", 500)

	client, _ := newClient(t, server, "tok")

	_, err := client.GetInjuryRisk(context.Background())
	var apiErr *gateway.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "forced_failure", apiErr.Code)
}
