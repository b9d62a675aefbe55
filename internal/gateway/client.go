package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/fitpulse/fitpulse/internal/gateway/transport"
	"github.com/fitpulse/fitpulse/internal/nutrition"
	"github.com/fitpulse/fitpulse/internal/report"
	"github.com/fitpulse/fitpulse/internal/session"
	"github.com/fitpulse/fitpulse/internal/telemetry"
	"github.com/fitpulse/fitpulse/internal/trend"
)

// HTTPDoer abstracts HTTP request execution for injection in tests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the API client.
type ClientConfig struct {
	// BaseURL is the backend base URL (required).
	BaseURL string

	// Session supplies the bearer token; cleared on HTTP 401.
	Session *session.Store

	// HTTPClient overrides the transport. Defaults to the resilient
	// transport with breaker and retries.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration

	// Logger for request diagnostics.
	Logger zerolog.Logger

	// Tracer for per-operation spans. Defaults to the global tracer.
	Tracer trace.Tracer

	// Instruments are optional gateway metrics.
	Instruments *telemetry.Instruments
}

// Client is the fitness backend API client.
type Client struct {
	baseURL     string
	session     *session.Store
	httpClient  HTTPDoer
	logger      zerolog.Logger
	tracer      trace.Tracer
	instruments *telemetry.Instruments
}

// NewClient creates an API client with zero-value defaulting.
func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = transport.New(transport.Config{
			Name:    "fitness-api",
			Timeout: timeout,
		})
	}

	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("gateway")
	}

	sess := cfg.Session
	if sess == nil {
		sess = session.NewStore("")
	}

	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		session:     sess,
		httpClient:  httpClient,
		logger:      cfg.Logger,
		tracer:      tracer,
		instruments: cfg.Instruments,
	}
}

// GetNutritionPlan fetches the active server-computed targets.
func (c *Client) GetNutritionPlan(ctx context.Context) (*nutrition.Plan, error) {
	var plan nutrition.Plan
	if err := c.do(ctx, "get_nutrition_plan", http.MethodGet, "/nutrition/plan", nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CalculateNutrition asks the backend to recompute BMR/TDEE targets.
func (c *Client) CalculateNutrition(ctx context.Context) (*nutrition.Plan, error) {
	var plan nutrition.Plan
	if err := c.do(ctx, "calculate_nutrition", http.MethodPost, "/nutrition/calculate", nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// SearchFood searches the food database. Callers debounce keystrokes
// before reaching here.
func (c *Client) SearchFood(ctx context.Context, query string) ([]nutrition.Food, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	var foods []nutrition.Food
	path := "/foods/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, "search_food", http.MethodGet, path, nil, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// LogFood records a consumption event. Servings below the 0.5 floor are
// rejected before the request is issued.
func (c *Client) LogFood(ctx context.Context, req LogFoodRequest) (*nutrition.FoodLog, error) {
	if req.Servings < nutrition.MinServings {
		return nil, nutrition.ErrInvalidServings
	}
	var log nutrition.FoodLog
	if err := c.do(ctx, "log_food", http.MethodPost, "/nutrition/logs", req, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// DeleteFoodLog removes a logged entry.
func (c *Client) DeleteFoodLog(ctx context.Context, logID string) error {
	path := "/nutrition/logs/" + url.PathEscape(logID)
	return c.do(ctx, "delete_food_log", http.MethodDelete, path, nil, nil)
}

// GetTodayLogs fetches today's raw food logs. Bucketing and totals are
// derived client-side by nutrition.Summarize.
func (c *Client) GetTodayLogs(ctx context.Context) ([]nutrition.FoodLog, error) {
	var logs []nutrition.FoodLog
	if err := c.do(ctx, "get_today_logs", http.MethodGet, "/nutrition/logs/today", nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// LogWeight appends a weight entry. Non-positive weights are rejected
// client-side as a no-op.
func (c *Client) LogWeight(ctx context.Context, weightKg float64, note string) (*trend.WeightLog, error) {
	if weightKg <= 0 {
		return nil, ErrInvalidWeight
	}
	body := map[string]any{"weight": weightKg}
	if note != "" {
		body["note"] = note
	}
	var log trend.WeightLog
	if err := c.do(ctx, "log_weight", http.MethodPost, "/weight/logs", body, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// GetWeightHistory fetches the weight series for the trailing window.
func (c *Client) GetWeightHistory(ctx context.Context, days int) ([]trend.WeightLog, error) {
	var logs []trend.WeightLog
	path := "/weight/logs?days=" + strconv.Itoa(days)
	if err := c.do(ctx, "get_weight_history", http.MethodGet, path, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// GetWeightTrend fetches the server-derived weight trend summary.
func (c *Client) GetWeightTrend(ctx context.Context, days int) (*trend.WeightTrend, error) {
	var t trend.WeightTrend
	path := "/weight/trend?days=" + strconv.Itoa(days)
	if err := c.do(ctx, "get_weight_trend", http.MethodGet, path, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetCalorieHistory fetches calorie history plus backend stats.
func (c *Client) GetCalorieHistory(ctx context.Context, days int) (*trend.CalorieHistory, error) {
	var h trend.CalorieHistory
	path := "/nutrition/history?days=" + strconv.Itoa(days)
	if err := c.do(ctx, "get_calorie_history", http.MethodGet, path, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// GetDailyReport fetches the composite report for one calendar date
// (YYYY-MM-DD).
func (c *Client) GetDailyReport(ctx context.Context, date string) (*report.DailyReport, error) {
	var r report.DailyReport
	path := "/reports/daily?date=" + url.QueryEscape(date)
	if err := c.do(ctx, "get_daily_report", http.MethodGet, path, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetInjuryRisk fetches the current injury risk assessment.
func (c *Client) GetInjuryRisk(ctx context.Context) (*report.InjuryRisk, error) {
	var risk report.InjuryRisk
	if err := c.do(ctx, "get_injury_risk", http.MethodGet, "/injury-risk", nil, &risk); err != nil {
		return nil, err
	}
	return &risk, nil
}

// GetUserProfile fetches the user profile, including declared food
// allergies and the logging streak.
func (c *Client) GetUserProfile(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, "get_user_profile", http.MethodGet, "/users/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetConversations fetches the coach conversation list.
func (c *Client) GetConversations(ctx context.Context) ([]Conversation, error) {
	var conversations []Conversation
	if err := c.do(ctx, "get_conversations", http.MethodGet, "/conversations", nil, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// GetMessages fetches the messages of one conversation.
func (c *Client) GetMessages(ctx context.Context, conversationID string) ([]Message, error) {
	var messages []Message
	path := "/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.do(ctx, "get_messages", http.MethodGet, path, nil, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// do executes one API operation: span, request ID, bearer header, JSON
// round trip, error envelope decoding, and the 401 session-clear
// contract.
func (c *Client) do(ctx context.Context, operation, method, path string, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "gateway."+operation)
	defer span.End()

	start := time.Now()
	err := c.roundTrip(ctx, method, path, body, out)
	c.record(ctx, operation, time.Since(start), err)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, err := c.session.Token(); err == nil {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Collaborator contract: a 401 invalidates the local session.
		c.session.Clear()
		c.logger.Warn().Str("path", path).Msg("session cleared after 401")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp.StatusCode, resp.Body)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// decodeError reads the backend error envelope, falling back to a bare
// status error when the body is not the expected shape.
func (c *Client) decodeError(statusCode int, body io.Reader) error {
	var envelope errorEnvelope
	if err := json.NewDecoder(body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		apiErr := envelope.Error
		apiErr.StatusCode = statusCode
		return &apiErr
	}
	return &APIError{StatusCode: statusCode}
}

func (c *Client) record(ctx context.Context, operation string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		c.logger.Debug().Err(err).Str("operation", operation).Msg("gateway call failed")
	}
	if c.instruments == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	)
	c.instruments.Requests.Add(ctx, 1, attrs)
	c.instruments.Latency.Record(ctx, float64(elapsed.Milliseconds()), attrs)
}
