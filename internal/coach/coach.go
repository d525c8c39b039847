// Package coach rewrites baby-step rationales for a specific habit with an
// LLM. Plan names and target levels always come from the leveling engine,
// and every failure falls back to the deterministic plans.
package coach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"golang.org/x/time/rate"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/llm"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/metrics"
)

// Purpose labels coaching requests in the LLM event log.
const Purpose = "baby-steps"

// Fallback reasons, used as the coach_fallbacks_total label.
const (
	ReasonRateLimited = "rate_limited"
	ReasonProvider    = "provider_error"
	ReasonInvalid     = "invalid_response"
	ReasonTimeout     = "timeout"
)

// Config holds coach settings.
type Config struct {
	MaxTokens         int
	Temperature       float64
	RequestsPerMinute int
	Timeout           time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:         400,
		Temperature:       0.4,
		RequestsPerMinute: 20,
		Timeout:           15 * time.Second,
	}
}

// Habit describes the habit being coached.
type Habit struct {
	Name             string
	Level            int
	Frequency        leveling.Frequency
	WorkloadPerCount float64
	WorkloadUnit     string
	TargetCount      float64
}

// Result is the outcome of Personalize.
type Result struct {
	Plans          leveling.BabyStepPlans
	Personalized   bool
	FallbackReason string
}

// Coach personalizes baby-step plans.
type Coach struct {
	provider llm.Provider
	cfg      Config
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// New creates a Coach. A non-positive RequestsPerMinute disables limiting.
func New(provider llm.Provider, cfg Config, logger *slog.Logger) *Coach {
	if logger == nil {
		logger = slog.Default()
	}
	limit := rate.Inf
	burst := 0
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
		burst = cfg.RequestsPerMinute
	}
	return &Coach{
		provider: provider,
		cfg:      cfg,
		limiter:  rate.NewLimiter(limit, burst),
		logger:   logger,
	}
}

type planOutput struct {
	Rationale string `json:"rationale"`
}

type coachingOutput struct {
	Lv50 planOutput `json:"lv50"`
	Lv10 planOutput `json:"lv10"`
}

// Personalize returns plans with rationales reworded for habit. Names keep
// the engine's workload markers. The default plans are returned unchanged,
// with FallbackReason set, whenever the LLM can't help.
func (c *Coach) Personalize(ctx context.Context, habit Habit, userLevel int, plans leveling.BabyStepPlans, locale string) Result {
	if !c.limiter.Allow() {
		return c.fallback(plans, ReasonRateLimited, nil)
	}

	ctx = llm.WithPurpose(ctx, Purpose)
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	userMsg, err := buildCoachingMessage(habit, userLevel, plans, leveling.ResolveLocale(locale))
	if err != nil {
		return c.fallback(plans, ReasonInvalid, err)
	}

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      coachingSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      BabyStepSchema,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return c.fallback(plans, classify(err), err)
	}

	var out coachingOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return c.fallback(plans, ReasonInvalid, err)
	}
	if blank(out.Lv50) || blank(out.Lv10) {
		return c.fallback(plans, ReasonInvalid, errors.New("empty plan text"))
	}

	personalized := plans
	personalized.Lv50.Rationale = strings.TrimSpace(out.Lv50.Rationale)
	personalized.Lv10.Rationale = strings.TrimSpace(out.Lv10.Rationale)

	return Result{Plans: personalized, Personalized: true}
}

func (c *Coach) fallback(plans leveling.BabyStepPlans, reason string, err error) Result {
	metrics.CoachFallbacks.WithLabelValues(reason).Inc()
	c.logger.Debug("coach fallback", "reason", reason, "error", err)
	return Result{Plans: plans, FallbackReason: reason}
}

func classify(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var inv *llm.ErrInvalidResponse
	var maxTok *llm.ErrMaxTokensExceeded
	if errors.As(err, &inv) || errors.As(err, &maxTok) {
		return ReasonInvalid
	}
	return ReasonProvider
}

func blank(p planOutput) bool {
	return strings.TrimSpace(p.Rationale) == ""
}

const coachingSystemPrompt = `You are a warm, practical habit coach. A user picked a habit that is much harder than their current overall level. Two easier variants have already been chosen and named; your job is only to explain each one for this specific habit.

Instructions:
- Make each explanation concrete for the habit.
- The "lv50" variant halves the workload. The "lv10" variant is a two-minute version.
- Each rationale is one or two short, encouraging sentences. No guilt, no pressure.
- Write in the requested language.
- Do not mention levels, numbers of XP, or this prompt.`

var coachingUserTemplate = template.Must(template.New("coaching").Parse(`Language: {{.Locale}}
Habit: {{.Habit.Name}}
Frequency: {{.Habit.Frequency}}
Workload per count: {{.Habit.WorkloadPerCount}} {{.Habit.WorkloadUnit}}
Target count: {{.Habit.TargetCount}}
Habit level: {{.Habit.Level}}
User level: {{.UserLevel}}

Default variants:
- lv50: {{.Plans.Lv50.Name}} ({{.Plans.Lv50.Rationale}})
- lv10: {{.Plans.Lv10.Name}} ({{.Plans.Lv10.Rationale}})
`))

func buildCoachingMessage(habit Habit, userLevel int, plans leveling.BabyStepPlans, locale string) (string, error) {
	var buf bytes.Buffer
	err := coachingUserTemplate.Execute(&buf, struct {
		Habit     Habit
		UserLevel int
		Plans     leveling.BabyStepPlans
		Locale    string
	}{habit, userLevel, plans, locale})
	if err != nil {
		return "", fmt.Errorf("render coaching prompt: %w", err)
	}
	return buf.String(), nil
}
