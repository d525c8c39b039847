// Package habits applies the leveling engine to stored users and habits:
// XP awards, level suggestions, mismatch checks, baby steps, consistency
// checks, and the scheduled mismatch scan.
package habits

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/coach"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/metrics"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
)

// Store is the persistence the service needs. *store.Store satisfies it.
type Store interface {
	Repos() store.Repos
	RunInTx(ctx context.Context, fn func(store.Repos) error) error
}

// Personalizer rewrites baby-step plans for a habit. *coach.Coach satisfies it.
type Personalizer interface {
	Personalize(ctx context.Context, habit coach.Habit, userLevel int, plans leveling.BabyStepPlans, locale string) coach.Result
}

// Config holds service settings.
type Config struct {
	BaseXP        int
	DefaultLocale string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{BaseXP: 10, DefaultLocale: leveling.DefaultLocale}
}

// Level change reasons.
const (
	ReasonCreated    = "created"
	ReasonSuggested  = "suggested"
	ReasonBabyStep   = "baby_step"
	ReasonReassessed = "reassessed"
)

// Service is the application layer over the leveling engine.
type Service struct {
	store  Store
	coach  Personalizer
	cfg    Config
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCoach enables LLM personalization of baby-step plans.
func WithCoach(p Personalizer) Option {
	return func(s *Service) { s.coach = p }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a Service.
func NewService(st Store, cfg Config, opts ...Option) *Service {
	if cfg.BaseXP <= 0 {
		cfg.BaseXP = DefaultConfig().BaseXP
	}
	cfg.DefaultLocale = leveling.ResolveLocale(cfg.DefaultLocale)
	s := &Service{store: st, cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ─── Users ──────────────────────────────────────────────────────────────────

// CreateUser stores a new user at the given overall level.
func (s *Service) CreateUser(ctx context.Context, name string, level int, locale string) (*store.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: user name is required", ErrInvalidInput)
	}
	if err := leveling.ValidateLevel(level); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	u := &store.User{
		ID:           uuid.NewString(),
		Name:         name,
		OverallLevel: level,
		Locale:       s.locale(locale),
	}
	if err := s.store.Repos().Users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user created", "user_id", u.ID, "level", level)
	return u, nil
}

// GetUser returns a user or ErrUserNotFound.
func (s *Service) GetUser(ctx context.Context, id string) (*store.User, error) {
	return getUser(ctx, s.store.Repos(), id)
}

// ListUsers returns all users.
func (s *Service) ListUsers(ctx context.Context) ([]store.User, error) {
	return s.store.Repos().Users.List(ctx)
}

// SetUserLevel changes a user's overall level.
func (s *Service) SetUserLevel(ctx context.Context, id string, level int) error {
	if err := leveling.ValidateLevel(level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	ok, err := s.store.Repos().Users.SetLevel(ctx, id, level)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	s.logger.Info("user level set", "user_id", id, "level", level)
	return nil
}

// ─── Habits ─────────────────────────────────────────────────────────────────

// NewHabit is the input to CreateHabit. A nil Level asks the service to
// suggest one from the frequency and workload. WorkloadPerCount is measured
// in WorkloadUnit; only a minutes unit (or none) counts as a duration when
// suggesting.
type NewHabit struct {
	UserID           string
	Name             string
	Level            *int
	Frequency        leveling.Frequency
	WorkloadPerCount float64
	WorkloadUnit     string
	TargetCount      float64
	Locale           string
}

// CreateResult reports the stored habit and, when it is too hard for the
// user, the baby-step alternatives.
type CreateResult struct {
	Habit          *store.Habit                 `json:"habit"`
	LevelSuggested bool                         `json:"level_suggested"`
	Mismatch       leveling.LevelMismatchResult `json:"mismatch"`
	Plans          *leveling.BabyStepPlans      `json:"plans,omitempty"`
	Personalized   bool                         `json:"personalized"`
}

// CreateHabit validates and stores a habit, then checks it against the
// user's level. A mismatch found here counts as acknowledged, since the
// user is shown the plans right away.
func (s *Service) CreateHabit(ctx context.Context, in NewHabit) (*CreateResult, error) {
	if err := validateNewHabit(&in); err != nil {
		return nil, err
	}

	repos := s.store.Repos()
	user, err := getUser(ctx, repos, in.UserID)
	if err != nil {
		return nil, err
	}

	res := &CreateResult{}
	level := 0
	reason := ReasonCreated
	if in.Level != nil {
		level = *in.Level
	} else {
		level = SuggestLevel(in.Frequency, durationMinutes(in.WorkloadPerCount, in.WorkloadUnit), &in.TargetCount)
		res.LevelSuggested = true
		reason = ReasonSuggested
	}

	h := &store.Habit{
		ID:               uuid.NewString(),
		UserID:           user.ID,
		Name:             in.Name,
		Level:            &level,
		Frequency:        string(in.Frequency),
		WorkloadPerCount: in.WorkloadPerCount,
		WorkloadUnit:     in.WorkloadUnit,
		TargetCount:      in.TargetCount,
	}

	res.Mismatch = leveling.DetectLevelMismatch(user.OverallLevel, level)
	if res.Mismatch.IsMismatch {
		ack := true
		gap := res.Mismatch.LevelGap
		h.MismatchAcknowledged = &ack
		h.OriginalLevelGap = &gap
	}

	err = s.store.RunInTx(ctx, func(r store.Repos) error {
		if err := r.Habits.Create(ctx, h); err != nil {
			return err
		}
		return r.Events.AppendLevelChange(ctx, store.LevelChangeData{HabitID: h.ID, ToLevel: level, Reason: reason})
	})
	if err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	res.Habit = h

	if res.Mismatch.IsMismatch {
		locale := s.locale(in.Locale, user.Locale)
		plans, personalized := s.babySteps(ctx, h, user.OverallLevel, locale)
		res.Plans = &plans
		res.Personalized = personalized
	}

	s.logger.Info("habit created",
		"habit_id", h.ID,
		"user_id", user.ID,
		"level", level,
		"suggested", res.LevelSuggested,
		"mismatch", res.Mismatch.IsMismatch,
	)
	return res, nil
}

func validateNewHabit(in *NewHabit) error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: habit name is required", ErrInvalidInput)
	}
	if in.Frequency == "" {
		in.Frequency = leveling.FrequencyDaily
	}
	if !in.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidInput, in.Frequency)
	}
	if in.Level != nil {
		if err := leveling.ValidateLevel(*in.Level); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if !finiteNonNegative(in.WorkloadPerCount) || !finiteNonNegative(in.TargetCount) {
		return fmt.Errorf("%w: workload and target count must be non-negative numbers", ErrInvalidInput)
	}
	if in.TargetCount == 0 {
		in.TargetCount = 1
	}
	return nil
}

// GetHabit returns a habit or ErrHabitNotFound.
func (s *Service) GetHabit(ctx context.Context, id string) (*store.Habit, error) {
	return getHabit(ctx, s.store.Repos(), id)
}

// ListHabits returns a user's habits.
func (s *Service) ListHabits(ctx context.Context, userID string) ([]store.Habit, error) {
	repos := s.store.Repos()
	if _, err := getUser(ctx, repos, userID); err != nil {
		return nil, err
	}
	return repos.Habits.ListByUser(ctx, userID)
}

// LevelHistory returns a habit's level changes, newest first.
func (s *Service) LevelHistory(ctx context.Context, habitID string, limit int) ([]store.LevelChangeRecord, error) {
	return s.store.Repos().Events.QueryLevelChanges(ctx, habitID, store.QueryOpts{Limit: limit})
}

// SuggestLevel estimates a starting level for a new habit. Nil inputs are
// treated as unknown.
func SuggestLevel(freq leveling.Frequency, duration, targetCount *float64) int {
	return leveling.EstimateHabitLevel(freq, duration, targetCount)
}

// ─── XP ─────────────────────────────────────────────────────────────────────

// CompletionResult is the outcome of RecordCompletion.
type CompletionResult struct {
	HabitID   string                      `json:"habit_id"`
	XP        leveling.XPMultiplierResult `json:"xp"`
	BaseXP    int                         `json:"base_xp"`
	AwardedXP int                         `json:"awarded_xp"`
	TotalXP   int                         `json:"total_xp"`
	Sequence  int64                       `json:"sequence"`
}

// RecordCompletion awards XP for one period's progress on a habit.
// Negative progress scores as none. An empty locale uses the user's locale.
func (s *Service) RecordCompletion(ctx context.Context, habitID string, actual float64, locale string) (*CompletionResult, error) {
	if math.IsNaN(actual) || math.IsInf(actual, 0) {
		return nil, fmt.Errorf("%w: actual must be a finite number", ErrInvalidInput)
	}

	var res *CompletionResult
	err := s.store.RunInTx(ctx, func(r store.Repos) error {
		h, err := getHabit(ctx, r, habitID)
		if err != nil {
			return err
		}
		user, err := getUser(ctx, r, h.UserID)
		if err != nil {
			return err
		}

		xp := leveling.CalculateXPMultiplier(actual, h.TargetCount, s.locale(locale, user.Locale))
		awarded := int(math.Round(float64(s.cfg.BaseXP) * xp.Multiplier))

		ev, err := r.Events.AppendXPEvent(ctx, store.XPEventData{
			UserID:         user.ID,
			HabitID:        h.ID,
			Actual:         actual,
			Target:         h.TargetCount,
			CompletionRate: xp.CompletionRate,
			Multiplier:     xp.Multiplier,
			Tier:           string(xp.Tier),
			RationaleKey:   xp.RationaleKey,
			BaseXP:         s.cfg.BaseXP,
			AwardedXP:      awarded,
		})
		if err != nil {
			return err
		}
		if err := r.Users.AddXP(ctx, user.ID, awarded); err != nil {
			return err
		}

		res = &CompletionResult{
			HabitID:   h.ID,
			XP:        xp,
			BaseXP:    s.cfg.BaseXP,
			AwardedXP: awarded,
			TotalXP:   user.TotalXP + awarded,
			Sequence:  ev.Sequence,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record completion: %w", err)
	}

	metrics.XPAwards.WithLabelValues(string(res.XP.Tier)).Inc()
	metrics.XPAwarded.Add(float64(res.AwardedXP))
	s.logger.Debug("completion recorded",
		"habit_id", habitID,
		"rate", res.XP.CompletionRate,
		"tier", res.XP.Tier,
		"xp", res.AwardedXP,
	)
	return res, nil
}

// XPHistory returns a habit's XP awards, newest first.
func (s *Service) XPHistory(ctx context.Context, habitID string, limit int) ([]store.XPEventRecord, error) {
	return s.store.Repos().Events.QueryXPEvents(ctx, habitID, store.QueryOpts{Limit: limit})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// locale picks the first non-empty candidate, then the configured default.
func (s *Service) locale(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return leveling.ResolveLocale(c)
		}
	}
	return s.cfg.DefaultLocale
}

func (s *Service) babySteps(ctx context.Context, h *store.Habit, userLevel int, locale string) (leveling.BabyStepPlans, bool) {
	level := 0
	if h.Level != nil {
		level = *h.Level
	}
	plans := leveling.LocalizedBabyStepPlans(h.Name, level, locale)
	if s.coach == nil {
		return plans, false
	}
	res := s.coach.Personalize(ctx, coach.Habit{
		Name:             h.Name,
		Level:            level,
		Frequency:        leveling.Frequency(h.Frequency),
		WorkloadPerCount: h.WorkloadPerCount,
		WorkloadUnit:     h.WorkloadUnit,
		TargetCount:      h.TargetCount,
	}, userLevel, plans, locale)
	return res.Plans, res.Personalized
}

func getUser(ctx context.Context, r store.Repos, id string) (*store.User, error) {
	u, err := r.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	return u, nil
}

func getHabit(ctx context.Context, r store.Repos, id string) (*store.Habit, error) {
	h, err := r.Habits.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("%w: %s", ErrHabitNotFound, id)
	}
	return h, nil
}

// Profile converts a stored habit to the engine's view of it.
func Profile(h *store.Habit) leveling.HabitLevelProfile {
	return leveling.HabitLevelProfile{
		HabitID:              h.ID,
		Level:                h.Level,
		Frequency:            leveling.Frequency(h.Frequency),
		WorkloadPerCount:     h.WorkloadPerCount,
		TargetCount:          h.TargetCount,
		MismatchAcknowledged: h.MismatchAcknowledged,
		OriginalLevelGap:     h.OriginalLevelGap,
	}
}

// durationMinutes returns workload as a duration, or nil when unit is not
// a unit of minutes.
func durationMinutes(workload float64, unit string) *float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "", "m", "min", "mins", "minute", "minutes", "分":
		return &workload
	}
	return nil
}

func finiteNonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
