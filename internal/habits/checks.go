package habits

import (
	"context"
	"fmt"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/metrics"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
)

// HabitCheck is a read-only assessment of one habit. Mismatch and
// Transition are nil for a habit without a level.
type HabitCheck struct {
	Habit       *store.Habit                            `json:"habit"`
	UserLevel   int                                     `json:"user_level"`
	Mismatch    *leveling.LevelMismatchResult           `json:"mismatch,omitempty"`
	Transition  *leveling.MismatchStateTransition       `json:"transition,omitempty"`
	Consistency leveling.WorkloadLevelConsistencyResult `json:"consistency"`
}

// CheckHabit runs the mismatch, transition and consistency checks for a
// habit without writing anything.
func (s *Service) CheckHabit(ctx context.Context, habitID string) (*HabitCheck, error) {
	repos := s.store.Repos()
	h, err := getHabit(ctx, repos, habitID)
	if err != nil {
		return nil, err
	}
	user, err := getUser(ctx, repos, h.UserID)
	if err != nil {
		return nil, err
	}

	profile := Profile(h)
	check := &HabitCheck{
		Habit:       h,
		UserLevel:   user.OverallLevel,
		Consistency: leveling.ValidateWorkloadLevelConsistency(profile),
	}
	if h.Level != nil {
		m := leveling.DetectLevelMismatch(user.OverallLevel, *h.Level)
		t := leveling.DetermineStateTransition(profile, m)
		check.Mismatch = &m
		check.Transition = &t
	}
	return check, nil
}

// ConsistencyReport lists the consistency result of each of a user's habits.
type ConsistencyReport struct {
	UserID  string                                    `json:"user_id"`
	Results []leveling.WorkloadLevelConsistencyResult `json:"results"`
	// Reassessed holds the habits whose level was rewritten (apply mode).
	Reassessed []string `json:"reassessed,omitempty"`
}

// CheckConsistency compares each habit's level with its workload estimate.
// With apply set, habits flagged reassess_level take the estimated level.
// adjust_workload is only reported, since the new workload is the user's call.
func (s *Service) CheckConsistency(ctx context.Context, userID string, apply bool) (*ConsistencyReport, error) {
	habits, err := s.ListHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{UserID: userID}
	for i := range habits {
		h := &habits[i]
		res := leveling.ValidateWorkloadLevelConsistency(Profile(h))
		report.Results = append(report.Results, res)
		metrics.ConsistencyChecks.WithLabelValues(string(res.Recommendation)).Inc()

		if !apply || res.Recommendation != leveling.ConsistencyReassess {
			continue
		}
		if err := s.setLevel(ctx, h, res.EstimatedLevelFromWorkload, ReasonReassessed); err != nil {
			return nil, err
		}
		report.Reassessed = append(report.Reassessed, h.ID)
	}
	return report, nil
}

func (s *Service) setLevel(ctx context.Context, h *store.Habit, level int, reason string) error {
	from := h.Level
	h.Level = &level
	err := s.store.RunInTx(ctx, func(r store.Repos) error {
		if err := r.Habits.Update(ctx, h); err != nil {
			return err
		}
		return r.Events.AppendLevelChange(ctx, store.LevelChangeData{
			HabitID: h.ID, FromLevel: from, ToLevel: level, Reason: reason,
		})
	})
	if err != nil {
		return fmt.Errorf("set habit level: %w", err)
	}
	s.logger.Info("habit level changed", "habit_id", h.ID, "to", level, "reason", reason)
	return nil
}

// BabyStepPlans returns the plans for a habit in the user's locale,
// personalized when a coach is configured.
func (s *Service) BabyStepPlans(ctx context.Context, habitID, locale string) (*leveling.BabyStepPlans, bool, error) {
	repos := s.store.Repos()
	h, err := getHabit(ctx, repos, habitID)
	if err != nil {
		return nil, false, err
	}
	user, err := getUser(ctx, repos, h.UserID)
	if err != nil {
		return nil, false, err
	}
	plans, personalized := s.babySteps(ctx, h, user.OverallLevel, s.locale(locale, user.Locale))
	return &plans, personalized, nil
}

// AdoptBabyStep switches a habit to the baby-step plan with the given
// target level (50 or 10), lowering its workload and clearing the mismatch
// bookkeeping so the next scan starts fresh.
func (s *Service) AdoptBabyStep(ctx context.Context, habitID string, targetLevel int) (*store.Habit, error) {
	repos := s.store.Repos()
	h, err := getHabit(ctx, repos, habitID)
	if err != nil {
		return nil, err
	}
	user, err := getUser(ctx, repos, h.UserID)
	if err != nil {
		return nil, err
	}

	plans := leveling.LocalizedBabyStepPlans(h.Name, derefLevel(h.Level), user.Locale)
	var plan leveling.BabyStepPlan
	switch targetLevel {
	case leveling.BabyStepLevelHalf:
		plan = plans.Lv50
	case leveling.BabyStepLevelMinimal:
		plan = plans.Lv10
	default:
		return nil, fmt.Errorf("%w: baby step target must be %d or %d",
			ErrInvalidInput, leveling.BabyStepLevelHalf, leveling.BabyStepLevelMinimal)
	}

	upd := leveling.BabyStepAdjustment(Profile(h), plan)
	from := h.Level
	if upd.Level != nil {
		h.Level = upd.Level
	}
	if upd.WorkloadPerCount != nil {
		h.WorkloadPerCount = *upd.WorkloadPerCount
	}
	if upd.ClearMismatch {
		h.MismatchAcknowledged = nil
		h.OriginalLevelGap = nil
	}

	err = s.store.RunInTx(ctx, func(r store.Repos) error {
		if err := r.Habits.Update(ctx, h); err != nil {
			return err
		}
		return r.Events.AppendLevelChange(ctx, store.LevelChangeData{
			HabitID: h.ID, FromLevel: from, ToLevel: *h.Level, Reason: ReasonBabyStep,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("adopt baby step: %w", err)
	}
	s.logger.Info("baby step adopted", "habit_id", h.ID, "level", *h.Level, "workload", h.WorkloadPerCount)
	return h, nil
}

func derefLevel(l *int) int {
	if l == nil {
		return 0
	}
	return *l
}

// ─── Notifications ──────────────────────────────────────────────────────────

// Notifications returns a user's notifications, newest first.
func (s *Service) Notifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]store.Notification, error) {
	repos := s.store.Repos()
	if _, err := getUser(ctx, repos, userID); err != nil {
		return nil, err
	}
	return repos.Notifications.ListByUser(ctx, userID, unreadOnly, limit)
}

// MarkNotificationRead flags a notification as read.
func (s *Service) MarkNotificationRead(ctx context.Context, id int) error {
	ok, err := s.store.Repos().Notifications.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotificationNotFound, id)
	}
	return nil
}
