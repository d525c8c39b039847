package habits

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/metrics"
	"github.com/laximgqozaZZZYT/vow-sub000/internal/store"
)

// DefaultScanConcurrency bounds how many habits a scan evaluates at once.
const DefaultScanConcurrency = 4

// Scanner is the periodic mismatch job. For every habit with a level it
// compares the habit against its owner's level and carries out the
// resulting transition.
type Scanner struct {
	store       Store
	concurrency int
	logger      *slog.Logger
}

// NewScanner creates a Scanner. concurrency <= 0 uses DefaultScanConcurrency.
func NewScanner(st Store, concurrency int, logger *slog.Logger) *Scanner {
	if concurrency <= 0 {
		concurrency = DefaultScanConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{store: st, concurrency: concurrency, logger: logger}
}

// ScanReport summarizes one scan.
type ScanReport struct {
	Scanned     int                                `json:"scanned"`
	Notified    int                                `json:"notified"`
	Resolved    int                                `json:"resolved"`
	Unchanged   int                                `json:"unchanged"`
	Transitions []leveling.MismatchStateTransition `json:"transitions"`
	Duration    time.Duration                      `json:"duration"`
}

// ScanUser scans one user's habits.
func (s *Scanner) ScanUser(ctx context.Context, userID string) (*ScanReport, error) {
	repos := s.store.Repos()
	user, err := getUser(ctx, repos, userID)
	if err != nil {
		return nil, err
	}
	all, err := repos.Habits.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	var assessed []store.Habit
	for _, h := range all {
		if h.Level != nil {
			assessed = append(assessed, h)
		}
	}
	return s.scan(ctx, map[string]int{user.ID: user.OverallLevel}, assessed)
}

// ScanAll scans every habit with a level.
func (s *Scanner) ScanAll(ctx context.Context) (*ScanReport, error) {
	repos := s.store.Repos()
	users, err := repos.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	levels := make(map[string]int, len(users))
	for _, u := range users {
		levels[u.ID] = u.OverallLevel
	}

	assessed, err := repos.Habits.ListAssessed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return s.scan(ctx, levels, assessed)
}

func (s *Scanner) scan(ctx context.Context, levels map[string]int, habits []store.Habit) (*ScanReport, error) {
	start := time.Now()
	transitions := make([]leveling.MismatchStateTransition, len(habits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range habits {
		h := &habits[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := s.scanHabit(gctx, levels[h.UserID], h)
			if err != nil {
				return fmt.Errorf("scan habit %s: %w", h.ID, err)
			}
			transitions[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &ScanReport{Scanned: len(habits), Transitions: transitions}
	for _, t := range transitions {
		metrics.MismatchTransitions.WithLabelValues(string(t.Action)).Inc()
		switch t.Action {
		case leveling.ActionCreateNotification:
			report.Notified++
		case leveling.ActionResolveMismatch:
			report.Resolved++
		default:
			report.Unchanged++
		}
	}
	report.Duration = time.Since(start)
	metrics.ScanDuration.Observe(report.Duration.Seconds())

	s.logger.Info("mismatch scan finished",
		"scanned", report.Scanned,
		"notified", report.Notified,
		"resolved", report.Resolved,
		"duration", report.Duration,
	)
	return report, nil
}

// scanHabit evaluates one habit and persists the outcome. The notification
// and the acknowledgment update are written in one transaction.
func (s *Scanner) scanHabit(ctx context.Context, userLevel int, h *store.Habit) (leveling.MismatchStateTransition, error) {
	m := leveling.DetectLevelMismatch(userLevel, *h.Level)
	t := leveling.DetermineStateTransition(Profile(h), m)

	upd := t.AcknowledgementUpdate()
	if upd == nil {
		return t, nil
	}

	kind := store.NotificationLevelMismatch
	if t.Action == leveling.ActionResolveMismatch {
		kind = store.NotificationResolved
	}

	err := s.store.RunInTx(ctx, func(r store.Repos) error {
		if _, err := r.Notifications.Create(ctx, store.NotificationData{
			UserID:         h.UserID,
			HabitID:        h.ID,
			Kind:           kind,
			LevelGap:       m.LevelGap,
			Severity:       string(m.Severity),
			Recommendation: string(m.Recommendation),
		}); err != nil {
			return err
		}
		ack := upd.MismatchAcknowledged
		return r.Habits.SetMismatchState(ctx, h.ID, &ack, upd.OriginalLevelGap)
	})
	if err != nil {
		return t, err
	}

	s.logger.Debug("mismatch transition",
		"habit_id", h.ID,
		"action", t.Action,
		"gap", m.LevelGap,
		"severity", m.Severity,
	)
	return t, nil
}
