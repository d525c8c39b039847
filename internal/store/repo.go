package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// User is a persisted user row.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	OverallLevel int       `json:"overall_level"`
	TotalXP      int       `json:"total_xp"`
	Locale       string    `json:"locale"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Habit is a persisted habit row. Level, MismatchAcknowledged and
// OriginalLevelGap are NULL until set.
type Habit struct {
	ID                   string    `json:"id"`
	UserID               string    `json:"user_id"`
	Name                 string    `json:"name"`
	Level                *int      `json:"level"`
	Frequency            string    `json:"frequency"`
	WorkloadPerCount     float64   `json:"workload_per_count"`
	WorkloadUnit         string    `json:"workload_unit"`
	TargetCount          float64   `json:"target_count"`
	MismatchAcknowledged *bool     `json:"mismatch_acknowledged"`
	OriginalLevelGap     *int      `json:"original_level_gap"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// UserRepo manages users.
type UserRepo interface {
	// Create inserts a new user. CreatedAt/UpdatedAt are filled in when zero.
	Create(ctx context.Context, u *User) error

	// Get returns the user with the given ID, or nil if none exists.
	Get(ctx context.Context, id string) (*User, error)

	// List returns all users ordered by creation time.
	List(ctx context.Context) ([]User, error)

	// SetLevel updates the overall level. Returns false if the user does not exist.
	SetLevel(ctx context.Context, id string, level int) (bool, error)

	// AddXP adds xp to the user's running total.
	AddXP(ctx context.Context, id string, xp int) error
}

// HabitRepo manages habits.
type HabitRepo interface {
	// Create inserts a new habit.
	Create(ctx context.Context, h *Habit) error

	// Get returns the habit with the given ID, or nil if none exists.
	Get(ctx context.Context, id string) (*Habit, error)

	// ListByUser returns a user's habits ordered by creation time.
	ListByUser(ctx context.Context, userID string) ([]Habit, error)

	// ListAssessed returns every habit that has a level, across all users.
	ListAssessed(ctx context.Context) ([]Habit, error)

	// Update writes the mutable fields (name, level, workload, target,
	// mismatch state) of h.
	Update(ctx context.Context, h *Habit) error

	// SetMismatchState writes only the mismatch bookkeeping fields.
	SetMismatchState(ctx context.Context, id string, acknowledged *bool, originalGap *int) error
}

// XPEventData captures a single XP award.
type XPEventData struct {
	UserID         string  `json:"user_id"`
	HabitID        string  `json:"habit_id"`
	Actual         float64 `json:"actual"`
	Target         float64 `json:"target"`
	CompletionRate float64 `json:"completion_rate"`
	Multiplier     float64 `json:"multiplier"`
	Tier           string  `json:"tier"`
	RationaleKey   string  `json:"rationale_key"`
	BaseXP         int     `json:"base_xp"`
	AwardedXP      int     `json:"awarded_xp"`
}

// XPEventRecord is a persisted XP award.
type XPEventRecord struct {
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	XPEventData
}

// LevelChangeData captures a change of a habit's level.
type LevelChangeData struct {
	HabitID   string `json:"habit_id"`
	FromLevel *int   `json:"from_level"`
	ToLevel   int    `json:"to_level"`
	Reason    string `json:"reason"`
}

// LevelChangeRecord is a persisted level change.
type LevelChangeRecord struct {
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	LevelChangeData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a persisted LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStat aggregates LLM usage for one purpose.
type LLMUsageStat struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendXPEvent records an XP award.
	AppendXPEvent(ctx context.Context, data XPEventData) (*XPEventRecord, error)

	// QueryXPEvents returns a habit's XP awards, newest first.
	QueryXPEvents(ctx context.Context, habitID string, opts QueryOpts) ([]XPEventRecord, error)

	// AppendLevelChange records a habit level change.
	AppendLevelChange(ctx context.Context, data LevelChangeData) error

	// QueryLevelChanges returns a habit's level changes, newest first.
	QueryLevelChanges(ctx context.Context, habitID string, opts QueryOpts) ([]LevelChangeRecord, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single LLM event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStat, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}

// Notification kinds.
const (
	NotificationLevelMismatch = "level_mismatch"
	NotificationResolved      = "level_mismatch_resolved"
)

// NotificationData captures a notification to be delivered to a user.
type NotificationData struct {
	UserID         string `json:"user_id"`
	HabitID        string `json:"habit_id"`
	Kind           string `json:"kind"`
	LevelGap       int    `json:"level_gap"`
	Severity       string `json:"severity"`
	Recommendation string `json:"recommendation"`
}

// Notification is a persisted notification.
type Notification struct {
	ID        int       `json:"id"`
	Sequence  int64     `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	NotificationData
}

// NotificationRepo manages user notifications.
type NotificationRepo interface {
	// Create stores a new unread notification.
	Create(ctx context.Context, data NotificationData) (*Notification, error)

	// ListByUser returns a user's notifications, newest first.
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error)

	// MarkRead flags a notification as read. Returns false if it does not exist.
	MarkRead(ctx context.Context, id int) (bool, error)
}
