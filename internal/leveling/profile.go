package leveling

// Level bounds shared by users and habits.
const (
	MinLevel = 0
	MaxLevel = 199
)

// Frequency is how often a habit is scheduled.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// AllFrequencies returns the supported frequencies from most to least frequent.
func AllFrequencies() []Frequency {
	return []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}
}

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

// HabitLevelProfile is the subset of a stored habit the engine reads.
// Nil pointers mean the value has never been set.
type HabitLevelProfile struct {
	HabitID              string
	Level                *int
	Frequency            Frequency
	WorkloadPerCount     float64
	TargetCount          float64
	MismatchAcknowledged *bool
	OriginalLevelGap     *int
}

// UserLevel is a user's overall skill level.
type UserLevel struct {
	UserID       string
	OverallLevel int
}

// clampLevel pins an estimate into [MinLevel, MaxLevel].
func clampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}
