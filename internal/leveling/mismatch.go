package leveling

import (
	"fmt"
	"math"
)

// MismatchThreshold is the level gap a habit must exceed to count as a mismatch.
const MismatchThreshold = 50

// Severity grades how far a habit sits above the user's level.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// Recommendation is the advisory follow-up for a mismatch check.
type Recommendation string

const (
	RecommendProceed                  Recommendation = "proceed"
	RecommendSuggestBabySteps         Recommendation = "suggest_baby_steps"
	RecommendStronglySuggestBabySteps Recommendation = "strongly_suggest_baby_steps"
)

type severityBand struct {
	MaxGap         int
	Severity       Severity
	Recommendation Recommendation
}

// severityBands uses inclusive upper bounds. A gap of exactly
// MismatchThreshold is mild yet not a mismatch; callers read both fields.
var severityBands = []severityBand{
	{MaxGap: MismatchThreshold - 1, Severity: SeverityNone, Recommendation: RecommendProceed},
	{MaxGap: 75, Severity: SeverityMild, Recommendation: RecommendSuggestBabySteps},
	{MaxGap: 100, Severity: SeverityModerate, Recommendation: RecommendStronglySuggestBabySteps},
	{MaxGap: math.MaxInt, Severity: SeveritySevere, Recommendation: RecommendStronglySuggestBabySteps},
}

// LevelMismatchResult compares a habit's level with the user's level.
// LevelGap is always HabitLevel - UserLevel.
type LevelMismatchResult struct {
	IsMismatch     bool           `json:"is_mismatch"`
	UserLevel      int            `json:"user_level"`
	HabitLevel     int            `json:"habit_level"`
	LevelGap       int            `json:"level_gap"`
	Severity       Severity       `json:"severity"`
	Recommendation Recommendation `json:"recommendation"`
}

// DetectLevelMismatch classifies the gap between a habit and the user.
// Inputs are not range-checked.
func DetectLevelMismatch(userLevel, habitLevel int) LevelMismatchResult {
	gap := habitLevel - userLevel
	band := severityFor(gap)
	return LevelMismatchResult{
		IsMismatch:     gap > MismatchThreshold,
		UserLevel:      userLevel,
		HabitLevel:     habitLevel,
		LevelGap:       gap,
		Severity:       band.Severity,
		Recommendation: band.Recommendation,
	}
}

func severityFor(gap int) severityBand {
	for _, b := range severityBands {
		if gap <= b.MaxGap {
			return b
		}
	}
	return severityBands[len(severityBands)-1]
}

// ValidateLevel reports whether level is within [MinLevel, MaxLevel].
// The engine accepts any integer; services call this at input boundaries.
func ValidateLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("level %d out of range [%d, %d]", level, MinLevel, MaxLevel)
	}
	return nil
}
