package leveling

import "math"

// Suggestion-time estimate: what level should a new habit start at, given
// the user's stated intent. Coefficients are deliberately independent of the
// workload estimate below.
const suggestionBase = 50

var suggestionFrequencyBonus = map[Frequency]int{
	FrequencyDaily:   30,
	FrequencyWeekly:  15,
	FrequencyMonthly: 5,
}

const suggestionDefaultFrequencyBonus = 20

// minBand adds Bonus when the value is at least Min. Rows are ordered by
// descending Min and the first match wins.
type minBand struct {
	Min   float64
	Bonus int
}

var suggestionDurationBands = []minBand{
	{Min: 60, Bonus: 40},
	{Min: 30, Bonus: 25},
	{Min: 15, Bonus: 10},
	{Min: 5, Bonus: 5},
}

const (
	suggestionTargetStep = 5
	suggestionTargetCap  = 20
)

// EstimateHabitLevel suggests a level for a new habit from its frequency,
// duration in minutes and target count. Nil duration or target count skip
// their terms.
func EstimateHabitLevel(freq Frequency, duration, targetCount *float64) int {
	level := float64(suggestionBase)

	if bonus, ok := suggestionFrequencyBonus[freq]; ok {
		level += float64(bonus)
	} else {
		level += suggestionDefaultFrequencyBonus
	}

	if duration != nil && !math.IsNaN(*duration) {
		for _, b := range suggestionDurationBands {
			if *duration >= b.Min {
				level += float64(b.Bonus)
				break
			}
		}
	}

	if targetCount != nil && *targetCount > 1 {
		level += math.Min(suggestionTargetCap, *targetCount*suggestionTargetStep)
	}

	return clampLevel(int(math.Round(level)))
}

// Workload estimate: is an existing habit's assessed level still justified
// by how it is configured right now.
var workloadFrequencyBonus = map[Frequency]int{
	FrequencyDaily:   30,
	FrequencyWeekly:  15,
	FrequencyMonthly: 5,
}

const workloadDefaultFrequencyBonus = 20

// maxBand adds Bonus when the value is at most Max. Rows are ordered by
// ascending Max; the last row is the catch-all.
type maxBand struct {
	Max   float64
	Bonus int
}

var workloadPerCountBands = []maxBand{
	{Max: 5, Bonus: 5},
	{Max: 15, Bonus: 15},
	{Max: 30, Bonus: 25},
	{Max: 60, Bonus: 40},
	{Max: math.Inf(1), Bonus: 60},
}

var workloadTargetCountBands = []maxBand{
	{Max: 1, Bonus: 5},
	{Max: 3, Bonus: 15},
	{Max: 5, Bonus: 25},
	{Max: 10, Bonus: 40},
	{Max: math.Inf(1), Bonus: 60},
}

// EstimateLevelFromWorkload infers a habit's level from its frequency,
// workload per count and target count.
func EstimateLevelFromWorkload(h HabitLevelProfile) int {
	level := 0

	if bonus, ok := workloadFrequencyBonus[h.Frequency]; ok {
		level += bonus
	} else {
		level += workloadDefaultFrequencyBonus
	}

	level += maxBandBonus(workloadPerCountBands, h.WorkloadPerCount)
	level += maxBandBonus(workloadTargetCountBands, h.TargetCount)

	return clampLevel(level)
}

func maxBandBonus(bands []maxBand, v float64) int {
	if math.IsNaN(v) {
		v = 0
	}
	for _, b := range bands {
		if v <= b.Max {
			return b.Bonus
		}
	}
	return bands[len(bands)-1].Bonus
}
