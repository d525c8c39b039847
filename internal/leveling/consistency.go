package leveling

// ConsistencyTolerance is the largest level difference still considered consistent.
const ConsistencyTolerance = 20

// ConsistencyRecommendation is the advisory follow-up for a consistency check.
type ConsistencyRecommendation string

const (
	ConsistencyOK         ConsistencyRecommendation = "consistent"
	ConsistencyReassess   ConsistencyRecommendation = "reassess_level"
	ConsistencyAdjustLoad ConsistencyRecommendation = "adjust_workload"
)

// WorkloadLevelConsistencyResult compares a habit's assessed level with the
// level its current workload settings imply.
type WorkloadLevelConsistencyResult struct {
	HabitID                    string                    `json:"habit_id"`
	IsConsistent               bool                      `json:"is_consistent"`
	AssessedLevel              *int                      `json:"assessed_level"`
	EstimatedLevelFromWorkload int                       `json:"estimated_level_from_workload"`
	LevelDifference            int                       `json:"level_difference"`
	Recommendation             ConsistencyRecommendation `json:"recommendation"`
}

// ValidateWorkloadLevelConsistency flags drift between h.Level and the
// workload estimate. An unassessed habit is always consistent.
func ValidateWorkloadLevelConsistency(h HabitLevelProfile) WorkloadLevelConsistencyResult {
	estimated := EstimateLevelFromWorkload(h)
	res := WorkloadLevelConsistencyResult{
		HabitID:                    h.HabitID,
		IsConsistent:               true,
		EstimatedLevelFromWorkload: estimated,
		Recommendation:             ConsistencyOK,
	}
	if h.Level == nil {
		return res
	}

	assessed := *h.Level
	res.AssessedLevel = &assessed
	res.LevelDifference = abs(assessed - estimated)
	res.IsConsistent = res.LevelDifference <= ConsistencyTolerance
	if res.IsConsistent {
		return res
	}

	if estimated > assessed {
		res.Recommendation = ConsistencyReassess
	} else {
		res.Recommendation = ConsistencyAdjustLoad
	}
	return res
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
