package leveling

// Baby-step target levels.
const (
	BabyStepLevelHalf    = 50
	BabyStepLevelMinimal = 10
)

// BabyStepMinimalWorkload is the lv10 plan's workload per count, in minutes.
const BabyStepMinimalWorkload = 2.0

// BabyStepPlan is an easier variant offered for a mismatched habit.
type BabyStepPlan struct {
	Name        string `json:"name"`
	TargetLevel int    `json:"target_level"`
	Rationale   string `json:"rationale"`
}

// BabyStepPlans holds both variants; they are always produced together.
type BabyStepPlans struct {
	Lv50 BabyStepPlan `json:"lv50"`
	Lv10 BabyStepPlan `json:"lv10"`
}

// Plans returns the variants from the larger step to the smaller.
func (p BabyStepPlans) Plans() []BabyStepPlan {
	return []BabyStepPlan{p.Lv50, p.Lv10}
}

// GenerateBabyStepPlans builds the two baby-step variants in DefaultLocale.
func GenerateBabyStepPlans(habitName string, currentLevel int) BabyStepPlans {
	return LocalizedBabyStepPlans(habitName, currentLevel, DefaultLocale)
}

// LocalizedBabyStepPlans builds the two baby-step variants in locale.
// currentLevel does not change the target levels.
func LocalizedBabyStepPlans(habitName string, currentLevel int, locale string) BabyStepPlans {
	return BabyStepPlans{
		Lv50: BabyStepPlan{
			Name:        Messagef(locale, "babystep.lv50.name", habitName),
			TargetLevel: BabyStepLevelHalf,
			Rationale:   Message(locale, "babystep.lv50.rationale"),
		},
		Lv10: BabyStepPlan{
			Name:        Messagef(locale, "babystep.lv10.name", habitName),
			TargetLevel: BabyStepLevelMinimal,
			Rationale:   Message(locale, "babystep.lv10.rationale"),
		},
	}
}

// ProfileUpdate lists habit fields a caller should write. Nil fields are
// left unchanged; ClearMismatch resets the acknowledgment state.
type ProfileUpdate struct {
	Level            *int
	WorkloadPerCount *float64
	ClearMismatch    bool
}

// BabyStepAdjustment returns the update that adopts plan for h. The half
// plan halves the workload; the minimal plan fixes it at two minutes.
func BabyStepAdjustment(h HabitLevelProfile, plan BabyStepPlan) ProfileUpdate {
	level := plan.TargetLevel
	var workload float64
	switch plan.TargetLevel {
	case BabyStepLevelMinimal:
		workload = BabyStepMinimalWorkload
	default:
		workload = h.WorkloadPerCount / 2
	}
	return ProfileUpdate{
		Level:            &level,
		WorkloadPerCount: &workload,
		ClearMismatch:    true,
	}
}
