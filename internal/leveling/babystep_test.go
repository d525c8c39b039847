package leveling

import (
	"strings"
	"testing"
)

func TestGenerateBabyStepPlans(t *testing.T) {
	for _, name := range []string{"Read", "Run 5km", ""} {
		for _, lv := range []int{0, 60, 150, 199} {
			plans := GenerateBabyStepPlans(name, lv)
			all := plans.Plans()
			if len(all) != 2 {
				t.Fatalf("got %d plans, want 2", len(all))
			}
			if plans.Lv50.TargetLevel != 50 {
				t.Errorf("Lv50.TargetLevel = %d", plans.Lv50.TargetLevel)
			}
			if plans.Lv10.TargetLevel != 10 {
				t.Errorf("Lv10.TargetLevel = %d", plans.Lv10.TargetLevel)
			}
			for _, p := range all {
				if p.Rationale == "" {
					t.Errorf("plan %+v has empty rationale", p)
				}
				if !strings.Contains(p.Name, name) {
					t.Errorf("plan name %q does not mention habit %q", p.Name, name)
				}
			}
		}
	}
}

func TestGenerateBabyStepPlans_Markers(t *testing.T) {
	plans := GenerateBabyStepPlans("Meditate", 120)
	if !strings.Contains(plans.Lv50.Name, "half workload") {
		t.Errorf("Lv50.Name = %q, want half-workload marker", plans.Lv50.Name)
	}
	if !strings.Contains(plans.Lv10.Name, "2 minutes") {
		t.Errorf("Lv10.Name = %q, want two-minute marker", plans.Lv10.Name)
	}
}

func TestLocalizedBabyStepPlans_Japanese(t *testing.T) {
	en := LocalizedBabyStepPlans("読書", 120, "en")
	ja := LocalizedBabyStepPlans("読書", 120, "ja-JP")
	if en.Lv50.Name == ja.Lv50.Name || en.Lv10.Rationale == ja.Lv10.Rationale {
		t.Errorf("japanese plans not localized: %+v", ja)
	}
	if ja.Lv50.TargetLevel != 50 || ja.Lv10.TargetLevel != 10 {
		t.Errorf("target levels changed with locale: %+v", ja)
	}
}

func TestBabyStepAdjustment(t *testing.T) {
	h := HabitLevelProfile{HabitID: "h1", Frequency: FrequencyDaily, WorkloadPerCount: 60, TargetCount: 1}
	plans := GenerateBabyStepPlans("Run", 150)

	half := BabyStepAdjustment(h, plans.Lv50)
	if half.Level == nil || *half.Level != 50 {
		t.Errorf("half level = %v, want 50", half.Level)
	}
	if half.WorkloadPerCount == nil || *half.WorkloadPerCount != 30 {
		t.Errorf("half workload = %v, want 30", half.WorkloadPerCount)
	}
	if !half.ClearMismatch {
		t.Error("half plan should clear mismatch state")
	}

	minimal := BabyStepAdjustment(h, plans.Lv10)
	if minimal.Level == nil || *minimal.Level != 10 {
		t.Errorf("minimal level = %v, want 10", minimal.Level)
	}
	if minimal.WorkloadPerCount == nil || *minimal.WorkloadPerCount != BabyStepMinimalWorkload {
		t.Errorf("minimal workload = %v, want %v", minimal.WorkloadPerCount, BabyStepMinimalWorkload)
	}

	if h.WorkloadPerCount != 60 {
		t.Errorf("input profile mutated: %+v", h)
	}
}
