package leveling

import "testing"

func TestDetectLevelMismatch_Scenario(t *testing.T) {
	res := DetectLevelMismatch(50, 150)
	if res.LevelGap != 100 {
		t.Errorf("LevelGap = %d, want 100", res.LevelGap)
	}
	if res.Severity != SeverityModerate {
		t.Errorf("Severity = %q, want moderate", res.Severity)
	}
	if !res.IsMismatch {
		t.Error("IsMismatch = false, want true")
	}
	if res.Recommendation != RecommendStronglySuggestBabySteps {
		t.Errorf("Recommendation = %q, want strongly_suggest_baby_steps", res.Recommendation)
	}
}

func TestDetectLevelMismatch_Boundaries(t *testing.T) {
	tests := []struct {
		gap      int
		mismatch bool
		severity Severity
		rec      Recommendation
	}{
		{-80, false, SeverityNone, RecommendProceed},
		{0, false, SeverityNone, RecommendProceed},
		{49, false, SeverityNone, RecommendProceed},
		// Exactly 50 is mild but not a mismatch.
		{50, false, SeverityMild, RecommendSuggestBabySteps},
		{51, true, SeverityMild, RecommendSuggestBabySteps},
		{75, true, SeverityMild, RecommendSuggestBabySteps},
		{76, true, SeverityModerate, RecommendStronglySuggestBabySteps},
		{100, true, SeverityModerate, RecommendStronglySuggestBabySteps},
		{101, true, SeveritySevere, RecommendStronglySuggestBabySteps},
		{199, true, SeveritySevere, RecommendStronglySuggestBabySteps},
	}

	for _, tt := range tests {
		res := DetectLevelMismatch(0, tt.gap)
		if tt.gap < 0 {
			res = DetectLevelMismatch(-tt.gap, 0)
		}
		if res.LevelGap != tt.gap {
			t.Errorf("gap %d: LevelGap = %d", tt.gap, res.LevelGap)
		}
		if res.IsMismatch != tt.mismatch {
			t.Errorf("gap %d: IsMismatch = %v, want %v", tt.gap, res.IsMismatch, tt.mismatch)
		}
		if res.Severity != tt.severity {
			t.Errorf("gap %d: Severity = %q, want %q", tt.gap, res.Severity, tt.severity)
		}
		if res.Recommendation != tt.rec {
			t.Errorf("gap %d: Recommendation = %q, want %q", tt.gap, res.Recommendation, tt.rec)
		}
	}
}

func TestDetectLevelMismatch_ThresholdOverFullRange(t *testing.T) {
	for user := MinLevel; user <= MaxLevel; user += 3 {
		for habit := MinLevel; habit <= MaxLevel; habit += 3 {
			res := DetectLevelMismatch(user, habit)
			if res.LevelGap != habit-user {
				t.Fatalf("(%d, %d): LevelGap = %d", user, habit, res.LevelGap)
			}
			if res.IsMismatch != (habit-user > MismatchThreshold) {
				t.Fatalf("(%d, %d): IsMismatch = %v", user, habit, res.IsMismatch)
			}
		}
	}
}

func TestValidateLevel(t *testing.T) {
	for _, lv := range []int{0, 1, 100, 199} {
		if err := ValidateLevel(lv); err != nil {
			t.Errorf("ValidateLevel(%d) = %v, want nil", lv, err)
		}
	}
	for _, lv := range []int{-1, 200, 1000} {
		if err := ValidateLevel(lv); err == nil {
			t.Errorf("ValidateLevel(%d) = nil, want error", lv)
		}
	}
}
