package leveling

import "testing"

func f64(v float64) *float64 { return &v }

func TestEstimateHabitLevel(t *testing.T) {
	tests := []struct {
		name        string
		freq        Frequency
		duration    *float64
		targetCount *float64
		want        int
	}{
		{"daily no extras", FrequencyDaily, nil, nil, 80},
		{"weekly no extras", FrequencyWeekly, nil, nil, 65},
		{"monthly no extras", FrequencyMonthly, nil, nil, 55},
		{"unknown frequency", "yearly", nil, nil, 70},
		{"daily 60 min", FrequencyDaily, f64(60), nil, 120},
		{"daily 30 min", FrequencyDaily, f64(30), nil, 105},
		{"daily 15 min", FrequencyDaily, f64(15), nil, 90},
		{"daily 5 min", FrequencyDaily, f64(5), nil, 85},
		{"daily 4 min", FrequencyDaily, f64(4), nil, 80},
		{"target count 1 adds nothing", FrequencyDaily, nil, f64(1), 80},
		{"target count 2", FrequencyDaily, nil, f64(2), 90},
		{"target count capped", FrequencyDaily, nil, f64(10), 100},
		{"everything", FrequencyDaily, f64(90), f64(8), 140},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateHabitLevel(tt.freq, tt.duration, tt.targetCount)
			if got != tt.want {
				t.Errorf("EstimateHabitLevel = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimateHabitLevel_FrequencyMonotonic(t *testing.T) {
	durations := []*float64{nil, f64(0), f64(5), f64(20), f64(45), f64(120)}
	counts := []*float64{nil, f64(1), f64(2), f64(3), f64(7)}
	for _, d := range durations {
		for _, c := range counts {
			daily := EstimateHabitLevel(FrequencyDaily, d, c)
			weekly := EstimateHabitLevel(FrequencyWeekly, d, c)
			monthly := EstimateHabitLevel(FrequencyMonthly, d, c)
			if daily < weekly || weekly < monthly {
				t.Errorf("duration=%v count=%v: daily %d, weekly %d, monthly %d not monotonic",
					d, c, daily, weekly, monthly)
			}
		}
	}
}

func TestEstimateHabitLevel_DurationMonotonic(t *testing.T) {
	for _, freq := range AllFrequencies() {
		prev := -1
		for d := 0.0; d <= 180; d += 2.5 {
			got := EstimateHabitLevel(freq, f64(d), f64(3))
			if got < prev {
				t.Fatalf("%s: duration %v gave %d, less than %d for a shorter duration", freq, d, got, prev)
			}
			prev = got
		}
	}
}

func TestEstimateHabitLevel_Bounds(t *testing.T) {
	got := EstimateHabitLevel(FrequencyDaily, f64(1e9), f64(1e9))
	if got < MinLevel || got > MaxLevel {
		t.Errorf("EstimateHabitLevel = %d, outside [%d, %d]", got, MinLevel, MaxLevel)
	}
}

func TestEstimateLevelFromWorkload(t *testing.T) {
	tests := []struct {
		name     string
		freq     Frequency
		workload float64
		target   float64
		want     int
	}{
		{"daily 90 min once", FrequencyDaily, 90, 1, 95},
		{"daily 5 min once", FrequencyDaily, 5, 1, 40},
		{"weekly 15 min x3", FrequencyWeekly, 15, 3, 45},
		{"monthly 30 min x5", FrequencyMonthly, 30, 5, 55},
		{"daily 60 min x10", FrequencyDaily, 60, 10, 110},
		{"daily 61 min x11", FrequencyDaily, 61, 11, 150},
		{"unknown frequency", "", 10, 2, 50},
		{"zero workload and target", FrequencyWeekly, 0, 0, 25},
		{"fractional workload", FrequencyDaily, 5.5, 1, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := HabitLevelProfile{Frequency: tt.freq, WorkloadPerCount: tt.workload, TargetCount: tt.target}
			if got := EstimateLevelFromWorkload(h); got != tt.want {
				t.Errorf("EstimateLevelFromWorkload = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimators_AreIndependent(t *testing.T) {
	// Same settings, different questions: the two formulas must not agree by construction.
	h := HabitLevelProfile{Frequency: FrequencyDaily, WorkloadPerCount: 90, TargetCount: 1}
	suggested := EstimateHabitLevel(h.Frequency, f64(h.WorkloadPerCount), f64(h.TargetCount))
	fromWorkload := EstimateLevelFromWorkload(h)
	if suggested == fromWorkload {
		t.Errorf("both estimators returned %d for %+v", suggested, h)
	}
}
