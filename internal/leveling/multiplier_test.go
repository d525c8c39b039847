package leveling

import (
	"testing"
)

func TestDetermineTier_Boundaries(t *testing.T) {
	tests := []struct {
		rate float64
		want Tier
	}{
		{0, TierMinimal},
		{49.9, TierMinimal},
		{50, TierPartial},
		{79.9, TierPartial},
		{80, TierNear},
		{99.9, TierNear},
		{100, TierOptimal},
		{120, TierOptimal},
		{120.5, TierOptimal},
		{121, TierMildOver},
		{150, TierMildOver},
		{151, TierOver},
		{500, TierOver},
	}

	for _, tt := range tests {
		got := DetermineTier(tt.rate)
		if got != tt.want {
			t.Errorf("DetermineTier(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestDetermineTier_TableBoundaries(t *testing.T) {
	// Every band's upper bound belongs to the next band.
	bands := Tiers()
	for i := 0; i < len(bands)-1; i++ {
		if got := DetermineTier(bands[i].Upper); got != bands[i+1].Tier {
			t.Errorf("DetermineTier(%v) = %q, want %q", bands[i].Upper, got, bands[i+1].Tier)
		}
		if got := DetermineTier(bands[i].Upper - 0.001); got != bands[i].Tier {
			t.Errorf("DetermineTier(%v) = %q, want %q", bands[i].Upper-0.001, got, bands[i].Tier)
		}
	}
}

func TestMultiplierValue(t *testing.T) {
	tests := []struct {
		tier Tier
		want float64
	}{
		{TierMinimal, 0.3},
		{TierPartial, 0.6},
		{TierNear, 0.8},
		{TierOptimal, 1.0},
		{TierMildOver, 0.9},
		{TierOver, 0.7},
		{"bogus", 0.3},
	}

	for _, tt := range tests {
		if got := MultiplierValue(tt.tier); got != tt.want {
			t.Errorf("MultiplierValue(%q) = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestMultiplierValue_OptimalIsMaximum(t *testing.T) {
	optimal := MultiplierValue(TierOptimal)
	for rate := 0.0; rate <= MaxCompletionRate; rate += 0.5 {
		m := MultiplierValue(DetermineTier(rate))
		if m > optimal {
			t.Fatalf("rate %v: multiplier %v exceeds optimal %v", rate, m, optimal)
		}
		if m < 0.3 || m > 1.0 {
			t.Fatalf("rate %v: multiplier %v outside [0.3, 1.0]", rate, m)
		}
	}
}

func TestMultiplierValue_OverNotHarsherThanMinimal(t *testing.T) {
	if MultiplierValue(TierOver) < MultiplierValue(TierMinimal) {
		t.Errorf("over (%v) is punished harder than minimal (%v)",
			MultiplierValue(TierOver), MultiplierValue(TierMinimal))
	}
}

func TestCalculateXPMultiplier_HalfTarget(t *testing.T) {
	res := CalculateXPMultiplier(15, 30, "en")
	if res.CompletionRate != 50 {
		t.Errorf("CompletionRate = %v, want 50", res.CompletionRate)
	}
	if res.Tier != TierPartial {
		t.Errorf("Tier = %q, want partial", res.Tier)
	}
	if res.Multiplier != 0.6 {
		t.Errorf("Multiplier = %v, want 0.6", res.Multiplier)
	}
	if res.RationaleKey != "xp.tier.partial" {
		t.Errorf("RationaleKey = %q, want xp.tier.partial", res.RationaleKey)
	}
	if res.Rationale == "" {
		t.Error("Rationale is empty")
	}
}

func TestCalculateXPMultiplier_LocaleSensitive(t *testing.T) {
	for _, band := range Tiers() {
		rate := band.Upper - 1
		en := CalculateXPMultiplier(rate, 100, "en")
		ja := CalculateXPMultiplier(rate, 100, "ja")
		if en.Tier != band.Tier {
			t.Fatalf("rate %v: tier %q, want %q", rate, en.Tier, band.Tier)
		}
		if en.Rationale == "" || ja.Rationale == "" {
			t.Errorf("tier %q: empty rationale (en=%q ja=%q)", band.Tier, en.Rationale, ja.Rationale)
		}
		if en.Rationale == ja.Rationale {
			t.Errorf("tier %q: en and ja rationale are identical", band.Tier)
		}
		if en.RationaleKey != ja.RationaleKey {
			t.Errorf("tier %q: rationale keys differ across locales", band.Tier)
		}
	}
}

func TestCalculateXPMultiplier_MalformedLocaleFallsBack(t *testing.T) {
	want := CalculateXPMultiplier(30, 30, DefaultLocale).Rationale
	for _, loc := range []string{"", "!!", "zz-not-a-tag-at-all-123456789", "fr"} {
		got := CalculateXPMultiplier(30, 30, loc).Rationale
		if got != want {
			t.Errorf("locale %q: rationale %q, want default %q", loc, got, want)
		}
	}
}

func TestCalculateXPMultiplier_BadTarget(t *testing.T) {
	res := CalculateXPMultiplier(10, 0, "en")
	if res.CompletionRate != 0 || res.Tier != TierMinimal || res.Multiplier != 0.3 {
		t.Errorf("got %+v, want rate 0 / minimal / 0.3", res)
	}
}
