package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"google/gemini-2.0-flash-001", &ModelCost{0.1, 0.4}},
		{"mock", nil},
		{"vendor/unknown", nil},
	}
	for _, tt := range tests {
		got := LookupCost(tt.model)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("LookupCost(%q) = %+v, want nil", tt.model, got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("LookupCost(%q) = %+v, want %+v", tt.model, got, tt.want)
		}
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}
	got := c.Cost(1_000_000, 200_000)
	if math.Abs(got-2.0) > 1e-9 {
		t.Fatalf("Cost() = %v, want 2.0", got)
	}
}
