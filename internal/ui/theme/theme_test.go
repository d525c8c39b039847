package theme

import (
	"strings"
	"testing"

	"github.com/laximgqozaZZZYT/vow-sub000/internal/leveling"
)

func TestSeverityStyle(t *testing.T) {
	tests := []struct {
		sev  leveling.Severity
		want string
	}{
		{leveling.SeverityNone, "good"},
		{leveling.SeverityMild, "warn"},
		{leveling.SeverityModerate, "bad"},
		{leveling.SeveritySevere, "bad"},
	}
	colors := map[string]any{"good": Success, "warn": Warning, "bad": Error}
	for _, tt := range tests {
		got := SeverityStyle(tt.sev).GetForeground()
		if got != colors[tt.want] {
			t.Errorf("SeverityStyle(%s) foreground = %v, want %s", tt.sev, got, tt.want)
		}
	}
}

func TestTierStyle(t *testing.T) {
	if TierStyle(leveling.TierOptimal).GetForeground() != Success {
		t.Error("optimal tier should render as success")
	}
	if TierStyle(leveling.TierMildOver).GetForeground() != Warning {
		t.Error("mild_over tier should render as warning")
	}
	if TierStyle(leveling.TierMinimal).GetForeground() != Error {
		t.Error("minimal tier should render as error")
	}
}

func TestTable(t *testing.T) {
	out := Table("Habit", "Level").Row("Run", "80").String()
	for _, want := range []string{"Habit", "Level", "Run", "80"} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}
