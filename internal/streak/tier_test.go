package streak

import "testing"

func TestTierFor(t *testing.T) {
	tests := []struct {
		current int
		alive   bool
		want    Tier
	}{
		{0, true, TierNone},
		{5, false, TierNone},
		{1, true, TierSpark},
		{2, true, TierSpark},
		{3, true, TierFlame},
		{6, true, TierFlame},
		{7, true, TierBlaze},
		{13, true, TierBlaze},
		{14, true, TierInferno},
		{29, true, TierInferno},
		{30, true, TierLegend},
		{365, true, TierLegend},
	}
	for _, tc := range tests {
		if got := TierFor(tc.current, tc.alive); got != tc.want {
			t.Errorf("TierFor(%d, %v) = %v, want %v", tc.current, tc.alive, got, tc.want)
		}
	}
}

func TestTierTableDistinct(t *testing.T) {
	labels := map[string]bool{}
	prev := -1
	for _, tier := range Tiers {
		info := tier.Info()
		if labels[info.Label] {
			t.Fatalf("duplicate label %q", info.Label)
		}
		labels[info.Label] = true
		if int(info.Severity) <= prev {
			t.Fatalf("severity must increase with tier")
		}
		prev = int(info.Severity)
	}
}

func TestNextMilestone(t *testing.T) {
	if got := NextMilestone(0); got != 1 {
		t.Fatalf("NextMilestone(0) = %d", got)
	}
	if got := NextMilestone(5); got != 2 {
		t.Fatalf("NextMilestone(5) = %d", got)
	}
	if got := NextMilestone(30); got != 0 {
		t.Fatalf("NextMilestone(30) = %d", got)
	}
}
