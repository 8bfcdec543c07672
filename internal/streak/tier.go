package streak

// Tier is a milestone bracket on the current streak length.
type Tier int

const (
	TierNone Tier = iota
	TierSpark
	TierFlame
	TierBlaze
	TierInferno
	TierLegend
)

// Severity grades how prominently a tier should be shown.
type Severity int

const (
	SeverityMuted Severity = iota
	SeverityInfo
	SeverityNotice
	SeverityStrong
	SeverityIntense
	SeverityMax
)

type TierInfo struct {
	Label    string
	Severity Severity
	// MinDays is the inclusive lower bound of the bracket.
	MinDays int
}

var tierTable = map[Tier]TierInfo{
	TierNone:    {Label: "No streak", Severity: SeverityMuted, MinDays: 0},
	TierSpark:   {Label: "Getting started", Severity: SeverityInfo, MinDays: 1},
	TierFlame:   {Label: "On fire", Severity: SeverityNotice, MinDays: 3},
	TierBlaze:   {Label: "Blazing", Severity: SeverityStrong, MinDays: 7},
	TierInferno: {Label: "Unstoppable", Severity: SeverityIntense, MinDays: 14},
	TierLegend:  {Label: "Legendary", Severity: SeverityMax, MinDays: 30},
}

// Tiers lists tiers from lowest to highest.
var Tiers = []Tier{TierNone, TierSpark, TierFlame, TierBlaze, TierInferno, TierLegend}

func (t Tier) Info() TierInfo {
	if info, ok := tierTable[t]; ok {
		return info
	}
	return tierTable[TierNone]
}

func (t Tier) String() string { return t.Info().Label }

// TierFor maps a streak length to its bracket. A dead streak is always
// TierNone.
func TierFor(current int, alive bool) Tier {
	if !alive || current <= 0 {
		return TierNone
	}
	out := TierNone
	for _, t := range Tiers {
		if current >= t.Info().MinDays {
			out = t
		}
	}
	return out
}

// NextMilestone returns the days still needed to reach the next tier, or 0
// at the top tier.
func NextMilestone(current int) int {
	for _, t := range Tiers {
		if floor := t.Info().MinDays; floor > current {
			return floor - current
		}
	}
	return 0
}
