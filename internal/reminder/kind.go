package reminder

import "fmt"

// Kind is a due-date proximity threshold.
type Kind string

const (
	KindThirtyMinuteWarning Kind = "thirty-minute-warning"
	KindDueNow              Kind = "due-now"
	KindJustOverdue         Kind = "just-overdue"
)

// KindInfo is the lookup-table row for a threshold kind. A kind fires when
// Lower < minutes remaining <= Upper.
type KindInfo struct {
	Lower              float64
	Upper              float64
	Title              string
	RequireInteraction bool
}

// Kinds lists the thresholds in the order a task crosses them.
var Kinds = []Kind{KindThirtyMinuteWarning, KindDueNow, KindJustOverdue}

var kindTable = map[Kind]KindInfo{
	KindThirtyMinuteWarning: {Lower: 0, Upper: 30, Title: "Due soon"},
	KindDueNow:              {Lower: -1, Upper: 0, Title: "Due now", RequireInteraction: true},
	KindJustOverdue:         {Lower: -2, Upper: -1, Title: "Overdue", RequireInteraction: true},
}

func (k Kind) Info() KindInfo {
	return kindTable[k]
}

// Contains reports whether minutes falls inside the kind's window.
func (k Kind) Contains(minutes float64) bool {
	info, ok := kindTable[k]
	return ok && minutes > info.Lower && minutes <= info.Upper
}

// KindFor returns the kind whose window holds minutes.
func KindFor(minutes float64) (Kind, bool) {
	for _, k := range Kinds {
		if k.Contains(minutes) {
			return k, true
		}
	}
	return "", false
}

func (k Kind) body(title string, minutes float64) string {
	switch k {
	case KindThirtyMinuteWarning:
		m := int(minutes + 0.999)
		if m <= 1 {
			return fmt.Sprintf("%q is due in 1 minute", title)
		}
		return fmt.Sprintf("%q is due in %d minutes", title, m)
	case KindDueNow:
		return fmt.Sprintf("%q is due now", title)
	default:
		return fmt.Sprintf("%q is overdue", title)
	}
}
