package editor

// RefreshIntent is what a mutation asks the display to do. Intents merge
// upward: a full frame covers an active-line redraw.
type RefreshIntent int

const (
	IntentNone RefreshIntent = iota
	IntentActiveLine
	IntentFullFrame
)

func (i RefreshIntent) String() string {
	switch i {
	case IntentActiveLine:
		return "active-line"
	case IntentFullFrame:
		return "full-frame"
	default:
		return "none"
	}
}

// Merge returns the stronger of the two intents.
func (i RefreshIntent) Merge(other RefreshIntent) RefreshIntent {
	if other > i {
		return other
	}
	return i
}
