// Package widgets holds the two modal input widgets the wizard drives: a
// free-text box and a filterable choice menu.
package widgets

type Outcome int

const (
	StillActive Outcome = iota
	Canceled
	Done
)

func (o Outcome) String() string {
	switch o {
	case Canceled:
		return "canceled"
	case Done:
		return "done"
	default:
		return "still active"
	}
}

// InputResult is what a widget reports after seeing one frame's input.
// Label and Value are only meaningful when Outcome is Done.
type InputResult[T any] struct {
	Outcome Outcome
	Label   string
	Value   T
}
