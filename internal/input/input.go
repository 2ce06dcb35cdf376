// Package input wraps one frame's tea.Msg so that each physical keystroke or
// click is handed to at most one consumer.
package input

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// UpdateMsg is the frame timer. Plugins that animate or run the sim react to it.
type UpdateMsg struct {
	At time.Time
}

// UserInput is a single frame's event plus its consumption flag.
type UserInput struct {
	msg      tea.Msg
	consumed bool
	offered  []key.Binding
}

func New(msg tea.Msg) *UserInput {
	return &UserInput{msg: msg}
}

func (in *UserInput) Msg() tea.Msg { return in.msg }

// Key returns the key event if it has not been consumed yet.
func (in *UserInput) Key() (tea.KeyMsg, bool) {
	if in.consumed {
		return tea.KeyMsg{}, false
	}
	k, ok := in.msg.(tea.KeyMsg)
	return k, ok
}

// Pressed consumes the event when it matches b. The binding is remembered for
// the help line either way.
func (in *UserInput) Pressed(b key.Binding) bool {
	in.offered = append(in.offered, b)
	return in.UnimportantPressed(b)
}

// Action is Pressed for a registered action.
func (in *UserInput) Action(scope string, a Action) bool { return in.Pressed(Keys.Get(scope, a)) }

// UnimportantPressed is Pressed without advertising b in the help line.
func (in *UserInput) UnimportantPressed(b key.Binding) bool {
	k, ok := in.Key()
	if !ok || !key.Matches(k, b) {
		return false
	}
	in.consumed = true
	return true
}

// Clicked consumes a left-button press.
func (in *UserInput) Clicked() (x, y int, ok bool) {
	if in.consumed {
		return 0, 0, false
	}
	m, isMouse := in.msg.(tea.MouseMsg)
	if !isMouse || m.Action != tea.MouseActionPress || m.Button != tea.MouseButtonLeft {
		return 0, 0, false
	}
	in.consumed = true
	return m.X, m.Y, true
}

// MouseMoved reports a pointer position without consuming anything.
func (in *UserInput) MouseMoved() (x, y int, ok bool) {
	m, isMouse := in.msg.(tea.MouseMsg)
	if !isMouse {
		return 0, 0, false
	}
	return m.X, m.Y, true
}

// Wheel reports a scroll step: -1 up, +1 down.
func (in *UserInput) Wheel() (int, bool) {
	if in.consumed {
		return 0, false
	}
	m, ok := in.msg.(tea.MouseMsg)
	if !ok || m.Action != tea.MouseActionPress {
		return 0, false
	}
	switch m.Button {
	case tea.MouseButtonWheelUp:
		in.consumed = true
		return -1, true
	case tea.MouseButtonWheelDown:
		in.consumed = true
		return 1, true
	}
	return 0, false
}

func (in *UserInput) IsUpdate() bool {
	_, ok := in.msg.(UpdateMsg)
	return ok
}

// Consume marks the event as used without matching it.
func (in *UserInput) Consume() { in.consumed = true }

func (in *UserInput) HasBeenConsumed() bool { return in.consumed }

// Offered lists bindings plugins checked for this frame, in check order.
func (in *UserInput) Offered() []key.Binding { return in.offered }
