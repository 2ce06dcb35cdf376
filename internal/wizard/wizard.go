// Package wizard runs multi-step prompts as straight-line code that is
// re-evaluated every frame. Confirmed answers are replayed in order, so the
// caller simply asks every question again until all of them return.
package wizard

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/widgets"
	"github.com/jask/mapedit/internal/world"
)

// Lister supplies saved records for choice questions.
type Lister interface {
	Neighborhoods() []world.Neighborhood
	Scenarios() []world.Scenario
	Edits() []world.MapEdits
}

type noRecords struct{}

func (noRecords) Neighborhoods() []world.Neighborhood { return nil }
func (noRecords) Scenarios() []world.Scenario         { return nil }
func (noRecords) Edits() []world.MapEdits             { return nil }

// Wizard owns at most one live widget and the answers confirmed so far.
// Once the user cancels, it stays dead.
type Wizard struct {
	alive     bool
	tb        *widgets.TextBox
	menu      *widgets.Menu[Value]
	confirmed []Value
}

func New() *Wizard {
	return &Wizard{alive: true}
}

func (w *Wizard) Draw(c *render.Canvas) {
	if w.tb != nil {
		w.tb.Draw(c)
	}
	if w.menu != nil {
		w.menu.Draw(c)
	}
}

func (w *Wizard) Aborted() bool { return !w.alive }

// Confirmed returns copies of the answers in the order they were first given.
func (w *Wizard) Confirmed() []Value {
	out := make([]Value, len(w.confirmed))
	for i, v := range w.confirmed {
		out[i] = v.Clone()
	}
	return out
}

// CurrentMenuChoice is the highlighted payload of the open menu, for previews.
func (w *Wizard) CurrentMenuChoice() (Value, bool) {
	if w.menu == nil {
		return Value{}, false
	}
	item, ok := w.menu.Current()
	if !ok {
		return Value{}, false
	}
	return item.Value.Clone(), true
}

// Wrap binds the wizard to this frame's input. The returned handle replays
// every confirmed answer before touching a widget. Use it for one frame only.
func (w *Wizard) Wrap(in *input.UserInput, m *world.Map, lister Lister) *Wrapped {
	if lister == nil {
		lister = noRecords{}
	}
	ready := make([]Value, len(w.confirmed))
	copy(ready, w.confirmed)
	return &Wrapped{w: w, in: in, m: m, lister: lister, ready: ready}
}

func (w *Wizard) textBox(in *input.UserInput, query, prefilled string, parse func(string) (Value, bool)) (Value, bool) {
	if in.HasBeenConsumed() {
		return Value{}, false
	}
	if w.tb == nil {
		w.tb = widgets.NewTextBox(query, prefilled)
	}
	res := w.tb.Event(in)
	switch res.Outcome {
	case widgets.Canceled:
		w.alive = false
		w.tb = nil
		return Value{}, false
	case widgets.Done:
		w.tb = nil
		v, ok := parse(res.Value)
		if !ok {
			logrus.Warnf("Invalid input %q", res.Value)
			return Value{}, false
		}
		w.confirmed = append(w.confirmed, v.Clone())
		return v, true
	}
	return Value{}, false
}

func (w *Wizard) chooseMenu(in *input.UserInput, query string, gen func() []widgets.MenuItem[Value]) (string, Value, bool) {
	if w.menu == nil {
		w.menu = widgets.NewMenu(query, gen())
	}
	if in.HasBeenConsumed() {
		return "", Value{}, false
	}
	res := w.menu.Event(in)
	switch res.Outcome {
	case widgets.Canceled:
		w.alive = false
		w.menu = nil
		return "", Value{}, false
	case widgets.Done:
		w.menu = nil
		w.confirmed = append(w.confirmed, ChoiceValue(res.Label, res.Value))
		return res.Label, res.Value.Clone(), true
	}
	return "", Value{}, false
}

// Wrapped is a Wizard borrowed for one frame plus its replay queue.
type Wrapped struct {
	w      *Wizard
	in     *input.UserInput
	m      *world.Map
	lister Lister
	ready  []Value
}

func (ww *Wrapped) next() (Value, bool) {
	if len(ww.ready) == 0 {
		return Value{}, false
	}
	v := ww.ready[0]
	ww.ready = ww.ready[1:]
	return v.Clone(), true
}

// InputSomething asks a text question and parses the answer. A dead wizard,
// consumed input, an unfinished line or a rejected parse all yield false.
func (ww *Wrapped) InputSomething(query, prefilled string, kind Kind, parse func(string) (Value, bool)) (Value, bool) {
	if !ww.w.alive {
		return Value{}, false
	}
	if v, ok := ww.next(); ok {
		return v.expect(kind), true
	}
	return ww.w.textBox(ww.in, query, prefilled, func(s string) (Value, bool) {
		v, ok := parse(s)
		if ok && v.kind != kind {
			panic("wizard: parser for " + kind.String() + " produced " + v.kind.String())
		}
		return v, ok
	})
}

func (ww *Wrapped) InputString(query string) (string, bool) {
	return ww.InputStringPrefilled(query, "")
}

func (ww *Wrapped) InputStringPrefilled(query, prefilled string) (string, bool) {
	v, ok := ww.InputSomething(query, prefilled, KindText, func(s string) (Value, bool) {
		return Text(s), true
	})
	if !ok {
		return "", false
	}
	s, _ := v.AsText()
	return s, true
}

// InputUsize accepts a non-negative integer: digits with an optional leading
// "+", no surrounding space.
func (ww *Wrapped) InputUsize(query string) (int, bool) {
	v, ok := ww.InputSomething(query, "", KindCount, func(s string) (Value, bool) {
		n, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, strconv.IntSize-1)
		if err != nil {
			return Value{}, false
		}
		return Count(int(n)), true
	})
	if !ok {
		return 0, false
	}
	n, _ := v.AsCount()
	return n, true
}

// InputTick accepts [[HH:]MM:]SS[.s].
func (ww *Wrapped) InputTick(query string) (world.Tick, bool) {
	v, ok := ww.InputSomething(query, "", KindTick, func(s string) (Value, bool) {
		t, ok := world.ParseTick(s)
		if !ok {
			return Value{}, false
		}
		return TickValue(t), true
	})
	if !ok {
		return 0, false
	}
	t, _ := v.AsTick()
	return t, true
}

// InputPercent accepts a probability in [0, 1].
func (ww *Wrapped) InputPercent(query string) (float64, bool) {
	v, ok := ww.InputSomething(query, "", KindPercent, func(s string) (Value, bool) {
		p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || !(p >= 0 && p <= 1) {
			return Value{}, false
		}
		return Percent(p), true
	})
	if !ok {
		return 0, false
	}
	p, _ := v.AsPercent()
	return p, true
}

// ChooseSomething offers the generated items. gen runs once, when the menu
// opens; replays return the stored label and value without calling it.
func (ww *Wrapped) ChooseSomething(query string, gen func() []widgets.MenuItem[Value]) (string, Value, bool) {
	if !ww.w.alive {
		return "", Value{}, false
	}
	if v, ok := ww.next(); ok {
		c, _ := v.expect(KindChoice).AsChoice()
		return c.Label, c.Value, true
	}
	return ww.w.chooseMenu(ww.in, query, gen)
}

func (ww *Wrapped) ChooseString(query string, choices []string) (string, bool) {
	label, _, ok := ww.ChooseSomething(query, func() []widgets.MenuItem[Value] {
		items := make([]widgets.MenuItem[Value], len(choices))
		for i, c := range choices {
			items[i] = widgets.MenuItem[Value]{Label: c, Value: Text(c)}
		}
		return items
	})
	return label, ok
}

// ChooseNeighborhood lists neighborhoods saved for the current map and
// returns the chosen name.
func (ww *Wrapped) ChooseNeighborhood(query string) (string, bool) {
	label, _, ok := ww.ChooseSomething(query, func() []widgets.MenuItem[Value] {
		var items []widgets.MenuItem[Value]
		for _, n := range ww.lister.Neighborhoods() {
			if ww.onMap(n.MapName) {
				items = append(items, widgets.MenuItem[Value]{Label: n.Name, Value: NeighborhoodValue(n)})
			}
		}
		return items
	})
	return label, ok
}

func (ww *Wrapped) ChooseScenario(query string) (world.Scenario, bool) {
	_, v, ok := ww.ChooseSomething(query, func() []widgets.MenuItem[Value] {
		var items []widgets.MenuItem[Value]
		for _, s := range ww.lister.Scenarios() {
			if ww.onMap(s.MapName) {
				items = append(items, widgets.MenuItem[Value]{Label: s.Name, Value: ScenarioValue(s)})
			}
		}
		return items
	})
	if !ok {
		return world.Scenario{}, false
	}
	return v.expect(KindScenario).AsScenario()
}

// ChooseEdits offers the empty edit set first, then every saved one.
func (ww *Wrapped) ChooseEdits(query string) (world.MapEdits, bool) {
	_, v, ok := ww.ChooseSomething(query, func() []widgets.MenuItem[Value] {
		empty := world.EmptyEdits(ww.mapName())
		items := []widgets.MenuItem[Value]{{Label: empty.Name, Value: EditsValue(empty)}}
		for _, e := range ww.lister.Edits() {
			if ww.onMap(e.MapName) {
				items = append(items, widgets.MenuItem[Value]{Label: e.Name, Value: EditsValue(e)})
			}
		}
		return items
	})
	if !ok {
		return world.MapEdits{}, false
	}
	return v.expect(KindEdits).AsEdits()
}

func (ww *Wrapped) mapName() string {
	if ww.m == nil {
		return ""
	}
	return ww.m.Name()
}

func (ww *Wrapped) onMap(name string) bool {
	return ww.m == nil || name == "" || name == ww.m.Name()
}
