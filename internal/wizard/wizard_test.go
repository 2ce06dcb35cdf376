package wizard

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/world"
)

func keyMsg(s string) tea.Msg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type answers struct {
	name  string
	count int
}

// nameAndCount is a two-question workflow written the way plugins write them.
func nameAndCount(w *Wizard, in *input.UserInput) (answers, bool) {
	ww := w.Wrap(in, nil, nil)
	name, ok := ww.InputString("Name?")
	if !ok {
		return answers{}, false
	}
	n, ok := ww.InputUsize("How many?")
	if !ok {
		return answers{}, false
	}
	return answers{name: name, count: n}, true
}

func feed(t *testing.T, w *Wizard, keys ...string) (answers, bool) {
	t.Helper()
	var got answers
	var ok bool
	for _, k := range keys {
		got, ok = nameAndCount(w, input.New(keyMsg(k)))
	}
	return got, ok
}

func TestWizardTwoQuestions(t *testing.T) {
	w := New()
	if _, ok := feed(t, w, "a", "b", "enter"); ok {
		t.Fatal("workflow finished after only one answer")
	}
	if got := len(w.Confirmed()); got != 1 {
		t.Fatalf("confirmed = %d, want 1", got)
	}
	got, ok := feed(t, w, "4", "2", "enter")
	if !ok {
		t.Fatal("workflow should finish once both answers are in")
	}
	if got != (answers{name: "ab", count: 42}) {
		t.Fatalf("answers = %+v", got)
	}
}

func TestWizardReplayDoesNotConsume(t *testing.T) {
	w := New()
	feed(t, w, "x", "enter", "3", "enter")

	in := input.New(input.UpdateMsg{})
	got, ok := nameAndCount(w, in)
	if !ok || got != (answers{name: "x", count: 3}) {
		t.Fatalf("replay = %+v, %v", got, ok)
	}
	if in.HasBeenConsumed() {
		t.Fatal("replaying confirmed answers must not consume input")
	}
	again, ok := nameAndCount(w, input.New(input.UpdateMsg{}))
	if !ok || again != got {
		t.Fatalf("second replay = %+v, %v; want %+v", again, ok, got)
	}
}

func TestWizardRejectedParseKeepsAsking(t *testing.T) {
	w := New()
	feed(t, w, "x", "enter")
	if _, ok := feed(t, w, "n", "o", "enter"); ok {
		t.Fatal("non-numeric count was accepted")
	}
	if w.Aborted() {
		t.Fatal("a rejected answer must not abort the wizard")
	}
	if got, ok := feed(t, w, "7", "enter"); !ok || got.count != 7 {
		t.Fatalf("after retry = %+v, %v", got, ok)
	}
}

func TestWizardCancelIsPermanent(t *testing.T) {
	w := New()
	feed(t, w, "a", "esc")
	if !w.Aborted() {
		t.Fatal("esc should abort")
	}
	if _, ok := feed(t, w, "b", "enter", "1", "enter"); ok {
		t.Fatal("dead wizard answered")
	}
}

func TestWizardConsumedInputIsNotTyped(t *testing.T) {
	w := New()
	in := input.New(keyMsg("a"))
	in.Consume()
	nameAndCount(w, in)
	got, _ := feed(t, w, "b", "enter", "1", "enter")
	if got.name != "b" {
		t.Fatalf("name = %q, want b: consumed keys must not reach the text box", got.name)
	}
}

func TestWizardWrongVariantPanics(t *testing.T) {
	w := New()
	feed(t, w, "x", "enter")
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic when replaying a text answer as a count")
		}
	}()
	w.Wrap(input.New(input.UpdateMsg{}), nil, nil).InputUsize("How many?")
}

type fakeLister struct {
	edits []world.MapEdits
}

func (fakeLister) Neighborhoods() []world.Neighborhood { return nil }
func (fakeLister) Scenarios() []world.Scenario         { return nil }
func (f fakeLister) Edits() []world.MapEdits           { return f.edits }

func TestChooseEditsOffersEmptyFirst(t *testing.T) {
	m := world.GridMap("grid", 2, 2, 6)
	saved := world.EmptyEdits("grid")
	saved.Name = "wide roads"
	other := world.EmptyEdits("elsewhere")
	other.Name = "not here"
	lister := fakeLister{edits: []world.MapEdits{saved, other}}

	w := New()
	ask := func(k string) (world.MapEdits, bool) {
		return w.Wrap(input.New(keyMsg(k)), m, lister).ChooseEdits("Load which edits?")
	}
	ask("down")
	choice, ok := w.CurrentMenuChoice()
	if !ok {
		t.Fatal("menu should be open")
	}
	if e, _ := choice.AsEdits(); e.Name != "wide roads" {
		t.Fatalf("highlighted = %q, want wide roads", e.Name)
	}
	// The other map's edits are filtered out, so down stays on the last item.
	ask("down")
	got, ok := ask("enter")
	if !ok || got.Name != "wide roads" {
		t.Fatalf("chosen = %q, %v", got.Name, ok)
	}
	if _, ok := w.CurrentMenuChoice(); ok {
		t.Fatal("menu should close after a choice")
	}
}

func TestInputTickAndPercent(t *testing.T) {
	w := New()
	run := func(k string) (world.Tick, float64, bool) {
		ww := w.Wrap(input.New(keyMsg(k)), nil, nil)
		tk, ok := ww.InputTick("Start?")
		if !ok {
			return 0, 0, false
		}
		p, ok := ww.InputPercent("Parked?")
		return tk, p, ok
	}
	for _, k := range []string{"1", ":", "3", "0", "enter", "1", ".", "5", "enter"} {
		run(k)
	}
	if w.Aborted() {
		t.Fatal("wizard aborted")
	}
	if got := len(w.Confirmed()); got != 1 {
		t.Fatalf("percent 1.5 should be rejected, confirmed = %d", got)
	}
	var tk world.Tick
	var p float64
	var ok bool
	for _, k := range []string{"0", ".", "2", "5", "enter"} {
		tk, p, ok = run(k)
	}
	if !ok || tk != 900 || p != 0.25 {
		t.Fatalf("got %v %v %v", tk, p, ok)
	}
}

// typeLine enters text one rune per frame, then presses enter, re-asking ask
// every frame the way plugins do.
func typeLine[T any](w *Wizard, text string, ask func(*Wrapped) (T, bool)) (T, bool) {
	var got T
	var ok bool
	keys := append(strings.Split(text, ""), "enter")
	for _, k := range keys {
		got, ok = ask(w.Wrap(input.New(keyMsg(k)), nil, nil))
	}
	return got, ok
}

func TestInputPercentBounds(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"0", 0, true},
		{"1", 1, true},
		{"0.75", 0.75, true},
		{"1.01", 0, false},
		{"-0.1", 0, false},
		{"NaN", 0, false},
		{"nan", 0, false},
		{"Inf", 0, false},
		{"half", 0, false},
	}
	for _, tt := range tests {
		w := New()
		got, ok := typeLine(w, tt.in, func(ww *Wrapped) (float64, bool) { return ww.InputPercent("Parked?") })
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("InputPercent(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
		if !tt.ok && len(w.Confirmed()) != 0 {
			t.Errorf("InputPercent(%q) confirmed %v", tt.in, w.Confirmed())
		}
	}
}

func TestInputUsizeSyntax(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"+5", 5, true},
		{" 5", 0, false},
		{"5 ", 0, false},
		{"-0", 0, false},
		{"-3", 0, false},
		{"++5", 0, false},
		{"1e3", 0, false},
	}
	for _, tt := range tests {
		w := New()
		got, ok := typeLine(w, tt.in, func(ww *Wrapped) (int, bool) { return ww.InputUsize("How many?") })
		if ok != tt.ok || got != tt.want {
			t.Errorf("InputUsize(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
