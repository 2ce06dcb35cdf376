package widgets

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/mapedit/internal/input"
)

func items(labels ...string) []MenuItem[int] {
	out := make([]MenuItem[int], len(labels))
	for i, l := range labels {
		out[i] = MenuItem[int]{Label: l, Value: i}
	}
	return out
}

func TestMenuFilterRanksPrefixFirst(t *testing.T) {
	m := NewMenu("Pick", items("rush hour", "light traffic", "heavy rain"))
	m.SetQuery("h")
	got := m.Items()
	if len(got) != 3 {
		t.Fatalf("filtered = %d, want 3", len(got))
	}
	if got[0].Label != "heavy rain" {
		t.Fatalf("first = %q, want the prefix match", got[0].Label)
	}
	m.SetQuery("xyz")
	if len(m.Items()) != 0 {
		t.Fatal("nothing should match xyz")
	}
	if _, ok := m.Current(); ok {
		t.Fatal("empty menu has no current item")
	}
}

func TestMenuCursorClamps(t *testing.T) {
	m := NewMenu("Pick", items("a", "b"))
	m.HandleKey("up")
	if m.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", m.Cursor())
	}
	m.HandleKey("down")
	m.HandleKey("down")
	if m.Cursor() != 1 {
		t.Fatalf("cursor = %d, want 1", m.Cursor())
	}
	res := m.HandleKey("enter")
	if res.Outcome != Done || res.Label != "b" || res.Value != 1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestMenuEnterOnEmptyStaysActive(t *testing.T) {
	m := NewMenu[int]("Pick", nil)
	if res := m.HandleKey("enter"); res.Outcome != StillActive {
		t.Fatalf("outcome = %v, want still active", res.Outcome)
	}
	if res := m.HandleKey("esc"); res.Outcome != Canceled {
		t.Fatalf("outcome = %v, want canceled", res.Outcome)
	}
}

func TestMenuEventConsumesKeys(t *testing.T) {
	m := NewMenu("Pick", items("a"))
	in := input.New(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m.Event(in)
	if !in.HasBeenConsumed() {
		t.Fatal("menu must consume the keys it sees")
	}
	if m.Query() != "q" {
		t.Fatalf("query = %q", m.Query())
	}
}

func TestTextBoxOutcomes(t *testing.T) {
	tb := NewTextBox("Name?", "ab")
	tb.Event(input.New(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}))
	res := tb.Event(input.New(tea.KeyMsg{Type: tea.KeyEnter}))
	if res.Outcome != Done || res.Value != "abc" {
		t.Fatalf("result = %+v", res)
	}
	if res := tb.Event(input.New(tea.KeyMsg{Type: tea.KeyEsc})); res.Outcome != Canceled {
		t.Fatalf("esc outcome = %v", res.Outcome)
	}
	if res := tb.Event(input.New(input.UpdateMsg{})); res.Outcome != StillActive {
		t.Fatalf("tick outcome = %v", res.Outcome)
	}
}

func labels(m *Menu[int]) []string {
	var out []string
	for _, it := range m.Items() {
		out = append(out, it.Label)
	}
	return out
}

func TestMenuRankTiers(t *testing.T) {
	m := NewMenu("Pick", items("spread out", "not a ring", "rain delay", "ringroad"))
	m.SetQuery("r")
	got := strings.Join(labels(m), ",")
	if got != "rain delay,ringroad,not a ring,spread out" {
		t.Fatalf("order = %s", got)
	}

	m.SetQuery("ring")
	got = strings.Join(labels(m), ",")
	if got != "ringroad,not a ring" {
		t.Fatalf("order = %s, want label prefix before word prefix", got)
	}

	m.SetQuery("sdo")
	if got := labels(m); len(got) != 1 || got[0] != "spread out" {
		t.Fatalf("scattered match = %v", got)
	}
}

func TestMenuTiesBreakOnEditDistance(t *testing.T) {
	m := NewMenu("Pick", items("main streets", "main st"))
	m.SetQuery("main st")
	if got := labels(m); got[0] != "main st" {
		t.Fatalf("first = %q, want the closer label", got[0])
	}

	m = NewMenu("Pick", items("lane 22", "lane 2"))
	m.SetQuery("2")
	if got := labels(m); got[0] != "lane 2" {
		t.Fatalf("first = %q, want the word with fewer edits", got[0])
	}
}

func TestMenuFilterKeys(t *testing.T) {
	m := NewMenu("Pick", items("café", "cafe"))
	for _, k := range []string{"c", "a", "f", "é"} {
		m.HandleKey(k)
	}
	if m.Query() != "café" {
		t.Fatalf("query = %q", m.Query())
	}
	if got := labels(m); len(got) != 1 || got[0] != "café" {
		t.Fatalf("filtered = %v", got)
	}
	m.HandleKey("backspace")
	if m.Query() != "caf" {
		t.Fatalf("query after backspace = %q", m.Query())
	}
	m.HandleKey("f1")
	m.HandleKey("ctrl+a")
	if m.Query() != "caf" {
		t.Fatalf("named keys edited the filter: %q", m.Query())
	}
}
