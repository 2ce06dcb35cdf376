package widgets

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
)

type MenuItem[T any] struct {
	Label string
	Value T
}

const menuRows = 12

// Menu is a choice list filtered by typing. Up/down move, Enter chooses, Esc
// cancels, printable keys edit the filter.
type Menu[T any] struct {
	title    string
	items    []MenuItem[T]
	filtered []MenuItem[T]
	query    string
	cursor   int
}

func NewMenu[T any](title string, items []MenuItem[T]) *Menu[T] {
	m := &Menu[T]{title: strings.TrimSpace(title)}
	m.items = append([]MenuItem[T](nil), items...)
	m.rebuildFiltered()
	return m
}

func (m *Menu[T]) Title() string { return m.title }
func (m *Menu[T]) Query() string { return m.query }
func (m *Menu[T]) Cursor() int   { return m.cursor }

func (m *Menu[T]) Items() []MenuItem[T] {
	return append([]MenuItem[T](nil), m.filtered...)
}

func (m *Menu[T]) SetQuery(q string) {
	m.query = q
	m.rebuildFiltered()
}

// Current is the highlighted item.
func (m *Menu[T]) Current() (MenuItem[T], bool) {
	if len(m.filtered) == 0 {
		return MenuItem[T]{}, false
	}
	idx := min(max(m.cursor, 0), len(m.filtered)-1)
	return m.filtered[idx], true
}

// Event consumes any key and reports the outcome.
func (m *Menu[T]) Event(in *input.UserInput) InputResult[T] {
	if dir, ok := in.Wheel(); ok {
		m.move(dir)
		return InputResult[T]{Outcome: StillActive}
	}
	k, ok := in.Key()
	if !ok {
		return InputResult[T]{Outcome: StillActive}
	}
	in.Consume()
	return m.HandleKey(k.String())
}

func (m *Menu[T]) HandleKey(keyName string) InputResult[T] {
	switch keyName {
	case "up", "ctrl+p":
		m.move(-1)
	case "down", "ctrl+n":
		m.move(1)
	case "pgup":
		m.move(-menuRows)
	case "pgdown":
		m.move(menuRows)
	case "enter":
		item, ok := m.Current()
		if !ok {
			return InputResult[T]{Outcome: StillActive}
		}
		return InputResult[T]{Outcome: Done, Label: item.Label, Value: item.Value}
	case "esc":
		return InputResult[T]{Outcome: Canceled}
	case "backspace":
		if _, size := utf8.DecodeLastRuneInString(m.query); size > 0 {
			m.SetQuery(m.query[:len(m.query)-size])
		}
	default:
		if filterKey(keyName) {
			m.SetQuery(m.query + keyName)
		}
	}
	return InputResult[T]{Outcome: StillActive}
}

func (m *Menu[T]) move(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Menu[T]) Draw(c *render.Canvas) {
	lines := []string{m.title}
	if m.query != "" {
		lines = append(lines, "filter: "+m.query)
	}
	start := 0
	if m.cursor >= menuRows {
		start = m.cursor - menuRows + 1
	}
	end := min(start+menuRows, len(m.filtered))
	for i := start; i < end; i++ {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		lines = append(lines, marker+m.filtered[i].Label)
	}
	if len(m.filtered) == 0 {
		lines = append(lines, "  (no matches)")
	} else if len(m.filtered) > menuRows {
		lines = append(lines, fmt.Sprintf("  %d/%d", m.cursor+1, len(m.filtered)))
	}
	c.DrawBox(lines, render.Center)
}

// menuMatch ranks one label against the filter: lower tier first, then fewer
// edits between the filter and the label or its nearest word.
type menuMatch struct {
	tier  int
	dist  int
	index int
}

const (
	tierLabelPrefix = iota
	tierWordPrefix
	tierSubstring
	tierScattered
)

func (m *Menu[T]) rebuildFiltered() {
	q := strings.ToLower(strings.TrimSpace(m.query))
	type ranked struct {
		item MenuItem[T]
		menuMatch
	}
	rows := make([]ranked, 0, len(m.items))
	for idx, item := range m.items {
		mm, ok := matchLabel(item.Label, q)
		if !ok {
			continue
		}
		mm.index = idx
		rows = append(rows, ranked{item: item, menuMatch: mm})
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].menuMatch, rows[j].menuMatch
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		return a.index < b.index
	})
	m.filtered = m.filtered[:0]
	for _, row := range rows {
		m.filtered = append(m.filtered, row.item)
	}
	m.move(0)
}

// matchLabel reports whether the lowercased query q selects label. The empty
// query selects everything in the original order.
func matchLabel(label, q string) (menuMatch, bool) {
	if q == "" {
		return menuMatch{}, true
	}
	l := strings.ToLower(label)
	words := strings.Fields(l)
	dist := levenshtein.ComputeDistance(l, q)
	for _, w := range words {
		dist = min(dist, levenshtein.ComputeDistance(w, q))
	}
	switch {
	case strings.HasPrefix(l, q):
		return menuMatch{tier: tierLabelPrefix, dist: dist}, true
	case slices.ContainsFunc(words, func(w string) bool { return strings.HasPrefix(w, q) }):
		return menuMatch{tier: tierWordPrefix, dist: dist}, true
	case strings.Contains(l, q):
		return menuMatch{tier: tierSubstring, dist: dist}, true
	case inOrder(l, q):
		return menuMatch{tier: tierScattered, dist: dist}, true
	}
	return menuMatch{}, false
}

// inOrder reports whether every rune of q appears in s, in order.
func inOrder(s, q string) bool {
	rest := s
	for _, r := range q {
		i := strings.IndexRune(rest, r)
		if i < 0 {
			return false
		}
		rest = rest[i+utf8.RuneLen(r):]
	}
	return true
}

// filterKey is a single printable character the filter accepts.
func filterKey(keyName string) bool {
	r, size := utf8.DecodeRuneInString(keyName)
	return size == len(keyName) && r != utf8.RuneError && unicode.IsPrint(r)
}
