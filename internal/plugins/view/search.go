package view

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/input"
	"github.com/jask/mapedit/internal/render"
	"github.com/jask/mapedit/internal/ui"
	"github.com/jask/mapedit/internal/widgets"
	"github.com/jask/mapedit/internal/world"
)

// MaxTypos is the edit distance a label word may be from the query and still
// match.
const MaxTypos = 1

// SearchState is entered blocking, while the user types a query, and becomes
// a non-blocking highlight once the query is confirmed.
type SearchState struct {
	ui.Base
	tb     *widgets.TextBox
	filter string
	cache  map[world.ID]bool
}

func NewSearchState(ctx *ui.PluginCtx) (*SearchState, bool) {
	if !ctx.Input.Action(input.ScopeGlobal, input.ActionSearch) {
		return nil, false
	}
	return &SearchState{tb: widgets.NewTextBox("Search for what?", "")}, true
}

func (s *SearchState) Kind() ui.Kind { return ui.KindSearch }

// IsBlocking is true while the query is still being typed.
func (s *SearchState) IsBlocking() bool { return s.tb != nil }

func (s *SearchState) Filter() string { return s.filter }

func (s *SearchState) Event(ctx *ui.PluginCtx) bool {
	if s.tb != nil {
		res := s.tb.Event(ctx.Input)
		switch res.Outcome {
		case widgets.Canceled:
			return false
		case widgets.Done:
			s.tb = nil
			s.filter = strings.ToLower(strings.TrimSpace(res.Value))
			s.cache = make(map[world.ID]bool)
			return s.filter != ""
		}
		return true
	}
	if ctx.Input.Action(input.ScopeEditor, input.ActionQuitTool) {
		return false
	}
	ctx.Hints.AddOSD("Search for " + s.filter + " (esc to clear)")
	return true
}

// Matches reports whether label contains the filter, or has a word within
// MaxTypos edits of it.
func Matches(label, filter string) bool {
	label = strings.ToLower(label)
	if filter == "" {
		return false
	}
	if strings.Contains(label, filter) {
		return true
	}
	if len(filter) < 4 {
		return false
	}
	for _, w := range strings.Fields(label) {
		if levenshtein.ComputeDistance(w, filter) <= MaxTypos {
			return true
		}
	}
	return false
}

func (s *SearchState) ColorFor(id world.ID, ctx *ui.Ctx) (colors.Color, bool) {
	if s.tb != nil || s.filter == "" {
		return "", false
	}
	hit, ok := s.cache[id]
	if !ok {
		hit = Matches(ctx.UI.Map.Label(id), s.filter)
		s.cache[id] = hit
	}
	if !hit {
		return "", false
	}
	return ctx.CS.Get("search result"), true
}

func (s *SearchState) Draw(g *render.Canvas, ctx *ui.Ctx) {
	if s.tb != nil {
		s.tb.Draw(g)
	}
}
