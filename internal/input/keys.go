package input

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

// Binding is one action's keys within a scope.
type Binding struct {
	Action Action
	Keys   []string
	Help   string
	Scopes []string
}

// Override replaces the keys of one registered action. Loaded from config.
type Override struct {
	Scope  string   `mapstructure:"scope"`
	Action string   `mapstructure:"action"`
	Keys   []string `mapstructure:"keys"`
}

const (
	ScopeGlobal     = "global"
	ScopeApp        = "app"
	ScopeSim        = "sim"
	ScopeEditor     = "editor"
	ScopeTimeTravel = "time_travel"
	ScopeLayers     = "layers"
	ScopeMenu       = "menu"
)

const (
	// Tool activation.
	ActionLogs          Action = "logs"
	ActionSearch        Action = "search"
	ActionWarp          Action = "warp"
	ActionABTests       Action = "ab_tests"
	ActionColorPicker   Action = "color_picker"
	ActionNeighborhoods Action = "neighborhoods"
	ActionMapEdits      Action = "map_edits"
	ActionRoadEditor    Action = "road_editor"
	ActionScenarios     Action = "scenarios"
	ActionStopSign      Action = "stop_sign_editor"
	ActionTrafficSignal Action = "traffic_signal_editor"
	ActionChokepoints   Action = "chokepoints"
	ActionClassify      Action = "classify"
	ActionFloodfill     Action = "floodfill"
	ActionValidate      Action = "validate"
	ActionHide          Action = "hide"
	ActionUnhide        Action = "unhide_all"
	ActionDebugObjects  Action = "debug_objects"
	ActionDiffAll       Action = "diff_all"
	ActionDiffTrip      Action = "diff_trip"
	ActionShowScore     Action = "show_score"
	ActionFollow        Action = "follow"
	ActionSummary       Action = "neighborhood_summary"
	ActionActivity      Action = "activity"
	ActionRoute         Action = "route"
	ActionTurns         Action = "cycle_turns"
	ActionTimeTravel    Action = "time_travel"

	// App.
	ActionQuit     Action = "quit"
	ActionPanLeft  Action = "pan_left"
	ActionPanRight Action = "pan_right"
	ActionPanUp    Action = "pan_up"
	ActionPanDown  Action = "pan_down"
	ActionZoomIn   Action = "zoom_in"
	ActionZoomOut  Action = "zoom_out"
	ActionSwap     Action = "swap_maps"

	// Sim.
	ActionRunPause      Action = "run_pause"
	ActionStep          Action = "step"
	ActionSaveSavestate Action = "save_savestate"
	ActionLoadSavestate Action = "load_savestate"

	// Shared inside tools.
	ActionQuitTool Action = "quit_tool"
	ActionConfirm  Action = "confirm"
	ActionToggle   Action = "toggle"
	ActionNext     Action = "next"
	ActionPrev     Action = "prev"
	ActionAdd      Action = "add"
	ActionDelete   Action = "delete"
	ActionSave     Action = "save"
	ActionLoad     Action = "load"
	ActionReset    Action = "reset"
	ActionUndo     Action = "undo"
	ActionNavigate Action = "navigate"

	// Layers.
	ActionLayerRoads         Action = "layer_roads"
	ActionLayerBuildings     Action = "layer_buildings"
	ActionLayerCars          Action = "layer_cars"
	ActionLayerTurns         Action = "layer_all_turn_icons"
	ActionLayerIntersections Action = "layer_intersections"
)

type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

// Keys is the process-wide registry. The composition root applies config
// overrides to it before the first frame.
var Keys = NewKeyRegistry()

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(Binding{Action: action, Keys: keys, Help: help, Scopes: []string{scope}})
	}

	// Blocking tools.
	reg(ScopeGlobal, ActionLogs, []string{"L"}, "show logs")
	reg(ScopeGlobal, ActionSearch, []string{"/"}, "search for something")
	reg(ScopeGlobal, ActionWarp, []string{"j"}, "warp to an object")
	reg(ScopeGlobal, ActionABTests, []string{"B"}, "manage A/B tests")
	reg(ScopeGlobal, ActionColorPicker, []string{"P"}, "configure colors")
	reg(ScopeGlobal, ActionNeighborhoods, []string{"N"}, "manage neighborhoods")
	reg(ScopeGlobal, ActionMapEdits, []string{"E"}, "manage map edits")
	reg(ScopeGlobal, ActionRoadEditor, []string{"R"}, "edit lanes of selected road")
	reg(ScopeGlobal, ActionScenarios, []string{"W"}, "manage scenarios")
	reg(ScopeGlobal, ActionStopSign, []string{"S"}, "edit stop signs")
	reg(ScopeGlobal, ActionTrafficSignal, []string{"T"}, "edit traffic signal")
	reg(ScopeGlobal, ActionChokepoints, []string{"C"}, "find chokepoints")
	reg(ScopeGlobal, ActionClassify, []string{"O"}, "classify roads")
	reg(ScopeGlobal, ActionFloodfill, []string{"F"}, "floodfill from road")
	reg(ScopeGlobal, ActionValidate, []string{"V"}, "validate map geometry")

	// Overlays and ambient toggles.
	reg(ScopeGlobal, ActionHide, []string{"H"}, "hide selected object")
	reg(ScopeGlobal, ActionUnhide, []string{"U"}, "unhide everything")
	reg(ScopeGlobal, ActionDebugObjects, []string{"I"}, "debug selected object")
	reg(ScopeGlobal, ActionDiffAll, []string{"D"}, "diff all cars")
	reg(ScopeGlobal, ActionDiffTrip, []string{"d"}, "diff selected car's trip")
	reg(ScopeGlobal, ActionShowScore, []string{"G"}, "show score")
	reg(ScopeGlobal, ActionFollow, []string{"f"}, "follow selected car")
	reg(ScopeGlobal, ActionSummary, []string{"z"}, "neighborhood summaries")
	reg(ScopeGlobal, ActionActivity, []string{"A"}, "show activity")
	reg(ScopeGlobal, ActionRoute, []string{"r"}, "show route of selected car")
	reg(ScopeGlobal, ActionTurns, []string{"tab"}, "cycle turns")
	reg(ScopeGlobal, ActionTimeTravel, []string{"t"}, "time travel")

	reg(ScopeApp, ActionQuit, []string{"q", "ctrl+c"}, "quit")
	reg(ScopeApp, ActionPanLeft, []string{"left"}, "pan left")
	reg(ScopeApp, ActionPanRight, []string{"right"}, "pan right")
	reg(ScopeApp, ActionPanUp, []string{"up"}, "pan up")
	reg(ScopeApp, ActionPanDown, []string{"down"}, "pan down")
	reg(ScopeApp, ActionZoomIn, []string{"+", "="}, "zoom in")
	reg(ScopeApp, ActionZoomOut, []string{"-"}, "zoom out")
	reg(ScopeApp, ActionSwap, []string{"X"}, "swap primary and secondary")

	reg(ScopeSim, ActionRunPause, []string{"space", " "}, "run/pause sim")
	reg(ScopeSim, ActionStep, []string{"m"}, "step sim")
	reg(ScopeSim, ActionSaveSavestate, []string{"ctrl+s"}, "save sim state")
	reg(ScopeSim, ActionLoadSavestate, []string{"ctrl+l"}, "load sim state")

	reg(ScopeEditor, ActionQuitTool, []string{"esc"}, "quit")
	reg(ScopeEditor, ActionConfirm, []string{"enter"}, "done")
	reg(ScopeEditor, ActionToggle, []string{"space", " "}, "toggle")
	reg(ScopeEditor, ActionNext, []string{"]", "n"}, "next")
	reg(ScopeEditor, ActionPrev, []string{"["}, "previous")
	reg(ScopeEditor, ActionAdd, []string{"a"}, "add")
	reg(ScopeEditor, ActionDelete, []string{"x"}, "delete")
	reg(ScopeEditor, ActionSave, []string{"s"}, "save")
	reg(ScopeEditor, ActionLoad, []string{"l"}, "load")
	reg(ScopeEditor, ActionReset, []string{"R"}, "reset")
	reg(ScopeEditor, ActionUndo, []string{"backspace"}, "undo")
	reg(ScopeEditor, ActionNavigate, []string{"j/k", "j", "k", "up", "down", "pgup", "pgdown"}, "scroll")

	reg(ScopeTimeTravel, ActionPrev, []string{","}, "back in time")
	reg(ScopeTimeTravel, ActionNext, []string{"."}, "forward in time")
	reg(ScopeTimeTravel, ActionQuitTool, []string{"t", "esc"}, "back to live sim")

	reg(ScopeLayers, ActionLayerRoads, []string{"1"}, "roads")
	reg(ScopeLayers, ActionLayerBuildings, []string{"2"}, "buildings")
	reg(ScopeLayers, ActionLayerCars, []string{"3"}, "cars")
	reg(ScopeLayers, ActionLayerTurns, []string{"4"}, "all turn icons")
	reg(ScopeLayers, ActionLayerIntersections, []string{"5"}, "intersections")

	reg(ScopeMenu, ActionNavigate, []string{"up/down", "up", "down", "ctrl+p", "ctrl+n"}, "navigate")
	reg(ScopeMenu, ActionConfirm, []string{"enter"}, "choose")
	reg(ScopeMenu, ActionQuitTool, []string{"esc"}, "cancel")

	return r
}

func (r *KeyRegistry) Register(b Binding) {
	if r == nil {
		return
	}
	for _, scope := range b.Scopes {
		scope = strings.TrimSpace(scope)
		if scope == "" || len(b.Keys) == 0 {
			continue
		}
		if _, ok := r.indexByScope[scope]; !ok {
			r.indexByScope[scope] = make(map[string]*Binding)
		}
		normKeys := normalizeKeyList(b.Keys)
		if len(normKeys) == 0 || r.scopeHasAnyKey(scope, normKeys) {
			continue
		}

		copyBinding := b
		copyBinding.Keys = normKeys
		copyBinding.Scopes = []string{scope}
		r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
		for _, k := range copyBinding.Keys {
			r.indexByScope[scope][k] = &copyBinding
		}
	}
}

func (r *KeyRegistry) BindingsForScope(scope string) []Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]Binding, 0, len(items))
	for _, b := range items {
		out = append(out, *b)
	}
	return out
}

// Lookup finds the binding for a key in scope, falling back to global.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.lookupInScope(keyName, scope); b != nil {
		return b
	}
	if scope != ScopeGlobal {
		return r.lookupInScope(keyName, ScopeGlobal)
	}
	return nil
}

// Get returns the bubbles binding for an action. An unknown action yields a
// disabled binding that never matches.
func (r *KeyRegistry) Get(scope string, action Action) key.Binding {
	for _, b := range r.bindingsByScope[scope] {
		if b.Action == action {
			return key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(helpKey(b.Keys), b.Help))
		}
	}
	return key.NewBinding(key.WithDisabled())
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	items := r.BindingsForScope(scope)
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(helpKey(b.Keys), b.Help)))
	}
	return out
}

func helpKey(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func (r *KeyRegistry) lookupInScope(keyName, scope string) *Binding {
	lookup, ok := r.indexByScope[scope]
	if !ok {
		return nil
	}
	return lookup[keyName]
}

func (r *KeyRegistry) scopeHasAnyKey(scope string, keys []string) bool {
	lookup := r.indexByScope[scope]
	for _, k := range keys {
		if _, ok := lookup[k]; ok {
			return true
		}
	}
	return false
}

// ApplyOverrides rebinds actions. Unknown scopes or actions, duplicate
// entries and key conflicts within a scope are errors.
func (r *KeyRegistry) ApplyOverrides(items []Override) error {
	if r == nil || len(items) == 0 {
		return nil
	}
	type pair struct {
		scope  string
		action Action
	}
	seenPair := make(map[pair]bool)
	for _, o := range items {
		scope := strings.TrimSpace(o.Scope)
		if scope == "" {
			return fmt.Errorf("keybinding override: scope is required")
		}
		action := Action(strings.TrimSpace(o.Action))
		if action == "" {
			return fmt.Errorf("keybinding override scope=%q: action is required", scope)
		}
		keys := normalizeKeyList(o.Keys)
		if len(keys) == 0 {
			return fmt.Errorf("keybinding override scope=%q action=%q: keys are required", scope, action)
		}
		bindings := r.bindingsByScope[scope]
		if len(bindings) == 0 {
			return fmt.Errorf("keybinding override scope=%q action=%q: unknown scope", scope, action)
		}
		var target *Binding
		for _, b := range bindings {
			if b.Action == action {
				target = b
				break
			}
		}
		if target == nil {
			return fmt.Errorf("keybinding override scope=%q action=%q: unknown action in scope", scope, action)
		}
		p := pair{scope: scope, action: action}
		if seenPair[p] {
			return fmt.Errorf("keybinding override scope=%q action=%q: duplicated override entry", scope, action)
		}
		seenPair[p] = true
		target.Keys = keys
	}

	r.rebuildIndex()
	for scope, bindings := range r.bindingsByScope {
		seen := make(map[string]Action)
		for _, b := range bindings {
			for _, k := range b.Keys {
				if prev, ok := seen[k]; ok {
					return fmt.Errorf("keybinding conflict in scope=%q: key %q used by both %q and %q", scope, k, prev, b.Action)
				}
				seen[k] = b.Action
			}
		}
	}
	return nil
}

// Export lists every binding, sorted by scope then action.
func (r *KeyRegistry) Export() []Override {
	if r == nil {
		return nil
	}
	var out []Override
	for scope, bindings := range r.bindingsByScope {
		for _, b := range bindings {
			out = append(out, Override{Scope: scope, Action: string(b.Action), Keys: append([]string(nil), b.Keys...)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope != out[j].Scope {
			return out[i].Scope < out[j].Scope
		}
		return out[i].Action < out[j].Action
	})
	return out
}

func (r *KeyRegistry) rebuildIndex() {
	r.indexByScope = make(map[string]map[string]*Binding, len(r.bindingsByScope))
	for scope, bindings := range r.bindingsByScope {
		r.indexByScope[scope] = make(map[string]*Binding)
		for _, b := range bindings {
			for _, k := range b.Keys {
				r.indexByScope[scope][k] = b
			}
		}
	}
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(keyName string) string {
	if keyName == " " {
		return " "
	}
	trimmed := strings.TrimSpace(keyName)
	if len(trimmed) == 1 {
		// Single runes keep their case so "r" and "R" are distinct actions.
		return trimmed
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "ctl+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	s = strings.ReplaceAll(s, "spacebar", "space")
	return s
}
