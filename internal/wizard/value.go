package wizard

import (
	"fmt"

	"github.com/jask/mapedit/internal/colors"
	"github.com/jask/mapedit/internal/world"
)

// Kind tags which field of a Value is set.
type Kind int

const (
	KindUnit Kind = iota
	KindText
	KindCount
	KindTick
	KindPercent
	KindNeighborhood
	KindScenario
	KindEdits
	KindColor
	KindChoice
)

var kindNames = [...]string{"unit", "text", "count", "tick", "percent", "neighborhood", "scenario", "edits", "color", "choice"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is one confirmed wizard answer. It is a closed variant: exactly the
// field matching kind is meaningful.
type Value struct {
	kind         Kind
	text         string
	count        int
	tick         world.Tick
	percent      float64
	neighborhood world.Neighborhood
	scenario     world.Scenario
	edits        world.MapEdits
	color        colors.Color
	choice       *Choice
}

// Choice is a menu answer: the label the user picked and its payload.
type Choice struct {
	Label string
	Value Value
}

func Unit() Value                     { return Value{kind: KindUnit} }
func Text(s string) Value             { return Value{kind: KindText, text: s} }
func Count(n int) Value               { return Value{kind: KindCount, count: n} }
func TickValue(t world.Tick) Value    { return Value{kind: KindTick, tick: t} }
func Percent(p float64) Value         { return Value{kind: KindPercent, percent: p} }
func ColorValue(c colors.Color) Value { return Value{kind: KindColor, color: c} }

func NeighborhoodValue(n world.Neighborhood) Value {
	return Value{kind: KindNeighborhood, neighborhood: n.Clone()}
}

func ScenarioValue(s world.Scenario) Value { return Value{kind: KindScenario, scenario: s} }

func EditsValue(e world.MapEdits) Value { return Value{kind: KindEdits, edits: e.Clone()} }

func ChoiceValue(label string, v Value) Value {
	return Value{kind: KindChoice, choice: &Choice{Label: label, Value: v.Clone()}}
}

func (v Value) Kind() Kind { return v.kind }

// Clone deep-copies v so a replayed answer never aliases the stored one.
func (v Value) Clone() Value {
	switch v.kind {
	case KindNeighborhood:
		v.neighborhood = v.neighborhood.Clone()
	case KindEdits:
		v.edits = v.edits.Clone()
	case KindChoice:
		c := Choice{Label: v.choice.Label, Value: v.choice.Value.Clone()}
		v.choice = &c
	}
	return v
}

func (v Value) String() string {
	switch v.kind {
	case KindText:
		return fmt.Sprintf("%q", v.text)
	case KindCount:
		return fmt.Sprintf("%d", v.count)
	case KindTick:
		return v.tick.String()
	case KindPercent:
		return fmt.Sprintf("%.0f%%", v.percent*100)
	case KindNeighborhood:
		return "neighborhood " + v.neighborhood.Name
	case KindScenario:
		return "scenario " + v.scenario.Name
	case KindEdits:
		return "edits " + v.edits.Name
	case KindColor:
		return string(v.color)
	case KindChoice:
		return fmt.Sprintf("%s (%s)", v.choice.Label, v.choice.Value)
	default:
		return "()"
	}
}

func (v Value) AsText() (string, bool)        { return v.text, v.kind == KindText }
func (v Value) AsCount() (int, bool)          { return v.count, v.kind == KindCount }
func (v Value) AsTick() (world.Tick, bool)    { return v.tick, v.kind == KindTick }
func (v Value) AsPercent() (float64, bool)    { return v.percent, v.kind == KindPercent }
func (v Value) AsColor() (colors.Color, bool) { return v.color, v.kind == KindColor }

func (v Value) AsNeighborhood() (world.Neighborhood, bool) {
	if v.kind != KindNeighborhood {
		return world.Neighborhood{}, false
	}
	return v.neighborhood.Clone(), true
}

func (v Value) AsScenario() (world.Scenario, bool) { return v.scenario, v.kind == KindScenario }

func (v Value) AsEdits() (world.MapEdits, bool) {
	if v.kind != KindEdits {
		return world.MapEdits{}, false
	}
	return v.edits.Clone(), true
}

func (v Value) AsChoice() (Choice, bool) {
	if v.kind != KindChoice {
		return Choice{}, false
	}
	return Choice{Label: v.choice.Label, Value: v.choice.Value.Clone()}, true
}

// expect panics when a replayed answer has the wrong variant. That only
// happens when a workflow asks its questions in an input-dependent order.
func (v Value) expect(k Kind) Value {
	if v.kind != k {
		panic(fmt.Sprintf("wizard replay: expected %s answer, got %s %s", k, v.kind, v))
	}
	return v
}
