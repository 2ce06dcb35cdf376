package world

import (
	"fmt"
	"strconv"
	"strings"
)

type RoadID int
type IntersectionID int
type BuildingID int
type CarID int

// TurnID identifies a movement through an intersection from one road to another.
type TurnID struct {
	Parent IntersectionID
	Src    RoadID
	Dst    RoadID
}

func (t TurnID) String() string {
	return fmt.Sprintf("turn %d->%d at i%d", t.Src, t.Dst, t.Parent)
}

// ObjKind tags which field of ID is meaningful.
type ObjKind int

const (
	ObjNone ObjKind = iota
	ObjRoad
	ObjIntersection
	ObjTurn
	ObjBuilding
	ObjCar
)

func (k ObjKind) String() string {
	switch k {
	case ObjRoad:
		return "road"
	case ObjIntersection:
		return "intersection"
	case ObjTurn:
		return "turn"
	case ObjBuilding:
		return "building"
	case ObjCar:
		return "car"
	default:
		return "none"
	}
}

// ID names any selectable object. The zero value means nothing is selected.
// IDs are comparable and usable as map keys.
type ID struct {
	Kind ObjKind
	Num  int
	Turn TurnID
}

func RoadObj(r RoadID) ID                 { return ID{Kind: ObjRoad, Num: int(r)} }
func IntersectionObj(i IntersectionID) ID { return ID{Kind: ObjIntersection, Num: int(i)} }
func BuildingObj(b BuildingID) ID         { return ID{Kind: ObjBuilding, Num: int(b)} }
func CarObj(c CarID) ID                   { return ID{Kind: ObjCar, Num: int(c)} }
func TurnObj(t TurnID) ID                 { return ID{Kind: ObjTurn, Turn: t} }

func (id ID) IsNone() bool { return id.Kind == ObjNone }

func (id ID) AsRoad() (RoadID, bool) { return RoadID(id.Num), id.Kind == ObjRoad }
func (id ID) AsIntersection() (IntersectionID, bool) {
	return IntersectionID(id.Num), id.Kind == ObjIntersection
}
func (id ID) AsBuilding() (BuildingID, bool) { return BuildingID(id.Num), id.Kind == ObjBuilding }
func (id ID) AsCar() (CarID, bool)           { return CarID(id.Num), id.Kind == ObjCar }
func (id ID) AsTurn() (TurnID, bool)         { return id.Turn, id.Kind == ObjTurn }

func (id ID) String() string {
	switch id.Kind {
	case ObjNone:
		return "nothing"
	case ObjTurn:
		return id.Turn.String()
	default:
		return fmt.Sprintf("%s #%d", id.Kind, id.Num)
	}
}

var idPrefixes = map[byte]ObjKind{
	'r': ObjRoad,
	'i': ObjIntersection,
	'b': ObjBuilding,
	'c': ObjCar,
}

// ParseID reads the short warp syntax: r12, i3, b7, c2.
func ParseID(s string) (ID, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 2 {
		return ID{}, false
	}
	kind, ok := idPrefixes[s[0]]
	if !ok {
		return ID{}, false
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil || n < 0 {
		return ID{}, false
	}
	return ID{Kind: kind, Num: n}, true
}
