package world

import (
	"fmt"
	"strconv"
	"strings"
)

// Tick is simulation time in tenths of a second.
type Tick uint32

const TicksPerSecond = 10

func TickFromSeconds(secs uint32) Tick { return Tick(secs * TicksPerSecond) }

func (t Tick) Seconds() float64 { return float64(t) / TicksPerSecond }

func (t Tick) Next() Tick { return t + 1 }

// String renders HH:MM:SS.s.
func (t Tick) String() string {
	tenths := uint32(t) % TicksPerSecond
	total := uint32(t) / TicksPerSecond
	return fmt.Sprintf("%02d:%02d:%02d.%d", total/3600, (total/60)%60, total%60, tenths)
}

// ParseTick accepts [[HH:]MM:]SS[.s]. Minutes and seconds above 59 are only
// allowed in the leading field.
func ParseTick(s string) (Tick, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false
	}

	last := parts[len(parts)-1]
	tenths := uint64(0)
	if dot := strings.IndexByte(last, '.'); dot >= 0 {
		frac := last[dot+1:]
		if len(frac) != 1 {
			return 0, false
		}
		d, err := strconv.ParseUint(frac, 10, 8)
		if err != nil {
			return 0, false
		}
		tenths = d
		last = last[:dot]
	}
	parts[len(parts)-1] = last

	var total uint64
	for i, p := range parts {
		if p == "" {
			return 0, false
		}
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, false
		}
		if i > 0 && v > 59 {
			return 0, false
		}
		total = total*60 + v
	}
	ticks := total*TicksPerSecond + tenths
	if ticks > uint64(^uint32(0)) {
		return 0, false
	}
	return Tick(ticks), true
}
