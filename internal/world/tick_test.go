package world

import "testing"

func TestParseTick(t *testing.T) {
	cases := []struct {
		in   string
		want Tick
		ok   bool
	}{
		{"5", 50, true},
		{"5.3", 53, true},
		{"1:05", 650, true},
		{"01:00:00", 36000, true},
		{"90", 900, true},
		{"1:60", 0, false},
		{"1:2:3:4", 0, false},
		{"", 0, false},
		{"1.25", 0, false},
		{"a:00", 0, false},
		{":30", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseTick(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseTick(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTickStringRoundTrips(t *testing.T) {
	for _, tick := range []Tick{0, 7, 650, 36001, TickFromSeconds(3599)} {
		back, ok := ParseTick(tick.String())
		if !ok || back != tick {
			t.Fatalf("ParseTick(%q) = %v, %v; want %v", tick.String(), back, ok, tick)
		}
	}
}
