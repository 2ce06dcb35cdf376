package logs

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestBufferWrapsOldestFirst(t *testing.T) {
	b := &buffer{lines: make([]string, 3)}
	for i := range 5 {
		b.add(fmt.Sprint(i))
	}
	got := strings.Join(b.snapshot(), ",")
	if got != "2,3,4" {
		t.Fatalf("snapshot = %q, want 2,3,4", got)
	}
	if b.total != 5 {
		t.Fatalf("total = %d, want 5", b.total)
	}
}

func TestBufferPartial(t *testing.T) {
	b := &buffer{lines: make([]string, 3)}
	b.add("only")
	if got := b.snapshot(); len(got) != 1 || got[0] != "only" {
		t.Fatalf("snapshot = %v", got)
	}
}

func TestHookCapturesEntries(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	Initialize(logger)
	Initialize(logger)

	before := Total()
	logger.WithField("road", 3).Warn("lane changed")
	if Total() != before+1 {
		t.Fatalf("total = %d, want %d; a second Initialize must not add another hook", Total(), before+1)
	}
	lines := Lines()
	last := lines[len(lines)-1]
	if !strings.Contains(last, "[WARN] lane changed road=3") {
		t.Fatalf("last line = %q", last)
	}
}
