// Package logs keeps the tail of the process log in memory so the log
// console can show it inside the TUI.
package logs

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const Capacity = 500

type buffer struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
	total int
}

var (
	once sync.Once
	buf  = &buffer{lines: make([]string, Capacity)}
)

// Initialize installs the capture hook on logger. Only the first call has an
// effect; the composition root makes it before accepting input.
func Initialize(logger *logrus.Logger) {
	once.Do(func() {
		logger.AddHook(&hook{})
	})
}

// Lines returns buffered entries, oldest first.
func Lines() []string {
	return buf.snapshot()
}

// Total counts every captured entry, including ones evicted from the buffer.
func Total() int {
	buf.mu.Lock()
	defer buf.mu.Unlock()
	return buf.total
}

func (b *buffer) add(line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines[b.next] = line
	b.next = (b.next + 1) % len(b.lines)
	if b.next == 0 {
		b.full = true
	}
	b.total++
}

func (b *buffer) snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.full {
		return append([]string(nil), b.lines[:b.next]...)
	}
	out := make([]string, 0, len(b.lines))
	out = append(out, b.lines[b.next:]...)
	return append(out, b.lines[:b.next]...)
}

type hook struct{}

func (*hook) Levels() []logrus.Level { return logrus.AllLevels }

func (*hook) Fire(e *logrus.Entry) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] %s", e.Time.Format("15:04:05"), strings.ToUpper(e.Level.String()[:4]), e.Message)
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, e.Data[k])
	}
	buf.add(sb.String())
	return nil
}
