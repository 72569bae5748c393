// Package schedule runs delayed callbacks that can be cancelled before they
// fire. Panel transitions and auth flow follow-ups are built on it.
package schedule

import (
	"sort"
	"sync"
	"time"
)

// Task is a pending callback.
type Task interface {
	// Stop prevents the callback from running. It reports false when the
	// callback already ran or was already stopped.
	Stop() bool
}

// Scheduler runs fn once after d has elapsed.
type Scheduler interface {
	After(d time.Duration, fn func()) Task
}

// Real is the wall-clock Scheduler backed by time.AfterFunc.
type Real struct{}

// After implements Scheduler.
func (Real) After(d time.Duration, fn func()) Task {
	return time.AfterFunc(d, fn)
}

// Manual is a Scheduler whose time only moves when Advance is called.
// Tests use it to step through transitions deterministically.
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	nextSeq int
	tasks   []*manualTask
}

type manualTask struct {
	m       *Manual
	due     time.Duration
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

// NewManual creates a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{}
}

// After implements Scheduler.
func (m *Manual) After(d time.Duration, fn func()) Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	t := &manualTask{m: m, due: m.now + d, seq: m.nextSeq, fn: fn}
	m.tasks = append(m.tasks, t)
	return t
}

func (t *manualTask) Stop() bool {
	t.m.mu.Lock()
	defer t.m.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d and runs every task that became due, in
// due order. Callbacks run without the scheduler lock held and may
// schedule further tasks; those run too if they fall inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		next.fired = true
		m.mu.Unlock()

		next.fn()
	}
}

// Pending returns the number of tasks that have neither fired nor been
// stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) nextDueLocked(target time.Duration) *manualTask {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	m.tasks = live
	if len(live) == 0 {
		return nil
	}
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].due != live[j].due {
			return live[i].due < live[j].due
		}
		return live[i].seq < live[j].seq
	})
	if live[0].due > target {
		return nil
	}
	return live[0]
}
