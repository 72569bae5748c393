package schedule

import (
	"testing"
	"time"
)

func TestManualAdvanceRunsDueTasksInOrder(t *testing.T) {
	m := NewManual()
	var order []string
	m.After(30*time.Millisecond, func() { order = append(order, "late") })
	m.After(10*time.Millisecond, func() { order = append(order, "early") })

	m.Advance(5 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("nothing should fire before its delay, got %v", order)
	}

	m.Advance(30 * time.Millisecond)
	if len(order) != 2 || order[0] != "early" || order[1] != "late" {
		t.Fatalf("unexpected firing order %v", order)
	}
}

func TestManualStop(t *testing.T) {
	m := NewManual()
	fired := false
	task := m.After(time.Second, func() { fired = true })

	if !task.Stop() {
		t.Fatal("first Stop should report true")
	}
	if task.Stop() {
		t.Fatal("second Stop should report false")
	}
	m.Advance(2 * time.Second)
	if fired {
		t.Fatal("stopped task fired")
	}
	if m.Pending() != 0 {
		t.Fatalf("expected no pending tasks, got %d", m.Pending())
	}
}

func TestManualChainedTasks(t *testing.T) {
	m := NewManual()
	count := 0
	m.After(10*time.Millisecond, func() {
		count++
		m.After(10*time.Millisecond, func() { count++ })
	})

	m.Advance(25 * time.Millisecond)
	if count != 2 {
		t.Fatalf("expected chained task to fire inside the window, count=%d", count)
	}
}

func TestRealSchedulerFires(t *testing.T) {
	done := make(chan struct{})
	Real{}.After(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("real scheduler never fired")
	}
}
