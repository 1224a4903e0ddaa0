package engine

import (
	"testing"
	"time"
)

func TestSchedulerRunsInDueOrder(t *testing.T) {
	s := NewScheduler()
	var got []string
	s.After(300*time.Millisecond, func() { got = append(got, "c") })
	s.After(100*time.Millisecond, func() { got = append(got, "a") })
	s.After(100*time.Millisecond, func() { got = append(got, "b") })

	if ran := s.Advance(50 * time.Millisecond); ran != 0 {
		t.Fatalf("Expected nothing due yet, ran %d", ran)
	}
	if ran := s.Advance(time.Second); ran != 3 {
		t.Fatalf("Expected 3 tasks to run, ran %d", ran)
	}
	if want := "abc"; join(got) != want {
		t.Errorf("Expected order %s, got %s", want, join(got))
	}
	if s.Now() != 1050*time.Millisecond {
		t.Errorf("Expected game time 1.05s, got %v", s.Now())
	}
}

func TestSchedulerChainedDelaysDoNotDrift(t *testing.T) {
	s := NewScheduler()
	var at []time.Duration
	var chain func(n int)
	chain = func(n int) {
		at = append(at, s.Now())
		if n > 0 {
			s.After(100*time.Millisecond, func() { chain(n - 1) })
		}
	}
	s.After(100*time.Millisecond, func() { chain(2) })

	s.Advance(time.Second)
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}
	if len(at) != len(want) {
		t.Fatalf("Expected %d runs, got %d", len(want), len(at))
	}
	for i := range want {
		if at[i] != want[i] {
			t.Errorf("run %d: Expected at %v, got %v", i, want[i], at[i])
		}
	}
}

func TestSchedulerPausePreservesRemainingWait(t *testing.T) {
	s := NewScheduler()
	ran := false
	id := s.After(time.Second, func() { ran = true })

	s.Advance(400 * time.Millisecond)
	s.SetPaused(true)
	s.Advance(10 * time.Second)
	if ran {
		t.Fatalf("Expected paused scheduler not to run tasks")
	}
	if rem, ok := s.Remaining(id); !ok || rem != 600*time.Millisecond {
		t.Fatalf("Expected 600ms remaining, got %v (%v)", rem, ok)
	}

	s.SetPaused(false)
	s.Advance(599 * time.Millisecond)
	if ran {
		t.Fatalf("Expected task to wait its remaining time")
	}
	s.Advance(time.Millisecond)
	if !ran {
		t.Errorf("Expected task to run once its remaining time elapsed")
	}
}

func TestSchedulerResetDropsStaleTasks(t *testing.T) {
	s := NewScheduler()
	stale := 0
	s.After(100*time.Millisecond, func() { stale++ })
	s.After(200*time.Millisecond, func() { stale++ })
	gen := s.Generation()

	s.Reset()
	if s.Generation() == gen {
		t.Fatalf("Expected reset to start a new generation")
	}
	if s.Pending() != 0 {
		t.Fatalf("Expected no pending tasks after reset, got %d", s.Pending())
	}

	fresh := 0
	s.After(100*time.Millisecond, func() { fresh++ })
	s.Advance(time.Second)
	if stale != 0 {
		t.Errorf("Expected stale tasks never to run, ran %d", stale)
	}
	if fresh != 1 {
		t.Errorf("Expected fresh task to run once, ran %d", fresh)
	}
}

func TestSchedulerResetFromInsideTask(t *testing.T) {
	s := NewScheduler()
	later := false
	s.After(100*time.Millisecond, func() { s.Reset() })
	s.After(200*time.Millisecond, func() { later = true })

	s.Advance(time.Second)
	if later {
		t.Errorf("Expected a task cancelled by an earlier task's reset not to run")
	}
}

func TestSchedulerCancel(t *testing.T) {
	s := NewScheduler()
	ran := false
	id := s.After(time.Millisecond, func() { ran = true })
	if !s.Cancel(id) {
		t.Fatalf("Expected cancel to find the task")
	}
	if s.Cancel(id) {
		t.Errorf("Expected second cancel to report nothing pending")
	}
	s.Advance(time.Second)
	if ran {
		t.Errorf("Expected cancelled task not to run")
	}
}

func join(parts []string) string {
	out := ""
	for _, p := range parts {
		out += p
	}
	return out
}
