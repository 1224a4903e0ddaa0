package engine

import (
	"slices"
	"time"
)

// TaskID identifies a scheduled action.
type TaskID uint64

type task struct {
	id         TaskID
	due        time.Duration
	generation uint64
	action     func()
}

// Scheduler holds deferred actions keyed by game time. Game time only moves when
// Advance is called while unpaused, so waiting is data rather than suspended control flow.
//
// Reset starts a new generation: pending tasks are dropped, and any task from an
// older generation that is somehow still reachable is skipped at dispatch.
type Scheduler struct {
	now        time.Duration
	paused     bool
	generation uint64
	nextID     TaskID
	tasks      []task
}

// NewScheduler returns an empty scheduler at game time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current game time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Generation returns the current generation token.
func (s *Scheduler) Generation() uint64 { return s.generation }

// Pending returns the number of tasks waiting to run.
func (s *Scheduler) Pending() int { return len(s.tasks) }

// Paused reports whether game time is frozen.
func (s *Scheduler) Paused() bool { return s.paused }

// SetPaused freezes or resumes game time. Pending tasks keep their remaining wait.
func (s *Scheduler) SetPaused(paused bool) { s.paused = paused }

// After schedules action to run once delay of game time has passed. Inside a running
// action the delay counts from that action's due time, so chained waits do not drift
// with tick size.
func (s *Scheduler) After(delay time.Duration, action func()) TaskID {
	s.nextID++
	t := task{
		id:         s.nextID,
		due:        s.now + max(delay, 0),
		generation: s.generation,
		action:     action,
	}
	i, _ := slices.BinarySearchFunc(s.tasks, t, func(a, b task) int {
		if a.due != b.due {
			if a.due < b.due {
				return -1
			}
			return 1
		}
		if a.id < b.id {
			return -1
		}
		return 1
	})
	s.tasks = slices.Insert(s.tasks, i, t)
	return t.id
}

// Cancel removes a pending task. It reports whether the task was still pending.
func (s *Scheduler) Cancel(id TaskID) bool {
	i := slices.IndexFunc(s.tasks, func(t task) bool { return t.id == id })
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true
}

// Remaining returns how much game time is left before id runs.
func (s *Scheduler) Remaining(id TaskID) (time.Duration, bool) {
	for _, t := range s.tasks {
		if t.id == id {
			return t.due - s.now, true
		}
	}
	return 0, false
}

// Reset drops every pending task and starts a new generation.
func (s *Scheduler) Reset() {
	s.generation++
	s.tasks = nil
}

// Advance moves game time forward by elapsed and runs every task that falls due,
// in due order. It returns the number of actions run.
func (s *Scheduler) Advance(elapsed time.Duration) int {
	if s.paused || elapsed < 0 {
		return 0
	}
	target := s.now + elapsed
	ran := 0
	for len(s.tasks) > 0 && s.tasks[0].due <= target {
		t := s.tasks[0]
		s.tasks = s.tasks[1:]
		s.now = t.due
		if t.generation != s.generation {
			continue
		}
		t.action()
		ran++
		if s.paused {
			return ran
		}
	}
	s.now = target
	return ran
}
