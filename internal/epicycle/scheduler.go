package epicycle

import (
	"slices"
	"time"
)

// Scheduler paces frames and deferred work. Both methods return a cancel
// function that is safe to call more than once.
type Scheduler interface {
	// RequestFrame runs fn once, before the next paint.
	RequestFrame(fn func()) (cancel func())
	// AfterFunc runs fn once, after d has elapsed.
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

type timerTask struct {
	id uint64
	at time.Time
	fn func()
}

type frameTask struct {
	id uint64
	fn func()
}

// LoopScheduler is a cooperative Scheduler driven by its owner calling
// Paint, typically from a UI tick. Nothing runs on other goroutines, so
// callbacks never race with the owner. It is not safe for concurrent use.
type LoopScheduler struct {
	now    time.Time
	seq    uint64
	frames []frameTask
	timers []timerTask
	live   map[uint64]struct{}
}

// NewLoopScheduler returns a scheduler whose clock starts at now.
func NewLoopScheduler(now time.Time) *LoopScheduler {
	return &LoopScheduler{now: now, live: make(map[uint64]struct{})}
}

// Now is the time of the most recent paint.
func (s *LoopScheduler) Now() time.Time { return s.now }

func (s *LoopScheduler) next() uint64 {
	s.seq++
	s.live[s.seq] = struct{}{}
	return s.seq
}

func (s *LoopScheduler) cancel(id uint64) func() {
	return func() { delete(s.live, id) }
}

func (s *LoopScheduler) RequestFrame(fn func()) func() {
	id := s.next()
	s.frames = append(s.frames, frameTask{id: id, fn: fn})
	return s.cancel(id)
}

func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) func() {
	id := s.next()
	s.timers = append(s.timers, timerTask{id: id, at: s.now.Add(d), fn: fn})
	return s.cancel(id)
}

// Paint advances the clock to now, runs every timer that has come due in
// deadline order and then every frame callback queued before this call.
// Frames requested by those callbacks wait for the next paint. Paint
// returns the number of callbacks run.
func (s *LoopScheduler) Paint(now time.Time) int {
	if now.After(s.now) {
		s.now = now
	}
	ran := 0

	for {
		s.timers = slices.DeleteFunc(s.timers, func(t timerTask) bool {
			_, ok := s.live[t.id]
			return !ok
		})
		i := s.nextDue()
		if i < 0 {
			break
		}
		t := s.timers[i]
		s.timers = slices.Delete(s.timers, i, i+1)
		delete(s.live, t.id)
		t.fn()
		ran++
	}

	frames := s.frames
	s.frames = nil
	for _, f := range frames {
		if _, ok := s.live[f.id]; !ok {
			continue
		}
		delete(s.live, f.id)
		f.fn()
		ran++
	}
	return ran
}

func (s *LoopScheduler) nextDue() int {
	best := -1
	for i, t := range s.timers {
		if t.at.After(s.now) {
			continue
		}
		if best < 0 || t.at.Before(s.timers[best].at) {
			best = i
		}
	}
	return best
}

// Pending counts callbacks that are queued and not cancelled.
func (s *LoopScheduler) Pending() int {
	return len(s.live)
}
