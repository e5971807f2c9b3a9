// Copyright 2024 Antoine Vernet
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"container/heap"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of a Sim.
//
type State uint8

// Scheduler states. Finished is terminal: reaching it flushes any remaining
// scheduled events without executing them.
const (
	Elaborating State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Elaborating:
		return "elaborating"
	case Running:
		return "running"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// DefaultDeltaLimit bounds the number of delta-cycles spent settling a
// single time step before the run aborts with an OscillationError.
const DefaultDeltaLimit = 10000

// A WatchFn is called when a watched signal commits a new value.
//
type WatchFn func(t uint64, v Value)

// An Option configures a Sim.
//
type Option func(*Sim)

// WithDeltaLimit overrides DefaultDeltaLimit.
//
func WithDeltaLimit(n int) Option {
	return func(s *Sim) { s.limit = n }
}

// WithLogger routes the kernel's trace logging to l instead of the package
// logger.
//
func WithLogger(l *logrus.Logger) Option {
	return func(s *Sim) { s.log = l }
}

// A Sim runs a Design. It owns the event queue and the simulated-time
// counter; all evaluation is single-threaded and strictly event-ordered,
// so two runs with identical stimulus produce bit-identical traces.
//
type Sim struct {
	d     *Design
	q     eventQueue
	seq   uint64
	now   uint64
	state State
	limit int
	log   *logrus.Logger

	watches [][]WatchFn // per signal id
	settled bool        // initial combinational settle done
}

// NewSim returns a Sim for the given design. The Sim starts in the
// Elaborating state: stimulus may be scheduled, then the first Run call
// moves it to Running.
//
func NewSim(d *Design, opts ...Option) *Sim {
	s := &Sim{
		d:       d,
		limit:   DefaultDeltaLimit,
		log:     logger,
		watches: make([][]WatchFn, len(d.signals)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// State returns the current scheduler state.
//
func (s *Sim) State() State { return s.state }

// Time returns the current simulated time.
//
func (s *Sim) Time() uint64 { return s.now }

// Drive schedules the signal at path to take value v at simulated time at.
// This is the testbench "force" primitive. Scheduling in the past or after
// Finish is an error.
//
func (s *Sim) Drive(path string, v Value, at uint64) error {
	sig, err := s.stimTarget(path, at)
	if err != nil {
		return err
	}
	s.schedule(&event{time: at, kind: evDrive, sig: sig, val: v.coerce(sig.width, sig.signed)})
	return nil
}

// Clock installs a free-running clock on the 1-bit signal at path, toggling
// every half time units starting at the current time plus half. The clock
// is an ordinary self-rescheduling toggle event, not a special case of the
// scheduler.
//
func (s *Sim) Clock(path string, half uint64) error {
	if half == 0 {
		return errors.Errorf("clock %s: zero half-period", path)
	}
	sig, err := s.stimTarget(path, s.now)
	if err != nil {
		return err
	}
	if sig.width != 1 {
		return errors.Errorf("clock %s: signal is %d bits wide, want 1", path, sig.width)
	}
	s.schedule(&event{time: s.now + half, kind: evToggle, sig: sig, half: half})
	return nil
}

// Watch registers fn to be called every time the signal at path commits a
// changed value. Callbacks fire in registration order.
//
func (s *Sim) Watch(path string, fn WatchFn) error {
	sig, err := s.d.Lookup(path)
	if err != nil {
		return err
	}
	s.watches[sig.id] = append(s.watches[sig.id], fn)
	return nil
}

// Peek returns the current value of the signal at path. Peek remains usable
// after a Finish or a runtime error.
//
func (s *Sim) Peek(path string) (Value, error) {
	sig, err := s.d.Lookup(path)
	if err != nil {
		return Value{}, err
	}
	return sig.val, nil
}

// Finish halts the simulation. Remaining scheduled events are flushed
// without being executed. Finish is the simulation "finish" directive; it
// is safe to call from a Watch callback.
//
func (s *Sim) Finish() {
	s.state = Finished
	s.q = nil
}

// Run processes scheduled events in non-decreasing time order until the
// event queue holds nothing at or before the until time, then advances the
// simulated time to until. A runtime error such as OscillationError aborts
// the run but leaves all committed signal values readable.
//
func (s *Sim) Run(until uint64) error {
	if s.state == Finished {
		return errors.New("simulation is finished")
	}
	if until < s.now {
		return errors.Errorf("cannot run backwards to time %d, now at %d", until, s.now)
	}
	if err := s.begin(); err != nil {
		return err
	}

	for len(s.q) > 0 && s.q[0].time <= until {
		t := s.q[0].time
		batch := s.popAt(t)
		s.now = t
		s.log.WithFields(logrus.Fields{"t": t, "events": len(batch)}).Debug("time step")
		if err := s.step(batch); err != nil {
			s.Finish()
			return err
		}
		if s.state == Finished {
			return nil
		}
	}
	s.now = until
	return nil
}

// RunAll runs until the event queue is empty or the simulation finishes.
//
func (s *Sim) RunAll() error {
	if s.state == Finished {
		return errors.New("simulation is finished")
	}
	if err := s.begin(); err != nil {
		return err
	}
	for len(s.q) > 0 && s.state != Finished {
		if err := s.Run(s.q[0].time); err != nil {
			return err
		}
	}
	return nil
}

// begin moves the scheduler to Running and performs the one-time initial
// combinational settle, so that constant assignments take effect before the
// first event.
func (s *Sim) begin() error {
	s.state = Running
	if s.settled {
		return nil
	}
	s.settled = true
	deltas := 0
	if _, err := s.settle(s.d.signals, &deltas, true); err != nil {
		// a design that oscillates with no stimulus at all
		s.Finish()
		return err
	}
	return nil
}

func (s *Sim) stimTarget(path string, at uint64) (*Signal, error) {
	if s.state == Finished {
		return nil, errors.New("simulation is finished")
	}
	if at < s.now {
		return nil, errors.Errorf("cannot schedule at time %d, now at %d", at, s.now)
	}
	return s.d.Lookup(path)
}

// step executes one simulated time step: apply the scheduled events, then
// iterate delta-cycles (edge-triggered processes with staged writes, then
// combinational settling) until quiescence.
func (s *Sim) step(batch []*event) error {
	var changed []*Signal
	for _, e := range batch {
		switch e.kind {
		case evDrive:
			if s.commit(e.sig, e.val) {
				changed = append(changed, e.sig)
			}
		case evToggle:
			nv := FromUint(e.sig.width, uint64(1^e.sig.val.Bit(0)))
			if s.commit(e.sig, nv) {
				changed = append(changed, e.sig)
			}
			s.schedule(&event{time: s.now + e.half, kind: evToggle, sig: e.sig, half: e.half})
		}
	}

	deltas := 0
	for len(changed) > 0 {
		wave, err := s.settle(changed, &deltas, false)
		if err != nil {
			return err
		}
		wave = append(wave, changed...)

		var staged []write
		fired := false
		for _, p := range s.d.seqs {
			if !p.triggered(wave) {
				continue
			}
			fired = true
			proc := &Proc{t: s.now}
			p.fn(proc)
			staged = append(staged, proc.writes...)
		}
		if !fired {
			return nil
		}
		// commit all staged writes only now, after every triggered
		// process has read pre-edge values
		changed = changed[:0]
		for _, w := range staged {
			if s.commit(w.sig, w.val) {
				changed = append(changed, w.sig)
			}
		}
		deltas++
		if deltas > s.limit {
			return s.oscillation(changed)
		}
	}
	return nil
}

// settle re-evaluates combinational logic until no update remains pending
// at the current time. Continuous assignments run in the topological order
// derived at elaboration; free-form Comb processes re-fire whenever a
// sensitivity changes, bounded by the delta limit. With all set, every
// assignment and Comb process runs at least once regardless of changed,
// which is how constant drivers take effect on the very first settle. The
// returned slice lists every signal that changed while settling.
func (s *Sim) settle(changed []*Signal, deltas *int, all bool) ([]*Signal, error) {
	pendA := make([]bool, len(s.d.assigns))
	pendC := make([]bool, len(s.d.combs))
	wake := func(sigs []*Signal) {
		for _, sig := range sigs {
			for _, a := range s.d.fanout[sig.id] {
				pendA[a.ord] = true
			}
			for _, c := range s.d.combSense[sig.id] {
				pendC[c.ord] = true
			}
		}
	}
	if all {
		for i := range pendA {
			pendA[i] = true
		}
		for i := range pendC {
			pendC[i] = true
		}
	}
	wake(changed)

	var out []*Signal
	ev := &Eval{t: s.now}
	for {
		*deltas++
		if *deltas > s.limit {
			return nil, s.oscillation(changed)
		}

		// one pass in topological order settles any acyclic chain: a
		// committed destination only wakes assignments later in the order
		for _, a := range s.d.assigns {
			if !pendA[a.ord] {
				continue
			}
			pendA[a.ord] = false
			v := a.fn(ev).coerce(a.dst.width, a.dst.signed)
			if s.commit(a.dst, v) {
				out = append(out, a.dst)
				wake([]*Signal{a.dst})
			}
		}

		// free-form combinational processes; their writes may wake
		// further logic and force another pass
		var next []*Signal
		for _, c := range s.d.combs {
			if !pendC[c.ord] {
				continue
			}
			pendC[c.ord] = false
			proc := &Proc{t: s.now}
			c.fn(proc)
			for _, w := range proc.writes {
				if s.commit(w.sig, w.val) {
					next = append(next, w.sig)
					out = append(out, w.sig)
				}
			}
		}
		if len(next) == 0 {
			return out, nil
		}
		changed = next
		wake(next)
	}
}

// commit applies v to sig, returning whether the stored value actually
// changed. Watch callbacks fire here, on the committed change.
func (s *Sim) commit(sig *Signal, v Value) bool {
	if v.sameBits(sig.val) {
		return false
	}
	sig.prev = sig.val
	sig.val = v
	if s.log.IsLevelEnabled(logrus.TraceLevel) {
		s.log.WithFields(logrus.Fields{"t": s.now, "signal": sig.Path(), "value": v.String()}).Trace("commit")
	}
	for _, fn := range s.watches[sig.id] {
		fn(s.now, v)
	}
	return true
}

func (s *Sim) oscillation(unstable []*Signal) error {
	seen := make(map[string]bool, len(unstable))
	names := make([]string, 0, len(unstable))
	for _, sig := range unstable {
		p := sig.Path()
		if !seen[p] {
			seen[p] = true
			names = append(names, p)
		}
	}
	err := &OscillationError{Time: s.now, Signals: names}
	s.log.WithField("t", s.now).Error(err.Error())
	return err
}

func (s *Sim) schedule(e *event) {
	e.seq = s.seq
	s.seq++
	heap.Push(&s.q, e)
}

func (s *Sim) popAt(t uint64) []*event {
	var batch []*event
	for len(s.q) > 0 && s.q[0].time == t {
		batch = append(batch, heap.Pop(&s.q).(*event))
	}
	return batch
}

type eventKind uint8

const (
	evDrive eventKind = iota
	evToggle
)

// An event is a scheduled future signal change: either a one-shot drive or
// a self-rescheduling clock toggle.
type event struct {
	time uint64
	seq  uint64 // insertion order, breaks same-time ties deterministically
	kind eventKind
	sig  *Signal
	val  Value
	half uint64
}

// eventQueue is a binary min-heap keyed by (time, seq).
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].time != q[j].time {
		return q[i].time < q[j].time
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x interface{}) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}
