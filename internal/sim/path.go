package sim

import (
	"fmt"

	"github.com/san-kum/multistate/internal/promoter"
)

func checkEventOrder(events []promoter.Event) error {
	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			return fmt.Errorf("%w: event %d at %g precedes %g", promoter.ErrUnorderedInput, i, events[i].Time, events[i-1].Time)
		}
	}
	return nil
}

// JumpPathOf reduces a sampled promoter path to its jumps. The first
// entry is (0, initial state); repeated samples of the same state are
// dropped.
func JumpPathOf(events []promoter.Event) (promoter.JumpPath, error) {
	if len(events) == 0 {
		return nil, nil
	}
	if err := checkEventOrder(events); err != nil {
		return nil, err
	}

	told, e := 0.0, events[0].Active
	path := promoter.JumpPath{{Holding: 0, Next: e}}
	for _, ev := range events {
		if ev.Active != e {
			path = append(path, promoter.Jump{Holding: ev.Time - told, Next: ev.Active})
			told, e = ev.Time, ev.Active
		}
	}
	return path, nil
}

// Simplify removes samples that do not change the promoter state. The
// path starts at (0, initial state) and always keeps the final sample.
func Simplify(events []promoter.Event) ([]promoter.Event, error) {
	if len(events) == 0 {
		return nil, nil
	}
	if err := checkEventOrder(events); err != nil {
		return nil, err
	}

	e := events[0].Active
	out := []promoter.Event{{Time: 0, Active: e}}
	for k, ev := range events {
		if ev.Active != e || k == len(events)-1 {
			e = ev.Active
			out = append(out, ev)
		}
	}
	return out, nil
}

// Events expands a jump path back into (time, state) samples at the
// jump instants.
func Events(path promoter.JumpPath) []promoter.Event {
	events := make([]promoter.Event, 0, len(path))
	clock := 0.0
	for _, j := range path {
		clock += j.Holding
		events = append(events, promoter.Event{Time: clock, Active: j.Next})
	}
	return events
}
