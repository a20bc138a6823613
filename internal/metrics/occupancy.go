package metrics

import "fmt"

// Occupancy is the fraction of time spent in one promoter state.
type Occupancy struct {
	name  string
	state int
	clock clock
	in    float64
}

func NewOccupancy(state int) *Occupancy {
	return &Occupancy{
		name:  fmt.Sprintf("occupancy_%d", state),
		state: state,
	}
}

func (o *Occupancy) Name() string { return o.name }

func (o *Occupancy) Observe(t float64, active int, value float64) {
	held, prev, _, ok := o.clock.advance(t, active, value)
	if ok && prev == o.state {
		o.in += held
	}
}

func (o *Occupancy) Value() float64 {
	total := o.clock.elapsed()
	if total <= 0 {
		return 0
	}
	return o.in / total
}

func (o *Occupancy) Reset() {
	o.clock.reset()
	o.in = 0
}

// SwitchRate is the number of promoter switches per unit time.
type SwitchRate struct {
	name     string
	clock    clock
	switches int
}

func NewSwitchRate() *SwitchRate {
	return &SwitchRate{name: "switch_rate"}
}

func (s *SwitchRate) Name() string { return s.name }

func (s *SwitchRate) Observe(t float64, active int, value float64) {
	_, prev, _, ok := s.clock.advance(t, active, value)
	if ok && prev != active {
		s.switches++
	}
}

func (s *SwitchRate) Value() float64 {
	total := s.clock.elapsed()
	if total <= 0 {
		return 0
	}
	return float64(s.switches) / total
}

func (s *SwitchRate) Reset() {
	s.clock.reset()
	s.switches = 0
}

// MeanLevel is the time average of the observed value.
type MeanLevel struct {
	name     string
	clock    clock
	integral float64
}

func NewMeanLevel() *MeanLevel {
	return &MeanLevel{name: "mean_level"}
}

func (m *MeanLevel) Name() string { return m.name }

func (m *MeanLevel) Observe(t float64, active int, value float64) {
	held, _, prev, ok := m.clock.advance(t, active, value)
	if ok {
		m.integral += held * prev
	}
}

func (m *MeanLevel) Value() float64 {
	total := m.clock.elapsed()
	if total <= 0 {
		return m.clock.value
	}
	return m.integral / total
}

func (m *MeanLevel) Reset() {
	m.clock.reset()
	m.integral = 0
}
