package experiment

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"

	"github.com/san-kum/multistate/internal/config"
	"github.com/san-kum/multistate/internal/promoter"
	"github.com/san-kum/multistate/internal/sim"
)

func newExperiment(t *testing.T, preset string) *Experiment {
	t.Helper()
	cfg := config.GetPreset(preset)
	if cfg == nil {
		t.Fatalf("missing preset %s", preset)
	}
	cfg.Seed = 3
	e, err := New(cfg, NewRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestNewFromPreset(t *testing.T) {
	e := newExperiment(t, "refractory4")
	if n := e.Generator().N(); n != 4 {
		t.Errorf("expected 4 states, got %d", n)
	}
	if e.ID == uuid.Nil {
		t.Error("expected a run id")
	}
}

func TestNewRejectsBadOnstate(t *testing.T) {
	cfg := config.GetPreset("telegraph")
	cfg.Onstate = 3
	if _, err := New(cfg, NewRegistry(), nil); !errors.Is(err, promoter.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestRunPDMP(t *testing.T) {
	e := newExperiment(t, "refractory3")
	res, err := e.RunPDMP(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ts := e.Config().Timepoints()
	if len(res.Records) != len(ts) {
		t.Fatalf("expected %d records, got %d", len(ts), len(res.Records))
	}
	for i, r := range res.Records {
		if r.Time != ts[i] {
			t.Errorf("record %d at %g, want %g", i, r.Time, ts[i])
		}
		sum := 0.0
		for _, w := range r.Weights {
			sum += w
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("record %d weights sum to %g", i, sum)
		}
	}

	ms, err := e.PDMPMetrics(res.Records)
	if err != nil {
		t.Fatal(err)
	}
	occupied := 0.0
	for _, m := range ms[:3] {
		occupied += m.Value()
	}
	if math.Abs(occupied-1) > 1e-9 {
		t.Errorf("occupancies sum to %g", occupied)
	}
}

func TestRunSSAIsReproducible(t *testing.T) {
	a, err := newExperiment(t, "bursty").RunSSA(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	b, err := newExperiment(t, "bursty").RunSSA(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(a.Records, b.Records) {
		t.Error("same seed gave different trajectories")
	}
	if last := a.Records[len(a.Records)-1]; last.Time != 200 {
		t.Errorf("expected last record at 200, got %g", last.Time)
	}
}

func TestReplayFollowsPath(t *testing.T) {
	e := newExperiment(t, "telegraph")
	res, err := e.RunSSA(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	path, err := sim.JumpPathOf(res.Events())
	if err != nil {
		t.Fatal(err)
	}
	records, err := e.Replay(path, nil, false)
	if err != nil {
		t.Fatal(err)
	}

	events, err := sim.Simplify(res.Events())
	if err != nil {
		t.Fatal(err)
	}
	// Between jumps the replay sits in the state of the last event before t.
	k := 0
	for _, r := range records {
		for k+1 < len(events) && events[k+1].Time <= r.Time {
			k++
		}
		if k+1 < len(events) && events[k+1].Time == r.Time {
			continue
		}
		if r.Active != events[k].Active {
			t.Errorf("t=%g: expected state %d, got %d", r.Time, events[k].Active, r.Active)
		}
	}
}

func TestModel(t *testing.T) {
	e := newExperiment(t, "telegraph")
	m, err := e.Model()
	if err != nil {
		t.Fatal(err)
	}

	spec := m.Spectrum()
	if len(spec.U) != 1 {
		t.Fatalf("expected one u, got %v", spec.U)
	}
	if math.Abs(real(spec.U[0])-2) > 1e-12 || math.Abs(real(spec.V[0])-5) > 1e-12 {
		t.Errorf("expected u=2, v=5, got %v, %v", spec.U, spec.V)
	}
}

func TestStationaryModelScalesByDecay(t *testing.T) {
	cfg := config.GetPreset("telegraph")
	cfg.Decay = 2
	e, err := New(cfg, NewRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}

	m, err := e.StationaryModel()
	if err != nil {
		t.Fatal(err)
	}
	spec := m.Spectrum()
	if math.Abs(real(spec.U[0])-1) > 1e-12 || math.Abs(real(spec.V[0])-2.5) > 1e-12 {
		t.Errorf("expected u=1, v=2.5, got %v, %v", spec.U, spec.V)
	}

	// The time densities keep the unscaled rates.
	raw, err := e.Model()
	if err != nil {
		t.Fatal(err)
	}
	if u := real(raw.Spectrum().U[0]); math.Abs(u-2) > 1e-12 {
		t.Errorf("expected unscaled u=2, got %g", u)
	}
}
