package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/multistate/internal/analysis"
	"github.com/san-kum/multistate/internal/config"
	"github.com/san-kum/multistate/internal/promoter"
	"github.com/san-kum/multistate/internal/refractory"
)

// Run is the JSON envelope of a simulation or a distribution evaluation.
type Run struct {
	ID        string                `json:"id"`
	Kind      string                `json:"kind"`
	Timestamp time.Time             `json:"timestamp"`
	Config    *config.Config        `json:"config,omitempty"`
	Metrics   map[string]float64    `json:"metrics,omitempty"`
	PDMP      []promoter.PDMPRecord `json:"pdmp,omitempty"`
	SSA       []promoter.SSARecord  `json:"ssa,omitempty"`
	Curve     *Curve                `json:"curve,omitempty"`
	Spectrum  *refractory.Spectrum  `json:"spectrum,omitempty"`
	Sweep     []analysis.SweepPoint `json:"sweep,omitempty"`
}

// Curve is a sampled function, such as an analytic density.
type Curve struct {
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

// WriteJSON writes run as indented JSON, assigning an ID and timestamp
// when they are unset.
func WriteJSON(w io.Writer, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.Timestamp.IsZero() {
		run.Timestamp = time.Now().UTC()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

func ReadJSON(r io.Reader) (*Run, error) {
	var run Run
	if err := json.NewDecoder(r).Decode(&run); err != nil {
		return nil, err
	}
	return &run, nil
}
