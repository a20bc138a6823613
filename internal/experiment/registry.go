package experiment

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"

	"github.com/san-kum/multistate/internal/promoter"
)

// Builder turns a parameter block into promoter rates.
type Builder func(params map[string]any) (promoter.Rates, error)

// Registry maps archetype names to builders.
type Registry struct {
	builders map[string]Builder
}

type twoStateParams struct {
	On  float64 `mapstructure:"on"`
	Off float64 `mapstructure:"off"`
}

type cyclicParams struct {
	A []float64 `mapstructure:"a"`
	B []float64 `mapstructure:"b"`
}

type dirichletParams struct {
	A []float64 `mapstructure:"a"`
}

// RateEntry is one transition of a custom promoter.
type RateEntry struct {
	From int     `mapstructure:"from"`
	To   int     `mapstructure:"to"`
	Rate float64 `mapstructure:"rate"`
}

type customParams struct {
	Rates []RateEntry `mapstructure:"rates"`
}

func NewRegistry() *Registry {
	r := &Registry{builders: make(map[string]Builder)}

	r.builders["twostate"] = func(params map[string]any) (promoter.Rates, error) {
		var p twoStateParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return promoter.TwoState(p.On, p.Off)
	}
	r.builders["cyclic"] = func(params map[string]any) (promoter.Rates, error) {
		var p cyclicParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return promoter.Cyclic(p.A, p.B)
	}
	r.builders["dirichlet"] = func(params map[string]any) (promoter.Rates, error) {
		var p dirichletParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		return promoter.Dirichlet(p.A)
	}
	r.builders["custom"] = func(params map[string]any) (promoter.Rates, error) {
		var p customParams
		if err := decode(params, &p); err != nil {
			return nil, err
		}
		rates := make(promoter.Rates, len(p.Rates))
		for _, e := range p.Rates {
			t := promoter.Transition{From: e.From, To: e.To}
			if _, dup := rates[t]; dup {
				return nil, fmt.Errorf("%w: transition %d->%d given twice", promoter.ErrInvalidRate, e.From, e.To)
			}
			rates[t] = e.Rate
		}
		if err := rates.Validate(); err != nil {
			return nil, err
		}
		return rates, nil
	}

	return r
}

// Register adds or replaces the builder for name.
func (r *Registry) Register(name string, b Builder) {
	r.builders[name] = b
}

func (r *Registry) Build(name string, params map[string]any) (promoter.Rates, error) {
	fn, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown archetype: %s", name)
	}
	rates, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return rates, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func decode(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("%w: %v", promoter.ErrInvalidRate, err)
	}
	return nil
}
