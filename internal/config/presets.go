package config

import "sort"

// Presets holds named promoters used in the literature on refractory
// transcription, ready to run.
var Presets = map[string]*Config{
	"telegraph": {
		Promoter: PromoterConfig{Archetype: "twostate", Params: map[string]any{"on": 2.0, "off": 3.0}},
		Onstate:  1, Decay: 1, Duration: 50, Dt: 0.05, Scale: 1,
	},
	"bursty": {
		Promoter: PromoterConfig{Archetype: "twostate", Params: map[string]any{"on": 0.2, "off": 5.0}},
		Onstate:  1, Decay: 1, Duration: 200, Dt: 0.1, Scale: 100,
		Production: []float64{100, 0},
	},
	"refractory3": {
		Promoter: PromoterConfig{Archetype: "cyclic", Params: map[string]any{"a": []float64{10, 4, 5}}},
		Onstate:  1, Decay: 1, Duration: 50, Dt: 0.05, Scale: 1,
	},
	"refractory4": {
		Promoter: PromoterConfig{Archetype: "cyclic", Params: map[string]any{"a": []float64{10, 4, 5, 3}}},
		Onstate:  1, Decay: 1, Duration: 50, Dt: 0.05, Scale: 1,
	},
	"reversible4": {
		Promoter: PromoterConfig{Archetype: "cyclic", Params: map[string]any{
			"a": []float64{10, 4.3, 5.7, 3.1},
			"b": []float64{0.5, 0.2, 0.3, 0.1},
		}},
		Onstate: 1, Decay: 1, Duration: 50, Dt: 0.05, Scale: 1,
	},
	"dirichlet3": {
		Promoter: PromoterConfig{Archetype: "dirichlet", Params: map[string]any{"a": []float64{1, 2, 3}}},
		Onstate:  1, Decay: 1, Duration: 50, Dt: 0.05, Scale: 1,
	},
}

// GetPreset returns a copy of the named preset with defaults filled in,
// or nil when no such preset exists.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	def := DefaultConfig()
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = def.MaxSteps
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
