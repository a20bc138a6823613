package refractory

import "encoding/json"

type spectrumJSON struct {
	U [][2]float64 `json:"u"`
	V [][2]float64 `json:"v"`
}

// MarshalJSON encodes every eigenvalue as a [re, im] pair.
func (s Spectrum) MarshalJSON() ([]byte, error) {
	return json.Marshal(spectrumJSON{U: pairs(s.U), V: pairs(s.V)})
}

func (s *Spectrum) UnmarshalJSON(data []byte) error {
	var raw spectrumJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.U, s.V = complexes(raw.U), complexes(raw.V)
	return nil
}

func pairs(zs []complex128) [][2]float64 {
	out := make([][2]float64, len(zs))
	for i, z := range zs {
		out[i] = [2]float64{real(z), imag(z)}
	}
	return out
}

func complexes(ps [][2]float64) []complex128 {
	out := make([]complex128, len(ps))
	for i, p := range ps {
		out[i] = complex(p[0], p[1])
	}
	return out
}
