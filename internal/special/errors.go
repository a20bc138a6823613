package special

import "errors"

var (
	// ErrNoConvergence indicates a series that did not converge within its term budget.
	ErrNoConvergence = errors.New("special: series did not converge")

	// ErrPrecision indicates a result whose cancellation could not be resolved.
	ErrPrecision = errors.New("special: precision loss")

	// ErrDegenerateSpectrum indicates lower parameters that differ by an integer,
	// where the Slater expansion of the Meijer-G function has poles, and that
	// could not be resolved by displacing them.
	ErrDegenerateSpectrum = errors.New("special: parameters differ by an integer")

	// ErrPole indicates a lower parameter that is a nonpositive integer.
	ErrPole = errors.New("special: pole in lower parameter")

	// ErrDomain indicates an argument outside the supported domain.
	ErrDomain = errors.New("special: argument outside supported domain")
)
