package promoter

import "errors"

// Domain errors shared by the simulation and distribution packages.
var (
	// ErrInvalidRate indicates a malformed rate specification.
	ErrInvalidRate = errors.New("promoter: invalid rate specification")

	// ErrInvalidState indicates a promoter state outside 1..n.
	ErrInvalidState = errors.New("promoter: state out of range")

	// ErrUnorderedInput indicates observation times that decrease.
	ErrUnorderedInput = errors.New("promoter: timepoints must be non-decreasing")

	// ErrDegenerateState indicates a state with no outgoing transition.
	ErrDegenerateState = errors.New("promoter: absorbing state reached (exit rate <= 0)")

	// ErrInvalidArgument indicates a bad numeric argument or dimension.
	ErrInvalidArgument = errors.New("promoter: invalid argument")

	// ErrExhaustedPath indicates a replay observation past the end of the jump path.
	ErrExhaustedPath = errors.New("promoter: jump path exhausted")

	// ErrStepLimit indicates a simulation exceeded its configured step bound.
	ErrStepLimit = errors.New("promoter: step limit exceeded")
)
