package promoter

import "fmt"

// TwoState is the basic two-state promoter with rate a for 2 -> 1 and
// rate b for 1 -> 2.
func TwoState(a, b float64) (Rates, error) {
	if a <= 0 || b <= 0 {
		return nil, fmt.Errorf("%w: a and b must be positive", ErrInvalidRate)
	}
	return Rates{{1, 2}: b, {2, 1}: a}, nil
}

// Cyclic builds a promoter with len(a) >= 3 states arranged on a cycle.
// a[i] is the rate of i+1 -> i+2 (and n -> 1 for the last entry); the
// optional b[i] is the rate of the reverse transition. A two-entry a
// without b is the two-state promoter.
func Cyclic(a, b []float64) (Rates, error) {
	n := len(a)
	if n == 2 && b == nil {
		return TwoState(a[1], a[0])
	}
	if n < 3 {
		return nil, fmt.Errorf("%w: cyclic promoter needs 3 or more states", ErrInvalidRate)
	}
	for _, v := range a {
		if v <= 0 {
			return nil, fmt.Errorf("%w: rates of a must be positive", ErrInvalidRate)
		}
	}
	if b == nil {
		b = make([]float64, n)
	}
	if len(b) != n {
		return nil, fmt.Errorf("%w: a and b must be of same size", ErrInvalidRate)
	}
	for _, v := range b {
		if v < 0 {
			return nil, fmt.Errorf("%w: rates of b must be nonnegative", ErrInvalidRate)
		}
	}

	rates := make(Rates, 2*n)
	for i := 1; i <= n; i++ {
		j := i%n + 1
		rates[Transition{i, j}] = a[i-1]
		if b[i-1] > 0 {
			rates[Transition{j, i}] = b[i-1]
		}
	}
	return rates, nil
}

// Dirichlet builds the fully connected promoter whose transitions into
// state i all have rate a[i-1]. Its stationary PDMP law is Dirichlet.
func Dirichlet(a []float64) (Rates, error) {
	n := len(a)
	if n < 2 {
		return nil, fmt.Errorf("%w: dirichlet promoter needs 2 or more states", ErrInvalidRate)
	}
	for _, v := range a {
		if v <= 0 {
			return nil, fmt.Errorf("%w: rates of a must be positive", ErrInvalidRate)
		}
	}
	rates := make(Rates, n*(n-1))
	for i := 1; i <= n; i++ {
		for j := 1; j <= n; j++ {
			if i != j {
				rates[Transition{j, i}] = a[i-1]
			}
		}
	}
	return rates, nil
}
