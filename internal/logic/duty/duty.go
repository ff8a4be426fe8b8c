package duty

import (
	"errors"
	"fmt"
)

// ErrDegenerateScale is returned when a scale's input range is empty
// (inMin == inMax), which would make the mapping slope undefined.
var ErrDegenerateScale = errors.New("degenerate scale: input range is empty")

// Scale maps a value from a fixed input range to a fixed output range
// using linear interpolation with half-up rounding. The typical use is
// mapping a speed percentage 0..100 to a raw PWM duty 0..2^bits-1.
type Scale struct {
	inMin, inMax   int
	outMin, outMax int
	m, q           float64
}

// NewScale creates a validated linear scale. The slope and intercept are
// precomputed so Map stays a cheap pure call on the actuation hot path.
func NewScale(inMin, inMax, outMin, outMax int) (*Scale, error) {
	if inMin == inMax {
		return nil, fmt.Errorf("scale [%d..%d] -> [%d..%d]: %w", inMin, inMax, outMin, outMax, ErrDegenerateScale)
	}
	m := float64(outMax-outMin) / float64(inMax-inMin)
	q := float64(outMax) - m*float64(inMax)
	return &Scale{
		inMin:  inMin,
		inMax:  inMax,
		outMin: outMin,
		outMax: outMax,
		m:      m,
		q:      q,
	}, nil
}

// Map converts x from the input range to the output range, rounding half up.
// The result is exact at both endpoints and monotonic non-decreasing in x
// whenever outMax >= outMin. Inputs outside [inMin, inMax] extrapolate on the
// same line; callers who need bounded output must clamp x first.
func (s *Scale) Map(x int) int {
	return int(s.m*float64(x) + s.q + 0.5)
}

// OutMin returns the lower output bound.
func (s *Scale) OutMin() int { return s.outMin }

// OutMax returns the upper output bound.
func (s *Scale) OutMax() int { return s.outMax }
