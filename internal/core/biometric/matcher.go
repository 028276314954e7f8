// Package biometric compares facial feature vectors produced by an external
// extractor. It does not extract features itself.
package biometric

import (
	"errors"
	"fmt"
	"math"
)

// DefaultThreshold is the Euclidean distance under which two face-api style
// descriptors are considered the same person.
const DefaultThreshold = 0.4

// ErrDimensionMismatch is returned when two vectors cannot be compared:
// their lengths differ, the reference is empty, or a vector does not have
// the declared dimension.
var ErrDimensionMismatch = errors.New("biometric vector dimension mismatch")

// Vector is an ordered, fixed-length feature embedding.
type Vector []float64

// Dim returns the number of components.
func (v Vector) Dim() int { return len(v) }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vector) (float64, error) {
	if len(b) == 0 || len(a) != len(b) {
		return 0, fmt.Errorf("%w: candidate=%d reference=%d", ErrDimensionMismatch, len(a), len(b))
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum), nil
}

// Matcher decides whether a candidate vector belongs to the enrolled subject.
type Matcher struct {
	// Threshold is the maximum distance (inclusive) still counted as a match.
	Threshold float64
	// Dimension, when positive, is the declared vector length; vectors of any
	// other length are rejected before comparison.
	Dimension int
}

// NewMatcher returns a Matcher with the given threshold and declared dimension.
func NewMatcher(threshold float64, dimension int) Matcher {
	return Matcher{Threshold: threshold, Dimension: dimension}
}

// ValidateDimension checks v against the declared dimension.
func (m Matcher) ValidateDimension(v Vector) error {
	if len(v) == 0 {
		return fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
	}
	if m.Dimension > 0 && len(v) != m.Dimension {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), m.Dimension)
	}
	return nil
}

// IsMatch reports whether candidate is within Threshold of reference and
// returns the measured distance.
func (m Matcher) IsMatch(candidate, reference Vector) (bool, float64, error) {
	if m.Dimension > 0 && len(reference) > 0 {
		if err := m.ValidateDimension(candidate); err != nil {
			return false, 0, err
		}
	}

	d, err := Distance(candidate, reference)
	if err != nil {
		return false, 0, err
	}
	return d <= m.Threshold, d, nil
}
