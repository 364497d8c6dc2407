package engine

// smoother is a fixed-window moving-average filter over raw progress values.
// The buffer is zero-initialized and the mean is always taken over all slots,
// so the first window-1 outputs are biased low while the buffer warms up.
type smoother struct {
	values []float64
	index  int
	sum    float64
}

func newSmoother(window int) *smoother {
	return &smoother{values: make([]float64, window)}
}

// push overwrites the oldest slot with v and returns the mean of the buffer.
// O(1): the running sum is updated in place, the index wraps around.
func (s *smoother) push(v float64) float64 {
	s.sum -= s.values[s.index]
	s.sum += v
	s.values[s.index] = v
	s.index++
	if s.index >= len(s.values) {
		s.index = 0
	}
	return s.sum / float64(len(s.values))
}

// history returns a copy of the buffer, oldest slot first relative to the
// wrap index. Used for state snapshots only.
func (s *smoother) history() []float64 {
	out := make([]float64, len(s.values))
	for i := range s.values {
		out[i] = s.values[(s.index+i)%len(s.values)]
	}
	return out
}
