package pipeline

import "context"

var _ Source = (*sliceSource)(nil)

type sliceSource struct {
	payloads []Payload
	next     int
}

// NewSliceSource returns a Source that emits the given payloads in order.
func NewSliceSource(payloads ...Payload) Source {
	return &sliceSource{payloads: payloads}
}

func (s *sliceSource) Next(ctx context.Context) bool {
	if s.next >= len(s.payloads) || ctx.Err() != nil {
		return false
	}

	s.next++

	return true
}

func (s *sliceSource) Payload() Payload {
	return s.payloads[s.next-1]
}

func (s *sliceSource) Error() error {
	return nil
}
