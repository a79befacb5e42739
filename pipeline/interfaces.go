package pipeline

import "context"

// Payload is the unit of data that travels through a pipeline.
type Payload interface {
	// MarkAsProcessed is called once the payload reaches the sink or is
	// dropped by a stage. Implementations may recycle the payload.
	MarkAsProcessed()
}

// Source feeds payloads into a pipeline.
type Source interface {
	// Next advances to the next payload and reports whether one is
	// available. It returns false once the source is exhausted or fails.
	Next(context.Context) bool

	// Payload returns the payload Next advanced to.
	Payload() Payload

	// Error returns the error that stopped the source, if any.
	Error() error
}

// Sink consumes the payloads that make it through every stage.
type Sink interface {
	Consume(context.Context, Payload) error
}

// Processor transforms the payloads of a single stage. Returning a nil
// payload drops it; returning an error aborts the whole pipeline.
type Processor interface {
	Process(context.Context, Payload) (Payload, error)
}

// ProcessorFunc adapts an ordinary function to the Processor interface.
type ProcessorFunc func(context.Context, Payload) (Payload, error)

// Process calls f(ctx, p).
func (f ProcessorFunc) Process(ctx context.Context, p Payload) (Payload, error) {
	return f(ctx, p)
}

// StageRunner drives a Processor for one stage of the pipeline.
//
// Run blocks until its input channel is closed, ctx is cancelled or the
// processor fails.
type StageRunner interface {
	Run(context.Context, StageParams)
}

// StageParams wires a stage to its neighbours.
type StageParams interface {
	// StageIndex returns the position of the stage in the pipeline.
	StageIndex() int

	// Input returns the channel the stage reads payloads from.
	Input() <-chan Payload

	// Output returns the channel processed payloads are written to.
	Output() chan<- Payload

	// Error returns the channel the stage reports failures on.
	Error() chan<- error
}
