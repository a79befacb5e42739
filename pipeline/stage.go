package pipeline

import (
	"context"
	"fmt"
)

type fifo struct {
	proc Processor
}

// NewFIFO returns a StageRunner that processes payloads one at a time in
// arrival order.
func NewFIFO(proc Processor) StageRunner {
	return fifo{proc: proc}
}

// Run implements StageRunner.
func (r fifo) Run(ctx context.Context, params StageParams) {
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-params.Input():
			if !ok {
				return
			}

			out, err := r.proc.Process(ctx, in)
			if err != nil {
				reportError(fmt.Errorf("pipeline stage %d: %w", params.StageIndex(), err), params.Error())

				return
			}

			if out == nil {
				in.MarkAsProcessed()

				continue
			}

			select {
			case <-ctx.Done():
				return
			case params.Output() <- out:
			}
		}
	}
}

// NewSequence returns a pipeline that runs every processor as a FIFO stage.
func NewSequence(procs ...Processor) *Pipeline {
	stages := make([]StageRunner, len(procs))
	for i, proc := range procs {
		stages[i] = NewFIFO(proc)
	}

	return New(stages...)
}
