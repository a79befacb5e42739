// Package pipeline implements a multi-stage asynchronous pipeline behind a
// synchronous API. A pipeline reads payloads from a Source, passes them
// through its stages in order and hands the survivors to a Sink.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Pipeline is an ordered list of stages. It holds no per-run state and may
// be executed concurrently with different sources and sinks.
type Pipeline struct {
	stages []StageRunner
}

// New returns a pipeline made of the given stages.
func New(stages ...StageRunner) *Pipeline {
	return &Pipeline{stages: stages}
}

// Execute streams every payload of src through the pipeline into sink.
//
// It blocks until the source is drained, ctx is cancelled or a component
// fails. The first failure cancels the remaining components; every error
// reported before they stop is returned as a multierror.
func (p *Pipeline) Execute(ctx context.Context, src Source, sink Sink) error {
	var wg sync.WaitGroup
	runCtx, cancel := context.WithCancel(ctx)

	// Channel i feeds stage i; the last one feeds the sink.
	chans := make([]chan Payload, len(p.stages)+1)
	for i := range chans {
		chans[i] = make(chan Payload)
	}

	// One slot per component so that no report blocks.
	errChan := make(chan error, len(p.stages)+2)

	for i, stage := range p.stages {
		wg.Add(1)

		go func(index int, stage StageRunner) {
			defer wg.Done()

			stage.Run(runCtx, &stageParams{
				index:   index,
				inChan:  chans[index],
				outChan: chans[index+1],
				errChan: errChan,
			})

			// Closing the output lets the downstream stage exit as well.
			close(chans[index+1])
		}(i, stage)
	}

	wg.Add(2)

	go func() {
		defer wg.Done()

		sourceWorker(runCtx, src, chans[0], errChan)
		close(chans[0])
	}()

	go func() {
		defer wg.Done()

		sinkWorker(runCtx, sink, chans[len(chans)-1], errChan)
	}()

	go func() {
		wg.Wait()
		close(errChan)
		cancel()
	}()

	var err error
	for runErr := range errChan {
		err = multierror.Append(err, runErr)
		cancel()
	}

	return err
}

func sourceWorker(
	ctx context.Context, src Source, out chan<- Payload, errChan chan<- error,
) {

	for src.Next(ctx) {
		select {
		case <-ctx.Done():
			return
		case out <- src.Payload():
		}
	}

	if err := src.Error(); err != nil {
		reportError(fmt.Errorf("pipeline source: %w", err), errChan)
	}
}

func sinkWorker(
	ctx context.Context, sink Sink, in <-chan Payload, errChan chan<- error,
) {

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-in:
			if !ok {
				return
			}

			if err := sink.Consume(ctx, payload); err != nil {
				reportError(fmt.Errorf("pipeline sink: %w", err), errChan)

				return
			}

			payload.MarkAsProcessed()
		}
	}
}

// reportError drops err if the error channel is already full.
func reportError(err error, errChan chan<- error) {
	select {
	case errChan <- err:
	default:
	}
}

var _ StageParams = (*stageParams)(nil)

type stageParams struct {
	index   int
	inChan  <-chan Payload
	outChan chan<- Payload
	errChan chan<- error
}

func (p *stageParams) StageIndex() int        { return p.index }
func (p *stageParams) Input() <-chan Payload  { return p.inChan }
func (p *stageParams) Output() chan<- Payload { return p.outChan }
func (p *stageParams) Error() chan<- error    { return p.errChan }
