package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	check "gopkg.in/check.v1"

	"github.com/mycok/uLookup/pipeline"
)

var _ = check.Suite(new(pipelineTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type pipelineTestSuite struct{}

func (s *pipelineTestSuite) TestDataflow(c *check.C) {
	stages := make([]pipeline.StageRunner, 5)
	for i := range stages {
		stages[i] = &stageRunnerStub{c: c}
	}

	src := &sourceStub{data: stringPayloads(3)}
	sink := new(sinkStub)

	err := pipeline.New(stages...).Execute(context.TODO(), src, sink)
	c.Assert(err, check.IsNil)
	c.Assert(sink.data, check.DeepEquals, src.data)
	assertProcessed(c, sink.data...)
}

func (s *pipelineTestSuite) TestPassThroughWithoutStages(c *check.C) {
	src := &sourceStub{data: stringPayloads(2)}
	sink := new(sinkStub)

	err := pipeline.New().Execute(context.TODO(), src, sink)
	c.Assert(err, check.IsNil)
	c.Assert(sink.data, check.DeepEquals, src.data)
}

func (s *pipelineTestSuite) TestStageError(c *check.C) {
	stages := make([]pipeline.StageRunner, 6)
	for i := range stages {
		stage := &stageRunnerStub{c: c}
		if i%3 == 0 {
			stage.err = errors.New("stage failed")
		}
		stages[i] = stage
	}

	err := pipeline.New(stages...).Execute(context.TODO(), &sourceStub{data: stringPayloads(3)}, new(sinkStub))
	c.Assert(err, check.ErrorMatches, "(?s).*stage failed.*")
}

func (s *pipelineTestSuite) TestDroppedPayloadsAreMarkedProcessed(c *check.C) {
	src := &sourceStub{data: stringPayloads(2)}
	sink := new(sinkStub)

	err := pipeline.New(&stageRunnerStub{c: c, drop: true}).Execute(context.TODO(), src, sink)
	c.Assert(err, check.IsNil)
	c.Assert(sink.data, check.HasLen, 0)
	assertProcessed(c, src.data...)
}

func (s *pipelineTestSuite) TestSourceError(c *check.C) {
	src := &sourceStub{data: stringPayloads(3), err: errors.New("source failed")}

	err := pipeline.New(&stageRunnerStub{c: c}).Execute(context.TODO(), src, new(sinkStub))
	c.Assert(err, check.ErrorMatches, "(?s).*pipeline source: source failed.*")
}

func (s *pipelineTestSuite) TestSinkError(c *check.C) {
	sink := &sinkStub{err: errors.New("sink failed")}

	err := pipeline.New(&stageRunnerStub{c: c}).Execute(context.TODO(), &sourceStub{data: stringPayloads(1)}, sink)
	c.Assert(err, check.ErrorMatches, "(?s).*pipeline sink: sink failed.*")
}

func assertProcessed(c *check.C, payloads ...pipeline.Payload) {
	for i, p := range payloads {
		c.Assert(p.(*stringPayload).processed, check.Equals, true, check.Commentf("payload %d", i))
	}
}

type sourceStub struct {
	index int
	data  []pipeline.Payload
	err   error
}

func (s *sourceStub) Next(context.Context) bool {
	if s.err != nil || s.index >= len(s.data) {
		return false
	}
	s.index++

	return true
}

func (s *sourceStub) Payload() pipeline.Payload { return s.data[s.index-1] }
func (s *sourceStub) Error() error              { return s.err }

type sinkStub struct {
	data []pipeline.Payload
	err  error
}

func (s *sinkStub) Consume(_ context.Context, p pipeline.Payload) error {
	s.data = append(s.data, p)

	return s.err
}

type stringPayload struct {
	value     string
	processed bool
}

func (p *stringPayload) MarkAsProcessed() { p.processed = true }

func stringPayloads(n int) []pipeline.Payload {
	payloads := make([]pipeline.Payload, n)
	for i := range payloads {
		payloads[i] = &stringPayload{value: fmt.Sprint(i)}
	}

	return payloads
}

type stageRunnerStub struct {
	c    *check.C
	drop bool
	err  error
}

func (s *stageRunnerStub) Run(ctx context.Context, params pipeline.StageParams) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-params.Input():
			if !ok {
				return
			}

			if s.err != nil {
				s.c.Logf("[stage %d] emitting error", params.StageIndex())
				params.Error() <- s.err

				return
			}

			if s.drop {
				payload.MarkAsProcessed()

				continue
			}

			select {
			case <-ctx.Done():
				return
			case params.Output() <- payload:
			}
		}
	}
}
