package pipeline_test

import (
	"context"
	"errors"

	check "gopkg.in/check.v1"

	"github.com/mycok/uLookup/pipeline"
)

var _ = check.Suite(new(stageTestSuite))

type stageTestSuite struct{}

func (s *stageTestSuite) TestFIFOKeepsOrder(c *check.C) {
	stages := make([]pipeline.StageRunner, 5)
	for i := range stages {
		stages[i] = pipeline.NewFIFO(passThrough())
	}

	src := &sourceStub{data: stringPayloads(10)}
	sink := new(sinkStub)

	err := pipeline.New(stages...).Execute(context.TODO(), src, sink)
	c.Assert(err, check.IsNil)
	c.Assert(sink.data, check.DeepEquals, src.data)
	assertProcessed(c, src.data...)
}

func (s *stageTestSuite) TestSequenceTransformsPayloads(c *check.C) {
	appendSuffix := func(suffix string) pipeline.Processor {
		return pipeline.ProcessorFunc(func(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
			p.(*stringPayload).value += suffix

			return p, nil
		})
	}

	payload := &stringPayload{value: "a"}
	sink := new(sinkStub)

	err := pipeline.NewSequence(appendSuffix("b"), appendSuffix("c")).
		Execute(context.TODO(), pipeline.NewSliceSource(payload), sink)
	c.Assert(err, check.IsNil)
	c.Assert(sink.data, check.HasLen, 1)
	c.Assert(payload.value, check.Equals, "abc")
	c.Assert(payload.processed, check.Equals, true)
}

func (s *stageTestSuite) TestFIFOProcessorErrorAbortsPipeline(c *check.C) {
	failing := pipeline.ProcessorFunc(func(context.Context, pipeline.Payload) (pipeline.Payload, error) {
		return nil, errors.New("boom")
	})
	sink := new(sinkStub)

	err := pipeline.NewSequence(passThrough(), failing).
		Execute(context.TODO(), pipeline.NewSliceSource(stringPayloads(3)...), sink)
	c.Assert(err, check.ErrorMatches, "(?s).*pipeline stage 1: boom.*")
	c.Assert(sink.data, check.HasLen, 0)
}

func (s *stageTestSuite) TestSliceSourceStopsOnCancelledContext(c *check.C) {
	ctx, cancel := context.WithCancel(context.TODO())
	cancel()

	src := pipeline.NewSliceSource(stringPayloads(2)...)
	c.Assert(src.Next(ctx), check.Equals, false)
	c.Assert(src.Error(), check.IsNil)
}

func passThrough() pipeline.Processor {
	return pipeline.ProcessorFunc(func(_ context.Context, p pipeline.Payload) (pipeline.Payload, error) {
		return p, nil
	})
}
