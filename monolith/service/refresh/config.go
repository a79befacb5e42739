package refresh

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/decision"
	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/linkgraph/graph"
	"github.com/mycok/uLookup/lookup"
	"github.com/mycok/uLookup/monolith/partition"
	"github.com/mycok/uLookup/task"
)

//go:generate mockgen -package mocks -destination mocks/mocks.go github.com/mycok/uLookup/monolith/service/refresh GraphAPI,Requester
//go:generate mockgen -package mocks -destination mocks/mock_iterator.go github.com/mycok/uLookup/linkgraph/graph LinkIterator

// GraphAPI defines the link graph methods used for finding stale links.
type GraphAPI interface {
	// Links returns an iterator for the links whose ids belong to the
	// [fromID, toID) range and were retrieved before retrievedBefore.
	Links(fromID, toID uuid.UUID, retrievedBefore time.Time) (graph.LinkIterator, error)
}

// Requester schedules look-ups. lookup.Manager implements it.
type Requester interface {
	RequestLookUp(
		ctx context.Context,
		id dict.ID,
		p task.Priority,
		relookup decision.Policy,
		importer deref.Importer,
		listener lookup.Listener,
	) (*lookup.Result, error)
	Dictionary() *dict.Dictionary
}

// Config defines configurations for the refresh service.
type Config struct {
	// API for finding links whose content is out of date.
	GraphAPI GraphAPI

	// The look-up scheduler that refreshes stale links.
	Requester Requester

	// An API for detecting the partition of the link graph this replica
	// refreshes.
	PartitionDetector partition.Detector

	// Decides whether the cached look-up of a stale link is redone. If not
	// specified, every stale link is looked up again.
	Relookup decision.Policy

	// The duration between subsequent refresh passes.
	Interval time.Duration

	// The minimum age of a retrieved link before it is refreshed.
	Threshold time.Duration

	// A clock instance for generating time-related events. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.GraphAPI == nil {
		err = multierror.Append(err, fmt.Errorf("graph API not provided"))
	}

	if config.Requester == nil {
		err = multierror.Append(err, fmt.Errorf("look-up requester not provided"))
	}

	if config.PartitionDetector == nil {
		err = multierror.Append(err, fmt.Errorf("partition detector not provided"))
	}

	if config.Relookup == nil {
		config.Relookup = decision.Always()
	}

	if config.Interval <= 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for refresh interval"))
	}

	if config.Threshold <= 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for refresh threshold"))
	}

	if config.Clock == nil {
		config.Clock = clock.WallClock
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}
