package deref

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/dict"
)

// Config defines configurations for the dereferencing manager.
type Config struct {
	// An API for retrieving and parsing documents.
	Dereferencer Dereferencer

	// The dictionary that identifiers handed to the manager were interned
	// in. Discovered URIs are interned into it as well.
	Dictionary *dict.Dictionary

	// The number of workers that execute dereferencing tasks.
	NumOfWorkers int

	// A clock instance for generating time-related events. If not specified,
	// the default wall-clock will be used instead.
	Clock clock.Clock

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.Dereferencer == nil {
		err = multierror.Append(err, fmt.Errorf("dereferencer not provided"))
	}

	if config.Dictionary == nil {
		err = multierror.Append(err, fmt.Errorf("dictionary not provided"))
	}

	if config.NumOfWorkers <= 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for workers, must be > 0"))
	}

	if config.Clock == nil {
		config.Clock = clock.WallClock
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}
