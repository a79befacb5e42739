package lookup

import (
	"fmt"
	"io"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"

	"github.com/mycok/uLookup/decision"
	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/dict"
)

// SeeAlso configures the following of see-also references. References
// declared by the root document with Relation are followed at step 0 and,
// if Dataset is set, so are the references it records for the root.
type SeeAlso struct {
	Relation string
	Dataset  SeeAlsoDataset
}

// Settings holds the parameters shared by every look-up of a manager.
type Settings struct {
	// The manager that dereferences single URIs.
	Dereferencing DerefManager

	// Decides whether finished dereferencings are redone. Defaults to
	// decision.DefaultRederef.
	Rederef decision.Policy

	// Stores retrieved documents when a request does not name an importer.
	// Defaults to deref.NopImporter.
	Importer deref.Importer

	// An optional manager that searches for documents mentioning the
	// looked-up URI.
	Search SearchManager

	// Decides whether finished searches are redone. Defaults to
	// decision.DefaultSearchAgain.
	SearchAgain decision.Policy

	// The number of recursive dereferencing steps. Redirects do not count.
	MaxSteps int

	// The time after which a look-up gives up waiting for outstanding work.
	Timeout time.Duration

	// Optional see-also extension.
	SeeAlso *SeeAlso
}

// Config defines configurations for the look-up manager.
type Config struct {
	Settings Settings

	// The dictionary that identifiers are interned in.
	Dictionary *dict.Dictionary

	// The number of workers that execute look-up tasks.
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

	if settingsErr := config.Settings.validate(config.Clock); settingsErr != nil {
		err = multierror.Append(err, settingsErr)
	}

	return err
}

func (s *Settings) validate(clk clock.Clock) error {
	var err error

	if s.Dereferencing == nil {
		err = multierror.Append(err, fmt.Errorf("dereferencing manager not provided"))
	}

	if s.MaxSteps <= 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for max steps, must be > 0"))
	}

	if s.Timeout <= 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for timeout, must be > 0"))
	}

	if s.SeeAlso != nil && s.SeeAlso.Relation == "" {
		err = multierror.Append(err, fmt.Errorf("see-also relation not provided"))
	}

	if s.Rederef == nil {
		s.Rederef = decision.DefaultRederef(clk)
	}

	if s.SearchAgain == nil {
		s.SearchAgain = decision.DefaultSearchAgain(clk)
	}

	if s.Importer == nil {
		s.Importer = deref.NopImporter{}
	}

	return err
}
