package api

import (
	"context"
	"fmt"
	"io"
	"net"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/mycok/uLookup/rpc"
)

// Config defines configurations for the gRPC API service.
type Config struct {
	// The address to listen on for incoming gRPC connections. Ignored
	// when Listener is set.
	ListenAddr string

	// An already open listener, mostly useful for tests.
	Listener net.Listener

	// The look-up server to expose.
	Server rpc.LookUpServer

	// The logger to use. If not defined an output-discarding logger will
	// be used instead.
	Logger *logrus.Entry
}

func (config *Config) validate() error {
	var err error

	if config.ListenAddr == "" && config.Listener == nil {
		err = multierror.Append(err, fmt.Errorf("listen address not provided"))
	}

	if config.Server == nil {
		err = multierror.Append(err, fmt.Errorf("look-up server not provided"))
	}

	if config.Logger == nil {
		config.Logger = logrus.NewEntry(&logrus.Logger{Out: io.Discard})
	}

	return err
}

// Service exposes look-ups over gRPC. It satisfies the service.Service
// interface.
type Service struct {
	config Config
}

// New creates and returns a fully configured API service instance.
func New(config Config) (*Service, error) {
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("api service: config validation failed: %w", err)
	}

	return &Service{config: config}, nil
}

// Name returns the name of the service.
func (svc *Service) Name() string { return "api" }

// Run executes the service and blocks until the context gets cancelled
// or an error occurs.
func (svc *Service) Run(ctx context.Context) error {
	l := svc.config.Listener
	if l == nil {
		var err error
		if l, err = net.Listen("tcp", svc.config.ListenAddr); err != nil {
			return err
		}
	}
	defer func() { _ = l.Close() }()

	srv := grpc.NewServer()
	rpc.RegisterLookUpServer(srv, svc.config.Server)

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	svc.config.Logger.WithField("addr", l.Addr().String()).Info("listening for gRPC connections")
	defer svc.config.Logger.Info("stopped service")

	if err := srv.Serve(l); err != nil && ctx.Err() == nil {
		return err
	}

	return nil
}
