package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mycok/uLookup/decision"
	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/lookup"
	"github.com/mycok/uLookup/task"
)

var _ LookUpServer = (*Server)(nil)

// MaxURILength is the longest URI a client may ask to look up.
const MaxURILength = 2048

// Requester should be implemented by objects that schedule look-ups, such
// as lookup.Manager.
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

// Server serves look-ups. Every call waits for its look-up to finish or for
// the call context to expire.
type Server struct {
	requester Requester
	relookup  decision.Policy
}

// NewServer returns a server that schedules look-ups with requester and
// redoes finished ones according to relookup.
func NewServer(requester Requester, relookup decision.Policy) *Server {
	return &Server{requester: requester, relookup: relookup}
}

// LookUp implements LookUpServer.
func (s *Server) LookUp(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	uri := fields["uri"].GetStringValue()
	if err := validateURI(uri); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	p, err := task.ParsePriority(fields["priority"].GetStringValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	id := s.requester.Dictionary().Intern(uri)
	w := newWaiter()

	res, err := s.requester.RequestLookUp(ctx, id, p, s.relookup, nil, w)
	if err != nil {
		return nil, toStatus(err)
	}

	if res == nil {
		select {
		case res = <-w.done:
		case <-ctx.Done():
			return nil, status.FromContextError(ctx.Err()).Err()
		}
	}

	return encodeResult(s.requester.Dictionary(), res)
}

// validateURI rejects URIs that can not be looked up before they reach the
// dictionary, which never forgets an interned URI.
func validateURI(uri string) error {
	if uri == "" {
		return errors.New("uri not provided")
	}

	if len(uri) > MaxURILength {
		return fmt.Errorf("uri exceeds %d bytes", MaxURILength)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid uri: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("uri has no host")
	}

	return nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, task.ErrBadArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, task.ErrNotAccepting):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func encodeResult(d *dict.Dictionary, res *lookup.Result) (*structpb.Struct, error) {
	var errMsg string
	if res.Err != nil {
		errMsg = res.Err.Error()
	}

	ids := res.Dereferenced()
	dereferenced := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		if uri, ok := d.URI(id); ok {
			dereferenced = append(dereferenced, uri)
		}
	}

	out, err := structpb.NewStruct(map[string]interface{}{
		"uri":               res.URI,
		"outcome":           res.Outcome.String(),
		"error":             errMsg,
		"queue_time_ms":     res.QueueTime.Milliseconds(),
		"exec_time_ms":      res.ExecTime.Milliseconds(),
		"dereferenced":      dereferenced,
		"successful":        res.Successful,
		"failed":            res.Failed,
		"max_steps_reached": res.MaxStepsReached,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	return out, nil
}

// waiter is a one-shot look-up listener.
type waiter struct {
	done chan *lookup.Result
}

func newWaiter() *waiter {
	return &waiter{done: make(chan *lookup.Result, 1)}
}

func (w *waiter) LookUpCompleted(res *lookup.Result) { w.notify(res) }
func (w *waiter) LookUpFailed(res *lookup.Result)    { w.notify(res) }

func (w *waiter) notify(res *lookup.Result) {
	select {
	case w.done <- res:
	default:
	}
}
