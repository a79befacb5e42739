package rpc_test

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	check "gopkg.in/check.v1"

	"github.com/mycok/uLookup/decision"
	"github.com/mycok/uLookup/deref"
	"github.com/mycok/uLookup/dict"
	"github.com/mycok/uLookup/lookup"
	"github.com/mycok/uLookup/rpc"
	"github.com/mycok/uLookup/task"
)

var _ = check.Suite(new(ServerTestSuite))

func Test(t *testing.T) {
	check.TestingT(t)
}

type ServerTestSuite struct {
	web *staticWeb
	mgr *lookup.Manager

	netListener *bufconn.Listener
	grpcSrv     *grpc.Server
	clientConn  *grpc.ClientConn
	client      *rpc.Client
}

func (s *ServerTestSuite) SetUpTest(c *check.C) {
	d := dict.New()
	s.web = &staticWeb{docs: map[string]*deref.Document{
		"http://example.com/": {
			URI:   "http://example.com/",
			Links: []deref.Link{{URI: "http://example.com/about", Kind: deref.DiscoveryLink}},
		},
		"http://example.com/about": {URI: "http://example.com/about"},
	}}

	derefMgr, err := deref.NewManager(deref.Config{
		Dereferencer: s.web,
		Dictionary:   d,
		NumOfWorkers: 2,
	})
	c.Assert(err, check.IsNil)

	s.mgr, err = lookup.NewManager(lookup.Config{
		Settings: lookup.Settings{
			Dereferencing: derefMgr,
			MaxSteps:      2,
			Timeout:       5 * time.Second,
		},
		Dictionary:   d,
		NumOfWorkers: 2,
	})
	c.Assert(err, check.IsNil)

	s.netListener = bufconn.Listen(1024)
	s.grpcSrv = grpc.NewServer()
	rpc.RegisterLookUpServer(s.grpcSrv, rpc.NewServer(s.mgr, decision.Never()))

	go func() {
		_ = s.grpcSrv.Serve(s.netListener)
	}()

	s.clientConn, err = grpc.Dial(
		"bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return s.netListener.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	c.Assert(err, check.IsNil)

	s.client = rpc.NewClient(s.clientConn)
}

func (s *ServerTestSuite) TearDownTest(c *check.C) {
	_ = s.clientConn.Close()
	s.grpcSrv.Stop()
	_ = s.netListener.Close()
	_ = s.mgr.ShutdownNow(context.TODO(), 3*time.Second)
}

func (s *ServerTestSuite) TestLookUp(c *check.C) {
	res, err := s.client.LookUp(context.TODO(), "http://example.com/", task.PriorityHigh)
	c.Assert(err, check.IsNil)

	c.Assert(res.URI, check.Equals, "http://example.com/")
	c.Assert(res.Outcome, check.Equals, task.OutcomeCompleted.String())
	c.Assert(res.Error, check.Equals, "")
	c.Assert(res.Dereferenced, check.DeepEquals, []string{"http://example.com/", "http://example.com/about"})
	c.Assert(res.Successful, check.Equals, 2)
	c.Assert(res.MaxStepsReached, check.Equals, 0)

	// The second call is served from the cache.
	again, err := s.client.LookUp(context.TODO(), "http://example.com/", task.PriorityNormal)
	c.Assert(err, check.IsNil)
	c.Assert(again, check.DeepEquals, res)
	c.Assert(s.web.callCount(), check.Equals, 2)
}

func (s *ServerTestSuite) TestInvalidArguments(c *check.C) {
	_, err := s.client.LookUp(context.TODO(), "", task.PriorityNormal)
	c.Assert(status.Code(err), check.Equals, codes.InvalidArgument)

	_, err = s.client.LookUp(context.TODO(), "http://example.com/", task.Priority(42))
	c.Assert(status.Code(err), check.Equals, codes.InvalidArgument)
}

func (s *ServerTestSuite) TestRejectedURIsAreNotInterned(c *check.C) {
	known := s.mgr.Dictionary().Len()

	for _, uri := range []string{
		"ftp://example.com/file",
		"mailto:someone@example.com",
		"urn:isbn:0451450523",
		"http:///no-host",
		"http://example.com/%zz",
		"http://example.com/" + strings.Repeat("a", rpc.MaxURILength),
	} {
		_, err := s.client.LookUp(context.TODO(), uri, task.PriorityNormal)
		c.Assert(status.Code(err), check.Equals, codes.InvalidArgument, check.Commentf("uri %q", uri))
	}

	c.Assert(s.mgr.Dictionary().Len(), check.Equals, known)
	c.Assert(s.web.callCount(), check.Equals, 0)
}

func (s *ServerTestSuite) TestUnavailableAfterShutdown(c *check.C) {
	c.Assert(s.mgr.ShutdownNow(context.TODO(), 3*time.Second), check.IsNil)

	_, err := s.client.LookUp(context.TODO(), "http://example.com/", task.PriorityNormal)
	c.Assert(status.Code(err), check.Equals, codes.Unavailable)
}

func (s *ServerTestSuite) TestCallDeadline(c *check.C) {
	s.web.blockAll()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	_, err := s.client.LookUp(ctx, "http://example.com/", task.PriorityNormal)
	c.Assert(status.Code(err), check.Equals, codes.DeadlineExceeded)
}

// staticWeb serves canned documents.
type staticWeb struct {
	mu      sync.Mutex
	docs    map[string]*deref.Document
	calls   int
	blocked bool
}

func (w *staticWeb) Dereference(ctx context.Context, uri string) (*deref.Document, error) {
	w.mu.Lock()
	w.calls++
	doc, exists := w.docs[uri]
	blocked := w.blocked
	w.mu.Unlock()

	if blocked {
		<-ctx.Done()

		return nil, ctx.Err()
	}

	if !exists {
		return nil, fmt.Errorf("%s: not found", uri)
	}

	return doc, nil
}

func (w *staticWeb) blockAll() {
	w.mu.Lock()
	w.blocked = true
	w.mu.Unlock()
}

func (w *staticWeb) callCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.calls
}
