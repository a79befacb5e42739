package rpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mycok/uLookup/task"
)

// Response is the decoded reply of a look-up call.
type Response struct {
	URI             string
	Outcome         string
	Error           string
	QueueTime       time.Duration
	ExecTime        time.Duration
	Dereferenced    []string
	Successful      int
	Failed          int
	MaxStepsReached int
}

// Client performs look-ups on a remote server.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient returns a client that issues calls over cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// LookUp looks up uri with priority p and waits for the result.
func (c *Client) LookUp(ctx context.Context, uri string, p task.Priority) (*Response, error) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"uri":      uri,
		"priority": p.String(),
	})
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, lookUpMethod, req, out); err != nil {
		return nil, err
	}

	return decodeResponse(out), nil
}

func decodeResponse(s *structpb.Struct) *Response {
	fields := s.GetFields()

	res := &Response{
		URI:             fields["uri"].GetStringValue(),
		Outcome:         fields["outcome"].GetStringValue(),
		Error:           fields["error"].GetStringValue(),
		QueueTime:       time.Duration(fields["queue_time_ms"].GetNumberValue()) * time.Millisecond,
		ExecTime:        time.Duration(fields["exec_time_ms"].GetNumberValue()) * time.Millisecond,
		Successful:      int(fields["successful"].GetNumberValue()),
		Failed:          int(fields["failed"].GetNumberValue()),
		MaxStepsReached: int(fields["max_steps_reached"].GetNumberValue()),
	}

	for _, v := range fields["dereferenced"].GetListValue().GetValues() {
		res.Dereferenced = append(res.Dereferenced, v.GetStringValue())
	}

	return res
}
