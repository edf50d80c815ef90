package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	sse "github.com/tmaxmax/go-sse"
)

// Event is one server-sent event.
type Event struct {
	Name string
	Data string
	ID   string
}

type received struct {
	ev  sse.Event
	err error
}

// EventStream reads server-sent events from an open response.
type EventStream struct {
	body   io.ReadCloser
	events chan received
	closed chan struct{}
	once   sync.Once
}

// Subscribe opens a server-sent event stream on a backend path such as
// "SSE/deviceValidate.php?token=...". The stream lives until ctx is done or
// Close is called.
func (c *Client) Subscribe(ctx context.Context, path string) (*EventStream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream: %w", err)
	}
	if err := sse.DefaultValidator(resp); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("stream rejected: %w", err)
	}

	s := &EventStream{
		body:   resp.Body,
		events: make(chan received),
		closed: make(chan struct{}),
	}
	go s.read()
	return s, nil
}

func (s *EventStream) read() {
	defer close(s.events)
	for ev, err := range sse.Read(s.body, nil) {
		select {
		case s.events <- received{ev: ev, err: err}:
		case <-s.closed:
			return
		}
		if err != nil {
			return
		}
	}
}

// Next blocks until a complete event is received. It returns io.EOF when
// the server ends the stream or the stream is closed. Unnamed events are
// reported as "message".
func (s *EventStream) Next() (Event, error) {
	r, ok := <-s.events
	if !ok {
		return Event{}, io.EOF
	}
	if r.err != nil {
		return Event{}, r.err
	}
	name := r.ev.Type
	if name == "" {
		name = "message"
	}
	return Event{Name: name, Data: r.ev.Data, ID: r.ev.LastEventID}, nil
}

// Close releases the connection. It is safe to call from another goroutine
// while Next blocks.
func (s *EventStream) Close() error {
	var err error
	s.once.Do(func() {
		close(s.closed)
		err = s.body.Close()
	})
	return err
}
