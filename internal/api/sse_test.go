package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, ": keep-alive\n\n")
		_, _ = io.WriteString(w, "event: validatedevice\ndata:\n\n")
		_, _ = io.WriteString(w, "id: 2\nevent: validatedevice\ndata: {\"session\":\"s\"}\n\n")
		_, _ = io.WriteString(w, "data: line1\ndata: line2\n\n")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	stream, err := c.Subscribe(context.Background(), DeviceValidation+"?token=tok")
	require.NoError(t, err)
	defer stream.Close()

	ev, err := stream.Next()
	require.NoError(t, err)
	assert.Equal(t, Event{Name: "validatedevice"}, ev)

	ev, err = stream.Next()
	require.NoError(t, err)
	assert.Equal(t, Event{Name: "validatedevice", Data: `{"session":"s"}`, ID: "2"}, ev)

	ev, err = stream.Next()
	require.NoError(t, err)
	assert.Equal(t, "message", ev.Name)
	assert.Equal(t, "line1\nline2", ev.Data)

	_, err = stream.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSubscribeStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, nil).Subscribe(context.Background(), DeviceValidation)
	assert.ErrorContains(t, err, "401")
}

func TestSubscribeRejectsPlainResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status":"success"}`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).Subscribe(context.Background(), DeviceValidation)
	assert.ErrorContains(t, err, "text/event-stream")
}

func TestCloseUnblocksNext(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	stream, err := NewClient(srv.URL, srv.Client()).Subscribe(context.Background(), DeviceValidation)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := stream.Next()
		done <- err
	}()

	require.NoError(t, stream.Close())
	assert.NoError(t, stream.Close(), "closing twice is harmless")
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not return after Close")
	}
}

func TestSubscribeCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := NewClient(srv.URL, srv.Client()).Subscribe(ctx, DeviceValidation)
	require.NoError(t, err)
	defer stream.Close()

	done := make(chan error, 1)
	go func() {
		_, err := stream.Next()
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not return after cancel")
	}
}
