package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientCall(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/myeasyevent-back/API/event.php", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"success","message":"ok","data":{"events":[{"id":1}]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/myeasyevent-back", srv.Client())
	assert.Equal(t, srv.URL+"/myeasyevent-back/API/event.php", c.URL("/API/event.php"))

	resp, err := c.Call(context.Background(), Events, Action{"action": "getAllEvents"})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, "getAllEvents", got["action"])

	var data struct {
		Events []json.RawMessage `json:"events"`
	}
	require.NoError(t, resp.Decode(&data))
	assert.Len(t, data.Events, 1)
}

func TestClientCallErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, resp *Response, err error)
	}{
		{
			name:   "backend refusal keeps the envelope",
			status: http.StatusOK,
			body:   `{"status":"error","message":"Identifiants incorrects"}`,
			check: func(t *testing.T, resp *Response, err error) {
				require.NoError(t, err)
				assert.False(t, resp.OK())
				assert.Equal(t, "Identifiants incorrects", resp.Message)
				assert.ErrorIs(t, resp.Decode(&struct{}{}), ErrNoData)
			},
		},
		{
			name:   "forbidden",
			status: http.StatusForbidden,
			body:   `{"status":"error"}`,
			check: func(t *testing.T, _ *Response, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.True(t, se.Forbidden())
				assert.Equal(t, http.StatusForbidden, se.Code)
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "fatal",
			check: func(t *testing.T, _ *Response, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.False(t, se.Forbidden())
				assert.Contains(t, se.Error(), "fatal")
			},
		},
		{
			name:   "not json",
			status: http.StatusOK,
			body:   "<html>",
			check: func(t *testing.T, _ *Response, err error) {
				assert.ErrorContains(t, err, "failed to decode response")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			resp, err := NewClient(srv.URL, nil).Call(context.Background(), Connexions, Action{"action": "connectEmailPass"})
			tt.check(t, resp, err)
		})
	}
}

func TestResponseDecodeNull(t *testing.T) {
	r := &Response{Status: "success", Data: json.RawMessage("null")}
	assert.ErrorIs(t, r.Decode(&struct{}{}), ErrNoData)
}
