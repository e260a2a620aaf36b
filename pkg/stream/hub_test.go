package stream

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func httpToWS(url string) string {
	return strings.Replace(url, "http://", "ws://", 1)
}

func TestHubStreamsSnapshots(t *testing.T) {
	hub := NewHub([]string{"*"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, map[string]float64{"BTC": 64230.5})
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(httpToWS(srv.URL), nil)
	require.NoError(t, err)
	defer conn.Close()

	var first Update
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "prices", first.Type)
	assert.Equal(t, 64230.5, first.Prices["BTC"])

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(map[string]float64{"BTC": 70000})

	var next Update
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, 70000.0, next.Prices["BTC"])

	hub.Close()
	assert.Zero(t, hub.Clients())
}

func TestHubRejectsUnknownOrigin(t *testing.T) {
	hub := NewHub([]string{"https://honor-wallet.com"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = hub.Serve(w, r, nil)
	}))
	defer srv.Close()

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial(httpToWS(srv.URL), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
