package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_StreamUntilFinal(t *testing.T) {
	// Arrange: два обычных тика, затем финальное событие
	var calls int32
	status := func() (Event, bool) {
		n := atomic.AddInt32(&calls, 1)
		if n >= 3 {
			return Event{Type: ATTEMPT_ENDED}, true
		}
		return Event{Type: ATTEMPT_STATUS, Data: map[string]int{"tick": int(n)}}, false
	}

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		NewClient(conn, "sid-1", ClientConfig{TickInterval: 10 * time.Millisecond}).Stream(status)
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// Act
	var received []Event
	for {
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			break
		}
		received = append(received, event)
	}

	// Assert
	require.Len(t, received, 3)
	assert.Equal(t, ATTEMPT_STATUS, received[0].Type)
	assert.Equal(t, ATTEMPT_STATUS, received[1].Type)
	assert.Equal(t, ATTEMPT_ENDED, received[2].Type)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil, "sid", ClientConfig{})
	assert.Equal(t, DefaultClientConfig(), c.config)
	assert.NotEmpty(t, c.ConnectionID)
}
