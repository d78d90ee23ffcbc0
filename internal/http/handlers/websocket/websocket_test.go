package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/expressions-service/internal/events"
	"github.com/princekumarofficial/expressions-service/internal/types"
	"github.com/princekumarofficial/expressions-service/internal/types/videos"
	wsClient "github.com/princekumarofficial/expressions-service/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*wsClient.Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := wsClient.NewHub()
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", WebSocketHandler(hub))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return hub, srv
}

func dial(t *testing.T, hub *wsClient.Hub, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	before := hub.GetClientCount()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.GetClientCount() == before+1 }, time.Second, 10*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) types.Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event types.Event
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func TestWebSocket_CategoryFilter(t *testing.T) {
	hub, srv := startHub(t)
	all := dial(t, hub, srv, "")
	sad := dial(t, hub, srv, "?category=sad")

	publisher := events.NewEventPublisher(hub)
	require.NoError(t, publisher.PublishVideoUploaded(videos.VideoAsset{ID: "1", Category: "happy"}))
	require.NoError(t, publisher.PublishVideoDeleted(videos.VideoAsset{ID: "2", Category: "sad"}))

	first := readEvent(t, all)
	assert.Equal(t, types.EventVideoUploaded, first.Type)
	assert.Equal(t, "happy", first.Category)

	second := readEvent(t, all)
	assert.Equal(t, types.EventVideoDeleted, second.Type)

	onlySad := readEvent(t, sad)
	assert.Equal(t, types.EventVideoDeleted, onlySad.Type)
	assert.Equal(t, "sad", onlySad.Category)
}

func TestWebSocket_InvalidCategory(t *testing.T) {
	_, srv := startHub(t)

	resp, err := http.Get(srv.URL + "/ws?category=dance")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebSocket_DisconnectUnregisters(t *testing.T) {
	hub, srv := startHub(t)
	conn := dial(t, hub, srv, "")

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
