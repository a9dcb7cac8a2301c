package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wellness-chat/internal/models"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// newTestConn returns a connected server-side and client-side websocket
// pair backed by a real httptest server.
func newTestConn(t *testing.T) (*websocket.Conn, *websocket.Conn) {
	t.Helper()

	serverConns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConns <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	server := <-serverConns
	t.Cleanup(func() { server.Close() })
	return server, client
}

func readWithDeadline(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	return payload
}

func expectNoMessage(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestHubConnectAndDisconnect(t *testing.T) {
	hub := NewHub(testLogger())
	server, _ := newTestConn(t)

	hub.Connect(server, ConnInfo{ConnID: "c1", UserID: 7, RoomID: 1, Role: models.RoleUser})
	require.True(t, hub.IsUserConnected(7, 1))
	require.Len(t, hub.rooms, 1)

	info, ok := hub.Disconnect(server)
	require.True(t, ok)
	require.Equal(t, 7, info.UserID)
	require.False(t, hub.IsUserConnected(7, 1))
	require.Empty(t, hub.rooms, "empty room entry should be pruned")
	require.Empty(t, hub.info)
}

func TestHubDisconnectUnknownConnIsNoop(t *testing.T) {
	hub := NewHub(testLogger())
	server, _ := newTestConn(t)

	_, ok := hub.Disconnect(server)
	require.False(t, ok)
}

func TestHubRoomEntrySurvivesWhileOthersRemain(t *testing.T) {
	hub := NewHub(testLogger())
	serverA, _ := newTestConn(t)
	serverB, _ := newTestConn(t)

	hub.Connect(serverA, ConnInfo{ConnID: "a", UserID: 1, RoomID: 5, Role: models.RoleUser})
	hub.Connect(serverB, ConnInfo{ConnID: "b", UserID: 2, RoomID: 5, Role: models.RoleExpert})

	hub.Disconnect(serverA)
	require.False(t, hub.IsUserConnected(1, 5))
	require.True(t, hub.IsUserConnected(2, 5))
	require.Len(t, hub.rooms, 1)
}

func TestHubBroadcastReachesOnlyTargetRoom(t *testing.T) {
	hub := NewHub(testLogger())
	serverA, clientA := newTestConn(t)
	serverB, clientB := newTestConn(t)
	serverC, clientC := newTestConn(t)

	hub.Connect(serverA, ConnInfo{ConnID: "a", UserID: 1, RoomID: 1, Role: models.RoleUser})
	hub.Connect(serverB, ConnInfo{ConnID: "b", UserID: 2, RoomID: 1, Role: models.RoleExpert})
	hub.Connect(serverC, ConnInfo{ConnID: "c", UserID: 3, RoomID: 2, Role: models.RoleUser})

	hub.Broadcast(1, []byte(`{"type":"text"}`), nil)

	require.JSONEq(t, `{"type":"text"}`, string(readWithDeadline(t, clientA)))
	require.JSONEq(t, `{"type":"text"}`, string(readWithDeadline(t, clientB)))
	expectNoMessage(t, clientC)
}

func TestHubBroadcastExcludesSender(t *testing.T) {
	hub := NewHub(testLogger())
	serverA, clientA := newTestConn(t)
	serverB, clientB := newTestConn(t)

	hub.Connect(serverA, ConnInfo{ConnID: "a", UserID: 1, RoomID: 1, Role: models.RoleUser})
	hub.Connect(serverB, ConnInfo{ConnID: "b", UserID: 2, RoomID: 1, Role: models.RoleExpert})

	hub.Broadcast(1, []byte(`{"type":"text"}`), serverA)

	require.JSONEq(t, `{"type":"text"}`, string(readWithDeadline(t, clientB)))
	expectNoMessage(t, clientA)
}

func TestHubBroadcastDropsFailedConnection(t *testing.T) {
	hub := NewHub(testLogger())
	serverA, clientA := newTestConn(t)
	serverB, _ := newTestConn(t)

	hub.Connect(serverA, ConnInfo{ConnID: "a", UserID: 1, RoomID: 1, Role: models.RoleUser})
	hub.Connect(serverB, ConnInfo{ConnID: "b", UserID: 2, RoomID: 1, Role: models.RoleExpert})

	// Force a write failure on B; delivery to A must still happen.
	serverB.Close()
	hub.Broadcast(1, []byte(`{"type":"text"}`), nil)

	require.JSONEq(t, `{"type":"text"}`, string(readWithDeadline(t, clientA)))
	require.False(t, hub.IsUserConnected(2, 1))
}
