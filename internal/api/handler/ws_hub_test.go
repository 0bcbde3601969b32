package handler_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parking_ops/internal/api/handler"
	"parking_ops/internal/domain"
)

type stubProvider struct {
	states map[string][]domain.ZoneState
}

func (p *stubProvider) ZoneStatesForGate(ctx context.Context, gateID string) ([]domain.ZoneState, error) {
	return p.states[gateID], nil
}

func newHubServer(t *testing.T, provider handler.ZoneStateProvider) (*handler.WebSocketHub, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	hub := handler.NewWebSocketHub(log)
	hub.SetProvider(provider)
	go hub.Start()

	router := gin.New()
	wsHandler := handler.NewWebSocketHandler(hub, log)
	router.GET("/ws", wsHandler.HandleWebSocket)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return hub, srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readZoneUpdate(t *testing.T, conn *websocket.Conn) domain.ZoneUpdateMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg domain.ZoneUpdateMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	return msg
}

func subscribe(t *testing.T, conn *websocket.Conn, gateID string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(domain.WSClientMessage{
		Type:    domain.WSTypeSubscribe,
		Payload: domain.WSClientPayload{GateID: gateID},
	}))
}

func TestHub_SnapshotOnSubscribe(t *testing.T) {
	provider := &stubProvider{states: map[string][]domain.ZoneState{
		"gate_1": {{ID: "zone_a", TotalSlots: 10, Free: 10}},
	}}
	_, srv := newHubServer(t, provider)
	conn := dial(t, srv)

	subscribe(t, conn, "gate_1")

	msg := readZoneUpdate(t, conn)
	assert.Equal(t, domain.WSTypeZoneUpdate, msg.Type)
	assert.Equal(t, "zone_a", msg.Payload.ID)
	assert.Equal(t, 10, msg.Payload.Free)
}

func TestHub_PublishRoutesByGate(t *testing.T) {
	provider := &stubProvider{states: map[string][]domain.ZoneState{}}
	hub, srv := newHubServer(t, provider)

	watcher := dial(t, srv)
	bystander := dial(t, srv)
	subscribe(t, watcher, "gate_1")
	subscribe(t, bystander, "gate_2")

	// Give the read pumps time to register the subscriptions.
	time.Sleep(100 * time.Millisecond)

	hub.PublishZoneUpdate(&domain.ZoneState{ID: "zone_a", Occupied: 3}, []string{"gate_1"})

	msg := readZoneUpdate(t, watcher)
	assert.Equal(t, "zone_a", msg.Payload.ID)
	assert.Equal(t, 3, msg.Payload.Occupied)

	// The gate_2 subscriber must not receive it.
	require.NoError(t, bystander.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := bystander.ReadMessage()
	assert.Error(t, err)
}

func TestHub_AdminUpdateReachesAllClients(t *testing.T) {
	provider := &stubProvider{states: map[string][]domain.ZoneState{}}
	hub, srv := newHubServer(t, provider)

	first := dial(t, srv)
	second := dial(t, srv)
	subscribe(t, first, "gate_1")
	subscribe(t, second, "gate_2")
	time.Sleep(100 * time.Millisecond)

	hub.BroadcastAdminUpdate(domain.AdminUpdate{
		ActorID: "user_admin", Action: "zone-closed", TargetType: "zone", TargetID: "zone_a",
		Timestamp: time.Now().UTC(),
	})

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg domain.AdminUpdateMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, domain.WSTypeAdminUpdate, msg.Type)
		assert.Equal(t, "zone-closed", msg.Payload.Action)
		assert.Equal(t, "user_admin", msg.Payload.ActorID)
		assert.Contains(t, string(raw), `"actorId":"user_admin"`)
	}
}

func TestHub_UnsubscribeStopsUpdates(t *testing.T) {
	provider := &stubProvider{states: map[string][]domain.ZoneState{}}
	hub, srv := newHubServer(t, provider)

	conn := dial(t, srv)
	subscribe(t, conn, "gate_1")
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, conn.WriteJSON(domain.WSClientMessage{
		Type:    domain.WSTypeUnsubscribe,
		Payload: domain.WSClientPayload{GateID: "gate_1"},
	}))
	time.Sleep(100 * time.Millisecond)

	hub.PublishZoneUpdate(&domain.ZoneState{ID: "zone_a"}, []string{"gate_1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}
