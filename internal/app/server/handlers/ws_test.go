package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/HarshaOnlineJourny/ChatApp/internal/app/registry"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/domain"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/services"
)

type handlerRig struct {
	handler *WSHandler
	history *services.HistoryService
}

func newHandlerRig() *handlerRig {
	log := slog.Default()
	reg := registry.NewRegistry()
	history := services.NewHistoryService(log, nil)
	unread := services.NewUnreadService()
	reactions := services.NewReactionService(log, history, reg)
	presence := services.NewPresenceService(log, reg, time.Minute)
	router := services.NewRouterService(log, reg, history, unread, reactions, presence, nil)
	return &handlerRig{
		handler: NewWSHandler(reg, router),
		history: history,
	}
}

func dialWS(t *testing.T, httpURL string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(httpURL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func writeEvent(t *testing.T, conn *websocket.Conn, eventType string, payload any) {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	frame, err := json.Marshal(domain.Envelope{Type: eventType, Payload: raw})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, frame))
}

// readUntil drains frames until one of the wanted type arrives, skipping
// presence and counter pushes interleaved by the server.
func readUntil(t *testing.T, conn *websocket.Conn, eventType string) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		_, frame, err := conn.ReadMessage()
		require.NoError(t, err)
		var probe struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(frame, &probe))
		if probe.Type == eventType {
			return frame
		}
	}
}

func registerOver(t *testing.T, conn *websocket.Conn, username string) {
	t.Helper()
	writeEvent(t, conn, domain.TypeRegister, domain.RegisterPayload{Username: username, Age: 20})
	readUntil(t, conn, domain.TypeRegistered)
}

func Test_Messages_Between_A_Pair_Keep_Emission_Order(t *testing.T) {
	req := require.New(t)
	rig := newHandlerRig()
	srv := httptest.NewServer(http.HandlerFunc(rig.handler.Handler))
	defer srv.Close()

	alice := dialWS(t, srv.URL)
	bob := dialWS(t, srv.URL)
	registerOver(t, alice, "alice")
	registerOver(t, bob, "bob")

	const total = 100
	for i := 0; i < total; i++ {
		writeEvent(t, alice, domain.TypePrivateMessage, domain.PrivateMessagePayload{
			RecipientUsername: "bob",
			Body:              fmt.Sprintf("m-%04d", i),
		})
	}

	// Delivery order on the recipient's wire.
	for i := 0; i < total; i++ {
		frame := readUntil(t, bob, domain.TypePrivateMessage)
		var ev domain.PrivateMessageEvent
		req.NoError(json.Unmarshal(frame, &ev))
		req.Equal(fmt.Sprintf("m-%04d", i), ev.Body)
	}

	// Stored order matches emission order too.
	stored := rig.history.Fetch(domain.ChatKey("alice", "bob"))
	req.Len(stored, total)
	for i, rec := range stored {
		req.Equal(fmt.Sprintf("m-%04d", i), rec.Body)
	}
}

func Test_Disconnect_Unregisters_The_Connection(t *testing.T) {
	req := require.New(t)
	rig := newHandlerRig()
	srv := httptest.NewServer(http.HandlerFunc(rig.handler.Handler))
	defer srv.Close()

	alice := dialWS(t, srv.URL)
	bob := dialWS(t, srv.URL)
	registerOver(t, alice, "alice")
	registerOver(t, bob, "bob")

	req.NoError(bob.Close())

	// Alice eventually observes a presence snapshot without bob.
	req.NoError(alice.SetReadDeadline(time.Now().Add(5 * time.Second)))
	for {
		frame := readUntil(t, alice, domain.TypeUpdateUsers)
		var ev domain.UpdateUsersEvent
		req.NoError(json.Unmarshal(frame, &ev))
		if len(ev.Users) == 1 && ev.Users[0].Username == "alice" {
			return
		}
	}
}
