package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/HarshaOnlineJourny/ChatApp/internal/app/server/ws"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/contracts"
	"github.com/HarshaOnlineJourny/ChatApp/internal/core/services"
	"github.com/HarshaOnlineJourny/ChatApp/internal/platform/logger"
)

type WSHandler struct {
	registry contracts.Registry
	router   *services.RouterService
}

func NewWSHandler(registry contracts.Registry, router *services.RouterService) *WSHandler {
	return &WSHandler{
		registry: registry,
		router:   router,
	}
}

// Handler upgrades the connection, attaches it to the registry and pumps
// inbound frames into the router until the peer goes away. Frames are
// processed inline: every handler is a non-blocking in-memory operation, and
// serializing them per connection is what keeps messages between a fixed
// pair stored and delivered in emission order.
func (s *WSHandler) Handler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	span := trace.SpanFromContext(r.Context())

	// The session must outlive the HTTP request context.
	sessionCtx := context.WithoutCancel(r.Context())
	ctx, cancel := context.WithCancel(sessionCtx)

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true // tighten later
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.ErrorContext(r.Context(), "ws handler - upgrade failed", "err", err)
		cancel()
		return
	}
	connID := uuid.NewString()
	span.SetAttributes(attribute.String("connection_id", connID))

	conn.SetCloseHandler(func(code int, text string) error {
		log.Info("ws handler - ws closed", "connection_id", connID)
		cancel()
		return nil
	})
	socket := ws.NewWebSocket(ctx, conn)
	client := ws.NewClient(ctx, socket, connID)

	s.registry.Attach(client)
	log.InfoContext(r.Context(), "ws handler - connection attached", "connection_id", connID)
	defer func() {
		client.Close()
		cancel()
		// The session context is gone by now; the disconnect fanout (presence
		// republish) still has to reach the surviving connections.
		s.router.HandleDisconnect(context.WithoutCancel(ctx), connID)
	}()

	socket.ReadLoop(func(data []byte) {
		s.router.HandleEnvelope(ctx, connID, data)
	})
}
