package handler

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"

	adapterwebsocket "broadside/server/adapter/websocket"
	"broadside/server/domain"
)

type AcceptHandler struct {
	gateway     *domain.Gateway
	application domain.Application
}

func NewAcceptHandler(gateway *domain.Gateway, application domain.Application) *AcceptHandler {
	return &AcceptHandler{gateway: gateway, application: application}
}

func (h *AcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // 開発用: Origin チェックをスキップ
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to accept", "err", err)
		return
	}

	session := domain.NewSession()
	transport := adapterwebsocket.NewTransportFrom(conn)
	connection := domain.NewConnection(session.ID(), transport)
	endpoint, err := domain.NewSessionEndpoint(session, connection, h.gateway, h.application)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create session endpoint", "err", err)
		_ = conn.Close(websocket.StatusInternalError, "endpoint setup failed")
		return
	}
	slog.DebugContext(ctx, "accepted new connection", "session_id", session.ID())
	if err := endpoint.Run(ctx); err != nil {
		slog.DebugContext(ctx, "session endpoint closed", "session_id", session.ID(), "err", err)
	}
}
