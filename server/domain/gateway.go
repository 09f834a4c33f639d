package domain

import (
	"errors"
	"log/slog"
	"sync"
)

var ErrSessionNotFound = errors.New("session is not registered in the gateway")

type Sender interface {
	Send(data []byte) error
}

// Gateway は接続中セッションへの送信経路を管理します。
// アプリケーション層はソケットを直接参照せず、Gateway経由で送信します。
type Gateway struct {
	mu      sync.RWMutex
	senders map[SessionID]Sender
}

func NewGateway() *Gateway {
	return &Gateway{
		senders: make(map[SessionID]Sender),
	}
}

func (g *Gateway) Register(id SessionID, sender Sender) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.senders[id] = sender
}

func (g *Gateway) Unregister(id SessionID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.senders, id)
}

func (g *Gateway) SendTo(id SessionID, data []byte) error {
	g.mu.RLock()
	sender, ok := g.senders[id]
	g.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}
	return sender.Send(data)
}

// Broadcast は登録中の全セッションへ送信します。
// 送信に失敗したセッションはスキップされます（切断処理は各エンドポイントが行う）。
func (g *Gateway) Broadcast(data []byte) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for id, sender := range g.senders {
		if err := sender.Send(data); err != nil {
			slog.Warn("broadcast: send failed, message dropped", "sessionID", id, "err", err)
		}
	}
}
