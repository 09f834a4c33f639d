package domain

import "context"

// Application はサーバー層から受け取ったメッセージを処理するゲーム本体です。
// HandleMessageは同一セッションについて受信順に直列に呼び出されます。
type Application interface {
	HandleMessage(ctx context.Context, sessionID SessionID, data []byte) error
	// HandleDisconnect はセッションの切断時に一度だけ呼び出されます。
	HandleDisconnect(ctx context.Context, sessionID SessionID)
}
