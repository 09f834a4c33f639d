package domain

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrBackpressure は書き込みチャネルが満杯の場合に返されるエラーです。
	ErrBackpressure = errors.New("write channel is full, apply backpressure")
	// ErrInitializationFailed はセッションエンドポイントの初期化に失敗した場合に返されるエラーです。
	ErrInitializationFailed = errors.New("failed to initialize session endpoint")
)

// SessionEndpoint は1接続分の読み書きループを持ち、受信メッセージを
// Applicationへ、送信メッセージをGateway経由でConnectionへ流します。
type SessionEndpoint struct {
	session     *Session
	connection  *Connection
	gateway     *Gateway
	application Application

	writeCh chan []byte
}

func NewSessionEndpoint(session *Session, connection *Connection, gateway *Gateway, application Application) (*SessionEndpoint, error) {
	if session == nil || connection == nil || gateway == nil || application == nil {
		return nil, ErrInitializationFailed
	}
	return &SessionEndpoint{
		session:     session,
		connection:  connection,
		gateway:     gateway,
		application: application,
		writeCh:     make(chan []byte, 256),
	}, nil
}

// Run は読み書きループを起動し、どちらかが終了するまでブロックします。
// 終了時はGatewayから登録解除し、Applicationへ切断を通知します。
func (se *SessionEndpoint) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	se.gateway.Register(se.session.ID(), se)
	defer func() {
		se.gateway.Unregister(se.session.ID())
		se.session.Close()
		se.application.HandleDisconnect(context.WithoutCancel(ctx), se.session.ID())
		se.connection.Close()
	}()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return se.readLoop(ctx)
	})
	eg.Go(func() error {
		se.writeLoop(ctx)
		return nil
	})
	return eg.Wait()
}

// Send はSenderの実装です。ブロックせず、満杯時はErrBackpressureを返します。
func (se *SessionEndpoint) Send(data []byte) error {
	select {
	case se.writeCh <- data:
		return nil
	default:
		return ErrBackpressure
	}
}

func (se *SessionEndpoint) readLoop(ctx context.Context) error {
	for {
		data, err := se.connection.Read(ctx)
		if err != nil {
			return err
		}
		se.session.TouchRead()
		// 不正な入力はアプリケーション側で警告ログとして処理し、接続は維持する
		if err := se.application.HandleMessage(ctx, se.session.ID(), data); err != nil {
			slog.WarnContext(ctx, "message dropped", "sessionID", se.session.ID(), "err", err)
		}
	}
}

func (se *SessionEndpoint) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-se.writeCh:
			if err := se.connection.Write(ctx, data); err != nil {
				slog.WarnContext(ctx, "write failed", "sessionID", se.session.ID(), "err", err)
				continue
			}
			se.session.TouchWrite()
		}
	}
}
