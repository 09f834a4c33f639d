package application

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"broadside/server/domain"
)

// Outbox はアプリケーションからトランスポート層への送信経路です。
// コアはソケットを直接参照しません。
type Outbox interface {
	SendTo(id domain.SessionID, data []byte) error
	Broadcast(data []byte)
}

// Battleship は全コマンドを処理するdomain.Applicationの実装です。
// レジストリ（ユーザ・ルーム・ゲーム・勝利台帳）を所有し、
// 1つのミューテックスで全コマンド処理を直列化します。
type Battleship struct {
	mu     sync.Mutex
	users  *UserRegistry
	rooms  *RoomRegistry
	games  map[GameID]*Game
	ledger *WinnerLedger
	outbox Outbox

	// botDelayが0以下の場合、ボットの手は遅延なしで同期的に打たれる
	botDelay  time.Duration
	botTimers map[GameID]*time.Timer
}

func NewBattleship(outbox Outbox, botDelay time.Duration) *Battleship {
	return &Battleship{
		users:     NewUserRegistry(),
		rooms:     NewRoomRegistry(),
		games:     make(map[GameID]*Game),
		ledger:    NewWinnerLedger(),
		outbox:    outbox,
		botDelay:  botDelay,
		botTimers: make(map[GameID]*time.Timer),
	}
}

var _ domain.Application = (*Battleship)(nil)

func (b *Battleship) HandleMessage(ctx context.Context, sessionID domain.SessionID, data []byte) error {
	env, err := DecodeEnvelope(data)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch env.Type {
	case CommandReg:
		return b.handleReg(ctx, sessionID, env)
	case CommandCreateRoom:
		return b.handleCreateRoom(ctx, sessionID)
	case CommandAddUserToRoom:
		return b.handleAddUserToRoom(ctx, sessionID, env)
	case CommandSinglePlay:
		return b.handleSinglePlay(ctx, sessionID)
	case CommandAddShips:
		return b.handleAddShips(ctx, sessionID, env)
	case CommandAttack:
		return b.handleAttack(ctx, sessionID, env)
	case CommandRandomAttack:
		return b.handleRandomAttack(ctx, sessionID, env)
	default:
		// サーバ→クライアント専用コマンドを含む未知のtypeは受け付けない
		return fmt.Errorf("unsupported command %q", env.Type)
	}
}

// HandleDisconnect は切断セッションの後始末を行います。
// 表示名を解放し、参加中のオープンルームを撤去し、
// 交戦中のゲームは残ったプレイヤーの勝利として終局させます。
func (b *Battleship) HandleDisconnect(ctx context.Context, sessionID domain.SessionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	user, ok := b.users.Unregister(sessionID)
	if !ok {
		return
	}
	slog.InfoContext(ctx, "user disconnected", "user", user.ID, "name", user.Name)

	if b.rooms.RemoveWithUser(user.ID) {
		b.broadcastRooms(ctx)
	}

	for _, game := range b.games {
		leaver, ok := b.playerOfUser(game, user.ID)
		if !ok {
			continue
		}
		game.Abandon(leaver.ID)
		winner := game.Winner()
		b.recordWin(winner)
		b.sendToPlayer(ctx, winner, b.encode(ctx, CommandFinish, FinishResponse{WinPlayer: string(winner.ID)}))
		b.teardownGame(game)
		b.broadcastWinners(ctx)
	}
}

func (b *Battleship) handleReg(ctx context.Context, sessionID domain.SessionID, env *Envelope) error {
	var req RegRequest
	if err := env.DecodePayload(&req); err != nil {
		return err
	}
	if req.Name == "" {
		b.send(ctx, sessionID, b.encode(ctx, CommandReg, RegResponse{
			Error:     true,
			ErrorText: "display name must not be empty",
		}))
		return nil
	}

	user, err := b.users.Register(sessionID, req.Name)
	if err != nil {
		b.send(ctx, sessionID, b.encode(ctx, CommandReg, RegResponse{
			Name:      req.Name,
			Error:     true,
			ErrorText: fmt.Sprintf("A user with account name %q already exists", req.Name),
		}))
		return nil
	}
	slog.InfoContext(ctx, "user registered", "user", user.ID, "name", user.Name)

	b.send(ctx, sessionID, b.encode(ctx, CommandReg, RegResponse{
		Name:  user.Name,
		Index: string(user.ID),
	}))
	b.broadcastWinners(ctx)
	b.broadcastRooms(ctx)
	return nil
}

func (b *Battleship) handleCreateRoom(ctx context.Context, sessionID domain.SessionID) error {
	user, ok := b.users.BySession(sessionID)
	if !ok {
		return ErrUnknownUser
	}
	room := b.rooms.Create(user)
	slog.InfoContext(ctx, "room created", "room", room.ID, "user", user.ID)
	b.broadcastRooms(ctx)
	return nil
}

func (b *Battleship) handleAddUserToRoom(ctx context.Context, sessionID domain.SessionID, env *Envelope) error {
	user, ok := b.users.BySession(sessionID)
	if !ok {
		return ErrUnknownUser
	}
	var req AddUserToRoomRequest
	if err := env.DecodePayload(&req); err != nil {
		return err
	}
	room, ok := b.rooms.Get(RoomID(req.IndexRoom))
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, req.IndexRoom)
	}

	room.AddUser(user)
	if room.IsFull() {
		// ルームは満室になった瞬間に消費され、ゲームが生まれる
		b.rooms.Remove(room.ID)
		b.spawnGame(ctx, room.Users())
	}
	b.broadcastWinners(ctx)
	b.broadcastRooms(ctx)
	return nil
}

func (b *Battleship) handleSinglePlay(ctx context.Context, sessionID domain.SessionID) error {
	user, ok := b.users.BySession(sessionID)
	if !ok {
		return ErrUnknownUser
	}

	// 待機中のルームはシングルプレイ開始で放棄される
	if b.rooms.RemoveWithUser(user.ID) {
		b.broadcastRooms(ctx)
	}

	game := NewGame()
	human := NewPlayer(user)
	bot := NewBotPlayer()
	if err := game.AddPlayer(human); err != nil {
		return err
	}
	if err := game.AddPlayer(bot); err != nil {
		return err
	}
	// ボットの艦隊はゲーム生成時に自動配置される
	if _, err := game.PlaceFleet(bot.ID, RandomFleet()); err != nil {
		return err
	}
	b.games[game.ID] = game
	slog.InfoContext(ctx, "single play game created", "game", game.ID, "user", user.ID)

	b.send(ctx, sessionID, b.encode(ctx, CommandCreateGame, CreateGameResponse{
		IDGame:   string(game.ID),
		IDPlayer: string(human.ID),
	}))
	return nil
}

func (b *Battleship) handleAddShips(ctx context.Context, sessionID domain.SessionID, env *Envelope) error {
	var req AddShipsRequest
	if err := env.DecodePayload(&req); err != nil {
		return err
	}
	game, ok := b.games[GameID(req.GameID)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, req.GameID)
	}

	ships := make([]*Ship, 0, len(req.Ships))
	for _, s := range req.Ships {
		ships = append(ships, NewShip(Position{X: s.Position.X, Y: s.Position.Y}, s.Direction, s.Length))
	}

	started, err := game.PlaceFleet(PlayerID(req.IndexPlayer), ships)
	if err != nil {
		return err
	}
	if !started {
		return nil
	}

	// 両艦隊が揃った瞬間に開戦し、初手を双方へ通知する
	for _, player := range game.Players() {
		b.sendToPlayer(ctx, player, b.encode(ctx, CommandStartGame, StartGameResponse{
			Ships:              shipPayloads(player.Board.Ships()),
			CurrentPlayerIndex: string(player.ID),
		}))
	}
	b.announceTurn(ctx, game)
	b.maybeScheduleBot(ctx, game)
	return nil
}

func (b *Battleship) handleAttack(ctx context.Context, sessionID domain.SessionID, env *Envelope) error {
	var req AttackRequest
	if err := env.DecodePayload(&req); err != nil {
		return err
	}
	pos := Position{X: req.X, Y: req.Y}
	if !pos.InBounds() {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, pos.X, pos.Y)
	}
	return b.resolveAttackCommand(ctx, GameID(req.GameID), PlayerID(req.IndexPlayer), pos)
}

// handleRandomAttack は座標を省略した攻撃です。
// 座標は盤面全体から一様ランダムに呼び出し側が選びます（盤面は関与しない）。
func (b *Battleship) handleRandomAttack(ctx context.Context, sessionID domain.SessionID, env *Envelope) error {
	var req RandomAttackRequest
	if err := env.DecodePayload(&req); err != nil {
		return err
	}
	pos := Position{X: rand.Intn(GridSize), Y: rand.Intn(GridSize)}
	return b.resolveAttackCommand(ctx, GameID(req.GameID), PlayerID(req.IndexPlayer), pos)
}

func (b *Battleship) resolveAttackCommand(ctx context.Context, gameID GameID, attackerID PlayerID, pos Position) error {
	game, ok := b.games[gameID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	attacker, ok := game.Player(attackerID)
	if !ok {
		return fmt.Errorf("%w: player %s", ErrGameNotFound, attackerID)
	}

	outcome, err := game.Attack(attackerID, pos)
	if err != nil {
		return err
	}
	b.emitAttackResult(ctx, game, attacker, pos, outcome)
	return nil
}

// emitAttackResult は攻撃結果を両者へ配信し、終局・手番通知・ボット起動を行います。
// Repeatは何も壊さないため、手番を攻撃者へ再送するだけです。
func (b *Battleship) emitAttackResult(ctx context.Context, game *Game, attacker *Player, pos Position, outcome AttackOutcome) {
	if outcome.Status == AttackRepeat {
		b.sendToPlayer(ctx, attacker, b.encode(ctx, CommandTurn, TurnResponse{CurrentPlayer: string(game.Turn())}))
		return
	}

	b.sendToPlayers(ctx, game, b.encode(ctx, CommandAttack, AttackResponse{
		Position:      PositionPayload{X: pos.X, Y: pos.Y},
		CurrentPlayer: string(attacker.ID),
		Status:        wireStatus(outcome.Status),
	}))

	// 撃沈境界は攻撃側にとって既知のミスとして先行配信される
	for _, border := range outcome.Borders {
		b.sendToPlayers(ctx, game, b.encode(ctx, CommandAttack, AttackResponse{
			Position:      PositionPayload{X: border.X, Y: border.Y},
			CurrentPlayer: string(attacker.ID),
			Status:        "miss",
		}))
	}
	if outcome.Status == AttackSunk && attacker.IsBot() {
		for _, border := range outcome.Borders {
			attacker.Agent.MarkAttempted(border)
		}
	}

	if game.State() == StateFinished {
		winner := game.Winner()
		slog.InfoContext(ctx, "game finished", "game", game.ID, "winner", winner.ID)
		b.recordWin(winner)
		b.sendToPlayers(ctx, game, b.encode(ctx, CommandFinish, FinishResponse{WinPlayer: string(winner.ID)}))
		b.teardownGame(game)
		b.broadcastWinners(ctx)
		return
	}

	b.announceTurn(ctx, game)
	b.maybeScheduleBot(ctx, game)
}

// maybeScheduleBot は手番がボットならタイマーで手を予約します。
// タイマーはブロックしないコールバックであり、発火時にゲームが
// まだ交戦中かどうかを確認してから打ちます。
func (b *Battleship) maybeScheduleBot(ctx context.Context, game *Game) {
	if game.State() != StateInProgress {
		return
	}
	current, ok := game.Player(game.Turn())
	if !ok || !current.IsBot() {
		return
	}

	if b.botDelay <= 0 {
		b.botMoveLocked(ctx, game)
		return
	}

	gameID := game.ID
	b.botTimers[gameID] = time.AfterFunc(b.botDelay, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		g, ok := b.games[gameID]
		if !ok || g.State() != StateInProgress {
			return
		}
		b.botMoveLocked(context.WithoutCancel(ctx), g)
	})
}

// botMoveLocked はボットの1手を打ちます。呼び出し側がmuを保持していること。
func (b *Battleship) botMoveLocked(ctx context.Context, game *Game) {
	bot, ok := game.Player(game.Turn())
	if !ok || !bot.IsBot() {
		return
	}
	pos, ok := bot.Agent.NextAttack()
	if !ok {
		slog.ErrorContext(ctx, "bot exhausted the grid without finishing the game", "game", game.ID)
		return
	}
	outcome, err := game.Attack(bot.ID, pos)
	if err != nil {
		slog.ErrorContext(ctx, "bot attack rejected", "game", game.ID, "err", err)
		return
	}
	b.emitAttackResult(ctx, game, bot, pos, outcome)
}

func (b *Battleship) spawnGame(ctx context.Context, users []*User) {
	game := NewGame()
	for _, user := range users {
		player := NewPlayer(user)
		if err := game.AddPlayer(player); err != nil {
			slog.ErrorContext(ctx, "failed to bind player", "game", game.ID, "user", user.ID, "err", err)
			return
		}
		b.send(ctx, user.Session, b.encode(ctx, CommandCreateGame, CreateGameResponse{
			IDGame:   string(game.ID),
			IDPlayer: string(player.ID),
		}))
	}
	b.games[game.ID] = game
	slog.InfoContext(ctx, "game created", "game", game.ID)
}

// teardownGame はゲームを稼働テーブルから外し、ボットタイマーを止めます。
func (b *Battleship) teardownGame(game *Game) {
	if timer, ok := b.botTimers[game.ID]; ok {
		timer.Stop()
		delete(b.botTimers, game.ID)
	}
	delete(b.games, game.ID)
}

func (b *Battleship) recordWin(winner *Player) {
	// 勝利台帳は表示名で引くため、人間の勝利のみ記録される
	if winner.User != nil {
		b.ledger.RecordWin(winner.User.Name)
	}
}

func (b *Battleship) playerOfUser(game *Game, id UserID) (*Player, bool) {
	for _, p := range game.Players() {
		if p.User != nil && p.User.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (b *Battleship) announceTurn(ctx context.Context, game *Game) {
	b.sendToPlayers(ctx, game, b.encode(ctx, CommandTurn, TurnResponse{CurrentPlayer: string(game.Turn())}))
}

func (b *Battleship) broadcastWinners(ctx context.Context) {
	b.outbox.Broadcast(b.encode(ctx, CommandUpdateWinners, b.ledger.Snapshot()))
}

func (b *Battleship) broadcastRooms(ctx context.Context) {
	open := b.rooms.Open()
	infos := make([]RoomInfo, 0, len(open))
	for _, room := range open {
		users := make([]RoomUserInfo, 0, len(room.Users()))
		for _, u := range room.Users() {
			users = append(users, RoomUserInfo{Name: u.Name, Index: string(u.ID)})
		}
		infos = append(infos, RoomInfo{RoomID: string(room.ID), RoomUsers: users})
	}
	b.outbox.Broadcast(b.encode(ctx, CommandUpdateRoom, infos))
}

func (b *Battleship) send(ctx context.Context, sessionID domain.SessionID, data []byte) {
	if data == nil {
		return
	}
	if err := b.outbox.SendTo(sessionID, data); err != nil {
		// 切断済みセッションへの送信失敗でゲームを壊さない
		slog.WarnContext(ctx, "send failed", "sessionID", sessionID, "err", err)
	}
}

func (b *Battleship) sendToPlayer(ctx context.Context, player *Player, data []byte) {
	if player.IsBot() {
		return
	}
	b.send(ctx, player.User.Session, data)
}

func (b *Battleship) sendToPlayers(ctx context.Context, game *Game, data []byte) {
	for _, player := range game.Players() {
		b.sendToPlayer(ctx, player, data)
	}
}

func (b *Battleship) encode(ctx context.Context, cmd Command, payload any) []byte {
	data, err := EncodeMessage(cmd, payload)
	if err != nil {
		slog.ErrorContext(ctx, "encode failed", "command", cmd, "err", err)
		return nil
	}
	return data
}

func wireStatus(status AttackStatus) string {
	switch status {
	case AttackMiss:
		return "miss"
	case AttackHit:
		return "shot"
	case AttackSunk:
		return "killed"
	}
	return "retry"
}

func shipPayloads(ships []*Ship) []ShipPayload {
	payloads := make([]ShipPayload, 0, len(ships))
	for _, ship := range ships {
		origin := ship.Origin()
		payloads = append(payloads, ShipPayload{
			Position:  PositionPayload{X: origin.X, Y: origin.Y},
			Direction: ship.Vertical(),
			Length:    ship.Length(),
			Type:      string(ship.Kind()),
		})
	}
	return payloads
}
