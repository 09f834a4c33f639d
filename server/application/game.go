package application

import (
	"fmt"

	"github.com/google/uuid"
)

type GameID string

func NewGameID() GameID {
	return GameID("game-" + uuid.NewString())
}

// GameState はゲームのライフサイクルです。前方にのみ遷移します。
type GameState uint8

const (
	// StateForming はプレイヤーが2人揃っていない状態です。
	StateForming GameState = iota
	// StatePlacing は2人揃い、艦隊の配置を待っている状態です。
	StatePlacing
	// StateInProgress は両艦隊が配置済みで交戦中の状態です。
	StateInProgress
	// StateFinished は終局です。以後の操作は拒否されます。
	StateFinished
)

func (s GameState) String() string {
	switch s {
	case StateForming:
		return "forming"
	case StatePlacing:
		return "placing"
	case StateInProgress:
		return "in_progress"
	case StateFinished:
		return "finished"
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// Game は1対戦を編成するステートマシンです。
// ターンカウンタは単調増加し、偶奇が手番プレイヤーを選びます。
type Game struct {
	ID            GameID
	players       []*Player
	attackCounter int
	state         GameState
	winner        *Player
}

func NewGame() *Game {
	return &Game{
		ID:    NewGameID(),
		state: StateForming,
	}
}

func (g *Game) State() GameState {
	return g.state
}

func (g *Game) Players() []*Player {
	return g.players
}

func (g *Game) Player(id PlayerID) (*Player, bool) {
	for _, p := range g.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (g *Game) Winner() *Player {
	return g.winner
}

// AddPlayer はForming状態でのみ有効です。2人目の束縛でPlacingへ遷移します。
// 束縛順はそのままターン順になります。
func (g *Game) AddPlayer(player *Player) error {
	if g.state != StateForming {
		return ErrGameFull
	}
	if _, ok := g.Player(player.ID); ok {
		return ErrDuplicatePlayer
	}
	g.players = append(g.players, player)
	if len(g.players) == 2 {
		g.state = StatePlacing
	}
	return nil
}

// PlaceFleet は指定プレイヤーの艦隊を配置します。
// 両プレイヤーが配置を終えた瞬間にInProgressへ遷移し、startedがtrueになります。
// 初手は最初に束縛されたプレイヤーです。
func (g *Game) PlaceFleet(id PlayerID, ships []*Ship) (started bool, err error) {
	if g.state != StatePlacing {
		return false, fmt.Errorf("%w: state is %s", ErrGameNotInProgress, g.state)
	}
	player, ok := g.Player(id)
	if !ok {
		return false, fmt.Errorf("%w: player %s", ErrGameNotFound, id)
	}
	if err := player.Board.PlaceFleet(ships); err != nil {
		return false, err
	}
	if g.players[0].IsReady() && g.players[1].IsReady() {
		g.state = StateInProgress
		return true, nil
	}
	return false, nil
}

// Turn は手番プレイヤーのIDを返します。
func (g *Game) Turn() PlayerID {
	return g.players[g.attackCounter%2].ID
}

// Opponent は相手プレイヤーを返します。
// 2人揃う前に呼ぶのは論理エラーであり、panicします。
func (g *Game) Opponent(id PlayerID) *Player {
	if len(g.players) != 2 {
		panic("game: opponent lookup before two players are bound")
	}
	if g.players[0].ID == id {
		return g.players[1]
	}
	return g.players[0]
}

// Attack は攻撃を調停します。InProgress状態でのみ有効です。
// ターンカウンタはMissのときに限り進みます。命中・撃沈では手番を保持します。
// 相手の全滅で終局し、攻撃者が勝者として記録されます。
func (g *Game) Attack(attackerID PlayerID, pos Position) (AttackOutcome, error) {
	switch g.state {
	case StateFinished:
		return AttackOutcome{}, ErrGameAlreadyFinished
	case StateInProgress:
	default:
		return AttackOutcome{}, fmt.Errorf("%w: state is %s", ErrGameNotInProgress, g.state)
	}
	attacker, ok := g.Player(attackerID)
	if !ok {
		return AttackOutcome{}, fmt.Errorf("%w: player %s", ErrGameNotFound, attackerID)
	}
	if g.Turn() != attackerID {
		return AttackOutcome{}, fmt.Errorf("%w: attacker %s", ErrTurnMismatch, attackerID)
	}

	opponent := g.Opponent(attackerID)
	outcome := opponent.Board.ResolveAttack(pos)

	if outcome.Status == AttackMiss {
		g.attackCounter++
	}
	if opponent.Board.IsDefeated() {
		g.state = StateFinished
		g.winner = attacker
	}
	return outcome, nil
}

// Abandon は片側の離脱による終局です。残ったプレイヤーが勝者になります。
// 既に終局している場合は何もしません。
func (g *Game) Abandon(leaverID PlayerID) {
	if g.state == StateFinished {
		return
	}
	g.state = StateFinished
	g.winner = g.Opponent(leaverID)
}
