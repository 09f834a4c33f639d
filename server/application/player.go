package application

import "github.com/google/uuid"

type PlayerID string

func NewPlayerID() PlayerID {
	return PlayerID("player-" + uuid.NewString())
}

// Player はゲームの参加者です。人間はUserを、ボットはAgentを持ちます。
type Player struct {
	ID    PlayerID
	User  *User
	Agent *BotAgent
	Board *Board
}

func NewPlayer(user *User) *Player {
	return &Player{
		ID:    NewPlayerID(),
		User:  user,
		Board: NewBoard(),
	}
}

func NewBotPlayer() *Player {
	return &Player{
		ID:    NewPlayerID(),
		Agent: NewBotAgent(),
		Board: NewBoard(),
	}
}

func (p *Player) IsBot() bool {
	return p.Agent != nil
}

// IsReady は有効な艦隊が配置済みの場合にtrueを返します。
func (p *Player) IsReady() bool {
	return p.Board.HasFleet()
}
