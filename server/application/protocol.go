package application

import (
	"encoding/json"
	"fmt"
)

// Command はメッセージエンベロープのtypeフィールドです。
type Command string

const (
	CommandReg           Command = "reg"
	CommandCreateRoom    Command = "create_room"
	CommandAddUserToRoom Command = "add_user_to_room"
	CommandSinglePlay    Command = "single_play"
	CommandCreateGame    Command = "create_game"
	CommandAddShips      Command = "add_ships"
	CommandStartGame     Command = "start_game"
	CommandTurn          Command = "turn"
	CommandAttack        Command = "attack"
	CommandRandomAttack  Command = "randomAttack"
	CommandFinish        Command = "finish"
	CommandUpdateRoom    Command = "update_room"
	CommandUpdateWinners Command = "update_winners"
)

// Envelope は全メッセージ共通の外枠です。
// dataフィールドはJSONを文字列として二重エンコードしたものを保持します。
type Envelope struct {
	Type Command `json:"type"`
	Data string  `json:"data"`
	ID   int     `json:"id"`
}

func DecodeEnvelope(raw []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("decode envelope: missing type")
	}
	return &env, nil
}

// DecodePayload はdataフィールドをデコードします。空文字列は空オブジェクトとして扱います。
func (e *Envelope) DecodePayload(v any) error {
	data := e.Data
	if data == "" {
		data = "{}"
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// EncodeMessage はペイロードを二重エンコードしてエンベロープに包みます。
func EncodeMessage(cmd Command, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", cmd, err)
	}
	raw, err := json.Marshal(Envelope{Type: cmd, Data: string(data), ID: 0})
	if err != nil {
		return nil, fmt.Errorf("encode %s envelope: %w", cmd, err)
	}
	return raw, nil
}

type RegRequest struct {
	Name string `json:"name"`
}

type RegResponse struct {
	Name      string `json:"name"`
	Index     string `json:"index"`
	Error     bool   `json:"error"`
	ErrorText string `json:"errorText"`
}

type WinnerEntry struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

type RoomUserInfo struct {
	Name  string `json:"name"`
	Index string `json:"index"`
}

type RoomInfo struct {
	RoomID    string         `json:"roomId"`
	RoomUsers []RoomUserInfo `json:"roomUsers"`
}

type AddUserToRoomRequest struct {
	IndexRoom string `json:"indexRoom"`
}

type CreateGameResponse struct {
	IDGame   string `json:"idGame"`
	IDPlayer string `json:"idPlayer"`
}

type PositionPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ShipPayload はクライアントが送る艦の配置です。directionは縦向きのときtrueです。
type ShipPayload struct {
	Position  PositionPayload `json:"position"`
	Direction bool            `json:"direction"`
	Length    int             `json:"length"`
	Type      string          `json:"type"`
}

type AddShipsRequest struct {
	GameID      string        `json:"gameId"`
	Ships       []ShipPayload `json:"ships"`
	IndexPlayer string        `json:"indexPlayer"`
}

type StartGameResponse struct {
	Ships              []ShipPayload `json:"ships"`
	CurrentPlayerIndex string        `json:"currentPlayerIndex"`
}

type AttackRequest struct {
	GameID      string `json:"gameId"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	IndexPlayer string `json:"indexPlayer"`
}

type RandomAttackRequest struct {
	GameID      string `json:"gameId"`
	IndexPlayer string `json:"indexPlayer"`
}

type AttackResponse struct {
	Position      PositionPayload `json:"position"`
	CurrentPlayer string          `json:"currentPlayer"`
	Status        string          `json:"status"`
}

type TurnResponse struct {
	CurrentPlayer string `json:"currentPlayer"`
}

type FinishResponse struct {
	WinPlayer string `json:"winPlayer"`
}
