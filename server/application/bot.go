package application

import "math/rand"

// BotAgent は非人間プレイヤーの攻撃位置を生成します。
// 試行済みマスを記憶し、その補集合からのみ選ぶため、
// 有限の100マス内で必ず終了し、Repeatを引き起こしません。
type BotAgent struct {
	attempted map[Position]struct{}
}

func NewBotAgent() *BotAgent {
	return &BotAgent{
		attempted: make(map[Position]struct{}),
	}
}

// NextAttack は未試行マスから一様に1つ選んで試行済みにします。
// 全マス試行済みの場合はfalseを返します。
func (b *BotAgent) NextAttack() (Position, bool) {
	remaining := make([]Position, 0, GridSize*GridSize-len(b.attempted))
	for x := 0; x < GridSize; x++ {
		for y := 0; y < GridSize; y++ {
			pos := Position{X: x, Y: y}
			if _, ok := b.attempted[pos]; !ok {
				remaining = append(remaining, pos)
			}
		}
	}
	if len(remaining) == 0 {
		return Position{}, false
	}
	pos := remaining[rand.Intn(len(remaining))]
	b.attempted[pos] = struct{}{}
	return pos, true
}

// MarkAttempted は外部で判明したマス（撃沈境界など）を試行済みに加えます。
func (b *BotAgent) MarkAttempted(pos Position) {
	b.attempted[pos] = struct{}{}
}

func (b *BotAgent) Attempted() int {
	return len(b.attempted)
}

// 正規構成を長い艦から並べたもの。長い艦を先に置くと配置の失敗が減る。
var fleetLengths = []int{4, 3, 3, 2, 2, 2, 1, 1, 1, 1}

// RandomFleet は正規構成のランダムな艦隊を生成します。
// 生成される艦同士は隣接もしないため、撃沈境界が他艦に掛かることはありません。
func RandomFleet() []*Ship {
	for {
		if ships, ok := tryRandomFleet(); ok {
			return ships
		}
	}
}

func tryRandomFleet() ([]*Ship, bool) {
	blocked := make(map[Position]struct{})
	ships := make([]*Ship, 0, len(fleetLengths))

	for _, length := range fleetLengths {
		placed := false
		for attempt := 0; attempt < 100; attempt++ {
			vertical := rand.Intn(2) == 0
			maxX, maxY := GridSize-length, GridSize-1
			if vertical {
				maxX, maxY = GridSize-1, GridSize-length
			}
			origin := Position{X: rand.Intn(maxX + 1), Y: rand.Intn(maxY + 1)}
			ship := NewShip(origin, vertical, length)
			if !fits(ship, blocked) {
				continue
			}
			for _, pos := range ship.Cells() {
				blocked[pos] = struct{}{}
				for _, n := range pos.Neighbors() {
					blocked[n] = struct{}{}
				}
			}
			ships = append(ships, ship)
			placed = true
			break
		}
		if !placed {
			return nil, false
		}
	}
	return ships, true
}

func fits(ship *Ship, blocked map[Position]struct{}) bool {
	for _, pos := range ship.Cells() {
		if _, ok := blocked[pos]; ok {
			return false
		}
	}
	return true
}
