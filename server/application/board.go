package application

import "fmt"

// AttackStatus は1回の攻撃の判定結果です。
type AttackStatus uint8

const (
	// AttackRepeat は解決済みマスへの再攻撃です。盤面は変化しません。
	AttackRepeat AttackStatus = iota
	AttackMiss
	AttackHit
	AttackSunk
)

func (s AttackStatus) String() string {
	switch s {
	case AttackRepeat:
		return "repeat"
	case AttackMiss:
		return "miss"
	case AttackHit:
		return "hit"
	case AttackSunk:
		return "sunk"
	}
	return fmt.Sprintf("unknown(%d)", uint8(s))
}

// AttackOutcome は攻撃の判定と、撃沈時の境界マスを保持します。
type AttackOutcome struct {
	Status  AttackStatus
	Borders []Position
}

// 正規の艦隊構成: セル数 → 隻数
var canonicalFleet = map[int]int{4: 1, 3: 2, 2: 3, 1: 4}

// Board は1プレイヤーの10×10盤面と艦隊を保持します。
type Board struct {
	ships    []*Ship
	resolved map[Position]struct{}
}

func NewBoard() *Board {
	return &Board{
		resolved: make(map[Position]struct{}),
	}
}

// PlaceFleet は艦隊を検証して配置します。失敗時は盤面を一切変更しません。
// 構成は1×4マス・2×3マス・3×2マス・4×1マスの10隻で固定です。
func (b *Board) PlaceFleet(ships []*Ship) error {
	if b.HasFleet() {
		return ErrFleetAlreadyPlaced
	}

	counts := make(map[int]int, len(canonicalFleet))
	for _, ship := range ships {
		counts[ship.Length()]++
	}
	if len(ships) != 10 {
		return fmt.Errorf("%w: %d ships", ErrInvalidFleetComposition, len(ships))
	}
	for length, want := range canonicalFleet {
		if counts[length] != want {
			return fmt.Errorf("%w: %d ships of length %d, want %d", ErrInvalidFleetComposition, counts[length], length, want)
		}
	}

	occupied := make(map[Position]struct{}, 20)
	for _, ship := range ships {
		for _, pos := range ship.Cells() {
			if !pos.InBounds() {
				return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, pos.X, pos.Y)
			}
			if _, ok := occupied[pos]; ok {
				return fmt.Errorf("%w: (%d,%d)", ErrOverlapConflict, pos.X, pos.Y)
			}
			occupied[pos] = struct{}{}
		}
	}

	b.ships = ships
	return nil
}

func (b *Board) HasFleet() bool {
	return len(b.ships) > 0
}

func (b *Board) Ships() []*Ship {
	return b.ships
}

// ResolveAttack は攻撃を解決します。
// 解決済みマスへの攻撃はRepeatを返し、状態を変更しません（攻撃は冪等）。
func (b *Board) ResolveAttack(pos Position) AttackOutcome {
	if _, ok := b.resolved[pos]; ok {
		return AttackOutcome{Status: AttackRepeat}
	}
	b.resolved[pos] = struct{}{}

	ship := b.shipAt(pos)
	if ship == nil {
		return AttackOutcome{Status: AttackMiss}
	}

	ship.markHit(pos)
	if ship.IsSunk() {
		return AttackOutcome{Status: AttackSunk, Borders: ship.Borders()}
	}
	return AttackOutcome{Status: AttackHit}
}

// IsDefeated は全艦の全セルに命中している場合にtrueを返します。
func (b *Board) IsDefeated() bool {
	if !b.HasFleet() {
		return false
	}
	for _, ship := range b.ships {
		if !ship.IsSunk() {
			return false
		}
	}
	return true
}

func (b *Board) shipAt(pos Position) *Ship {
	for _, ship := range b.ships {
		if ship.Occupies(pos) {
			return ship
		}
	}
	return nil
}
