package application

// GridSize は盤面の一辺のマス数です。
const GridSize = 10

type Position struct {
	X int
	Y int
}

func (p Position) InBounds() bool {
	return p.X >= 0 && p.X < GridSize && p.Y >= 0 && p.Y < GridSize
}

// Neighbors は8方向の隣接マスを盤面内にクリップして返します。
func (p Position) Neighbors() []Position {
	directions := []Position{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	neighbors := make([]Position, 0, 8)
	for _, d := range directions {
		n := Position{X: p.X + d.X, Y: p.Y + d.Y}
		if n.InBounds() {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// ShipKind は艦種です。セル数は艦種ごとに固定です。
type ShipKind string

const (
	KindSmall  ShipKind = "small"
	KindMedium ShipKind = "medium"
	KindLarge  ShipKind = "large"
	KindHuge   ShipKind = "huge"
)

func (k ShipKind) Length() int {
	switch k {
	case KindSmall:
		return 1
	case KindMedium:
		return 2
	case KindLarge:
		return 3
	case KindHuge:
		return 4
	}
	return 0
}

// KindForLength はセル数から艦種を引きます。1〜4以外はfalseを返します。
func KindForLength(length int) (ShipKind, bool) {
	switch length {
	case 1:
		return KindSmall, true
	case 2:
		return KindMedium, true
	case 3:
		return KindLarge, true
	case 4:
		return KindHuge, true
	}
	return "", false
}

type shipCell struct {
	pos Position
	hit bool
}

// Ship は1隻の艦です。セルは起点から1方向に連続して並びます。
type Ship struct {
	kind     ShipKind
	vertical bool
	cells    []shipCell
}

// NewShip は起点と向きからセルを構成します。
// 縦向きはy軸方向、横向きはx軸方向に伸びます。
func NewShip(origin Position, vertical bool, length int) *Ship {
	kind, _ := KindForLength(length)
	cells := make([]shipCell, 0, length)
	for i := 0; i < length; i++ {
		pos := Position{X: origin.X + i, Y: origin.Y}
		if vertical {
			pos = Position{X: origin.X, Y: origin.Y + i}
		}
		cells = append(cells, shipCell{pos: pos})
	}
	return &Ship{kind: kind, vertical: vertical, cells: cells}
}

func (s *Ship) Kind() ShipKind {
	return s.kind
}

func (s *Ship) Vertical() bool {
	return s.vertical
}

func (s *Ship) Length() int {
	return len(s.cells)
}

func (s *Ship) Cells() []Position {
	cells := make([]Position, len(s.cells))
	for i, c := range s.cells {
		cells[i] = c.pos
	}
	return cells
}

func (s *Ship) Origin() Position {
	return s.cells[0].pos
}

func (s *Ship) Occupies(pos Position) bool {
	for _, c := range s.cells {
		if c.pos == pos {
			return true
		}
	}
	return false
}

// markHit は指定マスの命中フラグを立てます。艦のセルでない場合はfalseを返します。
func (s *Ship) markHit(pos Position) bool {
	for i := range s.cells {
		if s.cells[i].pos == pos {
			s.cells[i].hit = true
			return true
		}
	}
	return false
}

// IsSunk は全セルに命中している場合にtrueを返します。
func (s *Ship) IsSunk() bool {
	for _, c := range s.cells {
		if !c.hit {
			return false
		}
	}
	return true
}

// Borders は艦の全セルの8近傍から艦自身のセルを除いた集合を返します。
// 撃沈時に攻撃側へミスとして事前通知されるマスです。
func (s *Ship) Borders() []Position {
	own := make(map[Position]struct{}, len(s.cells))
	for _, c := range s.cells {
		own[c.pos] = struct{}{}
	}
	seen := make(map[Position]struct{})
	borders := make([]Position, 0, len(s.cells)*3+2)
	for _, c := range s.cells {
		for _, n := range c.pos.Neighbors() {
			if _, ok := own[n]; ok {
				continue
			}
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			borders = append(borders, n)
		}
	}
	return borders
}
