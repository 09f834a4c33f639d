package application

import (
	"testing"

	"pgregory.net/rapid"
)

func TestNewShip_Horizontal(t *testing.T) {
	ship := NewShip(Position{X: 2, Y: 3}, false, 3)

	want := []Position{{2, 3}, {3, 3}, {4, 3}}
	got := ship.Cells()
	if len(got) != len(want) {
		t.Fatalf("cells length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cells[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if ship.Kind() != KindLarge {
		t.Errorf("kind = %s, want %s", ship.Kind(), KindLarge)
	}
}

func TestNewShip_Vertical(t *testing.T) {
	ship := NewShip(Position{X: 5, Y: 1}, true, 4)

	want := []Position{{5, 1}, {5, 2}, {5, 3}, {5, 4}}
	for i, pos := range ship.Cells() {
		if pos != want[i] {
			t.Errorf("cells[%d] = %v, want %v", i, pos, want[i])
		}
	}
}

func TestShip_IsSunk(t *testing.T) {
	ship := NewShip(Position{X: 0, Y: 0}, false, 2)

	if ship.IsSunk() {
		t.Error("new ship should not be sunk")
	}
	ship.markHit(Position{X: 0, Y: 0})
	if ship.IsSunk() {
		t.Error("partially hit ship should not be sunk")
	}
	ship.markHit(Position{X: 1, Y: 0})
	if !ship.IsSunk() {
		t.Error("fully hit ship should be sunk")
	}
}

func TestShip_Borders_CornerSingleCell(t *testing.T) {
	// 角の1マス艦の境界は盤面内の3マスのみ
	ship := NewShip(Position{X: 0, Y: 0}, false, 1)

	want := map[Position]struct{}{
		{0, 1}: {},
		{1, 0}: {},
		{1, 1}: {},
	}
	got := ship.Borders()
	if len(got) != len(want) {
		t.Fatalf("borders length = %d, want %d (got %v)", len(got), len(want), got)
	}
	for _, pos := range got {
		if _, ok := want[pos]; !ok {
			t.Errorf("unexpected border %v", pos)
		}
	}
}

func TestShip_Borders_ExcludesOwnCells(t *testing.T) {
	ship := NewShip(Position{X: 4, Y: 4}, true, 3)

	for _, border := range ship.Borders() {
		if ship.Occupies(border) {
			t.Errorf("border %v is a ship cell", border)
		}
	}
}

// 境界集合は「全セルの8近傍の和集合 − 自セル」を盤面にクリップしたものに一致する
func TestShip_Borders_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.IntRange(1, 4).Draw(t, "length")
		vertical := rapid.Bool().Draw(t, "vertical")
		maxX, maxY := GridSize-length, GridSize-1
		if vertical {
			maxX, maxY = GridSize-1, GridSize-length
		}
		origin := Position{
			X: rapid.IntRange(0, maxX).Draw(t, "x"),
			Y: rapid.IntRange(0, maxY).Draw(t, "y"),
		}
		ship := NewShip(origin, vertical, length)

		want := make(map[Position]struct{})
		for _, cell := range ship.Cells() {
			for _, n := range cell.Neighbors() {
				if !ship.Occupies(n) {
					want[n] = struct{}{}
				}
			}
		}

		got := ship.Borders()
		if len(got) != len(want) {
			t.Fatalf("borders length = %d, want %d", len(got), len(want))
		}
		seen := make(map[Position]struct{})
		for _, pos := range got {
			if !pos.InBounds() {
				t.Fatalf("border %v out of bounds", pos)
			}
			if _, ok := want[pos]; !ok {
				t.Fatalf("unexpected border %v", pos)
			}
			if _, ok := seen[pos]; ok {
				t.Fatalf("duplicate border %v", pos)
			}
			seen[pos] = struct{}{}
		}
	})
}

func TestPosition_Neighbors_Center(t *testing.T) {
	neighbors := Position{X: 5, Y: 5}.Neighbors()
	if len(neighbors) != 8 {
		t.Errorf("neighbors length = %d, want 8", len(neighbors))
	}
}

func TestPosition_Neighbors_Corner(t *testing.T) {
	neighbors := Position{X: 9, Y: 9}.Neighbors()
	if len(neighbors) != 3 {
		t.Errorf("neighbors length = %d, want 3", len(neighbors))
	}
}
