package engine

import (
	"fmt"
	"math/rand/v2"
)

// Grid is the 4x4 tile matrix, indexed [y][x]. Zero marks an empty cell.
type Grid [Size][Size]int

// NewGrid returns an empty grid
func NewGrid() *Grid {
	return &Grid{}
}

// Initialize empties every cell
func (g *Grid) Initialize() {
	*g = Grid{}
}

// Get returns the value at (x, y); ok is false when the coordinates are off the board
func (g *Grid) Get(x, y int) (int, bool) {
	if !inBounds(x, y) {
		return 0, false
	}
	return g[y][x], true
}

// Set stores value at (x, y); it reports false when the coordinates are off the board
func (g *Grid) Set(x, y, value int) bool {
	if !inBounds(x, y) {
		return false
	}
	g[y][x] = value
	return true
}

// Validate checks that every non-empty cell holds a power of two >= 2
func (g *Grid) Validate() error {
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if v := g[y][x]; v != 0 && !isTileValue(v) {
				return fmt.Errorf("%w: %d at (%d,%d)", ErrInvalidTile, v, x, y)
			}
		}
	}
	return nil
}

// linePositions returns the cells of line i ordered from the edge the tiles move toward
func linePositions(dir Direction, i int) [Size][2]int {
	var pos [Size][2]int
	for k := 0; k < Size; k++ {
		switch dir {
		case Left:
			pos[k] = [2]int{k, i}
		case Right:
			pos[k] = [2]int{Size - 1 - k, i}
		case Up:
			pos[k] = [2]int{i, k}
		case Down:
			pos[k] = [2]int{i, Size - 1 - k}
		}
	}
	return pos
}

// MergeAll slides every line toward dir, merging equal neighbours once per call.
// The returned events are ordered line by line (0..3) and, within a line, from the
// target edge outward. Tiles that stay in their cell produce no event, so an empty
// result means the grid is unchanged.
func (g *Grid) MergeAll(dir Direction) []MoveEvent {
	events := []MoveEvent{}
	if !dir.Valid() {
		return events
	}

	for i := 0; i < Size; i++ {
		pos := linePositions(dir, i)

		var out [Size]int
		var merged [Size]bool
		target := 0

		for k := 0; k < Size; k++ {
			x, y := pos[k][0], pos[k][1]
			v := g[y][x]
			if v == 0 {
				continue
			}

			if target > 0 && !merged[target-1] && out[target-1] == v {
				out[target-1] = v * 2
				merged[target-1] = true
				dest := pos[target-1]
				events = append(events, MoveEvent{FromX: x, FromY: y, ToX: dest[0], ToY: dest[1], IsMerge: true})
				continue
			}

			out[target] = v
			if target != k {
				dest := pos[target]
				events = append(events, MoveEvent{FromX: x, FromY: y, ToX: dest[0], ToY: dest[1]})
			}
			target++
		}

		for k := 0; k < Size; k++ {
			g[pos[k][1]][pos[k][0]] = out[k]
		}
	}

	return events
}

// CanMove reports whether MergeAll(dir) would change the grid, without mutating it
func (g *Grid) CanMove(dir Direction) bool {
	probe := *g
	return len(probe.MergeAll(dir)) > 0
}

// PossibleMoves returns the directions that would change the grid
func (g *Grid) PossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range AllDirections {
		if g.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// IsGameOver reports a terminal board: no empty cell and no effective move
func (g *Grid) IsGameOver() bool {
	if g.EmptyCount() > 0 {
		return false
	}
	return len(g.PossibleMoves()) == 0
}

// PlaceRandom puts a new tile on a uniformly chosen empty cell. The value is 4 with
// probability fourProbability and 2 otherwise. ok is false when the board is full.
// The draw order is fixed (cell first, then value) so seeded sources are reproducible.
func (g *Grid) PlaceRandom(rng *rand.Rand, fourProbability float64) (PlacementResult, bool) {
	empty := g.emptyCells()
	if len(empty) == 0 {
		return PlacementResult{}, false
	}

	cell := empty[rng.IntN(len(empty))]
	value := 2
	if rng.Float64() < fourProbability {
		value = 4
	}

	g[cell[1]][cell[0]] = value
	return PlacementResult{X: cell[0], Y: cell[1], Value: value}, true
}

// Snapshot returns the row-major board values
func (g *Grid) Snapshot() Board {
	var b Board
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			b[y*Size+x] = g[y][x]
		}
	}
	return b
}

// emptyCells lists empty coordinates in row-major order
func (g *Grid) emptyCells() [][2]int {
	cells := make([][2]int, 0, Cells)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if g[y][x] == 0 {
				cells = append(cells, [2]int{x, y})
			}
		}
	}
	return cells
}

func inBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}
