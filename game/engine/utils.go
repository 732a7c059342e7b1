package engine

// EmptyCount counts the empty cells in the grid
func (g *Grid) EmptyCount() int {
	count := 0
	for _, row := range g {
		for _, v := range row {
			if v == 0 {
				count++
			}
		}
	}
	return count
}

// HighestTile returns the largest tile value on the grid, 0 when empty
func (g *Grid) HighestTile() int {
	highest := 0
	for _, row := range g {
		for _, v := range row {
			if v > highest {
				highest = v
			}
		}
	}
	return highest
}

// Sum adds up every tile value on the grid
func (g *Grid) Sum() int {
	total := 0
	for _, row := range g {
		for _, v := range row {
			total += v
		}
	}
	return total
}

// CountMerges counts the merge events in a move
func CountMerges(events []MoveEvent) int {
	count := 0
	for _, ev := range events {
		if ev.IsMerge {
			count++
		}
	}
	return count
}

// DirectionNames converts directions into their wire names
func DirectionNames(dirs []Direction) []string {
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		names = append(names, d.String())
	}
	return names
}

// isTileValue reports whether v is a power of two >= 2
func isTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}
