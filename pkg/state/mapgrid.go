package state

// MapSize is the width and height of the player's mapping grid.
const MapSize = 20

// MapSymbols is the cycle a cell steps through when clicked:
// blank, wall, floor, door, secret door, threat.
var MapSymbols = []string{" ", "#", ".", "D", "S", "X"}

// NewMap returns a blank MapSize x MapSize grid, indexed [y][x].
func NewMap() [][]string {
	grid := make([][]string, MapSize)
	for y := range grid {
		row := make([]string, MapSize)
		for x := range row {
			row[x] = MapSymbols[0]
		}
		grid[y] = row
	}
	return grid
}

// NextSymbol returns the symbol after cur. Unknown symbols restart the cycle.
func NextSymbol(cur string) string {
	for i, sym := range MapSymbols {
		if sym == cur {
			return MapSymbols[(i+1)%len(MapSymbols)]
		}
	}
	return MapSymbols[1]
}

// CycleCell advances the cell at (x, y). It returns false and changes
// nothing when the coordinates fall outside the grid.
func (s *SessionState) CycleCell(x, y int) bool {
	if x < 0 || y < 0 || x >= MapSize || y >= MapSize {
		return false
	}
	s.MapData = fitMap(s.MapData)
	s.MapData[y][x] = NextSymbol(s.MapData[y][x])
	return true
}

// Cell returns the symbol at (x, y), or blank when out of range.
func (s *SessionState) Cell(x, y int) string {
	if y < 0 || y >= len(s.MapData) || x < 0 || x >= len(s.MapData[y]) {
		return MapSymbols[0]
	}
	return s.MapData[y][x]
}

func cloneMap(grid [][]string) [][]string {
	if grid == nil {
		return nil
	}
	out := make([][]string, len(grid))
	for y, row := range grid {
		out[y] = append([]string(nil), row...)
	}
	return out
}

// fitMap pads or truncates grid to MapSize x MapSize, keeping existing cells.
// A grid already in shape is returned as is.
func fitMap(grid [][]string) [][]string {
	if len(grid) == MapSize {
		ok := true
		for _, row := range grid {
			if len(row) != MapSize {
				ok = false
				break
			}
		}
		if ok {
			return grid
		}
	}

	out := NewMap()
	for y := 0; y < MapSize && y < len(grid); y++ {
		for x := 0; x < MapSize && x < len(grid[y]); x++ {
			out[y][x] = grid[y][x]
		}
	}
	return out
}
