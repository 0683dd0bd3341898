package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxBodiesPerCell keeps a Cell at 64 bytes: 15 * 4 (indices) + 1 (count) + 3 (padding)
const MaxBodiesPerCell = 15

// Cell holds a fixed number of body indices
type Cell struct {
	Count  uint8
	_      [3]byte
	Bodies [MaxBodiesPerCell]uint32
}

// SpatialGrid is a dense XY grid over the world box used as the contact broadphase
// Cells are at least one body diameter wide, so touching spheres share a cell or are neighbours
type SpatialGrid struct {
	Width    int
	Height   int
	CellSize float64
	Origin   r3.Vec
	Cells    []Cell // 1D array: index = y*Width + x
}

// NewSpatialGrid creates a grid covering box with square cells of cellSize
func NewSpatialGrid(box r3.Box, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{}
	g.Resize(box, cellSize)
	return g
}

// Resize re-fits the grid, clearing all data
func (g *SpatialGrid) Resize(box r3.Box, cellSize float64) {
	if cellSize <= 0 {
		cellSize = 1
	}
	g.CellSize = cellSize
	g.Origin = box.Min
	g.Width = max(1, int(math.Ceil((box.Max.X-box.Min.X)/cellSize)))
	g.Height = max(1, int(math.Ceil((box.Max.Y-box.Min.Y)/cellSize)))
	g.Cells = make([]Cell, g.Width*g.Height)
}

// CellOf maps a world position to cell coordinates, false when outside the grid
func (g *SpatialGrid) CellOf(p r3.Vec) (int, int, bool) {
	x := int(math.Floor((p.X - g.Origin.X) / g.CellSize))
	y := int(math.Floor((p.Y - g.Origin.Y) / g.CellSize))
	// Points on the far boundary belong to the last cell
	if x == g.Width {
		x--
	}
	if y == g.Height {
		y--
	}
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return 0, 0, false
	}
	return x, y, true
}

// Add inserts body index i at (x, y)
// Returns false if bounds invalid or cell full (soft clip)
func (g *SpatialGrid) Add(i uint32, x, y int) bool {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return false
	}
	cell := &g.Cells[y*g.Width+x]
	if cell.Count < MaxBodiesPerCell {
		cell.Bodies[cell.Count] = i
		cell.Count++
		return true
	}
	return false
}

// GetAllAt returns a slice view of body indices at (x, y)
// The view is invalidated by the next Add or Clear
func (g *SpatialGrid) GetAllAt(x, y int) []uint32 {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return nil
	}
	cell := &g.Cells[y*g.Width+x]
	if cell.Count == 0 {
		return nil
	}
	return cell.Bodies[:cell.Count]
}

// Neighbors calls fn for each body index in the 3x3 block around (x, y)
func (g *SpatialGrid) Neighbors(x, y int, fn func(i uint32)) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			for _, i := range g.GetAllAt(x+dx, y+dy) {
				fn(i)
			}
		}
	}
}

// Clear removes all bodies from all cells
func (g *SpatialGrid) Clear() {
	for i := range g.Cells {
		g.Cells[i].Count = 0
	}
}
