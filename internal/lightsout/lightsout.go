package lightsout

import (
	"fmt"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/apperror"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/pkg"
)

const (
	Size = 5

	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"

	DefaultSeedMoves = 10
)

// Grid is a value type: copying it copies every cell.
type Grid [Size][Size]bool

// Cell addresses one light.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type seedRange struct{ min, max int }

var seedRanges = map[string]seedRange{
	DifficultyEasy:   {5, 7},
	DifficultyMedium: {8, 12},
	DifficultyHard:   {13, 17},
}

// toggle pattern: centre plus the cross
var offsets = [5][2]int{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// SeedMoveCount - picks how many random toggles a difficulty scrambles with.
func SeedMoveCount(src pkg.Source, difficulty string) (int, error) {
	if difficulty == "" {
		return DefaultSeedMoves, nil
	}

	r, ok := seedRanges[difficulty]
	if !ok {
		return 0, fmt.Errorf("%w: difficulty %q", apperror.ErrInvalidConfiguration, difficulty)
	}

	return r.min + src.Intn(r.max-r.min+1), nil
}

// Generate - scrambles the solved grid with seedMoveCount random toggles.
// The toggles are returned as well; replaying them solves the grid.
func Generate(src pkg.Source, seedMoveCount int) (Grid, []Cell) {
	var grid Grid

	toggles := make([]Cell, 0, seedMoveCount)
	for i := 0; i < seedMoveCount; i++ {
		c := Cell{Row: src.Intn(Size), Col: src.Intn(Size)}
		grid = Toggle(grid, c.Row, c.Col)
		toggles = append(toggles, c)
	}

	return grid, toggles
}

// Toggle - flips the cell and its in-bounds orthogonal neighbours.
func Toggle(grid Grid, row, col int) Grid {
	for _, o := range offsets {
		r, c := row+o[0], col+o[1]
		if r >= 0 && r < Size && c >= 0 && c < Size {
			grid[r][c] = !grid[r][c]
		}
	}

	return grid
}

// IsComplete - true when every light is off.
func IsComplete(grid Grid) bool {
	return LitCount(grid) == 0
}

// LitCount - how many lights are on.
func LitCount(grid Grid) int {
	n := 0
	for _, row := range grid {
		for _, lit := range row {
			if lit {
				n++
			}
		}
	}

	return n
}

// OptimalRange - the move range shown to the player for a difficulty.
func OptimalRange(difficulty string) string {
	switch difficulty {
	case DifficultyEasy:
		return "5-8"
	case DifficultyHard:
		return "15-25"
	default:
		return "8-15"
	}
}
