// Package freethekey implements the sliding-block variant: push blocks aside so the
// key can walk to the exit.
//
// The key follows a greedy single-axis step after every block move. It is a
// heuristic and does not prove that a level can be solved.
package freethekey

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/apperror"
)

type Cell int

const (
	Empty Cell = iota
	Wall
	Block
	Key
	Exit
)

//go:embed levels.yml
var levelsYAML []byte

var (
	levelsOnce sync.Once
	levels     map[int]levelFile
	levelsErr  error

	ErrMalformedLevel = errors.New("malformed level")
)

type levelFile struct {
	Number int      `yaml:"number"`
	Name   string   `yaml:"name"`
	Board  [][]Cell `yaml:"board"`
}

// Pos is a board coordinate; X is the column, Y the row.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Puzzle is a snapshot. The key is tracked in Key, never on the board.
type Puzzle struct {
	Level int      `json:"level"`
	Name  string   `json:"name"`
	Board [][]Cell `json:"board"`
	Key   Pos      `json:"key"`
	Exit  Pos      `json:"exit"`
}

func loadLevels() {
	var doc struct {
		Levels []levelFile `yaml:"levels"`
	}

	if err := yaml.Unmarshal(levelsYAML, &doc); err != nil {
		levelsErr = fmt.Errorf("failed to decode levels: %w", err)
		return
	}

	levels = make(map[int]levelFile, len(doc.Levels))
	for _, l := range doc.Levels {
		levels[l.Number] = l
	}
}

// Levels - the level numbers available, ascending.
func Levels() []int {
	levelsOnce.Do(loadLevels)

	out := make([]int, 0, len(levels))
	for n := range levels {
		out = append(out, n)
	}
	sort.Ints(out)

	return out
}

// Load - a fresh puzzle for the given level number.
func Load(level int) (Puzzle, error) {
	levelsOnce.Do(loadLevels)
	if levelsErr != nil {
		return Puzzle{}, levelsErr
	}

	lf, ok := levels[level]
	if !ok {
		return Puzzle{}, fmt.Errorf("%w: unknown level %d", apperror.ErrInvalidConfiguration, level)
	}

	p, err := FromBoard(lf.Board)
	if err != nil {
		return Puzzle{}, fmt.Errorf("%w: level %d: %w", apperror.ErrInvalidConfiguration, level, err)
	}

	p.Level = lf.Number
	p.Name = lf.Name

	return p, nil
}

// FromBoard - builds a puzzle from a raw board holding exactly one key and one exit.
func FromBoard(board [][]Cell) (Puzzle, error) {
	var p Puzzle
	keys, exits, width := 0, 0, -1

	p.Board = cloneBoard(board)

	for y, row := range p.Board {
		if width == -1 {
			width = len(row)
		}
		if len(row) != width || width == 0 {
			return Puzzle{}, fmt.Errorf("%w: row %d is ragged", ErrMalformedLevel, y)
		}

		for x, c := range row {
			switch c {
			case Key:
				keys++
				p.Key = Pos{X: x, Y: y}
				p.Board[y][x] = Empty
			case Exit:
				exits++
				p.Exit = Pos{X: x, Y: y}
			case Empty, Wall, Block:
			default:
				return Puzzle{}, fmt.Errorf("%w: unknown cell %d at %d,%d", ErrMalformedLevel, c, x, y)
			}
		}
	}

	if keys != 1 || exits != 1 {
		return Puzzle{}, fmt.Errorf("%w: %d keys and %d exits", ErrMalformedLevel, keys, exits)
	}

	return p, nil
}

// MoveBlock - slides the block at from onto the orthogonally adjacent empty cell to,
// then lets the key take one step toward the exit.
func MoveBlock(p Puzzle, from, to Pos) (Puzzle, error) {
	if err := validateMove(p, from, to); err != nil {
		return p, err
	}

	next := p
	next.Board = cloneBoard(p.Board)
	next.Board[from.Y][from.X] = Empty
	next.Board[to.Y][to.X] = Block
	next.Key = stepKey(next)

	return next, nil
}

func validateMove(p Puzzle, from, to Pos) error {
	if !p.inBounds(from) || !p.inBounds(to) {
		return fmt.Errorf("%w: %v -> %v is off the board", apperror.ErrIllegalMove, from, to)
	}

	if p.Board[from.Y][from.X] != Block {
		return fmt.Errorf("%w: no block at %v", apperror.ErrIllegalMove, from)
	}

	if abs(to.X-from.X)+abs(to.Y-from.Y) != 1 {
		return fmt.Errorf("%w: %v -> %v is not one orthogonal step", apperror.ErrIllegalMove, from, to)
	}

	if p.Board[to.Y][to.X] != Empty || to == p.Key {
		return fmt.Errorf("%w: %v is occupied", apperror.ErrIllegalMove, to)
	}

	return nil
}

// stepKey - horizontal first, vertical only when already in the exit column.
func stepKey(p Puzzle) Pos {
	dx, dy := p.Exit.X-p.Key.X, p.Exit.Y-p.Key.Y

	next := p.Key
	switch {
	case dx != 0:
		next.X += sign(dx)
	case dy != 0:
		next.Y += sign(dy)
	default:
		return p.Key
	}

	if !p.inBounds(next) {
		return p.Key
	}

	if c := p.Board[next.Y][next.X]; c == Empty || c == Exit {
		return next
	}

	return p.Key
}

// IsComplete - true when the key stands on the exit.
func IsComplete(p Puzzle) bool {
	return p.Key == p.Exit
}

func (that Puzzle) inBounds(pos Pos) bool {
	return pos.Y >= 0 && pos.Y < len(that.Board) && pos.X >= 0 && pos.X < len(that.Board[pos.Y])
}

func cloneBoard(board [][]Cell) [][]Cell {
	out := make([][]Cell, len(board))
	for i, row := range board {
		out[i] = append([]Cell(nil), row...)
	}

	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

func sign(n int) int {
	if n < 0 {
		return -1
	}

	return 1
}
