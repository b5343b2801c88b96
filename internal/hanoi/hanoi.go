package hanoi

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/apperror"
)

const (
	PegCount = 3
	// TargetPeg is the peg that must hold every disk at the end.
	TargetPeg = PegCount - 1

	MinDisks = 1
	MaxDisks = 32
)

// State holds the three pegs. Each peg lists disk sizes bottom to top.
type State struct {
	Pegs [PegCount][]int `json:"pegs"`
}

// Initialize - builds the starting state with every disk stacked on peg 0.
func Initialize(diskCount int) (State, error) {
	if diskCount < MinDisks || diskCount > MaxDisks {
		return State{}, fmt.Errorf("%w: disk count %d, want %d..%d", apperror.ErrInvalidConfiguration, diskCount, MinDisks, MaxDisks)
	}

	first := make([]int, diskCount)
	for i := range first {
		first[i] = diskCount - i
	}

	return State{Pegs: [PegCount][]int{first, {}, {}}}, nil
}

// ApplyMove - returns a new state with the top disk of from moved onto to.
// The given state is never modified.
func ApplyMove(state State, from, to int) (State, error) {
	if err := validateMove(state, from, to); err != nil {
		return state, err
	}

	next := state.Clone()
	source := next.Pegs[from]
	disk := source[len(source)-1]

	next.Pegs[from] = source[:len(source)-1]
	next.Pegs[to] = append(next.Pegs[to], disk)

	return next, nil
}

// validateMove - checks if the move is legal.
func validateMove(state State, from, to int) error {
	if from < 0 || from >= PegCount || to < 0 || to >= PegCount {
		return fmt.Errorf("%w: peg %d -> %d out of range", apperror.ErrIllegalMove, from, to)
	}

	if from == to {
		return fmt.Errorf("%w: source and target peg are the same", apperror.ErrIllegalMove)
	}

	disk, ok := state.Top(from)
	if !ok {
		return fmt.Errorf("%w: peg %d is empty", apperror.ErrIllegalMove, from)
	}

	// an empty peg imposes no ceiling
	if target, ok := state.Top(to); ok && disk > target {
		return fmt.Errorf("%w: disk %d cannot be placed on disk %d", apperror.ErrIllegalMove, disk, target)
	}

	return nil
}

// IsComplete - true when the target peg holds all diskCount disks.
func IsComplete(state State, diskCount int) bool {
	return len(state.Pegs[TargetPeg]) == diskCount
}

// MinimumMoves - optimal move count, 2^n - 1.
func MinimumMoves(diskCount int) uint64 {
	if diskCount < 1 {
		return 0
	}
	if diskCount >= 64 {
		return math.MaxUint64
	}

	return 1<<uint(diskCount) - 1
}

// Efficiency - optimal moves as a percentage of the moves actually made.
func Efficiency(diskCount, moves int) int {
	if moves <= 0 {
		return 0
	}

	return int(math.Round(float64(MinimumMoves(diskCount)) / float64(moves) * 100))
}

// DifficultyLabel - the name the hub shows for a disk count.
func DifficultyLabel(diskCount int) string {
	switch diskCount {
	case 3:
		return "Easy"
	case 4:
		return "Medium"
	case 5:
		return "Hard"
	case 6:
		return "Expert"
	case 7:
		return "Master"
	case 8:
		return "Extreme"
	default:
		return "Custom"
	}
}

// Top - the top disk of peg, false if the peg is empty or out of range.
func (that State) Top(peg int) (int, bool) {
	if peg < 0 || peg >= PegCount || len(that.Pegs[peg]) == 0 {
		return 0, false
	}

	return that.Pegs[peg][len(that.Pegs[peg])-1], true
}

// Clone - deep copy of the pegs.
func (that State) Clone() State {
	var next State
	for i, peg := range that.Pegs {
		next.Pegs[i] = append(make([]int, 0, len(peg)+1), peg...)
	}

	return next
}
