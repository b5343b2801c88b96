// Package puzzle gives every engine the same three capabilities: start a session,
// apply a move and test for completion. Sessions are values; a move returns a new one.
package puzzle

import (
	"fmt"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/apperror"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/entity"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/freethekey"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/hanoi"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/lightsout"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/mastermind"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/pkg"
)

const (
	DefaultDiskCount = 3
	DefaultLevel     = 1

	// a scramble can cancel itself out; redraw a bounded number of times
	maxScrambleAttempts = 8
)

// Outcome - what a move reports besides the next snapshot.
type Outcome struct {
	Feedback *mastermind.Feedback `json:"feedback,omitempty"`
}

// Start - builds a fresh active session for cfg. Zero values take the hub defaults,
// and the returned Config records the values actually used.
func Start(src pkg.Source, cfg entity.Config) (entity.Session, error) {
	session := entity.Session{Config: cfg, Status: entity.StatusActive}

	switch cfg.Kind {
	case entity.KindHanoi:
		if session.Config.DiskCount == 0 {
			session.Config.DiskCount = DefaultDiskCount
		}

		state, err := hanoi.Initialize(session.Config.DiskCount)
		if err != nil {
			return entity.Session{}, err
		}

		session.Hanoi = &state
	case entity.KindLightsOut:
		board, err := scramble(src, cfg.Difficulty)
		if err != nil {
			return entity.Session{}, err
		}

		session.LightsOut = board
	case entity.KindMastermind:
		game, err := mastermind.NewSession(src, mastermind.Config{
			CodeLength:   cfg.CodeLength,
			AllowRepeats: cfg.AllowRepeats,
			MaxAttempts:  cfg.MaxAttempts,
		})
		if err != nil {
			return entity.Session{}, err
		}

		session.Config.CodeLength = game.Config.CodeLength
		session.Config.MaxAttempts = game.Config.MaxAttempts
		session.Mastermind = &game
	case entity.KindFreeTheKey:
		if session.Config.Level == 0 {
			session.Config.Level = DefaultLevel
		}

		p, err := freethekey.Load(session.Config.Level)
		if err != nil {
			return entity.Session{}, err
		}

		session.FreeTheKey = &p
	default:
		return entity.Session{}, fmt.Errorf("%w: %q", apperror.ErrUnknownKind, cfg.Kind)
	}

	return session, nil
}

func scramble(src pkg.Source, difficulty string) (*entity.LightsOut, error) {
	toggles, err := lightsout.SeedMoveCount(src, difficulty)
	if err != nil {
		return nil, err
	}

	grid, _ := lightsout.Generate(src, toggles)
	for i := 1; i < maxScrambleAttempts && lightsout.IsComplete(grid); i++ {
		grid, _ = lightsout.Generate(src, toggles)
	}

	return &entity.LightsOut{Grid: grid, Difficulty: difficulty, SeedToggles: toggles}, nil
}

// ApplyMove - validates move against the session's engine and returns the next session.
// On any error the given session is returned unchanged.
func ApplyMove(session entity.Session, move entity.Move) (entity.Session, Outcome, error) {
	if err := session.Validate(); err != nil {
		return session, Outcome{}, err
	}

	if err := session.ConfirmActive(); err != nil {
		return session, Outcome{}, err
	}

	next := session
	var outcome Outcome

	switch session.Kind() {
	case entity.KindHanoi:
		if move.Pegs == nil {
			return session, Outcome{}, mismatch(session.Kind(), "pegs")
		}

		state, err := hanoi.ApplyMove(*session.Hanoi, move.Pegs.From, move.Pegs.To)
		if err != nil {
			return session, Outcome{}, err
		}

		next.Hanoi = &state
	case entity.KindLightsOut:
		if move.Cell == nil {
			return session, Outcome{}, mismatch(session.Kind(), "cell")
		}

		c := *move.Cell
		if c.Row < 0 || c.Row >= lightsout.Size || c.Col < 0 || c.Col >= lightsout.Size {
			return session, Outcome{}, fmt.Errorf("%w: cell %d,%d is outside the grid", apperror.ErrIllegalMove, c.Row, c.Col)
		}

		board := *session.LightsOut
		board.Grid = lightsout.Toggle(board.Grid, c.Row, c.Col)
		next.LightsOut = &board
	case entity.KindMastermind:
		if move.Guess == nil {
			return session, Outcome{}, fmt.Errorf("%w: a mastermind move needs a guess", apperror.ErrInvalidGuess)
		}

		game, fb, err := mastermind.SubmitGuess(*session.Mastermind, move.Guess)
		if err != nil {
			return session, Outcome{}, err
		}

		next.Mastermind = &game
		outcome.Feedback = &fb
	case entity.KindFreeTheKey:
		if move.Slide == nil {
			return session, Outcome{}, mismatch(session.Kind(), "slide")
		}

		p, err := freethekey.MoveBlock(*session.FreeTheKey, move.Slide.From, move.Slide.To)
		if err != nil {
			return session, Outcome{}, err
		}

		next.FreeTheKey = &p
	}

	next.Moves++
	next.Status = statusOf(next)

	return next, outcome, nil
}

func mismatch(kind entity.Kind, want string) error {
	return fmt.Errorf("%w: a %s move needs a %s payload", apperror.ErrIllegalMove, kind, want)
}

func statusOf(session entity.Session) string {
	if session.Mastermind != nil && session.Mastermind.Status == mastermind.StatusLost {
		return entity.StatusLost
	}

	if IsComplete(session) {
		return entity.StatusSolved
	}

	return entity.StatusActive
}

// IsComplete - true when the session's engine reports its goal reached.
func IsComplete(session entity.Session) bool {
	switch session.Kind() {
	case entity.KindHanoi:
		return session.Hanoi != nil && hanoi.IsComplete(*session.Hanoi, session.Config.DiskCount)
	case entity.KindLightsOut:
		return session.LightsOut != nil && lightsout.IsComplete(session.LightsOut.Grid)
	case entity.KindMastermind:
		return session.Mastermind != nil && session.Mastermind.IsWon()
	case entity.KindFreeTheKey:
		return session.FreeTheKey != nil && freethekey.IsComplete(*session.FreeTheKey)
	default:
		return false
	}
}
