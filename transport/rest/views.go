package rest

import (
	"time"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/entity"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/freethekey"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/hanoi"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/lightsout"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/mastermind"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/puzzle"
)

type errorResponse struct {
	Error string `json:"error"`
}

type sessionView struct {
	ID        string      `json:"id"`
	Kind      entity.Kind `json:"kind"`
	Status    string      `json:"status"`
	Moves     int         `json:"moves"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`

	Hanoi      *hanoiView      `json:"hanoi,omitempty"`
	LightsOut  *lightsOutView  `json:"lightsOut,omitempty"`
	Mastermind *mastermindView `json:"mastermind,omitempty"`
	FreeTheKey *freeTheKeyView `json:"freeTheKey,omitempty"`

	Feedback *mastermind.Feedback `json:"feedback,omitempty"`
}

type hanoiView struct {
	Pegs         [hanoi.PegCount][]int `json:"pegs"`
	DiskCount    int                   `json:"diskCount"`
	MinimumMoves uint64                `json:"minimumMoves"`
	Difficulty   string                `json:"difficulty"`
	Efficiency   int                   `json:"efficiency,omitempty"`
}

type lightsOutView struct {
	Grid         lightsout.Grid `json:"grid"`
	Lit          int            `json:"lit"`
	Difficulty   string         `json:"difficulty,omitempty"`
	OptimalRange string         `json:"optimalRange"`
}

type mastermindView struct {
	Mode        string             `json:"mode"`
	CodeLength  int                `json:"codeLength"`
	MaxAttempts int                `json:"maxAttempts"`
	Remaining   int                `json:"remaining"`
	Palette     []mastermind.Color `json:"palette"`
	Log         []mastermind.Entry `json:"log"`
	// only set once the game is over
	Code []mastermind.Color `json:"code,omitempty"`
}

type freeTheKeyView struct {
	Level int                 `json:"level"`
	Name  string              `json:"name"`
	Board [][]freethekey.Cell `json:"board"`
	Key   freethekey.Pos      `json:"key"`
	Exit  freethekey.Pos      `json:"exit"`
}

func newSessionView(session *entity.Session, outcome puzzle.Outcome) sessionView {
	view := sessionView{
		ID:        session.ID,
		Kind:      session.Kind(),
		Status:    session.Status,
		Moves:     session.Moves,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		Feedback:  outcome.Feedback,
	}

	if s := session.Hanoi; s != nil {
		view.Hanoi = &hanoiView{
			Pegs:         s.Pegs,
			DiskCount:    session.Config.DiskCount,
			MinimumMoves: hanoi.MinimumMoves(session.Config.DiskCount),
			Difficulty:   hanoi.DifficultyLabel(session.Config.DiskCount),
		}
		if session.IsSolved() {
			view.Hanoi.Efficiency = hanoi.Efficiency(session.Config.DiskCount, session.Moves)
		}
	}

	if s := session.LightsOut; s != nil {
		view.LightsOut = &lightsOutView{
			Grid:         s.Grid,
			Lit:          lightsout.LitCount(s.Grid),
			Difficulty:   s.Difficulty,
			OptimalRange: lightsout.OptimalRange(s.Difficulty),
		}
	}

	if s := session.Mastermind; s != nil {
		view.Mastermind = &mastermindView{
			Mode:        mastermind.ModeFor(s.Config.AllowRepeats),
			CodeLength:  s.Config.CodeLength,
			MaxAttempts: s.Config.MaxAttempts,
			Remaining:   s.Remaining,
			Palette:     s.Config.Palette,
			Log:         s.Log,
			Code:        s.Revealed(),
		}
	}

	if s := session.FreeTheKey; s != nil {
		view.FreeTheKey = &freeTheKeyView{
			Level: s.Level,
			Name:  s.Name,
			Board: s.Board,
			Key:   s.Key,
			Exit:  s.Exit,
		}
	}

	return view
}
