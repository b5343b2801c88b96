package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/apperror"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/freethekey"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/hanoi"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/lightsout"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/mastermind"
)

type Kind string

const (
	KindHanoi      Kind = "hanoi"
	KindLightsOut  Kind = "lightsout"
	KindMastermind Kind = "mastermind"
	KindFreeTheKey Kind = "freethekey"
)

const (
	StatusActive = "active"
	StatusSolved = "solved"
	StatusLost   = "lost"
)

// Kinds - every puzzle the hub can host.
var Kinds = []Kind{KindHanoi, KindLightsOut, KindMastermind, KindFreeTheKey}

// Config is what a session was started with; restarting replays it.
type Config struct {
	Kind Kind `json:"kind"`

	DiskCount    int    `json:"disk_count,omitempty"`
	Difficulty   string `json:"difficulty,omitempty"`
	CodeLength   int    `json:"code_length,omitempty"`
	AllowRepeats bool   `json:"allow_repeats,omitempty"`
	MaxAttempts  int    `json:"max_attempts,omitempty"`
	Level        int    `json:"level,omitempty"`

	// Seed pins the random source; nil means a fresh puzzle each time.
	Seed *int64 `json:"seed,omitempty"`
}

type PegMove struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type SlideMove struct {
	From freethekey.Pos `json:"from"`
	To   freethekey.Pos `json:"to"`
}

// Move carries exactly one kind-specific payload.
type Move struct {
	Pegs  *PegMove           `json:"pegs,omitempty"`
	Cell  *lightsout.Cell    `json:"cell,omitempty"`
	Guess []mastermind.Color `json:"guess,omitempty"`
	Slide *SlideMove         `json:"slide,omitempty"`
}

type LightsOut struct {
	Grid        lightsout.Grid `json:"grid"`
	Difficulty  string         `json:"difficulty"`
	SeedToggles int            `json:"seed_toggles"`
}

// Session is a tagged union: Config.Kind names the one populated state field.
type Session struct {
	ID        string    `json:"id"`
	Config    Config    `json:"config"`
	Status    string    `json:"status"`
	Moves     int       `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Hanoi      *hanoi.State        `json:"hanoi,omitempty"`
	LightsOut  *LightsOut          `json:"lights_out,omitempty"`
	Mastermind *mastermind.Session `json:"mastermind,omitempty"`
	FreeTheKey *freethekey.Puzzle  `json:"free_the_key,omitempty"`
}

func (that *Session) Kind() Kind {
	return that.Config.Kind
}

func (that *Session) IsActive() bool {
	return that.Status == StatusActive
}

func (that *Session) IsSolved() bool {
	return that.Status == StatusSolved
}

func (that *Session) IsFinished() bool {
	return that.Status == StatusSolved || that.Status == StatusLost
}

// ConfirmActive - returns ErrSessionTerminated once the session is solved or lost.
func (that *Session) ConfirmActive() error {
	switch {
	case that.IsActive():
		return nil
	case that.IsFinished():
		return fmt.Errorf("%w: session %s is %s", apperror.ErrSessionTerminated, that.ID, that.Status)
	default:
		return fmt.Errorf("unknown session status: %s", that.Status)
	}
}

// Validate - checks that exactly the state field named by the kind is populated.
func (that *Session) Validate() error {
	populated := map[Kind]bool{
		KindHanoi:      that.Hanoi != nil,
		KindLightsOut:  that.LightsOut != nil,
		KindMastermind: that.Mastermind != nil,
		KindFreeTheKey: that.FreeTheKey != nil,
	}

	if _, ok := populated[that.Kind()]; !ok {
		return fmt.Errorf("%w: %q", apperror.ErrUnknownKind, that.Kind())
	}

	for kind, set := range populated {
		if set != (kind == that.Kind()) {
			return fmt.Errorf("%w: %s session with %s state", apperror.ErrUnknownKind, that.Kind(), kind)
		}
	}

	return nil
}

// ParseKind - maps a wire name onto a Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}

	return "", fmt.Errorf("%w: %q", apperror.ErrUnknownKind, name)
}
