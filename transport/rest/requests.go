package rest

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/entity"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/freethekey"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/lightsout"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/mastermind"
)

var errBadRequest = errors.New("bad request")

type createSessionRequest struct {
	Kind         string `json:"kind" validate:"required,oneof=hanoi lightsout mastermind freethekey"`
	DiskCount    int    `json:"diskCount" validate:"gte=0"`
	Difficulty   string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	CodeLength   int    `json:"codeLength" validate:"gte=0"`
	AllowRepeats *bool  `json:"allowRepeats"`
	MaxAttempts  int    `json:"maxAttempts" validate:"gte=0"`
	Level        int    `json:"level" validate:"gte=0"`
	Seed         *int64 `json:"seed"`
}

func (that createSessionRequest) toConfig() entity.Config {
	// classic mode unless the client asks for unique colors
	allowRepeats := true
	if that.AllowRepeats != nil {
		allowRepeats = *that.AllowRepeats
	}

	return entity.Config{
		Kind:         entity.Kind(that.Kind),
		DiskCount:    that.DiskCount,
		Difficulty:   that.Difficulty,
		CodeLength:   that.CodeLength,
		AllowRepeats: allowRepeats,
		MaxAttempts:  that.MaxAttempts,
		Level:        that.Level,
		Seed:         that.Seed,
	}
}

// moveRequest accepts one of four shapes: {from,to}, {row,col}, {guess} or
// {fromRow,fromCol,toRow,toCol}.
type moveRequest struct {
	From *int `json:"from" validate:"required_with=To"`
	To   *int `json:"to" validate:"required_with=From"`

	Row *int `json:"row" validate:"required_with=Col"`
	Col *int `json:"col" validate:"required_with=Row"`

	Guess []string `json:"guess"`

	FromRow *int `json:"fromRow" validate:"required_with=FromCol ToRow ToCol"`
	FromCol *int `json:"fromCol" validate:"required_with=FromRow ToRow ToCol"`
	ToRow   *int `json:"toRow" validate:"required_with=FromRow FromCol ToCol"`
	ToCol   *int `json:"toCol" validate:"required_with=FromRow FromCol ToRow"`
}

func (that moveRequest) toMove() (entity.Move, error) {
	var move entity.Move
	shapes := 0

	if that.From != nil && that.To != nil {
		shapes++
		move.Pegs = &entity.PegMove{From: *that.From, To: *that.To}
	}

	if that.Row != nil && that.Col != nil {
		shapes++
		move.Cell = &lightsout.Cell{Row: *that.Row, Col: *that.Col}
	}

	if that.Guess != nil {
		shapes++
		move.Guess = make([]mastermind.Color, len(that.Guess))
		for i, c := range that.Guess {
			move.Guess[i] = mastermind.Color(c)
		}
	}

	if that.FromRow != nil && that.FromCol != nil && that.ToRow != nil && that.ToCol != nil {
		shapes++
		move.Slide = &entity.SlideMove{
			From: freethekey.Pos{X: *that.FromCol, Y: *that.FromRow},
			To:   freethekey.Pos{X: *that.ToCol, Y: *that.ToRow},
		}
	}

	switch shapes {
	case 1:
		return move, nil
	case 0:
		return entity.Move{}, fmt.Errorf("%w: empty or incomplete move", errBadRequest)
	default:
		return entity.Move{}, fmt.Errorf("%w: a move must have exactly one shape", errBadRequest)
	}
}
