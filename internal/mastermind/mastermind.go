package mastermind

import (
	"fmt"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/apperror"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/pkg"
)

const (
	MinCodeLength     = 3
	MaxCodeLength     = 6
	DefaultCodeLength = 4

	DefaultMaxAttempts = 12

	ModeClassic   = "classic"
	ModeChallenge = "challenge"
)

type Status string

const (
	StatusActive Status = "active"
	StatusWon    Status = "won"
	StatusLost   Status = "lost"
)

// Color is one palette symbol. The empty color marks an unfilled position.
type Color string

const Unfilled Color = ""

var DefaultPalette = []Color{
	"red", "yellow", "green", "blue", "purple",
	"orange", "brown", "black", "white", "cyan",
}

// Feedback - exact: right color and position; color_only: right color, wrong position.
type Feedback struct {
	Exact     int `json:"exact"`
	ColorOnly int `json:"color_only"`
}

type Entry struct {
	Guess    []Color  `json:"guess"`
	Feedback Feedback `json:"feedback"`
}

type Config struct {
	CodeLength   int     `json:"code_length"`
	AllowRepeats bool    `json:"allow_repeats"`
	MaxAttempts  int     `json:"max_attempts"`
	Palette      []Color `json:"palette"`
}

// Session is a snapshot; SubmitGuess returns a new one instead of mutating.
type Session struct {
	Code      []Color `json:"code"`
	Config    Config  `json:"config"`
	Log       []Entry `json:"log"`
	Remaining int     `json:"remaining"`
	Status    Status  `json:"status"`
}

// ModeFor - the hub's name for a repeat policy.
func ModeFor(allowRepeats bool) string {
	if allowRepeats {
		return ModeClassic
	}

	return ModeChallenge
}

// GenerateCode - draws a secret code of length symbols from palette.
// Without repeats it samples from a shrinking candidate set.
func GenerateCode(src pkg.Source, length int, palette []Color, allowRepeats bool) ([]Color, error) {
	if err := validateCodeConfig(length, palette, allowRepeats); err != nil {
		return nil, err
	}

	code := make([]Color, 0, length)

	if allowRepeats {
		for i := 0; i < length; i++ {
			code = append(code, palette[src.Intn(len(palette))])
		}

		return code, nil
	}

	candidates := append([]Color(nil), palette...)
	for i := 0; i < length; i++ {
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: palette exhausted after %d of %d positions", apperror.ErrInvalidConfiguration, i, length)
		}

		idx := src.Intn(len(candidates))
		code = append(code, candidates[idx])
		candidates = append(candidates[:idx], candidates[idx+1:]...)
	}

	return code, nil
}

func validateCodeConfig(length int, palette []Color, allowRepeats bool) error {
	if length < MinCodeLength || length > MaxCodeLength {
		return fmt.Errorf("%w: code length %d, want %d..%d", apperror.ErrInvalidConfiguration, length, MinCodeLength, MaxCodeLength)
	}

	if len(palette) == 0 {
		return fmt.Errorf("%w: empty palette", apperror.ErrInvalidConfiguration)
	}

	seen := make(map[Color]struct{}, len(palette))
	for _, c := range palette {
		if c == Unfilled {
			return fmt.Errorf("%w: palette contains an empty symbol", apperror.ErrInvalidConfiguration)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: palette repeats %q", apperror.ErrInvalidConfiguration, c)
		}
		seen[c] = struct{}{}
	}

	if !allowRepeats && length > len(palette) {
		return fmt.Errorf("%w: %d unique colors requested from a palette of %d", apperror.ErrInvalidConfiguration, length, len(palette))
	}

	return nil
}

// ScoreGuess - two-pass feedback.
//
// Pass 1 counts exact positions and consumes both symbols.
// Pass 2 matches each unconsumed guess symbol against the first unconsumed equal code
// symbol and consumes it, so one code symbol never scores twice.
func ScoreGuess(guess, code []Color) Feedback {
	var fb Feedback

	guessUsed := make([]bool, len(guess))
	codeUsed := make([]bool, len(code))

	for i := 0; i < len(guess) && i < len(code); i++ {
		if guess[i] == code[i] {
			fb.Exact++
			guessUsed[i] = true
			codeUsed[i] = true
		}
	}

	for i, g := range guess {
		if guessUsed[i] {
			continue
		}
		for j, c := range code {
			if !codeUsed[j] && c == g {
				fb.ColorOnly++
				codeUsed[j] = true
				break
			}
		}
	}

	return fb
}

// NewSession - generates the hidden code and opens an active session.
// Zero values in cfg take the hub defaults.
func NewSession(src pkg.Source, cfg Config) (Session, error) {
	if cfg.CodeLength == 0 {
		cfg.CodeLength = DefaultCodeLength
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.MaxAttempts < 0 {
		return Session{}, fmt.Errorf("%w: max attempts %d", apperror.ErrInvalidConfiguration, cfg.MaxAttempts)
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = append([]Color(nil), DefaultPalette...)
	}

	code, err := GenerateCode(src, cfg.CodeLength, cfg.Palette, cfg.AllowRepeats)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Code:      code,
		Config:    cfg,
		Log:       []Entry{},
		Remaining: cfg.MaxAttempts,
		Status:    StatusActive,
	}, nil
}

// SubmitGuess - scores guess and returns the next session snapshot.
func SubmitGuess(session Session, guess []Color) (Session, Feedback, error) {
	if session.IsTerminated() {
		return session, Feedback{}, fmt.Errorf("%w: game is %s", apperror.ErrSessionTerminated, session.Status)
	}

	if err := validateGuess(session.Config, guess); err != nil {
		return session, Feedback{}, err
	}

	fb := ScoreGuess(guess, session.Code)

	next := session
	next.Log = make([]Entry, len(session.Log), len(session.Log)+1)
	copy(next.Log, session.Log)
	next.Log = append(next.Log, Entry{Guess: append([]Color(nil), guess...), Feedback: fb})
	next.Remaining--

	switch {
	case fb.Exact == session.Config.CodeLength:
		next.Status = StatusWon
	case next.Remaining <= 0:
		next.Status = StatusLost
	}

	return next, fb, nil
}

func validateGuess(cfg Config, guess []Color) error {
	if len(guess) != cfg.CodeLength {
		return fmt.Errorf("%w: %d positions, want %d", apperror.ErrInvalidGuess, len(guess), cfg.CodeLength)
	}

	for i, c := range guess {
		if c == Unfilled {
			return fmt.Errorf("%w: position %d is unfilled", apperror.ErrInvalidGuess, i)
		}
		if !inPalette(cfg.Palette, c) {
			return fmt.Errorf("%w: %q is not in the palette", apperror.ErrInvalidGuess, c)
		}
	}

	return nil
}

func inPalette(palette []Color, c Color) bool {
	for _, p := range palette {
		if p == c {
			return true
		}
	}

	return false
}

func (that Session) IsTerminated() bool {
	return that.Status == StatusWon || that.Status == StatusLost
}

func (that Session) IsWon() bool {
	return that.Status == StatusWon
}

// Attempts - guesses submitted so far.
func (that Session) Attempts() int {
	return len(that.Log)
}

// Revealed - the secret code once the game is over, nil while it is active.
func (that Session) Revealed() []Color {
	if !that.IsTerminated() {
		return nil
	}

	return append([]Color(nil), that.Code...)
}
