package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/entity"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/freethekey"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/lightsout"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/mastermind"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/metrics"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/repository"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/usecase"
)

var errBadInput = errors.New("bad input")

// play - runs one session against stdin until it is finished or the input ends.
func play(cmd *cobra.Command, cfg entity.Config) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cmd.Flags().Changed("seed") {
		seed, err := cmd.Flags().GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = &seed
	}

	manager := usecase.NewSessionManager(
		newLogger(cmd),
		repository.NewMemorySessionRepository(),
		metrics.New(prometheus.NewRegistry()),
		mastermind.DefaultMaxAttempts,
	)

	session, err := manager.Start(ctx, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	render(out, session)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "q", "quit":
			return nil
		case "restart":
			if session, err = manager.Restart(ctx, session.ID); err != nil {
				return err
			}
			render(out, session)
			continue
		}

		move, err := parseMove(session.Kind(), line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}

		next, outcome, err := manager.Move(ctx, session.ID, move)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}

		session = next
		if outcome.Feedback != nil {
			fmt.Fprintf(out, "exact %d, color only %d\n", outcome.Feedback.Exact, outcome.Feedback.ColorOnly)
		}
		render(out, session)

		if session.IsFinished() {
			return nil
		}
	}

	return scanner.Err()
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseMove(kind entity.Kind, line string) (entity.Move, error) {
	fields := strings.Fields(line)

	if kind == entity.KindMastermind {
		guess := make([]mastermind.Color, len(fields))
		for i, f := range fields {
			guess[i] = mastermind.Color(strings.ToLower(f))
		}

		return entity.Move{Guess: guess}, nil
	}

	want := map[entity.Kind]int{
		entity.KindHanoi:      2,
		entity.KindLightsOut:  2,
		entity.KindFreeTheKey: 4,
	}[kind]

	if len(fields) != want {
		return entity.Move{}, fmt.Errorf("%w: want %d numbers, got %q", errBadInput, want, line)
	}

	nums := make([]int, want)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return entity.Move{}, fmt.Errorf("%w: %q is not a number", errBadInput, f)
		}
		nums[i] = n
	}

	switch kind {
	case entity.KindHanoi:
		return entity.Move{Pegs: &entity.PegMove{From: nums[0], To: nums[1]}}, nil
	case entity.KindLightsOut:
		return entity.Move{Cell: &lightsout.Cell{Row: nums[0], Col: nums[1]}}, nil
	default:
		return entity.Move{Slide: &entity.SlideMove{
			From: freethekey.Pos{X: nums[1], Y: nums[0]},
			To:   freethekey.Pos{X: nums[3], Y: nums[2]},
		}}, nil
	}
}

func render(w io.Writer, session *entity.Session) {
	switch {
	case session.Hanoi != nil:
		for i, peg := range session.Hanoi.Pegs {
			fmt.Fprintf(w, "peg %d: %s\n", i, joinInts(peg))
		}
	case session.LightsOut != nil:
		for _, row := range session.LightsOut.Grid {
			var b strings.Builder
			for _, lit := range row {
				if lit {
					b.WriteByte('#')
				} else {
					b.WriteByte('.')
				}
			}
			fmt.Fprintln(w, b.String())
		}
	case session.Mastermind != nil:
		fmt.Fprintf(w, "%d attempts left, %d colors: %s\n",
			session.Mastermind.Remaining,
			session.Mastermind.Config.CodeLength,
			joinColors(session.Mastermind.Config.Palette))
	case session.FreeTheKey != nil:
		renderBoard(w, *session.FreeTheKey)
	}

	switch session.Status {
	case entity.StatusSolved:
		fmt.Fprintf(w, "solved in %d moves\n", session.Moves)
	case entity.StatusLost:
		fmt.Fprintf(w, "lost, the code was %s\n", joinColors(session.Mastermind.Revealed()))
	}
}

func renderBoard(w io.Writer, p freethekey.Puzzle) {
	glyphs := map[freethekey.Cell]byte{
		freethekey.Empty: '.',
		freethekey.Wall:  '#',
		freethekey.Block: 'B',
		freethekey.Exit:  'E',
	}

	for y, row := range p.Board {
		var b strings.Builder
		for x, c := range row {
			if (freethekey.Pos{X: x, Y: y}) == p.Key {
				b.WriteByte('K')
				continue
			}
			b.WriteByte(glyphs[c])
		}
		fmt.Fprintln(w, b.String())
	}
}

func joinInts(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}

	return strings.Join(parts, " ")
}

func joinColors(colors []mastermind.Color) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = string(c)
	}

	return strings.Join(parts, " ")
}
