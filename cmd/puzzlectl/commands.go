package main

import (
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/puzzlehub-backend/internal/entity"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/mastermind"
	"github.com/rocketscienceinc/puzzlehub-backend/internal/puzzle"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "puzzlectl",
		Short:         "Play the hub puzzles in a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Int64("seed", 0, "seed for a reproducible puzzle (random when unset)")
	root.PersistentFlags().Bool("verbose", false, "log session events to stderr")

	root.AddCommand(
		newHanoiCmd(),
		newLightsOutCmd(),
		newMastermindCmd(),
		newFreeTheKeyCmd(),
	)

	return root
}

func newHanoiCmd() *cobra.Command {
	var disks int

	cmd := &cobra.Command{
		Use:   "hanoi",
		Short: "Tower of Hanoi; moves are \"<from> <to>\" with pegs 0-2",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return play(cmd, entity.Config{Kind: entity.KindHanoi, DiskCount: disks})
		},
	}

	cmd.Flags().IntVar(&disks, "disks", puzzle.DefaultDiskCount, "number of disks")

	return cmd
}

func newLightsOutCmd() *cobra.Command {
	var difficulty string

	cmd := &cobra.Command{
		Use:   "lightsout",
		Short: "Lights Out; moves are \"<row> <col>\" on the 5x5 grid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return play(cmd, entity.Config{Kind: entity.KindLightsOut, Difficulty: difficulty})
		},
	}

	cmd.Flags().StringVar(&difficulty, "difficulty", "", "easy, medium or hard")

	return cmd
}

func newMastermindCmd() *cobra.Command {
	var (
		length   int
		repeats  bool
		attempts int
	)

	cmd := &cobra.Command{
		Use:   "mastermind",
		Short: "Mastermind; moves are space separated colors",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return play(cmd, entity.Config{
				Kind:         entity.KindMastermind,
				CodeLength:   length,
				AllowRepeats: repeats,
				MaxAttempts:  attempts,
			})
		},
	}

	cmd.Flags().IntVar(&length, "length", mastermind.DefaultCodeLength, "code length, 3 to 6")
	cmd.Flags().BoolVar(&repeats, "repeats", true, "allow repeated colors (classic mode)")
	cmd.Flags().IntVar(&attempts, "attempts", mastermind.DefaultMaxAttempts, "guesses allowed")

	return cmd
}

func newFreeTheKeyCmd() *cobra.Command {
	var level int

	cmd := &cobra.Command{
		Use:   "freethekey",
		Short: "Free the Key; moves are \"<fromRow> <fromCol> <toRow> <toCol>\"",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return play(cmd, entity.Config{Kind: entity.KindFreeTheKey, Level: level})
		},
	}

	cmd.Flags().IntVar(&level, "level", puzzle.DefaultLevel, "level number")

	return cmd
}
