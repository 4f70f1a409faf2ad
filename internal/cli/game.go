package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/sketchgame/internal/api/request"
	"github.com/mcoot/sketchgame/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameWordCmd())
	cmd.AddCommand(newGameGuessCmd())
	cmd.AddCommand(newGameReplayCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start a game in the room (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/game", code), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game started")
			return nil
		},
	}
}

func newGameWordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "word <code> <word>",
		Short: "Pick the word to draw (drawer only)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			word := strings.Join(args[1:], " ")

			req := request.SelectWordRequest{Word: word}

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/game/word", code), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Drawing %q", word))
			return nil
		},
	}
}

func newGameGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <code> <guess>",
		Short: "Guess the word being drawn",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			req := request.GuessRequest{Guess: strings.Join(args[1:], " ")}
			var result response.GuessResponse

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/game/guess", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameReplayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay <code>",
		Short: "Reset the room for another game (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/replay", code), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Room reset for replay")
			return nil
		},
	}
}
