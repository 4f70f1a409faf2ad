package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/sketchgame/internal/api/request"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user id requests are made as",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)
			out.Print(Identity{UserID: cfg.UserID})
			return nil
		},
	}
}

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player moderation commands (host only)",
	}

	cmd.AddCommand(newPlayerKickCmd())
	cmd.AddCommand(newPlayerMuteCmd())

	return cmd
}

func newPlayerKickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kick <code> <user-id>",
		Short: "Remove a player and ban them from the room",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, target := args[0], args[1]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/players/%s/kick", code, target), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Kicked %s", target))
			return nil
		},
	}
}

func newPlayerMuteCmd() *cobra.Command {
	var unmute bool

	cmd := &cobra.Command{
		Use:   "mute <code> <user-id>",
		Short: "Mute or unmute a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, target := args[0], args[1]

			muted := !unmute
			req := request.MuteRequest{Muted: &muted}

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/players/%s/mute", code, target), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if muted {
				out.PrintMessage(fmt.Sprintf("Muted %s", target))
			} else {
				out.PrintMessage(fmt.Sprintf("Unmuted %s", target))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&unmute, "unmute", false, "Unmute instead")

	return cmd
}
