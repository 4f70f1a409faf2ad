package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mcoot/sketchgame/internal/api/request"
	"github.com/mcoot/sketchgame/internal/api/response"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomExitCmd())
	cmd.AddCommand(newRoomCloseCmd())
	cmd.AddCommand(newRoomSettingsCmd())

	return cmd
}

// settingsFlags binds the room settings flags. Only flags the user set are
// sent, so the rest keep their current value.
type settingsFlags struct {
	maxRounds     int
	roundTime     int
	wordCount     int
	maxPlayers    int
	theme         string
	hintIntervals []float64
}

func (f *settingsFlags) register(flags *pflag.FlagSet) {
	flags.IntVar(&f.maxRounds, "rounds", 0, "Number of rounds")
	flags.IntVar(&f.roundTime, "round-time", 0, "Drawing time per round in seconds")
	flags.IntVar(&f.wordCount, "word-count", 0, "Word choices offered to the drawer")
	flags.IntVar(&f.maxPlayers, "max-players", 0, "Maximum players in the room")
	flags.StringVar(&f.theme, "theme", "", "Word theme")
	flags.Float64SliceVar(&f.hintIntervals, "hints", nil, "Hint reveal points as fractions of the round time")
}

func (f *settingsFlags) build(flags *pflag.FlagSet) *request.Settings {
	var s request.Settings
	changed := false
	if flags.Changed("rounds") {
		s.MaxRounds = &f.maxRounds
		changed = true
	}
	if flags.Changed("round-time") {
		s.RoundTime = &f.roundTime
		changed = true
	}
	if flags.Changed("word-count") {
		s.WordCount = &f.wordCount
		changed = true
	}
	if flags.Changed("max-players") {
		s.MaxPlayers = &f.maxPlayers
		changed = true
	}
	if flags.Changed("theme") {
		s.Theme = &f.theme
		changed = true
	}
	if flags.Changed("hints") {
		s.HintIntervals = f.hintIntervals
		changed = true
	}
	if !changed {
		return nil
	}
	return &s
}

func newRoomCreateCmd() *cobra.Command {
	var name, avatar string
	var settings settingsFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room and join it as host",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateRoomRequest{
				Name:     name,
				Avatar:   avatar,
				Settings: settings.build(cmd.Flags()),
			}

			var result response.RoomResponse

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar")
	settings.register(cmd.Flags())

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result response.RoomResponse

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var name, avatar string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			req := request.JoinRoomRequest{Name: name, Avatar: avatar}
			var result response.RoomResponse

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar")

	return cmd
}

func newRoomLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/leave", code), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left room %s", code))
			return nil
		},
	}
}

func newRoomExitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exit <code>",
		Short: "Quit the game in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/exit", code), nil, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Exited game in room %s", code))
			return nil
		},
	}
}

func newRoomCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <code>",
		Short: "Close a room (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			if err := client.Delete(fmt.Sprintf("/api/v1/rooms/%s", code)); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Closed room %s", code))
			return nil
		},
	}
}

func newRoomSettingsCmd() *cobra.Command {
	var settings settingsFlags

	cmd := &cobra.Command{
		Use:   "settings <code>",
		Short: "Update room settings (host only, before the game starts)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			req := settings.build(cmd.Flags())
			if req == nil {
				return fmt.Errorf("at least one setting flag is required")
			}

			var result response.RoomResponse

			if err := client.Patch(fmt.Sprintf("/api/v1/rooms/%s/settings", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	settings.register(cmd.Flags())

	return cmd
}
