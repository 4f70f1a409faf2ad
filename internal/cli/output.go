package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mcoot/sketchgame/internal/api/response"
	"github.com/mcoot/sketchgame/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Identity is the user id the CLI acts as
type Identity struct {
	UserID string `json:"userId"`
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.RoomResponse:
		if v.Room != nil {
			o.printRoom(v.Room)
		}
	case response.GuessResponse:
		o.printGuess(v)
	case response.ThemesResponse:
		fmt.Printf("Themes: %s\n", strings.Join(v.Themes, ", "))
	case response.HealthResponse:
		fmt.Printf("Status: %s\n", v.Status)
	case Identity:
		fmt.Printf("User: %s\n", v.UserID)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printRoom(r *model.Room) {
	fmt.Printf("Room: %s\n", r.Code)
	fmt.Printf("Status: %s\n", r.Status)

	s := r.Settings
	fmt.Printf("Settings: %d rounds, %ds per round, %d word choices, theme %s, max %d players\n",
		s.MaxRounds, s.RoundTime, s.WordCount, s.Theme, s.MaxPlayers)

	if r.Status == model.RoomStatusInProgress {
		gs := r.GameState
		fmt.Printf("Round: %d/%d (%s)\n", gs.Round, s.MaxRounds, gs.Phase)
		if gs.DrawingPlayerID != "" {
			fmt.Printf("Drawer: %s\n", gs.DrawingPlayerID)
		}
		if gs.Phase == model.PhaseDrawing {
			fmt.Printf("Hint: %s\n", gs.Hint)
			fmt.Printf("Time left: %ds\n", gs.Timer)
		}
	}

	fmt.Printf("Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		var tags []string
		if p.IsHost {
			tags = append(tags, "host")
		}
		if p.IsDrawing {
			tags = append(tags, "drawing")
		}
		if p.IsMuted {
			tags = append(tags, "muted")
		}
		if p.IsPendingJoin() {
			tags = append(tags, "next round")
		}
		tagStr := ""
		if len(tags) > 0 {
			tagStr = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Printf("  - %s (%s) - %d points%s\n", p.Name, p.ID, p.Score, tagStr)
	}
}

func (o *Output) printGuess(g response.GuessResponse) {
	switch {
	case g.Correct:
		fmt.Printf("Correct! +%d points\n", g.Score)
	case g.IsClose:
		fmt.Println("Close!")
	default:
		fmt.Println("Not quite")
	}
}
