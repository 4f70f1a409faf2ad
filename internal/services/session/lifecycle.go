package session

import (
	"context"
	"log/slog"
	"slices"

	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/rotation"
)

// Departure reasons, used for logging and force-end events
const (
	reasonLeft         = "left"
	reasonExited       = "exited"
	reasonDisconnected = "disconnected"
	reasonKicked       = "kicked"

	// ForceEndReasonDrawerLeft is carried by force-end-round events
	ForceEndReasonDrawerLeft = "drawer left"
)

// Join adds a player to the room. Players joining mid-round sit out until
// the next round starts.
func (c *Coordinator) Join(ctx context.Context, code model.RoomCode, player model.Player) (*model.Room, error) {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.IsBanned(player.ID) {
		return nil, model.ErrPlayerBanned
	}
	if room.HasPlayer(player.ID) {
		return nil, model.ErrAlreadyJoined
	}
	if len(room.Players) >= room.Settings.MaxPlayers {
		return nil, model.ErrRoomFull
	}

	p := newPlayer(player, c.clock.Now())
	if room.Status == model.RoomStatusInProgress && room.GameState.Phase != model.PhaseWaiting {
		p.Pending = true
		p.NextRoundPending = true
	}
	room.Players = append(room.Players, p)

	if err := c.save(ctx, room); err != nil {
		return nil, err
	}
	c.broadcastRoomUpdate(room)

	c.logger.Info("player joined",
		slog.String("room_code", string(code)),
		slog.String("player", string(p.ID)),
		slog.Bool("pending", p.Pending),
	)
	return room.Snapshot(), nil
}

// Leave removes a player from the room
func (c *Coordinator) Leave(ctx context.Context, code model.RoomCode, userID model.PlayerID) error {
	return c.departByID(ctx, code, userID, reasonLeft)
}

// ExitGame removes a player who quit from the game screen
func (c *Coordinator) ExitGame(ctx context.Context, code model.RoomCode, userID model.PlayerID) error {
	return c.departByID(ctx, code, userID, reasonExited)
}

// Disconnect removes a player whose connection dropped. It is ignored unless
// connectionID is the player's current binding, so closing a stream that was
// never bound (or was replaced) leaves the player in the room.
func (c *Coordinator) Disconnect(ctx context.Context, code model.RoomCode, userID model.PlayerID, connectionID string) error {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	player := room.GetPlayer(userID)
	if player == nil {
		return nil
	}
	if connectionID != "" && player.ConnectionID != connectionID {
		c.logger.Debug("ignoring stale disconnect",
			slog.String("room_code", string(code)),
			slog.String("player", string(userID)),
		)
		return nil
	}
	return c.depart(ctx, room, userID, reasonDisconnected)
}

// BindConnection records the connection used for private delivery to a player
func (c *Coordinator) BindConnection(ctx context.Context, code model.RoomCode, userID model.PlayerID, connectionID string) error {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	player := room.GetPlayer(userID)
	if player == nil {
		return model.ErrPlayerNotFound
	}
	player.ConnectionID = connectionID
	return c.save(ctx, room)
}

// Kick removes a player and bans them from rejoining. Host only.
func (c *Coordinator) Kick(ctx context.Context, code model.RoomCode, requester, target model.PlayerID) error {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if !room.IsHost(requester) || requester == target {
		return model.ErrForbidden
	}
	player := room.GetPlayer(target)
	if player == nil {
		return model.ErrPlayerNotFound
	}

	player.IsKicked = true
	if !room.IsBanned(target) {
		room.BannedIDs = append(room.BannedIDs, target)
	}

	c.broadcast(code, model.EventModerationKick, model.ModerationPayload{UserID: target})
	return c.depart(ctx, room, target, reasonKicked)
}

// Mute sets whether a player is muted. Host only.
func (c *Coordinator) Mute(ctx context.Context, code model.RoomCode, requester, target model.PlayerID, muted bool) error {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if !room.IsHost(requester) {
		return model.ErrForbidden
	}
	player := room.GetPlayer(target)
	if player == nil {
		return model.ErrPlayerNotFound
	}

	player.IsMuted = muted
	if err := c.save(ctx, room); err != nil {
		return err
	}

	c.broadcast(code, model.EventModerationMute, model.ModerationPayload{UserID: target, Muted: muted})
	c.broadcastRoomUpdate(room)
	return nil
}

func (c *Coordinator) departByID(ctx context.Context, code model.RoomCode, userID model.PlayerID, reason string) error {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	return c.depart(ctx, room, userID, reason)
}

// depart is the shared removal path for leave, exit, disconnect and kick.
// The caller holds the room lock.
func (c *Coordinator) depart(ctx context.Context, room *model.Room, userID model.PlayerID, reason string) error {
	departed, ok := room.RemovePlayer(userID)
	if !ok {
		return model.ErrPlayerNotFound
	}

	c.logger.Info("player left",
		slog.String("room_code", string(room.Code)),
		slog.String("player", string(userID)),
		slog.String("reason", reason),
	)

	switch len(room.Players) {
	case 0:
		c.timers.Cancel(room.Code)
		if err := c.storage.DeleteRoom(ctx, room.Code); err != nil {
			return err
		}
		c.broadcaster.CloseRoom(room.Code)
		return nil
	case 1:
		return c.teardown(ctx, room, CloseReasonNotEnoughPlayers)
	}

	if departed.IsHost {
		room.Players[0].IsHost = true
	}

	inRound := room.Status == model.RoomStatusInProgress &&
		(room.GameState.Phase == model.PhaseSelectingWord || room.GameState.Phase == model.PhaseDrawing)

	if inRound && room.GameState.DrawingPlayerID == userID {
		return c.forceEndRound(ctx, room, departed)
	}

	if err := c.save(ctx, room); err != nil {
		return err
	}
	c.broadcastRoomUpdate(room)

	// The departed player may have been the last one still guessing
	if inRound && room.GameState.Phase == model.PhaseDrawing && room.AllEligibleGuessed() {
		return c.endRound(ctx, room)
	}
	return nil
}

// forceEndRound voids the round after its drawer left. Guesses are zeroed,
// points they earned are taken back and no drawer bonus is paid. The next
// drawer is chosen explicitly and play resumes after the round-end delay.
func (c *Coordinator) forceEndRound(ctx context.Context, room *model.Room, drawer model.Player) error {
	c.timers.Cancel(room.Code)

	gs := &room.GameState
	for i := range gs.Guesses {
		g := &gs.Guesses[i]
		if g.Correct && g.Score > 0 {
			if p := room.GetPlayer(g.UserID); p != nil {
				p.Score = max(p.Score-g.Score, 0)
			}
		}
		g.Correct = false
		g.Score = 0
	}

	next, _ := rotation.NextEligibleDrawer(room.PlayerOrder, room.Players, drawer.ID)
	gs.NextDrawerID = next
	gs.Phase = model.PhaseRoundEnd
	gs.WordChoices = nil
	gs.Timer = 0
	for i := range room.Players {
		room.Players[i].IsDrawing = false
	}

	if err := c.save(ctx, room); err != nil {
		return err
	}

	c.broadcastRoomUpdate(room)
	c.broadcast(room.Code, model.EventForceEndRound, model.ForceEndRoundPayload{
		Reason:       ForceEndReasonDrawerLeft,
		Word:         gs.CurrentWord,
		Scores:       room.Scores(),
		Guesses:      slices.Clone(gs.Guesses),
		NextDrawerID: next,
	})

	c.scheduleNextRound(room.Code)

	c.logger.Info("round force ended",
		slog.String("room_code", string(room.Code)),
		slog.String("drawer", string(drawer.ID)),
		slog.String("next_drawer", string(next)),
	)
	return nil
}
