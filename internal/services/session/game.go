package session

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/hint"
	"github.com/mcoot/sketchgame/internal/services/rotation"
	"github.com/mcoot/sketchgame/internal/services/scoring"
)

// StartGame shuffles the drawing order and starts round 1. Host only.
func (c *Coordinator) StartGame(ctx context.Context, code model.RoomCode, requester model.PlayerID) error {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if !room.IsHost(requester) {
		return model.ErrForbidden
	}
	if len(room.Players) < c.cfg.MinPlayers {
		return model.ErrInsufficientPlayers
	}
	if room.Status == model.RoomStatusInProgress {
		return model.ErrGameInProgress
	}

	ids := make([]model.PlayerID, 0, len(room.Players))
	for i := range room.Players {
		room.Players[i].Activate()
		ids = append(ids, room.Players[i].ID)
	}

	room.PlayerOrder = rotation.Shuffle(ids, c.random)
	room.Status = model.RoomStatusInProgress
	room.CurrentRound = 1
	room.DrawerIndex = 0
	room.GameState = waitingState()

	c.logger.Info("game started",
		slog.String("room_code", string(code)),
		slog.Int("players", len(ids)),
		slog.Int("max_rounds", room.Settings.MaxRounds),
	)

	return c.startRound(ctx, room)
}

// startRound activates late joiners, picks the drawer and offers word choices
func (c *Coordinator) startRound(ctx context.Context, room *model.Room) error {
	for i := range room.Players {
		p := &room.Players[i]
		if !p.IsPendingJoin() {
			continue
		}
		p.Activate()
		if !slices.Contains(room.PlayerOrder, p.ID) {
			room.PlayerOrder = append(room.PlayerOrder, p.ID)
		}
	}

	// Departed players keep their slot in the order but are passed over
	found := false
	for range room.PlayerOrder {
		if room.HasPlayer(room.PlayerOrder[room.DrawerIndex]) {
			found = true
			break
		}
		room.DrawerIndex, room.CurrentRound = rotation.Advance(room.DrawerIndex, room.CurrentRound, len(room.PlayerOrder))
	}
	if !found || room.CurrentRound > room.Settings.MaxRounds {
		return c.finishGame(ctx, room)
	}
	drawerID := room.PlayerOrder[room.DrawerIndex]

	choices, err := c.words.Draw(room.Settings.Theme, room.Settings.WordCount)
	if err != nil {
		return err
	}

	for i := range room.Players {
		room.Players[i].IsDrawing = room.Players[i].ID == drawerID
	}
	room.GameState = model.GameState{
		Phase:           model.PhaseSelectingWord,
		Round:           room.CurrentRound,
		DrawingPlayerID: drawerID,
		WordChoices:     choices,
		Guesses:         []model.Guess{},
		Timer:           seconds(c.cfg.SelectionWindow),
	}

	if err := c.save(ctx, room); err != nil {
		return err
	}

	c.timers.StartTimeout(room.Code, c.cfg.SelectionWindow, c.roomTimer("word_selection", c.autoSelectWord))

	c.broadcast(room.Code, model.EventRoundStart, model.RoundStartPayload{
		DrawerID:    drawerID,
		WordChoices: choices,
		Round:       room.CurrentRound,
		MaxRounds:   room.Settings.MaxRounds,
		PlayerOrder: slices.Clone(room.PlayerOrder),
	})

	c.logger.Info("round started",
		slog.String("room_code", string(room.Code)),
		slog.Int("round", room.CurrentRound),
		slog.String("drawer", string(drawerID)),
	)
	return nil
}

// SelectWord is the drawer picking one of the offered words
func (c *Coordinator) SelectWord(ctx context.Context, code model.RoomCode, requester model.PlayerID, word string) error {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if room.Status != model.RoomStatusInProgress {
		return model.ErrGameNotInProgress
	}
	if requester != room.GameState.DrawingPlayerID {
		return model.ErrNotYourTurn
	}
	if room.GameState.Phase != model.PhaseSelectingWord {
		return model.ErrWrongPhase
	}

	word = normalizeGuess(word)
	if !slices.Contains(room.GameState.WordChoices, word) {
		return model.ErrInvalidWord
	}

	c.timers.Cancel(code)
	return c.startDrawingPhase(ctx, room, word, false)
}

// autoSelectWord fires when the drawer let the selection window run out
func (c *Coordinator) autoSelectWord(ctx context.Context, room *model.Room) error {
	if room.Status != model.RoomStatusInProgress || room.GameState.Phase != model.PhaseSelectingWord {
		return nil
	}
	if room.CurrentRound > room.Settings.MaxRounds || len(room.GameState.WordChoices) == 0 {
		return c.finishGame(ctx, room)
	}
	return c.startDrawingPhase(ctx, room, room.GameState.WordChoices[0], true)
}

func (c *Coordinator) startDrawingPhase(ctx context.Context, room *model.Room, word string, autoSelected bool) error {
	gs := &room.GameState
	gs.Phase = model.PhaseDrawing
	gs.CurrentWord = word
	gs.WordChoices = nil
	gs.Guesses = []model.Guess{}
	gs.Hint = hint.Mask(word)
	gs.HintLevel = 0
	gs.RevealedIndices = nil
	gs.Timer = room.Settings.RoundTime

	if err := c.save(ctx, room); err != nil {
		return err
	}

	c.broadcast(room.Code, model.EventWordSelected, model.WordSelectedPayload{
		MaskedWord:   gs.Hint,
		RoundTime:    room.Settings.RoundTime,
		AutoSelected: autoSelected,
		Word:         word,
		DrawerID:     gs.DrawingPlayerID,
	})

	c.timers.StartInterval(room.Code, c.cfg.TickInterval, c.roomTimer("round_tick", c.tick))
	return nil
}

// tick counts the drawing phase down by one second, revealing hint letters
// as boundaries are crossed and ending the round at zero
func (c *Coordinator) tick(ctx context.Context, room *model.Room) error {
	if room.Status != model.RoomStatusInProgress || room.GameState.Phase != model.PhaseDrawing {
		c.timers.Cancel(room.Code)
		return nil
	}

	gs := &room.GameState
	gs.Timer = max(gs.Timer-1, 0)

	revealed := false
	thresholds := hint.Thresholds(room.Settings.RoundTime, room.Settings.HintIntervals)
	if hint.Due(thresholds, gs.HintLevel, gs.Timer) {
		if hidden := hint.Hidden(gs.CurrentWord, gs.RevealedIndices); len(hidden) > 0 {
			gs.RevealedIndices = append(gs.RevealedIndices, hidden[c.random.Intn(len(hidden))])
			gs.Hint = hint.Reveal(gs.CurrentWord, gs.RevealedIndices)
			revealed = true
		}
		gs.HintLevel++
	}

	if err := c.save(ctx, room); err != nil {
		return err
	}

	c.broadcast(room.Code, model.EventTimerUpdate, model.TimerUpdatePayload{TimeLeft: gs.Timer})
	if revealed {
		c.deliverHint(room)
	}

	if gs.Timer == 0 {
		c.timers.Cancel(room.Code)
		return c.endRound(ctx, room)
	}
	return nil
}

// deliverHint sends the hint privately to every guesser. If any guesser has
// no live connection the hint is broadcast once instead, before anything is
// sent directly.
func (c *Coordinator) deliverHint(room *model.Room) {
	event := c.event(room.Code, model.EventHintUpdate, model.HintUpdatePayload{Hint: room.GameState.Hint})

	var targets []string
	for _, p := range room.Players {
		if p.ID == room.GameState.DrawingPlayerID {
			continue
		}
		if p.ConnectionID == "" || !c.broadcaster.Connected(room.Code, p.ConnectionID) {
			c.broadcaster.Broadcast(room.Code, event)
			return
		}
		targets = append(targets, p.ConnectionID)
	}

	for _, connectionID := range targets {
		if !c.broadcaster.SendTo(room.Code, connectionID, event) {
			c.logger.Warn("hint not delivered",
				slog.String("room_code", string(room.Code)),
				slog.String("connection_id", connectionID))
		}
	}
}

// SubmitGuess records a guess from a player
func (c *Coordinator) SubmitGuess(ctx context.Context, code model.RoomCode, userID model.PlayerID, text string) (*model.GuessResult, error) {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	if room.Status != model.RoomStatusInProgress {
		return nil, model.ErrGameNotInProgress
	}
	player := room.GetPlayer(userID)
	if player == nil {
		return nil, model.ErrPlayerNotFound
	}
	if userID == room.GameState.DrawingPlayerID {
		return nil, model.ErrDrawerCannotGuess
	}
	if room.GameState.Phase != model.PhaseDrawing {
		return nil, model.ErrWrongPhase
	}
	if player.IsPendingJoin() {
		return nil, model.ErrPlayerPending
	}
	if room.HasGuessedCorrectly(userID) {
		return nil, model.ErrAlreadyGuessed
	}

	text = strings.TrimSpace(text)
	normalized := normalizeGuess(text)
	target := normalizeGuess(room.GameState.CurrentWord)

	result := &model.GuessResult{}
	if normalized == target {
		result.Correct = true
		result.Score = scoring.Score(room.GameState.Timer, room.Settings.RoundTime)
		player.Score += result.Score
	} else {
		result.IsClose = scoring.IsClose(normalized, target)
	}

	room.GameState.Guesses = append(room.GameState.Guesses, model.Guess{
		UserID:    userID,
		Text:      text,
		Correct:   result.Correct,
		IsClose:   result.IsClose,
		Timestamp: c.clock.Now(),
		Score:     result.Score,
	})

	if err := c.save(ctx, room); err != nil {
		return nil, err
	}

	c.broadcast(code, model.EventGuessResult, model.GuessResultPayload{
		UserID:          userID,
		Guess:           text,
		Correct:         result.Correct,
		IsClose:         result.IsClose,
		Score:           result.Score,
		ShowCloseToUser: userID,
	})

	if result.Correct && room.AllEligibleGuessed() {
		if err := c.endRound(ctx, room); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// endRound credits the drawer and schedules the next round
func (c *Coordinator) endRound(ctx context.Context, room *model.Room) error {
	if room.Status != model.RoomStatusInProgress || room.GameState.Phase != model.PhaseDrawing {
		return nil
	}
	c.timers.Cancel(room.Code)

	gs := &room.GameState
	bonus := scoring.DrawerBonus(room.CorrectGuesserCount())
	if drawer := room.CurrentDrawer(); drawer != nil {
		drawer.Score += bonus
	}
	gs.Guesses = append(gs.Guesses, model.Guess{
		UserID:    gs.DrawingPlayerID,
		Timestamp: c.clock.Now(),
		Score:     bonus,
		IsDrawer:  true,
	})
	gs.Phase = model.PhaseRoundEnd
	gs.Timer = 0

	if err := c.save(ctx, room); err != nil {
		return err
	}

	c.broadcast(room.Code, model.EventRoundEnd, model.RoundEndPayload{
		Word:    gs.CurrentWord,
		Scores:  room.Scores(),
		Guesses: slices.Clone(gs.Guesses),
	})

	c.scheduleNextRound(room.Code)

	c.logger.Info("round ended",
		slog.String("room_code", string(room.Code)),
		slog.Int("round", room.CurrentRound),
		slog.Int("drawer_bonus", bonus),
	)
	return nil
}

func (c *Coordinator) scheduleNextRound(code model.RoomCode) {
	c.timers.StartTimeout(code, c.cfg.RoundEndDelay, c.roomTimer("next_round", c.nextRoundOrEnd))
}

// nextRoundOrEnd moves the rotation on and starts the next round, or ends
// the game once every round has been played
func (c *Coordinator) nextRoundOrEnd(ctx context.Context, room *model.Room) error {
	if room.Status != model.RoomStatusInProgress || room.GameState.Phase != model.PhaseRoundEnd {
		return nil
	}

	next := room.GameState.NextDrawerID
	room.GameState.NextDrawerID = ""
	if idx := slices.Index(room.PlayerOrder, next); next != "" && idx >= 0 {
		if idx <= room.DrawerIndex {
			room.CurrentRound++
		}
		room.DrawerIndex = idx
	} else {
		room.DrawerIndex, room.CurrentRound = rotation.Advance(room.DrawerIndex, room.CurrentRound, len(room.PlayerOrder))
	}

	if room.CurrentRound > room.Settings.MaxRounds {
		return c.finishGame(ctx, room)
	}
	return c.startRound(ctx, room)
}

// finishGame ends the game and publishes the leaderboard
func (c *Coordinator) finishGame(ctx context.Context, room *model.Room) error {
	c.timers.Cancel(room.Code)

	room.Status = model.RoomStatusEnded
	room.CurrentRound = min(room.CurrentRound, room.Settings.MaxRounds)
	for i := range room.Players {
		room.Players[i].IsDrawing = false
	}
	gs := &room.GameState
	gs.Phase = model.PhaseEnded
	gs.WordChoices = nil
	gs.NextDrawerID = ""
	gs.Timer = 0

	if err := c.save(ctx, room); err != nil {
		return err
	}

	leaderboard := room.Leaderboard()
	c.broadcast(room.Code, model.EventGameEnd, model.GameEndPayload{Leaderboard: leaderboard})

	c.logger.Info("game ended",
		slog.String("room_code", string(room.Code)),
		slog.Int("rounds", room.CurrentRound),
	)
	return nil
}

// Replay resets the room for another game without starting it. Host only.
func (c *Coordinator) Replay(ctx context.Context, code model.RoomCode, requester model.PlayerID) error {
	unlock := c.locks.Lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return err
	}
	if !room.IsHost(requester) {
		return model.ErrForbidden
	}

	c.timers.Cancel(code)

	for i := range room.Players {
		room.Players[i].Activate()
		room.Players[i].IsDrawing = false
	}
	room.Status = model.RoomStatusWaiting
	room.CurrentRound = 1
	room.DrawerIndex = 0
	room.PlayerOrder = []model.PlayerID{}
	room.GameState = waitingState()

	if err := c.save(ctx, room); err != nil {
		return err
	}

	c.broadcastRoomUpdate(room)
	c.broadcast(code, model.EventReplay, model.ReplayPayload{Code: code})
	return nil
}

// normalizeGuess lower-cases, trims and collapses inner whitespace
func normalizeGuess(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}
