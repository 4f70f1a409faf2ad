package session

import (
	"time"

	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/timer"
	"github.com/mcoot/sketchgame/internal/services/words"
)

// Start game tests

func (s *CoordinatorSuite) TestStartGameRequiresHost() {
	code := s.createRoom(nil, "alice", "bob")

	err := s.coordinator.StartGame(s.ctx, code, "bob")
	s.ErrorIs(err, model.ErrForbidden)
	s.Equal(model.RoomStatusWaiting, s.room(code).Status)
}

func (s *CoordinatorSuite) TestStartGameRequiresTwoPlayers() {
	code := s.createRoom(nil, "alice")

	err := s.coordinator.StartGame(s.ctx, code, "alice")
	s.ErrorIs(err, model.ErrInsufficientPlayers)
}

func (s *CoordinatorSuite) TestStartGameTwice() {
	code := s.startGame("alice", "bob")

	err := s.coordinator.StartGame(s.ctx, code, "alice")
	s.ErrorIs(err, model.ErrGameInProgress)
}

func (s *CoordinatorSuite) TestStartGameRoomNotFound() {
	err := s.coordinator.StartGame(s.ctx, "NOPE22", "alice")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *CoordinatorSuite) TestStartGameWithoutWordsLeavesRoomUnchanged() {
	code := s.createRoom(nil, "alice", "bob")
	s.coordinator.words = words.New(s.storage, s.random)

	err := s.coordinator.StartGame(s.ctx, code, "alice")
	s.ErrorIs(err, model.ErrNoWords)
	s.Equal(model.RoomStatusWaiting, s.room(code).Status)
	s.Equal(0, s.timers.Count())
}

func (s *CoordinatorSuite) TestStartGameShufflesOrderAndStartsRound() {
	code := s.createRoom(nil, "alice", "bob", "carol")
	s.random.QueuePermutation(2, 0, 1)

	err := s.coordinator.StartGame(s.ctx, code, "alice")
	s.Require().NoError(err)

	room := s.room(code)
	s.Equal(model.RoomStatusInProgress, room.Status)
	s.Equal([]model.PlayerID{"carol", "alice", "bob"}, room.PlayerOrder)
	s.Equal(1, room.CurrentRound)
	s.Equal(0, room.DrawerIndex)
	s.Equal(model.PhaseSelectingWord, room.GameState.Phase)
	s.Equal(model.PlayerID("carol"), room.GameState.DrawingPlayerID)
	s.Equal([]string{"apple", "banana", "cherry"}, room.GameState.WordChoices)
	s.Equal(10, room.GameState.Timer)
	s.Empty(room.GameState.CurrentWord)
	s.True(room.GetPlayer("carol").IsDrawing)
	s.False(room.GetPlayer("alice").IsDrawing)

	payload := s.lastPayload(model.EventRoundStart).(model.RoundStartPayload)
	s.Equal(model.PlayerID("carol"), payload.DrawerID)
	s.Equal([]string{"apple", "banana", "cherry"}, payload.WordChoices)
	s.Equal(1, payload.Round)
	s.Equal(3, payload.MaxRounds)
	s.Equal([]model.PlayerID{"carol", "alice", "bob"}, payload.PlayerOrder)

	kind, active := s.timers.Active(code)
	s.True(active)
	s.Equal(timer.KindTimeout, kind)
}

func (s *CoordinatorSuite) TestStartGameResetsScores() {
	code := s.startGame("alice", "bob")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))
	_, err := s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.Require().NoError(err)
	s.Require().NoError(s.coordinator.Replay(s.ctx, code, "alice"))

	room := s.room(code)
	room.Players[1].Score = 999
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	s.Require().NoError(s.coordinator.StartGame(s.ctx, code, "alice"))
	s.Equal(0, s.player(code, "bob").Score)
}

// Word selection tests

func (s *CoordinatorSuite) TestSelectWordNotDrawer() {
	code := s.startGame("alice", "bob")

	err := s.coordinator.SelectWord(s.ctx, code, "bob", "apple")
	s.ErrorIs(err, model.ErrNotYourTurn)
}

func (s *CoordinatorSuite) TestSelectWordNotOffered() {
	code := s.startGame("alice", "bob")

	err := s.coordinator.SelectWord(s.ctx, code, "alice", "eagle")
	s.ErrorIs(err, model.ErrInvalidWord)
	s.Equal(model.PhaseSelectingWord, s.room(code).GameState.Phase)
}

func (s *CoordinatorSuite) TestSelectWordTwice() {
	code := s.startGame("alice", "bob")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	err := s.coordinator.SelectWord(s.ctx, code, "alice", "banana")
	s.ErrorIs(err, model.ErrWrongPhase)
}

func (s *CoordinatorSuite) TestSelectWordBeforeGame() {
	code := s.createRoom(nil, "alice", "bob")

	err := s.coordinator.SelectWord(s.ctx, code, "alice", "apple")
	s.ErrorIs(err, model.ErrGameNotInProgress)
}

func (s *CoordinatorSuite) TestSelectWordStartsDrawing() {
	code := s.startGame("alice", "bob")

	err := s.coordinator.SelectWord(s.ctx, code, "alice", " Banana ")
	s.Require().NoError(err)

	room := s.room(code)
	s.Equal(model.PhaseDrawing, room.GameState.Phase)
	s.Equal("banana", room.GameState.CurrentWord)
	s.Equal("______", room.GameState.Hint)
	s.Equal(80, room.GameState.Timer)
	s.Empty(room.GameState.WordChoices)
	s.Empty(room.GameState.Guesses)
	s.Equal(0, room.GameState.HintLevel)

	payload := s.lastPayload(model.EventWordSelected).(model.WordSelectedPayload)
	s.Equal("______", payload.MaskedWord)
	s.Equal(80, payload.RoundTime)
	s.False(payload.AutoSelected)
	s.Equal("banana", payload.Word)
	s.Equal(model.PlayerID("alice"), payload.DrawerID)

	kind, active := s.timers.Active(code)
	s.True(active)
	s.Equal(timer.KindInterval, kind)
}

func (s *CoordinatorSuite) TestSelectionTimerDoesNotFireAfterManualSelection() {
	code := s.startGame("alice", "bob")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "cherry"))

	s.clock.Advance(10 * time.Second)

	s.Len(s.broadcaster.OfType(model.EventWordSelected), 1)
	s.Equal("cherry", s.room(code).GameState.CurrentWord)
	s.Equal(70, s.room(code).GameState.Timer)
	s.assertAtMostOneTimer()
}

func (s *CoordinatorSuite) TestSelectionTimeoutAutoSelectsFirstChoice() {
	code := s.startGame("alice", "bob")

	s.clock.Advance(9 * time.Second)
	s.Empty(s.broadcaster.OfType(model.EventWordSelected))

	s.clock.Advance(time.Second)

	payload := s.lastPayload(model.EventWordSelected).(model.WordSelectedPayload)
	s.True(payload.AutoSelected)
	s.Equal("apple", payload.Word)
	s.Equal(model.PhaseDrawing, s.room(code).GameState.Phase)
	s.Equal("apple", s.room(code).GameState.CurrentWord)
}

// Timer and hint tests

func (s *CoordinatorSuite) TestTimerCountsDown() {
	code := s.startGame("alice", "bob")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	s.clock.Advance(5 * time.Second)

	updates := s.broadcaster.OfType(model.EventTimerUpdate)
	s.Require().Len(updates, 5)
	for i, e := range updates {
		s.Equal(79-i, e.Payload.(model.TimerUpdatePayload).TimeLeft)
	}
	s.Equal(75, s.room(code).GameState.Timer)
}

func (s *CoordinatorSuite) TestHintsRevealedPrivatelyAtBoundaries() {
	code := s.startGame("alice", "bob", "carol")
	s.Require().NoError(s.coordinator.BindConnection(s.ctx, code, "alice", "conn-alice"))
	s.Require().NoError(s.coordinator.BindConnection(s.ctx, code, "bob", "conn-bob"))
	s.Require().NoError(s.coordinator.BindConnection(s.ctx, code, "carol", "conn-carol"))
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	s.clock.Advance(39 * time.Second)
	s.Empty(s.broadcaster.Sent())
	s.Equal("_____", s.room(code).GameState.Hint)

	s.random.QueueIntn(2)
	s.clock.Advance(time.Second)

	room := s.room(code)
	s.Equal("__p__", room.GameState.Hint)
	s.Equal(1, room.GameState.HintLevel)
	s.Equal([]int{2}, room.GameState.RevealedIndices)

	sent := s.broadcaster.Sent()
	s.Require().Len(sent, 2)
	s.Equal("conn-bob", sent[0].ConnectionID)
	s.Equal("conn-carol", sent[1].ConnectionID)
	s.Equal(model.EventHintUpdate, sent[0].Event.Type)
	s.Equal("__p__", sent[0].Event.Payload.(model.HintUpdatePayload).Hint)
	s.Empty(s.broadcaster.OfType(model.EventHintUpdate))

	// Second boundary reveals a different letter
	s.random.QueueIntn(0)
	s.clock.Advance(20 * time.Second)

	room = s.room(code)
	s.Equal("a_p__", room.GameState.Hint)
	s.Equal(2, room.GameState.HintLevel)
	s.Len(s.broadcaster.Sent(), 4)

	// No boundaries left
	s.clock.Advance(19 * time.Second)
	s.Len(s.broadcaster.Sent(), 4)
}

func (s *CoordinatorSuite) TestHintFallsBackToBroadcast() {
	code := s.startGame("alice", "bob", "carol")
	s.Require().NoError(s.coordinator.BindConnection(s.ctx, code, "bob", "conn-bob"))
	s.Require().NoError(s.coordinator.BindConnection(s.ctx, code, "carol", "conn-carol"))
	s.broadcaster.SetUnreachable("conn-carol")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	s.clock.Advance(40 * time.Second)

	hints := s.broadcaster.OfType(model.EventHintUpdate)
	s.Require().Len(hints, 1)
	s.Equal("a____", hints[0].Payload.(model.HintUpdatePayload).Hint)
	// bob is reachable but already covered by the broadcast
	s.Empty(s.broadcaster.Sent())
}

func (s *CoordinatorSuite) TestHintFallbackWhenLaterGuesserUnbound() {
	code := s.startGame("alice", "bob", "carol")
	s.Require().NoError(s.coordinator.BindConnection(s.ctx, code, "bob", "conn-bob"))
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	s.clock.Advance(40 * time.Second)

	s.Len(s.broadcaster.OfType(model.EventHintUpdate), 1)
	s.Empty(s.broadcaster.Sent())
}

func (s *CoordinatorSuite) TestHintWithoutConnectionsIsBroadcast() {
	code := s.startGame("alice", "bob")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	s.clock.Advance(40 * time.Second)

	s.Len(s.broadcaster.OfType(model.EventHintUpdate), 1)
	s.Empty(s.broadcaster.Sent())
}

func (s *CoordinatorSuite) TestHintNeverRevealsSpaces() {
	settings := model.DefaultSettings()
	settings.HintIntervals = []float64{0.9, 0.8, 0.7, 0.6, 0.5}
	code := s.createRoom(&settings, "alice", "bob")
	s.Require().NoError(s.words.LoadWords("default", []string{"a b"}))
	s.Require().NoError(s.coordinator.StartGame(s.ctx, code, "alice"))
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "a b"))
	s.Equal("_ _", s.room(code).GameState.Hint)

	s.clock.Advance(40 * time.Second)

	room := s.room(code)
	s.Equal("a b", room.GameState.Hint)
	s.ElementsMatch([]int{0, 2}, room.GameState.RevealedIndices)
	s.Equal(5, room.GameState.HintLevel)
}

func (s *CoordinatorSuite) TestRoundEndsWhenTimerExpires() {
	code := s.startGame("alice", "bob")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	s.clock.Advance(79 * time.Second)
	s.Empty(s.broadcaster.OfType(model.EventRoundEnd))

	s.clock.Advance(time.Second)

	s.Len(s.broadcaster.OfType(model.EventRoundEnd), 1)
	s.Len(s.broadcaster.OfType(model.EventTimerUpdate), 80)

	room := s.room(code)
	s.Equal(model.PhaseRoundEnd, room.GameState.Phase)
	s.Equal(0, room.GameState.Timer)
	s.Equal(0, room.GetPlayer("alice").Score)

	payload := s.lastPayload(model.EventRoundEnd).(model.RoundEndPayload)
	s.Equal("apple", payload.Word)
	s.Require().Len(payload.Guesses, 1)
	s.True(payload.Guesses[0].IsDrawer)
	s.Equal(0, payload.Guesses[0].Score)

	kind, active := s.timers.Active(code)
	s.True(active)
	s.Equal(timer.KindTimeout, kind)

	// No more ticks once the round is over
	s.clock.Advance(3 * time.Second)
	s.Len(s.broadcaster.OfType(model.EventTimerUpdate), 80)
}

// Guess tests

func (s *CoordinatorSuite) TestCorrectGuessScoresBySpeed() {
	code := s.startGame("alice", "bob", "carol")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	result, err := s.coordinator.SubmitGuess(s.ctx, code, "bob", "  APPLE ")
	s.Require().NoError(err)
	s.True(result.Correct)
	s.False(result.IsClose)
	s.Equal(100, result.Score)

	s.clock.Advance(20 * time.Second)
	result, err = s.coordinator.SubmitGuess(s.ctx, code, "carol", "apple")
	s.Require().NoError(err)
	s.Equal(80, result.Score)

	s.Equal(100, s.player(code, "bob").Score)

	payload := s.broadcaster.OfType(model.EventGuessResult)[0].Payload.(model.GuessResultPayload)
	s.Equal(model.PlayerID("bob"), payload.UserID)
	s.Equal("APPLE", payload.Guess)
	s.True(payload.Correct)
	s.Equal(100, payload.Score)
	s.Equal(model.PlayerID("bob"), payload.ShowCloseToUser)
}

func (s *CoordinatorSuite) TestIncorrectGuessReportsCloseness() {
	code := s.startGame("alice", "bob")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	result, err := s.coordinator.SubmitGuess(s.ctx, code, "bob", "aple")
	s.Require().NoError(err)
	s.False(result.Correct)
	s.True(result.IsClose)
	s.Equal(0, result.Score)

	result, err = s.coordinator.SubmitGuess(s.ctx, code, "bob", "xyz")
	s.Require().NoError(err)
	s.False(result.IsClose)

	payload := s.lastPayload(model.EventGuessResult).(model.GuessResultPayload)
	s.Equal("xyz", payload.Guess)
	s.False(payload.Correct)

	room := s.room(code)
	s.Len(room.GameState.Guesses, 2)
	s.True(room.GameState.Guesses[0].IsClose)
	s.Equal(model.PhaseDrawing, room.GameState.Phase)
	s.Equal(0, room.GetPlayer("bob").Score)
}

func (s *CoordinatorSuite) TestGuessErrors() {
	code := s.createRoom(nil, "alice", "bob", "carol")

	_, err := s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.ErrorIs(err, model.ErrGameNotInProgress)

	s.Require().NoError(s.coordinator.StartGame(s.ctx, code, "alice"))

	_, err = s.coordinator.SubmitGuess(s.ctx, code, "alice", "apple")
	s.ErrorIs(err, model.ErrDrawerCannotGuess)

	_, err = s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.ErrorIs(err, model.ErrWrongPhase)

	_, err = s.coordinator.SubmitGuess(s.ctx, code, "mallory", "apple")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))
	_, err = s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.Require().NoError(err)

	_, err = s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.ErrorIs(err, model.ErrAlreadyGuessed)

	_, err = s.coordinator.SubmitGuess(s.ctx, code, "bob", "banana")
	s.ErrorIs(err, model.ErrAlreadyGuessed)

	s.Equal(100, s.player(code, "bob").Score)
	s.Len(s.room(code).GameState.Guesses, 1)
}

func (s *CoordinatorSuite) TestRoundEndsWhenAllEligibleGuessed() {
	code := s.startGame("alice", "bob", "carol")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	_, err := s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.Require().NoError(err)
	s.Empty(s.broadcaster.OfType(model.EventRoundEnd))

	s.clock.Advance(40 * time.Second)
	_, err = s.coordinator.SubmitGuess(s.ctx, code, "carol", "apple")
	s.Require().NoError(err)

	s.Len(s.broadcaster.OfType(model.EventRoundEnd), 1)

	room := s.room(code)
	s.Equal(model.PhaseRoundEnd, room.GameState.Phase)
	s.Equal(100, room.GetPlayer("alice").Score)
	s.Equal(100, room.GetPlayer("bob").Score)
	s.Equal(60, room.GetPlayer("carol").Score)

	payload := s.lastPayload(model.EventRoundEnd).(model.RoundEndPayload)
	s.Require().Len(payload.Guesses, 3)
	drawerGuess := payload.Guesses[2]
	s.True(drawerGuess.IsDrawer)
	s.Equal(model.PlayerID("alice"), drawerGuess.UserID)
	s.Empty(drawerGuess.Text)
	s.Equal(100, drawerGuess.Score)

	// The interval was replaced by the round-end delay
	kind, _ := s.timers.Active(code)
	s.Equal(timer.KindTimeout, kind)
	updates := len(s.broadcaster.OfType(model.EventTimerUpdate))
	s.clock.Advance(3 * time.Second)
	s.Len(s.broadcaster.OfType(model.EventTimerUpdate), updates)
}

func (s *CoordinatorSuite) TestDrawerBonusCountsDistinctGuessers() {
	code := s.startGame("alice", "bob", "carol")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	_, err := s.coordinator.SubmitGuess(s.ctx, code, "bob", "wrong")
	s.Require().NoError(err)
	_, err = s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.Require().NoError(err)

	s.clock.Advance(80 * time.Second)

	s.Equal(50, s.player(code, "alice").Score)
}

// Late join tests

func (s *CoordinatorSuite) TestLateJoinerSitsOutCurrentRound() {
	code := s.startGame("alice", "bob")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	_, err := s.coordinator.Join(s.ctx, code, model.Player{ID: "dave"})
	s.Require().NoError(err)

	dave := s.player(code, "dave")
	s.True(dave.Pending)
	s.True(dave.NextRoundPending)
	s.NotContains(s.room(code).PlayerOrder, model.PlayerID("dave"))

	_, err = s.coordinator.SubmitGuess(s.ctx, code, "dave", "apple")
	s.ErrorIs(err, model.ErrPlayerPending)

	// Bob alone completes the round
	_, err = s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.Require().NoError(err)
	s.Len(s.broadcaster.OfType(model.EventRoundEnd), 1)

	s.clock.Advance(4 * time.Second)

	room := s.room(code)
	dave = room.GetPlayer("dave")
	s.False(dave.Pending)
	s.False(dave.NextRoundPending)
	s.Equal(0, dave.Score)
	s.Equal([]model.PlayerID{"alice", "bob", "dave"}, room.PlayerOrder)
	s.Equal(model.PlayerID("bob"), room.GameState.DrawingPlayerID)

	payload := s.lastPayload(model.EventRoundStart).(model.RoundStartPayload)
	s.Equal([]model.PlayerID{"alice", "bob", "dave"}, payload.PlayerOrder)
}

func (s *CoordinatorSuite) TestActivatedLateJoinerDrawsInTurn() {
	code := s.startGame("alice", "bob")
	_, err := s.coordinator.Join(s.ctx, code, model.Player{ID: "dave"})
	s.Require().NoError(err)

	s.playRound(code) // alice
	s.Equal(model.PlayerID("bob"), s.room(code).GameState.DrawingPlayerID)

	s.playRound(code) // bob
	room := s.room(code)
	s.Equal(model.PlayerID("dave"), room.GameState.DrawingPlayerID)
	s.Equal(1, room.CurrentRound)
}

// Rotation and game end tests

func (s *CoordinatorSuite) TestRotationAdvancesThroughOrderThenRounds() {
	code := s.startGame("alice", "bob", "carol")

	expected := []struct {
		drawer model.PlayerID
		round  int
	}{
		{"alice", 1}, {"bob", 1}, {"carol", 1},
		{"alice", 2}, {"bob", 2}, {"carol", 2},
		{"alice", 3}, {"bob", 3}, {"carol", 3},
	}

	for _, want := range expected {
		room := s.room(code)
		s.Equal(want.drawer, room.GameState.DrawingPlayerID)
		s.Equal(want.round, room.CurrentRound)
		s.Equal(want.round, room.GameState.Round)
		s.Equal(model.RoomStatusInProgress, room.Status)
		s.LessOrEqual(room.CurrentRound, room.Settings.MaxRounds)
		s.assertAtMostOneTimer()
		s.playRound(code)
	}

	room := s.room(code)
	s.Equal(model.RoomStatusEnded, room.Status)
	s.Equal(model.PhaseEnded, room.GameState.Phase)
	s.Equal(3, room.CurrentRound)
	s.Len(s.broadcaster.OfType(model.EventGameEnd), 1)
	s.Len(s.broadcaster.OfType(model.EventRoundStart), 9)
	s.Equal(0, s.timers.Count())
	s.Equal(0, s.clock.PendingTimers())
}

func (s *CoordinatorSuite) TestFullGameLeaderboard() {
	settings := model.DefaultSettings()
	settings.MaxRounds = 1
	code := s.createRoom(&settings, "alice", "bob")
	s.Require().NoError(s.coordinator.StartGame(s.ctx, code, "alice"))

	// Alice draws, Bob guesses immediately
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))
	_, err := s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.Require().NoError(err)
	s.clock.Advance(4 * time.Second)

	// Bob draws, Alice guesses halfway through
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "bob", "banana"))
	s.clock.Advance(40 * time.Second)
	_, err = s.coordinator.SubmitGuess(s.ctx, code, "alice", "banana")
	s.Require().NoError(err)

	s.Empty(s.broadcaster.OfType(model.EventGameEnd))
	s.clock.Advance(4 * time.Second)

	payload := s.lastPayload(model.EventGameEnd).(model.GameEndPayload)
	s.Equal([]model.PlayerScore{
		{UserID: "bob", Name: "bob", Score: 150},
		{UserID: "alice", Name: "alice", Score: 110},
	}, payload.Leaderboard)

	room := s.room(code)
	s.Equal(model.RoomStatusEnded, room.Status)
	s.Equal(1, room.CurrentRound)

	_, err = s.coordinator.SubmitGuess(s.ctx, code, "alice", "banana")
	s.ErrorIs(err, model.ErrGameNotInProgress)
}

func (s *CoordinatorSuite) TestEventOrderForOneRound() {
	settings := model.DefaultSettings()
	settings.MaxRounds = 1
	code := s.createRoom(&settings, "alice", "bob")
	s.Require().NoError(s.coordinator.StartGame(s.ctx, code, "alice"))
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))
	_, err := s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.Require().NoError(err)

	s.Equal([]model.EventType{
		model.EventRoundStart,
		model.EventWordSelected,
		model.EventGuessResult,
		model.EventRoundEnd,
	}, s.broadcaster.Types())
}

// Replay tests

func (s *CoordinatorSuite) TestReplay() {
	code := s.startGame("alice", "bob")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))
	_, err := s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.Require().NoError(err)

	err = s.coordinator.Replay(s.ctx, code, "bob")
	s.ErrorIs(err, model.ErrForbidden)

	err = s.coordinator.Replay(s.ctx, code, "alice")
	s.Require().NoError(err)

	room := s.room(code)
	s.Equal(model.RoomStatusWaiting, room.Status)
	s.Equal(1, room.CurrentRound)
	s.Equal(0, room.DrawerIndex)
	s.Equal(model.PhaseWaiting, room.GameState.Phase)
	for _, p := range room.Players {
		s.Equal(0, p.Score)
		s.False(p.IsDrawing)
	}
	s.Equal(0, s.timers.Count())

	types := s.broadcaster.Types()
	s.Equal([]model.EventType{model.EventRoomUpdate, model.EventReplay}, types[len(types)-2:])

	// Does not auto-start
	s.clock.Advance(time.Minute)
	s.Len(s.broadcaster.OfType(model.EventRoundStart), 1)
}
