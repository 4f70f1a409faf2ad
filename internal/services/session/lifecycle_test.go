package session

import (
	"time"

	"github.com/mcoot/sketchgame/internal/model"
	"github.com/mcoot/sketchgame/internal/services/timer"
)

// Join tests

func (s *CoordinatorSuite) TestJoin() {
	code := s.createRoom(nil, "alice")

	room, err := s.coordinator.Join(s.ctx, code, model.Player{ID: "bob", Name: "Bob"})
	s.Require().NoError(err)

	s.Require().Len(room.Players, 2)
	bob := room.GetPlayer("bob")
	s.Equal("Bob", bob.Name)
	s.False(bob.IsHost)
	s.False(bob.Pending)

	payload := s.lastPayload(model.EventRoomUpdate).(model.RoomUpdatePayload)
	s.Len(payload.Room.Players, 2)
}

func (s *CoordinatorSuite) TestJoinErrors() {
	settings := model.DefaultSettings()
	settings.MaxPlayers = 2
	code := s.createRoom(&settings, "alice")

	_, err := s.coordinator.Join(s.ctx, code, model.Player{ID: "alice"})
	s.ErrorIs(err, model.ErrAlreadyJoined)

	_, err = s.coordinator.Join(s.ctx, code, model.Player{ID: "bob"})
	s.Require().NoError(err)

	_, err = s.coordinator.Join(s.ctx, code, model.Player{ID: "carol"})
	s.ErrorIs(err, model.ErrRoomFull)

	_, err = s.coordinator.Join(s.ctx, "NOPE22", model.Player{ID: "carol"})
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *CoordinatorSuite) TestJoinAfterGameEndedIsNotPending() {
	settings := model.DefaultSettings()
	settings.MaxRounds = 1
	code := s.createRoom(&settings, "alice", "bob")
	s.Require().NoError(s.coordinator.StartGame(s.ctx, code, "alice"))
	s.playRound(code)
	s.playRound(code)
	s.Require().Equal(model.RoomStatusEnded, s.room(code).Status)

	room, err := s.coordinator.Join(s.ctx, code, model.Player{ID: "carol"})
	s.Require().NoError(err)
	s.False(room.GetPlayer("carol").Pending)
}

// Leave tests

func (s *CoordinatorSuite) TestLeavePromotesHost() {
	code := s.createRoom(nil, "alice", "bob", "carol")

	err := s.coordinator.Leave(s.ctx, code, "alice")
	s.Require().NoError(err)

	room := s.room(code)
	s.Len(room.Players, 2)
	s.True(room.IsHost("bob"))
	s.False(room.GetPlayer("carol").IsHost)

	payload := s.lastPayload(model.EventRoomUpdate).(model.RoomUpdatePayload)
	s.Equal(model.PlayerID("bob"), payload.Room.GetHost().ID)
}

func (s *CoordinatorSuite) TestLeaveUnknownPlayer() {
	code := s.createRoom(nil, "alice", "bob", "carol")

	err := s.coordinator.Leave(s.ctx, code, "mallory")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *CoordinatorSuite) TestLastPlayerLeavingDeletesRoom() {
	code := s.createRoom(nil, "alice")

	err := s.coordinator.Leave(s.ctx, code, "alice")
	s.Require().NoError(err)

	exists, err := s.storage.RoomExists(s.ctx, code)
	s.Require().NoError(err)
	s.False(exists)
	s.Equal([]model.RoomCode{code}, s.broadcaster.Closed())
}

func (s *CoordinatorSuite) TestOnePlayerRemainingTearsDownRoom() {
	code := s.startGame("alice", "bob")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	err := s.coordinator.Leave(s.ctx, code, "bob")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, code)
	s.ErrorIs(err, model.ErrRoomNotFound)

	payload := s.lastPayload(model.EventRoomClosed).(model.RoomClosedPayload)
	s.Equal(code, payload.Code)
	s.Equal(CloseReasonNotEnoughPlayers, payload.Reason)
	s.Equal([]model.RoomCode{code}, s.broadcaster.Closed())
	s.Equal(0, s.timers.Count())

	s.clock.Advance(time.Minute)
	s.Empty(s.broadcaster.OfType(model.EventTimerUpdate))
	s.Empty(s.broadcaster.OfType(model.EventRoundEnd))
}

func (s *CoordinatorSuite) TestExitGameBehavesLikeLeave() {
	code := s.createRoom(nil, "alice", "bob", "carol")

	err := s.coordinator.ExitGame(s.ctx, code, "carol")
	s.Require().NoError(err)
	s.False(s.room(code).HasPlayer("carol"))
}

func (s *CoordinatorSuite) TestLastUnguessedPlayerLeavingEndsRound() {
	code := s.startGame("alice", "bob", "carol")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))
	_, err := s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.Require().NoError(err)

	err = s.coordinator.Leave(s.ctx, code, "carol")
	s.Require().NoError(err)

	s.Len(s.broadcaster.OfType(model.EventRoundEnd), 1)
	s.Empty(s.broadcaster.OfType(model.EventForceEndRound))
	s.Equal(50, s.player(code, "alice").Score)
}

func (s *CoordinatorSuite) TestGuesserLeavingKeepsRoundGoing() {
	code := s.startGame("alice", "bob", "carol", "dave")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	err := s.coordinator.Leave(s.ctx, code, "bob")
	s.Require().NoError(err)

	room := s.room(code)
	s.Equal(model.PhaseDrawing, room.GameState.Phase)
	s.Contains(room.PlayerOrder, model.PlayerID("bob"), "departed players keep their slot")
	kind, _ := s.timers.Active(code)
	s.Equal(timer.KindInterval, kind)
}

func (s *CoordinatorSuite) TestRotationSkipsDepartedPlayer() {
	code := s.startGame("alice", "bob", "carol", "dave")
	s.Require().NoError(s.coordinator.Leave(s.ctx, code, "bob"))

	s.playRound(code)

	room := s.room(code)
	s.Equal(model.PlayerID("carol"), room.GameState.DrawingPlayerID)
	s.Equal(2, room.DrawerIndex)
	s.Equal(1, room.CurrentRound)
}

// Drawer departure tests

func (s *CoordinatorSuite) TestDrawerLeavingForceEndsRound() {
	code := s.startGame("alice", "bob", "carol", "dave")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))
	s.clock.Advance(20 * time.Second)

	_, err := s.coordinator.SubmitGuess(s.ctx, code, "bob", "apple")
	s.Require().NoError(err)
	_, err = s.coordinator.SubmitGuess(s.ctx, code, "carol", "aple")
	s.Require().NoError(err)
	s.Require().Equal(80, s.player(code, "bob").Score)

	err = s.coordinator.Leave(s.ctx, code, "alice")
	s.Require().NoError(err)

	s.Empty(s.broadcaster.OfType(model.EventRoundEnd))
	payload := s.lastPayload(model.EventForceEndRound).(model.ForceEndRoundPayload)
	s.Equal(ForceEndReasonDrawerLeft, payload.Reason)
	s.Equal("apple", payload.Word)
	s.Equal(model.PlayerID("bob"), payload.NextDrawerID)
	s.Require().Len(payload.Guesses, 2)
	for _, g := range payload.Guesses {
		s.False(g.Correct)
		s.Equal(0, g.Score)
		s.False(g.IsDrawer)
	}

	room := s.room(code)
	s.Equal(model.PhaseRoundEnd, room.GameState.Phase)
	s.Equal(0, room.GetPlayer("bob").Score, "points from the voided round are taken back")
	s.True(room.IsHost("bob"))
	for _, p := range room.Players {
		s.False(p.IsDrawing)
	}

	// The interval is gone and the resume is armed
	kind, active := s.timers.Active(code)
	s.True(active)
	s.Equal(timer.KindTimeout, kind)
	s.assertAtMostOneTimer()
	updates := len(s.broadcaster.OfType(model.EventTimerUpdate))

	s.clock.Advance(3 * time.Second)
	s.Len(s.broadcaster.OfType(model.EventTimerUpdate), updates)
	s.Len(s.broadcaster.OfType(model.EventRoundStart), 1)

	s.clock.Advance(time.Second)

	start := s.lastPayload(model.EventRoundStart).(model.RoundStartPayload)
	s.Equal(model.PlayerID("bob"), start.DrawerID)
	s.Equal(1, start.Round)

	room = s.room(code)
	s.Equal(1, room.DrawerIndex)
	s.Equal(model.PhaseSelectingWord, room.GameState.Phase)
	s.Empty(room.GameState.NextDrawerID)
}

func (s *CoordinatorSuite) TestDrawerLeavingDuringSelectionForceEndsRound() {
	code := s.startGame("alice", "bob", "carol")

	err := s.coordinator.Leave(s.ctx, code, "alice")
	s.Require().NoError(err)

	payload := s.lastPayload(model.EventForceEndRound).(model.ForceEndRoundPayload)
	s.Empty(payload.Word)
	s.Empty(payload.Guesses)
	s.Equal(model.PlayerID("bob"), payload.NextDrawerID)

	// The selection timer must not auto-select for the departed drawer
	s.clock.Advance(10 * time.Second)
	s.Empty(s.broadcaster.OfType(model.EventWordSelected))

	start := s.lastPayload(model.EventRoundStart).(model.RoundStartPayload)
	s.Equal(model.PlayerID("bob"), start.DrawerID)
}

func (s *CoordinatorSuite) TestDrawerLeavingLastInOrderWrapsToNextRound() {
	code := s.startGame("alice", "bob", "carol", "dave")
	s.playRound(code) // alice
	s.playRound(code) // bob
	s.playRound(code) // carol
	s.Require().Equal(model.PlayerID("dave"), s.room(code).GameState.DrawingPlayerID)

	err := s.coordinator.Leave(s.ctx, code, "dave")
	s.Require().NoError(err)

	payload := s.lastPayload(model.EventForceEndRound).(model.ForceEndRoundPayload)
	s.Equal(model.PlayerID("alice"), payload.NextDrawerID)

	s.clock.Advance(4 * time.Second)

	room := s.room(code)
	s.Equal(model.PlayerID("alice"), room.GameState.DrawingPlayerID)
	s.Equal(2, room.CurrentRound)
	s.Equal(0, room.DrawerIndex)
}

func (s *CoordinatorSuite) TestDrawerLeavingSkipsMutedSuccessor() {
	code := s.startGame("alice", "bob", "carol", "dave")
	s.Require().NoError(s.coordinator.Mute(s.ctx, code, "alice", "bob", true))
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	err := s.coordinator.Leave(s.ctx, code, "alice")
	s.Require().NoError(err)

	payload := s.lastPayload(model.EventForceEndRound).(model.ForceEndRoundPayload)
	s.Equal(model.PlayerID("carol"), payload.NextDrawerID)

	s.clock.Advance(4 * time.Second)

	room := s.room(code)
	s.Equal(model.PlayerID("carol"), room.GameState.DrawingPlayerID)
	s.Equal(2, room.DrawerIndex)
	s.Equal(1, room.CurrentRound)
}

func (s *CoordinatorSuite) TestDrawerLeavingLastRoundEndsGameOnResume() {
	settings := model.DefaultSettings()
	settings.MaxRounds = 1
	code := s.createRoom(&settings, "alice", "bob", "carol")
	s.Require().NoError(s.coordinator.StartGame(s.ctx, code, "alice"))
	s.playRound(code) // alice
	s.playRound(code) // bob
	s.Require().Equal(model.PlayerID("carol"), s.room(code).GameState.DrawingPlayerID)

	s.Require().NoError(s.coordinator.Leave(s.ctx, code, "carol"))
	s.clock.Advance(4 * time.Second)

	room := s.room(code)
	s.Equal(model.RoomStatusEnded, room.Status)
	s.Equal(1, room.CurrentRound)
	s.Len(s.broadcaster.OfType(model.EventGameEnd), 1)
}

func (s *CoordinatorSuite) TestForceEndResumeCancelledByClose() {
	code := s.startGame("alice", "bob", "carol")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))
	s.Require().NoError(s.coordinator.Leave(s.ctx, code, "alice"))

	s.Require().NoError(s.coordinator.CloseRoom(s.ctx, code, "bob"))
	s.clock.Advance(time.Minute)

	s.Len(s.broadcaster.OfType(model.EventRoundStart), 1)
	s.Equal(0, s.timers.Count())
}

func (s *CoordinatorSuite) TestDrawerLeavingAfterRoundEndUsesNormalRotation() {
	code := s.startGame("alice", "bob", "carol")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))
	s.clock.Advance(80 * time.Second)
	s.Require().Equal(model.PhaseRoundEnd, s.room(code).GameState.Phase)

	s.Require().NoError(s.coordinator.Leave(s.ctx, code, "alice"))
	s.Empty(s.broadcaster.OfType(model.EventForceEndRound))

	s.clock.Advance(4 * time.Second)
	s.Equal(model.PlayerID("bob"), s.room(code).GameState.DrawingPlayerID)
}

// Disconnect tests

func (s *CoordinatorSuite) TestDisconnectRemovesPlayer() {
	code := s.createRoom(nil, "alice", "bob", "carol")
	s.Require().NoError(s.coordinator.BindConnection(s.ctx, code, "carol", "conn-1"))

	err := s.coordinator.Disconnect(s.ctx, code, "carol", "conn-1")
	s.Require().NoError(err)
	s.False(s.room(code).HasPlayer("carol"))
}

func (s *CoordinatorSuite) TestStaleDisconnectIgnored() {
	code := s.createRoom(nil, "alice", "bob", "carol")
	s.Require().NoError(s.coordinator.BindConnection(s.ctx, code, "carol", "conn-1"))
	s.Require().NoError(s.coordinator.BindConnection(s.ctx, code, "carol", "conn-2"))

	err := s.coordinator.Disconnect(s.ctx, code, "carol", "conn-1")
	s.Require().NoError(err)
	s.True(s.room(code).HasPlayer("carol"))
	s.Equal("conn-2", s.player(code, "carol").ConnectionID)
}

func (s *CoordinatorSuite) TestUnboundConnectionCloseKeepsPlayer() {
	code := s.createRoom(nil, "alice", "bob", "carol")

	err := s.coordinator.Disconnect(s.ctx, code, "carol", "conn-watch")
	s.Require().NoError(err)
	s.True(s.room(code).HasPlayer("carol"))
	s.Empty(s.broadcaster.Closed())
}

func (s *CoordinatorSuite) TestUnboundDrawerConnectionCloseKeepsRound() {
	code := s.startGame("alice", "bob")
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "alice", "apple"))

	err := s.coordinator.Disconnect(s.ctx, code, "alice", "conn-watch")
	s.Require().NoError(err)

	room := s.room(code)
	s.Equal(model.PhaseDrawing, room.GameState.Phase)
	s.Equal(model.PlayerID("alice"), room.GameState.DrawingPlayerID)
	s.Empty(s.broadcaster.OfType(model.EventForceEndRound))
}

func (s *CoordinatorSuite) TestDisconnectOfAbsentPlayerIgnored() {
	code := s.createRoom(nil, "alice", "bob")

	err := s.coordinator.Disconnect(s.ctx, code, "mallory", "conn-9")
	s.NoError(err)
}

func (s *CoordinatorSuite) TestBindConnectionUnknownPlayer() {
	code := s.createRoom(nil, "alice")

	err := s.coordinator.BindConnection(s.ctx, code, "mallory", "conn-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

// Moderation tests

func (s *CoordinatorSuite) TestKick() {
	code := s.createRoom(nil, "alice", "bob", "carol")

	err := s.coordinator.Kick(s.ctx, code, "bob", "carol")
	s.ErrorIs(err, model.ErrForbidden)

	err = s.coordinator.Kick(s.ctx, code, "alice", "alice")
	s.ErrorIs(err, model.ErrForbidden)

	err = s.coordinator.Kick(s.ctx, code, "alice", "mallory")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	err = s.coordinator.Kick(s.ctx, code, "alice", "carol")
	s.Require().NoError(err)

	room := s.room(code)
	s.False(room.HasPlayer("carol"))
	s.True(room.IsBanned("carol"))

	payload := s.lastPayload(model.EventModerationKick).(model.ModerationPayload)
	s.Equal(model.PlayerID("carol"), payload.UserID)

	types := s.broadcaster.Types()
	s.Equal([]model.EventType{model.EventModerationKick, model.EventRoomUpdate}, types)

	_, err = s.coordinator.Join(s.ctx, code, model.Player{ID: "carol"})
	s.ErrorIs(err, model.ErrPlayerBanned)
}

func (s *CoordinatorSuite) TestKickDrawerForceEndsRound() {
	code := s.startGame("alice", "bob", "carol")
	s.playRound(code)
	s.Require().NoError(s.coordinator.SelectWord(s.ctx, code, "bob", "apple"))

	err := s.coordinator.Kick(s.ctx, code, "alice", "bob")
	s.Require().NoError(err)

	payload := s.lastPayload(model.EventForceEndRound).(model.ForceEndRoundPayload)
	s.Equal(model.PlayerID("carol"), payload.NextDrawerID)
	s.True(s.room(code).IsBanned("bob"))

	s.clock.Advance(4 * time.Second)
	s.Equal(model.PlayerID("carol"), s.room(code).GameState.DrawingPlayerID)
}

func (s *CoordinatorSuite) TestMute() {
	code := s.createRoom(nil, "alice", "bob")

	err := s.coordinator.Mute(s.ctx, code, "bob", "alice", true)
	s.ErrorIs(err, model.ErrForbidden)

	err = s.coordinator.Mute(s.ctx, code, "alice", "bob", true)
	s.Require().NoError(err)
	s.True(s.player(code, "bob").IsMuted)

	payload := s.lastPayload(model.EventModerationMute).(model.ModerationPayload)
	s.Equal(model.PlayerID("bob"), payload.UserID)
	s.True(payload.Muted)

	err = s.coordinator.Mute(s.ctx, code, "alice", "bob", false)
	s.Require().NoError(err)
	s.False(s.player(code, "bob").IsMuted)

	err = s.coordinator.Mute(s.ctx, code, "alice", "mallory", true)
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
