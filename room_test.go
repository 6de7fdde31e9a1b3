/*
Copyright © 2026 toastfacek
*/

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoom(t *testing.T) {
	s := newRoomStore()

	room := s.createRoom("conn-1", "alice", "😀")

	assert.Len(t, room.Code, roomCodeLength)
	assert.Equal(t, PhaseLobby, room.Phase)
	assert.Equal(t, "conn-1", room.Host.ID)
	require.Len(t, room.Players, 1)
	assert.Equal(t, room.Host, room.Players[0])
	assert.Equal(t, map[string]int{"conn-1": 0}, room.Scores)
	assert.Equal(t, 0, room.CurrentPromptIndex)
}

func TestRoomCodesUniqueAndUnambiguous(t *testing.T) {
	s := newRoomStore()

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		room := s.createRoom("conn", "alice", "😀")
		require.False(t, seen[room.Code], "duplicate live room code %q", room.Code)
		seen[room.Code] = true

		for _, r := range room.Code {
			assert.True(t, strings.ContainsRune(roomCodeAlphabet, r),
				"code %q contains %q outside the alphabet", room.Code, r)
		}
	}
}

func TestAddPlayer(t *testing.T) {
	s := newRoomStore()
	room := s.createRoom("host", "alice", "😀")

	got, err := s.addPlayer(room.Code, "conn-2", "bob", "🚀")
	require.Nil(t, err)
	assert.Len(t, got.Players, 2)
	assert.Equal(t, 0, got.Scores["conn-2"])

	t.Run("unknown room", func(t *testing.T) {
		_, err := s.addPlayer("ZZZZZZ", "conn-3", "carol", "✨")
		require.NotNil(t, err)
		assert.Equal(t, errNotFound, err.kind)
	})

	t.Run("duplicate connection", func(t *testing.T) {
		_, err := s.addPlayer(room.Code, "conn-2", "carol", "✨")
		require.NotNil(t, err)
		assert.Equal(t, errStateConflict, err.kind)
	})

	t.Run("case-insensitive name collision", func(t *testing.T) {
		_, err := s.addPlayer(room.Code, "conn-3", "BOB", "✨")
		require.NotNil(t, err)
		assert.Equal(t, errStateConflict, err.kind)
		assert.Len(t, room.Players, 2, "rejected join must not mutate players")
	})
}

func TestRemovePlayer(t *testing.T) {
	t.Run("middle player keeps order and drops score", func(t *testing.T) {
		s := newRoomStore()
		room := s.createRoom("host", "alice", "😀")
		s.addPlayer(room.Code, "conn-2", "bob", "🚀")
		s.addPlayer(room.Code, "conn-3", "carol", "✨")

		removals := s.removePlayer("conn-2")
		require.Len(t, removals, 1)
		assert.Equal(t, "bob", removals[0].player.Name)
		assert.False(t, removals[0].wasHost)
		assert.False(t, removals[0].deleted)

		assert.Equal(t, []string{"alice", "carol"}, playerNames(room))
		_, scored := room.Scores["conn-2"]
		assert.False(t, scored)
	})

	t.Run("host removal deletes the room", func(t *testing.T) {
		s := newRoomStore()
		room := s.createRoom("host", "alice", "😀")
		s.addPlayer(room.Code, "conn-2", "bob", "🚀")

		removals := s.removePlayer("host")
		require.Len(t, removals, 1)
		assert.True(t, removals[0].wasHost)
		assert.True(t, removals[0].deleted)

		_, ok := s.get(room.Code)
		assert.False(t, ok)
	})

	t.Run("last player empties the room silently", func(t *testing.T) {
		s := newRoomStore()
		room := s.createRoom("host", "alice", "😀")
		s.addPlayer(room.Code, "conn-2", "bob", "🚀")
		s.removePlayer("host")

		removals := s.removePlayer("conn-2")
		assert.Empty(t, removals, "room already gone with its host")

		_, ok := s.get(room.Code)
		assert.False(t, ok)
	})

	t.Run("unknown connection is a no-op", func(t *testing.T) {
		s := newRoomStore()
		s.createRoom("host", "alice", "😀")
		assert.Empty(t, s.removePlayer("stranger"))
	})
}

func TestSubmitOnMissingRoomIsNoop(t *testing.T) {
	s := newRoomStore()

	assert.False(t, s.submitPrompt("ZZZZZZ", "conn", "prompt"))
	assert.False(t, s.submitAnswer("ZZZZZZ", "conn", "answer"))
	assert.False(t, s.submitGuesses("ZZZZZZ", "conn", map[string]string{"a": "b"}))
	assert.False(t, s.setPhase("ZZZZZZ", PhasePrompt))
	assert.False(t, s.resetRoom("ZZZZZZ"))
}

func TestSubmitAnswerKeyedByCurrentPrompt(t *testing.T) {
	s := newRoomStore()
	room := s.createRoom("host", "alice", "😀")

	s.submitAnswer(room.Code, "host", "first round")
	s.advancePrompt(room.Code)
	s.submitAnswer(room.Code, "host", "second round")

	assert.Equal(t, "first round", room.Answers[0]["host"])
	assert.Equal(t, "second round", room.Answers[1]["host"])
}

func TestResetRoom(t *testing.T) {
	s := newRoomStore()
	room := s.createRoom("host", "alice", "😀")
	s.addPlayer(room.Code, "conn-2", "bob", "🚀")

	s.setPhase(room.Code, PhasePrompt)
	s.submitPrompt(room.Code, "host", "a prompt")
	s.submitAnswer(room.Code, "host", "an answer")
	s.submitGuesses(room.Code, "host", map[string]string{"conn-2": "conn-2"})
	s.advancePrompt(room.Code)
	room.Scores["host"] = 3

	before := playerNames(room)
	require.True(t, s.resetRoom(room.Code))

	assert.Equal(t, PhaseLobby, room.Phase)
	assert.Empty(t, room.Prompts)
	assert.Equal(t, 0, room.PromptAuthors.Size())
	assert.Empty(t, room.Answers)
	assert.Empty(t, room.Guesses)
	assert.Equal(t, 0, room.CurrentPromptIndex)
	assert.Equal(t, before, playerNames(room), "membership and order survive a reset")
	assert.Equal(t, map[string]int{"host": 0, "conn-2": 0}, room.Scores)
}

func playerNames(room *Room) []string {
	names := make([]string, 0, len(room.Players))
	for _, p := range room.Players {
		names = append(names, p.Name)
	}
	return names
}
