/*
Copyright © 2026 toastfacek
*/

package main

import (
	"crypto/rand"
	"strings"

	"github.com/hashicorp/go-set/v3"
)

type Phase string

const (
	PhaseLobby  Phase = "lobby"
	PhasePrompt Phase = "prompt"
	PhaseAnswer Phase = "answer"
	PhaseGuess  Phase = "guess"
	PhaseReveal Phase = "reveal"
	PhaseEnd    Phase = "end"
)

// Player identity is the transport-assigned connection id, reused for the
// lifetime of the room. There is no account system.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

type Room struct {
	Code    string
	Host    Player
	Players []Player // insertion order preserved, used for display only
	Phase   Phase

	// Prompts are stored in submission order, not keyed by player, so that
	// list order alone never reveals authorship. Authors tracks who has
	// already submitted, for duplicate rejection and the phase barrier.
	Prompts       []string
	PromptAuthors *set.Set[string]

	Answers map[int]map[string]string            // promptIndex -> playerID -> answer
	Guesses map[int]map[string]map[string]string // promptIndex -> guesserID -> answerOwnerID -> guessedID
	Scores  map[string]int                       // playerID -> score

	CurrentPromptIndex int
}

func (r *Room) member(id string) (Player, bool) {
	for _, p := range r.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// Codes avoid 0/O/1/I so they survive being read out loud across a couch.
const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 6
)

// RoomStore owns the mapping from room code to live room. It is only ever
// touched from the coordinator goroutine, so it carries no lock.
type RoomStore struct {
	rooms map[string]*Room
}

func newRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*Room),
	}
}

// newRoomCode generates a crypto-random room code and ensures it doesn't
// collide with any live room.
func (s *RoomStore) newRoomCode() string {
	for {
		buf := make([]byte, roomCodeLength)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, roomCodeLength)
		for i := range out {
			out[i] = roomCodeAlphabet[int(buf[i])%len(roomCodeAlphabet)]
		}
		code := string(out)

		if _, exists := s.rooms[code]; !exists {
			return code
		}
	}
}

func (s *RoomStore) createRoom(requesterID, name, emoji string) *Room {
	host := Player{ID: requesterID, Name: name, Emoji: emoji}
	room := &Room{
		Code:          s.newRoomCode(),
		Host:          host,
		Players:       []Player{host},
		Phase:         PhaseLobby,
		PromptAuthors: set.New[string](0),
		Answers:       make(map[int]map[string]string),
		Guesses:       make(map[int]map[string]map[string]string),
		Scores:        map[string]int{host.ID: 0},
	}
	s.rooms[room.Code] = room
	return room
}

func (s *RoomStore) get(code string) (*Room, bool) {
	room, ok := s.rooms[code]
	return room, ok
}

func (s *RoomStore) isHost(code, id string) bool {
	room, ok := s.rooms[code]
	return ok && room.Host.ID == id
}

func (s *RoomStore) addPlayer(code, requesterID, name, emoji string) (*Room, *gameError) {
	room, ok := s.rooms[code]
	if !ok {
		return nil, notFoundError("Room not found")
	}

	for _, p := range room.Players {
		if p.ID == requesterID || strings.EqualFold(p.Name, name) {
			return nil, stateConflictError("You are already in this room or name is taken")
		}
	}

	player := Player{ID: requesterID, Name: name, Emoji: emoji}
	room.Players = append(room.Players, player)
	room.Scores[player.ID] = 0
	return room, nil
}

// playerRemoval describes one room a departing connection was removed from.
// The room pointer stays valid even when the room was deleted from the store,
// so the caller can still notify the remaining members.
type playerRemoval struct {
	room    *Room
	player  Player
	wasHost bool
	deleted bool
}

// removePlayer scans every live room for the connection. A connection belongs
// to at most one room in practice, but the store does not assume this.
func (s *RoomStore) removePlayer(id string) []playerRemoval {
	var removals []playerRemoval

	for code, room := range s.rooms {
		idx := -1
		for i, p := range room.Players {
			if p.ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			continue
		}

		player := room.Players[idx]
		room.Players = append(room.Players[:idx], room.Players[idx+1:]...)
		delete(room.Scores, player.ID)

		removal := playerRemoval{
			room:    room,
			player:  player,
			wasHost: room.Host.ID == player.ID,
		}

		if removal.wasHost || len(room.Players) == 0 {
			delete(s.rooms, code)
			removal.deleted = true
		}

		removals = append(removals, removal)
	}

	return removals
}

func (s *RoomStore) submitPrompt(code, playerID, prompt string) bool {
	room, ok := s.rooms[code]
	if !ok {
		return false
	}
	room.Prompts = append(room.Prompts, prompt)
	room.PromptAuthors.Insert(playerID)
	return true
}

func (s *RoomStore) submitAnswer(code, playerID, answer string) bool {
	room, ok := s.rooms[code]
	if !ok {
		return false
	}
	if room.Answers[room.CurrentPromptIndex] == nil {
		room.Answers[room.CurrentPromptIndex] = make(map[string]string)
	}
	room.Answers[room.CurrentPromptIndex][playerID] = answer
	return true
}

func (s *RoomStore) submitGuesses(code, playerID string, guesses map[string]string) bool {
	room, ok := s.rooms[code]
	if !ok {
		return false
	}
	if room.Guesses[room.CurrentPromptIndex] == nil {
		room.Guesses[room.CurrentPromptIndex] = make(map[string]map[string]string)
	}
	room.Guesses[room.CurrentPromptIndex][playerID] = guesses
	return true
}

func (s *RoomStore) setPhase(code string, phase Phase) bool {
	room, ok := s.rooms[code]
	if !ok {
		return false
	}
	room.Phase = phase
	return true
}

func (s *RoomStore) advancePrompt(code string) bool {
	room, ok := s.rooms[code]
	if !ok {
		return false
	}
	room.CurrentPromptIndex++
	return true
}

// resetRoom returns the room to the lobby, keeping the players but clearing
// every per-cycle collection and zeroing the scores.
func (s *RoomStore) resetRoom(code string) bool {
	room, ok := s.rooms[code]
	if !ok {
		return false
	}

	room.Phase = PhaseLobby
	room.Prompts = nil
	room.PromptAuthors = set.New[string](0)
	room.Answers = make(map[int]map[string]string)
	room.Guesses = make(map[int]map[string]map[string]string)
	room.CurrentPromptIndex = 0

	room.Scores = make(map[string]int, len(room.Players))
	for _, p := range room.Players {
		room.Scores[p.ID] = 0
	}

	return true
}

func (s *RoomStore) closeRoom(code string) {
	delete(s.rooms, code)
}
