/*
Copyright © 2026 toastfacek
*/

package main

// Inbound event names
const (
	evtCreateRoom       = "create_room"
	evtJoinRoom         = "join_room"
	evtStartGame        = "start_game"
	evtStartAnswerPhase = "start_answer_phase"
	evtSubmitPrompt     = "submit_prompt"
	evtSubmitAnswer     = "submit_answer"
	evtSubmitGuesses    = "submit_guesses"
	evtNextPrompt       = "next_prompt"
	evtResetGame        = "reset_game"
	evtCloseRoom        = "close_room"
)

// Outbound event names
const (
	evtRoomCreated           = "room_created"
	evtRoomJoined            = "room_joined"
	evtPlayerJoined          = "player_joined"
	evtPlayerLeft            = "player_left"
	evtRoomClosed            = "room_closed"
	evtGameStarted           = "game_started"
	evtPromptSubmitted       = "prompt_submitted"
	evtAllPromptsSubmitted   = "all_prompts_submitted"
	evtAnswerPhaseStarted    = "answer_phase_started"
	evtPlayerSubmittedAnswer = "player_submitted_answer"
	evtGuessPhaseStarted     = "guess_phase_started"
	evtGuessSubmitted        = "guess_submitted"
	evtRevealAnswers         = "reveal_answers"
	evtGameEnded             = "game_ended"
	evtGameReset             = "game_reset"
	evtGamePhaseChanged      = "game_phase_changed"
	evtError                 = "error"
)

// ClientMessage is the single inbound envelope; unused fields stay empty.
// PromptIndex is a pointer so "missing" and "zero" stay distinguishable.
type ClientMessage struct {
	Type        string            `json:"type"`
	RoomCode    string            `json:"roomCode,omitempty"`
	PlayerName  string            `json:"playerName,omitempty"`
	PlayerEmoji string            `json:"playerEmoji,omitempty"`
	Prompt      string            `json:"prompt,omitempty"`
	Answer      string            `json:"answer,omitempty"`
	PromptIndex *int              `json:"promptIndex,omitempty"`
	Guesses     map[string]string `json:"guesses,omitempty"`
}

// RoomView is the JSON-friendly projection of a room sent on create/join.
// Internal per-round maps stay server-side.
type RoomView struct {
	Code    string   `json:"code"`
	Host    Player   `json:"host"`
	Players []Player `json:"players"`
	Phase   Phase    `json:"phase"`
}

func roomView(room *Room) RoomView {
	players := make([]Player, len(room.Players))
	copy(players, room.Players)
	return RoomView{
		Code:    room.Code,
		Host:    room.Host,
		Players: players,
		Phase:   room.Phase,
	}
}

// AnswerView carries one answer; author fields are only filled in at reveal.
type AnswerView struct {
	PlayerID    string `json:"playerId"`
	Text        string `json:"text"`
	AuthorName  string `json:"authorName,omitempty"`
	AuthorEmoji string `json:"authorEmoji,omitempty"`
}

// GuessView is one (guesser, answerOwner -> guessedPlayer) pair set.
type GuessView struct {
	PlayerID string            `json:"playerId"`
	Guesses  map[string]string `json:"guesses"`
}

type ScoreView struct {
	PlayerID    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	PlayerEmoji string `json:"playerEmoji"`
	Score       int    `json:"score"`
}

type RoomCreatedMessage struct {
	Type     string   `json:"type"` // "room_created"
	RoomCode string   `json:"roomCode"`
	Room     RoomView `json:"room"`
}

type RoomJoinedMessage struct {
	Type string   `json:"type"` // "room_joined"
	Room RoomView `json:"room"`
}

type PlayerJoinedMessage struct {
	Type   string `json:"type"` // "player_joined"
	Player Player `json:"player"`
}

type PlayerLeftMessage struct {
	Type     string `json:"type"` // "player_left"
	PlayerID string `json:"playerId"`
}

type RoomClosedMessage struct {
	Type   string `json:"type"` // "room_closed"
	Reason string `json:"reason,omitempty"`
}

type GameStartedMessage struct {
	Type string `json:"type"` // "game_started"
}

type PromptSubmittedMessage struct {
	Type     string `json:"type"` // "prompt_submitted"
	PlayerID string `json:"playerId"`
}

type AllPromptsSubmittedMessage struct {
	Type string `json:"type"` // "all_prompts_submitted"
}

type AnswerPhaseStartedMessage struct {
	Type        string `json:"type"` // "answer_phase_started"
	Prompt      string `json:"prompt"`
	PromptIndex int    `json:"promptIndex"`
}

type PlayerSubmittedAnswerMessage struct {
	Type     string `json:"type"` // "player_submitted_answer"
	PlayerID string `json:"playerId"`
}

type GuessPhaseStartedMessage struct {
	Type               string       `json:"type"` // "guess_phase_started"
	Prompts            []string     `json:"prompts"`
	Answers            []AnswerView `json:"answers"`
	CurrentPromptIndex int          `json:"currentPromptIndex"`
}

type GuessSubmittedMessage struct {
	Type     string `json:"type"` // "guess_submitted"
	PlayerID string `json:"playerId"`
}

type RevealAnswersMessage struct {
	Type        string       `json:"type"` // "reveal_answers"
	PromptIndex int          `json:"promptIndex"`
	Prompts     []string     `json:"prompts"`
	Answers     []AnswerView `json:"answers"`
	Guesses     []GuessView  `json:"guesses"`
	Scores      []ScoreView  `json:"scores"`
}

type GameEndedMessage struct {
	Type        string      `json:"type"` // "game_ended"
	FinalScores []ScoreView `json:"finalScores"`
}

type GameResetMessage struct {
	Type string `json:"type"` // "game_reset"
}

type GamePhaseChangedMessage struct {
	Type  string `json:"type"` // "game_phase_changed"
	Phase Phase  `json:"phase"`
}

type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}
