/*
Copyright © 2026 toastfacek
*/

package main

import "unicode/utf8"

// All validators are pure and total: they inspect the raw payload and return
// nil or a *gameError, never panic, never touch room state. Host and phase
// checks live in the coordinator because they need the store.

const (
	playerNameMinLen = 2
	playerNameMaxLen = 20
	playerEmojiMax   = 8 // covers combined emoji sequences
	promptMaxLen     = 200
	answerMaxLen     = 500
)

// Rough emoji coverage: the common pictograph blocks, regional indicators,
// dingbats, and the variation selector used by keycap sequences.
var emojiRanges = [][2]rune{
	{0x1F300, 0x1F5FF},
	{0x1F600, 0x1F64F},
	{0x1F680, 0x1F6FF},
	{0x1F900, 0x1F9FF},
	{0x1FA70, 0x1FAFF},
	{0x1F1E6, 0x1F1FF},
	{0x2600, 0x27BF},
	{0x2B00, 0x2BFF},
	{0xFE0F, 0xFE0F},
}

func isEmojiRune(r rune) bool {
	for _, rng := range emojiRanges {
		if r >= rng[0] && r <= rng[1] {
			return true
		}
	}
	return false
}

func validRoomCode(code string) bool {
	return utf8.RuneCountInString(code) == roomCodeLength
}

func validPlayerName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= playerNameMinLen && n <= playerNameMaxLen
}

func validPlayerEmoji(emoji string) bool {
	if emoji == "" || utf8.RuneCountInString(emoji) > playerEmojiMax {
		return false
	}
	for _, r := range emoji {
		if isEmojiRune(r) {
			return true
		}
	}
	return false
}

func validPrompt(prompt string) bool {
	n := utf8.RuneCountInString(prompt)
	return n >= 1 && n <= promptMaxLen
}

func validAnswer(answer string) bool {
	n := utf8.RuneCountInString(answer)
	return n >= 1 && n <= answerMaxLen
}

// JSON decoding already guarantees string keys and values; what's left to
// check structurally is that the map exists and carries no empty entries.
func validGuesses(guesses map[string]string) bool {
	if guesses == nil {
		return false
	}
	for owner, guessed := range guesses {
		if owner == "" || guessed == "" {
			return false
		}
	}
	return true
}

func validateCreateRoom(msg ClientMessage) *gameError {
	if !validPlayerName(msg.PlayerName) {
		return validationError("Invalid player name")
	}
	if !validPlayerEmoji(msg.PlayerEmoji) {
		return validationError("Invalid player emoji")
	}
	return nil
}

func validateJoinRoom(msg ClientMessage) *gameError {
	if !validRoomCode(msg.RoomCode) {
		return validationError("Invalid room code")
	}
	if !validPlayerName(msg.PlayerName) {
		return validationError("Invalid player name")
	}
	if !validPlayerEmoji(msg.PlayerEmoji) {
		return validationError("Invalid player emoji")
	}
	return nil
}

func validateSubmitPrompt(msg ClientMessage) *gameError {
	if !validRoomCode(msg.RoomCode) {
		return validationError("Invalid room code")
	}
	if !validPrompt(msg.Prompt) {
		return validationError("Invalid prompt")
	}
	return nil
}

func validateSubmitAnswer(msg ClientMessage) *gameError {
	if !validRoomCode(msg.RoomCode) {
		return validationError("Invalid room code")
	}
	if !validAnswer(msg.Answer) {
		return validationError("Invalid answer")
	}
	return nil
}

func validateSubmitGuesses(msg ClientMessage) *gameError {
	if !validRoomCode(msg.RoomCode) {
		return validationError("Invalid room code")
	}
	if msg.PromptIndex == nil {
		return validationError("Invalid prompt index")
	}
	if !validGuesses(msg.Guesses) {
		return validationError("Invalid guesses")
	}
	return nil
}

func validateRoomCodeOnly(msg ClientMessage) *gameError {
	if !validRoomCode(msg.RoomCode) {
		return validationError("Invalid room code")
	}
	return nil
}
