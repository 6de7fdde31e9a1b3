/*
Copyright © 2026 toastfacek
*/

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRoomCode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"six characters", "ABC234", true},
		{"empty", "", false},
		{"too short", "ABC", false},
		{"too long", "ABC2345", false},
		{"six runes non-ascii", "ÅBCDEF", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validRoomCode(tt.code))
		})
	}
}

func TestValidPlayerName(t *testing.T) {
	tests := []struct {
		name   string
		player string
		want   bool
	}{
		{"typical", "alice", true},
		{"minimum", "ab", true},
		{"maximum", strings.Repeat("a", 20), true},
		{"single char", "a", false},
		{"empty", "", false},
		{"too long", strings.Repeat("a", 21), false},
		{"multibyte runes count once", strings.Repeat("ü", 20), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validPlayerName(tt.player))
		})
	}
}

func TestValidPlayerEmoji(t *testing.T) {
	tests := []struct {
		name  string
		emoji string
		want  bool
	}{
		{"simple emoji", "😀", true},
		{"pictograph", "🚀", true},
		{"dingbat", "✨", true},
		{"flag pair", "🇩🇪", true},
		{"keycap sequence", "1️⃣", true},
		{"empty", "", false},
		{"plain text", "hello", false},
		{"too long", "😀😀😀😀😀😀😀😀😀", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validPlayerEmoji(tt.emoji))
		})
	}
}

func TestValidPromptAndAnswer(t *testing.T) {
	assert.True(t, validPrompt("why?"))
	assert.True(t, validPrompt(strings.Repeat("p", 200)))
	assert.False(t, validPrompt(""))
	assert.False(t, validPrompt(strings.Repeat("p", 201)))

	assert.True(t, validAnswer("because"))
	assert.True(t, validAnswer(strings.Repeat("a", 500)))
	assert.False(t, validAnswer(""))
	assert.False(t, validAnswer(strings.Repeat("a", 501)))
}

func TestValidGuesses(t *testing.T) {
	assert.True(t, validGuesses(map[string]string{"p1": "p2"}))
	assert.True(t, validGuesses(map[string]string{}))
	assert.False(t, validGuesses(nil))
	assert.False(t, validGuesses(map[string]string{"": "p2"}))
	assert.False(t, validGuesses(map[string]string{"p1": ""}))
}

func TestValidateJoinRoomMessages(t *testing.T) {
	valid := ClientMessage{RoomCode: "ABC234", PlayerName: "alice", PlayerEmoji: "😀"}
	assert.Nil(t, validateJoinRoom(valid))

	badCode := valid
	badCode.RoomCode = "nope"
	err := validateJoinRoom(badCode)
	if assert.NotNil(t, err) {
		assert.Equal(t, errValidation, err.kind)
	}

	badName := valid
	badName.PlayerName = "x"
	assert.NotNil(t, validateJoinRoom(badName))

	badEmoji := valid
	badEmoji.PlayerEmoji = "notanemoji"
	assert.NotNil(t, validateJoinRoom(badEmoji))
}

func TestValidateSubmitGuessesRequiresIndex(t *testing.T) {
	idx := 0
	valid := ClientMessage{RoomCode: "ABC234", PromptIndex: &idx, Guesses: map[string]string{"a": "b"}}
	assert.Nil(t, validateSubmitGuesses(valid))

	missing := valid
	missing.PromptIndex = nil
	assert.NotNil(t, validateSubmitGuesses(missing))

	noGuesses := valid
	noGuesses.Guesses = nil
	assert.NotNil(t, validateSubmitGuesses(noGuesses))
}
