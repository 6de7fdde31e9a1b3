/*
Copyright © 2026 toastfacek
*/

// Tryvgart prompt game
//
// Players join a shared room via a generated code. Everyone writes one short
// prompt, then each prompt is taken in turn: everyone answers it anonymously,
// everyone guesses which player wrote each answer, and correct guesses score
// a point. The host walks the room from reveal to reveal until the prompts
// run out.
//
// Round-robin phases: lobby -> prompt -> answer -> guess -> reveal, looping
// back to answer until the last prompt, then end. Phase advances are fan-in
// barriers: a phase moves on when every current player has submitted for the
// active round, measured against the live player count so a mid-round
// disconnect never wedges the room.

package main

import (
	"sort"
)

// envelope pairs an inbound message with the connection that sent it.
type envelope struct {
	from *Client
	msg  ClientMessage
}

// roomQuery lets HTTP handlers ask about room existence without touching
// coordinator-owned state.
type roomQuery struct {
	code  string
	reply chan bool
}

// Coordinator owns the room store and the connection registry. Everything it
// owns is mutated only inside run(), one event at a time, so room mutations
// never interleave and the store needs no locks.
type Coordinator struct {
	cfg   *Config
	store *RoomStore

	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	inbox      chan envelope
	queries    chan roomQuery
	done       chan struct{}
}

func newCoordinator(cfg *Config) *Coordinator {
	return &Coordinator{
		cfg:        cfg,
		store:      newRoomStore(),
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan envelope, 64),
		queries:    make(chan roomQuery),
		done:       make(chan struct{}),
	}
}

func (co *Coordinator) run() {
	for {
		select {
		case c := <-co.register:
			co.clients[c.id] = c

		case c := <-co.unregister:
			co.dropClient(c)

		case env := <-co.inbox:
			co.handle(env)

		case q := <-co.queries:
			_, ok := co.store.get(q.code)
			q.reply <- ok

		case <-co.done:
			for id, c := range co.clients {
				close(c.send)
				delete(co.clients, id)
			}
			return
		}
	}
}

// roomExists is the query-side entry point for HTTP handlers.
func (co *Coordinator) roomExists(code string) bool {
	reply := make(chan bool, 1)
	select {
	case co.queries <- roomQuery{code: code, reply: reply}:
		return <-reply
	case <-co.done:
		return false
	}
}

func (co *Coordinator) handle(env envelope) {
	c, msg := env.from, env.msg

	var err *gameError
	switch msg.Type {
	case evtCreateRoom:
		err = co.handleCreateRoom(c, msg)
	case evtJoinRoom:
		err = co.handleJoinRoom(c, msg)
	case evtStartGame:
		err = co.handleStartGame(c, msg)
	case evtStartAnswerPhase:
		err = co.handleStartAnswerPhase(c, msg)
	case evtSubmitPrompt:
		err = co.handleSubmitPrompt(c, msg)
	case evtSubmitAnswer:
		err = co.handleSubmitAnswer(c, msg)
	case evtSubmitGuesses:
		err = co.handleSubmitGuesses(c, msg)
	case evtNextPrompt:
		err = co.handleNextPrompt(c, msg)
	case evtResetGame:
		err = co.handleResetGame(c, msg)
	case evtCloseRoom:
		err = co.handleCloseRoom(c, msg)
	default:
		logf(co.cfg, "GAMES: Ignoring unknown event %q from %s", msg.Type, c.id)
		return
	}

	if err != nil {
		logf(co.cfg, "GAMES: Rejected %s from %s (%s): %s", msg.Type, c.id, err.kind, err.msg)
		co.sendTo(c, ErrorMessage{Type: evtError, Message: err.msg})
	}
}

// sendTo queues a message for one client. A client whose send buffer is full
// is considered gone: its channel is closed, which unwinds its write pump and
// in turn its read pump, so the normal unregister path removes the player.
func (co *Coordinator) sendTo(c *Client, msg any) {
	if _, ok := co.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- msg:
	default:
		delete(co.clients, c.id)
		close(c.send)
	}
}

// broadcast delivers to every current member of the room, including the
// sender, so all clients converge on the same view.
func (co *Coordinator) broadcast(room *Room, msg any) {
	co.broadcastPlayers(room.Players, msg)
}

func (co *Coordinator) broadcastPlayers(players []Player, msg any) {
	// Snapshot ids first: sendTo may drop a client, and the removal sweep
	// that follows unregistration must not race this iteration.
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	for _, id := range ids {
		if c, ok := co.clients[id]; ok {
			co.sendTo(c, msg)
		}
	}
}

// dropClient runs on unregister. The removal sweep happens here and only
// here, so broadcasts never mutate room membership mid-iteration.
func (co *Coordinator) dropClient(c *Client) {
	if _, ok := co.clients[c.id]; ok {
		delete(co.clients, c.id)
		close(c.send)
	}

	for _, removal := range co.store.removePlayer(c.id) {
		room := removal.room
		logf(co.cfg, "ROOMS: Player %q left %s", removal.player.Name, room.Code)

		co.broadcast(room, PlayerLeftMessage{Type: evtPlayerLeft, PlayerID: removal.player.ID})

		switch {
		case removal.wasHost:
			logf(co.cfg, "ROOMS: Host left, closing %s", room.Code)
			co.broadcast(room, RoomClosedMessage{Type: evtRoomClosed, Reason: "Host left the game"})
		case removal.deleted:
			logf(co.cfg, "ROOMS: Room %s emptied, removed", room.Code)
		default:
			// The departed player no longer counts toward the active
			// barrier; it may be satisfied now.
			co.checkBarrier(room)
		}
	}
}

func (co *Coordinator) setPhase(room *Room, phase Phase) {
	co.store.setPhase(room.Code, phase)
	co.broadcast(room, GamePhaseChangedMessage{Type: evtGamePhaseChanged, Phase: phase})
}

func (co *Coordinator) handleCreateRoom(c *Client, msg ClientMessage) *gameError {
	if err := validateCreateRoom(msg); err != nil {
		return err
	}

	room := co.store.createRoom(c.id, msg.PlayerName, msg.PlayerEmoji)
	logf(co.cfg, "ROOMS: Player %q created %s", msg.PlayerName, room.Code)

	co.sendTo(c, RoomCreatedMessage{Type: evtRoomCreated, RoomCode: room.Code, Room: roomView(room)})
	return nil
}

func (co *Coordinator) handleJoinRoom(c *Client, msg ClientMessage) *gameError {
	if err := validateJoinRoom(msg); err != nil {
		return err
	}

	room, err := co.store.addPlayer(msg.RoomCode, c.id, msg.PlayerName, msg.PlayerEmoji)
	if err != nil {
		return err
	}
	logf(co.cfg, "ROOMS: Player %q joined %s", msg.PlayerName, room.Code)

	player, _ := room.member(c.id)
	co.sendTo(c, RoomJoinedMessage{Type: evtRoomJoined, Room: roomView(room)})
	co.broadcast(room, PlayerJoinedMessage{Type: evtPlayerJoined, Player: player})
	return nil
}

// requireRoom resolves the room and, when hostOnly is set, checks that the
// requester is its host. Shared preamble of every room-scoped handler.
func (co *Coordinator) requireRoom(c *Client, code string, hostOnly bool) (*Room, *gameError) {
	room, ok := co.store.get(code)
	if !ok {
		return nil, notFoundError("Room not found")
	}
	if hostOnly && !co.store.isHost(code, c.id) {
		return nil, authorizationError("Only the host can perform this action")
	}
	return room, nil
}

func (co *Coordinator) handleStartGame(c *Client, msg ClientMessage) *gameError {
	if err := validateRoomCodeOnly(msg); err != nil {
		return err
	}
	room, err := co.requireRoom(c, msg.RoomCode, true)
	if err != nil {
		return err
	}

	switch room.Phase {
	case PhaseLobby:
		logf(co.cfg, "GAMES: Game started in %s with %d players", room.Code, len(room.Players))
		co.setPhase(room, PhasePrompt)
		co.broadcast(room, GameStartedMessage{Type: evtGameStarted})
		return nil
	case PhasePrompt:
		// Repeated host trigger: re-send, mutate nothing.
		co.broadcast(room, GameStartedMessage{Type: evtGameStarted})
		return nil
	default:
		return stateConflictError("Game already in progress")
	}
}

// handleStartAnswerPhase exists for client resilience: a host whose view
// remounts can ask for the current answer round again. It never advances the
// phase itself; the prompt barrier does that.
func (co *Coordinator) handleStartAnswerPhase(c *Client, msg ClientMessage) *gameError {
	if err := validateRoomCodeOnly(msg); err != nil {
		return err
	}
	room, err := co.requireRoom(c, msg.RoomCode, true)
	if err != nil {
		return err
	}

	if room.Phase != PhaseAnswer {
		return stateConflictError("No answer round in progress")
	}
	co.broadcast(room, AnswerPhaseStartedMessage{
		Type:        evtAnswerPhaseStarted,
		Prompt:      room.Prompts[room.CurrentPromptIndex],
		PromptIndex: room.CurrentPromptIndex,
	})
	return nil
}

func (co *Coordinator) handleSubmitPrompt(c *Client, msg ClientMessage) *gameError {
	if err := validateSubmitPrompt(msg); err != nil {
		return err
	}
	room, err := co.requireRoom(c, msg.RoomCode, false)
	if err != nil {
		return err
	}

	if _, ok := room.member(c.id); !ok {
		return stateConflictError("You are not in this room")
	}
	if room.Phase != PhasePrompt {
		return stateConflictError("Prompts are not being collected right now")
	}
	if room.PromptAuthors.Contains(c.id) {
		return stateConflictError("You already submitted a prompt")
	}

	co.store.submitPrompt(room.Code, c.id, msg.Prompt)
	co.broadcast(room, PromptSubmittedMessage{Type: evtPromptSubmitted, PlayerID: c.id})

	co.checkBarrier(room)
	return nil
}

func (co *Coordinator) handleSubmitAnswer(c *Client, msg ClientMessage) *gameError {
	if err := validateSubmitAnswer(msg); err != nil {
		return err
	}
	room, err := co.requireRoom(c, msg.RoomCode, false)
	if err != nil {
		return err
	}

	if _, ok := room.member(c.id); !ok {
		return stateConflictError("You are not in this room")
	}
	if room.Phase != PhaseAnswer {
		return stateConflictError("Answers are not being collected right now")
	}

	// Resubmission before the barrier closes just replaces the old answer.
	co.store.submitAnswer(room.Code, c.id, msg.Answer)
	co.broadcast(room, PlayerSubmittedAnswerMessage{Type: evtPlayerSubmittedAnswer, PlayerID: c.id})

	co.checkBarrier(room)
	return nil
}

func (co *Coordinator) handleSubmitGuesses(c *Client, msg ClientMessage) *gameError {
	if err := validateSubmitGuesses(msg); err != nil {
		return err
	}
	room, err := co.requireRoom(c, msg.RoomCode, false)
	if err != nil {
		return err
	}

	if _, ok := room.member(c.id); !ok {
		return stateConflictError("You are not in this room")
	}
	if room.Phase != PhaseGuess {
		return stateConflictError("Guesses are not being collected right now")
	}
	if *msg.PromptIndex != room.CurrentPromptIndex {
		return stateConflictError("Guesses are for a different round")
	}
	// One guess per other player's answer, never your own.
	if len(msg.Guesses) != len(room.Players)-1 {
		return validationError("You must guess every other answer exactly once")
	}

	co.store.submitGuesses(room.Code, c.id, msg.Guesses)
	co.broadcast(room, GuessSubmittedMessage{Type: evtGuessSubmitted, PlayerID: c.id})

	co.checkBarrier(room)
	return nil
}

func (co *Coordinator) handleNextPrompt(c *Client, msg ClientMessage) *gameError {
	if err := validateRoomCodeOnly(msg); err != nil {
		return err
	}
	room, err := co.requireRoom(c, msg.RoomCode, true)
	if err != nil {
		return err
	}

	switch room.Phase {
	case PhaseAnswer:
		// Repeated trigger after the round already advanced: resync only.
		co.broadcast(room, AnswerPhaseStartedMessage{
			Type:        evtAnswerPhaseStarted,
			Prompt:      room.Prompts[room.CurrentPromptIndex],
			PromptIndex: room.CurrentPromptIndex,
		})
		return nil
	case PhaseReveal:
	default:
		return stateConflictError("No reveal in progress")
	}

	if room.CurrentPromptIndex >= len(room.Prompts)-1 {
		logf(co.cfg, "GAMES: Game over in %s", room.Code)
		co.setPhase(room, PhaseEnd)
		co.broadcast(room, GameEndedMessage{Type: evtGameEnded, FinalScores: co.scoreViews(room)})
		return nil
	}

	co.store.advancePrompt(room.Code)
	co.setPhase(room, PhaseAnswer)
	co.broadcast(room, AnswerPhaseStartedMessage{
		Type:        evtAnswerPhaseStarted,
		Prompt:      room.Prompts[room.CurrentPromptIndex],
		PromptIndex: room.CurrentPromptIndex,
	})
	return nil
}

func (co *Coordinator) handleResetGame(c *Client, msg ClientMessage) *gameError {
	if err := validateRoomCodeOnly(msg); err != nil {
		return err
	}
	room, err := co.requireRoom(c, msg.RoomCode, true)
	if err != nil {
		return err
	}

	co.store.resetRoom(room.Code)
	logf(co.cfg, "GAMES: Game reset in %s", room.Code)

	co.broadcast(room, GameResetMessage{Type: evtGameReset})
	co.broadcast(room, GamePhaseChangedMessage{Type: evtGamePhaseChanged, Phase: PhaseLobby})
	return nil
}

func (co *Coordinator) handleCloseRoom(c *Client, msg ClientMessage) *gameError {
	if err := validateRoomCodeOnly(msg); err != nil {
		return err
	}
	room, err := co.requireRoom(c, msg.RoomCode, true)
	if err != nil {
		return err
	}

	logf(co.cfg, "ROOMS: Host closed %s", room.Code)
	co.broadcast(room, RoomClosedMessage{Type: evtRoomClosed, Reason: "Host ended the game"})
	co.store.closeRoom(room.Code)
	return nil
}

// checkBarrier advances the phase when every current player has submitted for
// the active collection. Stale submissions from departed players still count
// (>=, not ==), and the denominator is always the live player count.
func (co *Coordinator) checkBarrier(room *Room) {
	if len(room.Players) == 0 {
		return
	}

	switch room.Phase {
	case PhasePrompt:
		if len(room.Prompts) >= len(room.Players) {
			co.finishPromptPhase(room)
		}
	case PhaseAnswer:
		if len(room.Answers[room.CurrentPromptIndex]) >= len(room.Players) {
			co.finishAnswerPhase(room)
		}
	case PhaseGuess:
		if len(room.Guesses[room.CurrentPromptIndex]) >= len(room.Players) {
			co.finishGuessPhase(room)
		}
	}
}

func (co *Coordinator) finishPromptPhase(room *Room) {
	co.broadcast(room, AllPromptsSubmittedMessage{Type: evtAllPromptsSubmitted})
	co.setPhase(room, PhaseAnswer)
	co.broadcast(room, AnswerPhaseStartedMessage{
		Type:        evtAnswerPhaseStarted,
		Prompt:      room.Prompts[room.CurrentPromptIndex],
		PromptIndex: room.CurrentPromptIndex,
	})
}

func (co *Coordinator) finishAnswerPhase(room *Room) {
	prompts := make([]string, len(room.Prompts))
	copy(prompts, room.Prompts)

	co.setPhase(room, PhaseGuess)
	co.broadcast(room, GuessPhaseStartedMessage{
		Type:               evtGuessPhaseStarted,
		Prompts:            prompts,
		Answers:            co.answerViews(room, false),
		CurrentPromptIndex: room.CurrentPromptIndex,
	})
}

func (co *Coordinator) finishGuessPhase(room *Room) {
	co.applyScores(room)

	prompts := make([]string, len(room.Prompts))
	copy(prompts, room.Prompts)

	co.setPhase(room, PhaseReveal)
	co.broadcast(room, RevealAnswersMessage{
		Type:        evtRevealAnswers,
		PromptIndex: room.CurrentPromptIndex,
		Prompts:     prompts,
		Answers:     co.answerViews(room, true),
		Guesses:     co.guessViews(room),
		Scores:      co.scoreViews(room),
	})
}

// applyScores runs exactly once per round, when the guess barrier closes.
// One point per correct (answerOwner == guessedPlayer) pair; self-guesses
// never score even if a client smuggles one in.
func (co *Coordinator) applyScores(room *Room) {
	for guesser, guessMap := range room.Guesses[room.CurrentPromptIndex] {
		if _, ok := room.Scores[guesser]; !ok {
			continue // guesser has since left the room
		}
		for owner, guessed := range guessMap {
			if owner == guesser {
				continue
			}
			if guessed == owner {
				room.Scores[guesser]++
			}
		}
	}
}

// orderedRoundIDs returns the keys of a per-round submission map as an
// ordered list: current players first in join order, then departed submitters
// sorted by id so the output stays deterministic.
func orderedRoundIDs[T any](room *Room, round map[string]T) []string {
	ids := make([]string, 0, len(round))
	seen := make(map[string]bool, len(round))

	for _, p := range room.Players {
		if _, ok := round[p.ID]; ok {
			ids = append(ids, p.ID)
			seen[p.ID] = true
		}
	}

	var departed []string
	for id := range round {
		if !seen[id] {
			departed = append(departed, id)
		}
	}
	sort.Strings(departed)

	return append(ids, departed...)
}

func (co *Coordinator) answerViews(room *Room, withAuthors bool) []AnswerView {
	answers := room.Answers[room.CurrentPromptIndex]
	ids := orderedRoundIDs(room, answers)

	views := make([]AnswerView, 0, len(ids))
	for _, id := range ids {
		view := AnswerView{PlayerID: id, Text: answers[id]}
		if withAuthors {
			if author, ok := room.member(id); ok {
				view.AuthorName = author.Name
				view.AuthorEmoji = author.Emoji
			}
		}
		views = append(views, view)
	}
	return views
}

func (co *Coordinator) guessViews(room *Room) []GuessView {
	guesses := room.Guesses[room.CurrentPromptIndex]
	ids := orderedRoundIDs(room, guesses)

	views := make([]GuessView, 0, len(ids))
	for _, id := range ids {
		views = append(views, GuessView{PlayerID: id, Guesses: guesses[id]})
	}
	return views
}

// scoreViews projects scores for broadcast, sorted by descending score.
// Building from join order first keeps ties in join order after the stable
// sort.
func (co *Coordinator) scoreViews(room *Room) []ScoreView {
	views := make([]ScoreView, 0, len(room.Players))
	for _, p := range room.Players {
		views = append(views, ScoreView{
			PlayerID:    p.ID,
			PlayerName:  p.Name,
			PlayerEmoji: p.Emoji,
			Score:       room.Scores[p.ID],
		})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Score > views[j].Score
	})
	return views
}
