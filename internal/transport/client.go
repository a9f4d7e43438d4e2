package transport

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"genniabot/internal/engine"
	"genniabot/internal/game"
	"genniabot/internal/storage"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	pingPeriod            = 54 * time.Second
	sendTimeout           = time.Second
	DefaultReconnectDelay = 5 * time.Second
)

// BotState represents the current state of a bot
type BotState int

const (
	BotIdle BotState = iota
	BotInLobby
	BotInGame
	BotDisconnected
)

func (s BotState) String() string {
	switch s {
	case BotIdle:
		return "IDLE"
	case BotInLobby:
		return "IN_LOBBY"
	case BotInGame:
		return "IN_GAME"
	case BotDisconnected:
		return "DISCONNECTED"
	default:
		return "UNKNOWN"
	}
}

// Archive receives every game the bot finishes.
type Archive interface {
	SaveGame(g *storage.Game) error
}

// Bot is one player connected to a room.
type Bot struct {
	ID        string
	Username  string
	RoomID    string
	ServerURL string

	Policy         *engine.Policy
	Archive        Archive
	ReconnectDelay time.Duration

	PlayerID    string
	Color       game.Color
	hasColor    bool
	State       BotState
	Session     *engine.Session
	GamesPlayed int

	ws    *websocket.Conn
	send  chan []byte
	done  chan struct{}
	once  sync.Once
	saves sync.WaitGroup

	mu sync.RWMutex
}

// Status is a point-in-time view of a bot.
type Status struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	State    string `json:"state"`
	Color    *int   `json:"color,omitempty"`
	Turn     int    `json:"turn,omitempty"`
	Queued   int    `json:"queued,omitempty"`
	Games    int    `json:"games"`
}

// NewBot creates a bot that will join roomID on serverURL as username.
func NewBot(serverURL, roomID, username string, policy *engine.Policy, archive Archive) *Bot {
	return &Bot{
		ID:             uuid.New().String(),
		Username:       username,
		RoomID:         roomID,
		ServerURL:      serverURL,
		Policy:         policy,
		Archive:        archive,
		ReconnectDelay: DefaultReconnectDelay,
		State:          BotDisconnected,
		send:           make(chan []byte, 256),
		done:           make(chan struct{}),
	}
}

// Connect dials the room's Socket.IO endpoint.
func (b *Bot) Connect() error {
	endpoint, err := EndpointURL(b.ServerURL, b.RoomID, b.Username)
	if err != nil {
		return err
	}
	ws, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", endpoint, err)
	}

	b.mu.Lock()
	b.ws = ws
	b.State = BotIdle
	b.mu.Unlock()

	log.Printf("[Bot %s] Connected to %s (room %s)", b.Username, b.ServerURL, b.RoomID)
	return nil
}

// Run processes server packets until Disconnect is called or a reconnect
// attempt fails.
func (b *Bot) Run() {
	defer b.Disconnect()

	for {
		b.mu.RLock()
		ws := b.ws
		b.mu.RUnlock()
		if ws == nil {
			return
		}

		err := b.serve(ws)
		if b.closing() {
			log.Printf("[Bot %s] Shutting down", b.Username)
			return
		}
		log.Printf("[Bot %s] Read error: %v", b.Username, err)
		b.finishGame(storage.ResultDisconnected, "", "")

		if !b.reconnect() {
			return
		}
	}
}

func (b *Bot) closing() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

// serve reads packets from one connection until it fails.
func (b *Bot) serve(ws *websocket.Conn) error {
	stop := make(chan struct{})
	defer close(stop)
	go b.writePump(ws, stop)

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return err
		}
		if err := b.handleFrame(data); err != nil {
			if errors.Is(err, ErrClosed) {
				return err
			}
			log.Printf("[Bot %s] Dropping packet: %v", b.Username, err)
		}
	}
}

// writePump sends queued packets to one connection. A failed write closes
// the connection so serve returns.
func (b *Bot) writePump(ws *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case message := <-b.send:
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[Bot %s] Write error: %v", b.Username, err)
				return
			}

		case <-ticker.C:
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-stop:
			return

		case <-b.done:
			return
		}
	}
}

// reconnect attempts to reconnect the bot
func (b *Bot) reconnect() bool {
	log.Printf("[Bot %s] Attempting to reconnect...", b.Username)

	b.mu.Lock()
	b.State = BotDisconnected
	if b.ws != nil {
		b.ws.Close()
	}
	b.mu.Unlock()

	select {
	case <-time.After(b.ReconnectDelay):
	case <-b.done:
		return false
	}

	if n := b.drain(); n > 0 {
		log.Printf("[Bot %s] Discarded %d packets queued for the old connection", b.Username, n)
	}
	if err := b.Connect(); err != nil {
		log.Printf("[Bot %s] Reconnection failed: %v", b.Username, err)
		return false
	}

	log.Printf("[Bot %s] Reconnected successfully", b.Username)
	return true
}

// drain empties the send queue and returns how many packets it dropped.
// Packets queued for a dead connection must not reach the next one ahead of
// its handshake.
func (b *Bot) drain() int {
	n := 0
	for {
		select {
		case <-b.send:
			n++
		default:
			return n
		}
	}
}

// Disconnect closes the bot's connection. It is safe to call more than once.
func (b *Bot) Disconnect() {
	b.once.Do(func() {
		close(b.done)

		b.mu.Lock()
		if b.ws != nil {
			b.ws.Close()
		}
		b.State = BotDisconnected
		b.mu.Unlock()

		log.Printf("[Bot %s] Disconnected", b.Username)
	})
}

// Wait blocks until pending archive writes are done.
func (b *Bot) Wait() {
	b.saves.Wait()
}

func (b *Bot) Status() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()

	st := Status{
		ID:       b.ID,
		Username: b.Username,
		State:    b.State.String(),
		Games:    b.GamesPlayed,
	}
	if b.hasColor {
		c := int(b.Color)
		st.Color = &c
	}
	if b.Session != nil {
		st.Turn = b.Session.Turn()
		st.Queued = b.Session.Queue.Len()
	}
	return st
}

func (b *Bot) handleFrame(data []byte) error {
	f, err := decodeFrame(data)
	if err != nil {
		return err
	}

	switch f.kind {
	case frameOpen:
		b.sendMessage(connectPacket())
	case framePing:
		b.sendMessage(pongPacket())
	case frameConnect:
		log.Printf("[Bot %s] Joined namespace, requesting room %s", b.Username, b.RoomID)
		b.emit("get_room_info")
	case frameConnectError:
		return fmt.Errorf("%w: connect refused: %s", ErrClosed, f.payload)
	case frameClose, frameDisconnect:
		return ErrClosed
	case frameEvent:
		b.handleEvent(f.event)
	}
	return nil
}

// handleEvent processes events from the server
func (b *Bot) handleEvent(ev Event) {
	var err error
	switch ev.Name {
	case "set_player_id":
		err = b.handleSetPlayerID(ev)
	case "update_room":
		err = b.handleUpdateRoom(ev)
	case "error":
		err = b.handleError(ev)
	case "game_started":
		err = b.handleGameStarted(ev)
	case "game_update":
		err = b.handleGameUpdate(ev)
	case "game_over":
		err = b.handleGameOver(ev)
	case "game_ended":
		err = b.handleGameEnded(ev)
	default:
		// Ignore other events (chat, room_message, etc.)
	}
	if err != nil {
		log.Printf("[Bot %s] %s: %v", b.Username, ev.Name, err)
	}
}

func (b *Bot) handleSetPlayerID(ev Event) error {
	var id string
	if err := ev.Arg(0, &id); err != nil {
		return err
	}
	b.mu.Lock()
	b.PlayerID = id
	b.mu.Unlock()

	log.Printf("[Bot %s] Player id %s", b.Username, id)
	return nil
}

// handleUpdateRoom keeps the bot ready to play: it votes to start, hands
// the host role to someone else and leaves spectator mode.
func (b *Bot) handleUpdateRoom(ev Event) error {
	var room Room
	if err := ev.Arg(0, &room); err != nil {
		return err
	}

	b.mu.Lock()
	me, ok := room.player(b.PlayerID)
	if ok {
		b.Color = game.Color(me.Color)
		b.hasColor = true
		if b.State == BotIdle {
			b.State = BotInLobby
		}
	}
	myID := b.PlayerID
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("player %q not listed in room %s", myID, room.ID)
	}

	if !me.ForceStart {
		b.emit("force_start")
	}
	if me.IsRoomHost && !room.GameStarted {
		for _, p := range room.Players {
			if p.ID != myID {
				log.Printf("[Bot %s] Handing host to %s", b.Username, p.Username)
				b.emit("change_host", p.ID)
				break
			}
		}
	}
	if me.Spectating {
		b.emit("set_spectating", false)
	}
	return nil
}

func (b *Bot) handleError(ev Event) error {
	var title, message string
	if err := ev.Arg(0, &title); err != nil {
		return err
	}
	if err := ev.Arg(1, &message); err != nil {
		return err
	}
	log.Printf("[Bot %s] Server error: %s: %s", b.Username, title, message)
	return nil
}

func (b *Bot) handleGameStarted(ev Event) error {
	var info GameInfo
	if err := ev.Arg(0, &info); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.hasColor {
		return errors.New("game started before the room assigned a color")
	}
	session := engine.NewSession(b.Color, b.Policy, nil)
	if err := session.Start(info.MapWidth, info.MapHeight); err != nil {
		return err
	}
	b.Session = session
	b.State = BotInGame

	log.Printf("[Bot %s] Game %s started on a %dx%d map as color %d",
		b.Username, session.ID, info.MapWidth, info.MapHeight, b.Color)
	return nil
}

func (b *Bot) handleGameUpdate(ev Event) error {
	if len(ev.Args) < 2 {
		return fmt.Errorf("want map diff and turn, got %d arguments", len(ev.Args))
	}
	diff, err := decodeDiff(ev.Args[0])
	if err != nil {
		return err
	}
	var turn int
	if err := ev.Arg(1, &turn); err != nil {
		return err
	}
	var board []engine.Standing
	if len(ev.Args) > 2 {
		if board, err = decodeLeaderboard(ev.Args[2]); err != nil {
			return err
		}
	}

	b.mu.Lock()
	session := b.Session
	if session == nil {
		b.mu.Unlock()
		return nil
	}
	cmd, ok, err := session.HandleUpdate(diff, turn, board)
	b.mu.Unlock()

	if err != nil {
		return fmt.Errorf("skipping turn: %w", err)
	}
	if ok {
		b.emit("attack", cmd.From, cmd.To, cmd.Half)
	}
	return nil
}

func (b *Bot) handleGameOver(ev Event) error {
	var capturedBy UserData
	if err := ev.Arg(0, &capturedBy); err != nil {
		return err
	}
	log.Printf("[Bot %s] Captured by %s", b.Username, capturedBy.Username)
	b.finishGame(storage.ResultCaptured, capturedBy.Username, "")
	return nil
}

func (b *Bot) handleGameEnded(ev Event) error {
	var winner UserData
	var replayLink string
	if err := ev.Arg(0, &winner); err != nil {
		return err
	}
	if err := ev.Arg(1, &replayLink); err != nil {
		return err
	}

	b.mu.RLock()
	won := (winner.ID != "" && winner.ID == b.PlayerID) || (b.hasColor && winner.Color == int(b.Color))
	b.mu.RUnlock()

	result := storage.ResultEnded
	if won {
		result = storage.ResultWon
	}
	log.Printf("[Bot %s] Game ended, winner %s, replay %s", b.Username, winner.Username, replayLink)
	b.finishGame(result, winner.Username, replayLink)
	return nil
}

// finishGame drops the running session and archives it.
func (b *Bot) finishGame(result storage.Result, opponent, replayLink string) {
	b.mu.Lock()
	session := b.Session
	b.Session = nil
	if b.State == BotInGame {
		b.State = BotInLobby
	}
	if session != nil {
		b.GamesPlayed++
	}
	b.mu.Unlock()

	if session == nil {
		return
	}
	log.Printf("[Bot %s] Game %s finished: %s after %d turns", b.Username, session.ID, result, session.Turn())
	if b.Archive == nil {
		return
	}

	rec := &storage.Game{
		ID:         session.ID,
		RoomID:     b.RoomID,
		BotName:    b.Username,
		Color:      session.Color,
		StartedAt:  session.StartedAt,
		EndedAt:    time.Now(),
		Width:      session.Grid.Width(),
		Height:     session.Grid.Height(),
		Turns:      session.Turn(),
		Result:     result,
		Opponent:   opponent,
		ReplayLink: replayLink,
		Moves:      session.Moves(),
	}
	b.saves.Add(1)
	go func() {
		defer b.saves.Done()
		if err := b.Archive.SaveGame(rec); err != nil {
			log.Printf("[Bot %s] Error archiving game %s: %v", b.Username, rec.ID, err)
		}
	}()
}

func (b *Bot) emit(name string, args ...any) {
	data, err := EncodeEvent(name, args...)
	if err != nil {
		log.Printf("[Bot %s] Failed to encode %s: %v", b.Username, name, err)
		return
	}
	b.sendMessage(data)
}

// sendMessage queues a raw packet for the write pump
func (b *Bot) sendMessage(data []byte) {
	select {
	case b.send <- data:
	case <-b.done:
	case <-time.After(sendTimeout):
		log.Printf("[Bot %s] Send timeout", b.Username)
	}
}
