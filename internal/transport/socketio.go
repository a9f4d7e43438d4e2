package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Engine.IO v4 packet types.
const (
	eioOpen    = '0'
	eioClose   = '1'
	eioPing    = '2'
	eioPong    = '3'
	eioMessage = '4'
	eioNoop    = '6'
)

// Socket.IO v5 packet types, carried inside Engine.IO messages.
const (
	sioConnect      = '0'
	sioDisconnect   = '1'
	sioEvent        = '2'
	sioConnectError = '4'
)

var (
	ErrClosed      = errors.New("transport: connection closed")
	errBadPacket   = errors.New("transport: malformed packet")
	errUnsupported = errors.New("transport: unsupported packet")
)

type frameKind int

const (
	frameOpen frameKind = iota
	frameClose
	framePing
	framePong
	frameNoop
	frameConnect
	frameDisconnect
	frameConnectError
	frameEvent
)

// Event is a decoded Socket.IO event.
type Event struct {
	Name string
	Args []json.RawMessage
}

type frame struct {
	kind    frameKind
	event   Event
	payload []byte
}

// EndpointURL builds the WebSocket URL of the Socket.IO endpoint on server,
// passing the room and player name as handshake query parameters.
func EndpointURL(server, roomID, username string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server url %q has no host", server)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/socket.io/"
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	q.Set("roomId", roomID)
	q.Set("username", username)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// EncodeEvent frames an event emission.
func EncodeEvent(name string, args ...any) ([]byte, error) {
	payload := make([]any, 0, len(args)+1)
	payload = append(payload, name)
	payload = append(payload, args...)
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", name, err)
	}
	return append([]byte{eioMessage, sioEvent}, data...), nil
}

func connectPacket() []byte { return []byte{eioMessage, sioConnect} }
func pongPacket() []byte    { return []byte{eioPong} }

func decodeFrame(data []byte) (frame, error) {
	if len(data) == 0 {
		return frame{}, errBadPacket
	}
	rest := data[1:]
	switch data[0] {
	case eioOpen:
		return frame{kind: frameOpen, payload: rest}, nil
	case eioClose:
		return frame{kind: frameClose}, nil
	case eioPing:
		return frame{kind: framePing, payload: rest}, nil
	case eioPong:
		return frame{kind: framePong, payload: rest}, nil
	case eioNoop:
		return frame{kind: frameNoop}, nil
	case eioMessage:
		return decodeSocketPacket(rest)
	}
	return frame{}, fmt.Errorf("%w: engine type %q", errUnsupported, data[0])
}

func decodeSocketPacket(data []byte) (frame, error) {
	if len(data) == 0 {
		return frame{}, errBadPacket
	}
	kind := data[0]
	rest := skipNamespace(data[1:])
	switch kind {
	case sioConnect:
		return frame{kind: frameConnect, payload: rest}, nil
	case sioDisconnect:
		return frame{kind: frameDisconnect}, nil
	case sioConnectError:
		return frame{kind: frameConnectError, payload: rest}, nil
	case sioEvent:
		ev, err := decodeEvent(skipAckID(rest))
		if err != nil {
			return frame{}, err
		}
		return frame{kind: frameEvent, event: ev}, nil
	}
	return frame{}, fmt.Errorf("%w: socket type %q", errUnsupported, kind)
}

// skipNamespace drops a leading "/nsp," prefix.
func skipNamespace(data []byte) []byte {
	if len(data) == 0 || data[0] != '/' {
		return data
	}
	if i := bytes.IndexByte(data, ','); i >= 0 {
		return data[i+1:]
	}
	return nil
}

func skipAckID(data []byte) []byte {
	i := 0
	for i < len(data) && data[i] >= '0' && data[i] <= '9' {
		i++
	}
	return data[i:]
}

func decodeEvent(data []byte) (Event, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return Event{}, fmt.Errorf("%w: %v", errBadPacket, err)
	}
	if len(parts) == 0 {
		return Event{}, fmt.Errorf("%w: empty event", errBadPacket)
	}
	var ev Event
	if err := json.Unmarshal(parts[0], &ev.Name); err != nil {
		return Event{}, fmt.Errorf("%w: event name: %v", errBadPacket, err)
	}
	ev.Args = parts[1:]
	return ev, nil
}

// Arg decodes argument i into v. Missing arguments leave v untouched.
func (e Event) Arg(i int, v any) error {
	if i >= len(e.Args) {
		return nil
	}
	if err := json.Unmarshal(e.Args[i], v); err != nil {
		return fmt.Errorf("%s argument %d: %w", e.Name, i, err)
	}
	return nil
}
