// Package chat covers everything a Play-phase connection needs for text:
// the JSON chat component sent to clients (spec.md §3 "A message carries
// ..."), and the signed chat session a player's login carries so the core
// can validate signed chat packets (spec.md §3 "Chat session").
package chat

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session is the per-player signed chat session, carried on PlayerData in
// pkg/entity.
type Session struct {
	SessionUUID        uuid.UUID
	ExpiresAt          time.Time
	PublicKeyDER       []byte
	PublicKeySignature []byte
}

// SignedMessage is one chat message as the client submits it.
type SignedMessage struct {
	Text               string
	Timestamp          time.Time
	Salt               int64
	Signature          []byte
	PreviousSignatures [][]byte
}

// Message is a Minecraft JSON chat component. Only the flat-text subset
// this core emits (player chat, system feedback, join/leave notices) is
// modeled; nested click/hover events are outside SPEC_FULL.md's scope.
type Message struct {
	Text          string    `json:"text"`
	Color         string    `json:"color,omitempty"`
	Bold          bool      `json:"bold,omitempty"`
	Italic        bool      `json:"italic,omitempty"`
	Underlined    bool      `json:"underlined,omitempty"`
	Strikethrough bool      `json:"strikethrough,omitempty"`
	Obfuscated    bool      `json:"obfuscated,omitempty"`
	Extra         []Message `json:"extra,omitempty"`
}

// String renders the component as the JSON text Minecraft's chat packets
// carry.
func (m Message) String() string {
	b, _ := json.Marshal(m)
	return string(b)
}

// Text builds a plain, uncolored component.
func Text(text string) Message {
	return Message{Text: text}
}

// Colored builds a single-color component.
func Colored(text, color string) Message {
	return Message{Text: text, Color: color}
}

// System builds the flat gray component used for command feedback and
// join/leave notices, distinguishing server-originated text from a
// player's own colored chat line.
func System(text string) Message {
	return Colored(text, "gray")
}

// Translatef stitches a format string together with component arguments as
// Extra children. There is no client-side translation catalogue in scope
// (spec.md "Out of scope: ... the translation catalogue"), so format is
// rendered as literal text with args appended, not looked up by key.
func Translatef(format string, args ...Message) Message {
	msg := Message{Text: format}
	if len(args) > 0 {
		msg.Extra = args
	}
	return msg
}

// JoinMessage is the "<name> joined the game" notice broadcast when a
// player reaches Play (spec.md §4.9 join sequence, §7).
func JoinMessage(name string) Message {
	return Translatef("", Text(name), Text(" joined the game"))
}

// LeaveMessage is the "<name> left the game" notice broadcast on
// disconnect.
func LeaveMessage(name string) Message {
	return Translatef("", Text(name), Text(" left the game"))
}
