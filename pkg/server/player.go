package server

import (
	"bytes"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ChickenIQ/vanillago/pkg/chat"
	"github.com/ChickenIQ/vanillago/pkg/command"
	"github.com/ChickenIQ/vanillago/pkg/entity"
	"github.com/ChickenIQ/vanillago/pkg/inventory"
	"github.com/ChickenIQ/vanillago/pkg/proto"
	"github.com/ChickenIQ/vanillago/pkg/session"
	"github.com/ChickenIQ/vanillago/pkg/view"
	"github.com/ChickenIQ/vanillago/pkg/voxel"
)

// Play-phase packet ids this orchestrator sends/expects. Grounded on the
// teacher's packet id table in server/server.go and server/packet_handler.go
// (handleKeepAlive/handlePlayerPositionAndLook/handleChatMessage), carried
// over id-for-id where the teacher already used the matching name.
const (
	idPlayKeepAliveClientbound = 0x26
	idPlayKeepAliveServerbound = 0x18
	idPlaySyncPlayerPosition   = 0x40
	idPlayTeleportConfirm      = 0x00
	idPlaySetCenterChunk       = 0x54
	idPlayLevelChunkWithLight  = 0x27
	idPlayCommands             = 0x11
	idPlaySystemChat           = 0x6C
	idPlayChatMessageServer    = 0x06
	idPlayChatCommandServer    = 0x04
	idPlayGameEvent            = 0x22
	idPlayUpdateTime           = 0x6F
	idPlaySetBorderSize        = 0x55
)

// Game-event sub-event ids carried in a game_event packet's leading byte
// (original_source/src/networking/clientbound_packets.h's GameEvent enum),
// used for weather notifications (spec.md §4.11 "advance weather state") and
// the /gamemode command's per-player notice.
const (
	gameEventEndRaining         = 1
	gameEventBeginRaining       = 2
	gameEventChangeGameMode     = 3
	gameEventRainLevelChange    = 7
	gameEventThunderLevelChange = 8
)

const keepAliveInterval = 15 * time.Second

// PlayerConnection is the per-player state handed to session.Connection's
// PlayHandler once the phase machine reaches Play (spec.md §4.9/§4.13). It
// implements broadcast.Client and view.Player so it can be registered
// directly into the shared indexes.
type PlayerConnection struct {
	world *WorldContext
	conn  *session.Connection

	entityID int32
	id       uuid.UUID
	name     string

	inventory *inventory.Inventory
	view      *view.Subscription

	x, y, z float64

	closed chan struct{}
}

func (wc *WorldContext) newPlayerConnection(conn *session.Connection, identity session.LoginIdentity) *PlayerConnection {
	e := entity.NewPlayer(identity.Name)
	e.UUID = identity.UUID
	e.Player.TexturesValue = identity.TexturesValue
	e.Player.TexturesSig = identity.TexturesSig
	id := wc.Entities.Add(e)

	return &PlayerConnection{
		world:     wc,
		conn:      conn,
		entityID:  id,
		id:        identity.UUID,
		name:      identity.Name,
		inventory: inventory.New(),
		view:      view.NewSubscription(),
		y:         float64(wc.Config.World.SpawnY),
		closed:    make(chan struct{}),
	}
}

// UUID implements broadcast.Client.
func (p *PlayerConnection) UUID() uuid.UUID { return p.id }

// Send implements broadcast.Client by writing a raw (id, payload) framed
// packet, where packet is a VarInt id followed by the payload bytes.
func (p *PlayerConnection) Send(packet []byte) error {
	if len(packet) == 0 {
		return nil
	}
	r := bytes.NewReader(packet)
	id, n, err := proto.ReadVarInt(r)
	if err != nil {
		return err
	}
	return p.sendPacket(id, packet[n:])
}

func (p *PlayerConnection) sendPacket(id int32, payload []byte) error {
	return p.conn.Wire.WritePacket(&proto.Packet{ID: id, Payload: payload})
}

// SendChunk implements view.Player (spec.md §4.10 step 4's chunk delivery):
// it writes the chunk's (x, z, section data) as the chunk-data packet body.
func (p *PlayerConnection) SendChunk(c *voxel.Chunk) {
	var payload bytes.Buffer
	proto.WriteInt32(&payload, c.X)
	proto.WriteInt32(&payload, c.Z)
	c.EncodeSections(&payload)
	p.sendPacket(idPlayLevelChunkWithLight, payload.Bytes())
}

// SendCenterChunk implements view.Player.
func (p *PlayerConnection) SendCenterChunk(cx, cz int32) {
	var payload bytes.Buffer
	proto.WriteVarInt(&payload, cx)
	proto.WriteVarInt(&payload, cz)
	p.sendPacket(idPlaySetCenterChunk, payload.Bytes())
}

// EnterPlay implements session.PlayHandler (spec.md §4.9 "Play phase"): it
// runs the join sequence, starts the keep-alive ticker, and reads packets
// until the connection closes, grounded on the teacher's post-login section
// of handleConnection (server/server.go).
func (wc *WorldContext) EnterPlay(conn *session.Connection, identity session.LoginIdentity) error {
	p := wc.newPlayerConnection(conn, identity)
	defer wc.disconnectPlayer(p)

	if err := p.sendJoinSequence(); err != nil {
		return err
	}

	wc.Broadcast.AddClient(p)
	go p.keepAliveLoop()

	return p.readLoop()
}

func (p *PlayerConnection) sendJoinSequence() error {
	if err := p.teleportTo(p.x, p.y, p.z); err != nil {
		return err
	}

	if graph := p.world.Commands; graph != nil {
		var cmdBuf bytes.Buffer
		if err := command.Serialize(&cmdBuf, graph); err == nil {
			p.sendPacket(idPlayCommands, cmdBuf.Bytes())
		}
	}

	cx, cz := int32(p.x)>>4, int32(p.z)>>4
	p.world.View.InitialJoin(p, p.view, cx, cz, p.world.Config.Server.ViewDistance)

	p.world.broadcastChat(chat.JoinMessage(p.name), nil)
	return nil
}

// teleportTo moves p to (x, y, z), allocating a fresh teleport id and
// awaiting its confirm before movement packets are trusted again (spec.md
// §4.9 "allocates a fresh teleport id..."). Used both by the join sequence
// (teleporting to spawn) and by the /tp command.
func (p *PlayerConnection) teleportTo(x, y, z float64) error {
	teleportID := atomic.AddInt32(&p.world.nextTeleportID, 1)
	if err := p.conn.Phase.BeginAwaitingTeleport(teleportID, p.world.Tick.WorldAge()); err != nil {
		return err
	}
	p.x, p.y, p.z = x, y, z

	var payload bytes.Buffer
	proto.WriteFloat64(&payload, x)
	proto.WriteFloat64(&payload, y)
	proto.WriteFloat64(&payload, z)
	proto.WriteFloat32(&payload, 0)
	proto.WriteFloat32(&payload, 0)
	proto.WriteByte(&payload, 0)
	proto.WriteVarInt(&payload, teleportID)
	return p.sendPacket(idPlaySyncPlayerPosition, payload.Bytes())
}

func (p *PlayerConnection) keepAliveLoop() {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.closed:
			return
		case <-ticker.C:
			id := atomic.AddInt64(&p.world.nextKeepAliveID, 1)
			var payload bytes.Buffer
			proto.WriteInt64(&payload, id)
			if err := p.sendPacket(idPlayKeepAliveClientbound, payload.Bytes()); err != nil {
				return
			}
		}
	}
}

// readLoop consumes play-phase packets until the connection errors or
// closes. Only the packets the core's invariants depend on (teleport
// confirm, keep alive, chat) are handled; everything else is drained and
// ignored, matching the session/world-delivery core's scope.
func (p *PlayerConnection) readLoop() error {
	for {
		pkt, err := p.conn.Wire.ReadPacket()
		if err != nil {
			return err
		}
		switch pkt.ID {
		case idPlayTeleportConfirm:
			if !p.conn.Phase.DropIfAwaiting() {
				continue
			}
			r := bytes.NewReader(pkt.Payload)
			id, _, err := proto.ReadVarInt(r)
			if err != nil {
				return err
			}
			if err := p.conn.Phase.ConfirmTeleport(id); err != nil && err != session.ErrUnexpectedPacket {
				return err
			}
		case idPlayKeepAliveServerbound:
			// liveness only; the echoed id is not compared, so a
			// mismatched id is neither logged nor terminal.
		case idPlayChatMessageServer:
			r := bytes.NewReader(pkt.Payload)
			text, err := proto.ReadString(r)
			if err != nil {
				continue
			}
			p.world.broadcastChat(chat.Colored(p.name+": "+text, "white"), nil)
		case idPlayChatCommandServer:
			r := bytes.NewReader(pkt.Payload)
			text, err := proto.ReadString(r)
			if err != nil {
				continue
			}
			p.runCommand(text)
		}
	}
}

// runCommand parses and executes a command line entered by this player
// (spec.md §4.6 "Parse-and-execute"), reporting feedback back to them as a
// system chat line. A parse/handler error is already reported through
// ctx.SendOutput by pkg/command and is never terminal for the connection.
func (p *PlayerConnection) runCommand(line string) {
	ctx := &command.ExecContext{
		SendOutput: p.sendCommandFeedback,
		Data:       &CommandContext{World: p.world, Player: p},
	}
	command.Parse(p.world.Commands, ctx, line)
}

// sendCommandFeedback implements command.SendOutput by rendering the result
// as a system chat message to the invoking player (spec.md §7 "malformed
// input never tears down the connection", just surfaces feedback).
func (p *PlayerConnection) sendCommandFeedback(key string, isError bool, args []string) {
	text := key
	for _, a := range args {
		text += " " + a
	}
	color := "gray"
	if isError {
		color = "red"
	}
	p.sendSystemChat(chat.Colored(text, color))
}

// sendSystemChat sends msg to this player alone, as opposed to
// WorldContext.broadcastChat's server-wide fan-out.
func (p *PlayerConnection) sendSystemChat(msg chat.Message) {
	var payload bytes.Buffer
	if err := proto.WriteString(&payload, msg.String()); err != nil {
		return
	}
	p.sendPacket(idPlaySystemChat, payload.Bytes())
}

// sendGameEvent sends a game_event packet to this player alone, as opposed
// to WorldContext.sendGameEvent's server-wide fan-out (used by /gamemode's
// per-player change-game-mode notice).
func (p *PlayerConnection) sendGameEvent(event byte, value float32) {
	var payload bytes.Buffer
	payload.WriteByte(event)
	proto.WriteFloat32(&payload, value)
	p.sendPacket(idPlayGameEvent, payload.Bytes())
}

func (wc *WorldContext) disconnectPlayer(p *PlayerConnection) {
	close(p.closed)
	wc.Broadcast.RemoveClient(p.id)
	wc.View.Unsubscribe(p, p.view)
	wc.Entities.Remove(p.entityID)
	wc.broadcastChat(chat.LeaveMessage(p.name), &p.id)
}

// broadcastChat renders msg as a system_chat packet and fans it out through
// the connected-clients index, optionally excluding one uuid (spec.md
// §4.12 "broadcast(packet, exclude_uuid?)").
func (wc *WorldContext) broadcastChat(msg chat.Message, exclude *uuid.UUID) {
	var payload bytes.Buffer
	if err := proto.WriteString(&payload, msg.String()); err != nil {
		return
	}
	var framed bytes.Buffer
	proto.WriteVarInt(&framed, idPlaySystemChat)
	framed.Write(payload.Bytes())
	wc.Broadcast.Broadcast(framed.Bytes(), exclude)
}
