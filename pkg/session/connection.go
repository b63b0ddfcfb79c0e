package session

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"

	"github.com/ChickenIQ/vanillago/pkg/proto"
)

// Packet ids this package owns directly (handshake/status/login/
// configuration). Play-phase ids belong to the PlayHandler the orchestrator
// supplies, since their vocabulary depends on world content this package
// doesn't know about (spec.md §4.9's phase list names Play last precisely
// because everything above it is self-contained protocol bootstrapping).
const (
	idHandshake = 0x00

	idStatusRequest  = 0x00
	idStatusResponse = 0x00
	idPingRequest    = 0x01
	idPongResponse   = 0x01

	idLoginStart          = 0x00
	idEncryptionResponse  = 0x01
	idEncryptionRequest   = 0x01
	idLoginSuccess        = 0x02
	idSetCompression      = 0x03
	idLoginAcknowledged   = 0x03

	idPluginMessage            = 0x02
	idFinishConfiguration      = 0x03
	idAckFinishConfiguration   = 0x03
	idDisconnectConfiguration  = 0x02
)

const handshakeNextStatus = 1
const handshakeNextLogin = 2

// PlayHandler is the boundary the session package hands off to once a
// connection reaches the Play phase (spec.md §4.9 "Play"). The orchestrator
// (C13) implements this using pkg/entity, pkg/inventory, pkg/view,
// pkg/broadcast and pkg/command; pkg/session has no need to import any of
// them.
type PlayHandler interface {
	// EnterPlay runs the join sequence and then the packet read loop for
	// the remainder of the connection's life. It returns when the
	// connection closes.
	EnterPlay(conn *Connection, identity LoginIdentity) error
}

// Connection drives a single client socket through Handshake, Status or
// Login, Configuration, and finally hands off to a PlayHandler, grounded on
// the teacher's handleConnection (server/server.go) generalized from a flat
// packet switch into the phase-machine-gated sequence spec.md §4.9
// describes.
type Connection struct {
	Wire  *proto.Conn
	Phase *Machine
	Login *LoginFlow

	RemoteAddr string

	compressionThreshold int
}

// NewConnection wraps wire with a fresh phase machine. compressionThreshold
// < 0 disables compression (spec.md §3's "bodies below threshold are sent
// uncompressed"); login negotiates it when >= 0.
func NewConnection(wire *proto.Conn, login *LoginFlow, remoteAddr string, compressionThreshold int) *Connection {
	return &Connection{
		Wire:                 wire,
		Phase:                NewMachine(),
		Login:                login,
		RemoteAddr:           remoteAddr,
		compressionThreshold: compressionThreshold,
	}
}

// Bootstrap runs Handshake, then Status or Login, then (if Login)
// Configuration, finally handing off to handler.EnterPlay. It returns nil
// only for a status-phase connection that closes normally after the ping
// round trip; a Login connection returns whatever handler.EnterPlay
// returns.
func (c *Connection) Bootstrap(handler PlayHandler, configHooks ConfigurationHooks, statusProvider func() StatusResponse) error {
	next, err := c.readHandshake()
	if err != nil {
		return err
	}

	switch next {
	case handshakeNextStatus:
		if err := c.Phase.Transition(PhaseStatus); err != nil {
			return err
		}
		return c.runStatus(statusProvider)
	case handshakeNextLogin:
		if err := c.Phase.Transition(PhaseLogin); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown handshake next_state %d", ErrUnexpectedPacket, next)
	}

	identity, err := c.runLogin()
	if err != nil {
		return err
	}
	if err := c.Phase.Transition(PhaseConfiguration); err != nil {
		return err
	}
	if err := c.RunConfiguration(configHooks); err != nil {
		return err
	}
	if err := c.Phase.Transition(PhasePlay); err != nil {
		return err
	}
	return handler.EnterPlay(c, identity)
}

// readHandshake reads the single handshake packet and returns its
// next_state field (spec.md §8 scenario A: "0x00 0xFC 0x05 \"localhost\"
// 0x63 0xDD 0x01 (handshake, proto 764, port 25565, next=1)").
func (c *Connection) readHandshake() (int32, error) {
	pkt, err := c.Wire.ReadPacket()
	if err != nil {
		return 0, err
	}
	if pkt.ID != idHandshake {
		return 0, ErrUnexpectedPacket
	}
	r := bytes.NewReader(pkt.Payload)
	if _, _, err := proto.ReadVarInt(r); err != nil { // protocol_version, unused
		return 0, err
	}
	if _, err := proto.ReadString(r); err != nil { // server_address, unused
		return 0, err
	}
	if _, err := proto.ReadUint16(r); err != nil { // server_port, unused
		return 0, err
	}
	next, _, err := proto.ReadVarInt(r)
	if err != nil {
		return 0, err
	}
	return next, nil
}

// runStatus implements scenario A's status-request/ping round trip.
func (c *Connection) runStatus(statusProvider func() StatusResponse) error {
	pkt, err := c.Wire.ReadPacket()
	if err != nil {
		return err
	}
	if pkt.ID != idStatusRequest {
		return ErrUnexpectedPacket
	}
	return c.RespondStatus(statusProvider())
}

// RespondStatus sends resp as the status-response packet. Split out from
// runStatus so the orchestrator can supply live player counts without this
// package depending on broadcast/entity state.
func (c *Connection) RespondStatus(resp StatusResponse) error {
	body, err := resp.Encode()
	if err != nil {
		return err
	}
	var payload bytes.Buffer
	if err := proto.WriteString(&payload, body); err != nil {
		return err
	}
	if err := c.Wire.WritePacket(&proto.Packet{ID: idStatusResponse, Payload: payload.Bytes()}); err != nil {
		return err
	}

	pkt, err := c.Wire.ReadPacket()
	if err != nil {
		return err
	}
	if pkt.ID != idPingRequest {
		return ErrUnexpectedPacket
	}
	return c.Wire.WritePacket(&proto.Packet{ID: idPongResponse, Payload: pkt.Payload})
}

// runLogin implements the full login-phase cryptographic handshake (spec.md
// §4.9 "Login phase"): login_start, encryption request/response, identity
// resolution, optional compression negotiation, login success, and waiting
// for login_acknowledged.
func (c *Connection) runLogin() (LoginIdentity, error) {
	pkt, err := c.Wire.ReadPacket()
	if err != nil {
		return LoginIdentity{}, err
	}
	if pkt.ID != idLoginStart {
		return LoginIdentity{}, ErrUnexpectedPacket
	}
	r := bytes.NewReader(pkt.Payload)
	name, err := proto.ReadString(r)
	if err != nil {
		return LoginIdentity{}, err
	}
	rawUUID, err := proto.ReadUUID(r)
	if err != nil {
		return LoginIdentity{}, err
	}
	loginUUID := uuid.UUID(rawUUID)

	verifyToken, err := c.Login.GenerateVerifyToken()
	if err != nil {
		return LoginIdentity{}, err
	}
	req := c.Login.EncryptionRequest(verifyToken)
	if err := c.sendEncryptionRequest(req); err != nil {
		return LoginIdentity{}, err
	}

	respPkt, err := c.Wire.ReadPacket()
	if err != nil {
		return LoginIdentity{}, err
	}
	if respPkt.ID != idEncryptionResponse {
		return LoginIdentity{}, ErrUnexpectedPacket
	}
	rr := bytes.NewReader(respPkt.Payload)
	encSecret, err := proto.ReadBytes(rr)
	if err != nil {
		return LoginIdentity{}, err
	}
	encToken, err := proto.ReadBytes(rr)
	if err != nil {
		return LoginIdentity{}, err
	}

	sharedSecret, identity, err := c.Login.CompleteEncryption(encSecret, encToken, verifyToken, name, loginUUID, c.RemoteAddr)
	if err != nil {
		return LoginIdentity{}, err
	}
	if err := c.Wire.EnableEncryption(sharedSecret); err != nil {
		return LoginIdentity{}, err
	}

	if c.compressionThreshold >= 0 {
		if err := c.sendSetCompression(c.compressionThreshold); err != nil {
			return LoginIdentity{}, err
		}
		c.Wire.EnableCompression(c.compressionThreshold)
	}

	if err := c.sendLoginSuccess(identity); err != nil {
		return LoginIdentity{}, err
	}

	ackPkt, err := c.Wire.ReadPacket()
	if err != nil {
		return LoginIdentity{}, err
	}
	if ackPkt.ID != idLoginAcknowledged {
		return LoginIdentity{}, ErrUnexpectedPacket
	}
	return identity, nil
}

func (c *Connection) sendEncryptionRequest(req EncryptionRequest) error {
	var payload bytes.Buffer
	if err := proto.WriteString(&payload, req.ServerID); err != nil {
		return err
	}
	if err := proto.WriteBytes(&payload, req.PublicKeyDER); err != nil {
		return err
	}
	if err := proto.WriteBytes(&payload, req.VerifyToken); err != nil {
		return err
	}
	if err := proto.WriteBool(&payload, req.ShouldAuthenticate); err != nil {
		return err
	}
	return c.Wire.WritePacket(&proto.Packet{ID: idEncryptionRequest, Payload: payload.Bytes()})
}

func (c *Connection) sendSetCompression(threshold int) error {
	var payload bytes.Buffer
	if _, err := proto.WriteVarInt(&payload, int32(threshold)); err != nil {
		return err
	}
	return c.Wire.WritePacket(&proto.Packet{ID: idSetCompression, Payload: payload.Bytes()})
}

func (c *Connection) sendLoginSuccess(identity LoginIdentity) error {
	var payload bytes.Buffer
	rawUUID := [16]byte(identity.UUID)
	if err := proto.WriteUUID(&payload, rawUUID); err != nil {
		return err
	}
	if err := proto.WriteString(&payload, identity.Name); err != nil {
		return err
	}
	if identity.TexturesValue == "" {
		if _, err := proto.WriteVarInt(&payload, 0); err != nil {
			return err
		}
	} else {
		if _, err := proto.WriteVarInt(&payload, 1); err != nil {
			return err
		}
		if err := proto.WriteString(&payload, "textures"); err != nil {
			return err
		}
		if err := proto.WriteString(&payload, identity.TexturesValue); err != nil {
			return err
		}
		if err := proto.WriteBool(&payload, identity.TexturesSig != ""); err != nil {
			return err
		}
		if identity.TexturesSig != "" {
			if err := proto.WriteString(&payload, identity.TexturesSig); err != nil {
				return err
			}
		}
	}
	return c.Wire.WritePacket(&proto.Packet{ID: idLoginSuccess, Payload: payload.Bytes()})
}

// KnownPack is one entry of the configuration-phase known-packs exchange.
type KnownPack struct {
	Namespace string
	ID        string
	Version   string
}

// ConfigurationHooks lets the orchestrator supply the world-specific parts
// of the configuration phase (registry data, tags, server links) without
// pkg/session importing pkg/registry directly.
type ConfigurationHooks struct {
	// Brand is sent as a minecraft:brand plugin message.
	Brand string
	// SendRegistryData is called once the known-packs round trip
	// completes; it must write every registry-data packet the client
	// needs before this returns.
	SendRegistryData func(conn *Connection) error
	// SendTags, SendLinks are optional additional configuration packets.
	SendTags  func(conn *Connection) error
	SendLinks func(conn *Connection) error
}

// RunConfiguration drives the configuration phase using hooks for the
// world-specific packets (spec.md §4.9 "Configuration phase": plugin
// channels, known packs, registry data, tags, server links, then
// finish_configuration / acknowledge_finish_configuration").
func (c *Connection) RunConfiguration(hooks ConfigurationHooks) error {
	if hooks.Brand != "" {
		var payload bytes.Buffer
		if err := proto.WriteString(&payload, "minecraft:brand"); err != nil {
			return err
		}
		if err := proto.WriteString(&payload, hooks.Brand); err != nil {
			return err
		}
		if err := c.Wire.WritePacket(&proto.Packet{ID: idPluginMessage, Payload: payload.Bytes()}); err != nil {
			return err
		}
	}

	if hooks.SendRegistryData != nil {
		if err := hooks.SendRegistryData(c); err != nil {
			return err
		}
	}
	if hooks.SendTags != nil {
		if err := hooks.SendTags(c); err != nil {
			return err
		}
	}
	if hooks.SendLinks != nil {
		if err := hooks.SendLinks(c); err != nil {
			return err
		}
	}

	if err := c.Wire.WritePacket(&proto.Packet{ID: idFinishConfiguration, Payload: nil}); err != nil {
		return err
	}
	ackPkt, err := c.Wire.ReadPacket()
	if err != nil {
		return err
	}
	if ackPkt.ID != idAckFinishConfiguration {
		return ErrUnexpectedPacket
	}
	return nil
}
