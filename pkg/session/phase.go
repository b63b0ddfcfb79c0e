// Package session implements the per-connection phase state machine
// (spec.md §4.9/C9): handshake, status, login (with the RSA/AES key
// agreement and identity-service round trip), configuration, and play,
// including the teleport-confirm sub-state. Grounded on the teacher's
// handleConnection/handleHandshake/handleLoginStart/handlePlay
// (server/server.go) generalized from a single 1.8-era flat switch into a
// real phase type with explicit transition guards.
package session

import (
	"errors"
	"sync"
)

// Phase is one node of the session's forward-only state machine (spec.md
// §4.9 "Handshake -> {Status | Login} -> Configuration -> Play ->
// (AwaitingTeleportConfirm | Play)").
type Phase int

const (
	PhaseHandshake Phase = iota
	PhaseStatus
	PhaseLogin
	PhaseConfiguration
	PhasePlay
	PhaseAwaitingTeleportConfirm
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseHandshake:
		return "handshake"
	case PhaseStatus:
		return "status"
	case PhaseLogin:
		return "login"
	case PhaseConfiguration:
		return "configuration"
	case PhasePlay:
		return "play"
	case PhaseAwaitingTeleportConfirm:
		return "awaiting_teleport_confirm"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrUnexpectedPacket is returned when a packet id arrives in a phase that
// doesn't expect it (spec.md §4.9 "receiving a packet not valid in the
// current phase yields UnexpectedPacket").
var ErrUnexpectedPacket = errors.New("session: unexpected packet for current phase")

// ErrUnexpectedPhase is returned when a caller tries to transition out of
// order (spec.md §4.9 "Transitions are strictly forward").
var ErrUnexpectedPhase = errors.New("session: unexpected phase transition")

// forwardEdges enumerates the only transitions CanTransition allows,
// matching spec.md's forward-only graph including the Play <->
// AwaitingTeleportConfirm pair.
var forwardEdges = map[Phase]map[Phase]bool{
	PhaseHandshake:               {PhaseStatus: true, PhaseLogin: true},
	PhaseStatus:                  {PhaseClosed: true},
	PhaseLogin:                   {PhaseConfiguration: true, PhaseClosed: true},
	PhaseConfiguration:           {PhasePlay: true, PhaseClosed: true},
	PhasePlay:                    {PhaseAwaitingTeleportConfirm: true, PhaseClosed: true},
	PhaseAwaitingTeleportConfirm: {PhasePlay: true, PhaseClosed: true},
}

// CanTransition reports whether moving from `from` to `to` is a legal edge.
func CanTransition(from, to Phase) bool {
	return forwardEdges[from][to]
}

// Machine tracks a single connection's current phase and the teleport ids
// pending confirmation, each stamped with the world tick it was issued on
// so the tick loop's grace-window eviction (spec.md §4.11) can find stale
// ones. Guarded by mu since, unlike every other phase, a pending teleport is
// now read and expired from the tick loop's goroutine concurrently with the
// connection's own read-loop goroutine.
type Machine struct {
	mu              sync.Mutex
	phase           Phase
	pendingTeleport map[int32]int64
}

func NewMachine() *Machine {
	return &Machine{phase: PhaseHandshake, pendingTeleport: make(map[int32]int64)}
}

func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Transition moves to `to` if the edge is legal, else returns
// ErrUnexpectedPhase.
func (m *Machine) Transition(to Phase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitionLocked(to)
}

func (m *Machine) transitionLocked(to Phase) error {
	if !CanTransition(m.phase, to) {
		return ErrUnexpectedPhase
	}
	m.phase = to
	return nil
}

// BeginAwaitingTeleport allocates a pending teleport id (the caller supplies
// a fresh one from its own counter, and the world tick it was issued on)
// and moves to PhaseAwaitingTeleportConfirm (spec.md §4.9 "allocates a
// fresh teleport id, inserts it into the connection's pending-teleport set,
// and moves the connection to AwaitingTeleportConfirm").
func (m *Machine) BeginAwaitingTeleport(teleportID int32, issuedAtTick int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.transitionLocked(PhaseAwaitingTeleportConfirm); err != nil {
		return err
	}
	m.pendingTeleport[teleportID] = issuedAtTick
	return nil
}

// ConfirmTeleport clears a matching pending id and returns to Play (spec.md
// §4.9 "A teleport-confirm received while in AwaitingTeleportConfirm clears
// the matching pending id and transitions back to Play"). An id that
// doesn't match a pending entry is ignored rather than erroring, since a
// stale confirm from an already-superseded teleport is expected traffic.
func (m *Machine) ConfirmTeleport(teleportID int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.phase != PhaseAwaitingTeleportConfirm {
		return ErrUnexpectedPacket
	}
	delete(m.pendingTeleport, teleportID)
	return m.transitionLocked(PhasePlay)
}

// DropIfAwaiting reports whether a movement packet arriving right now must
// be dropped because the connection awaits teleport confirmation (spec.md
// §4.9 "Movement packets received while awaiting are dropped (state-safe
// idempotence)").
func (m *Machine) DropIfAwaiting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == PhaseAwaitingTeleportConfirm
}

// ExpireTeleports evicts pending ids issued more than graceTicks before
// currentTick (spec.md §4.11's grace-window eviction, resolving the §9
// Design Note that flags unbounded teleport-id growth as a bug to fix
// here), returning the evicted ids for the caller to log. If eviction
// empties the pending set while still awaiting confirmation, the
// connection falls back to Play so movement isn't dropped forever waiting
// on a confirm that will never arrive.
func (m *Machine) ExpireTeleports(currentTick, graceTicks int64) []int32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []int32
	for id, issuedAt := range m.pendingTeleport {
		if currentTick-issuedAt >= graceTicks {
			delete(m.pendingTeleport, id)
			expired = append(expired, id)
		}
	}
	if len(expired) > 0 && m.phase == PhaseAwaitingTeleportConfirm && len(m.pendingTeleport) == 0 {
		m.phase = PhasePlay
	}
	return expired
}
