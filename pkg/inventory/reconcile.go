package inventory

// SlotUpdate is a single-slot correction to send back to the client.
type SlotUpdate struct {
	Slot int16
	Item Slot
}

// ClientObservation is what the client reported alongside a click: the
// slots it believes changed and the carried item it believes it holds
// (spec.md §4.7 "Reconciliation with the client").
type ClientObservation struct {
	StateID      int32
	ChangedSlots map[int16]Slot
	Carried      Slot
}

// Reconcile compares the client's post-click belief against the
// authoritative state. If the echoed state_id doesn't match, or the client's
// carried item differs from the server's, the whole inventory must be
// re-sent; otherwise only slots the client reported that disagree with the
// server are sent individually.
func (inv *Inventory) Reconcile(obs ClientObservation) (fullResync bool, updates []SlotUpdate) {
	if obs.StateID != inv.StateID {
		return true, nil
	}
	if obs.Carried != inv.Carried {
		return true, nil
	}
	for slot, clientVal := range obs.ChangedSlots {
		if slot < 0 || int(slot) >= SlotCount {
			continue
		}
		if inv.Slots[slot] != clientVal {
			updates = append(updates, SlotUpdate{Slot: slot, Item: inv.Slots[slot]})
		}
	}
	return false, updates
}

// Snapshot returns every slot plus the carried item, for a full resync send.
func (inv *Inventory) Snapshot() (slots [SlotCount]Slot, carried Slot, stateID int32) {
	return inv.Slots, inv.Carried, inv.StateID
}
