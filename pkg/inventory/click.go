package inventory

// ClickMode identifies a Click Window packet's "mode" field (spec.md §4.7).
type ClickMode byte

const (
	ModeNormal      ClickMode = 0
	ModeShift       ClickMode = 1
	ModeNumberKey   ClickMode = 2
	ModeDrag        ClickMode = 5
	ModeDoubleClick ClickMode = 6
)

// Drag phase buttons carried in a mode-5 click (spec.md §4.7 table).
const (
	DragStartLeft   = 0
	DragStartRight  = 4
	DragStartMiddle = 8
	DragAddLeft     = 1
	DragAddRight    = 5
	DragAddMiddle   = 9
	DragEndLeft     = 2
	DragEndRight    = 6
	DragEndMiddle   = 10
)

// ClickRequest is one Click Window packet, minus window_id and the fields
// the caller already used for routing (spec.md §4.7 "Click packet fields").
type ClickRequest struct {
	Slot   int16
	Button byte
	Mode   ClickMode
}

// dragState accumulates the slots touched by a mode-5 drag between its
// start and end phases. A real session owns one per open window; this
// package keeps it on Inventory since only one window is modeled.
type dragState struct {
	active bool
	button byte // the Start button, identifies left/right/middle
	slots  []int16
}

// Click resolves one click against the inventory, mutating it in place and
// re-resolving the crafting output as needed (spec.md §4.7). recipes is
// consulted only for slot 0 and crafting-grid touches.
func (inv *Inventory) Click(req ClickRequest, recipes []Recipe) {
	switch req.Mode {
	case ModeNormal:
		inv.clickNormal(req, recipes)
	case ModeShift:
		inv.clickShift(req, recipes)
	case ModeNumberKey:
		inv.clickNumberKey(req)
	case ModeDrag:
		inv.clickDrag(req)
	case ModeDoubleClick:
		inv.clickDoubleClick(req)
	}

	if req.Slot >= SlotCraftStart && req.Slot <= SlotCraftEnd {
		inv.UpdateCraftOutput(recipes)
	}
}

// clickNormal implements mode 0 (spec.md §4.7 "Mode 0 details").
func (inv *Inventory) clickNormal(req ClickRequest, recipes []Recipe) {
	if req.Slot == SlotOutside {
		inv.Carried = Slot{}
		return
	}
	if req.Slot == SlotResult {
		inv.clickResultNormal(recipes)
		return
	}
	if req.Slot < 0 || int(req.Slot) >= SlotCount {
		return
	}
	slot := &inv.Slots[req.Slot]
	switch req.Button {
	case 0: // left click
		if inv.Carried.Empty() {
			inv.Carried = *slot
			*slot = Slot{}
			return
		}
		if slot.sameType(inv.Carried) && !slot.Empty() {
			max := inv.stackSize(slot.ItemID)
			space := max - slot.Count
			if inv.Carried.Count <= space {
				slot.Count += inv.Carried.Count
				inv.Carried = Slot{}
			} else {
				slot.Count = max
				inv.Carried.Count -= space
			}
			return
		}
		*slot, inv.Carried = inv.Carried, *slot
	case 1: // right click
		if inv.Carried.Empty() && !slot.Empty() {
			half := (slot.Count + 1) / 2
			inv.Carried = Slot{ItemID: slot.ItemID, Count: half}
			slot.Count -= half
			if slot.Count <= 0 {
				*slot = Slot{}
			}
			return
		}
		if !inv.Carried.Empty() && slot.Empty() {
			*slot = Slot{ItemID: inv.Carried.ItemID, Count: 1}
			inv.Carried.Count--
			if inv.Carried.Count <= 0 {
				inv.Carried = Slot{}
			}
			return
		}
		if !inv.Carried.Empty() && slot.sameType(inv.Carried) {
			max := inv.stackSize(slot.ItemID)
			if slot.Count < max {
				slot.Count++
				inv.Carried.Count--
				if inv.Carried.Count <= 0 {
					inv.Carried = Slot{}
				}
			}
			return
		}
		*slot, inv.Carried = inv.Carried, *slot
	}
}

func (inv *Inventory) clickResultNormal(recipes []Recipe) {
	result := inv.Slots[SlotResult]
	if result.Empty() {
		return
	}
	if inv.Carried.Empty() {
		inv.Carried = result
		inv.ConsumeCraftIngredients()
		inv.UpdateCraftOutput(recipes)
	} else if inv.Carried.sameType(result) && inv.Carried.Count+result.Count <= inv.stackSize(result.ItemID) {
		inv.Carried.Count += result.Count
		inv.ConsumeCraftIngredients()
		inv.UpdateCraftOutput(recipes)
	}
}

// clickShift implements mode 1: transfer to the opposite section with
// merge-then-fill semantics (spec.md §4.7 table).
func (inv *Inventory) clickShift(req ClickRequest, recipes []Recipe) {
	if req.Slot == SlotResult {
		for !inv.Slots[SlotResult].Empty() {
			result := inv.Slots[SlotResult]
			if _, ok := inv.AddItem(result.ItemID, result.Count); !ok {
				break
			}
			inv.ConsumeCraftIngredients()
			inv.UpdateCraftOutput(recipes)
		}
		return
	}
	if req.Slot < 0 || int(req.Slot) >= SlotCount || inv.Slots[req.Slot].Empty() {
		return
	}
	item := inv.Slots[req.Slot]
	destStart, destEnd := shiftDestination(int(req.Slot))

	remaining := item.Count
	max := inv.stackSize(item.ItemID)
	for i := destStart; i <= destEnd && remaining > 0; i++ {
		if inv.Slots[i].ItemID == item.ItemID && inv.Slots[i].Count < max {
			space := max - inv.Slots[i].Count
			moved := min16(space, remaining)
			inv.Slots[i].Count += moved
			remaining -= moved
		}
	}
	for i := destStart; i <= destEnd && remaining > 0; i++ {
		if inv.Slots[i].Empty() {
			moved := min16(max, remaining)
			inv.Slots[i] = Slot{ItemID: item.ItemID, Count: moved}
			remaining -= moved
		}
	}
	if remaining == item.Count {
		return
	}
	if remaining == 0 {
		inv.Slots[req.Slot] = Slot{}
	} else {
		inv.Slots[req.Slot].Count = remaining
	}
}

func shiftDestination(slot int) (start, end int) {
	switch {
	case slot >= SlotHotbarStart && slot <= SlotHotbarEnd:
		return SlotMainStart, SlotMainEnd
	case slot >= SlotMainStart && slot <= SlotMainEnd:
		return SlotHotbarStart, SlotHotbarEnd
	case slot >= SlotArmorStart && slot <= SlotArmorEnd:
		return SlotHotbarStart, SlotHotbarEnd
	default:
		return SlotMainStart, SlotMainEnd
	}
}

// clickNumberKey implements mode 2: swap slot with hotbar slot 36+button.
func (inv *Inventory) clickNumberKey(req ClickRequest) {
	if req.Slot < 0 || int(req.Slot) >= SlotCount {
		return
	}
	dest := SlotHotbarStart + int(req.Button)
	if dest < SlotHotbarStart || dest > SlotHotbarEnd {
		return
	}
	inv.Slots[req.Slot], inv.Slots[dest] = inv.Slots[dest], inv.Slots[req.Slot]
}

// clickDrag implements mode 5's three phases (spec.md §4.7 table). This
// package tracks drag state per-inventory since only one window is modeled;
// a multi-window caller would key it per open window instead.
func (inv *Inventory) clickDrag(req ClickRequest) {
	switch req.Button {
	case DragStartLeft, DragStartRight, DragStartMiddle:
		inv.drag = dragState{active: true, button: req.Button}
	case DragAddLeft, DragAddRight, DragAddMiddle:
		if inv.drag.active {
			inv.drag.slots = append(inv.drag.slots, req.Slot)
		}
	case DragEndLeft, DragEndRight, DragEndMiddle:
		inv.finishDrag()
		inv.drag = dragState{}
	}
}

func (inv *Inventory) finishDrag() {
	if !inv.drag.active || len(inv.drag.slots) == 0 || inv.Carried.Empty() {
		return
	}
	n := int16(len(inv.drag.slots))
	switch inv.drag.button {
	case DragStartLeft:
		per := inv.Carried.Count / n
		leftover := inv.Carried.Count % n
		for i, s := range inv.drag.slots {
			amount := per
			if int16(i) < leftover {
				amount++
			}
			inv.placeDragUnit(s, amount)
		}
		inv.Carried = Slot{}
	case DragStartRight:
		for _, s := range inv.drag.slots {
			if inv.Carried.Count <= 0 {
				break
			}
			inv.placeDragUnit(s, 1)
			inv.Carried.Count--
		}
		if inv.Carried.Count <= 0 {
			inv.Carried = Slot{}
		}
	case DragStartMiddle:
		max := inv.stackSize(inv.Carried.ItemID)
		for _, s := range inv.drag.slots {
			inv.placeDragUnit(s, max)
		}
	}
}

func (inv *Inventory) placeDragUnit(s int16, amount int16) {
	if s < 0 || int(s) >= SlotCount || amount <= 0 {
		return
	}
	slot := &inv.Slots[s]
	if slot.Empty() {
		*slot = Slot{ItemID: inv.Carried.ItemID, Count: amount}
		return
	}
	if slot.sameType(inv.Carried) {
		max := inv.stackSize(slot.ItemID)
		slot.Count = min16(max, slot.Count+amount)
	}
}

// clickDoubleClick implements mode 6: gather every stack of the carried
// type into the carried stack.
func (inv *Inventory) clickDoubleClick(req ClickRequest) {
	if inv.Carried.Empty() {
		return
	}
	max := inv.stackSize(inv.Carried.ItemID)
	for i := SlotMainStart; i <= SlotHotbarEnd && inv.Carried.Count < max; i++ {
		if i > SlotMainEnd && i < SlotHotbarStart {
			continue
		}
		if inv.Slots[i].ItemID != inv.Carried.ItemID || inv.Slots[i].Empty() {
			continue
		}
		take := min16(max-inv.Carried.Count, inv.Slots[i].Count)
		inv.Carried.Count += take
		inv.Slots[i].Count -= take
		if inv.Slots[i].Count <= 0 {
			inv.Slots[i] = Slot{}
		}
	}
}

func min16(a, b int16) int16 {
	if a < b {
		return a
	}
	return b
}
