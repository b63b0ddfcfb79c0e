package inventory

import "testing"

func TestClickNormalPickUpAndPlace(t *testing.T) {
	inv := New()
	inv.Slots[10] = Slot{ItemID: 5, Count: 3}

	inv.Click(ClickRequest{Slot: 10, Button: 0, Mode: ModeNormal}, nil)
	if !inv.Slots[10].Empty() || inv.Carried.ItemID != 5 || inv.Carried.Count != 3 {
		t.Fatalf("expected pick-up onto carried, got slot=%+v carried=%+v", inv.Slots[10], inv.Carried)
	}

	inv.Click(ClickRequest{Slot: 11, Button: 0, Mode: ModeNormal}, nil)
	if !inv.Carried.Empty() || inv.Slots[11].ItemID != 5 || inv.Slots[11].Count != 3 {
		t.Fatalf("expected placement into empty slot, got slot=%+v carried=%+v", inv.Slots[11], inv.Carried)
	}
}

func TestClickNormalMergeSameType(t *testing.T) {
	inv := New()
	inv.Slots[10] = Slot{ItemID: 5, Count: 40}
	inv.Carried = Slot{ItemID: 5, Count: 30}

	inv.Click(ClickRequest{Slot: 10, Button: 0, Mode: ModeNormal}, nil)
	if inv.Slots[10].Count != 64 || inv.Carried.Count != 6 {
		t.Fatalf("expected merge capped at stack size, got slot=%+v carried=%+v", inv.Slots[10], inv.Carried)
	}
}

func TestClickNormalRightClickHalf(t *testing.T) {
	inv := New()
	inv.Slots[10] = Slot{ItemID: 5, Count: 5}

	inv.Click(ClickRequest{Slot: 10, Button: 1, Mode: ModeNormal}, nil)
	if inv.Carried.Count != 3 || inv.Slots[10].Count != 2 {
		t.Fatalf("expected rounded-up half to carried, got slot=%+v carried=%+v", inv.Slots[10], inv.Carried)
	}
}

func TestClickOutsideDropsCarried(t *testing.T) {
	inv := New()
	inv.Carried = Slot{ItemID: 5, Count: 3}
	inv.Click(ClickRequest{Slot: SlotOutside, Button: 0, Mode: ModeNormal}, nil)
	if !inv.Carried.Empty() {
		t.Fatalf("expected carried cleared, got %+v", inv.Carried)
	}
}

func TestClickShiftHotbarToMain(t *testing.T) {
	inv := New()
	inv.Slots[SlotHotbarStart] = Slot{ItemID: 9, Count: 10}
	inv.Click(ClickRequest{Slot: SlotHotbarStart, Mode: ModeShift}, nil)
	if !inv.Slots[SlotHotbarStart].Empty() {
		t.Fatalf("expected source slot emptied")
	}
	found := false
	for i := SlotMainStart; i <= SlotMainEnd; i++ {
		if inv.Slots[i].ItemID == 9 && inv.Slots[i].Count == 10 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected item transferred into main storage")
	}
}

func TestClickNumberKeySwap(t *testing.T) {
	inv := New()
	inv.Slots[SlotMainStart] = Slot{ItemID: 1, Count: 1}
	inv.Slots[SlotHotbarStart] = Slot{ItemID: 2, Count: 1}
	inv.Click(ClickRequest{Slot: SlotMainStart, Button: 0, Mode: ModeNumberKey}, nil)
	if inv.Slots[SlotMainStart].ItemID != 2 || inv.Slots[SlotHotbarStart].ItemID != 1 {
		t.Fatalf("expected slots swapped, got main=%+v hotbar=%+v", inv.Slots[SlotMainStart], inv.Slots[SlotHotbarStart])
	}
}

func TestClickDragEvenSplit(t *testing.T) {
	inv := New()
	inv.Carried = Slot{ItemID: 7, Count: 9}

	inv.Click(ClickRequest{Slot: SlotOutside, Button: DragStartLeft, Mode: ModeDrag}, nil)
	inv.Click(ClickRequest{Slot: 20, Button: DragAddLeft, Mode: ModeDrag}, nil)
	inv.Click(ClickRequest{Slot: 21, Button: DragAddLeft, Mode: ModeDrag}, nil)
	inv.Click(ClickRequest{Slot: 22, Button: DragAddLeft, Mode: ModeDrag}, nil)
	inv.Click(ClickRequest{Slot: SlotOutside, Button: DragEndLeft, Mode: ModeDrag}, nil)

	if inv.Slots[20].Count != 3 || inv.Slots[21].Count != 3 || inv.Slots[22].Count != 3 {
		t.Fatalf("expected even 3-way split, got %+v %+v %+v", inv.Slots[20], inv.Slots[21], inv.Slots[22])
	}
	if !inv.Carried.Empty() {
		t.Fatalf("expected carried emptied after drag")
	}
}

func TestShapedRecipeMatchesAnyOffset(t *testing.T) {
	r := Recipe{Shaped: true, Width: 1, Height: 1, Grid: []int32{17}, ResultID: 5, ResultCount: 4}
	grid := [2][2]int32{{0, 0}, {0, 17}}
	if !matchShaped(r, grid) {
		t.Fatalf("expected 1x1 recipe to match at any offset with rest empty")
	}
	grid2 := [2][2]int32{{17, 1}, {0, 0}}
	if matchShaped(r, grid2) {
		t.Fatalf("expected non-empty extra ingredient to fail match")
	}
}

func TestShapelessRecipeExactMultiset(t *testing.T) {
	r := Recipe{Ingredients: []int32{5, 5}, ResultID: 280, ResultCount: 4}
	grid := [2][2]int32{{5, 5}, {0, 0}}
	if !matchShapeless(r, grid) {
		t.Fatalf("expected shapeless match on exact multiset")
	}
	grid2 := [2][2]int32{{5, 5}, {5, 0}}
	if matchShapeless(r, grid2) {
		t.Fatalf("expected extra ingredient to fail shapeless match")
	}
}

func TestCraftOutputAndConsume(t *testing.T) {
	inv := New()
	recipes := []Recipe{{Shaped: true, Width: 1, Height: 1, Grid: []int32{17}, ResultID: 5, ResultCount: 4}}
	inv.Slots[SlotCraftStart] = Slot{ItemID: 17, Count: 1}
	inv.UpdateCraftOutput(recipes)
	if inv.Slots[SlotResult].ItemID != 5 || inv.Slots[SlotResult].Count != 4 {
		t.Fatalf("expected result resolved, got %+v", inv.Slots[SlotResult])
	}

	inv.Click(ClickRequest{Slot: SlotResult, Button: 0, Mode: ModeNormal}, recipes)
	if inv.Carried.ItemID != 5 || inv.Carried.Count != 4 {
		t.Fatalf("expected carried to receive result, got %+v", inv.Carried)
	}
	if !inv.Slots[SlotCraftStart].Empty() {
		t.Fatalf("expected ingredient consumed, got %+v", inv.Slots[SlotCraftStart])
	}
}

func TestReconcileStateMismatchTriggersFullResync(t *testing.T) {
	inv := New()
	inv.StateID = 5
	full, updates := inv.Reconcile(ClientObservation{StateID: 4})
	if !full || updates != nil {
		t.Fatalf("expected full resync on state_id mismatch")
	}
}

func TestReconcilePerSlotDisagreement(t *testing.T) {
	inv := New()
	inv.StateID = 1
	inv.Slots[10] = Slot{ItemID: 5, Count: 2}

	full, updates := inv.Reconcile(ClientObservation{
		StateID:      1,
		ChangedSlots: map[int16]Slot{10: {ItemID: 5, Count: 3}},
	})
	if full {
		t.Fatalf("expected no full resync")
	}
	if len(updates) != 1 || updates[0].Slot != 10 || updates[0].Item.Count != 2 {
		t.Fatalf("expected correction for slot 10, got %+v", updates)
	}
}
