package inventory

// Recipe is either shaped (Width/Height <= 2, ordered grid) or shapeless (a
// multiset of required ingredients), per spec.md §4.7 "Recipe resolution".
type Recipe struct {
	Shaped bool

	// Shaped fields.
	Width, Height int
	Grid          []int32 // row-major, length Width*Height, 0 means empty

	// Shapeless field.
	Ingredients []int32 // multiset of required item ids

	ResultID    int32
	ResultCount int16
}

// matchShaped reports whether grid (the live 2x2 crafting grid, row-major,
// 0 = empty) matches r at some (xOff, yOff) placement, per spec.md's
// "enumerates all (x_offset, y_offset) placements ... requires every cell
// not covered by the recipe to be empty".
func matchShaped(r Recipe, grid [2][2]int32) bool {
	if r.Width > 2 || r.Height > 2 {
		return false
	}
	for yOff := 0; yOff <= 2-r.Height; yOff++ {
		for xOff := 0; xOff <= 2-r.Width; xOff++ {
			if shapedFitsAt(r, grid, xOff, yOff) {
				return true
			}
		}
	}
	return false
}

func shapedFitsAt(r Recipe, grid [2][2]int32, xOff, yOff int) bool {
	for gy := 0; gy < 2; gy++ {
		for gx := 0; gx < 2; gx++ {
			cell := grid[gy][gx]
			rx, ry := gx-xOff, gy-yOff
			covered := rx >= 0 && rx < r.Width && ry >= 0 && ry < r.Height
			if !covered {
				if cell != 0 {
					return false
				}
				continue
			}
			want := r.Grid[ry*r.Width+rx]
			if want != cell {
				return false
			}
		}
	}
	return true
}

// matchShapeless decrements a multiset counter for each non-empty grid cell
// and succeeds only if every ingredient is consumed and no extra items
// remain (spec.md §4.7).
func matchShapeless(r Recipe, grid [2][2]int32) bool {
	remaining := make(map[int32]int, len(r.Ingredients))
	for _, id := range r.Ingredients {
		remaining[id]++
	}
	for gy := 0; gy < 2; gy++ {
		for gx := 0; gx < 2; gx++ {
			cell := grid[gy][gx]
			if cell == 0 {
				continue
			}
			if remaining[cell] == 0 {
				return false
			}
			remaining[cell]--
		}
	}
	for _, n := range remaining {
		if n != 0 {
			return false
		}
	}
	return true
}

// Match returns the first recipe in recipes whose shape/multiset matches the
// live 2x2 crafting grid, or ok=false.
func Match(recipes []Recipe, grid [2][2]int32) (Recipe, bool) {
	for _, r := range recipes {
		if r.Shaped {
			if matchShaped(r, grid) {
				return r, true
			}
		} else if matchShapeless(r, grid) {
			return r, true
		}
	}
	return Recipe{}, false
}

// craftGrid reads the player's 2x2 crafting input (slots 1..4, column-major)
// into row-major [row][col] form for matching.
func (inv *Inventory) craftGrid() [2][2]int32 {
	var g [2][2]int32
	for row := 0; row < 2; row++ {
		for col := 0; col < 2; col++ {
			slot := SlotCraftStart + col + row*2
			g[row][col] = inv.Slots[slot].ItemID
		}
	}
	return g
}

// UpdateCraftOutput re-resolves the result slot against recipes, per
// spec.md's "after any click that touches crafting-grid slots (1..4),
// re-resolve the result slot".
func (inv *Inventory) UpdateCraftOutput(recipes []Recipe) {
	r, ok := Match(recipes, inv.craftGrid())
	if !ok {
		inv.Slots[SlotResult] = Slot{}
		return
	}
	inv.Slots[SlotResult] = Slot{ItemID: r.ResultID, Count: r.ResultCount}
}

// ConsumeCraftIngredients removes one unit of each non-empty 2x2 input slot,
// per spec.md's "after a click that consumes the result slot (0), consume
// one unit of each matched ingredient".
func (inv *Inventory) ConsumeCraftIngredients() {
	for i := SlotCraftStart; i <= SlotCraftEnd; i++ {
		if inv.Slots[i].Empty() {
			continue
		}
		inv.Slots[i].Count--
		if inv.Slots[i].Count <= 0 {
			inv.Slots[i] = Slot{}
		}
	}
}
