package grid

// Occupancy indexes which owners occupy each cell of a world.
// Owners are inserted by cell and index, then queried in O(1) per cell.
// Storage is reused between ticks (Clear resets slices to [:0]).
type Occupancy struct {
	world World
	cells []occupancyCell
}

// occupancyCell stores the owner indices of everything in one cell.
type occupancyCell struct {
	owners []int
}

// NewOccupancy creates an empty index covering the given world.
func NewOccupancy(w World) *Occupancy {
	return &Occupancy{
		world: w,
		cells: make([]occupancyCell, w.Cells()),
	}
}

// Clear removes all owners without deallocating cell memory.
func (o *Occupancy) Clear() {
	for i := range o.cells {
		o.cells[i].owners = o.cells[i].owners[:0]
	}
}

// Insert records owner at cell c. Out-of-range cells are wrapped first.
func (o *Occupancy) Insert(c Cell, owner int) {
	idx := o.index(c)
	o.cells[idx].owners = append(o.cells[idx].owners, owner)
}

// Owners calls fn for each owner at cell c, in insertion order.
// If fn returns true, iteration stops early.
func (o *Occupancy) Owners(c Cell, fn func(owner int) bool) {
	for _, owner := range o.cells[o.index(c)].owners {
		if fn(owner) {
			return
		}
	}
}

// Occupied reports whether any owner other than except sits at cell c.
// Pass a negative except to consider every owner.
func (o *Occupancy) Occupied(c Cell, except int) bool {
	found := false
	o.Owners(c, func(owner int) bool {
		if owner != except {
			found = true
			return true
		}
		return false
	})
	return found
}

func (o *Occupancy) index(c Cell) int {
	c = o.world.Wrap(c.X, c.Y)
	return c.Y*o.world.Width + c.X
}
