package orient

// Change describes one orientation index transition.
type Change struct {
	PrevIndex int
	Index     int
	Prev      Definition
	Current   Definition
}

// VariantChanged reports whether the transition swaps the variant identity.
func (c Change) VariantChanged() bool {
	return c.Prev.VariantID != c.Current.VariantID
}

// AngleOnlyChanged reports whether only the mesh angle differs.
func (c Change) AngleOnlyChanged() bool {
	return !c.VariantChanged() && c.Prev.MeshAngle != c.Current.MeshAngle
}

// Cursor tracks the selected entry of one orientation table.
// The index always stays within [0, len(table)).
type Cursor struct {
	table     Table
	index     int
	observers []func(Change)
}

// NewCursor creates a cursor positioned at index 0.
func NewCursor(t Table) *Cursor {
	return &Cursor{table: t}
}

// Table returns the table the cursor walks.
func (c *Cursor) Table() Table {
	return c.table
}

// Len returns the table length.
func (c *Cursor) Len() int {
	return len(c.table)
}

// Index returns the current index.
func (c *Cursor) Index() int {
	return c.index
}

// Current returns the selected definition, or the zero Definition for an
// empty table.
func (c *Cursor) Current() Definition {
	if len(c.table) == 0 {
		return Definition{}
	}
	return c.table[c.index]
}

// Observe registers fn to receive every change, after the index moved.
func (c *Cursor) Observe(fn func(Change)) {
	c.observers = append(c.observers, fn)
}

// SetIndex moves the cursor to v, wrapped into range. It returns the change
// and true when the index actually moved.
func (c *Cursor) SetIndex(v int) (Change, bool) {
	n := len(c.table)
	if n == 0 {
		c.index = 0
		return Change{}, false
	}
	next := ((v % n) + n) % n
	if next == c.index {
		return Change{}, false
	}

	ch := Change{PrevIndex: c.index, Prev: c.table[c.index]}
	c.index = next
	ch.Index = next
	ch.Current = c.table[next]

	for _, fn := range c.observers {
		fn(ch)
	}
	return ch, true
}

// Rotate steps the cursor by dir (+1 forward, -1 backward).
func (c *Cursor) Rotate(dir int) (Change, bool) {
	return c.SetIndex(c.index + dir)
}

// TrySyncToObjectID moves the cursor to the first entry for id. It reports
// false, leaving the cursor untouched, when the table has no such entry.
func (c *Cursor) TrySyncToObjectID(id ObjectID) bool {
	for i, d := range c.table {
		if d.VariantID == id {
			c.SetIndex(i)
			return true
		}
	}
	return false
}

// Reset replaces the table and seats the cursor on id's entry (or 0)
// without notifying observers.
func (c *Cursor) Reset(t Table, id ObjectID) {
	c.table = t
	c.index = FindIndex(t, id)
}

// Seat moves the cursor to i, wrapped into range, without notifying
// observers.
func (c *Cursor) Seat(i int) {
	n := len(c.table)
	if n == 0 {
		c.index = 0
		return
	}
	c.index = ((i % n) + n) % n
}
