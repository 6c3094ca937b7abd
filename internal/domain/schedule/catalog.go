package schedule

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrEmptyCatalog     = errors.New("time slot catalog is empty")
	ErrDuplicateSlot    = errors.New("time slot catalog has duplicate entries")
	ErrCatalogOrder     = errors.New("time slot ids are not in chronological order")
	ErrInvalidDayWindow = errors.New("opening time must be before closing time")
)

// Catalog is the ordered list of a clinic day's blocks. Positions, not ids, define adjacency.
type Catalog struct {
	slots []TimeSlot
	index map[SlotID]int
}

func NewCatalog(slots []TimeSlot) (*Catalog, error) {
	if len(slots) == 0 {
		return nil, ErrEmptyCatalog
	}

	sorted := slices.Clone(slots)
	slices.SortStableFunc(sorted, func(a, b TimeSlot) int {
		return a.start.Compare(b.start)
	})

	index := make(map[SlotID]int, len(sorted))
	for i, s := range sorted {
		if _, dup := index[s.id]; dup {
			return nil, ErrDuplicateSlot
		}
		if i > 0 {
			prev := sorted[i-1]
			if prev.start.Equal(s.start) {
				return nil, ErrDuplicateSlot
			}
			if prev.id >= s.id {
				return nil, ErrCatalogOrder
			}
		}
		index[s.id] = i
	}

	return &Catalog{slots: sorted, index: index}, nil
}

// GenerateCatalog lays out back-to-back blocks from open until the last block that ends by closing.
// Ids are assigned 1..n in chronological order.
func GenerateCatalog(open, closing TimeOfDay, blockMinutes int) (*Catalog, error) {
	if blockMinutes <= 0 {
		return nil, ErrInvalidBlockLength
	}
	if !open.Before(closing) {
		return nil, ErrInvalidDayWindow
	}

	block := time.Duration(blockMinutes) * time.Minute
	var slots []TimeSlot
	for start := open; !start.Add(block).After(closing); start = start.Add(block) {
		slots = append(slots, NewTimeSlot(SlotID(len(slots)+1), start))
	}
	return NewCatalog(slots)
}

func (c *Catalog) OrderedSlots() []TimeSlot {
	return slices.Clone(c.slots)
}

func (c *Catalog) IndexOf(id SlotID) (int, bool) {
	pos, ok := c.index[id]
	return pos, ok
}

func (c *Catalog) At(pos int) TimeSlot {
	return c.slots[pos]
}

func (c *Catalog) Len() int {
	return len(c.slots)
}

// Run returns the n consecutive slots starting at pos. ok is false when the run leaves the catalog.
func (c *Catalog) Run(pos, n int) ([]TimeSlot, bool) {
	if pos < 0 || n < 1 || pos+n > len(c.slots) {
		return nil, false
	}
	return c.slots[pos : pos+n], true
}

// RunIDs is Run keyed by the starting slot id
func (c *Catalog) RunIDs(start SlotID, n int) ([]SlotID, bool) {
	pos, ok := c.IndexOf(start)
	if !ok {
		return nil, false
	}
	run, ok := c.Run(pos, n)
	if !ok {
		return nil, false
	}
	ids := make([]SlotID, len(run))
	for i, s := range run {
		ids[i] = s.id
	}
	return ids, true
}
