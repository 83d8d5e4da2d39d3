package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/google/uuid"

	"github.com/blen-az/investFX-sub001/internal/domain"
)

// bookEntry represents a single conditional order resting on the book.
type bookEntry struct {
	trigger int64
	seq     uint64 // insertion sequence, breaks ties within a trigger level
	orderID string
	order   *domain.Order
}

// floorLess orders the floor side (orders that fire when the price falls
// to or below their trigger): trigger descending, then insertion order.
// Ascend visits the entries closest to triggering first.
func floorLess(a, b bookEntry) bool {
	if a.trigger != b.trigger {
		return a.trigger > b.trigger
	}
	return a.seq < b.seq
}

// ceilLess orders the ceiling side (orders that fire when the price rises
// to or above their trigger): trigger ascending, then insertion order.
func ceilLess(a, b bookEntry) bool {
	if a.trigger != b.trigger {
		return a.trigger < b.trigger
	}
	return a.seq < b.seq
}

// onFloorSide reports which side of the book an order rests on. Limit
// buys and stop sells fire on a falling price; limit sells and stop buys
// fire on a rising price.
func onFloorSide(o *domain.Order) bool {
	if o.Side == domain.OrderSideBuy {
		return o.Kind == domain.OrderKindLimit
	}
	return o.Kind == domain.OrderKindStop
}

// Book holds pending limit and stop orders in two B-trees keyed by
// trigger price, with a secondary index for O(log n) removal by order ID.
// A single coarse lock makes mutations mutually exclusive with trigger
// scans, so a scan never sees an order mid-removal.
type Book struct {
	mu      sync.RWMutex
	floor   *btree.BTreeG[bookEntry]
	ceil    *btree.BTreeG[bookEntry]
	index   map[string]bookEntry // order_id → entry
	nextSeq uint64
}

// NewBook creates an empty Book.
func NewBook() *Book {
	const degree = 32
	return &Book{
		floor: btree.NewG[bookEntry](degree, floorLess),
		ceil:  btree.NewG[bookEntry](degree, ceilLess),
		index: make(map[string]bookEntry),
	}
}

// Add validates and stores a conditional order, assigning its ID and
// creation time. It returns domain.ErrInvalidOrder for market orders,
// non-positive notionals, or non-positive trigger prices.
func (b *Book) Add(o *domain.Order) (string, error) {
	if o.Kind != domain.OrderKindLimit && o.Kind != domain.OrderKindStop {
		return "", domain.ErrInvalidOrder
	}
	if o.Side != domain.OrderSideBuy && o.Side != domain.OrderSideSell {
		return "", domain.ErrInvalidOrder
	}
	if o.NotionalCents <= 0 || o.TriggerCents <= 0 {
		return "", domain.ErrInvalidOrder
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	o.OrderID = uuid.New().String()
	o.CreatedAt = time.Now()
	b.nextSeq++

	entry := bookEntry{
		trigger: o.TriggerCents,
		seq:     b.nextSeq,
		orderID: o.OrderID,
		order:   o,
	}
	if onFloorSide(o) {
		b.floor.ReplaceOrInsert(entry)
	} else {
		b.ceil.ReplaceOrInsert(entry)
	}
	b.index[o.OrderID] = entry

	return o.OrderID, nil
}

// Cancel removes the order only if it exists and belongs to ownerID.
// It is idempotent: a missing order or a foreign owner returns false,
// never an error, and leaves the book unchanged.
func (b *Book) Cancel(orderID, ownerID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.index[orderID]
	if !ok || entry.order.AccountID != ownerID {
		return false
	}
	b.removeLocked(entry)
	return true
}

// Remove deletes an order after successful execution. Unknown IDs are a
// no-op.
func (b *Book) Remove(orderID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entry, ok := b.index[orderID]
	if !ok {
		return
	}
	b.removeLocked(entry)
}

func (b *Book) removeLocked(entry bookEntry) {
	delete(b.index, entry.orderID)
	// Delete is a no-op on the side the entry isn't on.
	b.floor.Delete(entry)
	b.ceil.Delete(entry)
}

// Triggered returns, without removing, every pending order whose trigger
// condition holds at the given price: the floor side down to the price,
// then the ceiling side up to it. Each side is visited in (trigger,
// insertion) order, so the result is deterministic.
func (b *Book) Triggered(priceCents int64) []*domain.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []*domain.Order
	b.floor.Ascend(func(e bookEntry) bool {
		if e.trigger < priceCents {
			return false
		}
		out = append(out, e.order)
		return true
	})
	b.ceil.Ascend(func(e bookEntry) bool {
		if e.trigger > priceCents {
			return false
		}
		out = append(out, e.order)
		return true
	})
	return out
}

// ListByOwner returns the owner's pending orders, oldest first.
func (b *Book) ListByOwner(ownerID string) []*domain.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	entries := make([]bookEntry, 0)
	for _, e := range b.index {
		if e.order.AccountID == ownerID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	out := make([]*domain.Order, len(entries))
	for i, e := range entries {
		out[i] = e.order
	}
	return out
}

// Len returns the number of pending orders on the book.
func (b *Book) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.index)
}
