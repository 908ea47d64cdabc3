package book

import (
	"sync"

	"github.com/tidwall/btree"
)

// indexEntry is the order index's record for a live order: the order
// itself, the price level it currently rests in, and its offset within
// that level's queue.
type indexEntry struct {
	order *Order
	level *priceLevel
	pos   int
}

// LevelInfo is a price level's summary: the price and the total remaining
// quantity resting there.
type LevelInfo struct {
	Price    Price
	Quantity Quantity
}

// OrderModify requests that a live order be replaced with a new
// side/price/quantity, preserving its original order type.
type OrderModify struct {
	ID       OrderID
	Side     Side
	Price    Price
	Quantity Quantity
}

// Book is a single-symbol limit-order book. It owns two price-time-priority
// queues (bids, asks) and an order index keyed by OrderID, and drains
// crosses via the matching loop on every mutating call. All public methods
// are safe for concurrent use; each takes the book's mutex for its
// duration, giving external callers (including the session-boundary
// pruner in internal/pruner) a single serialization point.
type Book struct {
	mu sync.Mutex

	bids *btree.BTreeG[*priceLevel]
	asks *btree.BTreeG[*priceLevel]

	orders map[OrderID]*indexEntry
}

// New constructs an empty Book.
func New() *Book {
	return &Book{
		bids: btree.NewBTreeG(func(a, b *priceLevel) bool {
			return a.price > b.price // descending: Min() is the best bid
		}),
		asks: btree.NewBTreeG(func(a, b *priceLevel) bool {
			return a.price < b.price // ascending: Min() is the best ask
		}),
		orders: make(map[OrderID]*indexEntry),
	}
}

// Size returns the number of live orders resting on the book.
func (b *Book) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.orders)
}

// Snapshot returns per-side level summaries in price-priority order: bids
// from best (highest) to worst, asks from best (lowest) to worst.
func (b *Book) Snapshot() (bids, asks []LevelInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()

	bids = make([]LevelInfo, 0, b.bids.Len())
	b.bids.Scan(func(l *priceLevel) bool {
		bids = append(bids, LevelInfo{Price: l.price, Quantity: l.totalQuantity()})
		return true
	})
	asks = make([]LevelInfo, 0, b.asks.Len())
	b.asks.Scan(func(l *priceLevel) bool {
		asks = append(asks, LevelInfo{Price: l.price, Quantity: l.totalQuantity()})
		return true
	})
	return bids, asks
}

// Add submits a new order to the book and runs the matching loop to
// completion, returning whatever trades resulted. A duplicate order id is
// silently rejected: nil trades, no change to book state.
func (b *Book) Add(o *Order) []Trade {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.orders[o.ID()]; exists {
		return nil
	}

	switch o.Type() {
	case Market:
		return b.addMarket(o)
	case FillOrKill:
		return b.addFillOrKill(o)
	default:
		return b.addResting(o)
	}
}

// Cancel removes order id from the book. An unknown id is a no-op. Cancel
// never emits trades.
func (b *Book) Cancel(id OrderID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.orders[id]
	if !ok {
		return
	}
	b.removeEntry(e)
}

// Modify replaces a live order with a new side/price/quantity, preserving
// its original order type but losing time priority: the resubmission lands
// at the tail of its new price level. An unknown id returns no trades.
func (b *Book) Modify(m OrderModify) []Trade {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.orders[m.ID]
	if !ok {
		return nil
	}
	orderType := e.order.Type()
	b.removeEntry(e)

	replacement := NewOrder(m.ID, m.Side, orderType, m.Price, m.Quantity)
	if orderType == FillOrKill {
		return b.addFillOrKill(replacement)
	}
	return b.addResting(replacement)
}

// PruneGFD cancels every GoodForDay order on the book. This is the prune
// contract the session-boundary pruner (internal/pruner) calls on a
// schedule; it never emits trades.
func (b *Book) PruneGFD() {
	b.mu.Lock()
	defer b.mu.Unlock()

	var toRemove []*indexEntry
	for _, e := range b.orders {
		if e.order.Type() == GoodForDay {
			toRemove = append(toRemove, e)
		}
	}
	for _, e := range toRemove {
		b.removeEntry(e)
	}
}

// addResting inserts o and runs the matching loop, discarding any
// FillAndKill residual once the book stops crossing. It is also the tail
// call for Market orders once RepriceToGTC has converted them to GTC.
func (b *Book) addResting(o *Order) []Trade {
	b.insert(o)
	trades := b.match()

	if o.Type() == FillAndKill {
		if e, ok := b.orders[o.ID()]; ok {
			b.removeEntry(e)
		}
	}
	return trades
}

// addMarket reprices o to the worst admissible price on the opposing side
// and matches it as an ordinary GTC order. If the opposing side is empty,
// o is rejected untouched.
func (b *Book) addMarket(o *Order) []Trade {
	worst, ok := b.levels(otherSide(o.Side())).Max()
	if !ok {
		return nil
	}
	if err := o.RepriceToGTC(worst.price); err != nil {
		invariant(false, "market order repriced with an invalid price")
	}
	return b.addResting(o)
}

// addFillOrKill pre-checks that the opposing side holds enough quantity at
// acceptable prices to fill o entirely; if not, o is rejected untouched.
func (b *Book) addFillOrKill(o *Order) []Trade {
	if !b.canFill(o) {
		return nil
	}
	return b.addResting(o)
}

// canFill performs a read-only walk of the opposing side, best price
// first, accumulating available quantity at prices acceptable to o until
// either o's remaining quantity is covered or acceptable prices run out.
func (b *Book) canFill(o *Order) bool {
	acceptable := func(lvl *priceLevel) bool {
		if o.Side() == Buy {
			return lvl.price <= o.Price()
		}
		return lvl.price >= o.Price()
	}

	var available Quantity
	b.levels(otherSide(o.Side())).Scan(func(lvl *priceLevel) bool {
		if !acceptable(lvl) {
			return false
		}
		available += lvl.totalQuantity()
		return available < o.RemainingQuantity()
	})
	return available >= o.RemainingQuantity()
}

// levels returns the price-index tree orders of the given side rest in.
func (b *Book) levels(side Side) *btree.BTreeG[*priceLevel] {
	if side == Buy {
		return b.bids
	}
	return b.asks
}

// insert places o at the tail of its price level, creating the level if it
// does not already exist, and records it in the order index.
func (b *Book) insert(o *Order) {
	levels := b.levels(o.Side())
	lvl, ok := levels.GetMut(&priceLevel{price: o.Price()})
	if !ok {
		lvl = newPriceLevel(o.Price())
		levels.Set(lvl)
	}
	pos := lvl.append(o)
	b.orders[o.ID()] = &indexEntry{order: o, level: lvl, pos: pos}
}

// removeEntry swap-removes an order from its level, patches the moved
// order's index entry, prunes the level if it becomes empty, and erases
// the id from the order index. Never emits a trade; used by Cancel, by
// Modify's cancel-then-add, and by the FillAndKill residual discard.
func (b *Book) removeEntry(e *indexEntry) {
	moved := e.level.swapRemove(e.pos)
	if moved != nil {
		b.orders[moved.ID()].pos = e.pos
	}
	if e.level.empty() {
		b.levels(e.order.Side()).Delete(e.level)
	}
	delete(b.orders, e.order.ID())
}

func otherSide(s Side) Side {
	if s == Buy {
		return Sell
	}
	return Buy
}
