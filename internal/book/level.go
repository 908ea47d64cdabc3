package book

// priceLevel is the FIFO queue of orders resting at a single price on one
// side. orders[0] is always the oldest (next to match); new orders are
// appended at the tail.
type priceLevel struct {
	price  Price
	orders []*Order
}

func newPriceLevel(price Price) *priceLevel {
	return &priceLevel{price: price}
}

func (l *priceLevel) empty() bool {
	return len(l.orders) == 0
}

func (l *priceLevel) head() *Order {
	return l.orders[0]
}

// append places o at the tail of the queue, losing any prior time
// priority it may have had.
func (l *priceLevel) append(o *Order) int {
	l.orders = append(l.orders, o)
	return len(l.orders) - 1
}

// popHead removes the queue head after it has been fully filled, re-slicing
// past it. The caller is responsible for re-indexing the orders that shift
// position as a result.
func (l *priceLevel) popHead() {
	l.orders = l.orders[1:]
}

// swapRemove removes the order at pos in O(1) by moving the tail order into
// its slot. It returns the order that moved into pos (nil if pos was the
// last slot) so the caller can patch that order's index entry.
func (l *priceLevel) swapRemove(pos int) *Order {
	last := len(l.orders) - 1
	l.orders[pos] = l.orders[last]
	l.orders[last] = nil
	l.orders = l.orders[:last]
	if pos == last || len(l.orders) == 0 {
		return nil
	}
	return l.orders[pos]
}

// totalQuantity sums the remaining quantity of every order resting at this
// level, for snapshot reporting.
func (l *priceLevel) totalQuantity() Quantity {
	var sum Quantity
	for _, o := range l.orders {
		sum += o.RemainingQuantity()
	}
	return sum
}
