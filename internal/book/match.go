package book

// match drains crossed price levels one trade at a time until the book is
// no longer crossed (best bid < best ask, or either side is empty),
// enforcing price-time priority by always matching the head of the
// best-priced queue on each side.
func (b *Book) match() []Trade {
	var trades []Trade

	for {
		bidLvl, bidOk := b.bids.Min()
		askLvl, askOk := b.asks.Min()
		if !bidOk || !askOk {
			break
		}
		if bidLvl.price < askLvl.price {
			break
		}

		bidOrder := bidLvl.head()
		askOrder := askLvl.head()
		invariant(bidOrder.Side() == Buy, "bid queue holds a non-buy order")
		invariant(askOrder.Side() == Sell, "ask queue holds a non-sell order")

		qty := bidOrder.RemainingQuantity()
		if askOrder.RemainingQuantity() < qty {
			qty = askOrder.RemainingQuantity()
		}

		if err := bidOrder.Fill(qty); err != nil {
			invariant(false, "bid overfilled during match: "+err.Error())
		}
		if err := askOrder.Fill(qty); err != nil {
			invariant(false, "ask overfilled during match: "+err.Error())
		}

		trades = append(trades, newTrade(bidOrder, askOrder, qty))

		if bidOrder.IsFilled() {
			b.popMatchedHead(bidLvl, Buy)
		}
		if askOrder.IsFilled() {
			b.popMatchedHead(askLvl, Sell)
		}
	}

	return trades
}

// popMatchedHead removes a fully-filled head order from lvl, re-indexing
// every surviving entry's position, and prunes the level from the price
// index once it is empty.
func (b *Book) popMatchedHead(lvl *priceLevel, side Side) {
	head := lvl.head()
	delete(b.orders, head.ID())
	lvl.popHead()

	for i, o := range lvl.orders {
		entry, ok := b.orders[o.ID()]
		invariant(ok, "order missing from index after head-pop")
		entry.pos = i
	}

	if lvl.empty() {
		b.levels(side).Delete(lvl)
	}
}
