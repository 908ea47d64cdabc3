package book

import "github.com/google/uuid"

// TradeInfo is one participant's leg of a trade.
type TradeInfo struct {
	OrderID  OrderID
	Price    Price
	Quantity Quantity
}

// Trade pairs the bid and ask legs of a single match. ExecID tags the
// execution for downstream consumers (a report, an audit trail) that sit
// outside this package.
type Trade struct {
	ExecID string
	Bid    TradeInfo
	Ask    TradeInfo
}

func newTrade(bid, ask *Order, qty Quantity) Trade {
	return Trade{
		ExecID: uuid.NewString(),
		Bid: TradeInfo{
			OrderID:  bid.ID(),
			Price:    bid.Price(),
			Quantity: qty,
		},
		Ask: TradeInfo{
			OrderID:  ask.ID(),
			Price:    ask.Price(),
			Quantity: qty,
		},
	}
}
