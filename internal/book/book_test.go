package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// placeResting helps insert a batch of GoodTillCancel orders at a specific
// price/side, returning the ids assigned in submission order.
func placeResting(t *testing.T, b *Book, startID OrderID, price Price, side Side, quantities ...Quantity) []OrderID {
	t.Helper()
	ids := make([]OrderID, 0, len(quantities))
	for i, qty := range quantities {
		id := startID + OrderID(i)
		trades := b.Add(NewOrder(id, side, GoodTillCancel, price, qty))
		require.Empty(t, trades, "resting order should not cross an empty book")
		ids = append(ids, id)
	}
	return ids
}

func TestEmptyBook(t *testing.T) {
	b := New()
	assert.Equal(t, 0, b.Size())

	bids, asks := b.Snapshot()
	assert.Empty(t, bids)
	assert.Empty(t, asks)
}

func TestAddAndCancel(t *testing.T) {
	b := New()
	placeResting(t, b, 1, 100, Buy, 10, 10)
	assert.Equal(t, 2, b.Size())

	b.Cancel(1)
	b.Cancel(2)
	assert.Equal(t, 0, b.Size())
}

func TestCancelUnknownIsNoop(t *testing.T) {
	b := New()
	placeResting(t, b, 1, 100, Buy, 10)
	b.Cancel(999)
	assert.Equal(t, 1, b.Size())
}

func TestModifyCrossesAndFills(t *testing.T) {
	b := New()
	placeResting(t, b, 1, 100, Buy, 10)
	placeResting(t, b, 2, 100, Buy, 10)
	require.Equal(t, 2, b.Size())

	trades := b.Modify(OrderModify{ID: 2, Side: Sell, Price: 100, Quantity: 10})
	require.Len(t, trades, 1)
	assert.Equal(t, OrderID(1), trades[0].Bid.OrderID)
	assert.Equal(t, OrderID(2), trades[0].Ask.OrderID)
	assert.Equal(t, Quantity(10), trades[0].Bid.Quantity)
	assert.Equal(t, Price(100), trades[0].Bid.Price)
	assert.Equal(t, 0, b.Size())
}

func TestModifyUnknownIsNoop(t *testing.T) {
	b := New()
	trades := b.Modify(OrderModify{ID: 999, Side: Buy, Price: 1, Quantity: 1})
	assert.Empty(t, trades)
}

func TestFillAndKillDiscardsResidual(t *testing.T) {
	b := New()
	placeResting(t, b, 2, 100, Sell, 10)

	trades := b.Add(NewOrder(1, Buy, FillAndKill, 100, 10))
	require.Len(t, trades, 1)
	assert.Equal(t, 0, b.Size(), "both sides of the first match fully fill")

	placeResting(t, b, 3, 250, Buy, 5)
	trades = b.Add(NewOrder(4, Buy, FillAndKill, 100, 10))
	assert.Empty(t, trades, "no ask liquidity left for the second FAK")
	assert.Equal(t, 1, b.Size(), "only order 3 should remain resting")
}

func TestSameSideDoesNotCross(t *testing.T) {
	b := New()
	placeResting(t, b, 1, 1, Buy, 1)
	placeResting(t, b, 2, 1, Buy, 1)
	assert.Equal(t, 2, b.Size())
}

func TestAskAboveBidDoesNotCross(t *testing.T) {
	b := New()
	placeResting(t, b, 1, 1, Buy, 1)
	placeResting(t, b, 2, 2, Sell, 1)
	assert.Equal(t, 2, b.Size())
}

func TestFillOrKillRejectsInsufficientLiquidity(t *testing.T) {
	b := New()
	placeResting(t, b, 1, 100, Sell, 5)
	placeResting(t, b, 2, 101, Sell, 30)
	require.Equal(t, 2, b.Size())

	trades := b.Add(NewOrder(3, Buy, FillOrKill, 100, 20))
	assert.Empty(t, trades)
	assert.Equal(t, 2, b.Size(), "book must be untouched on FOK rejection")
}

func TestFillOrKillFillsWhenLiquiditySuffices(t *testing.T) {
	b := New()
	placeResting(t, b, 1, 100, Sell, 5)
	placeResting(t, b, 2, 101, Sell, 30)

	trades := b.Add(NewOrder(3, Buy, FillOrKill, 101, 20))
	require.Len(t, trades, 2)
	assert.Equal(t, Quantity(5), trades[0].Bid.Quantity)
	assert.Equal(t, Quantity(15), trades[1].Bid.Quantity)
	assert.Equal(t, 1, b.Size(), "order 2 rests with 15 remaining")
}

func TestMarketOrderRejectedWithNoOpposingLiquidity(t *testing.T) {
	b := New()
	trades := b.Add(NewMarketOrder(1, Buy, 10))
	assert.Empty(t, trades)
	assert.Equal(t, 0, b.Size())
}

func TestMarketOrderSweepsAndRests(t *testing.T) {
	b := New()
	placeResting(t, b, 1, 100, Sell, 10)
	placeResting(t, b, 2, 101, Sell, 30)

	trades := b.Add(NewMarketOrder(3, Buy, 15))
	require.Len(t, trades, 2)
	assert.Equal(t, Price(100), trades[0].Ask.Price)
	assert.Equal(t, Quantity(10), trades[0].Bid.Quantity)
	assert.Equal(t, Price(101), trades[1].Ask.Price)
	assert.Equal(t, Quantity(5), trades[1].Bid.Quantity)
	assert.Equal(t, 1, b.Size(), "only the remaining ask at 101 rests")
}

func TestPruneGFDRemovesOnlyGoodForDayOrders(t *testing.T) {
	b := New()
	b.Add(NewOrder(1, Buy, GoodForDay, 100, 10))
	b.Add(NewOrder(2, Buy, GoodTillCancel, 100, 10))
	require.Equal(t, 2, b.Size())

	b.PruneGFD()
	assert.Equal(t, 1, b.Size())

	bids, _ := b.Snapshot()
	require.Len(t, bids, 1)
	assert.Equal(t, Quantity(10), bids[0].Quantity)
}

func TestDuplicateIDIsIdempotent(t *testing.T) {
	b := New()
	b.Add(NewOrder(1, Buy, GoodTillCancel, 100, 10))
	trades := b.Add(NewOrder(1, Buy, GoodTillCancel, 100, 10))
	assert.Empty(t, trades)
	assert.Equal(t, 1, b.Size())
}
