package dlob

import (
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/drift-labs/dlobd/dlob/types"
	"github.com/drift-labs/dlobd/order"
	"github.com/drift-labs/dlobd/oracles"
)

const testMarket uint16 = 0

func bidOrder(id uint32, price int64, slot uint64, postOnly bool) *order.Order {
	return &order.Order{
		OrderId:               id,
		MarketIndex:           testMarket,
		Status:                order.OrderStatusOpen,
		OrderType:             order.OrderTypeLimit,
		Direction:             order.PositionDirectionLong,
		Price:                 price,
		Slot:                  slot,
		PostOnly:              postOnly,
		BaseAssetAmount:       1,
		BaseAssetAmountFilled: 0,
	}
}

func askOrder(id uint32, price int64, slot uint64, postOnly bool) *order.Order {
	return &order.Order{
		OrderId:               id,
		MarketIndex:           testMarket,
		Status:                order.OrderStatusOpen,
		OrderType:             order.OrderTypeLimit,
		Direction:             order.PositionDirectionShort,
		Price:                 price,
		Slot:                  slot,
		PostOnly:              postOnly,
		BaseAssetAmount:       1,
		BaseAssetAmountFilled: 0,
	}
}

// Scenario 1: simple cross, older order is maker.
func TestSimpleCross(t *testing.T) {
	book := New([]uint16{testMarket})
	if err := book.Insert(bidOrder(1, 100, 1, false), "bidder"); err != nil {
		t.Fatal(err)
	}
	if err := book.Insert(askOrder(2, 100, 2, false), "asker"); err != nil {
		t.Fatal(err)
	}

	fills, err := book.FindCrossingNodesToFill(testMarket, nil, nil, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(fills) != 1 {
		spew.Dump(fills)
		t.Fatalf("expected one fill, got %d", len(fills))
	}
	if fills[0].Node.GetOrder().OrderId != 2 {
		t.Fatalf("expected the ask (newer) to be the taker, got order %d", fills[0].Node.GetOrder().OrderId)
	}
	if fills[0].MakerNode.GetOrder().OrderId != 1 {
		t.Fatalf("expected the bid (older) to be the maker, got order %d", fills[0].MakerNode.GetOrder().OrderId)
	}
}

// Scenario 2: a postOnly maker wins even though it is newer.
func TestPostOnlyMakerWins(t *testing.T) {
	book := New([]uint16{testMarket})
	if err := book.Insert(bidOrder(1, 100, 5, true), "bidder"); err != nil {
		t.Fatal(err)
	}
	if err := book.Insert(askOrder(2, 99, 1, false), "asker"); err != nil {
		t.Fatal(err)
	}

	fills, err := book.FindCrossingNodesToFill(testMarket, nil, nil, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(fills) != 1 {
		t.Fatalf("expected one fill, got %d", len(fills))
	}
	if fills[0].Node.GetOrder().OrderId != 2 {
		t.Fatalf("expected the ask to be the taker, got order %d", fills[0].Node.GetOrder().OrderId)
	}
	if fills[0].MakerNode.GetOrder().OrderId != 1 {
		t.Fatalf("expected the postOnly bid to be the maker despite being newer, got order %d", fills[0].MakerNode.GetOrder().OrderId)
	}
}

// Scenario 3: both postOnly deadlocks, zero fills.
func TestBothPostOnlyDeadlock(t *testing.T) {
	book := New([]uint16{testMarket})
	if err := book.Insert(bidOrder(1, 100, 1, true), "bidder"); err != nil {
		t.Fatal(err)
	}
	if err := book.Insert(askOrder(2, 99, 2, true), "asker"); err != nil {
		t.Fatal(err)
	}

	fills, err := book.FindCrossingNodesToFill(testMarket, nil, nil, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(fills) != 0 {
		t.Fatalf("expected zero fills between two postOnly orders, got %d", len(fills))
	}
}

// Scenario 4: a user bid crosses the vAMM quote at a better price than a
// resting peer ask, so it must defer to the vAMM and never be
// peer-to-peer matched against that resting ask, spec.md §8.4.
func TestVammCrossIsNotPeerMatched(t *testing.T) {
	book := New([]uint16{testMarket})
	if err := book.Insert(bidOrder(1, 105, 1, false), "bidder"); err != nil {
		t.Fatal(err)
	}
	// Resting ask at 102 is worse than the vAMM's 100, but still crosses
	// the 105 bid on price alone - the walk must not match them anyway.
	if err := book.Insert(askOrder(2, 102, 2, false), "asker"); err != nil {
		t.Fatal(err)
	}

	fills, err := book.FindCrossingNodesToFill(testMarket, nil, big.NewInt(100), 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(fills) != 0 {
		spew.Dump(fills)
		t.Fatalf("expected the bid to defer to the better-priced vAMM quote instead of peer-matching the resting ask, got %d fills", len(fills))
	}

	best, err := book.GetBestAsk(testMarket, big.NewInt(100), 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if best == nil || best.Int64() != 100 {
		t.Fatalf("expected the vAMM quote 100 to stand in as best ask, got %v", best)
	}
}

// Scenario 5: floating-limit sort by offset still matches sort by live price.
// Uses offset 1 rather than 0 for the low-offset order: spec.md §3 routes
// floating-limit only on a nonzero oraclePriceOffset, so an exact-zero
// offset would route as a plain limit order instead.
func TestFloatingLimitSortUnderOracleShift(t *testing.T) {
	book := New([]uint16{testMarket})

	lowOffset := bidOrder(1, 0, 1, false)
	lowOffset.OraclePriceOffset = 1
	fiveOffset := bidOrder(2, 0, 2, false)
	fiveOffset.OraclePriceOffset = 5

	if err := book.Insert(lowOffset, "bidderA"); err != nil {
		t.Fatal(err)
	}
	if err := book.Insert(fiveOffset, "bidderB"); err != nil {
		t.Fatal(err)
	}

	priceData := &oracles.OraclePriceData{Price: big.NewInt(50)}
	best, err := book.GetBestBid(testMarket, nil, 10, priceData)
	if err != nil {
		t.Fatal(err)
	}
	if best.Int64() != 55 {
		t.Fatalf("expected best bid 55 at oracle=50, got %s", best.String())
	}

	var firstID uint32
	book.GetBids(testMarket, nil, 10, priceData).Each(func(node types.IDLOBNode, idx int) bool {
		if idx == 0 {
			firstID = node.GetOrder().OrderId
		}
		return idx > 0
	})
	if firstID != 2 {
		t.Fatalf("expected the +5 offset order to lead at oracle=50, got order %d", firstID)
	}

	priceData.Price = big.NewInt(30)
	best, err = book.GetBestBid(testMarket, nil, 10, priceData)
	if err != nil {
		t.Fatal(err)
	}
	if best.Int64() != 35 {
		t.Fatalf("expected best bid 35 at oracle=30, got %s", best.String())
	}

	firstID = 0
	book.GetBids(testMarket, nil, 10, priceData).Each(func(node types.IDLOBNode, idx int) bool {
		if idx == 0 {
			firstID = node.GetOrder().OrderId
		}
		return idx > 0
	})
	if firstID != 2 {
		t.Fatalf("expected the +5 offset order to still lead after the oracle moved, got order %d", firstID)
	}
}

// Scenario 6: trigger scan halts at the first non-crossing node.
func TestTriggerScanHaltsAtFirstNonCrossing(t *testing.T) {
	book := New([]uint16{testMarket})

	trigger := func(id uint32, triggerPrice int64) *order.Order {
		return &order.Order{
			OrderId:          id,
			MarketIndex:      testMarket,
			Status:           order.OrderStatusOpen,
			OrderType:        order.OrderTypeTriggerLimit,
			TriggerCondition: order.TriggerConditionAbove,
			TriggerPrice:     triggerPrice,
			Direction:        order.PositionDirectionLong,
			BaseAssetAmount:  1,
		}
	}

	for _, tp := range []int64{90, 95, 100} {
		if err := book.Insert(trigger(uint32(tp), tp), "trader"); err != nil {
			t.Fatal(err)
		}
	}

	triggers := book.FindNodesToTrigger(testMarket, 10, big.NewInt(97))
	if len(triggers) != 2 {
		t.Fatalf("expected two triggers, got %d", len(triggers))
	}
	if triggers[0].Node.GetOrder().TriggerPrice != 90 || triggers[1].Node.GetOrder().TriggerPrice != 95 {
		t.Fatalf("expected triggers for {90, 95} in that order, got %d, %d",
			triggers[0].Node.GetOrder().TriggerPrice, triggers[1].Node.GetOrder().TriggerPrice)
	}
}

func TestInsertRejectsUnknownMarket(t *testing.T) {
	book := New([]uint16{testMarket})
	o := bidOrder(1, 100, 1, false)
	o.MarketIndex = 99

	err := book.Insert(o, "bidder")
	if err != types.UnknownMarket {
		t.Fatalf("expected UnknownMarket, got %v", err)
	}
}

func TestInsertSilentlyIgnoresInitStatus(t *testing.T) {
	book := New([]uint16{testMarket})
	o := bidOrder(1, 100, 1, false)
	o.Status = order.OrderStatusInit

	if err := book.Insert(o, "bidder"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(book.GetDLOBOrders()) != 0 {
		t.Fatal("an init-status order must never join the book")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	book := New([]uint16{testMarket})
	o := bidOrder(1, 100, 1, false)
	if err := book.Insert(o, "bidder"); err != nil {
		t.Fatal(err)
	}
	if err := book.Remove(o, "bidder"); err != nil {
		t.Fatal(err)
	}
	if err := book.Remove(o, "bidder"); err != nil {
		t.Fatalf("a replayed remove must stay a no-op, got error: %v", err)
	}
}

func TestFindCrossingNodesToFillCapsAtTen(t *testing.T) {
	book := New([]uint16{testMarket})
	for i := uint32(0); i < 20; i++ {
		if err := book.Insert(bidOrder(i*2+1, 100, uint64(i*2+1), false), "bidder"); err != nil {
			t.Fatal(err)
		}
		if err := book.Insert(askOrder(i*2+2, 100, uint64(i*2+2), false), "asker"); err != nil {
			t.Fatal(err)
		}
	}

	fills, err := book.FindCrossingNodesToFill(testMarket, nil, nil, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(fills) != MaxFillsPerCall {
		t.Fatalf("expected the cap of %d fills, got %d", MaxFillsPerCall, len(fills))
	}
}

// A market order's completed Dutch auction surfaces via
// FindMarketNodesToFill with no maker, since it is matched against the
// vAMM by the caller rather than a peer order, spec.md §4.5/§8.4.
func TestFindMarketNodesToFillEmitsCompletedAuctionOrder(t *testing.T) {
	book := New([]uint16{testMarket})
	o := &order.Order{
		OrderId:           1,
		MarketIndex:       testMarket,
		Status:            order.OrderStatusOpen,
		OrderType:         order.OrderTypeMarket,
		Direction:         order.PositionDirectionLong,
		Slot:              1,
		AuctionDuration:   5,
		AuctionStartPrice: 100,
		AuctionEndPrice:   110,
		BaseAssetAmount:   1,
	}
	if err := book.Insert(o, "taker"); err != nil {
		t.Fatal(err)
	}

	// Slot 10 is past Slot(1) + AuctionDuration(5): the auction is over.
	fills, err := book.FindMarketNodesToFill(testMarket, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(fills) != 1 {
		t.Fatalf("expected one completed-auction market fill, got %d", len(fills))
	}
	if fills[0].Node.GetOrder().OrderId != 1 {
		t.Fatalf("expected order 1 to be the fill, got %d", fills[0].Node.GetOrder().OrderId)
	}
	if fills[0].MakerNode != nil {
		t.Fatalf("expected no maker for a market-vs-vAMM fill, got %v", fills[0].MakerNode)
	}
}

// A triggered order migrates out of trigger.{above,below} into its
// limit/market list and stops being reported by FindNodesToTrigger,
// spec.md §4.3.
func TestTriggerMigratesOrderOutOfTriggerList(t *testing.T) {
	book := New([]uint16{testMarket})
	o := &order.Order{
		OrderId:          5,
		MarketIndex:      testMarket,
		Status:           order.OrderStatusOpen,
		OrderType:        order.OrderTypeTriggerLimit,
		Direction:        order.PositionDirectionLong,
		TriggerCondition: order.TriggerConditionAbove,
		TriggerPrice:     100,
		Price:            100,
		Slot:             1,
		BaseAssetAmount:  1,
	}
	if err := book.Insert(o, "trigger-user"); err != nil {
		t.Fatal(err)
	}

	if triggers := book.FindNodesToTrigger(testMarket, 10, big.NewInt(101)); len(triggers) != 1 {
		t.Fatalf("expected one trigger-eligible node before migration, got %d", len(triggers))
	}

	o.Triggered = true
	if err := book.Trigger(o, "trigger-user"); err != nil {
		t.Fatal(err)
	}

	if triggers := book.FindNodesToTrigger(testMarket, 10, big.NewInt(101)); len(triggers) != 0 {
		t.Fatalf("expected the triggered order to no longer appear in FindNodesToTrigger, got %d", len(triggers))
	}

	best, err := book.GetBestBid(testMarket, nil, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if best == nil || best.Int64() != 100 {
		t.Fatalf("expected the migrated order to now be the best bid at 100, got %v", best)
	}
}
