// Package math holds the pure price arithmetic OrderNode.GetPrice and
// the trigger scanner build on: auction interpolation and limit-price
// resolution, carried over from the teacher's math package and
// narrowed to the order types this module actually works with.
package math

import (
	"math/big"

	"github.com/drift-labs/dlobd/order"
	"github.com/drift-labs/dlobd/utils"
)

// IsAuctionComplete reports whether an order's Dutch auction has run
// its course. spec.md §4.1: true iff slot >= order.ts + auctionDuration.
func IsAuctionComplete(o *order.Order, slot uint64) bool {
	if o.AuctionDuration == 0 {
		return true
	}
	return slot >= o.Slot+uint64(o.AuctionDuration)
}

// GetAuctionPrice linearly interpolates between AuctionStartPrice and
// AuctionEndPrice over AuctionDuration slots, clamping at the end price
// once the auction has completed.
func GetAuctionPrice(o *order.Order, slot uint64) *big.Int {
	var slotsElapsed uint64
	if slot > o.Slot {
		slotsElapsed = slot - o.Slot
	}

	deltaDenominator := uint64(o.AuctionDuration)
	if deltaDenominator == 0 {
		return big.NewInt(o.AuctionEndPrice)
	}
	deltaNumerator := slotsElapsed
	if deltaNumerator > deltaDenominator {
		deltaNumerator = deltaDenominator
	}

	priceDelta := utils.DivX(
		utils.MulX(big.NewInt(o.AuctionEndPrice-o.AuctionStartPrice), big.NewInt(int64(deltaNumerator))),
		big.NewInt(int64(deltaDenominator)),
	)

	return utils.AddX(big.NewInt(o.AuctionStartPrice), priceDelta)
}
