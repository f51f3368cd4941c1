package math

import (
	"math/big"

	"github.com/drift-labs/dlobd/dlob/types"
	"github.com/drift-labs/dlobd/order"
	"github.com/drift-labs/dlobd/oracles"
	"github.com/drift-labs/dlobd/utils"
)

// GetLimitPrice resolves an OrderNode's price, spec.md §4.1: a market
// order's auction curve takes precedence (live or complete - the curve
// itself clamps to AuctionEndPrice past completion), then a
// floating-limit offset against the oracle, then the order's fixed
// price.
func GetLimitPrice(o *order.Order, oraclePriceData *oracles.OraclePriceData, slot uint64) (*big.Int, error) {
	if o.AuctionDuration != 0 {
		return GetAuctionPrice(o, slot), nil
	}
	if o.OraclePriceOffset != 0 {
		if oraclePriceData == nil || oraclePriceData.Price == nil {
			return nil, types.MissingOracle
		}
		return utils.AddX(oraclePriceData.Price, big.NewInt(o.OraclePriceOffset)), nil
	}
	return big.NewInt(o.Price), nil
}
