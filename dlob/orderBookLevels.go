package dlob

import (
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/drift-labs/dlobd/common"
	"github.com/drift-labs/dlobd/dlob/types"
	"github.com/drift-labs/dlobd/oracles"
)

// createLevels aggregates a priority-ordered node stream into price
// levels, merging consecutive nodes that land on the same price the
// way the teacher's CreateL2Levels folds same-price DLOBNode entries,
// stopping once depth levels have been produced.
func createLevels(nodes *common.Generator[types.IDLOBNode, int], oraclePriceData *oracles.OraclePriceData, slot uint64, depth int) []*types.L2Level {
	var levels []*types.L2Level
	nodes.Each(func(node types.IDLOBNode, idx int) bool {
		price, err := node.GetPrice(oraclePriceData, slot)
		if err != nil || price == nil {
			return false
		}
		o := node.GetOrder()
		var size *big.Int
		if o != nil {
			size = big.NewInt(int64(o.BaseAssetAmount - o.BaseAssetAmountFilled))
		} else {
			size = big.NewInt(0)
		}

		if len(levels) > 0 && levels[len(levels)-1].Price.Cmp(price) == 0 {
			levels[len(levels)-1].Size.Add(levels[len(levels)-1].Size, size)
			return false
		}
		if depth > 0 && len(levels) == depth {
			return true
		}
		levels = append(levels, &types.L2Level{Price: price, Size: size})
		return false
	})
	return levels
}

// GetL2 returns an aggregated price-level view of the book, a pure
// projection recomputed on every call over the same merge iterators
// the matching engine uses (SPEC_FULL.md §4).
func (p *DLOB) GetL2(marketIndex uint16, vBid *big.Int, vAsk *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData, depth int) (*types.L2OrderBook, error) {
	if _, exists := p.orderLists[marketIndex]; !exists {
		return nil, types.UnknownMarket
	}
	return &types.L2OrderBook{
		Asks: createLevels(p.GetAsks(marketIndex, vAsk, slot, oraclePriceData), oraclePriceData, slot, depth),
		Bids: createLevels(p.GetBids(marketIndex, vBid, slot, oraclePriceData), oraclePriceData, slot, depth),
		Slot: slot,
	}, nil
}

// GetL3 returns the raw, unaggregated order view: one entry per node,
// identifying the maker, useful to a caller that wants to render book
// ownership rather than just depth.
func (p *DLOB) GetL3(marketIndex uint16, vBid *big.Int, vAsk *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData) (*types.L3OrderBook, error) {
	if _, exists := p.orderLists[marketIndex]; !exists {
		return nil, types.UnknownMarket
	}

	book := &types.L3OrderBook{Slot: slot}

	collect := func(nodes *common.Generator[types.IDLOBNode, int]) []types.L3Level {
		var out []types.L3Level
		nodes.Each(func(node types.IDLOBNode, idx int) bool {
			o := node.GetOrder()
			if o == nil {
				return false
			}
			price, err := node.GetPrice(oraclePriceData, slot)
			if err != nil || price == nil {
				return false
			}
			out = append(out, types.L3Level{
				Price:   price,
				Size:    big.NewInt(int64(o.BaseAssetAmount - o.BaseAssetAmountFilled)),
				OrderId: o.OrderId,
				Maker:   solana.MustPublicKeyFromBase58(node.GetUserAccount()),
			})
			return false
		})
		return out
	}

	book.Asks = collect(p.GetAsks(marketIndex, vAsk, slot, oraclePriceData))
	book.Bids = collect(p.GetBids(marketIndex, vBid, slot, oraclePriceData))
	return book, nil
}
