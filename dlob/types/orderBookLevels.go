package types

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// L2Level is a single aggregated price level: every order resting at
// that price, summed.
type L2Level struct {
	Price *big.Int
	Size  *big.Int
}

type L2OrderBook struct {
	Asks []*L2Level
	Bids []*L2Level
	Slot uint64
}

// L3Level is a single raw order, unaggregated, the way a caller that
// wants to render maker identity rather than just depth needs it.
type L3Level struct {
	Price   *big.Int
	Size    *big.Int
	Maker   solana.PublicKey
	OrderId uint32
}

type L3OrderBook struct {
	Asks []L3Level
	Bids []L3Level
	Slot uint64
}
