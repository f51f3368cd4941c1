package types

import "github.com/go-errors/errors"

// MissingOracle is returned by floating-limit GetPrice when the caller
// supplied no oracle data or oracle data without a Price. The merge
// readers (GetAsks/GetBids and the best-quote, L2/L3 and fill finders
// built on them) do not return it: they skip a node they cannot price.
var MissingOracle = errors.New("dlob: missing oracle price data")

// UnknownMarket is returned for a marketIndex the DLOB was not
// constructed with by Insert, Update, Remove, Trigger, GetBestAsk,
// GetBestBid, FindCrossingNodesToFill, FindMarketNodesToFill,
// FindNodesToFill, GetL2 and GetL3. GetAsks, GetBids, GetMarketAsks,
// GetMarketBids and FindNodesToTrigger return an empty result instead,
// and InsertBulk skips such orders.
var UnknownMarket = errors.New("dlob: unknown market index")
