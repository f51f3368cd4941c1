// Package types declares the interfaces and small value types the
// dlob package builds on, split out the way the teacher keeps its own
// dlob/types package separate from the dlob package itself.
package types

import (
	"math/big"

	"github.com/drift-labs/dlobd/common"
	"github.com/drift-labs/dlobd/oracles"
	"github.com/drift-labs/dlobd/order"
)

// DLOBNodeType distinguishes the four order-side classes plus the
// synthetic vAMM node, spec.md §4.1.
type DLOBNodeType int

const (
	NodeTypeLimit DLOBNodeType = iota
	NodeTypeFloatingLimit
	NodeTypeMarket
	NodeTypeTrigger
	NodeTypeVamm
)

func (t DLOBNodeType) String() string {
	switch t {
	case NodeTypeLimit:
		return "limit"
	case NodeTypeFloatingLimit:
		return "floatingLimit"
	case NodeTypeMarket:
		return "market"
	case NodeTypeTrigger:
		return "trigger"
	case NodeTypeVamm:
		return "vamm"
	default:
		return "unknown"
	}
}

// DLOBNodeSubType is the side a node sits on: bid/ask for the four
// fillable classes, above/below for the trigger direction.
type DLOBNodeSubType int

const (
	NodeSubTypeBid DLOBNodeSubType = iota
	NodeSubTypeAsk
	NodeSubTypeAbove
	NodeSubTypeBelow
)

func (s DLOBNodeSubType) String() string {
	switch s {
	case NodeSubTypeBid:
		return "bid"
	case NodeSubTypeAsk:
		return "ask"
	case NodeSubTypeAbove:
		return "above"
	case NodeSubTypeBelow:
		return "below"
	default:
		return "unknown"
	}
}

// IDLOBNode is the common surface every list entry satisfies: priced
// orders (OrderNode) and the synthetic constant-price VammNode.
type IDLOBNode interface {
	GetPrice(oraclePriceData *oracles.OraclePriceData, slot uint64) (*big.Int, error)
	IsVammNode() bool
	IsBaseFilled() bool
	GetOrder() *order.Order
	GetUserAccount() string
	Signature() string
}

// DLOBFilterFcn lets a caller of GetAsks/GetBids exclude nodes from a
// merge walk without mutating the underlying lists. GetL2 and GetL3 do
// not take a filter.
type DLOBFilterFcn func(node IDLOBNode) bool

// NodeToFill is a single crossing-pair verdict from findCrossingNodesToFill
// or findMarketNodesToFill, spec.md §4.5: one taker against one maker
// (or, for a market/vAMM fill, a nil MakerNode).
type NodeToFill struct {
	Node      IDLOBNode
	MakerNode IDLOBNode
}

// NodeToTrigger is a single verdict from findNodesToTrigger, spec.md §4.7.
type NodeToTrigger struct {
	Node IDLOBNode
}

// IDLOB is the external interface spec.md §6 lists: mutators, crossing
// finders, the trigger scanner and the best-quote/book-view readers.
type IDLOB interface {
	Insert(o *order.Order, userAccount string, onInsert ...func(IDLOBNode)) error
	Update(o *order.Order, userAccount string, onUpdate ...func(IDLOBNode)) error
	Remove(o *order.Order, userAccount string, onRemove ...func(IDLOBNode)) error
	Trigger(o *order.Order, userAccount string, onTrigger ...func(IDLOBNode)) error

	InsertBulk(orders []*order.Order, userAccounts []string)

	FindCrossingNodesToFill(marketIndex uint16, vBid *big.Int, vAsk *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData) ([]*NodeToFill, error)
	FindMarketNodesToFill(marketIndex uint16, slot uint64, oraclePriceData *oracles.OraclePriceData) ([]*NodeToFill, error)
	FindNodesToFill(marketIndex uint16, vBid *big.Int, vAsk *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData) ([]*NodeToFill, error)
	FindNodesToTrigger(marketIndex uint16, slot uint64, oraclePrice *big.Int) []*NodeToTrigger

	GetBestAsk(marketIndex uint16, vAsk *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData) (*big.Int, error)
	GetBestBid(marketIndex uint16, vBid *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData) (*big.Int, error)

	GetAsks(marketIndex uint16, vAsk *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData, filterFcn ...DLOBFilterFcn) *common.Generator[IDLOBNode, int]
	GetBids(marketIndex uint16, vBid *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData, filterFcn ...DLOBFilterFcn) *common.Generator[IDLOBNode, int]

	GetMarketAsks(marketIndex uint16) *common.Generator[IDLOBNode, int]
	GetMarketBids(marketIndex uint16) *common.Generator[IDLOBNode, int]
}
