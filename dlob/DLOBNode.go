package dlob

import (
	"math/big"

	"github.com/drift-labs/dlobd/dlob/types"
	"github.com/drift-labs/dlobd/math"
	"github.com/drift-labs/dlobd/oracles"
	"github.com/drift-labs/dlobd/order"
)

// OrderNode wraps a user Order with the node bookkeeping NodeList
// needs: its class (for GetSortValue), and the doubly-linked pointers
// NodeList.Insert/Remove maintain.
type OrderNode struct {
	Order       *order.Order
	UserAccount string

	nodeType types.DLOBNodeType
	next     *OrderNode
	previous *OrderNode

	sortValue int64
}

// VammNode is the synthetic single-element stream standing in for the
// vAMM's current quote, spec.md §3: "price = the caller-supplied vBid
// or vAsk". It carries no order and no user.
type VammNode struct {
	price *big.Int
}

func CreateNode(nodeType types.DLOBNodeType, o *order.Order, userAccount string) *OrderNode {
	n := &OrderNode{
		Order:       o,
		UserAccount: userAccount,
		nodeType:    nodeType,
	}
	n.sortValue = n.GetSortValue(o)
	return n
}

// GetSortValue is the NodeList.Insert ordering key, spec.md §4.2: the
// price for limit nodes, the offset for floating-limit (a stable proxy
// re-resolved against live oracle at merge time), ts for market nodes
// (no single quote price), and triggerPrice for trigger nodes.
func (n *OrderNode) GetSortValue(o *order.Order) int64 {
	switch n.nodeType {
	case types.NodeTypeLimit:
		return o.Price
	case types.NodeTypeFloatingLimit:
		return o.OraclePriceOffset
	case types.NodeTypeMarket:
		return int64(o.Slot)
	case types.NodeTypeTrigger:
		return o.TriggerPrice
	default:
		return 0
	}
}

func (n *OrderNode) GetPrice(oraclePriceData *oracles.OraclePriceData, slot uint64) (*big.Int, error) {
	switch n.nodeType {
	case types.NodeTypeTrigger:
		return big.NewInt(n.Order.TriggerPrice), nil
	default:
		return math.GetLimitPrice(n.Order, oraclePriceData, slot)
	}
}

func (n *OrderNode) IsVammNode() bool {
	return false
}

func (n *OrderNode) IsBaseFilled() bool {
	return n.Order.IsBaseFilled()
}

func (n *OrderNode) GetOrder() *order.Order {
	return n.Order
}

func (n *OrderNode) GetUserAccount() string {
	return n.UserAccount
}

func (n *OrderNode) Signature() string {
	return order.SignatureFromKey(n.UserAccount, n.Order.OrderId)
}

func (p *VammNode) GetPrice(oraclePriceData *oracles.OraclePriceData, slot uint64) (*big.Int, error) {
	return p.price, nil
}

func (p *VammNode) IsVammNode() bool {
	return true
}

func (p *VammNode) IsBaseFilled() bool {
	return false
}

func (p *VammNode) GetOrder() *order.Order {
	return nil
}

func (p *VammNode) GetUserAccount() string {
	return ""
}

func (p *VammNode) Signature() string {
	return ""
}
