package dlob

import (
	"github.com/gagliardetto/solana-go"

	"github.com/drift-labs/dlobd/dlob/types"
	"github.com/drift-labs/dlobd/order"
	"github.com/drift-labs/dlobd/utils"
)

// DLOBOrder pairs a raw order with its owner, the shape a caller
// wants when listing every order currently tracked by the book (e.g.
// for a snapshot export), rather than walking node-by-node.
type DLOBOrder struct {
	User  solana.PublicKey
	Order *order.Order
}

type DLOBOrders []*DLOBOrder

// GetDLOBOrders flattens every list across every market into a single
// slice, the teacher's GetDLOBOrders shape applied to the narrower
// per-market-index registry.
func (p *DLOB) GetDLOBOrders() DLOBOrders {
	defer p.mxState.RUnlock()
	p.mxState.RLock()

	var orders DLOBOrders
	for _, marketLists := range utils.MapValues(p.orderLists) {
		for _, classLists := range utils.MapValues(marketLists) {
			for _, list := range utils.MapValues(classLists) {
				var nodes []types.IDLOBNode
				list.GetGenerator().Each(func(node types.IDLOBNode, idx int) bool {
					nodes = append(nodes, node)
					return false
				})
				orders = append(orders, utils.ValuesFunc(nodes,
					func(node types.IDLOBNode) *DLOBOrder {
						return &DLOBOrder{
							User:  solana.MustPublicKeyFromBase58(node.GetUserAccount()),
							Order: node.GetOrder(),
						}
					},
					func(node types.IDLOBNode) bool { return node.GetOrder() != nil },
				)...)
			}
		}
	}
	return orders
}
