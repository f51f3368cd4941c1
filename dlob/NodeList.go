package dlob

import (
	"math/big"

	"github.com/drift-labs/dlobd/common"
	"github.com/drift-labs/dlobd/dlob/types"
	"github.com/drift-labs/dlobd/order"
)

type SortDirection int

const (
	SortDirectionAsc SortDirection = iota
	SortDirectionDesc
)

// NodeList is the ordered, doubly-linked sequence of nodes for one
// (market, class, side), spec.md §4.2. Sort direction is fixed at
// construction; insert preserves order in O(n) (a linear scan from the
// head).
type NodeList struct {
	nodeType      types.DLOBNodeType
	sortDirection SortDirection
	head          *OrderNode
	length        int
	nodeMap       map[string]*OrderNode
}

func CreateNodeList(nodeType types.DLOBNodeType, sortDirection SortDirection) *NodeList {
	return &NodeList{
		nodeType:      nodeType,
		sortDirection: sortDirection,
		nodeMap:       make(map[string]*OrderNode),
	}
}

func (p *NodeList) GetLength() int {
	return p.length
}

// Insert adds a new node, spec.md §4.2. A status == init order is
// never inserted (spec.md §3 invariant 4); a duplicate (user, orderId)
// is a programmer error and is silently ignored rather than panicking,
// so a replayed insert event is harmless.
func (p *NodeList) Insert(o *order.Order, userAccount string) {
	if o.Status == order.OrderStatusInit {
		return
	}
	signature := order.SignatureFromKey(userAccount, o.OrderId)
	if _, exists := p.nodeMap[signature]; exists {
		return
	}

	newNode := CreateNode(p.nodeType, o, userAccount)
	p.nodeMap[signature] = newNode
	p.length++

	if p.head == nil {
		p.head = newNode
		return
	}

	if p.prependNode(p.head, newNode) {
		newNode.next = p.head
		p.head.previous = newNode
		p.head = newNode
		return
	}

	current := p.head
	for current.next != nil && !p.prependNode(current.next, newNode) {
		current = current.next
	}

	newNode.next = current.next
	if current.next != nil {
		current.next.previous = newNode
	}
	current.next = newNode
	newNode.previous = current
}

// prependNode reports whether newNode sorts strictly before
// currentNode under this list's direction, with the tie-break spec.md
// §4.2 names: earlier ts first, and — since insertion is left-to-right
// — equal ts keeps existing insertion order (report false on an exact
// key-and-slot tie so newNode lands after currentNode).
func (p *NodeList) prependNode(currentNode *OrderNode, newNode *OrderNode) bool {
	currentKey := currentNode.sortValue
	newKey := newNode.sortValue

	if newKey == currentKey {
		return newNode.Order.Slot < currentNode.Order.Slot
	}

	if p.sortDirection == SortDirectionAsc {
		return newKey < currentKey
	}
	return newKey > currentKey
}

// Update replaces the order backing an existing node without moving
// it, spec.md §4.2: "does not re-position the node by price". A
// caller that needs the node repositioned (a class- or price-affecting
// change) must Remove and re-Insert, or use Trigger for the
// trigger-list migration case.
func (p *NodeList) Update(o *order.Order, userAccount string) {
	signature := order.SignatureFromKey(userAccount, o.OrderId)
	if node, exists := p.nodeMap[signature]; exists {
		node.Order = o
	}
}

// Remove drops a node by identity, spec.md §4.2: silently no-ops if
// absent, making replayed remove events safe.
func (p *NodeList) Remove(o *order.Order, userAccount string) {
	signature := order.SignatureFromKey(userAccount, o.OrderId)
	node, exists := p.nodeMap[signature]
	if !exists {
		return
	}

	if node.next != nil {
		node.next.previous = node.previous
	}
	if node.previous != nil {
		node.previous.next = node.next
	}
	if p.head == node {
		p.head = node.next
	}
	node.next = nil
	node.previous = nil

	delete(p.nodeMap, signature)
	p.length--
}

func (p *NodeList) Has(signature string) bool {
	_, exists := p.nodeMap[signature]
	return exists
}

func (p *NodeList) Get(signature string) *OrderNode {
	return p.nodeMap[signature]
}

// GetGenerator produces the list's nodes in priority order, spec.md
// §4.2: finite, not restartable — callers obtain a fresh generator
// each time they want to walk the list again.
func (p *NodeList) GetGenerator() *common.Generator[types.IDLOBNode, int] {
	return common.NewGenerator(func(yield common.YieldFn[types.IDLOBNode, int]) {
		idx := 0
		for node := p.head; node != nil; node = node.next {
			if yield(node, idx) {
				return
			}
			idx++
		}
	})
}

// GetVammNodeGenerator is the single-element synthetic source the
// merge iterators fold in alongside the three user-order classes,
// spec.md §4.4. A nil price means the caller did not supply a vAMM
// quote for this side; the source contributes nothing.
func GetVammNodeGenerator(price *big.Int) *common.Generator[types.IDLOBNode, int] {
	if price == nil {
		return common.NewGenerator(func(yield common.YieldFn[types.IDLOBNode, int]) {})
	}
	return common.NewGenerator(func(yield common.YieldFn[types.IDLOBNode, int]) {
		yield(&VammNode{price: price}, 0)
	})
}
