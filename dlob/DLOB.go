// Package dlob implements the DLOB matching core: a multi-market,
// multi-class priority order book that merges limit, floating-limit,
// market and vAMM price streams into best-ask/best-bid iterators,
// assigns maker/taker on crossings, and scans trigger lists.
package dlob

import (
	"math/big"
	"sync"

	"github.com/drift-labs/dlobd/assert"
	"github.com/drift-labs/dlobd/common"
	"github.com/drift-labs/dlobd/dlob/types"
	"github.com/drift-labs/dlobd/events"
	"github.com/drift-labs/dlobd/math"
	"github.com/drift-labs/dlobd/oracles"
	"github.com/drift-labs/dlobd/order"
	"github.com/drift-labs/dlobd/utils"
)

// MaxFillsPerCall is the hard cap on crossings FindCrossingNodesToFill
// accumulates in one call, spec.md §4.5/§6/§9 open question 3.
const MaxFillsPerCall = 10

type MarketNodeList map[types.DLOBNodeSubType]*NodeList
type MarketNodeLists map[types.DLOBNodeType]MarketNodeList

// DLOB is the per-process, per-market registry of order lists.
// mxState is taken by the mutators (Insert, InsertBulk, Update, Remove,
// Trigger) and by GetDLOBOrders, matching the teacher's own mxState
// usage; the merge readers and the fill/trigger finders do not take it.
type DLOB struct {
	orderLists map[uint16]MarketNodeLists
	openOrders map[string]struct{}
	mxState    *sync.RWMutex
}

// New establishes the eight lists for each of the given markets.
// Markets cannot be added post-construction, spec.md §6.
func New(marketIndexes []uint16) *DLOB {
	d := &DLOB{
		orderLists: make(map[uint16]MarketNodeLists),
		openOrders: make(map[string]struct{}),
		mxState:    new(sync.RWMutex),
	}
	for _, marketIndex := range marketIndexes {
		d.orderLists[marketIndex] = newMarketNodeLists()
	}
	return d
}

func newMarketNodeLists() MarketNodeLists {
	return MarketNodeLists{
		types.NodeTypeLimit: MarketNodeList{
			types.NodeSubTypeAsk: CreateNodeList(types.NodeTypeLimit, SortDirectionAsc),
			types.NodeSubTypeBid: CreateNodeList(types.NodeTypeLimit, SortDirectionDesc),
		},
		types.NodeTypeFloatingLimit: MarketNodeList{
			types.NodeSubTypeAsk: CreateNodeList(types.NodeTypeFloatingLimit, SortDirectionAsc),
			types.NodeSubTypeBid: CreateNodeList(types.NodeTypeFloatingLimit, SortDirectionDesc),
		},
		types.NodeTypeMarket: MarketNodeList{
			types.NodeSubTypeAsk: CreateNodeList(types.NodeTypeMarket, SortDirectionAsc),
			types.NodeSubTypeBid: CreateNodeList(types.NodeTypeMarket, SortDirectionAsc),
		},
		types.NodeTypeTrigger: MarketNodeList{
			types.NodeSubTypeAbove: CreateNodeList(types.NodeTypeTrigger, SortDirectionAsc),
			types.NodeSubTypeBelow: CreateNodeList(types.NodeTypeTrigger, SortDirectionDesc),
		},
	}
}

// GetNodeType routes an order to its (class, side), spec.md §4.3.
func GetNodeType(o *order.Order) (types.DLOBNodeType, types.DLOBNodeSubType) {
	if o.OrderType.IsTrigger() && !o.Triggered {
		sub := types.NodeSubTypeAbove
		if o.TriggerCondition == order.TriggerConditionBelow {
			sub = types.NodeSubTypeBelow
		}
		return types.NodeTypeTrigger, sub
	}

	var nodeType types.DLOBNodeType
	switch {
	case o.OrderType.IsMarket():
		nodeType = types.NodeTypeMarket
	case o.OraclePriceOffset != 0:
		nodeType = types.NodeTypeFloatingLimit
	default:
		nodeType = types.NodeTypeLimit
	}

	sub := types.NodeSubTypeAsk
	if o.Direction == order.PositionDirectionLong {
		sub = types.NodeSubTypeBid
	}
	return nodeType, sub
}

// GetListForOrder returns the single list an order belongs in, or nil
// for an unknown market.
func (p *DLOB) GetListForOrder(o *order.Order) *NodeList {
	lists, exists := p.orderLists[o.MarketIndex]
	if !exists {
		return nil
	}
	nodeType, sub := GetNodeType(o)
	return lists[nodeType][sub]
}

func (p *DLOB) Insert(o *order.Order, userAccount string, onInsert ...func(types.IDLOBNode)) error {
	defer p.mxState.Unlock()
	p.mxState.Lock()

	if _, exists := p.orderLists[o.MarketIndex]; !exists {
		return types.UnknownMarket
	}
	if o.Status == order.OrderStatusInit {
		return nil
	}

	list := p.GetListForOrder(o)
	signature := order.SignatureFromKey(userAccount, o.OrderId)
	list.Insert(o, userAccount)

	if o.Status == order.OrderStatusOpen {
		p.openOrders[signature] = struct{}{}
	}

	node := list.Get(signature)
	assert.Assert(node != nil, "order vanished from its own list immediately after insert")
	events.Emitter().Emit(events.EventInsert, node)
	for _, cb := range onInsert {
		cb(node)
	}
	return nil
}

// InsertBulk loads a snapshot of already-open orders once at startup,
// the supplemented bulk-initialization feature (SPEC_FULL.md §4).
func (p *DLOB) InsertBulk(orders []*order.Order, userAccounts []string) {
	defer p.mxState.Unlock()
	p.mxState.Lock()

	for i, o := range orders {
		if _, exists := p.orderLists[o.MarketIndex]; !exists {
			continue
		}
		if o.Status == order.OrderStatusInit {
			continue
		}
		list := p.GetListForOrder(o)
		list.Insert(o, userAccounts[i])
		if o.Status == order.OrderStatusOpen {
			signature := order.SignatureFromKey(userAccounts[i], o.OrderId)
			p.openOrders[signature] = struct{}{}
		}
	}
}

func (p *DLOB) Update(o *order.Order, userAccount string, onUpdate ...func(types.IDLOBNode)) error {
	defer p.mxState.Unlock()
	p.mxState.Lock()

	if _, exists := p.orderLists[o.MarketIndex]; !exists {
		return types.UnknownMarket
	}

	list := p.GetListForOrder(o)
	list.Update(o, userAccount)

	signature := order.SignatureFromKey(userAccount, o.OrderId)
	node := list.Get(signature)
	if node != nil {
		events.Emitter().Emit(events.EventUpdate, node)
		for _, cb := range onUpdate {
			cb(node)
		}
	}
	return nil
}

func (p *DLOB) Remove(o *order.Order, userAccount string, onRemove ...func(types.IDLOBNode)) error {
	defer p.mxState.Unlock()
	p.mxState.Lock()

	if _, exists := p.orderLists[o.MarketIndex]; !exists {
		return types.UnknownMarket
	}

	signature := order.SignatureFromKey(userAccount, o.OrderId)
	list := p.GetListForOrder(o)
	node := list.Get(signature)

	list.Remove(o, userAccount)
	delete(p.openOrders, signature)

	if node != nil {
		events.Emitter().Emit(events.EventRemove, node)
		for _, cb := range onRemove {
			cb(node)
		}
	}
	return nil
}

// Trigger migrates an order from its trigger list to the now-applicable
// market/limit list, spec.md §4.3. The caller has already flipped
// order.Triggered to true before calling this.
func (p *DLOB) Trigger(o *order.Order, userAccount string, onTrigger ...func(types.IDLOBNode)) error {
	defer p.mxState.Unlock()
	p.mxState.Lock()

	lists, exists := p.orderLists[o.MarketIndex]
	if !exists {
		return types.UnknownMarket
	}

	triggerSub := types.NodeSubTypeAbove
	if o.TriggerCondition == order.TriggerConditionBelow {
		triggerSub = types.NodeSubTypeBelow
	}
	lists[types.NodeTypeTrigger][triggerSub].Remove(o, userAccount)

	list := p.GetListForOrder(o)
	list.Insert(o, userAccount)

	signature := order.SignatureFromKey(userAccount, o.OrderId)
	node := list.Get(signature)
	assert.Assert(node != nil, "order vanished from its destination list immediately after trigger migration")
	events.Emitter().Emit(events.EventTrigger, node)
	for _, cb := range onTrigger {
		cb(node)
	}
	return nil
}

// priceOf evaluates a node's price, treating a MissingOracle failure
// as "unpriceable" rather than propagating it through a lazy merge:
// GetAsks/GetBids skip such a node instead of returning an error.
func priceOf(node types.IDLOBNode, oraclePriceData *oracles.OraclePriceData, slot uint64) (*big.Int, bool) {
	price, err := node.GetPrice(oraclePriceData, slot)
	if err != nil || price == nil {
		return nil, false
	}
	return price, true
}

type generatorCursor struct {
	generator *common.Generator[types.IDLOBNode, int]
	next      types.IDLOBNode
	done      bool
}

// getBestNode performs the lazy k-way merge spec.md §4.4 describes:
// on each step, advance past any node that's fully filled or rejected
// by filterFcn or unpriceable, then yield whichever remaining head
// wins under compareFn. compareFn must return true only when a is
// strictly better than b, so ties resolve to the earlier-indexed
// source (limit > floatingLimit > market > vAMM, per the order
// generatorList is built in).
func getBestNode(
	generatorList []*common.Generator[types.IDLOBNode, int],
	oraclePriceData *oracles.OraclePriceData,
	slot uint64,
	compareFn func(a, b types.IDLOBNode, oraclePriceData *oracles.OraclePriceData, slot uint64) bool,
	filterFcn types.DLOBFilterFcn,
) *common.Generator[types.IDLOBNode, int] {
	return common.NewGenerator(func(yield common.YieldFn[types.IDLOBNode, int]) {
		cursors := make([]*generatorCursor, len(generatorList))
		for i, g := range generatorList {
			next, _, done := g.Next()
			cursors[i] = &generatorCursor{generator: g, next: next, done: done}
		}

		idx := 0
		for {
			var best *generatorCursor
			for _, c := range cursors {
				if c.done {
					continue
				}
				if best == nil || compareFn(c.next, best.next, oraclePriceData, slot) {
					best = c
				}
			}
			if best == nil {
				return
			}

			if best.next.IsBaseFilled() {
				best.next, _, best.done = best.generator.Next()
				continue
			}
			if filterFcn != nil && !filterFcn(best.next) {
				best.next, _, best.done = best.generator.Next()
				continue
			}
			if _, ok := priceOf(best.next, oraclePriceData, slot); !ok {
				best.next, _, best.done = best.generator.Next()
				continue
			}

			if yield(best.next, idx) {
				return
			}
			idx++
			best.next, _, best.done = best.generator.Next()
		}
	})
}

func ascendingBetter(a, b types.IDLOBNode, oraclePriceData *oracles.OraclePriceData, slot uint64) bool {
	aPrice, aOk := priceOf(a, oraclePriceData, slot)
	bPrice, bOk := priceOf(b, oraclePriceData, slot)
	if !aOk {
		return false
	}
	if !bOk {
		return true
	}
	return aPrice.Cmp(bPrice) < 0
}

func descendingBetter(a, b types.IDLOBNode, oraclePriceData *oracles.OraclePriceData, slot uint64) bool {
	aPrice, aOk := priceOf(a, oraclePriceData, slot)
	bPrice, bOk := priceOf(b, oraclePriceData, slot)
	if !aOk {
		return false
	}
	if !bOk {
		return true
	}
	return aPrice.Cmp(bPrice) > 0
}

// GetMarketAsks/GetMarketBids expose the raw market-order list, used
// by FindMarketNodesToFill and by a caller that wants to see pending
// auctions without the full merge.
func (p *DLOB) GetMarketAsks(marketIndex uint16) *common.Generator[types.IDLOBNode, int] {
	lists, exists := p.orderLists[marketIndex]
	if !exists {
		return common.NewGenerator(func(yield common.YieldFn[types.IDLOBNode, int]) {})
	}
	return lists[types.NodeTypeMarket][types.NodeSubTypeAsk].GetGenerator()
}

func (p *DLOB) GetMarketBids(marketIndex uint16) *common.Generator[types.IDLOBNode, int] {
	lists, exists := p.orderLists[marketIndex]
	if !exists {
		return common.NewGenerator(func(yield common.YieldFn[types.IDLOBNode, int]) {})
	}
	return lists[types.NodeTypeMarket][types.NodeSubTypeBid].GetGenerator()
}

// GetAsks is the lazy k-way merge over {limit, floatingLimit, market,
// vAMM}.ask, spec.md §4.4.
func (p *DLOB) GetAsks(marketIndex uint16, vAsk *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData, filterFcn ...types.DLOBFilterFcn) *common.Generator[types.IDLOBNode, int] {
	lists, exists := p.orderLists[marketIndex]
	if !exists {
		return common.NewGenerator(func(yield common.YieldFn[types.IDLOBNode, int]) {})
	}
	generatorList := []*common.Generator[types.IDLOBNode, int]{
		lists[types.NodeTypeLimit][types.NodeSubTypeAsk].GetGenerator(),
		lists[types.NodeTypeFloatingLimit][types.NodeSubTypeAsk].GetGenerator(),
		lists[types.NodeTypeMarket][types.NodeSubTypeAsk].GetGenerator(),
		GetVammNodeGenerator(vAsk),
	}
	var filter types.DLOBFilterFcn
	if len(filterFcn) > 0 {
		filter = filterFcn[0]
	}
	return getBestNode(generatorList, oraclePriceData, slot, ascendingBetter, filter)
}

// GetBids is the bid-side counterpart of GetAsks.
func (p *DLOB) GetBids(marketIndex uint16, vBid *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData, filterFcn ...types.DLOBFilterFcn) *common.Generator[types.IDLOBNode, int] {
	lists, exists := p.orderLists[marketIndex]
	if !exists {
		return common.NewGenerator(func(yield common.YieldFn[types.IDLOBNode, int]) {})
	}
	generatorList := []*common.Generator[types.IDLOBNode, int]{
		lists[types.NodeTypeLimit][types.NodeSubTypeBid].GetGenerator(),
		lists[types.NodeTypeFloatingLimit][types.NodeSubTypeBid].GetGenerator(),
		lists[types.NodeTypeMarket][types.NodeSubTypeBid].GetGenerator(),
		GetVammNodeGenerator(vBid),
	}
	var filter types.DLOBFilterFcn
	if len(filterFcn) > 0 {
		filter = filterFcn[0]
	}
	return getBestNode(generatorList, oraclePriceData, slot, descendingBetter, filter)
}

// GetBestAsk/GetBestBid return the price of the first element of
// GetAsks/GetBids, spec.md §4.6: they must not fail while the vAMM
// source is non-empty.
func (p *DLOB) GetBestAsk(marketIndex uint16, vAsk *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData) (*big.Int, error) {
	if _, exists := p.orderLists[marketIndex]; !exists {
		return nil, types.UnknownMarket
	}
	node, _, done := p.GetAsks(marketIndex, vAsk, slot, oraclePriceData).Next()
	if done {
		return nil, nil
	}
	return node.GetPrice(oraclePriceData, slot)
}

func (p *DLOB) GetBestBid(marketIndex uint16, vBid *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData) (*big.Int, error) {
	if _, exists := p.orderLists[marketIndex]; !exists {
		return nil, types.UnknownMarket
	}
	node, _, done := p.GetBids(marketIndex, vBid, slot, oraclePriceData).Next()
	if done {
		return nil, nil
	}
	return node.GetPrice(oraclePriceData, slot)
}

// findCrossingOrders applies the verdict table of spec.md §4.5 to one
// peeked (ask, bid) pair. It returns the fill to emit (nil if none),
// which side to advance, and whether the pair crosses at all — a
// false cross means the whole walk terminates (both streams are
// monotone).
func findCrossingOrders(ask types.IDLOBNode, bid types.IDLOBNode, oraclePriceData *oracles.OraclePriceData, slot uint64) (fill *types.NodeToFill, advanceAsk bool, advanceBid bool, crosses bool) {
	askPrice, askOk := priceOf(ask, oraclePriceData, slot)
	bidPrice, bidOk := priceOf(bid, oraclePriceData, slot)
	if !askOk || !bidOk || bidPrice.Cmp(askPrice) < 0 {
		return nil, false, false, false
	}

	if ask.IsVammNode() {
		return nil, false, true, true
	}
	if bid.IsVammNode() {
		return nil, true, false, true
	}

	askOrder := ask.GetOrder()
	bidOrder := bid.GetOrder()

	if askOrder.PostOnly && bidOrder.PostOnly {
		if bidOrder.Slot < askOrder.Slot {
			return nil, false, true, true
		}
		return nil, true, false, true
	}

	if bidOrder.PostOnly {
		return &types.NodeToFill{Node: ask, MakerNode: bid}, true, false, true
	}
	if askOrder.PostOnly {
		return &types.NodeToFill{Node: bid, MakerNode: ask}, false, true, true
	}

	// Neither postOnly: the older order is maker, ties break to the ask.
	if askOrder.Slot <= bidOrder.Slot {
		return &types.NodeToFill{Node: bid, MakerNode: ask}, false, true, true
	}
	return &types.NodeToFill{Node: ask, MakerNode: bid}, true, false, true
}

// FindCrossingNodesToFill walks the ask and bid merge streams in
// lockstep, spec.md §4.5, stopping at MaxFillsPerCall or when either
// stream is exhausted or the pair no longer crosses. vBid/vAsk seed the
// vAMM node into each merge the same way GetAsks/GetBids do, so a taker
// crossing only the vAMM's quote (and not a resting peer order) is
// correctly excluded from peer-to-peer matching by findCrossingOrders.
func (p *DLOB) FindCrossingNodesToFill(marketIndex uint16, vBid *big.Int, vAsk *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData) ([]*types.NodeToFill, error) {
	if !utils.MapHas(p.orderLists, marketIndex) {
		return nil, types.UnknownMarket
	}

	asks := p.GetAsks(marketIndex, vAsk, slot, oraclePriceData)
	bids := p.GetBids(marketIndex, vBid, slot, oraclePriceData)

	var fills []*types.NodeToFill

	askNode, _, askDone := asks.Next()
	bidNode, _, bidDone := bids.Next()

	for !askDone && !bidDone && len(fills) < MaxFillsPerCall {
		fill, advanceAsk, advanceBid, crosses := findCrossingOrders(askNode, bidNode, oraclePriceData, slot)
		if !crosses {
			break
		}
		if fill != nil {
			fills = append(fills, fill)
		}
		if advanceAsk {
			askNode, _, askDone = asks.Next()
		}
		if advanceBid {
			bidNode, _, bidDone = bids.Next()
		}
	}

	return fills, nil
}

// FindMarketNodesToFill independently scans market.{bid,ask} and
// emits a makerless fill for every node whose auction has completed,
// spec.md §4.5 — these are routed against the vAMM by the caller.
func (p *DLOB) FindMarketNodesToFill(marketIndex uint16, slot uint64, oraclePriceData *oracles.OraclePriceData) ([]*types.NodeToFill, error) {
	if _, exists := p.orderLists[marketIndex]; !exists {
		return nil, types.UnknownMarket
	}

	var fills []*types.NodeToFill
	scan := func(generator *common.Generator[types.IDLOBNode, int]) {
		generator.Each(func(node types.IDLOBNode, idx int) bool {
			if node.IsBaseFilled() {
				return false
			}
			if math.IsAuctionComplete(node.GetOrder(), slot) {
				fills = append(fills, &types.NodeToFill{Node: node})
			}
			return false
		})
	}
	scan(p.GetMarketBids(marketIndex))
	scan(p.GetMarketAsks(marketIndex))
	return fills, nil
}

// FindNodesToFill is findCrossingNodesToFill ++ findMarketNodesToFill,
// spec.md §4.5.
func (p *DLOB) FindNodesToFill(marketIndex uint16, vBid *big.Int, vAsk *big.Int, slot uint64, oraclePriceData *oracles.OraclePriceData) ([]*types.NodeToFill, error) {
	crossing, err := p.FindCrossingNodesToFill(marketIndex, vBid, vAsk, slot, oraclePriceData)
	if err != nil {
		return nil, err
	}
	marketFills, err := p.FindMarketNodesToFill(marketIndex, slot, oraclePriceData)
	if err != nil {
		return nil, err
	}
	return utils.ArrayFlat([][]*types.NodeToFill{crossing, marketFills}), nil
}

// FindNodesToTrigger walks the above/below trigger lists, spec.md
// §4.7: a node crosses, and its auction must also be complete, to
// trigger. An auction-incomplete node is skipped, not a stopping
// condition, because later nodes in triggerPrice order may have
// earlier ts (SPEC_FULL.md §1, open question 1).
func (p *DLOB) FindNodesToTrigger(marketIndex uint16, slot uint64, oraclePrice *big.Int) []*types.NodeToTrigger {
	lists, exists := p.orderLists[marketIndex]
	if !exists {
		return nil
	}

	var triggers []*types.NodeToTrigger

	lists[types.NodeTypeTrigger][types.NodeSubTypeAbove].GetGenerator().Each(func(node types.IDLOBNode, idx int) bool {
		if oraclePrice.Cmp(big.NewInt(node.GetOrder().TriggerPrice)) <= 0 {
			return true
		}
		if math.IsAuctionComplete(node.GetOrder(), slot) {
			triggers = append(triggers, &types.NodeToTrigger{Node: node})
		}
		return false
	})

	lists[types.NodeTypeTrigger][types.NodeSubTypeBelow].GetGenerator().Each(func(node types.IDLOBNode, idx int) bool {
		if oraclePrice.Cmp(big.NewInt(node.GetOrder().TriggerPrice)) >= 0 {
			return true
		}
		if math.IsAuctionComplete(node.GetOrder(), slot) {
			triggers = append(triggers, &types.NodeToTrigger{Node: node})
		}
		return false
	})

	return triggers
}
