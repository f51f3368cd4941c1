// Package order defines the read-only order model that crosses the
// boundary into the DLOB core. Decoding a chain account into an Order
// is the caller's job, not this package's.
package order

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

type MarketType int

const (
	MarketTypePerp MarketType = iota
	MarketTypeSpot
)

type OrderType int

const (
	OrderTypeLimit OrderType = iota
	OrderTypeMarket
	OrderTypeTriggerLimit
	OrderTypeTriggerMarket
)

func (t OrderType) IsMarket() bool {
	return t == OrderTypeMarket || t == OrderTypeTriggerMarket
}

func (t OrderType) IsTrigger() bool {
	return t == OrderTypeTriggerLimit || t == OrderTypeTriggerMarket
}

type OrderStatus int

const (
	OrderStatusInit OrderStatus = iota
	OrderStatusOpen
	OrderStatusFilled
	OrderStatusCancelled
)

type PositionDirection int

const (
	PositionDirectionLong PositionDirection = iota
	PositionDirectionShort
)

type TriggerCondition int

const (
	TriggerConditionAbove TriggerCondition = iota
	TriggerConditionBelow
)

// Order is the external, read-only-by-convention record the DLOB wraps
// in nodes. Only Update may mutate the fields of an order already
// tracked by the book; the core never writes through this struct.
type Order struct {
	OrderId     uint32
	MarketIndex uint16
	MarketType  MarketType
	OrderType   OrderType
	Status      OrderStatus
	Direction   PositionDirection

	TriggerCondition TriggerCondition
	Triggered        bool
	TriggerPrice     int64

	Price             int64
	OraclePriceOffset int64

	// Slot is the order's placement slot ("ts" in spec.md): it drives
	// time priority and the auction clock.
	Slot uint64

	PostOnly bool

	AuctionDuration   uint32
	AuctionStartPrice int64
	AuctionEndPrice   int64

	BaseAssetAmount       uint64
	BaseAssetAmountFilled uint64
}

func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusOpen
}

func (o *Order) IsFloatingLimit() bool {
	return o.OraclePriceOffset != 0
}

func (o *Order) IsBaseFilled() bool {
	return o.BaseAssetAmountFilled >= o.BaseAssetAmount
}

// Signature is a deterministic per-user, per-order fingerprint used as
// the OrderId spec.md §3 describes: unique across the whole book.
func Signature(userAccount solana.PublicKey, orderId uint32) string {
	return SignatureFromKey(userAccount.String(), orderId)
}

func SignatureFromKey(userAccount string, orderId uint32) string {
	return fmt.Sprintf("%s-%d", userAccount, orderId)
}
