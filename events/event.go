// Package events defines the external event shape the ingest layer
// consumes and the post-commit observer bus the DLOB core notifies
// after every mutation, mirrored off the teacher's events.WrappedEvent
// and lib/event.EventEmitter.
package events

import (
	"github.com/gagliardetto/solana-go"

	"github.com/drift-labs/dlobd/order"

	"github.com/drift-labs/dlobd/lib/event"
)

type Action string

const (
	ActionPlace   Action = "place"
	ActionUpdate  Action = "update"
	ActionCancel  Action = "cancel"
	ActionTrigger Action = "trigger"
)

// OrderEvent is the normalized shape ingest.KafkaConsumer decodes a raw
// topic message into before calling a DLOB mutator.
type OrderEvent struct {
	Action      Action
	UserAccount solana.PublicKey
	Order       order.Order
	Slot        uint64
}

// WrappedEvent adds the transport envelope around an OrderEvent, the
// way the teacher wraps every chain record with its tx signature and
// slot.
type WrappedEvent struct {
	OrderEvent
	TxSig string
}

var emitter *event.EventEmitter

// Emitter returns the process-wide event bus the DLOB's mutators emit
// onInsert/onUpdate/onRemove/onTrigger notifications on.
func Emitter() *event.EventEmitter {
	if emitter == nil {
		emitter = event.CreateEventEmitter()
	}
	return emitter
}

const (
	EventInsert  = "dlob:insert"
	EventUpdate  = "dlob:update"
	EventRemove  = "dlob:remove"
	EventTrigger = "dlob:trigger"
)
