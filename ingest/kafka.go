// Package ingest turns a topic of order-event messages into calls on
// the DLOB's mutators, the same externally-driven "one mutator call
// per external event" shape the teacher's DLOBSubscriber.handleEvents
// batches up — rebuilt here over github.com/IBM/sarama instead of a
// geyser log feed.
package ingest

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/drift-labs/dlobd/dlob/types"
	"github.com/drift-labs/dlobd/events"
)

// KafkaConsumer decodes each message on Topic as a JSON-encoded
// events.OrderEvent and applies it to the DLOB.
type KafkaConsumer struct {
	dlob   types.IDLOB
	group  sarama.ConsumerGroup
	topic  string
	logger *zap.Logger
}

func NewKafkaConsumer(brokers []string, groupId string, topic string, dlob types.IDLOB, logger *zap.Logger) (*KafkaConsumer, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_8_0_0
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest

	group, err := sarama.NewConsumerGroup(brokers, groupId, cfg)
	if err != nil {
		return nil, err
	}

	return &KafkaConsumer{dlob: dlob, group: group, topic: topic, logger: logger}, nil
}

// Run blocks, consuming Topic until ctx is cancelled. sarama recreates
// the consumer-group session on every rebalance, so this loops on
// Consume rather than calling it once.
func (k *KafkaConsumer) Run(ctx context.Context) error {
	handler := &consumerGroupHandler{apply: k.apply, logger: k.logger}
	for {
		if err := k.group.Consume(ctx, []string{k.topic}, handler); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			k.logger.Error("kafka consume error", zap.Error(err))
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (k *KafkaConsumer) Close() error {
	return k.group.Close()
}

func (k *KafkaConsumer) apply(wrapped events.WrappedEvent) {
	var err error
	switch wrapped.Action {
	case events.ActionPlace:
		err = k.dlob.Insert(&wrapped.Order, wrapped.UserAccount.String())
	case events.ActionUpdate:
		err = k.dlob.Update(&wrapped.Order, wrapped.UserAccount.String())
	case events.ActionCancel:
		err = k.dlob.Remove(&wrapped.Order, wrapped.UserAccount.String())
	case events.ActionTrigger:
		err = k.dlob.Trigger(&wrapped.Order, wrapped.UserAccount.String())
	}
	if err != nil {
		k.logger.Warn("order event rejected", zap.String("action", string(wrapped.Action)), zap.Error(err))
	}
}

type consumerGroupHandler struct {
	apply  func(events.WrappedEvent)
	logger *zap.Logger
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var wrapped events.WrappedEvent
		if err := json.Unmarshal(message.Value, &wrapped); err != nil {
			h.logger.Warn("dropping malformed order event", zap.Error(err))
			session.MarkMessage(message, "")
			continue
		}
		h.apply(wrapped)
		session.MarkMessage(message, "")
	}
	return nil
}
