package monitor

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill/message"
)

// Consume subscribes to the given topics and forwards every message to the
// hub. It blocks until ctx is cancelled; run it in its own goroutine.
func Consume(ctx context.Context, sub message.Subscriber, hub *Hub, topics ...string) error {
	for _, topic := range topics {
		messages, err := sub.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		go func(topic string, messages <-chan *message.Message) {
			for msg := range messages {
				hub.Broadcast(topic, msg.Payload)
				msg.Ack()
			}
			log.Printf("monitor: subscription closed topic=%s", topic)
		}(topic, messages)
	}
	<-ctx.Done()
	return ctx.Err()
}
