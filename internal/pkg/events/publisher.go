package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Publisher fans domain events out on a watermill transport. Services hold
// it behind small per-package interfaces and treat nil as "events disabled",
// so publishing never happens inside a database transaction.
type Publisher struct {
	pub message.Publisher
}

func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

func (p *Publisher) publish(topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.pub.Publish(topic, message.NewMessage(watermill.NewUUID(), payload))
}

func (p *Publisher) BookingCreated(_ context.Context, e BookingCreated) error {
	return p.publish(TopicBookingCreated, e)
}

func (p *Publisher) BookingCancelled(_ context.Context, e BookingCancelled) error {
	return p.publish(TopicBookingCancelled, e)
}

func (p *Publisher) TicketIssued(_ context.Context, e TicketIssued) error {
	return p.publish(TopicTicketIssued, e)
}
