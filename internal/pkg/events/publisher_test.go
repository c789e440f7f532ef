package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

func TestPublisherRoundTrip(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := pubSub.Subscribe(ctx, TopicBookingCreated)
	if err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	p := NewPublisher(pubSub)
	sent := BookingCreated{
		Header:    NewHeader(),
		BookingID: 42,
		MemberID:  7,
		BoothID:   3,
		Type:      "taseok_only",
		StartTime: time.Date(2027, 2, 1, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2027, 2, 1, 11, 0, 0, 0, time.UTC),
	}
	if err := p.BookingCreated(ctx, sent); err != nil {
		t.Fatalf("BookingCreated returned error: %v", err)
	}

	select {
	case msg := <-messages:
		var got BookingCreated
		if err := json.Unmarshal(msg.Payload, &got); err != nil {
			t.Fatalf("failed to unmarshal payload: %v", err)
		}
		msg.Ack()
		if got.BookingID != sent.BookingID || got.Header.ID != sent.Header.ID {
			t.Fatalf("payload mismatch: got %+v", got)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for published event")
	}
}

func TestNewHeaderIsUnique(t *testing.T) {
	a, b := NewHeader(), NewHeader()
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("headers should carry unique ids, got %q and %q", a.ID, b.ID)
	}
}
