package ingest

import (
	"context"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"orgboard-backend/internal/models"
	"orgboard-backend/internal/storage"
)

// ActivityConsumer pulls activity events off JetStream and persists them to
// the activity_log table.
type ActivityConsumer struct {
	js      nats.JetStreamContext
	storage *storage.Storage
	sub     *nats.Subscription
}

func NewActivityConsumer(js nats.JetStreamContext, storage *storage.Storage) *ActivityConsumer {
	return &ActivityConsumer{js: js, storage: storage}
}

func (c *ActivityConsumer) Start(ctx context.Context) error {
	sub, err := c.js.PullSubscribe(
		"orgboard.activity.>",
		"activity-writer",
		nats.ManualAck(),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
		nats.MaxAckPending(1000),
	)
	if err != nil {
		return err
	}
	c.sub = sub

	go c.consumeLoop(ctx)
	log.Println("INFO Activity consumer started")
	return nil
}

func (c *ActivityConsumer) consumeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		msgs, err := c.sub.Fetch(64, nats.MaxWait(5*time.Second))
		if err != nil {
			if err != nats.ErrTimeout {
				log.Printf("WARN Fetch error: %v", err)
			}
			continue
		}

		for _, msg := range msgs {
			if err := c.processMessage(ctx, msg); err != nil {
				log.Printf("WARN Process error: %v", err)
				msg.NakWithDelay(5 * time.Second)
				continue
			}
			msg.Ack()
		}
	}
}

func (c *ActivityConsumer) processMessage(ctx context.Context, msg *nats.Msg) error {
	var event models.ActivityEvent
	if err := msgpack.Unmarshal(msg.Data, &event); err != nil {
		// Malformed payloads will never succeed; drop them.
		log.Printf("ERROR Unmarshal error (terminating): %v", err)
		msg.Term()
		return nil
	}

	rec := models.ActivityRecord{
		Type:           event.Type,
		ActorID:        event.ActorID,
		OrganizationID: event.OrganizationID,
		OccurredAt:     time.UnixMilli(event.TS).UTC(),
	}
	if event.SubjectID != "" {
		subject := event.SubjectID
		rec.SubjectID = &subject
	}

	return c.storage.RecordActivity(ctx, rec)
}

func (c *ActivityConsumer) Stop() error {
	if c.sub != nil {
		return c.sub.Drain()
	}
	return nil
}
