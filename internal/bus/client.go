package bus

import (
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"

	"orgboard-backend/internal/models"
)

const (
	streamName    = "ORG_ACTIVITY"
	subjectPrefix = "orgboard.activity."
)

// Publisher emits activity events. Handlers treat publishing as best effort.
type Publisher interface {
	Publish(event models.ActivityEvent) error
}

type Client struct {
	nc *nats.Conn
	js nats.JetStreamContext
}

// Connect establishes the NATS connection and ensures the activity stream
// exists.
func Connect(url string) (*Client, error) {
	if url == "" {
		url = nats.DefaultURL
	}

	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.ReconnectWait(1 * time.Second),
		nats.ReconnectJitter(500*time.Millisecond, 2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("WARN NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("INFO NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Println("INFO NATS connection closed")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	log.Printf("INFO Connected to NATS at %s", nc.ConnectedUrl())

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	if err := ensureStream(js); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream: %w", err)
	}

	return &Client{nc: nc, js: js}, nil
}

// Publish sends a msgpack-encoded activity event to JetStream.
func (c *Client) Publish(event models.ActivityEvent) error {
	if event.TS == 0 {
		event.TS = time.Now().UnixMilli()
	}
	if event.V == 0 {
		event.V = 1
	}

	payload, err := msgpack.Marshal(&event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = c.js.Publish(SubjectFor(event.Type), payload)
	return err
}

// SubjectFor maps an activity type to its JetStream subject.
func SubjectFor(eventType string) string {
	return subjectPrefix + eventType
}

// Close drains and closes the NATS connection.
func (c *Client) Close() error {
	return c.nc.Drain()
}

// JS returns the JetStream context for consumers.
func (c *Client) JS() nats.JetStreamContext {
	return c.js
}

func ensureStream(js nats.JetStreamContext) error {
	_, err := js.StreamInfo(streamName)
	if err == nats.ErrStreamNotFound {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:       streamName,
			Subjects:   []string{subjectPrefix + ">"},
			Retention:  nats.LimitsPolicy,
			MaxAge:     7 * 24 * time.Hour,
			MaxMsgSize: 64 * 1024,
			Discard:    nats.DiscardOld,
			Storage:    nats.FileStorage,
		})
		if err != nil {
			return fmt.Errorf("create stream %s: %w", streamName, err)
		}
		log.Printf("INFO Created JetStream stream %s", streamName)
		return nil
	}
	return err
}
