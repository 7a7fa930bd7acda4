// Package events publishes logged activities to subscribers outside the
// process.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/nikhil/togglenest/internal/models"
)

// Publisher receives every activity after it has been stored.
type Publisher interface {
	PublishActivity(ctx context.Context, a *models.Activity) error
	Close() error
}

// Nop discards every event. Used when NATS_URL is empty.
type Nop struct{}

func (Nop) PublishActivity(context.Context, *models.Activity) error { return nil }
func (Nop) Close() error                                            { return nil }

// natsConn is the subset of *nats.Conn used by NATSPublisher.
type natsConn interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// NATSPublisher publishes activities as JSON on a single subject. Project
// codes are free text and travel in the payload, not the subject.
type NATSPublisher struct {
	conn    natsConn
	subject string
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("togglenest"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

func (p *NATSPublisher) PublishActivity(_ context.Context, a *models.Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish activity: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
