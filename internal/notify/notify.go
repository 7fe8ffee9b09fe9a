// Package notify emits "this changed" signals about jobs, bids and orders. Delivery
// to users is someone else's job; subscribers read the events off a Redis channel.
package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	JobPosted          = "job.posted"
	JobUpdated         = "job.updated"
	JobCancelled       = "job.cancelled"
	JobDisputed        = "job.disputed"
	JobCompleted       = "job.completed"
	BidSubmitted       = "bid.submitted"
	BidAccepted        = "bid.accepted"
	BidRejected        = "bid.rejected"
	BidWithdrawn       = "bid.withdrawn"
	ProgressAdded      = "progress.added"
	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

type Event struct {
	Type       string     `json:"type"`
	JobId      uuid.UUID  `json:"jobId"`
	BidId      *uuid.UUID `json:"bidId,omitempty"`
	OrderId    *uuid.UUID `json:"orderId,omitempty"`
	Recipients []string   `json:"recipients,omitempty"`
	Status     string     `json:"status,omitempty"`
	At         time.Time  `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// RedisNotifier publishes events as JSON on one pub/sub channel.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return n.client.Publish(ctx, n.channel, payload).Err()
}

func (n *RedisNotifier) Ping(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}

// Nop drops every event. Used when no Redis is configured.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// Recorder keeps events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}
