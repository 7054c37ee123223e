// Package feed broadcasts newly created announcements over Redis pub/sub.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/campusboard/internal/model"
	ws "github.com/stemsi/campusboard/internal/websocket"
)

// Channel is the Redis pub/sub channel carrying announcement events.
const Channel = "announcements:feed"

// Feed publishes and subscribes to announcement events. Every API instance
// publishes to the same channel, so subscribers see announcements created on
// any instance.
type Feed struct {
	rdb     *redis.Client
	channel string
	log     zerolog.Logger
}

// New creates a Feed on top of rdb.
func New(rdb *redis.Client, log zerolog.Logger) *Feed {
	return &Feed{
		rdb:     rdb,
		channel: Channel,
		log:     log.With().Str("component", "feed").Logger(),
	}
}

// Publish broadcasts a to all subscribers. The owner id is not broadcast.
func (f *Feed) Publish(ctx context.Context, a *model.Announcement) error {
	payload, err := json.Marshal(ws.AnnouncementEvent{
		Event:        ws.EventAnnouncementCreated,
		Announcement: a.Public(),
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := f.rdb.Publish(ctx, f.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscription delivers decoded events until closed.
type Subscription struct {
	pubsub *redis.PubSub
	events chan ws.AnnouncementEvent
	done   chan struct{}
	once   sync.Once
}

// Subscribe opens a subscription. The subscription is confirmed before
// Subscribe returns, so no event published afterwards is missed.
func (f *Feed) Subscribe(ctx context.Context) (*Subscription, error) {
	pubsub := f.rdb.Subscribe(ctx, f.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", f.channel, err)
	}

	sub := &Subscription{
		pubsub: pubsub,
		events: make(chan ws.AnnouncementEvent, 16),
		done:   make(chan struct{}),
	}
	go sub.forward(f.log)
	return sub, nil
}

// Events returns the event stream. It is closed after Close.
func (s *Subscription) Events() <-chan ws.AnnouncementEvent {
	return s.events
}

// Close ends the subscription. It is safe to call more than once.
func (s *Subscription) Close() error {
	var err error
	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})
	return err
}

func (s *Subscription) forward(log zerolog.Logger) {
	defer close(s.events)
	for msg := range s.pubsub.Channel() {
		var evt ws.AnnouncementEvent
		if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
			log.Warn().Err(err).Msg("Dropping malformed feed message")
			continue
		}
		select {
		case s.events <- evt:
		case <-s.done:
			return
		}
	}
}
