// Package dispatch provides the per-room event fan-out engine and the
// append-only replay cache.
package dispatch

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"codemafia/internal/game/event"
	"codemafia/internal/game/player"
)

// inboundBuffer is the size of the pending-event channel.
const inboundBuffer = 32

// ErrClosed is returned by Send after the dispatcher has shut down.
var ErrClosed = errors.New("dispatcher closed")

// Dispatcher fans events out to every matching player. Send is
// fire-and-forget: delivery happens on a per-event goroutine, and a failed
// delivery to one player never aborts delivery to the others. When built
// with a cache, the consumer assigns sequence numbers and appends cacheable
// events in submission order, strictly after the broadcast attempt.
type Dispatcher struct {
	log      *zap.Logger
	registry *player.Registry
	cache    *Cache // nil for an uncached dispatcher

	events chan event.Event
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

// New creates a Dispatcher and starts its consumer goroutine.
//
// Precondition: log and registry must be non-nil; cache may be nil to
// disable sequencing and replay.
func New(log *zap.Logger, registry *player.Registry, cache *Cache) *Dispatcher {
	d := &Dispatcher{
		log:      log,
		registry: registry,
		cache:    cache,
		events:   make(chan event.Event, inboundBuffer),
		done:     make(chan struct{}),
	}
	d.wg.Add(1)
	go d.consume()
	return d
}

// Send submits an event for fan-out. It blocks only while the inbound
// buffer is full.
//
// Postcondition: Returns ErrClosed after Close, or the context error if ctx
// expires first; otherwise the event will be broadcast and, if cacheable,
// appended to the cache in submission order.
func (d *Dispatcher) Send(ctx context.Context, evt event.Event) error {
	select {
	case <-d.done:
		return ErrClosed
	default:
	}
	select {
	case d.events <- evt:
		return nil
	case <-d.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the consumer after draining already-submitted events.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.done)
	})
	d.wg.Wait()
}

func (d *Dispatcher) consume() {
	defer d.wg.Done()
	for {
		select {
		case evt := <-d.events:
			d.dispatch(evt)
		case <-d.done:
			// Drain whatever was accepted before shutdown.
			for {
				select {
				case evt := <-d.events:
					d.dispatch(evt)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) dispatch(evt event.Event) {
	d.broadcast(evt)
	if d.cache != nil && cacheable(evt.Content) {
		d.cache.Append(evt)
	}
}

// broadcast serializes the content once and spawns one goroutine for the
// whole fan-out so a slow recipient cannot stall the consumer loop.
func (d *Dispatcher) broadcast(evt event.Event) {
	data, err := event.Marshal(evt.Content)
	if err != nil {
		d.log.Error("serializing event content",
			zap.String("event_type", evt.Content.Type()),
			zap.Error(err),
		)
		return
	}

	players := d.registry.Snapshot()
	go func() {
		for _, p := range players {
			if !evt.Recipient.MatchesPlayer(p) {
				continue
			}
			if err := p.Push(data); err != nil {
				// Isolated per recipient; other deliveries proceed.
				d.log.Debug("event delivery failed",
					zap.String("player_id", p.ID().String()),
					zap.String("event_type", evt.Content.Type()),
					zap.Error(err),
				)
			}
		}
	}()
}

// cacheable reports whether an event is recorded for replay: all chat and
// room events, plus the curated game subset.
func cacheable(c event.Content) bool {
	switch c.Kind() {
	case event.KindChat, event.KindRoom:
		return true
	case event.KindGame:
		switch c.(type) {
		case event.GameEnded, event.WordClicked, event.RoleUpdated:
			return true
		}
	}
	return false
}
