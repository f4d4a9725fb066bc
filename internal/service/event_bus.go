// internal/service/event_bus.go
package service

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"escpos-service/internal/model"
)

type subscriber struct {
	ch    chan model.PrinterEvent
	types []model.EventType
}

// EventBus fans printer events out to subscribers. Slow subscribers miss events
// instead of blocking publishers.
type EventBus struct {
	subscribers map[int]*subscriber
	nextID      int
	events      chan model.PrinterEvent
	mutex       sync.RWMutex
	logger      *zap.Logger
}

// NewEventBus creates a new event bus
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[int]*subscriber),
		events:      make(chan model.PrinterEvent, 1000),
		logger:      logger,
	}
}

// Run distributes events until ctx is done, then closes every subscriber channel
func (eb *EventBus) Run(ctx context.Context) {
	defer eb.closeAll()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-eb.events:
			eb.distributeEvent(event)
		}
	}
}

// Publish queues an event without blocking
func (eb *EventBus) Publish(event model.PrinterEvent) {
	select {
	case eb.events <- event:
	default:
		eb.logger.Warn("Event bus full, dropping event",
			zap.String("event_type", string(event.EventType)),
		)
	}
}

// Subscribe returns a channel receiving events of the given types, or of every type
// when none are given, and a function that cancels the subscription
func (eb *EventBus) Subscribe(types ...model.EventType) (<-chan model.PrinterEvent, func()) {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	id := eb.nextID
	eb.nextID++
	sub := &subscriber{ch: make(chan model.PrinterEvent, 100), types: types}
	eb.subscribers[id] = sub

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			eb.mutex.Lock()
			defer eb.mutex.Unlock()
			if _, ok := eb.subscribers[id]; ok {
				delete(eb.subscribers, id)
				close(sub.ch)
			}
		})
	}
}

func (eb *EventBus) distributeEvent(event model.PrinterEvent) {
	eb.mutex.RLock()
	defer eb.mutex.RUnlock()

	for _, sub := range eb.subscribers {
		if len(sub.types) > 0 && !slices.Contains(sub.types, event.EventType) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			// subscriber is slow, skip
		}
	}
}

func (eb *EventBus) closeAll() {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()
	for id, sub := range eb.subscribers {
		close(sub.ch)
		delete(eb.subscribers, id)
	}
}
