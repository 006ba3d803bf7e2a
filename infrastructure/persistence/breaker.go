package persistence

import (
	"context"
	"time"

	"clipshelf/application/ports"
	"clipshelf/domain/events"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerEventLog decorates an EventLog with a circuit breaker so a failing
// storage engine sheds load fast instead of stalling every command.
type BreakerEventLog struct {
	inner   ports.EventLog
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerEventLog wraps the given log backend
func NewBreakerEventLog(inner ports.EventLog, logger *zap.Logger) *BreakerEventLog {
	settings := gobreaker.Settings{
		Name:        "event-log",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("event log circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &BreakerEventLog{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

var _ ports.EventLog = (*BreakerEventLog)(nil)

func (b *BreakerEventLog) Append(ctx context.Context, family events.Family, event events.DomainEvent) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.inner.Append(ctx, family, event)
	})
	return err
}

func (b *BreakerEventLog) EventsByAggregateID(ctx context.Context, aggregateID string) ([]events.DomainEvent, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.EventsByAggregateID(ctx, aggregateID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]events.DomainEvent), nil
}

func (b *BreakerEventLog) AllEvents(ctx context.Context) ([]events.DomainEvent, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.AllEvents(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]events.DomainEvent), nil
}

func (b *BreakerEventLog) EventsByType(ctx context.Context, eventType string) ([]events.DomainEvent, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.EventsByType(ctx, eventType)
	})
	if err != nil {
		return nil, err
	}
	return result.([]events.DomainEvent), nil
}

func (b *BreakerEventLog) Clear(ctx context.Context) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.inner.Clear(ctx)
	})
	return err
}

func (b *BreakerEventLog) Count(ctx context.Context) (int, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.inner.Count(ctx)
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}
