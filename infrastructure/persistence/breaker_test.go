package persistence_test

import (
	"context"
	"fmt"
	"testing"

	"clipshelf/application/ports"
	"clipshelf/domain/events"
	"clipshelf/infrastructure/persistence"
	"clipshelf/infrastructure/persistence/memory"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// failingEventLog always errors, for driving the breaker open.
type failingEventLog struct{}

var errStorageDown = fmt.Errorf("storage down")

func (failingEventLog) Append(context.Context, events.Family, events.DomainEvent) error {
	return errStorageDown
}
func (failingEventLog) EventsByAggregateID(context.Context, string) ([]events.DomainEvent, error) {
	return nil, errStorageDown
}
func (failingEventLog) AllEvents(context.Context) ([]events.DomainEvent, error) {
	return nil, errStorageDown
}
func (failingEventLog) EventsByType(context.Context, string) ([]events.DomainEvent, error) {
	return nil, errStorageDown
}
func (failingEventLog) Clear(context.Context) error      { return errStorageDown }
func (failingEventLog) Count(context.Context) (int, error) { return 0, errStorageDown }

var _ ports.EventLog = failingEventLog{}

func TestBreakerEventLog_PassesThroughWhenHealthy(t *testing.T) {
	ctx := context.Background()
	log := persistence.NewBreakerEventLog(memory.NewEventLog(), zap.NewNop())

	event := events.NewListCreated("list-1", 1, events.ListSnapshot{Name: "L", Icon: "i"})
	require.NoError(t, log.Append(ctx, events.FamilyList, event))

	count, err := log.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	history, err := log.EventsByAggregateID(ctx, "list-1")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestBreakerEventLog_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	log := persistence.NewBreakerEventLog(failingEventLog{}, zap.NewNop())

	event := events.NewListCreated("list-1", 1, events.ListSnapshot{Name: "L", Icon: "i"})
	for i := 0; i < 5; i++ {
		err := log.Append(ctx, events.FamilyList, event)
		assert.ErrorIs(t, err, errStorageDown)
	}

	// The sixth call is rejected by the open breaker without reaching storage
	err := log.Append(ctx, events.FamilyList, event)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
