package events_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/storefront/internal/storefront/events"
	"github.com/aussiebroadwan/storefront/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := events.NewBus(slogx.Discard())

	var got []events.AuthChanged
	unsubscribe := bus.Subscribe(func(_ context.Context, ev events.AuthChanged) {
		got = append(got, ev)
	})

	bus.Publish(context.Background(), events.AuthChanged{Authenticated: true, UserID: "u1"})
	require.Len(t, got, 1)
	require.True(t, got[0].Authenticated)
	require.False(t, got[0].At.IsZero())

	unsubscribe()
	unsubscribe()
	require.Equal(t, 0, bus.Subscribers())

	bus.Publish(context.Background(), events.AuthChanged{})
	require.Len(t, got, 1)
}

func TestBusHandlerPanicDoesNotStopDelivery(t *testing.T) {
	bus := events.NewBus(slogx.Discard())

	bus.Subscribe(func(context.Context, events.AuthChanged) { panic("boom") })

	delivered := 0
	bus.Subscribe(func(context.Context, events.AuthChanged) { delivered++ })

	require.NotPanics(t, func() {
		bus.Publish(context.Background(), events.AuthChanged{})
	})
	require.Equal(t, 1, delivered)
}
