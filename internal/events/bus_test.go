package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	b := NewBus()
	a := b.Subscribe()
	c := b.Subscribe()
	defer b.Unsubscribe(a)
	defer b.Unsubscribe(c)

	b.Publish(Event{Type: TypeOrderFilled, Data: "AAPL"})

	for _, ch := range []chan Event{a, c} {
		select {
		case evt := <-ch:
			assert.Equal(t, TypeOrderFilled, evt.Type)
			assert.Equal(t, "AAPL", evt.Data)
		default:
			t.Fatal("expected event")
		}
	}
}

func TestPublishDropsWhenBufferFull(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	for i := 0; i < cap(ch)+10; i++ {
		b.Publish(Event{Type: TypeOrderRelayed})
	}
	assert.Len(t, ch, cap(ch))
}

func TestUnsubscribeClosesOnce(t *testing.T) {
	b := NewBus()
	ch := b.Subscribe()
	require.Equal(t, 1, b.Subscribers())

	b.Unsubscribe(ch)
	b.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers())
}

func TestPublishOnNilBus(t *testing.T) {
	var b *Bus
	assert.NotPanics(t, func() { b.Publish(Event{Type: TypeOrderFailed}) })
}
