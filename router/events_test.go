package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStreamFanOut(t *testing.T) {
	stream := newEventStream()

	a := stream.subscribe()
	b := stream.subscribe()

	stream.push(&Event{Type: EventExecuted, Nonce: 7})

	for _, sub := range []Subscription{a, b} {
		event := <-sub.GetEvent()
		assert.Equal(t, EventExecuted, event.Type)
		assert.Equal(t, uint64(7), event.Nonce)
	}
}

func TestEventStreamUnsubscribe(t *testing.T) {
	stream := newEventStream()

	sub := stream.subscribe()
	sub.Unsubscribe()

	require.True(t, sub.IsClosed())

	// the next push prunes closed subscriptions and closes the channel
	stream.push(&Event{Type: EventKeyUpdated})

	_, open := <-sub.GetEvent()
	assert.False(t, open)

	stream.lock.Lock()
	assert.Empty(t, stream.subscriptions)
	stream.lock.Unlock()
}

func TestEventStreamSlowSubscriber(t *testing.T) {
	stream := newEventStream()

	sub := stream.subscribe()

	// overflow the buffer, pushes must not block
	for i := 0; i < subscriptionBuffer*2; i++ {
		stream.push(&Event{Type: EventExecuted, Nonce: uint64(i)})
	}

	received := 0

	for {
		select {
		case <-sub.GetEvent():
			received++

			continue
		default:
		}

		break
	}

	assert.Equal(t, subscriptionBuffer, received)
}
