package core_test

import (
	"testing"

	"github.com/aretw0/runways/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_Fanout(t *testing.T) {
	b := core.NewBroker(4)
	a, cancelA := b.Subscribe()
	c, cancelC := b.Subscribe()
	defer cancelA()
	defer cancelC()

	b.Publish(core.Event{Type: core.EventCreate, Store: core.StoreBoard, ID: "n1"})

	for _, ch := range []<-chan core.Event{a, c} {
		e := <-ch
		assert.Equal(t, "n1", e.ID)
		assert.NotZero(t, e.Timestamp)
	}
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := core.NewBroker(1)
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < 5; i++ {
		b.Publish(core.Event{ID: "evt"})
	}

	assert.Len(t, ch, 1)
	assert.Equal(t, 4, b.State().Dropped)
}

func TestBroker_CancelClosesChannel(t *testing.T) {
	b := core.NewBroker(0)
	ch, cancel := b.Subscribe()
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.State().Subscribers)
	assert.Equal(t, core.DefaultEventBuffer, b.State().Buffer)
}

func TestBroker_Close(t *testing.T) {
	b := core.NewBroker(2)
	ch, cancel := b.Subscribe()
	b.Close()
	cancel()

	_, ok := <-ch
	require.False(t, ok)

	late, _ := b.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}
