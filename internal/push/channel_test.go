package push

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffDelay_Sequence(t *testing.T) {
	base := time.Second
	max := 30 * time.Second

	// Five consecutive failures: 1s, 2s, 4s, 8s, 16s.
	expected := []time.Duration{
		1000 * time.Millisecond,
		2000 * time.Millisecond,
		4000 * time.Millisecond,
		8000 * time.Millisecond,
		16000 * time.Millisecond,
	}
	for attempt, want := range expected {
		assert.Equal(t, want, backoffDelay(attempt, base, max), "attempt %d", attempt)
	}

	// The 6th failure would compute 32s and is clamped to 30s, as is every
	// failure after it.
	assert.Equal(t, max, backoffDelay(5, base, max))
	assert.Equal(t, max, backoffDelay(6, base, max))
	assert.Equal(t, max, backoffDelay(40, base, max))
}

// scriptConn replays scripted messages. Once they are exhausted it either
// blocks until closed or, in dropping mode, reports the connection lost.
type scriptConn struct {
	msgs [][]byte
	idx  int
	drop bool

	closeOnce sync.Once
	closed    chan struct{}
}

func newScriptConn(msgs ...[]byte) *scriptConn {
	return &scriptConn{msgs: msgs, closed: make(chan struct{})}
}

func newDroppingConn(msgs ...[]byte) *scriptConn {
	c := newScriptConn(msgs...)
	c.drop = true
	return c
}

func (c *scriptConn) ReadMessage() ([]byte, error) {
	if c.idx < len(c.msgs) {
		msg := c.msgs[c.idx]
		c.idx++
		return msg, nil
	}
	if c.drop {
		return nil, errors.New("connection dropped")
	}
	<-c.closed
	return nil, errors.New("connection closed")
}

func (c *scriptConn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

func TestChannel_DispatchesToRegisteredHandler(t *testing.T) {
	ch := NewChannel("test", "ws://unused", time.Millisecond, 10*time.Millisecond)

	received := make(chan json.RawMessage, 1)
	ch.Subscribe(KindSensorReading, func(data json.RawMessage, _ *time.Time) {
		received <- data
	})

	conn := newScriptConn([]byte(`{"type":"sensor_reading","data":{"roomId":3}}`))
	ch.SetDialFunc(func(ctx context.Context, url string) (Conn, error) {
		return conn, nil
	})

	ch.Connect(context.Background())
	defer ch.Close()

	select {
	case data := <-received:
		assert.JSONEq(t, `{"roomId":3}`, string(data))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dispatched message")
	}
}

func TestChannel_UnknownKindLeavesHandlersUncalled(t *testing.T) {
	ch := NewChannel("test", "ws://unused", time.Millisecond, 10*time.Millisecond)

	called := false
	for _, kind := range []Kind{KindSensorReading, KindAlert, KindLifecycleUpdate, KindConnected} {
		ch.Subscribe(kind, func(json.RawMessage, *time.Time) { called = true })
	}

	assert.NotPanics(t, func() {
		ch.dispatch([]byte(`{"type":"unexpected_kind","data":{}}`))
	})
	assert.False(t, called)
}

func TestChannel_MalformedMessageIsDropped(t *testing.T) {
	ch := NewChannel("test", "ws://unused", time.Millisecond, 10*time.Millisecond)
	ch.Subscribe(KindAlert, func(json.RawMessage, *time.Time) {
		t.Fatal("handler must not run for malformed input")
	})

	assert.NotPanics(t, func() {
		ch.dispatch([]byte(`{not json`))
	})
}

func TestChannel_KnownKindWithoutHandlerIsSilentlyDiscarded(t *testing.T) {
	ch := NewChannel("test", "ws://unused", time.Millisecond, 10*time.Millisecond)
	assert.NotPanics(t, func() {
		ch.dispatch([]byte(`{"type":"lifecycle_update","data":{"id":1}}`))
	})
}

func TestChannel_UnsubscribeStopsDelivery(t *testing.T) {
	ch := NewChannel("test", "ws://unused", time.Millisecond, 10*time.Millisecond)

	calls := 0
	ch.Subscribe(KindConnected, func(json.RawMessage, *time.Time) { calls++ })
	ch.dispatch([]byte(`{"type":"connected"}`))
	ch.Unsubscribe(KindConnected)
	ch.dispatch([]byte(`{"type":"connected"}`))

	assert.Equal(t, 1, calls)
}

func TestChannel_AttemptResetsAfterSuccessfulOpen(t *testing.T) {
	ch := NewChannel("test", "ws://unused", time.Millisecond, 4*time.Millisecond)

	var mu sync.Mutex
	dials := 0
	conn := newScriptConn()
	ch.SetDialFunc(func(ctx context.Context, url string) (Conn, error) {
		mu.Lock()
		defer mu.Unlock()
		dials++
		if dials <= 3 {
			return nil, errors.New("connection refused")
		}
		return conn, nil
	})

	ch.Connect(context.Background())
	defer ch.Close()

	require.Eventually(t, func() bool {
		return ch.State() == StateOpen
	}, time.Second, time.Millisecond, "channel should eventually open")

	// Three failures were consumed before the open; a successful open resets
	// the counter so the next failure starts the backoff ladder over.
	ch.mu.RLock()
	attempt := ch.attempt
	ch.mu.RUnlock()
	assert.Equal(t, 0, attempt)
}

func TestChannel_ReconnectsAfterConnectionDrop(t *testing.T) {
	ch := NewChannel("test", "ws://unused", time.Millisecond, 4*time.Millisecond)

	ch.SetDialFunc(func(ctx context.Context, url string) (Conn, error) {
		// Every connection delivers one message and then drops.
		return newDroppingConn([]byte(`{"type":"connected"}`)), nil
	})

	connects := make(chan struct{}, 16)
	ch.Subscribe(KindConnected, func(json.RawMessage, *time.Time) {
		connects <- struct{}{}
	})

	ch.Connect(context.Background())
	defer ch.Close()

	// The first connection drops after its message; the channel must come
	// back on its own and deliver again.
	for i := 0; i < 2; i++ {
		select {
		case <-connects:
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for connection %d", i+1)
		}
	}
}

func TestChannel_CloseCancelsPendingRetry(t *testing.T) {
	// A very long backoff: Close must not wait it out.
	ch := NewChannel("test", "ws://unused", time.Hour, time.Hour)
	ch.SetDialFunc(func(ctx context.Context, url string) (Conn, error) {
		return nil, errors.New("connection refused")
	})

	ch.Connect(context.Background())

	require.Eventually(t, func() bool {
		return ch.State() == StateDisconnected
	}, time.Second, time.Millisecond)

	done := make(chan struct{})
	go func() {
		ch.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not cancel the pending retry timer")
	}
	assert.Equal(t, StateDisconnected, ch.State())
}
