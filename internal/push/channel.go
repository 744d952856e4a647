// Package push maintains one live websocket connection per logical endpoint
// and delivers parsed messages to registered handlers. Connection and parse
// errors are never fatal: the channel reconnects with exponential backoff,
// indefinitely.
package push

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// State is the channel's connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateOpen         State = "open"
)

// Conn is the subset of a websocket connection the channel needs.
type Conn interface {
	ReadMessage() ([]byte, error)
	Close() error
}

// DialFunc opens a connection to the endpoint.
type DialFunc func(ctx context.Context, url string) (Conn, error)

type gorillaConn struct {
	ws *websocket.Conn
}

func (c *gorillaConn) ReadMessage() ([]byte, error) {
	_, msg, err := c.ws.ReadMessage()
	return msg, err
}

func (c *gorillaConn) Close() error {
	return c.ws.Close()
}

func gorillaDial(ctx context.Context, url string) (Conn, error) {
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return &gorillaConn{ws: ws}, nil
}

// Channel manages one reconnecting push connection.
type Channel struct {
	name      string
	url       string
	dial      DialFunc
	baseDelay time.Duration
	maxDelay  time.Duration

	mu       sync.RWMutex
	handlers map[Kind]Handler
	state    State
	attempt  int

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewChannel creates a channel for the named endpoint. The channel is idle
// until Connect is called.
func NewChannel(name, url string, baseDelay, maxDelay time.Duration) *Channel {
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	if maxDelay <= 0 {
		maxDelay = 30 * time.Second
	}
	return &Channel{
		name:      name,
		url:       url,
		dial:      gorillaDial,
		baseDelay: baseDelay,
		maxDelay:  maxDelay,
		handlers:  make(map[Kind]Handler),
		state:     StateDisconnected,
		done:      make(chan struct{}),
	}
}

// SetDialFunc replaces the websocket dialer. Tests use this to inject fake
// connections.
func (c *Channel) SetDialFunc(dial DialFunc) {
	c.dial = dial
}

// Subscribe registers the handler for a message kind, replacing any previous
// handler for that kind.
func (c *Channel) Subscribe(kind Kind, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[kind] = h
}

// Unsubscribe removes the handler for a message kind.
func (c *Channel) Unsubscribe(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, kind)
}

// State reports the current connection state.
func (c *Channel) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Connect starts the connection loop in the background. The loop runs until
// ctx is cancelled or Close is called.
func (c *Channel) Connect(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
	go c.run(runCtx)
}

// Close tears the channel down: it cancels any pending reconnect timer,
// closes the active connection and waits for the loop to exit.
func (c *Channel) Close() {
	c.mu.RLock()
	cancel := c.cancel
	c.mu.RUnlock()
	if cancel == nil {
		return
	}
	cancel()
	<-c.done
}

func (c *Channel) run(ctx context.Context) {
	defer c.once.Do(func() { close(c.done) })

	for {
		if ctx.Err() != nil {
			c.setState(StateDisconnected)
			return
		}

		c.setState(StateConnecting)
		conn, err := c.dial(ctx, c.url)
		if err != nil {
			log.Printf("push[%s]: connect failed: %v", c.name, err)
			c.setState(StateDisconnected)
			if !c.waitBackoff(ctx) {
				return
			}
			continue
		}

		c.resetAttempt()
		c.setState(StateOpen)
		log.Printf("push[%s]: connection open", c.name)

		c.readLoop(ctx, conn)

		c.setState(StateDisconnected)
		if !c.waitBackoff(ctx) {
			return
		}
	}
}

// readLoop consumes messages until the connection drops or ctx is cancelled.
func (c *Channel) readLoop(ctx context.Context, conn Conn) {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-connCtx.Done()
		conn.Close()
	}()

	for {
		msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("push[%s]: connection closed: %v", c.name, err)
			}
			return
		}
		c.dispatch(msg)
	}
}

// dispatch parses one inbound message and invokes the registered handler.
// Malformed or unknown messages are logged and dropped; a known kind with no
// registered handler is silently discarded.
func (c *Channel) dispatch(msg []byte) {
	var env Envelope
	if err := json.Unmarshal(msg, &env); err != nil {
		log.Printf("push[%s]: dropping malformed message: %v", c.name, err)
		return
	}

	kind := Kind(env.Type)
	if !knownKinds[kind] {
		log.Printf("push[%s]: dropping message with unknown kind %q", c.name, env.Type)
		return
	}

	c.mu.RLock()
	h := c.handlers[kind]
	c.mu.RUnlock()
	if h == nil {
		return
	}
	h(env.Data, env.Timestamp)
}

// waitBackoff sleeps for the current retry delay, bumping the attempt
// counter. It returns false when ctx was cancelled while waiting.
func (c *Channel) waitBackoff(ctx context.Context) bool {
	c.mu.Lock()
	delay := backoffDelay(c.attempt, c.baseDelay, c.maxDelay)
	c.attempt++
	attempt := c.attempt
	c.mu.Unlock()

	log.Printf("push[%s]: reconnecting in %s (attempt %d)", c.name, delay, attempt)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Channel) resetAttempt() {
	c.mu.Lock()
	c.attempt = 0
	c.mu.Unlock()
}

func (c *Channel) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// backoffDelay computes min(base * 2^attempt, max). Retries are unbounded:
// the front-desk tablets stay up around the clock, so the channel keeps
// trying and surfaces its state for an offline badge instead of giving up.
func backoffDelay(attempt int, base, max time.Duration) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}
