package telemetry

import "sync"

// Hub keeps the rolling window of live-pushed points per room. The window is
// capped at insertion time so a slow chart reader cannot grow memory.
type Hub struct {
	mu     sync.RWMutex
	window int
	rooms  map[int64][]Point
}

// NewHub creates a hub that keeps at most window live points per room.
func NewHub(window int) *Hub {
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &Hub{
		window: window,
		rooms:  make(map[int64][]Point),
	}
}

// Window returns the configured per-room window size.
func (h *Hub) Window() int {
	return h.window
}

// Append records a live point for a room, evicting the oldest point once the
// window is full.
func (h *Hub) Append(roomID int64, p Point) {
	h.mu.Lock()
	defer h.mu.Unlock()

	pts := append(h.rooms[roomID], p)
	if len(pts) > h.window {
		pts = pts[len(pts)-h.window:]
	}
	h.rooms[roomID] = pts
}

// Live returns a copy of the room's current live window.
func (h *Hub) Live(roomID int64) []Point {
	h.mu.RLock()
	defer h.mu.RUnlock()

	pts := h.rooms[roomID]
	out := make([]Point, len(pts))
	copy(out, pts)
	return out
}

// Reset drops all live windows. Used on sign-out together with the request
// cache clear.
func (h *Hub) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rooms = make(map[int64][]Point)
}
