package debug

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/Carmen-Shannon/oxy-chase/engine/game"
	"github.com/google/uuid"
)

// Snapshot is the read-only view of one frame published to debug subscribers.
type Snapshot struct {
	game.Session
	Player  common.Vec3  `json:"player"`
	Pursuer common.Vec3  `json:"pursuer"`
	Frame   uint64       `json:"frame"`
	Events  []game.Event `json:"events,omitempty"`
}

// Subscriber receives snapshots on C until it is unsubscribed, which closes C.
type Subscriber struct {
	ID uuid.UUID
	C  <-chan Snapshot
	ch chan Snapshot
}

type hubImpl struct {
	mu          *sync.RWMutex
	subscribers map[uuid.UUID]*Subscriber
	latest      *Snapshot
	buffer      int
	published   atomic.Uint64
	dropped     atomic.Uint64
}

// Hub fans snapshots out to any number of subscribers. Publishing never blocks: a
// subscriber whose buffer is full misses that snapshot.
type Hub interface {
	// Publish records s as the latest snapshot and offers it to every subscriber.
	//
	// Parameters:
	//   - s: the snapshot to publish
	Publish(s Snapshot)

	// Latest returns the most recent snapshot.
	//
	// Returns:
	//   - Snapshot: the latest snapshot
	//   - bool: false if nothing was published yet
	Latest() (Snapshot, bool)

	// Subscribe registers a new subscriber with a fresh ID.
	Subscribe() *Subscriber

	// Unsubscribe removes the subscriber and closes its channel. Unknown IDs are ignored.
	Unsubscribe(id uuid.UUID)

	// Subscribers returns the number of registered subscribers.
	Subscribers() int

	// Stats returns how many snapshots were published and how many deliveries were dropped.
	Stats() (published, dropped uint64)
}

var _ Hub = &hubImpl{}

// NewHub creates a Hub whose subscribers buffer up to buffer snapshots each.
// Non-positive values use a buffer of 8.
//
// Parameters:
//   - buffer: per-subscriber channel capacity
//
// Returns:
//   - Hub: the new hub
func NewHub(buffer int) Hub {
	if buffer <= 0 {
		buffer = 8
	}
	return &hubImpl{
		mu:          &sync.RWMutex{},
		subscribers: make(map[uuid.UUID]*Subscriber),
		buffer:      buffer,
	}
}

func (h *hubImpl) Publish(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = &s
	h.published.Add(1)
	for _, sub := range h.subscribers {
		select {
		case sub.ch <- s:
		default:
			h.dropped.Add(1)
		}
	}
}

func (h *hubImpl) Latest() (Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.latest == nil {
		return Snapshot{}, false
	}
	return *h.latest, true
}

func (h *hubImpl) Subscribe() *Subscriber {
	ch := make(chan Snapshot, h.buffer)
	sub := &Subscriber{ID: uuid.New(), C: ch, ch: ch}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sub.ID] = sub
	return sub
}

func (h *hubImpl) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(sub.ch)
	}
}

func (h *hubImpl) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

func (h *hubImpl) Stats() (uint64, uint64) {
	return h.published.Load(), h.dropped.Load()
}
