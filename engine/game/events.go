package game

import "github.com/Carmen-Shannon/oxy-chase/common"

// EventKind identifies something noteworthy that happened during an update.
type EventKind int

const (
	EventStart EventKind = iota
	EventHop
	EventDash
	EventHit
	EventDanger
	EventGameOver
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventHop:
		return "hop"
	case EventDash:
		return "dash"
	case EventHit:
		return "hit"
	case EventDanger:
		return "danger"
	case EventGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event is emitted by the controller. Position is where it happened; Distance is the
// pursuer-player distance for Hit and Danger.
type Event struct {
	Kind     EventKind   `json:"kind"`
	Position common.Vec3 `json:"position"`
	Distance float32     `json:"distance,omitempty"`
	Lives    int         `json:"lives"`
	Score    int         `json:"score"`
}

// Observer receives every event as it is emitted, on the frame goroutine.
type Observer func(Event)
