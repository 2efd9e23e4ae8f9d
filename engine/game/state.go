package game

import (
	"math"

	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/google/uuid"
)

// Phase is the session state machine: Idle -> Playing -> (GameOver | Playing).
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "game_over"
	default:
		return "idle"
	}
}

// MarshalText encodes the phase by name for JSON snapshots.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Session is the bookkeeping for one run of the game.
// Stamina stays within [0, MaxStamina] and Lives within [0, MaxLives] after every mutation.
type Session struct {
	ID           uuid.UUID `json:"id"`
	Phase        Phase     `json:"phase"`
	Score        int       `json:"score"`
	SurvivalTime float32   `json:"survivalTime"`
	Lives        int       `json:"lives"`
	Stamina      float32   `json:"stamina"`
}

// NewSession returns an Idle session with full lives and stamina.
func NewSession(t Tuning) Session {
	return Session{
		Phase:   PhaseIdle,
		Lives:   t.MaxLives,
		Stamina: t.MaxStamina,
	}
}

// Playing reports whether game logic should advance.
func (s Session) Playing() bool {
	return s.Phase == PhasePlaying
}

// begin resets the bookkeeping for a fresh run and enters Playing.
func (s *Session) begin(t Tuning) {
	*s = Session{
		ID:      uuid.New(),
		Phase:   PhasePlaying,
		Lives:   t.MaxLives,
		Stamina: t.MaxStamina,
	}
}

// advance accrues survival time and recomputes the score from it.
func (s *Session) advance(dt float32, t Tuning) {
	s.SurvivalTime += dt
	s.Score = int(math.Floor(float64(s.SurvivalTime * t.ScorePerSecond)))
}

// spend subtracts cost if the stamina covers it.
//
// Returns:
//   - bool: true if the cost was paid
func (s *Session) spend(cost float32) bool {
	if s.Stamina < cost {
		return false
	}
	s.Stamina -= cost
	return true
}

func (s *Session) clampStamina(t Tuning) {
	s.Stamina = common.Clamp(s.Stamina, 0, t.MaxStamina)
}

// loseLife takes one life and ends the session when none remain.
//
// Returns:
//   - bool: true if this was the last life
func (s *Session) loseLife() bool {
	if s.Lives > 0 {
		s.Lives--
	}
	if s.Lives == 0 {
		s.Phase = PhaseGameOver
		return true
	}
	return false
}
