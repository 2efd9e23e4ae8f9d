package game

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
)

// Effects spawns and ages transient particles. Particles are ephemeral Decoration
// objects in the scene so the renderer draws them like anything else.
type Effects interface {
	// Burst spawns a ring of particles at a position.
	//
	// Parameters:
	//   - kind: the event that caused the burst; selects the color
	//   - at: the burst center
	//
	// Returns:
	//   - int: the number of particles spawned
	Burst(kind EventKind, at common.Vec3) int

	// Age decrements every particle's life by dt and removes those at or below zero.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	//
	// Returns:
	//   - int: the number of particles removed
	Age(dt float32) int

	// Count returns the number of live particles.
	Count() int

	// Clear removes every particle from the scene.
	Clear()
}

type effects struct {
	mu *sync.Mutex

	scene scene.Scene
	count int
	life  float32
	speed float32
	live  []uint64
}

var _ Effects = &effects{}

// NewEffects creates a particle spawner that adds to sc.
//
// Parameters:
//   - sc: the scene particles are added to
//   - t: tuning supplying count, life and speed
//
// Returns:
//   - Effects: the spawner
func NewEffects(sc scene.Scene, t Tuning) Effects {
	return &effects{
		mu:    &sync.Mutex{},
		scene: sc,
		count: t.ParticleCount,
		life:  t.ParticleLife,
		speed: t.ParticleSpeed,
	}
}

var burstColors = map[EventKind][4]float32{
	EventHop:      {0.6, 0.9, 1.0, 1},
	EventDash:     {1.0, 1.0, 1.0, 1},
	EventHit:      {1.0, 0.3, 0.2, 1},
	EventGameOver: {1.0, 0.1, 0.1, 1},
}

func (e *effects) Burst(kind EventKind, at common.Vec3) int {
	if e.scene == nil || e.count <= 0 || e.life <= 0 {
		return 0
	}
	c, ok := burstColors[kind]
	if !ok {
		c = [4]float32{1, 1, 1, 1}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := 0; i < e.count; i++ {
		angle := 2 * math.Pi * float64(i) / float64(e.count)
		drift := common.V3(float32(math.Cos(angle)), 0.5, float32(math.Sin(angle))).Scale(e.speed)
		obj := game_object.NewGameObject(
			game_object.WithName("particle"),
			game_object.WithKind(game_object.KindDecoration),
			game_object.WithEphemeral(true),
			game_object.WithMesh(MeshParticle),
			game_object.WithMaterial(MaterialParticle),
			game_object.WithColor(c[0], c[1], c[2], c[3]),
			game_object.WithRadius(0.1),
			game_object.WithPosition(at.X, at.Y+0.5, at.Z),
			game_object.WithScale(0.15, 0.15, 0.15),
			game_object.WithLife(e.life, drift),
		)
		e.live = append(e.live, e.scene.Add(obj))
	}
	return e.count
}

func (e *effects) Age(dt float32) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	removed := 0
	kept := e.live[:0]
	for _, id := range e.live {
		obj := e.scene.Get(id)
		if obj == nil || obj.Decoration() == nil {
			removed++
			continue
		}
		d := obj.Decoration()
		d.Life -= dt
		if d.Life <= 0 {
			e.scene.Remove(id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	e.live = kept
	return removed
}

func (e *effects) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

func (e *effects) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range e.live {
		e.scene.Remove(id)
	}
	e.live = nil
}
