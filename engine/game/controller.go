package game

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/input"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
	"github.com/sirupsen/logrus"
)

// RayCaster turns a pointer position into a world-space ray, usually through the camera.
// It returns false when no ray can be produced, for example before the first resize.
type RayCaster func(p input.Point) (common.Ray, bool)

// Controller advances the chase: player movement, pursuit, collision and the session
// state machine. It finds the player and pursuer in the scene by kind on every update,
// so either may be missing; the steps that need a missing entity are skipped.
type Controller interface {
	// Session returns a copy of the current bookkeeping.
	//
	// Returns:
	//   - Session: phase, score, survival time, lives, stamina
	Session() Session

	// Tuning returns the constants the controller runs with.
	Tuning() Tuning

	// Start begins the first session. It only works from Idle: while Playing it does not
	// reset the live session, and after GameOver only Restart leaves that phase.
	//
	// Returns:
	//   - bool: true if a new session started
	Start() bool

	// Restart begins a new session, only from GameOver.
	//
	// Returns:
	//   - bool: true if a new session started
	Restart() bool

	// Update advances the game by dt seconds using one frame of input.
	// Outside Playing only particles age.
	//
	// Parameters:
	//   - dt: elapsed time in seconds; negative or non-finite values count as zero
	//   - intent: the sampled input
	//
	// Returns:
	//   - []Event: everything that happened during this update, in order
	Update(dt float32, intent input.Intent) []Event

	// SetObserver installs a hook that receives every event as it happens.
	SetObserver(observer Observer)

	// Effects returns the particle spawner.
	Effects() Effects
}

type controller struct {
	mu *sync.Mutex

	scene     scene.Scene
	tuning    Tuning
	session   Session
	effects   Effects
	rayCaster RayCaster
	observer  Observer
	log       logrus.FieldLogger

	events []Event
}

var _ Controller = &controller{}

// NewController creates a controller over sc in the Idle phase.
//
// Parameters:
//   - sc: the scene holding the player and pursuer
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the newly created controller
func NewController(sc scene.Scene, options ...ControllerBuilderOption) Controller {
	c := &controller{
		mu:     &sync.Mutex{},
		scene:  sc,
		tuning: DefaultTuning(),
		log:    logrus.StandardLogger(),
	}
	for _, option := range options {
		option(c)
	}
	c.session = NewSession(c.tuning)
	if c.effects == nil {
		c.effects = NewEffects(sc, c.tuning)
	}
	return c
}

func (c *controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *controller) Tuning() Tuning {
	return c.tuning
}

func (c *controller) Effects() Effects {
	return c.effects
}

func (c *controller) SetObserver(observer Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = observer
}

func (c *controller) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ok := c.start()
	c.flush()
	return ok
}

func (c *controller) Restart() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ok := c.restart()
	c.flush()
	return ok
}

// start leaves Idle. Caller must hold the mutex.
func (c *controller) start() bool {
	if c.session.Phase != PhaseIdle {
		return false
	}
	c.begin()
	return true
}

// restart leaves GameOver. Caller must hold the mutex.
func (c *controller) restart() bool {
	if c.session.Phase != PhaseGameOver {
		return false
	}
	c.begin()
	return true
}

// begin resets everything and enters Playing. Caller must hold the mutex.
func (c *controller) begin() {
	c.session.begin(c.tuning)
	player, pursuer := c.agents()
	if player != nil {
		player.Reset()
		player.SetPosition(c.tuning.PlayerStart)
	}
	if pursuer != nil {
		pursuer.Reset()
		pursuer.SetPosition(c.tuning.PursuerStart)
	}
	c.effects.Clear()
	c.log.WithField("session", c.session.ID.String()).Info("game started")
	c.emit(Event{Kind: EventStart, Position: c.tuning.PlayerStart, Lives: c.session.Lives})
}

func (c *controller) Update(dt float32, intent input.Intent) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dt < 0 || !common.IsFinite(dt) {
		dt = 0
	}

	if intent.Restart {
		c.restart()
	}
	if intent.Start {
		c.start()
	}

	if c.session.Playing() {
		c.session.advance(dt, c.tuning)
		player, pursuer := c.agents()
		if player != nil {
			c.movePlayer(dt, intent, player)
		}
		if player != nil && pursuer != nil {
			c.pursue(dt, pursuer, player.Position())
			c.collide(player, pursuer)
		}
	}

	c.effects.Age(dt)
	return c.flush()
}

// agents looks up the current player and pursuer. Either may be nil, for example
// while an asset is still loading.
func (c *controller) agents() (player, pursuer game_object.GameObject) {
	if c.scene == nil {
		return nil, nil
	}
	player = c.scene.FirstOfKind(game_object.KindPlayer)
	pursuer = c.scene.FirstOfKind(game_object.KindPursuer)
	if player != nil && !player.Enabled() {
		player = nil
	}
	if pursuer != nil && !pursuer.Enabled() {
		pursuer = nil
	}
	return player, pursuer
}

// emit records an event and notifies the observer. Caller must hold the mutex.
func (c *controller) emit(e Event) {
	if e.Score == 0 {
		e.Score = c.session.Score
	}
	c.events = append(c.events, e)
	if c.observer != nil {
		c.observer(e)
	}
}

// flush returns and clears the pending events. Caller must hold the mutex.
func (c *controller) flush() []Event {
	if len(c.events) == 0 {
		return nil
	}
	out := c.events
	c.events = nil
	return out
}

// facing returns the yaw that turns an object's +Z axis toward dir on the ground plane.
func facing(dir common.Vec3) float32 {
	return float32(math.Atan2(float64(dir.X), float64(dir.Z)))
}
