package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/input"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// downwardCaster maps a pointer (x, y) to a vertical ray hitting the ground at (x, 0, y).
func downwardCaster(p input.Point) (common.Ray, bool) {
	return common.Ray{Origin: common.V3(p.X, 10, p.Y), Dir: common.V3(0, -1, 0)}, true
}

func newChase(t *testing.T, options ...ControllerBuilderOption) (scene.Scene, *controller) {
	t.Helper()
	sc := scene.NewScene()
	PopulateScene(sc, DefaultTuning())
	logger, _ := test.NewNullLogger()
	opts := append([]ControllerBuilderOption{WithLogger(logger), WithRayCaster(downwardCaster)}, options...)
	c := NewController(sc, opts...).(*controller)
	return sc, c
}

func player(sc scene.Scene) game_object.GameObject {
	return sc.FirstOfKind(game_object.KindPlayer)
}

func pursuer(sc scene.Scene) game_object.GameObject {
	return sc.FirstOfKind(game_object.KindPursuer)
}

func kinds(events []Event) []EventKind {
	var out []EventKind
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestStartPlacesAgents(t *testing.T) {
	sc, c := newChase(t)
	assert.Equal(t, PhaseIdle, c.Session().Phase)

	player(sc).SetPosition(common.V3(3, 0, 3))
	require.True(t, c.Start())

	s := c.Session()
	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, 3, s.Lives)
	assert.Equal(t, float32(100), s.Stamina)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", s.ID.String())
	assert.Equal(t, common.V3(0, 0, 0), player(sc).Position())
	assert.Equal(t, common.V3(8, 0, 8), pursuer(sc).Position())
}

func TestPursuerAdvancesAboutThreeUnitsInOneSecond(t *testing.T) {
	sc, c := newChase(t)
	require.True(t, c.Start())
	start := pursuer(sc).Position()

	c.Update(1, input.Intent{})

	moved := pursuer(sc).Position().Distance(start)
	assert.InEpsilon(t, 3, moved, 0.05)
	assert.Less(t, pursuer(sc).Position().Distance(common.Vec3{}), start.Distance(common.Vec3{}))
	assert.Equal(t, common.V3(0, 0, 0), player(sc).Position())
}

func TestPursuerFacesTarget(t *testing.T) {
	sc, c := newChase(t)
	require.True(t, c.Start())
	pursuer(sc).SetPosition(common.V3(-10, 0, 0))
	c.Update(0.1, input.Intent{})
	// target is along +X from the pursuer
	assert.InDelta(t, math.Pi/2, pursuer(sc).Transform().Rotation.Y, 1e-5)
	assert.True(t, pursuer(sc).Pursuer().Chasing)
}

func TestHitInsideRadiusCostsALife(t *testing.T) {
	sc, c := newChase(t)
	require.True(t, c.Start())
	pursuer(sc).SetPosition(common.V3(1.4, 0, 0))

	events := c.Update(0, input.Intent{})

	assert.Contains(t, kinds(events), EventHit)
	assert.Equal(t, 2, c.Session().Lives)
	assert.Equal(t, PhasePlaying, c.Session().Phase)
	assert.Equal(t, common.V3(0, 0, 0), player(sc).Position())
	assert.Equal(t, common.V3(8, 0, 8), pursuer(sc).Position())
}

func TestHitBoundaryIsExclusive(t *testing.T) {
	sc, c := newChase(t)
	require.True(t, c.Start())
	pursuer(sc).SetPosition(common.V3(1.5, 0, 0))

	events := c.Update(0, input.Intent{})

	assert.NotContains(t, kinds(events), EventHit)
	assert.Equal(t, []EventKind{EventDanger}, kinds(events))
	assert.Equal(t, 3, c.Session().Lives)
}

func TestDangerEndsAtWarningRadius(t *testing.T) {
	sc, c := newChase(t)
	require.True(t, c.Start())
	pursuer(sc).SetPosition(common.V3(3, 0, 0))
	assert.Empty(t, c.Update(0, input.Intent{}))
}

func TestLivesDecreaseToGameOver(t *testing.T) {
	sc, c := newChase(t)
	require.True(t, c.Start())

	for want := 2; want >= 0; want-- {
		pursuer(sc).SetPosition(player(sc).Position())
		events := c.Update(0, input.Intent{})
		assert.Equal(t, want, c.Session().Lives)
		if want > 0 {
			assert.Equal(t, PhasePlaying, c.Session().Phase, "game over must not come early")
			assert.NotContains(t, kinds(events), EventGameOver)
		} else {
			assert.Equal(t, PhaseGameOver, c.Session().Phase)
			assert.Equal(t, []EventKind{EventHit, EventGameOver}, kinds(events))
		}
	}

	// frozen after game over
	frozen := c.Session()
	pos := pursuer(sc).Position()
	c.Update(1, input.Intent{Forward: true})
	assert.Equal(t, frozen, c.Session())
	assert.Equal(t, pos, pursuer(sc).Position())
}

func TestRestartRestoresInitialState(t *testing.T) {
	sc, c := newChase(t)
	before := c.Session()

	require.True(t, c.Start())
	c.Update(2.5, input.Intent{Sprint: true, Right: true})
	for c.Session().Phase == PhasePlaying {
		pursuer(sc).SetPosition(player(sc).Position())
		c.Update(0, input.Intent{})
	}
	assert.False(t, c.Session().Playing())

	events := c.Update(0, input.Intent{Restart: true})
	assert.Contains(t, kinds(events), EventStart)

	after := c.Session()
	assert.Equal(t, PhasePlaying, after.Phase)
	assert.Equal(t, before.Score, after.Score)
	assert.Equal(t, before.SurvivalTime, after.SurvivalTime)
	assert.Equal(t, before.Lives, after.Lives)
	assert.Equal(t, before.Stamina, after.Stamina)
	assert.Equal(t, common.V3(0, 0, 0), player(sc).Position())
	assert.Equal(t, common.V3(8, 0, 8), pursuer(sc).Position())
}

func TestStartWhilePlayingIsNoOp(t *testing.T) {
	_, c := newChase(t)
	require.True(t, c.Start())
	c.Update(1.2, input.Intent{})
	live := c.Session()

	assert.False(t, c.Start())
	assert.False(t, c.Restart())
	c.Update(0, input.Intent{Start: true, Restart: true})
	assert.Equal(t, live, c.Session())
}

func TestStartDoesNotLeaveGameOver(t *testing.T) {
	sc, c := newChase(t)
	require.True(t, c.Start())
	for c.Session().Phase == PhasePlaying {
		pursuer(sc).SetPosition(player(sc).Position())
		c.Update(0, input.Intent{})
	}
	over := c.Session()
	require.Equal(t, PhaseGameOver, over.Phase)

	assert.False(t, c.Start())
	events := c.Update(0.5, input.Intent{Start: true})
	assert.Empty(t, events)
	assert.Equal(t, over, c.Session())

	require.True(t, c.Restart())
	assert.Equal(t, PhasePlaying, c.Session().Phase)
}

func TestRestartOnlyFromGameOver(t *testing.T) {
	_, c := newChase(t)
	assert.False(t, c.Restart())
	assert.Equal(t, PhaseIdle, c.Session().Phase)
}

func TestScoreFollowsSurvivalTime(t *testing.T) {
	sc, c := newChase(t)
	sc.Remove(pursuer(sc).ID())
	require.True(t, c.Start())
	for i := 0; i < 25; i++ {
		c.Update(0.1, input.Intent{})
	}
	s := c.Session()
	assert.InDelta(t, 2.5, s.SurvivalTime, 1e-4)
	assert.Contains(t, []int{24, 25}, s.Score)
}

func TestDiagonalMovesAsFastAsCardinal(t *testing.T) {
	cases := []struct {
		name   string
		intent input.Intent
		speed  float32
	}{
		{"forward", input.Intent{Forward: true}, 5},
		{"diagonal", input.Intent{Forward: true, Right: true}, 5},
		{"back left", input.Intent{Back: true, Left: true}, 5},
		{"sprint diagonal", input.Intent{Back: true, Right: true, Sprint: true}, 9},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sc, c := newChase(t)
			sc.Remove(pursuer(sc).ID())
			require.True(t, c.Start())
			c.Update(0.2, tc.intent)
			assert.InDelta(t, tc.speed*0.2, player(sc).Position().Length(), 1e-5)
		})
	}
}

func TestSprintDrainsAndWalkingRegenerates(t *testing.T) {
	sc, c := newChase(t)
	sc.Remove(pursuer(sc).ID())
	require.True(t, c.Start())

	c.Update(0.5, input.Intent{Sprint: true, Forward: true})
	assert.InDelta(t, 70, c.Session().Stamina, 1e-4)

	c.Update(0.5, input.Intent{Forward: true})
	assert.InDelta(t, 85, c.Session().Stamina, 1e-4)

	c.Update(2, input.Intent{Sprint: true})
	assert.Equal(t, float32(0), c.Session().Stamina)

	// no sprint bonus once empty
	before := player(sc).Position()
	c.Update(0.1, input.Intent{Sprint: true, Left: true})
	assert.InDelta(t, 0.5, player(sc).Position().Distance(before), 1e-5)
}

func TestStaminaStaysInRange(t *testing.T) {
	sc, c := newChase(t)
	sc.Remove(pursuer(sc).ID())
	require.True(t, c.Start())
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		in := input.Intent{
			Forward:    rng.Intn(2) == 0,
			Left:       rng.Intn(3) == 0,
			Sprint:     rng.Intn(2) == 0,
			HopPressed: rng.Intn(4) == 0,
		}
		if rng.Intn(5) == 0 {
			in.Dash = &input.Point{X: rng.Float32()*20 - 10, Y: rng.Float32()*20 - 10}
		}
		c.Update(rng.Float32()*0.1, in)
		s := c.Session()
		require.GreaterOrEqual(t, s.Stamina, float32(0))
		require.LessOrEqual(t, s.Stamina, float32(100))
		p := player(sc).Position()
		require.LessOrEqual(t, p.X, float32(12))
		require.GreaterOrEqual(t, p.Z, float32(-12))
	}
}

func TestHopThreshold(t *testing.T) {
	sc, c := newChase(t)
	require.True(t, c.Start())

	c.session.Stamina = 19.9
	events := c.Update(0, input.Intent{HopPressed: true})
	assert.Empty(t, events)
	assert.Equal(t, float32(19.9), c.Session().Stamina)
	assert.Equal(t, common.V3(0, 0, 0), player(sc).Position())

	c.session.Stamina = 20
	events = c.Update(0, input.Intent{HopPressed: true})
	assert.Equal(t, []EventKind{EventHop}, kinds(events))
	assert.Equal(t, float32(0), c.Session().Stamina)
	assert.Equal(t, common.V3(0, 0, -2), player(sc).Position(), "hop defaults to forward")
}

func TestHopFollowsHeldThenLastDirection(t *testing.T) {
	sc, c := newChase(t)
	sc.Remove(pursuer(sc).ID())
	require.True(t, c.Start())

	c.Update(0, input.Intent{HopPressed: true, Right: true})
	assert.InDelta(t, 2, player(sc).Position().X, 1e-5)

	c.Update(0.1, input.Intent{Back: true})
	z := player(sc).Position().Z
	c.Update(0, input.Intent{HopPressed: true})
	assert.InDelta(t, z+2, player(sc).Position().Z, 1e-5)
}

func TestDashClampsDistance(t *testing.T) {
	sc, c := newChase(t)
	require.True(t, c.Start())

	events := c.Update(0, input.Intent{Dash: &input.Point{X: 10, Y: 0}})
	assert.Equal(t, []EventKind{EventDash}, kinds(events))
	assert.InDelta(t, 4, player(sc).Position().X, 1e-5)
	assert.Equal(t, float32(70), c.Session().Stamina)

	c.Update(0, input.Intent{Dash: &input.Point{X: 5, Y: 0}})
	assert.InDelta(t, 5, player(sc).Position().X, 1e-5)
	assert.Equal(t, float32(40), c.Session().Stamina)
}

func TestDashThresholdAndMiss(t *testing.T) {
	sc, c := newChase(t)
	require.True(t, c.Start())

	c.session.Stamina = 29
	assert.Empty(t, c.Update(0, input.Intent{Dash: &input.Point{X: 3}}))
	assert.Equal(t, float32(29), c.Session().Stamina)
	assert.Equal(t, common.V3(0, 0, 0), player(sc).Position())

	c.session.Stamina = 30
	c.rayCaster = func(input.Point) (common.Ray, bool) {
		return common.Ray{Origin: common.V3(0, 5, 0), Dir: common.V3(1, 0, 0)}, true
	}
	assert.Empty(t, c.Update(0, input.Intent{Dash: &input.Point{X: 3}}))
	assert.Equal(t, float32(30), c.Session().Stamina)

	c.rayCaster = nil
	assert.Empty(t, c.Update(0, input.Intent{Dash: &input.Point{X: 3}}))
	assert.Equal(t, float32(30), c.Session().Stamina)
}

func TestPlayerClampedToBound(t *testing.T) {
	sc, c := newChase(t)
	sc.Remove(pursuer(sc).ID())
	require.True(t, c.Start())
	for i := 0; i < 10; i++ {
		c.Update(1, input.Intent{Left: true, Forward: true})
	}
	assert.Equal(t, common.V3(-12, 0, -12), player(sc).Position())
}

func TestPursuerClampedToBound(t *testing.T) {
	sc, c := newChase(t)
	require.True(t, c.Start())
	pursuer(sc).SetPosition(common.V3(20, 0, 0))
	player(sc).SetPosition(common.V3(10, 0, 0))
	c.Update(0, input.Intent{})
	assert.Equal(t, float32(15), pursuer(sc).Position().X)
}

func TestMissingEntitiesAreTolerated(t *testing.T) {
	sc, c := newChase(t)
	sc.Remove(player(sc).ID())
	require.True(t, c.Start())

	var events []Event
	assert.NotPanics(t, func() {
		events = c.Update(1, input.Intent{Forward: true, HopPressed: true})
	})
	assert.Empty(t, events)
	assert.Equal(t, common.V3(8, 0, 8), pursuer(sc).Position())
	assert.InDelta(t, 1, c.Session().SurvivalTime, 1e-6)

	empty := NewController(nil)
	assert.True(t, empty.Start())
	assert.NotPanics(t, func() { empty.Update(0.5, input.Intent{}) })
}

func TestIdleDoesNotAdvance(t *testing.T) {
	sc, c := newChase(t)
	c.Update(5, input.Intent{Forward: true})
	assert.Equal(t, PhaseIdle, c.Session().Phase)
	assert.Zero(t, c.Session().SurvivalTime)
	assert.Equal(t, common.V3(8, 0, 8), pursuer(sc).Position())
}

func TestObserverSeesEvents(t *testing.T) {
	var seen []EventKind
	sc, c := newChase(t, WithObserver(func(e Event) { seen = append(seen, e.Kind) }))
	require.True(t, c.Start())
	pursuer(sc).SetPosition(common.V3(1, 0, 0))
	c.Update(0, input.Intent{})
	assert.Equal(t, []EventKind{EventStart, EventHit}, seen)
}

func TestHitLogsLives(t *testing.T) {
	logger, hook := test.NewNullLogger()
	sc := scene.NewScene()
	PopulateScene(sc, DefaultTuning())
	c := NewController(sc, WithLogger(logger))
	require.True(t, c.Start())
	pursuer(sc).SetPosition(common.V3(0.5, 0, 0))
	c.Update(0, input.Intent{})

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "player hit", entry.Message)
	assert.Equal(t, 2, entry.Data["lives"])
}
