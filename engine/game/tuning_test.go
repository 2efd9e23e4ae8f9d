package game

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTuningIsValid(t *testing.T) {
	require.NoError(t, DefaultTuning().Validate())
}

func TestValidateReportsEveryProblem(t *testing.T) {
	tu := DefaultTuning()
	tu.PlayerSpeed = 0
	tu.MaxLives = 0
	tu.DangerRadius = 1
	tu.DifficultyCap = 0.5
	err := tu.Validate()
	require.Error(t, err)
	for _, want := range []string{"playerSpeed", "maxLives", "dangerRadius", "difficultyCap"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestValidateRejectsOverlappingStarts(t *testing.T) {
	tu := DefaultTuning()
	tu.PursuerStart = common.V3(1, 0, 0)
	err := tu.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pursuerStart")

	// exactly HitRadius apart does not collide
	tu.PursuerStart = common.V3(tu.HitRadius, 0, 0)
	assert.NoError(t, tu.Validate())
}

func TestDifficultyIsNonDecreasing(t *testing.T) {
	for _, tu := range []Tuning{DefaultTuning(), func() Tuning { x := DefaultTuning(); x.DifficultyCap = 1.5; return x }()} {
		prev := tu.PursuerSpeedAt(0)
		assert.Equal(t, float32(3), prev)
		for s := float32(0.25); s < 600; s += 0.25 {
			cur := tu.PursuerSpeedAt(s)
			require.GreaterOrEqual(t, cur, prev, "speed dropped at %v", s)
			prev = cur
		}
	}
}

func TestDifficultyCurve(t *testing.T) {
	tu := DefaultTuning()
	assert.InDelta(t, 1.5, tu.SpeedMultiplier(30), 1e-6)
	assert.InDelta(t, 2.0, tu.SpeedMultiplier(60), 1e-6)
	assert.Equal(t, float32(1), tu.SpeedMultiplier(-5))

	tu.DifficultyCap = 1.5
	assert.InDelta(t, 1.5, tu.SpeedMultiplier(120), 1e-6)
}

func TestEffectsAgeAndExpire(t *testing.T) {
	sc := scene.NewScene()
	tu := DefaultTuning()
	fx := NewEffects(sc, tu)

	n := fx.Burst(EventHit, common.V3(1, 0, 1))
	assert.Equal(t, tu.ParticleCount, n)
	assert.Equal(t, n, sc.CountEphemeral())
	assert.Equal(t, 0, sc.Count())

	obj := sc.Objects()[0]
	assert.Equal(t, game_object.KindDecoration, obj.Kind())
	assert.Equal(t, MaterialParticle, obj.Material())

	assert.Equal(t, 0, fx.Age(0.3))
	assert.Equal(t, n, fx.Count())
	assert.Equal(t, n, fx.Age(0.4))
	assert.Equal(t, 0, fx.Count())
	assert.Equal(t, 0, sc.CountEphemeral())
}

func TestEffectsClear(t *testing.T) {
	sc := scene.NewScene()
	fx := NewEffects(sc, DefaultTuning())
	fx.Burst(EventHop, common.Vec3{})
	fx.Burst(EventDash, common.Vec3{})
	fx.Clear()
	assert.Zero(t, fx.Count())
	assert.Empty(t, sc.Objects())
}

func TestParticlesDriftWithSceneAnimation(t *testing.T) {
	sc := scene.NewScene()
	fx := NewEffects(sc, DefaultTuning())
	fx.Burst(EventHop, common.Vec3{})
	before := sc.Objects()[0].Position()
	sc.Animate(0.1)
	assert.NotEqual(t, before, sc.Objects()[0].Position())
}

func TestPopulateScene(t *testing.T) {
	sc := scene.NewScene()
	PopulateScene(sc, DefaultTuning())
	require.NotNil(t, sc.FirstOfKind(game_object.KindPlayer))
	require.NotNil(t, sc.FirstOfKind(game_object.KindPursuer))
	spoon := sc.Find("spoon")
	require.NotNil(t, spoon)
	assert.Equal(t, common.V3(SpoonSpinX, SpoonSpinY, 0), spoon.Spin())
	for _, key := range []string{MeshPlayer, MeshPursuer, MeshGrid, MeshSpoon, MeshParticle} {
		assert.NotNil(t, sc.Mesh(key), key)
	}
}
