package game

import (
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/model"
	"github.com/Carmen-Shannon/oxy-chase/engine/scene"
)

// Mesh keys registered by PopulateScene.
const (
	MeshPlayer   = "player"
	MeshPursuer  = "pursuer"
	MeshGrid     = "grid"
	MeshSpoon    = "spoon"
	MeshParticle = "particle"
)

// Material names the renderer is expected to provide.
const (
	MaterialLit      = "lit"
	MaterialUnlit    = "unlit"
	MaterialParticle = "particle"
)

// Spoon spin in radians per second.
const (
	SpoonSpinX = 0.35
	SpoonSpinY = 0.5
)

// PopulateScene registers the built-in meshes and adds the ground grid, the player,
// the pursuer and the spinning spoon. The player and pursuer start where t says.
//
// Parameters:
//   - sc: the scene to fill
//   - t: tuning supplying start positions
func PopulateScene(sc scene.Scene, t Tuning) {
	sc.AddMesh(MeshGrid, model.GroundGrid(5, 0.5))
	sc.AddMesh(MeshPlayer, model.UVSphere(0.5, 12, 16))
	sc.AddMesh(MeshPursuer, model.Cube(1.2))
	sc.AddMesh(MeshSpoon, model.Spoon())
	sc.AddMesh(MeshParticle, model.Cube(1))

	sc.Add(game_object.NewGameObject(
		game_object.WithName("ground"),
		game_object.WithKind(game_object.KindStatic),
		game_object.WithMesh(MeshGrid),
		game_object.WithMaterial(MaterialUnlit),
		game_object.WithColor(0.45, 0.45, 0.45, 1),
		game_object.WithRadius(8),
		game_object.WithScale(3, 1, 3),
	))
	sc.Add(game_object.NewGameObject(
		game_object.WithName("bunny"),
		game_object.WithKind(game_object.KindPlayer),
		game_object.WithMesh(MeshPlayer),
		game_object.WithColor(0.95, 0.95, 0.95, 1),
		game_object.WithRadius(0.5),
		game_object.WithPosition(t.PlayerStart.X, t.PlayerStart.Y, t.PlayerStart.Z),
	))
	sc.Add(game_object.NewGameObject(
		game_object.WithName("monster"),
		game_object.WithKind(game_object.KindPursuer),
		game_object.WithMesh(MeshPursuer),
		game_object.WithColor(0.8, 0.15, 0.15, 1),
		game_object.WithRadius(0.9),
		game_object.WithPosition(t.PursuerStart.X, t.PursuerStart.Y, t.PursuerStart.Z),
	))
	sc.Add(game_object.NewGameObject(
		game_object.WithName("spoon"),
		game_object.WithKind(game_object.KindDecoration),
		game_object.WithMesh(MeshSpoon),
		game_object.WithRadius(1.5),
		game_object.WithPosition(0, 3, -6),
		game_object.WithRotationSpeed(SpoonSpinX, SpoonSpinY, 0),
	))
}
