package game

import (
	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/sirupsen/logrus"
)

// pursue steers the pursuer straight at target at the difficulty-scaled speed and
// turns it to face the target. Caller must hold the mutex.
func (c *controller) pursue(dt float32, pursuer game_object.GameObject, target common.Vec3) {
	t := c.tuning
	pos := pursuer.Position()
	to := target.Sub(pos)
	to.Y = 0
	dist := to.Length()

	speed := t.PursuerSpeedAt(c.session.SurvivalTime)
	var velocity common.Vec3
	if dist > 0 {
		dir := to.Scale(1 / dist)
		velocity = dir.Scale(speed)
		pos = pos.Add(dir.Scale(min(speed*dt, dist)))
		pursuer.SetRotation(common.V3(0, facing(dir), 0))
	}
	pursuer.SetPosition(pos.ClampXZ(t.PursuerBound))
	pursuer.SetMotion(game_object.Motion{Velocity: velocity, TargetPosition: target})
	if state := pursuer.Pursuer(); state != nil {
		state.Chasing = dist > 0
	}
}

// collide checks the pursuer-player distance. Strictly inside HitRadius is a hit;
// from HitRadius up to but excluding DangerRadius is danger. Caller must hold the mutex.
func (c *controller) collide(player, pursuer game_object.GameObject) {
	t := c.tuning
	s := &c.session
	d := player.Position().Distance(pursuer.Position())

	switch {
	case d < t.HitRadius:
		at := player.Position()
		last := s.loseLife()
		fields := logrus.Fields{"lives": s.Lives, "score": s.Score, "distance": d}
		c.emit(Event{Kind: EventHit, Position: at, Distance: d, Lives: s.Lives})
		c.effects.Burst(EventHit, at)
		if last {
			c.log.WithFields(fields).WithField("survival", s.SurvivalTime).Info("game over")
			c.emit(Event{Kind: EventGameOver, Position: at, Distance: d, Lives: s.Lives})
			player.SetMotion(game_object.Motion{})
			pursuer.SetMotion(game_object.Motion{})
			return
		}
		c.log.WithFields(fields).Info("player hit")
		player.SetPosition(t.PlayerStart)
		pursuer.SetPosition(t.PursuerStart)
	case d < t.DangerRadius:
		c.emit(Event{Kind: EventDanger, Position: player.Position(), Distance: d, Lives: s.Lives})
	}
}
