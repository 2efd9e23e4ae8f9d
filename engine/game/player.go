package game

import (
	"github.com/Carmen-Shannon/oxy-chase/common"
	"github.com/Carmen-Shannon/oxy-chase/engine/game_object"
	"github.com/Carmen-Shannon/oxy-chase/engine/input"
	"github.com/sirupsen/logrus"
)

var defaultHeading = common.V3(0, 0, -1)

// movePlayer applies sprint, walking, hop and dash, then clamps the player to its bound.
// Caller must hold the mutex.
func (c *controller) movePlayer(dt float32, in input.Intent, player game_object.GameObject) {
	t := c.tuning
	s := &c.session

	speed := t.PlayerSpeed
	if in.Sprint && s.Stamina > 0 {
		speed *= t.SprintMultiplier
		s.Stamina -= t.SprintDrain * dt
	} else {
		s.Stamina += t.StaminaRegen * dt
	}
	s.clampStamina(t)

	state := player.Player()
	dir := in.Direction().Normalize()
	pos := player.Position()
	if !dir.IsZero() {
		pos = pos.Add(dir.Scale(speed * dt))
		if state != nil {
			state.Heading = dir
		}
	}

	if in.HopPressed {
		if s.spend(t.HopCost) {
			pos = pos.Add(hopDirection(dir, state).Scale(t.HopDistance))
			c.log.WithFields(logrus.Fields{"stamina": s.Stamina}).Debug("hop")
			c.emit(Event{Kind: EventHop, Position: pos, Lives: s.Lives})
			c.effects.Burst(EventHop, pos)
		}
	}

	if in.Dash != nil {
		if next, ok := c.dash(pos, *in.Dash); ok {
			if step := next.Sub(pos); !step.IsZero() && state != nil {
				state.Heading = step.Normalize()
			}
			pos = next
			c.log.WithFields(logrus.Fields{"stamina": s.Stamina}).Debug("dash")
			c.emit(Event{Kind: EventDash, Position: pos, Lives: s.Lives})
			c.effects.Burst(EventDash, pos)
		}
	}

	player.SetPosition(pos.ClampXZ(t.PlayerBound))
	player.SetMotion(game_object.Motion{Velocity: dir.Scale(speed), TargetPosition: pos})
}

// hopDirection picks the keys held now, then the last heading, then forward.
func hopDirection(held common.Vec3, state *game_object.PlayerState) common.Vec3 {
	if !held.IsZero() {
		return held
	}
	if state != nil && !state.Heading.IsZero() {
		return state.Heading.Normalize()
	}
	return defaultHeading
}

// dash moves toward where the pointer ray meets the ground, at most DashMaxDistance.
// Rejected without any state change when stamina is short or the ray misses the ground.
// Caller must hold the mutex.
//
// Returns:
//   - common.Vec3: the new position
//   - bool: false if the dash was rejected
func (c *controller) dash(pos common.Vec3, at input.Point) (common.Vec3, bool) {
	t := c.tuning
	if c.session.Stamina < t.DashCost || c.rayCaster == nil {
		return pos, false
	}
	ray, ok := c.rayCaster(at)
	if !ok {
		return pos, false
	}
	target, ok := ray.IntersectGround()
	if !ok {
		return pos, false
	}
	offset := target.Sub(pos)
	offset.Y = 0
	dist := min(t.DashMaxDistance, offset.Length())
	c.session.spend(t.DashCost)
	return pos.Add(offset.Normalize().Scale(dist)), true
}
