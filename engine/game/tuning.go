package game

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-chase/common"
)

// Tuning holds every gameplay constant. Zero values are not meaningful; start from DefaultTuning.
type Tuning struct {
	PlayerSpeed      float32 `yaml:"playerSpeed" json:"playerSpeed"`
	SprintMultiplier float32 `yaml:"sprintMultiplier" json:"sprintMultiplier"`
	SprintDrain      float32 `yaml:"sprintDrain" json:"sprintDrain"`
	StaminaRegen     float32 `yaml:"staminaRegen" json:"staminaRegen"`
	MaxStamina       float32 `yaml:"maxStamina" json:"maxStamina"`

	HopCost         float32 `yaml:"hopCost" json:"hopCost"`
	HopDistance     float32 `yaml:"hopDistance" json:"hopDistance"`
	DashCost        float32 `yaml:"dashCost" json:"dashCost"`
	DashMaxDistance float32 `yaml:"dashMaxDistance" json:"dashMaxDistance"`
	PlayerBound     float32 `yaml:"playerBound" json:"playerBound"`

	PursuerSpeed float32 `yaml:"pursuerSpeed" json:"pursuerSpeed"`
	// DifficultyRamp is the fraction of base speed gained every DifficultyPeriod seconds.
	DifficultyRamp   float32 `yaml:"difficultyRamp" json:"difficultyRamp"`
	DifficultyPeriod float32 `yaml:"difficultyPeriod" json:"difficultyPeriod"`
	// DifficultyCap bounds the speed multiplier. Zero means unbounded.
	DifficultyCap float32 `yaml:"difficultyCap" json:"difficultyCap"`
	PursuerBound  float32 `yaml:"pursuerBound" json:"pursuerBound"`

	HitRadius    float32 `yaml:"hitRadius" json:"hitRadius"`
	DangerRadius float32 `yaml:"dangerRadius" json:"dangerRadius"`
	MaxLives     int     `yaml:"maxLives" json:"maxLives"`

	PlayerStart  common.Vec3 `yaml:"playerStart" json:"playerStart"`
	PursuerStart common.Vec3 `yaml:"pursuerStart" json:"pursuerStart"`

	ScorePerSecond float32 `yaml:"scorePerSecond" json:"scorePerSecond"`

	ParticleCount int     `yaml:"particleCount" json:"particleCount"`
	ParticleLife  float32 `yaml:"particleLife" json:"particleLife"`
	ParticleSpeed float32 `yaml:"particleSpeed" json:"particleSpeed"`
}

// DefaultTuning returns the standard chase rules.
func DefaultTuning() Tuning {
	return Tuning{
		PlayerSpeed:      5,
		SprintMultiplier: 1.8,
		SprintDrain:      60,
		StaminaRegen:     30,
		MaxStamina:       100,
		HopCost:          20,
		HopDistance:      2,
		DashCost:         30,
		DashMaxDistance:  4,
		PlayerBound:      12,
		PursuerSpeed:     3,
		DifficultyRamp:   0.5,
		DifficultyPeriod: 30,
		PursuerBound:     15,
		HitRadius:        1.5,
		DangerRadius:     3,
		MaxLives:         3,
		PlayerStart:      common.V3(0, 0, 0),
		PursuerStart:     common.V3(8, 0, 8),
		ScorePerSecond:   10,
		ParticleCount:    8,
		ParticleLife:     0.6,
		ParticleSpeed:    3,
	}
}

// SpeedMultiplier returns the pursuer speed factor after survival seconds.
// It grows linearly by DifficultyRamp every DifficultyPeriod and is capped at DifficultyCap when one is set.
// Non-decreasing in survival.
//
// Parameters:
//   - survival: elapsed survival time in seconds
//
// Returns:
//   - float32: the multiplier, at least 1 for a valid tuning
func (t Tuning) SpeedMultiplier(survival float32) float32 {
	if survival < 0 {
		survival = 0
	}
	m := float32(1)
	if t.DifficultyPeriod > 0 {
		m += survival / t.DifficultyPeriod * t.DifficultyRamp
	}
	if t.DifficultyCap > 0 && m > t.DifficultyCap {
		m = t.DifficultyCap
	}
	return m
}

// PursuerSpeedAt returns the pursuer speed in units per second after survival seconds.
func (t Tuning) PursuerSpeedAt(survival float32) float32 {
	return t.PursuerSpeed * t.SpeedMultiplier(survival)
}

// Validate checks the tuning for values the controller cannot run with.
//
// Returns:
//   - error: every problem joined together, or nil
func (t Tuning) Validate() error {
	var errs []error
	type field struct {
		name string
		v    float32
	}
	positive := []field{
		{"playerSpeed", t.PlayerSpeed},
		{"maxStamina", t.MaxStamina},
		{"hitRadius", t.HitRadius},
		{"playerBound", t.PlayerBound},
		{"pursuerBound", t.PursuerBound},
		{"difficultyPeriod", t.DifficultyPeriod},
	}
	for _, f := range positive {
		if !(f.v > 0) || !common.IsFinite(f.v) {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", f.name, f.v))
		}
	}
	nonNegative := []field{
		{"sprintDrain", t.SprintDrain},
		{"staminaRegen", t.StaminaRegen},
		{"hopCost", t.HopCost},
		{"hopDistance", t.HopDistance},
		{"dashCost", t.DashCost},
		{"dashMaxDistance", t.DashMaxDistance},
		{"pursuerSpeed", t.PursuerSpeed},
		{"difficultyRamp", t.DifficultyRamp},
		{"scorePerSecond", t.ScorePerSecond},
		{"particleLife", t.ParticleLife},
		{"particleSpeed", t.ParticleSpeed},
	}
	for _, f := range nonNegative {
		if f.v < 0 || !common.IsFinite(f.v) {
			errs = append(errs, fmt.Errorf("%s must be a non-negative number, got %v", f.name, f.v))
		}
	}
	if t.SprintMultiplier < 1 {
		errs = append(errs, fmt.Errorf("sprintMultiplier must be at least 1, got %v", t.SprintMultiplier))
	}
	if t.DifficultyCap != 0 && t.DifficultyCap < 1 {
		errs = append(errs, fmt.Errorf("difficultyCap must be 0 or at least 1, got %v", t.DifficultyCap))
	}
	if t.DangerRadius < t.HitRadius {
		errs = append(errs, fmt.Errorf("dangerRadius %v must not be smaller than hitRadius %v", t.DangerRadius, t.HitRadius))
	}
	if d := t.PlayerStart.Distance(t.PursuerStart); d < t.HitRadius {
		errs = append(errs, fmt.Errorf("playerStart and pursuerStart must be at least hitRadius %v apart, got %v", t.HitRadius, d))
	}
	if t.MaxLives < 1 {
		errs = append(errs, fmt.Errorf("maxLives must be at least 1, got %d", t.MaxLives))
	}
	if t.ParticleCount < 0 {
		errs = append(errs, fmt.Errorf("particleCount must not be negative, got %d", t.ParticleCount))
	}
	return errors.Join(errs...)
}
