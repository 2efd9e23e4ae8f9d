package input

import "github.com/Carmen-Shannon/oxy-chase/common"

// Action is a named intent a key can be bound to.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBack
	ActionLeft
	ActionRight
	ActionHop
	ActionSprint
	ActionStart
	ActionRestart
)

var actionNames = map[Action]string{
	ActionNone:    "none",
	ActionForward: "forward",
	ActionBack:    "back",
	ActionLeft:    "left",
	ActionRight:   "right",
	ActionHop:     "hop",
	ActionSprint:  "sprint",
	ActionStart:   "start",
	ActionRestart: "restart",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ParseAction returns the Action with the given name, or ActionNone.
func ParseAction(name string) Action {
	for a, n := range actionNames {
		if n == name {
			return a
		}
	}
	return ActionNone
}

// Bindings maps virtual key codes to actions. Several keys may share an action.
type Bindings map[uint32]Action

// DefaultBindings returns WASD and the arrow keys for movement, Space to hop,
// either Shift to sprint, Enter to start and R to restart.
func DefaultBindings() Bindings {
	return Bindings{
		common.KeyW:          ActionForward,
		common.KeyUp:         ActionForward,
		common.KeyS:          ActionBack,
		common.KeyDown:       ActionBack,
		common.KeyA:          ActionLeft,
		common.KeyLeft:       ActionLeft,
		common.KeyD:          ActionRight,
		common.KeyRight:      ActionRight,
		common.KeySpace:      ActionHop,
		common.KeyLeftShift:  ActionSprint,
		common.KeyRightShift: ActionSprint,
		common.KeyEnter:      ActionStart,
		common.KeyR:          ActionRestart,
	}
}

// Lookup returns the action bound to keyCode, or ActionNone.
func (b Bindings) Lookup(keyCode uint32) Action {
	if b == nil {
		return ActionNone
	}
	return b[keyCode]
}

// Clone returns a copy that can be modified independently.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
