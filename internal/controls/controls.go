// Package controls defines the demo application's actions and their default
// bindings.
package controls

import (
	"fmt"
	"slices"

	"github.com/pleimann/camel-input/internal/binding"
	"github.com/pleimann/camel-input/internal/config"
	"github.com/pleimann/camel-input/internal/event"
	"gopkg.in/yaml.v3"
)

// Path is where user binding overrides are read from
const Path = config.OverridePath

// Action is a logical game action
type Action string

const (
	MoveLeft  Action = "move_left"
	MoveRight Action = "move_right"
	MoveUp    Action = "move_up"
	MoveDown  Action = "move_down"
	Jump      Action = "jump"
	Fire      Action = "fire"
	LookX     Action = "look_x"
	LookY     Action = "look_y"
	Steer     Action = "steer"
	Throttle  Action = "throttle"
	Brake     Action = "brake"
	Pause     Action = "pause"
)

// All lists every action in display order
var All = []Action{
	MoveLeft, MoveRight, MoveUp, MoveDown,
	Jump, Fire,
	LookX, LookY, Steer,
	Throttle, Brake,
	Pause,
}

// ParseAction returns the action named s
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !slices.Contains(All, a) {
		return "", fmt.Errorf("unknown action: %q", s)
	}
	return a, nil
}

func (a Action) String() string { return string(a) }

// UnmarshalYAML rejects unknown action names in override files
func (a *Action) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: action must be a string", value.Line)
	}
	parsed, err := ParseAction(value.Value)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Defaults returns the built-in bindings
func Defaults() map[event.Event]Action {
	pad := func(b event.GamepadButton) event.Button { return event.GamepadButtonOf(0, b) }
	key := event.KeyboardButton

	return binding.NewBuilder[Action]().
		Pressed(key(event.KeyA), MoveLeft).
		Pressed(key(event.KeyD), MoveRight).
		Pressed(key(event.KeyW), MoveUp).
		Pressed(key(event.KeyS), MoveDown).
		Pressed(pad(event.GamepadDPadLeft), MoveLeft).
		Pressed(pad(event.GamepadDPadRight), MoveRight).
		Pressed(pad(event.GamepadDPadUp), MoveUp).
		Pressed(pad(event.GamepadDPadDown), MoveDown).
		JustPressed(key(event.KeySpace), Jump).
		JustPressed(pad(event.GamepadSouth), Jump).
		Pressed(event.MouseButtonOf(event.MouseLeft), Fire).
		Pressed(pad(event.GamepadRightTrigger), Fire).
		Axis(event.MouseAxisOf(event.MouseX), LookX).
		Axis(event.MouseAxisOf(event.MouseY), LookY).
		Axis(event.GamepadAxisOf(0, event.GamepadRightStickX), LookX).
		Axis(event.GamepadAxisOf(0, event.GamepadRightStickY), LookY).
		Axis(event.GamepadAxisOf(0, event.GamepadLeftStickX), Steer).
		ValueChanged(pad(event.GamepadRightTrigger2), Throttle).
		ValueChanged(pad(event.GamepadLeftTrigger2), Brake).
		JustPressed(key(event.KeyEscape), Pause).
		JustPressed(pad(event.GamepadStart), Pause).
		Build()
}

// LoadOverride reads the user override at path
func LoadOverride(path string) (binding.Override[Action], error) {
	return config.LoadOverride[Action](path)
}
