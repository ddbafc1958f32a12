package event

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML encodes the event in its symbolic form
func (e Event) MarshalYAML() (interface{}, error) {
	return e.String(), nil
}

// UnmarshalYAML decodes an event from its symbolic form
func (e *Event) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: event must be a string", value.Line)
	}
	parsed, err := Parse(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*e = parsed
	return nil
}
