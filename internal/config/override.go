package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pleimann/camel-input/internal/binding"
	"github.com/pleimann/camel-input/internal/event"
	"gopkg.in/yaml.v3"
)

// OverridePath is the default location of the user binding override
const OverridePath = "bindings.yaml"

// ParseOverride decodes a binding override document. The document is a
// mapping from action to a list of symbolic events:
//
//	jump: [just_pressed keyboard:space, just_pressed gamepad:0:south]
//	steer: axis gamepad:0:left_stick_x
//
// Actions and their events keep document order. An empty document is an
// empty override.
func ParseOverride[A comparable](data []byte) (binding.Override[A], error) {
	out := binding.NewOverride[A]()

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse bindings: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return out, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return out, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: bindings must be a mapping of action to events", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]

		var a A
		if err := keyNode.Decode(&a); err != nil {
			return nil, fmt.Errorf("line %d: invalid action %q: %w", keyNode.Line, keyNode.Value, err)
		}
		if _, dup := out.Get(a); dup {
			return nil, fmt.Errorf("line %d: duplicate action %q", keyNode.Line, keyNode.Value)
		}

		events, err := decodeEvents(valueNode)
		if err != nil {
			return nil, fmt.Errorf("action %q: %w", keyNode.Value, err)
		}
		out.Set(a, events)
	}

	return out, nil
}

// decodeEvents accepts a single event or a sequence of events
func decodeEvents(n *yaml.Node) ([]event.Event, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		var e event.Event
		if err := n.Decode(&e); err != nil {
			return nil, err
		}
		return []event.Event{e}, nil
	case yaml.SequenceNode:
		events := make([]event.Event, 0, len(n.Content))
		for _, item := range n.Content {
			var e event.Event
			if err := item.Decode(&e); err != nil {
				return nil, err
			}
			events = append(events, e)
		}
		return events, nil
	default:
		return nil, fmt.Errorf("line %d: events must be a string or a list", n.Line)
	}
}

// LoadOverride reads the override at path. A missing file yields an empty
// override so the defaults apply unchanged.
func LoadOverride[A comparable](path string) (binding.Override[A], error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return binding.NewOverride[A](), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bindings: %w", err)
	}

	override, err := ParseOverride[A](data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return override, nil
}

// MarshalOverride encodes an override in the form ParseOverride reads
func MarshalOverride[A comparable](o binding.Override[A]) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for el := o.Front(); el != nil; el = el.Next() {
		var keyNode, valueNode yaml.Node
		if err := keyNode.Encode(el.Key); err != nil {
			return nil, fmt.Errorf("failed to encode action %v: %w", el.Key, err)
		}
		if err := valueNode.Encode(el.Value); err != nil {
			return nil, fmt.Errorf("failed to encode events of %v: %w", el.Key, err)
		}
		root.Content = append(root.Content, &keyNode, &valueNode)
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bindings: %w", err)
	}
	return data, nil
}

// SaveOverride writes o to path atomically so a watcher never sees a
// partial file
func SaveOverride[A comparable](path string, o binding.Override[A]) error {
	data, err := MarshalOverride(o)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".bindings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create bindings file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write bindings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write bindings file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace bindings file: %w", err)
	}
	return nil
}
