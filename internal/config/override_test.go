package config

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pleimann/camel-input/internal/binding"
	"github.com/pleimann/camel-input/internal/event"
)

type act string

type pair struct {
	Action act
	Events []event.Event
}

func pairs(o binding.Override[act]) []pair {
	var out []pair
	for el := o.Front(); el != nil; el = el.Next() {
		out = append(out, pair{el.Key, el.Value})
	}
	return out
}

var (
	space  = event.KeyboardButton(event.KeySpace)
	south  = event.GamepadButtonOf(0, event.GamepadSouth)
	stickX = event.GamepadAxisOf(0, event.GamepadLeftStickX)
)

func TestParseOverride(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []pair
	}{
		{
			name: "empty document",
			doc:  "",
		},
		{
			name: "null document",
			doc:  "~\n",
		},
		{
			name: "document order kept",
			doc: `
steer: [axis gamepad:0:left_stick_x]
jump:
  - just_pressed keyboard:space
  - just_pressed gamepad:0:south
`,
			want: []pair{
				{"steer", []event.Event{event.Axis(stickX)}},
				{"jump", []event.Event{event.JustPressed(space), event.JustPressed(south)}},
			},
		},
		{
			name: "single event shorthand",
			doc:  "jump: just_pressed keyboard:space\n",
			want: []pair{
				{"jump", []event.Event{event.JustPressed(space)}},
			},
		},
		{
			name: "action with no events",
			doc:  "jump:\n",
			want: []pair{
				{"jump", nil},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := ParseOverride[act]([]byte(tt.doc))
			if err != nil {
				t.Fatalf("ParseOverride() error = %v", err)
			}
			if got := pairs(o); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOverride() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseOverrideErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"not a mapping", "- jump\n", "must be a mapping"},
		{"unknown control", "jump: [pressed keyboard:nope]\n", "unknown key"},
		{"unknown kind", "jump: [tapped keyboard:q]\n", "jump"},
		{"nested mapping", "jump:\n  a: b\n", "string or a list"},
		{"duplicate action", "jump: pressed keyboard:q\njump: pressed keyboard:w\n", "duplicate action"},
		{"malformed yaml", "jump: [", "failed to parse bindings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOverride[act]([]byte(tt.doc))
			if err == nil {
				t.Fatal("ParseOverride() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseOverride() error = %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestDuplicateEventLastWinsThroughBuild(t *testing.T) {
	o, err := ParseOverride[act]([]byte(`
fire: [pressed keyboard:space]
jump: [pressed keyboard:space]
`))
	if err != nil {
		t.Fatalf("ParseOverride() error = %v", err)
	}

	table := binding.Build(map[event.Event]act{}, o)
	if a, _ := table.Lookup(event.Pressed(space)); a != "jump" {
		t.Errorf("Lookup(pressed space) = %q, want jump (later pair wins)", a)
	}
}

func TestOverrideRoundTrip(t *testing.T) {
	o := binding.NewOverride[act]()
	o.Set("steer", []event.Event{event.Axis(stickX)})
	o.Set("jump", []event.Event{event.JustPressed(space), event.JustPressed(south)})

	data, err := MarshalOverride(o)
	if err != nil {
		t.Fatalf("MarshalOverride() error = %v", err)
	}

	back, err := ParseOverride[act](data)
	if err != nil {
		t.Fatalf("ParseOverride() error = %v\n%s", err, data)
	}
	if !reflect.DeepEqual(pairs(back), pairs(o)) {
		t.Errorf("round trip = %+v, want %+v", pairs(back), pairs(o))
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file is empty", func(t *testing.T) {
		o, err := LoadOverride[act](filepath.Join(dir, OverridePath))
		if err != nil {
			t.Fatalf("LoadOverride() error = %v", err)
		}
		if o.Len() != 0 {
			t.Errorf("Len() = %d, want 0", o.Len())
		}
	})

	t.Run("save then load", func(t *testing.T) {
		path := filepath.Join(dir, OverridePath)
		o := binding.NewOverride[act]()
		o.Set("jump", []event.Event{event.JustPressed(south)})

		if err := SaveOverride(path, o); err != nil {
			t.Fatalf("SaveOverride() error = %v", err)
		}
		got, err := LoadOverride[act](path)
		if err != nil {
			t.Fatalf("LoadOverride() error = %v", err)
		}
		if !reflect.DeepEqual(pairs(got), pairs(o)) {
			t.Errorf("LoadOverride() = %+v, want %+v", pairs(got), pairs(o))
		}
	})

	t.Run("malformed file names path", func(t *testing.T) {
		path := writeFile(t, OverridePath, "jump: [pressed keyboard:nope]\n")
		_, err := LoadOverride[act](path)
		if err == nil || !strings.Contains(err.Error(), path) {
			t.Errorf("LoadOverride() error = %v, want error naming %s", err, path)
		}
	})
}
