package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/value"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ErrUnknownEvent is returned by Apply for an event type it does not handle.
var ErrUnknownEvent = errors.New("unknown event type")

// EventType names an edit reported by an editor.
type EventType string

const (
	EventAddNode      EventType = "add_node"
	EventRemoveNode   EventType = "remove_node"
	EventConnect      EventType = "connect"
	EventDisconnect   EventType = "disconnect"
	EventSetInput     EventType = "set_input"
	EventClearInput   EventType = "clear_input"
	EventSetActive    EventType = "set_active"
	EventClearActive  EventType = "clear_active"
	EventAddScaffold  EventType = "add_text_scaffold"
	EventEvaluateNode EventType = "evaluate"
	EventUpstream     EventType = "upstream"
)

// Event is one structured edit. Handles use their printed form, e.g.
// "node[2]" or "input[5]". Value is JSON and is decoded against the type of
// the target input.
type Event struct {
	Type     EventType       `json:"type"`
	Template string          `json:"template,omitempty"`
	Node     string          `json:"node,omitempty"`
	Output   string          `json:"output,omitempty"`
	Input    string          `json:"input,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`
}

// Outcome reports what an applied event changed, plus the active node's
// status after it.
type Outcome struct {
	Event  EventType      `json:"event"`
	Nodes  []ident.NodeID `json:"nodes,omitempty"`
	Result string         `json:"result,omitempty"`
	Status string         `json:"status,omitempty"`
}

// Apply performs ev.
func (s *Session) Apply(ev Event) (Outcome, error) {
	out := Outcome{Event: ev.Type}

	switch ev.Type {
	case EventAddNode:
		t, err := s.registry.Lookup(ev.Template)
		if err != nil {
			return out, err
		}
		id, err := s.AddNode(t)
		if err != nil {
			return out, err
		}
		out.Nodes = []ident.NodeID{id}

	case EventRemoveNode:
		id, err := ident.ParseNodeID(ev.Node)
		if err != nil {
			return out, err
		}
		if err := s.RemoveNode(id); err != nil {
			return out, err
		}

	case EventConnect:
		o, err := ident.ParseOutputID(ev.Output)
		if err != nil {
			return out, err
		}
		in, err := ident.ParseInputID(ev.Input)
		if err != nil {
			return out, err
		}
		if err := s.Connect(o, in); err != nil {
			return out, err
		}

	case EventDisconnect:
		in, err := ident.ParseInputID(ev.Input)
		if err != nil {
			return out, err
		}
		if err := s.Disconnect(in); err != nil {
			return out, err
		}

	case EventSetInput:
		in, err := ident.ParseInputID(ev.Input)
		if err != nil {
			return out, err
		}
		if err := s.SetInputJSON(in, ev.Value); err != nil {
			return out, err
		}

	case EventClearInput:
		in, err := ident.ParseInputID(ev.Input)
		if err != nil {
			return out, err
		}
		if err := s.ClearInputValue(in); err != nil {
			return out, err
		}

	case EventSetActive:
		id, err := ident.ParseNodeID(ev.Node)
		if err != nil {
			return out, err
		}
		if err := s.SetActive(id); err != nil {
			return out, err
		}

	case EventClearActive:
		s.ClearActive()

	case EventAddScaffold:
		text, scaffold, err := s.AddTextScaffold()
		if err != nil {
			return out, err
		}
		out.Nodes = []ident.NodeID{text, scaffold}

	case EventEvaluateNode:
		id, err := ident.ParseNodeID(ev.Node)
		if err != nil {
			return out, err
		}
		v, err := s.Evaluate(id)
		if err != nil {
			return out, err
		}
		out.Result = v.String()

	case EventUpstream:
		id, err := ident.ParseNodeID(ev.Node)
		if err != nil {
			return out, err
		}
		up, err := s.Upstream(id)
		if err != nil {
			return out, err
		}
		out.Nodes = up

	default:
		return out, fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}

	out.Status = s.Status()
	return out, nil
}

// decodeValue reads a JSON value as the given data type.
func decodeValue(t value.DataType, raw json.RawMessage) (value.Value, error) {
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return value.Value{}, fmt.Errorf("decoding %s value: %w", t.Name(), err)
	}
	v, err := ctyjson.Unmarshal(raw, ty)
	if err != nil {
		return value.Value{}, fmt.Errorf("decoding %s value: %w", t.Name(), err)
	}
	return value.FromCty(t, v)
}
