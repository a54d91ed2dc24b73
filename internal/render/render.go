// Package render prints evaluation results and template listings as text,
// JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/vk/nodegraph/internal/value"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, JSON, YAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be one of text, json, yaml", s)
	}
}

// Result is one evaluated node.
type Result struct {
	Node   string
	Label  string
	Output string
	Value  value.Value
	Err    error
}

type resultDoc struct {
	Node   string `json:"node" yaml:"node"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Write renders r to w.
func Write(w io.Writer, f Format, r Result) error {
	switch f {
	case JSON:
		doc, err := document(r, func(v cty.Value) (any, error) {
			raw, err := ctyjson.Marshal(v, v.Type())
			return json.RawMessage(raw), err
		})
		if err != nil {
			return err
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)

	case YAML:
		doc, err := document(r, native)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()

	default:
		_, err := fmt.Fprintln(w, Status(r))
		return err
	}
}

// Status is the one-line text form of r.
func Status(r Result) string {
	if r.Err != nil {
		return fmt.Sprintf("Execution error: %v", r.Err)
	}
	return fmt.Sprintf("The result is: %s", r.Value)
}

func document(r Result, conv func(cty.Value) (any, error)) (resultDoc, error) {
	doc := resultDoc{Node: r.Node, Label: r.Label, Output: r.Output}
	if r.Err != nil {
		doc.Error = r.Err.Error()
		return doc, nil
	}
	doc.Type = r.Value.Type().Name()
	cv, err := r.Value.Cty()
	if err != nil {
		return doc, fmt.Errorf("encoding %s value: %w", doc.Type, err)
	}
	v, err := conv(cv)
	if err != nil {
		return doc, fmt.Errorf("encoding %s value: %w", doc.Type, err)
	}
	doc.Value = v
	return doc, nil
}

// native converts a known cty value into plain Go values for YAML.
func native(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsKnown() {
		return nil, fmt.Errorf("cannot render an unknown value")
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Bool:
		return v.True(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float32()
		return f, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			nv, err := native(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = nv
		}
		return out, nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			nv, err := native(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, nv)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot render %s", ty.FriendlyName())
	}
}
