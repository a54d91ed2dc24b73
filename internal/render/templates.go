package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/vk/nodegraph/internal/templates"
	"gopkg.in/yaml.v3"
)

type portDoc struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Color string `json:"color" yaml:"color"`
}

type templateDoc struct {
	Name    string    `json:"name" yaml:"name"`
	Label   string    `json:"label" yaml:"label"`
	Inputs  []portDoc `json:"inputs" yaml:"inputs"`
	Outputs []portDoc `json:"outputs" yaml:"outputs"`
}

type categoryDoc struct {
	Category  string        `json:"category" yaml:"category"`
	Templates []templateDoc `json:"templates" yaml:"templates"`
}

func describe(t templates.Template) templateDoc {
	shape := t.Shape()
	doc := templateDoc{Name: t.Name(), Label: t.FinderLabel()}
	for _, in := range shape.Inputs {
		doc.Inputs = append(doc.Inputs, portDoc{Name: in.Name, Type: in.Type.Name(), Color: in.Type.Color().Hex()})
	}
	for _, out := range shape.Outputs {
		doc.Outputs = append(doc.Outputs, portDoc{Name: out.Name, Type: out.Type.Name(), Color: out.Type.Color().Hex()})
	}
	return doc
}

func ports(ps []portDoc) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.Name + ":" + p.Type
	}
	return strings.Join(parts, ", ")
}

// WriteTemplates lists the template groups of a node finder.
func WriteTemplates(w io.Writer, f Format, groups []templates.CategoryGroup) error {
	docs := make([]categoryDoc, 0, len(groups))
	for _, g := range groups {
		cd := categoryDoc{Category: g.Name}
		for _, t := range g.Templates {
			cd.Templates = append(cd.Templates, describe(t))
		}
		docs = append(docs, cd)
	}

	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(docs); err != nil {
			return err
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, cd := range docs {
		fmt.Fprintf(tw, "%s\n", cd.Category)
		for _, td := range cd.Templates {
			fmt.Fprintf(tw, "  %s\t%s\t%s -> %s\n", td.Name, td.Label, ports(td.Inputs), ports(td.Outputs))
		}
	}
	return tw.Flush()
}
