package repository

import (
	"github.com/agentflow/agentcore/schema"
)

// wireNode is the on-disk shape for a schema.Node: tagged by "type" with
// per-kind fields left zero where irrelevant. It exists only at the
// repository boundary — the in-process schema.Node has no JSON tags of its
// own, since validator/coerce never serialize it.
type wireNode struct {
	Type string `json:"type" yaml:"type"`

	MinLength *int   `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength *int   `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Format    string `json:"format,omitempty" yaml:"format,omitempty"`

	Minimum      *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum      *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	ExclusiveMin bool     `json:"exclusive_minimum,omitempty" yaml:"exclusive_minimum,omitempty"`
	ExclusiveMax bool     `json:"exclusive_maximum,omitempty" yaml:"exclusive_maximum,omitempty"`
	MultipleOf   *float64 `json:"multiple_of,omitempty" yaml:"multiple_of,omitempty"`

	Items    *wireNode `json:"items,omitempty" yaml:"items,omitempty"`
	MinItems *int      `json:"min_items,omitempty" yaml:"min_items,omitempty"`
	MaxItems *int      `json:"max_items,omitempty" yaml:"max_items,omitempty"`

	Properties           map[string]*wireNode `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required             []string             `json:"required,omitempty" yaml:"required,omitempty"`
	AdditionalProperties bool                 `json:"additional_properties,omitempty" yaml:"additional_properties,omitempty"`

	Children []*wireNode `json:"children,omitempty" yaml:"children,omitempty"`
}

var kindToType = map[schema.Kind]string{
	schema.KindString:  "string",
	schema.KindNumber:  "number",
	schema.KindBoolean: "boolean",
	schema.KindNull:    "null",
	schema.KindArray:   "array",
	schema.KindObject:  "object",
	schema.KindAnyOf:   "any_of",
	schema.KindAllOf:   "all_of",
	schema.KindOneOf:   "one_of",
}

var typeToKind = map[string]schema.Kind{
	"string":  schema.KindString,
	"number":  schema.KindNumber,
	"boolean": schema.KindBoolean,
	"null":    schema.KindNull,
	"array":   schema.KindArray,
	"object":  schema.KindObject,
	"any_of":  schema.KindAnyOf,
	"all_of":  schema.KindAllOf,
	"one_of":  schema.KindOneOf,
}

func fromNode(n *schema.Node) *wireNode {
	if n == nil {
		return nil
	}
	w := &wireNode{
		Type:                 kindToType[n.Kind],
		MinLength:            n.MinLen,
		MaxLength:            n.MaxLen,
		Pattern:              n.Pattern,
		Format:               string(n.Format),
		Minimum:              n.Minimum,
		Maximum:              n.Maximum,
		ExclusiveMin:         n.ExclusiveMin,
		ExclusiveMax:         n.ExclusiveMax,
		MultipleOf:           n.MultipleOf,
		Items:                fromNode(n.Items),
		MinItems:             n.MinItems,
		MaxItems:             n.MaxItems,
		Required:             n.Required,
		AdditionalProperties: n.AdditionalProperties,
	}
	if n.Properties != nil {
		w.Properties = make(map[string]*wireNode, len(n.Properties))
		for k, v := range n.Properties {
			w.Properties[k] = fromNode(v)
		}
	}
	for _, c := range n.Children {
		w.Children = append(w.Children, fromNode(c))
	}
	return w
}

func (w *wireNode) toNode() *schema.Node {
	if w == nil {
		return nil
	}
	n := &schema.Node{
		Kind:                 typeToKind[w.Type],
		MinLen:               w.MinLength,
		MaxLen:               w.MaxLength,
		Pattern:              w.Pattern,
		Format:               schema.Format(w.Format),
		Minimum:              w.Minimum,
		Maximum:              w.Maximum,
		ExclusiveMin:         w.ExclusiveMin,
		ExclusiveMax:         w.ExclusiveMax,
		MultipleOf:           w.MultipleOf,
		Items:                w.Items.toNode(),
		MinItems:             w.MinItems,
		MaxItems:             w.MaxItems,
		Required:             w.Required,
		AdditionalProperties: w.AdditionalProperties,
	}
	if w.Properties != nil {
		n.Properties = make(map[string]*schema.Node, len(w.Properties))
		for k, v := range w.Properties {
			n.Properties[k] = v.toNode()
		}
	}
	for _, c := range w.Children {
		n.Children = append(n.Children, c.toNode())
	}
	return n
}
