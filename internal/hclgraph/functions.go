package hclgraph

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/vk/nodegraph/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// vecFunc builds a vector object from two numbers.
var vecFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "x", Type: cty.Number},
		{Name: "y", Type: cty.Number},
	},
	Type: function.StaticReturnType(value.VectorType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.ObjectVal(map[string]cty.Value{"x": args[0], "y": args[1]}), nil
	},
})

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"vec":        vecFunc,
			"abs":        stdlib.AbsoluteFunc,
			"min":        stdlib.MinFunc,
			"max":        stdlib.MaxFunc,
			"upper":      stdlib.UpperFunc,
			"lower":      stdlib.LowerFunc,
			"format":     stdlib.FormatFunc,
			"jsondecode": stdlib.JSONDecodeFunc,
		},
	}
}
