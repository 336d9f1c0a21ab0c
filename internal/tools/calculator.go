package tools

import (
	"context"

	"github.com/aurelia-labs/nexus-cli/internal/mathexpr"
)

// Calculator evaluates arithmetic expressions. Expressions are parsed
// by the mathexpr package, never handed to a language runtime.
type Calculator struct{}

// NewCalculator creates the calculator tool.
func NewCalculator() *Calculator {
	return &Calculator{}
}

func (c *Calculator) Name() string { return "calculator" }

func (c *Calculator) Description() string {
	return "Evaluate an arithmetic expression. Supports + - * / // % **, parentheses and the functions abs, round, min, max, pow, sqrt."
}

func (c *Calculator) Parameters() map[string]ParamSpec {
	return map[string]ParamSpec{
		"expression": {
			Type:        "string",
			Description: "The expression to evaluate, e.g. \"(2 + 3) * 4\"",
			Required:    true,
		},
	}
}

func (c *Calculator) Call(_ context.Context, params map[string]any) (any, error) {
	expr, err := stringParam(params, "expression")
	if err != nil {
		return nil, err
	}
	result, err := mathexpr.Eval(expr)
	if err != nil {
		return nil, err
	}
	return map[string]any{"expression": expr, "result": result}, nil
}
