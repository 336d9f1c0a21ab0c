package mathexpr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurelia-labs/nexus-cli/internal/core/domain"
)

func TestEval_Arithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"10 // 4", 2},
		{"-7 // 2", -4},
		{"10 % 3", 1},
		{"-7 % 3", 2},  // floored: sign follows the divisor
		{"7 % -3", -2}, // floored: sign follows the divisor
		{"-7.5 % 2", 0.5},
		{"2 ** 10", 1024},
		{"2 ** 3 ** 2", 512}, // right-associative
		{"-2 ** 2", -4},      // ** binds tighter than unary minus
		{"2 ** -1", 0.5},
		{"-5", -5},
		{"+5", 5},
		{"--5", 5},
		{"3.5 + 1.5", 5},
		{".5 * 2", 1},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Eval(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEval_Functions(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"sqrt(16)", 4},
		{"abs(-3)", 3},
		{"round(2.6)", 3},
		{"round(2.567, 2)", 2.57},
		{"min(3, 1, 2)", 1},
		{"max(3, 1, 2)", 3},
		{"pow(2, 8)", 256},
		{"sqrt(abs(-16))", 4},
		{"min(1 + 2, 2 * 2)", 3},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Eval(tt.expr)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestEval_RejectsDisallowedInput(t *testing.T) {
	exprs := []string{
		"__import__('os')",
		"os.system('ls')",
		"x + 1",
		"exec(1)",
		"\"hello\"",
		"1; 2",
		"[1, 2]",
		"2 +",
		"(1 + 2",
		"sqrt 4",
		"pow(2)",
		"sqrt(-1)",
		"",
	}

	for _, expr := range exprs {
		t.Run(expr, func(t *testing.T) {
			_, err := Eval(expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput),
				"expected ErrInvalidInput, got %v", err)
		})
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	for _, expr := range []string{"1 / 0", "1 // 0", "1 % 0"} {
		t.Run(expr, func(t *testing.T) {
			_, err := Eval(expr)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrDivisionByZero))
			assert.False(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}
