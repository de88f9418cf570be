package rewrite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleApply(t *testing.T) {
	tests := []struct {
		name      string
		rule      Rule
		input     string
		want      string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "literal replaces every occurrence",
			rule:      Literal("strip", "__X", "", Any),
			input:     "__Xa __Xb c",
			want:      "a b c",
			wantCount: 2,
		},
		{
			name:      "literal no match is a no-op for Any",
			rule:      Literal("strip", "__X", "", Any),
			input:     "abc",
			want:      "abc",
			wantCount: 0,
		},
		{
			name:    "exactly once rejects zero matches",
			rule:    Literal("alias", "type a = i32;", "", ExactlyOnce),
			input:   "nothing here",
			want:    "nothing here",
			wantErr: true,
		},
		{
			name:      "exactly once rejects two matches and keeps input",
			rule:      Literal("alias", "x", "y", ExactlyOnce),
			input:     "x x",
			want:      "x x",
			wantCount: 2,
			wantErr:   true,
		},
		{
			name:      "at most once accepts zero",
			rule:      Literal("struct", "S", "", AtMostOnce),
			input:     "abc",
			want:      "abc",
			wantCount: 0,
		},
		{
			name:      "regexp expands groups",
			rule:      Regexp("def", `(?m)^#define v (\w+)$`, "typedef $1 v;", AtLeastOnce),
			input:     "#define v int32_t\nint x;",
			want:      "typedef int32_t v;\nint x;",
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.rule.Apply(tt.input)
			if tt.wantErr {
				var expErr *ExpectationError
				require.True(t, errors.As(err, &expErr), "expected ExpectationError, got %v", err)
				assert.Equal(t, tt.rule.Name, expErr.Rule)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, res.Text)
			assert.Equal(t, tt.wantCount, res.Count)
		})
	}
}

func TestApplyAllStopsAtFirstFailure(t *testing.T) {
	text, counts, err := ApplyAll("a b",
		Literal("a", "a", "A", ExactlyOnce),
		Literal("missing", "z", "Z", AtLeastOnce),
		Literal("b", "b", "B", ExactlyOnce),
	)
	require.Error(t, err)
	assert.Equal(t, "A b", text)
	assert.Equal(t, 1, counts.Get("a"))
	assert.Equal(t, 0, counts.Get("missing"))
	assert.Equal(t, -1, counts.Get("b"))
}

func TestExpectationErrorMessage(t *testing.T) {
	err := &ExpectationError{Rule: "int-width alias", Expect: ExactlyOnce, Count: 0}
	assert.Equal(t, `rewrite "int-width alias": expected match exactly once, got 0`, err.Error())
}
