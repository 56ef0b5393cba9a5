package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

func TestName(t *testing.T) {
	c := Name("MOVE_TO")

	ok, err := c.IsMove("MOVE_TO", []string{"R1", "C1_1", "C1_2"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.IsMove("PICK", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.IsMove("move_to", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExpression(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		action string
		args   []string
		want   bool
	}{
		{"exact name", `name == "MOVE_TO"`, "MOVE_TO", nil, true},
		{"exact name miss", `name == "MOVE_TO"`, "PICK", nil, false},
		{"name list", `name in ["MOVE_TO", "DRIVE_TO"]`, "DRIVE_TO", []string{"C1_1"}, true},
		{"argument test", `args.exists(a, a.startsWith("C"))`, "GOTO", []string{"R1", "C0_0"}, true},
		{"argument test miss", `args.exists(a, a.startsWith("C"))`, "GOTO", []string{"R1"}, false},
		{"arity", `size(args) == 3`, "MOVE_TO", []string{"R", "C1", "C2"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Compile(tt.expr)
			require.NoError(t, err)

			got, err := c.IsMove(tt.action, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Second call comes from the memo.
			got, err = c.IsMove(tt.action, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompileErrors(t *testing.T) {
	_, err := Compile(`name ==`)
	require.Error(t, err)
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeInvalidConfig))

	_, err = Compile(`name`)
	require.Error(t, err)
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeInvalidConfig))

	_, err = Compile(`unknown_var == 1`)
	require.Error(t, err)
}

func TestEvalError(t *testing.T) {
	c, err := Compile(`args[5] == "C1"`)
	require.NoError(t, err)

	_, err = c.IsMove("MOVE_TO", []string{"C1"})
	require.Error(t, err)
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeInvalidAction))
}

func TestNew(t *testing.T) {
	c, err := New("", "")
	require.NoError(t, err)
	assert.Equal(t, Name(DefaultMoveAction), c)

	c, err = New("GOTO", "  ")
	require.NoError(t, err)
	assert.Equal(t, Name("GOTO"), c)

	c, err = New("GOTO", `name == "X"`)
	require.NoError(t, err)
	assert.IsType(t, &Expression{}, c)
}
