package pathbridge

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

func TestActionIsGoal(t *testing.T) {
	assert.True(t, Goal().IsGoal())
	assert.False(t, NewAction("MOVE_TO", "R", "C1", "C2").IsGoal())
	assert.False(t, Action{Name: "MOVE_TO", Generalized: true}.IsGoal())
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "MOVE_TO R C1 C2", NewAction("MOVE_TO", "R", "C1", "C2").String())
	assert.Equal(t, GoalAction, Goal().String())
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		line string
		want Action
	}{
		{"MOVE_TO robot C1_1 C4_2", NewAction("MOVE_TO", "ROBOT", "C1_1", "C4_2")},
		{"(pick box C4_2)", NewAction("PICK", "BOX", "C4_2")},
		{"  REACH-GOAL  ", Goal()},
		{"wait", NewAction("WAIT")},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := ParseAction(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Name, got.Name)
			assert.Equal(t, tt.want.IsGoal(), got.IsGoal())
			assert.ElementsMatch(t, tt.want.Args, got.Args)
		})
	}

	_, err := ParseAction("   ")
	assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeInvalidAction))
}

func TestCellArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		from, to string
		wantErr  bool
	}{
		{name: "leading object", args: []string{"ROBOT", "C1_1", "C4_2"}, from: "C1_1", to: "C4_2"},
		{name: "first marker wins", args: []string{"C1", "C2", "C3"}, from: "C1", to: "C2"},
		{name: "next argument taken as is", args: []string{"R", "C1", "DOOR"}, from: "C1", to: "DOOR"},
		{name: "marker last", args: []string{"R", "C1"}, wantErr: true},
		{name: "no marker", args: []string{"R", "X1", "X2"}, wantErr: true},
		{name: "no args", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := CellArgs(NewAction("MOVE_TO", tt.args...), DefaultCellMarker)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, bridgeerr.HasCode(err, bridgeerr.ErrCodeInvalidAction))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestReadPlan(t *testing.T) {
	src := `; plan found in 3 steps
MOVE_TO robot C0_0 C0_1

# pick up the box
PICK robot box C0_1
REACH-GOAL
`
	plan, err := ReadPlan(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, plan, 3)
	assert.Equal(t, "MOVE_TO ROBOT C0_0 C0_1", plan[0].String())
	assert.Equal(t, "PICK ROBOT BOX C0_1", plan[1].String())
	assert.True(t, plan[2].IsGoal())
}
