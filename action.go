package pathbridge

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

// GoalAction is the name of the synthetic action that closes a plan.
const GoalAction = "REACH-GOAL"

// DefaultCellMarker is the prefix that identifies a cell argument.
const DefaultCellMarker = "C"

// Action is a grounded planner action as the bridge sees it.
type Action struct {
	Name string
	Args []string

	// Operator is set when the action was grounded from a concrete operator.
	Operator bool

	// Generalized is set when the action comes from a generalized
	// (pseudo) operator.
	Generalized bool
}

// NewAction returns a concrete action.
func NewAction(name string, args ...string) Action {
	return Action{Name: name, Args: args, Operator: true}
}

// Goal returns the synthetic goal-closing action.
func Goal() Action {
	return Action{Name: GoalAction}
}

// IsGoal reports whether a is the goal-closing action: it has neither a
// concrete nor a generalized operator behind it.
func (a Action) IsGoal() bool {
	return !a.Operator && !a.Generalized
}

// String renders the action as "NAME ARG...".
func (a Action) String() string {
	if len(a.Args) == 0 {
		return a.Name
	}
	return a.Name + " " + strings.Join(a.Args, " ")
}

// ParseAction parses one plan line of the form "NAME ARG...". Parentheses
// around the line are accepted, and a bare REACH-GOAL parses as the goal
// action.
func ParseAction(line string) (Action, error) {
	line = strings.TrimSpace(line)
	line = strings.TrimSuffix(strings.TrimPrefix(line, "("), ")")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Action{}, bridgeerr.New("pathbridge", "parse", bridgeerr.ErrCodeInvalidAction, "empty action")
	}
	name := strings.ToUpper(fields[0])
	if name == GoalAction && len(fields) == 1 {
		return Goal(), nil
	}
	args := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		args = append(args, strings.ToUpper(f))
	}
	return NewAction(name, args...), nil
}

// CellArgs returns the two cells of a move action: the first argument that
// starts with marker, and the argument right after it.
func CellArgs(a Action, marker string) (from, to string, err error) {
	for i, arg := range a.Args {
		if !strings.HasPrefix(arg, marker) {
			continue
		}
		if i+1 >= len(a.Args) {
			break
		}
		return arg, a.Args[i+1], nil
	}
	return "", "", bridgeerr.Newf("pathbridge", "cells", bridgeerr.ErrCodeInvalidAction,
		"action %q does not name two cells", a.String()).
		WithDetails(map[string]any{"marker": marker})
}

// ReadPlan reads one action per line. Blank lines and lines starting with
// ';' or '#' are skipped.
func ReadPlan(r io.Reader) ([]Action, error) {
	var plan []Action
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, ";") || strings.HasPrefix(text, "#") {
			continue
		}
		a, err := ParseAction(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		plan = append(plan, a)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return plan, nil
}
