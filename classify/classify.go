// Package classify decides which planner actions are moves between cells.
//
// The default rule matches the action name exactly. A CEL expression can be
// supplied instead for domains whose move operators have several names or
// must be told apart by their arguments. The expression sees two variables,
// name (string) and args (list of string), and must evaluate to a bool:
//
//	name == "MOVE_TO"
//	name in ["MOVE_TO", "DRIVE_TO"] && size(args) >= 3
//	name.startsWith("MOVE") && args.exists(a, a.startsWith("C"))
package classify

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

// DefaultMoveAction is the operator name of the move action.
const DefaultMoveAction = "MOVE_TO"

// Classifier reports whether an action is a move between cells.
type Classifier interface {
	IsMove(name string, args []string) (bool, error)
}

// Name matches the action name exactly.
type Name string

// IsMove implements Classifier.
func (n Name) IsMove(name string, _ []string) (bool, error) {
	return name == string(n), nil
}

// Expression is a Classifier backed by a compiled CEL program. Results are
// memoized per (name, args) since the planner asks about the same grounded
// actions many times.
type Expression struct {
	source  string
	program cel.Program
	seen    map[string]bool
}

// Compile compiles expr into an Expression.
func Compile(expr string) (*Expression, error) {
	env, err := cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("args", cel.ListType(cel.StringType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, bridgeerr.Newf("classify", "compile", bridgeerr.ErrCodeInvalidConfig,
			"move expression %q", expr).WithCause(iss.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, bridgeerr.Newf("classify", "compile", bridgeerr.ErrCodeInvalidConfig,
			"move expression %q has type %s, want bool", expr, ast.OutputType())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, bridgeerr.Newf("classify", "compile", bridgeerr.ErrCodeInvalidConfig,
			"move expression %q", expr).WithCause(err)
	}

	return &Expression{source: expr, program: prg, seen: make(map[string]bool)}, nil
}

// String returns the expression source.
func (e *Expression) String() string { return e.source }

// IsMove implements Classifier.
func (e *Expression) IsMove(name string, args []string) (bool, error) {
	key := name + "\x00" + strings.Join(args, "\x00")
	if v, ok := e.seen[key]; ok {
		return v, nil
	}

	if args == nil {
		args = []string{}
	}
	out, _, err := e.program.Eval(map[string]any{
		"name": name,
		"args": args,
	})
	if err != nil {
		return false, bridgeerr.Newf("classify", "eval", bridgeerr.ErrCodeInvalidAction,
			"evaluate %q for %s", e.source, name).WithCause(err)
	}
	v, ok := out.Value().(bool)
	if !ok {
		return false, bridgeerr.Newf("classify", "eval", bridgeerr.ErrCodeInvalidAction,
			"expression %q returned %T", e.source, out.Value())
	}
	e.seen[key] = v
	return v, nil
}

// New returns a Name classifier for moveAction when expr is empty, and a
// compiled Expression otherwise.
func New(moveAction, expr string) (Classifier, error) {
	if strings.TrimSpace(expr) == "" {
		if moveAction == "" {
			moveAction = DefaultMoveAction
		}
		return Name(moveAction), nil
	}
	return Compile(expr)
}
