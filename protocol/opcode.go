package protocol

import "fmt"

// Opcode selects the request kind.
type Opcode byte

const (
	// OpHeuristic asks for a heuristic estimate between two cells.
	OpHeuristic Opcode = '0'

	// OpRoute asks the companion to compute and print the path between two
	// cells of a finished plan.
	OpRoute Opcode = '1'

	// OpShutdown tells the companion that planning is over.
	OpShutdown Opcode = '2'

	// OpCost asks for the traversal cost between two cells.
	OpCost Opcode = '3'
)

// String returns the opcode name.
func (o Opcode) String() string {
	switch o {
	case OpHeuristic:
		return "heuristic"
	case OpRoute:
		return "route"
	case OpShutdown:
		return "shutdown"
	case OpCost:
		return "cost"
	default:
		return fmt.Sprintf("opcode(%q)", byte(o))
	}
}

// Valid reports whether o is one of the four known opcodes.
func (o Opcode) Valid() bool {
	switch o {
	case OpHeuristic, OpRoute, OpShutdown, OpCost:
		return true
	}
	return false
}

// HasResult reports whether a round-trip for o ends with a result frame.
func (o Opcode) HasResult() bool {
	return o == OpHeuristic || o == OpCost
}

// ChecksNoSolution reports whether the second confirmation of o is tested
// against the no-solution sentinel.
func (o Opcode) ChecksNoSolution() bool {
	return o == OpCost || o == OpRoute
}
