// Package command implements the command dispatch graph (spec.md §4.6/C6):
// a DAG of literal/argument nodes with per-node executability, typed
// argument parsers, numeric range constraints, byte-exact wire serialization,
// and tokenized parse-and-execute.
package command

import "errors"

// NodeKind is one of {root, literal, argument} (spec.md §3 "Command node").
type NodeKind byte

const (
	KindRoot NodeKind = iota
	KindLiteral
	KindArgument
)

// ParserID identifies an argument's value parser (spec.md §4.6).
type ParserID int32

const (
	ParserBrigadierString ParserID = iota
	ParserInteger
	ParserFloat
	ParserDouble
	ParserBool
	ParserEntity
	ParserTime
	ParserResource
	ParserVec2
)

// NumericRange is an optional (min,max) constraint on a numeric argument
// (spec.md §3 "Numeric argument nodes"). HasMin and HasMax track which
// bounds were set, so a bound of 0 is distinct from no bound.
type NumericRange struct {
	HasMin, HasMax bool
	Min, Max       float64
}

// EntityProperties are minecraft:entity parser flags.
type EntityProperties struct {
	SingleOnly  bool
	PlayersOnly bool
}

// Handler executes a matched command. args are the argument values in visit
// order (flat strings); send_output reports feedback to the invoker (spec.md
// §4.6 "Parse-and-execute").
type Handler func(ctx *ExecContext, args []string) error

// SendOutput reports a line of output back to whoever invoked a command.
type SendOutput func(key string, isError bool, args []string)

// ExecContext carries the caller identity and output sink through a Handler
// invocation.
type ExecContext struct {
	IsConsole  bool
	SendOutput SendOutput
	// Data is an application-supplied bag (e.g. *world context, player ref)
	// handlers can type-assert out of, keeping this package free of any
	// dependency on session/entity types (spec.md §9 "shared mutable
	// globals" is threaded explicitly, never imported as a package-level var).
	Data any
}

// Node is one vertex of the command graph (spec.md §3 "Command node").
// Redirects and children are expressed as indices into the owning Graph's
// flat Nodes slice, which is what lets the graph be a DAG even though
// redirect edges can otherwise form cycles (spec.md §9 Design Notes).
type Node struct {
	Kind NodeKind
	Name string // literal/argument name; unused for root

	Parser     ParserID
	Range      *NumericRange
	EntityProp *EntityProperties
	TimeMin    *int32

	Children  []int
	Executable bool
	ConsoleExecutable bool
	Redirect  *int
	Suggestions string

	Handler Handler
}

// ErrIncompleteCommand is reported via SendOutput, never terminal (spec.md §7).
var ErrIncompleteCommand = errors.New("command: incomplete command")

// ErrInvalidArguments is reported via SendOutput, never terminal (spec.md §7).
var ErrInvalidArguments = errors.New("command: invalid arguments")
