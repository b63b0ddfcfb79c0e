package command

import (
	"strconv"
	"strings"
)

// tokenize splits input on whitespace, treating a double-quoted run as a
// single token with the quotes stripped (spec.md §4.6 "Tokenize input
// respecting double-quoted strings").
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuotes := false
	hasToken := false

	flush := func() {
		if hasToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			hasToken = false
		}
	}

	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
			hasToken = true
		case c == ' ' && !inQuotes:
			flush()
		default:
			cur.WriteByte(c)
			hasToken = true
		}
	}
	flush()
	return tokens
}

// Parse walks the graph from g.Root consuming tokens, preferring an exact
// literal match at each step and falling back to the first argument child
// whose parser accepts the remaining tokens (spec.md §4.6 "Parse-and-
// execute"). On a full match it invokes the matched node's Handler. Parse
// never returns a terminal error for user mistakes: IncompleteCommand and
// InvalidArguments are reported through ctx.SendOutput, matching spec.md §7's
// requirement that malformed input never tear down the connection.
func Parse(g *Graph, ctx *ExecContext, input string) error {
	tokens := tokenize(input)
	return parseFrom(g, ctx, g.Root, tokens, nil)
}

func parseFrom(g *Graph, ctx *ExecContext, nodeIdx int, tokens []string, args []string) error {
	n := &g.Nodes[nodeIdx]
	if n.Redirect != nil {
		nodeIdx = *n.Redirect
		n = &g.Nodes[nodeIdx]
	}

	if len(tokens) == 0 {
		if !n.Executable || (ctx.IsConsole && !n.ConsoleExecutable) {
			ctx.SendOutput("incomplete_command", true, nil)
			return ErrIncompleteCommand
		}
		if n.Handler == nil {
			ctx.SendOutput("incomplete_command", true, nil)
			return ErrIncompleteCommand
		}
		return n.Handler(ctx, args)
	}

	// Prefer an exact literal match.
	for _, childIdx := range n.Children {
		child := &g.Nodes[childIdx]
		if child.Kind == KindLiteral && child.Name == tokens[0] {
			return parseFrom(g, ctx, childIdx, tokens[1:], args)
		}
	}

	// Otherwise try each argument child in declaration order, taking the
	// first whose parser accepts the remaining tokens.
	for _, childIdx := range n.Children {
		child := &g.Nodes[childIdx]
		if child.Kind != KindArgument {
			continue
		}
		value, consumed, ok := acceptArgument(child, tokens)
		if !ok {
			continue
		}
		return parseFrom(g, ctx, childIdx, tokens[consumed:], append(args, value))
	}

	ctx.SendOutput("invalid_arguments", true, nil)
	return ErrInvalidArguments
}

// acceptArgument reports whether child's parser accepts the leading tokens,
// the canonical string value to record, and how many tokens it consumed.
// minecraft:vec2 consumes two tokens (spec.md §4.6); every other parser
// consumes exactly one.
func acceptArgument(child *Node, tokens []string) (value string, consumed int, ok bool) {
	switch child.Parser {
	case ParserVec2:
		if len(tokens) < 2 {
			return "", 0, false
		}
		if !acceptVec2Component(tokens[0]) || !acceptVec2Component(tokens[1]) {
			return "", 0, false
		}
		return tokens[0] + " " + tokens[1], 2, true
	case ParserInteger:
		v, err := strconv.ParseInt(tokens[0], 10, 32)
		if err != nil || !inRange(child.Range, float64(v)) {
			return "", 0, false
		}
		return tokens[0], 1, true
	case ParserFloat, ParserDouble:
		v, err := strconv.ParseFloat(tokens[0], 64)
		if err != nil || !inRange(child.Range, v) {
			return "", 0, false
		}
		return tokens[0], 1, true
	case ParserBool:
		if tokens[0] != "true" && tokens[0] != "false" {
			return "", 0, false
		}
		return tokens[0], 1, true
	case ParserTime:
		v, err := strconv.ParseInt(strings.TrimSuffix(tokens[0], "t"), 10, 32)
		min := int32(0)
		if child.TimeMin != nil {
			min = *child.TimeMin
		}
		if err != nil || int32(v) < min {
			return "", 0, false
		}
		return tokens[0], 1, true
	case ParserEntity, ParserResource, ParserBrigadierString:
		if tokens[0] == "" {
			return "", 0, false
		}
		return tokens[0], 1, true
	default:
		return tokens[0], 1, true
	}
}

func acceptVec2Component(tok string) bool {
	if tok == "~" {
		return true
	}
	t := strings.TrimPrefix(tok, "~")
	_, err := strconv.ParseFloat(t, 64)
	return err == nil
}

// inRange applies r to v. spec.md §9 Open Question: bounds are gated on the
// explicit HasMin/HasMax markers, so a HasMin with Min == 0 is a real lower
// bound of zero, and HasMin=false means no lower bound.
func inRange(r *NumericRange, v float64) bool {
	if r == nil {
		return true
	}
	if r.HasMin && v < r.Min {
		return false
	}
	if r.HasMax && v > r.Max {
		return false
	}
	return true
}
