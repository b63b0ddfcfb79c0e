package command

// Graph is the flattened, indexed command DAG (spec.md §3, §9 Design Notes).
type Graph struct {
	Nodes []Node
	Root  int
}

// Builder is the fluent literal/argument/end stack builder spec.md §4.6
// describes, grounded on the teacher's command.go handler-registration style
// generalized from a flat string switch into a real tree.
type Builder struct {
	graph *Graph
	stack []int // indices into graph.Nodes; stack[0] is always root
}

// NewBuilder starts a graph with a single root node.
func NewBuilder() *Builder {
	g := &Graph{Nodes: []Node{{Kind: KindRoot}}, Root: 0}
	return &Builder{graph: g, stack: []int{0}}
}

func (b *Builder) top() int { return b.stack[len(b.stack)-1] }

func (b *Builder) push(n Node) *Builder {
	idx := len(b.graph.Nodes)
	b.graph.Nodes = append(b.graph.Nodes, n)
	parent := b.top()
	b.graph.Nodes[parent].Children = append(b.graph.Nodes[parent].Children, idx)
	b.stack = append(b.stack, idx)
	return b
}

// Literal pushes a literal child of the current node.
func (b *Builder) Literal(name string) *Builder {
	return b.push(Node{Kind: KindLiteral, Name: name})
}

// Argument pushes an argument child of the current node.
func (b *Builder) Argument(name string, parser ParserID) *Builder {
	return b.push(Node{Kind: KindArgument, Name: name, Parser: parser})
}

// Range attaches a numeric range constraint to the node currently on top of
// the stack. spec.md §9 Open Question: the explicit HasMin/HasMax markers
// resolve the min==0.0 ambiguity, so "minimum of zero" and "no minimum" stay
// distinct both here and in Parse.
func (b *Builder) Range(r NumericRange) *Builder {
	b.graph.Nodes[b.top()].Range = &r
	return b
}

// Entity attaches minecraft:entity parser properties.
func (b *Builder) Entity(p EntityProperties) *Builder {
	b.graph.Nodes[b.top()].EntityProp = &p
	return b
}

// TimeMin attaches the minecraft:time parser's minimum.
func (b *Builder) TimeMin(v int32) *Builder {
	b.graph.Nodes[b.top()].TimeMin = &v
	return b
}

// Executable marks the current node executable by players.
func (b *Builder) Executable() *Builder {
	b.graph.Nodes[b.top()].Executable = true
	return b
}

// ConsoleExecutable marks the current node executable by the console.
func (b *Builder) ConsoleExecutable() *Builder {
	b.graph.Nodes[b.top()].ConsoleExecutable = true
	return b
}

// Suggests attaches a suggestions identifier to the current node.
func (b *Builder) Suggests(id string) *Builder {
	b.graph.Nodes[b.top()].Suggestions = id
	return b
}

// Redirect makes the current node redirect to target (an already-built node
// index), rather than carry its own children.
func (b *Builder) Redirect(target int) *Builder {
	b.graph.Nodes[b.top()].Redirect = &target
	return b
}

// Handle attaches the handler invoked when the current node's path fully
// matches and is executable.
func (b *Builder) Handle(h Handler) *Builder {
	b.graph.Nodes[b.top()].Handler = h
	return b
}

// End pops the current node, returning to its parent.
func (b *Builder) End() *Builder {
	if len(b.stack) > 1 {
		b.stack = b.stack[:len(b.stack)-1]
	}
	return b
}

// CurrentIndex returns the index of the node currently on top of the stack,
// for capturing targets to use with Redirect.
func (b *Builder) CurrentIndex() int {
	return b.top()
}

// Build finalizes and returns the graph.
func (b *Builder) Build() *Graph {
	return b.graph
}
