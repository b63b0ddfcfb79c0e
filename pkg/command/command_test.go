package command

import (
	"bytes"
	"reflect"
	"strconv"
	"testing"
)

func buildTimeGraph(worldTime *int32) *Graph {
	b := NewBuilder()
	b.Literal("time").
		Literal("set").
		Argument("value", ParserInteger).
		Range(NumericRange{HasMin: true, Min: 0}).
		Executable().ConsoleExecutable().
		Handle(func(ctx *ExecContext, args []string) error {
			v, _ := strconv.ParseInt(args[0], 10, 32)
			*worldTime = int32(v)
			return nil
		}).
		End().
		End().
		Literal("query").
		Literal("daytime").
		Executable().ConsoleExecutable().
		Handle(func(ctx *ExecContext, args []string) error {
			ctx.SendOutput("commands.time.query", false, []string{strconv.Itoa(int(*worldTime))})
			return nil
		})
	return b.Build()
}

func TestScenarioCTimeSetThenQuery(t *testing.T) {
	var worldTime int32
	g := buildTimeGraph(&worldTime)

	var out []string
	ctx := &ExecContext{SendOutput: func(key string, isError bool, args []string) {
		out = append(out, args...)
	}}

	if err := Parse(g, ctx, "time set 1000"); err != nil {
		t.Fatalf("time set: %v", err)
	}
	if worldTime != 1000 {
		t.Fatalf("expected worldTime 1000, got %d", worldTime)
	}

	if err := Parse(g, ctx, "time query daytime"); err != nil {
		t.Fatalf("time query: %v", err)
	}
	if len(out) != 1 || out[0] != "1000" {
		t.Fatalf("expected query output [1000], got %v", out)
	}
}

func TestIncompleteCommandReported(t *testing.T) {
	var worldTime int32
	g := buildTimeGraph(&worldTime)

	var reportedErr bool
	ctx := &ExecContext{SendOutput: func(key string, isError bool, args []string) {
		reportedErr = isError
	}}

	err := Parse(g, ctx, "time set")
	if err != ErrIncompleteCommand {
		t.Fatalf("expected ErrIncompleteCommand, got %v", err)
	}
	if !reportedErr {
		t.Fatalf("expected SendOutput to be called with isError=true")
	}
}

func TestInvalidArgumentsReported(t *testing.T) {
	var worldTime int32
	g := buildTimeGraph(&worldTime)

	ctx := &ExecContext{SendOutput: func(key string, isError bool, args []string) {}}
	err := Parse(g, ctx, "time set notanumber")
	if err != ErrInvalidArguments {
		t.Fatalf("expected ErrInvalidArguments, got %v", err)
	}
}

func TestQuotedStringTokenization(t *testing.T) {
	tokens := tokenize(`say "hello world" done`)
	want := []string{"say", "hello world", "done"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("tokenize mismatch: got %v want %v", tokens, want)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	var worldTime int32
	g := buildTimeGraph(&worldTime)

	var buf bytes.Buffer
	if err := Serialize(&buf, g); err != nil {
		t.Fatalf("serialize: %v", err)
	}

	r := bytes.NewReader(buf.Bytes())
	got, err := Deserialize(r)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if len(got.Nodes) != len(g.Nodes) {
		t.Fatalf("node count mismatch: got %d want %d", len(got.Nodes), len(g.Nodes))
	}
	if got.Root != g.Root {
		t.Fatalf("root mismatch: got %d want %d", got.Root, g.Root)
	}
	for i := range g.Nodes {
		want := g.Nodes[i]
		have := got.Nodes[i]
		if have.Kind != want.Kind || have.Name != want.Name || have.Executable != want.Executable {
			t.Fatalf("node %d mismatch: got %+v want %+v", i, have, want)
		}
		if !reflect.DeepEqual(have.Children, want.Children) {
			t.Fatalf("node %d children mismatch: got %v want %v", i, have.Children, want.Children)
		}
		if want.Kind == KindArgument {
			if have.Parser != want.Parser {
				t.Fatalf("node %d parser mismatch: got %v want %v", i, have.Parser, want.Parser)
			}
			if (have.Range == nil) != (want.Range == nil) {
				t.Fatalf("node %d range presence mismatch", i)
			}
			if have.Range != nil && *have.Range != *want.Range {
				t.Fatalf("node %d range mismatch: got %+v want %+v", i, *have.Range, *want.Range)
			}
		}
	}
}

func TestVec2AcceptsRelativeTokens(t *testing.T) {
	b := NewBuilder()
	b.Literal("tp").
		Argument("pos", ParserVec2).
		Executable().
		Handle(func(ctx *ExecContext, args []string) error { return nil })
	g := b.Build()

	ctx := &ExecContext{SendOutput: func(string, bool, []string) {}}
	if err := Parse(g, ctx, "tp ~ ~-5"); err != nil {
		t.Fatalf("expected relative vec2 to parse, got %v", err)
	}
	if err := Parse(g, ctx, "tp 10.5 ~"); err != nil {
		t.Fatalf("expected mixed vec2 to parse, got %v", err)
	}
}
