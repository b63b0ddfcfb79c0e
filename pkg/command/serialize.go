package command

import (
	"bytes"

	"github.com/ChickenIQ/vanillago/pkg/proto"
)

const (
	flagTypeMask    = 0x03
	flagExecutable  = 0x04
	flagRedirect    = 0x08
	flagSuggestions = 0x10
)

// Serialize writes the wire-format node list (spec.md §4.6 byte layout)
// followed by the root node index. Graph.Nodes is already flat and indexed
// (spec.md §9 Design Notes), so nodes are written in Graph.Nodes order, the
// order the Builder appended them, with their stored indices; they are not
// reordered breadth-first.
func Serialize(w *bytes.Buffer, g *Graph) error {
	proto.WriteVarInt(w, int32(len(g.Nodes)))
	for _, n := range g.Nodes {
		if err := serializeNode(w, n); err != nil {
			return err
		}
	}
	_, err := proto.WriteVarInt(w, int32(g.Root))
	return err
}

func serializeNode(w *bytes.Buffer, n Node) error {
	flags := byte(n.Kind) & flagTypeMask
	if n.Executable {
		flags |= flagExecutable
	}
	if n.Redirect != nil {
		flags |= flagRedirect
	}
	if n.Suggestions != "" {
		flags |= flagSuggestions
	}
	w.WriteByte(flags)

	proto.WriteVarInt(w, int32(len(n.Children)))
	for _, c := range n.Children {
		proto.WriteVarInt(w, int32(c))
	}
	if n.Redirect != nil {
		proto.WriteVarInt(w, int32(*n.Redirect))
	}
	if n.Kind == KindLiteral || n.Kind == KindArgument {
		if err := proto.WriteString(w, n.Name); err != nil {
			return err
		}
	}
	if n.Kind == KindArgument {
		proto.WriteVarInt(w, int32(n.Parser))
		if err := serializeParserProperties(w, n); err != nil {
			return err
		}
	}
	if n.Suggestions != "" {
		if err := proto.WriteString(w, n.Suggestions); err != nil {
			return err
		}
	}
	return nil
}

func serializeParserProperties(w *bytes.Buffer, n Node) error {
	switch n.Parser {
	case ParserInteger, ParserFloat, ParserDouble:
		var flags byte
		r := n.Range
		if r != nil && r.HasMin {
			flags |= 0x01
		}
		if r != nil && r.HasMax {
			flags |= 0x02
		}
		w.WriteByte(flags)
		if flags&0x01 != 0 {
			writeNumeric(w, n.Parser, r.Min)
		}
		if flags&0x02 != 0 {
			writeNumeric(w, n.Parser, r.Max)
		}
	case ParserEntity:
		var flags byte
		if n.EntityProp != nil {
			if n.EntityProp.SingleOnly {
				flags |= 0x01
			}
			if n.EntityProp.PlayersOnly {
				flags |= 0x02
			}
		}
		w.WriteByte(flags)
	case ParserTime:
		min := int32(0)
		if n.TimeMin != nil {
			min = *n.TimeMin
		}
		return proto.WriteInt32(w, min)
	case ParserResource, ParserBrigadierString, ParserBool, ParserVec2:
		// no properties
	}
	return nil
}

func writeNumeric(w *bytes.Buffer, parser ParserID, v float64) {
	switch parser {
	case ParserInteger:
		proto.WriteInt32(w, int32(v))
	case ParserFloat:
		proto.WriteFloat32(w, float32(v))
	case ParserDouble:
		proto.WriteFloat64(w, v)
	}
}
