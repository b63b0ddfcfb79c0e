package command

import (
	"bytes"

	"github.com/ChickenIQ/vanillago/pkg/proto"
)

// Deserialize is the inverse of Serialize, used by the round-trip property
// in spec.md §8 ("deserialize(serialize(g)) == g for graphs without
// redirects") and available to any client-side consumer of the graph.
func Deserialize(r *bytes.Reader) (*Graph, error) {
	count, _, err := proto.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, count)
	for i := range nodes {
		n, err := deserializeNode(r)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	root, _, err := proto.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &Graph{Nodes: nodes, Root: int(root)}, nil
}

func deserializeNode(r *bytes.Reader) (Node, error) {
	flagsByte, err := r.ReadByte()
	if err != nil {
		return Node{}, err
	}
	n := Node{Kind: NodeKind(flagsByte & flagTypeMask)}
	n.Executable = flagsByte&flagExecutable != 0
	hasRedirect := flagsByte&flagRedirect != 0
	hasSuggestions := flagsByte&flagSuggestions != 0

	childCount, _, err := proto.ReadVarInt(r)
	if err != nil {
		return Node{}, err
	}
	for i := int32(0); i < childCount; i++ {
		c, _, err := proto.ReadVarInt(r)
		if err != nil {
			return Node{}, err
		}
		n.Children = append(n.Children, int(c))
	}
	if hasRedirect {
		rd, _, err := proto.ReadVarInt(r)
		if err != nil {
			return Node{}, err
		}
		v := int(rd)
		n.Redirect = &v
	}
	if n.Kind == KindLiteral || n.Kind == KindArgument {
		name, err := proto.ReadString(r)
		if err != nil {
			return Node{}, err
		}
		n.Name = name
	}
	if n.Kind == KindArgument {
		parserID, _, err := proto.ReadVarInt(r)
		if err != nil {
			return Node{}, err
		}
		n.Parser = ParserID(parserID)
		if err := deserializeParserProperties(r, &n); err != nil {
			return Node{}, err
		}
	}
	if hasSuggestions {
		s, err := proto.ReadString(r)
		if err != nil {
			return Node{}, err
		}
		n.Suggestions = s
	}
	return n, nil
}

func deserializeParserProperties(r *bytes.Reader, n *Node) error {
	switch n.Parser {
	case ParserInteger, ParserFloat, ParserDouble:
		flags, err := r.ReadByte()
		if err != nil {
			return err
		}
		rng := NumericRange{}
		if flags&0x01 != 0 {
			rng.HasMin = true
			v, err := readNumeric(r, n.Parser)
			if err != nil {
				return err
			}
			rng.Min = v
		}
		if flags&0x02 != 0 {
			rng.HasMax = true
			v, err := readNumeric(r, n.Parser)
			if err != nil {
				return err
			}
			rng.Max = v
		}
		if flags != 0 {
			n.Range = &rng
		}
	case ParserEntity:
		flags, err := r.ReadByte()
		if err != nil {
			return err
		}
		n.EntityProp = &EntityProperties{
			SingleOnly:  flags&0x01 != 0,
			PlayersOnly: flags&0x02 != 0,
		}
	case ParserTime:
		v, err := proto.ReadInt32(r)
		if err != nil {
			return err
		}
		n.TimeMin = &v
	}
	return nil
}

func readNumeric(r *bytes.Reader, parser ParserID) (float64, error) {
	switch parser {
	case ParserInteger:
		v, err := proto.ReadInt32(r)
		return float64(v), err
	case ParserFloat:
		v, err := proto.ReadFloat32(r)
		return float64(v), err
	default:
		return proto.ReadFloat64(r)
	}
}
