package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/coral/lang/token"
)

// Tree is a serializable view of a syntax tree node or token.
type Tree struct {
	Node     string         `json:"node"               yaml:"node"`
	Text     string         `json:"text,omitempty"     yaml:"text,omitempty"`
	Pos      token.Position `json:"pos"                yaml:"pos"`
	Children []*Tree        `json:"children,omitempty" yaml:"children,omitempty"`
}

// TreeOf returns the tree view of n and its descendants.
func TreeOf(n Node) *Tree {
	t := &Tree{Node: strings.TrimPrefix(fmt.Sprintf("%T", n), "*lang."), Pos: n.Pos()}

	switch n := n.(type) {
	case *Module:
		t.Text = n.Name
		t.Children = trees(n.Body)

	case *Assignment:
		t.Text = n.Name
		if n.Op != "" {
			t.Text += " " + n.Op + "="
		}

		t.Children = []*Tree{TreeOf(n.Value)}

	case *FuncDef:
		t.Text = n.Name + "(" + strings.Join(n.Params, ", ") + ")"
		t.Children = trees(n.Body)

	case *Output:
		t.Children = []*Tree{TreeOf(n.Value)}

	case *Return:
		t.Children = []*Tree{TreeOf(n.Value)}

	case *Conditional:
		t.Children = []*Tree{TreeOf(n.Cond), body(n.At, n.Body)}
		if n.Next != nil {
			t.Children = append(t.Children, TreeOf(n.Next))
		}

	case *While:
		t.Children = []*Tree{TreeOf(n.Cond), body(n.At, n.Body)}

	case *ExprStatement:
		t.Children = []*Tree{TreeOf(n.X)}

	case *Call:
		t.Text = n.Name
		t.Children = trees(n.Args)

	case *ObjectLookup:
		t.Text = n.Name

	case *Literal:
		t.Text = n.Value.Display()
		if _, ok := n.Value.(String); ok {
			t.Text = strconv.Quote(t.Text)
		}

	case *UnaryOp:
		t.Text = n.Op
		t.Children = []*Tree{TreeOf(n.X)}

	case *BinaryOp:
		t.Text = n.Op
		t.Children = []*Tree{TreeOf(n.Left), TreeOf(n.Right)}
	}

	return t
}

// TokenTrees returns one leaf per token.
func TokenTrees(toks []token.Token) []*Tree {
	out := make([]*Tree, len(toks))

	for i, tok := range toks {
		node := tok.Kind.String()
		if tok.Tag != token.TagNone {
			node += "(" + tok.Tag.String() + ")"
		}

		out[i] = &Tree{Node: node, Text: tok.Lexeme, Pos: tok.Pos}
	}

	return out
}

func trees[N Node](nodes []N) []*Tree {
	out := make([]*Tree, len(nodes))

	for i, n := range nodes {
		out[i] = TreeOf(n)
	}

	return out
}

func body(at token.Position, stmts []Statement) *Tree {
	return &Tree{Node: "Body", Pos: at, Children: trees(stmts)}
}

// Format writes the tree as indented text, one node per line.
func (t *Tree) Format(_ context.Context, w io.Writer, indent int) error {
	return t.format(w, indent, 0)
}

func (t *Tree) format(w io.Writer, indent, depth int) error {
	line := strings.Repeat(" ", indent*depth) + t.Node
	if t.Text != "" {
		line += " " + t.Text
	}

	if _, err := fmt.Fprintf(w, "%s @%s\n", line, t.Pos); err != nil {
		return err
	}

	for _, c := range t.Children {
		if err := c.format(w, indent, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// Format writes the syntax tree of the program as indented text.
func (p *Program) Format(ctx context.Context, w io.Writer, indent int) error {
	return TreeOf(p.Module).Format(ctx, w, indent)
}

// FormatJSON writes the syntax tree of the program as JSON.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return writeJSON(w, TreeOf(p.Module), indent)
}

// FormatYAML writes the syntax tree of the program as YAML.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return writeYAML(ctx, w, TreeOf(p.Module), indent)
}

// FormatTokens writes the token stream of the program, one token per line.
func (p *Program) FormatTokens(ctx context.Context, w io.Writer, _ int) error {
	for _, t := range TokenTrees(p.Tokens) {
		if err := t.Format(ctx, w, 0); err != nil {
			return err
		}
	}

	return nil
}

// FormatTokensJSON writes the token stream of the program as JSON.
func (p *Program) FormatTokensJSON(_ context.Context, w io.Writer, indent int) error {
	return writeJSON(w, TokenTrees(p.Tokens), indent)
}

// FormatTokensYAML writes the token stream of the program as YAML.
func (p *Program) FormatTokensYAML(
	ctx context.Context, w io.Writer, indent int,
) error {
	return writeYAML(ctx, w, TokenTrees(p.Tokens), indent)
}

func writeJSON(w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

func writeYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
