// Package sexp parses the S-expression syntax of KiCad board files into a
// navigable node tree. The token rules are declarative participle lexer
// rules; the tree shape (atoms vs. keyed lists) follows how pcbnew lays out
// its files: every interesting construct is a list whose first atom is the
// key, e.g. (net 1 "GND").
package sexp

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// kicadLexer tokenizes KiCad S-expression files. Strings use backslash
// escapes; comments run from # to end of line.
var kicadLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Symbol", Pattern: `[^()\s"]+`},
})

// Node is one S-expression: either an atom (symbol or quoted string) or a
// list of nodes.
type Node struct {
	StrVal *string `  @String`
	Sym    *string `| @Symbol`
	List   *List   `| @@`
}

// List is a parenthesized sequence of nodes.
type List struct {
	Items []*Node `"(" @@* ")"`
}

// document is the top level of a file: any number of expressions.
type document struct {
	Nodes []*Node `@@*`
}

var parser = participle.MustBuild[document](
	participle.Lexer(kicadLexer),
	participle.Elide("Comment", "Whitespace"),
)

// Parse reads all top-level S-expressions from r.
func Parse(r io.Reader) ([]*Node, error) {
	doc, err := parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	return doc.Nodes, nil
}

// ParseString parses all top-level S-expressions from a string.
func ParseString(s string) ([]*Node, error) {
	return Parse(strings.NewReader(s))
}

// IsAtom reports whether the node is a symbol or string rather than a list.
func (n *Node) IsAtom() bool {
	return n.List == nil
}

// Atom returns the text of an atom, with string quoting and escapes removed.
// Returns "" for lists.
func (n *Node) Atom() string {
	switch {
	case n.Sym != nil:
		return *n.Sym
	case n.StrVal != nil:
		return unquote(*n.StrVal)
	default:
		return ""
	}
}

// Key returns the first atom of a list, which names the construct
// (e.g. "net" for (net 1 "GND")). Returns "" for atoms and empty lists.
func (n *Node) Key() string {
	if n.List == nil || len(n.List.Items) == 0 {
		return ""
	}
	return n.List.Items[0].Atom()
}

// Items returns the elements of a list, including the key atom. Nil for
// atoms.
func (n *Node) Items() []*Node {
	if n.List == nil {
		return nil
	}
	return n.List.Items
}

// Child returns the first sub-list whose key matches.
func (n *Node) Child(key string) (*Node, bool) {
	for _, item := range n.Items() {
		if !item.IsAtom() && item.Key() == key {
			return item, true
		}
	}
	return nil, false
}

// Children returns all sub-lists whose key matches.
func (n *Node) Children(key string) []*Node {
	var nodes []*Node
	for _, item := range n.Items() {
		if !item.IsAtom() && item.Key() == key {
			nodes = append(nodes, item)
		}
	}
	return nodes
}

// at returns the i-th element of a list. Index 0 is the key.
func (n *Node) at(i int) (*Node, error) {
	items := n.Items()
	if n.IsAtom() {
		return nil, fmt.Errorf("expected list, got atom %q", n.Atom())
	}
	if i < 0 || i >= len(items) {
		return nil, fmt.Errorf("index %d out of bounds (length %d)", i, len(items))
	}
	return items[i], nil
}

// Str extracts the atom at index i of a list.
func (n *Node) Str(i int) (string, error) {
	item, err := n.at(i)
	if err != nil {
		return "", err
	}
	if !item.IsAtom() {
		return "", fmt.Errorf("expected atom at index %d, got list (%s ...)", i, item.Key())
	}
	return item.Atom(), nil
}

// Float extracts the atom at index i of a list as a float.
func (n *Node) Float(i int) (float64, error) {
	s, err := n.Str(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("expected number at index %d: %w", i, err)
	}
	return v, nil
}

// Int extracts the atom at index i of a list as an integer.
func (n *Node) Int(i int) (int, error) {
	s, err := n.Str(i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("expected integer at index %d: %w", i, err)
	}
	return v, nil
}

// String renders the node back to S-expression text.
func (n *Node) String() string {
	if n.IsAtom() {
		if n.StrVal != nil {
			return *n.StrVal
		}
		return n.Atom()
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, item := range n.List.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(item.String())
	}
	b.WriteByte(')')
	return b.String()
}

// unquote strips surrounding quotes and resolves backslash escapes.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Quote renders a string as a quoted S-expression atom with escapes applied.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
