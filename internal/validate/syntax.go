package validate

import (
	"bytes"
	"context"
	"fmt"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

const snippetRunes = 40

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SyntaxError is the first position in a file Python would refuse to compile.
type SyntaxError struct {
	Line    int
	Column  int
	Missing string
	Snippet string
	// Reason names a rule the parse tree satisfies but Python 3 does not.
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Reason)
	}
	if e.Missing != "" {
		return fmt.Sprintf("line %d, column %d: missing %q", e.Line, e.Column, e.Missing)
	}
	if e.Snippet != "" {
		return fmt.Sprintf("line %d, column %d: invalid syntax near %q", e.Line, e.Column, e.Snippet)
	}
	return fmt.Sprintf("line %d, column %d: invalid syntax", e.Line, e.Column)
}

// Structure lists the class and function names defined in a module,
// including nested definitions, in source order.
type Structure struct {
	Classes   []string
	Functions []string
}

// Checker parses Python source with tree-sitter. A Checker is not safe for
// concurrent use.
type Checker struct {
	parser *sitter.Parser
}

func NewChecker() *Checker {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Checker{parser: parser}
}

// Check parses content and returns its structure, or a *SyntaxError when
// the tree contains errors or constructs Python 3 rejects. Nothing is
// executed or imported.
func (c *Checker) Check(ctx context.Context, content []byte) (*Structure, error) {
	content = bytes.TrimPrefix(content, utf8BOM)

	tree, err := c.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, firstSyntaxError(root, content)
	}
	if syntaxErr := strictError(root, content); syntaxErr != nil {
		return nil, syntaxErr
	}

	s := &Structure{}
	collectDefinitions(root, content, s)
	return s, nil
}

func firstSyntaxError(node *sitter.Node, content []byte) *SyntaxError {
	if node.IsMissing() {
		pos := node.StartPoint()
		return &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column) + 1, Missing: node.Type()}
	}
	if node.Type() == "ERROR" {
		pos := node.StartPoint()
		return &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column) + 1, Snippet: snippet(node.Content(content))}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstSyntaxError(child, content); found != nil {
			return found
		}
	}

	// HasError was set without a locatable node; report the node itself.
	pos := node.StartPoint()
	return &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column) + 1}
}

func snippet(text string) string {
	for i, r := range text {
		if r == '\n' {
			text = text[:i]
			break
		}
	}
	if utf8.RuneCountInString(text) > snippetRunes {
		return string([]rune(text)[:snippetRunes]) + "..."
	}
	return text
}

func collectDefinitions(node *sitter.Node, content []byte, s *Structure) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "class_definition":
			if name := child.ChildByFieldName("name"); name != nil {
				s.Classes = append(s.Classes, name.Content(content))
			}
		case "function_definition":
			if name := child.ChildByFieldName("name"); name != nil {
				s.Functions = append(s.Functions, name.Content(content))
			}
		}
		collectDefinitions(child, content, s)
	}
}
