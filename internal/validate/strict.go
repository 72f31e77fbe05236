package validate

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// The Python grammar recovers from several mistakes without producing ERROR
// nodes: Python 2 statements, unparenthesized walrus statements and layout
// the tokenizer would reject. strictError walks a clean tree and reports the
// earliest of those.
func strictError(root *sitter.Node, content []byte) *SyntaxError {
	var first *SyntaxError
	report := func(node *sitter.Node, reason string) {
		pos := node.StartPoint()
		found := &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column) + 1, Reason: reason}
		if first == nil || found.Line < first.Line || (found.Line == first.Line && found.Column < first.Column) {
			first = found
		}
	}

	walkStrict(root, content, report)
	return first
}

func walkStrict(node *sitter.Node, content []byte, report func(*sitter.Node, string)) {
	switch node.Type() {
	case "module":
		checkColumns(statements(node), 0, content, report)
	case "block":
		checkBlock(node, content, report)
	case "print_statement":
		report(node, "missing parentheses in call to 'print'")
	case "exec_statement":
		report(node, "missing parentheses in call to 'exec'")
	case "expression_statement", "assignment", "augmented_assignment":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); child.Type() == "named_expression" {
				report(child, "assignment expression must be parenthesized here")
			}
		}
	case "parameters", "lambda_parameters":
		checkBareStar(node, report)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		walkStrict(node.NamedChild(i), content, report)
	}
}

// statements returns the named children of a module or block, skipping
// extras that may sit at any column.
func statements(node *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "comment", "line_continuation":
			continue
		}
		out = append(out, child)
	}
	return out
}

func checkBlock(block *sitter.Node, content []byte, report func(*sitter.Node, string)) {
	owner := block.Parent()
	stmts := statements(block)
	if len(stmts) == 0 {
		if owner == nil {
			owner = block
		}
		report(owner, "expected an indented block")
		return
	}

	// Bodies written after the colon on the same line have no indentation.
	if !startsLine(stmts[0], content) {
		return
	}

	column := stmts[0].StartPoint().Column
	if owner != nil && column <= owner.StartPoint().Column {
		report(stmts[0], "expected an indented block")
		return
	}
	checkColumns(stmts, column, content, report)
}

// checkColumns requires every statement that begins a line to start at column.
func checkColumns(stmts []*sitter.Node, column uint32, content []byte, report func(*sitter.Node, string)) {
	for _, stmt := range stmts {
		if !startsLine(stmt, content) {
			continue
		}
		switch got := stmt.StartPoint().Column; {
		case got > column:
			report(stmt, "unexpected indent")
		case got < column:
			report(stmt, "unindent does not match any outer indentation level")
		}
	}
}

// startsLine reports whether only whitespace precedes node on its line.
func startsLine(node *sitter.Node, content []byte) bool {
	for i := int(node.StartByte()) - 1; i >= 0; i-- {
		switch content[i] {
		case '\n', '\r':
			return true
		case ' ', '\t', '\f':
			continue
		default:
			return false
		}
	}
	return true
}

// checkBareStar rejects a bare * that no keyword-only parameter follows.
func checkBareStar(params *sitter.Node, report func(*sitter.Node, string)) {
	count := int(params.NamedChildCount())
	for i := 0; i < count; i++ {
		separator := params.NamedChild(i)
		if separator.Type() != "keyword_separator" {
			continue
		}

		named := false
		for j := i + 1; j < count; j++ {
			switch params.NamedChild(j).Type() {
			case "comment", "dictionary_splat_pattern":
			default:
				named = true
			}
		}
		if !named {
			report(separator, "named arguments must follow bare *")
		}
	}
}
