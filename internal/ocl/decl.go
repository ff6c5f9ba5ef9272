package ocl

import (
	"fmt"
	"regexp"
	"strings"
)

// declPattern matches `context <Class> inv [<Name>]: <body>`.
var declPattern = regexp.MustCompile(`^\s*context\s+(\w+)\s+inv\s*(\w*)\s*:\s*([\s\S]*)$`)

// ConstraintDecl is a parsed constraint declaration.
type ConstraintDecl struct {
	ContextClass  string
	InvariantName string
	Body          string
	BodyExpr      Expr
}

// HasContextDecl reports whether text starts with a context declaration.
func HasContextDecl(text string) bool {
	return declPattern.MatchString(text)
}

// WrapBare wraps a bare expression in an implicit context declaration for
// the given class. Text already carrying a declaration passes through.
func WrapBare(className, text string) string {
	if HasContextDecl(text) {
		return text
	}
	return fmt.Sprintf("context %s inv: %s", className, text)
}

// ExtractBody strips a leading context declaration, returning just the
// invariant body. Text without a declaration is returned unchanged.
func ExtractBody(text string) string {
	if m := declPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[3])
	}
	return strings.TrimSpace(text)
}

// ParseDecl parses a full constraint declaration including its body.
func ParseDecl(text string) (*ConstraintDecl, error) {
	m := declPattern.FindStringSubmatch(text)
	if m == nil {
		return nil, &ParseError{Pos: 0, Message: "expected 'context <Class> inv: <expression>'"}
	}
	body := strings.TrimSpace(m[3])
	if body == "" {
		return nil, &ParseError{Pos: 0, Message: "empty invariant body"}
	}
	expr, err := ParseExpression(body)
	if err != nil {
		return nil, err
	}
	return &ConstraintDecl{
		ContextClass:  m[1],
		InvariantName: m[2],
		Body:          body,
		BodyExpr:      expr,
	}, nil
}
