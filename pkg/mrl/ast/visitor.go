package ast

// Visitor provides an interface for traversing an expression tree.
// Implement this interface to perform operations on nodes
// (field collection, rewriting checks, analysis, etc.).
type Visitor interface {
	VisitAnd(*Expr) error
	VisitOr(*Expr) error
	VisitNot(*Expr) error
	VisitComparison(*Expr) error
	VisitInSet(*Expr) error
}

// Walk traverses the expression tree depth-first, parents before children,
// calling the visitor for each node. It returns the first error encountered,
// or nil if traversal completes.
func Walk(expr *Expr, visitor Visitor) error {
	if expr == nil {
		return nil
	}

	switch expr.Type {
	case NodeAnd:
		if err := visitor.VisitAnd(expr); err != nil {
			return err
		}
		if err := Walk(expr.Left, visitor); err != nil {
			return err
		}
		return Walk(expr.Right, visitor)

	case NodeOr:
		if err := visitor.VisitOr(expr); err != nil {
			return err
		}
		if err := Walk(expr.Left, visitor); err != nil {
			return err
		}
		return Walk(expr.Right, visitor)

	case NodeNot:
		if err := visitor.VisitNot(expr); err != nil {
			return err
		}
		return Walk(expr.Child, visitor)

	case NodeComparison:
		return visitor.VisitComparison(expr)

	case NodeInSet:
		return visitor.VisitInSet(expr)
	}

	return nil
}

// Fields returns the distinct context field names referenced by the
// expression, in first-appearance order. Useful for callers that want to
// know which context keys a compiled rule will inspect.
func Fields(expr *Expr) []string {
	var fields []string
	seen := make(map[string]bool)

	collect := func(e *Expr) error {
		if !seen[e.Field] {
			seen[e.Field] = true
			fields = append(fields, e.Field)
		}
		return nil
	}

	// Walk never returns an error here since collect cannot fail.
	_ = Walk(expr, &fieldVisitor{onLeaf: collect})
	return fields
}

// fieldVisitor visits only leaf nodes and forwards them to onLeaf.
type fieldVisitor struct {
	onLeaf func(*Expr) error
}

func (v *fieldVisitor) VisitAnd(*Expr) error          { return nil }
func (v *fieldVisitor) VisitOr(*Expr) error           { return nil }
func (v *fieldVisitor) VisitNot(*Expr) error          { return nil }
func (v *fieldVisitor) VisitComparison(e *Expr) error { return v.onLeaf(e) }
func (v *fieldVisitor) VisitInSet(e *Expr) error      { return v.onLeaf(e) }
