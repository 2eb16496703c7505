// Package loops recognizes counter loops that are better written as a
// basic for loop and builds the replacement.
//
// A candidate is a while loop or an enhanced for loop that is directly
// preceded by the declaration of a numeric local (the counter) and whose body
// ends with the only update of that counter:
//
//	int i = 0;
//	while (i < n) {
//	    work(i);
//	    i++;
//	}
//
// becomes
//
//	for (int i = 0; i < n; i++) {
//	    work(i);
//	}
//
// The live tree is never modified. Every node of a suggestion is a clone.
package loops

import (
	"idiomlint/internal/engine/ast"
)

// Suggestion is a canonical for loop, optionally preceded by the counter
// declaration when the counter is still read after the loop.
type Suggestion struct {
	Before ast.Stmt
	Loop   *ast.For
}

// String renders the suggestion, each part on its own line.
func (s *Suggestion) String() string {
	out := "\n" + ast.Render(s.Loop)
	if s.Before != nil {
		out = "\n" + ast.Render(s.Before) + out
	}
	return out
}

// Applicable reports whether loop can be analyzed at all.
func Applicable(loop ast.Loop) bool {
	if loop == nil || loop.Implicit() || !loop.Pos().Valid() {
		return false
	}
	return loop.LoopBody() != nil
}

// Canonicalize returns the for loop equivalent to loop, or false when the
// loop does not follow the counter pattern.
func Canonicalize(loop ast.Loop) (*Suggestion, bool) {
	if !Applicable(loop) {
		return nil, false
	}
	stmts := ast.EffectiveStatements(loop.LoopBody())
	if len(stmts) == 0 {
		return nil, false
	}

	prev, ok := ast.PreviousStatement(loop)
	if !ok {
		return nil, false
	}
	counter, ok := prev.(*ast.LocalVar)
	if !ok || !counter.Type.IsPrimitiveNumeric() {
		return nil, false
	}

	update := findUpdate(stmts, counter)
	if update == nil {
		return nil, false
	}
	for _, s := range stmts {
		if s != update && ast.HasAnyUsesIn(counter, s, ast.IsWrite) {
			return nil, false
		}
	}

	bound, ok := boundFor(loop)
	if !ok {
		return nil, false
	}

	live := false
	for _, s := range ast.NextStatements(loop) {
		if ast.HasAnyUsesIn(counter, s, nil) {
			live = true
			break
		}
	}

	// the counter is cloned first so that references in the other clones
	// point at the copy
	c := ast.NewCloner()
	decl := ast.Clone(c, counter)

	var body *ast.Block
	if block, isBlock := loop.LoopBody().(*ast.Block); isBlock {
		body = ast.Clone(c, block)
		body.Remove(block.IndexOf(update))
	} else {
		body = ast.NewBlock()
	}

	cond := bound(c, decl)
	step := ast.Clone(c, update)

	var init []ast.Stmt
	var before ast.Stmt
	if live {
		before = decl
	} else {
		init = []ast.Stmt{decl}
	}
	return &Suggestion{
		Before: before,
		Loop:   ast.NewFor(init, cond, []ast.Stmt{step}, body),
	}, true
}

// findUpdate scans the body backwards for the statement that updates the
// counter. Any earlier use of the counter after the update point, or the
// absence of an update, rules the loop out.
func findUpdate(stmts []ast.Stmt, counter *ast.LocalVar) ast.Stmt {
	for i := len(stmts) - 1; i >= 0; i-- {
		s := stmts[i]
		if updates(s, counter) {
			return s
		}
		if ast.HasAnyUsesIn(counter, s, nil) {
			return nil
		}
	}
	return nil
}

// updates reports whether s is an assignment to the counter or an increment
// or decrement of it.
func updates(s ast.Stmt, counter *ast.LocalVar) bool {
	es, ok := s.(*ast.ExprStmt)
	if !ok {
		return false
	}
	var target ast.Expr
	switch x := es.X.(type) {
	case *ast.Assign:
		target = x.Lhs
	case *ast.Unary:
		if !x.IsIncDec() {
			return false
		}
		target = x.X
	default:
		return false
	}
	ref, ok := ast.Unparen(target).(*ast.Name)
	return ok && ref.Decl == ast.Decl(counter)
}

// conditionFunc builds the loop condition from clones made by c. decl is the
// cloned counter declaration.
type conditionFunc func(c *ast.Cloner, decl *ast.LocalVar) ast.Expr

// boundFor decides the condition of the replacement loop.
func boundFor(loop ast.Loop) (conditionFunc, bool) {
	switch l := loop.(type) {
	case *ast.While:
		return func(c *ast.Cloner, _ *ast.LocalVar) ast.Expr {
			if lit, ok := l.Cond.(*ast.Literal); ok && lit.IsTrue() {
				return nil
			}
			return ast.Clone(c, l.Cond)
		}, true
	case *ast.ForEach:
		return elementBound(l)
	case *ast.For, *ast.DoWhile:
	}
	return nil, false
}

// elementBound handles an enhanced for loop that only counts: the element
// variable must be unused and the iterable must expose its length.
func elementBound(l *ast.ForEach) (conditionFunc, bool) {
	if l.Var != nil && ast.HasAnyUsesIn(l.Var, l.Body, nil) {
		return nil, false
	}
	typ := ast.TypeOf(l.Iterable)
	if typ == nil {
		return nil, false
	}

	var limit func(c *ast.Cloner) ast.Expr
	if typ.IsArray() {
		limit = func(c *ast.Cloner) ast.Expr {
			return ast.NewFieldAccess(ast.Clone(c, l.Iterable), "length", nil)
		}
	} else {
		size := sizeMethod(typ)
		if size == nil {
			return nil, false
		}
		limit = func(c *ast.Cloner) ast.Expr {
			return ast.NewInvocation(ast.Clone(c, l.Iterable), size.Name, nil, size)
		}
	}
	return func(c *ast.Cloner, decl *ast.LocalVar) ast.Expr {
		return ast.NewBinary("<", ast.NewName(decl.Name, decl), limit(c))
	}, true
}

func sizeMethod(typ *ast.TypeRef) *ast.Method {
	for _, m := range typ.MethodsByName("size") {
		if len(m.Params) == 0 {
			return m
		}
	}
	return nil
}
