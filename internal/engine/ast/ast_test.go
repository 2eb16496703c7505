package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var intType = &TypeRef{Text: "int", Name: "int"}

type fixture struct {
	prog    *Program
	pkg     *Package
	example *Type
	inner   *Type
	field   *Field
	method  *Method
	counter *LocalVar
	loop    *While
}

// newFixture builds
//
//	package com;
//	class Example {
//	    int x;
//	    void m() {
//	        int i = 0;
//	        while (i < x) {
//	            x++;
//	            i++;
//	        }
//	    }
//	    class Inner {}
//	}
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{prog: NewProgram()}
	f.pkg = f.prog.EnsurePackage("com")
	f.example = &Type{Name: "Example", Kind: KindClass, Visibility: Default}
	f.pkg.AddType(f.example)

	f.field = &Field{Name: "x", Visibility: Default, Type: intType.Clone()}
	f.example.AddMember(f.field)

	f.counter = NewLocalVar("i", intType.Clone(), NewLiteral(LitInt, "0"))
	f.loop = NewWhile(
		NewBinary("<", NewName("i", f.counter), NewName("x", f.field)),
		NewBlock(
			NewExprStmt(NewUnary("++", true, NewName("x", f.field))),
			NewExprStmt(NewUnary("++", true, NewName("i", f.counter))),
		),
	)
	f.method = &Method{Name: "m", Visibility: Default, Return: &TypeRef{Text: "void", Name: "void"}}
	f.method.SetBody(NewBlock(f.counter, f.loop))
	f.example.AddMember(f.method)

	f.inner = &Type{Name: "Inner", Kind: KindClass, Visibility: Default}
	f.example.AddMember(f.inner)
	return f
}

func TestAncestors_ClosestFirst(t *testing.T) {
	f := newFixture(t)

	chain := AncestorChain(f.loop)
	require.Len(t, chain, 6)
	assert.Same(t, f.loop, chain[0])
	assert.Same(t, f.method.Body, chain[1])
	assert.Same(t, f.method, chain[2])
	assert.Same(t, f.example, chain[3])
	assert.Same(t, f.pkg, chain[4])
	assert.Same(t, f.prog.Root, chain[5])
}

func TestCommonAncestor(t *testing.T) {
	f := newFixture(t)
	refs := collectRefs(f.method, f.field)
	require.Len(t, refs, 2)

	t.Run("refs in one method", func(t *testing.T) {
		got := CommonAncestor(refs[0], refs[1:])
		assert.Same(t, f.loop, got)
	})

	t.Run("includes the node itself", func(t *testing.T) {
		got := CommonAncestor(f.method, []Node{f.method.Body})
		assert.Same(t, f.method, got)
	})

	t.Run("nested type and outer member", func(t *testing.T) {
		got := CommonAncestor(Node(f.inner), []Node{f.field})
		assert.Same(t, f.example, got)
	})

	t.Run("no others", func(t *testing.T) {
		got := CommonAncestor[Node](f.field, nil)
		assert.Same(t, f.field, got)
	})

	t.Run("disjoint trees", func(t *testing.T) {
		other := NewProgram()
		got := CommonAncestor(Node(f.field), []Node{other.Root})
		assert.Nil(t, got)
	})
}

func TestEnclosingHelpers(t *testing.T) {
	f := newFixture(t)
	ref := collectRefs(f.method, f.field)[0]

	assert.Same(t, f.method, EnclosingMember(ref))
	assert.Same(t, f.example, DeclaringType(f.method))
	assert.Same(t, f.example, EnclosingType(ref))
	assert.Same(t, f.example, EnclosingType(f.inner))
	assert.Same(t, f.example, TopLevelType(f.inner))
	assert.Same(t, f.pkg, EnclosingPackage(ref))
	assert.Same(t, f.prog.Root, RootPackage(ref))
	assert.Equal(t, "com.Example.Inner", f.inner.QualifiedName())
}

func TestStatementNeighbours(t *testing.T) {
	f := newFixture(t)

	prev, ok := PreviousStatement(f.loop)
	require.True(t, ok)
	assert.Same(t, f.counter, prev)

	_, ok = PreviousStatement(f.counter)
	assert.False(t, ok)

	assert.Empty(t, NextStatements(f.loop))
	assert.Equal(t, []Stmt{f.loop}, NextStatements(f.counter))
	assert.Len(t, EffectiveStatements(f.loop.Body), 2)
}

func TestIndex_ReferencesAndWrites(t *testing.T) {
	f := newFixture(t)
	idx := NewIndex(f.prog)

	assert.Len(t, idx.References(f.field), 2)
	assert.Len(t, idx.Writes(f.field), 1)
	assert.Len(t, idx.References(f.counter), 2)
	assert.Contains(t, idx.Decls(), Decl(f.field))
	assert.True(t, HasAnyUsesIn(f.counter, f.loop.Body, nil))
	assert.False(t, HasAnyUsesIn(f.counter, f.loop.Body, func(r Ref) bool { return !IsWrite(r) }))
}

func TestClone_RemapsDeclarations(t *testing.T) {
	f := newFixture(t)
	c := NewCloner()

	counter := Clone(c, f.counter)
	loop := Clone(c, f.loop)

	assert.Nil(t, counter.Parent())
	assert.Nil(t, loop.Parent())
	assert.NotSame(t, f.counter, counter)

	for ref := range Preorder[*Name](loop) {
		switch ref.Name {
		case "i":
			assert.Same(t, counter, ref.Decl)
		case "x":
			assert.Same(t, f.field, ref.Decl)
		}
	}

	// the source tree is untouched
	assert.Same(t, f.method.Body, f.loop.Parent())
	assert.Len(t, NewIndex(f.prog).References(f.counter), 2)
}

func TestRender(t *testing.T) {
	f := newFixture(t)
	c := NewCloner()
	counter := Clone(c, f.counter)
	body := Clone(c, f.loop.Body.(*Block))
	update := body.Remove(1)
	loop := NewFor([]Stmt{counter}, Clone(c, f.loop.Cond), []Stmt{update}, body)

	want := "for (int i = 0; i < x; i++) {\n    x++;\n}"
	assert.Equal(t, want, Render(loop))
	assert.Equal(t, "{\n}", Render(NewBlock()))
	assert.Equal(t, "for (;;) {\n}", Render(NewFor(nil, nil, nil, NewBlock())))
}

func TestTypeOf(t *testing.T) {
	f := newFixture(t)
	arr := &LocalVar{Name: "a", Type: &TypeRef{Text: "int[]", Name: "int", Dims: 1}}

	assert.Equal(t, "int", TypeOf(NewName("x", f.field)).Name)
	assert.Equal(t, "int", TypeOf(NewFieldAccess(NewName("a", arr), "length", nil)).Text)
	assert.Equal(t, "int", TypeOf(NewArrayAccess(NewName("a", arr), NewLiteral(LitInt, "0"))).Text)
	assert.Equal(t, "String", TypeOf(NewLiteral(LitString, `"s"`)).Name)
	assert.Nil(t, TypeOf(NewName("y", nil)))
}

func collectRefs(root Node, d Decl) []Ref {
	var out []Ref
	for ref := range Preorder[Ref](root) {
		if ref.Target() == d {
			out = append(out, ref)
		}
	}
	return out
}
