package visibility

import (
	"fmt"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/engine/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type javaFile struct {
	path string
	code string
}

func link(t *testing.T, files ...javaFile) (*ast.Program, *ast.Index) {
	t.Helper()
	p := parser.NewParser(parser.NewGrammarLoader())
	var units []*ast.CompilationUnit
	for _, f := range files {
		unit, err := p.ParseFile(f.path, []byte(f.code))
		require.NoError(t, err)
		units = append(units, unit)
	}
	prog, err := parser.Link(units)
	require.NoError(t, err)
	return prog, ast.NewIndex(prog)
}

func field(t *testing.T, prog *ast.Program, typeName, name string) *ast.Field {
	t.Helper()
	for typ := range ast.Preorder[*ast.Type](prog.Root) {
		if typ.QualifiedName() == typeName {
			if f := typ.Field(name); f != nil {
				return f
			}
		}
	}
	t.Fatalf("field %s.%s not found", typeName, name)
	return nil
}

func suggest(t *testing.T, idx *ast.Index, f *ast.Field) (ast.Visibility, bool) {
	t.Helper()
	s, ok, err := Suggest(idx, f)
	require.NoError(t, err)
	if ok {
		assert.Same(t, f, s.Field)
		assert.Equal(t, f.Visibility, s.Current)
	}
	return s.Suggested, ok
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name  string
		files []javaFile
		field [2]string
		want  ast.Visibility
		ok    bool
	}{
		{
			name:  "unreferenced field is private",
			files: []javaFile{{"A.java", "class A { int unused; }"}},
			field: [2]string{"A", "unused"},
			want:  ast.Private,
			ok:    true,
		},
		{
			name: "only self references in the initializer",
			files: []javaFile{{"A.java", `class A {
    int[] self = new int[self.length];
}`}},
			field: [2]string{"A", "self"},
			want:  ast.Private,
			ok:    true,
		},
		{
			name: "used by methods of the declaring type",
			files: []javaFile{{"p/A.java", `package p;
public class A {
    protected int count;
    void inc() { count++; }
    int get() { return this.count; }
}`}},
			field: [2]string{"p.A", "count"},
			want:  ast.Private,
			ok:    true,
		},
		{
			name: "field of a nested type used by the outer type",
			files: []javaFile{{"p/Outer.java", `package p;
class Outer {
    static class Inner { int value; }
    int read(Inner in) { return in.value; }
}`}},
			field: [2]string{"p.Outer.Inner", "value"},
			want:  ast.Private,
			ok:    true,
		},
		{
			name: "outer field used by a nested type",
			files: []javaFile{{"p/Outer.java", `package p;
class Outer {
    public int shared;
    class Inner { int twice() { return shared * 2; } }
}`}},
			field: [2]string{"p.Outer", "shared"},
			want:  ast.Private,
			ok:    true,
		},
		{
			name: "root package types share a field",
			files: []javaFile{
				{"A.java", "public class A { public int n; }"},
				{"B.java", "class B { int read(A a) { return a.n; } }"},
			},
			field: [2]string{"A", "n"},
			want:  ast.Default,
			ok:    true,
		},
		{
			name: "root package field used from another package",
			files: []javaFile{
				{"A.java", "public class A { public static int n; }"},
				{"b/B.java", "package b; class B { int read() { return A.n; } }"},
			},
			field: [2]string{"A", "n"},
		},
		{
			name: "field used across packages",
			files: []javaFile{
				{"a/A.java", "package a; public class A { public static int n; }"},
				{"b/B.java", "package b; import a.A; class B { int read() { return A.n; } }"},
			},
			field: [2]string{"a.A", "n"},
		},
		{
			name: "field used across packages keeps protected",
			files: []javaFile{
				{"a/A.java", "package a; public class A { protected static int n; }"},
				{"b/B.java", "package b; import a.A; class B { int read() { return A.n; } }"},
			},
			field: [2]string{"a.A", "n"},
		},
		{
			name: "same named package keeps the declared visibility",
			files: []javaFile{
				{"a/A.java", "package a; public class A { public static int n; }"},
				{"a/B.java", "package a; class B { int read() { return A.n; } }"},
			},
			field: [2]string{"a.A", "n"},
		},
		{
			name: "instance field shared inside a two segment package",
			files: []javaFile{
				{"com/example/A.java", "package com.example; public class A { public int x; }"},
				{"com/example/B.java", `package com.example;
class B {
    int read() { A a = new A(); return a.x; }
}`},
			},
			field: [2]string{"com.example.A", "x"},
		},
		{
			name: "field of a two segment package used only by its type",
			files: []javaFile{
				{"com/example/A.java", "package com.example; public class A { public int x; int get() { return x; } }"},
				{"com/example/B.java", "package com.example; class B { A a = new A(); }"},
			},
			field: [2]string{"com.example.A", "x"},
			want:  ast.Private,
			ok:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, idx := link(t, tt.files...)
			f := field(t, prog, tt.field[0], tt.field[1])
			got, ok := suggest(t, idx, f)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestInfer_PublicAcrossPackages(t *testing.T) {
	prog, idx := link(t,
		javaFile{"A.java", "public class A { public static int n; }"},
		javaFile{"b/B.java", "package b; class B { int read() { return A.n; } }"},
	)
	got, err := Infer(idx, field(t, prog, "A", "n"))
	require.NoError(t, err)
	assert.Equal(t, ast.Public, got)
}

func TestSuggest_Idempotent(t *testing.T) {
	prog, idx := link(t,
		javaFile{"A.java", "public class A { public int n; int own; void m() { own = n; } }"},
		javaFile{"B.java", "class B { int read(A a) { return a.n; } }"},
	)
	for _, name := range []string{"n", "own"} {
		f := field(t, prog, "A", name)
		suggested, ok := suggest(t, idx, f)
		require.True(t, ok, name)

		f.Visibility = suggested
		_, again := suggest(t, idx, f)
		assert.False(t, again, "narrowing %s twice", name)
	}
}

func TestInfer_MonotonicInSameTypeReferences(t *testing.T) {
	base := `class A {
    int n;
    int one() { return n; }
%s}`
	extra := []string{
		"",
		"    int two() { return n + n; }\n",
		"    class In { int three() { return n; } }\n    int four() { return this.n; }\n",
	}
	for _, more := range extra {
		prog, idx := link(t, javaFile{"A.java", fmt.Sprintf(base, more)})
		got, err := Infer(idx, field(t, prog, "A", "n"))
		require.NoError(t, err)
		assert.Equal(t, ast.Private, got)
	}
}

func TestApplicable(t *testing.T) {
	prog, _ := link(t, javaFile{"A.java", `class A {
    private int hidden;
    int open;
}
enum E { ONE; int state; }
interface I { int LIMIT = 1; }
record R(int x) {}
`})
	assert.False(t, Applicable(field(t, prog, "A", "hidden")), "private")
	assert.True(t, Applicable(field(t, prog, "A", "open")))
	assert.False(t, Applicable(field(t, prog, "E", "ONE")), "enum constant")
	assert.True(t, Applicable(field(t, prog, "E", "state")))
	assert.False(t, Applicable(field(t, prog, "I", "LIMIT")), "interface constant")
	assert.False(t, Applicable(field(t, prog, "R", "x")), "implicit record component")
	assert.False(t, Applicable(&ast.Field{Name: "synthetic", Visibility: ast.Public}), "no position")
	assert.False(t, Applicable(nil))
}

func TestInfer_DisconnectedTreesIsInternalError(t *testing.T) {
	owner := ast.NewProgram()
	typ := &ast.Type{Name: "A"}
	owner.Root.AddType(typ)
	f := &ast.Field{Name: "n", Visibility: ast.Public, Type: &ast.TypeRef{Text: "int", Name: "int"}}
	ast.SetPos(f, ast.Position{File: "A.java", Line: 1, Column: 1})
	typ.AddMember(f)

	other := ast.NewProgram()
	user := &ast.Type{Name: "B"}
	other.Root.AddType(user)
	use := &ast.Field{Name: "copy", Type: f.Type.Clone()}
	use.SetInit(ast.NewName("n", f))
	user.AddMember(use)

	_, err := Infer(ast.NewIndex(other), f)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInternal))

	_, ok, err := Suggest(ast.NewIndex(other), f)
	assert.False(t, ok)
	assert.Error(t, err)
}
