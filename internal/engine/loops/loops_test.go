package loops

import (
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/engine/parser"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// method wraps body in a class with a few fields and returns the parsed and
// linked program.
func method(t *testing.T, body string) *ast.Program {
	t.Helper()
	src := `import java.util.List;
class Test {
    int n;
    int[] arr;
    List<String> list;
    void work() {}
    void run() {
` + body + `
    }
}`
	p := parser.NewParser(parser.NewGrammarLoader())
	unit, err := p.ParseFile("Test.java", []byte(src))
	require.NoError(t, err)
	require.False(t, unit.HasErrors, "fixture must parse cleanly")
	prog, err := parser.Link([]*ast.CompilationUnit{unit})
	require.NoError(t, err)
	return prog
}

func firstLoop(t *testing.T, prog *ast.Program) ast.Loop {
	t.Helper()
	for loop := range ast.Preorder[ast.Loop](prog.Root) {
		return loop
	}
	t.Fatal("no loop in fixture")
	return nil
}

func canonical(t *testing.T, body string) (*Suggestion, bool) {
	t.Helper()
	return Canonicalize(firstLoop(t, method(t, body)))
}

func TestCanonicalize_WhileFoldsCounter(t *testing.T) {
	s, ok := canonical(t, `
        int i = 0;
        while (i < n) {
            work();
            i++;
        }`)
	require.True(t, ok)
	assert.Nil(t, s.Before)
	assert.Equal(t, "for (int i = 0; i < n; i++) {\n    work();\n}", ast.Render(s.Loop))
	assert.Equal(t, "\nfor (int i = 0; i < n; i++) {\n    work();\n}", s.String())
}

func TestCanonicalize_WhileKeepsLiveCounter(t *testing.T) {
	s, ok := canonical(t, `
        int i = 0;
        while (i < n) {
            work();
            i++;
        }
        n = i;`)
	require.True(t, ok)
	require.NotNil(t, s.Before)
	assert.Equal(t, "int i = 0;", ast.Render(s.Before))
	assert.Empty(t, s.Loop.Init)
	assert.Equal(t, "\nint i = 0;\nfor (; i < n; i++) {\n    work();\n}", s.String())
}

func TestCanonicalize_WhileTrueHasNoCondition(t *testing.T) {
	s, ok := canonical(t, `
        long k = 10;
        while (true) {
            if (k > n) break;
            k += 2;
        }`)
	require.True(t, ok)
	assert.Nil(t, s.Loop.Cond)
	assert.Equal(t, "for (long k = 10;; k += 2) {\n    if (k > n)\n        break;\n}", ast.Render(s.Loop))
}

func TestCanonicalize_SingleStatementBody(t *testing.T) {
	s, ok := canonical(t, `
        int i = 0;
        while (i < n) i++;`)
	require.True(t, ok)
	assert.Empty(t, s.Loop.Body.(*ast.Block).Stmts)
	assert.Equal(t, "for (int i = 0; i < n; i++) {\n}", ast.Render(s.Loop))
}

func TestCanonicalize_ForEachOverArray(t *testing.T) {
	s, ok := canonical(t, `
        int i = 0;
        for (int e : arr) {
            work();
            i++;
        }`)
	require.True(t, ok)
	assert.Equal(t, "i < arr.length", ast.Render(s.Loop.Cond))
}

func TestCanonicalize_ForEachOverCreatedArray(t *testing.T) {
	s, ok := canonical(t, `
        int i = 0;
        for (int e : new int[3]) {
            work();
            i++;
        }`)
	require.True(t, ok)
	assert.Equal(t, "i < new int[3].length", ast.Render(s.Loop.Cond))
}

func TestCanonicalize_ForEachOverCollection(t *testing.T) {
	s, ok := canonical(t, `
        int i = 0;
        for (String e : list) {
            work();
            i++;
        }`)
	require.True(t, ok)
	cond := s.Loop.Cond.(*ast.Binary)
	assert.Equal(t, "i < list.size()", ast.Render(cond))
	size := cond.R.(*ast.Invocation)
	require.NotNil(t, size.Method)
	assert.Empty(t, size.Method.Params)
}

func TestCanonicalize_NoSuggestion(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `
        int i = 0;
        while (i < n) {}`},
		{"no counter before the loop", `
        work();
        int i = 0;
        work();
        while (i < n) { i++; }`},
		{"counter is not numeric", `
        boolean done = false;
        while (!done) { done = true; }`},
		{"counter is a reference type", `
        String s = "";
        while (s.length() < n) { s = s + "x"; }`},
		{"no update", `
        int i = 0;
        while (i < n) { work(); }`},
		{"counter used after the update", `
        int i = 0;
        while (i < n) { i++; n = i; }`},
		{"counter updated twice", `
        int i = 0;
        while (i < n) { i += 2; work(); i++; }`},
		{"parenthesized counter updated twice", `
        int i = 0;
        while (i < n) { (i)++; work(); i++; }`},
		{"parenthesized counter decremented before the update", `
        int i = 0;
        while (i < n) { --((i)); i++; }`},
		{"counter written inside a nested statement", `
        int i = 0;
        while (i < n) { if (n > 3) { i = 0; } i++; }`},
		{"element variable used", `
        int i = 0;
        for (int e : arr) { n += e; i++; }`},
		{"iterable without size", `
        int i = 0;
        for (String e : Test.names()) { i++; }`},
		{"basic for loop", `
        int i = 0;
        for (int j = 0; j < n; j++) { i++; }`},
		{"do while loop", `
        int i = 0;
        do { work(); i++; } while (i < n);`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := method(t, tt.body)
			for loop := range ast.Preorder[ast.Loop](prog.Root) {
				s, ok := Canonicalize(loop)
				assert.False(t, ok, "unexpected suggestion %v", s)
			}
		})
	}
}

func TestCanonicalize_DoesNotAliasTheTree(t *testing.T) {
	prog := method(t, `
        int i = 0;
        while (i < n) {
            work();
            i++;
        }`)
	loop := firstLoop(t, prog)
	before := ast.Render(loop)

	s, ok := Canonicalize(loop)
	require.True(t, ok)

	live := make(map[ast.Node]bool)
	for n := range ast.All(prog.Root) {
		live[n] = true
	}
	for n := range ast.All(s.Loop) {
		assert.False(t, live[n], "suggestion shares %T with the program", n)
	}
	assert.Nil(t, s.Loop.Parent())

	counter := s.Loop.Init[0].(*ast.LocalVar)
	for ref := range ast.Preorder[ast.Ref](s.Loop) {
		if ref.RefName() == "i" {
			assert.Same(t, counter, ref.Target(), "clones point at the cloned counter")
		}
	}
	assert.Equal(t, before, ast.Render(loop), "the live loop is unchanged")
}

func TestCanonicalize_Deterministic(t *testing.T) {
	prog := method(t, `
        int i = 0;
        for (String e : list) { work(); i++; }
        i--;`)
	loop := firstLoop(t, prog)
	first, ok := Canonicalize(loop)
	require.True(t, ok)
	second, ok := Canonicalize(loop)
	require.True(t, ok)
	assert.Equal(t, first.String(), second.String())
	assert.True(t, strings.HasPrefix(first.String(), "\nint i = 0;\nfor (; i < list.size(); i++)"))
}

func TestApplicable(t *testing.T) {
	assert.False(t, Applicable(nil))
	assert.False(t, Applicable(ast.NewWhile(ast.NewLiteral(ast.LitBool, "true"), ast.NewBlock())), "no position")

	loop := ast.NewWhile(ast.NewLiteral(ast.LitBool, "true"), nil)
	ast.SetPos(loop, ast.Position{File: "A.java", Line: 3, Column: 5})
	assert.False(t, Applicable(loop), "no body")

	implicit := ast.NewWhile(ast.NewLiteral(ast.LitBool, "true"), ast.NewBlock())
	ast.SetPos(implicit, ast.Position{File: "A.java", Line: 3, Column: 5})
	ast.MarkImplicit(implicit)
	assert.False(t, Applicable(implicit), "implicit")
}
