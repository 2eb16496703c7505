package parser

import (
	"idiomlint/internal/engine/ast"
	"testing"
)

func FuzzJavaParser(f *testing.F) {
	f.Add([]byte(`package main;
class Main {
	public static void main(String[] args) {
		int i = 0;
		while (i < args.length) { System.out.println(args[i]); i++; }
	}
}`))
	f.Add([]byte(`enum E { A, B { void m() {} }; } record R(int x) {}`))
	f.Add([]byte(`class Broken { void m( { for (;; }`))
	parser := NewParser(NewGrammarLoader())
	f.Fuzz(func(t *testing.T, data []byte) {
		unit, err := parser.ParseFile("Fuzz.java", data)
		if err != nil {
			return
		}
		prog, err := Link([]*ast.CompilationUnit{unit})
		if err != nil {
			t.Fatalf("link failed on a fresh unit: %v", err)
		}
		for n := range ast.All(prog.Root) {
			_ = ast.Render(n)
		}
	})
}
