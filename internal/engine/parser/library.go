package parser

import (
	"idiomlint/internal/engine/ast"
	"sync"
)

// library holds stub declarations for the JDK types whose members the
// checks need to see. The stubs live in their own tree, never in an
// analyzed program, so they are not indexed or checked.
type library struct {
	byQualified map[string]*ast.Type
	bySimple    map[string]*ast.Type
}

type stubType struct {
	pkg     string
	name    string
	kind    ast.TypeKind
	extends []string
	methods []stubMethod
}

type stubMethod struct {
	name   string
	result string
}

var (
	sizeMethods   = []stubMethod{{"size", "int"}, {"isEmpty", "boolean"}}
	lengthMethods = []stubMethod{{"length", "int"}, {"isEmpty", "boolean"}}
)

var jdkStubs = []stubType{
	{pkg: "java.lang", name: "Iterable", kind: ast.KindInterface},
	{pkg: "java.lang", name: "CharSequence", kind: ast.KindInterface, methods: lengthMethods},
	{pkg: "java.lang", name: "String", kind: ast.KindClass, extends: []string{"CharSequence"}, methods: lengthMethods},
	{pkg: "java.lang", name: "StringBuilder", kind: ast.KindClass, extends: []string{"CharSequence"}, methods: lengthMethods},
	{pkg: "java.lang", name: "StringBuffer", kind: ast.KindClass, extends: []string{"CharSequence"}, methods: lengthMethods},
	{pkg: "java.util", name: "Collection", kind: ast.KindInterface, extends: []string{"Iterable"}, methods: sizeMethods},
	{pkg: "java.util", name: "List", kind: ast.KindInterface, extends: []string{"Collection"}},
	{pkg: "java.util", name: "Set", kind: ast.KindInterface, extends: []string{"Collection"}},
	{pkg: "java.util", name: "Queue", kind: ast.KindInterface, extends: []string{"Collection"}},
	{pkg: "java.util", name: "Deque", kind: ast.KindInterface, extends: []string{"Queue"}},
	{pkg: "java.util", name: "Map", kind: ast.KindInterface, methods: sizeMethods},
	{pkg: "java.util", name: "ArrayList", kind: ast.KindClass, extends: []string{"List"}},
	{pkg: "java.util", name: "LinkedList", kind: ast.KindClass, extends: []string{"List", "Deque"}},
	{pkg: "java.util", name: "Vector", kind: ast.KindClass, extends: []string{"List"}},
	{pkg: "java.util", name: "Stack", kind: ast.KindClass, extends: []string{"Vector"}},
	{pkg: "java.util", name: "HashSet", kind: ast.KindClass, extends: []string{"Set"}},
	{pkg: "java.util", name: "LinkedHashSet", kind: ast.KindClass, extends: []string{"HashSet"}},
	{pkg: "java.util", name: "TreeSet", kind: ast.KindClass, extends: []string{"Set"}},
	{pkg: "java.util", name: "ArrayDeque", kind: ast.KindClass, extends: []string{"Deque"}},
	{pkg: "java.util", name: "PriorityQueue", kind: ast.KindClass, extends: []string{"Queue"}},
	{pkg: "java.util", name: "HashMap", kind: ast.KindClass, extends: []string{"Map"}},
	{pkg: "java.util", name: "LinkedHashMap", kind: ast.KindClass, extends: []string{"HashMap"}},
	{pkg: "java.util", name: "TreeMap", kind: ast.KindClass, extends: []string{"Map"}},
}

var jdk = sync.OnceValue(newLibrary)

func newLibrary() *library {
	lib := &library{
		byQualified: make(map[string]*ast.Type),
		bySimple:    make(map[string]*ast.Type),
	}
	prog := ast.NewProgram()
	for _, stub := range jdkStubs {
		t := &ast.Type{Name: stub.name, Kind: stub.kind, Visibility: ast.Public}
		ast.MarkImplicit(t)
		for _, m := range stub.methods {
			method := &ast.Method{
				Name:       m.name,
				Visibility: ast.Public,
				Abstract:   true,
				Return:     &ast.TypeRef{Text: m.result, Name: m.result},
			}
			ast.MarkImplicit(method)
			t.AddMember(method)
		}
		prog.EnsurePackage(stub.pkg).AddType(t)
		lib.byQualified[stub.pkg+"."+stub.name] = t
		lib.bySimple[stub.name] = t
	}
	// supertypes are linked once every stub exists
	for _, stub := range jdkStubs {
		t := lib.bySimple[stub.name]
		for _, super := range stub.extends {
			ref := &ast.TypeRef{Text: super, Name: super, Decl: lib.bySimple[super]}
			if stub.kind == ast.KindClass && ref.Decl.Kind == ast.KindClass {
				t.Superclass = ref
				continue
			}
			t.Interfaces = append(t.Interfaces, ref)
		}
	}
	return lib
}

func (l *library) lookup(name string) *ast.Type {
	if t, ok := l.byQualified[name]; ok {
		return t
	}
	return l.bySimple[name]
}
