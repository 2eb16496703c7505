package ast

// Primitive type references used when typing literals.
var literalTypes = map[LiteralKind]string{
	LitInt:    "int",
	LitLong:   "long",
	LitFloat:  "float",
	LitDouble: "double",
	LitChar:   "char",
	LitBool:   "boolean",
}

// TypeOf returns the static type of e as far as the front end resolved it,
// or nil when it is unknown.
func TypeOf(e Expr) *TypeRef {
	switch e := e.(type) {
	case *Name:
		if e.Decl != nil {
			return e.Decl.DeclType()
		}
	case *FieldAccess:
		if e.Decl != nil {
			return e.Decl.DeclType()
		}
		if e.Name == "length" {
			if t := TypeOf(e.X); t.IsArray() {
				return &TypeRef{Text: "int", Name: "int"}
			}
		}
	case *Invocation:
		if e.Method != nil {
			return e.Method.Return
		}
	case *ArrayAccess:
		return TypeOf(e.X).Element()
	case *Paren:
		return TypeOf(e.X)
	case *Cast:
		return e.Type
	case *New:
		return e.Type
	case *Assign:
		return TypeOf(e.Lhs)
	case *OpaqueExpr:
		return e.Type
	case *Literal:
		if e.Kind == LitString {
			return &TypeRef{Text: "String", Name: "String"}
		}
		if name, ok := literalTypes[e.Kind]; ok {
			return &TypeRef{Text: name, Name: name}
		}
	case *This:
		if t := EnclosingType(e); t != nil {
			if e.Super {
				return t.Superclass
			}
			return &TypeRef{Text: t.Name, Name: t.Name, Decl: t}
		}
	}
	return nil
}
