// Package visibility infers the most restrictive access level a field can
// have given every reference to it in the program.
//
// The inference looks at the closest common ancestor of the field and all of
// its references. Only a handful of ancestor shapes lead to a narrower
// result; everything else keeps the declared visibility.
package visibility

import (
	"idiomlint/internal/core/errors"
	"idiomlint/internal/engine/ast"
)

// Suggestion proposes a narrower visibility for a field.
type Suggestion struct {
	Field     *ast.Field
	Current   ast.Visibility
	Suggested ast.Visibility
}

// Applicable reports whether f is a candidate for narrowing. Fields without a
// source position, synthetic fields and private fields are skipped, as are
// interface constants and enum constants whose access level the language
// fixes.
func Applicable(f *ast.Field) bool {
	if f == nil || !f.Pos().Valid() || f.Implicit() || f.Visibility == ast.Private {
		return false
	}
	if f.EnumConstant {
		return false
	}
	if t := ast.DeclaringType(f); t != nil && (t.Kind == ast.KindInterface || t.Kind == ast.KindAnnotation) {
		return false
	}
	return true
}

// Infer returns the narrowest visibility that keeps every reference to f
// legal. A field without references is private.
func Infer(idx *ast.Index, f *ast.Field) (ast.Visibility, error) {
	refs := idx.References(f)
	common := ast.CommonAncestor(f, refs)
	if common == nil {
		return f.Visibility, errors.AddContext(
			errors.New(errors.CodeInternal, "field and its references share no ancestor"),
			errors.CtxSymbol, f.Name,
		)
	}

	if common == ast.Node(f) {
		return ast.Private, nil
	}

	switch scope := common.(type) {
	case *ast.Package:
		if !scope.IsRoot() {
			break
		}
		if ast.EnclosingPackage(f) == scope && allIn(scope, refs) {
			return ast.Default, nil
		}
		return ast.Public, nil
	case *ast.Type:
		// nested types share the accessibility boundary of their top-level type
		if scope == ast.DeclaringType(f) || scope == ast.TopLevelType(f) {
			return ast.Private, nil
		}
	}
	return f.Visibility, nil
}

func allIn(pkg *ast.Package, refs []ast.Ref) bool {
	for _, ref := range refs {
		if ast.EnclosingPackage(ref) != pkg {
			return false
		}
	}
	return true
}

// Suggest runs Infer on an applicable field and reports whether the result
// is strictly more restrictive than the declared visibility.
func Suggest(idx *ast.Index, f *ast.Field) (Suggestion, bool, error) {
	if !Applicable(f) {
		return Suggestion{}, false, nil
	}
	inferred, err := Infer(idx, f)
	if err != nil {
		return Suggestion{}, false, err
	}
	if !inferred.MoreRestrictiveThan(f.Visibility) {
		return Suggestion{}, false, nil
	}
	return Suggestion{Field: f, Current: f.Visibility, Suggested: inferred}, true, nil
}
