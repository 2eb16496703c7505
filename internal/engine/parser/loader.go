package parser

import (
	"idiomlint/internal/shared/util"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

const LanguageJava = "java"

type LanguageSpec struct {
	Name       string
	Extensions []string
}

var defaultLanguages = []LanguageSpec{
	{Name: LanguageJava, Extensions: []string{".java"}},
}

// GrammarLoader owns the compiled tree-sitter grammars. Grammars are linked
// into the binary, so loading cannot fail at runtime.
type GrammarLoader struct {
	languages  map[string]*sitter.Language
	extensions map[string]string
}

func NewGrammarLoader() *GrammarLoader {
	gl := &GrammarLoader{
		languages:  make(map[string]*sitter.Language),
		extensions: make(map[string]string),
	}
	for _, spec := range defaultLanguages {
		switch spec.Name {
		case LanguageJava:
			gl.languages[spec.Name] = sitter.NewLanguage(tree_sitter_java.Language())
		}
		for _, ext := range spec.Extensions {
			gl.extensions[strings.ToLower(ext)] = spec.Name
		}
	}
	return gl
}

// Language returns the grammar registered for lang.
func (gl *GrammarLoader) Language(lang string) (*sitter.Language, bool) {
	l, ok := gl.languages[lang]
	return l, ok
}

// LanguageForPath returns the language of a file by extension, or "".
func (gl *GrammarLoader) LanguageForPath(path string) string {
	return gl.extensions[strings.ToLower(filepath.Ext(path))]
}

func (gl *GrammarLoader) SupportedExtensions() []string {
	return util.SortedKeys(gl.extensions)
}
