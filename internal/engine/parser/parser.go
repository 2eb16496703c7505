package parser

import (
	"bytes"
	"idiomlint/internal/core/errors"
	"idiomlint/internal/engine/ast"
	"idiomlint/internal/shared/observability"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Parser struct {
	loader *GrammarLoader
	pools  map[string]*GrammarPool
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader: loader,
		pools:  make(map[string]*GrammarPool),
	}
	for _, spec := range defaultLanguages {
		if lang, ok := loader.Language(spec.Name); ok {
			p.pools[spec.Name] = NewGrammarPool(lang)
		}
	}
	return p
}

// ParseFile converts one source file into a compilation unit. Files with
// syntax errors are still converted; the unit records that it has errors.
// ParseFile is safe for concurrent use.
func (p *Parser) ParseFile(path string, content []byte) (*ast.CompilationUnit, error) {
	lang := p.loader.LanguageForPath(path)
	if lang == "" {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "unsupported language"), errors.CtxPath, path)
	}
	pool := p.pools[lang]
	if pool == nil {
		return nil, errors.Newf(errors.CodeInternal, "grammar not loaded: %s", lang)
	}

	start := time.Now()
	defer func() {
		observability.ParsingDuration.WithLabelValues(lang).Observe(time.Since(start).Seconds())
	}()

	unit := &ast.CompilationUnit{Path: path}
	ok := pool.WithTree(content, func(root *sitter.Node) {
		unit.HasErrors = root.HasError()
		NewConverter(content, unit).Program(root)
	})
	if !ok {
		return nil, errors.AddContext(errors.New(errors.CodeInternal, "parse failed"), errors.CtxPath, path)
	}
	return unit, nil
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.loader.LanguageForPath(path) != ""
}

func (p *Parser) SupportedExtensions() []string {
	return p.loader.SupportedExtensions()
}

var generatedMarkers = [][]byte{
	[]byte("@Generated"),
	[]byte("@javax.annotation.Generated"),
	[]byte("@javax.annotation.processing.Generated"),
	[]byte("DO NOT EDIT"),
	[]byte("Generated by"),
	[]byte("This file was generated"),
	[]byte("<auto-generated"),
}

// generatedHeaderBytes bounds how much of a file is searched for markers.
const generatedHeaderBytes = 2048

// IsGeneratedFile reports whether content looks machine generated. Only the
// head of the file is inspected, where generators put their markers.
func IsGeneratedFile(content []byte) bool {
	head := content
	if len(head) > generatedHeaderBytes {
		head = head[:generatedHeaderBytes]
	}
	for _, marker := range generatedMarkers {
		if bytes.Contains(head, marker) {
			return true
		}
	}
	return false
}
