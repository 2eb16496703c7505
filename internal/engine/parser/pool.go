package parser

import (
	"sync"
	"sync/atomic"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// GrammarPool hands out tree-sitter parsers for one grammar. A parser is
// not safe for concurrent use, so every parse takes its own instance and
// returns it when the tree has been consumed.
type GrammarPool struct {
	lang   *sitter.Language
	idle   sync.Pool
	inUse  atomic.Int64
	parsed atomic.Int64
}

// NewGrammarPool creates a pool for lang, which must outlive the pool.
func NewGrammarPool(lang *sitter.Language) *GrammarPool {
	p := &GrammarPool{lang: lang}
	p.idle.New = func() any {
		sp := sitter.NewParser()
		sp.SetLanguage(lang)
		return sp
	}
	return p
}

// WithTree parses content and passes the root node to visit. The tree and
// its nodes are only valid inside visit. It returns false when tree-sitter
// produced no tree at all.
func (p *GrammarPool) WithTree(content []byte, visit func(root *sitter.Node)) bool {
	sp := p.idle.Get().(*sitter.Parser)
	p.inUse.Add(1)
	defer func() {
		sp.Reset()
		p.inUse.Add(-1)
		p.idle.Put(sp)
	}()

	tree := sp.Parse(content, nil)
	if tree == nil {
		return false
	}
	defer tree.Close()
	p.parsed.Add(1)

	root := tree.RootNode()
	visit(root)
	return true
}

// InUse is the number of parses in progress.
func (p *GrammarPool) InUse() int { return int(p.inUse.Load()) }

// Parsed is the number of trees produced since the pool was created.
func (p *GrammarPool) Parsed() int { return int(p.parsed.Load()) }
