package ast

// Stmt is implemented by all statement nodes.
type Stmt interface {
	Node
	stmt()
}

// Loop is implemented by the four loop statements. The set is closed: a
// type switch over *While, *DoWhile, *For and *ForEach is exhaustive.
type Loop interface {
	Stmt
	LoopBody() Stmt
	loop()
}

// Block is a braced statement sequence.
type Block struct {
	nodeBase
	Stmts []Stmt
}

// Append attaches statements to the end of the block.
func (b *Block) Append(stmts ...Stmt) {
	for _, s := range stmts {
		b.Stmts = append(b.Stmts, s)
		attach(b, s)
	}
}

// Remove detaches the statement at index i.
func (b *Block) Remove(i int) Stmt {
	s := b.Stmts[i]
	b.Stmts = append(b.Stmts[:i:i], b.Stmts[i+1:]...)
	s.base().parent = nil
	return s
}

// IndexOf returns the index of s among the block's statements, or -1.
func (b *Block) IndexOf(s Stmt) int {
	for i, st := range b.Stmts {
		if st == s {
			return i
		}
	}
	return -1
}

// LocalVar declares a local variable. A declaration with several declarators
// is split into one LocalVar per variable. It also models the variable of an
// enhanced for statement.
type LocalVar struct {
	nodeBase
	Name  string
	Type  *TypeRef
	Init  Expr
	Final bool
}

func (*LocalVar) decl()                {}
func (v *LocalVar) DeclName() string   { return v.Name }
func (v *LocalVar) DeclType() *TypeRef { return v.Type }

// SetInit attaches the initializer expression.
func (v *LocalVar) SetInit(e Expr) {
	v.Init = e
	attach(v, e)
}

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	nodeBase
	X Expr
}

// If is an if statement; Else may be nil.
type If struct {
	nodeBase
	Cond Expr
	Then Stmt
	Else Stmt
}

// While is a while loop.
type While struct {
	nodeBase
	Cond Expr
	Body Stmt
}

// DoWhile is a do-while loop.
type DoWhile struct {
	nodeBase
	Body Stmt
	Cond Expr
}

// For is a basic for loop. Init holds LocalVar or ExprStmt nodes, Update
// holds ExprStmt nodes; Cond may be nil.
type For struct {
	nodeBase
	Init   []Stmt
	Cond   Expr
	Update []Stmt
	Body   Stmt
}

// ForEach is an enhanced for loop.
type ForEach struct {
	nodeBase
	Var      *LocalVar
	Iterable Expr
	Body     Stmt
}

// Return is a return statement; Result may be nil.
type Return struct {
	nodeBase
	Result Expr
}

// Break is a break statement with an optional label.
type Break struct {
	nodeBase
	Label string
}

// Continue is a continue statement with an optional label.
type Continue struct {
	nodeBase
	Label string
}

// Throw is a throw statement.
type Throw struct {
	nodeBase
	X Expr
}

// Empty is the empty statement ";".
type Empty struct {
	nodeBase
}

// OpaqueStmt is a statement the model keeps as source text (switch, try,
// synchronized, labeled statements, ...). Children holds the converted
// sub-trees so that references inside are still visible to analyses.
type OpaqueStmt struct {
	nodeBase
	Source   string
	Children []Node
}

func (*Block) stmt()      {}
func (*LocalVar) stmt()   {}
func (*ExprStmt) stmt()   {}
func (*If) stmt()         {}
func (*While) stmt()      {}
func (*DoWhile) stmt()    {}
func (*For) stmt()        {}
func (*ForEach) stmt()    {}
func (*Return) stmt()     {}
func (*Break) stmt()      {}
func (*Continue) stmt()   {}
func (*Throw) stmt()      {}
func (*Empty) stmt()      {}
func (*OpaqueStmt) stmt() {}

func (*While) loop()   {}
func (*DoWhile) loop() {}
func (*For) loop()     {}
func (*ForEach) loop() {}

func (l *While) LoopBody() Stmt   { return l.Body }
func (l *DoWhile) LoopBody() Stmt { return l.Body }
func (l *For) LoopBody() Stmt     { return l.Body }
func (l *ForEach) LoopBody() Stmt { return l.Body }
