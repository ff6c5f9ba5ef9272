package ocl

// Expr is a parsed expression node.
type Expr interface {
	exprNode()
	Pos() int
}

type node struct{ pos int }

func (n node) exprNode() {}
func (n node) Pos() int  { return n.pos }

// NumberLit is a numeric literal.
type NumberLit struct {
	node
	Value float64
}

// StringLit is a quoted string literal.
type StringLit struct {
	node
	Value string
}

// BoolLit is true or false.
type BoolLit struct {
	node
	Value bool
}

// NullLit is the null literal; it evaluates to VoidVal.
type NullLit struct{ node }

// SelfRef is the self keyword.
type SelfRef struct{ node }

// Ident is a bare name: an iterator variable, falling back to a property of
// self.
type Ident struct {
	node
	Name string
}

// Unary is `not x` or `-x`.
type Unary struct {
	node
	Op string
	X  Expr
}

// Binary is an infix operation.
type Binary struct {
	node
	Op    string
	Left  Expr
	Right Expr
}

// If is `if cond then a else b endif`.
type If struct {
	node
	Cond Expr
	Then Expr
	Else Expr
}

// Property is dot navigation: recv.name.
type Property struct {
	node
	Recv Expr
	Name string
}

// Call is a dot operation call: recv.name(args).
type Call struct {
	node
	Recv Expr
	Name string
	Args []Expr
}

// CollectionOp is an arrow operation: recv->name(...).
// Iterator operations (forAll, exists, select, reject, collect) carry a Body
// and an optional iterator variable; the remaining operations carry Args.
type CollectionOp struct {
	node
	Recv    Expr
	Name    string
	IterVar string
	Body    Expr
	Args    []Expr
}

// iteratorOps are the arrow operations taking `[var |] body`.
var iteratorOps = map[string]bool{
	"forAll":  true,
	"exists":  true,
	"select":  true,
	"reject":  true,
	"collect": true,
}
