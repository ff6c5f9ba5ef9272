package ocl

import (
	"math"
	"strings"
)

// env carries the evaluation state: the context object bound to self and
// iterator variable bindings.
type env struct {
	self *ObjectVal
	vars map[string]Value
}

func (e *env) child(name string, v Value) *env {
	vars := make(map[string]Value, len(e.vars)+1)
	for k, val := range e.vars {
		vars[k] = val
	}
	vars[name] = v
	return &env{self: e.self, vars: vars}
}

// Evaluate runs an expression against a context object.
// Runtime failures surface as *EvalError; they never panic.
func Evaluate(expr Expr, self *ObjectVal) (Value, error) {
	e := &env{self: self}
	return e.eval(expr)
}

// EvaluateBool runs an expression expected to yield a boolean, as invariant
// bodies are.
func EvaluateBool(expr Expr, self *ObjectVal) (bool, error) {
	v, err := Evaluate(expr, self)
	if err != nil {
		return false, err
	}
	b, ok := v.(BoolVal)
	if !ok {
		return false, evalErrorf(ErrKindTypeMismatch, "invariant must yield a Boolean, got %s", TypeName(v))
	}
	return bool(b), nil
}

func (e *env) eval(expr Expr) (Value, error) {
	switch x := expr.(type) {
	case *NumberLit:
		return NumberVal(x.Value), nil
	case *StringLit:
		return StringVal(x.Value), nil
	case *BoolLit:
		return BoolVal(x.Value), nil
	case *NullLit:
		return VoidVal{}, nil
	case *SelfRef:
		return e.self, nil
	case *Ident:
		if v, ok := e.vars[x.Name]; ok {
			return v, nil
		}
		// bare names fall back to properties of self
		if _, ok := e.self.Props[x.Name]; ok {
			return e.self.Prop(x.Name), nil
		}
		return nil, evalErrorf(ErrKindUndefinedReference, "unknown name %q", x.Name)
	case *Unary:
		return e.evalUnary(x)
	case *Binary:
		return e.evalBinary(x)
	case *If:
		return e.evalIf(x)
	case *Property:
		return e.evalProperty(x)
	case *Call:
		return e.evalCall(x)
	case *CollectionOp:
		return e.evalCollectionOp(x)
	default:
		return nil, evalErrorf(ErrKindNotCallable, "unsupported expression node %T", expr)
	}
}

func (e *env) evalUnary(x *Unary) (Value, error) {
	v, err := e.eval(x.X)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "not":
		b, ok := v.(BoolVal)
		if !ok {
			return nil, evalErrorf(ErrKindTypeMismatch, "'not' needs a Boolean, got %s", TypeName(v))
		}
		return BoolVal(!b), nil
	case "-":
		n, ok := v.(NumberVal)
		if !ok {
			return nil, evalErrorf(ErrKindTypeMismatch, "unary '-' needs a Number, got %s", TypeName(v))
		}
		return NumberVal(-n), nil
	default:
		return nil, evalErrorf(ErrKindNotCallable, "unknown unary operator %q", x.Op)
	}
}

func (e *env) evalIf(x *If) (Value, error) {
	cond, err := e.eval(x.Cond)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(BoolVal)
	if !ok {
		return nil, evalErrorf(ErrKindTypeMismatch, "if condition must be a Boolean, got %s", TypeName(cond))
	}
	if b {
		return e.eval(x.Then)
	}
	return e.eval(x.Else)
}

func (e *env) evalProperty(x *Property) (Value, error) {
	recv, err := e.eval(x.Recv)
	if err != nil {
		return nil, err
	}
	switch rv := recv.(type) {
	case *ObjectVal:
		return rv.Prop(x.Name), nil
	case VoidVal:
		// navigation over an absent reference stays void
		return VoidVal{}, nil
	default:
		return nil, evalErrorf(ErrKindMissingProperty, "%s has no property %q", TypeName(recv), x.Name)
	}
}

func (e *env) evalBinary(x *Binary) (Value, error) {
	switch x.Op {
	case "and", "or", "xor", "implies":
		return e.evalLogical(x)
	}
	left, err := e.eval(x.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(x.Right)
	if err != nil {
		return nil, err
	}
	switch x.Op {
	case "=":
		return BoolVal(Equal(left, right)), nil
	case "<>":
		return BoolVal(!Equal(left, right)), nil
	case "<", "<=", ">", ">=":
		return compare(x.Op, left, right)
	case "+":
		if ls, ok := left.(StringVal); ok {
			rs, ok := right.(StringVal)
			if !ok {
				return nil, evalErrorf(ErrKindTypeMismatch, "cannot concatenate String and %s", TypeName(right))
			}
			return ls + rs, nil
		}
		return arith(x.Op, left, right)
	case "-", "*", "/":
		return arith(x.Op, left, right)
	default:
		return nil, evalErrorf(ErrKindNotCallable, "unknown operator %q", x.Op)
	}
}

// evalLogical implements the boolean connectives with short-circuiting, so
// `self.kind = 'a' or self.kind = 'b'` does not fail when the first branch
// already decides the result.
func (e *env) evalLogical(x *Binary) (Value, error) {
	left, err := e.eval(x.Left)
	if err != nil {
		return nil, err
	}
	lb, lok := left.(BoolVal)
	if lok {
		switch {
		case x.Op == "and" && !bool(lb):
			return BoolVal(false), nil
		case x.Op == "or" && bool(lb):
			return BoolVal(true), nil
		case x.Op == "implies" && !bool(lb):
			return BoolVal(true), nil
		}
	} else {
		return nil, evalErrorf(ErrKindTypeMismatch, "%q needs Boolean operands, got %s", x.Op, TypeName(left))
	}
	right, err := e.eval(x.Right)
	if err != nil {
		return nil, err
	}
	rb, rok := right.(BoolVal)
	if !rok {
		return nil, evalErrorf(ErrKindTypeMismatch, "%q needs Boolean operands, got %s", x.Op, TypeName(right))
	}
	switch x.Op {
	case "and":
		return lb && rb, nil
	case "or":
		return lb || rb, nil
	case "implies":
		return BoolVal(!bool(lb) || bool(rb)), nil
	case "xor":
		return BoolVal(bool(lb) != bool(rb)), nil
	default:
		return nil, evalErrorf(ErrKindNotCallable, "unknown operator %q", x.Op)
	}
}

func compare(op string, left, right Value) (Value, error) {
	if ln, ok := left.(NumberVal); ok {
		rn, ok := right.(NumberVal)
		if !ok {
			return nil, evalErrorf(ErrKindTypeMismatch, "cannot compare Number with %s", TypeName(right))
		}
		return orderResult(op, float64(ln), float64(rn)), nil
	}
	if ls, ok := left.(StringVal); ok {
		rs, ok := right.(StringVal)
		if !ok {
			return nil, evalErrorf(ErrKindTypeMismatch, "cannot compare String with %s", TypeName(right))
		}
		switch {
		case ls < rs:
			return orderResult(op, -1, 0), nil
		case ls > rs:
			return orderResult(op, 1, 0), nil
		default:
			return orderResult(op, 0, 0), nil
		}
	}
	return nil, evalErrorf(ErrKindTypeMismatch, "%q is not ordered for %s", op, TypeName(left))
}

func orderResult(op string, a, b float64) BoolVal {
	switch op {
	case "<":
		return BoolVal(a < b)
	case "<=":
		return BoolVal(a <= b)
	case ">":
		return BoolVal(a > b)
	default:
		return BoolVal(a >= b)
	}
}

func arith(op string, left, right Value) (Value, error) {
	ln, ok := left.(NumberVal)
	if !ok {
		return nil, evalErrorf(ErrKindTypeMismatch, "%q needs Number operands, got %s", op, TypeName(left))
	}
	rn, ok := right.(NumberVal)
	if !ok {
		return nil, evalErrorf(ErrKindTypeMismatch, "%q needs Number operands, got %s", op, TypeName(right))
	}
	switch op {
	case "+":
		return ln + rn, nil
	case "-":
		return ln - rn, nil
	case "*":
		return ln * rn, nil
	case "/":
		if rn == 0 {
			return nil, evalErrorf(ErrKindArithmetic, "division by zero")
		}
		return ln / rn, nil
	default:
		return nil, evalErrorf(ErrKindNotCallable, "unknown operator %q", op)
	}
}

func (e *env) evalCall(x *Call) (Value, error) {
	recv, err := e.eval(x.Recv)
	if err != nil {
		return nil, err
	}
	args := make([]Value, len(x.Args))
	for i, a := range x.Args {
		if args[i], err = e.eval(a); err != nil {
			return nil, err
		}
	}

	// operations defined on every value
	switch x.Name {
	case "oclIsUndefined":
		if err := arity(x.Name, args, 0); err != nil {
			return nil, err
		}
		return BoolVal(IsVoid(recv)), nil
	}

	switch rv := recv.(type) {
	case StringVal:
		return stringCall(x.Name, rv, args)
	case NumberVal:
		return numberCall(x.Name, rv, args)
	case VoidVal:
		return nil, evalErrorf(ErrKindNotCallable, "cannot call %q on a void value", x.Name)
	default:
		return nil, evalErrorf(ErrKindNotCallable, "unknown operation %q on %s", x.Name, TypeName(recv))
	}
}

func arity(name string, args []Value, want int) error {
	if len(args) != want {
		return evalErrorf(ErrKindNotCallable, "%s expects %d argument(s), got %d", name, want, len(args))
	}
	return nil
}

func stringCall(name string, s StringVal, args []Value) (Value, error) {
	switch name {
	case "size":
		if err := arity(name, args, 0); err != nil {
			return nil, err
		}
		return NumberVal(len([]rune(string(s)))), nil
	case "concat":
		if err := arity(name, args, 1); err != nil {
			return nil, err
		}
		other, ok := args[0].(StringVal)
		if !ok {
			return nil, evalErrorf(ErrKindTypeMismatch, "concat expects a String, got %s", TypeName(args[0]))
		}
		return s + other, nil
	case "toUpper":
		if err := arity(name, args, 0); err != nil {
			return nil, err
		}
		return StringVal(strings.ToUpper(string(s))), nil
	case "toLower":
		if err := arity(name, args, 0); err != nil {
			return nil, err
		}
		return StringVal(strings.ToLower(string(s))), nil
	default:
		return nil, evalErrorf(ErrKindNotCallable, "unknown operation %q on String", name)
	}
}

func numberCall(name string, n NumberVal, args []Value) (Value, error) {
	if err := arity(name, args, 0); err != nil {
		return nil, err
	}
	switch name {
	case "abs":
		return NumberVal(math.Abs(float64(n))), nil
	case "floor":
		return NumberVal(math.Floor(float64(n))), nil
	case "round":
		return NumberVal(math.Round(float64(n))), nil
	default:
		return nil, evalErrorf(ErrKindNotCallable, "unknown operation %q on Number", name)
	}
}

// evalCollectionOp implements the arrow operations. A void receiver is
// treated as the empty collection, so `self.items->isEmpty()` holds when the
// reference was never set.
func (e *env) evalCollectionOp(x *CollectionOp) (Value, error) {
	recv, err := e.eval(x.Recv)
	if err != nil {
		return nil, err
	}
	var coll CollectionVal
	switch rv := recv.(type) {
	case CollectionVal:
		coll = rv
	case VoidVal:
		coll = CollectionVal{}
	default:
		return nil, evalErrorf(ErrKindTypeMismatch, "%q needs a collection, got %s", x.Name, TypeName(recv))
	}

	if iteratorOps[x.Name] {
		return e.evalIterator(x, coll)
	}

	args := make([]Value, len(x.Args))
	for i, a := range x.Args {
		if args[i], err = e.eval(a); err != nil {
			return nil, err
		}
	}

	switch x.Name {
	case "size":
		if err := arity(x.Name, args, 0); err != nil {
			return nil, err
		}
		return NumberVal(len(coll)), nil
	case "isEmpty":
		if err := arity(x.Name, args, 0); err != nil {
			return nil, err
		}
		return BoolVal(len(coll) == 0), nil
	case "notEmpty":
		if err := arity(x.Name, args, 0); err != nil {
			return nil, err
		}
		return BoolVal(len(coll) > 0), nil
	case "includes", "excludes":
		if err := arity(x.Name, args, 1); err != nil {
			return nil, err
		}
		found := false
		for _, el := range coll {
			if Equal(el, args[0]) {
				found = true
				break
			}
		}
		if x.Name == "includes" {
			return BoolVal(found), nil
		}
		return BoolVal(!found), nil
	case "first":
		if err := arity(x.Name, args, 0); err != nil {
			return nil, err
		}
		if len(coll) == 0 {
			return VoidVal{}, nil
		}
		return coll[0], nil
	case "last":
		if err := arity(x.Name, args, 0); err != nil {
			return nil, err
		}
		if len(coll) == 0 {
			return VoidVal{}, nil
		}
		return coll[len(coll)-1], nil
	case "at":
		if err := arity(x.Name, args, 1); err != nil {
			return nil, err
		}
		idx, ok := args[0].(NumberVal)
		if !ok {
			return nil, evalErrorf(ErrKindTypeMismatch, "at expects a Number index, got %s", TypeName(args[0]))
		}
		// OCL indices are 1-based
		i := int(idx)
		if i < 1 || i > len(coll) {
			return nil, evalErrorf(ErrKindArithmetic, "index %d out of range 1..%d", i, len(coll))
		}
		return coll[i-1], nil
	case "sum":
		if err := arity(x.Name, args, 0); err != nil {
			return nil, err
		}
		total := NumberVal(0)
		for _, el := range coll {
			n, ok := el.(NumberVal)
			if !ok {
				return nil, evalErrorf(ErrKindTypeMismatch, "sum needs Number elements, got %s", TypeName(el))
			}
			total += n
		}
		return total, nil
	default:
		return nil, evalErrorf(ErrKindNotCallable, "unknown collection operation %q", x.Name)
	}
}

func (e *env) evalIterator(x *CollectionOp, coll CollectionVal) (Value, error) {
	iterVar := x.IterVar
	eachEnv := func(el Value) *env {
		if iterVar == "" {
			// implicit iterator: body properties resolve against the element
			// when it is an object, otherwise against self as usual
			if obj, ok := el.(*ObjectVal); ok {
				return &env{self: obj, vars: e.vars}
			}
			return e
		}
		return e.child(iterVar, el)
	}

	boolBody := func(el Value) (bool, error) {
		v, err := eachEnv(el).eval(x.Body)
		if err != nil {
			return false, err
		}
		b, ok := v.(BoolVal)
		if !ok {
			return false, evalErrorf(ErrKindTypeMismatch, "%s body must yield a Boolean, got %s", x.Name, TypeName(v))
		}
		return bool(b), nil
	}

	switch x.Name {
	case "forAll":
		for _, el := range coll {
			ok, err := boolBody(el)
			if err != nil {
				return nil, err
			}
			if !ok {
				return BoolVal(false), nil
			}
		}
		return BoolVal(true), nil
	case "exists":
		for _, el := range coll {
			ok, err := boolBody(el)
			if err != nil {
				return nil, err
			}
			if ok {
				return BoolVal(true), nil
			}
		}
		return BoolVal(false), nil
	case "select", "reject":
		keepWhen := x.Name == "select"
		out := CollectionVal{}
		for _, el := range coll {
			ok, err := boolBody(el)
			if err != nil {
				return nil, err
			}
			if ok == keepWhen {
				out = append(out, el)
			}
		}
		return out, nil
	case "collect":
		out := make(CollectionVal, 0, len(coll))
		for _, el := range coll {
			v, err := eachEnv(el).eval(x.Body)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		return nil, evalErrorf(ErrKindNotCallable, "unknown iterator operation %q", x.Name)
	}
}
