package ocl

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a sealed interface over the evaluator's value types.
// Only VoidVal, BoolVal, NumberVal, StringVal, CollectionVal and *ObjectVal
// implement it.
type Value interface {
	oclValue() // sealed
}

// VoidVal is the explicit "void" marker. Absent attributes, unset or
// unresolved references and the null literal all evaluate to VoidVal, so
// expressions testing for absence behave the same regardless of which kind
// of absence produced it.
type VoidVal struct{}

func (VoidVal) oclValue() {}

// BoolVal is a boolean value.
type BoolVal bool

func (BoolVal) oclValue() {}

// NumberVal is a numeric value. OCL Integer and Real collapse onto float64,
// matching the numeric model of the editing layer.
type NumberVal float64

func (NumberVal) oclValue() {}

// StringVal is a string value.
type StringVal string

func (StringVal) oclValue() {}

// CollectionVal is an ordered sequence of values.
type CollectionVal []Value

func (CollectionVal) oclValue() {}

// ObjectVal is the evaluable context of one model element: its attribute
// values plus resolved references, tagged with the metaclass name.
//
// ObjectVal is always handled by pointer so that a memoized context can be
// shared across reference cycles; object equality is identity.
type ObjectVal struct {
	TypeName string
	Props    map[string]Value
}

func (*ObjectVal) oclValue() {}

// Prop returns a property value, VoidVal when absent.
func (o *ObjectVal) Prop(name string) Value {
	if v, ok := o.Props[name]; ok {
		return v
	}
	return VoidVal{}
}

// IsVoid reports whether v is the void marker.
func IsVoid(v Value) bool {
	_, ok := v.(VoidVal)
	return ok
}

// Equal compares two values. Numbers, strings and booleans compare by value,
// collections element-wise, objects by identity, void equals void.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case VoidVal:
		return IsVoid(b)
	case BoolVal:
		bv, ok := b.(BoolVal)
		return ok && av == bv
	case NumberVal:
		bv, ok := b.(NumberVal)
		return ok && av == bv
	case StringVal:
		bv, ok := b.(StringVal)
		return ok && av == bv
	case CollectionVal:
		bv, ok := b.(CollectionVal)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *ObjectVal:
		bv, ok := b.(*ObjectVal)
		return ok && av == bv
	default:
		return false
	}
}

// TypeName describes a value's type for diagnostics.
func TypeName(v Value) string {
	switch tv := v.(type) {
	case VoidVal:
		return "OclVoid"
	case BoolVal:
		return "Boolean"
	case NumberVal:
		return "Number"
	case StringVal:
		return "String"
	case CollectionVal:
		return "Collection"
	case *ObjectVal:
		return tv.TypeName
	default:
		return fmt.Sprintf("%T", v)
	}
}

// Format renders a value for messages and reports.
func Format(v Value) string {
	switch tv := v.(type) {
	case VoidVal:
		return "null"
	case BoolVal:
		return strconv.FormatBool(bool(tv))
	case NumberVal:
		return strconv.FormatFloat(float64(tv), 'g', -1, 64)
	case StringVal:
		return "'" + string(tv) + "'"
	case CollectionVal:
		parts := make([]string, len(tv))
		for i, e := range tv {
			parts[i] = Format(e)
		}
		return "Sequence{" + strings.Join(parts, ", ") + "}"
	case *ObjectVal:
		return tv.TypeName
	default:
		return fmt.Sprintf("%v", v)
	}
}
