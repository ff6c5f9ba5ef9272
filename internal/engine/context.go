package engine

import (
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/ocl"
)

// BuildContext materializes a model element into the evaluable context
// consumed by the expression evaluator: attribute values flattened into
// properties, references resolved into nested contexts (single-valued) or
// ordered collections of contexts (multi-valued), and the metaclass name as
// the context's type tag.
//
// Built contexts are memoized by element id within one call tree, so
// reference cycles resolve to the shared, already-built context instead of
// recursing forever.
func BuildContext(el *metamodel.ModelElement, model *metamodel.Model, mm *metamodel.Metamodel) *ocl.ObjectVal {
	b := &contextBuilder{model: model, mm: mm, memo: make(map[string]*ocl.ObjectVal)}
	return b.build(el)
}

type contextBuilder struct {
	model *metamodel.Model
	mm    *metamodel.Metamodel
	memo  map[string]*ocl.ObjectVal
}

func (b *contextBuilder) build(el *metamodel.ModelElement) *ocl.ObjectVal {
	if obj, ok := b.memo[el.ID]; ok {
		return obj
	}

	class := b.mm.ClassByID(el.MetaClassID)
	typeName := el.MetaClassID
	if class != nil {
		typeName = class.Name
	}
	obj := &ocl.ObjectVal{TypeName: typeName, Props: make(map[string]ocl.Value)}
	// memoize before descending so cycles resolve to this object
	b.memo[el.ID] = obj

	for name, raw := range el.Style {
		obj.Props[name] = convertValue(raw)
	}

	if class != nil {
		for _, ref := range b.referencesOf(class) {
			obj.Props[ref.Name] = b.buildReference(el, ref)
		}
	}
	return obj
}

// referencesOf collects the reference definitions of a class including the
// ones inherited from its ancestors. A declaration on the class shadows an
// inherited one of the same name. Traversal is bounded by a visited set.
func (b *contextBuilder) referencesOf(class *metamodel.MetaClass) []*metamodel.MetaReference {
	var out []*metamodel.MetaReference
	seen := make(map[string]bool)
	visited := make(map[string]bool)

	var walk func(c *metamodel.MetaClass)
	walk = func(c *metamodel.MetaClass) {
		if visited[c.ID] {
			return
		}
		visited[c.ID] = true
		for i := range c.References {
			ref := &c.References[i]
			if !seen[ref.Name] {
				seen[ref.Name] = true
				out = append(out, ref)
			}
		}
		for _, superID := range c.SuperTypes {
			if super := b.mm.ClassByID(superID); super != nil {
				walk(super)
			}
		}
	}
	walk(class)
	return out
}

func (b *contextBuilder) buildReference(el *metamodel.ModelElement, ref *metamodel.MetaReference) ocl.Value {
	targets := el.RefTargets(ref.Name)
	if targets == nil {
		// unset reference, regardless of cardinality
		return ocl.VoidVal{}
	}

	if ref.Cardinality.IsMany() {
		coll := make(ocl.CollectionVal, 0, len(targets))
		for _, id := range targets {
			if target := b.model.ElementByID(id); target != nil {
				coll = append(coll, b.build(target))
			}
		}
		return coll
	}

	if len(targets) == 0 {
		return ocl.VoidVal{}
	}
	target := b.model.ElementByID(targets[0])
	if target == nil {
		return ocl.VoidVal{}
	}
	return b.build(target)
}

// convertValue maps a raw attribute value onto the evaluator's value types.
// Slices become collections so attribute-level arrays expose the same
// collection operations as multi-valued references; maps become untyped
// nested contexts.
func convertValue(raw any) ocl.Value {
	switch v := raw.(type) {
	case nil:
		return ocl.VoidVal{}
	case bool:
		return ocl.BoolVal(v)
	case string:
		return ocl.StringVal(v)
	case float64:
		return ocl.NumberVal(v)
	case float32:
		return ocl.NumberVal(v)
	case int:
		return ocl.NumberVal(v)
	case int64:
		return ocl.NumberVal(v)
	case []any:
		coll := make(ocl.CollectionVal, 0, len(v))
		for _, el := range v {
			coll = append(coll, convertValue(el))
		}
		return coll
	case map[string]any:
		props := make(map[string]ocl.Value, len(v))
		for k, el := range v {
			props[k] = convertValue(el)
		}
		return &ocl.ObjectVal{Props: props}
	default:
		return ocl.VoidVal{}
	}
}
