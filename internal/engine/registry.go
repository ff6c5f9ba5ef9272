package engine

import (
	"log/slog"

	"github.com/micss-lab/SpatialDSLStudio-sub001/internal/metamodel"
)

// PropertyDescriptor describes an attribute as seen by the evaluator.
type PropertyDescriptor struct {
	Type metamodel.AttributeType
	Many bool
}

// ReferenceDescriptor describes a reference property: the target type name
// and whether the reference is multi-valued.
type ReferenceDescriptor struct {
	Target string
	Many   bool
}

// TypeDescriptor is the evaluator-facing projection of one metaclass.
type TypeDescriptor struct {
	Name       string
	Attributes map[string]PropertyDescriptor
	References map[string]ReferenceDescriptor
	Supertypes []string // superclass names
}

// TypeRegistry projects metamodels into type descriptors. It is an explicit
// value owned by the validation session; tests create their own registries
// and never share state.
//
// Registration is idempotent per metamodel id: registering the same id twice
// is a no-op.
type TypeRegistry struct {
	log        *slog.Logger
	registered map[string]bool
	types      map[string]map[string]*TypeDescriptor // metamodel id -> class name -> descriptor
}

// NewTypeRegistry creates an empty registry. A nil logger defaults to
// slog.Default().
func NewTypeRegistry(log *slog.Logger) *TypeRegistry {
	if log == nil {
		log = slog.Default()
	}
	return &TypeRegistry{
		log:        log,
		registered: make(map[string]bool),
		types:      make(map[string]map[string]*TypeDescriptor),
	}
}

// Register builds type descriptors for every class of the metamodel.
//
// Duplicate class names are tolerated defensively: the first declaration
// wins, later ones are skipped with a log entry. Unresolved superclass or
// reference-target ids abort this registration with a RegistrationError;
// previously registered metamodels are unaffected.
func (r *TypeRegistry) Register(mm *metamodel.Metamodel) error {
	if r.registered[mm.ID] {
		r.log.Debug("metamodel already registered", "metamodel", mm.ID)
		return nil
	}

	byName := make(map[string]*TypeDescriptor, len(mm.Classes))
	for _, class := range mm.Classes {
		if _, dup := byName[class.Name]; dup {
			r.log.Warn("duplicate class name, skipping",
				"metamodel", mm.ID, "class", class.Name)
			continue
		}
		desc, err := r.describe(mm, class)
		if err != nil {
			r.log.Error("metamodel registration failed",
				"metamodel", mm.ID, "class", class.Name, "err", err)
			return err
		}
		byName[class.Name] = desc
	}

	r.types[mm.ID] = byName
	r.registered[mm.ID] = true
	r.log.Info("metamodel registered", "metamodel", mm.ID, "classes", len(byName))
	return nil
}

func (r *TypeRegistry) describe(mm *metamodel.Metamodel, class *metamodel.MetaClass) (*TypeDescriptor, error) {
	desc := &TypeDescriptor{
		Name:       class.Name,
		Attributes: make(map[string]PropertyDescriptor, len(class.Attributes)),
		References: make(map[string]ReferenceDescriptor, len(class.References)),
	}
	for _, a := range class.Attributes {
		desc.Attributes[a.Name] = PropertyDescriptor{Type: a.Type, Many: a.MultiValued}
	}
	for _, ref := range class.References {
		target := mm.ClassByID(ref.TargetID)
		if target == nil {
			return nil, &RegistrationError{
				Code:        ErrCodeUnresolvedTarget,
				Message:     "reference " + ref.Name + " targets unknown class " + ref.TargetID,
				MetamodelID: mm.ID,
				ClassID:     class.ID,
			}
		}
		desc.References[ref.Name] = ReferenceDescriptor{
			Target: target.Name,
			Many:   ref.Cardinality.IsMany(),
		}
	}
	for _, superID := range class.SuperTypes {
		super := mm.ClassByID(superID)
		if super == nil {
			return nil, &RegistrationError{
				Code:        ErrCodeClassNotFound,
				Message:     "superclass " + superID + " not found",
				MetamodelID: mm.ID,
				ClassID:     class.ID,
			}
		}
		desc.Supertypes = append(desc.Supertypes, super.Name)
	}
	return desc, nil
}

// Registered reports whether a metamodel id has been registered.
func (r *TypeRegistry) Registered(metamodelID string) bool {
	return r.registered[metamodelID]
}

// Descriptor returns the type descriptor for a class name, nil when the
// metamodel or class is unknown.
func (r *TypeRegistry) Descriptor(metamodelID, className string) *TypeDescriptor {
	return r.types[metamodelID][className]
}

// Invalidate removes a registration so the metamodel can be registered
// again after its content changed.
func (r *TypeRegistry) Invalidate(metamodelID string) {
	delete(r.registered, metamodelID)
	delete(r.types, metamodelID)
}

// Reregister refreshes the descriptors after a metamodel edit.
func (r *TypeRegistry) Reregister(mm *metamodel.Metamodel) error {
	r.Invalidate(mm.ID)
	return r.Register(mm)
}
