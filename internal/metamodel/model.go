package metamodel

// ModelElement is one node of an instance graph. It instantiates the
// metaclass identified by MetaClassID.
//
// Style holds the flat attribute-value map. References maps a reference
// name to the ids of its targets: a nil or absent entry means the reference
// is unset, a one-element slice a single target, a longer slice an ordered
// multi-valued reference. Whether a reference is single- or multi-valued is
// decided by its MetaReference cardinality, not by the stored shape.
type ModelElement struct {
	ID          string              `json:"id" yaml:"id"`
	MetaClassID string              `json:"metaClass" yaml:"metaClass"`
	Style       map[string]any      `json:"style,omitempty" yaml:"style,omitempty"`
	References  map[string][]string `json:"references,omitempty" yaml:"references,omitempty"`
}

// RefTargets returns the target ids of a reference, or nil when unset.
func (e *ModelElement) RefTargets(name string) []string {
	if e.References == nil {
		return nil
	}
	return e.References[name]
}

// Model is a set of elements conforming to one metamodel.
type Model struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name,omitempty" yaml:"name,omitempty"`
	MetamodelID string          `json:"metamodel" yaml:"metamodel"`
	Elements    []*ModelElement `json:"elements" yaml:"elements"`
}

// ElementByID resolves an element id within the model, nil when absent.
func (m *Model) ElementByID(id string) *ModelElement {
	for _, el := range m.Elements {
		if el.ID == id {
			return el
		}
	}
	return nil
}
