package metamodel

// AttributeType enumerates the primitive types an attribute may carry.
type AttributeType string

const (
	TypeString  AttributeType = "string"
	TypeNumber  AttributeType = "number"
	TypeBoolean AttributeType = "boolean"
	TypeDate    AttributeType = "date"
)

// ValidAttributeTypes defines the allowed attribute types.
var ValidAttributeTypes = map[AttributeType]bool{
	TypeString:  true,
	TypeNumber:  true,
	TypeBoolean: true,
	TypeDate:    true,
}

// Unbounded marks an upper bound without limit in a Cardinality.
const Unbounded = -1

// Cardinality constrains how many targets a reference may hold.
// Upper is Unbounded (-1) for "*".
type Cardinality struct {
	Lower int `json:"lowerBound" yaml:"lowerBound"`
	Upper int `json:"upperBound" yaml:"upperBound"`
}

// IsMany reports whether the cardinality admits more than one target.
func (c Cardinality) IsMany() bool {
	return c.Upper == Unbounded || c.Upper > 1
}

// MetaAttribute is a typed attribute definition on a MetaClass.
type MetaAttribute struct {
	Name        string        `json:"name" yaml:"name"`
	Type        AttributeType `json:"type" yaml:"type"`
	Required    bool          `json:"required,omitempty" yaml:"required,omitempty"`
	MultiValued bool          `json:"multiValued,omitempty" yaml:"multiValued,omitempty"`
	Default     any           `json:"default,omitempty" yaml:"default,omitempty"`
}

// MetaReference is a typed, cardinality-constrained reference definition.
// TargetID must resolve to a class in the same metamodel.
type MetaReference struct {
	Name        string          `json:"name" yaml:"name"`
	TargetID    string          `json:"target" yaml:"target"`
	Containment bool            `json:"containment,omitempty" yaml:"containment,omitempty"`
	Cardinality Cardinality     `json:"cardinality" yaml:"cardinality"`
	OppositeID  string          `json:"opposite,omitempty" yaml:"opposite,omitempty"`
	AllowSelf   bool            `json:"allowSelf,omitempty" yaml:"allowSelf,omitempty"`
	Attributes  []MetaAttribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// MetaClass is one class definition within a metamodel.
// SuperTypes lists superclass ids; multiple inheritance is permitted.
type MetaClass struct {
	ID         string          `json:"id" yaml:"id"`
	Name       string          `json:"name" yaml:"name"`
	Abstract   bool            `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	SuperTypes []string        `json:"superTypes,omitempty" yaml:"superTypes,omitempty"`
	Attributes []MetaAttribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	References []MetaReference `json:"references,omitempty" yaml:"references,omitempty"`
}

// AttributeByName returns the attribute definition declared on this class,
// not considering inherited attributes.
func (c *MetaClass) AttributeByName(name string) *MetaAttribute {
	for i := range c.Attributes {
		if c.Attributes[i].Name == name {
			return &c.Attributes[i]
		}
	}
	return nil
}

// ReferenceByName returns the reference definition declared on this class,
// not considering inherited references.
func (c *MetaClass) ReferenceByName(name string) *MetaReference {
	for i := range c.References {
		if c.References[i].Name == name {
			return &c.References[i]
		}
	}
	return nil
}
