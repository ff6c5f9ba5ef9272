// Package metamodel defines the schema and instance data model consumed by
// the constraint validation engine.
//
// A Metamodel holds class definitions (attributes, typed references,
// inheritance) and the constraints attached to them. A Model is an instance
// graph conforming to a metamodel: each ModelElement instantiates one
// MetaClass, carries a flat attribute-value map and a reference map.
//
// The engine only reads these structures; creation and mutation belong to the
// schema/model editing layer.
package metamodel
