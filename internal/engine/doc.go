// Package engine implements the constraint validation engine: type
// registration for metamodels, context building for model elements,
// constraint applicability resolution across inheritance, expression syntax
// validation, constraint evaluation with dialect-confusion defense, and the
// orchestration of a full model validation pass.
//
// The engine is synchronous and stateless across passes. Shared mutable
// state is limited to the TypeRegistry, an explicit value owned by the
// validation session; independent sessions never interfere.
package engine
