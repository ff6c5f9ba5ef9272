// Package service exposes the engine to callers: metamodel registration,
// constraint CRUD backed by the persistent store, syntax checking and the
// model-level validation entry points.
package service
