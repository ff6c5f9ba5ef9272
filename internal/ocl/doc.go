// Package ocl implements the OCL invariant dialect: lexer, parser, and a
// tree-walking evaluator over contexts built from model elements.
//
// The supported surface covers boolean invariants: literals, self and
// property navigation, comparison and logical operators, arithmetic,
// if-then-else-endif, and collection operations via the arrow syntax
// (size, isEmpty, notEmpty, includes, excludes, first, last, at, sum,
// forAll, exists, select, reject, collect).
//
// Constraint declarations of the form
//
//	context <Class> inv <Name>: <body>
//
// are handled by ParseDecl/ExtractBody/WrapBare.
package ocl
