// Package harness provides conformance testing for the constraint engine.
//
// A scenario pairs a metamodel file and a model file with an expected
// validation outcome. The harness loads both, runs a full validation pass
// and checks the result against the scenario's expectations; a canonical
// JSON report supports golden-file comparison.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	metamodel: path/to/metamodel.yaml
//	model: path/to/model.yaml
//	expect:
//	  valid: false
//	  issues:
//	    - element: p1
//	      constraint: ValidAge
//	      contains: "violated"
//
// Paths are resolved relative to the scenario file. Issue expectations are
// a subset match: only the listed issues must be present, identified by
// element id and constraint name, with an optional message substring.
//
// # Deterministic Reports
//
// Issue order is deterministic (element order, then constraint order), so
// the JSON report of a scenario is stable across runs and suitable for
// golden comparison with goldie.
package harness
