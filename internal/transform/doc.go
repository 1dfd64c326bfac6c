// Package transform defines the unit of work of a pipeline: a named function
// whose inputs are other functions' outputs, runtime inputs or configuration
// values, optionally gated by conditional metadata.
//
// Conditional metadata is an explicit record (kind, referenced keys and the
// literal bound-value scope from the declaration site) rather than something
// recovered from closures at runtime. The driver package uses it to decide
// which functions take part in a graph, and the configscan package reads it
// to report which configuration keys and values a module depends on.
//
// Declaring a function mirrors a decorated definition:
//
//	transform.New("trained_model", trainModel,
//		transform.Inputs("X_train", "y_train"),
//		transform.Default("n_estimators", 100),
//		transform.WhenIn(transform.Bind{"mode": []any{"training"}}),
//	)
package transform
